package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Ai        AIConfig
	Retrieval RetrievalConfig
	Keys      APIKeys
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	AnalyticsTopic     string
}

type DatabaseConfig struct {
	Connection string
}

type AIConfig struct {
	Provider            string // "ollama" or "perplexity"
	Model               string
	OllamaBaseURL       string
	GenerationTimeout   time.Duration
	ProbeTimeout        time.Duration
	ResearchTemperature float64
	GuidanceTemperature float64
	MaxTokens           int
}

type RetrievalConfig struct {
	Provider           string // "http" or "lexical"
	ServiceURL         string
	CorpusPath         string
	TopN               int
	MinScore           float64
	GroundingThreshold float64
	RequestTimeout     time.Duration
}

type APIKeys struct {
	Perplexity string
	JWTSecret  string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			AnalyticsTopic:     getEnv("ANALYTICS_TOPIC", "analytics_events"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			Provider:            getEnv("LLM_PROVIDER", "ollama"),
			Model:               getEnv("LLM_MODEL", "llama3.1:8b"),
			OllamaBaseURL:       getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			GenerationTimeout:   getEnvAsDuration("GENERATION_TIMEOUT", 120*time.Second),
			ProbeTimeout:        getEnvAsDuration("PROBE_TIMEOUT", 5*time.Second),
			ResearchTemperature: getEnvAsFloat("RESEARCH_TEMPERATURE", 0.3),
			GuidanceTemperature: getEnvAsFloat("GUIDANCE_TEMPERATURE", 0.5),
			MaxTokens:           getEnvAsInt("LLM_MAX_TOKENS", 2048),
		},
		Retrieval: RetrievalConfig{
			Provider:           getEnv("RETRIEVAL_PROVIDER", "http"),
			ServiceURL:         getEnv("RETRIEVAL_SERVICE_URL", "http://localhost:5000"),
			CorpusPath:         getEnv("CORPUS_PATH", "data/corpus.json"),
			TopN:               getEnvAsInt("RETRIEVAL_TOP_N", 3),
			MinScore:           getEnvAsFloat("RETRIEVAL_MIN_SCORE", 0.2),
			GroundingThreshold: getEnvAsFloat("GROUNDING_THRESHOLD", 0.1),
			RequestTimeout:     getEnvAsDuration("RETRIEVAL_TIMEOUT", 10*time.Second),
		},
		Keys: APIKeys{
			Perplexity: getEnv("PERPLEXITY_API_KEY", ""),
			JWTSecret:  getEnv("JWT_SECRET", ""),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
