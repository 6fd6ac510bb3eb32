package bootstrap

import (
	"context"
	"log"

	"legal-copilot-be/internal/config"
	"legal-copilot-be/internal/controller"
	"legal-copilot-be/internal/pkg/logger"
	"legal-copilot-be/internal/repository/memory"
	"legal-copilot-be/internal/repository/unitofwork"
	"legal-copilot-be/internal/service"
	"legal-copilot-be/internal/websocket"
	"legal-copilot-be/pkg/llm/factory"
	"legal-copilot-be/pkg/offline"
	"legal-copilot-be/pkg/retrieval"

	pktNats "legal-copilot-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController controller.IAuthController
	ChatController controller.IChatController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	WebSocketHub *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Generation Provider
	llmProvider, err := factory.NewProvider(cfg.Ai.Provider, factory.ProviderConfig{
		ModelName:      cfg.Ai.Model,
		BaseURL:        cfg.Ai.OllamaBaseURL,
		APIKey:         cfg.Keys.Perplexity,
		RequestTimeout: cfg.Ai.GenerationTimeout,
		ProbeTimeout:   cfg.Ai.ProbeTimeout,
	})
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.Provider, cfg.Ai.Model)

	// 4. Retriever
	var retriever retrieval.Retriever
	if cfg.Retrieval.Provider == "lexical" {
		lexical, err := retrieval.NewLexicalRetrieverFromFile(cfg.Retrieval.CorpusPath)
		if err != nil {
			log.Fatalf("[FATAL] Failed to load lexical corpus: %v", err)
		}
		retriever = lexical
		log.Printf("[INFO] Using Retriever: LEXICAL (%s)", cfg.Retrieval.CorpusPath)
	} else {
		retriever = retrieval.NewHTTPRetriever(
			cfg.Retrieval.ServiceURL,
			cfg.Retrieval.RequestTimeout,
			cfg.Retrieval.MinScore,
			log.Printf,
		)
		log.Printf("[INFO] Using Retriever: HTTP (%s)", cfg.Retrieval.ServiceURL)
	}

	// 5. In-Memory Context Cache and Offline Engine
	contextRepo := memory.NewContextRepository()
	fallbackEngine := offline.NewDefaultEngine()

	// 6. Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/events.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 7. Services
	publisherService := service.NewPublisherService(cfg.App.AnalyticsTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.App.AnalyticsTopic,
		uowFactory,
		natsPub,
	)

	authService := service.NewAuthService(uowFactory, cfg.Keys.JWTSecret)
	chatService := service.NewChatService(
		uowFactory,
		llmProvider,
		retriever,
		fallbackEngine,
		contextRepo,
		wsHub,
		publisherService,
		sysLogger,
		cfg.Ai,
		cfg.Retrieval,
	)

	// 8. Controllers
	return &Container{
		AuthController:  controller.NewAuthController(authService),
		ChatController:  controller.NewChatController(chatService),
		ConsumerService: consumerService,
		WebSocketHub:    wsHub,
	}
}
