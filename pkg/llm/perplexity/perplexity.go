package perplexity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"legal-copilot-be/pkg/llm"
)

const defaultBaseURL = "https://api.perplexity.ai"

// PerplexityProvider talks to the Perplexity chat completions API.
// It is wire-compatible with the OpenAI chat schema.
type PerplexityProvider struct {
	BaseURL      string
	APIKey       string
	ModelName    string
	Client       *http.Client
	ProbeTimeout time.Duration
}

var _ llm.Provider = &PerplexityProvider{}

func NewPerplexityProvider(apiKey, modelName string, requestTimeout, probeTimeout time.Duration) *PerplexityProvider {
	if modelName == "" {
		modelName = "sonar-pro"
	}
	if requestTimeout <= 0 {
		requestTimeout = 60 * time.Second
	}
	if probeTimeout <= 0 {
		probeTimeout = 5 * time.Second
	}
	return &PerplexityProvider{
		BaseURL:   defaultBaseURL,
		APIKey:    apiKey,
		ModelName: modelName,
		Client: &http.Client{
			Timeout: requestTimeout,
		},
		ProbeTimeout: probeTimeout,
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	Stream      bool          `json:"stream"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

func (p *PerplexityProvider) Chat(ctx context.Context, messages []llm.Message, opts ...llm.Option) (*llm.Result, error) {
	options := llm.BuildOptions(opts...)

	apiMessages := make([]chatMessage, len(messages))
	for i, msg := range messages {
		role := msg.Role
		if role == "model" {
			role = "assistant"
		}
		apiMessages[i] = chatMessage{
			Role:    role,
			Content: msg.Content,
		}
	}

	model := p.ModelName
	if options.Model != "" {
		model = options.Model
	}

	reqPayload := chatRequest{
		Model:       model,
		Messages:    apiMessages,
		Temperature: options.Temperature,
		MaxTokens:   options.MaxTokens,
		Stream:      false,
	}

	payloadBytes, err := json.Marshal(reqPayload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.BaseURL+"/chat/completions", bytes.NewBuffer(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.APIKey)

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", llm.ErrUnreachable, err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", llm.ErrUnreachable, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d, body: %s", llm.ErrBadStatus, resp.StatusCode, string(bodyBytes))
	}

	var apiResp chatResponse
	if err := json.Unmarshal(bodyBytes, &apiResp); err != nil {
		return nil, fmt.Errorf("%w: %v", llm.ErrMalformedResponse, err)
	}

	if len(apiResp.Choices) == 0 || apiResp.Choices[0].Message.Content == "" {
		return nil, fmt.Errorf("%w: missing choice content", llm.ErrMalformedResponse)
	}

	resModel := apiResp.Model
	if resModel == "" {
		resModel = model
	}

	return &llm.Result{
		Content: apiResp.Choices[0].Message.Content,
		Model:   resModel,
		Usage: llm.Usage{
			PromptTokens:     apiResp.Usage.PromptTokens,
			CompletionTokens: apiResp.Usage.CompletionTokens,
			TotalTokens:      apiResp.Usage.TotalTokens,
		},
	}, nil
}

// Available probes the models endpoint with a short deadline.
// An auth error still proves the backend is reachable.
func (p *PerplexityProvider) Available(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, p.ProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, "GET", p.BaseURL+"/models", nil)
	if err != nil {
		return false
	}
	req.Header.Set("Authorization", "Bearer "+p.APIKey)

	resp, err := p.Client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode < http.StatusInternalServerError
}
