package llm

import (
	"context"
	"errors"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
}

// Usage carries backend-reported token accounting
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Result is the structured output of a generation call
type Result struct {
	Content string
	Usage   Usage
	Model   string
}

// Sentinel errors so callers can distinguish failure classes.
// Every provider wraps its failures in exactly one of these.
var (
	ErrUnreachable       = errors.New("llm: backend unreachable")
	ErrBadStatus         = errors.New("llm: backend returned non-success status")
	ErrMalformedResponse = errors.New("llm: malformed or empty backend response")
)

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// BuildOptions resolves option funcs against defaults.
func BuildOptions(opts ...Option) *Options {
	options := &Options{
		Temperature: 0.7,
		MaxTokens:   2048,
	}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// Provider defines the contract for any generation backend
type Provider interface {
	// Chat sends role-tagged prompt segments to the model and returns the
	// structured result. Never returns an empty Content with a nil error.
	Chat(ctx context.Context, messages []Message, options ...Option) (*Result, error)

	// Available performs a bounded liveness probe against the backend.
	// It never returns an error; a failed probe is simply false.
	Available(ctx context.Context) bool
}
