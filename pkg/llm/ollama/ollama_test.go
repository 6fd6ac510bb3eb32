package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"legal-copilot-be/pkg/llm"
)

func TestChat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("path = %q, want /api/chat", r.URL.Path)
		}

		var req ollamaChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Stream {
			t.Error("stream must be disabled")
		}
		if req.Model != "llama3.1:8b" {
			t.Errorf("model = %q", req.Model)
		}
		if req.Options == nil || req.Options.Temperature != 0.3 {
			t.Errorf("options = %+v, want temperature 0.3", req.Options)
		}
		if len(req.Messages) != 2 || req.Messages[1].Role != "assistant" {
			t.Errorf("messages = %+v, want model role mapped to assistant", req.Messages)
		}

		json.NewEncoder(w).Encode(ollamaChatResponse{
			Model:           "llama3.1:8b",
			Message:         ollamaMessage{Role: "assistant", Content: "generated answer"},
			Done:            true,
			PromptEvalCount: 10,
			EvalCount:       20,
		})
	}))
	defer server.Close()

	p := NewOllamaProvider(server.URL, "llama3.1:8b", 5*time.Second, time.Second)
	result, err := p.Chat(context.Background(),
		[]llm.Message{
			{Role: "system", Content: "be helpful"},
			{Role: "model", Content: "earlier reply"},
		},
		llm.WithTemperature(0.3),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Content != "generated answer" {
		t.Errorf("Content = %q", result.Content)
	}
	if result.Usage.TotalTokens != 30 {
		t.Errorf("TotalTokens = %d, want 30", result.Usage.TotalTokens)
	}
}

func TestChatErrors(t *testing.T) {
	t.Run("unreachable", func(t *testing.T) {
		p := NewOllamaProvider("http://127.0.0.1:1", "m", time.Second, time.Second)
		_, err := p.Chat(context.Background(), []llm.Message{{Role: "user", Content: "q"}})
		if !errors.Is(err, llm.ErrUnreachable) {
			t.Errorf("err = %v, want ErrUnreachable", err)
		}
	})

	t.Run("bad status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		p := NewOllamaProvider(server.URL, "m", time.Second, time.Second)
		_, err := p.Chat(context.Background(), []llm.Message{{Role: "user", Content: "q"}})
		if !errors.Is(err, llm.ErrBadStatus) {
			t.Errorf("err = %v, want ErrBadStatus", err)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("{not json"))
		}))
		defer server.Close()

		p := NewOllamaProvider(server.URL, "m", time.Second, time.Second)
		_, err := p.Chat(context.Background(), []llm.Message{{Role: "user", Content: "q"}})
		if !errors.Is(err, llm.ErrMalformedResponse) {
			t.Errorf("err = %v, want ErrMalformedResponse", err)
		}
	})

	t.Run("empty content", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(ollamaChatResponse{Done: true})
		}))
		defer server.Close()

		p := NewOllamaProvider(server.URL, "m", time.Second, time.Second)
		_, err := p.Chat(context.Background(), []llm.Message{{Role: "user", Content: "q"}})
		if !errors.Is(err, llm.ErrMalformedResponse) {
			t.Errorf("err = %v, want ErrMalformedResponse", err)
		}
	})
}

func TestAvailable(t *testing.T) {
	t.Run("up", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/tags" {
				t.Errorf("path = %q, want /api/tags", r.URL.Path)
			}
			w.Write([]byte(`{"models":[]}`))
		}))
		defer server.Close()

		p := NewOllamaProvider(server.URL, "m", time.Second, time.Second)
		if !p.Available(context.Background()) {
			t.Error("expected available")
		}
	})

	t.Run("down", func(t *testing.T) {
		p := NewOllamaProvider("http://127.0.0.1:1", "m", time.Second, 200*time.Millisecond)
		if p.Available(context.Background()) {
			t.Error("expected unavailable")
		}
	})

	t.Run("error status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		p := NewOllamaProvider(server.URL, "m", time.Second, time.Second)
		if p.Available(context.Background()) {
			t.Error("expected unavailable on 503")
		}
	})
}
