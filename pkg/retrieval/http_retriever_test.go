package retrieval

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHTTPRetrieverSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("path = %q, want /search", r.URL.Path)
		}
		var req searchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Query != "miranda" || req.TopN != 3 {
			t.Errorf("request = %+v", req)
		}

		json.NewEncoder(w).Encode(map[string]interface{}{
			"results": []map[string]interface{}{
				{"text": "low relevance", "score": 0.3},
				{"text": "high relevance", "score": 0.9},
			},
		})
	}))
	defer server.Close()

	r := NewHTTPRetriever(server.URL, 5*time.Second, 0, nil)
	result := r.Search(context.Background(), "miranda", 3)

	if len(result.Passages) != 2 {
		t.Fatalf("passage count = %d, want 2", len(result.Passages))
	}
	if result.Passages[0].Text != "high relevance" {
		t.Errorf("passages not sorted by score: %+v", result.Passages)
	}
	if result.BestScore != 0.9 {
		t.Errorf("BestScore = %v, want 0.9", result.BestScore)
	}
}

func TestHTTPRetrieverLegacyChunkField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"results": []map[string]interface{}{
				{"chunk": "legacy payload", "score": 0.5},
			},
		})
	}))
	defer server.Close()

	r := NewHTTPRetriever(server.URL, 5*time.Second, 0, nil)
	result := r.Search(context.Background(), "anything", 3)

	if len(result.Passages) != 1 || result.Passages[0].Text != "legacy payload" {
		t.Errorf("legacy chunk field not honored: %+v", result.Passages)
	}
}

func TestHTTPRetrieverMinScoreFilter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"results": []map[string]interface{}{
				{"text": "keep", "score": 0.6},
				{"text": "drop", "score": 0.1},
			},
		})
	}))
	defer server.Close()

	r := NewHTTPRetriever(server.URL, 5*time.Second, 0.2, nil)
	result := r.Search(context.Background(), "anything", 3)

	if len(result.Passages) != 1 || result.Passages[0].Text != "keep" {
		t.Errorf("min score filter not applied: %+v", result.Passages)
	}
}

func TestHTTPRetrieverDegradesToEmpty(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		r := NewHTTPRetriever(server.URL, 5*time.Second, 0, nil)
		result := r.Search(context.Background(), "anything", 3)
		if len(result.Passages) != 0 || result.BestScore != NoMatchScore {
			t.Errorf("expected empty result, got %+v", result)
		}
	})

	t.Run("unreachable service", func(t *testing.T) {
		r := NewHTTPRetriever("http://127.0.0.1:1", time.Second, 0, nil)
		result := r.Search(context.Background(), "anything", 3)
		if len(result.Passages) != 0 || result.BestScore != NoMatchScore {
			t.Errorf("expected empty result, got %+v", result)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("{not json"))
		}))
		defer server.Close()

		r := NewHTTPRetriever(server.URL, 5*time.Second, 0, nil)
		result := r.Search(context.Background(), "anything", 3)
		if len(result.Passages) != 0 {
			t.Errorf("expected empty result, got %+v", result)
		}
	})
}

func TestHTTPRetrieverTopNCap(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"results": []map[string]interface{}{
				{"text": "a", "score": 0.9},
				{"text": "b", "score": 0.8},
				{"text": "c", "score": 0.7},
			},
		})
	}))
	defer server.Close()

	r := NewHTTPRetriever(server.URL, 5*time.Second, 0, nil)
	result := r.Search(context.Background(), "anything", 2)

	if len(result.Passages) != 2 {
		t.Errorf("passage count = %d, want 2", len(result.Passages))
	}
}
