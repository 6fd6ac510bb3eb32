package retrieval

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sort"
	"time"
)

// HTTPRetriever queries the external corpus search service.
// Wire contract: POST {query, top_n} -> {results: [{text, score}]}.
type HTTPRetriever struct {
	ServiceURL string
	Client     *http.Client

	// MinScore drops results below this value before the grounding gate
	// sees them. Zero keeps everything the service returns.
	MinScore float64

	logf func(format string, args ...interface{})
}

var _ Retriever = &HTTPRetriever{}

func NewHTTPRetriever(serviceURL string, timeout time.Duration, minScore float64, logf func(string, ...interface{})) *HTTPRetriever {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logf == nil {
		logf = func(string, ...interface{}) {}
	}
	return &HTTPRetriever{
		ServiceURL: serviceURL,
		Client:     &http.Client{Timeout: timeout},
		MinScore:   minScore,
		logf:       logf,
	}
}

type searchRequest struct {
	Query string `json:"query"`
	TopN  int    `json:"top_n"`
}

type searchResponse struct {
	Results []struct {
		Text  string  `json:"text"`
		Chunk string  `json:"chunk"` // older service revisions used "chunk"
		Score float64 `json:"score"`
	} `json:"results"`
}

// Search never fails: any transport or decode problem degrades to the
// empty no-match result so the pipeline can refuse instead of erroring.
func (r *HTTPRetriever) Search(ctx context.Context, query string, topN int) *Result {
	payload, err := json.Marshal(searchRequest{Query: query, TopN: topN})
	if err != nil {
		r.logf("retrieval: marshal request: %v", err)
		return EmptyResult()
	}

	req, err := http.NewRequestWithContext(ctx, "POST", r.ServiceURL+"/search", bytes.NewBuffer(payload))
	if err != nil {
		r.logf("retrieval: create request: %v", err)
		return EmptyResult()
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.Client.Do(req)
	if err != nil {
		r.logf("retrieval: search request failed: %v", err)
		return EmptyResult()
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil || resp.StatusCode != http.StatusOK {
		r.logf("retrieval: search status %d: %v", resp.StatusCode, err)
		return EmptyResult()
	}

	var decoded searchResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		r.logf("retrieval: decode response: %v", err)
		return EmptyResult()
	}

	passages := make([]Passage, 0, len(decoded.Results))
	for _, res := range decoded.Results {
		text := res.Text
		if text == "" {
			text = res.Chunk
		}
		if text == "" || res.Score < r.MinScore {
			continue
		}
		passages = append(passages, Passage{Text: text, Score: res.Score})
	}

	if len(passages) == 0 {
		return EmptyResult()
	}

	// Descending score, equal scores keep service order.
	sort.SliceStable(passages, func(i, j int) bool {
		return passages[i].Score > passages[j].Score
	})
	if topN > 0 && len(passages) > topN {
		passages = passages[:topN]
	}

	return &Result{
		Passages:  passages,
		BestScore: passages[0].Score,
	}
}
