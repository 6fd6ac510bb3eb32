package retrieval

import "context"

// NoMatchScore is the sentinel best score for an empty result set.
// It sits below any configurable grounding threshold.
const NoMatchScore = -1.0

// Passage is one scored corpus excerpt.
type Passage struct {
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

// Result is the standardized retrieval shape: the scored passages plus an
// explicit best score so the grounding decision stays auditable.
type Result struct {
	Passages  []Passage
	BestScore float64
}

// EmptyResult returns the canonical no-match result.
func EmptyResult() *Result {
	return &Result{Passages: []Passage{}, BestScore: NoMatchScore}
}

// Context concatenates passage texts for prompt embedding, best first.
func (r *Result) Context() string {
	if len(r.Passages) == 0 {
		return ""
	}
	out := r.Passages[0].Text
	for _, p := range r.Passages[1:] {
		out += "\n\n" + p.Text
	}
	return out
}

// Retriever scores the corpus against a query and returns at most topN
// passages sorted by score descending. Implementations are total: an empty
// corpus or an unreachable remote service yields EmptyResult, never an error.
type Retriever interface {
	Search(ctx context.Context, query string, topN int) *Result
}
