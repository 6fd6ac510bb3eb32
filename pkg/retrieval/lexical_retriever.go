package retrieval

import (
	"context"
	"encoding/json"
	"os"
	"sort"
	"strings"
)

// CorpusDocument is one passage of the local corpus file.
type CorpusDocument struct {
	Title string `json:"title,omitempty"`
	Text  string `json:"text"`
}

// LexicalRetriever scores an in-memory corpus by token overlap between the
// query and each passage. It backs deployments without the external search
// service. Side-effect free after construction.
type LexicalRetriever struct {
	corpus []CorpusDocument
}

var _ Retriever = &LexicalRetriever{}

func NewLexicalRetriever(corpus []CorpusDocument) *LexicalRetriever {
	return &LexicalRetriever{corpus: corpus}
}

// NewLexicalRetrieverFromFile loads a JSON array of corpus documents.
// A missing or unreadable file yields an empty corpus, not an error: the
// grounding gate then refuses every query.
func NewLexicalRetrieverFromFile(path string) (*LexicalRetriever, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewLexicalRetriever(nil), nil
		}
		return nil, err
	}
	var corpus []CorpusDocument
	if err := json.Unmarshal(data, &corpus); err != nil {
		return nil, err
	}
	return NewLexicalRetriever(corpus), nil
}

func (r *LexicalRetriever) Search(_ context.Context, query string, topN int) *Result {
	if len(r.corpus) == 0 || strings.TrimSpace(query) == "" {
		return EmptyResult()
	}

	queryTokens := tokenize(query)
	if len(queryTokens) == 0 {
		return EmptyResult()
	}

	type scored struct {
		idx   int
		score float64
	}

	candidates := make([]scored, 0, len(r.corpus))
	for i, doc := range r.corpus {
		score := overlapScore(queryTokens, tokenize(doc.Text))
		if score > 0 {
			candidates = append(candidates, scored{idx: i, score: score})
		}
	}

	if len(candidates) == 0 {
		return EmptyResult()
	}

	// Descending score; ties broken by corpus insertion order.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	if topN > 0 && len(candidates) > topN {
		candidates = candidates[:topN]
	}

	passages := make([]Passage, len(candidates))
	for i, c := range candidates {
		passages[i] = Passage{Text: r.corpus[c.idx].Text, Score: c.score}
	}

	return &Result{
		Passages:  passages,
		BestScore: passages[0].Score,
	}
}

// overlapScore is the fraction of distinct query tokens present in the
// passage, in [0,1].
func overlapScore(queryTokens []string, docTokens []string) float64 {
	if len(queryTokens) == 0 {
		return 0
	}
	docSet := make(map[string]struct{}, len(docTokens))
	for _, tok := range docTokens {
		docSet[tok] = struct{}{}
	}
	seen := make(map[string]struct{}, len(queryTokens))
	hits := 0
	total := 0
	for _, tok := range queryTokens {
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		total++
		if _, ok := docSet[tok]; ok {
			hits++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}

var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"by": {}, "for": {}, "from": {}, "in": {}, "is": {}, "it": {}, "of": {},
	"on": {}, "or": {}, "the": {}, "to": {}, "what": {}, "when": {},
	"which": {}, "with": {},
}

func tokenize(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < 2 {
			continue
		}
		if _, skip := stopwords[f]; skip {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}
