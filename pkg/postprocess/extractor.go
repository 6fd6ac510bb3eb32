package postprocess

import (
	"regexp"
	"sort"
	"strings"
)

// Citation kinds
const (
	KindURL     = "url"
	KindStatute = "statute"
	KindCase    = "case"
)

// Citation is one extracted source reference.
type Citation struct {
	Kind   string `json:"type"`
	Source string `json:"source"`
}

// DefaultConfidence applies when the text carries no confidence keyword.
const DefaultConfidence = 0.75

var (
	urlPattern     = regexp.MustCompile(`https?://[^\s)]+`)
	statutePattern = regexp.MustCompile(`\d+\s+U\.S\.C\.?\s*§?\s*\d+|\d+\s+USC\s+\d+`)
	casePattern    = regexp.MustCompile(`[A-Z][a-z]+\s+v\.?\s+[A-Z][a-z]+[^,\n]*`)

	confidencePattern = regexp.MustCompile(`(?i)(High|Medium|Low).*(confidence|certainty)`)
)

// ExtractCitations scans generated text for URLs, statute references and
// case-law references. One citation per match, tagged by kind, ordered by
// first occurrence in the text, no de-duplication. Pure and total.
func ExtractCitations(text string) []Citation {
	type located struct {
		pos      int
		citation Citation
	}

	var found []located
	collect := func(kind string, re *regexp.Regexp) {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			found = append(found, located{
				pos: loc[0],
				citation: Citation{
					Kind:   kind,
					Source: strings.TrimSpace(text[loc[0]:loc[1]]),
				},
			})
		}
	}

	collect(KindURL, urlPattern)
	collect(KindStatute, statutePattern)
	collect(KindCase, casePattern)

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].pos < found[j].pos
	})

	citations := make([]Citation, len(found))
	for i, f := range found {
		citations[i] = f.citation
	}
	return citations
}

// ExtractConfidence maps the first High/Medium/Low keyword adjacent to a
// confidence or certainty mention to a score. Pure and total.
func ExtractConfidence(text string) float64 {
	match := confidencePattern.FindStringSubmatch(text)
	if match == nil {
		return DefaultConfidence
	}
	switch strings.ToLower(match[1]) {
	case "high":
		return 0.9
	case "medium":
		return 0.75
	default:
		return 0.6
	}
}
