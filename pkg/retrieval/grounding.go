package retrieval

// RefusalMessage is the fixed user-visible text for ungrounded queries.
const RefusalMessage = "I could not find an answer in the provided legal documents."

// Decision is the outcome of the grounding gate.
type Decision struct {
	Grounded  bool
	BestScore float64
	Refusal   string // set only when ungrounded
}

// Decide is the grounding gate: generation may only proceed when the best
// retrieval score reaches the configured threshold. Pure function.
func Decide(result *Result, threshold float64) Decision {
	if result == nil || len(result.Passages) == 0 || result.BestScore < threshold {
		best := NoMatchScore
		if result != nil {
			best = result.BestScore
		}
		return Decision{
			Grounded:  false,
			BestScore: best,
			Refusal:   RefusalMessage,
		}
	}
	return Decision{
		Grounded:  true,
		BestScore: result.BestScore,
	}
}
