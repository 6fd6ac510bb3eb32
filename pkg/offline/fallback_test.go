package offline

import (
	"strings"
	"testing"
)

func TestRespondKeywordMatch(t *testing.T) {
	engine := NewDefaultEngine()

	tests := []struct {
		name         string
		query        string
		wantResearch string // substring
	}{
		{"miranda keyword", "When do I read Miranda warnings?", "Miranda rights are required"},
		{"rights keyword", "What are the suspect's rights here?", "Miranda rights are required"},
		{"search keyword", "Can I search the trunk?", "Fourth Amendment"},
		{"warrant keyword", "Do I need a warrant for this?", "Fourth Amendment"},
		{"arrest keyword", "Can I arrest him now?", "Probable cause exists"},
		{"probable cause keyword", "Is this probable cause?", "Probable cause exists"},
		{"case insensitive", "MIRANDA?", "Miranda rights are required"},
		{"no match falls back to default", "How do I file my timesheet?", "offline mode with limited legal information"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := engine.Respond(tt.query)

			if !strings.Contains(res.Research, tt.wantResearch) {
				t.Errorf("Research = %q, want substring %q", res.Research, tt.wantResearch)
			}
			if res.Guidance == "" {
				t.Error("Guidance must never be empty")
			}
		})
	}
}

func TestRespondFirstRuleWins(t *testing.T) {
	// "search" appears in an earlier rule than "arrest"; a query hitting
	// both must resolve to the earlier rule.
	engine := NewDefaultEngine()

	res := engine.Respond("can I search after an arrest")
	if !strings.Contains(res.Research, "Fourth Amendment") {
		t.Errorf("expected the search rule to win, got %q", res.Research)
	}
}

func TestRespondCustomRules(t *testing.T) {
	engine := NewEngine(
		[]Rule{
			{Keywords: []string{"pursuit"}, Response: Response{Research: "pursuit research", Guidance: "pursuit guidance"}},
		},
		Response{Research: "fallback research", Guidance: "fallback guidance"},
	)

	if res := engine.Respond("vehicle pursuit policy"); res.Research != "pursuit research" {
		t.Errorf("Research = %q, want %q", res.Research, "pursuit research")
	}
	if res := engine.Respond("unrelated"); res.Guidance != "fallback guidance" {
		t.Errorf("Guidance = %q, want %q", res.Guidance, "fallback guidance")
	}
}
