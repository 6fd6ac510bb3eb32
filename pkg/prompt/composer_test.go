package prompt

import (
	"strings"
	"testing"

	"legal-copilot-be/internal/constant"
)

func TestBuildResearchMessages(t *testing.T) {
	ctx := &Context{
		Jurisdiction:     &Jurisdiction{State: "California", Locality: "Los Angeles"},
		Urgent:           true,
		RetrievedContext: "Penal Code 836 allows arrest on probable cause.",
	}

	msgs := BuildResearchMessages("Can I arrest without a warrant?", ctx)

	if len(msgs) != 2 {
		t.Fatalf("message count = %d, want 2", len(msgs))
	}
	system, user := msgs[0], msgs[1]

	if system.Role != constant.ChatMessageRoleSystem {
		t.Errorf("system role = %q", system.Role)
	}
	if !strings.HasPrefix(system.Content, constant.ResearchBasePrompt) {
		t.Error("system prompt must start with the research base prompt")
	}
	for _, want := range []string{
		"State: California",
		"Locality: Los Angeles",
		"Focus on California state law",
		"CONFIDENCE SCORING",
		"URGENT QUERY",
	} {
		if !strings.Contains(system.Content, want) {
			t.Errorf("system prompt missing %q", want)
		}
	}

	if user.Role != constant.ChatMessageRoleUser {
		t.Errorf("user role = %q", user.Role)
	}
	if !strings.Contains(user.Content, "RELEVANT LEGAL DOCUMENTS:\nPenal Code 836") {
		t.Error("user message must embed the retrieved context")
	}
	if !strings.Contains(user.Content, "QUESTION: Can I arrest without a warrant?") {
		t.Error("user message must embed the question")
	}
}

func TestBuildResearchMessagesMinimalContext(t *testing.T) {
	msgs := BuildResearchMessages("What is Terry v. Ohio?", nil)

	system, user := msgs[0], msgs[1]
	if strings.Contains(system.Content, "JURISDICTION CONTEXT") {
		t.Error("no jurisdiction clause expected without a jurisdiction")
	}
	if strings.Contains(system.Content, "URGENT QUERY") {
		t.Error("no urgency clause expected for non-urgent query")
	}
	if !strings.Contains(system.Content, "CONFIDENCE SCORING") {
		t.Error("confidence clause must always be present")
	}
	if user.Content != "What is Terry v. Ohio?" {
		t.Errorf("bare question expected without retrieved context, got %q", user.Content)
	}
}

func TestBuildGuidanceMessages(t *testing.T) {
	ctx := &Context{
		Jurisdiction: &Jurisdiction{State: "Texas", Locality: "Austin"},
		Department:   &Department{Name: "Austin PD", Policies: map[string]interface{}{"pursuit": "restricted"}},
		UserRole:     "sergeant",
	}
	research := "Research output with statutes."

	msgs := BuildGuidanceMessages("Should I pursue?", research, ctx)

	if len(msgs) != 2 {
		t.Fatalf("message count = %d, want 2", len(msgs))
	}
	system, user := msgs[0], msgs[1]

	if !strings.HasPrefix(system.Content, constant.GuidanceBasePrompt) {
		t.Error("system prompt must start with the guidance base prompt")
	}
	for _, want := range []string{
		"Department: Austin PD",
		`"pursuit":"restricted"`,
		"Operating under Texas state law in Austin",
		"guidance to sergeant level officer",
	} {
		if !strings.Contains(system.Content, want) {
			t.Errorf("system prompt missing %q", want)
		}
	}

	if !strings.Contains(user.Content, "LEGAL RESEARCH FINDINGS:\nResearch output with statutes.") {
		t.Error("user message must embed the research output verbatim")
	}
	if !strings.Contains(user.Content, "OFFICER QUESTION: Should I pursue?") {
		t.Error("user message must embed the question")
	}
}

func TestBuildGuidanceMessagesMinimalContext(t *testing.T) {
	msgs := BuildGuidanceMessages("q", "r", nil)

	system := msgs[0]
	for _, absent := range []string{"DEPARTMENT CONTEXT", "JURISDICTION", "OFFICER CONTEXT", "URGENT QUERY"} {
		if strings.Contains(system.Content, absent) {
			t.Errorf("system prompt should not contain %q without context", absent)
		}
	}
}
