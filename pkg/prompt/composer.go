package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"legal-copilot-be/internal/constant"
	"legal-copilot-be/pkg/llm"
)

// Jurisdiction scopes a conversation to state/local law.
type Jurisdiction struct {
	State    string `json:"state"`
	Locality string `json:"locality,omitempty"`
}

// Department is the requester's department profile.
type Department struct {
	Name     string                 `json:"name"`
	Policies map[string]interface{} `json:"policies,omitempty"`
}

// Context is the per-request conversation context. Immutable within one
// pipeline run.
type Context struct {
	Jurisdiction     *Jurisdiction
	Department       *Department
	UserRole         string
	Urgent           bool
	RetrievedContext string
}

// BuildResearchMessages composes the research-stage prompt: base role
// instructions, optional jurisdiction clause, the confidence rubric, and an
// urgency clause when flagged. Deterministic for a given input.
func BuildResearchMessages(query string, ctx *Context) []llm.Message {
	var system strings.Builder
	system.WriteString(constant.ResearchBasePrompt)

	if ctx != nil && ctx.Jurisdiction != nil {
		system.WriteString(jurisdictionClause(ctx.Jurisdiction))
	}

	system.WriteString(constant.ResearchConfidenceClause)

	if ctx != nil && ctx.Urgent {
		system.WriteString(constant.UrgencyClause)
	}

	return []llm.Message{
		{Role: constant.ChatMessageRoleSystem, Content: system.String()},
		{Role: constant.ChatMessageRoleUser, Content: userMessage(query, ctx)},
	}
}

// BuildGuidanceMessages composes the guidance-stage prompt. The research
// stage's raw output is embedded verbatim as context.
func BuildGuidanceMessages(query, researchOutput string, ctx *Context) []llm.Message {
	var system strings.Builder
	system.WriteString(constant.GuidanceBasePrompt)

	if ctx != nil && ctx.Department != nil {
		system.WriteString(departmentClause(ctx.Department))
	}

	if ctx != nil && ctx.Jurisdiction != nil {
		system.WriteString(fmt.Sprintf("\n\nJURISDICTION: Operating under %s state law in %s",
			ctx.Jurisdiction.State, ctx.Jurisdiction.Locality))
	}

	if ctx != nil && ctx.UserRole != "" {
		system.WriteString(fmt.Sprintf("\n\nOFFICER CONTEXT: Providing guidance to %s level officer", ctx.UserRole))
	}

	if ctx != nil && ctx.Urgent {
		system.WriteString(constant.UrgencyClause)
	}

	user := fmt.Sprintf("LEGAL RESEARCH FINDINGS:\n%s\n\nOFFICER QUESTION: %s\n\nProvide your guidance based on the research above.",
		researchOutput, query)

	return []llm.Message{
		{Role: constant.ChatMessageRoleSystem, Content: system.String()},
		{Role: constant.ChatMessageRoleUser, Content: user},
	}
}

func jurisdictionClause(j *Jurisdiction) string {
	return fmt.Sprintf(`
JURISDICTION CONTEXT:
- State: %s
- Locality: %s
- Focus on %s state law and local ordinances
- Include federal law when applicable`, j.State, j.Locality, j.State)
}

func departmentClause(d *Department) string {
	policies, err := json.Marshal(d.Policies)
	if err != nil || d.Policies == nil {
		policies = []byte("{}")
	}
	return fmt.Sprintf(`
DEPARTMENT CONTEXT:
- Department: %s
- Specific policies: %s
- Incorporate department-specific procedures and policies`, d.Name, string(policies))
}

func userMessage(query string, ctx *Context) string {
	if ctx == nil || ctx.RetrievedContext == "" {
		return query
	}
	return fmt.Sprintf("RELEVANT LEGAL DOCUMENTS:\n%s\n\nQUESTION: %s", ctx.RetrievedContext, query)
}
