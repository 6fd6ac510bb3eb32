package offline

import "strings"

// DegradedConfidence is the fixed confidence of every offline answer.
const DegradedConfidence = 0.3

// DegradedPrefix marks offline content so clients can flag it.
const DegradedPrefix = "[OFFLINE MODE] "

// Response is a canned research/guidance content pair.
type Response struct {
	Research string
	Guidance string
}

// Rule maps a keyword set to a canned response. The first rule whose
// keywords match wins, so rule order is priority order.
type Rule struct {
	Keywords []string
	Response Response
}

// Engine is the keyword-rule responder used when generation is unavailable.
type Engine struct {
	rules      []Rule
	defaultRes Response
}

func NewEngine(rules []Rule, defaultRes Response) *Engine {
	return &Engine{rules: rules, defaultRes: defaultRes}
}

// NewDefaultEngine builds the engine with the stock law-enforcement rules.
func NewDefaultEngine() *Engine {
	return NewEngine(defaultRules(), defaultResponse())
}

// Respond matches the query against the rules. Always returns a pair.
func (e *Engine) Respond(query string) Response {
	lower := strings.ToLower(query)
	for _, rule := range e.rules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(lower, keyword) {
				return rule.Response
			}
		}
	}
	return e.defaultRes
}

func defaultRules() []Rule {
	return []Rule{
		{
			Keywords: []string{"miranda", "rights"},
			Response: Response{
				Research: "Miranda rights are required before custodial interrogation as established in Miranda v. Arizona (1966). The suspect must be advised of their right to remain silent, right to an attorney, and that statements can be used against them.",
				Guidance: "You must read Miranda rights before any custodial interrogation. If the suspect is not in custody or you are not interrogating, Miranda may not be required. When in doubt, read the rights to protect the case.",
			},
		},
		{
			Keywords: []string{"search", "warrant", "fourth amendment"},
			Response: Response{
				Research: "The Fourth Amendment protects against unreasonable searches and seizures. Generally, police need a warrant based on probable cause, though several exceptions exist including consent, exigent circumstances, and search incident to arrest.",
				Guidance: "Obtain a warrant whenever possible. If immediate action is required, document the exigent circumstances. Always respect the scope of any consent given. Incident to arrest searches must be contemporaneous with the arrest.",
			},
		},
		{
			Keywords: []string{"arrest", "probable cause"},
			Response: Response{
				Research: "Probable cause exists when facts and circumstances would lead a reasonable person to believe a crime has been committed and the suspect committed it. This standard is required for arrests and warrants.",
				Guidance: "Ensure you can articulate specific facts supporting probable cause before making an arrest. General suspicion is not sufficient. Document all observations and circumstances in your report.",
			},
		},
	}
}

func defaultResponse() Response {
	return Response{
		Research: "I am currently operating in offline mode with limited legal information. For comprehensive guidance, please consult your department's legal resources or wait for the AI system to come back online.",
		Guidance: "In offline mode, I recommend following your department's standard operating procedures and consulting with your supervisor for legal guidance. When in doubt, choose the most conservative approach that protects constitutional rights.",
	}
}
