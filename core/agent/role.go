package agent

import (
	"fmt"
	"strings"
)

// Role is the fixed identity of an agent in the pipeline. Agents are
// stateless across sessions; the role determines only the system prompt and
// the capability set.
type Role string

const (
	RoleResearcher   Role = "researcher"
	RoleAnalyst      Role = "analyst"
	RoleFactChecker  Role = "fact_checker"
	RoleSynthesizer  Role = "synthesizer"
	RoleCritic       Role = "critic"
	RoleCodeExecutor Role = "code_executor"
)

// DefaultSequence is the standard five-role pipeline. The code_executor role
// is opt-in and not part of the default run.
func DefaultSequence() []Role {
	return []Role{RoleResearcher, RoleAnalyst, RoleFactChecker, RoleSynthesizer, RoleCritic}
}

// ParseRole converts a string into a known [Role].
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	switch r {
	case RoleResearcher, RoleAnalyst, RoleFactChecker, RoleSynthesizer, RoleCritic, RoleCodeExecutor:
		return r, nil
	}
	return "", fmt.Errorf("unknown agent role %q", s)
}

// ParseSequence converts a comma-separated role list into an ordered
// sequence, rejecting unknown and duplicate roles.
func ParseSequence(s string) ([]Role, error) {
	parts := strings.Split(s, ",")
	seen := make(map[Role]bool, len(parts))
	roles := make([]Role, 0, len(parts))
	for _, part := range parts {
		r, err := ParseRole(part)
		if err != nil {
			return nil, err
		}
		if seen[r] {
			return nil, fmt.Errorf("duplicate agent role %q", r)
		}
		seen[r] = true
		roles = append(roles, r)
	}
	return roles, nil
}

// systemPrompts binds each role to its instruction template.
var systemPrompts = map[Role]string{
	RoleResearcher: `You are a research agent specializing in gathering comprehensive information.
Your responsibilities:
- Search for relevant information and gather facts
- Identify key statistics, evidence, and sources
- Provide well-researched and detailed findings
- Flag any information gaps or uncertainties
- Use web search and page-fetch tools when available

Always provide sources and confidence levels for your findings.
Be thorough and systematic in your research approach.`,

	RoleAnalyst: `You are an analysis agent focused on deep analytical thinking.
Your responsibilities:
- Analyze patterns, trends, and relationships in the gathered information
- Break down complex problems into manageable components
- Apply analytical frameworks and methodologies
- Provide structured insights and interpretations

Use clear reasoning and explain your analytical approach step by step.`,

	RoleFactChecker: `You are a fact-checking agent ensuring accuracy and reliability.
Your responsibilities:
- Verify claims and statements for accuracy
- Cross-reference information from multiple sources
- Identify potential biases, inconsistencies, or misinformation
- Rate the credibility and reliability of sources
- Highlight conflicting information

Be thorough and systematic. Clearly indicate confidence levels and sources.`,

	RoleSynthesizer: `You are a synthesis agent combining insights into coherent answers.
Your responsibilities:
- Integrate findings from the previous agents into one response
- Create a comprehensive, well-structured answer
- Identify consensus and conflicting viewpoints
- Provide balanced, nuanced, and complete conclusions

Focus on a unified, coherent response that addresses all aspects of the question.`,

	RoleCritic: `You are a critical review agent ensuring quality and completeness.
Your responsibilities:
- Evaluate the quality, accuracy, and completeness of the draft answer
- Identify logical fallacies, weak arguments, or missing information
- Suggest improvements and additional considerations
- Ensure the final answer fully addresses the original question

Be thorough but constructive. Focus on improving the overall quality of the answer.`,

	RoleCodeExecutor: `You are a computation agent handling numeric and quantitative work.
Your responsibilities:
- Perform calculations needed to support or verify the discussion
- Use the calculator tool for arithmetic instead of estimating
- Show the inputs and results of every computation
- State clearly when a question cannot be settled numerically

Keep the output short and precise.`,
}

// SystemPrompt returns the instruction template for the role, or an empty
// string for an unknown role.
func (r Role) SystemPrompt() string {
	return systemPrompts[r]
}

// Valid reports whether the role is one of the known identities.
func (r Role) Valid() bool {
	_, ok := systemPrompts[r]
	return ok
}

func (r Role) String() string {
	return string(r)
}
