package observability

// Attribute name constants. These keep field naming consistent across the
// orchestrator, agents, providers, and capabilities.

// --- Session attributes ---

const (
	AttrSessionID     = "session.id"
	AttrSessionMode   = "session.mode"
	AttrSessionStatus = "session.status"
)

// --- Agent attributes ---

const (
	AttrAgentRole    = "agent.role"
	AttrAgentAttempt = "agent.attempt"
)

// --- LLM attributes ---

const (
	AttrLLMProvider = "llm.provider"
	AttrLLMModel    = "llm.model"
	AttrLLMEndpoint = "llm.endpoint"

	AttrLLMTokensPrompt     = "llm.tokens.prompt"     // #nosec G101 -- token refers to LLM tokens
	AttrLLMTokensCompletion = "llm.tokens.completion" // #nosec G101 -- token refers to LLM tokens
)

// --- Capability attributes ---

const (
	AttrCapabilityName  = "capability.name"
	AttrCapabilityError = "capability.error"
)

// --- Cost attributes ---

const (
	AttrCostDollars = "cost.dollars"
)

// --- Review attributes ---

const (
	AttrReviewVerdict  = "review.verdict"
	AttrReviewTurn     = "review.turn"
	AttrReviewRevision = "review.revision"
)
