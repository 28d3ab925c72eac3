package ai

// ChatRequest is the generic request shape sent to a [Provider].
type ChatRequest struct {
	Model        string            `json:"model,omitempty"`
	SystemPrompt string            `json:"system_prompt,omitempty"`
	Messages     []Message         `json:"messages"`
	Tools        []ToolDescription `json:"tools,omitempty"`
	MaxTokens    int               `json:"max_tokens,omitempty"`
	Temperature  float32           `json:"temperature,omitempty"`
}

// Message is a single conversation message. Content is untyped because
// providers accept and return both bare strings and content-block lists;
// conclave builds requests with strings and normalizes responses through the
// payload package.
type Message struct {
	Role    MessageRole `json:"role"`
	Content any         `json:"content,omitempty"`

	// Tool calling fields.
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`   // role=assistant requesting tools
	ToolCallID string     `json:"tool_call_id,omitempty"` // role=tool, links to the originating call
	Name       string     `json:"name,omitempty"`         // role=tool, name of the tool that produced this
}

// ToolDescription advertises one capability to the model.
type ToolDescription struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	// Parameters is a JSON-schema object describing the expected arguments.
	Parameters map[string]any `json:"parameters,omitempty"`
}

// ToolCall is a function-call request emitted by the model.
type ToolCall struct {
	ID       string           `json:"id,omitempty"`
	Type     string           `json:"type"` // "function"
	Function ToolCallFunction `json:"function"`
}

type ToolCallFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"` // JSON string
}

// Usage carries the raw token counts of one completion. The orchestration
// layer treats a missing Usage as a cost-attribution error, so providers must
// populate it whenever the backend reports it.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens,omitempty"`
	CompletionTokens int `json:"completion_tokens,omitempty"`
	TotalTokens      int `json:"total_tokens,omitempty"`
}

// ChatResponse is the generic completed response from a [Provider].
type ChatResponse struct {
	Id           string     `json:"id"`
	Model        string     `json:"model"`
	Content      any        `json:"content"` // string or content-block list; normalize before use
	ToolCalls    []ToolCall `json:"tool_calls,omitempty"`
	FinishReason string     `json:"finish_reason,omitempty"`
	Usage        *Usage     `json:"usage,omitempty"`
}

// MessageRole represents the role of a message; compatible with string.
type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleTool      MessageRole = "tool"
)
