package openai

import (
	"github.com/leofalp/conclave/providers/ai"
)

// openaiRequest is the Chat Completions wire format.
type openaiRequest struct {
	Model       string          `json:"model"`
	Messages    []openaiMessage `json:"messages"`
	Tools       []openaiTool    `json:"tools,omitempty"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Temperature float32         `json:"temperature,omitempty"`
}

type openaiMessage struct {
	Role       string        `json:"role"`
	Content    any           `json:"content,omitempty"`
	ToolCalls  []ai.ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string        `json:"tool_call_id,omitempty"`
	Name       string        `json:"name,omitempty"`
}

type openaiTool struct {
	Type     string             `json:"type"`
	Function openaiToolFunction `json:"function"`
}

type openaiToolFunction struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

type openaiResponse struct {
	Id      string         `json:"id"`
	Model   string         `json:"model"`
	Choices []openaiChoice `json:"choices"`
	Usage   *openaiUsage   `json:"usage"`
	Error   *openaiError   `json:"error,omitempty"`
}

type openaiChoice struct {
	Message      openaiChoiceMessage `json:"message"`
	FinishReason string              `json:"finish_reason"`
}

type openaiChoiceMessage struct {
	Role string `json:"role"`

	// Content is untyped: the API returns either a string or a list of
	// content parts (e.g. after a vision-capable tool round-trip). The
	// payload layer normalizes it downstream.
	Content   any           `json:"content"`
	ToolCalls []ai.ToolCall `json:"tool_calls,omitempty"`
}

type openaiUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type openaiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    any    `json:"code"`
}

// requestToOpenAI converts a generic chat request into the Chat Completions
// wire format. The system prompt becomes the leading system message, matching
// how the API expects instructions to be delivered.
func requestToOpenAI(request ai.ChatRequest) openaiRequest {
	model := request.Model
	if model == "" {
		model = DefaultModel
	}

	messages := make([]openaiMessage, 0, len(request.Messages)+1)
	if request.SystemPrompt != "" {
		messages = append(messages, openaiMessage{Role: string(ai.RoleSystem), Content: request.SystemPrompt})
	}
	for _, msg := range request.Messages {
		messages = append(messages, openaiMessage{
			Role:       string(msg.Role),
			Content:    msg.Content,
			ToolCalls:  msg.ToolCalls,
			ToolCallID: msg.ToolCallID,
			Name:       msg.Name,
		})
	}

	req := openaiRequest{
		Model:       model,
		Messages:    messages,
		MaxTokens:   request.MaxTokens,
		Temperature: request.Temperature,
	}

	for _, t := range request.Tools {
		req.Tools = append(req.Tools, openaiTool{
			Type: "function",
			Function: openaiToolFunction{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}

	return req
}

// responseFromOpenAI maps the wire response onto the generic [ai.ChatResponse].
// An in-body API error or an empty choice list is a permanent backend error.
func responseFromOpenAI(res *openaiResponse) (*ai.ChatResponse, error) {
	if res.Error != nil {
		return nil, &ai.BackendError{Provider: "openai", Message: res.Error.Message}
	}
	if len(res.Choices) == 0 {
		return nil, &ai.BackendError{Provider: "openai", Message: "response contained no choices"}
	}

	choice := res.Choices[0]
	out := &ai.ChatResponse{
		Id:           res.Id,
		Model:        res.Model,
		Content:      choice.Message.Content,
		ToolCalls:    choice.Message.ToolCalls,
		FinishReason: choice.FinishReason,
	}
	if res.Usage != nil {
		out.Usage = &ai.Usage{
			PromptTokens:     res.Usage.PromptTokens,
			CompletionTokens: res.Usage.CompletionTokens,
			TotalTokens:      res.Usage.TotalTokens,
		}
	}
	return out, nil
}
