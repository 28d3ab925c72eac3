package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/leofalp/conclave/core/payload"
	"github.com/leofalp/conclave/core/transcript"
	"github.com/leofalp/conclave/providers/ai"
	"github.com/leofalp/conclave/providers/capability"
	"github.com/leofalp/conclave/providers/observability"
)

// ErrMissingUsage marks a backend response that carried no token usage.
// Without usage the invocation cannot be costed, so the whole invocation
// fails and the orchestrator may retry it.
var ErrMissingUsage = errors.New("backend response missing token usage")

// DefaultMaxToolRounds bounds the tool-call loop of one invocation.
const DefaultMaxToolRounds = 4

// Agent binds a [Role] to a provider, model, and capability set. Agents hold
// no conversation state; everything they see comes from the transcript.
type Agent struct {
	role          Role
	provider      ai.Provider
	model         string
	capabilities  *capability.Catalog
	maxToolRounds int
}

// Option configures an [Agent].
type Option func(*Agent)

// WithCapabilities grants the agent a set of invocable tools.
func WithCapabilities(c *capability.Catalog) Option {
	return func(a *Agent) { a.capabilities = c }
}

// WithMaxToolRounds overrides [DefaultMaxToolRounds].
func WithMaxToolRounds(n int) Option {
	return func(a *Agent) {
		if n > 0 {
			a.maxToolRounds = n
		}
	}
}

// New creates an agent for the given role.
func New(role Role, provider ai.Provider, model string, opts ...Option) (*Agent, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("unknown agent role %q", role)
	}
	if provider == nil {
		return nil, fmt.Errorf("agent %s: provider must not be nil", role)
	}
	a := &Agent{
		role:          role,
		provider:      provider,
		model:         model,
		capabilities:  capability.NewCatalog(),
		maxToolRounds: DefaultMaxToolRounds,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Role returns the agent's fixed role.
func (a *Agent) Role() Role {
	return a.role
}

// Model returns the model identifier the agent completes against.
func (a *Agent) Model() string {
	return a.model
}

// Respond produces one turn's payload from the accumulated transcript.
//
// When feedback is non-empty the invocation is a revision: the reviewer's
// feedback is appended to the prompt after the agent's prior turn, which is
// already part of the transcript.
//
// The agent runs a bounded tool-call loop. Capability failures are folded
// back into the conversation as tool-result notes so the model can state the
// gap instead of aborting the turn. Token usage from every round is summed
// into the returned [ai.Usage]; a round whose response has no usage fails the
// whole invocation with [ErrMissingUsage].
func (a *Agent) Respond(ctx context.Context, tr *transcript.Transcript, feedback string) (payload.Payload, ai.Usage, error) {
	obs := observability.ObserverFromContext(ctx)

	messages := tr.Messages()
	if feedback != "" {
		messages = append(messages, ai.Message{
			Role:    ai.RoleUser,
			Content: "The reviewer requested a revision of your previous response. Feedback: " + feedback,
		})
	}

	var total ai.Usage
	tools := a.capabilities.Descriptions()

	for round := 0; ; round++ {
		req := ai.ChatRequest{
			Model:        a.model,
			SystemPrompt: a.role.SystemPrompt(),
			Messages:     messages,
		}
		// Past the round limit the model must answer with what it has.
		if round < a.maxToolRounds {
			req.Tools = tools
		}

		res, err := a.provider.Complete(ctx, req)
		if err != nil {
			return nil, total, fmt.Errorf("agent %s: %w", a.role, err)
		}
		if res.Usage == nil {
			return nil, total, fmt.Errorf("agent %s: %w", a.role, ErrMissingUsage)
		}
		total.PromptTokens += res.Usage.PromptTokens
		total.CompletionTokens += res.Usage.CompletionTokens
		total.TotalTokens += res.Usage.TotalTokens

		if len(res.ToolCalls) == 0 || round >= a.maxToolRounds {
			return payload.Normalize(res.Content), total, nil
		}

		messages = append(messages, ai.Message{
			Role:      ai.RoleAssistant,
			Content:   res.Content,
			ToolCalls: res.ToolCalls,
		})
		for _, call := range res.ToolCalls {
			messages = append(messages, a.executeToolCall(ctx, obs, call))
		}
	}
}

// executeToolCall runs one requested capability and wraps the outcome as a
// tool message. Missing capabilities and invocation failures become notes in
// the message content rather than errors.
func (a *Agent) executeToolCall(ctx context.Context, obs observability.Observer, call ai.ToolCall) ai.Message {
	msg := ai.Message{
		Role:       ai.RoleTool,
		ToolCallID: call.ID,
		Name:       call.Function.Name,
	}

	cp, ok := a.capabilities.Get(call.Function.Name)
	if !ok {
		msg.Content = fmt.Sprintf("capability %q is not available; proceed without it", call.Function.Name)
		return msg
	}

	result, err := cp.Invoke(ctx, call.Function.Arguments)
	if err != nil {
		if obs != nil {
			obs.Warn(ctx, "capability failed, continuing with partial information",
				observability.String(observability.AttrAgentRole, string(a.role)),
				observability.String(observability.AttrCapabilityName, call.Function.Name),
				observability.Error(err),
			)
		}
		msg.Content = fmt.Sprintf("capability %q failed: %v; proceed with partial information and state the gap", call.Function.Name, err)
		return msg
	}

	msg.Content = result
	return msg
}
