package agent

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/leofalp/conclave/core/transcript"
	"github.com/leofalp/conclave/providers/ai"
	"github.com/leofalp/conclave/providers/capability"
)

// scriptedProvider replays a fixed sequence of responses and records the
// requests it received.
type scriptedProvider struct {
	responses []*ai.ChatResponse
	errs      []error
	requests  []ai.ChatRequest
}

func (p *scriptedProvider) Complete(ctx context.Context, req ai.ChatRequest) (*ai.ChatResponse, error) {
	p.requests = append(p.requests, req)
	i := len(p.requests) - 1
	if i < len(p.errs) && p.errs[i] != nil {
		return nil, p.errs[i]
	}
	if i >= len(p.responses) {
		return nil, errors.New("scripted provider exhausted")
	}
	return p.responses[i], nil
}

func (p *scriptedProvider) WithAPIKey(string) ai.Provider           { return p }
func (p *scriptedProvider) WithBaseURL(string) ai.Provider          { return p }
func (p *scriptedProvider) WithHttpClient(*http.Client) ai.Provider { return p }

func textResponse(content any, in, out int) *ai.ChatResponse {
	return &ai.ChatResponse{
		Content: content,
		Usage:   &ai.Usage{PromptTokens: in, CompletionTokens: out, TotalTokens: in + out},
	}
}

func newTranscript(t *testing.T) *transcript.Transcript {
	t.Helper()
	tr := transcript.New()
	tr.AppendQuestion("what is the capital of France?", "")
	return tr
}

func TestRespondReturnsNormalizedPayload(t *testing.T) {
	p := &scriptedProvider{responses: []*ai.ChatResponse{textResponse("Paris.", 20, 5)}}
	a, err := New(RoleResearcher, p, "gpt-4o-mini")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	out, usage, err := a.Respond(context.Background(), newTranscript(t), "")
	if err != nil {
		t.Fatalf("Respond() error = %v", err)
	}
	if got := out.String(); got != "Paris." {
		t.Errorf("payload = %q", got)
	}
	if usage.PromptTokens != 20 || usage.CompletionTokens != 5 {
		t.Errorf("usage = %+v", usage)
	}
	if got := p.requests[0].SystemPrompt; !strings.Contains(got, "research agent") {
		t.Errorf("system prompt = %q", got)
	}
}

func TestRespondHandlesListContent(t *testing.T) {
	content := []any{
		map[string]any{"type": "text", "text": "The capital is Paris."},
		map[string]any{"type": "image_url", "image_url": map[string]any{"url": "https://example.com/map.png"}},
	}
	p := &scriptedProvider{responses: []*ai.ChatResponse{textResponse(content, 10, 10)}}
	a, _ := New(RoleResearcher, p, "gpt-4o-mini")

	out, _, err := a.Respond(context.Background(), newTranscript(t), "")
	if err != nil {
		t.Fatalf("Respond() error = %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("payload parts = %d, want 2", len(out))
	}
	if !out.HasAttachments() {
		t.Error("expected attachment part in payload")
	}
}

func TestRespondMissingUsage(t *testing.T) {
	p := &scriptedProvider{responses: []*ai.ChatResponse{{Content: "no usage here"}}}
	a, _ := New(RoleAnalyst, p, "gpt-4o-mini")

	_, _, err := a.Respond(context.Background(), newTranscript(t), "")
	if !errors.Is(err, ErrMissingUsage) {
		t.Errorf("err = %v, want ErrMissingUsage", err)
	}
}

func TestRespondToolCallLoop(t *testing.T) {
	search := capability.NewFunc("WebSearch", "search", nil,
		func(ctx context.Context, in struct {
			Query string `json:"query"`
		}) (string, error) {
			return "Paris is the capital of France.", nil
		})

	p := &scriptedProvider{responses: []*ai.ChatResponse{
		{
			ToolCalls: []ai.ToolCall{{
				ID:       "call_1",
				Type:     "function",
				Function: ai.ToolCallFunction{Name: "WebSearch", Arguments: `{"query": "capital of France"}`},
			}},
			Usage: &ai.Usage{PromptTokens: 30, CompletionTokens: 10, TotalTokens: 40},
		},
		textResponse("According to the search, Paris.", 50, 8),
	}}
	a, _ := New(RoleResearcher, p, "gpt-4o-mini", WithCapabilities(capability.NewCatalog(search)))

	out, usage, err := a.Respond(context.Background(), newTranscript(t), "")
	if err != nil {
		t.Fatalf("Respond() error = %v", err)
	}
	if got := out.String(); got != "According to the search, Paris." {
		t.Errorf("payload = %q", got)
	}
	if usage.PromptTokens != 80 || usage.CompletionTokens != 18 {
		t.Errorf("usage not summed across rounds: %+v", usage)
	}

	// The second request must carry the tool result message.
	second := p.requests[1]
	last := second.Messages[len(second.Messages)-1]
	if last.Role != ai.RoleTool || last.ToolCallID != "call_1" {
		t.Errorf("last message = %+v, want tool result for call_1", last)
	}
}

func TestRespondCapabilityFailureIsNonFatal(t *testing.T) {
	failing := capability.NewFunc("WebSearch", "search", nil,
		func(ctx context.Context, in struct{}) (string, error) {
			return "", errors.New("network unreachable")
		})

	p := &scriptedProvider{responses: []*ai.ChatResponse{
		{
			ToolCalls: []ai.ToolCall{{
				ID:       "call_1",
				Type:     "function",
				Function: ai.ToolCallFunction{Name: "WebSearch", Arguments: `{}`},
			}},
			Usage: &ai.Usage{PromptTokens: 30, CompletionTokens: 10},
		},
		textResponse("I could not verify this online, but the capital is Paris.", 40, 12),
	}}
	a, _ := New(RoleResearcher, p, "gpt-4o-mini", WithCapabilities(capability.NewCatalog(failing)))

	out, _, err := a.Respond(context.Background(), newTranscript(t), "")
	if err != nil {
		t.Fatalf("Respond() error = %v, capability failure must not fail the turn", err)
	}
	if out.IsEmpty() {
		t.Error("payload is empty")
	}

	last := p.requests[1].Messages[len(p.requests[1].Messages)-1]
	content, _ := last.Content.(string)
	if !strings.Contains(content, "failed") {
		t.Errorf("tool message = %q, want failure note", content)
	}
}

func TestRespondUnknownCapability(t *testing.T) {
	p := &scriptedProvider{responses: []*ai.ChatResponse{
		{
			ToolCalls: []ai.ToolCall{{
				ID:       "call_1",
				Type:     "function",
				Function: ai.ToolCallFunction{Name: "Teleport", Arguments: `{}`},
			}},
			Usage: &ai.Usage{PromptTokens: 5, CompletionTokens: 5},
		},
		textResponse("done without it", 5, 5),
	}}
	a, _ := New(RoleResearcher, p, "gpt-4o-mini")

	if _, _, err := a.Respond(context.Background(), newTranscript(t), ""); err != nil {
		t.Fatalf("Respond() error = %v", err)
	}
	last := p.requests[1].Messages[len(p.requests[1].Messages)-1]
	content, _ := last.Content.(string)
	if !strings.Contains(content, "not available") {
		t.Errorf("tool message = %q", content)
	}
}

func TestRespondToolRoundLimit(t *testing.T) {
	loop := capability.NewFunc("WebSearch", "search", nil,
		func(ctx context.Context, in struct{}) (string, error) { return "more", nil })

	toolResp := &ai.ChatResponse{
		ToolCalls: []ai.ToolCall{{
			ID:       "c",
			Type:     "function",
			Function: ai.ToolCallFunction{Name: "WebSearch", Arguments: `{}`},
		}},
		Usage: &ai.Usage{PromptTokens: 1, CompletionTokens: 1},
	}
	p := &scriptedProvider{responses: []*ai.ChatResponse{
		toolResp, toolResp, textResponse("final", 1, 1),
	}}
	a, _ := New(RoleResearcher, p, "gpt-4o-mini",
		WithCapabilities(capability.NewCatalog(loop)), WithMaxToolRounds(2))

	out, _, err := a.Respond(context.Background(), newTranscript(t), "")
	if err != nil {
		t.Fatalf("Respond() error = %v", err)
	}
	if got := out.String(); got != "final" {
		t.Errorf("payload = %q", got)
	}
	// The final request must not re-offer the tools.
	final := p.requests[len(p.requests)-1]
	if len(final.Tools) != 0 {
		t.Errorf("final request still offered %d tools", len(final.Tools))
	}
}

func TestRespondRevisionFeedback(t *testing.T) {
	p := &scriptedProvider{responses: []*ai.ChatResponse{textResponse("revised answer", 10, 5)}}
	a, _ := New(RoleSynthesizer, p, "gpt-4o-mini")

	tr := newTranscript(t)
	_, _, err := a.Respond(context.Background(), tr, "add supporting data")
	if err != nil {
		t.Fatalf("Respond() error = %v", err)
	}
	last := p.requests[0].Messages[len(p.requests[0].Messages)-1]
	content, _ := last.Content.(string)
	if last.Role != ai.RoleUser || !strings.Contains(content, "add supporting data") {
		t.Errorf("feedback message = %+v", last)
	}
}

func TestNewRejectsUnknownRole(t *testing.T) {
	if _, err := New(Role("wizard"), &scriptedProvider{}, "gpt-4o-mini"); err == nil {
		t.Error("expected error for unknown role")
	}
}

func TestParseSequence(t *testing.T) {
	roles, err := ParseSequence("researcher, analyst,fact_checker")
	if err != nil {
		t.Fatalf("ParseSequence() error = %v", err)
	}
	want := []Role{RoleResearcher, RoleAnalyst, RoleFactChecker}
	if len(roles) != len(want) {
		t.Fatalf("len = %d, want %d", len(roles), len(want))
	}
	for i := range want {
		if roles[i] != want[i] {
			t.Errorf("roles[%d] = %q, want %q", i, roles[i], want[i])
		}
	}

	if _, err := ParseSequence("researcher,researcher"); err == nil {
		t.Error("expected error for duplicate role")
	}
	if _, err := ParseSequence("researcher,wizard"); err == nil {
		t.Error("expected error for unknown role")
	}
}
