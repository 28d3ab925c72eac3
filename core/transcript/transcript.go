package transcript

import (
	"fmt"
	"sync"
	"time"

	"github.com/leofalp/conclave/core/cost"
	"github.com/leofalp/conclave/core/payload"
	"github.com/leofalp/conclave/providers/ai"
)

// Kind classifies a turn.
type Kind string

const (
	KindQuestion      Kind = "question"
	KindAgentResponse Kind = "agent_response"
	KindHumanDecision Kind = "human_decision"
)

// OriginUser and OriginSystem identify non-agent turn originators. Agent
// turns carry the role name as origin.
const (
	OriginUser   = "user"
	OriginSystem = "system"
)

// Verdict is the outcome of one human review of an agent turn.
type Verdict string

const (
	VerdictApproved Verdict = "approved"
	VerdictRejected Verdict = "rejected"
	VerdictRevise   Verdict = "revise"

	// VerdictSkipped accepts the turn but excludes its content from the
	// prompt context of later roles.
	VerdictSkipped Verdict = "skipped"
)

// Decision is one human review outcome, recorded against the agent turn it
// reviewed.
type Decision struct {
	TurnSeq   int       `json:"turn_seq"`
	Verdict   Verdict   `json:"verdict"`
	Feedback  string    `json:"feedback,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Turn is one atomic contribution to the conversation. Turns are never
// mutated after creation; the total order by Seq is the history an agent sees.
type Turn struct {
	Seq       int             `json:"seq"`
	Origin    string          `json:"origin"`
	Kind      Kind            `json:"kind"`
	Payload   payload.Payload `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`

	// CostRef links an agent turn to its ledger record. Question and
	// human-decision turns carry none.
	CostRef *cost.Record `json:"cost_ref,omitempty"`

	// Decision is set on human-decision turns only.
	Decision *Decision `json:"decision,omitempty"`
}

// Transcript is the append-only turn log of one session. It is safe for
// concurrent use; sequence numbers are assigned on append and never reused.
type Transcript struct {
	mu       sync.Mutex
	turns    []Turn
	excluded map[int]bool
	now      func() time.Time
}

// New creates an empty transcript.
func New() *Transcript {
	return &Transcript{excluded: make(map[int]bool), now: time.Now}
}

// AppendQuestion seeds the transcript with the user's question turn. The
// optional context string becomes a second text part of the same turn.
func (t *Transcript) AppendQuestion(question, extraContext string) Turn {
	p := payload.Text(question)
	if extraContext != "" {
		p = append(p, payload.Text("Context: "+extraContext)...)
	}
	return t.append(Turn{Origin: OriginUser, Kind: KindQuestion, Payload: p})
}

// AppendAgentTurn records one agent response with its cost reference.
func (t *Transcript) AppendAgentTurn(role string, p payload.Payload, costRef *cost.Record) Turn {
	return t.append(Turn{Origin: role, Kind: KindAgentResponse, Payload: p, CostRef: costRef})
}

// AppendDecision records a human review outcome as its own turn. The decision
// timestamp is aligned with the turn timestamp.
func (t *Transcript) AppendDecision(d Decision) Turn {
	text := string(d.Verdict)
	if d.Feedback != "" {
		text += ": " + d.Feedback
	}
	return t.append(Turn{
		Origin:   OriginUser,
		Kind:     KindHumanDecision,
		Payload:  payload.Text(text),
		Decision: &d,
	})
}

func (t *Transcript) append(turn Turn) Turn {
	t.mu.Lock()
	defer t.mu.Unlock()
	turn.Seq = len(t.turns)
	turn.Timestamp = t.now()
	if turn.Decision != nil && turn.Decision.Timestamp.IsZero() {
		turn.Decision.Timestamp = turn.Timestamp
	}
	t.turns = append(t.turns, turn)
	return turn
}

// Exclude removes the agent turn with the given sequence number from the
// Messages projection. The turn itself stays in the transcript; exclusion
// only affects what later roles are prompted with.
func (t *Transcript) Exclude(seq int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.excluded[seq] = true
}

// Turns returns a copy of all turns in sequence order.
func (t *Transcript) Turns() []Turn {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Turn, len(t.turns))
	copy(out, t.turns)
	return out
}

// Len returns the number of turns.
func (t *Transcript) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.turns)
}

// Last returns the most recent turn. The boolean is false on an empty
// transcript.
func (t *Transcript) Last() (Turn, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.turns) == 0 {
		return Turn{}, false
	}
	return t.turns[len(t.turns)-1], true
}

// Messages projects the transcript into provider messages for prompting.
// Question turns become user messages; agent turns become assistant messages
// named after their role so downstream agents can attribute prior
// contributions. Human-decision turns and excluded agent turns are omitted,
// since review outcomes steer the orchestrator rather than the models.
func (t *Transcript) Messages() []ai.Message {
	t.mu.Lock()
	defer t.mu.Unlock()

	msgs := make([]ai.Message, 0, len(t.turns))
	for _, turn := range t.turns {
		switch turn.Kind {
		case KindQuestion:
			msgs = append(msgs, ai.Message{Role: ai.RoleUser, Content: turn.Payload.String()})
		case KindAgentResponse:
			if t.excluded[turn.Seq] {
				continue
			}
			msgs = append(msgs, ai.Message{
				Role:    ai.RoleAssistant,
				Content: fmt.Sprintf("[%s]\n%s", turn.Origin, turn.Payload.String()),
			})
		}
	}
	return msgs
}
