package orchestrator

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/leofalp/conclave/core/agent"
	"github.com/leofalp/conclave/core/cost"
	"github.com/leofalp/conclave/core/transcript"
)

// Mode selects how the role loop advances past each agent turn.
type Mode string

const (
	// ModeAutomatic runs the full role sequence without human review.
	ModeAutomatic Mode = "automatic"

	// ModeInteractive suspends after every agent turn until a reviewer
	// resolves it.
	ModeInteractive Mode = "interactive"
)

// Status is the lifecycle state of a session.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Session is one orchestrated run. It owns exactly one transcript and one
// cost ledger, is mutated only by the orchestrator, and is immutable once
// Status is terminal.
type Session struct {
	ID       string       `json:"id"`
	Question string       `json:"question"`
	Context  string       `json:"context,omitempty"`
	Mode     Mode         `json:"mode"`
	Roles    []agent.Role `json:"roles"`

	Status Status `json:"status"`

	// FailureReason explains a failed status: exhausted retries, reviewer
	// rejection, pricing failure, or an abandoned human-decision wait.
	FailureReason string `json:"failure_reason,omitempty"`

	CreatedAt   time.Time `json:"created_at"`
	CompletedAt time.Time `json:"completed_at,omitempty"`

	Transcript *transcript.Transcript `json:"-"`
	Ledger     *cost.Ledger           `json:"-"`
}

// Failed reports whether the session ended in failure.
func (s *Session) Failed() bool {
	return s.Status == StatusFailed
}

// newSessionID returns a short random identifier.
func newSessionID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		// Timestamp fallback keeps IDs usable when the entropy source
		// is unavailable.
		return time.Now().UTC().Format("20060102150405.000000000")
	}
	return hex.EncodeToString(b[:])
}
