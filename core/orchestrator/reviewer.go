package orchestrator

import (
	"context"

	"github.com/leofalp/conclave/core/agent"
	"github.com/leofalp/conclave/core/transcript"
)

// PendingReview describes an agent turn waiting for a human decision.
type PendingReview struct {
	// SessionID identifies the suspended session.
	SessionID string

	// Role is the agent whose output is under review.
	Role agent.Role

	// Turn is the agent response awaiting a verdict.
	Turn transcript.Turn

	// Revision counts how many revisions of this role's turn the reviewer
	// has already requested; zero on the first review.
	Revision int

	// RevisionsLeft is how many more revisions can still be requested
	// before the exhaustion policy applies.
	RevisionsLeft int
}

// Outcome is the reviewer's resolution of one [PendingReview].
type Outcome struct {
	Verdict  transcript.Verdict
	Feedback string
}

// Reviewer resolves pending reviews in interactive mode. The orchestrator
// blocks on Review; implementations range from a console prompt to a
// scripted fake in tests. A returned error abandons the session.
type Reviewer interface {
	Review(ctx context.Context, pending PendingReview) (Outcome, error)
}

// ReviewerFunc adapts a function into a [Reviewer].
type ReviewerFunc func(ctx context.Context, pending PendingReview) (Outcome, error)

func (f ReviewerFunc) Review(ctx context.Context, pending PendingReview) (Outcome, error) {
	return f(ctx, pending)
}
