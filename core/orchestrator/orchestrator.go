package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/leofalp/conclave/core/agent"
	"github.com/leofalp/conclave/core/cost"
	"github.com/leofalp/conclave/core/payload"
	"github.com/leofalp/conclave/core/transcript"
	"github.com/leofalp/conclave/providers/ai"
	"github.com/leofalp/conclave/providers/capability"
	"github.com/leofalp/conclave/providers/observability"
)

const (
	// DefaultMaxAttempts is how many times one role invocation is tried
	// before the session fails.
	DefaultMaxAttempts = 3

	// DefaultMaxRevisions caps revision cycles per role in interactive
	// mode.
	DefaultMaxRevisions = 3
)

// ExhaustionPolicy decides the fate of a turn whose revision cap is reached.
type ExhaustionPolicy string

const (
	// PolicyReject fails the session when revisions are exhausted.
	PolicyReject ExhaustionPolicy = "reject"

	// PolicyApprove accepts the last revision as-is when revisions are
	// exhausted.
	PolicyApprove ExhaustionPolicy = "approve"
)

// Request describes one run.
type Request struct {
	Question string
	Context  string
	Mode     Mode

	// Roles is the ordered role sequence. Empty means
	// [agent.DefaultSequence].
	Roles []agent.Role
}

// Orchestrator drives role sequences over sessions. It holds only immutable
// configuration, so one orchestrator can serve many concurrent sessions; the
// rate table is the only shared state and is read-only.
type Orchestrator struct {
	provider     ai.Provider
	rates        *cost.RateTable
	model        string
	reviewer     Reviewer
	capabilities map[agent.Role]*capability.Catalog
	maxAttempts  int
	maxRevisions int
	policy       ExhaustionPolicy
	now          func() time.Time
}

// Option configures an [Orchestrator].
type Option func(*Orchestrator)

// WithModel sets the model every agent completes against.
func WithModel(model string) Option {
	return func(o *Orchestrator) { o.model = model }
}

// WithReviewer installs the human-decision resolver for interactive runs.
func WithReviewer(r Reviewer) Option {
	return func(o *Orchestrator) { o.reviewer = r }
}

// WithRoleCapabilities grants a capability catalog to one role.
func WithRoleCapabilities(role agent.Role, c *capability.Catalog) Option {
	return func(o *Orchestrator) { o.capabilities[role] = c }
}

// WithMaxAttempts overrides [DefaultMaxAttempts].
func WithMaxAttempts(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.maxAttempts = n
		}
	}
}

// WithMaxRevisions overrides [DefaultMaxRevisions].
func WithMaxRevisions(n int) Option {
	return func(o *Orchestrator) {
		if n >= 0 {
			o.maxRevisions = n
		}
	}
}

// WithExhaustionPolicy sets what happens when a role's revision cap is
// reached. The default is [PolicyReject].
func WithExhaustionPolicy(p ExhaustionPolicy) Option {
	return func(o *Orchestrator) { o.policy = p }
}

// New creates an orchestrator completing against the given provider and
// pricing usage against the given rate table.
func New(provider ai.Provider, rates *cost.RateTable, opts ...Option) (*Orchestrator, error) {
	if provider == nil {
		return nil, errors.New("provider must not be nil")
	}
	if rates == nil {
		return nil, errors.New("rate table must not be nil")
	}
	o := &Orchestrator{
		provider:     provider,
		rates:        rates,
		capabilities: make(map[agent.Role]*capability.Catalog),
		maxAttempts:  DefaultMaxAttempts,
		maxRevisions: DefaultMaxRevisions,
		policy:       PolicyReject,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Run drives the full role sequence for one question and returns the
// finished session, completed or failed. Domain failures (exhausted retries,
// reviewer rejection, abandoned review) are reported through the session's
// status and failure reason, not as an error; an error is returned only for
// an invalid request or a pricing failure.
//
// Roles execute strictly sequentially. Each successful invocation appends
// exactly one agent turn and one cost record; the session is returned in
// every failure case so the caller can still export what completed.
func (o *Orchestrator) Run(ctx context.Context, req Request) (*Session, error) {
	if err := o.validate(&req); err != nil {
		return nil, err
	}

	obs := observability.ObserverFromContext(ctx)

	session := &Session{
		ID:         newSessionID(),
		Question:   req.Question,
		Context:    req.Context,
		Mode:       req.Mode,
		Roles:      req.Roles,
		Status:     StatusRunning,
		CreatedAt:  o.now(),
		Transcript: transcript.New(),
		Ledger:     cost.NewLedger(o.rates),
	}
	session.Transcript.AppendQuestion(req.Question, req.Context)

	if obs != nil {
		obs.Info(ctx, "session started",
			observability.String(observability.AttrSessionID, session.ID),
			observability.String(observability.AttrSessionMode, string(session.Mode)),
			observability.Int("session.roles", len(session.Roles)),
		)
	}

	for _, role := range session.Roles {
		a, err := agent.New(role, o.provider, o.model, agent.WithCapabilities(o.catalogFor(role)))
		if err != nil {
			return nil, err
		}

		turn, err := o.invokeAndRecord(ctx, session, a, "")
		if err != nil {
			return o.finishFailed(ctx, session, err)
		}
		if session.Failed() {
			return o.finish(ctx, session), nil
		}

		if session.Mode == ModeInteractive {
			if err := o.reviewTurn(ctx, session, a, turn); err != nil {
				return o.finishFailed(ctx, session, err)
			}
			if session.Failed() {
				return o.finish(ctx, session), nil
			}
		}
	}

	session.Status = StatusCompleted
	return o.finish(ctx, session), nil
}

func (o *Orchestrator) validate(req *Request) error {
	if req.Question == "" {
		return errors.New("question must not be empty")
	}
	switch req.Mode {
	case ModeAutomatic:
	case ModeInteractive:
		if o.reviewer == nil {
			return errors.New("interactive mode requires a reviewer")
		}
	default:
		return fmt.Errorf("unknown mode %q", req.Mode)
	}
	if len(req.Roles) == 0 {
		req.Roles = agent.DefaultSequence()
	}
	seen := make(map[agent.Role]bool, len(req.Roles))
	for _, r := range req.Roles {
		if !r.Valid() {
			return fmt.Errorf("unknown agent role %q", r)
		}
		if seen[r] {
			return fmt.Errorf("duplicate agent role %q", r)
		}
		seen[r] = true
	}
	return nil
}

func (o *Orchestrator) catalogFor(role agent.Role) *capability.Catalog {
	if c, ok := o.capabilities[role]; ok {
		return c
	}
	return capability.NewCatalog()
}

// invokeAndRecord runs one agent invocation through the bounded retry
// wrapper, prices its usage, and appends the turn. Exhausted retries mark
// the session failed; a pricing failure is returned as an error because
// silent zero-cost turns would corrupt the audit trail.
func (o *Orchestrator) invokeAndRecord(ctx context.Context, session *Session, a *agent.Agent, feedback string) (transcript.Turn, error) {
	obs := observability.ObserverFromContext(ctx)

	out, attempts, exhausted := o.invokeWithRetry(ctx, a, session.Transcript, feedback)
	if exhausted != nil {
		noun := "attempts"
		if attempts == 1 {
			noun = "attempt"
		}
		session.Status = StatusFailed
		session.FailureReason = fmt.Sprintf("agent %s failed after %d %s: %v", a.Role(), attempts, noun, exhausted)
		if obs != nil {
			obs.Error(ctx, "role invocation exhausted retries",
				observability.String(observability.AttrSessionID, session.ID),
				observability.String(observability.AttrAgentRole, string(a.Role())),
				observability.Error(exhausted),
			)
		}
		return transcript.Turn{}, nil
	}

	rec, err := session.Ledger.Record(string(a.Role()), a.Model(), out.usage.PromptTokens, out.usage.CompletionTokens)
	if err != nil {
		session.Status = StatusFailed
		session.FailureReason = fmt.Sprintf("cost attribution failed for agent %s: %v", a.Role(), err)
		return transcript.Turn{}, err
	}

	turn := session.Transcript.AppendAgentTurn(string(a.Role()), out.payload, &rec)
	if obs != nil {
		obs.Info(ctx, "agent turn recorded",
			observability.String(observability.AttrSessionID, session.ID),
			observability.String(observability.AttrAgentRole, string(a.Role())),
			observability.Int(observability.AttrLLMTokensPrompt, out.usage.PromptTokens),
			observability.Int(observability.AttrLLMTokensCompletion, out.usage.CompletionTokens),
			observability.Float64(observability.AttrCostDollars, rec.Dollars),
		)
	}
	return turn, nil
}

// invocationResult is the typed success outcome of the retry wrapper.
type invocationResult struct {
	payload payload.Payload
	usage   ai.Usage
}

// invokeWithRetry tries the invocation up to maxAttempts times. Only
// retryable failures (transient backend errors, timeouts, missing usage) are
// retried; permanent errors and context cancellation stop immediately. It
// reports how many attempts were actually made; the returned error is
// non-nil when the last of them failed.
func (o *Orchestrator) invokeWithRetry(ctx context.Context, a *agent.Agent, tr *transcript.Transcript, feedback string) (invocationResult, int, error) {
	obs := observability.ObserverFromContext(ctx)

	var lastErr error
	attempts := 0
	for attempt := 1; attempt <= o.maxAttempts; attempt++ {
		attempts = attempt
		p, usage, err := a.Respond(ctx, tr, feedback)
		if err == nil {
			return invocationResult{payload: p, usage: usage}, attempts, nil
		}
		lastErr = err

		retryable := ai.IsRetryable(err) || errors.Is(err, agent.ErrMissingUsage)
		if !retryable || errors.Is(ctx.Err(), context.Canceled) {
			break
		}
		if obs != nil {
			obs.Warn(ctx, "retrying agent invocation",
				observability.String(observability.AttrAgentRole, string(a.Role())),
				observability.Int(observability.AttrAgentAttempt, attempt),
				observability.Error(err),
			)
		}
	}
	return invocationResult{}, attempts, lastErr
}

// reviewTurn runs the approval state machine for one agent turn.
//
// The turn starts pending; every reviewer verdict is recorded as a
// human-decision turn. An approval advances the session, a rejection fails
// it, and a revision request loops back through a fresh invocation of the
// same role with the feedback as added context, bounded by the revision cap.
// Reaching the cap resolves the turn per the configured exhaustion policy.
// A reviewer error abandons the session.
func (o *Orchestrator) reviewTurn(ctx context.Context, session *Session, a *agent.Agent, turn transcript.Turn) error {
	obs := observability.ObserverFromContext(ctx)

	for revision := 0; ; revision++ {
		outcome, err := o.reviewer.Review(ctx, PendingReview{
			SessionID:     session.ID,
			Role:          a.Role(),
			Turn:          turn,
			Revision:      revision,
			RevisionsLeft: o.maxRevisions - revision,
		})
		if err != nil {
			session.Status = StatusFailed
			if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
				session.FailureReason = fmt.Sprintf("timeout awaiting human decision on agent %s", a.Role())
			} else {
				session.FailureReason = fmt.Sprintf("review of agent %s abandoned: %v", a.Role(), err)
			}
			return nil
		}

		if obs != nil {
			obs.Info(ctx, "review decision",
				observability.String(observability.AttrSessionID, session.ID),
				observability.String(observability.AttrReviewVerdict, string(outcome.Verdict)),
				observability.Int(observability.AttrReviewTurn, turn.Seq),
				observability.Int(observability.AttrReviewRevision, revision),
			)
		}

		switch outcome.Verdict {
		case transcript.VerdictApproved:
			session.Transcript.AppendDecision(transcript.Decision{
				TurnSeq: turn.Seq, Verdict: transcript.VerdictApproved, Feedback: outcome.Feedback,
			})
			return nil

		case transcript.VerdictSkipped:
			session.Transcript.AppendDecision(transcript.Decision{
				TurnSeq: turn.Seq, Verdict: transcript.VerdictSkipped, Feedback: outcome.Feedback,
			})
			session.Transcript.Exclude(turn.Seq)
			return nil

		case transcript.VerdictRejected:
			session.Transcript.AppendDecision(transcript.Decision{
				TurnSeq: turn.Seq, Verdict: transcript.VerdictRejected, Feedback: outcome.Feedback,
			})
			session.Status = StatusFailed
			session.FailureReason = fmt.Sprintf("agent %s turn rejected by reviewer", a.Role())
			return nil

		case transcript.VerdictRevise:
			session.Transcript.AppendDecision(transcript.Decision{
				TurnSeq: turn.Seq, Verdict: transcript.VerdictRevise, Feedback: outcome.Feedback,
			})
			if revision >= o.maxRevisions {
				return o.resolveExhaustion(session, a.Role(), turn)
			}
			next, err := o.invokeAndRecord(ctx, session, a, outcome.Feedback)
			if err != nil {
				return err
			}
			if session.Failed() {
				return nil
			}
			turn = next

		default:
			session.Status = StatusFailed
			session.FailureReason = fmt.Sprintf("reviewer returned unknown verdict %q for agent %s", outcome.Verdict, a.Role())
			return nil
		}
	}
}

// resolveExhaustion applies the configured policy once a role's revision cap
// is reached.
func (o *Orchestrator) resolveExhaustion(session *Session, role agent.Role, turn transcript.Turn) error {
	switch o.policy {
	case PolicyApprove:
		session.Transcript.AppendDecision(transcript.Decision{
			TurnSeq:  turn.Seq,
			Verdict:  transcript.VerdictApproved,
			Feedback: fmt.Sprintf("revision limit of %d reached; accepted as-is", o.maxRevisions),
		})
		return nil
	default:
		session.Transcript.AppendDecision(transcript.Decision{
			TurnSeq:  turn.Seq,
			Verdict:  transcript.VerdictRejected,
			Feedback: fmt.Sprintf("revision limit of %d reached", o.maxRevisions),
		})
		session.Status = StatusFailed
		session.FailureReason = fmt.Sprintf("agent %s exhausted the revision limit of %d", role, o.maxRevisions)
		return nil
	}
}

func (o *Orchestrator) finish(ctx context.Context, session *Session) *Session {
	session.CompletedAt = o.now()
	if obs := observability.ObserverFromContext(ctx); obs != nil {
		obs.Info(ctx, "session finished",
			observability.String(observability.AttrSessionID, session.ID),
			observability.String(observability.AttrSessionStatus, string(session.Status)),
			observability.Float64(observability.AttrCostDollars, session.Ledger.Totals().GrandTotal),
		)
	}
	return session
}

func (o *Orchestrator) finishFailed(ctx context.Context, session *Session, err error) (*Session, error) {
	if session.Status != StatusFailed {
		session.Status = StatusFailed
		session.FailureReason = err.Error()
	}
	return o.finish(ctx, session), err
}
