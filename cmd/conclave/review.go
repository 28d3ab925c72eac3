package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/leofalp/conclave/core/orchestrator"
	"github.com/leofalp/conclave/core/transcript"
)

// consoleReviewer resolves pending reviews through an interactive prompt.
// Each agent turn is printed in full, then the reviewer chooses to approve,
// request a revision with feedback, skip the turn, or quit the session.
type consoleReviewer struct {
	in             *bufio.Reader
	out            io.Writer
	timeoutSeconds int
}

func newConsoleReviewer(in io.Reader, out io.Writer, timeoutSeconds int) *consoleReviewer {
	return &consoleReviewer{in: bufio.NewReader(in), out: out, timeoutSeconds: timeoutSeconds}
}

func (r *consoleReviewer) Review(ctx context.Context, pending orchestrator.PendingReview) (orchestrator.Outcome, error) {
	if r.timeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(r.timeoutSeconds)*time.Second)
		defer cancel()
	}

	fmt.Fprintf(r.out, "\n%s\n", strings.Repeat("=", 70))
	fmt.Fprintf(r.out, "Turn %d by %s", pending.Turn.Seq, pending.Role)
	if pending.Revision > 0 {
		fmt.Fprintf(r.out, " (revision %d, %d left)", pending.Revision, pending.RevisionsLeft)
	}
	fmt.Fprintf(r.out, "\n%s\n\n", strings.Repeat("=", 70))
	fmt.Fprintln(r.out, pending.Turn.Payload.String())

	for {
		fmt.Fprint(r.out, "\n[A]pprove / [R]evise / [S]kip / [Q]uit: ")
		choice, err := r.readLine(ctx)
		if err != nil {
			return orchestrator.Outcome{}, err
		}

		switch strings.ToLower(strings.TrimSpace(choice)) {
		case "a", "approve":
			return orchestrator.Outcome{Verdict: transcript.VerdictApproved}, nil
		case "s", "skip":
			return orchestrator.Outcome{Verdict: transcript.VerdictSkipped}, nil
		case "q", "quit":
			return orchestrator.Outcome{Verdict: transcript.VerdictRejected, Feedback: "session aborted by reviewer"}, nil
		case "r", "revise":
			fmt.Fprint(r.out, "Feedback for the revision: ")
			feedback, err := r.readLine(ctx)
			if err != nil {
				return orchestrator.Outcome{}, err
			}
			return orchestrator.Outcome{Verdict: transcript.VerdictRevise, Feedback: strings.TrimSpace(feedback)}, nil
		default:
			fmt.Fprintln(r.out, "Please answer a, r, s, or q.")
		}
	}
}

// readLine reads one input line while honoring context cancellation. The
// read itself runs in a goroutine because stdin reads cannot be interrupted.
func (r *consoleReviewer) readLine(ctx context.Context) (string, error) {
	type lineResult struct {
		line string
		err  error
	}
	ch := make(chan lineResult, 1)
	go func() {
		line, err := r.in.ReadString('\n')
		ch <- lineResult{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.err != nil && res.line == "" {
			return "", res.err
		}
		return res.line, nil
	}
}
