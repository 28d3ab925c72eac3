package main

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/leofalp/conclave/core/orchestrator"
	"github.com/leofalp/conclave/core/payload"
	"github.com/leofalp/conclave/core/transcript"
)

func pendingTurn() orchestrator.PendingReview {
	return orchestrator.PendingReview{
		SessionID:     "abc123",
		Role:          "researcher",
		Turn:          transcript.Turn{Seq: 1, Origin: "researcher", Payload: payload.Text("findings")},
		RevisionsLeft: 3,
	}
}

func TestConsoleReviewerVerdicts(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  transcript.Verdict
	}{
		{"approve", "a\n", transcript.VerdictApproved},
		{"approve word", "Approve\n", transcript.VerdictApproved},
		{"skip", "s\n", transcript.VerdictSkipped},
		{"quit rejects", "q\n", transcript.VerdictRejected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out strings.Builder
			r := newConsoleReviewer(strings.NewReader(tt.input), &out, 0)
			outcome, err := r.Review(context.Background(), pendingTurn())
			if err != nil {
				t.Fatalf("Review() error = %v", err)
			}
			if outcome.Verdict != tt.want {
				t.Errorf("verdict = %q, want %q", outcome.Verdict, tt.want)
			}
			if !strings.Contains(out.String(), "findings") {
				t.Error("turn content not shown to the reviewer")
			}
		})
	}
}

func TestConsoleReviewerReviseCollectsFeedback(t *testing.T) {
	var out strings.Builder
	r := newConsoleReviewer(strings.NewReader("r\nadd citations\n"), &out, 0)
	outcome, err := r.Review(context.Background(), pendingTurn())
	if err != nil {
		t.Fatalf("Review() error = %v", err)
	}
	if outcome.Verdict != transcript.VerdictRevise {
		t.Errorf("verdict = %q", outcome.Verdict)
	}
	if outcome.Feedback != "add citations" {
		t.Errorf("feedback = %q", outcome.Feedback)
	}
}

func TestConsoleReviewerRepromptsOnGarbage(t *testing.T) {
	var out strings.Builder
	r := newConsoleReviewer(strings.NewReader("x\na\n"), &out, 0)
	outcome, err := r.Review(context.Background(), pendingTurn())
	if err != nil {
		t.Fatalf("Review() error = %v", err)
	}
	if outcome.Verdict != transcript.VerdictApproved {
		t.Errorf("verdict = %q", outcome.Verdict)
	}
	if !strings.Contains(out.String(), "Please answer") {
		t.Error("expected a reprompt message")
	}
}

func TestConsoleReviewerTimeout(t *testing.T) {
	var out strings.Builder
	// A pipe-like reader that never yields a line.
	blocked := &blockingReader{}
	r := newConsoleReviewer(blocked, &out, 1)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	if _, err := r.Review(ctx, pendingTurn()); err == nil {
		t.Error("expected timeout error")
	}
}

type blockingReader struct{}

func (b *blockingReader) Read(p []byte) (int, error) {
	select {}
}
