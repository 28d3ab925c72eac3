package transcript

import (
	"strings"
	"sync"
	"testing"

	"github.com/leofalp/conclave/core/cost"
	"github.com/leofalp/conclave/core/payload"
)

func TestAppendAssignsSequentialSeq(t *testing.T) {
	tr := New()
	q := tr.AppendQuestion("what is Go?", "")
	a := tr.AppendAgentTurn("researcher", payload.Text("Go is a language."), nil)
	d := tr.AppendDecision(Decision{TurnSeq: a.Seq, Verdict: VerdictApproved})

	if q.Seq != 0 || a.Seq != 1 || d.Seq != 2 {
		t.Errorf("seqs = %d, %d, %d, want 0, 1, 2", q.Seq, a.Seq, d.Seq)
	}
	if tr.Len() != 3 {
		t.Errorf("Len() = %d, want 3", tr.Len())
	}
}

func TestAppendQuestionWithContext(t *testing.T) {
	tr := New()
	turn := tr.AppendQuestion("best autogen applications", "focus on production use")
	if len(turn.Payload) != 2 {
		t.Fatalf("payload parts = %d, want 2", len(turn.Payload))
	}
	if !strings.Contains(turn.Payload[1].Text, "focus on production use") {
		t.Errorf("context part = %q", turn.Payload[1].Text)
	}
}

func TestAgentTurnCarriesCostRef(t *testing.T) {
	tr := New()
	rec := &cost.Record{Role: "analyst", Model: "gpt-4o-mini", InputTokens: 100, OutputTokens: 50, Dollars: 0.001}
	turn := tr.AppendAgentTurn("analyst", payload.Text("analysis"), rec)
	if turn.CostRef != rec {
		t.Error("agent turn lost its cost reference")
	}

	q := tr.AppendQuestion("follow-up", "")
	if q.CostRef != nil {
		t.Error("question turn must not carry a cost reference")
	}
}

func TestMessagesProjection(t *testing.T) {
	tr := New()
	tr.AppendQuestion("q", "")
	tr.AppendAgentTurn("researcher", payload.Text("findings"), nil)
	tr.AppendDecision(Decision{TurnSeq: 1, Verdict: VerdictApproved})
	tr.AppendAgentTurn("analyst", payload.Text("analysis"), nil)

	msgs := tr.Messages()
	if len(msgs) != 3 {
		t.Fatalf("len(Messages()) = %d, want 3 (decision turns omitted)", len(msgs))
	}
	if msgs[0].Role != "user" {
		t.Errorf("msgs[0].Role = %q, want user", msgs[0].Role)
	}
	content, _ := msgs[1].Content.(string)
	if !strings.Contains(content, "[researcher]") || !strings.Contains(content, "findings") {
		t.Errorf("msgs[1].Content = %q", content)
	}
}

func TestExcludeRemovesTurnFromMessages(t *testing.T) {
	tr := New()
	tr.AppendQuestion("q", "")
	skipped := tr.AppendAgentTurn("critic", payload.Text("nitpicks"), nil)
	tr.AppendAgentTurn("synthesizer", payload.Text("summary"), nil)

	tr.Exclude(skipped.Seq)

	for _, msg := range tr.Messages() {
		if content, ok := msg.Content.(string); ok && strings.Contains(content, "nitpicks") {
			t.Error("excluded turn leaked into Messages()")
		}
	}
	if tr.Len() != 3 {
		t.Errorf("Len() = %d, want 3 (exclusion must not drop the turn)", tr.Len())
	}
}

func TestDecisionTurnPayload(t *testing.T) {
	tr := New()
	turn := tr.AppendDecision(Decision{TurnSeq: 0, Verdict: VerdictRevise, Feedback: "cite sources"})
	if turn.Kind != KindHumanDecision {
		t.Errorf("Kind = %q", turn.Kind)
	}
	if got := turn.Payload.String(); got != "revise: cite sources" {
		t.Errorf("payload = %q", got)
	}
	if turn.Decision.Timestamp.IsZero() {
		t.Error("decision timestamp not set")
	}
}

func TestLast(t *testing.T) {
	tr := New()
	if _, ok := tr.Last(); ok {
		t.Error("Last() on empty transcript should report false")
	}
	tr.AppendQuestion("q", "")
	want := tr.AppendAgentTurn("researcher", payload.Text("r"), nil)
	got, ok := tr.Last()
	if !ok || got.Seq != want.Seq {
		t.Errorf("Last() = %+v, %v", got, ok)
	}
}

func TestConcurrentAppends(t *testing.T) {
	tr := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tr.AppendAgentTurn("researcher", payload.Text("x"), nil)
		}()
	}
	wg.Wait()

	turns := tr.Turns()
	if len(turns) != 50 {
		t.Fatalf("Len() = %d, want 50", len(turns))
	}
	for i, turn := range turns {
		if turn.Seq != i {
			t.Errorf("turns[%d].Seq = %d", i, turn.Seq)
		}
	}
}
