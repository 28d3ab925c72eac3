// Package markdown renders finished sessions as Markdown reports.
//
// Export is a pure function of the session: the same session always renders
// to the same bytes, so re-exporting a report never produces spurious diffs.
// Failed sessions export too, with every completed turn and the stop reason,
// which keeps the audit trail intact.
package markdown

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/leofalp/conclave/core/cost"
	"github.com/leofalp/conclave/core/orchestrator"
	"github.com/leofalp/conclave/core/payload"
	"github.com/leofalp/conclave/core/transcript"
)

// Export writes the session report to w.
func Export(w io.Writer, session *orchestrator.Session) error {
	if session == nil {
		return fmt.Errorf("session must not be nil")
	}

	var b strings.Builder
	writeHeader(&b, session)
	writeConversation(&b, session)
	writeOutcome(&b, session)
	writeCostSummary(&b, session)

	_, err := io.WriteString(w, b.String())
	return err
}

// ExportFile renders the report into dir and returns the file path. The
// filename is derived from the session id, so repeated exports of the same
// session overwrite the same file.
func ExportFile(dir string, session *orchestrator.Session) (string, error) {
	if session == nil {
		return "", fmt.Errorf("session must not be nil")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	path := filepath.Join(dir, "qa_session_"+session.ID+".md")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create report file: %w", err)
	}
	if err := Export(f, session); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close report file: %w", err)
	}
	return path, nil
}

func writeHeader(b *strings.Builder, session *orchestrator.Session) {
	fmt.Fprintf(b, "# QA Session %s\n\n", session.ID)

	fmt.Fprintf(b, "## Session Details\n\n")
	fmt.Fprintf(b, "- **Question:** %s\n", session.Question)
	if session.Context != "" {
		fmt.Fprintf(b, "- **Context:** %s\n", session.Context)
	}
	fmt.Fprintf(b, "- **Mode:** %s\n", session.Mode)

	roles := make([]string, len(session.Roles))
	for i, r := range session.Roles {
		roles[i] = string(r)
	}
	fmt.Fprintf(b, "- **Roles:** %s\n", strings.Join(roles, ", "))
	fmt.Fprintf(b, "- **Status:** %s\n", session.Status)
	if session.FailureReason != "" {
		fmt.Fprintf(b, "- **Stop reason:** %s\n", session.FailureReason)
	}
	fmt.Fprintf(b, "- **Started:** %s\n", formatTime(session.CreatedAt))
	if !session.CompletedAt.IsZero() {
		fmt.Fprintf(b, "- **Finished:** %s\n", formatTime(session.CompletedAt))
	}
	b.WriteString("\n")
}

func writeConversation(b *strings.Builder, session *orchestrator.Session) {
	fmt.Fprintf(b, "## Conversation\n\n")

	turns := session.Transcript.Turns()
	if len(turns) == 0 {
		b.WriteString("*No conversation history available.*\n\n")
		return
	}

	for _, turn := range turns {
		switch turn.Kind {
		case transcript.KindQuestion:
			fmt.Fprintf(b, "### Step %d: Question\n\n", turn.Seq+1)
		case transcript.KindAgentResponse:
			fmt.Fprintf(b, "### Step %d: %s\n\n", turn.Seq+1, turn.Origin)
		case transcript.KindHumanDecision:
			fmt.Fprintf(b, "### Step %d: Human Review\n\n", turn.Seq+1)
		}
		fmt.Fprintf(b, "**Time:** %s\n", formatTime(turn.Timestamp))

		if turn.CostRef != nil {
			fmt.Fprintf(b, "**Cost:** %s (%d input + %d output tokens)\n",
				cost.FormatDollars(turn.CostRef.Dollars),
				turn.CostRef.InputTokens, turn.CostRef.OutputTokens)
		}
		if turn.Decision != nil {
			fmt.Fprintf(b, "**Verdict:** %s\n", turn.Decision.Verdict)
			if turn.Decision.Feedback != "" {
				fmt.Fprintf(b, "**Feedback:** %s\n", turn.Decision.Feedback)
			}
			b.WriteString("\n")
			continue
		}

		b.WriteString("\n")
		writePayload(b, turn.Payload)
	}
}

func writePayload(b *strings.Builder, p payload.Payload) {
	var attachments []string
	var texts []string
	for _, part := range p {
		switch part.Kind {
		case payload.KindText:
			texts = append(texts, part.Text)
		case payload.KindImage:
			attachments = append(attachments, "image: "+attachmentRef(part))
		case payload.KindBinary:
			attachments = append(attachments, "binary ("+part.MediaType+"): "+attachmentRef(part))
		}
	}

	fmt.Fprintf(b, "```\n%s\n```\n\n", strings.TrimSpace(strings.Join(texts, "\n\n")))
	for _, a := range attachments {
		fmt.Fprintf(b, "- Attachment, %s\n", a)
	}
	if len(attachments) > 0 {
		b.WriteString("\n")
	}
}

func attachmentRef(part payload.Part) string {
	if part.URL != "" {
		return part.URL
	}
	return fmt.Sprintf("%d bytes inline", len(part.Data))
}

func writeOutcome(b *strings.Builder, session *orchestrator.Session) {
	fmt.Fprintf(b, "## Final Result\n\n")

	if session.Status == orchestrator.StatusFailed {
		reason := session.FailureReason
		if reason == "" {
			reason = "session failed"
		}
		fmt.Fprintf(b, "The session did not complete: %s.\n\n", strings.TrimSuffix(reason, "."))
		return
	}

	// The last agent response is the pipeline's final answer.
	turns := session.Transcript.Turns()
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Kind == transcript.KindAgentResponse {
			fmt.Fprintf(b, "```\n%s\n```\n\n", strings.TrimSpace(turns[i].Payload.String()))
			return
		}
	}
	b.WriteString("*No final answer generated.*\n\n")
}

func writeCostSummary(b *strings.Builder, session *orchestrator.Session) {
	fmt.Fprintf(b, "## Cost Summary\n\n")

	records := session.Ledger.Records()
	if len(records) == 0 {
		b.WriteString("No billable agent invocations.\n")
		return
	}

	totals := session.Ledger.Totals()

	b.WriteString("| Agent | Invocations | Input Tokens | Output Tokens | Cost |\n")
	b.WriteString("|-------|-------------|--------------|---------------|------|\n")

	// Rows follow first-invocation order so the table is stable across
	// exports.
	var order []string
	seen := make(map[string]bool)
	for _, rec := range records {
		if !seen[rec.Role] {
			seen[rec.Role] = true
			order = append(order, rec.Role)
		}
	}
	for _, role := range order {
		rt := totals.PerRole[role]
		fmt.Fprintf(b, "| %s | %d | %d | %d | %s |\n",
			rt.Role, rt.Invocations, rt.InputTokens, rt.OutputTokens, cost.FormatDollars(rt.Dollars))
	}

	fmt.Fprintf(b, "\n- **Total input tokens:** %d\n", totals.InputTokens)
	fmt.Fprintf(b, "- **Total output tokens:** %d\n", totals.OutputTokens)
	fmt.Fprintf(b, "- **Total cost:** %s\n", cost.FormatDollars(totals.GrandTotal))
}

func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05 UTC")
}
