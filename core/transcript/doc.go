// Package transcript holds the append-only conversation log of a session.
//
// A [Transcript] is a totally ordered sequence of [Turn] values: the user's
// question, one turn per agent response (including revisions), and, in
// interactive runs, one turn per human review decision. Turns are immutable
// once appended; the transcript is the source of truth for prompting, cost
// attribution, and export.
package transcript
