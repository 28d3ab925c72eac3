// Package orchestrator drives the sequential multi-agent answer pipeline.
//
// An [Orchestrator] runs a fixed, ordered role sequence over one session:
// each agent sees the full transcript committed so far, its response is
// priced into the session ledger, and in interactive mode a [Reviewer]
// resolves every turn through the approval state machine before the next
// role runs. Sessions are independent; the only shared state is the
// read-only rate table.
package orchestrator
