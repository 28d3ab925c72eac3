// Package agent implements the role-bound agents of the answer pipeline.
//
// An [Agent] is a fixed [Role] (researcher, analyst, fact_checker,
// synthesizer, critic, or the opt-in code_executor) bound to a backend
// provider and a capability catalog. Each invocation sees the full ordered
// transcript, may run a bounded tool-call loop, and returns a normalized
// payload plus the token usage needed for cost attribution.
package agent
