// Package cost implements conclave's token-to-dollar accounting.
//
// A [RateTable] maps model identifiers to [ModelCost] per-million-token rates
// and is read-only after construction; it is injected into every [Ledger]
// rather than accessed as ambient global state. Pricing an unknown model is an
// error ([ErrUnknownModel]), never a silent zero; a zero-cost default would
// corrupt audit totals.
//
// A [Ledger] accumulates one [Record] per agent invocation (revisions
// included) and produces per-role and grand totals that reconcile exactly
// with the sum of the individual records.
package cost
