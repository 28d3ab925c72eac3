// Package ai defines the provider-agnostic contract between conclave and the
// language-model backends that power its agents.
//
// [Provider] is the single interface every backend implements; [ChatRequest]
// and [ChatResponse] are the generic wire-independent request and response
// shapes. Response content is deliberately untyped ([ChatResponse.Content] is
// any): backends return either a bare string or a list of content blocks, and
// the payload package normalizes both at the boundary.
//
// [BackendError] distinguishes transient failures (rate limits, 5xx, network)
// that the orchestrator retries from permanent ones that it surfaces.
package ai
