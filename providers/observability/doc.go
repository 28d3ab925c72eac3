// Package observability provides the structured logging contract used across
// conclave, plus a standard-library slog implementation.
//
// Components log through the [Observer] interface with typed [Attribute]
// key-value pairs, and the observer travels through context via
// [ContextWithObserver] / [ObserverFromContext] so deep call sites (providers,
// capabilities) can emit events without plumbing a logger parameter through
// every signature. Attribute name constants keep field naming consistent
// across packages.
package observability
