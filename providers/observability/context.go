package observability

import "context"

// contextKey is a private type for context keys to avoid collisions.
type contextKey struct{}

var observerContextKey = contextKey{}

// ObserverFromContext extracts an Observer from the context.
// Returns nil if no observer is present.
func ObserverFromContext(ctx context.Context) Observer {
	if ctx == nil {
		return nil
	}
	obs, _ := ctx.Value(observerContextKey).(Observer)
	return obs
}

// ContextWithObserver returns a new context with the given observer attached.
func ContextWithObserver(ctx context.Context, obs Observer) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, observerContextKey, obs)
}
