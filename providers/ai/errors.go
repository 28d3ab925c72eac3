package ai

import (
	"context"
	"errors"
	"fmt"
)

// BackendError reports a failed backend call. Retryable marks transient
// conditions (rate limits, 5xx responses, network failures) that the
// orchestrator may retry with the same prompt context; everything else is
// permanent and surfaces immediately.
type BackendError struct {
	Provider   string
	StatusCode int
	Message    string
	Retryable  bool
	Err        error
}

func (e *BackendError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s backend error (status %d): %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s backend error: %s", e.Provider, e.Message)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether err represents a transient backend failure.
// Context deadline expiry counts as retryable: a caller-imposed timeout on an
// agent call is treated like any other transient fault. Context cancellation
// does not; the caller asked to stop.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	var be *BackendError
	if errors.As(err, &be) {
		return be.Retryable
	}
	return false
}
