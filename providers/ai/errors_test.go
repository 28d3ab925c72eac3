package ai

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestBackendErrorMessage(t *testing.T) {
	err := &BackendError{Provider: "openai", StatusCode: 429, Message: "rate limited", Retryable: true}
	want := "openai backend error (status 429): rate limited"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	err = &BackendError{Provider: "openai", Message: "connection refused"}
	want = "openai backend error: connection refused"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"retryable backend error", &BackendError{Retryable: true}, true},
		{"permanent backend error", &BackendError{Retryable: false}, false},
		{"wrapped retryable", fmt.Errorf("invoke: %w", &BackendError{Retryable: true}), true},
		{"deadline exceeded", context.DeadlineExceeded, true},
		{"canceled", context.Canceled, false},
		{"plain error", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
