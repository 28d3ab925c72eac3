package ai

import (
	"context"
	"net/http"
)

// Provider is the core interface every language-model backend implements.
// It covers the full lifecycle of a single completion: authentication,
// endpoint configuration, and message dispatch.
type Provider interface {
	// Complete sends a chat request and returns the finished response.
	// Transport, quota, and model failures are reported as *BackendError
	// so callers can decide whether to retry.
	Complete(ctx context.Context, request ChatRequest) (*ChatResponse, error)

	// WithAPIKey sets the API key used for authenticating requests.
	WithAPIKey(apiKey string) Provider

	// WithBaseURL overrides the default base URL for API requests.
	WithBaseURL(baseURL string) Provider

	// WithHttpClient sets the HTTP client used for outbound requests.
	WithHttpClient(httpClient *http.Client) Provider
}
