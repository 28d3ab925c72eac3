package openai

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/leofalp/conclave/internal/httpx"
	"github.com/leofalp/conclave/providers/ai"
	"github.com/leofalp/conclave/providers/observability"
)

const (
	// defaultBaseURL is the canonical base URL for OpenAI's API.
	defaultBaseURL = "https://api.openai.com/v1"

	// chatCompletionsEndpoint is the path for the Chat Completions endpoint.
	chatCompletionsEndpoint = "/chat/completions"

	// DefaultModel is used when a request does not name a model.
	DefaultModel = "gpt-4o-mini"
)

// OpenAIProvider implements [ai.Provider] for OpenAI's Chat Completions API.
// Use [New] to construct a ready-to-use instance.
type OpenAIProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// New returns an [OpenAIProvider] initialized from environment variables.
// It reads OPENAI_API_KEY for authentication and OPENAI_API_BASE_URL for the
// endpoint base (defaulting to https://api.openai.com/v1 when unset).
func New() *OpenAIProvider {
	apiKey := os.Getenv("OPENAI_API_KEY")
	baseURL := os.Getenv("OPENAI_API_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &OpenAIProvider{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{},
	}
}

// Ensure OpenAIProvider implements ai.Provider at compile time.
var _ ai.Provider = (*OpenAIProvider)(nil)

// WithAPIKey sets the API key used for authenticating requests and returns the
// provider so calls can be chained. It overrides the value read from OPENAI_API_KEY.
func (p *OpenAIProvider) WithAPIKey(apiKey string) ai.Provider {
	p.apiKey = apiKey
	return p
}

// WithBaseURL overrides the API base URL and returns the provider so calls can
// be chained. Use this when targeting a proxy or local testing endpoint.
func (p *OpenAIProvider) WithBaseURL(baseURL string) ai.Provider {
	p.baseURL = baseURL
	return p
}

// WithHttpClient replaces the default [http.Client] used for API calls and
// returns the provider so calls can be chained. Useful for injecting custom
// timeouts, transport layers, or test doubles.
func (p *OpenAIProvider) WithHttpClient(httpClient *http.Client) ai.Provider {
	p.client = httpClient
	return p
}

// Complete implements [ai.Provider] by sending a synchronous chat request to
// OpenAI's Chat Completions API and mapping the result onto the generic
// [ai.ChatResponse]. Transport and API failures are returned as *ai.BackendError
// with Retryable set for rate limits, 5xx responses, and network errors.
func (p *OpenAIProvider) Complete(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	if observer := observability.ObserverFromContext(ctx); observer != nil {
		observer.Debug(ctx, "OpenAI provider preparing request",
			observability.String(observability.AttrLLMProvider, "openai"),
			observability.String(observability.AttrLLMEndpoint, p.baseURL),
			observability.String(observability.AttrLLMModel, request.Model),
			observability.Int("request.messages_count", len(request.Messages)),
			observability.Int("request.tools_count", len(request.Tools)),
		)
	}

	// Guard against missing credentials before making a network call.
	if p.apiKey == "" {
		return nil, &ai.BackendError{Provider: "openai", Message: "OPENAI_API_KEY is not set"}
	}

	openaiReq := requestToOpenAI(request)

	url := p.baseURL + chatCompletionsEndpoint
	httpRes, res, err := httpx.PostJSON[openaiResponse](ctx, p.client, url, openaiReq,
		httpx.Header{Key: "Authorization", Value: "Bearer " + p.apiKey},
	)
	if err != nil {
		return nil, backendError(httpRes, err)
	}

	return responseFromOpenAI(res)
}

// backendError maps a transport or status failure onto *ai.BackendError,
// marking 408, 429, and 5xx statuses (and pure network errors) as retryable.
// A body that fails to decode on a success status is a truncated or garbled
// reply and counts as retryable too.
func backendError(res *http.Response, err error) error {
	be := &ai.BackendError{
		Provider:  "openai",
		Message:   err.Error(),
		Retryable: true, // network-level failures are transient by default
		Err:       err,
	}
	if res != nil {
		be.StatusCode = res.StatusCode
		be.Retryable = res.StatusCode == http.StatusRequestTimeout ||
			res.StatusCode == http.StatusTooManyRequests ||
			res.StatusCode >= 500 ||
			(res.StatusCode < 300 && errors.Is(err, httpx.ErrDecode))
	}
	return be
}
