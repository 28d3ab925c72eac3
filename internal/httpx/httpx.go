// Package httpx holds the small HTTP helpers shared by providers and
// capabilities.
package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/leofalp/conclave/providers/observability"
)

// ErrDecode marks a response body that could not be parsed as the expected
// JSON shape. Providers inspect it to tell a truncated or garbled reply on a
// success status apart from a well-formed API error.
var ErrDecode = errors.New("error parsing response")

// Header is a single HTTP header to attach to an outbound request.
type Header struct {
	Key   string
	Value string
}

// PostJSON performs a synchronous HTTP POST with a JSON body and decodes the
// JSON response into Out.
//
// Error handling strategy:
//   - context errors (timeout, cancellation) propagate immediately
//   - non-2xx statuses return an error carrying the status code and a body
//     preview; callers map them onto their own error taxonomy
//   - response body close errors are logged through the context observer but
//     never override the primary error
func PostJSON[Out any](ctx context.Context, client *http.Client, url string, body any, headers ...Header) (*http.Response, *Out, error) {
	httpClient := client
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, nil, fmt.Errorf("error marshaling body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, nil, fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	for _, h := range headers {
		req.Header.Set(h.Key, h.Value)
	}

	res, err := httpClient.Do(req)
	if err != nil {
		return res, nil, fmt.Errorf("error sending request: %w", err)
	}
	defer func(rc io.ReadCloser) {
		if closeErr := rc.Close(); closeErr != nil {
			if obs := observability.ObserverFromContext(ctx); obs != nil {
				obs.Warn(ctx, "failed to close response body",
					observability.Error(closeErr),
					observability.String("http.url", url),
				)
			}
		}
	}(res.Body)

	respBody, err := io.ReadAll(res.Body)
	if err != nil {
		return res, nil, fmt.Errorf("error reading response body: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return res, nil, fmt.Errorf("non-2xx status %d: %s", res.StatusCode, bodyPreview(respBody))
	}

	var out Out
	if err := json.Unmarshal(respBody, &out); err != nil {
		return res, nil, fmt.Errorf("%w (%s): %v", ErrDecode, bodyPreview(respBody), err)
	}

	return res, &out, nil
}

const previewLimit = 512

func bodyPreview(body []byte) string {
	if len(body) <= previewLimit {
		return string(body)
	}
	return string(body[:previewLimit]) + "..."
}
