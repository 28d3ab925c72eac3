// Package webfetch provides a capability that fetches a web page and converts
// its HTML content to Markdown, giving research agents readable page text
// instead of raw markup.
package webfetch

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/leofalp/conclave/providers/capability"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second
	// MaxBodySize caps the response body at 10MB.
	MaxBodySize = 10 * 1024 * 1024

	userAgent             = "conclave-webfetch/1.0"
	dialTimeout           = 10 * time.Second
	tlsHandshakeTimeout   = 10 * time.Second
	responseHeaderTimeout = 10 * time.Second
	maxRedirects          = 10
)

// Input holds the parameters passed by the language model. URL is the only
// required field.
type Input struct {
	URL            string `json:"url"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty"`
}

// Output holds the fetched page. URL reflects the final destination after
// all HTTP redirects.
type Output struct {
	URL      string `json:"url"`
	Markdown string `json:"markdown"`
}

// New returns the WebFetch capability. It normalises partial URLs by
// prepending "https://", follows up to ten redirects, enforces a
// [MaxBodySize] limit, and respects context cancellation.
func New() capability.Capability {
	return capability.NewFunc("WebFetch",
		"Fetch a web page and convert its HTML content to Markdown. Supports HTTP and HTTPS, handles partial URLs by adding https://, and follows redirects.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"url": map[string]any{
					"type":        "string",
					"description": "The URL of the web page to fetch (partial URLs like 'example.com' are accepted)",
				},
				"timeout_seconds": map[string]any{
					"type":        "integer",
					"description": "Request timeout in seconds (default 30)",
				},
			},
			"required": []string{"url"},
		},
		Fetch,
	)
}

// Fetch retrieves the web page at req.URL and returns its content as Markdown.
//
// The response body is read in a goroutine so that context cancellation is
// honoured even during slow reads. Fetch returns an error when the URL is
// empty, the HTTP status is not 200 OK, the body exceeds [MaxBodySize], or
// the HTML conversion fails.
func Fetch(ctx context.Context, req Input) (Output, error) {
	u := strings.TrimSpace(req.URL)
	if u == "" {
		return Output{}, fmt.Errorf("URL cannot be empty")
	}
	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		u = "https://" + u
	}

	timeout := DefaultTimeout
	if req.TimeoutSeconds > 0 {
		timeout = time.Duration(req.TimeoutSeconds) * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Output{}, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("User-Agent", userAgent)

	client := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   dialTimeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   tlsHandshakeTimeout,
			ResponseHeaderTimeout: responseHeaderTimeout,
			ForceAttemptHTTP2:     true,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("too many redirects (>%d)", maxRedirects)
			}
			return nil
		},
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return Output{}, fmt.Errorf("request timeout or canceled: %w", err)
		}
		return Output{}, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Output{}, fmt.Errorf("unexpected status code: %d %s", resp.StatusCode, resp.Status)
	}

	// Read in a goroutine so a stalled body does not outlive the context.
	type readResult struct {
		data []byte
		err  error
	}
	readChan := make(chan readResult, 1)
	go func() {
		data, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize))
		readChan <- readResult{data: data, err: err}
	}()

	var htmlBytes []byte
	select {
	case <-ctx.Done():
		return Output{}, fmt.Errorf("timeout while reading response body: %w", ctx.Err())
	case result := <-readChan:
		if result.err != nil {
			return Output{}, fmt.Errorf("failed to read response body: %w", result.err)
		}
		htmlBytes = result.data
	}
	if len(htmlBytes) == MaxBodySize {
		return Output{}, fmt.Errorf("response body exceeds maximum size of %d bytes", MaxBodySize)
	}

	markdown, err := htmltomarkdown.ConvertString(string(htmlBytes))
	if err != nil {
		return Output{}, fmt.Errorf("failed to convert HTML to Markdown: %w", err)
	}

	return Output{
		URL:      resp.Request.URL.String(),
		Markdown: markdown,
	}, nil
}
