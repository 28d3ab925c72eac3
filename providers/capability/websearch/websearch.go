// Package websearch provides a web search capability backed by the free
// DuckDuckGo Instant Answer API. It returns instant answers, abstracts, and
// related-topic summaries for a query, without requiring an API key.
package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/leofalp/conclave/providers/capability"
)

const (
	defaultBaseURL = "https://api.duckduckgo.com/"
	userAgent      = "conclave-websearch/1.0"
	maxTopics      = 5
)

// Input is the argument shape the model supplies when invoking the search.
type Input struct {
	Query string `json:"query"`
}

// Output summarizes the search results for LLM consumption.
type Output struct {
	Query   string `json:"query"`
	Summary string `json:"summary"`
}

// Searcher performs DuckDuckGo instant-answer lookups. The zero-value-adjacent
// constructor [New] is suitable for production; tests override BaseURL and Client.
type Searcher struct {
	BaseURL string
	Client  *http.Client
}

// New returns a Searcher targeting the public DuckDuckGo API.
func New() *Searcher {
	return &Searcher{BaseURL: defaultBaseURL, Client: &http.Client{}}
}

// Capability wraps the searcher as a [capability.Capability] named WebSearch.
func (s *Searcher) Capability() capability.Capability {
	return capability.NewFunc("WebSearch",
		"Search the web using DuckDuckGo. Returns instant answers, abstracts, and related topics for a query. Use for current events, factual lookups, and general research.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{"type": "string", "description": "The search query"},
			},
			"required": []string{"query"},
		},
		s.Search,
	)
}

// ddgResponse is the subset of the Instant Answer API response we consume.
type ddgResponse struct {
	AbstractText  string `json:"AbstractText"`
	AbstractURL   string `json:"AbstractURL"`
	Answer        string `json:"Answer"`
	Definition    string `json:"Definition"`
	RelatedTopics []struct {
		Text     string `json:"Text"`
		FirstURL string `json:"FirstURL"`
	} `json:"RelatedTopics"`
}

// Search performs the lookup and folds the response into a compact summary.
// An empty result set is not an error; the summary says so explicitly so the
// agent can state the gap instead of guessing.
func (s *Searcher) Search(ctx context.Context, req Input) (Output, error) {
	if strings.TrimSpace(req.Query) == "" {
		return Output{}, fmt.Errorf("query must not be empty")
	}

	params := url.Values{}
	params.Add("q", req.Query)
	params.Add("format", "json")
	params.Add("no_html", "1")
	params.Add("skip_disambig", "1")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return Output{}, fmt.Errorf("error creating request: %w", err)
	}
	httpReq.Header.Set("User-Agent", userAgent)

	resp, err := s.Client.Do(httpReq)
	if err != nil {
		return Output{}, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return Output{}, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Output{}, fmt.Errorf("error reading response: %w", err)
	}

	var ddg ddgResponse
	if err := json.Unmarshal(body, &ddg); err != nil {
		return Output{}, fmt.Errorf("error parsing response: %w", err)
	}

	var results []string
	if ddg.AbstractText != "" {
		results = append(results, "Abstract: "+ddg.AbstractText)
		if ddg.AbstractURL != "" {
			results = append(results, "Source: "+ddg.AbstractURL)
		}
	}
	if ddg.Answer != "" {
		results = append(results, "Answer: "+ddg.Answer)
	}
	if ddg.Definition != "" {
		results = append(results, "Definition: "+ddg.Definition)
	}
	if len(ddg.RelatedTopics) > 0 {
		var topics []string
		for i, topic := range ddg.RelatedTopics {
			if i >= maxTopics {
				break
			}
			if topic.Text != "" {
				topics = append(topics, topic.Text)
			}
		}
		if len(topics) > 0 {
			results = append(results, "Related topics: "+strings.Join(topics, "; "))
		}
	}

	summary := strings.Join(results, "\n\n")
	if summary == "" {
		summary = "No results found for this query."
	}

	return Output{Query: req.Query, Summary: summary}, nil
}
