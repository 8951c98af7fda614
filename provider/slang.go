package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"
)

const defaultSlangBaseURL = "https://api.urbandictionary.com"

// SlangEntry is one crowd-sourced slang definition.
type SlangEntry struct {
	Definition string
	Example    string
	ThumbsUp   int
}

// SlangClient talks to the Urban Dictionary API.
type SlangClient struct {
	httpClient *http.Client
	baseURL    string
}

// SlangOption configures a SlangClient.
type SlangOption func(*SlangClient)

// WithSlangBaseURL sets a custom base URL (for testing).
func WithSlangBaseURL(u string) SlangOption {
	return func(c *SlangClient) {
		c.baseURL = u
	}
}

// WithSlangTimeout sets the HTTP client timeout.
func WithSlangTimeout(d time.Duration) SlangOption {
	return func(c *SlangClient) {
		c.httpClient.Timeout = d
	}
}

// NewSlangClient creates a new slang lookup client.
func NewSlangClient(opts ...SlangOption) *SlangClient {
	c := &SlangClient{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    defaultSlangBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type slangResponse struct {
	List []struct {
		Definition string `json:"definition"`
		Example    string `json:"example"`
		ThumbsUp   int    `json:"thumbs_up"`
	} `json:"list"`
}

// Define looks up slang definitions for a term, best-rated first.
func (c *SlangClient) Define(ctx context.Context, term string) ([]SlangEntry, error) {
	u := fmt.Sprintf("%s/v0/define?term=%s", c.baseURL, url.QueryEscape(term))

	var body slangResponse
	if err := getJSON(ctx, c.httpClient, u, &body); err != nil {
		return nil, fmt.Errorf("slang %q: %w", term, err)
	}

	entries := make([]SlangEntry, 0, len(body.List))
	for _, e := range body.List {
		entries = append(entries, SlangEntry{
			Definition: e.Definition,
			Example:    e.Example,
			ThumbsUp:   e.ThumbsUp,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].ThumbsUp > entries[j].ThumbsUp
	})
	return entries, nil
}
