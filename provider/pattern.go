package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultPatternBaseURL = "https://api.datamuse.com"
	maxPatternResults     = 100
)

// PatternClient finds words matching a fill-in-the-blank letter mask.
type PatternClient struct {
	httpClient *http.Client
	baseURL    string
}

// PatternOption configures a PatternClient.
type PatternOption func(*PatternClient)

// WithPatternBaseURL sets a custom base URL (for testing).
func WithPatternBaseURL(u string) PatternOption {
	return func(c *PatternClient) {
		c.baseURL = u
	}
}

// WithPatternTimeout sets the HTTP client timeout.
func WithPatternTimeout(d time.Duration) PatternOption {
	return func(c *PatternClient) {
		c.httpClient.Timeout = d
	}
}

// NewPatternClient creates a new word-pattern client.
func NewPatternClient(opts ...PatternOption) *PatternClient {
	c := &PatternClient{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    defaultPatternBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type patternWord struct {
	Word string `json:"word"`
}

// FindByMask returns candidate words for a mask over {a-z, '_'}, where each
// underscore stands for exactly one unknown letter. Candidates are returned
// in provider order; callers needing determinism sort them.
func (c *PatternClient) FindByMask(ctx context.Context, mask string) ([]string, error) {
	// The upstream wildcard for a single unknown letter is '?'.
	pattern := strings.ReplaceAll(mask, "_", "?")
	u := fmt.Sprintf("%s/words?sp=%s&max=%d", c.baseURL, url.QueryEscape(pattern), maxPatternResults)

	var body []patternWord
	if err := getJSON(ctx, c.httpClient, u, &body); err != nil {
		return nil, fmt.Errorf("pattern %q: %w", mask, err)
	}

	words := make([]string, 0, len(body))
	for _, w := range body {
		words = append(words, w.Word)
	}
	return words, nil
}
