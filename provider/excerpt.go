package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-shiori/go-readability"
)

const defaultMaxExcerptLen = 500

// ExcerptFetcher pulls a short readable excerpt from a web dictionary page.
type ExcerptFetcher struct {
	httpClient    *http.Client
	maxExcerptLen int
}

// ExcerptOption configures an ExcerptFetcher.
type ExcerptOption func(*ExcerptFetcher)

// WithExcerptTimeout sets the HTTP client timeout.
func WithExcerptTimeout(d time.Duration) ExcerptOption {
	return func(f *ExcerptFetcher) {
		f.httpClient.Timeout = d
	}
}

// WithMaxExcerptLength sets the maximum excerpt length in bytes.
func WithMaxExcerptLength(n int) ExcerptOption {
	return func(f *ExcerptFetcher) {
		f.maxExcerptLen = n
	}
}

// NewExcerptFetcher creates a new excerpt fetcher.
func NewExcerptFetcher(opts ...ExcerptOption) *ExcerptFetcher {
	f := &ExcerptFetcher{
		httpClient:    &http.Client{Timeout: defaultTimeout},
		maxExcerptLen: defaultMaxExcerptLen,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch extracts the leading readable text from the page at rawURL.
func (f *ExcerptFetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	pageURL, err := url.Parse(rawURL)
	if err != nil || pageURL.Scheme == "" || pageURL.Host == "" {
		return "", fmt.Errorf("invalid URL: %s", rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; lexibot/1.0)")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	page, err := readability.FromReader(resp.Body, pageURL)
	if err != nil {
		return "", fmt.Errorf("extract content: %w", err)
	}

	return clipExcerpt(strings.TrimSpace(page.TextContent), f.maxExcerptLen), nil
}

// clipExcerpt cuts text to at most max bytes, preferring a sentence boundary
// and never splitting a rune.
func clipExcerpt(text string, max int) string {
	if len(text) <= max {
		return text
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	clipped := text[:cut]
	if i := strings.LastIndexByte(clipped, '.'); i > max/2 {
		return clipped[:i+1]
	}
	return strings.TrimRight(clipped, " ") + "…"
}
