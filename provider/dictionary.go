package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Kind selects which dictionary index a lookup runs against.
type Kind string

const (
	KindWord   Kind = "word"
	KindPhrase Kind = "phrase"
)

// Definition is a single dictionary sense for a word or phrase.
type Definition struct {
	Headword     string
	PartOfSpeech string
	Text         string
	Example      string
}

// AbbreviationGroup holds the expansions of an abbreviation within one
// category (e.g. "Computing", "Medicine").
type AbbreviationGroup struct {
	Category   string
	Expansions []string
}

// ThesaurusEntry bundles the synonyms and antonyms of one headword sense.
type ThesaurusEntry struct {
	Headword string
	Synonyms []string
	Antonyms []string
}

// DictionaryClient talks to the dictionary service.
type DictionaryClient struct {
	httpClient *http.Client
	baseURL    string
}

// DictionaryOption configures a DictionaryClient.
type DictionaryOption func(*DictionaryClient)

// WithDictionaryTimeout sets the HTTP client timeout.
func WithDictionaryTimeout(d time.Duration) DictionaryOption {
	return func(c *DictionaryClient) {
		c.httpClient.Timeout = d
	}
}

// NewDictionaryClient creates a client for the dictionary service at baseURL.
func NewDictionaryClient(baseURL string, opts ...DictionaryOption) *DictionaryClient {
	c := &DictionaryClient{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    baseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type definitionsResponse struct {
	Entries []struct {
		Headword     string `json:"headword"`
		PartOfSpeech string `json:"part_of_speech"`
		Definition   string `json:"definition"`
		Example      string `json:"example"`
	} `json:"entries"`
}

// Definitions looks up dictionary senses for a word or phrase.
func (c *DictionaryClient) Definitions(ctx context.Context, kind Kind, term string) ([]Definition, error) {
	u := fmt.Sprintf("%s/v1/definitions?type=%s&q=%s", c.baseURL, kind, url.QueryEscape(term))

	var body definitionsResponse
	if err := getJSON(ctx, c.httpClient, u, &body); err != nil {
		return nil, fmt.Errorf("definitions %q: %w", term, err)
	}

	defs := make([]Definition, 0, len(body.Entries))
	for _, e := range body.Entries {
		defs = append(defs, Definition{
			Headword:     e.Headword,
			PartOfSpeech: e.PartOfSpeech,
			Text:         e.Definition,
			Example:      e.Example,
		})
	}
	return defs, nil
}

type abbreviationsResponse struct {
	Groups []struct {
		Category   string   `json:"category"`
		Expansions []string `json:"expansions"`
	} `json:"groups"`
}

// Abbreviations looks up categorized expansions for an abbreviation.
func (c *DictionaryClient) Abbreviations(ctx context.Context, term string) ([]AbbreviationGroup, error) {
	u := fmt.Sprintf("%s/v1/abbreviations?q=%s", c.baseURL, url.QueryEscape(term))

	var body abbreviationsResponse
	if err := getJSON(ctx, c.httpClient, u, &body); err != nil {
		return nil, fmt.Errorf("abbreviations %q: %w", term, err)
	}

	groups := make([]AbbreviationGroup, 0, len(body.Groups))
	for _, g := range body.Groups {
		groups = append(groups, AbbreviationGroup{Category: g.Category, Expansions: g.Expansions})
	}
	return groups, nil
}

type thesaurusResponse struct {
	Entries []struct {
		Headword string   `json:"headword"`
		Synonyms []string `json:"synonyms"`
		Antonyms []string `json:"antonyms"`
	} `json:"entries"`
}

// Thesaurus looks up synonym and antonym sets for a term.
func (c *DictionaryClient) Thesaurus(ctx context.Context, term string) ([]ThesaurusEntry, error) {
	u := fmt.Sprintf("%s/v1/thesaurus?q=%s", c.baseURL, url.QueryEscape(term))

	var body thesaurusResponse
	if err := getJSON(ctx, c.httpClient, u, &body); err != nil {
		return nil, fmt.Errorf("thesaurus %q: %w", term, err)
	}

	entries := make([]ThesaurusEntry, 0, len(body.Entries))
	for _, e := range body.Entries {
		entries = append(entries, ThesaurusEntry{
			Headword: e.Headword,
			Synonyms: e.Synonyms,
			Antonyms: e.Antonyms,
		})
	}
	return entries, nil
}
