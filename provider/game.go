package provider

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

const defaultGameBaseURL = "https://www.nytimes.com"

// GameAnswer is the published solution of the daily word game for one date.
type GameAnswer struct {
	ID              int    `json:"id"`
	Solution        string `json:"solution"`
	PrintDate       string `json:"print_date"`
	DaysSinceLaunch int    `json:"days_since_launch"`
	Editor          string `json:"editor"`
}

// GameClient fetches daily word-game solutions.
type GameClient struct {
	httpClient *http.Client
	baseURL    string
}

// GameOption configures a GameClient.
type GameOption func(*GameClient)

// WithGameBaseURL sets a custom base URL (for testing).
func WithGameBaseURL(u string) GameOption {
	return func(c *GameClient) {
		c.baseURL = u
	}
}

// WithGameTimeout sets the HTTP client timeout.
func WithGameTimeout(d time.Duration) GameOption {
	return func(c *GameClient) {
		c.httpClient.Timeout = d
	}
}

// NewGameClient creates a new daily word-game client.
func NewGameClient(opts ...GameOption) *GameClient {
	c := &GameClient{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    defaultGameBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AnswerForDate fetches the solution published for the given calendar date.
func (c *GameClient) AnswerForDate(ctx context.Context, date time.Time) (*GameAnswer, error) {
	day := date.UTC().Format("2006-01-02")
	u := fmt.Sprintf("%s/svc/wordle/v2/%s.json", c.baseURL, day)

	var answer GameAnswer
	if err := getJSON(ctx, c.httpClient, u, &answer); err != nil {
		return nil, fmt.Errorf("game answer for %s: %w", day, err)
	}
	if answer.Solution == "" {
		return nil, fmt.Errorf("game answer for %s: empty solution", day)
	}
	return &answer, nil
}
