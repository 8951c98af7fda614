package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// inlineCacheTime tells Telegram how long it may cache an inline answer,
// in seconds. Results are personal, so the cache is per user.
const inlineCacheTime = 30

// Transport adapts the Telegram Bot API to the interfaces the handler and
// debouncer consume.
type Transport struct {
	api *tgbotapi.BotAPI
}

// NewTransport wraps a Telegram Bot API client.
func NewTransport(api *tgbotapi.BotAPI) *Transport {
	return &Transport{api: api}
}

// SendMessage delivers a chat message, optionally HTML-formatted, and
// returns the sent message id.
func (t *Transport) SendMessage(ctx context.Context, chatID int64, text string, html bool) (int64, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	if html {
		msg.ParseMode = tgbotapi.ModeHTML
	}

	sent, err := t.api.Send(msg)
	if err != nil {
		return 0, fmt.Errorf("send message: %w", err)
	}
	return int64(sent.MessageID), nil
}

// AnswerInline answers an inline query with the given results.
func (t *Transport) AnswerInline(ctx context.Context, queryID string, results []interface{}) error {
	cfg := tgbotapi.InlineConfig{
		InlineQueryID: queryID,
		Results:       results,
		CacheTime:     inlineCacheTime,
		IsPersonal:    true,
	}
	if _, err := t.api.Request(cfg); err != nil {
		return fmt.Errorf("answer inline query: %w", err)
	}
	return nil
}

// Cancel answers a superseded inline query with an empty result set. The
// Bot API has no true cancellation; an empty answer just stops the client
// spinner for that query id.
func (t *Transport) Cancel(ctx context.Context, queryID string) error {
	return t.AnswerInline(ctx, queryID, nil)
}
