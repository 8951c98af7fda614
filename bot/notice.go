package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
)

// noticeArticle wraps a short notice (corrective or generic error text) as a
// single inline result.
func noticeArticle(title, text string) tgbotapi.InlineQueryResultArticle {
	article := tgbotapi.NewInlineQueryResultArticle(uuid.NewString(), title, text)
	article.Description = text
	return article
}
