// Package bot handles Telegram updates: slash commands, free-text lookups
// and debounced inline queries.
package bot

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"sort"
	"strings"

	"lexibot/compose"
	"lexibot/daily"
	"lexibot/dispatch"
	"lexibot/mask"
)

// genericErrorText is the only error wording users ever see for upstream or
// composition failures; internal detail stays in the logs.
const genericErrorText = "Something went wrong. Please try again later."

const welcomeText = "Hi! I look up words for you. 📖\n\n" +
	"Send me a word or a phrase, or use a prefix:\n" +
	"u.word — slang meaning\n" +
	"sa.word — synonyms and antonyms\n" +
	"f.a__ow — find words by pattern, optionally f.a__ow, xyz to ban letters\n\n" +
	"Commands:\n" +
	"/today — today's word-game answer\n" +
	"/stats — your lookup stats\n\n" +
	"I also work inline: type @ me in any chat."

// MessageSender sends chat messages.
type MessageSender interface {
	SendMessage(ctx context.Context, chatID int64, text string, html bool) (int64, error)
}

// InlineAnswerer answers inline queries.
type InlineAnswerer interface {
	AnswerInline(ctx context.Context, queryID string, results []interface{}) error
}

// Pipeline runs a classified command and composes its results.
type Pipeline interface {
	Run(ctx context.Context, userID int64, cmd dispatch.Command, out compose.Composer) error
}

// Gate debounces inline queries per user.
type Gate interface {
	Admit(ctx context.Context, userID int64, queryID string) bool
}

// DailySource provides the word-game answer of the day.
type DailySource interface {
	Fresh(ctx context.Context) (*daily.Answer, error)
}

// StatsProvider returns a user's lookup counts by command kind.
type StatsProvider interface {
	CountByKind(ctx context.Context, userID int64) (map[string]int, error)
}

// Handler routes incoming updates. All dependencies are interfaces so the
// handler is testable without a live bot.
type Handler struct {
	sender   MessageSender
	answerer InlineAnswerer
	pipeline Pipeline
	gate     Gate
	daily    DailySource
	stats    StatsProvider
}

// NewHandler creates an update handler.
func NewHandler(sender MessageSender, answerer InlineAnswerer, pipeline Pipeline, gate Gate, dailySource DailySource, stats StatsProvider) *Handler {
	return &Handler{
		sender:   sender,
		answerer: answerer,
		pipeline: pipeline,
		gate:     gate,
		daily:    dailySource,
		stats:    stats,
	}
}

// HandleMessage processes one chat message from userID in chatID.
func (h *Handler) HandleMessage(ctx context.Context, chatID, userID int64, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	if strings.HasPrefix(text, "/") {
		return h.handleCommand(ctx, chatID, userID, text)
	}

	cmd, err := dispatch.Classify(strings.ToLower(text))
	if errors.Is(err, dispatch.ErrNoCommand) {
		// Unrecognized shapes are ignored, not answered.
		slog.Debug("unclassifiable query", "chat_id", chatID)
		return nil
	}
	if err != nil {
		return err
	}

	mc := compose.NewMessageComposer()
	if err := h.pipeline.Run(ctx, userID, cmd, mc); err != nil {
		return h.sendLookupError(ctx, chatID, cmd, err)
	}

	_, err = h.sender.SendMessage(ctx, chatID, mc.Text(), true)
	return err
}

// HandleInline processes one inline query. It blocks for the debounce
// window; callers run it on its own goroutine.
func (h *Handler) HandleInline(ctx context.Context, queryID string, userID int64, text string) error {
	cmd, err := dispatch.Classify(strings.ToLower(strings.TrimLeft(text, " ")))
	if errors.Is(err, dispatch.ErrNoCommand) {
		// Stop the client spinner, show nothing.
		return h.answerer.AnswerInline(ctx, queryID, nil)
	}
	if err != nil {
		return err
	}

	if !h.gate.Admit(ctx, userID, queryID) {
		// Superseded by a newer query from the same user; drop silently.
		return nil
	}

	ic := compose.NewInlineComposer()
	if err := h.pipeline.Run(ctx, userID, cmd, ic); err != nil {
		if text := maskErrorText(err); text != "" {
			return h.answerer.AnswerInline(ctx, queryID, []interface{}{noticeArticle("Invalid pattern", text)})
		}
		slog.Error("inline lookup failed", "query_id", queryID, "kind", cmd.Kind.String(), "error", err)
		return h.answerer.AnswerInline(ctx, queryID, []interface{}{noticeArticle("Error", genericErrorText)})
	}

	return h.answerer.AnswerInline(ctx, queryID, ic.Results())
}

func (h *Handler) handleCommand(ctx context.Context, chatID, userID int64, text string) error {
	cmd := text
	if i := strings.IndexByte(cmd, ' '); i > 0 {
		cmd = cmd[:i]
	}
	if i := strings.IndexByte(cmd, '@'); i > 0 {
		cmd = cmd[:i]
	}

	switch cmd {
	case "/start", "/help":
		_, err := h.sender.SendMessage(ctx, chatID, welcomeText, false)
		return err
	case "/today":
		return h.handleToday(ctx, chatID)
	case "/stats":
		return h.handleStats(ctx, chatID, userID)
	default:
		_, err := h.sender.SendMessage(ctx, chatID, "Unknown command. Try /help.", false)
		return err
	}
}

func (h *Handler) handleToday(ctx context.Context, chatID int64) error {
	answer, err := h.daily.Fresh(ctx)
	if err != nil {
		slog.Error("daily answer fetch failed", "chat_id", chatID, "error", err)
		_, serr := h.sender.SendMessage(ctx, chatID, genericErrorText, false)
		return serr
	}

	_, err = h.sender.SendMessage(ctx, chatID, formatDailyAnswer(answer), true)
	return err
}

func (h *Handler) handleStats(ctx context.Context, chatID, userID int64) error {
	counts, err := h.stats.CountByKind(ctx, userID)
	if err != nil {
		slog.Error("stats lookup failed", "user_id", userID, "error", err)
		_, serr := h.sender.SendMessage(ctx, chatID, genericErrorText, false)
		return serr
	}

	if len(counts) == 0 {
		_, err := h.sender.SendMessage(ctx, chatID, "No lookups yet. Send me a word!", false)
		return err
	}

	kinds := make([]string, 0, len(counts))
	total := 0
	for k, n := range counts {
		kinds = append(kinds, k)
		total += n
	}
	sort.Strings(kinds)

	var sb strings.Builder
	sb.WriteString("📊 Your lookups:\n\n")
	for _, k := range kinds {
		fmt.Fprintf(&sb, "%s: %d\n", k, counts[k])
	}
	fmt.Fprintf(&sb, "\nTotal: %d", total)

	_, err = h.sender.SendMessage(ctx, chatID, sb.String(), false)
	return err
}

func (h *Handler) sendLookupError(ctx context.Context, chatID int64, cmd dispatch.Command, err error) error {
	if text := maskErrorText(err); text != "" {
		_, serr := h.sender.SendMessage(ctx, chatID, text, false)
		return serr
	}

	slog.Error("lookup failed", "chat_id", chatID, "kind", cmd.Kind.String(), "error", err)
	_, serr := h.sender.SendMessage(ctx, chatID, genericErrorText, false)
	return serr
}

// maskErrorText maps mask parse failures to their corrective messages and
// returns "" for everything else.
func maskErrorText(err error) string {
	switch {
	case errors.Is(err, mask.ErrWrongFormat):
		return "I can't read that pattern. Use lowercase letters and underscores, " +
			"optionally followed by a comma and banned letters: a__ow, jfk"
	case errors.Is(err, mask.ErrInvalidLength):
		return fmt.Sprintf("The pattern must be %d-%d characters and the ban list at most %d letters.",
			mask.MinLen, mask.MaxLen, mask.MaxBanLen)
	case errors.Is(err, mask.ErrInvalidQuery):
		return "The pattern needs at least one underscore to fill and at least one known letter."
	default:
		return ""
	}
}

func formatDailyAnswer(a *daily.Answer) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🎲 Word of the day #%d (%s)\n\n", a.Game.DaysSinceLaunch, a.Day)
	fmt.Fprintf(&sb, "Answer: <tg-spoiler>%s</tg-spoiler>\n", html.EscapeString(strings.ToUpper(a.Game.Solution)))

	for i, d := range a.Enrichment.Definitions {
		if i == 3 {
			break
		}
		fmt.Fprintf(&sb, "\n<i>%s</i> %s\n", html.EscapeString(d.PartOfSpeech), html.EscapeString(d.Text))
	}
	if a.Enrichment.Excerpt != "" {
		fmt.Fprintf(&sb, "\n%s\n", html.EscapeString(a.Enrichment.Excerpt))
	}
	return strings.TrimRight(sb.String(), "\n")
}
