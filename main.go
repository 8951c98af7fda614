package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"lexibot/bot"
	"lexibot/config"
	"lexibot/daily"
	"lexibot/debounce"
	"lexibot/dispatch"
	"lexibot/provider"
	"lexibot/scheduler"
	"lexibot/storage"
	"lexibot/suggest"
)

func main() {
	// Set up structured logging
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	slog.Info("starting lexibot")

	// Load configuration
	configPath := config.GetConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("failed to load config", "path", configPath, "error", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	})))
	slog.Info("config loaded", "path", configPath)

	// Initialize database
	db, err := storage.NewDB(cfg.DBPath)
	if err != nil {
		slog.Error("failed to initialize database", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database initialized", "path", cfg.DBPath)

	// Initialize Telegram bot
	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		slog.Error("failed to initialize Telegram bot", "error", err)
		os.Exit(1)
	}
	slog.Info("telegram bot initialized", "username", api.Self.UserName)

	// Initialize upstream clients
	dict := provider.NewDictionaryClient(
		cfg.DictionaryBaseURL,
		provider.WithDictionaryTimeout(cfg.FetchTimeout()),
	)
	slang := provider.NewSlangClient(
		provider.WithSlangBaseURL(cfg.SlangBaseURL),
		provider.WithSlangTimeout(cfg.FetchTimeout()),
	)
	pattern := provider.NewPatternClient(
		provider.WithPatternBaseURL(cfg.PatternBaseURL),
		provider.WithPatternTimeout(cfg.FetchTimeout()),
	)
	game := provider.NewGameClient(
		provider.WithGameBaseURL(cfg.GameBaseURL),
		provider.WithGameTimeout(cfg.FetchTimeout()),
	)
	excerpts := provider.NewExcerptFetcher(
		provider.WithExcerptTimeout(cfg.FetchTimeout()),
	)

	// Seed the suggestion index from past lookups
	suggestIndex := suggest.New()
	if terms, err := db.AllTerms(context.Background()); err != nil {
		slog.Warn("failed to seed suggestions", "error", err)
	} else {
		suggestIndex.Seed(terms)
		slog.Info("suggestions seeded", "terms", len(terms))
	}

	// Daily answer cache, primed from storage so a restart does not refetch
	cache := daily.NewCache(
		game,
		&dailyEnricher{dict: dict, excerpts: excerpts, excerptBaseURL: cfg.ExcerptBaseURL},
		daily.WithRecorder(db),
	)
	today := time.Now().UTC().Format("2006-01-02")
	if stored, err := db.GetDailyAnswer(context.Background(), today); err == nil {
		cache.Prime(&daily.Answer{
			Day:        stored.Day,
			Game:       provider.GameAnswer{Solution: stored.Solution, PrintDate: stored.Day},
			Enrichment: daily.Enrichment{Excerpt: stored.Excerpt},
		})
		slog.Info("daily answer primed from storage", "day", stored.Day)
	}

	transport := bot.NewTransport(api)
	debouncer := debounce.New(transport, debounce.WithWindow(cfg.DebounceWindow()))
	pipeline := dispatch.NewPipeline(dict, slang, pattern, suggestIndex, db)
	handler := bot.NewHandler(transport, transport, pipeline, debouncer, cache, db)

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		slog.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Nightly maintenance: warm the daily cache and prune the query log
	sched, err := scheduler.New("UTC")
	if err != nil {
		slog.Error("failed to initialize scheduler", "error", err)
		os.Exit(1)
	}
	if err := sched.ScheduleDaily("warm-daily-answer", cfg.WarmTime, func() {
		wctx, wcancel := context.WithTimeout(context.Background(), cfg.FetchTimeout()*3)
		defer wcancel()
		if _, err := cache.Fresh(wctx); err != nil {
			slog.Warn("daily answer warm failed", "error", err)
		}
	}); err != nil {
		slog.Error("failed to schedule daily warm", "error", err)
		os.Exit(1)
	}
	if err := sched.ScheduleDaily("prune-query-log", "03:00", func() {
		pctx, pcancel := context.WithTimeout(context.Background(), time.Minute)
		defer pcancel()
		removed, err := db.PruneQueryLog(pctx, cfg.Retention())
		if err != nil {
			slog.Warn("query log prune failed", "error", err)
			return
		}
		slog.Info("query log pruned", "removed", removed)
	}); err != nil {
		slog.Error("failed to schedule prune", "error", err)
		os.Exit(1)
	}
	sched.Start()
	defer sched.Stop()
	slog.Info("maintenance scheduled", "warm_time", cfg.WarmTime)

	// Run the update loop
	slog.Info("starting bot polling")
	run(ctx, api, handler)
	slog.Info("bot stopped")
}

// run consumes Telegram updates until ctx is canceled. Each update gets its
// own goroutine: inline handling blocks for the debounce window, and one
// user's burst must not stall everyone else.
func run(ctx context.Context, api *tgbotapi.BotAPI, handler *bot.Handler) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := api.GetUpdatesChan(u)

	var wg sync.WaitGroup
	for {
		select {
		case <-ctx.Done():
			api.StopReceivingUpdates()
			wg.Wait()
			return
		case update, ok := <-updates:
			if !ok {
				wg.Wait()
				return
			}
			wg.Add(1)
			go func(update tgbotapi.Update) {
				defer wg.Done()
				handleUpdate(ctx, handler, update)
			}(update)
		}
	}
}

func handleUpdate(ctx context.Context, handler *bot.Handler, update tgbotapi.Update) {
	switch {
	case update.Message != nil && update.Message.Text != "":
		msg := update.Message
		if err := handler.HandleMessage(ctx, msg.Chat.ID, msg.From.ID, msg.Text); err != nil {
			slog.Error("message handling failed", "chat_id", msg.Chat.ID, "error", err)
		}
	case update.InlineQuery != nil:
		q := update.InlineQuery
		if err := handler.HandleInline(ctx, q.ID, q.From.ID, q.Query); err != nil {
			slog.Error("inline handling failed", "query_id", q.ID, "error", err)
		}
	}
}

// dailyEnricher derives the dictionary view of the day's solution: its
// definitions plus a short encyclopedic excerpt. A missing excerpt is not an
// error; missing definitions are.
type dailyEnricher struct {
	dict           *provider.DictionaryClient
	excerpts       *provider.ExcerptFetcher
	excerptBaseURL string
}

func (e *dailyEnricher) Enrich(ctx context.Context, word string) (daily.Enrichment, error) {
	defs, err := e.dict.Definitions(ctx, provider.KindWord, word)
	if err != nil {
		return daily.Enrichment{}, err
	}

	excerpt, err := e.excerpts.Fetch(ctx, e.excerptBaseURL+"/"+url.PathEscape(word))
	if err != nil {
		slog.Warn("excerpt fetch failed", "word", word, "error", err)
		excerpt = ""
	}

	return daily.Enrichment{Definitions: defs, Excerpt: excerpt}, nil
}

func logLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
