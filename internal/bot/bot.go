// Package bot is the Telegram side of the café menu: it classifies updates,
// asks the menu engine for screens and delivers them through telebot.
package bot

import (
	"context"
	"io"
	"log/slog"
	"time"

	tele "gopkg.in/telebot.v3"

	"github.com/eliseohh/cafebot/internal/menu"
)

type Bot struct {
	api    *tele.Bot
	engine *menu.Engine
	cfg    Config
	log    *slog.Logger

	// ctx is Run's context; handlers pass it to the store.
	ctx context.Context
}

type Config struct {
	Token       string
	ImagesDir   string
	PollTimeout time.Duration
}

const defaultPollTimeout = 10 * time.Second

func New(cfg Config, engine *menu.Engine, logger *slog.Logger) (*Bot, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = defaultPollTimeout
	}

	bot := &Bot{engine: engine, cfg: cfg, log: logger}

	pref := tele.Settings{
		Token:   cfg.Token,
		Poller:  &tele.LongPoller{Timeout: cfg.PollTimeout},
		OnError: bot.onError,
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, err
	}

	bot.api = b
	bot.register()
	return bot, nil
}

// Run polls for updates until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	b.ctx = ctx
	b.log.Info("bot started", slog.String("username", b.api.Me.Username))

	done := make(chan struct{})
	go func() {
		defer close(done)
		b.api.Start()
	}()

	select {
	case <-ctx.Done():
		b.api.Stop()
		<-done
		b.log.Info("bot stopped")
		return nil
	case <-done:
		return nil
	}
}

func (b *Bot) register() {
	b.api.Handle("/start", b.handleStart)
	b.api.Handle("/help", b.handleHelp)

	// menu buttons carry raw routing tokens, so every tap lands here
	b.api.Handle(tele.OnCallback, b.handleCallback)

	// free text is a drink search; unregistered commands fall through too
	b.api.Handle(tele.OnText, b.handleText)
}

func (b *Bot) onError(err error, c tele.Context) {
	attrs := []any{slog.Any("error", err)}
	if c != nil {
		attrs = append(attrs, slog.Int64("chat", chatID(c)))
	}
	b.log.Error("unhandled bot error", attrs...)
}

// requestContext is the context for store calls made by a handler.
func (b *Bot) requestContext() context.Context {
	if b.ctx == nil {
		return context.Background()
	}
	return b.ctx
}

func chatID(c tele.Context) int64 {
	if chat := c.Chat(); chat != nil {
		return chat.ID
	}
	return 0
}
