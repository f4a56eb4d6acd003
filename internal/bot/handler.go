package bot

import (
	"log/slog"
	"strings"

	tele "gopkg.in/telebot.v3"

	"github.com/eliseohh/cafebot/internal/menu"
)

// /start
func (b *Bot) handleStart(c tele.Context) error {
	var name string
	if u := c.Sender(); u != nil {
		name = u.FirstName
	}
	b.deliver(c, b.engine.Start(name))
	return nil
}

// /help
func (b *Bot) handleHelp(c tele.Context) error {
	b.deliver(c, b.engine.Help())
	return nil
}

// handleCallback routes a menu tap. The query is acknowledged first so the
// client stops its spinner whatever happens next.
func (b *Bot) handleCallback(c tele.Context) error {
	if err := c.Respond(); err != nil {
		b.log.Warn("callback respond failed", slog.Int64("chat", chatID(c)), slog.Any("error", err))
	}

	cb := c.Callback()
	if cb == nil {
		return nil
	}
	token := strings.TrimSpace(cb.Data)

	action, err := menu.Decode(token)
	if err != nil {
		b.log.Warn("bad callback token", slog.Int64("chat", chatID(c)), slog.String("action", token), slog.Any("error", err))
		b.deliver(c, b.engine.Unknown(token))
		return nil
	}

	resp, err := b.engine.Navigate(b.requestContext(), action)
	if err != nil {
		b.fail(c, token, err)
		return nil
	}
	b.deliver(c, resp)
	return nil
}

// handleText treats any non-command text as a drink search.
func (b *Bot) handleText(c tele.Context) error {
	text := strings.TrimSpace(c.Text())
	if strings.HasPrefix(text, "/") {
		return b.handleHelp(c)
	}

	resp, err := b.engine.Search(b.requestContext(), text)
	if err != nil {
		b.fail(c, "search", err)
		return nil
	}
	b.deliver(c, resp)
	return nil
}
