package bot

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	tele "gopkg.in/telebot.v3"

	"github.com/eliseohh/cafebot/internal/menu"
)

// ErrDelivery marks a failure to put a screen in front of the user.
var ErrDelivery = errors.New("delivery failed")

const (
	txtFailure      = "Произошла ошибка. Попробуйте позже."
	txtImageMissing = "(Не удалось загрузить изображение)"
)

// deliver renders resp screen by screen. A failed screen is logged and
// replaced by a plain failure notice; the remaining screens still go out.
func (b *Bot) deliver(c tele.Context, resp menu.Response) {
	if resp.DropOrigin && c.Callback() != nil {
		if err := c.Delete(); err != nil {
			b.log.Warn("delete origin failed", slog.Int64("chat", chatID(c)), slog.Any("error", err))
		}
	}

	var imagesLost bool
	for _, s := range resp.Screens {
		var paths []string
		if len(s.Images) > 0 {
			paths = b.resolveImages(c, s.Images)
			if len(paths) == 0 && s.Text == "" {
				// captionless photos: the notice rides on the next text
				imagesLost = true
				continue
			}
		}
		if imagesLost && s.Text != "" && len(s.Images) == 0 {
			s.Text += "\n\n" + txtImageMissing
			imagesLost = false
		}

		if err := b.deliverScreen(c, s, paths); err != nil {
			err = fmt.Errorf("%w: %w", ErrDelivery, err)
			b.log.Error("deliver screen", slog.Int64("chat", chatID(c)), slog.String("mode", s.Mode.String()), slog.Any("error", err))
			if sendErr := c.Send(txtFailure); sendErr != nil {
				b.log.Error("failure notice", slog.Int64("chat", chatID(c)), slog.Any("error", fmt.Errorf("%w: %w", ErrDelivery, sendErr)))
			}
		}
	}
}

// deliverScreen sends s. paths are the images of s that exist on disk.
func (b *Bot) deliverScreen(c tele.Context, s menu.Screen, paths []string) error {
	if len(s.Images) == 0 {
		return b.deliverText(c, s.Mode, s.Text, s.Buttons)
	}

	switch {
	case len(paths) == 0:
		return c.Send(s.Text+"\n\n"+txtImageMissing, sendOptions(s.Buttons))
	case len(paths) == 1:
		photo := &tele.Photo{File: tele.FromDisk(paths[0]), Caption: s.Text}
		return c.Send(photo, sendOptions(s.Buttons))
	}

	// media groups cannot carry a keyboard, so a keyboard moves the caption
	// into a message of its own
	caption := s.Text
	if len(s.Buttons) > 0 {
		caption = ""
	}

	album := make(tele.Album, 0, len(paths))
	for i, p := range paths {
		photo := &tele.Photo{File: tele.FromDisk(p)}
		if i == 0 {
			photo.Caption = caption
		}
		album = append(album, photo)
	}
	if err := c.SendAlbum(album, tele.ModeHTML); err != nil {
		return err
	}
	if caption == "" {
		return b.deliverText(c, menu.Append, s.Text, s.Buttons)
	}
	return nil
}

// deliverText edits the tapped message for Replace screens and falls back to
// a new message when there is nothing to edit or the edit is refused.
func (b *Bot) deliverText(c tele.Context, mode menu.Mode, text string, buttons []menu.Button) error {
	if text == "" {
		return nil
	}
	opts := sendOptions(buttons)

	if mode == menu.Replace && c.Callback() != nil {
		err := c.Edit(text, opts)
		if err == nil || errors.Is(err, tele.ErrSameMessageContent) || errors.Is(err, tele.ErrMessageNotModified) {
			return nil
		}
		b.log.Debug("edit refused, sending instead", slog.Int64("chat", chatID(c)), slog.Any("error", err))
	}
	return c.Send(text, opts)
}

// resolveImages maps image names onto files under the images directory,
// dropping the ones that are not there.
func (b *Bot) resolveImages(c tele.Context, names []string) []string {
	paths := make([]string, 0, len(names))
	for _, name := range names {
		p := filepath.Join(b.cfg.ImagesDir, name)
		if _, err := os.Stat(p); err != nil {
			b.log.Warn("image unavailable", slog.Int64("chat", chatID(c)), slog.String("image", p), slog.Any("error", err))
			continue
		}
		paths = append(paths, p)
	}
	return paths
}

// fail reports a store failure to the user without its details.
func (b *Bot) fail(c tele.Context, action string, err error) {
	b.log.Error("menu request failed", slog.Int64("chat", chatID(c)), slog.String("action", action), slog.Any("error", err))

	if c.Callback() != nil {
		if editErr := c.Edit(txtFailure); editErr == nil {
			return
		}
	}
	if sendErr := c.Send(txtFailure); sendErr != nil {
		b.log.Error("failure notice", slog.Int64("chat", chatID(c)), slog.Any("error", fmt.Errorf("%w: %w", ErrDelivery, sendErr)))
	}
}

func sendOptions(buttons []menu.Button) *tele.SendOptions {
	opts := &tele.SendOptions{ParseMode: tele.ModeHTML}
	if len(buttons) == 0 {
		return opts
	}

	rm := &tele.ReplyMarkup{}
	for _, btn := range buttons {
		rm.InlineKeyboard = append(rm.InlineKeyboard, []tele.InlineButton{{
			Text: btn.Label,
			Data: menu.Encode(btn.Action),
		}})
	}
	opts.ReplyMarkup = rm
	return opts
}
