package helpers

import (
	"errors"
	"log/slog"
	"sync/atomic"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/teamboard/core/logger"
	"github.com/m3rciful/teamboard/core/telegram/sender"
)

var globalDispatcher atomic.Pointer[sender.Dispatcher]

// SetDispatcher wires the queue used by the Send helpers. Nil sends inline.
func SetDispatcher(d *sender.Dispatcher) {
	globalDispatcher.Store(d)
}

func sendQueued(c tele.Context, action, endpoint string, withKeyboard bool, run func() error) error {
	ctx := BuildContext(c)
	disp := globalDispatcher.Load()
	if disp == nil {
		if err := run(); err != nil {
			return err
		}
		CountSent(ctx, withKeyboard)
		return nil
	}

	err := disp.Enqueue(ctx, action, endpoint, run)
	switch {
	case err == nil:
		CountSent(ctx, withKeyboard)
		return nil
	case errors.Is(err, sender.ErrQueueFull), errors.Is(err, sender.ErrQueueClosed):
		logger.Warn(ctx, "tg.sender", "queue.fallback",
			slog.String("action", action),
			slog.String("endpoint", endpoint),
			slog.String("err", err.Error()),
		)
		if err := run(); err != nil {
			return err
		}
		CountSent(ctx, withKeyboard)
		return nil
	default:
		return err
	}
}

// SendText sends plain text to the chat of c.
func SendText(c tele.Context, text string) error {
	return sendQueued(c, "send.text", "sendMessage", false, func() error {
		return c.Send(text)
	})
}

// SendMD sends Markdown text with an optional keyboard to the chat of c.
func SendMD(c tele.Context, text string, markup *tele.ReplyMarkup) error {
	opts := &tele.SendOptions{ParseMode: tele.ModeMarkdown, ReplyMarkup: markup}
	return sendQueued(c, "send.md", "sendMessage", markup != nil, func() error {
		return c.Send(text, opts)
	})
}
