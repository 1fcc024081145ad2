// Package gateway delivers rendered menus to Telegram chats.
package gateway

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"sync"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/teamboard/core/logger"
	"github.com/m3rciful/teamboard/core/telegram/helpers"
	"github.com/m3rciful/teamboard/core/telegram/keyboard"
	"github.com/m3rciful/teamboard/core/telegram/sender"
	"github.com/m3rciful/teamboard/internal/action"
	"github.com/m3rciful/teamboard/internal/menu"
)

// ErrNotAttached is returned by calls made before Attach.
var ErrNotAttached = errors.New("gateway: bot not attached")

// API is the part of *tele.Bot the gateway calls.
type API interface {
	Send(to tele.Recipient, what any, opts ...any) (*tele.Message, error)
	Respond(c *tele.Callback, resp ...*tele.CallbackResponse) error
	Delete(msg tele.Editable) error
}

// Queue runs outbound calls in order. *sender.Dispatcher implements it.
type Queue interface {
	Enqueue(ctx context.Context, action, endpoint string, run func() error) error
}

// Telegram implements flow.Messenger on top of telebot. Every call goes
// through the queue, so acknowledgements, deletions and replies leave in the
// order the state machine issued them.
type Telegram struct {
	mu    sync.RWMutex
	api   API
	queue Queue
}

// New returns a gateway that fails until Attach is called.
func New() *Telegram {
	return &Telegram{}
}

// Attach wires the bot and the outbound queue. A nil queue sends inline.
func (t *Telegram) Attach(api API, queue Queue) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.api = api
	t.queue = queue
}

func (t *Telegram) parts() (API, Queue) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.api, t.queue
}

// Send delivers msg to chatID as legacy Markdown with its inline keyboard.
func (t *Telegram) Send(ctx context.Context, chatID int64, msg menu.Message) error {
	api, queue := t.parts()
	if api == nil {
		return ErrNotAttached
	}
	if msg.Text == "" {
		return nil
	}
	opts := &tele.SendOptions{ParseMode: tele.ModeMarkdown}
	if msg.HasKeyboard() {
		opts.ReplyMarkup = Markup(msg.Keyboard)
	}
	err := t.run(ctx, queue, "send.menu", "sendMessage", func() error {
		_, err := api.Send(tele.ChatID(chatID), msg.Text, opts)
		return err
	})
	if err == nil {
		helpers.CountSent(ctx, msg.HasKeyboard())
	}
	return err
}

// Acknowledge answers a callback query so the client stops its spinner.
func (t *Telegram) Acknowledge(ctx context.Context, callbackID string) error {
	api, queue := t.parts()
	if api == nil {
		return ErrNotAttached
	}
	if callbackID == "" {
		return nil
	}
	return t.run(ctx, queue, "callback.ack", "answerCallbackQuery", func() error {
		return api.Respond(&tele.Callback{ID: callbackID})
	})
}

// Delete removes a message the bot sent earlier.
func (t *Telegram) Delete(ctx context.Context, chatID int64, messageID int) error {
	api, queue := t.parts()
	if api == nil {
		return ErrNotAttached
	}
	msg := tele.StoredMessage{MessageID: strconv.Itoa(messageID), ChatID: chatID}
	return t.run(ctx, queue, "message.delete", "deleteMessage", func() error {
		return api.Delete(msg)
	})
}

// run hands fn to the queue. When the queue cannot take it, fn runs inline
// so the reply is not lost.
func (t *Telegram) run(ctx context.Context, queue Queue, op, endpoint string, fn func() error) error {
	if queue == nil {
		return fn()
	}
	err := queue.Enqueue(ctx, op, endpoint, fn)
	if errors.Is(err, sender.ErrQueueFull) || errors.Is(err, sender.ErrQueueClosed) {
		logger.Warn(ctx, "tg.sender", "queue.fallback",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return fn()
	}
	return err
}

// Markup converts menu buttons to an inline keyboard. Button data is the
// encoded action.
func Markup(rows [][]menu.Button) *tele.ReplyMarkup {
	out := make([][]keyboard.InlineBtn, 0, len(rows))
	for _, row := range rows {
		btns := make([]keyboard.InlineBtn, 0, len(row))
		for _, b := range row {
			btns = append(btns, keyboard.InlineBtn{Text: b.Text, Data: action.Encode(b.Action)})
		}
		out = append(out, btns)
	}
	return keyboard.InlineButtonsRows(out...)
}
