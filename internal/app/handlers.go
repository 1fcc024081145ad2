package app

import (
	"time"

	tele "gopkg.in/telebot.v4"

	tg "github.com/m3rciful/teamboard/core/telegram"
	"github.com/m3rciful/teamboard/core/telegram/callbacks"
	"github.com/m3rciful/teamboard/core/telegram/commands"
	"github.com/m3rciful/teamboard/core/telegram/helpers"
	"github.com/m3rciful/teamboard/internal/flow"
	"github.com/m3rciful/teamboard/internal/gateway"
	"github.com/m3rciful/teamboard/internal/menu"
)

// statsWindow is how far back /stats looks.
const statsWindow = 24 * time.Hour

// Registry declares the bot commands. /start and /menu are handed to the
// state machine with their arguments, so "/start CODE" joins a team.
func (a *App) Registry() *tg.Registry {
	reg := tg.NewRegistry()
	reg.RegisterCommand("/start", commands.Command{
		Description: "Start the bot",
		Handler:     a.handleText,
	})
	reg.RegisterCommand("/menu", commands.Command{
		Description: "Open the main menu",
		Aliases:     []string{"m"},
		Handler:     a.handleMenu,
	})
	reg.RegisterCommand("/stats", commands.Command{
		Description: "Bot activity for the last day",
		Handler:     a.handleStats,
		AdminOnly:   true,
		Hidden:      true,
	})
	reg.SetCallbackHandler(a.handleCallback)
	reg.SetTextFallback(a.handleText)
	return reg
}

func (a *App) handleText(c tele.Context) error {
	return a.machine.HandleText(helpers.BuildContext(c), chatOf(c), c.Text())
}

// handleMenu serves /menu and its aliases under the canonical name.
func (a *App) handleMenu(c tele.Context) error {
	return a.machine.HandleText(helpers.BuildContext(c), chatOf(c), "/menu")
}

func (a *App) handleCallback(c tele.Context) error {
	cb := c.Callback()
	if cb == nil {
		return nil
	}
	var messageID int
	if cb.Message != nil {
		messageID = cb.Message.ID
	}
	return a.machine.HandleCallback(helpers.BuildContext(c), flow.Callback{
		ID:        cb.ID,
		ChatID:    chatOf(c),
		MessageID: messageID,
		Data:      callbacks.Data(c),
	})
}

func (a *App) handleStats(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	summary, err := a.journal.Summary(ctx, a.now().Add(-statsWindow))
	if err != nil {
		_ = helpers.SendText(c, "Statistics are unavailable right now.")
		return err
	}
	msg := menu.Stats(summary)
	var markup *tele.ReplyMarkup
	if msg.HasKeyboard() {
		markup = gateway.Markup(msg.Keyboard)
	}
	return helpers.SendMD(c, msg.Text, markup)
}

func (a *App) handleLimited(c tele.Context) error {
	if c.Callback() != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Too many requests, slow down."})
	}
	return helpers.SendText(c, "Too many requests, please wait a moment.")
}
