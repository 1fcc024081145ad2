package router

import (
	"errors"
	"testing"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/teamboard/core/logger"
	tg "github.com/m3rciful/teamboard/core/telegram"
	"github.com/m3rciful/teamboard/core/telegram/commands"
	tghelpers "github.com/m3rciful/teamboard/core/telegram/helpers"
)

func offlineBot(t *testing.T) *tele.Bot {
	t.Helper()
	b, err := tele.NewBot(tele.Settings{Offline: true})
	if err != nil {
		t.Fatalf("new bot: %v", err)
	}
	return b
}

func textUpdate(id int, text string) tele.Update {
	return tele.Update{ID: id, Message: &tele.Message{
		Text:   text,
		Chat:   &tele.Chat{ID: 42, Type: tele.ChatPrivate},
		Sender: &tele.User{ID: 42},
	}}
}

func TestTextRoutesSendsPlainTextToFallback(t *testing.T) {
	b := offlineBot(t)
	reg := tg.NewRegistry()
	var menuCalls, fallback []string
	reg.RegisterCommand("/menu", commands.Command{
		Description: "Main menu",
		Handler: func(c tele.Context) error {
			menuCalls = append(menuCalls, c.Text())
			return nil
		},
	})
	reg.SetTextFallback(func(c tele.Context) error {
		fallback = append(fallback, c.Text())
		return nil
	})

	route := TextRoutes(reg)[0]
	for i, text := range []string{"/MENU", "menu", "/menu@teamboard_bot", "/unknown", "Release notes"} {
		if err := route.Handler(b.NewContext(textUpdate(i+1, text))); err != nil {
			t.Fatalf("%q: %v", text, err)
		}
	}

	if len(menuCalls) != 2 {
		t.Fatalf("menu calls = %v, want the two slash forms", menuCalls)
	}
	if len(fallback) != 3 || fallback[0] != "menu" || fallback[1] != "/unknown" {
		t.Fatalf("fallback calls = %v", fallback)
	}
}

func TestCallbackRouteRecordsHandler(t *testing.T) {
	b := offlineBot(t)
	reg := tg.NewRegistry()
	var (
		seen    string
		handler string
	)
	reg.SetCallbackHandler(func(c tele.Context) error {
		seen = c.Callback().Data
		handler = logger.HandlerFrom(tghelpers.BuildContext(c))
		return nil
	})

	c := b.NewContext(tele.Update{ID: 9, Callback: &tele.Callback{
		ID:     "cb",
		Data:   "slot|12:00|13:20",
		Sender: &tele.User{ID: 7},
	}})
	if err := CallbackRoute(reg).Handler(c); err != nil {
		t.Fatalf("callback: %v", err)
	}
	if seen != "slot|12:00|13:20" {
		t.Fatalf("data = %q", seen)
	}
	if handler != "callback.slot" {
		t.Fatalf("handler = %q, want callback.slot", handler)
	}
}

func TestRecoverTurnsPanicIntoError(t *testing.T) {
	b := offlineBot(t)
	reg := tg.NewRegistry()
	reg.SetTextFallback(func(tele.Context) error { panic("boom") })
	if err := TextRoutes(reg)[0].Handler(b.NewContext(textUpdate(1, "hi"))); err == nil {
		t.Fatal("expected an error from the panicking handler")
	}
}

type codedErr struct{}

func (codedErr) Error() string { return "backend said no" }
func (codedErr) Code() string  { return "not found" }

func TestDeriveErrorCode(t *testing.T) {
	if got := deriveErrorCode(codedErr{}); got != "NOT_FOUND" {
		t.Fatalf("coded = %q", got)
	}
	if got := deriveErrorCode(errors.New("x")); got != "ERRORSTRING" {
		t.Fatalf("plain = %q", got)
	}
}
