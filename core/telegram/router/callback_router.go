package router

import (
	"log/slog"
	"time"

	tele "gopkg.in/telebot.v4"

	tg "github.com/m3rciful/teamboard/core/telegram"
	"github.com/m3rciful/teamboard/core/telegram/callbacks"
	"github.com/m3rciful/teamboard/core/telegram/middleware"
)

// CallbackRoute sends every button press to the registry's callback handler.
func CallbackRoute(reg *tg.Registry) tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		if c.Callback() == nil {
			return nil
		}
		key := callbacks.Key(c)
		name := "callback." + normalizeHandlerName(key)
		return handleWithSummary(c, name, start, func() error {
			return reg.CallbackHandler()(c)
		}, slog.String("cb_key", key))
	}
	return tg.Route{
		Endpoint: tele.OnCallback,
		Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(handler)),
	}
}
