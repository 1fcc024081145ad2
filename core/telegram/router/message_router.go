package router

import (
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	tg "github.com/m3rciful/teamboard/core/telegram"
	"github.com/m3rciful/teamboard/core/telegram/middleware"
)

// TextRoutes handles text that telebot did not match to a command endpoint.
// Slash text that resolves to a command (other case, alias) runs it; the rest
// goes to the registry's text fallback.
func TextRoutes(reg *tg.Registry) []tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()

		if reg != nil {
			text := c.Text()
			if strings.HasPrefix(text, "/") {
				if key, cmd, ok := reg.LookupCommand(text); ok && cmd.Handler != nil {
					return handleWithSummary(c, normalizeHandlerName(key), start, func() error {
						return cmd.Handler(c)
					})
				}
			}
			if fb := reg.TextFallback(); fb != nil {
				return handleWithSummary(c, "text", start, func() error {
					return fb(c)
				})
			}
		}

		logHandlerSummary(c, "unknown_text", start, nil)
		return nil
	}

	return []tg.Route{{
		Endpoint: tele.OnText,
		Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(handler)),
	}}
}
