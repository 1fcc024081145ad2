package middleware

import (
	tele "gopkg.in/telebot.v4"

	tghelpers "github.com/m3rciful/teamboard/core/telegram/helpers"
)

// MessageMetricsMiddleware starts the per-update message counters read by
// the handler summary. Counters already present are kept.
func MessageMetricsMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		ctx := tghelpers.BuildContext(c)
		if !tghelpers.HasCounters(ctx) {
			tghelpers.StoreContext(c, tghelpers.WithCounters(ctx))
		}
		return next(c)
	}
}

// GetCounters reads the message count and keyboard flag of the update in c.
func GetCounters(c tele.Context) (int, bool) {
	ctx, ok := tghelpers.ContextFrom(c)
	if !ok {
		return 0, false
	}
	return tghelpers.Counters(ctx)
}
