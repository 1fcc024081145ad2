package helpers

import (
	"context"
	"sync/atomic"
)

type countersKey struct{}

// counters tracks what one update produced.
type counters struct {
	messages atomic.Int32
	keyboard atomic.Bool
}

// WithCounters starts counting outbound messages for the update behind ctx.
func WithCounters(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, countersKey{}, &counters{})
}

// CountSent records one outbound message. Contexts without counters are ignored.
func CountSent(ctx context.Context, withKeyboard bool) {
	if ctx == nil {
		return
	}
	c, ok := ctx.Value(countersKey{}).(*counters)
	if !ok {
		return
	}
	c.messages.Add(1)
	if withKeyboard {
		c.keyboard.Store(true)
	}
}

// Counters reports how many messages were sent and whether any had a keyboard.
func Counters(ctx context.Context) (int, bool) {
	if ctx == nil {
		return 0, false
	}
	c, ok := ctx.Value(countersKey{}).(*counters)
	if !ok {
		return 0, false
	}
	return int(c.messages.Load()), c.keyboard.Load()
}

// HasCounters reports whether ctx already counts outbound messages.
func HasCounters(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	_, ok := ctx.Value(countersKey{}).(*counters)
	return ok
}
