// Package callbacks reads callback data for routing and logging.
package callbacks

import (
	"strings"

	tele "gopkg.in/telebot.v4"
)

// Separator splits the key of callback data from its arguments.
const Separator = "|"

// uniquePrefix marks data produced by telebot's Unique buttons.
const uniquePrefix = "\f"

// Parse returns the key and the remaining payload of cb. Both telebot's
// "\f<unique>|<data>" form and plain "<key>|<args>" data are accepted.
func Parse(cb *tele.Callback) (string, string) {
	if cb == nil {
		return "", ""
	}
	if cb.Unique != "" {
		return cb.Unique, cb.Data
	}
	raw := strings.TrimPrefix(cb.Data, uniquePrefix)
	key, payload, _ := strings.Cut(raw, Separator)
	return strings.TrimSpace(key), payload
}

// Key returns the routing key of the callback in c, or "".
func Key(c tele.Context) string {
	key, _ := Parse(c.Callback())
	return key
}

// Data returns the full callback data in c without telebot's unique marker.
func Data(c tele.Context) string {
	cb := c.Callback()
	if cb == nil {
		return ""
	}
	if cb.Unique != "" {
		if cb.Data == "" {
			return cb.Unique
		}
		return cb.Unique + Separator + cb.Data
	}
	return strings.TrimPrefix(cb.Data, uniquePrefix)
}
