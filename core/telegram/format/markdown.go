package format

import (
	"regexp"
	"strings"
)

var mdV1Specials = regexp.MustCompile("([_*`\\[])")

// Markdown escapes text for Telegram's legacy Markdown parse mode.
func Markdown(text string) string {
	return mdV1Specials.ReplaceAllString(text, `\$1`)
}

// Code wraps text in an inline code span. Backticks cannot be escaped inside
// a legacy Markdown code span, so they are dropped.
func Code(text string) string {
	return "`" + strings.ReplaceAll(text, "`", "") + "`"
}
