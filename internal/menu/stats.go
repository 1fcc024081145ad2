package menu

import (
	"fmt"
	"strings"

	"github.com/m3rciful/teamboard/internal/journal"
)

// Stats renders the admin summary of handled events.
func Stats(s journal.Summary) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 *Bot activity since %s UTC*\n\n", s.Since.UTC().Format("02.01.2006 15:04"))
	fmt.Fprintf(&b, "Events: %d\nFailures: %d\nChats: %d\n", s.Events, s.Failures, s.Chats)
	if len(s.Top) > 0 {
		b.WriteString("\n*Top actions:*\n")
		for _, a := range s.Top {
			fmt.Fprintf(&b, "%s: %d\n", esc(a.Action), a.Count)
		}
	}
	return Message{Text: b.String()}
}
