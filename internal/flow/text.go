package flow

import (
	"strings"

	"github.com/m3rciful/teamboard/internal/conversation"
	"github.com/m3rciful/teamboard/internal/menu"
)

type textHandler func(t *turn, text string)

var textHandlers = map[conversation.State]textHandler{
	conversation.StateAwaitingName:            (*turn).onName,
	conversation.StateAwaitingTeamName:        (*turn).onTeamName,
	conversation.StateAwaitingTeamDescription: (*turn).onTeamDescription,
	conversation.StateAwaitingInviteCode:      (*turn).onInviteCode,
	conversation.StateAwaitingTaskTitle:       (*turn).onTaskTitle,
	conversation.StateAwaitingTaskDescription: (*turn).onTaskDescription,
	conversation.StateAwaitingTaskDeadline:    (*turn).onTaskDeadline,
	conversation.StateAwaitingCompletionText:  (*turn).onCompletionText,
	conversation.StateAwaitingMeetingTitle:    (*turn).onMeetingTitle,
	conversation.StateAwaitingMeetingDate:     (*turn).onMeetingDate,
}

// States that only accept button presses.
var buttonStates = map[conversation.State]bool{
	conversation.StateAwaitingRole:         true,
	conversation.StateAwaitingTaskType:     true,
	conversation.StateAwaitingTaskAssignee: true,
	conversation.StateAwaitingMeetingType:  true,
	conversation.StateAwaitingMeetingRoom:  true,
	conversation.StateAwaitingMeetingSlot:  true,
}

// emptyValue is typed by users to skip an optional field.
const emptyValue = "-"

// onText dispatches a text message and returns its journal label.
func (t *turn) onText(text string) string {
	text = strings.TrimSpace(text)
	if cmd, arg, ok := parseCommand(text); ok {
		switch cmd {
		case "start":
			t.startProcedure(arg)
		case "menu":
			if t.ensureRegistered() {
				t.showMain()
			}
		default:
			t.send(menu.HintUnknown)
		}
		return "/" + cmd
	}

	if h, ok := textHandlers[t.conv.State]; ok {
		h(t, text)
		return "text:" + string(t.from)
	}
	switch {
	case buttonStates[t.conv.State]:
		t.send(menu.HintButtons)
	case t.conv.Registered():
		t.send(menu.HintMenu)
	default:
		t.send(menu.HintStart)
	}
	return "text"
}

// parseCommand splits "/cmd@bot arg" into its command and argument.
func parseCommand(text string) (cmd, arg string, ok bool) {
	if !strings.HasPrefix(text, "/") {
		return "", "", false
	}
	head, rest, _ := strings.Cut(text[1:], " ")
	head, _, _ = strings.Cut(head, "@")
	if head == "" {
		return "", "", false
	}
	return strings.ToLower(head), strings.TrimSpace(rest), true
}

// required rejects empty input and keeps the state.
func (t *turn) required(text string) bool {
	if text == "" {
		t.fail(menu.EmptyInput)
		return false
	}
	return true
}

func optional(text string) string {
	if text == emptyValue {
		return ""
	}
	return text
}
