// Package menu renders outbound messages. Every function is pure: the same
// inputs always produce the same text and keyboard.
package menu

import (
	"github.com/m3rciful/teamboard/core/telegram/format"
	"github.com/m3rciful/teamboard/internal/action"
	"github.com/m3rciful/teamboard/internal/backend"
)

// Button is one inline button.
type Button struct {
	Text   string
	Action action.Action
}

// Message is an outbound chat message in Telegram legacy Markdown.
type Message struct {
	Text     string
	Keyboard [][]Button
}

// HasKeyboard reports whether the message carries buttons.
func (m Message) HasKeyboard() bool {
	return len(m.Keyboard) > 0
}

// Viewer is the cached profile the menus are rendered for.
type Viewer struct {
	Name     string
	Role     backend.Role
	TeamName string
	HasTeam  bool
}

// IsManager reports whether the viewer is a manager.
func (v Viewer) IsManager() bool { return v.Role == backend.RoleManager }

func row(buttons ...Button) []Button { return buttons }

func btn(text string, a action.Action) Button { return Button{Text: text, Action: a} }

func back(a action.Action) []Button { return row(btn("🔙 Back", a)) }

func cancel(a action.Action) []Button { return row(btn("🔙 Cancel", a)) }

func esc(s string) string { return format.Markdown(s) }

// Prompt asks for free text input.
func Prompt(text string) Message { return Message{Text: text} }

// Notice is a plain informational message without buttons.
func Notice(text string) Message { return Message{Text: text} }

// Error renders a failure reported by the backend or by input validation.
func Error(reason string) Message {
	return Message{Text: "❌ Error: " + esc(reason)}
}

// Prompts and notices shared by the flows.
var (
	AskName            = Prompt("👋 Let's get acquainted! What is your name?")
	AskTeamName        = Prompt("Enter the team name:")
	AskTeamDescription = Prompt("Enter the team description (or send '-' to leave it empty):")
	AskInviteCode      = Prompt("Enter the invite code:")
	AskTaskTitle       = Prompt("Enter the task title:")
	AskTaskDescription = Prompt("Enter the task description:")
	AskTaskDeadline    = Prompt("Enter the deadline as YYYY-MM-DD HH:MM\nFor example: 2024-03-25 15:00")
	AskCompletionText  = Prompt("Enter a completion report (or send '-' to skip it):")
	AskMeetingTitle    = Prompt("Enter the meeting title:")
	AskMeetingDate     = Prompt("Enter the meeting date as YYYY-MM-DD\nFor example: 2024-03-25")
	AskOtherDate       = Prompt("Choose another date as YYYY-MM-DD:")

	Registered       = Notice("✅ You are registered!")
	Joined           = Notice("✅ You joined the team!")
	AlreadyInTeam    = Notice("❌ You are already a member of a team")
	TeamCreated      = Notice("✅ Team created!")
	TeamDeleted      = Notice("✅ Team deleted")
	LeftTeam         = Notice("✅ You left the team")
	MemberKicked     = Notice("✅ Member removed from the team")
	TaskCreated      = Notice("✅ Task created")
	TaskDeleted      = Notice("✅ Task deleted")
	TaskUpdated      = Notice("✅ Task status updated")
	MeetingCreated   = Notice("✅ Meeting created!")
	MeetingCancelled = Notice("✅ Meeting cancelled")
	NoSlots          = Notice("❌ No free slots in this room on that date")
	DialogExpired    = Notice("⌛️ Your previous dialog expired. Let's start over.")

	HintStart   = Notice("Send /start to begin.")
	HintMenu    = Notice("Use the menu buttons to navigate or send /menu to open the main menu.")
	HintButtons = Notice("Please choose one of the options above.")
	HintExpired = Notice("This button has expired.")
	HintUnknown = Notice("Unknown command. Send /menu to open the main menu.")

	BadDeadline = Error("invalid date format, try again.\nFormat: YYYY-MM-DD HH:MM")
	BadDate     = Error("invalid date format, try again.\nFormat: YYYY-MM-DD")
	EmptyInput  = Error("the value must not be empty, try again.")
	BadAction   = Error("unknown action")

	OnlyManagerCreatesTeam = Error("only a manager can create a team")
	OnlyManager            = Error("only a manager can do this")
	ManagerCannotLeave     = Error("a manager cannot leave their team")
	NeedsTeam              = Error("you are not a member of a team")
)
