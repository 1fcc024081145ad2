// Package conversation holds the per-chat dialog record and its store.
//
// Records live in process memory only; a restart loses in-flight dialogs.
package conversation

import (
	"time"

	"github.com/m3rciful/teamboard/internal/backend"
)

// State identifies a step of the dialog.
type State string

const (
	StateInitial                 State = "initial"
	StateAwaitingName            State = "awaiting_name"
	StateAwaitingRole            State = "awaiting_role"
	StateAuthorized              State = "authorized"
	StateAwaitingTeamName        State = "awaiting_team_name"
	StateAwaitingTeamDescription State = "awaiting_team_description"
	StateAwaitingInviteCode      State = "awaiting_invite_code"
	StateAwaitingTaskType        State = "awaiting_task_type"
	StateAwaitingTaskTitle       State = "awaiting_task_title"
	StateAwaitingTaskDescription State = "awaiting_task_description"
	StateAwaitingTaskDeadline    State = "awaiting_task_deadline"
	StateAwaitingTaskAssignee    State = "awaiting_task_assignee"
	StateAwaitingCompletionText  State = "awaiting_completion_text"
	StateAwaitingMeetingType     State = "awaiting_meeting_type"
	StateAwaitingMeetingRoom     State = "awaiting_meeting_room"
	StateAwaitingMeetingTitle    State = "awaiting_meeting_title"
	StateAwaitingMeetingDate     State = "awaiting_meeting_date"
	StateAwaitingMeetingSlot     State = "awaiting_meeting_slot"
)

// Stable reports whether s is a resting state rather than a step inside a flow.
func (s State) Stable() bool {
	return s == StateInitial || s == StateAuthorized || s == ""
}

// Scratch keys used by the flows.
const (
	KeyName            = "name"
	KeyInviteCode      = "invite_code"
	KeyTeamName        = "team_name"
	KeyTaskType        = "task_type"
	KeyTaskTitle       = "task_title"
	KeyTaskDescription = "task_description"
	KeyTaskDeadline    = "task_deadline"
	KeyTaskID          = "task_id"
	KeyTaskStatus      = "task_status"
	KeyMeetingType     = "meeting_type"
	KeyMeetingRoom     = "meeting_room"
	KeyMeetingTitle    = "meeting_title"
	KeyMeetingDate     = "meeting_date"
)

// Conversation is the dialog record of one chat.
type Conversation struct {
	ChatID  int64
	State   State
	Scratch map[string]string

	// Cached from the backend for rendering; the backend stays authoritative.
	Role        backend.Role
	DisplayName string
	TeamID      *uint
	TeamName    string

	UpdatedAt time.Time
}

// New returns a fresh record in the initial state.
func New(chatID int64) *Conversation {
	return &Conversation{ChatID: chatID, State: StateInitial, Scratch: map[string]string{}}
}

// Registered reports whether the backend knows this user.
func (c *Conversation) Registered() bool {
	return c.Role.Valid()
}

// HasTeam reports whether the cached membership points at a team.
func (c *Conversation) HasTeam() bool {
	return c.TeamID != nil
}

// Enter moves to s keeping the scratch data.
func (c *Conversation) Enter(s State) {
	c.State = s
}

// Begin clears the scratch and moves to the first state of a flow.
func (c *Conversation) Begin(s State) {
	clear(c.Scratch)
	c.State = s
}

// Reset ends any flow: scratch is cleared and the state returns to
// authorized, or initial for unregistered users.
func (c *Conversation) Reset() {
	clear(c.Scratch)
	if c.Registered() {
		c.State = StateAuthorized
	} else {
		c.State = StateInitial
	}
}

// Set stores a scratch value.
func (c *Conversation) Set(key, value string) {
	if c.Scratch == nil {
		c.Scratch = map[string]string{}
	}
	c.Scratch[key] = value
}

// Get returns a scratch value.
func (c *Conversation) Get(key string) (string, bool) {
	v, ok := c.Scratch[key]
	return v, ok
}

// SetTeam caches membership. A nil team clears it.
func (c *Conversation) SetTeam(team *backend.Team) {
	if team == nil || team.ID == 0 {
		c.TeamID = nil
		c.TeamName = ""
		return
	}
	id := team.ID
	c.TeamID = &id
	c.TeamName = team.Name
}

// Clone returns a deep copy so stored records are never shared.
func (c *Conversation) Clone() *Conversation {
	if c == nil {
		return nil
	}
	out := *c
	out.Scratch = make(map[string]string, len(c.Scratch))
	for k, v := range c.Scratch {
		out.Scratch[k] = v
	}
	if c.TeamID != nil {
		id := *c.TeamID
		out.TeamID = &id
	}
	return &out
}
