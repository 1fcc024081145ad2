package backend

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Role is the backend role of a registered user.
type Role string

const (
	// RoleManager owns a team and manages its tasks and meetings.
	RoleManager Role = "manager"
	// RoleMember belongs to a team and receives tasks and meetings.
	RoleMember Role = "member"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleManager || r == RoleMember
}

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	TaskAssigned   TaskStatus = "assigned"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
)

// Valid reports whether s can be sent to the status endpoint.
func (s TaskStatus) Valid() bool {
	return s == TaskInProgress || s == TaskCompleted
}

// MeetingType distinguishes online meetings from room bookings.
type MeetingType string

const (
	MeetingOnline  MeetingType = "online"
	MeetingOffline MeetingType = "offline"
)

// Valid reports whether t is a known meeting type.
func (t MeetingType) Valid() bool {
	return t == MeetingOnline || t == MeetingOffline
}

// FlexString decodes JSON strings, numbers and null into a string.
// The backend is not consistent about how it serializes identifiers.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

// String returns the raw value.
func (f FlexString) String() string { return string(f) }

// User mirrors the backend user record.
type User struct {
	ID         uint       `json:"ID"`
	TelegramID FlexString `json:"TelegramID"`
	Name       string     `json:"Name"`
	Role       Role       `json:"Role"`
	TeamID     *uint      `json:"TeamID"`
}

// Team mirrors the backend team record.
type Team struct {
	ID          uint   `json:"ID"`
	Name        string `json:"Name"`
	Description string `json:"Description"`
	InviteLink  string `json:"InviteLink"`
}

// Task is an entry of the task listings.
type Task struct {
	ID          uint       `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Deadline    string     `json:"deadline"`
	Status      TaskStatus `json:"status"`
	IsTeam      bool       `json:"is_team"`
	AssignedTo  FlexString `json:"assigned_to"`
}

// DeadlineTime parses the RFC3339 deadline. ok is false for missing or
// malformed values.
func (t Task) DeadlineTime() (time.Time, bool) {
	return parseTimestamp(t.Deadline)
}

// Meeting is an entry of the meeting listing.
type Meeting struct {
	ID             uint        `json:"ID"`
	Title          string      `json:"Title"`
	MeetingType    MeetingType `json:"MeetingType"`
	Room           string      `json:"Room"`
	StartTime      string      `json:"StartTime"`
	EndTime        string      `json:"EndTime"`
	ConferenceLink string      `json:"ConferenceLink"`
}

// Start parses the meeting start timestamp.
func (m Meeting) Start() (time.Time, bool) { return parseTimestamp(m.StartTime) }

// End parses the meeting end timestamp.
func (m Meeting) End() (time.Time, bool) { return parseTimestamp(m.EndTime) }

// Slot is a bookable time range, both ends formatted HH:MM.
type Slot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// NewTask is the payload of CreateTask.
type NewTask struct {
	Title       string
	Description string
	Deadline    time.Time
	IsTeam      bool
	// AssignedTo holds the assignee's telegram id for personal tasks.
	AssignedTo string
}

// NewMeeting is the payload of CreateMeeting.
type NewMeeting struct {
	Title     string
	Type      MeetingType
	Date      string
	StartTime string
	EndTime   string
	// Room is required for offline meetings and ignored otherwise.
	Room string
}

func parseTimestamp(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
