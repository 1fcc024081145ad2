package menu

import (
	"math"
	"strconv"
	"time"

	"github.com/m3rciful/teamboard/internal/backend"
)

// TaskStatusLabel is the human label of a task status.
func TaskStatusLabel(s backend.TaskStatus) string {
	switch s {
	case backend.TaskAssigned:
		return "📝 Assigned"
	case backend.TaskInProgress:
		return "🔄 In progress"
	case backend.TaskCompleted:
		return "✅ Completed"
	default:
		return "❓ " + esc(string(s))
	}
}

// Deadline humanizes the task deadline relative to now.
func Deadline(t backend.Task, now time.Time) string {
	deadline, ok := t.DeadlineTime()
	if !ok {
		return "❓ Unknown deadline"
	}
	left := deadline.Sub(now)
	if left < 0 {
		return "⌛️ Expired"
	}
	days := int(math.Floor(left.Hours() / 24))
	switch days {
	case 0:
		return "⏳ Today at " + deadline.In(now.Location()).Format("15:04")
	case 1:
		return "⏳ Tomorrow"
	default:
		return "📅 In " + strconv.Itoa(days) + " days"
	}
}

// MeetingTime renders the meeting interval as "DD.MM.YYYY HH:MM - HH:MM".
func MeetingTime(m backend.Meeting) string {
	start, ok := m.Start()
	if !ok {
		return "Unknown time"
	}
	out := start.Format("02.01.2006 15:04")
	if end, ok := m.End(); ok {
		out += " - " + end.Format("15:04")
	}
	return out
}
