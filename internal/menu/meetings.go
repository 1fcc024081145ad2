package menu

import (
	"strings"

	"github.com/m3rciful/teamboard/core/telegram/format"
	"github.com/m3rciful/teamboard/internal/action"
	"github.com/m3rciful/teamboard/internal/backend"
)

// MeetingManagement is the manager's meeting menu.
func MeetingManagement() Message {
	return Message{
		Text: "*Meeting management*\nChoose an action:",
		Keyboard: [][]Button{
			row(btn("📅 Create meeting", action.CreateMeeting)),
			row(btn("📋 Meetings", action.MyMeetings)),
			back(action.BackToMain),
		},
	}
}

// MeetingTypes asks whether the meeting is online or in a room.
func MeetingTypes() Message {
	return Message{
		Text: "Choose the meeting type:",
		Keyboard: [][]Button{
			row(
				btn("💻 Online", action.SelectMeetingType{Type: backend.MeetingOnline}),
				btn("🏢 Offline", action.SelectMeetingType{Type: backend.MeetingOffline}),
			),
			cancel(action.ManageMeetings),
		},
	}
}

// Rooms lists the bookable rooms.
func Rooms(rooms []string) Message {
	var kb [][]Button
	for _, r := range rooms {
		kb = append(kb, row(btn("🏢 "+r, action.SelectRoom{Room: r})))
	}
	kb = append(kb, cancel(action.CreateMeeting))
	return Message{Text: "Choose a meeting room:", Keyboard: kb}
}

// Slots lists the time slots for the chosen date.
func Slots(slots []backend.Slot, offline bool) Message {
	text := "Choose the meeting time:"
	if offline {
		text = "*Available time slots:*"
	}
	var kb [][]Button
	for _, s := range slots {
		kb = append(kb, row(btn("🕒 "+s.Start+" - "+s.End, action.SelectSlot{Slot: s})))
	}
	kb = append(kb, cancel(action.CreateMeeting))
	return Message{Text: text, Keyboard: kb}
}

// Meetings lists the viewer's meetings. Managers can cancel them.
func Meetings(meetings []backend.Meeting, v Viewer) Message {
	if len(meetings) == 0 {
		return Message{
			Text:     "*My meetings*\n\n_No meetings scheduled yet_",
			Keyboard: [][]Button{back(action.BackToMain)},
		}
	}
	var b strings.Builder
	b.WriteString("*My meetings:*\n\n")
	var kb [][]Button
	for _, m := range meetings {
		title := format.Or(m.Title, "Untitled")
		b.WriteString("📅 " + esc(title) + "\n")
		if m.MeetingType == backend.MeetingOffline {
			b.WriteString("Type: offline, room " + esc(format.Or(m.Room, "n/a")) + "\n")
		} else {
			b.WriteString("Type: online\n")
		}
		b.WriteString("Time: " + MeetingTime(m) + "\n")
		if m.ConferenceLink != "" {
			b.WriteString("Link: " + esc(m.ConferenceLink) + "\n")
		}
		b.WriteString("\n")
		if v.IsManager() {
			kb = append(kb, row(btn("❌ Cancel: "+title, action.DeleteMeeting{MeetingID: m.ID})))
		}
	}
	kb = append(kb, back(action.BackToMain))
	return Message{Text: b.String(), Keyboard: kb}
}
