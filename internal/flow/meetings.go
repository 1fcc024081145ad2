package flow

import (
	"slices"
	"time"

	"github.com/m3rciful/teamboard/core/telegram/format"
	"github.com/m3rciful/teamboard/internal/action"
	"github.com/m3rciful/teamboard/internal/backend"
	"github.com/m3rciful/teamboard/internal/conversation"
	"github.com/m3rciful/teamboard/internal/menu"
)

// DateLayout is the format users type meeting dates in.
const DateLayout = "2006-01-02"

func (t *turn) onCreateMeeting() {
	if !t.managerOnly(menu.OnlyManager) {
		return
	}
	t.conv.Begin(conversation.StateAwaitingMeetingType)
	t.send(menu.MeetingTypes())
}

func (t *turn) onMeetingType(a action.SelectMeetingType) {
	t.conv.Set(conversation.KeyMeetingType, string(a.Type))
	if a.Type == backend.MeetingOffline {
		t.conv.Enter(conversation.StateAwaitingMeetingRoom)
		t.send(menu.Rooms(t.m.rooms))
		return
	}
	t.conv.Enter(conversation.StateAwaitingMeetingTitle)
	t.send(menu.AskMeetingTitle)
}

func (t *turn) onRoom(a action.SelectRoom) {
	if !slices.Contains(t.m.rooms, a.Room) {
		t.fail(menu.BadAction)
		t.send(menu.Rooms(t.m.rooms))
		return
	}
	t.conv.Set(conversation.KeyMeetingRoom, a.Room)
	t.conv.Enter(conversation.StateAwaitingMeetingTitle)
	t.send(menu.AskMeetingTitle)
}

func (t *turn) onMeetingTitle(text string) {
	if !t.required(text) {
		return
	}
	t.conv.Set(conversation.KeyMeetingTitle, text)
	t.conv.Enter(conversation.StateAwaitingMeetingDate)
	t.send(menu.AskMeetingDate)
}

func (t *turn) onMeetingDate(text string) {
	date, err := time.Parse(DateLayout, text)
	if err != nil {
		t.fail(menu.BadDate)
		return
	}
	day := date.Format(DateLayout)

	kind, _ := t.conv.Get(conversation.KeyMeetingType)
	if backend.MeetingType(kind) != backend.MeetingOffline {
		t.conv.Set(conversation.KeyMeetingDate, day)
		t.conv.Enter(conversation.StateAwaitingMeetingSlot)
		t.send(menu.Slots(t.m.onlineSlots, false))
		return
	}

	room, _ := t.conv.Get(conversation.KeyMeetingRoom)
	slots, err := t.api().AvailableSlots(t.ctx, room, day)
	if err != nil {
		t.conv.Reset()
		t.backendFailed(err)
		t.send(menu.MeetingManagement())
		return
	}
	if len(slots) == 0 {
		t.send(menu.NoSlots)
		t.send(menu.AskOtherDate)
		return
	}
	t.conv.Set(conversation.KeyMeetingDate, day)
	t.conv.Enter(conversation.StateAwaitingMeetingSlot)
	t.send(menu.Slots(slots, true))
}

func (t *turn) onSlot(a action.SelectSlot) {
	kind, _ := t.conv.Get(conversation.KeyMeetingType)
	room, _ := t.conv.Get(conversation.KeyMeetingRoom)
	title, _ := t.conv.Get(conversation.KeyMeetingTitle)
	date, _ := t.conv.Get(conversation.KeyMeetingDate)
	t.conv.Reset()

	meetingType := backend.MeetingType(kind)
	if meetingType == backend.MeetingOnline && !slices.Contains(t.m.onlineSlots, a.Slot) {
		t.fail(menu.BadAction)
		t.send(menu.MeetingManagement())
		return
	}
	created, err := t.api().CreateMeeting(t.ctx, t.id(), backend.NewMeeting{
		Title:     title,
		Type:      meetingType,
		Date:      date,
		StartTime: a.Slot.Start,
		EndTime:   a.Slot.End,
		Room:      room,
	})
	if err != nil {
		t.backendFailed(err)
		t.send(menu.MeetingManagement())
		return
	}
	notice := menu.MeetingCreated
	if created.ConferenceLink != "" {
		notice.Text += "\nLink: " + format.Markdown(created.ConferenceLink)
	}
	t.send(notice)
	t.send(menu.MeetingManagement())
}

func (t *turn) showMeetings() {
	meetings, err := t.api().MyMeetings(t.ctx, t.id())
	if err != nil {
		t.backendFailed(err)
		t.send(menu.Main(t.viewer()))
		return
	}
	t.send(menu.Meetings(meetings, t.viewer()))
}

func (t *turn) onDeleteMeeting(a action.DeleteMeeting) {
	if !t.managerOnly(menu.OnlyManager) {
		return
	}
	t.conv.Reset()
	if err := t.api().DeleteMeeting(t.ctx, t.id(), a.MeetingID); err != nil {
		t.backendFailed(err)
		t.send(menu.MeetingManagement())
		return
	}
	t.send(menu.MeetingCancelled)
	t.dispatch(action.MyMeetings)
}
