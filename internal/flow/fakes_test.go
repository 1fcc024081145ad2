package flow

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/m3rciful/teamboard/internal/backend"
	"github.com/m3rciful/teamboard/internal/conversation"
	"github.com/m3rciful/teamboard/internal/journal"
	"github.com/m3rciful/teamboard/internal/menu"
)

var errNotFound = &backend.Error{Op: "lookup", Status: 401, Message: "user not found"}

type fakeBackend struct {
	calls []string

	user      backend.User
	lookupErr error
	team      *backend.Team
	members   []backend.User
	tasks     []backend.Task
	meetings  []backend.Meeting
	slots     []backend.Slot
	invite    string
	created   backend.Meeting

	failOn map[string]error

	newTask    backend.NewTask
	newMeeting backend.NewMeeting
}

func (f *fakeBackend) record(op string, args ...any) error {
	parts := []string{op}
	for _, a := range args {
		parts = append(parts, fmt.Sprint(a))
	}
	f.calls = append(f.calls, strings.Join(parts, " "))
	return f.failOn[op]
}

func (f *fakeBackend) count(op string) int {
	n := 0
	for _, c := range f.calls {
		if c == op || strings.HasPrefix(c, op+" ") {
			n++
		}
	}
	return n
}

func (f *fakeBackend) Lookup(_ context.Context, id int64) (backend.User, error) {
	_ = f.record("Lookup", id)
	if f.lookupErr != nil {
		return backend.User{}, f.lookupErr
	}
	return f.user, nil
}

func (f *fakeBackend) Register(_ context.Context, id int64, name string, role backend.Role) error {
	return f.record("Register", name, role)
}

func (f *fakeBackend) CreateTeam(_ context.Context, _ int64, name, description string) (backend.Team, error) {
	if err := f.record("CreateTeam", name, fmt.Sprintf("%q", description)); err != nil {
		return backend.Team{}, err
	}
	f.team = &backend.Team{ID: 9, Name: name, Description: description}
	return *f.team, nil
}

func (f *fakeBackend) DeleteTeam(context.Context, int64) error {
	if err := f.record("DeleteTeam"); err != nil {
		return err
	}
	f.team = nil
	return nil
}

func (f *fakeBackend) JoinTeam(_ context.Context, _ int64, code string) (backend.Team, error) {
	if err := f.record("JoinTeam", code); err != nil {
		return backend.Team{}, err
	}
	f.team = &backend.Team{ID: 3, Name: "Rocket"}
	return *f.team, nil
}

func (f *fakeBackend) MyTeam(context.Context, int64) (backend.Team, error) {
	if err := f.record("MyTeam"); err != nil {
		return backend.Team{}, err
	}
	if f.team == nil {
		return backend.Team{}, &backend.Error{Op: "my_team", Status: 404, Message: "team not found"}
	}
	return *f.team, nil
}

func (f *fakeBackend) InviteCode(context.Context, int64) (string, error) {
	return f.invite, f.record("InviteCode")
}

func (f *fakeBackend) Members(context.Context, int64) ([]backend.User, error) {
	return f.members, f.record("Members")
}

func (f *fakeBackend) KickMember(_ context.Context, _ int64, member string) error {
	return f.record("KickMember", member)
}

func (f *fakeBackend) LeaveTeam(context.Context, int64) error {
	if err := f.record("LeaveTeam"); err != nil {
		return err
	}
	f.team = nil
	return nil
}

func (f *fakeBackend) CreateTask(_ context.Context, _ int64, task backend.NewTask) error {
	f.newTask = task
	return f.record("CreateTask", task.Title)
}

func (f *fakeBackend) MyTasks(context.Context, int64) ([]backend.Task, error) {
	return f.tasks, f.record("MyTasks")
}

func (f *fakeBackend) IssuedTasks(context.Context, int64) ([]backend.Task, error) {
	return f.tasks, f.record("IssuedTasks")
}

func (f *fakeBackend) DeleteTask(_ context.Context, _ int64, id uint) error {
	return f.record("DeleteTask", id)
}

func (f *fakeBackend) UpdateTaskStatus(_ context.Context, _ int64, id uint, status backend.TaskStatus, report string) error {
	return f.record("UpdateTaskStatus", id, status, fmt.Sprintf("%q", report))
}

func (f *fakeBackend) CreateMeeting(_ context.Context, _ int64, m backend.NewMeeting) (backend.Meeting, error) {
	f.newMeeting = m
	return f.created, f.record("CreateMeeting", m.Title)
}

func (f *fakeBackend) AvailableSlots(_ context.Context, room, date string) ([]backend.Slot, error) {
	return f.slots, f.record("AvailableSlots", room, date)
}

func (f *fakeBackend) MyMeetings(context.Context, int64) ([]backend.Meeting, error) {
	return f.meetings, f.record("MyMeetings")
}

func (f *fakeBackend) DeleteMeeting(_ context.Context, _ int64, id uint) error {
	return f.record("DeleteMeeting", id)
}

type fakeMessenger struct {
	sent    []menu.Message
	acks    []string
	deleted []int
}

func (f *fakeMessenger) Send(_ context.Context, _ int64, msg menu.Message) error {
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeMessenger) Acknowledge(_ context.Context, id string) error {
	f.acks = append(f.acks, id)
	return nil
}

func (f *fakeMessenger) Delete(_ context.Context, _ int64, messageID int) error {
	f.deleted = append(f.deleted, messageID)
	return nil
}

const chat int64 = 555

type harness struct {
	t       *testing.T
	m       *Machine
	be      *fakeBackend
	out     *fakeMessenger
	store   *conversation.MemoryStore
	journal *journal.Memory
	now     time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		t:       t,
		be:      &fakeBackend{failOn: map[string]error{}},
		out:     &fakeMessenger{},
		store:   conversation.NewMemoryStore(),
		journal: journal.NewMemory(0),
		now:     time.Date(2024, 3, 20, 9, 0, 0, 0, time.UTC),
	}
	h.m = New(Options{
		Backend:     h.be,
		Messenger:   h.out,
		Store:       h.store,
		Journal:     h.journal,
		Rooms:       []string{"A-1", "A-2"},
		OnlineSlots: []backend.Slot{{Start: "12:00", End: "13:20"}, {Start: "13:30", End: "14:50"}},
		Now:         func() time.Time { return h.now },
	})
	return h
}

// seed stores a registered conversation.
func (h *harness) seed(role backend.Role, team *backend.Team) {
	conv := conversation.New(chat)
	conv.Role = role
	conv.DisplayName = "Tester"
	conv.State = conversation.StateAuthorized
	conv.SetTeam(team)
	conv.UpdatedAt = h.now
	h.store.Put(conv)
	h.be.team = team
}

func (h *harness) text(s string) {
	h.t.Helper()
	_ = h.m.HandleText(context.Background(), chat, s)
}

func (h *harness) press(data string) {
	h.t.Helper()
	_ = h.m.HandleCallback(context.Background(), Callback{ID: "cb", ChatID: chat, MessageID: 77, Data: data})
}

func (h *harness) conv() *conversation.Conversation {
	h.t.Helper()
	c, ok := h.store.Get(chat)
	if !ok {
		h.t.Fatal("conversation not stored")
	}
	return c
}

func (h *harness) state() conversation.State { return h.conv().State }

func (h *harness) last() menu.Message {
	h.t.Helper()
	if len(h.out.sent) == 0 {
		h.t.Fatal("nothing was sent")
	}
	return h.out.sent[len(h.out.sent)-1]
}

// saw reports whether any sent message contains s.
func (h *harness) saw(s string) bool {
	for _, m := range h.out.sent {
		if strings.Contains(m.Text, s) {
			return true
		}
	}
	return false
}

func (h *harness) reset() {
	h.be.calls = nil
	h.out.sent = nil
}
