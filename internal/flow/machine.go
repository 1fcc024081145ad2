// Package flow is the per-chat conversation state machine. It turns inbound
// texts and button presses into backend calls and rendered menus.
package flow

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/m3rciful/teamboard/core/logger"
	"github.com/m3rciful/teamboard/internal/backend"
	"github.com/m3rciful/teamboard/internal/conversation"
	"github.com/m3rciful/teamboard/internal/journal"
	"github.com/m3rciful/teamboard/internal/menu"
)

// Backend is the subset of the REST client the machine drives.
type Backend interface {
	Lookup(ctx context.Context, tgID int64) (backend.User, error)
	Register(ctx context.Context, tgID int64, name string, role backend.Role) error
	CreateTeam(ctx context.Context, tgID int64, name, description string) (backend.Team, error)
	DeleteTeam(ctx context.Context, tgID int64) error
	JoinTeam(ctx context.Context, tgID int64, inviteCode string) (backend.Team, error)
	MyTeam(ctx context.Context, tgID int64) (backend.Team, error)
	InviteCode(ctx context.Context, tgID int64) (string, error)
	Members(ctx context.Context, tgID int64) ([]backend.User, error)
	KickMember(ctx context.Context, tgID int64, member string) error
	LeaveTeam(ctx context.Context, tgID int64) error

	CreateTask(ctx context.Context, tgID int64, task backend.NewTask) error
	MyTasks(ctx context.Context, tgID int64) ([]backend.Task, error)
	IssuedTasks(ctx context.Context, tgID int64) ([]backend.Task, error)
	DeleteTask(ctx context.Context, tgID int64, taskID uint) error
	UpdateTaskStatus(ctx context.Context, tgID int64, taskID uint, status backend.TaskStatus, report string) error

	CreateMeeting(ctx context.Context, tgID int64, m backend.NewMeeting) (backend.Meeting, error)
	AvailableSlots(ctx context.Context, room, date string) ([]backend.Slot, error)
	MyMeetings(ctx context.Context, tgID int64) ([]backend.Meeting, error)
	DeleteMeeting(ctx context.Context, tgID int64, meetingID uint) error
}

// Messenger delivers rendered messages to a chat.
type Messenger interface {
	Send(ctx context.Context, chatID int64, msg menu.Message) error
	Acknowledge(ctx context.Context, callbackID string) error
	Delete(ctx context.Context, chatID int64, messageID int) error
}

// Callback is a button press.
type Callback struct {
	ID        string
	ChatID    int64
	MessageID int
	Data      string
}

// DefaultDialogTimeout reverts unfinished dialogs idle for longer than this.
const DefaultDialogTimeout = 30 * time.Minute

// Options configure a Machine.
type Options struct {
	Backend   Backend
	Messenger Messenger
	Store     conversation.Store
	Journal   journal.Journal

	Rooms       []string
	OnlineSlots []backend.Slot

	// DialogTimeout of zero uses DefaultDialogTimeout; negative disables expiry.
	DialogTimeout time.Duration
	Now           func() time.Time
}

const lockStripes = 64

// Machine handles events for all chats. Events of one chat are serialized.
type Machine struct {
	backend   Backend
	messenger Messenger
	store     conversation.Store
	journal   journal.Journal

	rooms       []string
	onlineSlots []backend.Slot
	timeout     time.Duration
	now         func() time.Time

	botUsername atomic.Value
	locks       [lockStripes]sync.Mutex
}

// New builds a Machine. Store and Journal default to in-memory implementations.
func New(opts Options) *Machine {
	m := &Machine{
		backend:     opts.Backend,
		messenger:   opts.Messenger,
		store:       opts.Store,
		journal:     opts.Journal,
		rooms:       append([]string(nil), opts.Rooms...),
		onlineSlots: append([]backend.Slot(nil), opts.OnlineSlots...),
		timeout:     opts.DialogTimeout,
		now:         opts.Now,
	}
	if m.store == nil {
		m.store = conversation.NewMemoryStore()
	}
	if m.journal == nil {
		m.journal = journal.NewMemory(0)
	}
	if m.timeout == 0 {
		m.timeout = DefaultDialogTimeout
	}
	if m.now == nil {
		m.now = time.Now
	}
	m.botUsername.Store("")
	return m
}

// SetBotUsername enables t.me deep links in invite messages.
func (m *Machine) SetBotUsername(name string) {
	m.botUsername.Store(name)
}

func (m *Machine) username() string {
	s, _ := m.botUsername.Load().(string)
	return s
}

func (m *Machine) lock(chatID int64) *sync.Mutex {
	i := chatID % lockStripes
	if i < 0 {
		i = -i
	}
	return &m.locks[i]
}

// HandleText processes a text message or command. The returned error is the
// backend failure already reported to the user, if any.
func (m *Machine) HandleText(ctx context.Context, chatID int64, text string) error {
	mu := m.lock(chatID)
	mu.Lock()
	defer mu.Unlock()

	t := m.load(ctx, chatID)
	label := t.onText(text)
	m.finish(t, journal.KindText, label)
	return t.err
}

// HandleCallback processes a button press. The button's message is
// acknowledged and removed before the payload is interpreted.
func (m *Machine) HandleCallback(ctx context.Context, cb Callback) error {
	mu := m.lock(cb.ChatID)
	mu.Lock()
	defer mu.Unlock()

	if err := m.messenger.Acknowledge(ctx, cb.ID); err != nil {
		logger.Debug(ctx, "flow", "callback.ack",
			slog.String("status", "fail"),
			slog.String("err", err.Error()),
		)
	}
	if cb.MessageID != 0 {
		if err := m.messenger.Delete(ctx, cb.ChatID, cb.MessageID); err != nil {
			logger.Debug(ctx, "flow", "callback.delete",
				slog.String("status", "fail"),
				slog.String("err", err.Error()),
			)
		}
	}

	t := m.load(ctx, cb.ChatID)
	label := t.onCallback(cb.Data)
	m.finish(t, journal.KindCallback, label)
	return t.err
}

func (m *Machine) load(ctx context.Context, chatID int64) *turn {
	conv, ok := m.store.Get(chatID)
	if !ok {
		conv = conversation.New(chatID)
	}
	t := &turn{m: m, ctx: ctx, conv: conv, from: conv.State, started: m.now()}
	if m.timeout > 0 && !conv.State.Stable() && !conv.UpdatedAt.IsZero() &&
		t.started.Sub(conv.UpdatedAt) > m.timeout {
		logger.Info(ctx, "flow", "dialog.expired",
			slog.Int64("chat_id", chatID),
			slog.String("from", string(conv.State)),
			slog.Duration("idle", t.started.Sub(conv.UpdatedAt).Round(time.Second)),
		)
		conv.Reset()
		t.send(menu.DialogExpired)
	}
	return t
}

func (m *Machine) finish(t *turn, kind journal.Kind, label string) {
	t.conv.UpdatedAt = m.now()
	m.store.Put(t.conv)

	outcome := journal.OutcomeOK
	if t.failed {
		outcome = journal.OutcomeFail
	}
	took := t.conv.UpdatedAt.Sub(t.started)
	entry := journal.Entry{
		ChatID:   t.conv.ChatID,
		Kind:     kind,
		Action:   label,
		From:     string(t.from),
		To:       string(t.conv.State),
		Outcome:  outcome,
		Duration: took,
		At:       t.started,
	}
	if err := m.journal.Record(t.ctx, entry); err != nil {
		logger.Warn(t.ctx, "journal", "journal.record",
			slog.String("status", "fail"),
			slog.String("err", err.Error()),
		)
	}
	logger.Debug(t.ctx, "flow", "flow.transition",
		slog.Int64("chat_id", t.conv.ChatID),
		slog.String("op", label),
		slog.String("from", string(t.from)),
		slog.String("to", string(t.conv.State)),
		slog.String("outcome", string(outcome)),
		slog.Duration("duration_ms", logger.RoundMS(took)),
	)
}
