package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/teamboard/internal/backend"
	"github.com/m3rciful/teamboard/internal/flow"
)

type fakeMachine struct {
	texts     []string
	callbacks []flow.Callback
}

func (f *fakeMachine) HandleText(_ context.Context, chatID int64, text string) error {
	f.texts = append(f.texts, text)
	return nil
}

func (f *fakeMachine) HandleCallback(_ context.Context, cb flow.Callback) error {
	f.callbacks = append(f.callbacks, cb)
	return nil
}

func offlineBot(t *testing.T) *tele.Bot {
	t.Helper()
	b, err := tele.NewBot(tele.Settings{Offline: true})
	if err != nil {
		t.Fatalf("new bot: %v", err)
	}
	return b
}

func TestHandlersForwardToMachine(t *testing.T) {
	b := offlineBot(t)
	m := &fakeMachine{}
	a := &App{machine: m, now: time.Now}

	chat := &tele.Chat{ID: 42, Type: tele.ChatPrivate}
	if err := a.handleText(b.NewContext(tele.Update{ID: 1, Message: &tele.Message{
		Text: "/start ABC123", Chat: chat, Sender: &tele.User{ID: 42},
	}})); err != nil {
		t.Fatal(err)
	}
	if err := a.handleCallback(b.NewContext(tele.Update{ID: 2, Callback: &tele.Callback{
		ID:      "cb-7",
		Data:    "slot|12:00|13:20",
		Sender:  &tele.User{ID: 42},
		Message: &tele.Message{ID: 314, Chat: chat},
	}})); err != nil {
		t.Fatal(err)
	}

	if len(m.texts) != 1 || m.texts[0] != "/start ABC123" {
		t.Fatalf("texts = %v", m.texts)
	}
	want := flow.Callback{ID: "cb-7", ChatID: 42, MessageID: 314, Data: "slot|12:00|13:20"}
	if len(m.callbacks) != 1 || m.callbacks[0] != want {
		t.Fatalf("callbacks = %+v", m.callbacks)
	}
}

func TestRegistryHidesAdminCommands(t *testing.T) {
	a := &App{machine: &fakeMachine{}, now: time.Now}
	reg := a.Registry()
	visible := reg.ListCommands(true)
	if len(visible) != 2 || visible[0].Text != "menu" || visible[1].Text != "start" {
		t.Fatalf("visible commands = %+v", visible)
	}
	if _, cmd, ok := reg.LookupCommand("/stats"); !ok || !cmd.AdminOnly {
		t.Fatal("/stats must be registered as admin-only")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("BACKEND_BASE_URL", "http://backend:8080")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Telegram.RunMode != "longpoll" {
		t.Fatalf("run mode = %q", cfg.Telegram.RunMode)
	}
	if cfg.Database.Driver != "memory" {
		t.Fatalf("driver = %q", cfg.Database.Driver)
	}
	if len(cfg.Meetings.Rooms) != 5 || len(cfg.Meetings.Slots) != 4 {
		t.Fatalf("meetings = %+v", cfg.Meetings)
	}
	if cfg.Conversation.EvictAfter != 24*time.Hour || cfg.Conversation.SweepInterval != 10*time.Minute {
		t.Fatalf("conversation = %+v", cfg.Conversation)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
backend:
  base_url: https://backend.example.org
  timeout_seconds: 3
conversation:
  dialog_timeout: 5m
meetings:
  rooms: [B-1, B-2]
  slots:
    - {start: "09:00", end: "10:00"}
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Backend.BaseURL != "https://backend.example.org" || cfg.Backend.TimeoutSeconds != 3 {
		t.Fatalf("backend = %+v", cfg.Backend)
	}
	if cfg.Conversation.DialogTimeout != 5*time.Minute {
		t.Fatalf("dialog timeout = %v", cfg.Conversation.DialogTimeout)
	}
	if len(cfg.Meetings.Rooms) != 2 || cfg.Meetings.Slots[0].Start != "09:00" {
		t.Fatalf("meetings = %+v", cfg.Meetings)
	}
}

func TestLoadConfigRequiresBackend(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("BACKEND_BASE_URL", "")
	if _, err := LoadConfig(""); err == nil {
		t.Fatal("expected an error without a backend url")
	}
}

func TestNormalizeRejectsInvertedSlot(t *testing.T) {
	cfg := &Config{}
	cfg.Telegram.Token = "1:a"
	cfg.Backend.BaseURL = "http://b"
	cfg.Meetings.Slots = nil
	if err := cfg.Normalize(); err != nil {
		t.Fatalf("defaults: %v", err)
	}
	cfg.Meetings.Slots[0].End = "11:00"
	if err := cfg.Normalize(); err == nil {
		t.Fatal("expected an error for a slot ending before it starts")
	}
}

func TestNormalizeRejectsUnencodableRooms(t *testing.T) {
	for _, room := range []string{"Hall|B", strings.Repeat("r", 70)} {
		cfg := &Config{}
		cfg.Telegram.Token = "1:a"
		cfg.Backend.BaseURL = "http://b"
		cfg.Meetings.Rooms = []string{"A-1", room}
		if err := cfg.Normalize(); err == nil {
			t.Fatalf("room %q accepted", room)
		}
	}
}

func TestNormalizeRejectsUnencodableSlot(t *testing.T) {
	cfg := &Config{}
	cfg.Telegram.Token = "1:a"
	cfg.Backend.BaseURL = "http://b"
	cfg.Meetings.Slots = []backend.Slot{{Start: "09:00", End: "10:00"}}
	if err := cfg.Normalize(); err != nil {
		t.Fatalf("valid slot: %v", err)
	}
	cfg.Meetings.Slots = []backend.Slot{{Start: "09:00", End: "10:00|x"}}
	if err := cfg.Normalize(); err == nil {
		t.Fatal("slot with a separator accepted")
	}
}

func TestMenuAliasUsesCanonicalCommand(t *testing.T) {
	b := offlineBot(t)
	m := &fakeMachine{}
	a := &App{machine: m, now: time.Now}
	reg := a.Registry()

	key, cmd, ok := reg.LookupCommand("/m")
	if !ok || key != "/menu" {
		t.Fatalf("lookup /m = %q, %v", key, ok)
	}
	chat := &tele.Chat{ID: 42, Type: tele.ChatPrivate}
	if err := cmd.Handler(b.NewContext(tele.Update{ID: 3, Message: &tele.Message{
		Text: "/m", Chat: chat, Sender: &tele.User{ID: 42},
	}})); err != nil {
		t.Fatal(err)
	}
	if len(m.texts) != 1 || m.texts[0] != "/menu" {
		t.Fatalf("texts = %v", m.texts)
	}
}
