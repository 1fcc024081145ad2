package app

import (
	"fmt"
	"strings"
	"time"

	coreconfig "github.com/m3rciful/teamboard/core/config"
	coredatabase "github.com/m3rciful/teamboard/core/database"
	"github.com/m3rciful/teamboard/internal/action"
	"github.com/m3rciful/teamboard/internal/backend"
)

// BackendConfig points the bot at the team/task/meeting REST service.
type BackendConfig struct {
	BaseURL        string `yaml:"base_url" envconfig:"BASE_URL"`
	TimeoutSeconds int    `yaml:"timeout_seconds" envconfig:"TIMEOUT_SECONDS"`
}

// ConversationConfig bounds how long per-chat state lives.
type ConversationConfig struct {
	// DialogTimeout reverts unfinished dialogs; zero keeps the default,
	// a negative value disables expiry.
	DialogTimeout time.Duration `yaml:"dialog_timeout" envconfig:"DIALOG_TIMEOUT"`
	// EvictAfter drops conversations idle for longer than this.
	EvictAfter    time.Duration `yaml:"evict_after" envconfig:"EVICT_AFTER"`
	SweepInterval time.Duration `yaml:"sweep_interval" envconfig:"SWEEP_INTERVAL"`
}

// MeetingsConfig lists the bookable rooms and the fixed online slots.
type MeetingsConfig struct {
	Rooms []string       `yaml:"rooms" envconfig:"ROOMS"`
	Slots []backend.Slot `yaml:"slots" ignored:"true"`
}

// Config is the full bot configuration. The core section is inlined, so its
// keys sit at the top level of the YAML file.
type Config struct {
	coreconfig.Config `yaml:",inline"`

	Backend      BackendConfig       `yaml:"backend"`
	Database     coredatabase.Config `yaml:"database"`
	Conversation ConversationConfig  `yaml:"conversation"`
	Meetings     MeetingsConfig      `yaml:"meetings"`
}

var (
	defaultRooms = []string{"A-1", "A-2", "A-3", "A-4", "A-5"}
	defaultSlots = []backend.Slot{
		{Start: "12:00", End: "13:20"},
		{Start: "13:30", End: "14:50"},
		{Start: "15:00", End: "16:20"},
		{Start: "16:30", End: "17:50"},
	}
)

const (
	defaultEvictAfter    = 24 * time.Hour
	defaultSweepInterval = 10 * time.Minute
)

// CoreConfig exposes the reusable core section.
func (c *Config) CoreConfig() *coreconfig.Config {
	return &c.Config
}

// LoadConfig reads path (optional) and the environment, then validates.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if err := coreconfig.Decode(path, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize validates required fields and fills defaults.
func (c *Config) Normalize() error {
	if err := coreconfig.Normalize(&c.Config); err != nil {
		return err
	}

	c.Backend.BaseURL = strings.TrimSpace(c.Backend.BaseURL)
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend base url is required (BACKEND_BASE_URL)")
	}
	if c.Backend.TimeoutSeconds < 0 {
		return fmt.Errorf("backend.timeout_seconds must be >= 0")
	}

	if err := c.Database.Normalize(); err != nil {
		return err
	}

	if c.Conversation.EvictAfter <= 0 {
		c.Conversation.EvictAfter = defaultEvictAfter
	}
	if c.Conversation.SweepInterval <= 0 {
		c.Conversation.SweepInterval = defaultSweepInterval
	}

	rooms := c.Meetings.Rooms[:0]
	for _, r := range c.Meetings.Rooms {
		if r = strings.TrimSpace(r); r != "" {
			rooms = append(rooms, r)
		}
	}
	c.Meetings.Rooms = rooms
	if len(c.Meetings.Rooms) == 0 {
		c.Meetings.Rooms = append([]string(nil), defaultRooms...)
	}
	for _, r := range c.Meetings.Rooms {
		if err := action.Validate(action.SelectRoom{Room: r}); err != nil {
			return fmt.Errorf("meetings.rooms: %w", err)
		}
	}
	if len(c.Meetings.Slots) == 0 {
		c.Meetings.Slots = append([]backend.Slot(nil), defaultSlots...)
	}
	for _, s := range c.Meetings.Slots {
		if _, err := time.Parse("15:04", s.Start); err != nil {
			return fmt.Errorf("meetings.slots: bad start %q", s.Start)
		}
		if _, err := time.Parse("15:04", s.End); err != nil {
			return fmt.Errorf("meetings.slots: bad end %q", s.End)
		}
		if s.End <= s.Start {
			return fmt.Errorf("meetings.slots: %s-%s ends before it starts", s.Start, s.End)
		}
		if err := action.Validate(action.SelectSlot{Slot: s}); err != nil {
			return fmt.Errorf("meetings.slots: %w", err)
		}
	}
	return nil
}
