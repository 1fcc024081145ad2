// Package journal keeps an append-only record of handled chat events and
// summarizes it for the admin /stats command.
package journal

import (
	"context"
	"sort"
	"time"
)

// Kind is the type of inbound event.
type Kind string

const (
	KindText     Kind = "text"
	KindCallback Kind = "callback"
)

// Outcome tells whether an event rendered an error.
type Outcome string

const (
	OutcomeOK   Outcome = "ok"
	OutcomeFail Outcome = "fail"
)

// Entry is one handled event.
type Entry struct {
	ChatID   int64
	Kind     Kind
	Action   string
	From     string
	To       string
	Outcome  Outcome
	Duration time.Duration
	At       time.Time
}

// ActionCount is how often an action was handled.
type ActionCount struct {
	Action string `db:"action"`
	Count  int    `db:"n"`
}

// Summary aggregates entries recorded since a point in time.
type Summary struct {
	Since    time.Time
	Events   int
	Failures int
	Chats    int
	// Top holds the most frequent actions, most frequent first.
	Top []ActionCount
}

// Journal stores entries.
type Journal interface {
	Record(ctx context.Context, e Entry) error
	Summary(ctx context.Context, since time.Time) (Summary, error)
}

// TopActions is the number of actions reported in a summary.
const TopActions = 5

func rankActions(counts map[string]int) []ActionCount {
	out := make([]ActionCount, 0, len(counts))
	for a, n := range counts {
		out = append(out, ActionCount{Action: a, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Action < out[j].Action
	})
	if len(out) > TopActions {
		out = out[:TopActions]
	}
	return out
}
