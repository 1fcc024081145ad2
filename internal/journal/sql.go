package journal

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// SQL persists entries in the event_journal table. Queries are written
// with '?' placeholders and rebound for the connected driver.
type SQL struct {
	db *sqlx.DB
}

// NewSQL wraps an open connection. The schema must already be migrated.
func NewSQL(db *sqlx.DB) *SQL {
	return &SQL{db: db}
}

const insertEntry = `INSERT INTO event_journal
	(chat_id, kind, action, from_state, to_state, outcome, duration_ms, created_at_ms)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

// Record implements Journal.
func (s *SQL) Record(ctx context.Context, e Entry) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind(insertEntry),
		e.ChatID, string(e.Kind), e.Action, e.From, e.To, string(e.Outcome),
		e.Duration.Milliseconds(), e.At.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("journal insert: %w", err)
	}
	return nil
}

const selectTotals = `SELECT
	COUNT(*) AS events,
	COALESCE(SUM(CASE WHEN outcome = 'fail' THEN 1 ELSE 0 END), 0) AS failures,
	COUNT(DISTINCT chat_id) AS chats
	FROM event_journal WHERE created_at_ms >= ?`

const selectTop = `SELECT action, COUNT(*) AS n
	FROM event_journal WHERE created_at_ms >= ?
	GROUP BY action ORDER BY n DESC, action ASC LIMIT ?`

// Summary implements Journal.
func (s *SQL) Summary(ctx context.Context, since time.Time) (Summary, error) {
	var totals struct {
		Events   int `db:"events"`
		Failures int `db:"failures"`
		Chats    int `db:"chats"`
	}
	if err := s.db.GetContext(ctx, &totals, s.db.Rebind(selectTotals), since.UnixMilli()); err != nil {
		return Summary{}, fmt.Errorf("journal totals: %w", err)
	}
	var top []ActionCount
	if err := s.db.SelectContext(ctx, &top, s.db.Rebind(selectTop), since.UnixMilli(), TopActions); err != nil {
		return Summary{}, fmt.Errorf("journal top actions: %w", err)
	}
	return Summary{
		Since:    since,
		Events:   totals.Events,
		Failures: totals.Failures,
		Chats:    totals.Chats,
		Top:      top,
	}, nil
}
