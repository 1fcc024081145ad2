package journal

import (
	"context"
	"sync"
	"time"
)

// DefaultCapacity bounds the in-memory journal.
const DefaultCapacity = 10000

// Memory is a bounded in-process journal. The oldest entries are dropped
// once capacity is reached.
type Memory struct {
	mu      sync.Mutex
	entries []Entry
	limit   int
}

// NewMemory returns a journal holding at most limit entries.
func NewMemory(limit int) *Memory {
	if limit <= 0 {
		limit = DefaultCapacity
	}
	return &Memory{limit: limit}
}

// Record implements Journal.
func (m *Memory) Record(_ context.Context, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.entries) >= m.limit {
		n := copy(m.entries, m.entries[1:])
		m.entries = m.entries[:n]
	}
	m.entries = append(m.entries, e)
	return nil
}

// Summary implements Journal.
func (m *Memory) Summary(_ context.Context, since time.Time) (Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := Summary{Since: since}
	chats := map[int64]struct{}{}
	actions := map[string]int{}
	for _, e := range m.entries {
		if e.At.Before(since) {
			continue
		}
		s.Events++
		if e.Outcome == OutcomeFail {
			s.Failures++
		}
		chats[e.ChatID] = struct{}{}
		actions[e.Action]++
	}
	s.Chats = len(chats)
	s.Top = rankActions(actions)
	return s, nil
}
