package conversation

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/m3rciful/teamboard/core/logger"
)

// Store keeps one Conversation per chat.
type Store interface {
	// Get returns a copy of the stored record; ok is false when none exists.
	Get(chatID int64) (*Conversation, bool)
	// Put replaces the record of conv.ChatID with a copy of conv.
	Put(conv *Conversation)
	// Delete forgets a chat.
	Delete(chatID int64)
}

// MemoryStore is a mutex-guarded in-memory Store with idle eviction.
type MemoryStore struct {
	mu    sync.RWMutex
	convs map[int64]*Conversation
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{convs: make(map[int64]*Conversation)}
}

// Get implements Store.
func (m *MemoryStore) Get(chatID int64) (*Conversation, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	conv, ok := m.convs[chatID]
	if !ok {
		return nil, false
	}
	return conv.Clone(), true
}

// Put implements Store.
func (m *MemoryStore) Put(conv *Conversation) {
	if conv == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.convs[conv.ChatID] = conv.Clone()
}

// Delete implements Store.
func (m *MemoryStore) Delete(chatID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.convs, chatID)
}

// Len returns the number of stored conversations.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.convs)
}

// Sweep evicts conversations idle for longer than ttl and returns how many
// were removed.
func (m *MemoryStore) Sweep(now time.Time, ttl time.Duration) int {
	if ttl <= 0 {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, conv := range m.convs {
		if now.Sub(conv.UpdatedAt) > ttl {
			delete(m.convs, id)
			removed++
		}
	}
	return removed
}

// Janitor sweeps the store every interval until ctx is done.
func (m *MemoryStore) Janitor(ctx context.Context, interval, ttl time.Duration) {
	if interval <= 0 || ttl <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := m.Sweep(now, ttl); n > 0 {
				logger.Debug(ctx, "store", "store.sweep",
					slog.Int("count", n),
					slog.Int("pending_count", m.Len()),
				)
			}
		}
	}
}
