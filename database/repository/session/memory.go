package session

import (
	"context"
	"sync"
	"time"

	"bookline/models"
)

// MemorySessionRepo is an in-process Repository used by tests and local runs
// without Redis. TTL semantics match the Redis implementation.
type MemorySessionRepo struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryEntry
}

type memoryEntry struct {
	rec       models.BookingRecord
	expiresAt time.Time
}

func NewMemorySessionRepo(ttl time.Duration) *MemorySessionRepo {
	return &MemorySessionRepo{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
	}
}

func (m *MemorySessionRepo) Load(_ context.Context, callerID string) (*models.BookingRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[callerID]
	if !ok || time.Now().After(entry.expiresAt) {
		delete(m.entries, callerID)
		return nil, nil
	}
	rec := entry.rec
	return &rec, nil
}

func (m *MemorySessionRepo) Save(_ context.Context, rec *models.BookingRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[rec.CallerID] = memoryEntry{
		rec:       *rec,
		expiresAt: time.Now().Add(m.ttl),
	}
	return nil
}

func (m *MemorySessionRepo) Delete(_ context.Context, callerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, callerID)
	return nil
}
