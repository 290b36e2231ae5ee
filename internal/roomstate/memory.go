package roomstate

import (
	"context"
	"sync"
	"time"
)

// Memory is an in-process Store. State is lost on restart, which matches
// the best-effort durability the remote channel promises.
type Memory struct {
	mu    sync.RWMutex
	rooms map[string]Snapshot
	now   func() time.Time
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		rooms: make(map[string]Snapshot),
		now:   time.Now,
	}
}

// Get returns the room snapshot, or empty defaults if never written.
func (m *Memory) Get(_ context.Context, roomID string) (Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap, ok := m.rooms[roomID]
	if !ok {
		return EmptySnapshot(), nil
	}
	return snap, nil
}

// Put merges the provided fields over the prior state and stamps a fresh
// update time.
func (m *Memory) Put(_ context.Context, roomID string, p Patch) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev, ok := m.rooms[roomID]
	if !ok {
		prev = EmptySnapshot()
	}
	next := merge(prev, p, m.now().UnixMilli())
	m.rooms[roomID] = next
	return next.UpdatedAt, nil
}

// Close is a no-op for the in-memory store.
func (m *Memory) Close() error { return nil }

func merge(prev Snapshot, p Patch, updatedAt int64) Snapshot {
	next := prev
	if p.Messages != nil {
		next.Messages = p.Messages
	}
	if p.Settings != nil {
		next.Settings = p.Settings
	}
	if p.LiveInput != nil {
		next.LiveInput = *p.LiveInput
	}
	next.UpdatedAt = updatedAt
	return next
}
