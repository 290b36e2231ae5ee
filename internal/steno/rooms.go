package steno

import "sync"

// Rooms hands out one Session per room id, creating it on first use. There
// is one authoring session per room; a reconnecting stenographer resumes
// the existing one.
type Rooms struct {
	mu       sync.Mutex
	sessions map[string]*Session
	factory  func(roomID string) *Session
}

// NewRooms builds the manager around a session factory.
func NewRooms(factory func(roomID string) *Session) *Rooms {
	return &Rooms{
		sessions: make(map[string]*Session),
		factory:  factory,
	}
}

// Get returns the session for roomID, creating it if needed.
func (r *Rooms) Get(roomID string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[roomID]; ok {
		return s
	}
	s := r.factory(roomID)
	r.sessions[roomID] = s
	return s
}
