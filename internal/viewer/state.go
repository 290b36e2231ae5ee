package viewer

import (
	"slices"
	"sync"

	"github.com/livesteno/livesteno-server/internal/broadcast"
	"github.com/livesteno/livesteno-server/internal/caption"
	"github.com/livesteno/livesteno-server/internal/roomstate"
)

// State merges the local channel, the remote polling channel, and the
// viewer's own settings into one reconciled room view. The two channels are
// independent data paths that may observe the same logical event at
// different times; merging is what keeps the render stable.
type State struct {
	mu       sync.Mutex
	messages []caption.Message
	live     string
	settings caption.Settings
}

// NewState starts with default settings and an empty room.
func NewState() *State {
	return &State{settings: caption.DefaultSettings()}
}

// Apply consumes one local-channel event. Local viewers adopt the full
// settings object on every sync.
func (s *State) Apply(ev broadcast.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch ev.Type {
	case broadcast.EventNewMessage:
		if ev.Message != nil {
			s.messages = append(s.messages, *ev.Message)
		}
	case broadcast.EventUpdateMessage:
		if ev.Message == nil {
			return
		}
		for i := range s.messages {
			if s.messages[i].ID == ev.Message.ID {
				s.messages[i] = *ev.Message
				break
			}
		}
	case broadcast.EventLiveInput:
		s.live = ev.Text
	case broadcast.EventSyncSettings:
		if ev.Settings != nil {
			settings := *ev.Settings
			settings.Sanitize()
			s.settings = settings
		}
	case broadcast.EventClearScreen:
		s.messages = nil
		s.live = ""
	}
}

// ApplyRemote merges a polled snapshot. The message sequence only replaces
// the local one when it is at least as long (a stale short poll must not
// truncate what the faster local channel already delivered) or when the
// remote side reports empty. Of the settings, only the target-language list
// is adopted; visual style stays under the viewer's control so the authoring
// side's snapshot cadence cannot yank the display around.
func (s *State) ApplyRemote(snap roomstate.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if snap.Messages != nil {
		if len(snap.Messages) >= len(s.messages) || len(snap.Messages) == 0 {
			s.messages = snap.Messages
		}
	}
	if snap.Settings != nil && snap.Settings.TargetLanguages != nil {
		s.settings.TargetLanguages = snap.Settings.TargetLanguages
	}
	s.live = snap.LiveInput
}

// SetSettings applies a local, viewer-side settings override.
func (s *State) SetSettings(settings caption.Settings) {
	settings.Sanitize()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
}

// Settings returns the viewer's effective settings.
func (s *State) Settings() caption.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// Messages returns a copy of the current message sequence.
func (s *State) Messages() []caption.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.messages)
}

// View reconciles the current state into render order.
func (s *State) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Reconcile(s.messages, s.live, s.settings.ViewerStyle)
}
