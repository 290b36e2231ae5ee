package broadcast

import "github.com/livesteno/livesteno-server/internal/caption"

// EventType enumerates what the local channel can carry.
type EventType string

const (
	// EventNewMessage announces a freshly committed caption.
	EventNewMessage EventType = "NEW_MESSAGE"
	// EventUpdateMessage replaces a caption by id, typically after translation.
	EventUpdateMessage EventType = "UPDATE_MESSAGE"
	// EventLiveInput carries the current uncommitted buffer text.
	EventLiveInput EventType = "LIVE_INPUT"
	// EventSyncSettings pushes the authoritative settings to viewers.
	EventSyncSettings EventType = "SYNC_SETTINGS"
	// EventClearScreen resets messages and live input for the room.
	EventClearScreen EventType = "CLEAR_SCREEN"
)

// Event is one frame on the local channel. Exactly one payload field is
// populated depending on Type.
type Event struct {
	Type     EventType         `json:"type"`
	Message  *caption.Message  `json:"message,omitempty"`
	Text     string            `json:"text,omitempty"`
	Settings *caption.Settings `json:"settings,omitempty"`
}
