package roomstate

import (
	"context"

	"github.com/livesteno/livesteno-server/internal/caption"
)

// Snapshot is the full remote-channel state of one room. The authoring side
// replaces field groups wholesale; readers treat it as read-only.
type Snapshot struct {
	Messages  []caption.Message `json:"messages"`
	Settings  *caption.Settings `json:"settings"`
	LiveInput string            `json:"liveInput"`
	UpdatedAt int64             `json:"updatedAt"`
}

// EmptySnapshot is what an unknown room reads as.
func EmptySnapshot() Snapshot {
	return Snapshot{Messages: []caption.Message{}}
}

// Patch is a partial room-state write. A nil Messages slice means "not
// provided"; an empty non-nil slice clears the sequence. Settings and
// LiveInput follow the same provided-or-absent rule via pointers.
type Patch struct {
	Messages  []caption.Message `json:"messages"`
	Settings  *caption.Settings `json:"settings,omitempty"`
	LiveInput *string           `json:"liveInput,omitempty"`
}

// Writer accepts best-effort room-state writes. Provided fields replace the
// stored field group; absent fields keep their prior value. Every write
// stamps a fresh update time, returned in unix milliseconds.
type Writer interface {
	Put(ctx context.Context, roomID string, p Patch) (int64, error)
}

// Store is the injectable room-state backing: an in-memory map for tests
// and local runs, sqlite for durability.
type Store interface {
	Writer

	// Get returns the current snapshot, or empty defaults for an unknown room.
	Get(ctx context.Context, roomID string) (Snapshot, error)

	// Close releases the underlying backing.
	Close() error
}
