package roomstate

import (
	"context"
	"testing"
	"time"

	"github.com/livesteno/livesteno-server/internal/caption"
)

func TestMemoryGetUnknownRoomReturnsEmptyDefaults(t *testing.T) {
	store := NewMemory()

	snap, err := store.Get(context.Background(), "never-written")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if snap.Messages == nil || len(snap.Messages) != 0 {
		t.Fatalf("expected empty non-nil messages, got %+v", snap.Messages)
	}
	if snap.Settings != nil || snap.LiveInput != "" || snap.UpdatedAt != 0 {
		t.Fatalf("expected zero defaults, got %+v", snap)
	}
}

func TestMemoryPartialPutKeepsAbsentFields(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	settings := caption.DefaultSettings()
	live := "typing"
	if _, err := store.Put(ctx, "room", Patch{
		Messages:  []caption.Message{{ID: "1", OriginalText: "hello"}},
		Settings:  &settings,
		LiveInput: &live,
	}); err != nil {
		t.Fatalf("full put: %v", err)
	}

	// A live-input-only patch must leave messages and settings alone.
	newLive := "typing more"
	if _, err := store.Put(ctx, "room", Patch{LiveInput: &newLive}); err != nil {
		t.Fatalf("partial put: %v", err)
	}

	snap, err := store.Get(ctx, "room")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(snap.Messages) != 1 || snap.Messages[0].ID != "1" {
		t.Fatalf("messages lost on partial put: %+v", snap.Messages)
	}
	if snap.Settings == nil {
		t.Fatal("settings lost on partial put")
	}
	if snap.LiveInput != "typing more" {
		t.Fatalf("live input not updated, got %q", snap.LiveInput)
	}
}

func TestMemoryEmptyMessagesSliceClears(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	store.Put(ctx, "room", Patch{Messages: []caption.Message{{ID: "1"}, {ID: "2"}}})
	store.Put(ctx, "room", Patch{Messages: []caption.Message{}})

	snap, _ := store.Get(ctx, "room")
	if len(snap.Messages) != 0 {
		t.Fatalf("empty non-nil slice must clear the sequence, got %+v", snap.Messages)
	}
}

func TestMemoryPutStampsFreshUpdatedAt(t *testing.T) {
	store := NewMemory()
	current := time.UnixMilli(1000)
	store.now = func() time.Time { return current }
	ctx := context.Background()

	first, err := store.Put(ctx, "room", Patch{LiveInput: strPtr("a")})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	current = time.UnixMilli(2000)
	second, err := store.Put(ctx, "room", Patch{LiveInput: strPtr("b")})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if first >= second {
		t.Fatalf("updatedAt must advance: %d then %d", first, second)
	}

	snap, _ := store.Get(ctx, "room")
	if snap.UpdatedAt != second {
		t.Fatalf("snapshot updatedAt %d, want %d", snap.UpdatedAt, second)
	}
}

func strPtr(s string) *string { return &s }
