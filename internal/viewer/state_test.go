package viewer

import (
	"testing"

	"github.com/livesteno/livesteno-server/internal/broadcast"
	"github.com/livesteno/livesteno-server/internal/caption"
	"github.com/livesteno/livesteno-server/internal/roomstate"
)

func TestStateApplyLocalEvents(t *testing.T) {
	state := NewState()

	msg := caption.Message{ID: "1", OriginalText: "hello", Translations: caption.TranslationMap{}}
	state.Apply(broadcast.Event{Type: broadcast.EventNewMessage, Message: &msg})
	state.Apply(broadcast.Event{Type: broadcast.EventLiveInput, Text: "typing"})

	if got := state.Messages(); len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("unexpected messages: %+v", got)
	}

	updated := msg
	updated.IsFinal = true
	updated.Translations = caption.TranslationMap{caption.LangEnglish: "hello"}
	state.Apply(broadcast.Event{Type: broadcast.EventUpdateMessage, Message: &updated})

	got := state.Messages()
	if len(got) != 1 {
		t.Fatalf("update must replace, not append: %+v", got)
	}
	if !got[0].IsFinal || got[0].Translations[caption.LangEnglish] != "hello" {
		t.Fatalf("update not applied: %+v", got[0])
	}

	state.Apply(broadcast.Event{Type: broadcast.EventClearScreen})
	if len(state.Messages()) != 0 {
		t.Fatal("clear must wipe messages")
	}
	if view := state.View(); view.Live != nil {
		t.Fatal("clear must wipe the live buffer")
	}
}

func TestStateApplyUpdateForUnknownIDIsNoop(t *testing.T) {
	state := NewState()
	state.Apply(broadcast.Event{Type: broadcast.EventNewMessage, Message: &caption.Message{ID: "1"}})
	state.Apply(broadcast.Event{Type: broadcast.EventUpdateMessage, Message: &caption.Message{ID: "ghost", IsFinal: true}})

	got := state.Messages()
	if len(got) != 1 || got[0].ID != "1" || got[0].IsFinal {
		t.Fatalf("unknown-id update must change nothing: %+v", got)
	}
}

func TestStateLocalSyncAdoptsFullSettings(t *testing.T) {
	state := NewState()

	settings := caption.DefaultSettings()
	settings.TargetLanguages = []caption.LanguageCode{caption.LangJapanese}
	settings.ViewerStyle.BaseFontSize = 48
	state.Apply(broadcast.Event{Type: broadcast.EventSyncSettings, Settings: &settings})

	got := state.Settings()
	if got.ViewerStyle.BaseFontSize != 48 {
		t.Fatalf("local sync must adopt the full settings object, got font size %d", got.ViewerStyle.BaseFontSize)
	}
	if len(got.TargetLanguages) != 1 || got.TargetLanguages[0] != caption.LangJapanese {
		t.Fatalf("unexpected target languages: %v", got.TargetLanguages)
	}
}

func TestStateRemoteMergeKeepsLongerLocalSequence(t *testing.T) {
	state := NewState()
	for i := 0; i < 5; i++ {
		id := string(rune('a' + i))
		state.Apply(broadcast.Event{Type: broadcast.EventNewMessage, Message: &caption.Message{ID: id}})
	}

	// A stale poll carrying fewer messages must not truncate local history.
	state.ApplyRemote(roomstate.Snapshot{
		Messages: []caption.Message{{ID: "a"}, {ID: "b"}, {ID: "c"}},
	})
	if got := state.Messages(); len(got) != 5 {
		t.Fatalf("stale shorter snapshot truncated history to %d messages", len(got))
	}

	// An equal-or-longer snapshot replaces.
	longer := make([]caption.Message, 6)
	for i := range longer {
		longer[i] = caption.Message{ID: string(rune('a' + i))}
	}
	state.ApplyRemote(roomstate.Snapshot{Messages: longer})
	if got := state.Messages(); len(got) != 6 {
		t.Fatalf("longer snapshot should replace, got %d messages", len(got))
	}

	// An explicit empty snapshot clears (the authoring side wiped the room).
	state.ApplyRemote(roomstate.Snapshot{Messages: []caption.Message{}})
	if got := state.Messages(); len(got) != 0 {
		t.Fatalf("empty snapshot should clear, got %d messages", len(got))
	}

	// A nil sequence means the field was absent; keep what we have.
	state.ApplyRemote(roomstate.Snapshot{Messages: longer})
	state.ApplyRemote(roomstate.Snapshot{Messages: nil, LiveInput: "still here"})
	if got := state.Messages(); len(got) != 6 {
		t.Fatalf("absent messages field must not change history, got %d", len(got))
	}
}

func TestStateRemoteMergeAdoptsOnlyTargetLanguages(t *testing.T) {
	state := NewState()
	local := caption.DefaultSettings()
	local.ViewerStyle.BaseFontSize = 64
	state.SetSettings(local)

	remote := caption.DefaultSettings()
	remote.TargetLanguages = []caption.LanguageCode{caption.LangChinese, caption.LangFrench}
	remote.ViewerStyle.BaseFontSize = 12
	state.ApplyRemote(roomstate.Snapshot{Settings: &remote})

	got := state.Settings()
	if len(got.TargetLanguages) != 2 || got.TargetLanguages[0] != caption.LangChinese {
		t.Fatalf("target languages not adopted: %v", got.TargetLanguages)
	}
	if got.ViewerStyle.BaseFontSize != 64 {
		t.Fatalf("viewer style must stay local, got font size %d", got.ViewerStyle.BaseFontSize)
	}
}

func TestStateRemoteMergeSetsLiveInput(t *testing.T) {
	state := NewState()
	state.Apply(broadcast.Event{Type: broadcast.EventLiveInput, Text: "local"})

	state.ApplyRemote(roomstate.Snapshot{LiveInput: "remote"})
	view := state.View()
	if view.Live == nil || view.Live.Stable+view.Live.Active != "remote" {
		t.Fatalf("live input not adopted from snapshot: %+v", view.Live)
	}

	state.ApplyRemote(roomstate.Snapshot{})
	if view := state.View(); view.Live != nil {
		t.Fatalf("empty snapshot live input should clear the buffer, got %+v", view.Live)
	}
}
