package viewer

import (
	"strings"

	"github.com/livesteno/livesteno-server/internal/caption"
)

// speakerMarker toggles the highlight state when a line starts with it.
const speakerMarker = "-"

// Line is a finalized message tagged with its speaker-highlight state.
type Line struct {
	caption.Message
	Highlight bool
}

// LiveCaption is the render form of the uncommitted buffer, split at the
// last space into a stable prefix and the in-progress trailing word. In
// word mode only Stable is shown; in char mode Active is shown de-emphasized.
type LiveCaption struct {
	Stable    string
	Active    string
	Highlight bool
	Mode      caption.LiveInputMode
}

// View is a stable, render-ready reduction of messages + live buffer.
type View struct {
	Lines []Line
	Live  *LiveCaption // nil when empty or suppressed
}

// Reconcile computes the view from scratch. Highlight state is a pure
// function of the full ordered history, so replaying the same inputs always
// yields the same tags.
func Reconcile(messages []caption.Message, live string, style caption.ViewerStyle) View {
	lines := make([]Line, 0, len(messages))
	highlight := false
	for _, m := range messages {
		if style.DetectSpeakerChanges && strings.HasPrefix(strings.TrimSpace(m.OriginalText), speakerMarker) {
			highlight = !highlight
		}
		lines = append(lines, Line{Message: m, Highlight: highlight})
	}

	liveHighlight := highlight
	if style.DetectSpeakerChanges && strings.HasPrefix(strings.TrimSpace(live), speakerMarker) {
		liveHighlight = !liveHighlight
	}

	view := View{Lines: lines}
	if live == "" {
		return view
	}
	// The buffer that was just committed echoes back over both channels;
	// rendering it again next to the finalized line would double it.
	if len(messages) > 0 &&
		strings.TrimSpace(messages[len(messages)-1].OriginalText) == strings.TrimSpace(live) {
		return view
	}

	stable, active := splitLive(live)
	view.Live = &LiveCaption{
		Stable:    stable,
		Active:    active,
		Highlight: liveHighlight,
		Mode:      style.LiveInputMode,
	}
	return view
}

// splitLive cuts the buffer after the last space: everything before it is
// stable, the rest is the word still being typed.
func splitLive(live string) (stable, active string) {
	idx := strings.LastIndex(live, " ")
	if idx < 0 {
		return "", live
	}
	return live[:idx+1], live[idx+1:]
}
