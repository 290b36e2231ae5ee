package viewer

import (
	"fmt"
	"strings"

	"github.com/livesteno/livesteno-server/internal/caption"
)

// Render formats the view as plain terminal text: one block per caption
// with indented translation lines, a "> " prefix on highlighted speakers,
// and the live buffer last. In word mode only space-completed words of the
// live buffer are shown; char mode shows the trailing word too.
func (v View) Render() string {
	var sb strings.Builder
	for _, line := range v.Lines {
		sb.WriteString(linePrefix(line.Highlight))
		sb.WriteString(line.OriginalText)
		sb.WriteByte('\n')
		for _, lang := range caption.SupportedTargets {
			if text, ok := line.Translations[lang]; ok && text != "" {
				fmt.Fprintf(&sb, "     %s: %s\n", strings.ToUpper(string(lang)), text)
			}
		}
	}

	if v.Live == nil {
		return sb.String()
	}
	text := v.Live.Stable
	if v.Live.Mode == caption.LiveInputChar {
		text += v.Live.Active
	}
	if strings.TrimSpace(text) == "" {
		return sb.String()
	}
	sb.WriteString(linePrefix(v.Live.Highlight))
	sb.WriteString("~ ")
	sb.WriteString(text)
	sb.WriteByte('\n')
	return sb.String()
}

func linePrefix(highlight bool) string {
	if highlight {
		return "> "
	}
	return "  "
}
