package viewer

import (
	"strings"
	"testing"

	"github.com/livesteno/livesteno-server/internal/caption"
)

func TestRenderLinesWithTranslationsAndHighlight(t *testing.T) {
	style := detectingStyle()
	messages := []caption.Message{
		{ID: "1", OriginalText: "안녕하세요", Translations: caption.TranslationMap{
			caption.LangEnglish:  "hello",
			caption.LangJapanese: "こんにちは",
		}},
		{ID: "2", OriginalText: "- 반갑습니다"},
	}

	out := Reconcile(messages, "", style).Render()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 rendered lines, got %d:\n%s", len(lines), out)
	}
	if lines[0] != "  안녕하세요" {
		t.Fatalf("unexpected first line %q", lines[0])
	}
	if lines[1] != "     EN: hello" || lines[2] != "     JA: こんにちは" {
		t.Fatalf("translations out of order or misformatted: %q / %q", lines[1], lines[2])
	}
	if lines[3] != "> - 반갑습니다" {
		t.Fatalf("highlighted line missing its prefix: %q", lines[3])
	}
}

func TestRenderLiveBufferByMode(t *testing.T) {
	wordStyle := caption.DefaultViewerStyle()
	wordStyle.LiveInputMode = caption.LiveInputWord

	out := Reconcile(nil, "hello wor", wordStyle).Render()
	if !strings.Contains(out, "~ hello ") || strings.Contains(out, "wor\n") {
		t.Fatalf("word mode must hide the trailing word:\n%q", out)
	}

	charStyle := caption.DefaultViewerStyle()
	charStyle.LiveInputMode = caption.LiveInputChar
	out = Reconcile(nil, "hello wor", charStyle).Render()
	if !strings.Contains(out, "~ hello wor") {
		t.Fatalf("char mode must show the trailing word:\n%q", out)
	}

	// Word mode with nothing space-completed yet renders no live line.
	out = Reconcile(nil, "typing", wordStyle).Render()
	if strings.Contains(out, "~") {
		t.Fatalf("unfinished first word must not render in word mode:\n%q", out)
	}
}

func TestRenderEmptyViewIsEmpty(t *testing.T) {
	if out := Reconcile(nil, "", caption.DefaultViewerStyle()).Render(); out != "" {
		t.Fatalf("empty view must render empty, got %q", out)
	}
}
