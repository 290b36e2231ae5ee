package caption

import "testing"

func TestSanitizeFillsZeroValueSettings(t *testing.T) {
	var s Settings
	s.Sanitize()

	if s.TargetLanguages == nil {
		t.Fatal("target languages must be non-nil after sanitize")
	}
	if s.EnterKeyBehavior != EnterSend {
		t.Fatalf("expected default enter behavior, got %q", s.EnterKeyBehavior)
	}
	if len(s.TriggerKeys) == 0 {
		t.Fatal("trigger keys must be defaulted")
	}
	if s.ViewerStyle.LayoutMode != LayoutCombined {
		t.Fatalf("expected combined layout, got %q", s.ViewerStyle.LayoutMode)
	}
	if s.ViewerStyle.LiveInputMode != LiveInputWord {
		t.Fatalf("expected word mode, got %q", s.ViewerStyle.LiveInputMode)
	}
	if s.ViewerStyle.BaseFontSize <= 0 || s.ViewerStyle.LineHeight <= 0 {
		t.Fatalf("font metrics not defaulted: %+v", s.ViewerStyle)
	}
	if len(s.ViewerStyle.LanguageStyles) == 0 {
		t.Fatal("language styles must be defaulted")
	}
}

func TestSanitizeReplacesUnknownEnumValues(t *testing.T) {
	s := DefaultSettings()
	s.EnterKeyBehavior = "banana"
	s.ViewerStyle.LayoutMode = "diagonal"
	s.ViewerStyle.LiveInputMode = "telepathy"
	s.Sanitize()

	if s.EnterKeyBehavior != EnterSend {
		t.Fatalf("unknown enter behavior not defaulted: %q", s.EnterKeyBehavior)
	}
	if s.ViewerStyle.LayoutMode != LayoutCombined {
		t.Fatalf("unknown layout not defaulted: %q", s.ViewerStyle.LayoutMode)
	}
	if s.ViewerStyle.LiveInputMode != LiveInputWord {
		t.Fatalf("unknown live mode not defaulted: %q", s.ViewerStyle.LiveInputMode)
	}
}

func TestSanitizeKeepsValidValues(t *testing.T) {
	s := DefaultSettings()
	s.TargetLanguages = []LanguageCode{LangJapanese}
	s.EnterKeyBehavior = EnterNewline
	s.ViewerStyle.LayoutMode = LayoutColumns
	s.ViewerStyle.LiveInputMode = LiveInputChar
	s.ViewerStyle.BaseFontSize = 20
	s.Sanitize()

	if s.EnterKeyBehavior != EnterNewline || s.ViewerStyle.LayoutMode != LayoutColumns {
		t.Fatalf("valid values were clobbered: %+v", s)
	}
	if s.ViewerStyle.LiveInputMode != LiveInputChar || s.ViewerStyle.BaseFontSize != 20 {
		t.Fatalf("valid values were clobbered: %+v", s.ViewerStyle)
	}
	if len(s.TargetLanguages) != 1 || s.TargetLanguages[0] != LangJapanese {
		t.Fatalf("target languages were clobbered: %v", s.TargetLanguages)
	}
}

func TestSanitizeFillsMissingLanguageStyles(t *testing.T) {
	s := DefaultSettings()
	custom := LanguageStyle{FontFamily: "Courier", Color: "#00ff00", FontSizeScale: 2, FontWeight: 700}
	s.ViewerStyle.LanguageStyles = map[LanguageCode]LanguageStyle{LangEnglish: custom}
	s.Sanitize()

	if got := s.ViewerStyle.LanguageStyles[LangEnglish]; got != custom {
		t.Fatalf("custom style overwritten: %+v", got)
	}
	if _, ok := s.ViewerStyle.LanguageStyles[LangKorean]; !ok {
		t.Fatal("missing language styles must be backfilled")
	}
}
