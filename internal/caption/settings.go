package caption

// LayoutMode controls how viewer languages are arranged.
type LayoutMode string

const (
	LayoutCombined LayoutMode = "combined"
	LayoutColumns  LayoutMode = "columns"
	LayoutRows     LayoutMode = "rows"
)

// LiveInputMode controls how the in-progress buffer is rendered.
type LiveInputMode string

const (
	// LiveInputChar shows every keystroke, with the trailing word de-emphasized.
	LiveInputChar LiveInputMode = "char"
	// LiveInputWord shows only space-completed words.
	LiveInputWord LiveInputMode = "word"
)

// EnterBehavior decides whether Enter commits the buffer or inserts a newline.
type EnterBehavior string

const (
	EnterSend    EnterBehavior = "send"
	EnterNewline EnterBehavior = "newline"
)

// LanguageStyle is per-language font styling carried for viewers.
type LanguageStyle struct {
	FontFamily    string  `json:"fontFamily"`
	Color         string  `json:"color"`
	FontSizeScale float64 `json:"fontSizeScale"`
	FontWeight    int     `json:"fontWeight"`
	LetterSpacing float64 `json:"letterSpacing"`
}

// ViewerStyle is the display configuration propagated to viewers.
type ViewerStyle struct {
	BackgroundColor      string                         `json:"backgroundColor"`
	BaseFontSize         int                            `json:"baseFontSize"`
	LineHeight           float64                        `json:"lineHeight"`
	LayoutMode           LayoutMode                     `json:"layoutMode"`
	LanguageStyles       map[LanguageCode]LanguageStyle `json:"languageStyles"`
	AutoScroll           bool                           `json:"autoScroll"`
	ParagraphSpacing     float64                        `json:"paragraphSpacing"`
	LiveInputMode        LiveInputMode                  `json:"liveInputMode"`
	DetectSpeakerChanges bool                           `json:"detectSpeakerChanges"`
	SpeakerChangeColor   string                         `json:"speakerChangeColor"`
	TextAlign            string                         `json:"textAlign"`
}

// Settings is the authoring-side configuration for a room. The stenographer
// owns the authoritative copy; viewers may override display-only fields
// locally.
type Settings struct {
	TargetLanguages          []LanguageCode `json:"targetLanguages"`
	TranslationEnabled       bool           `json:"translationEnabled"`
	AutoOnPunctuation        bool           `json:"autoOnPunctuation"`
	EnterKeyBehavior         EnterBehavior  `json:"enterKeyBehavior"`
	TriggerKeys              []string       `json:"triggerKeys"`
	ViewerStyle              ViewerStyle    `json:"viewerStyle"`
	EnableWordDeleteShortcut *bool          `json:"enableWordDeleteShortcut,omitempty"`
}

// DefaultLanguageStyle is the base style applied when a language has none.
func DefaultLanguageStyle() LanguageStyle {
	return LanguageStyle{
		FontFamily:    "Noto Sans KR",
		Color:         "#ffffff",
		FontSizeScale: 1.0,
		FontWeight:    400,
	}
}

// DefaultViewerStyle returns the stock viewer display configuration.
func DefaultViewerStyle() ViewerStyle {
	styles := map[LanguageCode]LanguageStyle{
		LangKorean: {FontFamily: "Noto Sans KR", Color: "#ffffff", FontSizeScale: 1.0, FontWeight: 500},
	}
	for _, lang := range SupportedTargets {
		s := DefaultLanguageStyle()
		s.Color = "#FFBB00"
		if lang == LangEnglish {
			s.FontFamily = "Roboto"
		}
		styles[lang] = s
	}
	return ViewerStyle{
		BackgroundColor:    "#000000",
		BaseFontSize:       32,
		LineHeight:         1.5,
		LayoutMode:         LayoutCombined,
		LanguageStyles:     styles,
		AutoScroll:         true,
		LiveInputMode:      LiveInputWord,
		SpeakerChangeColor: "#FFBB00",
		TextAlign:          "left",
	}
}

// DefaultSettings returns the settings a room starts with: translation on,
// no target languages, Enter commits.
func DefaultSettings() Settings {
	return Settings{
		TargetLanguages:    []LanguageCode{},
		TranslationEnabled: true,
		EnterKeyBehavior:   EnterSend,
		TriggerKeys:        []string{".", "?", "!", "Enter"},
		ViewerStyle:        DefaultViewerStyle(),
	}
}

// Sanitize fills missing or malformed fields with safe defaults so that
// settings loaded from persisted or remote state never break rendering.
// Unknown enum values fall back to their default variant.
func (s *Settings) Sanitize() {
	if s.TargetLanguages == nil {
		s.TargetLanguages = []LanguageCode{}
	}
	switch s.EnterKeyBehavior {
	case EnterSend, EnterNewline:
	default:
		s.EnterKeyBehavior = EnterSend
	}
	if s.TriggerKeys == nil {
		s.TriggerKeys = []string{".", "?", "!", "Enter"}
	}
	s.ViewerStyle.sanitize()
}

func (v *ViewerStyle) sanitize() {
	def := DefaultViewerStyle()
	switch v.LayoutMode {
	case LayoutCombined, LayoutColumns, LayoutRows:
	default:
		v.LayoutMode = def.LayoutMode
	}
	switch v.LiveInputMode {
	case LiveInputChar, LiveInputWord:
	default:
		v.LiveInputMode = def.LiveInputMode
	}
	if v.BackgroundColor == "" {
		v.BackgroundColor = def.BackgroundColor
	}
	if v.BaseFontSize <= 0 {
		v.BaseFontSize = def.BaseFontSize
	}
	if v.LineHeight <= 0 {
		v.LineHeight = def.LineHeight
	}
	if v.SpeakerChangeColor == "" {
		v.SpeakerChangeColor = def.SpeakerChangeColor
	}
	if v.TextAlign == "" {
		v.TextAlign = def.TextAlign
	}
	if v.LanguageStyles == nil {
		v.LanguageStyles = def.LanguageStyles
		return
	}
	for lang, style := range def.LanguageStyles {
		if _, ok := v.LanguageStyles[lang]; !ok {
			v.LanguageStyles[lang] = style
		}
	}
}
