package caption

// LanguageCode identifies a caption language.
type LanguageCode string

const (
	LangKorean     LanguageCode = "ko"
	LangEnglish    LanguageCode = "en"
	LangJapanese   LanguageCode = "ja"
	LangChinese    LanguageCode = "zh"
	LangSpanish    LanguageCode = "es"
	LangFrench     LanguageCode = "fr"
	LangGerman     LanguageCode = "de"
	LangVietnamese LanguageCode = "vi"
)

// SupportedTargets lists the languages a room may translate into.
var SupportedTargets = []LanguageCode{
	LangEnglish, LangJapanese, LangChinese, LangVietnamese,
	LangSpanish, LangFrench, LangGerman,
}

// TranslationMap maps a target language to its translated text.
type TranslationMap map[LanguageCode]string

// Message is a finalized caption line. OriginalText is immutable after
// creation; Translations is appended to exactly once by the translation
// pipeline; IsFinal flips to true exactly once, when translation reaches a
// terminal state (or immediately when translation is disabled).
type Message struct {
	ID           string         `json:"id"`
	OriginalText string         `json:"originalText"`
	Translations TranslationMap `json:"translations"`
	Timestamp    int64          `json:"timestamp"`
	IsFinal      bool           `json:"isFinal"`
}
