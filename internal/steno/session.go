package steno

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/livesteno/livesteno-server/internal/broadcast"
	"github.com/livesteno/livesteno-server/internal/caption"
	"github.com/livesteno/livesteno-server/internal/roomstate"
	"github.com/livesteno/livesteno-server/internal/translate"
)

const (
	defaultCommitDebounce = 800 * time.Millisecond
	remotePushTimeout     = 5 * time.Second
	remotePushBuffer      = 32
)

// Options configures a stenographer Session.
type Options struct {
	Hub           *broadcast.Hub
	Translator    translate.Translator
	Remote        roomstate.Writer // nil disables the remote channel
	Logger        *zerolog.Logger
	Debounce      time.Duration
	DefaultTarget caption.LanguageCode
	Settings      *caption.Settings
	Now           func() time.Time
}

// Session owns one room's authoring state: the live buffer, the committed
// message sequence, and the settings. Commits are synchronous up to the
// NEW_MESSAGE emission; translation finalizes asynchronously.
type Session struct {
	roomID        string
	hub           *broadcast.Hub
	translator    translate.Translator
	remote        roomstate.Writer
	log           *zerolog.Logger
	debounce      time.Duration
	defaultTarget caption.LanguageCode
	now           func() time.Time

	pushCh chan roomstate.Patch

	mu             sync.Mutex
	settings       caption.Settings
	messages       []caption.Message
	live           string
	lastCommitText string
	lastCommitAt   time.Time
	lastID         string
	idBump         int
}

// NewSession creates the authoring session for roomID.
func NewSession(roomID string, opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = defaultCommitDebounce
	}
	defaultTarget := opts.DefaultTarget
	if defaultTarget == "" {
		defaultTarget = caption.LangEnglish
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	settings := caption.DefaultSettings()
	if opts.Settings != nil {
		settings = *opts.Settings
		settings.Sanitize()
	}
	tr := opts.Translator
	if tr == nil {
		tr = translate.Disabled{}
	}
	s := &Session{
		roomID:        roomID,
		hub:           opts.Hub,
		translator:    tr,
		remote:        opts.Remote,
		log:           logger,
		debounce:      debounce,
		defaultTarget: defaultTarget,
		now:           now,
		settings:      settings,
	}
	if s.remote != nil {
		s.pushCh = make(chan roomstate.Patch, remotePushBuffer)
		go s.pushLoop()
	}
	return s
}

// Input replaces the live buffer with text and broadcasts it. When
// auto-on-punctuation is enabled and the last character is a configured
// trigger, the buffer is committed in the same call.
func (s *Session) Input(text string) {
	s.mu.Lock()
	s.live = text
	autoCommit := s.shouldAutoCommitLocked(text)
	s.mu.Unlock()

	s.hub.Publish(s.roomID, broadcast.Event{Type: broadcast.EventLiveInput, Text: text})
	s.pushRemote(roomstate.Patch{LiveInput: &text})

	if autoCommit {
		s.Commit(text)
	}
}

func (s *Session) shouldAutoCommitLocked(text string) bool {
	if !s.settings.AutoOnPunctuation || text == "" {
		return false
	}
	last, _ := utf8.DecodeLastRuneInString(text)
	if !strings.ContainsRune(".?!", last) {
		return false
	}
	return slices.Contains(s.settings.TriggerKeys, string(last))
}

// Commit finalizes the live buffer into a message. Empty input is a no-op,
// as is re-committing the same text within the debounce window. The call
// returns once the NEW_MESSAGE event is out; translation resolves in the
// background and fires exactly one UPDATE_MESSAGE per commit.
func (s *Session) Commit(text string) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return
	}

	s.mu.Lock()
	now := s.now()
	if trimmed == s.lastCommitText && now.Sub(s.lastCommitAt) < s.debounce {
		s.mu.Unlock()
		return
	}

	id := strconv.FormatInt(now.UnixMilli(), 10)
	if id == s.lastID || strings.HasPrefix(s.lastID, id+"-") {
		// Two different texts inside the same millisecond; keep ids unique
		// and monotonic.
		s.idBump++
		id = id + "-" + strconv.Itoa(s.idBump)
	} else {
		s.idBump = 0
	}
	s.lastID = id

	msg := caption.Message{
		ID:           id,
		OriginalText: trimmed,
		Translations: caption.TranslationMap{},
		Timestamp:    now.UnixMilli(),
		IsFinal:      !s.settings.TranslationEnabled,
	}
	s.lastCommitText = trimmed
	s.lastCommitAt = now
	s.messages = append(s.messages, msg)
	s.live = ""

	translationEnabled := s.settings.TranslationEnabled
	targets := slices.Clone(s.settings.TargetLanguages)
	snapshot := slices.Clone(s.messages)
	s.mu.Unlock()

	s.hub.Publish(s.roomID, broadcast.Event{Type: broadcast.EventNewMessage, Message: &msg})
	s.hub.Publish(s.roomID, broadcast.Event{Type: broadcast.EventLiveInput, Text: ""})
	empty := ""
	s.pushRemote(roomstate.Patch{Messages: snapshot, LiveInput: &empty})

	if !translationEnabled {
		return
	}
	if len(targets) == 0 {
		// Translation on with no languages picked still translates into the
		// configured default rather than silently doing nothing.
		targets = []caption.LanguageCode{s.defaultTarget}
	}
	go s.finalize(msg, targets)
}

// finalize runs the translation pipeline and publishes the terminal update.
// Success, partial results and failure all end the same way: isFinal=true.
func (s *Session) finalize(msg caption.Message, targets []caption.LanguageCode) {
	start := s.now()
	translations := s.translator.Translate(context.Background(), msg.OriginalText, targets)

	updated := msg
	updated.IsFinal = true
	if len(translations) > 0 {
		updated.Translations = translations
	} else {
		s.log.Warn().
			Str("room", s.roomID).
			Str("message_id", msg.ID).
			Dur("elapsed", s.now().Sub(start)).
			Msg("translation returned no result, finalizing without it")
	}

	s.mu.Lock()
	for i := range s.messages {
		if s.messages[i].ID == updated.ID {
			s.messages[i] = updated
			break
		}
	}
	snapshot := slices.Clone(s.messages)
	s.mu.Unlock()

	s.hub.Publish(s.roomID, broadcast.Event{Type: broadcast.EventUpdateMessage, Message: &updated})
	s.pushRemote(roomstate.Patch{Messages: snapshot})
}

// UpdateSettings replaces the room settings and syncs them to both channels.
func (s *Session) UpdateSettings(settings caption.Settings) {
	settings.Sanitize()
	s.mu.Lock()
	s.settings = settings
	s.mu.Unlock()

	s.hub.Publish(s.roomID, broadcast.Event{Type: broadcast.EventSyncSettings, Settings: &settings})
	s.pushRemote(roomstate.Patch{Settings: &settings})
}

// Clear wipes the message sequence and the live buffer atomically. Settings
// are untouched.
func (s *Session) Clear() {
	s.mu.Lock()
	s.messages = nil
	s.live = ""
	s.mu.Unlock()

	s.hub.Publish(s.roomID, broadcast.Event{Type: broadcast.EventClearScreen})
	empty := ""
	s.pushRemote(roomstate.Patch{Messages: []caption.Message{}, LiveInput: &empty})
}

// Messages returns a copy of the committed sequence in commit order.
func (s *Session) Messages() []caption.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.messages)
}

// Settings returns the current room settings.
func (s *Session) Settings() caption.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// LiveInput returns the current uncommitted buffer.
func (s *Session) LiveInput() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live
}

// Transcript renders the room history as plain text, one block per message
// with indented translation lines.
func (s *Session) Transcript() string {
	msgs := s.Messages()
	blocks := make([]string, 0, len(msgs))
	for _, m := range msgs {
		var sb strings.Builder
		ts := time.UnixMilli(m.Timestamp).Format("15:04:05")
		fmt.Fprintf(&sb, "[%s] %s: %s", ts, strings.ToUpper(string(caption.LangKorean)), m.OriginalText)
		for _, lang := range caption.SupportedTargets {
			if text, ok := m.Translations[lang]; ok && text != "" {
				fmt.Fprintf(&sb, "\n   %s: %s", strings.ToUpper(string(lang)), text)
			}
		}
		blocks = append(blocks, sb.String())
	}
	return strings.Join(blocks, "\n\n")
}

// pushRemote queues a partial snapshot for the remote channel, fire and
// forget. A single worker drains the queue so writes land in the order
// they were produced; a commit-time snapshot can never overwrite the
// finalized one. The session keeps working on the local channel alone
// when the remote store is unreachable or the queue is full.
func (s *Session) pushRemote(p roomstate.Patch) {
	if s.pushCh == nil {
		return
	}
	select {
	case s.pushCh <- p:
	default:
		s.log.Debug().Str("room", s.roomID).Msg("room state push dropped, queue full")
	}
}

func (s *Session) pushLoop() {
	for p := range s.pushCh {
		ctx, cancel := context.WithTimeout(context.Background(), remotePushTimeout)
		_, err := s.remote.Put(ctx, s.roomID, p)
		cancel()
		if err != nil {
			s.log.Debug().Err(err).Str("room", s.roomID).Msg("room state push failed")
		}
	}
}
