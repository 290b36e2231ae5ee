package translate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/livesteno/livesteno-server/internal/caption"
)

const (
	minTranslationLength     = 2
	cacheSize                = 100
	defaultFirstChunkTimeout = 18 * time.Second
)

// Texts made of nothing but punctuation, symbols or emoji are not worth a
// provider round trip.
var symbolOnlyPattern = regexp.MustCompile(`^[^\w가-힣]+$`)

var errFirstChunkTimeout = errors.New("no stream output before first-chunk timeout")

// Translator turns finalized source text into per-language translations.
// Implementations never return an error: any failure yields an empty map so
// a failed translation cannot break the commit flow.
type Translator interface {
	Translate(ctx context.Context, text string, targets []caption.LanguageCode) caption.TranslationMap
}

// Disabled is a Translator used when no provider is configured.
type Disabled struct{}

// Translate always returns an empty map.
func (Disabled) Translate(context.Context, string, []caption.LanguageCode) caption.TranslationMap {
	return caption.TranslationMap{}
}

// Options configures a translation Service.
type Options struct {
	Model             model.BaseChatModel
	SourceLanguage    caption.LanguageCode
	FirstChunkTimeout time.Duration
	Logger            *zerolog.Logger
}

// Service is the production translation pipeline: result cache, skip rules,
// a streaming provider call guarded by a first-chunk timeout, and a
// non-streaming fallback.
type Service struct {
	model             model.BaseChatModel
	cache             *cache
	source            caption.LanguageCode
	firstChunkTimeout time.Duration
	log               *zerolog.Logger
}

// NewService builds the pipeline around the given chat model.
func NewService(opts Options) *Service {
	source := opts.SourceLanguage
	if source == "" {
		source = caption.LangKorean
	}
	timeout := opts.FirstChunkTimeout
	if timeout <= 0 {
		timeout = defaultFirstChunkTimeout
	}
	logger := opts.Logger
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Service{
		model:             opts.Model,
		cache:             newCache(cacheSize),
		source:            source,
		firstChunkTimeout: timeout,
		log:               logger,
	}
}

// Translate requests translations for text into targets. Partial results are
// returned as-is; every failure path collapses to an empty map.
func (s *Service) Translate(ctx context.Context, text string, targets []caption.LanguageCode) caption.TranslationMap {
	trimmed := strings.TrimSpace(text)
	if s.shouldSkip(trimmed) {
		return caption.TranslationMap{}
	}

	actual := s.filterTargets(targets)
	if len(actual) == 0 {
		return caption.TranslationMap{}
	}

	key := cacheKey(trimmed, actual)
	if cached, ok := s.cache.get(key); ok {
		return cached
	}

	requestID := uuid.NewString()
	start := time.Now()
	prompt := buildPrompt(s.source, actual, trimmed)
	input := []*schema.Message{schema.UserMessage(prompt)}

	raw, err := s.collectStream(ctx, input)
	if err == nil {
		if result := s.parse(raw); result != nil {
			s.cache.put(key, result)
			s.log.Debug().
				Str("request_id", requestID).
				Dur("elapsed", time.Since(start)).
				Int("languages", len(result)).
				Msg("translation stream done")
			return result
		}
		err = errors.New("stream produced no parseable translations")
	}
	s.log.Warn().Err(err).Str("request_id", requestID).Msg("translation stream failed, falling back")

	resp, genErr := s.model.Generate(ctx, input)
	if genErr != nil {
		s.log.Error().Err(genErr).
			Str("request_id", requestID).
			Dur("elapsed", time.Since(start)).
			Msg("translation fallback failed")
		return caption.TranslationMap{}
	}
	if result := s.parse(resp.Content); result != nil {
		s.cache.put(key, result)
		s.log.Debug().
			Str("request_id", requestID).
			Dur("elapsed", time.Since(start)).
			Msg("translation fallback done")
		return result
	}

	s.log.Warn().Str("request_id", requestID).Msg("translation fallback returned no usable output")
	return caption.TranslationMap{}
}

func (s *Service) shouldSkip(trimmed string) bool {
	if utf8.RuneCountInString(trimmed) < minTranslationLength {
		return true
	}
	return symbolOnlyPattern.MatchString(trimmed)
}

// filterTargets drops the source language (never translated into itself) and
// duplicates, returning a sorted copy.
func (s *Service) filterTargets(targets []caption.LanguageCode) []caption.LanguageCode {
	seen := make(map[caption.LanguageCode]struct{}, len(targets))
	actual := make([]caption.LanguageCode, 0, len(targets))
	for _, t := range targets {
		if t == s.source || t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		actual = append(actual, t)
	}
	sort.Slice(actual, func(i, j int) bool { return actual[i] < actual[j] })
	return actual
}

// collectStream consumes the streamed response. The timeout applies only
// until the first chunk arrives; once output has started the full response
// is awaited unconditionally.
func (s *Service) collectStream(ctx context.Context, input []*schema.Message) (string, error) {
	streamCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	stream, err := s.model.Stream(streamCtx, input)
	if err != nil {
		return "", err
	}

	type chunk struct {
		text string
		err  error
	}
	chunks := make(chan chunk)
	go func() {
		defer close(chunks)
		defer stream.Close()
		for {
			msg, recvErr := stream.Recv()
			if recvErr != nil {
				chunks <- chunk{err: recvErr}
				return
			}
			if msg == nil {
				continue
			}
			chunks <- chunk{text: msg.Content}
		}
	}()

	timer := time.NewTimer(s.firstChunkTimeout)
	defer timer.Stop()

	var sb strings.Builder
	received := false
	for {
		var c chunk
		if received {
			c = <-chunks
		} else {
			select {
			case c = <-chunks:
			case <-timer.C:
				cancel()
				go func() {
					for range chunks {
					}
				}()
				return "", errFirstChunkTimeout
			}
		}
		if c.err != nil {
			if errors.Is(c.err, io.EOF) {
				return sb.String(), nil
			}
			return "", c.err
		}
		if !received {
			received = true
			timer.Stop()
		}
		sb.WriteString(c.text)
	}
}

// parse decodes the provider output as a language→text JSON object. Returns
// nil for anything unusable.
func (s *Service) parse(raw string) caption.TranslationMap {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var out caption.TranslationMap
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		s.log.Warn().Err(err).Msg("translation response is not valid JSON")
		return nil
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func buildPrompt(source caption.LanguageCode, targets []caption.LanguageCode, text string) string {
	codes := make([]string, len(targets))
	fields := make([]string, len(targets))
	for i, t := range targets {
		codes[i] = string(t)
		fields[i] = fmt.Sprintf("%q:\"...\"", string(t))
	}
	return fmt.Sprintf("%s → %s. JSON only: {%s} for: %q",
		languageName(source), strings.Join(codes, ", "), strings.Join(fields, ","), text)
}

func languageName(code caption.LanguageCode) string {
	switch code {
	case caption.LangKorean:
		return "Korean"
	case caption.LangEnglish:
		return "English"
	case caption.LangJapanese:
		return "Japanese"
	case caption.LangChinese:
		return "Chinese"
	case caption.LangSpanish:
		return "Spanish"
	case caption.LangFrench:
		return "French"
	case caption.LangGerman:
		return "German"
	case caption.LangVietnamese:
		return "Vietnamese"
	default:
		return string(code)
	}
}
