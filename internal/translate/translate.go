// Package translate detects the language of extracted text and translates
// non-target text through the vision model.
package translate

import (
	"context"
	"log/slog"
	"strings"

	"github.com/pemistahl/lingua-go"

	"shotsort/internal/config"
	"shotsort/internal/logging"
)

// Texts shorter than this are too ambiguous for reliable detection.
const minDetectableLength = 12

// Translator produces a translation of text into the target language.
type Translator interface {
	Available() bool
	Translate(ctx context.Context, text, targetLang string) (string, error)
}

// Service runs detection and translation for extracted screenshot text.
type Service struct {
	detector lingua.LanguageDetector
	model    Translator
	target   string
	logger   *slog.Logger
}

// Result carries the detection and translation outcome for one text.
type Result struct {
	DetectedLanguage string
	TranslatedText   string
}

// New builds the translation service. model may be nil when translation
// is disabled.
func New(cfg *config.Config, model Translator, logger *slog.Logger) *Service {
	if logger == nil {
		logger = logging.NewNop()
	}
	detector := lingua.NewLanguageDetectorBuilder().
		FromAllSpokenLanguages().
		Build()
	return &Service{
		detector: detector,
		model:    model,
		target:   strings.ToLower(strings.TrimSpace(cfg.Translation.TargetLanguage)),
		logger:   logger,
	}
}

// Detect returns the lowercase ISO 639-1 code of the text's language, or
// empty when the text is too short or detection is inconclusive.
func (s *Service) Detect(text string) string {
	text = strings.TrimSpace(text)
	if len([]rune(text)) < minDetectableLength {
		return ""
	}
	lang, ok := s.detector.DetectLanguageOf(text)
	if !ok {
		return ""
	}
	return strings.ToLower(lang.IsoCode639_1().String())
}

// Process detects the text's language and, when it differs from the target,
// asks the model for a translation. Translation failures degrade to a
// detection-only result.
func (s *Service) Process(ctx context.Context, text string) Result {
	var result Result
	result.DetectedLanguage = s.Detect(text)
	if result.DetectedLanguage == "" || result.DetectedLanguage == s.target {
		return result
	}
	if s.model == nil || !s.model.Available() {
		return result
	}

	translated, err := s.model.Translate(ctx, text, s.target)
	if err != nil {
		s.logger.Warn("translation failed",
			logging.String("detected_language", result.DetectedLanguage),
			logging.Error(err))
		return result
	}
	result.TranslatedText = strings.TrimSpace(translated)
	return result
}
