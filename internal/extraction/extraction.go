// Package extraction implements the hybrid text extraction policy: prefer
// the vision model when its output is substantial, fall back to the local
// tesseract engine, and keep short model output only when tesseract comes
// up empty.
package extraction

import (
	"context"
	"log/slog"
	"strings"

	"shotsort/internal/config"
	"shotsort/internal/logging"
	"shotsort/internal/store"
)

// ModelExtractor transcribes text with the vision model.
type ModelExtractor interface {
	Available() bool
	ExtractText(ctx context.Context, imagePath string) (string, error)
}

// LocalEngine transcribes text with the local OCR tool.
type LocalEngine interface {
	ExtractText(ctx context.Context, imagePath string) (string, error)
}

// Extractor picks between model and local OCR per image.
type Extractor struct {
	model       ModelExtractor
	local       LocalEngine
	modelFirst  bool
	minModelLen int
	logger      *slog.Logger
}

// New builds an extractor from the configuration. model may be nil when
// AI OCR is disabled.
func New(cfg *config.Config, model ModelExtractor, local LocalEngine, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Extractor{
		model:       model,
		local:       local,
		modelFirst:  cfg.Features.AIOCR,
		minModelLen: cfg.Vision.MinModelTextLength,
		logger:      logger,
	}
}

// Extract returns the extracted text and which engine produced it. An
// image with no readable text yields empty text, an empty method, and no
// error.
func (e *Extractor) Extract(ctx context.Context, imagePath string) (string, store.OCRMethod, error) {
	var shortModelText string

	if e.modelFirst && e.model != nil && e.model.Available() {
		text, err := e.model.ExtractText(ctx, imagePath)
		if err != nil {
			e.logger.Warn("model OCR failed, falling back to local engine",
				logging.String("image", imagePath), logging.Error(err))
		} else {
			text = strings.TrimSpace(text)
			if len([]rune(text)) > e.minModelLen {
				return text, store.OCRMethodModel, nil
			}
			shortModelText = text
		}
	}

	if e.local != nil {
		text, err := e.local.ExtractText(ctx, imagePath)
		if err != nil {
			e.logger.Warn("local OCR failed",
				logging.String("image", imagePath), logging.Error(err))
		} else if text = strings.TrimSpace(text); text != "" {
			return text, store.OCRMethodLocal, nil
		}
	}

	// Tesseract produced nothing usable; a short model transcription is
	// still better than no text at all.
	if shortModelText != "" {
		return shortModelText, store.OCRMethodModel, nil
	}
	return "", "", nil
}
