package pipeline

import (
	"context"
	"log/slog"
	"time"

	"shotsort/internal/amount"
	"shotsort/internal/category"
	"shotsort/internal/config"
	"shotsort/internal/logging"
	"shotsort/internal/organizer"
	"shotsort/internal/phash"
	"shotsort/internal/scanner"
	"shotsort/internal/store"
	"shotsort/internal/translate"
	"shotsort/internal/video"
	"shotsort/internal/vision"
)

// Extractor produces text from an image via the hybrid OCR policy.
type Extractor interface {
	Extract(ctx context.Context, imagePath string) (string, store.OCRMethod, error)
}

// Categorizer classifies and transcribes images with the vision model.
type Categorizer interface {
	Available() bool
	Categorize(ctx context.Context, imagePath string) (vision.Categorization, error)
	ExtractText(ctx context.Context, imagePath string) (string, error)
}

// LanguageService detects and translates extracted text.
type LanguageService interface {
	Process(ctx context.Context, text string) translate.Result
}

// VideoAnalyzer samples and aggregates video frames.
type VideoAnalyzer interface {
	Analyze(ctx context.Context, path string) (video.Analysis, error)
}

// Processor turns discovered candidates into indexed, relocated records.
type Processor struct {
	cfg       *config.Config
	store     *store.Store
	extractor Extractor
	model     Categorizer
	languages LanguageService
	videos    VideoAnalyzer
	relocator *organizer.Relocator
	logger    *slog.Logger
	now       func() time.Time
}

// NewProcessor wires the per-file pipeline. model, languages, and videos
// may be nil when the matching feature is disabled.
func NewProcessor(
	cfg *config.Config,
	s *store.Store,
	extractor Extractor,
	model Categorizer,
	languages LanguageService,
	videos VideoAnalyzer,
	relocator *organizer.Relocator,
	logger *slog.Logger,
) *Processor {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Processor{
		cfg:       cfg,
		store:     s,
		extractor: extractor,
		model:     model,
		languages: languages,
		videos:    videos,
		relocator: relocator,
		logger:    logger,
		now:       time.Now,
	}
}

// Process indexes one candidate end to end and returns the stored record.
func (p *Processor) Process(ctx context.Context, cand scanner.Candidate) (*store.IndexedItem, error) {
	if cand.IsVideo {
		return p.processVideo(ctx, cand)
	}
	return p.processImage(ctx, cand)
}

func (p *Processor) processImage(ctx context.Context, cand scanner.Candidate) (*store.IndexedItem, error) {
	item := &store.IndexedItem{
		Filename:  cand.Filename,
		Path:      cand.Path,
		CreatedAt: cand.CreatedAt,
	}

	text, method, err := p.extractor.Extract(ctx, cand.Path)
	if err != nil {
		return nil, err
	}
	item.ExtractedText = text
	item.OCRMethod = method

	ruleCat := category.Classify(text)
	if value, ok := amount.Parse(text); ok {
		item.Amount = &value
	}

	if hash, err := phash.Compute(cand.Path); err != nil {
		p.logger.Debug("perceptual hash failed",
			logging.String("file", cand.Filename), logging.Error(err))
	} else {
		item.PHash = hash
	}

	var modelCat category.Category
	if p.cfg.Features.AICategorization && p.model != nil && p.model.Available() {
		categorization, err := p.model.Categorize(ctx, cand.Path)
		if err != nil {
			p.logger.Warn("vision categorization failed",
				logging.String("file", cand.Filename), logging.Error(err))
		} else {
			modelCat = categorization.Category
			item.AICategory = categorization.Category
			item.AISummary = categorization.Summary
			processedAt := p.now().UnixMilli()
			item.AIProcessedAt = &processedAt
		}
	}

	if p.cfg.Features.Translation && p.languages != nil && text != "" {
		result := p.languages.Process(ctx, text)
		item.DetectedLanguage = result.DetectedLanguage
		item.TranslatedText = result.TranslatedText
	}

	item.Category = ResolveCategory(ruleCat, modelCat, false)
	if err := p.relocate(cand, item); err != nil {
		return nil, err
	}

	item.ProcessedAt = p.now().UnixMilli()
	if err := p.store.Insert(ctx, item); err != nil {
		return nil, err
	}
	p.logger.Info("indexed screenshot",
		logging.String("file", item.Filename),
		logging.String("category", string(item.Category)),
		logging.String("ocr_method", string(item.OCRMethod)))
	return item, nil
}

func (p *Processor) processVideo(ctx context.Context, cand scanner.Candidate) (*store.IndexedItem, error) {
	item := &store.IndexedItem{
		Filename:  cand.Filename,
		Path:      cand.Path,
		Category:  category.Videos,
		CreatedAt: cand.CreatedAt,
		IsVideo:   true,
	}

	var modelCat category.Category
	if p.cfg.Features.VideoAnalysis && p.videos != nil {
		analysis, err := p.videos.Analyze(ctx, cand.Path)
		if err != nil {
			p.logger.Warn("video analysis failed",
				logging.String("file", cand.Filename), logging.Error(err))
		} else if analysis.FramesAnalyzed > 0 {
			modelCat = analysis.Category
			item.AICategory = analysis.Category
			item.AISummary = analysis.Summary
			item.VideoObjects = analysis.Objects
			item.VideoFramesAnalyzed = analysis.FramesAnalyzed
			processedAt := p.now().UnixMilli()
			item.AIProcessedAt = &processedAt
		}
	}

	item.Category = ResolveCategory(category.Videos, modelCat, true)
	if err := p.relocate(cand, item); err != nil {
		return nil, err
	}

	item.ProcessedAt = p.now().UnixMilli()
	if err := p.store.Insert(ctx, item); err != nil {
		return nil, err
	}
	p.logger.Info("indexed video",
		logging.String("file", item.Filename),
		logging.String("category", string(item.Category)),
		logging.Int("frames", item.VideoFramesAnalyzed))
	return item, nil
}

// relocate moves the file when the placement policy calls for it and
// records the final path and filename on the item.
func (p *Processor) relocate(cand scanner.Candidate, item *store.IndexedItem) error {
	if !organizer.ShouldMove(cand.InDir, item.Category) {
		return nil
	}
	dest, filename, err := p.relocator.Relocate(cand.Path, item.Category)
	if err != nil {
		return err
	}
	item.Path = dest
	item.Filename = filename
	return nil
}
