package pipeline

import (
	"context"
	"os"

	"shotsort/internal/category"
	"shotsort/internal/logging"
	"shotsort/internal/store"
)

// BackfillResult summarizes one backfill invocation.
type BackfillResult struct {
	AICategorized int
	OCRUpgraded   int
	Missing       int
	Failed        int
}

// Total returns how many records were updated.
func (r BackfillResult) Total() int {
	return r.AICategorized + r.OCRUpgraded
}

// Backfill pulls a bounded batch of incomplete records and re-runs only
// the missing sub-pipeline for each: vision categorization for records
// never seen by the model, then model OCR for records still carrying
// local-only text. Records whose source file has gone missing are logged
// and skipped; they stay eligible until removed externally.
func (p *Processor) Backfill(ctx context.Context) (BackfillResult, error) {
	var result BackfillResult
	if !p.cfg.Workflow.BackfillEnabled {
		return result, nil
	}
	if p.model == nil || !p.model.Available() {
		return result, nil
	}
	limit := p.cfg.Workflow.BackfillLimit

	if p.cfg.Features.AICategorization {
		if err := p.backfillAICategories(ctx, limit, &result); err != nil {
			return result, err
		}
	}
	if p.cfg.Features.AIOCR {
		if err := p.backfillModelOCR(ctx, limit, &result); err != nil {
			return result, err
		}
	}
	return result, nil
}

func (p *Processor) backfillAICategories(ctx context.Context, limit int, result *BackfillResult) error {
	items, err := p.store.NextAICategoryBackfill(ctx, limit)
	if err != nil {
		return err
	}
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !item.NeedsAICategory() {
			continue
		}
		if _, err := os.Stat(item.Path); err != nil {
			p.logger.Warn("backfill source file missing",
				logging.String("file", item.Filename), logging.Error(err))
			result.Missing++
			continue
		}

		categorization, err := p.model.Categorize(ctx, item.Path)
		if err != nil {
			p.logger.Warn("backfill categorization failed",
				logging.String("file", item.Filename), logging.Error(err))
			result.Failed++
			continue
		}
		item.AICategory = categorization.Category
		item.AISummary = categorization.Summary
		processedAt := p.now().UnixMilli()
		item.AIProcessedAt = &processedAt
		// Adopt the model category for still-unsorted records. The file
		// is not moved; only the stored field changes.
		if item.Category == category.Unsorted && !category.IsSentinel(categorization.Category) {
			item.Category = categorization.Category
		}
		if err := p.store.Update(ctx, item); err != nil {
			return err
		}
		result.AICategorized++
	}
	return nil
}

func (p *Processor) backfillModelOCR(ctx context.Context, limit int, result *BackfillResult) error {
	items, err := p.store.NextModelOCRBackfill(ctx, limit)
	if err != nil {
		return err
	}
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !item.NeedsModelOCR() {
			continue
		}
		if _, err := os.Stat(item.Path); err != nil {
			p.logger.Warn("backfill source file missing",
				logging.String("file", item.Filename), logging.Error(err))
			result.Missing++
			continue
		}

		text, err := p.model.ExtractText(ctx, item.Path)
		if err != nil {
			p.logger.Warn("backfill OCR failed",
				logging.String("file", item.Filename), logging.Error(err))
			result.Failed++
			continue
		}
		if text == "" {
			result.Failed++
			continue
		}
		item.AIExtractedText = text
		item.OCRMethod = store.OCRMethodModel
		// Records that had no local text carry a null ocr_method; the
		// model transcription becomes their extracted text so the
		// method/text pairing stays consistent.
		if item.ExtractedText == "" {
			item.ExtractedText = text
		}

		if p.cfg.Features.Translation && p.languages != nil {
			translation := p.languages.Process(ctx, text)
			item.DetectedLanguage = translation.DetectedLanguage
			item.TranslatedText = translation.TranslatedText
		}

		if err := p.store.Update(ctx, item); err != nil {
			return err
		}
		result.OCRUpgraded++
	}
	return nil
}
