package store

import (
	"shotsort/internal/category"
)

// OCRMethod records which extraction path produced the stored text.
type OCRMethod string

const (
	// OCRMethodLocal marks text recognized by the local engine.
	OCRMethodLocal OCRMethod = "local"
	// OCRMethodModel marks text extracted by the vision model.
	OCRMethodModel OCRMethod = "model"
)

// IndexedItem is one screenshot or video record, one row per physical file.
//
// String fields use "" for SQL NULL; numeric nullables use pointers.
// Timestamps are epoch milliseconds, matching what the dashboard bridge
// expects in its date arithmetic.
type IndexedItem struct {
	ID       int64
	Filename string
	Path     string
	Category category.Category

	ExtractedText string
	Amount        *float64
	CreatedAt     int64
	ProcessedAt   int64

	AICategory    category.Category
	AISummary     string
	AIProcessedAt *int64

	DetectedLanguage string
	TranslatedText   string

	IsVideo             bool
	VideoFramesAnalyzed int
	VideoObjects        string

	OCRMethod       OCRMethod
	AIExtractedText string

	// PHash is the 64-bit perceptual hash as 16 hex digits; empty for
	// videos and undecodable images.
	PHash string
}

// HasAmount reports whether a currency-marked amount was detected.
func (i *IndexedItem) HasAmount() bool {
	return i != nil && i.Amount != nil
}

// NeedsAICategory reports whether the record is eligible for the
// model-categorization backfill.
func (i *IndexedItem) NeedsAICategory() bool {
	return i.AIProcessedAt == nil && i.Category != category.Videos
}

// NeedsModelOCR reports whether the record is eligible for the model OCR
// backfill.
func (i *IndexedItem) NeedsModelOCR() bool {
	return !i.IsVideo && i.AIExtractedText == "" &&
		(i.OCRMethod == "" || i.OCRMethod == OCRMethodLocal)
}

// StatsSummary aggregates store counts for diagnostics and the dashboard.
type StatsSummary struct {
	Total      int
	Videos     int
	WithText   int
	WithAmount int
	Categories []CategoryCount
}

// CategoryCount pairs a category with its record count.
type CategoryCount struct {
	Category category.Category
	Count    int
}

// LanguageCount pairs a detected language with its record count.
type LanguageCount struct {
	Language string
	Count    int
}

// DayCount is one day of discovery activity.
type DayCount struct {
	Date  string
	Count int
}

// DayTotal is one day of currency-marked spend.
type DayTotal struct {
	Date  string
	Total float64
}
