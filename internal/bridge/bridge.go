// Package bridge serves the dashboard's query/command boundary as
// JSON-serializable structures over the record store.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"shotsort/internal/category"
	"shotsort/internal/config"
	"shotsort/internal/logging"
	"shotsort/internal/organizer"
	"shotsort/internal/phash"
	"shotsort/internal/services"
	"shotsort/internal/store"
)

const (
	activityDays   = 14
	financeDays    = 30
	recentInsights = 2
	recentFiles    = 6
	searchLimit    = 50
	previewLength  = 60
)

// Bridge answers dashboard queries and applies dashboard-initiated
// mutations to the store and the file tree.
type Bridge struct {
	cfg    *config.Config
	store  *store.Store
	logger *slog.Logger
}

// New builds a bridge over the given store.
func New(cfg *config.Config, s *store.Store, logger *slog.Logger) *Bridge {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Bridge{cfg: cfg, store: s, logger: logger}
}

// CategoryCount is one slice of the category breakdown.
type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Insight is a headline row for the stats view.
type Insight struct {
	Title    string   `json:"title"`
	Category string   `json:"category"`
	Detail   string   `json:"detail"`
	Time     int64    `json:"time"`
	Image    string   `json:"image"`
	Amount   *float64 `json:"amount"`
}

// Stats is the response to the stats command.
type Stats struct {
	TotalPhotos int             `json:"total_photos"`
	Videos      int             `json:"videos"`
	WithText    int             `json:"with_text"`
	WithAmount  int             `json:"with_amount"`
	Categories  []CategoryCount `json:"categories"`
	Insights    []Insight       `json:"insights"`
}

// Stats aggregates headline numbers plus the two newest records.
func (b *Bridge) Stats(ctx context.Context) (Stats, error) {
	var out Stats
	summary, err := b.store.Stats(ctx)
	if err != nil {
		return out, err
	}
	out.TotalPhotos = summary.Total
	out.Videos = summary.Videos
	out.WithText = summary.WithText
	out.WithAmount = summary.WithAmount
	out.Categories = categoryCounts(summary.Categories)

	recent, err := b.store.Recent(ctx, recentInsights)
	if err != nil {
		return out, err
	}
	out.Insights = make([]Insight, 0, len(recent))
	for _, item := range recent {
		out.Insights = append(out.Insights, Insight{
			Title:    fmt.Sprintf("New %s Screenshot", item.Category),
			Category: string(item.Category),
			Detail:   preview(item.ExtractedText, 50),
			Time:     item.CreatedAt,
			Image:    item.Path,
			Amount:   item.Amount,
		})
	}
	return out, nil
}

// DayCount is one day of indexing activity.
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// DayTotal is one day of currency-marked spend.
type DayTotal struct {
	Date  string  `json:"date"`
	Total float64 `json:"total"`
}

// LanguageCount is one slice of the language distribution.
type LanguageCount struct {
	Lang  string `json:"lang"`
	Count int    `json:"count"`
}

// RecentFile is one extended row for the dashboard's recent list.
type RecentFile struct {
	ID          int64    `json:"id"`
	Filename    string   `json:"filename"`
	Category    string   `json:"category"`
	TextPreview string   `json:"text_preview"`
	Amount      *float64 `json:"amount"`
	CreatedAt   int64    `json:"created_at"`
	AISummary   string   `json:"ai_summary"`
	IsVideo     bool     `json:"is_video"`
	Path        string   `json:"path"`
}

// DashboardData is the response to the dashboard_data command.
type DashboardData struct {
	Activity   []DayCount      `json:"activity"`
	Finance    []DayTotal      `json:"finance"`
	Categories []CategoryCount `json:"categories"`
	Languages  []LanguageCount `json:"languages"`
	Recent     []RecentFile    `json:"recent"`
}

// DashboardData collects everything the dashboard home view renders:
// 14-day activity, 30-day spend, category and language breakdowns, and
// the six newest records.
func (b *Bridge) DashboardData(ctx context.Context) (DashboardData, error) {
	var out DashboardData

	activity, err := b.store.ActivityByDay(ctx, activityDays)
	if err != nil {
		return out, err
	}
	out.Activity = make([]DayCount, 0, len(activity))
	for _, day := range activity {
		out.Activity = append(out.Activity, DayCount{Date: day.Date, Count: day.Count})
	}

	finance, err := b.store.SpendByDay(ctx, financeDays)
	if err != nil {
		return out, err
	}
	out.Finance = make([]DayTotal, 0, len(finance))
	for _, day := range finance {
		out.Finance = append(out.Finance, DayTotal{Date: day.Date, Total: day.Total})
	}

	counts, err := b.store.CategoryCounts(ctx)
	if err != nil {
		return out, err
	}
	out.Categories = categoryCounts(counts)

	languages, err := b.store.LanguageCounts(ctx)
	if err != nil {
		return out, err
	}
	out.Languages = make([]LanguageCount, 0, len(languages))
	for _, lang := range languages {
		out.Languages = append(out.Languages, LanguageCount{Lang: lang.Language, Count: lang.Count})
	}

	recent, err := b.store.Recent(ctx, recentFiles)
	if err != nil {
		return out, err
	}
	out.Recent = recentRows(recent)
	return out, nil
}

// SearchResult is one row of a search response.
type SearchResult struct {
	Filename    string   `json:"filename"`
	Category    string   `json:"category"`
	Path        string   `json:"path"`
	TextSnippet string   `json:"text_snippet"`
	Amount      *float64 `json:"amount"`
}

// Search runs a LIKE match across text, translation, category, and
// model summary.
func (b *Bridge) Search(ctx context.Context, query string) ([]SearchResult, error) {
	items, err := b.store.Search(ctx, query, searchLimit)
	if err != nil {
		return nil, err
	}
	results := make([]SearchResult, 0, len(items))
	for _, item := range items {
		results = append(results, SearchResult{
			Filename:    item.Filename,
			Category:    string(item.Category),
			Path:        item.Path,
			TextSnippet: preview(item.ExtractedText, 100),
			Amount:      item.Amount,
		})
	}
	return results, nil
}

// CategoryFiles lists one category's records with the given sort
// ("newest", "oldest", or "name").
func (b *Bridge) CategoryFiles(ctx context.Context, cat category.Category, sort string) ([]RecentFile, error) {
	if !category.Valid(cat) {
		return nil, services.Wrap(services.ErrValidation, services.StagePersistence, "category files", fmt.Sprintf("unknown category %q", cat), nil)
	}
	items, err := b.store.ItemsByCategory(ctx, cat, sort)
	if err != nil {
		return nil, err
	}
	return recentRows(items), nil
}

// MoveFile relocates an indexed file into a new category and updates its
// record. The record follows the file even when the physical move is
// impossible because the source is gone.
func (b *Bridge) MoveFile(ctx context.Context, filename string, newCategory category.Category) (*RecentFile, error) {
	if !category.Valid(newCategory) {
		return nil, services.Wrap(services.ErrValidation, services.StagePersistence, "move file", fmt.Sprintf("unknown category %q", newCategory), nil)
	}
	item, err := b.store.GetByFilename(ctx, filename)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, services.Wrap(services.ErrNotFound, services.StagePersistence, "move file", filename+" is not indexed", nil)
	}

	if _, statErr := os.Stat(item.Path); statErr == nil {
		relocator := organizer.New(b.cfg, b.logger)
		dest, finalName, err := relocator.Relocate(item.Path, newCategory)
		if err != nil {
			return nil, err
		}
		item.Path = dest
		item.Filename = finalName
	} else {
		b.logger.Warn("source file missing, updating record only",
			logging.String("file", filename))
	}

	item.Category = newCategory
	if err := b.store.Update(ctx, item); err != nil {
		return nil, err
	}
	row := toRecentRow(item)
	return &row, nil
}

// DeleteFile removes a record and its file from disk. A missing file is
// not an error; a missing record is.
func (b *Bridge) DeleteFile(ctx context.Context, filename string) error {
	item, err := b.store.GetByFilename(ctx, filename)
	if err != nil {
		return err
	}
	if item == nil {
		return services.Wrap(services.ErrNotFound, services.StagePersistence, "delete file", filename+" is not indexed", nil)
	}
	if err := os.Remove(item.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return services.Wrap(services.ErrUnavailable, services.StagePersistence, "delete file", "remove "+item.Path, err)
	}
	if _, err := b.store.Delete(ctx, filename); err != nil {
		return err
	}
	return nil
}

// DuplicateGroup is one cluster of near-identical images.
type DuplicateGroup struct {
	Files []RecentFile `json:"files"`
}

// FindDuplicates clusters all hashed records by perceptual-hash
// distance.
func (b *Bridge) FindDuplicates(ctx context.Context) ([]DuplicateGroup, error) {
	items, err := b.store.ItemsWithHash(ctx)
	if err != nil {
		return nil, err
	}
	clusters := phash.Cluster(items)
	groups := make([]DuplicateGroup, 0, len(clusters))
	for _, cluster := range clusters {
		groups = append(groups, DuplicateGroup{Files: recentRows(cluster)})
	}
	return groups, nil
}

func categoryCounts(counts []store.CategoryCount) []CategoryCount {
	out := make([]CategoryCount, 0, len(counts))
	for _, cc := range counts {
		out = append(out, CategoryCount{Name: string(cc.Category), Count: cc.Count})
	}
	return out
}

func recentRows(items []*store.IndexedItem) []RecentFile {
	rows := make([]RecentFile, 0, len(items))
	for _, item := range items {
		rows = append(rows, toRecentRow(item))
	}
	return rows
}

func toRecentRow(item *store.IndexedItem) RecentFile {
	return RecentFile{
		ID:          item.ID,
		Filename:    item.Filename,
		Category:    string(item.Category),
		TextPreview: preview(item.ExtractedText, previewLength),
		Amount:      item.Amount,
		CreatedAt:   item.CreatedAt,
		AISummary:   item.AISummary,
		IsVideo:     item.IsVideo,
		Path:        item.Path,
	}
}

func preview(text string, limit int) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
