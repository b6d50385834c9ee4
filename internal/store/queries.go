package store

import (
	"context"
	"fmt"
	"strings"

	"shotsort/internal/category"
)

// ItemsByCategory returns records in a category. sort accepts "newest"
// (default), "oldest", or "name".
func (s *Store) ItemsByCategory(ctx context.Context, cat category.Category, sort string) ([]*IndexedItem, error) {
	order := "created_at DESC"
	switch strings.ToLower(strings.TrimSpace(sort)) {
	case "oldest":
		order = "created_at ASC"
	case "name":
		order = "filename COLLATE NOCASE ASC"
	case "", "newest":
	default:
		return nil, fmt.Errorf("unknown sort %q", sort)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM screenshots WHERE category = ? ORDER BY `+order,
		string(cat),
	)
	if err != nil {
		return nil, fmt.Errorf("query by category: %w", err)
	}
	defer rows.Close()
	return collectItems(rows)
}

// Search returns records whose text, translated text, or category matches the
// query as a case-insensitive substring, newest first.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]*IndexedItem, error) {
	if limit <= 0 {
		limit = 50
	}
	term := "%" + query + "%"
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM screenshots
         WHERE text LIKE ? OR translated_text LIKE ? OR category LIKE ? OR ai_summary LIKE ?
         ORDER BY created_at DESC LIMIT ?`,
		term, term, term, term, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer rows.Close()
	return collectItems(rows)
}

// Recent returns the newest records by creation time.
func (s *Store) Recent(ctx context.Context, limit int) ([]*IndexedItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM screenshots ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent items: %w", err)
	}
	defer rows.Close()
	return collectItems(rows)
}

// Stats aggregates record counts for diagnostics and the dashboard.
func (s *Store) Stats(ctx context.Context) (StatsSummary, error) {
	summary := StatsSummary{}
	row := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1),
                COALESCE(SUM(is_video), 0),
                COALESCE(SUM(CASE WHEN text IS NOT NULL THEN 1 ELSE 0 END), 0),
                COALESCE(SUM(CASE WHEN amount IS NOT NULL THEN 1 ELSE 0 END), 0)
         FROM screenshots`)
	if err := row.Scan(&summary.Total, &summary.Videos, &summary.WithText, &summary.WithAmount); err != nil {
		return summary, fmt.Errorf("stats totals: %w", err)
	}

	counts, err := s.CategoryCounts(ctx)
	if err != nil {
		return summary, err
	}
	summary.Categories = counts
	return summary, nil
}

// CategoryCounts returns per-category record counts, most populous first.
func (s *Store) CategoryCounts(ctx context.Context) ([]CategoryCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT category, COUNT(1) FROM screenshots
         WHERE category IS NOT NULL GROUP BY category ORDER BY COUNT(1) DESC`)
	if err != nil {
		return nil, fmt.Errorf("category counts: %w", err)
	}
	defer rows.Close()

	var counts []CategoryCount
	for rows.Next() {
		var cc CategoryCount
		var cat string
		if err := rows.Scan(&cat, &cc.Count); err != nil {
			return nil, err
		}
		cc.Category = category.Category(cat)
		counts = append(counts, cc)
	}
	return counts, rows.Err()
}

// LanguageCounts returns detected-language distribution.
func (s *Store) LanguageCounts(ctx context.Context) ([]LanguageCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT detected_language, COUNT(1) FROM screenshots
         WHERE detected_language IS NOT NULL GROUP BY detected_language`)
	if err != nil {
		return nil, fmt.Errorf("language counts: %w", err)
	}
	defer rows.Close()

	var counts []LanguageCount
	for rows.Next() {
		var lc LanguageCount
		if err := rows.Scan(&lc.Language, &lc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, lc)
	}
	return counts, rows.Err()
}

// ActivityByDay returns per-day discovery counts for the newest days,
// oldest first so graphs read chronologically.
func (s *Store) ActivityByDay(ctx context.Context, days int) ([]DayCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT strftime('%Y-%m-%d', datetime(created_at/1000, 'unixepoch', 'localtime')) AS day, COUNT(1)
         FROM screenshots GROUP BY day ORDER BY day DESC LIMIT ?`, days)
	if err != nil {
		return nil, fmt.Errorf("activity by day: %w", err)
	}
	defer rows.Close()

	var counts []DayCount
	for rows.Next() {
		var dc DayCount
		if err := rows.Scan(&dc.Date, &dc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, dc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	reverseDayCounts(counts)
	return counts, nil
}

// SpendByDay returns per-day amount totals for the newest days, oldest first.
func (s *Store) SpendByDay(ctx context.Context, days int) ([]DayTotal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT strftime('%Y-%m-%d', datetime(created_at/1000, 'unixepoch', 'localtime')) AS day, SUM(amount)
         FROM screenshots WHERE amount IS NOT NULL AND amount > 0
         GROUP BY day ORDER BY day DESC LIMIT ?`, days)
	if err != nil {
		return nil, fmt.Errorf("spend by day: %w", err)
	}
	defer rows.Close()

	var totals []DayTotal
	for rows.Next() {
		var dt DayTotal
		if err := rows.Scan(&dt.Date, &dt.Total); err != nil {
			return nil, err
		}
		totals = append(totals, dt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	reverseDayTotals(totals)
	return totals, nil
}

// ExpensesForMonth returns amount-bearing records created in the given
// YYYY-MM month, oldest first.
func (s *Store) ExpensesForMonth(ctx context.Context, yearMonth string) ([]*IndexedItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM screenshots
         WHERE amount IS NOT NULL
           AND strftime('%Y-%m', datetime(created_at/1000, 'unixepoch', 'localtime')) = ?
         ORDER BY created_at ASC`, yearMonth)
	if err != nil {
		return nil, fmt.Errorf("expenses for month: %w", err)
	}
	defer rows.Close()
	return collectItems(rows)
}

// ItemsWithHash returns every record carrying a perceptual hash, newest
// first, the order the duplicate clusterer expects.
func (s *Store) ItemsWithHash(ctx context.Context) ([]*IndexedItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM screenshots
         WHERE phash IS NOT NULL ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("items with hash: %w", err)
	}
	defer rows.Close()
	return collectItems(rows)
}

// NextAICategoryBackfill returns up to limit records that never saw the
// vision categorizer, excluding the video sentinel.
func (s *Store) NextAICategoryBackfill(ctx context.Context, limit int) ([]*IndexedItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM screenshots
         WHERE ai_processed_at IS NULL AND category != ?
         ORDER BY created_at ASC LIMIT ?`,
		string(category.Videos), limit)
	if err != nil {
		return nil, fmt.Errorf("ai category backfill candidates: %w", err)
	}
	defer rows.Close()
	return collectItems(rows)
}

// NextModelOCRBackfill returns up to limit non-video records whose text came
// from the local engine (or is missing) and that lack model-extracted text.
func (s *Store) NextModelOCRBackfill(ctx context.Context, limit int) ([]*IndexedItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM screenshots
         WHERE is_video = 0 AND ai_extracted_text IS NULL
           AND (ocr_method IS NULL OR ocr_method = ?)
         ORDER BY created_at ASC LIMIT ?`,
		string(OCRMethodLocal), limit)
	if err != nil {
		return nil, fmt.Errorf("model ocr backfill candidates: %w", err)
	}
	defer rows.Close()
	return collectItems(rows)
}

type rowsLike interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func collectItems(rows rowsLike) ([]*IndexedItem, error) {
	var items []*IndexedItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func reverseDayCounts(s []DayCount) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

func reverseDayTotals(s []DayTotal) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
