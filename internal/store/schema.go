package store

import (
	"context"
	"fmt"
)

// baseSchema is the original table shape. Later columns are added by
// ensureColumns so databases created by any earlier version upgrade in place.
const baseSchema = `
CREATE TABLE IF NOT EXISTS screenshots (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    filename TEXT UNIQUE NOT NULL,
    path TEXT,
    category TEXT,
    text TEXT,
    amount REAL,
    created_at INTEGER,
    processed_at INTEGER
);
CREATE INDEX IF NOT EXISTS idx_screenshots_category ON screenshots(category);
CREATE INDEX IF NOT EXISTS idx_screenshots_created_at ON screenshots(created_at);
`

// evolutionColumns lists every column added after the base schema, in the
// order they were introduced. Adding one that already exists is a no-op.
var evolutionColumns = []struct {
	name string
	decl string
}{
	{"ai_category", "TEXT"},
	{"ai_summary", "TEXT"},
	{"ai_processed_at", "INTEGER"},
	{"detected_language", "TEXT"},
	{"translated_text", "TEXT"},
	{"is_video", "INTEGER DEFAULT 0"},
	{"video_frames_analyzed", "INTEGER DEFAULT 0"},
	{"video_objects", "TEXT"},
	{"ocr_method", "TEXT"},
	{"ai_extracted_text", "TEXT"},
	{"phash", "TEXT"},
}

func (s *Store) initSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, baseSchema); err != nil {
		return fmt.Errorf("create base schema: %w", err)
	}

	existing, err := s.tableColumns(ctx, "screenshots")
	if err != nil {
		return err
	}
	for _, col := range evolutionColumns {
		if _, ok := existing[col.name]; ok {
			continue
		}
		stmt := fmt.Sprintf("ALTER TABLE screenshots ADD COLUMN %s %s", col.name, col.decl)
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("add column %s: %w", col.name, err)
		}
	}
	return nil
}

func (s *Store) tableColumns(ctx context.Context, table string) (map[string]struct{}, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return nil, fmt.Errorf("table info: %w", err)
	}
	defer rows.Close()

	columns := make(map[string]struct{})
	for rows.Next() {
		var (
			cid     int
			name    string
			typeStr string
			notNull int
			dflt    any
			pk      int
		)
		if err := rows.Scan(&cid, &name, &typeStr, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("scan table info: %w", err)
		}
		columns[name] = struct{}{}
	}
	return columns, rows.Err()
}
