package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"shotsort/internal/category"
	"shotsort/internal/config"
)

// Store manages screenshot persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the screenshots database and applies the
// additive schema evolution.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	db, err := sql.Open("sqlite", cfg.Paths.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: cfg.Paths.DBPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Insert creates the record for a newly discovered file. The filename must
// not already exist; discovery guarantees this by checking GetByFilename
// first, and the unique constraint backs it up.
func (s *Store) Insert(ctx context.Context, item *IndexedItem) error {
	if item == nil {
		return errors.New("item is nil")
	}
	if item.Filename == "" {
		return errors.New("filename is required")
	}

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO screenshots (
            filename, path, category, text, amount, created_at, processed_at,
            ai_category, ai_summary, ai_processed_at,
            detected_language, translated_text,
            is_video, video_frames_analyzed, video_objects,
            ocr_method, ai_extracted_text, phash
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.Filename,
		nullableString(item.Path),
		nullableString(string(item.Category)),
		nullableString(item.ExtractedText),
		item.Amount,
		item.CreatedAt,
		item.ProcessedAt,
		nullableString(string(item.AICategory)),
		nullableString(item.AISummary),
		item.AIProcessedAt,
		nullableString(item.DetectedLanguage),
		nullableString(item.TranslatedText),
		boolToInt(item.IsVideo),
		item.VideoFramesAnalyzed,
		nullableString(item.VideoObjects),
		nullableString(string(item.OCRMethod)),
		nullableString(item.AIExtractedText),
		nullableString(item.PHash),
	)
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	item.ID = id
	return nil
}

// GetByFilename fetches a record by its unique filename; nil when absent.
func (s *Store) GetByFilename(ctx context.Context, filename string) (*IndexedItem, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM screenshots WHERE filename = ?`, filename)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get by filename: %w", err)
	}
	return item, nil
}

// Update persists changes to an existing record, matched by ID.
func (s *Store) Update(ctx context.Context, item *IndexedItem) error {
	if item == nil {
		return errors.New("item is nil")
	}
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE screenshots
         SET filename = ?, path = ?, category = ?, text = ?, amount = ?,
             created_at = ?, processed_at = ?,
             ai_category = ?, ai_summary = ?, ai_processed_at = ?,
             detected_language = ?, translated_text = ?,
             is_video = ?, video_frames_analyzed = ?, video_objects = ?,
             ocr_method = ?, ai_extracted_text = ?, phash = ?
         WHERE id = ?`,
		item.Filename,
		nullableString(item.Path),
		nullableString(string(item.Category)),
		nullableString(item.ExtractedText),
		item.Amount,
		item.CreatedAt,
		item.ProcessedAt,
		nullableString(string(item.AICategory)),
		nullableString(item.AISummary),
		item.AIProcessedAt,
		nullableString(item.DetectedLanguage),
		nullableString(item.TranslatedText),
		boolToInt(item.IsVideo),
		item.VideoFramesAnalyzed,
		nullableString(item.VideoObjects),
		nullableString(string(item.OCRMethod)),
		nullableString(item.AIExtractedText),
		nullableString(item.PHash),
		item.ID,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

// Delete removes a record by filename. Returns false when nothing matched.
func (s *Store) Delete(ctx context.Context, filename string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM screenshots WHERE filename = ?`, filename)
	if err != nil {
		return false, fmt.Errorf("delete item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

const itemColumns = "id, filename, path, category, text, amount, created_at, processed_at, " +
	"ai_category, ai_summary, ai_processed_at, detected_language, translated_text, " +
	"is_video, video_frames_analyzed, video_objects, ocr_method, ai_extracted_text, phash"

func scanItem(scanner interface{ Scan(dest ...any) error }) (*IndexedItem, error) {
	var (
		id               int64
		filename         string
		path             sql.NullString
		categoryStr      sql.NullString
		text             sql.NullString
		amountVal        sql.NullFloat64
		createdAt        sql.NullInt64
		processedAt      sql.NullInt64
		aiCategory       sql.NullString
		aiSummary        sql.NullString
		aiProcessedAt    sql.NullInt64
		detectedLanguage sql.NullString
		translatedText   sql.NullString
		isVideo          sql.NullInt64
		framesAnalyzed   sql.NullInt64
		videoObjects     sql.NullString
		ocrMethod        sql.NullString
		aiExtractedText  sql.NullString
		phash            sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&filename,
		&path,
		&categoryStr,
		&text,
		&amountVal,
		&createdAt,
		&processedAt,
		&aiCategory,
		&aiSummary,
		&aiProcessedAt,
		&detectedLanguage,
		&translatedText,
		&isVideo,
		&framesAnalyzed,
		&videoObjects,
		&ocrMethod,
		&aiExtractedText,
		&phash,
	); err != nil {
		return nil, err
	}

	item := &IndexedItem{
		ID:                  id,
		Filename:            filename,
		Path:                path.String,
		Category:            category.Category(categoryStr.String),
		ExtractedText:       text.String,
		CreatedAt:           createdAt.Int64,
		ProcessedAt:         processedAt.Int64,
		AICategory:          category.Category(aiCategory.String),
		AISummary:           aiSummary.String,
		DetectedLanguage:    detectedLanguage.String,
		TranslatedText:      translatedText.String,
		IsVideo:             isVideo.Int64 != 0,
		VideoFramesAnalyzed: int(framesAnalyzed.Int64),
		VideoObjects:        videoObjects.String,
		OCRMethod:           OCRMethod(ocrMethod.String),
		AIExtractedText:     aiExtractedText.String,
		PHash:               phash.String,
	}
	if amountVal.Valid {
		v := amountVal.Float64
		item.Amount = &v
	}
	if aiProcessedAt.Valid {
		v := aiProcessedAt.Int64
		item.AIProcessedAt = &v
	}
	return item, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
