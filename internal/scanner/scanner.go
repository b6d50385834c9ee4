// Package scanner discovers unindexed media files in the intake tree.
package scanner

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"shotsort/internal/category"
	"shotsort/internal/config"
	"shotsort/internal/logging"
	"shotsort/internal/services"
	"shotsort/internal/store"
)

var imageExtensions = map[string]struct{}{
	".jpg": {}, ".jpeg": {}, ".png": {}, ".webp": {},
}

var videoExtensions = map[string]struct{}{
	".mp4": {}, ".mov": {}, ".mkv": {}, ".webm": {}, ".3gp": {},
}

// Candidate is a discovered file that has no store record yet.
type Candidate struct {
	Filename  string
	Path      string
	IsVideo   bool
	CreatedAt int64 // epoch milliseconds, from file modification time
	// InDir is the category directory the file was found in, or empty
	// when it sits in the intake root.
	InDir category.Category
}

// IsImagePath reports whether the path has a supported image extension.
func IsImagePath(path string) bool {
	_, ok := imageExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// IsVideoPath reports whether the path has a supported video extension.
func IsVideoPath(path string) bool {
	_, ok := videoExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Scanner lists unindexed files across the intake root and every
// category directory.
type Scanner struct {
	cfg    *config.Config
	store  *store.Store
	logger *slog.Logger
}

// New builds a scanner over the configured intake tree.
func New(cfg *config.Config, s *store.Store, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Scanner{cfg: cfg, store: s, logger: logger}
}

// Scan returns candidates for every supported file whose name is absent
// from the store. Hidden files and unknown extensions are skipped.
// Candidates in the intake root come first, then category directories in
// declaration order.
func (s *Scanner) Scan(ctx context.Context) ([]Candidate, error) {
	var candidates []Candidate

	root, err := s.scanDir(ctx, s.cfg.Paths.SourceDir, "")
	if err != nil {
		return nil, err
	}
	candidates = append(candidates, root...)

	for _, cat := range category.Directories() {
		dir := s.cfg.CategoryDir(cat)
		found, err := s.scanDir(ctx, dir, cat)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, found...)
	}
	return candidates, nil
}

func (s *Scanner) scanDir(ctx context.Context, dir string, inDir category.Category) ([]Candidate, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, services.Wrap(services.ErrUnavailable, services.StageDiscovery, "scan", "read directory "+dir, err)
	}

	var candidates []Candidate
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		isVideo := IsVideoPath(entry.Name())
		if !isVideo && !IsImagePath(entry.Name()) {
			continue
		}

		existing, err := s.store.GetByFilename(ctx, entry.Name())
		if err != nil {
			return nil, err
		}
		if existing != nil {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			s.logger.Warn("stat failed during scan",
				logging.String("file", entry.Name()), logging.Error(err))
			continue
		}
		candidates = append(candidates, Candidate{
			Filename:  entry.Name(),
			Path:      filepath.Join(dir, entry.Name()),
			IsVideo:   isVideo,
			CreatedAt: info.ModTime().UnixMilli(),
			InDir:     inDir,
		})
	}
	return candidates, nil
}
