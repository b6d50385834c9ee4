// Package organizer relocates newly classified files into their category
// directories.
package organizer

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"shotsort/internal/category"
	"shotsort/internal/config"
	"shotsort/internal/fileutil"
	"shotsort/internal/logging"
	"shotsort/internal/services"
)

// Relocator moves files into <root>/<category>/ with collision-safe names.
type Relocator struct {
	cfg    *config.Config
	logger *slog.Logger
	now    func() time.Time
}

// New builds a relocator rooted at the configured intake directory.
func New(cfg *config.Config, logger *slog.Logger) *Relocator {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Relocator{cfg: cfg, logger: logger, now: time.Now}
}

// ShouldMove reports whether a file found in fromDir (empty for the
// intake root) must be physically relocated for the effective category.
// Files already inside a concrete category directory stay put even when
// the stored category changes.
func ShouldMove(fromDir, effective category.Category) bool {
	if fromDir == "" {
		return true
	}
	return fromDir == category.Unsorted && effective != category.Unsorted
}

// Relocate moves the file at path into the effective category's
// directory and returns the final path and filename. When the
// destination name is taken, the epoch second is suffixed before the
// extension, with a counter to break same-second collisions.
func (r *Relocator) Relocate(path string, effective category.Category) (string, string, error) {
	destDir := r.cfg.CategoryDir(effective)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", "", services.Wrap(services.ErrUnavailable, services.StageRelocation, "relocate", "create category directory", err)
	}

	filename := filepath.Base(path)
	dest := filepath.Join(destDir, filename)
	if _, err := os.Stat(dest); err == nil {
		filename = r.collisionName(destDir, filename)
		dest = filepath.Join(destDir, filename)
		r.logger.Debug("destination name taken, using suffixed name",
			logging.String("file", filepath.Base(path)),
			logging.String("renamed", filename))
	}

	if err := fileutil.MoveFile(path, dest); err != nil {
		return "", "", services.Wrap(services.ErrUnavailable, services.StageRelocation, "relocate", "move "+filename, err)
	}
	return dest, filename, nil
}

// collisionName appends the current epoch second before the extension,
// then an incrementing counter until the name is free.
func (r *Relocator) collisionName(destDir, filename string) string {
	ext := filepath.Ext(filename)
	stem := strings.TrimSuffix(filename, ext)
	epoch := r.now().Unix()

	candidate := fmt.Sprintf("%s_%d%s", stem, epoch, ext)
	for n := 1; ; n++ {
		if _, err := os.Stat(filepath.Join(destDir, candidate)); os.IsNotExist(err) {
			return candidate
		}
		candidate = fmt.Sprintf("%s_%d-%d%s", stem, epoch, n, ext)
	}
}
