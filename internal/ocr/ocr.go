package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"strings"

	"shotsort/internal/config"
	"shotsort/internal/logging"
)

// reBoxNoise strips the box-drawing junk tesseract emits for UI chrome.
var reBoxNoise = regexp.MustCompile(`[|_¬~·]{2,}`)

// Engine wraps the tesseract binary.
type Engine struct {
	cfg    config.OCR
	runner Runner
	logger *slog.Logger
}

// NewEngine constructs the local recognition engine.
func NewEngine(cfg config.OCR, logger *slog.Logger) *Engine {
	return NewEngineWithRunner(cfg, ExecRunner{}, logger)
}

// NewEngineWithRunner allows injecting the subprocess runner (used in tests).
func NewEngineWithRunner(cfg config.OCR, runner Runner, logger *slog.Logger) *Engine {
	return &Engine{
		cfg:    cfg,
		runner: runner,
		logger: logging.NewComponentLogger(logger, "ocr"),
	}
}

// ExtractText preprocesses the image and runs tesseract over the result.
// The returned text is normalized; empty text with a nil error means the
// engine ran but recognized nothing.
func (e *Engine) ExtractText(ctx context.Context, imagePath string) (string, error) {
	tmpDir, err := os.MkdirTemp("", "shotsort-ocr-*")
	if err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	prepared, err := preprocess(imagePath, tmpDir)
	if err != nil {
		// A decode failure does not rule out recognition on the raw file;
		// tesseract handles some formats imaging does not.
		e.logger.Debug("preprocessing failed, using raw image", logging.Error(err))
		prepared = imagePath
	}

	args := []string{prepared, "stdout", "-l", e.cfg.Language}
	if e.cfg.PSM > 0 {
		args = append(args, "--psm", strconv.Itoa(e.cfg.PSM))
	}
	if e.cfg.OEM > 0 {
		args = append(args, "--oem", strconv.Itoa(e.cfg.OEM))
	}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}

	out, errOut, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w: %s", err, strings.TrimSpace(string(errOut)))
	}
	return Normalize(string(out)), nil
}

// Normalize collapses recognition output: strips box noise, trims each line,
// drops empty lines, joins with single newlines.
func Normalize(text string) string {
	text = reBoxNoise.ReplaceAllString(text, " ")
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
