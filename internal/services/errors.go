package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrExternalTool marks failures of subprocess tools (tesseract, ffmpeg).
	ErrExternalTool = errors.New("external tool error")
	// ErrValidation marks inputs that can never succeed without operator action.
	ErrValidation = errors.New("validation error")
	// ErrConfiguration marks misconfiguration discovered at runtime.
	ErrConfiguration = errors.New("configuration error")
	// ErrNotFound marks files or records that have gone missing.
	ErrNotFound = errors.New("not found")
	// ErrUnavailable marks optional dependencies that are disabled or absent.
	ErrUnavailable = errors.New("service unavailable")
	// ErrTransient marks failures expected to succeed on a later cycle.
	ErrTransient = errors.New("transient failure")
)

// Stage names used when wrapping pipeline errors.
const (
	StageDiscovery      = "discovery"
	StageExtraction     = "extraction"
	StageClassification = "classification"
	StageAnalysis       = "analysis"
	StageRelocation     = "relocation"
	StagePersistence    = "persistence"
	StageBackfill       = "backfill"
)

// Wrap builds an error that carries stage context while tagging it with the
// provided marker for later classification. The marker should be one of the
// exported sentinel errors above; nil defaults to ErrTransient.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Retryable reports whether the error should leave the item eligible for the
// next cycle. Validation and configuration failures need intervention first.
func Retryable(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, ErrValidation), errors.Is(err, ErrConfiguration):
		return false
	default:
		return true
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
