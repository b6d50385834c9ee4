package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"shotsort/internal/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "[paths]\nsource_dir = \""+t.TempDir()+"\"\n")

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists || resolved == "" {
		t.Fatalf("expected existing config at %q", resolved)
	}
	if cfg.Workflow.ScanInterval != 60 {
		t.Fatalf("expected default scan interval 60, got %d", cfg.Workflow.ScanInterval)
	}
	if cfg.Vision.MinModelTextLength != 20 {
		t.Fatalf("expected default min model text length 20, got %d", cfg.Vision.MinModelTextLength)
	}
	if cfg.OCR.Tesseract != "tesseract" {
		t.Fatalf("expected tesseract default, got %q", cfg.OCR.Tesseract)
	}
}

func TestLoadExpandsTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}
	path := writeConfig(t, "[paths]\nsource_dir = \"~/shots\"\n")
	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !strings.HasPrefix(cfg.Paths.SourceDir, home) {
		t.Fatalf("expected expanded path under %q, got %q", home, cfg.Paths.SourceDir)
	}
}

func TestVideoAnalysisRequiresAICategorization(t *testing.T) {
	path := writeConfig(t, `
[features]
video_analysis = true
ai_ocr = false
`)
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected validation error for video_analysis without ai_categorization")
	}
}

func TestAIFeaturesRequireAPIKey(t *testing.T) {
	t.Setenv("SHOTSORT_VISION_API_KEY", "")
	path := writeConfig(t, `
[features]
ai_categorization = true
`)
	_, _, _, err := config.Load(path)
	if err == nil || !strings.Contains(err.Error(), "vision.api_key") {
		t.Fatalf("expected vision.api_key error, got %v", err)
	}
}

func TestAPIKeyFromEnvironment(t *testing.T) {
	t.Setenv("SHOTSORT_VISION_API_KEY", "test-key")
	path := writeConfig(t, `
[features]
ai_categorization = true
`)
	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Vision.APIKey != "test-key" {
		t.Fatalf("expected env key, got %q", cfg.Vision.APIKey)
	}
}

func TestInvalidTargetLanguageRejected(t *testing.T) {
	t.Setenv("SHOTSORT_VISION_API_KEY", "test-key")
	path := writeConfig(t, `
[features]
translation = true

[translation]
target_language = "not a tag!"
`)
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected error for invalid language tag")
	}
}

func TestEnsureDirectoriesCreatesCategoryTree(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.SourceDir = filepath.Join(base, "shots")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.DBPath = filepath.Join(base, "db", "screenshots.db")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, dir := range []string{"Finance", "Unsorted", "Videos"} {
		if _, err := os.Stat(filepath.Join(cfg.Paths.SourceDir, dir)); err != nil {
			t.Fatalf("expected %s directory: %v", dir, err)
		}
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("sample config should load cleanly: %v", err)
	}
}
