package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"shotsort/internal/testsupport"
)

func writeTestConfig(t *testing.T) (configPath, sourceDir string) {
	t.Helper()

	base := t.TempDir()
	sourceDir = filepath.Join(base, "screenshots")
	content := fmt.Sprintf(`[paths]
source_dir = %q
log_dir = %q
db_path = %q

[logging]
level = "error"
`, sourceDir, filepath.Join(base, "logs"), filepath.Join(base, "screenshots.db"))

	configPath = filepath.Join(base, "config.toml")
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return configPath, sourceDir
}

func runCLI(t *testing.T, configPath string, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(append([]string{"--config", configPath}, args...))
	err := cmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	out, err := runCLI(t, "", "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, "Wrote sample configuration") {
		t.Fatalf("unexpected output: %q", out)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}
}

func TestConfigInitRefusesToOverwrite(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(target, []byte("# existing"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := runCLI(t, "", "config", "init", "--path", target)
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("expected overwrite refusal, got %v", err)
	}
}

func TestStatusJSONOnEmptyIndex(t *testing.T) {
	configPath, _ := writeTestConfig(t)

	out, err := runCLI(t, configPath, "status", "--json")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	var stats struct {
		TotalPhotos int `json:"total_photos"`
	}
	if err := json.Unmarshal([]byte(out), &stats); err != nil {
		t.Fatalf("decode status output %q: %v", out, err)
	}
	if stats.TotalPhotos != 0 {
		t.Fatalf("expected empty index, got %d", stats.TotalPhotos)
	}
}

func TestSearchReportsNoMatches(t *testing.T) {
	configPath, _ := writeTestConfig(t)

	out, err := runCLI(t, configPath, "search", "invoice")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if !strings.Contains(out, "No matches") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestScanIndexesNewFile(t *testing.T) {
	configPath, sourceDir := writeTestConfig(t)
	if err := os.MkdirAll(sourceDir, 0o755); err != nil {
		t.Fatal(err)
	}
	testsupport.WritePNG(t, sourceDir, "capture.png", 7)

	out, err := runCLI(t, configPath, "scan")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if !strings.Contains(out, "indexed 1") {
		t.Fatalf("unexpected output: %q", out)
	}

	// Second scan must be a no-op.
	out, err = runCLI(t, configPath, "scan")
	if err != nil {
		t.Fatalf("second scan: %v", err)
	}
	if !strings.Contains(out, "Discovered 0") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestBridgeDashboardDataShape(t *testing.T) {
	configPath, _ := writeTestConfig(t)

	out, err := runCLI(t, configPath, "bridge", "dashboard-data")
	if err != nil {
		t.Fatalf("bridge dashboard-data: %v", err)
	}
	var payload map[string]json.RawMessage
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode output %q: %v", out, err)
	}
	for _, key := range []string{"activity", "finance", "categories", "languages", "recent"} {
		if _, ok := payload[key]; !ok {
			t.Fatalf("missing %q in dashboard data", key)
		}
	}
}
