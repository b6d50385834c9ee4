package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"shotsort/internal/category"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and database location configuration.
type Paths struct {
	SourceDir string `toml:"source_dir"`
	LogDir    string `toml:"log_dir"`
	DBPath    string `toml:"db_path"`
}

// Features holds the optional-enrichment toggles.
type Features struct {
	AICategorization bool `toml:"ai_categorization"`
	AIOCR            bool `toml:"ai_ocr"`
	VideoAnalysis    bool `toml:"video_analysis"`
	Translation      bool `toml:"translation"`
}

// OCR contains configuration for the local recognition engine.
type OCR struct {
	Tesseract   string `toml:"tesseract"`
	Language    string `toml:"language"`
	PSM         int    `toml:"psm"`
	OEM         int    `toml:"oem"`
	TessdataDir string `toml:"tessdata_dir"`
}

// Vision contains connection settings for the vision-language model.
type Vision struct {
	APIKey             string `toml:"api_key"`
	BaseURL            string `toml:"base_url"`
	Model              string `toml:"model"`
	TimeoutSeconds     int    `toml:"timeout_seconds"`
	MinModelTextLength int    `toml:"min_model_text_length"`
}

// Translation configures the target language for translated text.
type Translation struct {
	TargetLanguage string `toml:"target_language"`
}

// Video contains frame-sampling settings.
type Video struct {
	FFmpeg               string `toml:"ffmpeg"`
	FFprobe              string `toml:"ffprobe"`
	FrameIntervalSeconds int    `toml:"frame_interval_seconds"`
	MaxFrames            int    `toml:"max_frames"`
}

// Workflow contains polling-loop timing and backfill bounds.
type Workflow struct {
	ScanInterval    int  `toml:"scan_interval"`
	BackfillEnabled bool `toml:"backfill_enabled"`
	BackfillLimit   int  `toml:"backfill_limit"`
}

// Notifications contains ntfy push notification settings.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
	Indexed        bool   `toml:"indexed"`
	CycleSummary   bool   `toml:"cycle_summary"`
	Errors         bool   `toml:"errors"`
}

// Logging contains log output configuration.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for shotsort.
type Config struct {
	Paths         Paths         `toml:"paths"`
	Features      Features      `toml:"features"`
	OCR           OCR           `toml:"ocr"`
	Vision        Vision        `toml:"vision"`
	Translation   Translation   `toml:"translation"`
	Video         Video         `toml:"video"`
	Workflow      Workflow      `toml:"workflow"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/shotsort/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The second return is
// the resolved path, the third reports whether the file existed.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("shotsort.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// EnsureDirectories creates the intake root, every category directory, both
// sentinel directories, and the log directory.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.SourceDir, c.Paths.LogDir}
	for _, name := range category.Directories() {
		dirs = append(dirs, filepath.Join(c.Paths.SourceDir, string(name)))
	}
	if dbDir := filepath.Dir(c.Paths.DBPath); dbDir != "" && dbDir != "." {
		dirs = append(dirs, dbDir)
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// CategoryDir returns the absolute directory for a category.
func (c *Config) CategoryDir(cat category.Category) string {
	return filepath.Join(c.Paths.SourceDir, string(cat))
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}
