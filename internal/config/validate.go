package config

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/text/language"
)

func envOrEmpty(key string) string {
	return os.Getenv(key)
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateFeatures(); err != nil {
		return err
	}
	if err := c.validateVision(); err != nil {
		return err
	}
	if err := c.validateTranslation(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.SourceDir == "" {
		return errors.New("paths.source_dir must be set")
	}
	if c.Paths.DBPath == "" {
		return errors.New("paths.db_path must be set")
	}
	return nil
}

func (c *Config) validateFeatures() error {
	// Frame-level analysis is nothing but model categorization per frame.
	if c.Features.VideoAnalysis && !c.Features.AICategorization {
		return errors.New("features.video_analysis requires features.ai_categorization")
	}
	return nil
}

func (c *Config) validateVision() error {
	needsVision := c.Features.AICategorization || c.Features.AIOCR || c.Features.Translation
	if !needsVision {
		return nil
	}
	if c.Vision.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/shotsort/config.toml"
		}
		return fmt.Errorf("vision.api_key is required when AI features are enabled. Set SHOTSORT_VISION_API_KEY or edit %s (create with 'shotsort config init')", defaultPath)
	}
	if c.Vision.Model == "" {
		return errors.New("vision.model must be set")
	}
	return nil
}

func (c *Config) validateTranslation() error {
	if !c.Features.Translation {
		return nil
	}
	if _, err := language.Parse(c.Translation.TargetLanguage); err != nil {
		return fmt.Errorf("translation.target_language %q is not a valid language tag: %w", c.Translation.TargetLanguage, err)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
