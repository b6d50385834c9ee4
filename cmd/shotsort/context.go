package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"shotsort/internal/config"
	"shotsort/internal/extraction"
	"shotsort/internal/ocr"
	"shotsort/internal/organizer"
	"shotsort/internal/pipeline"
	"shotsort/internal/scanner"
	"shotsort/internal/store"
	"shotsort/internal/translate"
	"shotsort/internal/video"
	"shotsort/internal/vision"
	"shotsort/internal/workflow"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// buildManager wires the full processing stack behind the polling loop.
// The vision client is constructed even without an API key; Available
// gates every call so disabled enrichments degrade to the local path.
func buildManager(cfg *config.Config, st *store.Store, logger *slog.Logger) *workflow.Manager {
	visionClient := vision.NewClient(vision.Config{
		APIKey:         cfg.Vision.APIKey,
		BaseURL:        cfg.Vision.BaseURL,
		Model:          cfg.Vision.Model,
		TimeoutSeconds: cfg.Vision.TimeoutSeconds,
	})
	localOCR := ocr.NewEngine(cfg.OCR, logger)
	extractor := extraction.New(cfg, visionClient, localOCR, logger)
	languages := translate.New(cfg, visionClient, logger)
	videos := video.NewSampler(cfg, video.ExecRunner{}, visionClient, logger)
	relocator := organizer.New(cfg, logger)
	processor := pipeline.NewProcessor(cfg, st, extractor, visionClient, languages, videos, relocator, logger)
	sc := scanner.New(cfg, st, logger)
	return workflow.NewManager(cfg, sc, processor, logger)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
