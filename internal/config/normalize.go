package config

import "strings"

func (c *Config) normalize() error {
	for _, field := range []*string{&c.Paths.SourceDir, &c.Paths.LogDir, &c.Paths.DBPath} {
		expanded, err := expandPath(strings.TrimSpace(*field))
		if err != nil {
			return err
		}
		*field = expanded
	}

	c.OCR.Tesseract = strings.TrimSpace(c.OCR.Tesseract)
	if c.OCR.Tesseract == "" {
		c.OCR.Tesseract = defaultTesseract
	}
	c.OCR.Language = strings.TrimSpace(c.OCR.Language)
	if c.OCR.Language == "" {
		c.OCR.Language = defaultOCRLanguage
	}

	c.Vision.APIKey = strings.TrimSpace(c.Vision.APIKey)
	if c.Vision.APIKey == "" {
		c.Vision.APIKey = strings.TrimSpace(envOrEmpty("SHOTSORT_VISION_API_KEY"))
	}
	c.Vision.BaseURL = strings.TrimSpace(c.Vision.BaseURL)
	if c.Vision.BaseURL == "" {
		c.Vision.BaseURL = defaultVisionBaseURL
	}
	c.Vision.Model = strings.TrimSpace(c.Vision.Model)
	if c.Vision.Model == "" {
		c.Vision.Model = defaultVisionModel
	}
	if c.Vision.TimeoutSeconds <= 0 {
		c.Vision.TimeoutSeconds = defaultVisionTimeoutSeconds
	}
	if c.Vision.MinModelTextLength <= 0 {
		c.Vision.MinModelTextLength = defaultMinModelTextLength
	}

	c.Translation.TargetLanguage = strings.ToLower(strings.TrimSpace(c.Translation.TargetLanguage))
	if c.Translation.TargetLanguage == "" {
		c.Translation.TargetLanguage = defaultTargetLanguage
	}

	c.Video.FFmpeg = strings.TrimSpace(c.Video.FFmpeg)
	if c.Video.FFmpeg == "" {
		c.Video.FFmpeg = defaultFFmpeg
	}
	c.Video.FFprobe = strings.TrimSpace(c.Video.FFprobe)
	if c.Video.FFprobe == "" {
		c.Video.FFprobe = defaultFFprobe
	}
	if c.Video.FrameIntervalSeconds <= 0 {
		c.Video.FrameIntervalSeconds = defaultFrameInterval
	}
	if c.Video.MaxFrames <= 0 {
		c.Video.MaxFrames = defaultMaxFrames
	}

	if c.Workflow.ScanInterval <= 0 {
		c.Workflow.ScanInterval = defaultScanInterval
	}
	if c.Workflow.BackfillLimit <= 0 {
		c.Workflow.BackfillLimit = defaultBackfillLimit
	}

	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNtfyRequestTimeout
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}

	return nil
}
