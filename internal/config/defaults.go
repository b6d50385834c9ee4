package config

const (
	defaultSourceDir            = "~/Pictures/Screenshots"
	defaultLogDir               = "~/.local/share/shotsort/logs"
	defaultDBPath               = "~/.local/share/shotsort/screenshots.db"
	defaultTesseract            = "tesseract"
	defaultOCRLanguage          = "eng"
	defaultVisionBaseURL        = "https://openrouter.ai/api/v1/chat/completions"
	defaultVisionModel          = "google/gemini-3-flash-preview"
	defaultVisionTimeoutSeconds = 60
	defaultMinModelTextLength   = 20
	defaultTargetLanguage       = "en"
	defaultFFmpeg               = "ffmpeg"
	defaultFFprobe              = "ffprobe"
	defaultFrameInterval        = 5
	defaultMaxFrames            = 10
	defaultScanInterval         = 60
	defaultBackfillLimit        = 3
	defaultNtfyRequestTimeout   = 10
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			SourceDir: defaultSourceDir,
			LogDir:    defaultLogDir,
			DBPath:    defaultDBPath,
		},
		Features: Features{
			AICategorization: false,
			AIOCR:            false,
			VideoAnalysis:    false,
			Translation:      false,
		},
		OCR: OCR{
			Tesseract: defaultTesseract,
			Language:  defaultOCRLanguage,
		},
		Vision: Vision{
			BaseURL:            defaultVisionBaseURL,
			Model:              defaultVisionModel,
			TimeoutSeconds:     defaultVisionTimeoutSeconds,
			MinModelTextLength: defaultMinModelTextLength,
		},
		Translation: Translation{
			TargetLanguage: defaultTargetLanguage,
		},
		Video: Video{
			FFmpeg:               defaultFFmpeg,
			FFprobe:              defaultFFprobe,
			FrameIntervalSeconds: defaultFrameInterval,
			MaxFrames:            defaultMaxFrames,
		},
		Workflow: Workflow{
			ScanInterval:    defaultScanInterval,
			BackfillEnabled: true,
			BackfillLimit:   defaultBackfillLimit,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNtfyRequestTimeout,
			Indexed:        false,
			CycleSummary:   false,
			Errors:         true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
