// Package video samples frames from screen recordings with ffmpeg and
// aggregates per-frame vision analysis into one result per video.
package video

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"shotsort/internal/category"
	"shotsort/internal/config"
	"shotsort/internal/logging"
	"shotsort/internal/vision"
)

// Runner executes an external decoder and returns its output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

// Analyzer classifies and describes extracted frames.
type Analyzer interface {
	Available() bool
	Categorize(ctx context.Context, imagePath string) (vision.Categorization, error)
	DescribeObjects(ctx context.Context, imagePath string) (string, error)
}

// Frame is the analysis of a single sampled frame.
type Frame struct {
	Category category.Category
	Summary  string
	Objects  string
}

// Analysis is the aggregate over all sampled frames of one video.
type Analysis struct {
	Category       category.Category
	Summary        string
	Objects        string
	FramesAnalyzed int
}

// Sampler extracts frames at a fixed interval and runs the analyzer over
// each one.
type Sampler struct {
	ffmpeg   string
	ffprobe  string
	interval float64
	maxCap   int
	runner   Runner
	analyzer Analyzer
	logger   *slog.Logger
}

// NewSampler builds a sampler using the configured ffmpeg/ffprobe binaries.
func NewSampler(cfg *config.Config, runner Runner, analyzer Analyzer, logger *slog.Logger) *Sampler {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Sampler{
		ffmpeg:   cfg.Video.FFmpeg,
		ffprobe:  cfg.Video.FFprobe,
		interval: float64(cfg.Video.FrameIntervalSeconds),
		maxCap:   cfg.Video.MaxFrames,
		runner:   runner,
		analyzer: analyzer,
		logger:   logger,
	}
}

// Duration probes the video's length in seconds.
func (s *Sampler) Duration(ctx context.Context, path string) (float64, error) {
	stdout, stderr, err := s.runner.Run(ctx, s.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path)
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w (stderr: %s)", path, err, strings.TrimSpace(string(stderr)))
	}
	raw := strings.TrimSpace(string(stdout))
	seconds, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: parse duration %q: %w", path, raw, err)
	}
	return seconds, nil
}

// sampleTimes returns the timestamps {0, interval, 2*interval, ...}
// bounded by the duration and the frame cap.
func (s *Sampler) sampleTimes(duration float64) []float64 {
	interval := s.interval
	if interval <= 0 {
		interval = 5
	}
	var times []float64
	for t := 0.0; t < duration || len(times) == 0; t += interval {
		times = append(times, t)
		if s.maxCap > 0 && len(times) >= s.maxCap {
			break
		}
		if t+interval >= duration {
			break
		}
	}
	return times
}

// extractFrame decodes the frame at the given timestamp into outPath.
func (s *Sampler) extractFrame(ctx context.Context, path string, at float64, outPath string) error {
	_, stderr, err := s.runner.Run(ctx, s.ffmpeg,
		"-y", "-v", "error",
		"-ss", strconv.FormatFloat(at, 'f', 2, 64),
		"-i", path,
		"-frames:v", "1",
		outPath)
	if err != nil {
		return fmt.Errorf("ffmpeg %s at %.2fs: %w (stderr: %s)", path, at, err, strings.TrimSpace(string(stderr)))
	}
	if _, statErr := os.Stat(outPath); statErr != nil {
		return fmt.Errorf("ffmpeg %s at %.2fs: no frame written", path, at)
	}
	return nil
}

// Analyze samples frames from the video and aggregates the per-frame
// results. A video that yields no analyzable frames keeps the sentinel
// category and a zero frame count.
func (s *Sampler) Analyze(ctx context.Context, path string) (Analysis, error) {
	result := Analysis{Category: category.Videos}
	if s.analyzer == nil || !s.analyzer.Available() {
		return result, nil
	}

	duration, err := s.Duration(ctx, path)
	if err != nil {
		return result, err
	}

	tempDir, err := os.MkdirTemp("", "shotsort-frames-")
	if err != nil {
		return result, fmt.Errorf("video analyze: temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	var frames []Frame
	for i, at := range s.sampleTimes(duration) {
		framePath := filepath.Join(tempDir, fmt.Sprintf("frame-%03d.jpg", i))
		if err := s.extractFrame(ctx, path, at, framePath); err != nil {
			s.logger.Warn("frame extraction failed", logging.Error(err))
			continue
		}
		frame, err := s.analyzeFrame(ctx, framePath)
		if err != nil {
			s.logger.Warn("frame analysis failed",
				logging.String("video", path), logging.Error(err))
			continue
		}
		frames = append(frames, frame)
	}
	return Aggregate(frames), nil
}

func (s *Sampler) analyzeFrame(ctx context.Context, framePath string) (Frame, error) {
	var frame Frame
	categorization, err := s.analyzer.Categorize(ctx, framePath)
	if err != nil {
		return frame, err
	}
	frame.Category = categorization.Category
	frame.Summary = categorization.Summary

	objects, err := s.analyzer.DescribeObjects(ctx, framePath)
	if err == nil {
		frame.Objects = strings.TrimSpace(objects)
	}
	return frame, nil
}

// Aggregate folds per-frame results into a single analysis: the most
// frequent frame category wins with ties broken by first appearance, the
// summary comes from the first frame, and object lists concatenate in
// frame order.
func Aggregate(frames []Frame) Analysis {
	result := Analysis{Category: category.Videos}
	if len(frames) == 0 {
		return result
	}
	result.FramesAnalyzed = len(frames)
	result.Summary = frames[0].Summary

	counts := make(map[category.Category]int)
	var order []category.Category
	var objects []string
	for _, frame := range frames {
		if _, seen := counts[frame.Category]; !seen {
			order = append(order, frame.Category)
		}
		counts[frame.Category]++
		if frame.Objects != "" {
			objects = append(objects, frame.Objects)
		}
	}

	best := order[0]
	for _, cat := range order {
		if counts[cat] > counts[best] {
			best = cat
		}
	}
	result.Category = best
	result.Objects = strings.Join(objects, "; ")
	return result
}
