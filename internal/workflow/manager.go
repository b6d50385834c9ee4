// Package workflow coordinates the polling loop that discovers,
// processes, and backfills screenshots.
package workflow

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"shotsort/internal/config"
	"shotsort/internal/logging"
	"shotsort/internal/notifications"
	"shotsort/internal/pipeline"
	"shotsort/internal/scanner"
	"shotsort/internal/services"
)

// Clock abstracts time for the loop so tests can drive cycles directly.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// CycleResult summarizes one pass of the loop.
type CycleResult struct {
	Discovered int
	Indexed    int
	Failed     int
	Backfilled int
	Duration   time.Duration
}

// Manager runs the single-threaded scan/process/backfill loop. All
// per-file work is synchronous; cancellation is observed between files,
// at the top of the loop, and during the sleep.
type Manager struct {
	cfg       *config.Config
	scanner   *scanner.Scanner
	processor *pipeline.Processor
	notifier  notifications.Service
	logger    *slog.Logger
	clock     Clock
	interval  time.Duration

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// ManagerOption configures optional Manager behavior.
type ManagerOption func(*Manager)

// WithClock overrides the loop clock (used in tests).
func WithClock(clock Clock) ManagerOption {
	return func(m *Manager) {
		if clock != nil {
			m.clock = clock
		}
	}
}

// WithNotifier overrides the notification service.
func WithNotifier(notifier notifications.Service) ManagerOption {
	return func(m *Manager) {
		if notifier != nil {
			m.notifier = notifier
		}
	}
}

// NewManager constructs the workflow manager.
func NewManager(cfg *config.Config, sc *scanner.Scanner, processor *pipeline.Processor, logger *slog.Logger, opts ...ManagerOption) *Manager {
	if logger == nil {
		logger = logging.NewNop()
	}
	m := &Manager{
		cfg:       cfg,
		scanner:   sc,
		processor: processor,
		notifier:  notifications.NewService(cfg),
		logger:    logger,
		clock:     realClock{},
		interval:  time.Duration(cfg.Workflow.ScanInterval) * time.Second,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start begins background processing.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return errors.New("workflow already running")
	}
	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.running = true
	m.wg.Add(1)
	m.mu.Unlock()

	go m.run(runCtx)
	return nil
}

// Stop terminates background processing and waits for completion.
func (m *Manager) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	cancel := m.cancel
	m.running = false
	m.cancel = nil
	m.mu.Unlock()

	cancel()
	m.wg.Wait()
}

func (m *Manager) run(ctx context.Context) {
	defer m.wg.Done()
	m.logger.Info("workflow started",
		logging.Duration("scan_interval", m.interval))

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("workflow stopped")
			return
		default:
		}

		result, err := m.RunCycle(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				m.logger.Info("workflow stopped")
				return
			}
			m.logger.Error("scan cycle failed", logging.Error(err))
			if notifyErr := m.notifier.NotifyError(ctx, err, "scan cycle"); notifyErr != nil {
				m.logger.Warn("error notification failed", logging.Error(notifyErr))
			}
		} else if result.Indexed > 0 || result.Failed > 0 || result.Backfilled > 0 {
			if notifyErr := m.notifier.NotifyCycleCompleted(ctx, result.Indexed, result.Failed, result.Backfilled, result.Duration); notifyErr != nil {
				m.logger.Warn("cycle notification failed", logging.Error(notifyErr))
			}
		}

		if err := m.clock.Sleep(ctx, m.interval); err != nil {
			m.logger.Info("workflow stopped")
			return
		}
	}
}

// RunCycle executes one scan/process/backfill pass and returns its
// summary. Per-file failures are logged and counted without aborting
// the cycle.
func (m *Manager) RunCycle(ctx context.Context) (CycleResult, error) {
	start := m.clock.Now()
	var result CycleResult

	candidates, err := m.scanner.Scan(ctx)
	if err != nil {
		return result, err
	}
	result.Discovered = len(candidates)
	if len(candidates) > 0 {
		m.logger.Info("found files to process", logging.Int("count", len(candidates)))
	}

	for _, cand := range candidates {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		item, err := m.processor.Process(ctx, cand)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return result, err
			}
			result.Failed++
			if services.Retryable(err) {
				m.logger.Warn("processing failed, file stays eligible",
					logging.String("file", cand.Filename), logging.Error(err))
			} else {
				m.logger.Error("processing failed",
					logging.String("file", cand.Filename), logging.Error(err))
			}
			continue
		}
		result.Indexed++
		if notifyErr := m.notifier.NotifyIndexed(ctx, item.Filename, item.Category); notifyErr != nil {
			m.logger.Warn("indexed notification failed", logging.Error(notifyErr))
		}
	}

	backfill, err := m.processor.Backfill(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return result, err
		}
		m.logger.Error("backfill failed", logging.Error(err))
	}
	result.Backfilled = backfill.Total()
	result.Duration = m.clock.Now().Sub(start)
	return result, nil
}
