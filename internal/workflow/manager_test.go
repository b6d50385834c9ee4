package workflow_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"shotsort/internal/category"
	"shotsort/internal/config"
	"shotsort/internal/organizer"
	"shotsort/internal/pipeline"
	"shotsort/internal/scanner"
	"shotsort/internal/store"
	"shotsort/internal/testsupport"
	"shotsort/internal/workflow"
)

type fakeExtractor struct {
	text string
	err  error
}

func (f *fakeExtractor) Extract(ctx context.Context, imagePath string) (string, store.OCRMethod, error) {
	if f.err != nil {
		return "", "", f.err
	}
	return f.text, store.OCRMethodLocal, nil
}

type fakeClock struct {
	sleeps atomic.Int32
}

func (f *fakeClock) Now() time.Time { return time.Unix(1700000000, 0) }

func (f *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	f.sleeps.Add(1)
	<-ctx.Done()
	return ctx.Err()
}

type fakeNotifier struct {
	indexed atomic.Int32
	cycles  atomic.Int32
}

func (f *fakeNotifier) NotifyIndexed(ctx context.Context, filename string, cat category.Category) error {
	f.indexed.Add(1)
	return nil
}

func (f *fakeNotifier) NotifyCycleCompleted(ctx context.Context, indexed, failed, backfilled int, duration time.Duration) error {
	f.cycles.Add(1)
	return nil
}

func (f *fakeNotifier) NotifyError(ctx context.Context, err error, contextLabel string) error {
	return nil
}

func (f *fakeNotifier) TestNotification(ctx context.Context) error { return nil }

func newManager(t *testing.T, cfg *config.Config, s *store.Store, extractor pipeline.Extractor, opts ...workflow.ManagerOption) *workflow.Manager {
	t.Helper()
	processor := pipeline.NewProcessor(cfg, s, extractor, nil, nil, nil, organizer.New(cfg, nil), nil)
	sc := scanner.New(cfg, s, nil)
	return workflow.NewManager(cfg, sc, processor, nil, opts...)
}

func TestRunCycleIndexesDiscoveredFiles(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := testsupport.MustOpenStore(t, cfg)
	testsupport.WritePNG(t, cfg.Paths.SourceDir, "pay.png", 1)

	notifier := &fakeNotifier{}
	m := newManager(t, cfg, s, &fakeExtractor{text: "wallet balance Rs 40"},
		workflow.WithNotifier(notifier))

	result, err := m.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("RunCycle: %v", err)
	}
	if result.Discovered != 1 || result.Indexed != 1 || result.Failed != 0 {
		t.Fatalf("unexpected cycle result: %#v", result)
	}
	if notifier.indexed.Load() != 1 {
		t.Fatalf("expected indexed notification, got %d", notifier.indexed.Load())
	}

	item, err := s.GetByFilename(context.Background(), "pay.png")
	if err != nil || item == nil {
		t.Fatalf("record missing after cycle: %v %v", item, err)
	}
	if item.Category != category.Finance {
		t.Fatalf("unexpected category %q", item.Category)
	}

	// A second cycle finds nothing new.
	again, err := m.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("RunCycle: %v", err)
	}
	if again.Discovered != 0 || again.Indexed != 0 {
		t.Fatalf("second cycle must be idempotent: %#v", again)
	}
}

func TestRunCycleCountsPerFileFailures(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := testsupport.MustOpenStore(t, cfg)
	testsupport.WritePNG(t, cfg.Paths.SourceDir, "bad.png", 1)
	testsupport.WritePNG(t, cfg.Paths.SourceDir, "bad2.png", 2)

	m := newManager(t, cfg, s, &fakeExtractor{err: errors.New("tesseract crashed")})

	result, err := m.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("a per-file failure must not abort the cycle: %v", err)
	}
	if result.Failed != 2 || result.Indexed != 0 {
		t.Fatalf("unexpected cycle result: %#v", result)
	}

	// Failed files stay unindexed and are rediscovered next cycle.
	retry, err := m.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("RunCycle: %v", err)
	}
	if retry.Discovered != 2 {
		t.Fatalf("failed files must remain eligible: %#v", retry)
	}
}

func TestStartStop(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := testsupport.MustOpenStore(t, cfg)
	clock := &fakeClock{}

	m := newManager(t, cfg, s, &fakeExtractor{}, workflow.WithClock(clock))
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := m.Start(context.Background()); err == nil {
		t.Fatal("second Start must fail while running")
	}

	deadline := time.After(5 * time.Second)
	for clock.sleeps.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("loop never reached its sleep")
		case <-time.After(10 * time.Millisecond):
		}
	}

	m.Stop()
	// Stop is idempotent.
	m.Stop()

	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("restart after Stop: %v", err)
	}
	m.Stop()
}
