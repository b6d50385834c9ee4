package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shotsort/internal/category"
	"shotsort/internal/config"
	"shotsort/internal/notifications"
)

type captured struct {
	title    string
	message  string
	tags     string
	priority string
}

func newCapturingService(t *testing.T, mutate func(*config.Config)) (notifications.Service, *[]captured) {
	t.Helper()
	var requests []captured
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		requests = append(requests, captured{
			title:    r.Header.Get("Title"),
			message:  string(body),
			tags:     r.Header.Get("Tags"),
			priority: r.Header.Get("Priority"),
		})
	}))
	t.Cleanup(server.Close)

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	cfg.Notifications.Indexed = true
	cfg.Notifications.CycleSummary = true
	cfg.Notifications.Errors = true
	if mutate != nil {
		mutate(&cfg)
	}
	return notifications.NewService(&cfg), &requests
}

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = ""
	svc := notifications.NewService(&cfg)
	if err := svc.NotifyIndexed(context.Background(), "shot.png", category.Finance); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

func TestNotifyIndexedFormatsMessage(t *testing.T) {
	svc, requests := newCapturingService(t, nil)
	if err := svc.NotifyIndexed(context.Background(), "bill.png", category.Finance); err != nil {
		t.Fatalf("NotifyIndexed: %v", err)
	}
	if len(*requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(*requests))
	}
	got := (*requests)[0]
	if got.title != "Shotsort - Indexed" {
		t.Fatalf("unexpected title: %q", got.title)
	}
	if got.message != "Indexed bill.png into Finance" {
		t.Fatalf("unexpected message: %q", got.message)
	}
	if got.tags != "shotsort,indexed" {
		t.Fatalf("unexpected tags: %q", got.tags)
	}
}

func TestNotifyIndexedRespectsToggle(t *testing.T) {
	svc, requests := newCapturingService(t, func(c *config.Config) {
		c.Notifications.Indexed = false
	})
	if err := svc.NotifyIndexed(context.Background(), "bill.png", category.Finance); err != nil {
		t.Fatalf("NotifyIndexed: %v", err)
	}
	if len(*requests) != 0 {
		t.Fatalf("expected no request when indexed toggle is off, got %d", len(*requests))
	}
}

func TestNotifyCycleCompleted(t *testing.T) {
	svc, requests := newCapturingService(t, nil)
	if err := svc.NotifyCycleCompleted(context.Background(), 4, 1, 2, 90*time.Second); err != nil {
		t.Fatalf("NotifyCycleCompleted: %v", err)
	}
	got := (*requests)[0]
	if got.title != "Shotsort - Cycle Complete (with errors)" {
		t.Fatalf("unexpected title: %q", got.title)
	}
	if got.message != "Indexed 4, backfilled 2, 1 failed in 1m30s" {
		t.Fatalf("unexpected message: %q", got.message)
	}
}

func TestNotifyCycleCompletedSkipsIdleCycles(t *testing.T) {
	svc, requests := newCapturingService(t, nil)
	if err := svc.NotifyCycleCompleted(context.Background(), 0, 0, 0, time.Second); err != nil {
		t.Fatalf("NotifyCycleCompleted: %v", err)
	}
	if len(*requests) != 0 {
		t.Fatalf("idle cycles must not notify, got %d requests", len(*requests))
	}
}

func TestNotifyErrorUsesHighPriority(t *testing.T) {
	svc, requests := newCapturingService(t, nil)
	if err := svc.NotifyError(context.Background(), errors.New("disk full"), "persistence"); err != nil {
		t.Fatalf("NotifyError: %v", err)
	}
	got := (*requests)[0]
	if got.priority != "high" {
		t.Fatalf("expected high priority, got %q", got.priority)
	}
	if got.message != "Error with persistence: disk full" {
		t.Fatalf("unexpected message: %q", got.message)
	}
}

func TestSendSurfacesHTTPFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	t.Cleanup(server.Close)

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	cfg.Notifications.Errors = true
	svc := notifications.NewService(&cfg)
	if err := svc.NotifyError(context.Background(), errors.New("boom"), ""); err == nil {
		t.Fatal("expected error from non-2xx response")
	}
}
