package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"shotsort/internal/category"
	"shotsort/internal/config"
)

const userAgent = "Shotsort-Go/0.1.0"

// Service defines the notification surface exposed to workflow components.
type Service interface {
	NotifyIndexed(ctx context.Context, filename string, cat category.Category) error
	NotifyCycleCompleted(ctx context.Context, indexed, failed, backfilled int, duration time.Duration) error
	NotifyError(ctx context.Context, err error, contextLabel string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint:     topic,
		client:       &http.Client{Timeout: timeout},
		indexed:      cfg.Notifications.Indexed,
		cycleSummary: cfg.Notifications.CycleSummary,
		errors:       cfg.Notifications.Errors,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint     string
	client       *http.Client
	indexed      bool
	cycleSummary bool
	errors       bool
}

func (n *ntfyService) NotifyIndexed(ctx context.Context, filename string, cat category.Category) error {
	if !n.indexed {
		return nil
	}
	data := payload{
		title:   "Shotsort - Indexed",
		message: fmt.Sprintf("Indexed %s into %s", strings.TrimSpace(filename), cat),
		tags:    []string{"shotsort", "indexed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyCycleCompleted(ctx context.Context, indexed, failed, backfilled int, duration time.Duration) error {
	if !n.cycleSummary {
		return nil
	}
	if indexed == 0 && failed == 0 && backfilled == 0 {
		return nil
	}
	duration = duration.Round(time.Second)
	if duration < 0 {
		duration = 0
	}

	var title, message string
	if failed == 0 {
		title = "Shotsort - Cycle Complete"
		message = fmt.Sprintf("Indexed %d, backfilled %d in %s", indexed, backfilled, duration)
	} else {
		title = "Shotsort - Cycle Complete (with errors)"
		message = fmt.Sprintf("Indexed %d, backfilled %d, %d failed in %s", indexed, backfilled, failed, duration)
	}
	data := payload{
		title:   title,
		message: message,
		tags:    []string{"shotsort", "cycle", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	if !n.errors {
		return nil
	}
	var builder strings.Builder
	builder.WriteString("Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" with ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "Shotsort - Error",
		message:  builder.String(),
		tags:     []string{"shotsort", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Shotsort - Test",
		message:  "Notification system test",
		tags:     []string{"shotsort", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyIndexed(context.Context, string, category.Category) error        { return nil }
func (noopService) NotifyCycleCompleted(context.Context, int, int, int, time.Duration) error { return nil }
func (noopService) NotifyError(context.Context, error, string) error                      { return nil }
func (noopService) TestNotification(context.Context) error                                { return nil }
