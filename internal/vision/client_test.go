package vision_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"shotsort/internal/category"
	"shotsort/internal/testsupport"
	"shotsort/internal/vision"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *vision.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return vision.NewClient(vision.Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "test-model",
	}, vision.WithSleeper(func(time.Duration) {}))
}

func chatReply(content string) string {
	reply := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	}
	encoded, _ := json.Marshal(reply)
	return string(encoded)
}

func TestCategorizeParsesResponse(t *testing.T) {
	dir := t.TempDir()
	image := testsupport.WritePNG(t, dir, "shot.png", 1)

	var gotBody string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		io.WriteString(w, chatReply(`{"category": "Social", "summary": "A chat feed"}`))
	})

	result, err := client.Categorize(context.Background(), image)
	if err != nil {
		t.Fatalf("Categorize: %v", err)
	}
	if result.Category != category.SocialMedia {
		t.Fatalf("expected Social_Media, got %q", result.Category)
	}
	if result.Summary != "A chat feed" {
		t.Fatalf("unexpected summary: %q", result.Summary)
	}
	if !strings.Contains(gotBody, "data:image/png;base64,") {
		t.Fatal("request body missing image data URI")
	}
	if !strings.Contains(gotBody, "json_object") {
		t.Fatal("request body missing json response format")
	}
}

func TestCategorizeUnknownNameCoercesToUnsorted(t *testing.T) {
	dir := t.TempDir()
	image := testsupport.WritePNG(t, dir, "shot.png", 2)

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, chatReply(`{"category": "Miscellaneous", "summary": "?"}`))
	})

	result, err := client.Categorize(context.Background(), image)
	if err != nil {
		t.Fatalf("Categorize: %v", err)
	}
	if result.Category != category.Unsorted {
		t.Fatalf("expected Unsorted, got %q", result.Category)
	}
}

func TestExtractTextStripsFences(t *testing.T) {
	dir := t.TempDir()
	image := testsupport.WritePNG(t, dir, "shot.png", 3)

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, chatReply("  Total: Rs 450\nPaid via UPI  "))
	})

	text, err := client.ExtractText(context.Background(), image)
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if text != "Total: Rs 450\nPaid via UPI" {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestRetryOnServerError(t *testing.T) {
	dir := t.TempDir()
	image := testsupport.WritePNG(t, dir, "shot.png", 4)

	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "overloaded", http.StatusInternalServerError)
			return
		}
		io.WriteString(w, chatReply("hello"))
	})

	text, err := client.ExtractText(context.Background(), image)
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if text != "hello" || calls.Load() != 2 {
		t.Fatalf("expected success after retry, text=%q calls=%d", text, calls.Load())
	}
}

func TestNoRetryOnClientError(t *testing.T) {
	dir := t.TempDir()
	image := testsupport.WritePNG(t, dir, "shot.png", 5)

	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad model", http.StatusBadRequest)
	})

	if _, err := client.ExtractText(context.Background(), image); err == nil {
		t.Fatal("expected error")
	}
	if calls.Load() != 1 {
		t.Fatalf("expected single attempt, got %d", calls.Load())
	}
}

func TestTranslateSkipsEmptyInput(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected for empty input")
	})
	out, err := client.Translate(context.Background(), "   ", "en")
	if err != nil || out != "" {
		t.Fatalf("expected empty no-op, got %q err=%v", out, err)
	}
}

func TestUnavailableWithoutKey(t *testing.T) {
	client := vision.NewClient(vision.Config{})
	if client.Available() {
		t.Fatal("expected unavailable without API key")
	}
	if _, err := client.Translate(context.Background(), "hola", "en"); err == nil {
		t.Fatal("expected error without API key")
	}
}

func TestDecodeModelJSONQuirks(t *testing.T) {
	cases := []struct {
		name    string
		payload string
	}{
		{"plain", `{"category": "Finance"}`},
		{"fenced", "```json\n{\"category\": \"Finance\"}\n```"},
		{"prose", "Sure! Here you go: {\"category\": \"Finance\"} Hope that helps."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var parsed struct {
				Category string `json:"category"`
			}
			if err := vision.DecodeModelJSON(tc.payload, &parsed); err != nil {
				t.Fatalf("DecodeModelJSON: %v", err)
			}
			if parsed.Category != "Finance" {
				t.Fatalf("unexpected category: %q", parsed.Category)
			}
		})
	}
}
