package extraction_test

import (
	"context"
	"errors"
	"testing"

	"shotsort/internal/config"
	"shotsort/internal/extraction"
	"shotsort/internal/store"
	"shotsort/internal/testsupport"
)

type fakeModel struct {
	text      string
	err       error
	available bool
	calls     int
}

func (f *fakeModel) Available() bool { return f.available }

func (f *fakeModel) ExtractText(ctx context.Context, imagePath string) (string, error) {
	f.calls++
	return f.text, f.err
}

type fakeLocal struct {
	text  string
	err   error
	calls int
}

func (f *fakeLocal) ExtractText(ctx context.Context, imagePath string) (string, error) {
	f.calls++
	return f.text, f.err
}

func TestModelTextAcceptedWhenSubstantial(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithFeatures(config.Features{AICategorization: true, AIOCR: true}))
	model := &fakeModel{available: true, text: "Payment of Rs 500 received from Alex"}
	local := &fakeLocal{text: "garbled"}
	e := extraction.New(cfg, model, local, nil)

	text, method, err := e.Extract(context.Background(), "shot.png")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if method != store.OCRMethodModel {
		t.Fatalf("expected model method, got %q", method)
	}
	if text != "Payment of Rs 500 received from Alex" {
		t.Fatalf("unexpected text: %q", text)
	}
	if local.calls != 0 {
		t.Fatal("local engine should not run when model output is substantial")
	}
}

func TestShortModelTextFallsBackToLocal(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithFeatures(config.Features{AICategorization: true, AIOCR: true}))
	model := &fakeModel{available: true, text: "OK"}
	local := &fakeLocal{text: "Settings > Display > Brightness"}
	e := extraction.New(cfg, model, local, nil)

	text, method, err := e.Extract(context.Background(), "shot.png")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if method != store.OCRMethodLocal || text != "Settings > Display > Brightness" {
		t.Fatalf("expected local result, got method=%q text=%q", method, text)
	}
}

func TestShortModelTextKeptWhenLocalEmpty(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithFeatures(config.Features{AICategorization: true, AIOCR: true}))
	model := &fakeModel{available: true, text: "OK"}
	local := &fakeLocal{text: "   "}
	e := extraction.New(cfg, model, local, nil)

	text, method, err := e.Extract(context.Background(), "shot.png")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if method != store.OCRMethodModel || text != "OK" {
		t.Fatalf("expected short model text kept, got method=%q text=%q", method, text)
	}
}

func TestModelErrorFallsBackToLocal(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithFeatures(config.Features{AICategorization: true, AIOCR: true}))
	model := &fakeModel{available: true, err: errors.New("rate limited")}
	local := &fakeLocal{text: "hello"}
	e := extraction.New(cfg, model, local, nil)

	text, method, err := e.Extract(context.Background(), "shot.png")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if method != store.OCRMethodLocal || text != "hello" {
		t.Fatalf("expected local fallback, got method=%q text=%q", method, text)
	}
}

func TestModelSkippedWhenDisabled(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	model := &fakeModel{available: true, text: "should never be used, long enough to pass"}
	local := &fakeLocal{text: "local wins"}
	e := extraction.New(cfg, model, local, nil)

	text, method, err := e.Extract(context.Background(), "shot.png")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if model.calls != 0 {
		t.Fatal("model should not run when AI OCR is disabled")
	}
	if method != store.OCRMethodLocal || text != "local wins" {
		t.Fatalf("expected local result, got method=%q text=%q", method, text)
	}
}

func TestNoTextAnywhere(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithFeatures(config.Features{AICategorization: true, AIOCR: true}))
	model := &fakeModel{available: true, text: ""}
	local := &fakeLocal{err: errors.New("tesseract: exit status 1")}
	e := extraction.New(cfg, model, local, nil)

	text, method, err := e.Extract(context.Background(), "shot.png")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if text != "" || method != "" {
		t.Fatalf("expected empty outcome, got method=%q text=%q", method, text)
	}
}
