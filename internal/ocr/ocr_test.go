package ocr_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"shotsort/internal/config"
	"shotsort/internal/logging"
	"shotsort/internal/ocr"
	"shotsort/internal/testsupport"
)

type fakeRunner struct {
	stdout string
	err    error
	name   string
	args   []string
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	f.name = name
	f.args = args
	return []byte(f.stdout), nil, f.err
}

func TestExtractTextRunsTesseract(t *testing.T) {
	imgPath := testsupport.WritePNG(t, t.TempDir(), "shot.png", 0x00)
	runner := &fakeRunner{stdout: "  Your bank balance  \n\n  Rs 100  \n"}
	engine := ocr.NewEngineWithRunner(config.OCR{Tesseract: "tesseract", Language: "eng", PSM: 6}, runner, logging.NewNop())

	text, err := engine.ExtractText(context.Background(), imgPath)
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if text != "Your bank balance\nRs 100" {
		t.Fatalf("unexpected normalized text: %q", text)
	}
	if runner.name != "tesseract" {
		t.Fatalf("expected tesseract invocation, got %q", runner.name)
	}
	joined := strings.Join(runner.args, " ")
	if !strings.Contains(joined, "-l eng") || !strings.Contains(joined, "--psm 6") {
		t.Fatalf("unexpected args: %v", runner.args)
	}
	// The engine must feed the preprocessed copy, not the original.
	if runner.args[0] == imgPath {
		t.Fatal("expected preprocessed image path to be passed to tesseract")
	}
}

func TestExtractTextSurfacesToolFailure(t *testing.T) {
	imgPath := testsupport.WritePNG(t, t.TempDir(), "shot.png", 0x00)
	runner := &fakeRunner{err: errors.New("exit status 1")}
	engine := ocr.NewEngineWithRunner(config.OCR{Tesseract: "tesseract", Language: "eng"}, runner, logging.NewNop())

	if _, err := engine.ExtractText(context.Background(), imgPath); err == nil {
		t.Fatal("expected error from failing tesseract")
	}
}

func TestNormalize(t *testing.T) {
	in := "||||| menu\n\n   hello   \n~~~~\nworld"
	got := ocr.Normalize(in)
	if strings.Contains(got, "|") || strings.Contains(got, "~~") {
		t.Fatalf("noise survived normalization: %q", got)
	}
	if !strings.Contains(got, "hello") || !strings.Contains(got, "world") {
		t.Fatalf("content lost in normalization: %q", got)
	}
}
