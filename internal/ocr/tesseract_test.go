package ocr

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"
	"testing"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/salesbot-ocr/internal/imaging"
)

// drawText draws text on an image using basicfont
func drawText(img *image.RGBA, x, y int, text string, col color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}

// createReportImage renders lines of text and scales them up so Tesseract
// has a fair chance. Returns PNG bytes.
func createReportImage(t *testing.T, lines []string, scale int) []byte {
	t.Helper()

	maxLen := 0
	for _, line := range lines {
		maxLen = max(maxLen, len(line))
	}
	w, h := maxLen*7+40, len(lines)*16+30

	small := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(small, small.Bounds(), image.White, image.Point{}, draw.Src)
	for i, line := range lines {
		drawText(small, 20, 20+i*16, line, color.Black)
	}

	// Scale up by drawing each pixel as a scale x scale block
	img := image.NewRGBA(image.Rect(0, 0, w*scale, h*scale))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := small.At(x, y)
			for dy := 0; dy < scale; dy++ {
				for dx := 0; dx < scale; dx++ {
					img.Set(x*scale+dx, y*scale+dy, c)
				}
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return buf.Bytes()
}

func skipIfNoTesseract(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		return
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "tesseract") || strings.Contains(msg, "library") || strings.Contains(msg, "language") {
		t.Skipf("Tesseract not available: %v", err)
	}
}

func TestTesseract_RealText(t *testing.T) {
	data := createReportImage(t, []string{"OMCH3 RANK POS", "BR 1 1,234.50", "GG 2 500.00"}, 4)

	tess := NewTesseract(TesseractOptions{}, nil)
	res, err := tess.Recognize(context.Background(), data)
	skipIfNoTesseract(t, err)
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}

	t.Logf("Extracted text: %q", res.Text)
	t.Logf("Words: %d, mean confidence %.2f", len(res.Words), res.MeanConfidence())

	if res.Text == "" && len(res.Words) == 0 {
		t.Log("Warning: No text extracted - may need larger scale or different font")
	}
	for _, w := range res.Words {
		if w.Confidence < 0 || w.Confidence > 1 {
			t.Errorf("confidence out of range for %q: %f", w.Text, w.Confidence)
		}
	}
}

func TestTesseract_Preprocess(t *testing.T) {
	data := createReportImage(t, []string{"HW 12500"}, 2)

	tess := NewTesseract(TesseractOptions{Preprocess: true, Imaging: imaging.DefaultOptions()}, nil)
	res, err := tess.Recognize(context.Background(), data)
	skipIfNoTesseract(t, err)
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	if len(res.Steps) == 0 {
		t.Error("expected preprocessing steps to be reported")
	}
}

func TestTesseract_InvalidImage(t *testing.T) {
	tess := NewTesseract(TesseractOptions{}, nil)
	if _, err := tess.ExtractText(context.Background(), []byte("not an image")); err == nil {
		t.Error("ExtractText should fail for invalid image data")
	}
}

func TestTesseract_CancelledContext(t *testing.T) {
	data := createReportImage(t, []string{"TEST"}, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tess := NewTesseract(TesseractOptions{}, nil)
	_, err := tess.ExtractText(ctx, data)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestTesseract_Info(t *testing.T) {
	info := NewTesseract(TesseractOptions{}, nil).Info()
	if info.Backend != "tesseract" {
		t.Errorf("backend: got %s, want tesseract", info.Backend)
	}
	if info.Language != DefaultLanguage {
		t.Errorf("language: got %s, want %s", info.Language, DefaultLanguage)
	}
}

func TestResult_MeanConfidence(t *testing.T) {
	r := &Result{}
	if r.MeanConfidence() != 0 {
		t.Errorf("expected 0 without words, got %f", r.MeanConfidence())
	}
	r.Words = []Word{{Text: "BR", Confidence: 0.9}, {Text: "1", Confidence: 0.5}}
	if got := r.MeanConfidence(); got < 0.69 || got > 0.71 {
		t.Errorf("expected 0.7, got %f", got)
	}
}

// blockingExtractor waits for its context to end.
type blockingExtractor struct{}

func (blockingExtractor) ExtractText(ctx context.Context, _ []byte) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestWithTimeout(t *testing.T) {
	ext := WithTimeout(blockingExtractor{}, 20*time.Millisecond)

	start := time.Now()
	_, err := ext.ExtractText(context.Background(), nil)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
	if time.Since(start) > 2*time.Second {
		t.Error("timeout was not applied")
	}
	if info := ext.(Describer).Info(); info.Backend != "unknown" {
		t.Errorf("expected unknown backend info, got %+v", info)
	}
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	ext, err := New(ctx, Options{}, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, ok := ext.(*Tesseract); !ok {
		t.Errorf("expected *Tesseract by default, got %T", ext)
	}

	ext, err = New(ctx, Options{Backend: "tesseract", Timeout: time.Second}, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if info := ext.(Describer).Info(); info.Backend != "tesseract" {
		t.Errorf("timeout wrapper should report the inner backend, got %+v", info)
	}

	if _, err := New(ctx, Options{Backend: "gemini"}, nil); err == nil {
		t.Error("expected error for gemini without API key")
	}
	if _, err := New(ctx, Options{Backend: "vision"}, nil); err == nil {
		t.Error("expected error for unknown backend")
	}
}
