package ocr

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ironsheep/salesbot-ocr/internal/imaging"
)

// Extractor reads the text in an encoded image.
type Extractor interface {
	ExtractText(ctx context.Context, image []byte) (string, error)
}

// Info describes a backend for health reporting.
type Info struct {
	Backend   string `json:"backend"`
	Version   string `json:"version,omitempty"`
	Language  string `json:"language,omitempty"`
	Model     string `json:"model,omitempty"`
	Available bool   `json:"available"`
}

// Describer is implemented by backends that can report their status.
type Describer interface {
	Info() Info
}

// Options configures New.
type Options struct {
	// Backend is "tesseract" (default) or "gemini".
	Backend string

	Language       string
	TessdataPrefix string
	Preprocess     bool
	Imaging        imaging.Options

	GeminiAPIKey string
	GeminiModel  string

	// Timeout bounds one extraction. Zero means no limit.
	Timeout time.Duration
}

// New builds the configured backend.
func New(ctx context.Context, opts Options, logger *zap.Logger) (Extractor, error) {
	var (
		ext Extractor
		err error
	)
	switch opts.Backend {
	case "", "tesseract":
		ext = NewTesseract(TesseractOptions{
			Language:       opts.Language,
			TessdataPrefix: opts.TessdataPrefix,
			Preprocess:     opts.Preprocess,
			Imaging:        opts.Imaging,
		}, logger)
	case "gemini":
		ext, err = NewGemini(ctx, GeminiOptions{
			APIKey: opts.GeminiAPIKey,
			Model:  opts.GeminiModel,
		})
	default:
		return nil, fmt.Errorf("unknown OCR backend: %s", opts.Backend)
	}
	if err != nil {
		return nil, err
	}
	if opts.Timeout > 0 {
		ext = WithTimeout(ext, opts.Timeout)
	}
	return ext, nil
}

// WithTimeout bounds every extraction by d.
func WithTimeout(ext Extractor, d time.Duration) Extractor {
	return &timeoutExtractor{next: ext, timeout: d}
}

type timeoutExtractor struct {
	next    Extractor
	timeout time.Duration
}

func (t *timeoutExtractor) ExtractText(ctx context.Context, image []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.ExtractText(ctx, image)
}

func (t *timeoutExtractor) Info() Info {
	if d, ok := t.next.(Describer); ok {
		return d.Info()
	}
	return Info{Backend: "unknown", Available: true}
}
