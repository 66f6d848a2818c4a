package ocr

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
	"go.uber.org/zap"

	"github.com/ironsheep/salesbot-ocr/internal/imaging"
)

// DefaultLanguage is used when no Tesseract language is configured.
const DefaultLanguage = "eng"

// Bounds represents a rectangular bounding box in pixel coordinates.
type Bounds struct {
	X1 int `json:"x1"` // Left edge
	Y1 int `json:"y1"` // Top edge
	X2 int `json:"x2"` // Right edge
	Y2 int `json:"y2"` // Bottom edge
}

// Word is one recognised word with its location and confidence.
type Word struct {
	// Text is the recognized text content.
	Text string `json:"text"`

	// Confidence is the OCR confidence score (0.0 to 1.0).
	Confidence float64 `json:"confidence"`

	// Bounds is the bounding box in the prepared image.
	Bounds Bounds `json:"bounds"`
}

// Result contains the complete results of text extraction from an image.
type Result struct {
	// Text is all recognized text with the engine's spacing and newlines.
	Text string `json:"text"`

	// Words may be empty if bounding box extraction fails; Text is still set.
	Words []Word `json:"words"`

	// Steps lists the preprocessing applied before recognition.
	Steps []string `json:"steps,omitempty"`
}

// MeanConfidence averages the word confidences, or returns 0 without words.
func (r *Result) MeanConfidence() float64 {
	if len(r.Words) == 0 {
		return 0
	}
	sum := 0.0
	for _, w := range r.Words {
		sum += w.Confidence
	}
	return sum / float64(len(r.Words))
}

// TesseractOptions configures the Tesseract backend.
type TesseractOptions struct {
	// Language is a Tesseract language code; several are joined with "+".
	Language string

	// TessdataPrefix overrides the directory holding traineddata files.
	TessdataPrefix string

	// Preprocess runs imaging.Prepare before recognition.
	Preprocess bool

	Imaging imaging.Options
}

// Tesseract recognises text locally with the Tesseract engine.
type Tesseract struct {
	opts   TesseractOptions
	logger *zap.Logger
}

// NewTesseract creates the backend. A nil logger disables logging.
func NewTesseract(opts TesseractOptions, logger *zap.Logger) *Tesseract {
	if opts.Language == "" {
		opts.Language = DefaultLanguage
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tesseract{opts: opts, logger: logger}
}

// ExtractText implements Extractor.
func (t *Tesseract) ExtractText(ctx context.Context, data []byte) (string, error) {
	res, err := t.Recognize(ctx, data)
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

// Recognize decodes and optionally preprocesses the image, then runs OCR.
// Cancelling ctx returns early; the engine call itself cannot be interrupted
// and finishes in the background.
func (t *Tesseract) Recognize(ctx context.Context, data []byte) (*Result, error) {
	img, info, err := imaging.Decode(data)
	if err != nil {
		return nil, err
	}

	var steps []string
	if t.opts.Preprocess {
		prepared := imaging.Prepare(img, t.opts.Imaging)
		img = prepared.Image
		steps = prepared.Steps
		t.logger.Debug("image prepared",
			zap.String("format", info.Format),
			zap.Int("width", info.Width),
			zap.Int("height", info.Height),
			zap.Strings("steps", steps),
			zap.Float64("luminance", prepared.Luminance.Mean))
	}

	png, err := imaging.EncodePNG(img)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type outcome struct {
		res *Result
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := t.recognize(png)
		done <- outcome{res, err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case out := <-done:
		if out.err != nil {
			return nil, out.err
		}
		out.res.Steps = steps
		t.logger.Debug("tesseract finished",
			zap.Int("chars", len(out.res.Text)),
			zap.Int("words", len(out.res.Words)),
			zap.Float64("mean_confidence", out.res.MeanConfidence()))
		return out.res, nil
	}
}

func (t *Tesseract) recognize(png []byte) (*Result, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if t.opts.TessdataPrefix != "" {
		if err := client.SetTessdataPrefix(t.opts.TessdataPrefix); err != nil {
			return nil, fmt.Errorf("failed to set tessdata prefix: %w", err)
		}
	}
	if err := client.SetLanguage(strings.Split(t.opts.Language, "+")...); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetImageFromBytes(png); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("tesseract OCR failed: %w", err)
	}

	// Get bounding boxes for words
	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		// Return just text if boxes fail
		return &Result{Text: text, Words: []Word{}}, nil
	}

	words := make([]Word, 0, len(boxes))
	for _, box := range boxes {
		if box.Word == "" {
			continue
		}
		words = append(words, Word{
			Text:       box.Word,
			Confidence: float64(box.Confidence) / 100.0,
			Bounds: Bounds{
				X1: box.Box.Min.X,
				Y1: box.Box.Min.Y,
				X2: box.Box.Max.X,
				Y2: box.Box.Max.Y,
			},
		})
	}
	return &Result{Text: text, Words: words}, nil
}

// Info implements Describer.
func (t *Tesseract) Info() Info {
	return Info{
		Backend:   "tesseract",
		Version:   gosseract.Version(),
		Language:  t.opts.Language,
		Available: true,
	}
}
