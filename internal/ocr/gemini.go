package ocr

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/ironsheep/salesbot-ocr/internal/imaging"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.5-flash"

const transcribePrompt = `Transcribe all text in this photo of a printed sales report exactly as printed.
Keep the reading order, one printed line per output line, and keep numbers,
thousands separators and department codes unchanged.
Output only the transcription with no commentary, headings or formatting.`

// GeminiOptions configures the Gemini backend.
type GeminiOptions struct {
	APIKey string
	Model  string

	// BaseURL overrides the API endpoint.
	BaseURL string
}

// Gemini transcribes images with a Gemini vision model.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates the backend.
func NewGemini(ctx context.Context, opts GeminiOptions) (*Gemini, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = DefaultGeminiModel
	}

	cfg := &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if opts.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

// ExtractText implements Extractor.
func (g *Gemini) ExtractText(ctx context.Context, data []byte) (string, error) {
	info, err := imaging.Inspect(data)
	if err != nil {
		return "", err
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(data, "image/"+info.Format),
			genai.NewPartFromText(transcribePrompt),
		}, genai.RoleUser),
	}
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("gemini OCR failed: %w", err)
	}
	return strings.TrimSpace(resp.Text()), nil
}

// Info implements Describer.
func (g *Gemini) Info() Info {
	return Info{Backend: "gemini", Model: g.model, Available: true}
}
