package ocr

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGemini answers generateContent calls with a fixed transcription.
func fakeGemini(t *testing.T, reply string) (*httptest.Server, *[]string) {
	t.Helper()
	var (
		mu    sync.Mutex
		paths []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()

		if !strings.Contains(string(body), "inlineData") && !strings.Contains(string(body), "inline_data") {
			http.Error(w, `{"error":{"code":400,"message":"missing image"}}`, http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"role":  "model",
					"parts": []map[string]any{{"text": reply}},
				},
				"finishReason": "STOP",
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &paths
}

func TestGemini_ExtractText(t *testing.T) {
	srv, paths := fakeGemini(t, "OMCH3 Rank POS\nBR 1 1,234.50\n")

	g, err := NewGemini(context.Background(), GeminiOptions{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)

	text, err := g.ExtractText(context.Background(), createReportImage(t, []string{"BR 1"}, 1))
	require.NoError(t, err)
	assert.Equal(t, "OMCH3 Rank POS\nBR 1 1,234.50", text)

	require.Len(t, *paths, 1)
	assert.Contains(t, (*paths)[0], DefaultGeminiModel+":generateContent")
}

func TestGemini_RejectsNonImage(t *testing.T) {
	srv, paths := fakeGemini(t, "unused")

	g, err := NewGemini(context.Background(), GeminiOptions{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = g.ExtractText(context.Background(), []byte("plain text"))
	assert.Error(t, err)
	assert.Empty(t, *paths, "no API call for undecodable input")
}

func TestGemini_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"error":{"code":500,"message":"boom","status":"INTERNAL"}}`)
	}))
	defer srv.Close()

	g, err := NewGemini(context.Background(), GeminiOptions{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = g.ExtractText(context.Background(), createReportImage(t, []string{"BR 1"}, 1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gemini OCR failed")
}

func TestGemini_Options(t *testing.T) {
	_, err := NewGemini(context.Background(), GeminiOptions{})
	assert.Error(t, err)

	g, err := NewGemini(context.Background(), GeminiOptions{APIKey: "k", Model: " gemini-custom "})
	require.NoError(t, err)
	assert.Equal(t, Info{Backend: "gemini", Model: "gemini-custom", Available: true}, g.Info())
}
