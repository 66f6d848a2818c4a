package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ironsheep/salesbot-ocr/internal/bot"
	"github.com/ironsheep/salesbot-ocr/internal/line"
	"github.com/ironsheep/salesbot-ocr/internal/ocr"
	"github.com/ironsheep/salesbot-ocr/internal/report"
	"github.com/ironsheep/salesbot-ocr/internal/targets"
)

const (
	maxWebhookBytes = 1 << 20
	maxTextBytes    = 1 << 20
)

var targetCode = regexp.MustCompile(`^[A-Za-z]+$`)

// errorResponse writes the JSON error body used by every route.
func errorResponse(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// === Webhook ===

func (s *Server) handleWebhook(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBytes)

	wh, err := line.ParseRequest(s.opts.ChannelSecret, c.Request)
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			errorResponse(c, http.StatusRequestEntityTooLarge, "webhook body too large")
		case errors.Is(err, line.ErrInvalidSignature):
			s.logger.Warn("webhook signature mismatch", zap.String("remote", c.ClientIP()))
			errorResponse(c, http.StatusUnauthorized, "invalid signature")
		default:
			errorResponse(c, http.StatusBadRequest, err.Error())
		}
		return
	}

	s.dispatch(c.Request.Context(), wh)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// dispatch processes events after the HTTP answer, detached from the request
// so its cancellation does not abort OCR halfway.
func (s *Server) dispatch(parent context.Context, wh *line.Webhook) {
	if len(wh.Events) == 0 || s.deps.Bot == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), s.opts.EventTimeout)

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		defer cancel()
		if err := s.deps.Bot.HandleWebhook(ctx, wh); err != nil {
			s.logger.Warn("webhook events failed", zap.Int("events", len(wh.Events)), zap.Error(err))
		}
	}()
}

// === Health ===

func (s *Server) handleHealth(c *gin.Context) {
	info := ocr.Info{Backend: "none"}
	if d, ok := s.deps.Extractor.(ocr.Describer); ok {
		info = d.Info()
	} else if s.deps.Extractor != nil {
		info = ocr.Info{Backend: "unknown", Available: true}
	}

	var layouts []string
	if s.deps.Layouts != nil {
		layouts = s.deps.Layouts.Names()
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"ocr":     info,
		"layouts": layouts,
	})
}

// === API ===

func (s *Server) handleCommands(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"commands": bot.Commands()})
}

type parseResponse struct {
	Text    string               `json:"text,omitempty"`
	Layout  string               `json:"layout"`
	Records []report.SalesRecord `json:"records"`
	Summary report.Summary       `json:"summary"`
	Report  string               `json:"report"`
}

func (s *Server) handleParse(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxTextBytes))
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "failed to read body")
		return
	}
	s.respondParsed(c, string(body), false)
}

func (s *Server) handleOCR(c *gin.Context) {
	if s.deps.Extractor == nil {
		errorResponse(c, http.StatusServiceUnavailable, "no OCR backend configured")
		return
	}

	data, err := readImage(c)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	text, err := s.deps.Extractor.ExtractText(c.Request.Context(), data)
	if err != nil {
		s.logger.Error("ocr failed", zap.Error(err))
		errorResponse(c, http.StatusBadGateway, "ocr failed: "+err.Error())
		return
	}
	s.respondParsed(c, text, true)
}

// readImage takes the multipart field "image" when present, otherwise the
// raw request body.
func readImage(c *gin.Context) ([]byte, error) {
	var r io.Reader = c.Request.Body
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("image")
		if err != nil {
			return nil, errors.New("multipart field \"image\" is required")
		}
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	data, err := io.ReadAll(io.LimitReader(r, line.MaxContentBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("image is required")
	}
	if len(data) > line.MaxContentBytes {
		return nil, errors.New("image too large")
	}
	return data, nil
}

func (s *Server) respondParsed(c *gin.Context, text string, echoText bool) {
	var (
		table *report.Table
		err   error
	)
	if name := c.Query("layout"); name != "" {
		table, err = s.deps.Parser.ParseTableWith(name, text)
	} else {
		table, err = s.deps.Parser.ParseTable(text)
	}
	if errors.Is(err, report.ErrTableNotFound) {
		resp := gin.H{"error": s.formatter.Labels.NotFound}
		if echoText {
			resp["text"] = text
		}
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, resp)
		return
	}
	if err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	t, err := s.deps.Store.Read(c.Request.Context())
	if err != nil {
		s.logger.Error("failed to read targets", zap.Error(err))
		errorResponse(c, http.StatusInternalServerError, "failed to read targets")
		return
	}

	summary := report.Summarize(&table.Layout, table.Records, t)
	resp := parseResponse{
		Layout:  table.Layout.Name,
		Records: table.Records,
		Summary: summary,
		Report:  s.formatter.Format(summary, s.today()),
	}
	if resp.Records == nil {
		resp.Records = []report.SalesRecord{}
	}
	if echoText {
		resp.Text = text
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) today() string {
	if s.deps.Bot != nil {
		return s.deps.Bot.Today()
	}
	return ""
}

func (s *Server) handleGetTargets(c *gin.Context) {
	t, err := s.deps.Store.Read(c.Request.Context())
	if err != nil {
		s.logger.Error("failed to read targets", zap.Error(err))
		errorResponse(c, http.StatusInternalServerError, "failed to read targets")
		return
	}
	c.JSON(http.StatusOK, t)
}

func (s *Server) handlePutTargets(c *gin.Context) {
	var req map[string]decimal.Decimal
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "body must be a JSON object of code to amount")
		return
	}
	if len(req) == 0 {
		errorResponse(c, http.StatusBadRequest, "no targets given")
		return
	}

	partial := make(targets.Map, len(req))
	for code, value := range req {
		if !targetCode.MatchString(code) {
			errorResponse(c, http.StatusBadRequest, "invalid department code: "+code)
			return
		}
		partial[strings.ToUpper(code)] = value
	}

	ctx := c.Request.Context()
	if err := s.deps.Store.Upsert(ctx, partial); err != nil {
		s.logger.Error("failed to save targets", zap.Error(err))
		errorResponse(c, http.StatusInternalServerError, "failed to save targets")
		return
	}
	s.logger.Info("targets saved", zap.Strings("codes", partial.Codes()))

	t, err := s.deps.Store.Read(ctx)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "failed to read targets")
		return
	}
	c.JSON(http.StatusOK, t)
}
