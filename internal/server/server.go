package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ironsheep/salesbot-ocr/internal/bot"
	"github.com/ironsheep/salesbot-ocr/internal/layout"
	"github.com/ironsheep/salesbot-ocr/internal/ocr"
	"github.com/ironsheep/salesbot-ocr/internal/report"
	"github.com/ironsheep/salesbot-ocr/internal/targets"
)

// Options configures the HTTP server.
type Options struct {
	Addr            string
	WebhookPath     string
	ChannelSecret   string
	ShutdownTimeout time.Duration

	// EventTimeout bounds the background handling of one webhook delivery.
	EventTimeout time.Duration

	// Labels render reports returned by the API.
	Labels report.Labels
}

// Deps are the collaborators the routes call into.
type Deps struct {
	Bot       *bot.Bot
	Parser    *report.Parser
	Layouts   *layout.Registry
	Store     targets.Store
	Extractor ocr.Extractor
}

// Server handles webhook and API requests.
type Server struct {
	router    *gin.Engine
	opts      Options
	deps      Deps
	formatter *report.Formatter
	logger    *zap.Logger

	// inflight tracks webhook deliveries still being processed
	inflight sync.WaitGroup
}

// New creates a server and registers its routes.
func New(opts Options, deps Deps, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.WebhookPath == "" {
		opts.WebhookPath = "/webhook"
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	if opts.EventTimeout <= 0 {
		opts.EventTimeout = 2 * time.Minute
	}

	s := &Server{
		router:    gin.New(),
		opts:      opts,
		deps:      deps,
		formatter: report.NewFormatter(opts.Labels),
		logger:    logger,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(gin.Recovery(), requestLogger(s.logger))

	s.router.POST(s.opts.WebhookPath, s.handleWebhook)
	s.router.GET("/healthz", s.handleHealth)

	api := s.router.Group("/api")
	s.RegisterRoutes(api)
}

// RegisterRoutes registers the JSON API under router.
func (s *Server) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/commands", s.handleCommands)
	router.POST("/parse", s.handleParse)
	router.POST("/ocr", s.handleOCR)
	router.GET("/targets", s.handleGetTargets)
	router.PUT("/targets", s.handlePutTargets)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Wait blocks until background webhook processing has finished.
func (s *Server) Wait() {
	s.inflight.Wait()
}

// Run listens on the configured address and serves until ctx ends.
func (s *Server) Run(ctx context.Context) error {
	l, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.opts.Addr, err)
	}
	return s.Serve(ctx, l)
}

// Serve accepts connections on l until ctx ends, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", l.Addr().String()))
		errCh <- srv.Serve(l)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	done := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-shutdownCtx.Done():
		s.logger.Warn("webhook work still running at shutdown")
	}
	return nil
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		logger.Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
}
