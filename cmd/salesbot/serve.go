package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/salesbot-ocr/internal/bot"
	"github.com/ironsheep/salesbot-ocr/internal/layout"
	"github.com/ironsheep/salesbot-ocr/internal/line"
	"github.com/ironsheep/salesbot-ocr/internal/report"
	"github.com/ironsheep/salesbot-ocr/internal/server"
)

var (
	devMode   bool
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the LINE webhook server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&devMode, "dev", false, "Development mode (verbose gin output)")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Listen port (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if devMode {
		cfg.Server.DevMode = true
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = servePort
	}
	if err := cfg.ValidateServe(); err != nil {
		return err
	}
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry, err := openLayouts()
	if err != nil {
		return err
	}
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	extractor, err := openExtractor(ctx)
	if err != nil {
		return err
	}
	opts, err := botOptions()
	if err != nil {
		return err
	}

	var lineOpts []line.Option
	if cfg.Line.Timeout.Duration > 0 {
		lineOpts = append(lineOpts, line.WithTimeout(cfg.Line.Timeout.Duration))
	}
	if cfg.Line.APIBase != "" {
		lineOpts = append(lineOpts, line.WithAPIBase(cfg.Line.APIBase))
	}
	if cfg.Line.DataAPIBase != "" {
		lineOpts = append(lineOpts, line.WithDataAPIBase(cfg.Line.DataAPIBase))
	}
	client, err := line.NewClient(cfg.Line.ChannelToken, lineOpts...)
	if err != nil {
		return err
	}

	parser := report.NewParser(registry)
	b := bot.New(client, extractor, parser, store, opts, logger.Named("bot"))

	srv := server.New(server.Options{
		Addr:            cfg.Address(),
		WebhookPath:     cfg.Server.WebhookPath,
		ChannelSecret:   cfg.Line.ChannelSecret,
		ShutdownTimeout: cfg.Server.ShutdownTimeout.Duration,
		EventTimeout:    cfg.Server.EventTimeout.Duration,
		Labels:          cfg.Report.Labels,
	}, server.Deps{
		Bot:       b,
		Parser:    parser,
		Layouts:   registry,
		Store:     store,
		Extractor: extractor,
	}, logger.Named("http"))

	var watcher *layout.Watcher
	if cfg.Report.WatchLayouts && cfg.Report.LayoutsFile != "" {
		watcher, err = layout.NewWatcher(registry, cfg.Report.LayoutsFile, logger.Named("layouts"))
		if err != nil {
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(gctx)
	})
	if watcher != nil {
		g.Go(func() error {
			return watcher.Run(gctx)
		})
	}

	logger.Info("salesbot started",
		zap.String("version", Version),
		zap.String("addr", cfg.Address()),
		zap.String("webhook_path", cfg.Server.WebhookPath),
	)
	err = g.Wait()
	logger.Info("salesbot stopped")
	return err
}
