package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ironsheep/salesbot-ocr/internal/bot"
	"github.com/ironsheep/salesbot-ocr/internal/layout"
	"github.com/ironsheep/salesbot-ocr/internal/ocr"
	"github.com/ironsheep/salesbot-ocr/internal/report"
	"github.com/ironsheep/salesbot-ocr/internal/targets"
)

// openLayouts returns the built-in layouts, replaced by the configured
// layouts file when there is one.
func openLayouts() (*layout.Registry, error) {
	registry := layout.NewRegistry(layout.Builtin())
	if path := cfg.Report.LayoutsFile; path != "" {
		if err := registry.Reload(path); err != nil {
			return nil, err
		}
	}
	logger.Info("layouts loaded", zap.String("source", registry.Source()), zap.Strings("names", registry.Names()))
	return registry, nil
}

func openStore() (targets.Store, error) {
	store, err := targets.Open(cfg.Store.Driver, cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open target store: %w", err)
	}
	return store, nil
}

func openExtractor(ctx context.Context) (ocr.Extractor, error) {
	ext, err := ocr.New(ctx, cfg.OCROptions(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OCR: %w", err)
	}
	if d, ok := ext.(ocr.Describer); ok {
		info := d.Info()
		logger.Info("ocr backend ready",
			zap.String("backend", info.Backend),
			zap.String("version", info.Version),
			zap.Bool("available", info.Available),
		)
	}
	return ext, nil
}

func botOptions() (bot.Options, error) {
	loc, err := cfg.Location()
	if err != nil {
		return bot.Options{}, err
	}
	return bot.Options{
		Labels:      cfg.Report.Labels,
		Replies:     cfg.Report.Replies,
		Location:    loc,
		DateFormat:  cfg.Report.DateFormat,
		BuddhistEra: cfg.Report.BuddhistEra,
	}, nil
}

// today renders the current date like report titles do.
func today() (string, error) {
	loc, err := cfg.Location()
	if err != nil {
		return "", err
	}
	return report.FormatDate(time.Now().In(loc), cfg.Report.DateFormat, cfg.Report.BuddhistEra), nil
}
