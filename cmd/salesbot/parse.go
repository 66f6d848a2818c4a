package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ironsheep/salesbot-ocr/internal/export"
	"github.com/ironsheep/salesbot-ocr/internal/report"
)

var (
	parseText   bool
	parseLayout string
	parseJSON   bool
	parseXLSX   string
)

var parseCmd = &cobra.Command{
	Use:   "parse FILE",
	Short: "Summarise a report photo or OCR text file",
	Long: `Parse runs the same pipeline as the bot on a local file and prints the
summary. Image files go through the configured OCR backend; with --text (or a
.txt file) the file is taken as OCR output directly.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().BoolVar(&parseText, "text", false, "Treat FILE as OCR text")
	parseCmd.Flags().StringVarP(&parseLayout, "layout", "l", "", "Use only this layout")
	parseCmd.Flags().BoolVar(&parseJSON, "json", false, "Print records and summary as JSON")
	parseCmd.Flags().StringVar(&parseXLSX, "xlsx", "", "Also write an Excel workbook to this path")
}

type parseOutput struct {
	Layout  string               `json:"layout"`
	Records []report.SalesRecord `json:"records"`
	Summary report.Summary       `json:"summary"`
	Report  string               `json:"report"`
}

func runParse(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	path := args[0]

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	text := string(data)
	if !parseText && !strings.EqualFold(filepath.Ext(path), ".txt") {
		extractor, err := openExtractor(ctx)
		if err != nil {
			return err
		}
		text, err = extractor.ExtractText(ctx, data)
		if err != nil {
			return fmt.Errorf("ocr failed: %w", err)
		}
		logger.Debug("ocr text", zap.String("text", text))
	}

	registry, err := openLayouts()
	if err != nil {
		return err
	}
	parser := report.NewParser(registry)

	var table *report.Table
	if parseLayout != "" {
		table, err = parser.ParseTableWith(parseLayout, text)
	} else {
		table, err = parser.ParseTable(text)
	}
	formatter := report.NewFormatter(cfg.Report.Labels)
	if errors.Is(err, report.ErrTableNotFound) {
		fmt.Fprintln(cmd.ErrOrStderr(), formatter.Labels.NotFound)
		return err
	}
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()
	t, err := store.Read(ctx)
	if err != nil {
		return err
	}

	date, err := today()
	if err != nil {
		return err
	}
	summary := report.Summarize(&table.Layout, table.Records, t)
	rendered := formatter.Format(summary, date)

	if parseXLSX != "" {
		if err := export.WriteFile(parseXLSX, table, summary, date); err != nil {
			return err
		}
		logger.Info("workbook written", zap.String("path", parseXLSX))
	}

	out := cmd.OutOrStdout()
	if parseJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(parseOutput{
			Layout:  table.Layout.Name,
			Records: table.Records,
			Summary: summary,
			Report:  rendered,
		})
	}
	_, err = fmt.Fprintln(out, rendered)
	return err
}
