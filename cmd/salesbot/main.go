package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ironsheep/salesbot-ocr/internal/config"
	"github.com/ironsheep/salesbot-ocr/internal/logging"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

var (
	// Global flags
	configPath string
	envFiles   []string
	logLevel   string

	// Loaded in PersistentPreRunE
	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "salesbot",
	Short: "LINE bot that summarises photographed daily sales reports",
	Long: `salesbot reads photos of printed sales reports sent to a LINE channel,
extracts the sales table with OCR and replies with a per-department summary
against the configured daily targets.

Configuration is read from config.toml (next to the binary or in the working
directory), then .env, then environment variables such as LINE_TOKEN,
LINE_CHANNEL_SECRET and GEMINI_API_KEY.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}
		return setup()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// setup loads configuration and builds the logger.
func setup() error {
	if err := config.LoadEnv(envFiles...); err != nil {
		return err
	}

	c, info, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		c.Log.Level = logLevel
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	l, err := logging.New(c.Log.Level, c.Log.JSON)
	if err != nil {
		return err
	}

	cfg, logger = c, l
	logger.Debug("configuration loaded",
		zap.String("path", info.Path),
		zap.String("ocr_backend", cfg.OCR.Backend),
		zap.String("store_driver", cfg.Store.Driver),
	)
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config.toml")
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "Env files to load (default .env)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override log level (debug, info, warn, error)")

	rootCmd.AddCommand(serveCmd, parseCmd, targetsCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
