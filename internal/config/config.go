// Package config loads the bot settings from config.toml, an optional .env
// file and environment variables, in that order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/ironsheep/salesbot-ocr/internal/bot"
	"github.com/ironsheep/salesbot-ocr/internal/imaging"
	"github.com/ironsheep/salesbot-ocr/internal/ocr"
	"github.com/ironsheep/salesbot-ocr/internal/report"
)

// FileName is the config file looked up when no path is given.
const FileName = "config.toml"

// Config is the whole application configuration.
type Config struct {
	Server ServerConfig `toml:"server"`
	Line   LineConfig   `toml:"line"`
	OCR    OCRConfig    `toml:"ocr"`
	Store  StoreConfig  `toml:"store"`
	Report ReportConfig `toml:"report"`
	Log    LogConfig    `toml:"log"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port            int      `toml:"port"`
	DevMode         bool     `toml:"dev_mode"`
	WebhookPath     string   `toml:"webhook_path"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`

	// EventTimeout bounds the processing of one webhook delivery, which
	// continues after the HTTP answer has been sent.
	EventTimeout Duration `toml:"event_timeout"`
}

// LineConfig holds the Messaging API channel credentials.
type LineConfig struct {
	ChannelToken  string   `toml:"channel_token"`
	ChannelSecret string   `toml:"channel_secret"`
	APIBase       string   `toml:"api_base"`
	DataAPIBase   string   `toml:"data_api_base"`
	Timeout       Duration `toml:"timeout"`
}

// OCRConfig selects and tunes the OCR backend.
type OCRConfig struct {
	Backend        string          `toml:"backend"`
	Language       string          `toml:"language"`
	TessdataPrefix string          `toml:"tessdata_prefix"`
	Preprocess     bool            `toml:"preprocess"`
	Imaging        imaging.Options `toml:"imaging"`
	GeminiAPIKey   string          `toml:"gemini_api_key"`
	GeminiModel    string          `toml:"gemini_model"`
	Timeout        Duration        `toml:"timeout"`
}

// StoreConfig selects the target store.
type StoreConfig struct {
	Driver string `toml:"driver"`
	Path   string `toml:"path"`
}

// ReportConfig shapes parsing and rendering.
type ReportConfig struct {
	LayoutsFile  string        `toml:"layouts_file"`
	WatchLayouts bool          `toml:"watch_layouts"`
	Timezone     string        `toml:"timezone"`
	DateFormat   string        `toml:"date_format"`
	BuddhistEra  bool          `toml:"buddhist_era"`
	Labels       report.Labels `toml:"labels"`
	Replies      bot.Replies   `toml:"replies"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level string `toml:"level"`
	JSON  bool   `toml:"json"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            3000,
			WebhookPath:     "/webhook",
			ShutdownTimeout: Duration{10 * time.Second},
			EventTimeout:    Duration{2 * time.Minute},
		},
		Line: LineConfig{
			Timeout: Duration{30 * time.Second},
		},
		OCR: OCRConfig{
			Backend:    "tesseract",
			Language:   ocr.DefaultLanguage,
			Preprocess: true,
			Imaging:    imaging.DefaultOptions(),
			Timeout:    Duration{60 * time.Second},
		},
		Store: StoreConfig{
			Driver: "sqlite",
			Path:   filepath.Join("data", "targets.db"),
		},
		Report: ReportConfig{
			Timezone:    "Asia/Bangkok",
			DateFormat:  report.DefaultDateFormat,
			BuddhistEra: true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadInfo describes where the configuration came from.
type LoadInfo struct {
	// Path is the config file that was read, empty when defaults were used.
	Path string
}

// Load reads the config file at path. An empty path looks for config.toml
// next to the executable, then in the working directory; a missing file
// there means defaults. An explicit path must exist. Environment variables
// override the file afterwards.
func Load(path string) (*Config, LoadInfo, error) {
	info := LoadInfo{}
	cfg := Default()

	candidates := []string{path}
	if path == "" {
		candidates = searchPaths()
	}

	for _, p := range candidates {
		data, err := os.ReadFile(p)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) && path == "" {
				continue
			}
			return nil, info, fmt.Errorf("failed to read config: %w", err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, info, fmt.Errorf("failed to parse %s: %w", p, err)
		}
		info.Path = p
		break
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, info, err
	}
	return cfg, info, nil
}

func searchPaths() []string {
	var paths []string
	if exe, err := os.Executable(); err == nil {
		paths = append(paths, filepath.Join(filepath.Dir(exe), FileName))
	}
	return append(paths, FileName)
}

// LoadEnv loads KEY=value files into the process environment without
// overriding variables that are already set. Missing files are skipped.
// With no arguments it loads .env from the working directory.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

func (c *Config) applyEnv() error {
	setString := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v := strings.TrimSpace(os.Getenv(k)); v != "" {
				*dst = v
				return
			}
		}
	}

	setString(&c.Line.ChannelToken, "SALESBOT_LINE_TOKEN", "LINE_TOKEN")
	setString(&c.Line.ChannelSecret, "SALESBOT_LINE_CHANNEL_SECRET", "LINE_CHANNEL_SECRET")
	setString(&c.OCR.GeminiAPIKey, "SALESBOT_GEMINI_API_KEY", "GEMINI_API_KEY")
	setString(&c.OCR.Backend, "SALESBOT_OCR_BACKEND")
	setString(&c.Store.Path, "SALESBOT_STORE_PATH")
	setString(&c.Log.Level, "SALESBOT_LOG_LEVEL")
	setString(&c.Report.LayoutsFile, "SALESBOT_LAYOUTS_FILE")

	var port string
	setString(&port, "SALESBOT_PORT", "PORT")
	if port != "" {
		n, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid port %q: %w", port, err)
		}
		c.Server.Port = n
	}
	return nil
}

// Validate checks settings every command depends on.
func (c *Config) Validate() error {
	var errs []error

	switch c.OCR.Backend {
	case "", "tesseract":
	case "gemini":
		if c.OCR.GeminiAPIKey == "" {
			errs = append(errs, errors.New("ocr: gemini backend requires gemini_api_key"))
		}
	default:
		errs = append(errs, fmt.Errorf("ocr: unknown backend %q", c.OCR.Backend))
	}

	switch c.Store.Driver {
	case "", "sqlite":
		if c.Store.Path == "" {
			errs = append(errs, errors.New("store: sqlite driver requires a path"))
		}
	case "memory":
	default:
		errs = append(errs, fmt.Errorf("store: unknown driver %q", c.Store.Driver))
	}

	if _, err := c.Location(); err != nil {
		errs = append(errs, fmt.Errorf("report: %w", err))
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log: unknown level %q", c.Log.Level))
	}

	return errors.Join(errs...)
}

// ValidateServe adds the checks needed to run the webhook server.
func (c *Config) ValidateServe() error {
	var errs []error
	if err := c.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Line.ChannelToken == "" {
		errs = append(errs, errors.New("line: channel_token is required (or LINE_TOKEN)"))
	}
	if c.Line.ChannelSecret == "" {
		errs = append(errs, errors.New("line: channel_secret is required (or LINE_CHANNEL_SECRET)"))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server: invalid port %d", c.Server.Port))
	}
	if !strings.HasPrefix(c.Server.WebhookPath, "/") {
		errs = append(errs, fmt.Errorf("server: webhook_path must start with /"))
	}
	return errors.Join(errs...)
}

// Location resolves the report timezone. Empty means local time.
func (c *Config) Location() (*time.Location, error) {
	if c.Report.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Report.Timezone)
}

// OCROptions converts the [ocr] section for ocr.New.
func (c *Config) OCROptions() ocr.Options {
	return ocr.Options{
		Backend:        c.OCR.Backend,
		Language:       c.OCR.Language,
		TessdataPrefix: c.OCR.TessdataPrefix,
		Preprocess:     c.OCR.Preprocess,
		Imaging:        c.OCR.Imaging,
		GeminiAPIKey:   c.OCR.GeminiAPIKey,
		GeminiModel:    c.OCR.GeminiModel,
		Timeout:        c.OCR.Timeout.Duration,
	}
}

// Address is the listen address for the HTTP server.
func (c *Config) Address() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
