// Load envs from .env
// Load YAML config
// Validate config
// Provide default values

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where the CLI looks for the YAML file.
const DefaultPath = "configs/config.yaml"

const (
	defaultOutputDir         = "output"
	defaultNavigationTimeout = 60 * time.Second
	defaultSettleDelay       = 2 * time.Second
	defaultControlTimeout    = 30 * time.Second
	defaultMaxPages          = 200
	defaultSubjectLocale     = "zh-CN"
)

type Config struct {
	OutputDir         string
	Headless          bool
	NavigationTimeout time.Duration
	SettleDelay       time.Duration
	ControlTimeout    time.Duration
	MaxPages          int
	SubjectLocale     language.Tag
	//Paths
	ScreenshotDir string
	CookiesPath   string
	//Run report, optional
	TelegramToken  string
	TelegramChatID int64

	Sources Sources
}

type Sources struct {
	Bytedance SourceConfig
	Alibaba   SourceConfig
	Tencent   SourceConfig
}

type SourceConfig struct {
	Enabled bool
	URL     string // empty means the built-in landing page
}

// TelegramEnabled reports whether a run report should be sent.
func (c *Config) TelegramEnabled() bool {
	return c.TelegramToken != ""
}

type rawConfig struct {
	OutputDir         string     `yaml:"output_dir"`
	Headless          *bool      `yaml:"headless"`
	NavigationTimeout string     `yaml:"navigation_timeout"`
	SettleDelay       string     `yaml:"settle_delay"`
	ControlTimeout    string     `yaml:"control_timeout"`
	MaxPages          *int       `yaml:"max_pages"`
	SubjectLocale     string     `yaml:"subject_locale"`
	ScreenshotDir     string     `yaml:"screenshot_dir"`
	CookiesPath       string     `yaml:"cookies_path"`
	TelegramToken     string     `yaml:"telegram_token"`
	TelegramChatID    int64      `yaml:"telegram_chat_id"`
	Sources           rawSources `yaml:"sources"`
}

type rawSources struct {
	Bytedance rawSource `yaml:"bytedance"`
	Alibaba   rawSource `yaml:"alibaba"`
	Tencent   rawSource `yaml:"tencent"`
}

type rawSource struct {
	Enabled *bool  `yaml:"enabled"`
	URL     string `yaml:"url"`
}

// Load reads .env and the YAML file at path, applies env overrides and
// defaults, and validates the result. A missing file is not an error: the
// defaults are used.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	var raw rawConfig
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Printf("⚠️ Config %s not found, using defaults", path)
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	//Override with env vars
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		raw.TelegramToken = token
	}
	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID %q: %w", chatID, err)
		}
		raw.TelegramChatID = id
	}
	if dir := os.Getenv("HARVESTER_OUTPUT_DIR"); dir != "" {
		raw.OutputDir = dir
	}

	cfg := &Config{
		OutputDir:      raw.OutputDir,
		Headless:       boolOr(raw.Headless, true),
		MaxPages:       defaultMaxPages,
		ScreenshotDir:  raw.ScreenshotDir,
		CookiesPath:    raw.CookiesPath,
		TelegramToken:  raw.TelegramToken,
		TelegramChatID: raw.TelegramChatID,
		Sources: Sources{
			Bytedance: source(raw.Sources.Bytedance),
			Alibaba:   source(raw.Sources.Alibaba),
			Tencent:   source(raw.Sources.Tencent),
		},
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = defaultOutputDir
	}
	if raw.MaxPages != nil {
		cfg.MaxPages = *raw.MaxPages
	}

	if cfg.NavigationTimeout, err = duration("navigation_timeout", raw.NavigationTimeout, defaultNavigationTimeout); err != nil {
		return nil, err
	}
	if cfg.SettleDelay, err = duration("settle_delay", raw.SettleDelay, defaultSettleDelay); err != nil {
		return nil, err
	}
	if cfg.ControlTimeout, err = duration("control_timeout", raw.ControlTimeout, defaultControlTimeout); err != nil {
		return nil, err
	}

	locale := raw.SubjectLocale
	if locale == "" {
		locale = defaultSubjectLocale
	}
	if cfg.SubjectLocale, err = language.Parse(locale); err != nil {
		return nil, fmt.Errorf("parse subject_locale %q: %w", locale, err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.NavigationTimeout <= 0 {
		return fmt.Errorf("navigation_timeout must be positive, got %v", cfg.NavigationTimeout)
	}
	if cfg.SettleDelay <= 0 {
		return fmt.Errorf("settle_delay must be positive, got %v", cfg.SettleDelay)
	}
	if cfg.ControlTimeout <= 0 {
		return fmt.Errorf("control_timeout must be positive, got %v", cfg.ControlTimeout)
	}
	if cfg.MaxPages < 0 {
		return fmt.Errorf("max_pages must not be negative, got %d", cfg.MaxPages)
	}
	if cfg.TelegramToken != "" && cfg.TelegramChatID == 0 {
		return errors.New("TELEGRAM_CHAT_ID is required when a Telegram token is set")
	}
	return nil
}

func duration(key, raw string, def time.Duration) (time.Duration, error) {
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", key, raw, err)
	}
	return d, nil
}

func source(raw rawSource) SourceConfig {
	return SourceConfig{Enabled: boolOr(raw.Enabled, true), URL: raw.URL}
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
