package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// DefaultTickers is the universe scored when none is configured.
var DefaultTickers = []string{"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA", "META", "TSLA", "AMD", "INTC", "CRM"}

// Config holds all application configuration.
type Config struct {
	Provider struct {
		BaseURL        string  `yaml:"base_url"`
		APIKey         string  `yaml:"api_key"`
		RatePerMinute  float64 `yaml:"rate_per_minute"`
		TimeoutSeconds int     `yaml:"timeout_seconds"`
	} `yaml:"provider"`
	Universe struct {
		Tickers []string `yaml:"tickers"`
	} `yaml:"universe"`
	Runner struct {
		Workers          int `yaml:"workers"`
		FailureThreshold int `yaml:"failure_threshold"`
	} `yaml:"runner"`
	Schedule struct {
		RunCron string `yaml:"run_cron"`
	} `yaml:"schedule"`
	Report struct {
		JSONPath string `yaml:"json_path"`
	} `yaml:"report"`
	Reference struct {
		Path string `yaml:"path"`
	} `yaml:"reference"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Metrics struct {
		ListenAddr string `yaml:"listen_addr"`
	} `yaml:"metrics"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides
// and defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("POLYGON_API_KEY"); v != "" {
		c.Provider.APIKey = v
	}
	if v := os.Getenv("POLYGON_BASE_URL"); v != "" {
		c.Provider.BaseURL = v
	}
	if v := os.Getenv("TICKERS"); v != "" {
		c.Universe.Tickers = strings.Split(v, ",")
	}
	if v := os.Getenv("CRON_RUN"); v != "" {
		c.Schedule.RunCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Database.SQLitePath = v
	}
	if v := os.Getenv("REPORT_PATH"); v != "" {
		c.Report.JSONPath = v
	}
	if v := os.Getenv("REFERENCE_PATH"); v != "" {
		c.Reference.Path = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.Proxy = v
	}
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		c.Metrics.ListenAddr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Runner.Workers = n
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Provider.BaseURL == "" {
		c.Provider.BaseURL = "https://api.polygon.io"
	}
	if c.Provider.RatePerMinute == 0 {
		c.Provider.RatePerMinute = 5
	}
	if c.Provider.TimeoutSeconds == 0 {
		c.Provider.TimeoutSeconds = 30
	}

	tickers := c.Universe.Tickers[:0]
	for _, t := range c.Universe.Tickers {
		if t = strings.ToUpper(strings.TrimSpace(t)); t != "" {
			tickers = append(tickers, t)
		}
	}
	c.Universe.Tickers = tickers
	if len(c.Universe.Tickers) == 0 {
		c.Universe.Tickers = append([]string(nil), DefaultTickers...)
	}

	if c.Runner.Workers == 0 {
		c.Runner.Workers = 4
	}
	if c.Runner.FailureThreshold == 0 {
		c.Runner.FailureThreshold = 50
	}
	if c.Schedule.RunCron == "" {
		c.Schedule.RunCron = "0 0 22 * * 1-5"
	}
	if c.Report.JSONPath == "" {
		c.Report.JSONPath = "docs/data.json"
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/scorer.db"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Provider.APIKey == "" {
		return errors.New("provider.api_key is required")
	}
	if len(c.Universe.Tickers) == 0 {
		return errors.New("universe.tickers must not be empty")
	}
	if c.Runner.Workers < 1 {
		return errors.New("runner.workers must be at least 1")
	}
	if c.Runner.FailureThreshold < 1 {
		return errors.New("runner.failure_threshold must be at least 1")
	}
	if c.Provider.RatePerMinute <= 0 {
		return errors.New("provider.rate_per_minute must be positive")
	}
	if c.Telegram.BotToken != "" && c.Telegram.ChatID == "" {
		return errors.New("telegram.chat_id is required when telegram.bot_token is set")
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// LogLevel returns the configured zerolog level, info when unparsable.
func (c *Config) LogLevel() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
