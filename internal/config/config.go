package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is used when CONFIG_PATH is not set.
const DefaultPath = "configs/config.yaml"

// Config holds all application configuration.
type Config struct {
	Server struct {
		Port           string        `yaml:"port"`
		Env            string        `yaml:"env"`
		RequestTimeout time.Duration `yaml:"request_timeout"`
		AllowedOrigins []string      `yaml:"allowed_origins"`
	} `yaml:"server"`
	DataSource struct {
		Provider string `yaml:"provider"`
		BaseURL  string `yaml:"base_url"`
		APIKey   string `yaml:"api_key"`
	} `yaml:"data_source"`
	Predictor struct {
		Ticker       string `yaml:"ticker"`
		NPast        int    `yaml:"n_past"`
		NFuture      int    `yaml:"n_future"`
		LookbackDays int    `yaml:"lookback_days"`
	} `yaml:"predictor"`
	Model struct {
		Kind       string        `yaml:"kind"`
		ServingURL string        `yaml:"serving_url"`
		Name       string        `yaml:"name"`
		Timeout    time.Duration `yaml:"timeout"`
		Serialize  bool          `yaml:"serialize"`
	} `yaml:"model"`
	KeepAlive struct {
		Enabled     bool          `yaml:"enabled"`
		URL         string        `yaml:"url"`
		MinInterval time.Duration `yaml:"min_interval"`
		MaxInterval time.Duration `yaml:"max_interval"`
	} `yaml:"keep_alive"`
	Schedule struct {
		DigestCron string `yaml:"digest_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Proxy string `yaml:"proxy"`
}

// PathFromEnv returns CONFIG_PATH or the default location.
func PathFromEnv() string {
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return DefaultPath
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file is not an error.
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

	applyEnv(cfg)
	applyDefaults(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	strs := []struct {
		key string
		dst *string
	}{
		{"PORT", &cfg.Server.Port},
		{"API_ENV", &cfg.Server.Env},
		{"TICKER", &cfg.Predictor.Ticker},
		{"DATA_PROVIDER", &cfg.DataSource.Provider},
		{"DATA_BASE_URL", &cfg.DataSource.BaseURL},
		{"DATA_API_KEY", &cfg.DataSource.APIKey},
		{"MODEL_KIND", &cfg.Model.Kind},
		{"MODEL_SERVING_URL", &cfg.Model.ServingURL},
		{"MODEL_NAME", &cfg.Model.Name},
		{"KEEP_ALIVE_URL", &cfg.KeepAlive.URL},
		{"CRON_DIGEST", &cfg.Schedule.DigestCron},
		{"SQLITE_PATH", &cfg.Database.SQLitePath},
		{"TELEGRAM_BOT_TOKEN", &cfg.Telegram.BotToken},
		{"TELEGRAM_CHAT_ID", &cfg.Telegram.ChatID},
		{"HTTPS_PROXY", &cfg.Proxy},
	}
	for _, s := range strs {
		if v := os.Getenv(s.key); v != "" {
			*s.dst = v
		}
	}

	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.Server.AllowedOrigins = origins
	}
	if v := os.Getenv("KEEP_ALIVE_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.KeepAlive.Enabled = b
		}
	}
	// A keep-alive URL in the environment implies the loop should run.
	if os.Getenv("KEEP_ALIVE_URL") != "" && os.Getenv("KEEP_ALIVE_ENABLED") == "" {
		cfg.KeepAlive.Enabled = true
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "5000"
	}
	if cfg.Server.Env == "" {
		cfg.Server.Env = "development"
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = 30 * time.Second
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = []string{"*"}
	}
	if cfg.DataSource.Provider == "" {
		cfg.DataSource.Provider = "yahoo"
	}
	if cfg.Predictor.Ticker == "" {
		cfg.Predictor.Ticker = "NVDA"
	}
	if cfg.Predictor.NPast == 0 {
		cfg.Predictor.NPast = 30
	}
	if cfg.Predictor.NFuture == 0 {
		cfg.Predictor.NFuture = 5
	}
	if cfg.Predictor.LookbackDays == 0 {
		cfg.Predictor.LookbackDays = 60
	}
	if cfg.Model.Kind == "" {
		cfg.Model.Kind = "naive"
	}
	if cfg.Model.Name == "" {
		cfg.Model.Name = "nvda_lstm"
	}
	if cfg.Model.Timeout == 0 {
		cfg.Model.Timeout = 20 * time.Second
	}
	if cfg.KeepAlive.MinInterval == 0 {
		cfg.KeepAlive.MinInterval = 5 * time.Minute
	}
	if cfg.KeepAlive.MaxInterval == 0 {
		cfg.KeepAlive.MaxInterval = 10 * time.Minute
	}
}

// TelegramEnabled reports whether both Telegram credentials are present.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// Validate checks that all required fields are set and consistent.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}
	if c.Server.RequestTimeout < 0 {
		return fmt.Errorf("server.request_timeout must not be negative")
	}
	switch c.DataSource.Provider {
	case "yahoo":
	case "rest":
		if c.DataSource.BaseURL == "" {
			return fmt.Errorf("data_source.base_url is required for the rest provider")
		}
	default:
		return fmt.Errorf("data_source.provider %q is not supported", c.DataSource.Provider)
	}
	if c.Predictor.NPast <= 0 {
		return fmt.Errorf("predictor.n_past must be positive")
	}
	if c.Predictor.NFuture <= 0 {
		return fmt.Errorf("predictor.n_future must be positive")
	}
	if c.Predictor.LookbackDays < c.Predictor.NPast {
		return fmt.Errorf("predictor.lookback_days (%d) must cover n_past (%d)", c.Predictor.LookbackDays, c.Predictor.NPast)
	}
	switch c.Model.Kind {
	case "naive":
	case "serving":
		if c.Model.ServingURL == "" {
			return fmt.Errorf("model.serving_url is required for the serving model")
		}
	default:
		return fmt.Errorf("model.kind %q is not supported", c.Model.Kind)
	}
	if c.KeepAlive.Enabled {
		if c.KeepAlive.URL == "" {
			return fmt.Errorf("keep_alive.url is required when keep_alive is enabled")
		}
		if c.KeepAlive.MinInterval <= 0 || c.KeepAlive.MaxInterval < c.KeepAlive.MinInterval {
			return fmt.Errorf("keep_alive intervals must satisfy 0 < min_interval <= max_interval")
		}
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	if c.Schedule.DigestCron != "" && !c.TelegramEnabled() && c.Database.SQLitePath == "" {
		return fmt.Errorf("schedule.digest_cron needs telegram credentials or a database to report to")
	}
	return nil
}
