package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	coreconfig "github.com/techadmin009/resumegenie/core/config"
	coredatabase "github.com/techadmin009/resumegenie/core/database"
)

// PremiumConfig controls premium key issuing and redemption.
type PremiumConfig struct {
	// Secret signs premium keys; keys generated with a different secret never verify.
	Secret                string `yaml:"secret" envconfig:"PREMIUM_KEY_SECRET"`
	DefaultKeyDays        int    `yaml:"default_key_days" envconfig:"PREMIUM_DEFAULT_KEY_DAYS"`
	MaxKeyDays            int    `yaml:"max_key_days" envconfig:"PREMIUM_MAX_KEY_DAYS"`
	MaxRedeemAttempts     int    `yaml:"max_redeem_attempts" envconfig:"PREMIUM_MAX_REDEEM_ATTEMPTS"`
	RedeemCooldownSeconds int    `yaml:"redeem_cooldown_seconds" envconfig:"PREMIUM_REDEEM_COOLDOWN_SECONDS"`
}

// PDFConfig points the renderer at the TTF fonts it embeds.
type PDFConfig struct {
	FontDir     string `yaml:"font_dir" envconfig:"PDF_FONT_DIR"`
	FontRegular string `yaml:"font_regular" envconfig:"PDF_FONT_REGULAR"`
	FontBold    string `yaml:"font_bold" envconfig:"PDF_FONT_BOLD"`
}

// HealthConfig configures the liveness HTTP endpoint.
type HealthConfig struct {
	Listen string `yaml:"listen" envconfig:"HEALTH_LISTEN"`
	Port   int    `yaml:"port" envconfig:"HEALTH_PORT"`
}

// SenderConfig tunes the outbound Telegram dispatcher.
type SenderConfig struct {
	QueueSize      int `yaml:"queue_size" envconfig:"SENDER_QUEUE_SIZE"`
	Workers        int `yaml:"workers" envconfig:"SENDER_WORKERS"`
	MaxRetries     int `yaml:"max_retries" envconfig:"SENDER_MAX_RETRIES"`
	RetryBackoffMS int `yaml:"retry_backoff_ms" envconfig:"SENDER_RETRY_BACKOFF_MS"`
}

// MonitorConfig controls the background redeem abuse monitor.
type MonitorConfig struct {
	IntervalSeconds int `yaml:"interval_seconds" envconfig:"MONITOR_INTERVAL_SECONDS"`
}

// Config aggregates core and application configuration for the bot.
type Config struct {
	Core coreconfig.Config `yaml:",inline"`

	Database coredatabase.Config `yaml:"database"`
	Premium  PremiumConfig       `yaml:"premium"`
	PDF      PDFConfig           `yaml:"pdf"`
	Health   HealthConfig        `yaml:"health"`
	Sender   SenderConfig        `yaml:"sender"`
	Monitor  MonitorConfig       `yaml:"monitor"`
}

// CoreConfig exposes the embedded core configuration for the shared runner.
func (c *Config) CoreConfig() *coreconfig.Config {
	if c == nil {
		return nil
	}
	return &c.Core
}

// Load reads configuration from a YAML file and environment variables.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := coreconfig.Normalize(&cfg.Core); err != nil {
		return nil, err
	}
	if err := normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func normalize(cfg *Config) error {
	if strings.TrimSpace(cfg.Premium.Secret) == "" {
		return fmt.Errorf("premium.secret is required")
	}
	if cfg.Premium.DefaultKeyDays <= 0 {
		cfg.Premium.DefaultKeyDays = 30
	}
	if cfg.Premium.MaxKeyDays <= 0 {
		cfg.Premium.MaxKeyDays = 365
	}
	if cfg.Premium.DefaultKeyDays > cfg.Premium.MaxKeyDays {
		return fmt.Errorf("premium.default_key_days must not exceed premium.max_key_days")
	}
	if cfg.Premium.MaxRedeemAttempts <= 0 {
		cfg.Premium.MaxRedeemAttempts = 5
	}
	if cfg.Premium.RedeemCooldownSeconds <= 0 {
		cfg.Premium.RedeemCooldownSeconds = 300
	}

	if strings.TrimSpace(cfg.PDF.FontDir) == "" {
		cfg.PDF.FontDir = "fonts"
	}
	if strings.TrimSpace(cfg.PDF.FontRegular) == "" {
		cfg.PDF.FontRegular = "DejaVuSans.ttf"
	}
	if strings.TrimSpace(cfg.PDF.FontBold) == "" {
		cfg.PDF.FontBold = "DejaVuSans-Bold.ttf"
	}

	if cfg.Health.Port < 0 {
		return fmt.Errorf("health.port must be >= 0")
	}
	if cfg.Health.Port == 0 {
		cfg.Health.Port = 8080
	}

	if cfg.Monitor.IntervalSeconds <= 0 {
		cfg.Monitor.IntervalSeconds = 300
	}
	return nil
}
