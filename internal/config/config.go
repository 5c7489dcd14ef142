package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileName is the config file at the root of a books repo.
const FileName = "books.yaml"

// Storage drivers.
const (
	DriverMemory   = "memory"
	DriverCSV      = "csv"
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Environment variables that override the file.
const (
	EnvStorageDriver = "BOOKS_STORAGE_DRIVER"
	EnvStorageDSN    = "BOOKS_STORAGE_DSN"
	EnvKafkaBrokers  = "BOOKS_KAFKA_BROKERS"
	EnvKafkaTopic    = "BOOKS_KAFKA_TOPIC"
	EnvWebhookURL    = "BOOKS_WEBHOOK_URL"
	EnvLogLevel      = "BOOKS_LOG_LEVEL"
)

// Config represents the top-level books.yaml configuration.
type Config struct {
	Business BusinessConfig `yaml:"business"`
	Accounts AccountsConfig `yaml:"accounts"`
	Storage  StorageConfig  `yaml:"storage"`
	Notify   NotifyConfig   `yaml:"notify"`
	Log      LogConfig      `yaml:"log"`
}

// BusinessConfig identifies the business.
type BusinessConfig struct {
	Name     string `yaml:"name"`
	Currency string `yaml:"currency"` // ISO 4217 code used when rendering amounts
}

// AccountsConfig names the ledger accounts that orders post to.
type AccountsConfig struct {
	Cash             string `yaml:"cash"`
	Revenue          string `yaml:"revenue"`
	COGS             string `yaml:"cogs"`
	Inventory        string `yaml:"inventory"`
	RetainedEarnings string `yaml:"retained_earnings"`
}

// StorageConfig selects where accepted orders are persisted.
type StorageConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn,omitempty"`
}

// NotifyConfig configures order confirmations. Empty sections are disabled.
type NotifyConfig struct {
	Kafka   KafkaConfig   `yaml:"kafka"`
	Webhook WebhookConfig `yaml:"webhook"`
}

// KafkaConfig configures the Kafka publisher.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers,omitempty"`
	Topic   string   `yaml:"topic"`
}

// WebhookConfig configures the webhook publisher.
type WebhookConfig struct {
	URL     string        `yaml:"url,omitempty"`
	Timeout time.Duration `yaml:"timeout"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads a books.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default(businessName string) *Config {
	return &Config{
		Business: BusinessConfig{
			Name:     businessName,
			Currency: "USD",
		},
		Accounts: AccountsConfig{
			Cash:             "Cash",
			Revenue:          "Sales Revenue",
			COGS:             "Cost of Goods Sold",
			Inventory:        "Inventory",
			RetainedEarnings: "Retained Earnings",
		},
		Storage: StorageConfig{
			Driver: DriverCSV,
		},
		Notify: NotifyConfig{
			Kafka:   KafkaConfig{Topic: "order_completed"},
			Webhook: WebhookConfig{Timeout: 10 * time.Second},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// ApplyEnv loads envFile into the process environment when it exists, then
// overrides cfg with any BOOKS_* variables that are set. Variables already
// present in the environment win over the file.
func ApplyEnv(cfg *Config, envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	if v, ok := os.LookupEnv(EnvStorageDriver); ok {
		cfg.Storage.Driver = v
	}
	if v, ok := os.LookupEnv(EnvStorageDSN); ok {
		cfg.Storage.DSN = v
	}
	if v, ok := os.LookupEnv(EnvKafkaBrokers); ok {
		cfg.Notify.Kafka.Brokers = splitList(v)
	}
	if v, ok := os.LookupEnv(EnvKafkaTopic); ok {
		cfg.Notify.Kafka.Topic = v
	}
	if v, ok := os.LookupEnv(EnvWebhookURL); ok {
		cfg.Notify.Webhook.URL = v
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok {
		cfg.Log.Level = v
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate checks the settings that cannot be defaulted.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverMemory, DriverCSV, DriverSQLite:
	case DriverPostgres:
		if c.Storage.DSN == "" {
			return fmt.Errorf("storage: driver %q requires a dsn", c.Storage.Driver)
		}
	default:
		return fmt.Errorf("storage: unknown driver %q", c.Storage.Driver)
	}

	a := c.Accounts
	for name, v := range map[string]string{
		"cash": a.Cash, "revenue": a.Revenue, "cogs": a.COGS,
		"inventory": a.Inventory, "retained_earnings": a.RetainedEarnings,
	} {
		if v == "" {
			return fmt.Errorf("accounts: %s is required", name)
		}
	}
	return nil
}
