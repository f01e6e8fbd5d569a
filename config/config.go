package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Sink kinds accepted in notifications.sink.
const (
	SinkNATS    = "nats"
	SinkWebhook = "webhook"
	SinkLog     = "log"
)

// Config struct to hold the configuration settings
type Config struct {
	Postgres      PostgresConfig      `yaml:"postgres"`
	NATS          NATSConfig          `yaml:"nats"`
	Redis         RedisConfig         `yaml:"redis"`
	Slack         SlackConfig         `yaml:"slack"`
	HTTP          HTTPConfig          `yaml:"http"`
	Tracker       TrackerConfig       `yaml:"tracker"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// PostgresConfig holds Postgres configuration.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// NATSConfig holds NATS configuration.
type NATSConfig struct {
	URL       string `yaml:"url"`
	NKeySeed  string `yaml:"nkey_seed"`
	JetStream bool   `yaml:"jetstream"`
	Stream    string `yaml:"stream"`
}

// RedisConfig holds the check-command cache settings. An empty Addr disables the cache.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

// SlackConfig holds the slash-command settings.
type SlackConfig struct {
	SigningSecret string `yaml:"signing_secret"`
}

// HTTPConfig holds the inbound HTTP server settings.
type HTTPConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	RequestsPerSec  float64       `yaml:"requests_per_sec"`
	Burst           int           `yaml:"burst"`
}

// TrackerConfig controls polling and status page fetching.
type TrackerConfig struct {
	StatusURLTemplate string        `yaml:"status_url_template"`
	PollInterval      time.Duration `yaml:"poll_interval"`
	FetchTimeout      time.Duration `yaml:"fetch_timeout"`
	MaxConcurrency    int           `yaml:"max_concurrency"`
	FetchRate         float64       `yaml:"fetch_rate"`
	FinishedMarker    string        `yaml:"finished_marker"`
	// MissingTimerFinishes treats a status page without a timer as a finished game.
	MissingTimerFinishes bool `yaml:"missing_timer_finishes"`
}

// NotificationsConfig selects where turn notifications go.
type NotificationsConfig struct {
	Sink       string `yaml:"sink"`
	Subject    string `yaml:"subject"`
	WebhookURL string `yaml:"webhook_url"`
}

// ObservabilityConfig holds configuration for observability components
type ObservabilityConfig struct {
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
	Environment string `yaml:"environment"`
}

// LoadConfig loads the configuration from a YAML file, then applies .env and
// environment overrides. A missing file falls back to the environment alone.
func LoadConfig(filename string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	var cfg Config
	data, err := os.ReadFile(filename)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	setString := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	setString(&cfg.Postgres.DSN, "DATABASE_URL")
	setString(&cfg.NATS.URL, "NATS_URL")
	setString(&cfg.NATS.NKeySeed, "NATS_NKEY_SEED")
	setString(&cfg.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	setString(&cfg.Slack.SigningSecret, "SLACK_SIGNING_SECRET")
	setString(&cfg.HTTP.Addr, "HTTP_ADDR")
	setString(&cfg.Tracker.StatusURLTemplate, "STATUS_URL_TEMPLATE")
	setString(&cfg.Tracker.FinishedMarker, "FINISHED_MARKER")
	setString(&cfg.Notifications.Sink, "NOTIFICATION_SINK")
	setString(&cfg.Notifications.Subject, "NOTIFICATION_SUBJECT")
	setString(&cfg.Notifications.WebhookURL, "SLACK_WEBHOOK_URL")
	setString(&cfg.Observability.LogLevel, "LOG_LEVEL")
	setString(&cfg.Observability.LogFormat, "LOG_FORMAT")
	setString(&cfg.Observability.Environment, "ENV")

	if v := os.Getenv("PORT"); v != "" && cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":" + v
	}
	if v := os.Getenv("NATS_JETSTREAM"); v != "" {
		cfg.NATS.JetStream = v == "true"
	}
	if v := os.Getenv("MISSING_TIMER_FINISHES"); v != "" {
		cfg.Tracker.MissingTimerFinishes = v == "true"
	}
	if v := os.Getenv("POLL_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid POLL_INTERVAL value: %w", err)
		}
		cfg.Tracker.PollInterval = d
	}
	if v := os.Getenv("FETCH_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid FETCH_TIMEOUT value: %w", err)
		}
		cfg.Tracker.FetchTimeout = d
	}
	if v := os.Getenv("MAX_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid MAX_CONCURRENCY value: %w", err)
		}
		cfg.Tracker.MaxConcurrency = n
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid REDIS_DB value: %w", err)
		}
		cfg.Redis.DB = n
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":3000"
	}
	if cfg.HTTP.ShutdownTimeout <= 0 {
		cfg.HTTP.ShutdownTimeout = 10 * time.Second
	}
	if cfg.Tracker.PollInterval <= 0 {
		cfg.Tracker.PollInterval = 15 * time.Minute
	}
	if cfg.Tracker.FetchTimeout <= 0 {
		cfg.Tracker.FetchTimeout = 15 * time.Second
	}
	if cfg.Tracker.MaxConcurrency <= 0 {
		cfg.Tracker.MaxConcurrency = 4
	}
	if cfg.Tracker.FinishedMarker == "" {
		cfg.Tracker.FinishedMarker = "finished"
	}
	if cfg.Notifications.Sink == "" {
		if cfg.NATS.URL != "" {
			cfg.Notifications.Sink = SinkNATS
		} else {
			cfg.Notifications.Sink = SinkLog
		}
	}
	if cfg.Notifications.Subject == "" {
		cfg.Notifications.Subject = "dombot.notifications"
	}
	if cfg.NATS.Stream == "" {
		cfg.NATS.Stream = "DOMBOT"
	}
	if cfg.Redis.TTL <= 0 {
		cfg.Redis.TTL = 2 * time.Minute
	}
	if cfg.Observability.LogLevel == "" {
		cfg.Observability.LogLevel = "info"
	}
	if cfg.Observability.LogFormat == "" {
		cfg.Observability.LogFormat = "json"
	}
}

// Validate reports settings that cannot work together.
func (c *Config) Validate() error {
	if c.Postgres.DSN == "" {
		return fmt.Errorf("DATABASE_URL environment variable not set")
	}
	switch c.Notifications.Sink {
	case SinkNATS:
		if c.NATS.URL == "" {
			return fmt.Errorf("notification sink %q requires NATS_URL", c.Notifications.Sink)
		}
	case SinkWebhook:
		if c.Notifications.WebhookURL == "" {
			return fmt.Errorf("notification sink %q requires SLACK_WEBHOOK_URL", c.Notifications.Sink)
		}
	case SinkLog:
	default:
		return fmt.Errorf("unknown notification sink %q", c.Notifications.Sink)
	}
	return nil
}
