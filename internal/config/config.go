package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Store drivers accepted by STORE_DRIVER.
const (
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
	StoreMemory   = "memory"
)

type Config struct {
	Token   string `koanf:"token"`
	GuildID string `koanf:"guild_id"`

	StoreDriver    string `koanf:"store_driver"`
	DatabaseURL    string `koanf:"database_url"`
	MigrationsPath string `koanf:"migrations_path"`
	MongoURI       string `koanf:"mongo_uri"`
	MongoDatabase  string `koanf:"mongo_database"`

	// RedisAddr enables the cross-process sweep lock when set.
	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`

	CompletionInterval time.Duration `koanf:"completion_interval"`
	ReminderInterval   time.Duration `koanf:"reminder_interval"`
	SweepConcurrency   int           `koanf:"sweep_concurrency"`

	DefaultLocale string `koanf:"default_locale"`
	MetricsAddr   string `koanf:"metrics_addr"`
	AppEnv        string `koanf:"app_env"`
	LogLevel      string `koanf:"log_level"`
}

// New returns the defaults every source overrides.
func New() *Config {
	return &Config{
		StoreDriver:        StorePostgres,
		DatabaseURL:        "postgres://localhost:5432/prostava?sslmode=disable",
		MigrationsPath:     "migrations",
		MongoDatabase:      "prostava",
		CompletionInterval: time.Minute,
		ReminderInterval:   24 * time.Hour,
		SweepConcurrency:   8,
		DefaultLocale:      "en",
		MetricsAddr:        ":9090",
		AppEnv:             "development",
		LogLevel:           "info",
	}
}

var envKeys = map[string]bool{
	"token": true, "guild_id": true,
	"store_driver": true, "database_url": true, "migrations_path": true,
	"mongo_uri": true, "mongo_database": true,
	"redis_addr": true, "redis_password": true, "redis_db": true,
	"completion_interval": true, "reminder_interval": true, "sweep_concurrency": true,
	"default_locale": true, "metrics_addr": true, "app_env": true, "log_level": true,
}

// Load layers defaults, the YAML file named by CONFIG_FILE and the environment
// (a .env file is read first when present), then validates the result.
func Load() (*Config, error) {
	// .env is optional when variables come from the environment (Docker, CI).
	_ = godotenv.Load()

	k := koanf.New(".")

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	envProvider := env.Provider("", ".", func(s string) string {
		key := strings.ToLower(s)
		if !envKeys[key] {
			return ""
		}
		return key
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("config: read environment: %w", err)
	}

	cfg := *New()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Token) == "" {
		return fmt.Errorf("config: TOKEN is required")
	}

	switch c.StoreDriver {
	case StorePostgres:
		parsed, err := url.Parse(c.DatabaseURL)
		if err != nil {
			return fmt.Errorf("config: invalid DATABASE_URL (%q): %w", c.DatabaseURL, err)
		}
		if parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("config: invalid DATABASE_URL (%q): missing scheme or host", c.DatabaseURL)
		}
	case StoreMongo:
		if strings.TrimSpace(c.MongoURI) == "" {
			return fmt.Errorf("config: MONGO_URI is required with STORE_DRIVER=mongo")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("config: unknown STORE_DRIVER %q", c.StoreDriver)
	}

	if c.CompletionInterval <= 0 || c.ReminderInterval <= 0 {
		return fmt.Errorf("config: sweep intervals must be positive")
	}
	if c.SweepConcurrency < 1 {
		return fmt.Errorf("config: SWEEP_CONCURRENCY must be at least 1")
	}
	return nil
}
