package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"

	ProviderTemplate = "template"
	ProviderOllama   = "ollama"
	ProviderOpenAI   = "openai"
)

type Config struct {
	Env       string          `mapstructure:"env"`
	Server    ServerConfig    `mapstructure:"http_server"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Reminders RemindersConfig `mapstructure:"reminders"`
	Currency  CurrencyConfig  `mapstructure:"currency"`
	Generator GeneratorConfig `mapstructure:"generator"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

type ServerConfig struct {
	Host        string        `mapstructure:"host"`
	Port        int           `mapstructure:"port"`
	Timeout     time.Duration `mapstructure:"timeout"`
	CORSOrigins []string      `mapstructure:"cors_origins"`
}

type StorageConfig struct {
	Backend  string       `mapstructure:"backend"`
	Redis    RedisConfig  `mapstructure:"redis"`
	Postgres PgConfig     `mapstructure:"postgres"`
	SQLite   SQLiteConfig `mapstructure:"sqlite"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Key      string `mapstructure:"key"`
}

type PgConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Db       string `mapstructure:"db"`
	SSLMode  string `mapstructure:"sslmode"`
}

// URL builds the postgres:// connection string
func (p PgConfig) URL() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(p.User, p.Password),
		Host:   fmt.Sprintf("%s:%d", p.Host, p.Port),
		Path:   "/" + p.Db,
	}
	if p.SSLMode != "" {
		u.RawQuery = "sslmode=" + url.QueryEscape(p.SSLMode)
	}
	return u.String()
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type RemindersConfig struct {
	WindowMinDays     int           `mapstructure:"window_min_days"`
	WindowMaxDays     int           `mapstructure:"window_max_days"`
	Timezone          string        `mapstructure:"timezone"`
	Concurrency       int           `mapstructure:"concurrency"`
	GenerationTimeout time.Duration `mapstructure:"generation_timeout"`
	ScanInterval      time.Duration `mapstructure:"scan_interval"`
	// Dedup - where issued reminder IDs live: memory (per process) or redis
	Dedup     string `mapstructure:"dedup"`
	IssuedKey string `mapstructure:"issued_key"`
}

// Location resolves the configured time zone; empty means UTC
func (r RemindersConfig) Location() (*time.Location, error) {
	if r.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(r.Timezone)
}

type CurrencyConfig struct {
	Base         string  `mapstructure:"base"`
	Secondary    string  `mapstructure:"secondary"`
	ExchangeRate float64 `mapstructure:"exchange_rate"`
	Display      string  `mapstructure:"display"`
}

type GeneratorConfig struct {
	Provider string        `mapstructure:"provider"`
	BaseURL  string        `mapstructure:"base_url"`
	Model    string        `mapstructure:"model"`
	APIKey   string        `mapstructure:"api_key"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "local")
	v.SetDefault("http_server.host", "localhost")
	v.SetDefault("http_server.port", 8080)
	v.SetDefault("http_server.timeout", 5*time.Second)
	v.SetDefault("storage.backend", BackendMemory)
	v.SetDefault("storage.redis.key", "subscriptions")
	v.SetDefault("storage.postgres.port", 5432)
	v.SetDefault("storage.sqlite.path", "data/subscriptions.db")
	v.SetDefault("reminders.window_min_days", 0)
	v.SetDefault("reminders.window_max_days", 3)
	v.SetDefault("reminders.timezone", "UTC")
	v.SetDefault("reminders.concurrency", 4)
	v.SetDefault("reminders.generation_timeout", 30*time.Second)
	v.SetDefault("reminders.scan_interval", time.Hour)
	v.SetDefault("reminders.dedup", BackendMemory)
	v.SetDefault("reminders.issued_key", "reminders:issued")
	v.SetDefault("currency.base", "USD")
	v.SetDefault("currency.secondary", "INR")
	v.SetDefault("currency.exchange_rate", 83.50)
	v.SetDefault("generator.provider", ProviderTemplate)
	v.SetDefault("generator.timeout", 30*time.Second)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.namespace", "subs_dashboard")
}

func resolvePath(cwd, p string) string {
	if p == "" {
		return ""
	}
	if filepath.IsAbs(p) {
		return p
	}
	if up, ok := findUp(cwd, p, 8); ok {
		return up
	}
	return filepath.Join(cwd, p)
}

func findUp(start, rel string, max int) (string, bool) {
	dir := start
	for i := 0; i <= max; i++ {
		p := filepath.Join(dir, rel)
		if _, err := os.Stat(p); err == nil {
			return p, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false
}

// LoadConfig reads the optional .env file, then the YAML config with ${VAR}
// expansion. SUBS_* environment variables override file values.
func LoadConfig() (*Config, error) {
	cwd, _ := os.Getwd()

	// 1) .env
	envPath := os.Getenv("CONFIG_ENV_PATH")
	if envPath == "" {
		if up, ok := findUp(cwd, ".env/local.env", 8); ok {
			envPath = up
		}
	} else {
		envPath = resolvePath(cwd, envPath)
	}
	if envPath != "" {
		if err := godotenv.Overload(envPath); err != nil {
			return nil, fmt.Errorf("load env file %q: %w", envPath, err)
		}
	}

	// 2) YAML
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		up, ok := findUp(cwd, "configs/local.yaml", 8)
		if !ok {
			return nil, errors.New("CONFIG_PATH not set and configs/local.yaml not found")
		}
		path = up
	} else {
		path = resolvePath(cwd, path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(os.ExpandEnv(string(raw)))
}

// Parse decodes an already expanded YAML document on top of the defaults
func Parse(doc string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)
	v.SetEnvPrefix("SUBS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadConfig(strings.NewReader(doc)); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every problem of the config at once
func (c Config) Validate() error {
	var errs []error

	if !slices.Contains([]string{"local", "dev", "prod"}, strings.ToLower(c.Env)) {
		errs = append(errs, fmt.Errorf("env: unknown value %q", c.Env))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("http_server.port: %d out of range", c.Server.Port))
	}

	switch c.Storage.Backend {
	case BackendMemory:
	case BackendRedis:
		if c.Storage.Redis.Addr == "" {
			errs = append(errs, errors.New("storage.redis.addr: required for redis backend"))
		}
	case BackendPostgres:
		if c.Storage.Postgres.Host == "" || c.Storage.Postgres.Db == "" {
			errs = append(errs, errors.New("storage.postgres: host and db are required for postgres backend"))
		}
	case BackendSQLite:
		if c.Storage.SQLite.Path == "" {
			errs = append(errs, errors.New("storage.sqlite.path: required for sqlite backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.backend: unknown value %q", c.Storage.Backend))
	}

	r := c.Reminders
	if r.WindowMinDays < 0 || r.WindowMaxDays < r.WindowMinDays {
		errs = append(errs, fmt.Errorf("reminders: window %d..%d is invalid", r.WindowMinDays, r.WindowMaxDays))
	}
	if _, err := r.Location(); err != nil {
		errs = append(errs, fmt.Errorf("reminders.timezone: %w", err))
	}
	if r.Concurrency <= 0 {
		errs = append(errs, errors.New("reminders.concurrency: must be > 0"))
	}
	switch r.Dedup {
	case BackendMemory:
	case BackendRedis:
		if c.Storage.Redis.Addr == "" {
			errs = append(errs, errors.New("reminders.dedup: redis needs storage.redis.addr"))
		}
	default:
		errs = append(errs, fmt.Errorf("reminders.dedup: unknown value %q", r.Dedup))
	}

	if len(c.Currency.Base) != 3 || len(c.Currency.Secondary) != 3 {
		errs = append(errs, errors.New("currency: base and secondary must be ISO 4217 codes"))
	}
	if c.Currency.ExchangeRate <= 0 {
		errs = append(errs, errors.New("currency.exchange_rate: must be > 0"))
	}

	switch c.Generator.Provider {
	case ProviderTemplate:
	case ProviderOllama:
		if c.Generator.BaseURL == "" {
			errs = append(errs, errors.New("generator.base_url: required for ollama"))
		}
	case ProviderOpenAI:
		if c.Generator.APIKey == "" {
			errs = append(errs, errors.New("generator.api_key: required for openai"))
		}
	default:
		errs = append(errs, fmt.Errorf("generator.provider: unknown value %q", c.Generator.Provider))
	}

	return errors.Join(errs...)
}
