package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig  `yaml:"server"`
	Store    StoreConfig   `yaml:"store"`
	Secrets  SecretsConfig `yaml:"secrets"`
	Sweep    SweepConfig   `yaml:"sweep"`
	LogLevel string        `yaml:"log_level" env:"LOG_LEVEL"`
}

type ServerConfig struct {
	Host    string `yaml:"host" env:"HOST"`
	Port    int    `yaml:"port" env:"PORT"`
	BaseURL string `yaml:"base_url" env:"BASE_URL"`
}

type StoreConfig struct {
	Type   string      `yaml:"type" env:"STORE_TYPE"`
	Redis  RedisConfig `yaml:"redis"`
	SQLite string      `yaml:"sqlite" env:"SQLITE_PATH"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB"`
}

type SecretsConfig struct {
	DefaultTTL      time.Duration `yaml:"default_ttl" env:"DEFAULT_TTL"`
	MaxTTL          time.Duration `yaml:"max_ttl" env:"MAX_TTL"`
	MaxPayloadBytes int           `yaml:"max_payload_bytes" env:"MAX_PAYLOAD_BYTES"`
	// Retention is how long burned or expired metadata stays queryable
	// before the record is deleted outright.
	Retention time.Duration `yaml:"retention" env:"RETENTION"`
}

type SweepConfig struct {
	Interval time.Duration `yaml:"interval" env:"SWEEP_INTERVAL"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    8080,
			BaseURL: "http://localhost:8080",
		},
		Store: StoreConfig{
			Type: "memory",
			Redis: RedisConfig{
				Addr:     "localhost:6379",
				Password: "",
				DB:       0,
			},
			SQLite: "vanish.sqlite",
		},
		Secrets: SecretsConfig{
			DefaultTTL:      1 * time.Hour,
			MaxTTL:          7 * 24 * time.Hour,
			MaxPayloadBytes: 64 * 1024,
			Retention:       30 * 24 * time.Hour,
		},
		Sweep: SweepConfig{
			Interval: 30 * time.Second,
		},
		LogLevel: "info",
	}
}

func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFromFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.loadFromEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File not found is OK, use defaults
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

func (c *Config) loadFromEnv() error {
	_ = godotenv.Load()

	if err := env.Parse(c); err != nil {
		return fmt.Errorf("parsing env: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}

	if c.Server.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}

	switch c.Store.Type {
	case "memory", "redis", "sqlite":
	default:
		return fmt.Errorf("invalid store type: %s (must be 'memory', 'redis' or 'sqlite')", c.Store.Type)
	}

	if c.Store.Type == "redis" && c.Store.Redis.Addr == "" {
		return fmt.Errorf("redis addr is required when store type is 'redis'")
	}

	if c.Store.Type == "sqlite" && c.Store.SQLite == "" {
		return fmt.Errorf("sqlite path is required when store type is 'sqlite'")
	}

	if c.Secrets.DefaultTTL <= 0 {
		return fmt.Errorf("default_ttl must be positive")
	}

	if c.Secrets.MaxTTL < c.Secrets.DefaultTTL {
		return fmt.Errorf("max_ttl must be >= default_ttl")
	}

	if c.Secrets.MaxPayloadBytes < 1 {
		return fmt.Errorf("max_payload_bytes must be positive")
	}

	if c.Secrets.Retention <= 0 {
		return fmt.Errorf("retention must be positive")
	}

	if c.Sweep.Interval <= 0 {
		return fmt.Errorf("sweep interval must be positive")
	}

	return nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
