package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
	Shell     ShellConfig
	Storage   StorageConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// ShellConfig holds shell session defaults.
type ShellConfig struct {
	User         string `envconfig:"VSH_USER" default:"user"`
	Home         string `envconfig:"VSH_HOME"`
	HistoryLimit int    `envconfig:"VSH_HISTORY_LIMIT" default:"500"`
	SeedDir      string `envconfig:"VSH_SEED_DIR"`
}

// StorageConfig selects where the file system snapshot lives.
type StorageConfig struct {
	Backend     string `envconfig:"VSH_STORAGE_BACKEND" default:"memory"`
	Path        string `envconfig:"VSH_STORAGE_PATH" default:"./data"`
	Key         string `envconfig:"VSH_SNAPSHOT_KEY" default:"vfs/snapshot"`
	Codec       string `envconfig:"VSH_SNAPSHOT_CODEC" default:"json"`
	Compress    bool   `envconfig:"VSH_SNAPSHOT_COMPRESS" default:"true"`
	DatabaseURL string `envconfig:"DATABASE_URL"`
	S3          S3Config
}

// S3Config holds S3-compatible object store settings.
type S3Config struct {
	Endpoint  string `envconfig:"S3_ENDPOINT"`
	Bucket    string `envconfig:"S3_BUCKET" default:"vshell"`
	AccessKey string `envconfig:"S3_ACCESS_KEY"`
	SecretKey string `envconfig:"S3_SECRET_KEY"`
	Region    string `envconfig:"S3_REGION" default:"us-east-1"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// LoadDotEnv reads .env style files into the process environment without
// overriding variables that are already set. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to read %s: %w", f, err)
		}
	}
	return nil
}

// Validate checks values envconfig cannot check on its own.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case "memory", "file", "postgres", "s3":
	default:
		return fmt.Errorf("unknown storage backend: %q", c.Storage.Backend)
	}
	switch c.Storage.Codec {
	case "json", "yaml", "yml", "toml":
	default:
		return fmt.Errorf("unknown snapshot codec: %q", c.Storage.Codec)
	}
	if c.Shell.User == "" {
		return fmt.Errorf("shell user cannot be empty")
	}
	if c.Shell.HistoryLimit < 0 {
		return fmt.Errorf("history limit cannot be negative")
	}
	return nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8000",
			Host: "0.0.0.0",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
		Shell: ShellConfig{
			User:         "user",
			HistoryLimit: 500,
		},
		Storage: StorageConfig{
			Backend:  "memory",
			Path:     "./data",
			Key:      "vfs/snapshot",
			Codec:    "json",
			Compress: true,
			S3: S3Config{
				Bucket: "vshell",
				Region: "us-east-1",
			},
		},
	}
}
