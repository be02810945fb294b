package storage

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Store persists opaque values by key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Backend names.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendS3       = "s3"
)

// Config selects and configures a backend.
type Config struct {
	Backend     string
	Path        string
	DatabaseURL string
	S3          S3Config
}

// New creates the backend named by cfg.Backend.
func New(ctx context.Context, cfg Config, logger *zap.Logger) (Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch strings.ToLower(cfg.Backend) {
	case "", BackendMemory:
		return NewMemory(), nil
	case BackendFile:
		return NewFile(cfg.Path)
	case BackendPostgres:
		return NewPostgres(ctx, cfg.DatabaseURL)
	case BackendS3:
		return NewS3(ctx, cfg.S3, logger)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Backend)
	}
}

func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("storage key cannot be empty")
	}
	for _, seg := range strings.Split(key, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return fmt.Errorf("invalid storage key: %q", key)
		}
	}
	return nil
}
