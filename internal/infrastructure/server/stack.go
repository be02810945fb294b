package server

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/vshell/internal/domain/session"
	"github.com/GriffinCanCode/vshell/internal/domain/shell"
	"github.com/GriffinCanCode/vshell/internal/domain/vfs"
	"github.com/GriffinCanCode/vshell/internal/infrastructure/config"
	"github.com/GriffinCanCode/vshell/internal/infrastructure/logging"
	"github.com/GriffinCanCode/vshell/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/vshell/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/vshell/internal/infrastructure/storage"
	"github.com/GriffinCanCode/vshell/internal/providers/filesystem"
	sessionprovider "github.com/GriffinCanCode/vshell/internal/providers/session"
	"github.com/GriffinCanCode/vshell/internal/providers/system"
	"github.com/GriffinCanCode/vshell/internal/service"
	"github.com/GriffinCanCode/vshell/internal/shared/paths"
)

// Stack is the shell with everything it runs on, independent of any
// network surface.
type Stack struct {
	Store    storage.Store
	Repo     *vfs.Repository
	Registry *service.Registry
	Sessions *session.Manager
	Shell    *shell.Shell
	// Location describes where the snapshot is persisted.
	Location string
}

// Build assembles storage, the snapshot repository, providers and the
// shell from cfg. metrics may be nil.
func Build(ctx context.Context, cfg *config.Config, logger *logging.Logger, metrics *monitoring.Metrics) (*Stack, error) {
	logger = logging.OrNop(logger)

	store, err := openStore(ctx, cfg, logger, metrics)
	if err != nil {
		return nil, err
	}

	codec, err := vfs.CodecByName(cfg.Storage.Codec)
	if err != nil {
		store.Close()
		return nil, err
	}

	repo, err := vfs.NewRepository(store, vfs.Options{
		Key:      cfg.Storage.Key,
		Codec:    codec,
		Compress: cfg.Storage.Compress,
		Seed:     seeder(cfg, logger),
	}, logger.Named("vfs").Logger)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to create repository: %w", err)
	}
	if metrics != nil {
		repo.WithObserver(metrics)
	}

	sessions := session.NewManager(cfg.Shell.HistoryLimit)
	if metrics != nil {
		sessions.OnChange(metrics.SetSessionsActive)
	}

	registry := service.NewRegistry()
	if err := registerProviders(registry, repo, sessions); err != nil {
		store.Close()
		return nil, err
	}

	sh := shell.New(registry, repo, sessions, logger)
	if metrics != nil {
		sh.WithMetrics(metrics)
	}

	return &Stack{
		Store:    store,
		Repo:     repo,
		Registry: registry,
		Sessions: sessions,
		Shell:    sh,
		Location: location(cfg),
	}, nil
}

// Close releases the blob store.
func (s *Stack) Close() error {
	return s.Store.Close()
}

func openStore(ctx context.Context, cfg *config.Config, logger *logging.Logger, metrics *monitoring.Metrics) (storage.Store, error) {
	backend := cfg.Storage.Backend
	store, err := storage.New(ctx, storage.Config{
		Backend:     backend,
		Path:        cfg.Storage.Path,
		DatabaseURL: cfg.Storage.DatabaseURL,
		S3: storage.S3Config{
			Endpoint:  cfg.Storage.S3.Endpoint,
			Bucket:    cfg.Storage.S3.Bucket,
			AccessKey: cfg.Storage.S3.AccessKey,
			SecretKey: cfg.Storage.S3.SecretKey,
			Region:    cfg.Storage.S3.Region,
		},
	}, logger.Named("storage").Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", backend, err)
	}
	logger.Info("Snapshot store ready", zap.String("backend", backend))

	if !storage.Remote(backend) {
		return store, nil
	}

	breaker := resilience.New(backend, resilience.Settings{
		OnStateChange: func(name string, from, to resilience.State) {
			logger.Warn("Storage circuit breaker changed state",
				zap.String("store", name),
				zap.Stringer("from", from),
				zap.Stringer("to", to))
			if metrics != nil {
				metrics.SetBreakerState(name, int(to))
			}
		},
	})
	return storage.NewGuarded(store, breaker), nil
}

// seeder returns the tree builder used on first start and after a reset
// or a corrupt snapshot. A configured seed directory is imported into the
// default user's home.
func seeder(cfg *config.Config, logger *logging.Logger) func() *vfs.Tree {
	user := cfg.Shell.User
	home := cfg.Shell.Home
	if home == "" {
		home = paths.Home(user)
	}
	dir := cfg.Shell.SeedDir

	return func() *vfs.Tree {
		t := vfs.Seed(user)
		if home != paths.Home(user) {
			if _, err := t.MkdirAll(home); err != nil {
				logger.Warn("Failed to create home", zap.String("home", home), zap.Error(err))
			}
		}
		if dir == "" {
			return t
		}

		result, err := t.ImportHost(dir, home)
		if err != nil {
			logger.Warn("Seed import failed", zap.String("dir", dir), zap.Error(err))
			return t
		}
		logger.Info("Seed directory imported",
			zap.String("dir", dir),
			zap.Int("directories", result.Directories),
			zap.Int("files", result.Files),
			zap.Int("skipped", len(result.Skipped)))
		return t
	}
}

func registerProviders(registry *service.Registry, repo *vfs.Repository, sessions *session.Manager) error {
	providers := []service.Provider{
		filesystem.NewProvider(repo),
		system.NewProvider(registry),
		sessionprovider.NewProvider(func(id string) (sessionprovider.History, bool) {
			s, ok := sessions.Get(id)
			if !ok {
				return nil, false
			}
			return s, true
		}),
	}
	for _, p := range providers {
		if err := registry.Register(p); err != nil {
			return fmt.Errorf("failed to register %s provider: %w", p.Definition().ID, err)
		}
	}
	return nil
}

func location(cfg *config.Config) string {
	switch cfg.Storage.Backend {
	case storage.BackendFile:
		path := cfg.Storage.Path
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		return filepath.Join(path, filepath.FromSlash(cfg.Storage.Key))
	case storage.BackendPostgres:
		return "PostgreSQL (" + cfg.Storage.Key + ")"
	case storage.BackendS3:
		return "s3://" + cfg.Storage.S3.Bucket + "/" + cfg.Storage.Key
	default:
		return "process memory"
	}
}
