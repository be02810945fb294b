package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apihttp "github.com/GriffinCanCode/vshell/internal/api/http"
	"github.com/GriffinCanCode/vshell/internal/api/middleware"
	"github.com/GriffinCanCode/vshell/internal/api/ws"
	"github.com/GriffinCanCode/vshell/internal/infrastructure/config"
	"github.com/GriffinCanCode/vshell/internal/infrastructure/logging"
	"github.com/GriffinCanCode/vshell/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/vshell/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/vshell/internal/shared/utils"
)

// ShutdownTimeout bounds how long in-flight requests may take to finish.
const ShutdownTimeout = 10 * time.Second

// Server wraps the HTTP server and dependencies
type Server struct {
	router  *gin.Engine
	http    *http.Server
	stack   *Stack
	tracer  *tracing.Tracer
	logger  *logging.Logger
	config  *config.Config
	metrics *monitoring.Metrics
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config) (*Server, error) {
	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return NewServerWithLogger(cfg, logger)
}

// NewServerWithLogger creates a server that logs to logger
func NewServerWithLogger(cfg *config.Config, logger *logging.Logger) (*Server, error) {
	logger = logging.OrNop(logger)
	logger.Info("Initializing vshell server",
		zap.String("port", cfg.Server.Port),
		zap.String("storage", cfg.Storage.Backend),
		zap.String("codec", cfg.Storage.Codec),
	)

	metrics := monitoring.NewMetrics()
	tracer := tracing.New("vshell", logger.Named("trace").Logger)

	stack, err := Build(context.Background(), cfg, logger, metrics)
	if err != nil {
		tracer.Close()
		return nil, err
	}

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(tracing.HTTPMiddleware(tracer))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}
	router.Use(limitBody(utils.MaxJSONSize))

	handlers := apihttp.NewHandlers(stack.Shell, stack.Registry, stack.Repo, metrics, logger, apihttp.Options{
		DefaultUser: cfg.Shell.User,
		DefaultHome: cfg.Shell.Home,
		Location:    stack.Location,
	})
	wsHandler := ws.NewHandler(stack.Shell, metrics, tracer, logger, stack.Location)

	registerRoutes(router, handlers, wsHandler, metrics)

	logger.Info("Server initialized successfully", zap.String("snapshot", stack.Location))

	return &Server{
		router:  router,
		stack:   stack,
		tracer:  tracer,
		logger:  logger,
		config:  cfg,
		metrics: metrics,
	}, nil
}

func registerRoutes(router *gin.Engine, h *apihttp.Handlers, wsHandler *ws.Handler, metrics *monitoring.Metrics) {
	router.GET("/", h.Root)
	router.GET("/health", h.Health)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Sessions
	router.POST("/sessions", h.CreateSession)
	router.GET("/sessions", h.ListSessions)
	router.GET("/sessions/:id", h.GetSession)
	router.DELETE("/sessions/:id", h.CloseSession)
	router.POST("/sessions/:id/exec", h.Exec)
	router.GET("/sessions/:id/stream", wsHandler.HandleConnection)

	// Services
	router.GET("/services", h.ListServices)
	router.POST("/services/execute", h.ExecuteService)

	// File system
	router.GET("/fs/snapshot", h.Snapshot)
	router.POST("/fs/reset", h.ResetFilesystem)
}

// limitBody caps request bodies.
func limitBody(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		}
		c.Next()
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Stack returns the assembled shell stack.
func (s *Server) Stack() *Stack {
	return s.stack
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	addr := net.JoinHostPort(s.config.Server.Host, s.config.Server.Port)
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return <-errCh
}

// Close releases the snapshot store and flushes logs
func (s *Server) Close() error {
	s.logger.Info("Closing server resources...")

	s.tracer.Close()

	var errs []error
	if err := s.stack.Close(); err != nil {
		s.logger.Error("Failed to close snapshot store", zap.Error(err))
		errs = append(errs, fmt.Errorf("failed to close snapshot store: %w", err))
	}

	_ = s.logger.Sync()
	return errors.Join(errs...)
}
