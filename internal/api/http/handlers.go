package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/vshell/internal/domain/shell"
	"github.com/GriffinCanCode/vshell/internal/domain/vfs"
	"github.com/GriffinCanCode/vshell/internal/infrastructure/logging"
	"github.com/GriffinCanCode/vshell/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/vshell/internal/service"
	"github.com/GriffinCanCode/vshell/internal/shared/types"
	"github.com/GriffinCanCode/vshell/internal/shared/utils"
)

// Version is reported by the root endpoint.
const Version = "2.0.2"

// Handlers contains all HTTP handlers
type Handlers struct {
	shell    *shell.Shell
	registry *service.Registry
	repo     *vfs.Repository
	metrics  *monitoring.Metrics
	renderer *shell.HTMLRenderer
	logger   *logging.Logger

	defaultUser string
	defaultHome string
	location    string
	startTime   time.Time
}

// Options configures session defaults for handlers.
type Options struct {
	DefaultUser string
	DefaultHome string
	// Location describes where the snapshot is persisted, for the banner.
	Location string
}

// NewHandlers creates a new handler set
func NewHandlers(
	sh *shell.Shell,
	registry *service.Registry,
	repo *vfs.Repository,
	metrics *monitoring.Metrics,
	logger *logging.Logger,
	opts Options,
) *Handlers {
	if opts.DefaultUser == "" {
		opts.DefaultUser = "user"
	}
	return &Handlers{
		shell:       sh,
		registry:    registry,
		repo:        repo,
		metrics:     metrics,
		renderer:    shell.NewHTMLRenderer(),
		logger:      logging.OrNop(logger).Named("http"),
		defaultUser: opts.DefaultUser,
		defaultHome: opts.DefaultHome,
		location:    opts.Location,
		startTime:   time.Now(),
	}
}

// Root handles health check
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "vshell",
		"version": Version,
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	var stats vfs.Stats
	err := h.repo.View(c.Request.Context(), func(t *vfs.Tree) error {
		stats = t.Stats()
		return nil
	})
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}

	body := gin.H{
		"status":           "healthy",
		"uptime":           humanize.RelTime(h.startTime, time.Now(), "", ""),
		"sessions":         h.shell.Sessions().Count(),
		"service_registry": h.registry.Stats(),
		"filesystem": gin.H{
			"directories": stats.Directories,
			"files":       stats.Files,
			"bytes":       stats.Bytes,
			"size":        humanize.Bytes(uint64(stats.Bytes)),
			"snapshot":    h.repo.Key(),
		},
	}
	if h.metrics != nil {
		snap := h.metrics.GetSnapshot()
		body["metrics"] = snap
		body["filesystem"].(gin.H)["snapshot_size"] = humanize.Bytes(uint64(snap.SnapshotBytes))
	}
	c.JSON(http.StatusOK, body)
}

// ListServices lists all available services
func (h *Handlers) ListServices(c *gin.Context) {
	categoryStr := c.Query("category")

	var category *types.Category
	if categoryStr != "" {
		cat := types.Category(categoryStr)
		category = &cat
	}

	c.JSON(http.StatusOK, gin.H{
		"services": h.registry.List(category),
		"stats":    h.registry.Stats(),
	})
}

// ExecuteService executes a service tool in the context of a session
func (h *Handlers) ExecuteService(c *gin.Context) {
	var req types.ExecuteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := utils.ValidateToolID(req.ToolID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateID(req.SessionID, "session_id", true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	serviceID, _, _ := strings.Cut(req.ToolID, ".")
	if _, ok := h.registry.Get(serviceID); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "service not found: " + serviceID})
		return
	}

	sess, ok := h.shell.Sessions().Get(req.SessionID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	result, err := h.shell.Invoke(c.Request.Context(), sess, req.ToolID, req.Params)
	if err != nil {
		h.logger.Error("Tool execution failed", zap.String("tool_id", req.ToolID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}
