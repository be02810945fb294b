package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/vshell/internal/domain/shell"
	"github.com/GriffinCanCode/vshell/internal/shared/types"
	"github.com/GriffinCanCode/vshell/internal/shared/utils"
)

// CreateSession opens a shell session
func (h *Handlers) CreateSession(c *gin.Context) {
	var req types.CreateSessionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	user, home := req.User, ""
	if user == "" {
		user, home = h.defaultUser, h.defaultHome
	}
	if err := utils.ValidateUsername(user); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess, err := h.shell.Open(c.Request.Context(), user, home)
	if err != nil {
		h.logger.Error("Failed to open session", zap.String("user", user), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if h.metrics != nil {
		h.metrics.IncSessionsTotal()
	}

	c.JSON(http.StatusCreated, gin.H{
		"session": sess.Info(),
		"prompt":  shell.Prompt(sess),
		"banner":  shell.Banner(h.location),
	})
}

// ListSessions lists open sessions
func (h *Handlers) ListSessions(c *gin.Context) {
	sessions := h.shell.Sessions().List()
	c.JSON(http.StatusOK, gin.H{
		"sessions": sessions,
		"count":    len(sessions),
	})
}

// GetSession returns one session
func (h *Handlers) GetSession(c *gin.Context) {
	sessionID := c.Param("id")

	if err := utils.ValidateID(sessionID, "session_id", true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess, ok := h.shell.Sessions().Get(sessionID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session": sess.Info(),
		"prompt":  shell.Prompt(sess),
	})
}

// CloseSession closes a session
func (h *Handlers) CloseSession(c *gin.Context) {
	sessionID := c.Param("id")

	if err := utils.ValidateID(sessionID, "session_id", true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !h.shell.Sessions().Close(sessionID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"session_id": sessionID,
	})
}

// Exec runs one input line in a session
func (h *Handlers) Exec(c *gin.Context) {
	sessionID := c.Param("id")

	if err := utils.ValidateID(sessionID, "session_id", true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req types.ExecRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateLine(req.Line); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess, ok := h.shell.Sessions().Get(sessionID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	resp, err := h.shell.Exec(c.Request.Context(), sess, req.Line)
	if err != nil {
		h.logger.Error("Exec failed",
			zap.String("session_id", sessionID),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	resp.HTML = h.renderer.Render(resp)

	c.JSON(http.StatusOK, resp)
}
