package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/vshell/internal/domain/vfs"
)

var contentTypes = map[string]string{
	"json": "application/json",
	"yaml": "application/yaml",
	"toml": "application/toml",
}

// Snapshot exports the file system tree
func (h *Handlers) Snapshot(c *gin.Context) {
	format := c.DefaultQuery("format", "json")

	codec, err := vfs.CodecByName(format)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	data, err := h.repo.Export(c.Request.Context(), codec)
	if err != nil {
		h.logger.Error("Snapshot export failed", zap.String("format", format), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Data(http.StatusOK, contentTypes[codec.Name()], data)
}

// ResetFilesystem restores the initial tree
func (h *Handlers) ResetFilesystem(c *gin.Context) {
	if err := h.shell.Reset(c.Request.Context()); err != nil {
		h.logger.Error("Reset failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "File system has been reset to its initial state.",
	})
}
