package handlers

import (
	"net/http"

	"security-monitor/services"

	"github.com/gin-gonic/gin"
)

type AuditBufferHandler struct {
	processor *services.AuditProcessor
}

func NewAuditBufferHandler(processor *services.AuditProcessor) *AuditBufferHandler {
	return &AuditBufferHandler{
		processor: processor,
	}
}

// FlushBuffer writes all pending audit entries immediately.
func (h *AuditBufferHandler) FlushBuffer(c *gin.Context) {
	written := h.processor.Flush(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"status": "flushed", "written": written})
}

// Prune removes audit rows older than the retention window.
func (h *AuditBufferHandler) Prune(c *gin.Context) {
	removed := h.processor.Prune(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"status": "pruned", "removed": removed})
}

func (h *AuditBufferHandler) GetBufferStats(c *gin.Context) {
	stats := h.processor.GetBufferStats()
	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"stats":  stats,
	})
}
