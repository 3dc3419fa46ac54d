package httpHandler

import (
	"net/http"

	"security-monitor/cameras"

	"github.com/gin-gonic/gin"
)

type CameraHandler struct{}

func NewCameraHandler() *CameraHandler {
	return &CameraHandler{}
}

// List handles GET /api/v1/cameras
func (h *CameraHandler) List(c *gin.Context) {
	cams := cameras.ForUser(c.GetString(ctxUsername))
	c.JSON(http.StatusOK, gin.H{
		"data":    newCameraViews(cams),
		"count":   len(cams),
		"summary": cameras.Summary(cams),
	})
}
