package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatusHandler reports liveness and which backend serves each optional concern.
type StatusHandler struct {
	components map[string]string
}

func NewStatusHandler(components map[string]string) *StatusHandler {
	if components == nil {
		components = map[string]string{}
	}
	return &StatusHandler{components: components}
}

func (h *StatusHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "Available", "components": h.components})
}
