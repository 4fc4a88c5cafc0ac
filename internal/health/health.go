// Package health exposes liveness and readiness endpoints.
package health

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler serves health check routes.
type Handler struct {
	db      *gorm.DB
	service string
}

// NewHandler creates a health check handler.
func NewHandler(db *gorm.DB, service string) *Handler {
	return &Handler{db: db, service: service}
}

// RegisterRoutes mounts the health routes on the root engine.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)
	r.GET("/ready", h.Ready)
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": h.service})
}

// Ready reports readiness, including a database ping.
func (h *Handler) Ready(c *gin.Context) {
	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.Ping()
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "service": h.service})
}
