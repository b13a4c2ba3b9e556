package v1

import (
	"net/http"

	"github.com/flexcargo/flexcargo/internal/logger"
	"github.com/flexcargo/flexcargo/internal/postgres"
	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewHealthHandler(db *postgres.DB, logger *logger.Logger) *HealthHandler {
	return &HealthHandler{db: db, logger: logger}
}

// Health reports ok when the database answers a ping
func (h *HealthHandler) Health(c *gin.Context) {
	if h.db != nil {
		if err := h.db.PingContext(c.Request.Context()); err != nil {
			h.logger.Errorw("health check failed", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
