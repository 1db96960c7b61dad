package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/task-tracker-api/internal/dto"
	apierrors "github.com/yukikurage/task-tracker-api/internal/errors"
)

const healthCheckTimeout = 2 * time.Second

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	store Pinger
	log   logrus.FieldLogger
}

func NewHealthHandler(store Pinger, log logrus.FieldLogger) *HealthHandler {
	return &HealthHandler{store: store, log: log}
}

// Health answers 200 while the store responds to a ping and 503 otherwise.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.log.WithError(err).Warn("Health check failed")
		apierrors.ServiceUnavailable(c, "Database unavailable")
		return
	}
	c.JSON(http.StatusOK, dto.HealthResponse{Status: "ok"})
}
