// Package handlers implements the HTTP API handlers
package handlers

import (
	"github.com/pantrysage/v1/internal/infrastructure/config"
	"github.com/pantrysage/v1/internal/infrastructure/http/middleware"
	"github.com/pantrysage/v1/internal/ports/inbound"
	"github.com/pantrysage/v1/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	svc    inbound.PlannerService
	mw     *middleware.Middleware
	config *config.Config
	logger *zap.Logger
}

// New creates a new handler instance
func New(svc inbound.PlannerService, mw *middleware.Middleware, cfg *config.Config, logger *zap.Logger) *Handler {
	return &Handler{
		svc:    svc,
		mw:     mw,
		config: cfg,
		logger: logger,
	}
}

// respondError writes a structured error response with the status code
// derived from the error taxonomy.
func (h *Handler) respondError(c *gin.Context, err error) {
	appErr := errors.Wrap(err, "request failed")
	c.JSON(appErr.StatusCode(), errors.ToErrorResponse(appErr, c.GetString("request_id")))
}

// pathUUID parses a UUID path parameter, failing the request on garbage.
func (h *Handler) pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.respondError(c, errors.NewValidationError("invalid "+name))
		return uuid.Nil, false
	}
	return id, true
}
