package health

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"
)

const pingTimeout = 2 * time.Second

// Checker defines the interface for checking service health.
type Checker interface {
	Ping(ctx context.Context) error
}

// Handler handles health check operations.
type Handler struct {
	store  Checker
	logger *zap.Logger
}

// NewHandler creates a new health handler reporting on store.
func NewHandler(store Checker, logger *zap.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// Response is the response for health check endpoint.
type Response struct {
	Body struct {
		OK     bool   `doc:"True when every dependency is healthy" json:"ok"`
		Status string `doc:"ok or degraded"                        json:"status"`
		Store  string `doc:"healthy or unhealthy"                  json:"store"`
	}
}

// Check reports the service status. It always answers 200; a failing store
// only degrades the status.
func (h *Handler) Check(ctx context.Context, _ *struct{}) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	resp := &Response{}
	resp.Body.OK = true
	resp.Body.Status = "ok"
	resp.Body.Store = "healthy"

	if err := h.store.Ping(ctx); err != nil {
		h.logger.Warn("store health check failed", zap.Error(err))

		resp.Body.OK = false
		resp.Body.Status = "degraded"
		resp.Body.Store = "unhealthy"
	}

	return resp, nil
}

// RegisterRoutes registers health check routes.
func RegisterRoutes(api huma.API, h *Handler) {
	huma.Register(api, huma.Operation{
		OperationID: "health-check",
		Method:      http.MethodGet,
		Path:        "/healthz",
		Summary:     "Health check",
		Tags:        []string{"Health"},
	}, h.Check)
}
