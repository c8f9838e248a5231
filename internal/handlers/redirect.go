package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/tinylink/internal/links"
	"go.uber.org/zap"
)

// ClickRecorder counts a followed redirect without blocking the response.
type ClickRecorder interface {
	Record(ctx context.Context, code links.Code)
}

// RedirectHandler resolves short codes to their target URL.
type RedirectHandler struct {
	store  links.Repository
	clicks ClickRecorder
	logger *zap.Logger
}

// NewRedirectHandler creates a new redirect handler.
func NewRedirectHandler(store links.Repository, clicks ClickRecorder, logger *zap.Logger) *RedirectHandler {
	return &RedirectHandler{
		store:  store,
		clicks: clicks,
		logger: logger,
	}
}

func (h *RedirectHandler) Redirect(ctx context.Context, req *LinkRequest) (*RedirectResponse, error) {
	if !links.IsValidCode(req.Code) {
		return nil, huma.Error404NotFound("link not found")
	}

	code := links.Code(req.Code)

	link, err := h.store.Get(ctx, code)
	if err != nil {
		if errors.Is(err, links.ErrNotFound) {
			return nil, huma.Error404NotFound("link not found")
		}

		h.logger.Error("failed to resolve link", zap.String("code", req.Code), zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to resolve link")
	}

	h.clicks.Record(ctx, code)

	return &RedirectResponse{
		Status:   http.StatusFound,
		Location: link.URL,
	}, nil
}
