package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/samber/lo"
	"github.com/serroba/tinylink/internal/events"
	"github.com/serroba/tinylink/internal/links"
	"github.com/serroba/tinylink/internal/messaging"
	"go.uber.org/zap"
)

// LinksHandler serves the /links API.
type LinksHandler struct {
	store          links.Repository
	shortener      *links.Shortener
	baseURL        string
	publishCreated messaging.Publish[events.LinkCreatedEvent]
	publishDeleted messaging.Publish[events.LinkDeletedEvent]
	logger         *zap.Logger
}

// NewLinksHandler creates a new links handler. baseURL is the public origin
// short URLs are built on, without a trailing slash.
func NewLinksHandler(
	store links.Repository,
	shortener *links.Shortener,
	baseURL string,
	publishCreated messaging.Publish[events.LinkCreatedEvent],
	publishDeleted messaging.Publish[events.LinkDeletedEvent],
	logger *zap.Logger,
) *LinksHandler {
	return &LinksHandler{
		store:          store,
		shortener:      shortener,
		baseURL:        baseURL,
		publishCreated: publishCreated,
		publishDeleted: publishDeleted,
		logger:         logger,
	}
}

func (h *LinksHandler) ListLinks(ctx context.Context, _ *struct{}) (*ListLinksResponse, error) {
	all, err := h.store.List(ctx)
	if err != nil {
		h.logger.Error("failed to list links", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to list links")
	}

	return &ListLinksResponse{Body: lo.Map(all, func(link links.Link, _ int) LinkBody {
		return toLinkBody(&link)
	})}, nil
}

func (h *LinksHandler) CreateLink(ctx context.Context, req *CreateLinkRequest) (*CreateLinkResponse, error) {
	rawURL, ok := optionalString(req.Body.URL)
	if !ok {
		return nil, huma.Error400BadRequest("invalid url")
	}

	code, ok := optionalString(req.Body.Code)
	if !ok {
		return nil, huma.Error400BadRequest("invalid code")
	}

	link, err := h.shortener.Shorten(ctx, rawURL, links.Code(code))
	if err != nil {
		switch {
		case errors.Is(err, links.ErrInvalidURL):
			return nil, huma.Error400BadRequest("invalid url")
		case errors.Is(err, links.ErrInvalidCode):
			return nil, huma.Error400BadRequest("invalid code")
		case errors.Is(err, links.ErrConflict):
			return nil, huma.Error409Conflict("code exists")
		}

		h.logger.Error("failed to create link", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to create link")
	}

	event := &events.LinkCreatedEvent{
		Code:      string(link.Code),
		URL:       link.URL,
		Generated: code == "",
		CreatedAt: link.CreatedAt,
		Request:   events.RequestFromContext(ctx),
	}

	if err := h.publishCreated(ctx, event); err != nil {
		h.logger.Error("failed to publish link created event",
			zap.String("code", event.Code),
			zap.Error(err),
		)
	}

	shortURL := fmt.Sprintf("%s/%s", h.baseURL, link.Code)

	resp := &CreateLinkResponse{Location: shortURL}
	resp.Body.Code = string(link.Code)
	resp.Body.URL = link.URL
	resp.Body.ShortURL = shortURL

	return resp, nil
}

func (h *LinksHandler) GetLink(ctx context.Context, req *LinkRequest) (*GetLinkResponse, error) {
	link, err := h.lookup(ctx, req.Code)
	if err != nil {
		return nil, err
	}

	return &GetLinkResponse{Body: toLinkBody(link)}, nil
}

func (h *LinksHandler) DeleteLink(ctx context.Context, req *LinkRequest) (*DeleteLinkResponse, error) {
	link, err := h.lookup(ctx, req.Code)
	if err != nil {
		return nil, err
	}

	if err := h.store.Delete(ctx, link.Code); err != nil {
		// Lost a race with another delete.
		if errors.Is(err, links.ErrNotFound) {
			return nil, huma.Error404NotFound("link not found")
		}

		h.logger.Error("failed to delete link", zap.String("code", req.Code), zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to delete link")
	}

	event := &events.LinkDeletedEvent{
		Code:      string(link.Code),
		DeletedAt: time.Now().UTC(),
		Request:   events.RequestFromContext(ctx),
	}

	if err := h.publishDeleted(ctx, event); err != nil {
		h.logger.Error("failed to publish link deleted event",
			zap.String("code", event.Code),
			zap.Error(err),
		)
	}

	resp := &DeleteLinkResponse{}
	resp.Body.Success = true

	return resp, nil
}

func (h *LinksHandler) lookup(ctx context.Context, code string) (*links.Link, error) {
	if !links.IsValidCode(code) {
		return nil, huma.Error404NotFound("link not found")
	}

	link, err := h.store.Get(ctx, links.Code(code))
	if err != nil {
		if errors.Is(err, links.ErrNotFound) {
			return nil, huma.Error404NotFound("link not found")
		}

		h.logger.Error("failed to get link", zap.String("code", code), zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to get link")
	}

	return link, nil
}

// optionalString reads a JSON body field. Absent and null count as empty;
// any non-string value is malformed.
func optionalString(v any) (string, bool) {
	switch s := v.(type) {
	case nil:
		return "", true
	case string:
		return s, true
	default:
		return "", false
	}
}

func toLinkBody(link *links.Link) LinkBody {
	return LinkBody{
		Code:          string(link.Code),
		URL:           link.URL,
		Clicks:        link.Clicks,
		CreatedAt:     link.CreatedAt,
		LastClickedAt: link.LastClickedAt,
	}
}
