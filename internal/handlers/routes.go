package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// RegisterRoutes registers the link management and redirect routes.
func RegisterRoutes(api huma.API, linksHandler *LinksHandler, redirectHandler *RedirectHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-links",
		Method:      http.MethodGet,
		Path:        "/links",
		Summary:     "List links",
		Description: "Returns every stored link in no particular order.",
		Tags:        []string{"Links"},
	}, linksHandler.ListLinks)

	huma.Register(api, huma.Operation{
		OperationID:   "create-link",
		Method:        http.MethodPost,
		Path:          "/links",
		Summary:       "Create link",
		Description:   "Shortens a URL under a custom or generated code.",
		Tags:          []string{"Links"},
		DefaultStatus: http.StatusCreated,
	}, linksHandler.CreateLink)

	huma.Register(api, huma.Operation{
		OperationID: "get-link",
		Method:      http.MethodGet,
		Path:        "/links/{code}",
		Summary:     "Get link",
		Tags:        []string{"Links"},
	}, linksHandler.GetLink)

	huma.Register(api, huma.Operation{
		OperationID: "delete-link",
		Method:      http.MethodDelete,
		Path:        "/links/{code}",
		Summary:     "Delete link",
		Tags:        []string{"Links"},
	}, linksHandler.DeleteLink)

	// Static routes above take precedence over this catch-all in chi.
	huma.Register(api, huma.Operation{
		OperationID:   "redirect",
		Method:        http.MethodGet,
		Path:          "/{code}",
		Summary:       "Follow short link",
		Description:   "Redirects to the target URL and counts the click.",
		Tags:          []string{"Redirect"},
		DefaultStatus: http.StatusFound,
	}, redirectHandler.Redirect)
}
