package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sparkle-learn/platform/internal/content"
	"github.com/sparkle-learn/platform/internal/platform/httpx"
	"github.com/sparkle-learn/platform/internal/platform/requestctx"
)

// PageStore resolves static pages by slug.
type PageStore interface {
	Page(slug string) (content.Page, error)
}

// PageHandlers serves static informational pages.
type PageHandlers struct {
	pages PageStore
}

// NewPageHandlers constructs page handlers.
func NewPageHandlers(store PageStore) *PageHandlers {
	return &PageHandlers{pages: store}
}

// Routes registers the page endpoint.
func (h *PageHandlers) Routes(r chi.Router) {
	r.Get("/pages/{slug}", h.get)
}

func (h *PageHandlers) get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := chi.URLParam(r, "slug")
	page, err := h.pages.Page(slug)
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			httpx.WriteError(ctx, w, httpx.ErrorFor(httpx.CodePageNotFound, "page not found"))
			return
		}
		requestctx.Logger(ctx).Error("load page", zap.String("slug", slug), zap.Error(err))
		httpx.WriteError(ctx, w, httpx.ErrorFor(httpx.CodePageUnavailable, "page unavailable"))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, page)
}
