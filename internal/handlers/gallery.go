package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sparkle-learn/platform/internal/backend"
	"github.com/sparkle-learn/platform/internal/gallery"
	"github.com/sparkle-learn/platform/internal/platform/httpx"
)

// GalleryService lists gallery media.
type GalleryService interface {
	List(ctx context.Context, f gallery.Filter) []backend.GalleryItem
}

// GalleryHandlers serves gallery media.
type GalleryHandlers struct {
	gallery GalleryService
}

// NewGalleryHandlers constructs gallery handlers.
func NewGalleryHandlers(svc GalleryService) *GalleryHandlers {
	return &GalleryHandlers{gallery: svc}
}

// Routes registers the gallery endpoint.
func (h *GalleryHandlers) Routes(r chi.Router) {
	r.Get("/gallery", h.list)
}

func (h *GalleryHandlers) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	featured, _ := strconv.ParseBool(q.Get("featured"))
	filter := gallery.Filter{
		Type:         gallery.ParseType(q.Get("type")),
		FeaturedOnly: featured,
	}
	items := h.gallery.List(r.Context(), filter)
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"items": items,
		"total": len(items),
		"type":  filter.Type,
	})
}
