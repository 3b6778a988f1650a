package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sparkle-learn/platform/internal/platform/httpx"
)

// SiteInfo is the public configuration the presentation layer boots with.
type SiteInfo struct {
	GAMeasurementID      string   `json:"gaMeasurementId,omitempty"`
	MetaPixelID          string   `json:"metaPixelId,omitempty"`
	SubscriberConfigured bool     `json:"subscriberConfigured"`
	Pages                []string `json:"pages"`
}

// SiteHandlers exposes SiteInfo.
type SiteHandlers struct {
	info SiteInfo
}

// NewSiteHandlers constructs site handlers.
func NewSiteHandlers(info SiteInfo) *SiteHandlers {
	if info.Pages == nil {
		info.Pages = []string{}
	}
	return &SiteHandlers{info: info}
}

// Routes registers the site endpoint.
func (h *SiteHandlers) Routes(r chi.Router) {
	r.Get("/site", h.get)
}

func (h *SiteHandlers) get(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, h.info)
}
