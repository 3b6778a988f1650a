package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sparkle-learn/platform/internal/catalog"
	"github.com/sparkle-learn/platform/internal/platform/httpx"
	"github.com/sparkle-learn/platform/internal/platform/requestctx"
)

// CatalogService is the catalog behaviour the program endpoints depend on.
type CatalogService interface {
	Programs(ctx context.Context) []catalog.Program
	Featured(ctx context.Context) []catalog.Program
	Program(ctx context.Context, idOrSlug string) (catalog.Program, error)
	CategorySummaries(ctx context.Context) []catalog.CategorySummary
}

// ProgramHandlers serves the program catalog.
type ProgramHandlers struct {
	catalog CatalogService
}

// NewProgramHandlers constructs program handlers.
func NewProgramHandlers(svc CatalogService) *ProgramHandlers {
	return &ProgramHandlers{catalog: svc}
}

// Routes registers the catalog endpoints.
func (h *ProgramHandlers) Routes(r chi.Router) {
	r.Get("/programs", h.list)
	r.Get("/programs/featured", h.featured)
	r.Get("/programs/{programID}", h.detail)
	r.Get("/categories", h.categories)
}

type programListResponse struct {
	Items      []catalog.Program `json:"items"`
	Total      int               `json:"total"`
	Filters    programFilters    `json:"filters"`
	QueryState string            `json:"queryString"`
}

type programFilters struct {
	Category string `json:"category"`
	Mode     string `json:"mode"`
	Search   string `json:"q"`
}

func (h *ProgramHandlers) list(w http.ResponseWriter, r *http.Request) {
	query := catalog.QueryFromValues(r.URL.Query())
	items := catalog.Filter(h.catalog.Programs(r.Context()), query)

	httpx.WriteJSON(w, http.StatusOK, programListResponse{
		Items: items,
		Total: len(items),
		Filters: programFilters{
			Category: orAll(query.Category),
			Mode:     orAll(query.Mode),
			Search:   query.Search,
		},
		QueryState: query.Values().Encode(),
	})
}

func (h *ProgramHandlers) featured(w http.ResponseWriter, r *http.Request) {
	items := h.catalog.Featured(r.Context())
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"items": items,
		"total": len(items),
	})
}

func (h *ProgramHandlers) detail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := strings.TrimSpace(chi.URLParam(r, "programID"))

	program, err := h.catalog.Program(ctx, id)
	switch {
	case err == nil:
		httpx.WriteJSON(w, http.StatusOK, program)
	case errors.Is(err, catalog.ErrProgramNotFound):
		httpx.WriteError(ctx, w, httpx.ErrorFor(httpx.CodeProgramNotFound, "program not found"))
	default:
		requestctx.Logger(ctx).Error("program detail failed", zap.String("program", id), zap.Error(err))
		httpx.WriteError(ctx, w, httpx.ErrorFor(httpx.CodeProgramFetchFailed, "failed to fetch program detail"))
	}
}

func (h *ProgramHandlers) categories(w http.ResponseWriter, r *http.Request) {
	items := h.catalog.CategorySummaries(r.Context())
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"items": items,
	})
}

func orAll(v string) string {
	if v == "" {
		return catalog.All
	}
	return v
}
