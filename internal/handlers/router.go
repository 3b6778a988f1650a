package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sparkle-learn/platform/internal/platform/httpx"
)

// RouteRegistrar registers a set of routes against the provided router.
type RouteRegistrar func(r chi.Router)

type routerConfig struct {
	basePath    string
	middlewares []func(http.Handler) http.Handler
	health      *HealthHandlers

	programs  RouteRegistrar
	enquiries RouteRegistrar
	gallery   RouteRegistrar
	pages     RouteRegistrar
	site      RouteRegistrar
}

// Option customises the router configuration before construction.
type Option func(*routerConfig)

const (
	defaultAPIPrefix = "/api"
	defaultTimeout   = 30 * time.Second
)

// NewRouter constructs the chi router with shared middleware and the public JSON surface.
func NewRouter(opts ...Option) chi.Router {
	cfg := routerConfig{
		basePath: defaultAPIPrefix,
		middlewares: []func(http.Handler) http.Handler{
			middleware.RequestID,
			middleware.RealIP,
			middleware.Timeout(defaultTimeout),
		},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.health == nil {
		cfg.health = NewHealthHandlers()
	}

	r := chi.NewRouter()
	for _, mw := range cfg.middlewares {
		if mw != nil {
			r.Use(mw)
		}
	}

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		httpx.WriteError(req.Context(), w, httpx.ErrorFor(httpx.CodeRouteNotFound, fmt.Sprintf("no route for %s", req.URL.Path)))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		httpx.WriteError(req.Context(), w, httpx.ErrorFor(httpx.CodeMethodNotAllowed, fmt.Sprintf("method %s not allowed on %s", req.Method, req.URL.Path)))
	})

	r.Get("/healthz", cfg.health.Healthz)
	r.Get("/readyz", cfg.health.Readyz)

	r.Route(cfg.basePath, func(api chi.Router) {
		for _, registrar := range []RouteRegistrar{cfg.site, cfg.programs, cfg.gallery, cfg.pages, cfg.enquiries} {
			if registrar != nil {
				registrar(api)
			}
		}
	})
	return r
}

// WithBasePath overrides the /api prefix.
func WithBasePath(path string) Option {
	return func(cfg *routerConfig) {
		if path != "" {
			cfg.basePath = path
		}
	}
}

// WithMiddlewares appends additional global middleware to the router.
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(cfg *routerConfig) {
		cfg.middlewares = append(cfg.middlewares, mw...)
	}
}

// WithHealthHandlers overrides the handlers used for /healthz and /readyz.
func WithHealthHandlers(h *HealthHandlers) Option {
	return func(cfg *routerConfig) {
		cfg.health = h
	}
}

// WithProgramRoutes registers catalog endpoints.
func WithProgramRoutes(reg RouteRegistrar) Option {
	return func(cfg *routerConfig) {
		cfg.programs = reg
	}
}

// WithEnquiryRoutes registers lead capture endpoints.
func WithEnquiryRoutes(reg RouteRegistrar) Option {
	return func(cfg *routerConfig) {
		cfg.enquiries = reg
	}
}

// WithGalleryRoutes registers gallery endpoints.
func WithGalleryRoutes(reg RouteRegistrar) Option {
	return func(cfg *routerConfig) {
		cfg.gallery = reg
	}
}

// WithPageRoutes registers static page endpoints.
func WithPageRoutes(reg RouteRegistrar) Option {
	return func(cfg *routerConfig) {
		cfg.pages = reg
	}
}

// WithSiteRoutes registers site metadata endpoints.
func WithSiteRoutes(reg RouteRegistrar) Option {
	return func(cfg *routerConfig) {
		cfg.site = reg
	}
}
