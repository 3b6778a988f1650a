package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/sparkle-learn/platform/internal/backend"
	"github.com/sparkle-learn/platform/internal/catalog"
	"github.com/sparkle-learn/platform/internal/content"
	"github.com/sparkle-learn/platform/internal/enquiry"
	"github.com/sparkle-learn/platform/internal/gallery"
	"github.com/sparkle-learn/platform/internal/handlers"
	"github.com/sparkle-learn/platform/internal/platform/config"
	"github.com/sparkle-learn/platform/internal/platform/observability"
)

func main() {
	ctx := context.Background()
	startedAt := time.Now().UTC()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	baseLogger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()
	logger := baseLogger.Named("web")

	for _, warning := range cfg.Warnings {
		logger.Error("configuration problem", zap.String("detail", warning))
	}

	client, err := backend.New(cfg.Backend.BaseURL, cfg.Backend.SubscriberID,
		backend.WithTimeout(cfg.Backend.Timeout),
		backend.WithRetries(cfg.Backend.Retries),
		backend.WithLogger(logger.Named("backend")),
	)
	if err != nil {
		logger.Fatal("failed to initialise backend client", zap.Error(err))
	}

	localPrograms, err := catalog.LoadLocalPrograms(cfg.Catalog.LocalProgramsFile)
	if err != nil {
		logger.Fatal("failed to load local programs", zap.Error(err))
	}
	catalogService, err := catalog.NewService(client, localPrograms,
		catalog.WithLogger(logger.Named("catalog")),
		catalog.WithCacheTTL(cfg.Catalog.CacheTTL),
	)
	if err != nil {
		logger.Fatal("failed to initialise catalog", zap.Error(err))
	}

	enquiryService, err := enquiry.NewService(client, catalogService, enquiry.WithLogger(logger.Named("enquiry")))
	if err != nil {
		logger.Fatal("failed to initialise enquiry service", zap.Error(err))
	}

	galleryService, err := gallery.NewService(client)
	if err != nil {
		logger.Fatal("failed to initialise gallery service", zap.Error(err))
	}

	pages := content.NewStore(cfg.Content.Dir)

	health := handlers.NewHealthHandlers(
		handlers.WithHealthBuildInfo(handlers.BuildInfo{
			Version:   strings.TrimSpace(os.Getenv("SPARKLE_BUILD_VERSION")),
			CommitSHA: strings.TrimSpace(os.Getenv("SPARKLE_BUILD_COMMIT")),
			StartedAt: startedAt,
		}),
		handlers.WithReadinessCheck("subscriber", func(context.Context) error {
			if cfg.Backend.SubscriberID == "" {
				return errors.New("SPARKLE_SUBSCRIBER_ID is not configured")
			}
			return nil
		}),
	)

	router := handlers.NewRouter(
		handlers.WithHealthHandlers(health),
		handlers.WithMiddlewares(
			observability.InjectLoggerMiddleware(logger),
			observability.RequestLoggerMiddleware(),
			observability.RecoveryMiddleware(logger),
			middleware.Compress(5),
		),
		handlers.WithSiteRoutes(handlers.NewSiteHandlers(handlers.SiteInfo{
			GAMeasurementID:      cfg.Analytics.GAMeasurementID,
			MetaPixelID:          cfg.Analytics.MetaPixelID,
			SubscriberConfigured: cfg.Backend.SubscriberID != "",
			Pages:                pages.Slugs(),
		}).Routes),
		handlers.WithProgramRoutes(handlers.NewProgramHandlers(catalogService).Routes),
		handlers.WithGalleryRoutes(handlers.NewGalleryHandlers(galleryService).Routes),
		handlers.WithPageRoutes(handlers.NewPageHandlers(pages).Routes),
		handlers.WithEnquiryRoutes(handlers.NewEnquiryHandlers(enquiryService,
			handlers.WithEnquiryRateLimit(cfg.Enquiry.RatePerMinute, nil),
		).Routes),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	serverLogger := logger.Named("http").With(zap.String("addr", server.Addr))
	go func() {
		serverLogger.Info("sparkle web listening",
			zap.String("backend", cfg.Backend.BaseURL),
			zap.Int("local_programs", len(localPrograms)),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverLogger.Fatal("http server error", zap.Error(err))
		}
	}()

	// SIGHUP drops the memoized backend catalog; anything else shuts down.
	for sig := range signals {
		if sig != syscall.SIGHUP {
			break
		}
		catalogService.Invalidate()
		logger.Info("catalog cache invalidated", zap.String("signal", sig.String()))
	}
	logger.Info("shutdown signal received; draining requests")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
