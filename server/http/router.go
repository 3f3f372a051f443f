package serverhttp

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"brain-service/internal/brain/handler"
	"brain-service/internal/config"
	"brain-service/internal/metrics"
	"brain-service/internal/middleware"
)

func NewRouter(cfg config.Config, logger zerolog.Logger, b *handler.Brain, m *metrics.Collector, reg prometheus.Gatherer) *chi.Mux {
	r := chi.NewRouter()

	// порядок важен: recover -> requestID -> logging -> cors -> limit
	r.Use(middleware.Recover(logger))
	r.Use(middleware.RequestID(logger))
	r.Use(middleware.Logging(logger, m))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "Content-Disposition"},
		MaxAge:         300,
	}))
	r.Use(chimw.RequestSize(int64(cfg.MaxUploadMB) << 20))

	// health-check
	r.Get("/health", handler.Health(b))
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Post("/lookup", handler.Lookup(b, m))
	r.Post("/lookup/batch", handler.LookupBatch(cfg, b, m))
	r.Post("/resolve", handler.Resolve(cfg, b, m))
	r.Post("/catalog", handler.Catalog(cfg, b, m))
	r.Get("/stats", handler.Stats(b))
	r.Get("/unresolved", handler.Unresolved(b))

	return r
}
