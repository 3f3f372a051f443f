package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"brain-service/internal/brain/bootstrap"
	"brain-service/internal/brain/handler"
	"brain-service/internal/config"
	"brain-service/internal/metrics"
	serverhttp "brain-service/server/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	logger := config.SetupLogger(cfg, os.Stdout)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New()
	m.Register(reg)

	r, err := bootstrap.Open(context.Background(), cfg, logger, m)
	if err != nil {
		logger.Fatal().Err(err).Msg("brain")
	}
	b := handler.NewBrain(r)

	srv := &http.Server{Addr: cfg.Addr(), Handler: serverhttp.NewRouter(cfg, logger, b, m, reg)}
	logger.Info().Str("addr", cfg.Addr()).Msg("server starting")

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("listen")
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)

	saveUnresolved(cfg, b, logger)
	logger.Info().Msg("bye")
}

// saveUnresolved: журнал нераспознанных переживает перезапуск. Контекст
// свой, истёкший таймаут Shutdown его не касается.
func saveUnresolved(cfg config.Config, b *handler.Brain, logger zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	n, err := bootstrap.SaveUnresolved(ctx, b.Current(), cfg.UnresolvedPath)
	if err != nil {
		logger.Error().Err(err).Msg("save unresolved")
		return
	}
	if n > 0 {
		logger.Info().Int("items", n).Str("path", cfg.UnresolvedPath).Msg("unresolved saved")
	}
}
