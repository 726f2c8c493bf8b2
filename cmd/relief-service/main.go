package main

import (
	"context"
	"encoding/json"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/reliefgrid/reliefgrid/internal/cache"
	"github.com/reliefgrid/reliefgrid/internal/config"
	"github.com/reliefgrid/reliefgrid/internal/logger"
	"github.com/reliefgrid/reliefgrid/internal/platform/factory"
	"github.com/reliefgrid/reliefgrid/internal/store"
)

func main() {
	// Optional build-target flag override (server | local)
	buildTarget := flag.String("build-target", "", "Override BUILD_TARGET (server, local)")
	flag.Parse()

	log := logger.New("relief-core")

	cfg, err := config.New()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if *buildTarget != "" {
		cfg.BuildTarget = *buildTarget
		cfg.StoreDriver = "auto"
		if err := cfg.ResolveDefaults(); err != nil {
			log.Fatal().Err(err).Msg("Invalid build-target override")
		}
	}

	log.Info().
		Str("build_target", cfg.BuildTarget).
		Str("store_driver", cfg.StoreDriver).
		Bool("cache_in_memory", cfg.CacheInMemory).
		Int("http_port", cfg.HTTPPort).
		Msg("Relief core starting…")

	// -------- Record store --------------------
	st, err := factory.NewStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Store backend unavailable")
	}
	defer func() { _ = st.Close() }()

	// -------- Lookup cache --------------------
	ca, err := factory.NewCache(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Cache unavailable")
	}
	defer func() { _ = ca.Close() }()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// -------- Background loops ----------------
	hc := store.NewHealthChecker(st, log, time.Duration(cfg.HealthProbeTimeoutSeconds)*time.Second)
	go hc.Start(ctx, time.Duration(cfg.HealthProbeSeconds)*time.Second)

	sweeper := cache.NewSweeper(ca, log)
	go sweeper.Start(ctx, time.Duration(cfg.CacheSweepSeconds)*time.Second)

	// -------- Health probe surface ------------
	// The application routing layer lives elsewhere; this process only
	// exposes liveness for orchestration.
	router := mux.NewRouter()
	router.HandleFunc("/v0/health", func(w http.ResponseWriter, r *http.Request) {
		status := "unhealthy"
		if hc.IsHealthy() {
			status = "healthy"
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status":    status,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}).Methods(http.MethodGet)

	server := &http.Server{
		Addr:         cfg.GetHTTPAddr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down…")
	stop()
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}
