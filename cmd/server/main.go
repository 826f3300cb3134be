package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/salachat/server/internal/config"
	httpHandler "github.com/salachat/server/internal/delivery/http"
	"github.com/salachat/server/internal/delivery/ws"
	"github.com/salachat/server/internal/middleware"
)

func main() {
	// Load .env file (ignore error if not exists, e.g. in production)
	_ = godotenv.Load()

	cfg := config.LoadFromEnv()
	log := newLogger(cfg.LogLevel)

	// Relay and its background sweeps
	hub := ws.NewHub(cfg, log)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	handler := httpHandler.NewHandler(cfg, hub, log)

	apiLimiter := middleware.NewIPRateLimiter(cfg.RateLimitAPI, 20)
	wsLimiter := middleware.NewIPRateLimiter(cfg.RateLimitWS, 10)
	apiCORS := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet},
	})

	r := chi.NewRouter()
	r.Use(middleware.SecurityHeaders)

	r.Get("/", handler.HandleIndex)
	r.Get("/ws", middleware.RateLimitFunc(wsLimiter, handler.HandleWebSocket))

	r.Route("/api", func(r chi.Router) {
		r.Use(apiCORS.Handler)
		r.Use(middleware.RateLimit(apiLimiter))
		r.Get("/stats", handler.HandleStats)
		r.Get("/banned", handler.HandleBanned)
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("policy", cfg.BanPolicy).Msg("relay listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	cancel()
	hub.Shutdown()

	shutdownCtx, cancelTimeout := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelTimeout()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}

	log.Info().Msg("server exited gracefully")
}

func newLogger(level string) zerolog.Logger {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	switch level {
	case "debug":
		return logger.Level(zerolog.DebugLevel)
	case "warn":
		return logger.Level(zerolog.WarnLevel)
	case "error":
		return logger.Level(zerolog.ErrorLevel)
	case "silent", "off":
		return logger.Level(zerolog.Disabled)
	default:
		return logger.Level(zerolog.InfoLevel)
	}
}
