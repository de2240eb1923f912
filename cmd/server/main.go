// VoxVerify - Employment Verification Dialogue Server
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/voxverify/voxverify/internal/api"
	"github.com/voxverify/voxverify/internal/audio"
	"github.com/voxverify/voxverify/internal/config"
	"github.com/voxverify/voxverify/internal/dialog"
	"github.com/voxverify/voxverify/internal/directory"
	"github.com/voxverify/voxverify/internal/events"
	"github.com/voxverify/voxverify/internal/live"
	"github.com/voxverify/voxverify/internal/middleware"
	"github.com/voxverify/voxverify/internal/responder"
	"github.com/voxverify/voxverify/internal/session"
	"github.com/voxverify/voxverify/internal/speech"
	"github.com/voxverify/voxverify/internal/store"
	"github.com/voxverify/voxverify/internal/validate"
	"github.com/voxverify/voxverify/web"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting server", "port", cfg.Port, "dev", cfg.IsDevelopment())

	// Initialize dependencies.
	repo, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			slog.Error("Failed to close repository", "error", closeErr)
		}
	}()

	if err := repo.Ping(context.Background()); err != nil {
		slog.Error("Database health check failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database connected")

	dir, err := directory.Load(cfg.DirectoryPath)
	if err != nil {
		slog.Error("Failed to load employer directory", "error", err, "path", cfg.DirectoryPath)
		os.Exit(1)
	}
	slog.Info("Employer directory loaded", "companies", dir.Len())

	synth := speech.NewGoogleSynthesizer(cfg.SpeechLang)
	audioMgr, err := audio.NewManager(synth, cfg.AudioDir, nil)
	if err != nil {
		slog.Error("Failed to initialize audio manager", "error", err)
		os.Exit(1)
	}

	sessions := session.NewMemoryStore()

	// The generative responder is optional; without credentials the
	// engine falls back to deterministic reprompts.
	var resp dialog.Responder
	if cfg.OpenAI.APIKey != "" {
		client := responder.NewClient(responder.Config{
			APIKey:  cfg.OpenAI.APIKey,
			BaseURL: cfg.OpenAI.BaseURL,
			Model:   cfg.OpenAI.Model,
		})
		resp = client
		slog.Info("Generative responder enabled", "model", client.Model())
	} else {
		resp = responder.Disabled{}
		slog.Info("Generative responder disabled (OPENAI_API_KEY not set)")
	}

	engine := dialog.NewEngine(sessions, dir, validate.New(cfg.DirectoryPhrases, nil), resp, nil, dialog.Config{
		MaxRetries:     cfg.MaxFieldRetries,
		CandidateLimit: cfg.MatchLimit,
		ListLimit:      cfg.ListLimit,
		MatchCutoff:    cfg.MatchCutoff,
	})

	publisher := events.New(&events.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.Topic,
		Enabled: cfg.Kafka.Enabled,
	})
	defer func() {
		if closeErr := publisher.Close(); closeErr != nil {
			slog.Error("Failed to close event publisher", "error", closeErr)
		}
	}()

	hub := live.NewHub()

	// Initialize handlers.
	handler := api.NewHandler(engine, sessions, dir, audioMgr, repo, cfg.AudioTTL)
	handler.SetEvents(publisher)
	handler.SetHub(hub)
	healthHandler := api.NewHealthHandler(repo)
	wsHandler := live.NewSocketHandler(hub, cfg.FrontendURL, cfg.IsDevelopment())

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/ping"))
	r.Use(middleware.CORS([]string{"*"}))

	// Public routes.
	healthHandler.RegisterHealth(r)
	handler.RegisterRoutes(r)

	// WebSocket endpoint for conversation monitors.
	r.Get("/ws/conversation", wsHandler.ServeHTTP)

	// Prometheus metrics.
	r.Handle("/metrics", promhttp.Handler())

	// Serve embedded frontend (SPA catch-all).
	r.Handle("/*", web.SPAHandler())

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // audio responses stream; no write deadline
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Sweep audio artifacts that were synthesized but never fetched.
	audio.StartJanitor(ctx, audioMgr, cfg.AudioMaxAge)

	// Start server.
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped successfully")
}
