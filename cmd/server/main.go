package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"

	"humblebot/internal/catalog"
	"humblebot/internal/config"
	"humblebot/internal/handler"
	"humblebot/internal/handler/sse"
	"humblebot/internal/middleware"
	"humblebot/internal/service/backend"
	chatService "humblebot/internal/service/chat"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load .env file (ignore error if not exists)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := config.NewLogger(cfg, os.Stdout)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"backend", cfg.Backend,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cat, err := catalog.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to initialize backend catalog: %v", err)
	}
	logger.Info("backend catalog initialized")

	selection, err := backend.Setup(ctx, cfg, cat, logger)
	if err != nil {
		log.Fatalf("Failed to setup backend: %v", err)
	}

	policy, err := chatService.ParseLateResultPolicy(cfg.LateResultPolicy)
	if err != nil {
		log.Fatalf("Invalid late result policy: %v", err)
	}

	session := chatService.NewService(selection.Backend, logger,
		chatService.WithLateResultPolicy(policy),
	)

	sessionHandler := handler.NewSessionHandler(session, sse.DefaultConfig(), logger)
	backendsHandler := handler.NewBackendsHandler(cat, backend.NewFactory(cfg, cat),
		selection.Name, selection.Model, logger)
	healthHandler := handler.NewHealthHandler(session)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, sessionHandler, backendsHandler, healthHandler)
	mux.Handle("GET /metrics", promhttp.Handler())

	if cfg.Debug {
		handler.RegisterDebugRoutes(mux,
			handler.NewDebugHandler(session, selection.Name, selection.Model, string(policy)))
		logger.Warn("debug endpoints enabled", "path", "/api/session/debug")
	}

	// Middleware, innermost first
	var h http.Handler = mux
	h = middleware.Recovery(logger)(h)
	h = middleware.Metrics(h)
	h = middleware.Logging(logger)(h)
	h = middleware.RequestID(h)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Last-Event-ID", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // Disabled to allow long-lived SSE streams
		IdleTimeout:  60 * time.Second,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		// Closing the session first ends open SSE streams so Shutdown can drain
		session.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
