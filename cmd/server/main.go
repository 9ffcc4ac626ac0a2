package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/agendahq/agenda-api/internal/config"
	"github.com/agendahq/agenda-api/internal/handlers"
	"github.com/agendahq/agenda-api/internal/logger"
	"github.com/agendahq/agenda-api/internal/middleware"
	"github.com/agendahq/agenda-api/internal/services/events"
	"github.com/agendahq/agenda-api/internal/services/stats"
	"github.com/agendahq/agenda-api/internal/services/tasks"
	"github.com/agendahq/agenda-api/internal/store"
	"github.com/agendahq/agenda-api/internal/telemetry"
	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

const serviceName = "agenda-api"

func main() {
	debugFlag := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	debug := cfg.Debug || *debugFlag

	zapLogger, err := logger.New(debug)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		_ = logger.Sync(zapLogger)
	}()

	snapshotPath, err := cfg.SnapshotPath()
	if err != nil {
		zapLogger.Fatal("failed_to_resolve_snapshot_path", zap.Error(err))
	}

	zapLogger.Info("starting_server",
		zap.Bool("debug_mode", debug),
		zap.Int("port", cfg.Port),
		zap.String("snapshot_path", snapshotPath),
		zap.Bool("ephemeral", snapshotPath == ""),
		zap.Bool("otel_enabled", cfg.OTELEnabled),
	)

	// Optional tracing. A misconfigured exporter degrades to no tracing
	// instead of refusing to start.
	var tracerProvider *sdktrace.TracerProvider
	if cfg.OTELEnabled {
		if cfg.OTELEndpoint == "" {
			zapLogger.Warn("otel_enabled_but_endpoint_not_configured")
		} else {
			tp, err := telemetry.InitTracer(context.Background(), serviceName, cfg.OTELEndpoint)
			if err != nil {
				zapLogger.Warn("failed_to_initialize_otel_tracer", zap.Error(err))
			} else {
				tracerProvider = tp
				zapLogger.Info("otel_tracer_initialized", zap.String("endpoint", cfg.OTELEndpoint))
				defer func() {
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					if err := telemetry.Shutdown(shutdownCtx, tracerProvider); err != nil {
						zapLogger.Error("failed_to_shutdown_otel_tracer", zap.Error(err))
					}
				}()
			}
		}
	}

	st := store.New(snapshotPath, zapLogger)
	if err := st.Initialize(); err != nil {
		zapLogger.Fatal("failed_to_initialize_store", zap.Error(err))
	}
	zapLogger.Info("store_initialized", zap.Bool("ephemeral", st.Ephemeral()))

	taskSvc := tasks.NewService(st, zapLogger)
	eventSvc := events.NewService(st, zapLogger)
	statsSvc := stats.NewService(taskSvc, eventSvc)

	taskHandler := handlers.NewTaskHandler(taskSvc, zapLogger)
	eventHandler := handlers.NewEventHandler(eventSvc, zapLogger)
	statsHandler := handlers.NewStatsHandler(statsSvc, zapLogger)
	healthChecker := handlers.NewHealthChecker(st)

	r := mux.NewRouter()

	// Middleware executes outermost-first in registration order.
	if cfg.OTELEnabled && tracerProvider != nil {
		r.Use(otelmux.Middleware(serviceName))
	}
	r.Use(middleware.SecurityHeaders(cfg.EnableHSTS))
	r.Use(middleware.CORS())
	r.Use(middleware.MaxRequestSize(middleware.DefaultMaxRequestSize))
	r.Use(middleware.ContentType)
	r.Use(middleware.Recover(zapLogger))
	r.Use(middleware.Logging(zapLogger))
	if cfg.RateLimit != "" {
		rateLimitMW, err := middleware.RateLimit(cfg.RateLimit)
		if err != nil {
			zapLogger.Fatal("invalid_rate_limit_configuration",
				zap.String("rate", cfg.RateLimit),
				zap.Error(err),
			)
		}
		r.Use(rateLimitMW)
		zapLogger.Info("rate_limiting_enabled", zap.String("rate", cfg.RateLimit))
	}

	r.HandleFunc("/", handlers.Root).Methods("GET")
	r.HandleFunc("/api/health", healthChecker.HealthCheck).Methods("GET")

	taskHandler.RegisterRoutes(r.PathPrefix("/api/tasks").Subrouter())
	eventHandler.RegisterRoutes(r.PathPrefix("/api/events").Subrouter())
	statsHandler.RegisterRoutes(r.PathPrefix("/api/statistics").Subrouter())

	r.NotFoundHandler = handlers.NotFound(zapLogger)
	r.MethodNotAllowedHandler = handlers.MethodNotAllowed(zapLogger)

	srv := &http.Server{
		Addr:           ":" + strconv.Itoa(cfg.Port),
		Handler:        r,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		zapLogger.Info("server_listening", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("server_failed_to_start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("server_shutting_down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server_forced_to_shutdown", zap.Error(err))
	}

	zapLogger.Info("server_exited")
}
