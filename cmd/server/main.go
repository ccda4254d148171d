package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/rollbook/internal/auth"
	"github.com/mmynk/rollbook/internal/config"
	"github.com/mmynk/rollbook/internal/metrics"
	"github.com/mmynk/rollbook/internal/middleware"
	"github.com/mmynk/rollbook/internal/narrative"
	"github.com/mmynk/rollbook/internal/service"
	"github.com/mmynk/rollbook/internal/storage"
	"github.com/mmynk/rollbook/internal/storage/redis"
	"github.com/mmynk/rollbook/internal/storage/sqlite"
	"github.com/mmynk/rollbook/internal/tracker"
	"github.com/mmynk/rollbook/pkg/api/apiconnect"
	"github.com/mmynk/rollbook/pkg/logging"
)

func main() {
	// A missing .env is fine; the environment may already be set
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "failed to read .env: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// Setup structured logging
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	store, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	tr := tracker.New(store, tracker.Options{
		Capacity:      cfg.ActivityLogCapacity,
		DefaultLeader: cfg.DefaultLeader,
		DefaultPeriod: cfg.DefaultPeriod,
		SeedCSV:       cfg.SeedCSV,
		Metrics:       m,
	})
	if err := tr.Load(ctx); err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}

	gen, closeGen := newGenerator(ctx, cfg)
	defer closeGen()

	// Interceptors run outermost first: auth sets the operator the logger reports
	var interceptors []connect.Interceptor
	wrapFiles := func(h http.Handler) http.Handler { return h }

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	if cfg.AuthEnabled() {
		interceptors = append(interceptors, middleware.RequireAuth(jwtManager, apiconnect.AuthServiceLoginProcedure))
		wrapFiles = middleware.RequireAuthHTTP(jwtManager)
		slog.Info("Authentication enabled", "operator", cfg.OperatorName)
	} else {
		slog.Warn("Authentication disabled; set OPERATOR_PASSWORD_HASH to require login")
	}
	interceptors = append(interceptors, middleware.LoggingInterceptor(slog.Default()))
	opts := connect.WithInterceptors(interceptors...)

	mux := http.NewServeMux()

	// Register Connect services
	mux.Handle(apiconnect.NewAttendanceServiceHandler(service.NewAttendanceService(tr), opts))
	mux.Handle(apiconnect.NewActivityServiceHandler(service.NewActivityService(tr), opts))
	mux.Handle(apiconnect.NewInsightServiceHandler(service.NewInsightService(tr, narrative.NewAnalyst(gen)), opts))
	if cfg.AuthEnabled() {
		authSvc := service.NewAuthService(
			auth.NewPasswordAuthenticator(cfg.OperatorName, cfg.OperatorPasswordHash),
			jwtManager,
			slog.Default(),
		)
		mux.Handle(apiconnect.NewAuthServiceHandler(authSvc, opts))
	}

	service.NewFileHandler(tr).Register(mux, wrapFiles)
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Add logging and CORS middleware
	loggedHandler := loggingMiddleware(corsMiddleware(mux))

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	h2cHandler := h2c.NewHandler(loggedHandler, &http2.Server{})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           h2cHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Connect server starting", "address", addr, "url", fmt.Sprintf("http://localhost%s", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.Store {
	case config.StoreRedis:
		store, err := redis.New(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		store, err := sqlite.New(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		slog.Info("Storage initialized", "database", cfg.DBPath)
		return store, nil
	}
}

// newGenerator returns the Gemini generator when an API key is configured.
func newGenerator(ctx context.Context, cfg *config.Config) (narrative.Generator, func()) {
	if cfg.GeminiAPIKey == "" {
		slog.Info("Gemini API key not set; reports use fallback text")
		return narrative.DisabledGenerator{}, func() {}
	}

	gen, err := narrative.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiTimeout)
	if err != nil {
		slog.Error("Failed to create Gemini client; reports use fallback text", "error", err)
		return narrative.DisabledGenerator{}, func() {}
	}
	slog.Info("Gemini client initialized", "model", cfg.GeminiModel)
	return gen, func() { gen.Close() }
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		slog.Debug("Request received",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"user_agent", r.UserAgent(),
		)

		next.ServeHTTP(w, r)

		slog.Info("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms, Content-Disposition")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
