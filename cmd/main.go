package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sviatoweb/films-locations/internal/config"
	"github.com/sviatoweb/films-locations/internal/geocoding"
	"github.com/sviatoweb/films-locations/internal/metrics"
	"github.com/sviatoweb/films-locations/internal/parser"
	"github.com/sviatoweb/films-locations/internal/render"
	"github.com/sviatoweb/films-locations/internal/repository"
	"github.com/sviatoweb/films-locations/internal/service"
	"github.com/sviatoweb/films-locations/internal/storage"
)

// Constants for different environment types.
const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

// main is the entry point of the application.
func main() {
	// Create a context that will be canceled when an interrupt signal is received.
	// This allows for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load application configuration from flags, environment and .env file.
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set up the logger based on the environment.
	logger := setupLogger(cfg.Env)

	// Create a separate registry for metrics with exemplar
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	// Initialize the persistent geocode cache when a database is configured.
	// Without one, lookups are still memoized for the lifetime of the run.
	var store geocoding.CacheStore
	var dtb *pgxpool.Pool
	if cfg.Database.Enabled() {
		dtb, err = repository.NewDatabase(
			ctx, cfg.Database.Host, cfg.Database.Port, cfg.Database.User, cfg.Database.Password, cfg.Database.Name,
		)
		if err != nil {
			log.Fatalf("Failed to connect to DB: %v", err)
		}
		defer dtb.Close()

		// Create a new repository instance using the database connection.
		repo := repository.NewRepository(dtb, logger)
		if err = repo.EnsureSchema(ctx); err != nil {
			log.Fatalf("Failed to prepare geocode cache: %v", err)
		}
		store = repo

		logger.InfoContext(ctx, "Persistent geocode cache enabled", "host", cfg.Database.Host)
	}

	// Create geocoding provider using factory pattern based on configuration
	// This allows runtime selection between different providers (Google, Nominatim, Photon)
	providerConfig := geocoding.ProviderConfig{
		Type:      geocoding.ProviderType(cfg.Provider.Type),
		APIKey:    cfg.Provider.Key,
		RateLimit: cfg.Provider.Rate,
		Logger:    logger,
	}

	geoProvider, err := geocoding.NewProvider(providerConfig)
	if err != nil {
		log.Fatalf("Failed to create geocoding provider: %v", err)
	}

	logger.InfoContext(ctx, "Geocoding provider initialized", "type", cfg.Provider.Type)

	// Every distinct location string is resolved at most once per run.
	cachedProvider := geocoding.NewCachedProvider(geoProvider, store, logger)

	renderer, err := render.NewRenderer(render.RendererConfig{
		Format: render.FormatType(cfg.Format),
		Output: cfg.Output,
		Center: cfg.Reference,
		Logger: logger,
	})
	if err != nil {
		log.Fatalf("Failed to create renderer: %v", err)
	}

	// Start the monitoring server in a goroutine to allow main to continue.
	if cfg.HealthPort > 0 {
		go startMonitoringServer(ctx, logger, reg, dtb, cfg.HealthPort)
	}

	films, err := parser.ParseFile(cfg.File)
	if err != nil {
		log.Fatalf("Failed to parse locations file: %v", err)
	}

	logger.InfoContext(ctx, "Listing parsed", "file", cfg.File, "films", len(films))

	// Init the map service using the cached geo provider.
	mapService := service.NewMapService(
		logger,
		cachedProvider,
		cfg.Provider.Type, // Provider name for metrics
		renderer,
		appMetrics,
		cfg.Workers,
		service.Options{
			Mode:      service.Mode(cfg.Mode),
			Reference: cfg.Reference,
			RadiusKm:  cfg.RadiusKm,
			Cap:       cfg.Cap,
			Year:      cfg.Year,
		},
	)

	markers, err := mapService.Generate(ctx, films)
	if err != nil {
		log.Fatalf("Failed to generate map: %v", err)
	}

	stats := cachedProvider.Stats()
	appMetrics.CacheHits.Set(float64(stats.Hits))
	appMetrics.CacheMisses.Set(float64(stats.Misses))

	logger.InfoContext(ctx, "Map written.",
		"path", cfg.Output,
		"markers", len(markers),
		"cache_hits", stats.Hits,
		"cache_misses", stats.Misses,
	)

	// Publish the artifact when an S3 target is configured. The map is
	// already on disk, so upload failures are logged, not fatal.
	if cfg.S3.Enabled() {
		uploadArtifact(ctx, logger, cfg)
	}
}

// uploadArtifact pushes the rendered map into the configured bucket.
func uploadArtifact(ctx context.Context, logger *slog.Logger, cfg *config.Config) {
	s3store, err := storage.NewS3Store(cfg.S3.Endpoint, cfg.S3.AccessKey, cfg.S3.SecretKey, cfg.S3.UseSSL, logger)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to create S3 store", "error", err)
		return
	}

	if err = s3store.EnsureBucket(ctx, cfg.S3.Bucket); err != nil {
		logger.ErrorContext(ctx, "Failed to prepare bucket", "error", err)
		return
	}

	if err = s3store.UploadFile(ctx, cfg.S3.Bucket, cfg.Output); err != nil {
		logger.ErrorContext(ctx, "Failed to upload map artifact", "error", err)
	}
}

// startMonitoringServer starts an HTTP server that provides health check and metrics endpoints.
// It listens on the specified port and logs the server's status and any errors encountered.
//
// Parameters:
// - ctx: A context.Context for managing cancellation and timeouts.
// - log: A logger for logging server events and errors.
// - reg: A registry with Prometheus collectors.
// - dtb: A pgxpool connector for database methods (ping); may be nil when no cache is configured.
// - port: The port number on which the server will listen.
func startMonitoringServer(
	ctx context.Context,
	log *slog.Logger,
	reg *prometheus.Registry,
	dtb *pgxpool.Pool,
	port int,
) {
	http.HandleFunc("/healthz", func(writer http.ResponseWriter, _ *http.Request) {
		log.DebugContext(ctx, "Performing health checks...")
		status, body := http.StatusOK, "OK"
		if dtb != nil {
			if err := dtb.Ping(ctx); err != nil {
				status, body = http.StatusServiceUnavailable, "DB ping failed"
			}
		}
		writer.WriteHeader(status)
		_, err := writer.Write([]byte(body))
		if err != nil {
			log.ErrorContext(ctx, "failed to write reply", "error", err)
		}

		log.DebugContext(ctx, "Health checks completed", "status", status)
	})
	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	log.InfoContext(ctx, "Starting monitoring server", "port", port)
	readTimeout := 5
	writeTimeout := 10
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      http.DefaultServeMux,
		ReadTimeout:  time.Duration(readTimeout) * time.Second,
		WriteTimeout: time.Duration(writeTimeout) * time.Second,
	}
	if err := server.ListenAndServe(); err != nil {
		log.ErrorContext(ctx, "Monitoring server failed", "error", err)
	}
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: true,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					return a
				},
			}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelInfo,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					return a
				},
			}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelInfo,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{}
					}
					return a
				},
			}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelError,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{}
					}
					return a
				},
			}),
		)

		log.Error(
			"The env parameter was not specified or was invalid. Logging will be minimal, by default.",
			slog.String("available_envs", "local, development, production"))
	}

	return log
}
