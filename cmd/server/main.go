package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/yalldumb/nails-tg-app/internal/access"
	"github.com/yalldumb/nails-tg-app/internal/api"
	"github.com/yalldumb/nails-tg-app/internal/booking"
	"github.com/yalldumb/nails-tg-app/internal/cache"
	"github.com/yalldumb/nails-tg-app/internal/catalog"
	"github.com/yalldumb/nails-tg-app/internal/config"
	"github.com/yalldumb/nails-tg-app/internal/events"
	"github.com/yalldumb/nails-tg-app/internal/metrics"
	"github.com/yalldumb/nails-tg-app/internal/slots"
	"github.com/yalldumb/nails-tg-app/internal/storage"
	"github.com/yalldumb/nails-tg-app/internal/uploads"
)

func main() {
	_ = godotenv.Load()

	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Logger()

	cfg, err := config.Load(os.Getenv("NAILS_CONFIG_PATH"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	store, err := openStore(cfg, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("open store error")
	}
	defer store.Close()

	var rdb *redis.Client
	if cfg.Redis.Address != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
	}

	var readCache *cache.Cache
	if rdb != nil {
		readCache = cache.New(rdb, cfg.CacheTTL(), logger)
	}

	var publisher events.Publisher = events.NewBus()
	if rdb != nil {
		publisher = events.Multi{publisher, events.NewRedisPublisher(rdb, logger)}
	}

	uploader, err := uploads.NewStore(cfg.UploadsDir(), cfg.UploadTimeout(), logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("open uploads dir error")
	}

	cat := catalog.New(cfg.Catalog)

	slotMode := cfg.Booking.ConflictMode == config.ConflictModeDateTime
	var gen *slots.Generator
	if slotMode {
		gen, err = slots.NewGenerator(cfg.DayStart(), cfg.DayEnd(), cfg.SlotMinutes(), store)
		if err != nil {
			logger.Fatal().Err(err).Msg("bad working-day window")
		}
	}

	svc := booking.NewService(cat, store, uploader, publisher, gen, readCache,
		cfg.Booking.ConflictMode, cfg.MaxPhotos(), logger)

	auth := access.NewStaticToken(cfg.Admin.Token, logger)
	server := api.NewHTTPServer(svc, cat, auth, cfg.UploadsDir(), slotMode, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Database.Driver == "sqlite" && cfg.Database.Backup.Enabled {
		backup := storage.NewBackup(cfg.Database.Path, cfg.BackupDir(),
			cfg.BackupInterval(), cfg.Database.Backup.RetentionDays, logger)
		go backup.Run(ctx.Done())
	}

	if cfg.Monitoring.HealthCheckPort == 0 {
		cfg.Monitoring.HealthCheckPort = 8090
	}
	go startHealthServer(ctx, cfg.Monitoring.HealthCheckPort, store, rdb, &logger)

	if cfg.Monitoring.PrometheusEnabled {
		if cfg.Monitoring.PrometheusPort == 0 {
			cfg.Monitoring.PrometheusPort = 9090
		}
		metrics.Register()
		go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, &logger)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort()),
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()

	logger.Info().
		Int("port", cfg.ServerPort()).
		Str("conflict_mode", cfg.Booking.ConflictMode).
		Str("store", cfg.Database.Driver).
		Msg("booking server started")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal().Err(err).Msg("server error")
	}
}

func openStore(cfg *config.Config, logger *zerolog.Logger) (storage.BookingStore, error) {
	switch cfg.Database.Driver {
	case "sqlite":
		return storage.NewSQLiteStore(cfg.Database.Path, cfg.Booking.ConflictMode, logger)
	case "memory":
		return storage.NewMemoryStore(cfg.Booking.ConflictMode), nil
	default:
		return nil, fmt.Errorf("unknown database.driver %q", cfg.Database.Driver)
	}
}

func startHealthServer(ctx context.Context, port int, store storage.BookingStore, rdb *redis.Client, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		ctxPing, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		if err := store.Ping(ctxPing); err != nil {
			http.Error(w, "store not ready", http.StatusServiceUnavailable)
			return
		}
		if rdb != nil {
			if err := rdb.Ping(ctxPing).Err(); err != nil {
				http.Error(w, "redis not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("health server error")
	}
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
