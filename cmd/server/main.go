package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/Lenacars/adminpanel-sub000/internal/config"
	"github.com/Lenacars/adminpanel-sub000/internal/database"
	"github.com/Lenacars/adminpanel-sub000/internal/event"
	"github.com/Lenacars/adminpanel-sub000/internal/handler"
	"github.com/Lenacars/adminpanel-sub000/internal/ingest"
	"github.com/Lenacars/adminpanel-sub000/internal/observability"
	"github.com/Lenacars/adminpanel-sub000/internal/repository"
	"github.com/Lenacars/adminpanel-sub000/internal/storage"
)

func main() {
	cfg := config.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	logger.Info("starting admin panel api")

	ctx := context.Background()

	logger.Info("connecting to database", "host", cfg.Database.Host, "database", cfg.Database.Name)
	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.RunMigrations(ctx, db); err != nil {
		logger.Error("migrations failed", "error", err)
		os.Exit(1)
	}
	logger.Info("database ready")

	bucket, err := storage.NewBucketStore(storage.Config{
		Endpoint:      cfg.Storage.Endpoint,
		AccessKey:     cfg.Storage.AccessKey,
		SecretKey:     cfg.Storage.SecretKey,
		Bucket:        cfg.Storage.Bucket,
		UseSSL:        cfg.Storage.UseSSL,
		PublicBaseURL: cfg.Storage.PublicBaseURL,
	})
	if err != nil {
		logger.Error("storage setup failed", "error", err)
		os.Exit(1)
	}

	var lister ingest.ObjectLister = bucket
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		lister = storage.NewCachedLister(bucket, redisClient, cfg.Redis.ListingTTL, logger)
		logger.Info("listing cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.ListingTTL)
	}

	vehicleRepo := repository.NewVehicleRepo(db)
	variationRepo := repository.NewVariationRepo(db)

	reconciler := ingest.NewReconciler(vehicleRepo, variationRepo, logger)
	if len(cfg.Kafka.Brokers) > 0 {
		producer := event.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
		defer producer.Close()
		reconciler.SetEventPublisher(producer)
		logger.Info("catalog events enabled", "topic", cfg.Kafka.Topic)
	}

	pipeline := ingest.NewPipeline(lister, reconciler, logger)

	healthHandler := handler.NewHealthHandler(db)
	importHandler := handler.NewImportHandler(pipeline, logger)
	vehicleHandler := handler.NewVehicleHandler(vehicleRepo, variationRepo, logger)

	observability.Register()

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	// CORS middleware
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	})

	r.Get("/health", healthHandler.Check)
	r.Handle("/metrics", observability.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/vehicles/import", importHandler.ImportJSON)
		r.Post("/vehicles/import/csv", importHandler.ImportCSV)
		r.Post("/vehicles/import/xlsx", importHandler.ImportXLSX)

		r.Get("/vehicles", vehicleHandler.List)
		r.Get("/vehicles/{id}", vehicleHandler.Get)
		r.Delete("/vehicles/{id}", vehicleHandler.Delete)
	})

	srv := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server started", "port", cfg.APIPort)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}

	logger.Info("server stopped")
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
