package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Lenacars/adminpanel-sub000/internal/config"
	"github.com/Lenacars/adminpanel-sub000/internal/database"
	"github.com/Lenacars/adminpanel-sub000/internal/ingest"
	"github.com/Lenacars/adminpanel-sub000/internal/model"
	"github.com/Lenacars/adminpanel-sub000/internal/parser"
	"github.com/Lenacars/adminpanel-sub000/internal/repository"
	"github.com/Lenacars/adminpanel-sub000/internal/storage"
)

func main() {
	var (
		inputFile  = flag.String("file", "", "Catalog file to import (.json, .csv or .xlsx)")
		skipCache  = flag.Bool("skip-cache", false, "Bypass the Redis listing cache even when configured")
		logLevel   = flag.String("log-level", getEnv("LOG_LEVEL", "info"), "Log level (debug, info, warn, error)")
		jsonReport = flag.Bool("json", false, "Print the import report as JSON")
	)

	flag.Parse()

	if *inputFile == "" {
		fmt.Fprintln(os.Stderr, "Error: input file is required (use -file)")
		flag.Usage()
		os.Exit(1)
	}

	logger := setupLogger(*logLevel)

	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Info("received signal, shutting down", "signal", sig)
		cancel()
	}()

	rows, err := readRows(*inputFile)
	if err != nil {
		logger.Error("failed to read input file", "file", *inputFile, "error", err)
		os.Exit(1)
	}
	logger.Info("input file loaded", "file", *inputFile, "rows", len(rows))

	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.RunMigrations(ctx, db); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	bucket, err := storage.NewBucketStore(storage.Config{
		Endpoint:      cfg.Storage.Endpoint,
		AccessKey:     cfg.Storage.AccessKey,
		SecretKey:     cfg.Storage.SecretKey,
		Bucket:        cfg.Storage.Bucket,
		UseSSL:        cfg.Storage.UseSSL,
		PublicBaseURL: cfg.Storage.PublicBaseURL,
	})
	if err != nil {
		logger.Error("failed to set up storage", "error", err)
		os.Exit(1)
	}

	var lister ingest.ObjectLister = bucket
	if cfg.Redis.Addr != "" && !*skipCache {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		lister = storage.NewCachedLister(bucket, redisClient, cfg.Redis.ListingTTL, logger)
	}

	vehicleRepo := repository.NewVehicleRepo(db)
	variationRepo := repository.NewVariationRepo(db)
	reconciler := ingest.NewReconciler(vehicleRepo, variationRepo, logger)
	pipeline := ingest.NewPipeline(lister, reconciler, logger)

	start := time.Now()
	report, err := pipeline.Run(ctx, rows)
	if err != nil {
		logger.Error("import failed", "error", err)
		os.Exit(1)
	}

	if *jsonReport {
		json.NewEncoder(os.Stdout).Encode(report)
	} else {
		fmt.Printf("%s\n", report.Message)
		fmt.Printf("  success:  %d\n", report.SuccessCount)
		fmt.Printf("  errors:   %d\n", report.ErrorCount)
		fmt.Printf("  warnings: %d\n", report.WarningCount)
		for _, e := range report.Errors {
			fmt.Printf("  row %d (%s): %s\n", e.Index+1, e.StockCode, e.Message)
		}
	}

	logger.Info("import completed", "duration", time.Since(start))
	if report.ErrorCount > 0 {
		os.Exit(2)
	}
}

// readRows picks the parser from the file extension.
func readRows(path string) ([]model.VehicleRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		var rows []model.VehicleRow
		if err := json.NewDecoder(f).Decode(&rows); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
		return rows, nil
	case ".csv":
		return parser.ParseCSV(f)
	case ".xlsx":
		return parser.ParseXLSX(f)
	default:
		return nil, fmt.Errorf("unsupported file type %q", filepath.Ext(path))
	}
}

// setupLogger creates a structured logger with the specified level
func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
