package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/kacper-wojtaszczyk/jackfruit/extraction-go/internal/clickhouse"
	"github.com/kacper-wojtaszczyk/jackfruit/extraction-go/internal/config"
	"github.com/kacper-wojtaszczyk/jackfruit/extraction-go/internal/exitcode"
	"github.com/kacper-wojtaszczyk/jackfruit/extraction-go/internal/extraction"
	"github.com/kacper-wojtaszczyk/jackfruit/extraction-go/internal/grib"
	"github.com/kacper-wojtaszczyk/jackfruit/extraction-go/internal/model"
	"github.com/kacper-wojtaszczyk/jackfruit/extraction-go/internal/storage"
)

func main() {
	// Configure the global logger
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})))

	// Parse CLI flags
	dateStr := flag.String("date", time.Now().Format("2006-01-02"), "Date of the stored object (YYYY-MM-DD)")
	datasetStr := flag.String("dataset", "cams-europe-air-quality-forecasts-analysis", "Dataset name")
	runID := flag.String("run-id", "", "Run identifier (UUIDv7 from orchestration)")
	source := flag.String("source", "ads", "Source prefix of the object key")
	extension := flag.String("extension", "grib", "Object extension (grib or nc)")
	parameters := flag.String("parameters", "", "Comma-separated parameters to extract (shortName or discipline/category/number)")
	levelType := flag.String("level-type", "", "Type of level to select (e.g. isobaricInhPa, pl, surface)")
	level := flag.Float64("level", 0, "Level value to select")
	flag.Parse()

	// Parse and validate flags
	datasetName := model.Dataset(*datasetStr)
	if err := datasetName.Validate(); err != nil {
		slog.Error("invalid dataset", "error", err)
		fmt.Fprintf(os.Stderr, "Usage: %v\n", err)
		os.Exit(exitcode.ConfigError)
	}
	date, err := time.Parse("2006-01-02", *dateStr)
	if err != nil {
		slog.Error("invalid date format", "date", *dateStr, "error", err)
		fmt.Fprintf(os.Stderr, "Usage: date must be in YYYY-MM-DD format\n")
		os.Exit(exitcode.ConfigError)
	}
	if *runID == "" {
		slog.Error("run-id is required")
		fmt.Fprintf(os.Stderr, "Usage: run-id must be provided (UUIDv7)\n")
		os.Exit(exitcode.ConfigError)
	}

	// Ensure run-id parses as UUIDv7 early
	if err := model.RunID(*runID).Validate(); err != nil {
		slog.Error("invalid run-id", "error", err)
		fmt.Fprintf(os.Stderr, "Usage: run-id must be a UUIDv7\n")
		os.Exit(exitcode.ConfigError)
	}

	var levelValue *float64
	if levelSet() {
		levelValue = level
	}
	criteria, err := parseCriteria(*parameters, *levelType, levelValue)
	if err != nil {
		slog.Error("invalid parameters", "error", err)
		fmt.Fprintf(os.Stderr, "Usage: %v\n", err)
		os.Exit(exitcode.ConfigError)
	}

	// Ensure environment variables are loaded
	err = godotenv.Load()
	if err != nil {
		slog.Warn("failed to load env vars", "error", err)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(exitcode.ConfigError)
	}

	// Create a cancellable context (for graceful shutdown)
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize MinIO client
	minioCfg := storage.MinIOConfig{
		Endpoint:  cfg.MinIOEndpoint,
		AccessKey: cfg.MinIOAccessKey,
		SecretKey: cfg.MinIOSecretKey,
		Bucket:    cfg.MinIOBucket,
		UseSSL:    cfg.MinIOUseSSL,
	}
	minioClient, err := storage.NewMinIOClient(ctx, minioCfg)
	if err != nil {
		slog.Error("failed to initialize minio client", "error", err)
		os.Exit(exitcode.ConfigError)
	}

	// Initialize ClickHouse writer
	writer, err := clickhouse.NewWriter(clickhouse.Config{
		Host:     cfg.ClickHouseHost,
		Port:     cfg.ClickHousePort,
		User:     cfg.ClickHouseUser,
		Password: cfg.ClickHousePassword,
		Database: cfg.ClickHouseDatabase,
	}, slog.Default())
	if err != nil {
		slog.Error("failed to initialize clickhouse writer", "error", err)
		os.Exit(exitcode.ConfigError)
	}
	defer writer.Close()

	req := extraction.ExtractRequest{
		Dataset:   datasetName,
		Date:      date,
		Source:    *source,
		Extension: *extension,
		Criteria:  criteria,
	}

	if err := run(ctx, minioClient, writer, req, model.RunID(*runID)); err != nil {
		slog.Error("extraction failed", "error", err)
		os.Exit(exitCodeFor(err))
	}

	slog.Info("shutdown complete")
}

func run(ctx context.Context, store extraction.ObjectStore, sink extraction.PointSink, req extraction.ExtractRequest, runID model.RunID) error {
	svc := extraction.NewService(store, sink, extraction.GRIBDecoder{}, extraction.NCDecoder{})
	return svc.Extract(ctx, req, runID)
}

// levelSet reports whether -level was given. The zero value is a valid
// level, so the default cannot stand in for "not set".
func levelSet() bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "level" {
			set = true
		}
	})
	return set
}

func parseCriteria(parameters, levelType string, level *float64) ([]grib.Criteria, error) {
	if parameters == "" {
		return nil, errors.New("parameters must name at least one field")
	}

	var criteria []grib.Criteria
	for _, raw := range strings.Split(parameters, ",") {
		p, err := parseParameter(strings.TrimSpace(raw))
		if err != nil {
			return nil, err
		}
		criteria = append(criteria, grib.Criteria{Parameter: p, LevelType: levelType, Level: level})
	}
	return criteria, nil
}

// parseParameter reads either a shortName or a discipline/category/number
// triple like 0/20/72.
func parseParameter(raw string) (grib.Parameter, error) {
	if raw == "" {
		return nil, errors.New("empty parameter")
	}
	parts := strings.Split(raw, "/")
	if len(parts) != 3 {
		return grib.ByName(raw), nil
	}

	numbers := make([]int, 3)
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", raw, err)
		}
		numbers[i] = n
	}
	return grib.ByID(numbers[0], numbers[1], numbers[2]), nil
}

// exitCodeFor maps failures to the exit codes orchestration retries on.
func exitCodeFor(err error) int {
	var notFound *grib.FieldNotFoundError
	var storeErr *storage.StoreError
	var writeErr *clickhouse.WriteError
	switch {
	case errors.As(err, &notFound):
		return exitcode.DataError
	case errors.As(err, &storeErr):
		return exitcode.StorageError
	case errors.As(err, &writeErr):
		return exitcode.SinkError
	default:
		return exitcode.DataError
	}
}
