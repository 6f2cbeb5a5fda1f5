package clickhouse_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	clickhouseraw "github.com/ClickHouse/clickhouse-go/v2"
	chdriver "github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/kacper-wojtaszczyk/jackfruit/extraction-go/internal/clickhouse"
	"github.com/kacper-wojtaszczyk/jackfruit/extraction-go/internal/model"
)

func testConfig(t *testing.T) clickhouse.Config {
	t.Helper()
	godotenv.Load("../../.env.test")

	return clickhouse.Config{
		Host:     getEnv("CLICKHOUSE_HOST", "localhost"),
		Port:     getEnv("CLICKHOUSE_PORT", "9000"),
		User:     getEnv("CLICKHOUSE_USER", "default"),
		Password: getEnv("CLICKHOUSE_PASSWORD", ""),
		Database: getEnv("CLICKHOUSE_DATABASE", "jackfruit"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func newWriter(t *testing.T) *clickhouse.Writer {
	t.Helper()

	writer, err := clickhouse.NewWriter(testConfig(t), slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatal(err)
	}

	t.Cleanup(func() { _ = writer.Close() })

	return writer
}

func newRawConn(t *testing.T) chdriver.Conn {
	t.Helper()

	cfg := testConfig(t)
	conn, err := clickhouseraw.Open(&clickhouseraw.Options{
		Addr: []string{fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)},
		Auth: clickhouseraw.Auth{
			Database: cfg.Database,
			Username: cfg.User,
			Password: cfg.Password,
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	t.Cleanup(func() { _ = conn.Close() })

	return conn
}

func TestInsertPoints(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test, requires ClickHouse")
	}

	ctx := t.Context()
	catalogID, err := uuid.NewV7()
	if err != nil {
		t.Fatal(err)
	}

	// Truncate to seconds: ClickHouse DateTime has second precision.
	timestamp := time.Now().UTC().Truncate(time.Second)
	points := []model.GridPoint{
		{Variable: "pm2p5", Value: 3.05, Unit: "µg/m³", Lat: 55.05, Lon: 106.15, Timestamp: timestamp, CatalogID: catalogID},
		{Variable: "pm2p5", Value: 4.10, Unit: "µg/m³", Lat: 55.05, Lon: 106.25, Timestamp: timestamp, CatalogID: catalogID},
	}

	rawConn := newRawConn(t)
	t.Cleanup(func() {
		_ = rawConn.Exec(context.Background(),
			"ALTER TABLE grid_data DELETE WHERE catalog_id = @catalog_id",
			clickhouseraw.Named("catalog_id", catalogID),
		)
	})

	if err := newWriter(t).InsertPoints(ctx, points); err != nil {
		t.Fatalf("error inserting points: %v", err)
	}

	var count uint64
	err = rawConn.QueryRow(ctx,
		"SELECT count() FROM grid_data WHERE catalog_id = @catalog_id",
		clickhouseraw.Named("catalog_id", catalogID),
	).Scan(&count)
	if err != nil {
		t.Fatalf("error counting rows: %v", err)
	}
	if count != uint64(len(points)) {
		t.Errorf("expected %d rows, got %d", len(points), count)
	}

	var (
		value float32
		unit  string
		lat   float32
	)
	err = rawConn.QueryRow(ctx, `
		SELECT value, unit, lat FROM grid_data
		WHERE catalog_id = @catalog_id AND lon = @lon
	`,
		clickhouseraw.Named("catalog_id", catalogID),
		clickhouseraw.Named("lon", points[1].Lon),
	).Scan(&value, &unit, &lat)
	if err != nil {
		t.Fatalf("error reading row back: %v", err)
	}

	if value != points[1].Value {
		t.Errorf("expected value %v, got %v", points[1].Value, value)
	}
	if unit != points[1].Unit {
		t.Errorf("expected unit %v, got %v", points[1].Unit, unit)
	}
	if lat != points[1].Lat {
		t.Errorf("expected latitude %v, got %v", points[1].Lat, lat)
	}
}
