package clickhouse

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/kacper-wojtaszczyk/jackfruit/extraction-go/internal/model"
)

// Writer inserts extracted grid points into the grid_data table the serving
// side reads from.
type Writer struct {
	conn driver.Conn
}

type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
}

// WriteError wraps a ClickHouse failure for external consumers.
type WriteError struct {
	Message string
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("clickhouse: %s", e.Message)
}

func NewWriter(cfg Config, logger *slog.Logger) (*Writer, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.User,
			Password: cfg.Password,
		},
		Logger: logger,
		Settings: clickhouse.Settings{
			"max_execution_time": 15,
		},
	})

	if err != nil {
		return nil, fmt.Errorf("open clickhouse: %w", err)
	}

	if err := conn.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("ping clickhouse: %w", err)
	}

	return &Writer{conn: conn}, nil
}

// InsertPoints writes all points as a single batch.
func (w *Writer) InsertPoints(ctx context.Context, points []model.GridPoint) error {
	if len(points) == 0 {
		return nil
	}

	batch, err := w.conn.PrepareBatch(ctx,
		"INSERT INTO grid_data (variable, value, unit, lat, lon, catalog_id, timestamp)")
	if err != nil {
		return toWriteError(err, "failed to prepare batch")
	}

	for _, p := range points {
		if err := batch.Append(p.Variable, p.Value, p.Unit, p.Lat, p.Lon, p.CatalogID, p.Timestamp); err != nil {
			return toWriteError(err, "failed to append row")
		}
	}

	if err := batch.Send(); err != nil {
		return toWriteError(err, "failed to send batch")
	}

	return nil
}

func (w *Writer) Close() error {
	return w.conn.Close()
}

func toWriteError(err error, context string) error {
	if err == nil {
		return nil
	}
	return &WriteError{Message: fmt.Sprintf("%s: %v", context, err)}
}
