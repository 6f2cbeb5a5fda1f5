package extraction

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/batchatco/go-native-netcdf/netcdf/api"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/kacper-wojtaszczyk/jackfruit/extraction-go/internal/grib"
	"github.com/kacper-wojtaszczyk/jackfruit/extraction-go/internal/model"
	"github.com/kacper-wojtaszczyk/jackfruit/extraction-go/internal/storage"
)

// ExtractRequest contains input parameters for extracting fields from one
// stored object.
type ExtractRequest struct {
	Dataset   model.Dataset
	Date      time.Time
	Source    string
	Extension string
	Criteria  []grib.Criteria
}

// ObjectStore reads raw objects the ingestion side wrote.
type ObjectStore interface {
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}

// PointSink receives extracted grid points.
type PointSink interface {
	InsertPoints(ctx context.Context, points []model.GridPoint) error
}

// FieldSet selects labeled fields out of one decoded object.
type FieldSet interface {
	First(c grib.Criteria) (*api.Variable, error)
}

// Decoder turns a raw object stream into a FieldSet.
type Decoder interface {
	Decode(r io.Reader) (FieldSet, error)
}

// Service orchestrates extraction steps: read, decode, select, store.
type Service struct {
	store       ObjectStore
	sink        PointSink
	gribDecoder Decoder
	ncDecoder   Decoder
}

func NewService(store ObjectStore, sink PointSink, gribDecoder, ncDecoder Decoder) *Service {
	return &Service{store: store, sink: sink, gribDecoder: gribDecoder, ncDecoder: ncDecoder}
}

func (s *Service) Extract(ctx context.Context, req ExtractRequest, runID model.RunID) error {
	if err := runID.Validate(); err != nil {
		return err
	}
	if len(req.Criteria) == 0 {
		return errors.New("no extraction criteria")
	}

	decoder, err := s.decoderFor(req.Extension)
	if err != nil {
		return err
	}

	// Object key mirrors what the ingestion side wrote.
	key := storage.ObjectKey{
		Source:    req.Source,
		Dataset:   req.Dataset,
		Date:      req.Date.Format("2006-01-02"),
		RunID:     runID,
		Extension: req.Extension,
	}

	slog.DebugContext(ctx, "extraction started", "dataset", req.Dataset, "date", req.Date.Format("2006-01-02"), "run_id", runID, "key", key.Key())

	body, err := s.store.Get(ctx, key.Key())
	if err != nil {
		return fmt.Errorf("get object: %w", err)
	}
	defer body.Close()

	fields, err := decoder.Decode(body)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if c, ok := fields.(io.Closer); ok {
		defer c.Close()
	}

	catalogID, err := runID.UUID()
	if err != nil {
		return err
	}

	perCriteria := make([][]model.GridPoint, len(req.Criteria))
	var g errgroup.Group
	for i, criteria := range req.Criteria {
		g.Go(func() error {
			v, err := fields.First(criteria)
			if err != nil {
				return err
			}
			points, err := fieldPoints(v, criteria, catalogID, req.Date)
			if err != nil {
				return fmt.Errorf("field %s: %w", criteria.Parameter, err)
			}
			perCriteria[i] = points
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("extract fields: %w", err)
	}

	var points []model.GridPoint
	for _, pts := range perCriteria {
		points = append(points, pts...)
	}

	if err := s.sink.InsertPoints(ctx, points); err != nil {
		return fmt.Errorf("store points: %w", err)
	}

	slog.InfoContext(ctx, "extraction complete", "key", key.Key(), "run_id", runID, "fields", len(req.Criteria), "points", len(points))
	return nil
}

func (s *Service) decoderFor(extension string) (Decoder, error) {
	switch extension {
	case "grib", "grib2":
		return s.gribDecoder, nil
	case "nc":
		return s.ncDecoder, nil
	default:
		return nil, fmt.Errorf("unsupported extension %q", extension)
	}
}

// fieldPoints flattens one labeled field into grid points. NaN values mark
// points outside the dataset's coverage and are dropped.
func fieldPoints(v *api.Variable, c grib.Criteria, catalogID uuid.UUID, fallback time.Time) ([]model.GridPoint, error) {
	rows, ok := v.Values.([][]float64)
	if !ok {
		return nil, fmt.Errorf("unexpected values type %T", v.Values)
	}

	lats, lons, err := fieldAxes(v)
	if err != nil {
		return nil, err
	}
	if len(lats) != len(rows) {
		return nil, fmt.Errorf("latitude axis length %d does not match %d rows", len(lats), len(rows))
	}

	variable := attrString(v, "GRIB_shortName")
	if variable == "" || variable == "unknown" {
		variable = c.Parameter.String()
	}
	unit := attrString(v, "units")

	timestamp := fallback
	if s := attrString(v, "valid_time"); s != "" {
		if parsed, err := time.Parse(time.RFC3339, s); err == nil {
			timestamp = parsed
		}
	}

	var points []model.GridPoint
	for j, row := range rows {
		if len(row) != len(lons) {
			return nil, fmt.Errorf("row %d length %d does not match longitude axis length %d", j, len(row), len(lons))
		}
		for i, value := range row {
			if math.IsNaN(value) {
				continue
			}
			points = append(points, model.GridPoint{
				Variable:  variable,
				Value:     float32(value),
				Unit:      unit,
				Lat:       float32(lats[j]),
				Lon:       float32(lons[i]),
				Timestamp: timestamp,
				CatalogID: catalogID,
			})
		}
	}
	return points, nil
}

// fieldAxes takes explicit axis attributes when the decoder provided them
// and falls back to computing them from the grid attributes.
func fieldAxes(v *api.Variable) ([]float64, []float64, error) {
	lats, ok := attrFloats(v, "latitudes")
	if !ok {
		var err error
		if lats, err = grib.Latitudes(v); err != nil {
			return nil, nil, err
		}
	}

	lons, ok := attrFloats(v, "longitudes")
	if !ok {
		var err error
		if lons, err = grib.Longitudes(v); err != nil {
			return nil, nil, err
		}
	}

	return lats, lons, nil
}

func attrFloats(v *api.Variable, key string) ([]float64, bool) {
	if v.Attributes == nil {
		return nil, false
	}
	raw, has := v.Attributes.Get(key)
	if !has {
		return nil, false
	}
	a, ok := raw.([]float64)
	return a, ok
}

func attrString(v *api.Variable, key string) string {
	if v.Attributes == nil {
		return ""
	}
	raw, has := v.Attributes.Get(key)
	if !has {
		return ""
	}
	s, ok := raw.(string)
	if !ok {
		return ""
	}
	return s
}
