package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Dataset represents a known dataset identifier.
type Dataset string

const (
	CAMSEuropeAirQualityForecastsAnalysis Dataset = "cams-europe-air-quality-forecasts-analysis"
	CAMSEuropeAirQualityForecastsForecast Dataset = "cams-europe-air-quality-forecasts-forecast"
)

// Validate checks that the dataset is one we ingest.
func (d Dataset) Validate() error {
	switch d {
	case CAMSEuropeAirQualityForecastsAnalysis, CAMSEuropeAirQualityForecastsForecast:
		return nil
	}
	return fmt.Errorf("unknown dataset %q", string(d))
}

// RunID represents a UUIDv7 run identifier from orchestration (Dagster).
type RunID string

// Validate checks that the RunID is a valid UUIDv7.
func (r RunID) Validate() error {
	if r == "" {
		return fmt.Errorf("run-id cannot be empty")
	}
	id, err := uuid.Parse(string(r))
	if err != nil {
		return fmt.Errorf("run-id must be a valid UUID: %w", err)
	}
	if id.Version() != uuid.Version(7) {
		return fmt.Errorf("run-id must be a UUIDv7, got v%d", id.Version())
	}
	return nil
}

// String returns the run ID as a string.
func (r RunID) String() string {
	return string(r)
}

// UUID returns the parsed run ID. Rows written by a run carry it as catalog_id.
func (r RunID) UUID() (uuid.UUID, error) {
	return uuid.Parse(string(r))
}

// GridPoint is one row of the grid_data table: a single value of a variable
// at one grid node. The serving side reads these back as GridValue.
type GridPoint struct {
	Variable  string
	Value     float32
	Unit      string
	Lat       float32
	Lon       float32
	Timestamp time.Time
	CatalogID uuid.UUID
}
