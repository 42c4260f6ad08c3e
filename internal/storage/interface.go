// Package storage defines the read-only station repository and the helpers
// shared by its backends.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/chrissnell/ecadweather/internal/types"
)

// ErrStationNotFound is returned when a station id has no backing table
var ErrStationNotFound = errors.New("nonexistent/invalid station ID")

// Repository resolves stations to their reading tables. Implementations
// acquire a storage connection per call and release it before returning.
type Repository interface {
	// LoadSeries returns every row of the station's reading table, in
	// storage order, with canonical column names.
	LoadSeries(ctx context.Context, stationID int) ([]types.RawRow, error)

	// Stations returns the station reference table
	Stations(ctx context.Context) ([]types.Station, error)

	// Name identifies the backend in logs
	Name() string
}

// TableName derives the reading table name for a station
func TableName(stationID int) string {
	return fmt.Sprintf("TG_STAID%06d", stationID)
}

// StationsTable is the name of the station reference table
const StationsTable = "stations"
