// Package timescaledb reads station tables from a PostgreSQL/TimescaleDB
// database that holds an imported copy of the ECA&D data.
package timescaledb

import (
	"context"
	"fmt"
	"strings"

	"github.com/chrissnell/ecadweather/internal/database"
	"github.com/chrissnell/ecadweather/internal/storage"
	"github.com/chrissnell/ecadweather/internal/types"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Storage is a read-only repository backed by PostgreSQL
type Storage struct {
	connectionString string
	logger           *zap.SugaredLogger
	connect          func(string) (*gorm.DB, error)
	tableExists      func(*gorm.DB, string) (bool, error)
}

// New sets up a new TimescaleDB repository. No connection is made until a
// request needs one.
func New(connectionString string, logger *zap.SugaredLogger) (*Storage, error) {
	if connectionString == "" {
		return nil, fmt.Errorf("timescaledb connection string is required")
	}
	return &Storage{
		connectionString: connectionString,
		logger:           logger,
		connect:          database.CreateConnection,
		tableExists:      tableExists,
	}, nil
}

// Name returns the backend name
func (t *Storage) Name() string {
	return "timescaledb"
}

// TableName returns the PostgreSQL table for a station. Unquoted identifiers
// fold to lower case, so imported tables are stored that way.
func TableName(stationID int) string {
	return strings.ToLower(storage.TableName(stationID))
}

// LoadSeries reads every row of the station's TG table
func (t *Storage) LoadSeries(ctx context.Context, stationID int) ([]types.RawRow, error) {
	if stationID < 0 {
		return nil, storage.ErrStationNotFound
	}
	table := TableName(stationID)

	db, err := t.open(ctx)
	if err != nil {
		return nil, err
	}
	defer t.close(db)

	exists, err := t.tableExists(db, table)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, storage.ErrStationNotFound
	}

	rows, err := db.Raw(fmt.Sprintf(`SELECT * FROM %q`, table)).Rows()
	if err != nil {
		return nil, fmt.Errorf("error querying %s: %w", table, err)
	}
	defer rows.Close()

	out, err := storage.ScanRows(rows)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", table, err)
	}

	t.logger.Debugw("loaded station table", "table", table, "rows", len(out))
	return out, nil
}

// Stations reads the station reference table
func (t *Storage) Stations(ctx context.Context) ([]types.Station, error) {
	db, err := t.open(ctx)
	if err != nil {
		return nil, err
	}
	defer t.close(db)

	exists, err := t.tableExists(db, storage.StationsTable)
	if err != nil {
		return nil, err
	}
	if !exists {
		t.logger.Warnf("database has no %s table", storage.StationsTable)
		return nil, nil
	}

	rows, err := db.Table(storage.StationsTable).Rows()
	if err != nil {
		return nil, fmt.Errorf("error querying stations: %w", err)
	}
	defer rows.Close()

	return storage.ScanStations(rows)
}

func (t *Storage) open(ctx context.Context) (*gorm.DB, error) {
	db, err := t.connect(t.connectionString)
	if err != nil {
		return nil, fmt.Errorf("could not connect to database: %w", err)
	}
	return db.WithContext(ctx), nil
}

// tableExists looks the table up in the current schema. Unlike
// Migrator().HasTable, query failures are returned rather than read as a
// missing table.
func tableExists(db *gorm.DB, table string) (bool, error) {
	var count int64
	err := db.Raw(`SELECT count(*) FROM information_schema.tables
		WHERE table_schema = CURRENT_SCHEMA() AND table_name = ? AND table_type = 'BASE TABLE'`, table).
		Scan(&count).Error
	if err != nil {
		return false, fmt.Errorf("error looking up table %s: %w", table, err)
	}
	return count > 0, nil
}

func (t *Storage) close(db *gorm.DB) {
	if err := database.Close(db); err != nil {
		t.logger.Errorf("error closing database connection: %v", err)
	}
}
