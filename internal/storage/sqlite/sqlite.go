// Package sqlite reads station tables from an ECA&D SQLite database
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/chrissnell/ecadweather/internal/storage"
	"github.com/chrissnell/ecadweather/internal/types"
	"go.uber.org/zap"

	_ "modernc.org/sqlite"
)

const driverName = "sqlite"

// Storage is a read-only repository over a SQLite database file
type Storage struct {
	path   string
	logger *zap.SugaredLogger
}

// New creates a SQLite repository. The database file must already exist;
// opening a missing path would silently create an empty database.
func New(path string, logger *zap.SugaredLogger) (*Storage, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("sqlite database %s is not accessible: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("sqlite database %s is a directory", path)
	}

	return &Storage{path: path, logger: logger}, nil
}

// Name returns the backend name
func (s *Storage) Name() string {
	return "sqlite"
}

// LoadSeries reads every row of the station's TG table
func (s *Storage) LoadSeries(ctx context.Context, stationID int) ([]types.RawRow, error) {
	if stationID < 0 {
		return nil, storage.ErrStationNotFound
	}
	table := storage.TableName(stationID)

	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer s.close(db)

	exists, err := tableExists(ctx, db, table)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, storage.ErrStationNotFound
	}

	rows, err := db.QueryContext(ctx, fmt.Sprintf(`SELECT * FROM %q`, table))
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	out, err := storage.ScanRows(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", table, err)
	}

	s.logger.Debugw("loaded station table", "table", table, "rows", len(out))
	return out, nil
}

// Stations reads the station reference table. A database without one
// yields an empty list.
func (s *Storage) Stations(ctx context.Context) ([]types.Station, error) {
	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer s.close(db)

	exists, err := tableExists(ctx, db, storage.StationsTable)
	if err != nil {
		return nil, err
	}
	if !exists {
		s.logger.Warnf("sqlite database %s has no %s table", s.path, storage.StationsTable)
		return nil, nil
	}

	rows, err := db.QueryContext(ctx, fmt.Sprintf(`SELECT * FROM %q`, storage.StationsTable))
	if err != nil {
		return nil, fmt.Errorf("failed to query stations: %w", err)
	}
	defer rows.Close()

	return storage.ScanStations(rows)
}

// open connects read-only; a file removed after startup fails instead of
// being recreated empty
func (s *Storage) open() (*sql.DB, error) {
	db, err := sql.Open(driverName, readOnlyDSN(s.path))
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

// readOnlyDSN builds a SQLite URI filename opening path with mode=ro. The
// path is made absolute so that it never parses as a URI authority.
func readOnlyDSN(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path), RawQuery: "mode=ro"}
	return u.String()
}

func (s *Storage) close(db *sql.DB) {
	if err := db.Close(); err != nil {
		s.logger.Errorf("error closing SQLite database %s: %v", s.path, err)
	}
}

func tableExists(ctx context.Context, db *sql.DB, table string) (bool, error) {
	var name string
	err := db.QueryRowContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up table %s: %w", table, err)
	}
	return true, nil
}
