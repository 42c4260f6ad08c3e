package managers

import (
	"fmt"

	"github.com/chrissnell/ecadweather/internal/storage"
	"github.com/chrissnell/ecadweather/internal/storage/ecadfile"
	"github.com/chrissnell/ecadweather/internal/storage/sqlite"
	"github.com/chrissnell/ecadweather/internal/storage/timescaledb"
	"github.com/chrissnell/ecadweather/pkg/config"
	"go.uber.org/zap"
)

// NewRepository creates the station repository selected by the storage configuration
func NewRepository(c config.StorageData, logger *zap.SugaredLogger) (storage.Repository, error) {
	switch c.Backend {
	case config.BackendSQLite:
		if c.SQLite == nil {
			return nil, fmt.Errorf("sqlite storage backend is not configured")
		}
		s, err := sqlite.New(c.SQLite.Path, logger)
		if err != nil {
			return nil, fmt.Errorf("could not add SQLite storage backend: %w", err)
		}
		return s, nil

	case config.BackendTimescaleDB:
		if c.TimescaleDB == nil {
			return nil, fmt.Errorf("timescaledb storage backend is not configured")
		}
		t, err := timescaledb.New(c.TimescaleDB.ConnectionString, logger)
		if err != nil {
			return nil, fmt.Errorf("could not add TimescaleDB storage backend: %w", err)
		}
		return t, nil

	case config.BackendECADFile:
		if c.ECADFile == nil {
			return nil, fmt.Errorf("ecadfile storage backend is not configured")
		}
		e, err := ecadfile.New(c.ECADFile.Dir, c.ECADFile.StationsFile, logger)
		if err != nil {
			return nil, fmt.Errorf("could not add ECA&D file storage backend: %w", err)
		}
		return e, nil

	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", c.Backend)
	}
}
