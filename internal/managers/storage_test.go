package managers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/chrissnell/ecadweather/pkg/config"
	"go.uber.org/zap"
)

func TestNewRepository(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "ecad.db")
	if err := os.WriteFile(dbPath, nil, 0o644); err != nil {
		t.Fatalf("write db: %v", err)
	}

	tests := []struct {
		name     string
		cfg      config.StorageData
		wantName string
		wantErr  bool
	}{
		{
			name:     "sqlite",
			cfg:      config.StorageData{Backend: config.BackendSQLite, SQLite: &config.SQLiteData{Path: dbPath}},
			wantName: "sqlite",
		},
		{
			name:     "timescaledb",
			cfg:      config.StorageData{Backend: config.BackendTimescaleDB, TimescaleDB: &config.TimescaleDBData{ConnectionString: "postgres://localhost/ecad"}},
			wantName: "timescaledb",
		},
		{
			name:     "ecadfile",
			cfg:      config.StorageData{Backend: config.BackendECADFile, ECADFile: &config.ECADFileData{Dir: dir}},
			wantName: "ecadfile",
		},
		{
			name:    "sqlite missing file",
			cfg:     config.StorageData{Backend: config.BackendSQLite, SQLite: &config.SQLiteData{Path: filepath.Join(dir, "nope.db")}},
			wantErr: true,
		},
		{
			name:    "unconfigured backend",
			cfg:     config.StorageData{Backend: config.BackendTimescaleDB},
			wantErr: true,
		},
		{
			name:    "unknown backend",
			cfg:     config.StorageData{Backend: "influxdb"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, err := NewRepository(tt.cfg, zap.NewNop().Sugar())
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", repo)
				}
				if repo != nil {
					t.Errorf("expected nil repository on error, got %#v", repo)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if repo.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", repo.Name(), tt.wantName)
			}
		})
	}
}
