package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chrissnell/ecadweather/internal/storage"
	"github.com/chrissnell/ecadweather/internal/types"
	"go.uber.org/zap"
)

func newTestDB(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "ecad.db")
	w, err := NewWriter(path)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	defer w.Close()

	ctx := context.Background()
	stations := []types.Station{
		{ID: 10, Name: "DE BILT", CountryCode: "NL"},
		{ID: 11, Name: "VLISSINGEN", CountryCode: "NL"},
	}
	if err := w.WriteStations(ctx, stations); err != nil {
		t.Fatalf("WriteStations: %v", err)
	}

	rows := []types.RawRow{
		{Date: "19881024", TG: 85, Extra: map[string]any{"staid": int64(10), "souid": int64(100), "q_tg": int64(0)}},
		{Date: "19881025", TG: -9999, Extra: map[string]any{"staid": int64(10), "souid": int64(100), "q_tg": int64(9)}},
		{Date: "19881026", TG: 102, Extra: map[string]any{"staid": int64(10), "souid": int64(100), "q_tg": int64(0)}},
	}
	if err := w.WriteSeries(ctx, 10, rows); err != nil {
		t.Fatalf("WriteSeries: %v", err)
	}

	return path
}

func TestLoadSeries(t *testing.T) {
	path := newTestDB(t)

	s, err := New(path, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	rows, err := s.LoadSeries(context.Background(), 10)
	if err != nil {
		t.Fatalf("LoadSeries: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}

	wantDates := []string{"19881024", "19881025", "19881026"}
	wantTG := []int64{85, -9999, 102}
	for i, r := range rows {
		if r.Date != wantDates[i] {
			t.Errorf("row %d date = %q, want %q", i, r.Date, wantDates[i])
		}
		if r.TG != wantTG[i] {
			t.Errorf("row %d tg = %d, want %d", i, r.TG, wantTG[i])
		}
		if r.Extra["staid"] != int64(10) {
			t.Errorf("row %d staid = %v", i, r.Extra["staid"])
		}
	}
}

func TestLoadSeriesUnknownStation(t *testing.T) {
	path := newTestDB(t)
	s, err := New(path, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for _, id := range []int{99999, 11, -1} {
		_, err := s.LoadSeries(context.Background(), id)
		if !errors.Is(err, storage.ErrStationNotFound) {
			t.Errorf("station %d: expected ErrStationNotFound, got %v", id, err)
		}
	}
}

func TestLoadSeriesPaddedColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.db")
	db, err := sql.Open(driverName, path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	stmts := []string{
		`CREATE TABLE "TG_STAID000010" ("STAID" INTEGER, " SOUID" INTEGER, "    DATE" TEXT, "   TG" INTEGER, " Q_TG" INTEGER)`,
		`INSERT INTO "TG_STAID000010" VALUES (10, 100, '1988-10-25 00:00:00', 85, 0)`,
	}
	for _, q := range stmts {
		if _, err := db.Exec(q); err != nil {
			t.Fatalf("exec %q: %v", q, err)
		}
	}

	s, err := New(path, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	rows, err := s.LoadSeries(context.Background(), 10)
	if err != nil {
		t.Fatalf("LoadSeries: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0].Date != "1988-10-25 00:00:00" {
		t.Errorf("date = %q", rows[0].Date)
	}
	if rows[0].TG != 85 {
		t.Errorf("tg = %d", rows[0].TG)
	}
	for _, col := range []string{"staid", "souid", "q_tg"} {
		if _, ok := rows[0].Extra[col]; !ok {
			t.Errorf("missing passthrough column %q in %v", col, rows[0].Extra)
		}
	}
}

func TestStations(t *testing.T) {
	path := newTestDB(t)
	s, err := New(path, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	stations, err := s.Stations(context.Background())
	if err != nil {
		t.Fatalf("Stations: %v", err)
	}
	if len(stations) != 2 {
		t.Fatalf("got %d stations, want 2", len(stations))
	}
	if stations[0].ID != 10 || stations[0].Name != "DE BILT" || stations[0].CountryCode != "NL" {
		t.Errorf("unexpected station %+v", stations[0])
	}
}

func TestStationsTableMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.db")
	w, err := NewWriter(path)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	w.Close()

	s, err := New(path, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	stations, err := s.Stations(context.Background())
	if err != nil {
		t.Fatalf("Stations: %v", err)
	}
	if len(stations) != 0 {
		t.Errorf("expected no stations, got %d", len(stations))
	}
}

func TestNewMissingFile(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope.db"), zap.NewNop().Sugar())
	if err == nil {
		t.Fatal("expected error for missing database file")
	}
}

func TestLoadSeriesFileRemoved(t *testing.T) {
	path := newTestDB(t)
	s, err := New(path, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := os.Remove(path); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	if _, err := s.LoadSeries(context.Background(), 10); err == nil {
		t.Fatal("expected error reading a removed database")
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("database file was recreated (stat err %v)", err)
	}
}

func TestReadOnlyDSN(t *testing.T) {
	dir := t.TempDir()

	dsn := readOnlyDSN(filepath.Join(dir, "my data", "ecad.db"))
	if !strings.HasPrefix(dsn, "file:///") {
		t.Errorf("dsn %q is not an absolute file URI", dsn)
	}
	if !strings.HasSuffix(dsn, "/my%20data/ecad.db?mode=ro") {
		t.Errorf("dsn %q does not escape the path or set mode=ro", dsn)
	}

	if rel := readOnlyDSN("ecad.db"); strings.HasPrefix(rel, "file://ecad.db") {
		t.Errorf("relative path parsed as authority: %q", rel)
	}
}
