package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/chrissnell/ecadweather/internal/storage"
	"github.com/chrissnell/ecadweather/internal/types"
)

// Writer builds an ECA&D SQLite database. It is used by the import tool and
// never by the HTTP service.
type Writer struct {
	db *sql.DB
}

// NewWriter opens (creating if necessary) a SQLite database for writing
func NewWriter(path string) (*Writer, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	return &Writer{db: db}, nil
}

// Close closes the underlying database
func (w *Writer) Close() error {
	return w.db.Close()
}

// WriteStations replaces the station reference table
func (w *Writer) WriteStations(ctx context.Context, stations []types.Station) error {
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %q`, storage.StationsTable)); err != nil {
		return fmt.Errorf("failed to drop stations table: %w", err)
	}

	createSQL := fmt.Sprintf(`CREATE TABLE %q (staid INTEGER PRIMARY KEY, staname TEXT, cn TEXT)`, storage.StationsTable)
	if _, err := tx.ExecContext(ctx, createSQL); err != nil {
		return fmt.Errorf("failed to create stations table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`INSERT INTO %q (staid, staname, cn) VALUES (?, ?, ?)`, storage.StationsTable))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, st := range stations {
		if _, err := stmt.ExecContext(ctx, st.ID, st.Name, st.CountryCode); err != nil {
			return fmt.Errorf("failed to insert station %d: %w", st.ID, err)
		}
	}

	return tx.Commit()
}

// WriteSeries replaces a station's TG table with rows. The date and tg
// columns are always written; extra columns are taken from the first row.
func (w *Writer) WriteSeries(ctx context.Context, stationID int, rows []types.RawRow) error {
	table := storage.TableName(stationID)

	var extras []string
	if len(rows) > 0 {
		for k := range rows[0].Extra {
			extras = append(extras, k)
		}
		sort.Strings(extras)
	}

	columns := append([]string{storage.ColumnDate, storage.ColumnTG}, extras...)
	quoted := make([]string, len(columns))
	placeholders := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = fmt.Sprintf("%q", c)
		placeholders[i] = "?"
	}

	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %q`, table)); err != nil {
		return fmt.Errorf("failed to drop %s: %w", table, err)
	}

	defs := make([]string, len(columns))
	for i, c := range quoted {
		switch columns[i] {
		case storage.ColumnDate:
			defs[i] = c + " TEXT"
		case storage.ColumnTG:
			defs[i] = c + " INTEGER"
		default:
			defs[i] = c
		}
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`CREATE TABLE %q (%s)`, table, strings.Join(defs, ", "))); err != nil {
		return fmt.Errorf("failed to create %s: %w", table, err)
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`INSERT INTO %q (%s) VALUES (%s)`,
		table, strings.Join(quoted, ", "), strings.Join(placeholders, ", ")))
	if err != nil {
		return err
	}
	defer stmt.Close()

	args := make([]any, len(columns))
	for _, r := range rows {
		args[0] = r.Date
		args[1] = r.TG
		for i, k := range extras {
			args[i+2] = r.Extra[k]
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("failed to insert into %s: %w", table, err)
		}
	}

	return tx.Commit()
}
