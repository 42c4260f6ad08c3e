package storage

import (
	"database/sql"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/chrissnell/ecadweather/internal/types"
)

// Canonical column names. Source tables spell these with varying case and
// whitespace padding ("    DATE", "   TG", " Q_TG").
const (
	ColumnDate        = "date"
	ColumnTG          = "tg"
	ColumnStationID   = "staid"
	ColumnStationName = "staname"
	ColumnCountry     = "cn"
)

// CanonicalColumn maps a source column name to its canonical form
func CanonicalColumn(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ScanRows reads a `SELECT *` result set into RawRows
func ScanRows(rows *sql.Rows) ([]types.RawRow, error) {
	records, err := scanRecords(rows)
	if err != nil {
		return nil, err
	}

	out := make([]types.RawRow, 0, len(records))
	for i, rec := range records {
		row, err := NewRawRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		out = append(out, row)
	}
	return out, nil
}

// ScanStations reads the station reference table
func ScanStations(rows *sql.Rows) ([]types.Station, error) {
	records, err := scanRecords(rows)
	if err != nil {
		return nil, err
	}

	out := make([]types.Station, 0, len(records))
	for i, rec := range records {
		st, err := NewStation(rec)
		if err != nil {
			return nil, fmt.Errorf("station row %d: %w", i+1, err)
		}
		out = append(out, st)
	}
	return out, nil
}

// NewRawRow builds a RawRow from a record keyed by canonical column name.
// The date and tg columns are required; everything else is carried in Extra.
func NewRawRow(rec map[string]any) (types.RawRow, error) {
	dateVal, ok := rec[ColumnDate]
	if !ok {
		return types.RawRow{}, fmt.Errorf("missing %q column", ColumnDate)
	}
	tgVal, ok := rec[ColumnTG]
	if !ok {
		return types.RawRow{}, fmt.Errorf("missing %q column", ColumnTG)
	}

	date, err := dateString(dateVal)
	if err != nil {
		return types.RawRow{}, err
	}
	tg, err := toInt64(tgVal)
	if err != nil {
		return types.RawRow{}, fmt.Errorf("invalid tg value: %w", err)
	}

	extra := make(map[string]any, len(rec))
	for k, v := range rec {
		if k == ColumnDate || k == ColumnTG {
			continue
		}
		extra[k] = v
	}

	return types.RawRow{Date: date, TG: tg, Extra: extra}, nil
}

// NewStation builds a Station from a record keyed by canonical column name
func NewStation(rec map[string]any) (types.Station, error) {
	id, err := toInt64(rec[ColumnStationID])
	if err != nil {
		return types.Station{}, fmt.Errorf("invalid staid: %w", err)
	}
	if id == types.MissingValue {
		return types.Station{}, fmt.Errorf("missing staid")
	}

	return types.Station{
		ID:          int(id),
		Name:        strings.TrimSpace(fmt.Sprint(valueOrEmpty(rec[ColumnStationName]))),
		CountryCode: strings.TrimSpace(fmt.Sprint(valueOrEmpty(rec[ColumnCountry]))),
	}, nil
}

// ParseValue converts a text field into the most specific value type, so
// that flat-file columns look the same as SQL columns.
func ParseValue(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

func scanRecords(rows *sql.Rows) ([]map[string]any, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("error reading columns: %w", err)
	}

	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = CanonicalColumn(c)
	}

	var out []map[string]any
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}

		rec := make(map[string]any, len(cols))
		for i, v := range values {
			rec[names[i]] = normalizeValue(v)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func normalizeValue(v any) any {
	switch val := v.(type) {
	case []byte:
		return ParseValue(string(val))
	case string:
		return ParseValue(val)
	case int32:
		return int64(val)
	case int:
		return int64(val)
	case float32:
		return float64(val)
	default:
		return v
	}
}

// dateString renders a date value as text. Integer dates become YYYYMMDD,
// time values become YYYY-MM-DD, strings pass through.
func dateString(v any) (string, error) {
	switch val := v.(type) {
	case int64:
		return fmt.Sprintf("%08d", val), nil
	case float64:
		return fmt.Sprintf("%08d", int64(val)), nil
	case string:
		return strings.TrimSpace(val), nil
	case time.Time:
		return val.Format("2006-01-02"), nil
	case nil:
		return "", fmt.Errorf("empty date")
	default:
		return "", fmt.Errorf("unsupported date type %T", v)
	}
}

// toInt64 converts a numeric column value. NULL is treated as missing data.
func toInt64(v any) (int64, error) {
	switch val := v.(type) {
	case int64:
		return val, nil
	case float64:
		return int64(math.Round(val)), nil
	case string:
		return strconv.ParseInt(strings.TrimSpace(val), 10, 64)
	case nil:
		return types.MissingValue, nil
	default:
		return 0, fmt.Errorf("unsupported numeric type %T", v)
	}
}

func valueOrEmpty(v any) any {
	if v == nil {
		return ""
	}
	return v
}
