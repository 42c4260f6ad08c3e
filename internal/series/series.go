// Package series turns raw station rows into temperature series and answers
// the date, full-history and annual queries over them.
package series

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/chrissnell/ecadweather/internal/storage"
	"github.com/chrissnell/ecadweather/internal/types"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ErrStationMismatch is returned when a table holds rows for another station
var ErrStationMismatch = errors.New("station table contains readings for a different station")

// Normalize converts raw rows into a Series: dates become YYYY-MM-DD, the
// missing-value sentinel becomes a nil temperature and everything else is
// scaled from tenths of a degree to degrees.
func Normalize(stationID int, rows []types.RawRow) (types.Series, error) {
	out := make(types.Series, 0, len(rows))

	for i, r := range rows {
		if err := checkStation(stationID, r.Extra); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}

		date, err := ISODate(r.Date)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}

		reading := types.Reading{
			Date:  date,
			Raw:   r.TG,
			Extra: r.Extra,
		}
		if r.TG != types.MissingValue {
			t := float64(r.TG) / 10
			reading.Temperature = &t
		}

		out = append(out, reading)
	}

	return out, nil
}

// ISODate converts a YYYYMMDD date, an ISO date or an ISO timestamp into
// YYYY-MM-DD
func ISODate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)

	switch {
	case len(raw) == 8 && allDigits(raw):
		return raw[0:4] + "-" + raw[4:6] + "-" + raw[6:8], nil
	case len(raw) >= 10 && raw[4] == '-' && raw[7] == '-' &&
		allDigits(raw[0:4]) && allDigits(raw[5:7]) && allDigits(raw[8:10]):
		return raw[0:10], nil
	default:
		return "", fmt.Errorf("unrecognized date %q", raw)
	}
}

// Lookup returns the temperature recorded on date (nil when the date is
// absent or its reading is missing) along with a summary of the whole series.
func Lookup(s types.Series, date string) (*float64, types.Summary) {
	var temp *float64
	for _, r := range s {
		if r.Date == date {
			temp = r.Temperature
			break
		}
	}
	return temp, Summarize(s)
}

// Full returns every reading in storage order
func Full(s types.Series) types.Series {
	return s
}

// Annual returns the readings whose date falls in year, in storage order
func Annual(s types.Series, year string) types.Series {
	out := types.Series{}
	for _, r := range s {
		if strings.HasPrefix(r.Date, year) {
			out = append(out, r)
		}
	}
	return out
}

// Temperatures returns the non-missing temperatures of a series
func Temperatures(s types.Series) []float64 {
	out := make([]float64, 0, len(s))
	for _, r := range s {
		if r.Temperature != nil {
			out = append(out, *r.Temperature)
		}
	}
	return out
}

// Summarize computes mean, min and max over the non-missing temperatures.
// A series without any usable temperature yields an empty Summary.
func Summarize(s types.Series) types.Summary {
	temps := Temperatures(s)
	if len(temps) == 0 {
		return types.Summary{}
	}

	mean := stat.Mean(temps, nil)
	lo := floats.Min(temps)
	hi := floats.Max(temps)

	return types.Summary{Mean: &mean, Min: &lo, Max: &hi}
}

func checkStation(stationID int, extra map[string]any) error {
	v, ok := extra[storage.ColumnStationID]
	if !ok || v == nil {
		return nil
	}

	var id int64
	switch val := v.(type) {
	case int64:
		id = val
	case float64:
		id = int64(val)
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid staid %q", val)
		}
		id = parsed
	default:
		return fmt.Errorf("invalid staid type %T", v)
	}

	if id != int64(stationID) {
		return fmt.Errorf("%w: expected %d, found %d", ErrStationMismatch, stationID, id)
	}
	return nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
