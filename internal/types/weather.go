package types

// MissingValue is the raw TG encoding for a day without an observation.
const MissingValue int64 = -9999

// Station is a weather-observation site from the station reference table.
type Station struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	CountryCode string `json:"country_code"`
}

// RawRow is a single row of a station's reading table after column names
// have been canonicalized but before any value has been transformed.
//
// Date holds whatever the storage layer had: a YYYYMMDD string, an ISO date,
// or an ISO timestamp. TG is the mean temperature in tenths of a degree.
// Extra carries every other column, keyed by its canonical (trimmed,
// lower-case) name.
type RawRow struct {
	Date  string
	TG    int64
	Extra map[string]any
}

// Reading is a normalized daily observation. Temperature is nil when the raw
// value was the missing-data sentinel.
type Reading struct {
	Date        string
	Raw         int64
	Temperature *float64
	Extra       map[string]any
}

// Missing reports whether the reading has no usable temperature
func (r Reading) Missing() bool {
	return r.Temperature == nil
}

// Series is the ordered set of readings for one station, in storage order.
type Series []Reading

// Summary holds aggregate statistics over the non-missing temperatures of a
// Series. All fields are nil when there was nothing to aggregate.
type Summary struct {
	Mean *float64
	Min  *float64
	Max  *float64
}
