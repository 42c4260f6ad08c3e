package restserver

// LookupResponse is the body of /api/v1/{station}/{date}. Temperatures are
// null when the date is absent or the station has no usable readings.
type LookupResponse struct {
	Station           string   `json:"station"`
	Date              string   `json:"date"`
	TemperatureInDate *float64 `json:"temperature_in_date"`
	TemperatureMean   *float64 `json:"temperature_mean"`
	TemperatureMax    *float64 `json:"temperature_max"`
	TemperatureMin    *float64 `json:"temperature_min"`
}

// StationRow is one reading in the full and annual responses: every
// passthrough column from storage plus the normalized date and the scaled tg
type StationRow map[string]any

// HealthResponse is the body of /healthz
type HealthResponse struct {
	Status   string `json:"status"`
	Backend  string `json:"backend"`
	Stations int    `json:"stations"`
}

// indexPage feeds the station listing template
type indexPage struct {
	Title    string
	Stations []stationLink
}

type stationLink struct {
	ID          int
	Name        string
	CountryCode string
}
