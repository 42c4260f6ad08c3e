package restserver

import (
	"github.com/chrissnell/ecadweather/internal/storage"
	"github.com/chrissnell/ecadweather/internal/types"
)

// transformSeries converts a series to StationRows for JSON output. The
// result is never nil so that an empty slice encodes as [].
func transformSeries(s types.Series) []StationRow {
	rows := make([]StationRow, 0, len(s))

	for _, r := range s {
		row := make(StationRow, len(r.Extra)+2)
		for k, v := range r.Extra {
			row[k] = v
		}

		row[storage.ColumnDate] = r.Date
		if r.Temperature != nil {
			row[storage.ColumnTG] = *r.Temperature
		} else {
			row[storage.ColumnTG] = nil
		}

		rows = append(rows, row)
	}

	return rows
}

// transformLookup builds the single-date response
func transformLookup(station, date string, temp *float64, summary types.Summary) LookupResponse {
	return LookupResponse{
		Station:           station,
		Date:              date,
		TemperatureInDate: temp,
		TemperatureMean:   summary.Mean,
		TemperatureMax:    summary.Max,
		TemperatureMin:    summary.Min,
	}
}

// transformStations builds the index page model
func transformStations(title string, list []types.Station) indexPage {
	page := indexPage{
		Title:    title,
		Stations: make([]stationLink, 0, len(list)),
	}
	for _, st := range list {
		page.Stations = append(page.Stations, stationLink{
			ID:          st.ID,
			Name:        st.Name,
			CountryCode: st.CountryCode,
		})
	}
	return page
}
