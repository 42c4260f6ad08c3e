package restserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/chrissnell/ecadweather/internal/series"
	"github.com/chrissnell/ecadweather/internal/storage"
	"github.com/chrissnell/ecadweather/internal/types"
	"github.com/chrissnell/ecadweather/internal/validate"
	"github.com/chrissnell/ecadweather/pkg/responseformat"
	"github.com/gorilla/mux"
)

// Handlers contains all HTTP handlers for the REST server
type Handlers struct {
	controller *Controller
	formatter  *responseformat.Formatter
}

// NewHandlers creates a new handlers instance
func NewHandlers(ctrl *Controller) *Handlers {
	return &Handlers{
		controller: ctrl,
		formatter:  responseformat.NewFormatter(),
	}
}

// GetStationDate handles /api/v1/{station}/{date}: the temperature on one
// day plus mean/min/max over the station's whole history. A date with no
// reading is not an error; temperature_in_date is null.
func (h *Handlers) GetStationDate(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)

	stationID, err := validate.Station(vars["station"])
	if err != nil {
		h.sendError(w, req, err)
		return
	}
	date, err := validate.Date(vars["date"])
	if err != nil {
		h.sendError(w, req, err)
		return
	}

	s, err := h.loadSeries(req.Context(), stationID)
	if err != nil {
		h.sendError(w, req, err)
		return
	}

	temp, summary := series.Lookup(s, date)
	h.formatter.WriteResponse(w, req, transformLookup(vars["station"], date, temp, summary), nil)
}

// GetStation handles /api/v1/{station}: every reading for the station
func (h *Handlers) GetStation(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)

	stationID, err := validate.Station(vars["station"])
	if err != nil {
		h.sendError(w, req, err)
		return
	}

	s, err := h.loadSeries(req.Context(), stationID)
	if err != nil {
		h.sendError(w, req, err)
		return
	}

	h.formatter.WriteResponse(w, req, transformSeries(series.Full(s)), nil)
}

// GetAnnual handles /api/v1/annual/{station}/{year}
func (h *Handlers) GetAnnual(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)

	stationID, err := validate.Station(vars["station"])
	if err != nil {
		h.sendError(w, req, err)
		return
	}
	year, err := validate.Year(vars["year"])
	if err != nil {
		h.sendError(w, req, err)
		return
	}

	s, err := h.loadSeries(req.Context(), stationID)
	if err != nil {
		h.sendError(w, req, err)
		return
	}

	h.formatter.WriteResponse(w, req, transformSeries(series.Annual(s, year)), nil)
}

// GetVisualization handles /visualization/{station}/{year}: a PNG line chart
// of the station's daily temperatures for the year
func (h *Handlers) GetVisualization(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)

	stationID, err := validate.Station(vars["station"])
	if err != nil {
		h.sendError(w, req, err)
		return
	}
	year, err := validate.Year(vars["year"])
	if err != nil {
		h.sendError(w, req, err)
		return
	}

	s, err := h.loadSeries(req.Context(), stationID)
	if err != nil {
		h.sendError(w, req, err)
		return
	}

	png, err := h.controller.Chart.RenderPNG(series.Annual(s, year), h.controller.Catalog.DisplayName(stationID), year)
	if err != nil {
		h.sendError(w, req, err)
		return
	}

	if err := h.formatter.WritePNG(w, png); err != nil {
		h.controller.logger.Errorf("error writing chart: %v", err)
	}
}

// GetHealth reports the storage backend and the size of the station catalog
func (h *Handlers) GetHealth(w http.ResponseWriter, req *http.Request) {
	h.formatter.WriteResponse(w, req, HealthResponse{
		Status:   "ok",
		Backend:  h.controller.Repo.Name(),
		Stations: h.controller.Catalog.Len(),
	}, nil)
}

// ServeIndexTemplate renders the station listing page
func (h *Handlers) ServeIndexTemplate(w http.ResponseWriter, req *http.Request) {
	page := transformStations(h.controller.restConfig.PageTitle, h.controller.Catalog.All())

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.controller.templates.ExecuteTemplate(w, "index.html.tmpl", page); err != nil {
		h.controller.logger.Errorf("error executing index template: %v", err)
		http.Error(w, "error rendering page", http.StatusInternalServerError)
	}
}

// loadSeries reads and normalizes a station's readings
func (h *Handlers) loadSeries(ctx context.Context, stationID int) (types.Series, error) {
	rows, err := h.controller.Repo.LoadSeries(ctx, stationID)
	if err != nil {
		return nil, err
	}
	return series.Normalize(stationID, rows)
}

// sendError maps err to a status code and writes an {"error": ...} body.
// Unclassified errors are logged and reported without detail.
func (h *Handlers) sendError(w http.ResponseWriter, req *http.Request, err error) {
	status, message := statusFor(err)
	if status == http.StatusInternalServerError {
		h.controller.logger.Errorw("request failed", "path", req.URL.Path, "error", err)
	}
	h.formatter.WriteError(w, req, status, message)
}

func statusFor(err error) (int, string) {
	switch {
	case validate.IsValidationError(err):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, storage.ErrStationNotFound):
		return http.StatusNotFound, storage.ErrStationNotFound.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
