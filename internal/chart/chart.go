// Package chart renders annual temperature series as PNG line charts
package chart

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/chrissnell/ecadweather/internal/types"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	DefaultWidth  = 1000
	DefaultHeight = 500
)

// Renderer draws temperature charts on a fixed-size canvas
type Renderer struct {
	Width  int
	Height int
}

// NewRenderer returns a Renderer, substituting defaults for unset dimensions
func NewRenderer(width, height int) *Renderer {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return &Renderer{Width: width, Height: height}
}

// Title builds the chart title from the station name and year
func Title(stationName, year string) string {
	return fmt.Sprintf("%s - %s", strings.TrimSpace(stationName), year)
}

// RenderPNG renders s and returns the encoded PNG
func (r *Renderer) RenderPNG(s types.Series, stationName, year string) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf, s, stationName, year); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Render draws a date/temperature line chart of s for the given year and
// writes it to w as PNG. Missing readings and unparseable dates are skipped.
// A year without any usable reading still renders the empty axes.
func (r *Renderer) Render(w io.Writer, s types.Series, stationName, year string) error {
	y, err := strconv.Atoi(year)
	if err != nil {
		return fmt.Errorf("invalid year %q: %w", year, err)
	}

	var xs []time.Time
	var ys []float64
	for _, reading := range s {
		if reading.Temperature == nil {
			continue
		}
		t, err := time.Parse("2006-01-02", reading.Date)
		if err != nil {
			continue
		}
		xs = append(xs, t)
		ys = append(ys, *reading.Temperature)
	}

	// Pin the x axis to the calendar year
	start := time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(y, time.December, 31, 0, 0, 0, 0, time.UTC)

	line := gochart.TimeSeries{
		Name:    "TG",
		XValues: xs,
		YValues: ys,
	}
	lo, hi := 0.0, 0.0
	if len(ys) == 0 {
		// go-chart refuses to render without a visible series, so draw the
		// year boundaries with a transparent stroke
		line.XValues = []time.Time{start, end}
		line.YValues = []float64{0, 0}
		line.Style = gochart.Style{StrokeColor: drawing.ColorTransparent}
	} else {
		lo, hi = ys[0], ys[0]
		for _, v := range ys[1:] {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}

	graph := gochart.Chart{
		Title:  Title(stationName, year),
		Width:  r.Width,
		Height: r.Height,
		XAxis: gochart.XAxis{
			Name:           "Date",
			ValueFormatter: gochart.TimeValueFormatterWithFormat("2006-01-02"),
			Range: &gochart.ContinuousRange{
				Min: gochart.TimeToFloat64(start),
				Max: gochart.TimeToFloat64(end),
			},
		},
		YAxis: gochart.YAxis{
			Name: "Temperature (C)",
			// Padded so that a single reading still yields a non-empty range
			Range: &gochart.ContinuousRange{
				Min: lo - 1,
				Max: hi + 1,
			},
		},
		Series: []gochart.Series{line},
	}

	if err := graph.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("error rendering chart: %w", err)
	}
	return nil
}
