package stations

import (
	"context"
	"errors"
	"testing"

	"github.com/chrissnell/ecadweather/internal/types"
)

type fakeSource struct {
	list []types.Station
	err  error
}

func (f fakeSource) Stations(context.Context) ([]types.Station, error) {
	return f.list, f.err
}

func TestCatalog(t *testing.T) {
	c, err := Load(context.Background(), fakeSource{list: []types.Station{
		{ID: 11, Name: "VLISSINGEN                     ", CountryCode: "NL"},
		{ID: 10, Name: "DE BILT", CountryCode: " NL "},
		{ID: 10, Name: "DUPLICATE", CountryCode: "XX"},
	}})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if c.Len() != 2 {
		t.Fatalf("Len = %d, want 2", c.Len())
	}

	all := c.All()
	if all[0].ID != 10 || all[1].ID != 11 {
		t.Errorf("stations not sorted by id: %+v", all)
	}

	st, ok := c.Get(10)
	if !ok || st.Name != "DE BILT" || st.CountryCode != "NL" {
		t.Errorf("Get(10) = %+v, %v", st, ok)
	}

	if got := c.DisplayName(11); got != "VLISSINGEN" {
		t.Errorf("DisplayName(11) = %q", got)
	}
	if got := c.DisplayName(42); got != "Station 42" {
		t.Errorf("DisplayName(42) = %q", got)
	}
	if _, ok := c.Get(42); ok {
		t.Error("Get(42) should not find a station")
	}
}

func TestLoadError(t *testing.T) {
	boom := errors.New("boom")
	if _, err := Load(context.Background(), fakeSource{err: boom}); !errors.Is(err, boom) {
		t.Errorf("expected wrapped error, got %v", err)
	}
}

func TestEmptyCatalog(t *testing.T) {
	c := NewCatalog(nil)
	if c.Len() != 0 || len(c.All()) != 0 {
		t.Error("expected empty catalog")
	}
}
