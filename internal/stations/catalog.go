// Package stations holds the station reference data, loaded once at startup
// and read-only afterwards.
package stations

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/chrissnell/ecadweather/internal/types"
)

// Source supplies the station reference table
type Source interface {
	Stations(ctx context.Context) ([]types.Station, error)
}

// Catalog is an immutable, id-indexed set of stations. It is safe for
// concurrent use without locking.
type Catalog struct {
	byID   map[int]types.Station
	sorted []types.Station
}

// NewCatalog builds a Catalog. Later duplicates of an id are ignored.
func NewCatalog(list []types.Station) *Catalog {
	c := &Catalog{
		byID:   make(map[int]types.Station, len(list)),
		sorted: make([]types.Station, 0, len(list)),
	}

	for _, st := range list {
		if _, exists := c.byID[st.ID]; exists {
			continue
		}
		st.Name = strings.TrimSpace(st.Name)
		st.CountryCode = strings.TrimSpace(st.CountryCode)
		c.byID[st.ID] = st
		c.sorted = append(c.sorted, st)
	}

	sort.Slice(c.sorted, func(i, j int) bool {
		return c.sorted[i].ID < c.sorted[j].ID
	})
	return c
}

// Load reads the station table from src and builds a Catalog
func Load(ctx context.Context, src Source) (*Catalog, error) {
	list, err := src.Stations(ctx)
	if err != nil {
		return nil, fmt.Errorf("error loading station list: %w", err)
	}
	return NewCatalog(list), nil
}

// Get returns the station with the given id
func (c *Catalog) Get(id int) (types.Station, bool) {
	st, ok := c.byID[id]
	return st, ok
}

// All returns every station ordered by id. Callers must not modify the result.
func (c *Catalog) All() []types.Station {
	return c.sorted
}

// Len returns the number of stations
func (c *Catalog) Len() int {
	return len(c.sorted)
}

// DisplayName returns the station's name, or a generic label for stations
// that have readings but no reference entry
func (c *Catalog) DisplayName(id int) string {
	if st, ok := c.byID[id]; ok && st.Name != "" {
		return st.Name
	}
	return fmt.Sprintf("Station %d", id)
}
