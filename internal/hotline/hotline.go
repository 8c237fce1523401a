// Package hotline holds the fixed municipal emergency-facility directory
// and resolves facility coordinates through the geocoding gateway.
package hotline

import (
	"context"

	"github.com/cantilanlgu/lifeline/internal/geo"
)

// Facility is one entry in the municipal hotline directory.
type Facility struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Address string `json:"address"`
}

// Resolved is a facility with its geocoded location. Location falls back
// to the configured town center when the address cannot be resolved, so
// it is always set for directory facilities.
type Resolved struct {
	Facility
	Location *geo.Coordinate `json:"location"`
}

// Defaults returns the fixed municipal hotline set.
func Defaults() []Facility {
	return []Facility{
		{Name: "BFP - Fire Station", Contact: "0917-000-0000", Address: "Brgy. Center, Cantilan, Surigao del Sur"},
		{Name: "PNP - Police Station", Contact: "0917-111-1111", Address: "Municipal Hall, Cantilan, Surigao del Sur"},
		{Name: "LGU Cantilan (DRRMO)", Contact: "0917-222-2222", Address: "Municipal Hall, Cantilan, Surigao del Sur"},
		{Name: "Municipal Health Office", Contact: "0917-333-3333", Address: "Health Center, Cantilan, Surigao del Sur"},
	}
}

// Geocoder is the subset of the geocoding gateway the directory needs.
type Geocoder interface {
	Lookup(ctx context.Context, address string) (geo.Coordinate, bool, error)
}

// Directory resolves facility coordinates on demand. The gateway caches
// lookups for the process lifetime, so repeated resolution is cheap.
type Directory struct {
	facilities []Facility
	geocoder   Geocoder
	fallback   geo.Coordinate
}

// NewDirectory creates a directory over the given facilities. fallback is
// substituted for any facility whose address cannot be geocoded.
func NewDirectory(facilities []Facility, geocoder Geocoder, fallback geo.Coordinate) *Directory {
	return &Directory{
		facilities: facilities,
		geocoder:   geocoder,
		fallback:   fallback,
	}
}

// Resolve returns every facility with a location. Geocoding failure and
// not-found both degrade to the fallback coordinate; resolution never
// fails.
func (d *Directory) Resolve(ctx context.Context) []Resolved {
	out := make([]Resolved, 0, len(d.facilities))
	for _, f := range d.facilities {
		loc := d.fallback
		if coord, ok, err := d.geocoder.Lookup(ctx, f.Address); err == nil && ok {
			loc = coord
		}
		cp := loc
		out = append(out, Resolved{Facility: f, Location: &cp})
	}
	return out
}
