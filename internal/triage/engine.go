package triage

import (
	"sort"

	"github.com/cantilanlgu/lifeline/internal/dispatch"
	"github.com/cantilanlgu/lifeline/internal/geo"
)

// RankedAlert pairs an alert with its distance from the observer.
// Known is false when either the observer or the alert has no coordinate;
// such entries are kept, they just cannot be ordered by distance.
type RankedAlert struct {
	Alert      dispatch.Alert `json:"alert"`
	DistanceKm float64        `json:"distance_km"`
	Known      bool           `json:"distance_known"`
}

// Rank computes the distance from observer to every alert and returns the
// alerts sorted ascending by distance. Entries with an unknown distance
// sort last. The sort is stable: ties and unknown-distance entries keep
// their original (insertion) order.
func Rank(observer *geo.Coordinate, alerts []dispatch.Alert) []RankedAlert {
	ranked := make([]RankedAlert, 0, len(alerts))
	for _, a := range alerts {
		ra := RankedAlert{Alert: a}
		if observer != nil && a.Location != nil {
			ra.DistanceKm = geo.DistanceKm(*observer, *a.Location)
			ra.Known = true
		}
		ranked = append(ranked, ra)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Known != b.Known {
			return a.Known // unknown distances sort last
		}
		if !a.Known {
			return false
		}
		return a.DistanceKm < b.DistanceKm
	})

	return ranked
}

// Partition splits a ranked sequence into unhandled (actionable) and
// handled (informational history) alerts, preserving the ranked order
// within each partition. The union of both outputs is exactly the input.
func Partition(ranked []RankedAlert) (unhandled, handled []RankedAlert) {
	for _, ra := range ranked {
		if ra.Alert.Handled {
			handled = append(handled, ra)
		} else {
			unhandled = append(unhandled, ra)
		}
	}
	return unhandled, handled
}

// Nearest returns the index of the candidate with the minimum distance
// from the observer. Candidates without a coordinate are skipped. Ties
// break to the first minimum in input order. ok is false when the
// observer is unset or no candidate has a resolvable coordinate.
func Nearest(observer *geo.Coordinate, candidates []*geo.Coordinate) (index int, km float64, ok bool) {
	if observer == nil {
		return 0, 0, false
	}
	for i, c := range candidates {
		if c == nil {
			continue
		}
		d := geo.DistanceKm(*observer, *c)
		if !ok || d < km {
			index, km, ok = i, d, true
		}
	}
	return index, km, ok
}
