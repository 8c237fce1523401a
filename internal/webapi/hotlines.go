package webapi

import (
	"net/http"
	"strings"

	"github.com/cantilanlgu/lifeline/internal/dispatch"
	"github.com/cantilanlgu/lifeline/internal/geo"
	"github.com/cantilanlgu/lifeline/internal/hotline"
	"github.com/cantilanlgu/lifeline/internal/triage"
)

type nearestView struct {
	hotline.Resolved
	DistanceKm float64 `json:"distance_km"`
}

// handleHotlines is public. When the caller presents a valid session and
// has a known location, the response also names the nearest facility.
func (a *API) handleHotlines(w http.ResponseWriter, r *http.Request) {
	if a.hotlines == nil {
		a.writeJSON(r.Context(), w, http.StatusOK, map[string]any{"hotlines": []hotline.Resolved{}})
		return
	}

	resolved := a.hotlines.Resolve(r.Context())
	resp := map[string]any{"hotlines": resolved}

	if u := a.optionalUser(r); u != nil {
		locations := make([]*geo.Coordinate, len(resolved))
		for i := range resolved {
			locations[i] = resolved[i].Location
		}
		if idx, km, ok := triage.Nearest(u.Location, locations); ok {
			resp["nearest"] = nearestView{Resolved: resolved[idx], DistanceKm: km}
		}
	}

	a.writeJSON(r.Context(), w, http.StatusOK, resp)
}

// optionalUser resolves the caller from a bearer token if one is present
// and valid. Public handlers use it to enrich, never to reject.
func (a *API) optionalUser(r *http.Request) *dispatch.User {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return nil
	}
	sess, ok := a.sessions.Lookup(auth[len("Bearer "):])
	if !ok {
		return nil
	}
	u, ok, err := a.svc.GetUser(r.Context(), sess.UserID)
	if err != nil || !ok {
		return nil
	}
	return u
}

func (a *API) handleOverview(w http.ResponseWriter, r *http.Request) {
	ov, err := a.svc.Stats(r.Context())
	if err != nil {
		a.writeServiceError(w, r, err, "overview")
		return
	}
	a.writeJSON(r.Context(), w, http.StatusOK, ov)
}
