package webapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/cantilanlgu/lifeline/internal/authmw"
	"github.com/cantilanlgu/lifeline/internal/dispatch"
	"github.com/cantilanlgu/lifeline/internal/triage"
)

type sosPayload struct {
	Note           string `json:"note"`
	Category       string `json:"category"`
	CurrentAddress string `json:"current_address"`
}

func (a *API) handleSendSOS(w http.ResponseWriter, r *http.Request) {
	u, ok := authmw.UserFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"not authenticated"}`, http.StatusUnauthorized)
		return
	}

	var p sosPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, `{"error":"invalid payload"}`, http.StatusBadRequest)
		return
	}

	alert, err := a.svc.SendSOS(r.Context(), &dispatch.SOSRequest{
		UserID:         u.ID,
		Note:           p.Note,
		Category:       dispatch.Category(p.Category),
		CurrentAddress: p.CurrentAddress,
	})
	if err != nil {
		a.writeServiceError(w, r, err, "send sos")
		return
	}

	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(
		attribute.Int64("lifeline.alert.id", alert.ID),
		attribute.String("lifeline.alert.category", string(alert.Category)),
	)

	a.writeJSON(r.Context(), w, http.StatusCreated, alert)
}

// rankedAlertView is an alert plus its distance from the viewer.
// distance_km is omitted when either location is unknown.
type rankedAlertView struct {
	dispatch.Alert
	DistanceKm *float64 `json:"distance_km,omitempty"`
}

func toViews(ranked []triage.RankedAlert) []rankedAlertView {
	views := make([]rankedAlertView, 0, len(ranked))
	for _, ra := range ranked {
		v := rankedAlertView{Alert: ra.Alert}
		if ra.Known {
			km := ra.DistanceKm
			v.DistanceKm = &km
		}
		views = append(views, v)
	}
	return views
}

func (a *API) handleListAlerts(w http.ResponseWriter, r *http.Request) {
	u, ok := authmw.UserFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"not authenticated"}`, http.StatusUnauthorized)
		return
	}

	alerts, err := a.svc.ListAlerts(r.Context())
	if err != nil {
		a.writeServiceError(w, r, err, "list alerts")
		return
	}

	ranked := triage.Rank(u.Location, alerts)
	active, handled := triage.Partition(ranked)

	a.writeJSON(r.Context(), w, http.StatusOK, map[string]any{
		"active":  toViews(active),
		"handled": toViews(handled),
	})
}

func (a *API) handleMarkHandled(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, `{"error":"invalid alert id"}`, http.StatusBadRequest)
		return
	}

	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(attribute.Int64("lifeline.alert.id", id))

	if err := a.svc.MarkHandled(r.Context(), id); err != nil {
		a.writeServiceError(w, r, err, "mark handled")
		return
	}
	a.writeJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "handled"})
}
