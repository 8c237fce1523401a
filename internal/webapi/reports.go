package webapi

import (
	"encoding/json"
	"net/http"

	"github.com/cantilanlgu/lifeline/internal/authmw"
	"github.com/cantilanlgu/lifeline/internal/dispatch"
)

type reportPayload struct {
	Category        string `json:"category"`
	Description     string `json:"description"`
	IncidentAddress string `json:"incident_address"`
}

func (a *API) handleFileReport(w http.ResponseWriter, r *http.Request) {
	u, ok := authmw.UserFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"not authenticated"}`, http.StatusUnauthorized)
		return
	}

	var p reportPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, `{"error":"invalid payload"}`, http.StatusBadRequest)
		return
	}

	report, err := a.svc.FileReport(r.Context(), &dispatch.ReportRequest{
		ReporterID:      u.ID,
		Category:        dispatch.Category(p.Category),
		Description:     p.Description,
		IncidentAddress: p.IncidentAddress,
	})
	if err != nil {
		a.writeServiceError(w, r, err, "file report")
		return
	}
	a.writeJSON(r.Context(), w, http.StatusCreated, report)
}

func (a *API) handleListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := a.svc.ListReports(r.Context())
	if err != nil {
		a.writeServiceError(w, r, err, "list reports")
		return
	}
	a.writeJSON(r.Context(), w, http.StatusOK, map[string]any{"reports": reports})
}
