package webapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/cantilanlgu/lifeline/internal/authmw"
)

func (a *API) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := a.svc.ListUsers(r.Context())
	if err != nil {
		a.writeServiceError(w, r, err, "list users")
		return
	}
	a.writeJSON(r.Context(), w, http.StatusOK, map[string]any{"users": users})
}

func (a *API) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := authmw.UserFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"not authenticated"}`, http.StatusUnauthorized)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, `{"error":"invalid user id"}`, http.StatusBadRequest)
		return
	}

	if err := a.svc.DeleteUser(r.Context(), actor.ID, id); err != nil {
		a.writeServiceError(w, r, err, "delete user")
		return
	}
	// Any sessions the deleted account held are dead now.
	a.sessions.DestroyUser(id)
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleExportUsers(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="users.csv"`)
	if err := a.svc.ExportUsersCSV(r.Context(), w); err != nil {
		a.logger.Error(r.Context(), err, "csv export failed")
	}
}
