// Package webapi exposes the emergency-response operations as an HTTP API.
package webapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/linnemanlabs/go-core/log"
	"github.com/linnemanlabs/go-core/xerrors"

	"github.com/cantilanlgu/lifeline/internal/authmw"
	"github.com/cantilanlgu/lifeline/internal/dispatch"
	"github.com/cantilanlgu/lifeline/internal/geo"
	"github.com/cantilanlgu/lifeline/internal/hotline"
	"github.com/cantilanlgu/lifeline/internal/session"
)

// DispatchService defines the business operations the API needs.
type DispatchService interface {
	SignUp(ctx context.Context, req *dispatch.SignUpRequest) (*dispatch.SignUpResult, error)
	Login(ctx context.Context, username, password string) (*dispatch.User, error)
	GetUser(ctx context.Context, id int64) (*dispatch.User, bool, error)
	SendSOS(ctx context.Context, req *dispatch.SOSRequest) (*dispatch.Alert, error)
	ListAlerts(ctx context.Context) ([]dispatch.Alert, error)
	MarkHandled(ctx context.Context, alertID int64) error
	FileReport(ctx context.Context, req *dispatch.ReportRequest) (*dispatch.Report, error)
	ListReports(ctx context.Context) ([]dispatch.Report, error)
	ListUsers(ctx context.Context) ([]dispatch.User, error)
	DeleteUser(ctx context.Context, actorID, targetID int64) error
	Relocate(ctx context.Context, userID int64) (*geo.Coordinate, error)
	Stats(ctx context.Context) (*dispatch.Overview, error)
	ExportUsersCSV(ctx context.Context, w io.Writer) error
}

// Hotlines resolves the emergency facility directory.
type Hotlines interface {
	Resolve(ctx context.Context) []hotline.Resolved
}

// API holds dependencies for HTTP handlers.
type API struct {
	logger   log.Logger
	svc      DispatchService
	sessions *session.Manager
	hotlines Hotlines
}

// New creates a new API handler.
func New(logger log.Logger, svc DispatchService, sessions *session.Manager, hotlines Hotlines) *API {
	if logger == nil {
		logger = log.Nop()
	}
	if svc == nil {
		panic(xerrors.New("dispatch service is required"))
	}
	if sessions == nil {
		panic(xerrors.New("session manager is required"))
	}
	return &API{
		logger:   logger,
		svc:      svc,
		sessions: sessions,
		hotlines: hotlines,
	}
}

// RegisterRoutes attaches API endpoints to the router.
func (a *API) RegisterRoutes(r chi.Router) {
	authed := authmw.SessionToken(a.sessions, a.svc)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/signup", a.handleSignUp)
		r.Post("/login", a.handleLogin)
		r.Get("/overview", a.handleOverview)
		r.Get("/hotlines", a.handleHotlines)

		r.Group(func(r chi.Router) {
			r.Use(authed)

			r.Post("/logout", a.handleLogout)
			r.Get("/me", a.handleMe)
			r.Post("/relocate", a.handleRelocate)

			r.With(authmw.RequireRole(dispatch.RoleCitizen)).
				Post("/sos", a.handleSendSOS)

			r.With(authmw.RequireRole(dispatch.RoleResponder, dispatch.RoleOfficial, dispatch.RoleAdministrator)).
				Get("/alerts", a.handleListAlerts)
			r.With(authmw.RequireRole(dispatch.RoleResponder, dispatch.RoleAdministrator)).
				Post("/alerts/{id}/handled", a.handleMarkHandled)

			r.With(authmw.RequireRole(dispatch.RoleOfficial)).
				Post("/reports", a.handleFileReport)
			r.With(authmw.RequireRole(dispatch.RoleOfficial, dispatch.RoleAdministrator)).
				Get("/reports", a.handleListReports)

			r.Group(func(r chi.Router) {
				r.Use(authmw.RequireRole(dispatch.RoleAdministrator))
				r.Get("/users", a.handleListUsers)
				r.Get("/users/export", a.handleExportUsers)
				r.Delete("/users/{id}", a.handleDeleteUser)
			})
		})
	})
}

func (a *API) writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.logger.Error(ctx, err, "failed to encode response")
	}
}

// writeServiceError maps a dispatch error to an HTTP response. Validation
// failures surface their message; everything else is an opaque 500.
func (a *API) writeServiceError(w http.ResponseWriter, r *http.Request, err error, op string) {
	if dispatch.IsValidation(err) {
		a.writeJSON(r.Context(), w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	a.logger.Error(r.Context(), err, "request failed", "op", op)
	http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
}
