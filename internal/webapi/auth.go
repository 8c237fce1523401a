package webapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/cantilanlgu/lifeline/internal/authmw"
	"github.com/cantilanlgu/lifeline/internal/dispatch"
)

type signUpPayload struct {
	Role             string `json:"role"`
	Username         string `json:"username"`
	Password         string `json:"password"`
	ConfirmPassword  string `json:"confirm_password"`
	Name             string `json:"name"`
	Mobile           string `json:"mobile"`
	Address          string `json:"address"`
	VerificationCode string `json:"verification_code"`

	Residence *dispatch.ResidenceProfile `json:"residence,omitempty"`
	Responder *dispatch.ResponderProfile `json:"responder,omitempty"`
	Official  *dispatch.OfficialProfile  `json:"official,omitempty"`
	Admin     *dispatch.AdminProfile     `json:"admin,omitempty"`
}

func (a *API) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var p signUpPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, `{"error":"invalid payload"}`, http.StatusBadRequest)
		return
	}

	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(attribute.String("lifeline.signup.role", p.Role))

	res, err := a.svc.SignUp(r.Context(), &dispatch.SignUpRequest{
		Role:             dispatch.Role(p.Role),
		Username:         p.Username,
		Password:         p.Password,
		ConfirmPassword:  p.ConfirmPassword,
		Name:             p.Name,
		Mobile:           p.Mobile,
		Address:          p.Address,
		VerificationCode: p.VerificationCode,
		Residence:        p.Residence,
		Responder:        p.Responder,
		Official:         p.Official,
		Admin:            p.Admin,
	})
	if err != nil {
		a.writeServiceError(w, r, err, "signup")
		return
	}

	resp := map[string]any{"user": res.User}
	if res.UsedFallback {
		resp["warning"] = "address could not be located; default town-center location was used"
	}
	a.writeJSON(r.Context(), w, http.StatusCreated, resp)
}

type loginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var p loginPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, `{"error":"invalid payload"}`, http.StatusBadRequest)
		return
	}

	u, err := a.svc.Login(r.Context(), p.Username, p.Password)
	if err != nil {
		if errors.Is(err, dispatch.ErrInvalidCredentials) {
			http.Error(w, `{"error":"invalid username or password"}`, http.StatusUnauthorized)
			return
		}
		a.writeServiceError(w, r, err, "login")
		return
	}

	sess := a.sessions.Create(u.ID)
	a.writeJSON(r.Context(), w, http.StatusOK, map[string]any{
		"token":      sess.Token,
		"expires_at": sess.ExpiresAt,
		"user":       u,
	})
}

func (a *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		a.sessions.Destroy(auth[len("Bearer "):])
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleMe(w http.ResponseWriter, r *http.Request) {
	u, ok := authmw.UserFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"not authenticated"}`, http.StatusUnauthorized)
		return
	}
	a.writeJSON(r.Context(), w, http.StatusOK, u)
}

func (a *API) handleRelocate(w http.ResponseWriter, r *http.Request) {
	u, ok := authmw.UserFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"not authenticated"}`, http.StatusUnauthorized)
		return
	}

	coord, err := a.svc.Relocate(r.Context(), u.ID)
	if err != nil {
		a.writeServiceError(w, r, err, "relocate")
		return
	}
	a.writeJSON(r.Context(), w, http.StatusOK, map[string]any{"location": coord})
}
