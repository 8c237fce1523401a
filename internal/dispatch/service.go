package dispatch

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/linnemanlabs/go-core/log"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/cantilanlgu/lifeline/internal/geo"
)

// addressPlaceholder is stored on alerts and reports when the reverse
// lookup cannot produce a formatted address.
const addressPlaceholder = "Address not found"

// Geocoder is the gateway interface the service depends on.
type Geocoder interface {
	Lookup(ctx context.Context, address string) (geo.Coordinate, bool, error)
	Reverse(ctx context.Context, coord geo.Coordinate) (string, bool, error)
}

// Notifier is told about every new SOS alert. Delivery is best-effort.
type Notifier interface {
	Notify(ctx context.Context, a *Alert) error
}

// Options carries the configured values the service needs.
type Options struct {
	// Fallback is the town-center coordinate substituted when an address
	// cannot be geocoded.
	Fallback geo.Coordinate
	// AdminSignupCode gates administrator registration. A plain injected
	// configuration value with no implied security.
	AdminSignupCode string
}

// Service is the business boundary for users, alerts and reports.
type Service struct {
	store    Store
	geocoder Geocoder
	logger   log.Logger
	metrics  *Metrics
	notifier Notifier
	opts     Options
}

// NewService creates the dispatch service. notifier may be nil.
func NewService(store Store, geocoder Geocoder, logger log.Logger, metrics *Metrics, notifier Notifier, opts Options) *Service {
	if logger == nil {
		logger = log.Nop()
	}
	if metrics == nil {
		metrics = NewMetrics(prometheus.NewRegistry())
	}
	return &Service{
		store:    store,
		geocoder: geocoder,
		logger:   logger,
		metrics:  metrics,
		notifier: notifier,
		opts:     opts,
	}
}

// SignUpRequest is the registration input. Role decides which profile
// and which required fields apply.
type SignUpRequest struct {
	Role            Role
	Username        string
	Password        string
	ConfirmPassword string
	Name            string
	Mobile          string
	Address         string
	// VerificationCode is required for administrator signups only.
	VerificationCode string

	Residence *ResidenceProfile
	Responder *ResponderProfile
	Official  *OfficialProfile
	Admin     *AdminProfile
}

// SignUpResult is the outcome of a successful registration.
type SignUpResult struct {
	User *User
	// UsedFallback is true when the address could not be geocoded and
	// the town-center default was substituted. The user is warned but
	// registration proceeds.
	UsedFallback bool
}

// SignUp validates and registers a new account. Validation failures
// abort with no state mutation; a geocoding failure does not.
func (s *Service) SignUp(ctx context.Context, req *SignUpRequest) (*SignUpResult, error) {
	if err := s.validateSignUp(ctx, req); err != nil {
		s.metrics.SignupsTotal.WithLabelValues(string(req.Role), "rejected").Inc()
		return nil, err
	}

	u := &User{
		Username:     req.Username,
		Password:     req.Password,
		Role:         req.Role,
		Name:         req.Name,
		Mobile:       req.Mobile,
		Address:      req.Address,
		RegisteredAt: time.Now(),
		Residence:    req.Residence,
		Responder:    req.Responder,
		Official:     req.Official,
		Admin:        req.Admin,
	}

	loc, usedFallback := s.locate(ctx, req.Address)
	u.Location = loc

	id, err := s.store.CreateUser(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	u.ID = id

	s.metrics.SignupsTotal.WithLabelValues(string(req.Role), "ok").Inc()
	s.logger.Info(ctx, "user registered",
		"user_id", id,
		"role", req.Role,
		"used_fallback_location", usedFallback,
	)

	return &SignUpResult{User: u, UsedFallback: usedFallback}, nil
}

func (s *Service) validateSignUp(ctx context.Context, req *SignUpRequest) error {
	if !KnownRole(req.Role) {
		return validationf("unknown role")
	}
	if req.Username == "" || req.Password == "" || req.Name == "" || req.Mobile == "" {
		return validationf("please fill all required fields")
	}

	switch req.Role {
	case RoleCitizen:
		if req.Address == "" {
			return validationf("please fill all required fields")
		}
	case RoleResponder:
		if req.Address == "" || req.Responder == nil || req.Responder.Position == "" || req.Responder.Unit == "" {
			return validationf("please fill all required fields")
		}
	case RoleOfficial:
		if req.Address == "" || req.Official == nil || req.Official.Position == "" || req.Official.Department == "" {
			return validationf("please fill all required fields")
		}
	case RoleAdministrator:
		if req.Admin == nil || req.Admin.Position == "" || req.Admin.Department == "" {
			return validationf("please fill all required fields")
		}
		if req.Password != req.ConfirmPassword {
			return validationf("passwords do not match")
		}
		if req.VerificationCode != s.opts.AdminSignupCode {
			return validationf("invalid verification code")
		}
	}

	if _, exists, err := s.store.FindUserByUsername(ctx, req.Username); err != nil {
		return fmt.Errorf("username lookup: %w", err)
	} else if exists {
		return validationf("username already exists")
	}
	return nil
}

// locate geocodes an address, substituting the fallback coordinate when
// the address is empty, unknown, or the gateway call fails.
func (s *Service) locate(ctx context.Context, address string) (*geo.Coordinate, bool) {
	if address == "" {
		cp := s.opts.Fallback
		return &cp, true
	}
	coord, ok, err := s.geocoder.Lookup(ctx, address)
	if err != nil {
		s.logger.Warn(ctx, "geocode failed, using fallback", "error", err)
	}
	if err != nil || !ok {
		s.metrics.GeocodeFallbacksTotal.Inc()
		cp := s.opts.Fallback
		return &cp, true
	}
	return &coord, false
}

// Login authenticates a username/password pair. Any mismatch returns
// ErrInvalidCredentials; there is no lockout or rate limiting.
func (s *Service) Login(ctx context.Context, username, password string) (*User, error) {
	u, ok, err := s.store.Authenticate(ctx, username, password)
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if !ok {
		s.metrics.LoginsTotal.WithLabelValues("rejected").Inc()
		return nil, ErrInvalidCredentials
	}
	s.metrics.LoginsTotal.WithLabelValues("ok").Inc()
	return u, nil
}

// GetUser retrieves a user by id.
func (s *Service) GetUser(ctx context.Context, id int64) (*User, bool, error) {
	return s.store.GetUser(ctx, id)
}

// SOSRequest is a citizen distress signal. When CurrentAddress is empty
// the user's registered location is used; otherwise the address must
// geocode successfully.
type SOSRequest struct {
	UserID         int64
	Note           string
	Category       Category
	CurrentAddress string
}

// SendSOS creates an SOS alert for the given citizen, snapshotting the
// user's name and a reverse-geocoded address so the alert survives later
// user mutation or deletion.
func (s *Service) SendSOS(ctx context.Context, req *SOSRequest) (*Alert, error) {
	if req.Category != "" && !KnownCategory(req.Category) {
		return nil, validationf("unknown emergency category")
	}

	u, ok, err := s.store.GetUser(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if !ok {
		return nil, validationf("unknown user")
	}

	loc := u.Location
	if req.CurrentAddress != "" {
		coord, found, err := s.geocoder.Lookup(ctx, req.CurrentAddress)
		if err != nil || !found {
			return nil, validationf("could not locate the given address")
		}
		loc = &coord
	}

	name := u.Name
	if name == "" {
		name = u.Username
	}

	a := &Alert{
		UserID:    u.ID,
		UserName:  name,
		CreatedAt: time.Now(),
		Location:  loc,
		Note:      req.Note,
		Category:  req.Category,
		Address:   s.snapshotAddress(ctx, loc),
	}

	id, err := s.store.CreateAlert(ctx, a)
	if err != nil {
		return nil, fmt.Errorf("create alert: %w", err)
	}
	a.ID = id

	s.metrics.AlertsTotal.WithLabelValues(categoryLabel(req.Category)).Inc()
	s.logger.Info(ctx, "sos alert created",
		"alert_id", id,
		"user_id", u.ID,
		"category", req.Category,
	)

	if s.notifier != nil {
		// best-effort, never blocks or fails the SOS
		go func(ctx context.Context, cp Alert) {
			if err := s.notifier.Notify(ctx, &cp); err != nil {
				s.logger.Warn(ctx, "alert notification failed", "alert_id", cp.ID, "error", err)
			}
		}(context.WithoutCancel(ctx), *a)
	}

	return a, nil
}

// snapshotAddress reverse-geocodes loc, degrading to a placeholder when
// the location is unknown or the gateway cannot resolve it.
func (s *Service) snapshotAddress(ctx context.Context, loc *geo.Coordinate) string {
	if loc == nil {
		return addressPlaceholder
	}
	addr, ok, err := s.geocoder.Reverse(ctx, *loc)
	if err != nil {
		s.logger.Warn(ctx, "reverse geocode failed", "error", err)
	}
	if err != nil || !ok {
		return addressPlaceholder
	}
	return addr
}

// ListAlerts returns all alerts in insertion order.
func (s *Service) ListAlerts(ctx context.Context) ([]Alert, error) {
	return s.store.ListAlerts(ctx)
}

// MarkHandled transitions an alert to handled. One-way and idempotent.
func (s *Service) MarkHandled(ctx context.Context, alertID int64) error {
	if err := s.store.MarkAlertHandled(ctx, alertID); err != nil {
		return fmt.Errorf("mark handled: %w", err)
	}
	s.metrics.AlertsHandledTotal.Inc()
	s.logger.Info(ctx, "alert marked handled", "alert_id", alertID)
	return nil
}

// ReportRequest is an official incident report submission.
type ReportRequest struct {
	ReporterID      int64
	Category        Category
	Description     string
	IncidentAddress string
}

// FileReport creates an official report. The incident address must
// geocode; an unlocatable incident aborts the submission.
func (s *Service) FileReport(ctx context.Context, req *ReportRequest) (*Report, error) {
	if req.Description == "" || req.IncidentAddress == "" {
		return nil, validationf("please provide description and incident address")
	}
	if !KnownCategory(req.Category) {
		return nil, validationf("unknown incident category")
	}

	u, ok, err := s.store.GetUser(ctx, req.ReporterID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if !ok {
		return nil, validationf("unknown user")
	}

	coord, found, err := s.geocoder.Lookup(ctx, req.IncidentAddress)
	if err != nil || !found {
		return nil, validationf("could not locate the incident address")
	}

	name := u.Name
	if name == "" {
		name = u.Username
	}

	r := &Report{
		ReporterID:   u.ID,
		ReporterName: name,
		CreatedAt:    time.Now(),
		Category:     req.Category,
		Description:  req.Description,
		Location:     &coord,
		Address:      s.snapshotAddress(ctx, &coord),
	}

	id, err := s.store.CreateReport(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("create report: %w", err)
	}
	r.ID = id

	s.metrics.ReportsTotal.Inc()
	s.logger.Info(ctx, "official report filed", "report_id", id, "reporter_id", u.ID, "category", req.Category)
	return r, nil
}

// ListReports returns all reports in insertion order.
func (s *Service) ListReports(ctx context.Context) ([]Report, error) {
	return s.store.ListReports(ctx)
}

// ListUsers returns all users in insertion order.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return s.store.ListUsers(ctx)
}

// DeleteUser removes an account and cascades to its alerts. An
// administrator cannot delete their own account. Deleting an id that no
// longer exists is a no-op.
func (s *Service) DeleteUser(ctx context.Context, actorID, targetID int64) error {
	if actorID == targetID {
		return validationf("you cannot delete your own account")
	}
	if err := s.store.DeleteUser(ctx, targetID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	s.metrics.UserDeletesTotal.Inc()
	s.logger.Info(ctx, "user deleted", "user_id", targetID, "actor_id", actorID)
	return nil
}

// Relocate re-geocodes a user's registered address and updates the
// stored coordinate. Fails without mutation when the address cannot be
// located.
func (s *Service) Relocate(ctx context.Context, userID int64) (*geo.Coordinate, error) {
	u, ok, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if !ok {
		return nil, validationf("unknown user")
	}
	if u.Address == "" {
		return nil, validationf("no registered address to locate")
	}

	coord, found, err := s.geocoder.Lookup(ctx, u.Address)
	if err != nil || !found {
		return nil, validationf("could not locate your address")
	}
	if err := s.store.UpdateUserLocation(ctx, userID, &coord); err != nil {
		return nil, fmt.Errorf("update location: %w", err)
	}
	s.logger.Info(ctx, "user relocated", "user_id", userID)
	return &coord, nil
}

// Overview is the public dashboard counter set.
type Overview struct {
	TotalUsers     int `json:"total_users"`
	Citizens       int `json:"citizens"`
	Responders     int `json:"responders"`
	Officials      int `json:"officials"`
	Administrators int `json:"administrators"`
	ActiveAlerts   int `json:"active_alerts"`
	HandledAlerts  int `json:"handled_alerts"`
	TotalReports   int `json:"total_reports"`
}

// Stats computes the overview counters.
func (s *Service) Stats(ctx context.Context) (*Overview, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	alerts, err := s.store.ListAlerts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	reports, err := s.store.ListReports(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}

	ov := &Overview{TotalUsers: len(users), TotalReports: len(reports)}
	for _, u := range users {
		switch u.Role {
		case RoleCitizen:
			ov.Citizens++
		case RoleResponder:
			ov.Responders++
		case RoleOfficial:
			ov.Officials++
		case RoleAdministrator:
			ov.Administrators++
		}
	}
	for _, a := range alerts {
		if a.Handled {
			ov.HandledAlerts++
		} else {
			ov.ActiveAlerts++
		}
	}
	return ov, nil
}

// ExportUsersCSV writes the user collection as CSV: a header row of field
// names, then one row per user in insertion order. The password field is
// excluded.
func (s *Service) ExportUsersCSV(ctx context.Context, w io.Writer) error {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}

	cw := csv.NewWriter(w)
	header := []string{"id", "username", "role", "name", "mobile", "address", "latitude", "longitude", "position", "department", "registered_on"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, u := range users {
		var lat, lon string
		if u.Location != nil {
			lat = strconv.FormatFloat(u.Location.Lat, 'f', -1, 64)
			lon = strconv.FormatFloat(u.Location.Lon, 'f', -1, 64)
		}
		position, department := rolePosition(&u)
		row := []string{
			strconv.FormatInt(u.ID, 10),
			u.Username,
			string(u.Role),
			u.Name,
			u.Mobile,
			u.Address,
			lat,
			lon,
			position,
			department,
			u.RegisteredAt.Format(time.DateTime),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func rolePosition(u *User) (position, department string) {
	switch {
	case u.Responder != nil:
		return u.Responder.Position, u.Responder.Department
	case u.Official != nil:
		return u.Official.Position, u.Official.Department
	case u.Admin != nil:
		return u.Admin.Position, u.Admin.Department
	}
	return "", ""
}

func categoryLabel(c Category) string {
	if c == "" {
		return "uncategorized"
	}
	return string(c)
}
