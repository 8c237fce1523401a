// Package memstore provides the in-memory implementation of dispatch.Store.
// All state is process-local and resets on restart.
package memstore

import (
	"context"
	"sync"

	"github.com/cantilanlgu/lifeline/internal/dispatch"
	"github.com/cantilanlgu/lifeline/internal/geo"
)

// Store holds users, alerts and reports in insertion-ordered slices.
// Ids come from monotonic counters so an id is never reused after a
// deletion.
type Store struct {
	mu      sync.RWMutex
	users   []dispatch.User
	alerts  []dispatch.Alert
	reports []dispatch.Report

	nextUserID   int64
	nextAlertID  int64
	nextReportID int64
}

// New initializes an empty Store.
func New() *Store {
	return &Store{
		nextUserID:   1,
		nextAlertID:  1,
		nextReportID: 1,
	}
}

// CreateUser stores a copy of u, assigns the next user id and returns it.
func (s *Store) CreateUser(_ context.Context, u *dispatch.User) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := copyUser(*u)
	cp.ID = s.nextUserID
	s.nextUserID++
	s.users = append(s.users, cp)
	return cp.ID, nil
}

// GetUser retrieves a user by id. Returns a copy.
func (s *Store) GetUser(_ context.Context, id int64) (*dispatch.User, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.users {
		if s.users[i].ID == id {
			cp := copyUser(s.users[i])
			return &cp, true, nil
		}
	}
	return nil, false, nil
}

// FindUserByUsername retrieves a user by username. Returns a copy.
func (s *Store) FindUserByUsername(_ context.Context, username string) (*dispatch.User, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.users {
		if s.users[i].Username == username {
			cp := copyUser(s.users[i])
			return &cp, true, nil
		}
	}
	return nil, false, nil
}

// Authenticate matches username and password exactly. Any mismatch
// returns ok=false; there is no lockout or rate limiting.
func (s *Store) Authenticate(_ context.Context, username, password string) (*dispatch.User, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.users {
		if s.users[i].Username == username && s.users[i].Password == password {
			cp := copyUser(s.users[i])
			return &cp, true, nil
		}
	}
	return nil, false, nil
}

// ListUsers returns a copy of all users in insertion order.
func (s *Store) ListUsers(_ context.Context) ([]dispatch.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]dispatch.User, 0, len(s.users))
	for i := range s.users {
		out = append(out, copyUser(s.users[i]))
	}
	return out, nil
}

// UpdateUserLocation replaces the stored coordinate for the given user.
// Unknown ids are a no-op.
func (s *Store) UpdateUserLocation(_ context.Context, id int64, loc *geo.Coordinate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if s.users[i].ID == id {
			s.users[i].Location = copyCoordinate(loc)
			return nil
		}
	}
	return nil
}

// DeleteUser removes the user and cascades to that user's alerts.
// Reports keep their reporter snapshot and are not touched. Deleting an
// unknown id is a no-op.
func (s *Store) DeleteUser(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := s.users[:0]
	for i := range s.users {
		if s.users[i].ID != id {
			users = append(users, s.users[i])
		}
	}
	s.users = users

	alerts := s.alerts[:0]
	for i := range s.alerts {
		if s.alerts[i].UserID != id {
			alerts = append(alerts, s.alerts[i])
		}
	}
	s.alerts = alerts
	return nil
}

// CreateAlert stores a copy of a, assigns the next alert id and returns it.
func (s *Store) CreateAlert(_ context.Context, a *dispatch.Alert) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *a
	cp.ID = s.nextAlertID
	cp.Location = copyCoordinate(a.Location)
	s.nextAlertID++
	s.alerts = append(s.alerts, cp)
	return cp.ID, nil
}

// ListAlerts returns a copy of all alerts in insertion order.
func (s *Store) ListAlerts(_ context.Context) ([]dispatch.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]dispatch.Alert, 0, len(s.alerts))
	for i := range s.alerts {
		cp := s.alerts[i]
		cp.Location = copyCoordinate(cp.Location)
		out = append(out, cp)
	}
	return out, nil
}

// MarkAlertHandled sets handled=true for the given alert. The flag never
// reverts; marking an already-handled or unknown alert is a no-op.
func (s *Store) MarkAlertHandled(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.alerts {
		if s.alerts[i].ID == id {
			s.alerts[i].Handled = true
			return nil
		}
	}
	return nil
}

// CreateReport stores a copy of r, assigns the next report id and returns it.
func (s *Store) CreateReport(_ context.Context, r *dispatch.Report) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *r
	cp.ID = s.nextReportID
	cp.Location = copyCoordinate(r.Location)
	s.nextReportID++
	s.reports = append(s.reports, cp)
	return cp.ID, nil
}

// ListReports returns a copy of all reports in insertion order.
func (s *Store) ListReports(_ context.Context) ([]dispatch.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]dispatch.Report, 0, len(s.reports))
	for i := range s.reports {
		cp := s.reports[i]
		cp.Location = copyCoordinate(cp.Location)
		out = append(out, cp)
	}
	return out, nil
}

func copyUser(u dispatch.User) dispatch.User {
	u.Location = copyCoordinate(u.Location)
	if u.Residence != nil {
		cp := *u.Residence
		u.Residence = &cp
	}
	if u.Responder != nil {
		cp := *u.Responder
		u.Responder = &cp
	}
	if u.Official != nil {
		cp := *u.Official
		u.Official = &cp
	}
	if u.Admin != nil {
		cp := *u.Admin
		u.Admin = &cp
	}
	return u
}

func copyCoordinate(c *geo.Coordinate) *geo.Coordinate {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}
