package dispatch

import (
	"context"

	"github.com/cantilanlgu/lifeline/internal/geo"
)

// Store is the persistence interface for users, alerts and reports.
// List operations return snapshots in insertion order.
type Store interface {
	CreateUser(ctx context.Context, u *User) (int64, error)
	GetUser(ctx context.Context, id int64) (*User, bool, error)
	FindUserByUsername(ctx context.Context, username string) (*User, bool, error)
	// Authenticate does an exact match on username and password and
	// returns ok=false on any mismatch.
	Authenticate(ctx context.Context, username, password string) (*User, bool, error)
	ListUsers(ctx context.Context) ([]User, error)
	UpdateUserLocation(ctx context.Context, id int64, loc *geo.Coordinate) error
	// DeleteUser removes the user and all alerts referencing it.
	// Deleting an unknown id is a no-op.
	DeleteUser(ctx context.Context, id int64) error

	CreateAlert(ctx context.Context, a *Alert) (int64, error)
	ListAlerts(ctx context.Context) ([]Alert, error)
	// MarkAlertHandled transitions handled false->true. The transition is
	// one-way and idempotent; it never reverts.
	MarkAlertHandled(ctx context.Context, id int64) error

	CreateReport(ctx context.Context, r *Report) (int64, error)
	ListReports(ctx context.Context) ([]Report, error)
}
