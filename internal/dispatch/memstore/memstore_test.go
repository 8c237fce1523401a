package memstore

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/cantilanlgu/lifeline/internal/dispatch"
	"github.com/cantilanlgu/lifeline/internal/geo"
)

func TestStore_CreateAndGetUser(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()

	id, err := s.CreateUser(ctx, &dispatch.User{
		Username: "bob",
		Password: "secret",
		Role:     dispatch.RoleCitizen,
		Name:     "Bob",
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if id != 1 {
		t.Errorf("first id = %d, want 1", id)
	}

	got, ok, err := s.GetUser(ctx, id)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if !ok {
		t.Fatal("expected user to be found")
	}
	if got.Username != "bob" {
		t.Errorf("Username = %q, want %q", got.Username, "bob")
	}
}

func TestStore_IDsAreMonotonic(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()

	id1, _ := s.CreateUser(ctx, &dispatch.User{Username: "a"})
	id2, _ := s.CreateUser(ctx, &dispatch.User{Username: "b"})
	if err := s.DeleteUser(ctx, id2); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}

	// After deleting the newest user the next id must not collide with it.
	id3, _ := s.CreateUser(ctx, &dispatch.User{Username: "c"})
	if id3 == id2 || id3 <= id1 {
		t.Errorf("id after delete = %d, want a fresh id above %d", id3, id2)
	}
}

func TestStore_Authenticate(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()
	_, _ = s.CreateUser(ctx, &dispatch.User{Username: "bob", Password: "secret"})

	tests := []struct {
		name     string
		username string
		password string
		wantOK   bool
	}{
		{"valid credentials", "bob", "secret", true},
		{"wrong password", "bob", "wrongpass", false},
		{"unknown user", "alice", "secret", false},
		{"empty password", "bob", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok, err := s.Authenticate(ctx, tt.username, tt.password)
			if err != nil {
				t.Fatalf("Authenticate: %v", err)
			}
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got.Username != tt.username {
				t.Errorf("Username = %q, want %q", got.Username, tt.username)
			}
		})
	}
}

func TestStore_FindUserByUsernameMissing(t *testing.T) {
	t.Parallel()

	s := New()
	_, ok, err := s.FindUserByUsername(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("FindUserByUsername: %v", err)
	}
	if ok {
		t.Fatal("expected ok=false for missing username")
	}
}

func TestStore_ListUsersInsertionOrder(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()
	for _, name := range []string{"first", "second", "third"} {
		_, _ = s.CreateUser(ctx, &dispatch.User{Username: name})
	}

	users, err := s.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(users) != 3 {
		t.Fatalf("len(users) = %d, want 3", len(users))
	}
	for i, want := range []string{"first", "second", "third"} {
		if users[i].Username != want {
			t.Errorf("users[%d].Username = %q, want %q", i, users[i].Username, want)
		}
	}
}

func TestStore_DeleteUserCascadesToAlerts(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()

	uid, _ := s.CreateUser(ctx, &dispatch.User{Username: "bob"})
	other, _ := s.CreateUser(ctx, &dispatch.User{Username: "alice"})

	_, _ = s.CreateAlert(ctx, &dispatch.Alert{UserID: uid, UserName: "Bob"})
	_, _ = s.CreateAlert(ctx, &dispatch.Alert{UserID: other, UserName: "Alice"})
	_, _ = s.CreateAlert(ctx, &dispatch.Alert{UserID: uid, UserName: "Bob"})
	_, _ = s.CreateReport(ctx, &dispatch.Report{ReporterID: uid, ReporterName: "Bob", Category: dispatch.CategoryFire})

	if err := s.DeleteUser(ctx, uid); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}

	if _, ok, _ := s.GetUser(ctx, uid); ok {
		t.Error("deleted user still present")
	}
	alerts, _ := s.ListAlerts(ctx)
	if len(alerts) != 1 {
		t.Fatalf("len(alerts) = %d, want 1 (only alice's alert survives)", len(alerts))
	}
	if alerts[0].UserID != other {
		t.Errorf("surviving alert UserID = %d, want %d", alerts[0].UserID, other)
	}

	// Reports survive via the reporter-name snapshot.
	reports, _ := s.ListReports(ctx)
	if len(reports) != 1 {
		t.Fatalf("len(reports) = %d, want 1", len(reports))
	}
	if reports[0].ReporterName != "Bob" {
		t.Errorf("ReporterName = %q, want %q", reports[0].ReporterName, "Bob")
	}
}

func TestStore_DeleteUserIdempotent(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()
	uid, _ := s.CreateUser(ctx, &dispatch.User{Username: "bob"})

	if err := s.DeleteUser(ctx, uid); err != nil {
		t.Fatalf("first DeleteUser: %v", err)
	}
	if err := s.DeleteUser(ctx, uid); err != nil {
		t.Fatalf("second DeleteUser should be a no-op, got %v", err)
	}
	if err := s.DeleteUser(ctx, 9999); err != nil {
		t.Fatalf("DeleteUser of unknown id should be a no-op, got %v", err)
	}
}

func TestStore_MarkAlertHandledOneWay(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()
	id, _ := s.CreateAlert(ctx, &dispatch.Alert{UserID: 1, UserName: "Bob"})

	if err := s.MarkAlertHandled(ctx, id); err != nil {
		t.Fatalf("MarkAlertHandled: %v", err)
	}
	// Idempotent to set again.
	if err := s.MarkAlertHandled(ctx, id); err != nil {
		t.Fatalf("second MarkAlertHandled: %v", err)
	}

	alerts, _ := s.ListAlerts(ctx)
	if !alerts[0].Handled {
		t.Error("alert not marked handled")
	}

	if err := s.MarkAlertHandled(ctx, 9999); err != nil {
		t.Fatalf("MarkAlertHandled of unknown id should be a no-op, got %v", err)
	}
}

func TestStore_CopiesAreIsolated(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()
	loc := &geo.Coordinate{Lat: 9.3355, Lon: 125.9769}
	uid, _ := s.CreateUser(ctx, &dispatch.User{Username: "bob", Location: loc})

	// Mutating the caller's coordinate must not leak into the store.
	loc.Lat = 0

	got, _, _ := s.GetUser(ctx, uid)
	if got.Location == nil || got.Location.Lat != 9.3355 {
		t.Fatalf("stored location mutated through caller pointer: %+v", got.Location)
	}

	// Mutating a returned copy must not leak back either.
	got.Location.Lat = 1
	again, _, _ := s.GetUser(ctx, uid)
	if again.Location.Lat != 9.3355 {
		t.Fatalf("stored location mutated through returned copy: %+v", again.Location)
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()
	const n = 100

	var wg sync.WaitGroup
	wg.Add(n * 2)

	for i := range n {
		username := fmt.Sprintf("user-%d", i)

		go func() {
			defer wg.Done()
			_, _ = s.CreateUser(ctx, &dispatch.User{Username: username})
			_, _ = s.CreateAlert(ctx, &dispatch.Alert{UserID: int64(i), UserName: username})
		}()

		go func() {
			defer wg.Done()
			_, _ = s.ListUsers(ctx)
			_, _ = s.ListAlerts(ctx)
			_, _, _ = s.FindUserByUsername(ctx, username)
		}()
	}

	wg.Wait()

	users, _ := s.ListUsers(ctx)
	if len(users) != n {
		t.Errorf("len(users) = %d, want %d", len(users), n)
	}
}
