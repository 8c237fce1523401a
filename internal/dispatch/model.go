package dispatch

import (
	"time"

	"github.com/cantilanlgu/lifeline/internal/geo"
)

// Role identifies which dashboard and operations a user gets.
type Role string

const (
	// RoleCitizen can send SOS alerts and view community activity.
	RoleCitizen Role = "citizen"

	// RoleResponder receives ranked alerts and marks them handled.
	RoleResponder Role = "responder"

	// RoleOfficial files official incident reports.
	RoleOfficial Role = "official"

	// RoleAdministrator manages user accounts and exports data.
	RoleAdministrator Role = "administrator"
)

// KnownRole reports whether r is one of the defined roles.
func KnownRole(r Role) bool {
	switch r {
	case RoleCitizen, RoleResponder, RoleOfficial, RoleAdministrator:
		return true
	}
	return false
}

// Category is an emergency category from the fixed municipal set.
type Category string

const (
	CategoryCarAccident  Category = "Car Accident"
	CategoryFlood        Category = "Flood"
	CategoryFight        Category = "Fight / Disturbance"
	CategoryFire         Category = "Fire"
	CategoryTsunami      Category = "Tsunami"
	CategoryLandslide    Category = "Landslide"
	CategoryFallAccident Category = "Fall Accident"
	CategoryMedical      Category = "Medical"
	CategoryOther        Category = "Other"
)

// Categories returns the fixed emergency-category set in display order.
func Categories() []Category {
	return []Category{
		CategoryCarAccident,
		CategoryFlood,
		CategoryFight,
		CategoryFire,
		CategoryTsunami,
		CategoryLandslide,
		CategoryFallAccident,
		CategoryMedical,
		CategoryOther,
	}
}

// KnownCategory reports whether c is part of the fixed set.
func KnownCategory(c Category) bool {
	for _, k := range Categories() {
		if c == k {
			return true
		}
	}
	return false
}

// User is a registered account. Role-specific fields live in the profile
// struct matching the role; the other profiles stay nil.
type User struct {
	ID           int64           `json:"id"`
	Username     string          `json:"username"`
	Password     string          `json:"-"` // never serialized
	Role         Role            `json:"role"`
	Name         string          `json:"name"`
	Mobile       string          `json:"mobile"`
	Address      string          `json:"address,omitempty"`
	Location     *geo.Coordinate `json:"location,omitempty"`
	RegisteredAt time.Time       `json:"registered_at"`

	Residence *ResidenceProfile `json:"residence,omitempty"`
	Responder *ResponderProfile `json:"responder,omitempty"`
	Official  *OfficialProfile  `json:"official,omitempty"`
	Admin     *AdminProfile     `json:"admin,omitempty"`
}

// ResidenceProfile holds citizen registration details.
type ResidenceProfile struct {
	Age             int    `json:"age,omitempty"`
	Gender          string `json:"gender,omitempty"`
	Occupation      string `json:"occupation,omitempty"`
	FamilyMembers   int    `json:"family_members,omitempty"`
	SpecificAddress string `json:"specific_address,omitempty"`
	PropertySize    string `json:"property_size,omitempty"`
	YearResidency   int    `json:"year_residency,omitempty"`
}

// ResponderProfile holds emergency-responder registration details.
type ResponderProfile struct {
	Position       string `json:"position"`
	Specialization string `json:"specialization,omitempty"`
	Unit           string `json:"unit"`
	Department     string `json:"department,omitempty"`
	Equipment      string `json:"equipment,omitempty"`
	Clearance      string `json:"clearance,omitempty"`
}

// OfficialProfile holds government-official registration details.
type OfficialProfile struct {
	Position   string `json:"position"`
	Department string `json:"department"`
	Unit       string `json:"unit,omitempty"`
	Clearance  string `json:"clearance,omitempty"`
	Expertise  string `json:"expertise,omitempty"`
}

// AdminProfile holds system-administrator registration details.
type AdminProfile struct {
	Position    string `json:"position"`
	Department  string `json:"department"`
	DutyRole    string `json:"duty_role,omitempty"`
	AccessLevel string `json:"access_level,omitempty"`
	AdminLevel  string `json:"admin_level"`
}

// Alert is a citizen-initiated SOS signal. UserName and Address are
// denormalized snapshots so the record survives deletion of the user.
type Alert struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"user_id"`
	UserName  string          `json:"user_name"`
	CreatedAt time.Time       `json:"created_at"`
	Location  *geo.Coordinate `json:"location,omitempty"`
	Note      string          `json:"note,omitempty"`
	Category  Category        `json:"category,omitempty"`
	Handled   bool            `json:"handled"`
	Address   string          `json:"address,omitempty"`
}

// Report is an official incident report. Immutable once filed.
type Report struct {
	ID           int64           `json:"id"`
	ReporterID   int64           `json:"reporter_id"`
	ReporterName string          `json:"reporter_name"`
	CreatedAt    time.Time       `json:"created_at"`
	Category     Category        `json:"category"`
	Description  string          `json:"description"`
	Location     *geo.Coordinate `json:"location,omitempty"`
	Address      string          `json:"address,omitempty"`
}
