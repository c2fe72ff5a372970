// Package user provides dashboard account management. Accounts are
// displayed on the dashboard and used as notification recipients; this
// service owns their storage but not their authentication beyond the
// admin surface.
package user

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role is a user's dashboard role.
type Role string

// Known roles. Anything else normalizes to RoleUnknown so unrecognized
// backend values render as an explicit fallback instead of leaking
// through raw.
const (
	RoleAdmin    Role = "ADMIN"
	RoleOperator Role = "OPERATOR"
	RoleViewer   Role = "VIEWER"
	RoleUnknown  Role = "UNKNOWN"
)

// NormalizeRole maps a raw role string onto the closed role set.
func NormalizeRole(raw string) Role {
	switch Role(strings.ToUpper(strings.TrimSpace(raw))) {
	case RoleAdmin:
		return RoleAdmin
	case RoleOperator:
		return RoleOperator
	case RoleViewer:
		return RoleViewer
	default:
		return RoleUnknown
	}
}

// User represents a dashboard account.
type User struct {
	// ID is the unique user identifier (format: usr_XXXX).
	ID string

	// Username is the login/display name.
	Username string

	// Email is the notification address.
	Email string

	// Role is the user's dashboard role.
	Role Role

	// IsActive marks whether the account receives notifications and
	// may sign in.
	IsActive bool

	// CreatedAt is when the account was created.
	CreatedAt time.Time

	// UpdatedAt is when the account was last updated.
	UpdatedAt time.Time
}

// NewUser creates an active user with a generated ID.
func NewUser(username, email string, role Role) *User {
	now := time.Now()
	return &User{
		ID:        "usr_" + uuid.New().String(),
		Username:  username,
		Email:     email,
		Role:      role,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
