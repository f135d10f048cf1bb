// Package models defines the domain types shared by the LeaveKeeper client and
// server: identities, leave requests and the leave request lifecycle.
package models

// Role gates which flows and data an identity can reach.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleEmployee || r == RoleManager
}

// Identity is an authenticated user profile. It is immutable for the
// lifetime of a session.
type Identity struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}

// IsManager reports whether the identity holds the manager role.
func (i Identity) IsManager() bool { return i.Role == RoleManager }

// Profile is the registration payload sent to the auth service.
type Profile struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=4,max=72"`
	FullName string `json:"fullName" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Role     Role   `json:"role" validate:"omitempty,oneof=employee manager"`
}
