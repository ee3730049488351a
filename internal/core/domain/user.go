package domain

import "time"

// Role controls the authorization level of a user.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleUser    Role = "user"
)

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleUser:
		return true
	}
	return false
}

// UserStatus is the account state of a user.
type UserStatus string

const (
	StatusActive   UserStatus = "active"
	StatusInactive UserStatus = "inactive"
	StatusPending  UserStatus = "pending"
)

func (s UserStatus) IsValid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusPending:
		return true
	}
	return false
}

// Departments lists the accepted department values. Informational only.
var Departments = []string{"Engineering", "Marketing", "Sales", "HR", "Finance", "Operations", "Legal"}

const DefaultDepartment = "Engineering"

// IsValidDepartment reports whether d is one of Departments.
func IsValidDepartment(d string) bool {
	for _, known := range Departments {
		if d == known {
			return true
		}
	}
	return false
}

// User is a Credential Store record. PasswordHash never leaves the process.
type User struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	Department   string     `json:"department"`
	Status       UserStatus `json:"status"`
	Avatar       *string    `json:"avatar"`
	LastLogin    time.Time  `json:"lastLogin"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// Identity is the caller resolved by the Auth Gate.
//
// Role is the snapshot carried by the session token, not the stored role: a
// role change only takes effect for a caller once a new token is issued.
type Identity struct {
	User      *User
	Role      Role
	TokenID   string
	ExpiresAt time.Time
}

// ID returns the caller's user id.
func (i *Identity) ID() string {
	if i == nil || i.User == nil {
		return ""
	}
	return i.User.ID
}

func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}
