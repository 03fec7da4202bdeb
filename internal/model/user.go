package model

import "time"

// UserRole represents the role of a user account
type UserRole string

const (
	// UserRoleStudent is the default role for signups
	UserRoleStudent UserRole = "student"
	// UserRoleOrganizer can create and manage events
	UserRoleOrganizer UserRole = "organizer"
)

// User represents a registered account
type User struct {
	ID         string     `json:"id"`
	Email      string     `json:"email"`
	Name       string     `json:"name"`
	Role       UserRole   `json:"role"`
	Department *string    `json:"department,omitempty"`
	Avatar     *string    `json:"avatar,omitempty"`
	Hash       *string    `json:"-"`
	CreatedOn  time.Time  `json:"created_on"`
	UpdatedOn  time.Time  `json:"updated_on"`
	LastLogin  *time.Time `json:"last_login,omitempty"`
}

// CreateUserRequest represents a signup request
type CreateUserRequest struct {
	Email      string  `json:"email"`
	Name       string  `json:"name"`
	Password   string  `json:"password"`
	Role       *string `json:"role,omitempty"`
	Department *string `json:"department,omitempty"`
}

// UpdateUserRequest represents a partial profile update
type UpdateUserRequest struct {
	Name       *string `json:"name,omitempty"`
	Department *string `json:"department,omitempty"`
	Avatar     *string `json:"avatar,omitempty"`
}

// ValidRole reports whether s names a known user role.
func ValidRole(s string) bool {
	switch UserRole(s) {
	case UserRoleStudent, UserRoleOrganizer:
		return true
	}
	return false
}
