package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// UserRole is the access level of a staff member.
type UserRole string

const (
	RoleAdmin          UserRole = "admin"
	RoleAccountOfficer UserRole = "account_officer"
)

// ParseUserRole rejects unknown role values at the boundary.
func ParseUserRole(s string) (UserRole, error) {
	switch UserRole(s) {
	case RoleAdmin, RoleAccountOfficer:
		return UserRole(s), nil
	}
	return "", fmt.Errorf("unknown user role %q", s)
}

type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FullName     string    `json:"full_name" db:"full_name"`
	Email        *string   `json:"email,omitempty" db:"email"`
	Phone        *string   `json:"phone,omitempty" db:"phone"`
	Role         UserRole  `json:"role" db:"role"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	IsFirstLogin bool      `json:"is_first_login" db:"is_first_login"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// IsAdmin reports whether the user has unrestricted visibility.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token      string `json:"token"`
	User       *User  `json:"user"`
	FirstLogin bool   `json:"first_login,omitempty"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    string `json:"phone"`
	Role     string `json:"role" validate:"required"`
}
