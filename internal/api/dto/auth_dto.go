package dto

import (
	"time"

	"github.com/hr-portal/recruitment-service/internal/domain"
)

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// PasswordChangeRequest payload.
type PasswordChangeRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
}

// PasswordResetRequest payload.
type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// PasswordResetConfirmRequest payload.
type PasswordResetConfirmRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=72"`
}

// CreateUserRequest payload for admins creating accounts.
type CreateUserRequest struct {
	Name       string      `json:"name" validate:"required,max=120"`
	Email      string      `json:"email" validate:"required,email"`
	Password   string      `json:"password" validate:"required,min=8,max=72"`
	Role       domain.Role `json:"role" validate:"required,oneof=ADMIN CEO HR_MANAGER RECRUITER DEPARTMENT_HEAD"`
	Department string      `json:"department" validate:"max=120"`
	Phone      string      `json:"phone" validate:"max=30"`
}

// UpdateUserRequest carries optional account changes.
type UpdateUserRequest struct {
	Name       *string      `json:"name" validate:"omitempty,max=120"`
	Role       *domain.Role `json:"role" validate:"omitempty,oneof=ADMIN CEO HR_MANAGER RECRUITER DEPARTMENT_HEAD"`
	Department *string      `json:"department" validate:"omitempty,max=120"`
	Phone      *string      `json:"phone" validate:"omitempty,max=30"`
	Active     *bool        `json:"active"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	Role       domain.Role `json:"role"`
	Department string      `json:"department"`
	Phone      string      `json:"phone"`
	Active     bool        `json:"active"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}
