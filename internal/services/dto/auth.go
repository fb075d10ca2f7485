package dto

import (
	"time"

	"footwork_backend/internal/models"
)

// RegisterRequest covers both candidate and team sign-up; role decides which
// profile fields are required.
type RegisterRequest struct {
	Email    string          `json:"email" validate:"required,email"`
	Password string          `json:"password" validate:"required,min=8"`
	Role     models.UserRole `json:"role" validate:"required,oneof=candidate team"`

	// Candidate fields
	FirstName       string `json:"first_name,omitempty"`
	LastName        string `json:"last_name,omitempty"`
	BirthDate       string `json:"birth_date,omitempty"` // YYYY-MM-DD
	Position        string `json:"position,omitempty"`
	ExperienceLevel string `json:"experience_level,omitempty"`
	Qualification   string `json:"qualification,omitempty"`

	// Team fields
	TeamName string `json:"team_name,omitempty"`
	City     string `json:"city,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthResponse carries the token pair issued on login and refresh.
type AuthResponse struct {
	AccessToken  string  `json:"access_token"`
	RefreshToken string  `json:"refresh_token"`
	User         UserDTO `json:"user"`
}

type UserDTO struct {
	ID            string          `json:"id"`
	Email         string          `json:"email"`
	Role          models.UserRole `json:"role"`
	IsActive      bool            `json:"is_active"`
	IsApproved    bool            `json:"is_approved"`
	EmailVerified bool            `json:"email_verified"`
	CreatedAt     time.Time       `json:"created_at"`
}

func UserToDTO(u *models.User) UserDTO {
	return UserDTO{
		ID:            u.ID,
		Email:         u.Email,
		Role:          u.Role,
		IsActive:      u.IsActive,
		IsApproved:    u.IsApproved,
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt,
	}
}
