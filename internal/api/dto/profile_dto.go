package dto

import (
	"time"

	"github.com/spec-kit/approval-desk/internal/domain"
)

// RegisterRequest payload.
type RegisterRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	CompanyID string `json:"company_id"`
}

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries the issued token.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ProfileResponse payload.
type ProfileResponse struct {
	UID         string     `json:"uid"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	CompanyID   string     `json:"company_id"`
	Enabled     bool       `json:"enabled"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// SetEnabledRequest payload.
type SetEnabledRequest struct {
	Enabled bool `json:"enabled"`
}

// AssignRoleRequest payload.
type AssignRoleRequest struct {
	Role string `json:"role"`
}

// ProfileFromDomain maps a profile to its response payload.
func ProfileFromDomain(profile *domain.UserProfile) ProfileResponse {
	return ProfileResponse{
		UID:         profile.UID,
		Name:        profile.Name,
		Email:       profile.Email,
		Role:        profile.Role,
		CompanyID:   profile.CompanyID,
		Enabled:     profile.Enabled,
		LastLoginAt: profile.LastLoginAt,
	}
}
