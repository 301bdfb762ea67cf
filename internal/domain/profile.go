package domain

import "time"

// UserProfile is the resolved identity for an authenticated principal.
// It is created or refreshed on every successful authentication.
type UserProfile struct {
	UID          string
	Name         string
	Email        string
	PasswordHash string
	Role         string
	CompanyID    string
	Enabled      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastLoginAt  *time.Time
}

// IsAdmin reports whether the profile carries the unconditional admin
// capability.
func (p *UserProfile) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

// CanActOnStep reports whether the profile's role is in the step's
// approver set. Admins may act on any step.
func (p *UserProfile) CanActOnStep(step Step) bool {
	if p == nil {
		return false
	}
	if p.IsAdmin() {
		return true
	}
	for _, role := range step.Approvers.Roles {
		if role == p.Role {
			return true
		}
	}
	return false
}
