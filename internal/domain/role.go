package domain

import "time"

// RoleAdmin is the built-in role with unconditional access to admin
// surfaces and every workflow step.
const RoleAdmin = "admin"

// Role names an approver capability. CompanyID of nil means the role is
// global and applicable to every company.
type Role struct {
	ID        string
	Name      string
	CompanyID *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AppliesTo reports whether the role is usable within the given company.
func (r Role) AppliesTo(companyID string) bool {
	return r.CompanyID == nil || *r.CompanyID == companyID
}
