package dto

import (
	"time"

	"github.com/spec-kit/approval-desk/internal/domain"
)

// CompanyRequest payload.
type CompanyRequest struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// CompanyResponse payload.
type CompanyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CompanyFromDomain maps a company to its response payload.
func CompanyFromDomain(company *domain.Company) CompanyResponse {
	return CompanyResponse{
		ID:        company.ID,
		Name:      company.Name,
		Code:      company.Code,
		CreatedAt: company.CreatedAt,
		UpdatedAt: company.UpdatedAt,
	}
}

// RoleRequest payload. A nil company_id makes the role global.
type RoleRequest struct {
	Name      string  `json:"name"`
	CompanyID *string `json:"company_id"`
}

// RoleResponse payload.
type RoleResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	CompanyID *string `json:"company_id"`
}

// RoleFromDomain maps a role to its response payload.
func RoleFromDomain(role *domain.Role) RoleResponse {
	return RoleResponse{ID: role.ID, Name: role.Name, CompanyID: role.CompanyID}
}

// DropdownListRequest payload.
type DropdownListRequest struct {
	Name    string                  `json:"name"`
	Options []domain.DropdownOption `json:"options"`
}

// DropdownListResponse payload.
type DropdownListResponse struct {
	ID      string                  `json:"id"`
	Name    string                  `json:"name"`
	Options []domain.DropdownOption `json:"options"`
}

// DropdownListFromDomain maps a list to its response payload.
func DropdownListFromDomain(list *domain.DropdownList) DropdownListResponse {
	return DropdownListResponse{ID: list.ID, Name: list.Name, Options: list.Options}
}
