package service

import (
	"context"
	"strings"

	"github.com/spec-kit/approval-desk/internal/domain"
	"github.com/spec-kit/approval-desk/internal/repository"
	apperrors "github.com/spec-kit/approval-desk/pkg/util/errorutil"
)

// RoleService manages approver role reference data.
type RoleService struct {
	roles     repository.RoleRepository
	companies repository.CompanyRepository
}

// NewRoleService constructs the service.
func NewRoleService(roles repository.RoleRepository, companies repository.CompanyRepository) *RoleService {
	return &RoleService{roles: roles, companies: companies}
}

// CreateRole stores a new role. A nil companyID makes the role global.
func (s *RoleService) CreateRole(ctx context.Context, name string, companyID *string) (*domain.Role, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil, apperrors.NewValidationError("role name required", nil)
	}
	if companyID != nil {
		if _, err := s.companies.GetByID(ctx, *companyID); err != nil {
			return nil, mapRepoErr(err, "company")
		}
	}
	role := &domain.Role{Name: name, CompanyID: companyID}
	if err := s.roles.Create(ctx, role); err != nil {
		return nil, apperrors.NewRemoteError(err)
	}
	return role, nil
}

// UpdateRole stores changes to a role.
func (s *RoleService) UpdateRole(ctx context.Context, role *domain.Role) (*domain.Role, error) {
	role.Name = strings.ToLower(strings.TrimSpace(role.Name))
	if role.Name == "" {
		return nil, apperrors.NewValidationError("role name required", nil)
	}
	if err := s.roles.Update(ctx, role); err != nil {
		return nil, mapRepoErr(err, "role")
	}
	return role, nil
}

// DeleteRole removes a role.
func (s *RoleService) DeleteRole(ctx context.Context, id string) error {
	if err := s.roles.Delete(ctx, id); err != nil {
		return mapRepoErr(err, "role")
	}
	return nil
}

// ListRoles returns roles usable within the company: company-scoped plus
// global ones.
func (s *RoleService) ListRoles(ctx context.Context, companyID string) ([]domain.Role, error) {
	roles, err := s.roles.ListForCompany(ctx, companyID)
	if err != nil {
		return nil, apperrors.NewRemoteError(err)
	}
	return roles, nil
}
