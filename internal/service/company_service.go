package service

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/approval-desk/internal/domain"
	"github.com/spec-kit/approval-desk/internal/repository"
	apperrors "github.com/spec-kit/approval-desk/pkg/util/errorutil"
)

// CompanyService manages company reference data.
type CompanyService struct {
	companies repository.CompanyRepository
}

// NewCompanyService constructs the service.
func NewCompanyService(companies repository.CompanyRepository) *CompanyService {
	return &CompanyService{companies: companies}
}

// CreateCompany validates the code convention and stores a new company.
func (s *CompanyService) CreateCompany(ctx context.Context, name, code string) (*domain.Company, error) {
	name = strings.TrimSpace(name)
	code = domain.NormalizeCode(code)
	if name == "" {
		return nil, apperrors.NewValidationError("company name required", nil)
	}
	if !domain.ValidateCompanyCode(code) {
		return nil, apperrors.NewValidationError("company code must be 3-5 uppercase letters", map[string]any{"code": code})
	}
	if existing, err := s.companies.GetByCode(ctx, code); err == nil && existing != nil {
		return nil, apperrors.NewConflict("company code already in use", map[string]any{"code": code})
	} else if err != nil && err != pgx.ErrNoRows {
		return nil, apperrors.NewRemoteError(err)
	}

	company := &domain.Company{Name: name, Code: code}
	if err := s.companies.Create(ctx, company); err != nil {
		return nil, apperrors.NewRemoteError(err)
	}
	return company, nil
}

// UpdateCompany validates and stores changes.
func (s *CompanyService) UpdateCompany(ctx context.Context, company *domain.Company) (*domain.Company, error) {
	company.Name = strings.TrimSpace(company.Name)
	company.Code = domain.NormalizeCode(company.Code)
	if company.Name == "" {
		return nil, apperrors.NewValidationError("company name required", nil)
	}
	if !domain.ValidateCompanyCode(company.Code) {
		return nil, apperrors.NewValidationError("company code must be 3-5 uppercase letters", map[string]any{"code": company.Code})
	}
	if existing, err := s.companies.GetByCode(ctx, company.Code); err == nil && existing.ID != company.ID {
		return nil, apperrors.NewConflict("company code already in use", map[string]any{"code": company.Code})
	} else if err != nil && err != pgx.ErrNoRows {
		return nil, apperrors.NewRemoteError(err)
	}
	if err := s.companies.Update(ctx, company); err != nil {
		return nil, mapRepoErr(err, "company")
	}
	return company, nil
}

// DeleteCompany removes a company.
func (s *CompanyService) DeleteCompany(ctx context.Context, id string) error {
	if err := s.companies.Delete(ctx, id); err != nil {
		return mapRepoErr(err, "company")
	}
	return nil
}

// GetCompany fetches a company by id.
func (s *CompanyService) GetCompany(ctx context.Context, id string) (*domain.Company, error) {
	company, err := s.companies.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err, "company")
	}
	return company, nil
}

// ListCompanies returns every company.
func (s *CompanyService) ListCompanies(ctx context.Context) ([]domain.Company, error) {
	companies, err := s.companies.List(ctx)
	if err != nil {
		return nil, apperrors.NewRemoteError(err)
	}
	return companies, nil
}
