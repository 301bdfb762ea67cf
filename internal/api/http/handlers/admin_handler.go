package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/approval-desk/internal/api/dto"
	"github.com/spec-kit/approval-desk/internal/domain"
	"github.com/spec-kit/approval-desk/internal/service"
	apperrors "github.com/spec-kit/approval-desk/pkg/util/errorutil"
)

// AdminHandler covers company, role and dropdown list configuration.
type AdminHandler struct {
	companies *service.CompanyService
	roles     *service.RoleService
	dropdowns *service.DropdownService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(companies *service.CompanyService, roles *service.RoleService, dropdowns *service.DropdownService) *AdminHandler {
	return &AdminHandler{companies: companies, roles: roles, dropdowns: dropdowns}
}

// CreateCompany POST /admin/companies.
func (h *AdminHandler) CreateCompany(c *fiber.Ctx) error {
	var req dto.CompanyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	company, err := h.companies.CreateCompany(c.Context(), req.Name, req.Code)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.CompanyFromDomain(company)})
}

// UpdateCompany PUT /admin/companies/:id.
func (h *AdminHandler) UpdateCompany(c *fiber.Ctx) error {
	var req dto.CompanyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	company := &domain.Company{ID: c.Params("id"), Name: req.Name, Code: req.Code}
	updated, err := h.companies.UpdateCompany(c.Context(), company)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.CompanyFromDomain(updated)})
}

// DeleteCompany DELETE /admin/companies/:id.
func (h *AdminHandler) DeleteCompany(c *fiber.Ctx) error {
	if err := h.companies.DeleteCompany(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ListCompanies GET /admin/companies.
func (h *AdminHandler) ListCompanies(c *fiber.Ctx) error {
	companies, err := h.companies.ListCompanies(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.CompanyResponse, 0, len(companies))
	for i := range companies {
		items = append(items, dto.CompanyFromDomain(&companies[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreateRole POST /admin/roles.
func (h *AdminHandler) CreateRole(c *fiber.Ctx) error {
	var req dto.RoleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	role, err := h.roles.CreateRole(c.Context(), req.Name, req.CompanyID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.RoleFromDomain(role)})
}

// UpdateRole PUT /admin/roles/:id.
func (h *AdminHandler) UpdateRole(c *fiber.Ctx) error {
	var req dto.RoleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	role := &domain.Role{ID: c.Params("id"), Name: req.Name, CompanyID: req.CompanyID}
	updated, err := h.roles.UpdateRole(c.Context(), role)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.RoleFromDomain(updated)})
}

// DeleteRole DELETE /admin/roles/:id.
func (h *AdminHandler) DeleteRole(c *fiber.Ctx) error {
	if err := h.roles.DeleteRole(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ListRoles GET /admin/roles.
func (h *AdminHandler) ListRoles(c *fiber.Ctx) error {
	roles, err := h.roles.ListRoles(c.Context(), c.Query("company_id"))
	if err != nil {
		return err
	}
	items := make([]dto.RoleResponse, 0, len(roles))
	for i := range roles {
		items = append(items, dto.RoleFromDomain(&roles[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreateDropdownList POST /admin/dropdown-lists.
func (h *AdminHandler) CreateDropdownList(c *fiber.Ctx) error {
	var req dto.DropdownListRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	list := &domain.DropdownList{Name: req.Name, Options: req.Options}
	created, err := h.dropdowns.CreateList(c.Context(), list)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.DropdownListFromDomain(created)})
}

// UpdateDropdownList PUT /admin/dropdown-lists/:id.
func (h *AdminHandler) UpdateDropdownList(c *fiber.Ctx) error {
	var req dto.DropdownListRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	list := &domain.DropdownList{ID: c.Params("id"), Name: req.Name, Options: req.Options}
	updated, err := h.dropdowns.UpdateList(c.Context(), list)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.DropdownListFromDomain(updated)})
}

// DeleteDropdownList DELETE /admin/dropdown-lists/:id.
func (h *AdminHandler) DeleteDropdownList(c *fiber.Ctx) error {
	if err := h.dropdowns.DeleteList(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ListDropdownLists GET /admin/dropdown-lists.
func (h *AdminHandler) ListDropdownLists(c *fiber.Ctx) error {
	lists, err := h.dropdowns.ListLists(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.DropdownListResponse, 0, len(lists))
	for i := range lists {
		items = append(items, dto.DropdownListFromDomain(&lists[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// DropdownOptions GET /dropdown-lists/:id/options. The parent_value query
// parameter filters dependent lists.
func (h *AdminHandler) DropdownOptions(c *fiber.Ctx) error {
	var parentValue *string
	if v := c.Query("parent_value"); v != "" {
		parentValue = &v
	}
	options, err := h.dropdowns.OptionsFor(c.Context(), c.Params("id"), parentValue)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": options})
}
