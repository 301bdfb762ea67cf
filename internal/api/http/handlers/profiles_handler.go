package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/approval-desk/internal/api/dto"
	"github.com/spec-kit/approval-desk/internal/auth"
	"github.com/spec-kit/approval-desk/internal/service"
	apperrors "github.com/spec-kit/approval-desk/pkg/util/errorutil"
)

// ProfilesHandler exposes registration, login and profile endpoints.
type ProfilesHandler struct {
	service *service.ProfileService
}

// NewProfilesHandler constructs handler.
func NewProfilesHandler(profileService *service.ProfileService) *ProfilesHandler {
	return &ProfilesHandler{service: profileService}
}

// Register handles POST /auth/register.
func (h *ProfilesHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" || req.Name == "" || req.CompanyID == "" {
		return apperrors.NewValidationError("name, email, password, company_id required", nil)
	}

	profile, token, exp, err := h.service.Register(c.Context(), req.Name, req.Email, req.Password, req.CompanyID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"profile": dto.ProfileFromDomain(profile),
			"auth":    dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// Login handles POST /auth/login.
func (h *ProfilesHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	profile, token, exp, err := h.service.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"profile": dto.ProfileFromDomain(profile),
			"auth":    dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// Me handles GET /auth/me.
func (h *ProfilesHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	return c.JSON(fiber.Map{"data": dto.ProfileFromDomain(principal)})
}

// ListProfiles GET /admin/profiles.
func (h *ProfilesHandler) ListProfiles(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	companyID := c.Query("company_id")
	if companyID == "" {
		companyID = principal.CompanyID
	}
	profiles, err := h.service.ListProfiles(c.Context(), companyID)
	if err != nil {
		return err
	}
	items := make([]dto.ProfileResponse, 0, len(profiles))
	for i := range profiles {
		items = append(items, dto.ProfileFromDomain(&profiles[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// SetEnabled PATCH /admin/profiles/:uid/enabled.
func (h *ProfilesHandler) SetEnabled(c *fiber.Ctx) error {
	var req dto.SetEnabledRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	profile, err := h.service.SetEnabled(c.Context(), c.Params("uid"), req.Enabled)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ProfileFromDomain(profile)})
}

// AssignRole PATCH /admin/profiles/:uid/role.
func (h *ProfilesHandler) AssignRole(c *fiber.Ctx) error {
	var req dto.AssignRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	profile, err := h.service.AssignRole(c.Context(), c.Params("uid"), req.Role)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ProfileFromDomain(profile)})
}
