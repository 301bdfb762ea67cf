package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/approval-desk/internal/api/dto"
	"github.com/spec-kit/approval-desk/internal/auth"
	"github.com/spec-kit/approval-desk/internal/service"
	apperrors "github.com/spec-kit/approval-desk/pkg/util/errorutil"
)

// TicketTypesHandler manages ticket type configuration endpoints.
type TicketTypesHandler struct {
	service *service.TicketTypeService
}

// NewTicketTypesHandler constructs handler.
func NewTicketTypesHandler(typeService *service.TicketTypeService) *TicketTypesHandler {
	return &TicketTypesHandler{service: typeService}
}

// ListTypes GET /ticket-types.
func (h *TicketTypesHandler) ListTypes(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	types, err := h.service.ListTypes(c.Context(), principal)
	if err != nil {
		return err
	}
	items := make([]dto.TicketTypeResponse, 0, len(types))
	for i := range types {
		items = append(items, dto.TicketTypeFromDomain(&types[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetType GET /ticket-types/:id.
func (h *TicketTypesHandler) GetType(c *fiber.Ctx) error {
	typ, err := h.service.GetType(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TicketTypeFromDomain(typ)})
}

// CreateType POST /admin/ticket-types.
func (h *TicketTypesHandler) CreateType(c *fiber.Ctx) error {
	var req dto.TicketTypeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	typ, err := h.service.CreateType(c.Context(), req.ToDomain())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.TicketTypeFromDomain(typ)})
}

// UpdateType PUT /admin/ticket-types/:id.
func (h *TicketTypesHandler) UpdateType(c *fiber.Ctx) error {
	var req dto.TicketTypeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	typ := req.ToDomain()
	typ.ID = c.Params("id")
	updated, err := h.service.UpdateType(c.Context(), typ)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TicketTypeFromDomain(updated)})
}

// DeleteType DELETE /admin/ticket-types/:id.
func (h *TicketTypesHandler) DeleteType(c *fiber.Ctx) error {
	if err := h.service.DeleteType(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// DeleteField DELETE /admin/ticket-types/:id/fields/:name.
func (h *TicketTypesHandler) DeleteField(c *fiber.Ctx) error {
	typ, err := h.service.DeleteField(c.Context(), c.Params("id"), c.Params("name"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TicketTypeFromDomain(typ)})
}

// DeprecateField POST /admin/ticket-types/:id/fields/:name/deprecate.
func (h *TicketTypesHandler) DeprecateField(c *fiber.Ctx) error {
	typ, err := h.service.DeprecateField(c.Context(), c.Params("id"), c.Params("name"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TicketTypeFromDomain(typ)})
}
