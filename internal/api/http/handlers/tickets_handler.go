package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/approval-desk/internal/api/dto"
	"github.com/spec-kit/approval-desk/internal/auth"
	"github.com/spec-kit/approval-desk/internal/domain"
	"github.com/spec-kit/approval-desk/internal/service"
	apperrors "github.com/spec-kit/approval-desk/pkg/util/errorutil"
)

// TicketsHandler manages ticket lifecycle endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.TicketTypeID == "" || strings.TrimSpace(req.Title) == "" {
		return apperrors.NewValidationError("ticket_type_id and title required", nil)
	}

	ticket, err := h.service.CreateTicket(c.Context(), principal, service.TicketCreateInput{
		TicketTypeID: req.TicketTypeID,
		Title:        req.Title,
		Description:  req.Description,
		FieldValues:  req.FieldValues,
		Attachments:  req.Attachments,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticketDetail(ticket)})
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	tickets, err := h.service.ListTickets(c.Context(), principal, parseTicketQuery(c))
	if err != nil {
		return err
	}
	items := make([]dto.TicketSummary, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketSummary(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	ticket, err := h.service.GetTicket(c.Context(), principal, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(ticket)})
}

// Approve POST /tickets/:id/approve.
func (h *TicketsHandler) Approve(c *fiber.Ctx) error {
	return h.act(c, domain.ActionApprove)
}

// Return POST /tickets/:id/return.
func (h *TicketsHandler) Return(c *fiber.Ctx) error {
	return h.act(c, domain.ActionReturn)
}

// Reject POST /tickets/:id/reject.
func (h *TicketsHandler) Reject(c *fiber.Ctx) error {
	return h.act(c, domain.ActionReject)
}

// Cancel POST /tickets/:id/cancel.
func (h *TicketsHandler) Cancel(c *fiber.Ctx) error {
	return h.act(c, domain.ActionCancel)
}

// Resubmit POST /tickets/:id/resubmit.
func (h *TicketsHandler) Resubmit(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.ResubmitTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.Resubmit(c.Context(), principal, c.Params("id"), req.FieldValues)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(ticket)})
}

// AddAttachment POST /tickets/:id/attachments.
func (h *TicketsHandler) AddAttachment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.AddAttachmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	attachment, err := h.service.AddAttachment(c.Context(), principal, c.Params("id"), req.FileName)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": attachmentResponse(attachment)})
}

func (h *TicketsHandler) act(c *fiber.Ctx, action domain.HistoryAction) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.TicketActionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
	}
	ticket, err := h.service.Act(c.Context(), principal, c.Params("id"), action, req.Comment)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(ticket)})
}

func parseTicketQuery(c *fiber.Ctx) service.TicketListFilter {
	filter := service.TicketListFilter{}
	if typeID := c.Query("ticket_type_id"); typeID != "" {
		filter.TicketTypeID = &typeID
	}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			filter.Statuses = append(filter.Statuses, strings.TrimSpace(part))
		}
	}
	if from := parseTime(c.Query("created_from")); from != nil {
		filter.CreatedFrom = from
	}
	if to := parseTime(c.Query("created_to")); to != nil {
		filter.CreatedTo = to
	}
	filter.MineOnly = c.Query("mine") == "true"
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter
}

func parseTime(val string) *time.Time {
	if val == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return nil
	}
	return &t
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func ticketSummary(ticket *domain.Ticket) dto.TicketSummary {
	return dto.TicketSummary{
		ID:               ticket.ID,
		TicketNumber:     ticket.TicketNumber,
		TicketTypeID:     ticket.TicketTypeID,
		Title:            ticket.Title,
		Status:           ticket.Status,
		CurrentStepIndex: ticket.CurrentStepIndex,
		RequesterID:      ticket.RequesterID,
		CreatedAt:        ticket.CreatedAt,
		UpdatedAt:        ticket.UpdatedAt,
	}
}

func ticketDetail(ticket *domain.Ticket) dto.TicketDetailResponse {
	history := make([]dto.HistoryResponse, 0, len(ticket.History))
	for _, entry := range ticket.History {
		history = append(history, dto.HistoryResponse{
			ID:        entry.ID,
			Action:    entry.Action,
			ActorUID:  entry.ActorUID,
			ActorName: entry.ActorName,
			Comment:   entry.Comment,
			CreatedAt: entry.CreatedAt,
		})
	}
	attachments := make([]dto.AttachmentResponse, 0, len(ticket.Attachments))
	for i := range ticket.Attachments {
		attachments = append(attachments, attachmentResponse(&ticket.Attachments[i]))
	}
	return dto.TicketDetailResponse{
		ID:               ticket.ID,
		TicketNumber:     ticket.TicketNumber,
		TicketTypeID:     ticket.TicketTypeID,
		CompanyID:        ticket.CompanyID,
		RequesterID:      ticket.RequesterID,
		Title:            ticket.Title,
		Description:      ticket.Description,
		Status:           ticket.Status,
		FieldValues:      ticket.FieldValues,
		CurrentStepIndex: ticket.CurrentStepIndex,
		Version:          ticket.Version,
		StepEnteredAt:    ticket.StepEnteredAt,
		CreatedAt:        ticket.CreatedAt,
		UpdatedAt:        ticket.UpdatedAt,
		History:          history,
		Attachments:      attachments,
	}
}

func attachmentResponse(attachment *domain.Attachment) dto.AttachmentResponse {
	return dto.AttachmentResponse{
		ID:         attachment.ID,
		FileName:   attachment.FileName,
		UploadedBy: attachment.UploadedBy,
		UploadedAt: attachment.UploadedAt,
	}
}
