package dto

import (
	"time"

	"github.com/spec-kit/approval-desk/internal/domain"
)

// TicketTypeRequest payload for create/update.
type TicketTypeRequest struct {
	Name                      string            `json:"name"`
	Code                      string            `json:"code"`
	Description               string            `json:"description"`
	IsActive                  bool              `json:"is_active"`
	RequireAttachmentOnCreate bool              `json:"require_attachment_on_create"`
	CommentRequirements       map[string]bool   `json:"comment_requirements"`
	Fields                    []domain.FieldDef `json:"fields"`
	Workflow                  domain.Workflow   `json:"workflow"`
}

// TicketTypeResponse payload.
type TicketTypeResponse struct {
	ID                        string            `json:"id"`
	Name                      string            `json:"name"`
	Code                      string            `json:"code"`
	Description               string            `json:"description"`
	IsActive                  bool              `json:"is_active"`
	RequireAttachmentOnCreate bool              `json:"require_attachment_on_create"`
	CommentRequirements       map[string]bool   `json:"comment_requirements"`
	Fields                    []domain.FieldDef `json:"fields"`
	Workflow                  domain.Workflow   `json:"workflow"`
	CreatedAt                 time.Time         `json:"created_at"`
	UpdatedAt                 time.Time         `json:"updated_at"`
}

// ToDomain converts the request payload to the domain model.
func (r TicketTypeRequest) ToDomain() *domain.TicketType {
	requirements := make(map[domain.HistoryAction]bool, len(r.CommentRequirements))
	for action, required := range r.CommentRequirements {
		requirements[domain.HistoryAction(action)] = required
	}
	return &domain.TicketType{
		Name:                      r.Name,
		Code:                      r.Code,
		Description:               r.Description,
		IsActive:                  r.IsActive,
		RequireAttachmentOnCreate: r.RequireAttachmentOnCreate,
		CommentRequirements:       requirements,
		Fields:                    r.Fields,
		Workflow:                  r.Workflow,
	}
}

// TicketTypeFromDomain maps the domain model to the response payload.
func TicketTypeFromDomain(typ *domain.TicketType) TicketTypeResponse {
	requirements := make(map[string]bool, len(typ.CommentRequirements))
	for action, required := range typ.CommentRequirements {
		requirements[string(action)] = required
	}
	return TicketTypeResponse{
		ID:                        typ.ID,
		Name:                      typ.Name,
		Code:                      typ.Code,
		Description:               typ.Description,
		IsActive:                  typ.IsActive,
		RequireAttachmentOnCreate: typ.RequireAttachmentOnCreate,
		CommentRequirements:       requirements,
		Fields:                    typ.Fields,
		Workflow:                  typ.Workflow,
		CreatedAt:                 typ.CreatedAt,
		UpdatedAt:                 typ.UpdatedAt,
	}
}
