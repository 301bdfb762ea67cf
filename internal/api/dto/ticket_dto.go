package dto

import (
	"time"

	"github.com/spec-kit/approval-desk/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	TicketTypeID string            `json:"ticket_type_id"`
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	FieldValues  map[string]string `json:"field_values"`
	Attachments  []string          `json:"attachments"`
}

// TicketActionRequest payload for approve/return/reject/cancel.
type TicketActionRequest struct {
	Comment string `json:"comment"`
}

// ResubmitTicketRequest payload.
type ResubmitTicketRequest struct {
	FieldValues map[string]string `json:"field_values"`
}

// AddAttachmentRequest payload.
type AddAttachmentRequest struct {
	FileName string `json:"file_name"`
}

// TicketSummary response.
type TicketSummary struct {
	ID               string    `json:"id"`
	TicketNumber     string    `json:"ticket_number"`
	TicketTypeID     string    `json:"ticket_type_id"`
	Title            string    `json:"title"`
	Status           string    `json:"status"`
	CurrentStepIndex int       `json:"current_step_index"`
	RequesterID      string    `json:"requester_id"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// TicketDetailResponse provides full ticket info.
type TicketDetailResponse struct {
	ID               string               `json:"id"`
	TicketNumber     string               `json:"ticket_number"`
	TicketTypeID     string               `json:"ticket_type_id"`
	CompanyID        string               `json:"company_id"`
	RequesterID      string               `json:"requester_id"`
	Title            string               `json:"title"`
	Description      string               `json:"description"`
	Status           string               `json:"status"`
	FieldValues      map[string]string    `json:"field_values"`
	CurrentStepIndex int                  `json:"current_step_index"`
	Version          int64                `json:"version"`
	StepEnteredAt    time.Time            `json:"step_entered_at"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
	History          []HistoryResponse    `json:"history"`
	Attachments      []AttachmentResponse `json:"attachments"`
}

// HistoryResponse is one audit trail entry.
type HistoryResponse struct {
	ID        string               `json:"id"`
	Action    domain.HistoryAction `json:"action"`
	ActorUID  string               `json:"actor_uid"`
	ActorName string               `json:"actor_name"`
	Comment   string               `json:"comment,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
}

// AttachmentResponse metadata.
type AttachmentResponse struct {
	ID         string    `json:"id"`
	FileName   string    `json:"file_name"`
	UploadedBy string    `json:"uploaded_by"`
	UploadedAt time.Time `json:"uploaded_at"`
}
