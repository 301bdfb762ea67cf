package events

import (
	"time"

	"github.com/spec-kit/approval-desk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketSubmitted    EventType = "ticket_submitted"
	EventTicketVoteRecorded EventType = "ticket_vote_recorded"
	EventTicketStepAdvanced EventType = "ticket_step_advanced"
	EventTicketApproved     EventType = "ticket_approved"
	EventTicketReturned     EventType = "ticket_returned"
	EventTicketRejected     EventType = "ticket_rejected"
	EventTicketCancelled    EventType = "ticket_cancelled"
	EventTicketSLABreached  EventType = "ticket_sla_breached"
	EventPrincipalSignedIn  EventType = "principal_signed_in"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UID  string `json:"uid"`
	Name string `json:"name,omitempty"`
	Role string `json:"role,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id,omitempty"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketSubmittedPayload payload.
type TicketSubmittedPayload struct {
	TicketNumber string `json:"ticket_number"`
	TicketTypeID string `json:"ticket_type_id"`
	CompanyID    string `json:"company_id"`
	Title        string `json:"title"`
	Status       string `json:"status"`
}

// TicketActionPayload covers transitions and quorum votes.
type TicketActionPayload struct {
	Action     domain.HistoryAction `json:"action"`
	OldStatus  string               `json:"old_status"`
	NewStatus  string               `json:"new_status"`
	StepIndex  int                  `json:"step_index"`
	Comment    string               `json:"comment,omitempty"`
	QuorumMet  bool                 `json:"quorum_met"`
	VotedRoles []string             `json:"voted_roles,omitempty"`
}

// SLABreachedPayload payload.
type SLABreachedPayload struct {
	TicketNumber string    `json:"ticket_number"`
	StepIndex    int       `json:"step_index"`
	StepName     string    `json:"step_name"`
	Status       string    `json:"status"`
	EnteredAt    time.Time `json:"entered_at"`
	Deadline     time.Time `json:"deadline"`
}

// PrincipalSignedInPayload payload.
type PrincipalSignedInPayload struct {
	Email     string `json:"email"`
	Role      string `json:"role"`
	CompanyID string `json:"company_id"`
}
