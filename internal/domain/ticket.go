package domain

import (
	"fmt"
	"time"
)

// Statuses outside the workflow's own step statuses. Approved, Rejected and
// Cancelled are terminal; Draft is where a return from step 0 lands.
const (
	StatusDraft     = "Draft"
	StatusApproved  = "Approved"
	StatusRejected  = "Rejected"
	StatusCancelled = "Cancelled"
)

// TerminalStatus reports whether no further workflow action is accepted.
func TerminalStatus(status string) bool {
	switch status {
	case StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// Ticket is a submitted request travelling through its type's workflow.
// Status and CurrentStepIndex are mutated by the workflow engine only;
// Version backs the optimistic-concurrency check at write time.
type Ticket struct {
	ID               string
	TicketNumber     string
	TicketTypeID     string
	CompanyID        string
	RequesterID      string
	Title            string
	Description      string
	Status           string
	FieldValues      map[string]string
	CurrentStepIndex int
	// StepVotes records, per step index, the distinct roles that have
	// approved the current visit to that step. Cleared on step change.
	StepVotes     map[int][]string
	Version       int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
	StepEnteredAt time.Time
	History       []HistoryEntry
	Attachments   []Attachment
}

// HistoryEntry is an immutable audit record. Every accepted action appends
// exactly one, including quorum votes that do not yet transition.
type HistoryEntry struct {
	ID        string
	TicketID  string
	Action    HistoryAction
	ActorUID  string
	ActorName string
	Comment   string
	CreatedAt time.Time
}

// Attachment is file metadata attached to a ticket. Storage of the file
// body itself is out of scope.
type Attachment struct {
	ID         string
	TicketID   string
	FileName   string
	UploadedBy string
	UploadedAt time.Time
}

// VotedRoles returns roles that approved the current visit to step idx.
func (t *Ticket) VotedRoles(idx int) []string {
	if t.StepVotes == nil {
		return nil
	}
	return t.StepVotes[idx]
}

// RecordVote marks role as having approved step idx, once.
func (t *Ticket) RecordVote(idx int, role string) {
	if t.StepVotes == nil {
		t.StepVotes = make(map[int][]string)
	}
	for _, voted := range t.StepVotes[idx] {
		if voted == role {
			return
		}
	}
	t.StepVotes[idx] = append(t.StepVotes[idx], role)
}

// ClearVotes resets vote tracking for step idx, used when the ticket
// leaves or re-enters the step.
func (t *Ticket) ClearVotes(idx int) {
	if t.StepVotes != nil {
		delete(t.StepVotes, idx)
	}
}

// FormatTicketNumber renders the canonical ticket number, e.g.
// MYCO-PR-2025-00000001.
func FormatTicketNumber(companyCode, typeCode string, year int, sequence int64) string {
	return fmt.Sprintf("%s-%s-%d-%08d", companyCode, typeCode, year, sequence)
}
