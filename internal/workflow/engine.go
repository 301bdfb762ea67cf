package workflow

import (
	"strings"
	"time"

	"github.com/spec-kit/approval-desk/internal/domain"
	apperrors "github.com/spec-kit/approval-desk/pkg/util/errorutil"
)

// Engine drives ticket status transitions. It is stateless: every call
// operates on explicit Ticket/TicketType values, and persistence of the
// mutated ticket belongs to the caller.
type Engine struct {
	now func() time.Time
}

// NewEngine constructs an engine using wall-clock time.
func NewEngine() *Engine {
	return &Engine{now: time.Now}
}

// NewEngineWithClock constructs an engine with an injected clock.
func NewEngineWithClock(now func() time.Time) *Engine {
	return &Engine{now: now}
}

// Outcome reports what an action did to the ticket.
type Outcome struct {
	Transitioned bool
	FromStatus   string
	ToStatus     string
	// QuorumPending is set when an approval was recorded but the step's
	// "all" quorum is not yet satisfied.
	QuorumPending bool
}

// Submit validates instance data against the type schema and places the
// ticket at the first workflow step. It also handles resubmission of a
// ticket returned to Draft. No mutation happens on validation failure.
func (e *Engine) Submit(ticket *domain.Ticket, typ *domain.TicketType, actor *domain.UserProfile, resolve domain.DropdownResolver) error {
	if actor != nil && !actor.Enabled {
		return apperrors.NewAccountDisabled()
	}
	if len(typ.Workflow.Steps) == 0 {
		return apperrors.NewValidationError("ticket type has no workflow", nil)
	}
	if strings.TrimSpace(ticket.Title) == "" {
		return apperrors.NewValidationError("title required", nil)
	}
	if typ.RequireAttachmentOnCreate && len(ticket.Attachments) == 0 {
		return apperrors.NewValidationError("an attachment is required when creating this ticket", nil)
	}
	violations, err := typ.ValidateValues(ticket.FieldValues, resolve)
	if err != nil {
		return err
	}
	if len(violations) > 0 {
		return apperrors.NewFieldValidationError(violations)
	}

	now := e.now()
	ticket.CurrentStepIndex = 0
	ticket.Status = typ.Workflow.Steps[0].Status
	ticket.StepEnteredAt = now
	ticket.ClearVotes(0)
	ticket.History = append(ticket.History, domain.HistoryEntry{
		TicketID:  ticket.ID,
		Action:    domain.ActionCreated,
		ActorUID:  actorUID(actor),
		ActorName: actorName(actor),
		CreatedAt: now,
	})
	return nil
}

// Act applies an approver or requester action to the ticket. Preconditions
// are checked before any mutation; a failed action leaves the ticket
// untouched. Every accepted action appends exactly one history entry,
// including "all"-quorum votes that do not yet transition.
func (e *Engine) Act(ticket *domain.Ticket, typ *domain.TicketType, actor *domain.UserProfile, action domain.HistoryAction, comment string) (Outcome, error) {
	outcome := Outcome{FromStatus: ticket.Status, ToStatus: ticket.Status}

	if actor == nil {
		return outcome, apperrors.NewUnauthorized("actor required")
	}
	if !actor.Enabled {
		return outcome, apperrors.NewAccountDisabled()
	}
	if domain.TerminalStatus(ticket.Status) {
		return outcome, apperrors.NewTerminalState(ticket.Status)
	}
	if typ.CommentRequired(action) && strings.TrimSpace(comment) == "" {
		return outcome, apperrors.NewCommentRequired(string(action))
	}

	steps := typ.Workflow.Steps
	idx := ticket.CurrentStepIndex
	if idx < 0 || idx >= len(steps) {
		return outcome, apperrors.NewValidationError("ticket step index out of range", nil)
	}
	step := steps[idx]

	switch action {
	case domain.ActionApprove, domain.ActionReject, domain.ActionReturn:
		if ticket.Status == domain.StatusDraft {
			return outcome, apperrors.NewValidationError("ticket is in draft and must be resubmitted first", nil)
		}
		if !actor.CanActOnStep(step) {
			return outcome, apperrors.NewForbidden("role not permitted for this step")
		}
	case domain.ActionCancel:
		if ticket.RequesterID != actor.UID && !actor.IsAdmin() {
			return outcome, apperrors.NewForbidden("only the requester or an admin may cancel")
		}
	default:
		return outcome, apperrors.NewValidationError("unknown action", map[string]any{"action": action})
	}

	now := e.now()
	switch action {
	case domain.ActionApprove:
		if quorumReached(ticket, step, idx, actor) {
			ticket.ClearVotes(idx)
			if idx+1 < len(steps) {
				ticket.CurrentStepIndex = idx + 1
				ticket.Status = steps[idx+1].Status
				ticket.StepEnteredAt = now
				ticket.ClearVotes(idx + 1)
			} else {
				ticket.Status = domain.StatusApproved
			}
			outcome.Transitioned = true
		} else {
			ticket.RecordVote(idx, actor.Role)
			outcome.QuorumPending = true
		}
	case domain.ActionReject:
		ticket.Status = domain.StatusRejected
		outcome.Transitioned = true
	case domain.ActionReturn:
		ticket.ClearVotes(idx)
		if idx == 0 {
			ticket.Status = domain.StatusDraft
		} else {
			ticket.CurrentStepIndex = idx - 1
			ticket.Status = steps[idx-1].Status
			ticket.ClearVotes(idx - 1)
		}
		ticket.StepEnteredAt = now
		outcome.Transitioned = true
	case domain.ActionCancel:
		ticket.Status = domain.StatusCancelled
		outcome.Transitioned = true
	}

	ticket.History = append(ticket.History, domain.HistoryEntry{
		TicketID:  ticket.ID,
		Action:    action,
		ActorUID:  actor.UID,
		ActorName: actor.Name,
		Comment:   strings.TrimSpace(comment),
		CreatedAt: now,
	})
	outcome.ToStatus = ticket.Status
	return outcome, nil
}

// quorumReached evaluates the step's approval rule against the votes
// recorded so far plus the incoming one. Quorum for "all" tracks distinct
// approving roles; an admin approval satisfies any step outright.
func quorumReached(ticket *domain.Ticket, step domain.Step, idx int, actor *domain.UserProfile) bool {
	if step.Approvers.Required == domain.QuorumAny || actor.IsAdmin() {
		return true
	}
	voted := make(map[string]bool)
	for _, role := range ticket.VotedRoles(idx) {
		voted[role] = true
	}
	voted[actor.Role] = true
	for _, required := range step.Approvers.Roles {
		if !voted[required] {
			return false
		}
	}
	return true
}

func actorUID(actor *domain.UserProfile) string {
	if actor == nil {
		return ""
	}
	return actor.UID
}

func actorName(actor *domain.UserProfile) string {
	if actor == nil {
		return ""
	}
	return actor.Name
}
