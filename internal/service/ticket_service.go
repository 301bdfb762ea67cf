package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/approval-desk/internal/domain"
	"github.com/spec-kit/approval-desk/internal/events"
	"github.com/spec-kit/approval-desk/internal/repository"
	"github.com/spec-kit/approval-desk/internal/workflow"
	apperrors "github.com/spec-kit/approval-desk/pkg/util/errorutil"
)

// TicketService coordinates ticket lifecycles: creation, workflow actions,
// listing and attachments. All status mutation goes through the engine.
type TicketService struct {
	tickets     repository.TicketRepository
	types       repository.TicketTypeRepository
	companies   repository.CompanyRepository
	dropdowns   repository.DropdownListRepository
	history     repository.TicketHistoryRepository
	attachments repository.AttachmentRepository
	sequences   repository.SequenceRepository
	engine      *workflow.Engine
	dispatcher  events.Dispatcher
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo     repository.TicketRepository
	TicketTypeRepo repository.TicketTypeRepository
	CompanyRepo    repository.CompanyRepository
	DropdownRepo   repository.DropdownListRepository
	HistoryRepo    repository.TicketHistoryRepository
	AttachmentRepo repository.AttachmentRepository
	SequenceRepo   repository.SequenceRepository
	Engine         *workflow.Engine
	Dispatcher     events.Dispatcher
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	TicketTypeID string
	Title        string
	Description  string
	FieldValues  map[string]string
	Attachments  []string
}

// TicketListFilter describes listing filters; company scoping is applied
// from the actor's profile.
type TicketListFilter struct {
	TicketTypeID *string
	Statuses     []string
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
	MineOnly     bool
	Limit        int
	Offset       int
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	engine := deps.Engine
	if engine == nil {
		engine = workflow.NewEngine()
	}
	return &TicketService{
		tickets:     deps.TicketRepo,
		types:       deps.TicketTypeRepo,
		companies:   deps.CompanyRepo,
		dropdowns:   deps.DropdownRepo,
		history:     deps.HistoryRepo,
		attachments: deps.AttachmentRepo,
		sequences:   deps.SequenceRepo,
		engine:      engine,
		dispatcher:  deps.Dispatcher,
	}
}

// CreateTicket validates input against the type schema, assigns a ticket
// number and places the ticket at the first workflow step.
func (s *TicketService) CreateTicket(ctx context.Context, actor *domain.UserProfile, input TicketCreateInput) (*domain.Ticket, error) {
	typ, err := s.types.GetByID(ctx, input.TicketTypeID)
	if err != nil {
		return nil, mapRepoErr(err, "ticket type")
	}
	if !typ.IsActive {
		return nil, apperrors.NewValidationError("ticket type is not active", nil)
	}
	company, err := s.companies.GetByID(ctx, actor.CompanyID)
	if err != nil {
		return nil, mapRepoErr(err, "company")
	}

	ticket := &domain.Ticket{
		TicketTypeID: typ.ID,
		CompanyID:    company.ID,
		RequesterID:  actor.UID,
		Title:        strings.TrimSpace(input.Title),
		Description:  strings.TrimSpace(input.Description),
		FieldValues:  input.FieldValues,
	}
	for _, name := range input.Attachments {
		ticket.Attachments = append(ticket.Attachments, domain.Attachment{
			FileName:   name,
			UploadedBy: actor.UID,
		})
	}

	if err := s.engine.Submit(ticket, typ, actor, s.dropdownResolver(ctx)); err != nil {
		return nil, err
	}

	year := ticket.StepEnteredAt.Year()
	sequence, err := s.sequences.Next(ctx, company.Code, typ.Code, year)
	if err != nil {
		return nil, apperrors.NewRemoteError(err)
	}
	ticket.TicketNumber = domain.FormatTicketNumber(company.Code, typ.Code, year, sequence)

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.NewRemoteError(err)
	}
	if err := s.persistPending(ctx, ticket); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketSubmitted,
		TicketID: ticket.ID,
		Actor:    eventActor(actor),
		Payload: events.TicketSubmittedPayload{
			TicketNumber: ticket.TicketNumber,
			TicketTypeID: ticket.TicketTypeID,
			CompanyID:    ticket.CompanyID,
			Title:        ticket.Title,
			Status:       ticket.Status,
		},
	})
	return ticket, nil
}

// Act applies a workflow action on behalf of the actor and persists the
// result. The version check on update surfaces concurrent approvers as a
// conflict instead of silently losing one of the writes.
func (s *TicketService) Act(ctx context.Context, actor *domain.UserProfile, ticketID string, action domain.HistoryAction, comment string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, mapRepoErr(err, "ticket")
	}
	typ, err := s.types.GetByID(ctx, ticket.TicketTypeID)
	if err != nil {
		return nil, mapRepoErr(err, "ticket type")
	}

	historyLen := len(ticket.History)
	outcome, err := s.engine.Act(ticket, typ, actor, action, comment)
	if err != nil {
		return nil, err
	}

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}
	for i := historyLen; i < len(ticket.History); i++ {
		entry := &ticket.History[i]
		entry.TicketID = ticket.ID
		if err := s.history.Create(ctx, entry); err != nil {
			return nil, apperrors.NewRemoteError(err)
		}
	}

	s.publishEvent(ctx, events.Event{
		Type:     eventTypeForOutcome(action, outcome),
		TicketID: ticket.ID,
		Actor:    eventActor(actor),
		Payload: events.TicketActionPayload{
			Action:     action,
			OldStatus:  outcome.FromStatus,
			NewStatus:  outcome.ToStatus,
			StepIndex:  ticket.CurrentStepIndex,
			Comment:    strings.TrimSpace(comment),
			QuorumMet:  !outcome.QuorumPending,
			VotedRoles: ticket.VotedRoles(ticket.CurrentStepIndex),
		},
	})
	return ticket, nil
}

// Resubmit pushes a Draft ticket back into the workflow after the
// requester amended it.
func (s *TicketService) Resubmit(ctx context.Context, actor *domain.UserProfile, ticketID string, values map[string]string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, mapRepoErr(err, "ticket")
	}
	if ticket.RequesterID != actor.UID && !actor.IsAdmin() {
		return nil, apperrors.NewForbidden("only the requester may resubmit")
	}
	if ticket.Status != domain.StatusDraft {
		return nil, apperrors.NewValidationError("only draft tickets can be resubmitted", nil)
	}
	typ, err := s.types.GetByID(ctx, ticket.TicketTypeID)
	if err != nil {
		return nil, mapRepoErr(err, "ticket type")
	}

	if values != nil {
		ticket.FieldValues = values
	}
	attachments, err := s.attachments.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, apperrors.NewRemoteError(err)
	}
	ticket.Attachments = attachments

	historyLen := len(ticket.History)
	if err := s.engine.Submit(ticket, typ, actor, s.dropdownResolver(ctx)); err != nil {
		return nil, err
	}
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}
	for i := historyLen; i < len(ticket.History); i++ {
		entry := &ticket.History[i]
		entry.TicketID = ticket.ID
		if err := s.history.Create(ctx, entry); err != nil {
			return nil, apperrors.NewRemoteError(err)
		}
	}
	return ticket, nil
}

// GetTicket fetches a ticket with its history and attachments, enforcing
// visibility: the requester, an admin, or an approver role named anywhere
// in the type's workflow within the same company.
func (s *TicketService) GetTicket(ctx context.Context, actor *domain.UserProfile, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, mapRepoErr(err, "ticket")
	}
	typ, err := s.types.GetByID(ctx, ticket.TicketTypeID)
	if err != nil {
		return nil, mapRepoErr(err, "ticket type")
	}
	if !canViewTicket(actor, ticket, typ) {
		return nil, apperrors.NewForbidden("not permitted to view this ticket")
	}

	history, err := s.history.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, apperrors.NewRemoteError(err)
	}
	ticket.History = history

	attachments, err := s.attachments.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, apperrors.NewRemoteError(err)
	}
	ticket.Attachments = attachments
	return ticket, nil
}

// ListTickets returns tickets visible to the actor, always scoped to the
// actor's company.
func (s *TicketService) ListTickets(ctx context.Context, actor *domain.UserProfile, filter TicketListFilter) ([]domain.Ticket, error) {
	repoFilter := repository.TicketFilter{
		CompanyID:    &actor.CompanyID,
		TicketTypeID: filter.TicketTypeID,
		Statuses:     filter.Statuses,
		CreatedFrom:  filter.CreatedFrom,
		CreatedTo:    filter.CreatedTo,
		Limit:        filter.Limit,
		Offset:       filter.Offset,
	}
	if filter.MineOnly || !isApproverOrAdmin(actor) {
		repoFilter.RequesterID = &actor.UID
	}
	tickets, err := s.tickets.ListWithFilter(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.NewRemoteError(err)
	}
	return tickets, nil
}

// AddAttachment records attachment metadata on a non-terminal ticket.
func (s *TicketService) AddAttachment(ctx context.Context, actor *domain.UserProfile, ticketID, fileName string) (*domain.Attachment, error) {
	if strings.TrimSpace(fileName) == "" {
		return nil, apperrors.NewValidationError("file_name required", nil)
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, mapRepoErr(err, "ticket")
	}
	if domain.TerminalStatus(ticket.Status) {
		return nil, apperrors.NewTerminalState(ticket.Status)
	}
	typ, err := s.types.GetByID(ctx, ticket.TicketTypeID)
	if err != nil {
		return nil, mapRepoErr(err, "ticket type")
	}
	if !canViewTicket(actor, ticket, typ) {
		return nil, apperrors.NewForbidden("not permitted to attach to this ticket")
	}

	attachment := &domain.Attachment{
		TicketID:   ticket.ID,
		FileName:   strings.TrimSpace(fileName),
		UploadedBy: actor.UID,
	}
	if err := s.attachments.Create(ctx, attachment); err != nil {
		return nil, apperrors.NewRemoteError(err)
	}
	return attachment, nil
}

// persistPending writes history entries and attachment metadata produced
// during creation.
func (s *TicketService) persistPending(ctx context.Context, ticket *domain.Ticket) error {
	for i := range ticket.History {
		entry := &ticket.History[i]
		if entry.ID != "" {
			continue
		}
		entry.TicketID = ticket.ID
		if err := s.history.Create(ctx, entry); err != nil {
			return apperrors.NewRemoteError(err)
		}
	}
	for i := range ticket.Attachments {
		attachment := &ticket.Attachments[i]
		if attachment.ID != "" {
			continue
		}
		attachment.TicketID = ticket.ID
		if err := s.attachments.Create(ctx, attachment); err != nil {
			return apperrors.NewRemoteError(err)
		}
	}
	return nil
}

func (s *TicketService) dropdownResolver(ctx context.Context) domain.DropdownResolver {
	return func(listID string) (*domain.DropdownList, error) {
		list, err := s.dropdowns.GetByID(ctx, listID)
		if err != nil {
			return nil, mapRepoErr(err, "dropdown list")
		}
		return list, nil
	}
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func canViewTicket(actor *domain.UserProfile, ticket *domain.Ticket, typ *domain.TicketType) bool {
	if actor == nil {
		return false
	}
	if actor.IsAdmin() {
		return true
	}
	if ticket.RequesterID == actor.UID {
		return true
	}
	if ticket.CompanyID != actor.CompanyID {
		return false
	}
	for _, step := range typ.Workflow.Steps {
		for _, role := range step.Approvers.Roles {
			if role == actor.Role {
				return true
			}
		}
	}
	return false
}

func isApproverOrAdmin(actor *domain.UserProfile) bool {
	return actor.IsAdmin() || actor.Role != "" && actor.Role != "user"
}

func eventActor(actor *domain.UserProfile) events.Actor {
	if actor == nil {
		return events.Actor{}
	}
	return events.Actor{UID: actor.UID, Name: actor.Name, Role: actor.Role}
}

func eventTypeForOutcome(action domain.HistoryAction, outcome workflow.Outcome) events.EventType {
	switch action {
	case domain.ActionApprove:
		if outcome.QuorumPending {
			return events.EventTicketVoteRecorded
		}
		if outcome.ToStatus == domain.StatusApproved {
			return events.EventTicketApproved
		}
		return events.EventTicketStepAdvanced
	case domain.ActionReturn:
		return events.EventTicketReturned
	case domain.ActionReject:
		return events.EventTicketRejected
	case domain.ActionCancel:
		return events.EventTicketCancelled
	}
	return events.EventTicketStepAdvanced
}

func mapRepoErr(err error, resource string) error {
	if err == pgx.ErrNoRows {
		return apperrors.NewNotFound(resource, nil)
	}
	if apperrors.CodeOf(err) != "" {
		return err
	}
	return apperrors.NewRemoteError(err)
}
