package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/approval-desk/internal/domain"
	"github.com/spec-kit/approval-desk/internal/events"
	apperrors "github.com/spec-kit/approval-desk/pkg/util/errorutil"
)

func expenseType() *domain.TicketType {
	return &domain.TicketType{
		ID:       "tt-exp",
		Code:     "EXP",
		Name:     "Expense Claim",
		IsActive: true,
		Fields: []domain.FieldDef{
			{Name: "amount", Label: "Amount", Type: domain.FieldTypeAmount, Required: true},
		},
		Workflow: domain.Workflow{Steps: []domain.Step{
			{
				Name:      "Manager Approval",
				Status:    "Pending Manager Approval",
				Type:      domain.StepTypeApproval,
				Approvers: domain.ApproverRule{Roles: []string{"manager"}, Required: domain.QuorumAny},
			},
		}},
	}
}

func buildTicketService(t *testing.T, typ *domain.TicketType) (*TicketService, *fakeTicketRepo, *recordingDispatcher) {
	t.Helper()
	company := &domain.Company{ID: "comp-1", Name: "Acme", Code: "ACME"}
	tickets := newFakeTicketRepo()
	dispatcher := &recordingDispatcher{}
	svc := NewTicketService(TicketDependencies{
		TicketRepo:     tickets,
		TicketTypeRepo: newFakeTicketTypeRepo(typ),
		CompanyRepo:    newFakeCompanyRepo(company),
		DropdownRepo:   newFakeDropdownRepo(),
		HistoryRepo:    newFakeHistoryRepo(),
		AttachmentRepo: newFakeAttachmentRepo(),
		SequenceRepo:   newFakeSequenceRepo(),
		Dispatcher:     dispatcher,
	})
	return svc, tickets, dispatcher
}

type recordingDispatcher struct {
	published []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.published = append(d.published, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func requester() *domain.UserProfile {
	return &domain.UserProfile{UID: "u-req", Name: "Dana", Role: "user", CompanyID: "comp-1", Enabled: true}
}

func manager() *domain.UserProfile {
	return &domain.UserProfile{UID: "u-mgr", Name: "Morgan", Role: "manager", CompanyID: "comp-1", Enabled: true}
}

func TestCreateTicketAssignsSequentialNumbers(t *testing.T) {
	svc, _, dispatcher := buildTicketService(t, expenseType())
	ctx := context.Background()

	input := TicketCreateInput{
		TicketTypeID: "tt-exp",
		Title:        "Taxi receipts",
		FieldValues:  map[string]string{"amount": "42.50"},
	}

	first, err := svc.CreateTicket(ctx, requester(), input)
	require.NoError(t, err)
	second, err := svc.CreateTicket(ctx, requester(), input)
	require.NoError(t, err)

	year := first.StepEnteredAt.Year()
	assert.Equal(t, domain.FormatTicketNumber("ACME", "EXP", year, 1), first.TicketNumber)
	assert.Equal(t, domain.FormatTicketNumber("ACME", "EXP", year, 2), second.TicketNumber)
	assert.Equal(t, "Pending Manager Approval", first.Status)

	require.Len(t, dispatcher.published, 2)
	assert.Equal(t, events.EventTicketSubmitted, dispatcher.published[0].Type)
}

func TestCreateTicketRejectsInactiveType(t *testing.T) {
	typ := expenseType()
	typ.IsActive = false
	svc, _, _ := buildTicketService(t, typ)

	_, err := svc.CreateTicket(context.Background(), requester(), TicketCreateInput{
		TicketTypeID: "tt-exp",
		Title:        "Late claim",
		FieldValues:  map[string]string{"amount": "10"},
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeValidationFailed, apperrors.CodeOf(err))
}

func TestCreateTicketSurfacesFieldViolations(t *testing.T) {
	svc, _, _ := buildTicketService(t, expenseType())

	_, err := svc.CreateTicket(context.Background(), requester(), TicketCreateInput{
		TicketTypeID: "tt-exp",
		Title:        "No amount",
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeFieldValidationFailed, apperrors.CodeOf(err))
}

func TestActApproveFinalStepApprovesAndPublishes(t *testing.T) {
	svc, _, dispatcher := buildTicketService(t, expenseType())
	ctx := context.Background()

	ticket, err := svc.CreateTicket(ctx, requester(), TicketCreateInput{
		TicketTypeID: "tt-exp",
		Title:        "Taxi receipts",
		FieldValues:  map[string]string{"amount": "42.50"},
	})
	require.NoError(t, err)

	updated, err := svc.Act(ctx, manager(), ticket.ID, domain.ActionApprove, "ok")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, updated.Status)

	last := dispatcher.published[len(dispatcher.published)-1]
	assert.Equal(t, events.EventTicketApproved, last.Type)
	payload, ok := last.Payload.(events.TicketActionPayload)
	require.True(t, ok)
	assert.Equal(t, domain.StatusApproved, payload.NewStatus)
	assert.True(t, payload.QuorumMet)
}

func TestActStaleVersionConflicts(t *testing.T) {
	svc, tickets, _ := buildTicketService(t, expenseType())
	ctx := context.Background()

	ticket, err := svc.CreateTicket(ctx, requester(), TicketCreateInput{
		TicketTypeID: "tt-exp",
		Title:        "Taxi receipts",
		FieldValues:  map[string]string{"amount": "42.50"},
	})
	require.NoError(t, err)

	// Simulate another approver's write landing first.
	tickets.tickets[ticket.ID].Version = 5

	_, err = svc.Act(ctx, manager(), ticket.ID, domain.ActionApprove, "ok")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeConflict, apperrors.CodeOf(err))
}

func TestResubmitOnlyFromDraft(t *testing.T) {
	svc, _, _ := buildTicketService(t, expenseType())
	ctx := context.Background()

	ticket, err := svc.CreateTicket(ctx, requester(), TicketCreateInput{
		TicketTypeID: "tt-exp",
		Title:        "Taxi receipts",
		FieldValues:  map[string]string{"amount": "42.50"},
	})
	require.NoError(t, err)

	_, err = svc.Resubmit(ctx, requester(), ticket.ID, nil)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeValidationFailed, apperrors.CodeOf(err))

	returned, err := svc.Act(ctx, manager(), ticket.ID, domain.ActionReturn, "missing receipt")
	require.NoError(t, err)
	require.Equal(t, domain.StatusDraft, returned.Status)

	resubmitted, err := svc.Resubmit(ctx, requester(), ticket.ID, map[string]string{"amount": "45.00"})
	require.NoError(t, err)
	assert.Equal(t, "Pending Manager Approval", resubmitted.Status)
	assert.Equal(t, "45.00", resubmitted.FieldValues["amount"])
}

func TestResubmitRequiresRequester(t *testing.T) {
	svc, _, _ := buildTicketService(t, expenseType())
	ctx := context.Background()

	ticket, err := svc.CreateTicket(ctx, requester(), TicketCreateInput{
		TicketTypeID: "tt-exp",
		Title:        "Taxi receipts",
		FieldValues:  map[string]string{"amount": "42.50"},
	})
	require.NoError(t, err)

	_, err = svc.Act(ctx, manager(), ticket.ID, domain.ActionReturn, "missing receipt")
	require.NoError(t, err)

	_, err = svc.Resubmit(ctx, manager(), ticket.ID, nil)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeForbidden, apperrors.CodeOf(err))
}

func TestGetTicketVisibility(t *testing.T) {
	svc, _, _ := buildTicketService(t, expenseType())
	ctx := context.Background()

	ticket, err := svc.CreateTicket(ctx, requester(), TicketCreateInput{
		TicketTypeID: "tt-exp",
		Title:        "Taxi receipts",
		FieldValues:  map[string]string{"amount": "42.50"},
	})
	require.NoError(t, err)

	// Requester and workflow approver can view.
	_, err = svc.GetTicket(ctx, requester(), ticket.ID)
	assert.NoError(t, err)
	_, err = svc.GetTicket(ctx, manager(), ticket.ID)
	assert.NoError(t, err)

	// Unrelated user in the same company cannot.
	other := &domain.UserProfile{UID: "u-other", Role: "user", CompanyID: "comp-1", Enabled: true}
	_, err = svc.GetTicket(ctx, other, ticket.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeForbidden, apperrors.CodeOf(err))

	// Approver from another company cannot.
	outsider := &domain.UserProfile{UID: "u-out", Role: "manager", CompanyID: "comp-2", Enabled: true}
	_, err = svc.GetTicket(ctx, outsider, ticket.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeForbidden, apperrors.CodeOf(err))
}

func TestListTicketsScopesPlainUsersToOwn(t *testing.T) {
	svc, _, _ := buildTicketService(t, expenseType())
	ctx := context.Background()

	_, err := svc.CreateTicket(ctx, requester(), TicketCreateInput{
		TicketTypeID: "tt-exp",
		Title:        "Mine",
		FieldValues:  map[string]string{"amount": "1"},
	})
	require.NoError(t, err)

	colleague := &domain.UserProfile{UID: "u-col", Role: "user", CompanyID: "comp-1", Enabled: true}
	_, err = svc.CreateTicket(ctx, colleague, TicketCreateInput{
		TicketTypeID: "tt-exp",
		Title:        "Theirs",
		FieldValues:  map[string]string{"amount": "2"},
	})
	require.NoError(t, err)

	mine, err := svc.ListTickets(ctx, requester(), TicketListFilter{})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Mine", mine[0].Title)

	all, err := svc.ListTickets(ctx, manager(), TicketListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestAddAttachmentBlockedOnTerminalTicket(t *testing.T) {
	svc, _, _ := buildTicketService(t, expenseType())
	ctx := context.Background()

	ticket, err := svc.CreateTicket(ctx, requester(), TicketCreateInput{
		TicketTypeID: "tt-exp",
		Title:        "Taxi receipts",
		FieldValues:  map[string]string{"amount": "42.50"},
	})
	require.NoError(t, err)

	_, err = svc.AddAttachment(ctx, requester(), ticket.ID, "receipt.pdf")
	require.NoError(t, err)

	_, err = svc.Act(ctx, manager(), ticket.ID, domain.ActionApprove, "ok")
	require.NoError(t, err)

	_, err = svc.AddAttachment(ctx, requester(), ticket.ID, "late.pdf")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeTerminalState, apperrors.CodeOf(err))
}
