package worker

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/approval-desk/internal/domain"
	"github.com/spec-kit/approval-desk/internal/events"
	"github.com/spec-kit/approval-desk/internal/repository"
)

type stubTicketRepo struct {
	open []domain.Ticket
}

func (s *stubTicketRepo) Create(context.Context, *domain.Ticket) error { return nil }
func (s *stubTicketRepo) Update(context.Context, *domain.Ticket) error { return nil }
func (s *stubTicketRepo) GetByID(context.Context, string) (*domain.Ticket, error) {
	return nil, pgx.ErrNoRows
}
func (s *stubTicketRepo) GetByNumber(context.Context, string) (*domain.Ticket, error) {
	return nil, pgx.ErrNoRows
}
func (s *stubTicketRepo) ListWithFilter(context.Context, repository.TicketFilter) ([]domain.Ticket, error) {
	return nil, nil
}
func (s *stubTicketRepo) ListOpen(context.Context) ([]domain.Ticket, error) {
	return s.open, nil
}
func (s *stubTicketRepo) CountByFieldUsage(context.Context, string, string) (int64, error) {
	return 0, nil
}

type stubTypeRepo struct {
	typ *domain.TicketType
}

func (s *stubTypeRepo) Create(context.Context, *domain.TicketType) error { return nil }
func (s *stubTypeRepo) Update(context.Context, *domain.TicketType) error { return nil }
func (s *stubTypeRepo) Delete(context.Context, string) error             { return nil }
func (s *stubTypeRepo) GetByID(context.Context, string) (*domain.TicketType, error) {
	return s.typ, nil
}
func (s *stubTypeRepo) GetByCode(context.Context, string) (*domain.TicketType, error) {
	return s.typ, nil
}
func (s *stubTypeRepo) List(context.Context, bool) ([]domain.TicketType, error) {
	return nil, nil
}

type captureDispatcher struct {
	published []events.Event
}

func (d *captureDispatcher) Publish(_ context.Context, event events.Event) error {
	d.published = append(d.published, event)
	return nil
}

func (d *captureDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func slaScanFixture(entered time.Time) (*stubTicketRepo, *stubTypeRepo) {
	typ := &domain.TicketType{
		ID:       "tt-1",
		Code:     "PR",
		Name:     "Purchase Request",
		IsActive: true,
		Workflow: domain.Workflow{Steps: []domain.Step{
			{
				Name:      "Manager Approval",
				Status:    "Pending Manager Approval",
				Type:      domain.StepTypeApproval,
				Approvers: domain.ApproverRule{Roles: []string{"manager"}, Required: domain.QuorumAny},
				SLA:       domain.SLA{Duration: 4, Unit: domain.UnitHours},
			},
		}},
	}
	tickets := &stubTicketRepo{open: []domain.Ticket{{
		ID:            "t-1",
		TicketNumber:  "ACME-PR-2025-00000001",
		TicketTypeID:  "tt-1",
		Status:        "Pending Manager Approval",
		StepEnteredAt: entered,
	}}}
	return tickets, &stubTypeRepo{typ: typ}
}

func TestScanPublishesBreachForOverdueTicket(t *testing.T) {
	tickets, types := slaScanFixture(time.Now().Add(-6 * time.Hour))
	dispatcher := &captureDispatcher{}
	w := NewSLAWorker(tickets, types, dispatcher, zap.NewNop(), 60)

	require.NoError(t, w.Scan(context.Background()))
	require.Len(t, dispatcher.published, 1)
	event := dispatcher.published[0]
	assert.Equal(t, events.EventTicketSLABreached, event.Type)
	assert.Equal(t, "t-1", event.TicketID)

	payload, ok := event.Payload.(events.SLABreachedPayload)
	require.True(t, ok)
	assert.Equal(t, "ACME-PR-2025-00000001", payload.TicketNumber)
	assert.Equal(t, 0, payload.StepIndex)
}

func TestScanSkipsTicketsWithinBudget(t *testing.T) {
	tickets, types := slaScanFixture(time.Now().Add(-1 * time.Hour))
	dispatcher := &captureDispatcher{}
	w := NewSLAWorker(tickets, types, dispatcher, zap.NewNop(), 60)

	require.NoError(t, w.Scan(context.Background()))
	assert.Empty(t, dispatcher.published)
}

func TestScanNotifiesOncePerStepVisit(t *testing.T) {
	tickets, types := slaScanFixture(time.Now().Add(-6 * time.Hour))
	dispatcher := &captureDispatcher{}
	w := NewSLAWorker(tickets, types, dispatcher, zap.NewNop(), 60)

	require.NoError(t, w.Scan(context.Background()))
	require.NoError(t, w.Scan(context.Background()))
	assert.Len(t, dispatcher.published, 1)

	// Re-entering the step resets the deadline and the de-dup key.
	tickets.open[0].StepEnteredAt = time.Now().Add(-8 * time.Hour)
	require.NoError(t, w.Scan(context.Background()))
	assert.Len(t, dispatcher.published, 2)
}
