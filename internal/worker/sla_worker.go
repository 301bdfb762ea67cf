package worker

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/approval-desk/internal/domain"
	"github.com/spec-kit/approval-desk/internal/events"
	"github.com/spec-kit/approval-desk/internal/repository"
	"github.com/spec-kit/approval-desk/internal/workflow"
)

// SLAWorker periodically scans open tickets and publishes a breach event
// for any ticket sitting past its current step's deadline. SLAs are
// advisory: the worker never mutates tickets.
type SLAWorker struct {
	tickets    repository.TicketRepository
	types      repository.TicketTypeRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	interval   time.Duration

	// notified de-duplicates breach events per ticket step visit.
	notified map[string]time.Time
}

// NewSLAWorker constructs the worker.
func NewSLAWorker(tickets repository.TicketRepository, types repository.TicketTypeRepository, dispatcher events.Dispatcher, logger *zap.Logger, intervalSeconds int) *SLAWorker {
	if intervalSeconds <= 0 {
		intervalSeconds = 300
	}
	return &SLAWorker{
		tickets:    tickets,
		types:      types,
		dispatcher: dispatcher,
		logger:     logger,
		interval:   time.Duration(intervalSeconds) * time.Second,
		notified:   make(map[string]time.Time),
	}
}

// Start runs the scan loop until the context is cancelled.
func (w *SLAWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.Scan(ctx); err != nil {
				w.logger.Warn("sla scan failed", zap.Error(err))
			}
		}
	}
}

// Scan performs one pass over open tickets.
func (w *SLAWorker) Scan(ctx context.Context) error {
	open, err := w.tickets.ListOpen(ctx)
	if err != nil {
		return err
	}

	now := time.Now()
	typeCache := make(map[string]*domain.TicketType)

	for i := range open {
		ticket := &open[i]
		typ, ok := typeCache[ticket.TicketTypeID]
		if !ok {
			typ, err = w.types.GetByID(ctx, ticket.TicketTypeID)
			if err != nil {
				w.logger.Warn("sla scan: ticket type lookup failed",
					zap.String("ticket_id", ticket.ID),
					zap.Error(err))
				continue
			}
			typeCache[ticket.TicketTypeID] = typ
		}
		if ticket.CurrentStepIndex >= len(typ.Workflow.Steps) {
			continue
		}
		step := typ.Workflow.Steps[ticket.CurrentStepIndex]
		if !workflow.Overdue(ticket.StepEnteredAt, step.SLA, now) {
			continue
		}
		if w.alreadyNotified(ticket) {
			continue
		}

		deadline := workflow.StepDeadline(ticket.StepEnteredAt, step.SLA)
		w.logger.Warn("sla breached",
			zap.String("ticket_id", ticket.ID),
			zap.String("ticket_number", ticket.TicketNumber),
			zap.Int("step_index", ticket.CurrentStepIndex),
			zap.Time("deadline", deadline))

		_ = w.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventTicketSLABreached,
			TicketID:  ticket.ID,
			Timestamp: now,
			Payload: events.SLABreachedPayload{
				TicketNumber: ticket.TicketNumber,
				StepIndex:    ticket.CurrentStepIndex,
				StepName:     step.Name,
				Status:       ticket.Status,
				EnteredAt:    ticket.StepEnteredAt,
				Deadline:     deadline,
			},
		})
		w.markNotified(ticket)
	}
	return nil
}

func breachKey(ticket *domain.Ticket) string {
	return ticket.ID + "|" + ticket.StepEnteredAt.UTC().Format(time.RFC3339Nano)
}

func (w *SLAWorker) alreadyNotified(ticket *domain.Ticket) bool {
	_, seen := w.notified[breachKey(ticket)]
	return seen
}

func (w *SLAWorker) markNotified(ticket *domain.Ticket) {
	w.notified[breachKey(ticket)] = time.Now()
}
