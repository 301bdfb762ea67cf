package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/approval-desk/internal/config"
	"github.com/spec-kit/approval-desk/internal/events"
)

// NotificationService reacts to workflow events. Actual delivery channels
// are out of scope; the webhook/email calls remain stubs behind config.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketSubmitted, n.handleTicketEvent)
	n.dispatcher.Subscribe(events.EventTicketStepAdvanced, n.handleTicketEvent)
	n.dispatcher.Subscribe(events.EventTicketApproved, n.handleTicketEvent)
	n.dispatcher.Subscribe(events.EventTicketReturned, n.handleTicketEvent)
	n.dispatcher.Subscribe(events.EventTicketRejected, n.handleTicketEvent)
	n.dispatcher.Subscribe(events.EventTicketCancelled, n.handleTicketEvent)
	n.dispatcher.Subscribe(events.EventTicketSLABreached, n.handleSLABreach)
}

func (n *NotificationService) handleTicketEvent(ctx context.Context, event events.Event) error {
	n.logger.Info("ticket event",
		zap.String("event_type", string(event.Type)),
		zap.String("ticket_id", event.TicketID),
		zap.String("actor_uid", event.Actor.UID),
		zap.Any("payload", event.Payload))
	n.sendWebhookStub(ctx, event)
	return nil
}

func (n *NotificationService) handleSLABreach(ctx context.Context, event events.Event) error {
	n.logger.Warn("sla breached",
		zap.String("ticket_id", event.TicketID),
		zap.Any("payload", event.Payload))
	n.sendWebhookStub(ctx, event)
	return nil
}

func (n *NotificationService) sendWebhookStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("webhook notification stub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("ticket_id", event.TicketID),
		zap.String("event_type", string(event.Type)))
}
