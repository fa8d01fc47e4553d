// Package notification delivers customer-facing notifications in response to
// domain events. Currently it mails an estimate summary whenever an estimate
// is computed for a customer with an email address.
package notification

import (
	"context"
	"strings"

	"renoquote_backend/internal/email"
	"renoquote_backend/internal/events"
	"renoquote_backend/platform/logger"
)

// Module wires domain events to notification delivery.
type Module struct {
	sender  email.Sender
	log     *logger.Logger
	baseURL string
}

// NewModule creates the notification module.
func NewModule(sender email.Sender, log *logger.Logger, baseURL string) *Module {
	return &Module{
		sender:  sender,
		log:     log,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "notification"
}

// RegisterHandlers subscribes to the domain events this module reacts to.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.EstimateComputed{}.EventName(), m)
}

// Handle routes events to the appropriate delivery method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.EstimateComputed:
		return m.handleEstimateComputed(ctx, e)
	default:
		return nil
	}
}

func (m *Module) handleEstimateComputed(ctx context.Context, event events.EstimateComputed) error {
	if strings.TrimSpace(event.CustomerEmail) == "" {
		return nil
	}

	err := m.sender.SendEstimateSummaryEmail(ctx, event.CustomerEmail, email.EstimateSummary{
		CustomerName:   event.CustomerName,
		Jurisdiction:   event.Jurisdiction,
		LineItemCount:  event.LineItemCount,
		GrandTotal:     event.GrandTotal,
		ProjectSummary: event.ProjectSummary,
		ViewURL:        m.baseURL + "/estimates/" + event.EstimateID.String(),
	})
	if err != nil {
		m.log.Error("failed to send estimate summary email", "estimateId", event.EstimateID, "error", err)
		return err
	}

	m.log.Info("estimate summary email sent", "estimateId", event.EstimateID)
	return nil
}

// Compile-time check that Module implements events.Handler.
var _ events.Handler = (*Module)(nil)
