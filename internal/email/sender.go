// Package email sends transactional mail for the estimate workflow.
package email

import (
	"context"
)

// EstimateSummary carries the fields rendered into the summary email.
type EstimateSummary struct {
	CustomerName   string
	Jurisdiction   string
	LineItemCount  int
	GrandTotal     float64
	ProjectSummary string
	ViewURL        string
}

// Sender delivers estimate-related email.
type Sender interface {
	SendEstimateSummaryEmail(ctx context.Context, toEmail string, summary EstimateSummary) error
}

// NoopSender discards all mail. Used when email delivery is disabled.
type NoopSender struct{}

// SendEstimateSummaryEmail does nothing.
func (NoopSender) SendEstimateSummaryEmail(context.Context, string, EstimateSummary) error {
	return nil
}

var _ Sender = NoopSender{}
