// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"renoquote_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Estimate Domain Events
// =============================================================================

// EstimateComputed is published after an estimate is computed and persisted.
type EstimateComputed struct {
	BaseEvent
	EstimateID     uuid.UUID `json:"estimateId"`
	UserID         uuid.UUID `json:"userId"`
	Jurisdiction   string    `json:"jurisdiction"`
	LineItemCount  int       `json:"lineItemCount"`
	GrandTotal     float64   `json:"grandTotal"`
	CustomerEmail  string    `json:"customerEmail,omitempty"`
	CustomerName   string    `json:"customerName,omitempty"`
	ProjectSummary string    `json:"projectSummary,omitempty"`
}

func (e EstimateComputed) EventName() string { return "estimates.computed" }

// EstimateShared is published when a public share link is generated for
// an estimate.
type EstimateShared struct {
	BaseEvent
	EstimateID uuid.UUID `json:"estimateId"`
	ShareToken string    `json:"shareToken"`
}

func (e EstimateShared) EventName() string { return "estimates.shared" }

// =============================================================================
// Flyer Domain Events
// =============================================================================

// FlyerScanImported is published when a flyer scan image has been uploaded
// and attached to its flyer.
type FlyerScanImported struct {
	BaseEvent
	FlyerID     uuid.UUID  `json:"flyerId"`
	Retailer    string     `json:"retailer"`
	ItemCount   int        `json:"itemCount"`
	ObjectKey   string     `json:"objectKey"`
	CapturedAt  *time.Time `json:"capturedAt,omitempty"`
	UploadedBy  uuid.UUID  `json:"uploadedBy"`
	ContentType string     `json:"contentType"`
}

func (e FlyerScanImported) EventName() string { return "flyers.scan.imported" }

// FlyersExpired is published after the scheduler removes stale flyers.
type FlyersExpired struct {
	BaseEvent
	RemovedCount int       `json:"removedCount"`
	Cutoff       time.Time `json:"cutoff"`
}

func (e FlyersExpired) EventName() string { return "flyers.expired" }
