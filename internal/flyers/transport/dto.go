// Package transport defines request/response DTOs for the flyers module.
package transport

import (
	"time"

	"github.com/google/uuid"
)

// CreateFlyerItemRequest is one priced item on a flyer.
type CreateFlyerItemRequest struct {
	Name       string  `json:"name" validate:"required,min=2,max=200"`
	UnitLabel  string  `json:"unitLabel" validate:"omitempty,max=40"`
	Price      float64 `json:"price" validate:"required,gt=0"`
	PromoNotes string  `json:"promoNotes" validate:"omitempty,max=500"`
}

// CreateFlyerRequest registers a retail flyer and its priced items.
type CreateFlyerRequest struct {
	Retailer   string                   `json:"retailer" validate:"required,min=2,max=120"`
	ValidUntil time.Time                `json:"validUntil" validate:"required"`
	Items      []CreateFlyerItemRequest `json:"items" validate:"required,min=1,max=200,dive"`
}

// FlyerItemResponse is a stored flyer item including its normalized tokens.
type FlyerItemResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	UnitLabel  string    `json:"unitLabel"`
	Price      float64   `json:"price"`
	PromoNotes string    `json:"promoNotes,omitempty"`
	Tokens     []string  `json:"tokens"`
}

// FlyerResponse is a stored flyer with its items.
type FlyerResponse struct {
	ID            uuid.UUID           `json:"id"`
	Retailer      string              `json:"retailer"`
	ValidUntil    time.Time           `json:"validUntil"`
	ScanObjectKey *string             `json:"scanObjectKey,omitempty"`
	CapturedAt    *time.Time          `json:"capturedAt,omitempty"`
	Items         []FlyerItemResponse `json:"items"`
	CreatedAt     string              `json:"createdAt"`
}

// FlyerListResponse lists flyers without their item payloads.
type FlyerListResponse struct {
	Items []FlyerResponse `json:"items"`
	Total int             `json:"total"`
}

// MatchRequest scores active flyer items against one scope line.
type MatchRequest struct {
	Task     string  `json:"task" validate:"required,min=2,max=200"`
	Material string  `json:"material" validate:"omitempty,max=200"`
	Quantity float64 `json:"quantity" validate:"omitempty,gte=0"`
	Unit     string  `json:"unit" validate:"omitempty,max=24"`
	Limit    int     `json:"limit" validate:"omitempty,min=1,max=20"`
}

// MatchResult is one scored flyer candidate.
type MatchResult struct {
	FlyerID    uuid.UUID `json:"flyerId"`
	Retailer   string    `json:"retailer"`
	Name       string    `json:"name"`
	UnitLabel  string    `json:"unitLabel"`
	Price      float64   `json:"price"`
	PromoNotes string    `json:"promoNotes,omitempty"`
	MatchScore float64   `json:"matchScore"`
}

// MatchResponse is the ranked list of flyer matches for a scope line.
type MatchResponse struct {
	Matches []MatchResult `json:"matches"`
}

// ScanImportResponse reports the outcome of a flyer scan upload.
type ScanImportResponse struct {
	FlyerID     uuid.UUID  `json:"flyerId"`
	ObjectKey   string     `json:"objectKey"`
	CapturedAt  *time.Time `json:"capturedAt,omitempty"`
	DownloadURL string     `json:"downloadUrl,omitempty"`
}
