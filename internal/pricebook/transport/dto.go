// Package transport defines request/response DTOs for the pricebook module.
package transport

import (
	"github.com/google/uuid"
)

// CreateOverrideRequest registers a contractor rate override. Key is either a
// pricing key such as "flooring_sqft" or a "mat:"-prefixed material name.
type CreateOverrideRequest struct {
	Key  string  `json:"key" validate:"required,min=2,max=120"`
	Rate float64 `json:"rate" validate:"required,gt=0"`
	Unit string  `json:"unit" validate:"required,min=1,max=24"`
}

// UpdateOverrideRequest changes the rate or unit of an existing override.
// The key and its precedence position never change on update.
type UpdateOverrideRequest struct {
	Rate *float64 `json:"rate" validate:"omitempty,gt=0"`
	Unit *string  `json:"unit" validate:"omitempty,min=1,max=24"`
}

// OverrideResponse is a single registered override.
type OverrideResponse struct {
	ID        uuid.UUID `json:"id"`
	Key       string    `json:"key"`
	Rate      float64   `json:"rate"`
	Unit      string    `json:"unit"`
	Position  int       `json:"position"`
	CreatedAt string    `json:"createdAt"`
	UpdatedAt string    `json:"updatedAt"`
}

// OverrideListResponse lists overrides in precedence (registration) order.
type OverrideListResponse struct {
	Items []OverrideResponse `json:"items"`
	Total int                `json:"total"`
}

// JurisdictionResponse describes one supported pricing region.
type JurisdictionResponse struct {
	Code               string  `json:"code"`
	LaborRatePerHour   float64 `json:"laborRatePerHour"`
	MaterialMultiplier float64 `json:"materialMultiplier"`
	TaxRate            float64 `json:"taxRate"`
	TaxName            string  `json:"taxName"`
}
