// Package transport defines request/response DTOs for the estimates module.
package transport

import (
	"github.com/google/uuid"
)

// ScopeLineItemRequest is one unit of renovation work to price.
type ScopeLineItemRequest struct {
	ID         string   `json:"id" validate:"omitempty,max=64"`
	Segment    string   `json:"segment" validate:"omitempty,max=120"`
	Task       string   `json:"task" validate:"required,min=2,max=300"`
	Material   string   `json:"material" validate:"omitempty,max=300"`
	Quantity   float64  `json:"quantity" validate:"gte=0"`
	Unit       string   `json:"unit" validate:"required,min=1,max=24"`
	LaborHours *float64 `json:"laborHours" validate:"omitempty,gt=0"`
}

// OverrideEntryRequest is an ad-hoc rate override supplied with a single
// request. Array order defines precedence, first entry wins substring ties.
type OverrideEntryRequest struct {
	Key  string  `json:"key" validate:"required,min=2,max=120"`
	Rate float64 `json:"rate" validate:"required,gt=0"`
	Unit string  `json:"unit" validate:"required,min=1,max=24"`
}

// ComputeEstimateRequest prices a set of scope lines under a jurisdiction.
// Saved pricebook overrides register first; a request override with a key
// already registered replaces its rate without changing its precedence.
type ComputeEstimateRequest struct {
	Jurisdiction   string                 `json:"jurisdiction" validate:"required,min=2,max=8"`
	Lines          []ScopeLineItemRequest `json:"lines" validate:"required,min=1,max=200,dive"`
	Overrides      []OverrideEntryRequest `json:"overrides" validate:"omitempty,max=100,dive"`
	UsePricebook   bool                   `json:"usePricebook"`
	CustomerName   string                 `json:"customerName" validate:"omitempty,max=200"`
	CustomerEmail  string                 `json:"customerEmail" validate:"omitempty,email"`
	ProjectSummary string                 `json:"projectSummary" validate:"omitempty,max=1000"`
}

// ScenarioRangeRequest produces a low/medium/high what-if total.
type ScenarioRangeRequest struct {
	Lines []ScopeLineItemRequest `json:"lines" validate:"required,min=1,max=200,dive"`
}

// LineItemCostResponse is the computed breakdown of one scope line.
type LineItemCostResponse struct {
	ID               string  `json:"id,omitempty"`
	Segment          string  `json:"segment,omitempty"`
	Task             string  `json:"task"`
	Material         string  `json:"material,omitempty"`
	Quantity         float64 `json:"quantity"`
	Unit             string  `json:"unit"`
	LaborHours       float64 `json:"laborHours"`
	LaborRate        float64 `json:"laborRate"`
	LaborCost        float64 `json:"laborCost"`
	MaterialUnitCost float64 `json:"materialUnitCost"`
	MaterialName     string  `json:"materialName"`
	MaterialCost     float64 `json:"materialCost"`
	PricingSource    string  `json:"pricingSource"`
	Subtotal         float64 `json:"subtotal"`
	Markup           float64 `json:"markup"`
	Tax              float64 `json:"tax"`
	Total            float64 `json:"total"`
}

// AssumptionsResponse echoes the constants an estimate was computed under.
type AssumptionsResponse struct {
	JurisdictionCode   string  `json:"jurisdictionCode"`
	LaborRatePerHour   float64 `json:"laborRatePerHour"`
	MaterialMultiplier float64 `json:"materialMultiplier"`
	TaxRate            float64 `json:"taxRate"`
	TaxName            string  `json:"taxName"`
	MarkupRate         float64 `json:"markupRate"`
}

// ScenarioRangeResponse is a low/medium/high what-if total.
type ScenarioRangeResponse struct {
	Low    float64 `json:"low"`
	Medium float64 `json:"medium"`
	High   float64 `json:"high"`
}

// EstimateResponse is a computed (and possibly persisted) estimate.
type EstimateResponse struct {
	ID             uuid.UUID              `json:"id,omitempty"`
	Jurisdiction   string                 `json:"jurisdiction"`
	Lines          []LineItemCostResponse `json:"lines"`
	TotalLabor     float64                `json:"totalLabor"`
	TotalMaterial  float64                `json:"totalMaterial"`
	Subtotal       float64                `json:"subtotal"`
	Markup         float64                `json:"markup"`
	TotalBeforeTax float64                `json:"totalBeforeTax"`
	Tax            float64                `json:"tax"`
	GrandTotal     float64                `json:"grandTotal"`
	Assumptions    AssumptionsResponse    `json:"assumptions"`
	ScenarioRange  ScenarioRangeResponse  `json:"scenarioRange"`
	CustomerName   string                 `json:"customerName,omitempty"`
	CustomerEmail  string                 `json:"customerEmail,omitempty"`
	ProjectSummary string                 `json:"projectSummary,omitempty"`
	CreatedAt      string                 `json:"createdAt,omitempty"`
}

// EstimateListResponse lists stored estimates.
type EstimateListResponse struct {
	Items []EstimateResponse `json:"items"`
	Total int                `json:"total"`
}

// InferKeyResponse reports the pricing key inferred for a scope line.
// Key is empty when no key applies.
type InferKeyResponse struct {
	Key string `json:"key"`
}

// ResolveMaterialResponse reports the resolved material baseline for a
// free-text material description.
type ResolveMaterialResponse struct {
	MatchedName string  `json:"matchedName"`
	UnitCost    float64 `json:"unitCost"`
	Source      string  `json:"source"`
}

// ShareResponse carries the public share link for an estimate.
type ShareResponse struct {
	ShareToken string `json:"shareToken"`
	URL        string `json:"url"`
}
