// Package pricing implements the estimate pricing and flyer-matching engine.
// It is a pure library: every operation is a deterministic function of its
// inputs plus the static rate tables, with no I/O and no shared mutable state.
package pricing

// ScopeLineItem is one unit of renovation work supplied by the caller.
type ScopeLineItem struct {
	ID         string
	Segment    string
	Task       string
	Material   string
	Quantity   float64
	Unit       string
	LaborHours *float64
}

// JurisdictionRate holds the per-region pricing constants.
// MaterialMultiplier applies only to baseline-sourced material costs,
// never to user-supplied rates.
type JurisdictionRate struct {
	Code               string
	LaborRatePerHour   float64
	MaterialMultiplier float64
	TaxRate            float64
	TaxName            string
}

// OverrideRate is a single contractor-known rate, keyed externally by either
// a pricing key (labor) or a "mat:"-prefixed material name.
type OverrideRate struct {
	Rate float64
	Unit string
}

// OverrideEntry pairs an override key with its rate. Entries are kept in
// registration order so substring ties resolve first-registered-wins.
type OverrideEntry struct {
	Key  string
	Rate OverrideRate
}

// OverrideSet is an ordered collection of contractor pricing overrides.
// The zero value is an empty, usable set.
type OverrideSet struct {
	entries []OverrideEntry
}

// Add appends an override, replacing an existing entry with the same key
// in place so its original position (and precedence) is preserved.
func (s *OverrideSet) Add(key string, rate OverrideRate) {
	for i := range s.entries {
		if s.entries[i].Key == key {
			s.entries[i].Rate = rate
			return
		}
	}
	s.entries = append(s.entries, OverrideEntry{Key: key, Rate: rate})
}

// Get returns the override registered under the exact key.
func (s *OverrideSet) Get(key string) (OverrideRate, bool) {
	if s == nil {
		return OverrideRate{}, false
	}
	for _, e := range s.entries {
		if e.Key == key {
			return e.Rate, true
		}
	}
	return OverrideRate{}, false
}

// Entries returns the overrides in registration order.
func (s *OverrideSet) Entries() []OverrideEntry {
	if s == nil {
		return nil
	}
	return s.entries
}

// Len returns the number of registered overrides.
func (s *OverrideSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// FlyerItem is a retail flyer price candidate scored by the token matcher.
// NormalizedTokens may be precomputed by the caller; when empty, the matcher
// derives tokens from Name and PromoNotes.
type FlyerItem struct {
	Name             string
	UnitLabel        string
	Price            float64
	PromoNotes       string
	NormalizedTokens []string
}

// FlyerMatch is a flyer candidate together with its overlap score.
type FlyerMatch struct {
	Item       FlyerItem
	MatchScore float64
}

// PricingSource records which precedence tier supplied a line's costs.
type PricingSource string

const (
	SourceUser    PricingSource = "user"
	SourceDefault PricingSource = "default"
)

// LineItemCost is the computed cost breakdown for a single scope line.
type LineItemCost struct {
	ID               string
	Segment          string
	Task             string
	Material         string
	Quantity         float64
	Unit             string
	LaborHours       float64
	LaborRate        float64
	LaborCost        float64
	MaterialUnitCost float64
	MaterialName     string
	MaterialCost     float64
	PricingSource    PricingSource
	Subtotal         float64
	Markup           float64
	Tax              float64
	Total            float64
}

// Assumptions echoes the constants an estimate was computed under.
type Assumptions struct {
	JurisdictionCode   string
	LaborRatePerHour   float64
	MaterialMultiplier float64
	TaxRate            float64
	TaxName            string
	MarkupRate         float64
}

// EstimateResult aggregates per-line costs. GrandTotal always equals the sum
// of every line's Total; there is no cross-line cost sharing.
type EstimateResult struct {
	Lines          []LineItemCost
	TotalLabor     float64
	TotalMaterial  float64
	Subtotal       float64
	Markup         float64
	TotalBeforeTax float64
	Tax            float64
	GrandTotal     float64
	Assumptions    Assumptions
}

// PricePoint selects a tier from the fallback rate tables.
type PricePoint string

const (
	PointLow    PricePoint = "low"
	PointMedium PricePoint = "medium"
	PointHigh   PricePoint = "high"
)

// ScenarioRange is a low/medium/high what-if total produced from the tiered
// fallback tables, independent of the point-estimate path.
type ScenarioRange struct {
	Low    float64
	Medium float64
	High   float64
}
