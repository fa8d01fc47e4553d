package pricing

import "strings"

// TieredRates holds the low/medium/high price points for one category or
// material pattern. Labor rates are per square foot; material rates are per
// square foot before unit scaling.
type TieredRates struct {
	Low    float64
	Medium float64
	High   float64
}

// At selects one tier. Unknown points resolve to medium.
func (t TieredRates) At(point PricePoint) float64 {
	switch point {
	case PointLow:
		return t.Low
	case PointHigh:
		return t.High
	default:
		return t.Medium
	}
}

// categoryRule folds free-text category labels onto the canonical set.
// Rules are tested in order; the first substring hit wins.
type categoryRule struct {
	Keyword  string
	Category string
}

var categoryRules = []categoryRule{
	{"paint", "painting"},
	{"drywall", "drywall"},
	{"taping", "drywall"},
	{"floor", "flooring"},
	{"tile", "tiling"},
	{"demo", "demolition"},
	{"kitchen", "kitchen"},
	{"bath", "bathroom"},
}

// NormalizeCategory folds a free-text category label to one of the canonical
// fallback categories, defaulting to "general".
func NormalizeCategory(label string) string {
	text := strings.ToLower(label)
	for _, rule := range categoryRules {
		if strings.Contains(text, rule.Keyword) {
			return rule.Category
		}
	}
	return "general"
}

// fallbackLaborRates is the per-area labor table used when no other price
// signal exists. Rates are dollars per square foot.
var fallbackLaborRates = map[string]TieredRates{
	"painting":   {Low: 1.0, Medium: 1.6, High: 2.6},
	"drywall":    {Low: 1.4, Medium: 1.9, High: 2.8},
	"flooring":   {Low: 1.5, Medium: 2.5, High: 4.0},
	"tiling":     {Low: 4.0, Medium: 6.5, High: 10.0},
	"demolition": {Low: 1.0, Medium: 1.5, High: 2.5},
	"kitchen":    {Low: 15.0, Medium: 25.0, High: 42.0},
	"bathroom":   {Low: 20.0, Medium: 35.0, High: 58.0},
	"general":    {Low: 1.0, Medium: 2.0, High: 3.5},
}

// FallbackLaborRate returns the tiered per-area labor rate for a category
// label. The label is normalized first, so any free text is accepted.
func FallbackLaborRate(category string, point PricePoint) float64 {
	rates, ok := fallbackLaborRates[NormalizeCategory(category)]
	if !ok {
		rates = fallbackLaborRates["general"]
	}
	return rates.At(point)
}

// materialTierEntry is one ordered (pattern list, tiered rates) pair in the
// fallback material table.
type materialTierEntry struct {
	Keywords []string
	Rates    TieredRates
}

var fallbackMaterialRates = []materialTierEntry{
	{Keywords: []string{"paint", "primer"}, Rates: TieredRates{Low: 0.4, Medium: 0.7, High: 1.3}},
	{Keywords: []string{"hardwood", "engineered"}, Rates: TieredRates{Low: 5.0, Medium: 8.0, High: 14.0}},
	{Keywords: []string{"floor", "plank", "laminate", "vinyl", "carpet"}, Rates: TieredRates{Low: 2.0, Medium: 4.5, High: 8.0}},
	{Keywords: []string{"tile", "backsplash", "porcelain", "ceramic"}, Rates: TieredRates{Low: 3.0, Medium: 6.0, High: 12.0}},
	{Keywords: []string{"drywall", "sheetrock", "mud"}, Rates: TieredRates{Low: 1.5, Medium: 2.1, High: 3.2}},
	{Keywords: []string{"cabinet", "countertop", "kitchen"}, Rates: TieredRates{Low: 30.0, Medium: 60.0, High: 110.0}},
	{Keywords: []string{"vanity", "bath", "shower"}, Rates: TieredRates{Low: 20.0, Medium: 45.0, High: 90.0}},
	{Keywords: []string{"baseboard", "trim", "casing", "moulding"}, Rates: TieredRates{Low: 1.5, Medium: 2.5, High: 4.5}},
	{Keywords: []string{"insulation", "subfloor", "underlayment", "plywood"}, Rates: TieredRates{Low: 1.0, Medium: 2.0, High: 3.5}},
}

// Unit scaling constants for the fallback material table. The matched rate is
// per square foot; non-area units are floored or scaled to stay plausible.
const (
	linearFootMinimum = 3.0
	perItemMinimum    = 25.0
	wholeHouseFactor  = 800.0
	wholeHouseMinimum = 1500.0
)

// FallbackMaterialUnitCost returns a tiered per-unit material cost for a line,
// or nil when no pattern matches the task+material text.
func FallbackMaterialUnitCost(task, material, unit string, point PricePoint) *float64 {
	text := strings.ToLower(task + " " + material)

	var base float64
	matched := false
	for _, entry := range fallbackMaterialRates {
		if containsAny(text, entry.Keywords) {
			base = entry.Rates.At(point)
			matched = true
			break
		}
	}
	if !matched {
		return nil
	}

	cost := base
	switch {
	case isAreaUnit(unit):
		// per-sqft rate applies directly
	case isHouseUnit(unit):
		cost = max(base*wholeHouseFactor, wholeHouseMinimum)
	case isLinearUnit(unit):
		cost = max(base, linearFootMinimum)
	case isCountUnit(unit), isRoomUnit(unit):
		cost = max(base, perItemMinimum)
	}
	return &cost
}
