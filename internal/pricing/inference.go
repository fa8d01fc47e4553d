package pricing

import "strings"

// Canonical pricing keys. A key is the sole lookup into the labor-rate
// namespace of a contractor's override set.
const (
	KeyFlooringSqft  = "flooring_sqft"
	KeyWallPaintSqft = "wall_paint_sqft"
	KeyTileSqft      = "tile_sqft"
	KeyDrywallSqft   = "drywall_sqft"
)

// keyRule is one ordered classification rule: the first rule whose keywords
// match the combined task+material text supplies the pricing key.
type keyRule struct {
	Key      string
	Keywords []string
	Excludes []string
}

var keyRules = []keyRule{
	{Key: KeyFlooringSqft, Keywords: []string{"floor", "plank", "laminate", "hardwood", "carpet", "vinyl"}},
	{Key: KeyWallPaintSqft, Keywords: []string{"paint", "wall"}, Excludes: []string{"drywall", "sheetrock", "tape", "mud"}},
	{Key: KeyTileSqft, Keywords: []string{"tile", "backsplash", "shower"}},
	{Key: KeyDrywallSqft, Keywords: []string{"drywall", "sheetrock", "taping", "mud"}},
}

// InferPricingKey classifies a line item into a canonical pricing category.
// Only area-measured lines are classified; everything else returns "" and can
// only be priced through the material resolver's baseline path.
func InferPricingKey(task, material, unit string) string {
	if !isAreaUnit(unit) {
		return ""
	}

	text := strings.ToLower(task + " " + material)
	for _, rule := range keyRules {
		if containsAny(text, rule.Excludes) {
			continue
		}
		if containsAny(text, rule.Keywords) {
			return rule.Key
		}
	}
	return ""
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
