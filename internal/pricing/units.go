package pricing

import "strings"

// Unit strings arrive as free text from scope items, so classification is
// keyword-based and deliberately forgiving.

func normalizeUnit(unit string) string {
	return strings.ToLower(strings.TrimSpace(unit))
}

// isAreaUnit reports whether a unit denotes a square-footage measure.
func isAreaUnit(unit string) bool {
	u := normalizeUnit(unit)
	switch u {
	case "sqft", "sq ft", "sq. ft.", "sq.ft.", "sf", "ft2", "sq feet", "square feet", "square foot", "square ft":
		return true
	}
	return strings.Contains(u, "sq") && strings.Contains(u, "f")
}

// isLinearUnit reports whether a unit denotes a linear-foot measure.
func isLinearUnit(unit string) bool {
	u := normalizeUnit(unit)
	if strings.Contains(u, "linear") || strings.Contains(u, "lineal") {
		return true
	}
	return u == "lf" || u == "lin ft" || u == "ln ft"
}

// isCountUnit reports whether a unit denotes discrete pieces.
func isCountUnit(unit string) bool {
	switch normalizeUnit(unit) {
	case "each", "ea", "set", "piece", "pc", "unit", "item", "door", "window", "fixture":
		return true
	}
	return false
}

// isRoomUnit reports whether a unit denotes a whole room.
func isRoomUnit(unit string) bool {
	u := normalizeUnit(unit)
	return u == "room" || strings.Contains(u, "room")
}

// isHouseUnit reports whether a unit denotes the whole dwelling.
func isHouseUnit(unit string) bool {
	u := normalizeUnit(unit)
	return strings.Contains(u, "house") || strings.Contains(u, "home") || strings.Contains(u, "whole")
}

// unitsCompatible reports whether an override registered for one unit can
// price a line measured in another: exact match, or both area measures.
func unitsCompatible(lineUnit, overrideUnit string) bool {
	if normalizeUnit(lineUnit) == normalizeUnit(overrideUnit) {
		return true
	}
	return isAreaUnit(lineUnit) && isAreaUnit(overrideUnit)
}
