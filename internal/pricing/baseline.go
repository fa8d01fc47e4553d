package pricing

import "strings"

// baselineEntry is one keyword/unit-cost pair in the baseline material table.
// The table is an ordered slice, not a map: first match wins, so more specific
// keywords must come before the generic ones they contain.
type baselineEntry struct {
	Keyword  string
	UnitCost float64
}

// baselineDefaultName is the reserved sentinel excluded from keyword matching.
const baselineDefaultName = "default"

// baselineDefaultCost is the generic per-unit material cost used when no
// keyword matches. Reported with matched name "general".
const baselineDefaultCost = 3.0

// materialBaseline maps common renovation material keywords to typical
// per-unit costs before the jurisdiction multiplier.
var materialBaseline = []baselineEntry{
	{"hardwood", 8.0},
	{"engineered wood", 6.5},
	{"vinyl plank", 4.5},
	{"vinyl", 4.5},
	{"laminate", 3.25},
	{"porcelain", 7.0},
	{"ceramic", 5.5},
	{"tile", 6.0},
	{"carpet", 3.0},
	{"quartz", 75.0},
	{"granite", 70.0},
	{"countertop", 45.0},
	{"cabinet", 95.0},
	{"backsplash", 12.0},
	{"drywall", 2.1},
	{"sheetrock", 2.1},
	{"plywood", 2.8},
	{"subfloor", 2.4},
	{"underlayment", 0.85},
	{"insulation", 1.6},
	{"baseboard", 2.5},
	{"trim", 2.25},
	{"paint", 0.65},
	{"primer", 0.5},
	{"grout", 1.1},
	{"mortar", 1.2},
	{baselineDefaultName, baselineDefaultCost},
}

// baselineFor looks up a material text against the baseline table in table
// order, matching baseline keywords as case-insensitive substrings of the
// text. The "default" sentinel never matches by keyword.
func baselineFor(materialText string) (name string, cost float64, ok bool) {
	text := strings.ToLower(strings.TrimSpace(materialText))
	if text == "" {
		return "", 0, false
	}
	for _, entry := range materialBaseline {
		if entry.Keyword == baselineDefaultName {
			continue
		}
		if strings.Contains(text, entry.Keyword) {
			return entry.Keyword, entry.UnitCost, true
		}
	}
	return "", 0, false
}
