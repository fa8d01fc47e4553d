package pricing

import "strings"

// MaterialOverridePrefix marks override keys that carry material rates
// rather than labor rates.
const MaterialOverridePrefix = "mat:"

// ResolvedMaterial is the outcome of the material precedence chain: the
// per-unit cost before any jurisdiction multiplier, its provenance, and the
// human-readable name that matched.
type ResolvedMaterial struct {
	UnitCost    float64
	Source      PricingSource
	MatchedName string
}

// ResolveMaterial produces a per-unit material cost for a free-text material
// description. Precedence, first match wins:
//
//  1. contractor override ("mat:" entries, substring match in either
//     direction, registration order breaks ties)
//  2. baseline table (table order breaks ties)
//  3. generic default, reported as "general"
//
// The returned cost is unmultiplied; only baseline-sourced costs are subject
// to the jurisdiction material multiplier.
func ResolveMaterial(materialText string, overrides *OverrideSet) ResolvedMaterial {
	text := strings.ToLower(strings.TrimSpace(materialText))

	if text != "" {
		for _, entry := range overrides.Entries() {
			name, ok := strings.CutPrefix(entry.Key, MaterialOverridePrefix)
			if !ok {
				continue
			}
			name = strings.ToLower(strings.TrimSpace(name))
			if name == "" {
				continue
			}
			if strings.Contains(text, name) || strings.Contains(name, text) {
				return ResolvedMaterial{
					UnitCost:    entry.Rate.Rate,
					Source:      SourceUser,
					MatchedName: name,
				}
			}
		}
	}

	if name, cost, ok := baselineFor(materialText); ok {
		return ResolvedMaterial{UnitCost: cost, Source: SourceDefault, MatchedName: name}
	}

	return ResolvedMaterial{UnitCost: baselineDefaultCost, Source: SourceDefault, MatchedName: "general"}
}
