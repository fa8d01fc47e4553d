package pricing

// Fixed business constants. These encode deliberate simplifications: a single
// global markup, a 60/40 labor/material split for blended contractor rates,
// and a 50 sqft/hour productivity assumption for missing labor hours.
const (
	// markupRate is the flat markup applied to every line's subtotal.
	markupRate = 0.15
	// blendedLaborShare is the labor portion of a contractor's all-in unit
	// rate; the remainder is treated as material.
	blendedLaborShare = 0.60
	// areaPerLaborHour estimates labor hours as quantity / 50 when a line
	// carries no explicit hours.
	areaPerLaborHour = 50.0
)

// MarkupRate exposes the flat markup fraction for display/audit purposes.
func MarkupRate() float64 { return markupRate }

// ComputeEstimate converts scope line items into a priced estimate under the
// given jurisdiction, applying contractor overrides where unit-compatible.
//
// Every step fails soft: unknown jurisdictions, unmatched materials, and
// unmatched pricing keys all fall through to defaults, and a non-positive
// quantity yields a zero-cost line rather than an error. An empty line list
// produces an empty result.
func ComputeEstimate(jurisdictionCode string, lines []ScopeLineItem, overrides *OverrideSet) EstimateResult {
	rate := RateFor(jurisdictionCode)

	result := EstimateResult{
		Lines: make([]LineItemCost, 0, len(lines)),
		Assumptions: Assumptions{
			JurisdictionCode:   rate.Code,
			LaborRatePerHour:   rate.LaborRatePerHour,
			MaterialMultiplier: rate.MaterialMultiplier,
			TaxRate:            rate.TaxRate,
			TaxName:            rate.TaxName,
			MarkupRate:         markupRate,
		},
	}

	for _, line := range lines {
		cost := computeLine(line, rate, overrides)
		result.Lines = append(result.Lines, cost)
		result.TotalLabor += cost.LaborCost
		result.TotalMaterial += cost.MaterialCost
		result.Subtotal += cost.Subtotal
		result.Markup += cost.Markup
		result.Tax += cost.Tax
		result.GrandTotal += cost.Total
	}
	result.TotalBeforeTax = result.Subtotal + result.Markup

	return result
}

func computeLine(line ScopeLineItem, rate JurisdictionRate, overrides *OverrideSet) LineItemCost {
	cost := LineItemCost{
		ID:            line.ID,
		Segment:       line.Segment,
		Task:          line.Task,
		Material:      line.Material,
		Quantity:      line.Quantity,
		Unit:          line.Unit,
		LaborRate:     rate.LaborRatePerHour,
		PricingSource: SourceDefault,
		MaterialName:  "general",
	}

	// Degenerate input: no quantity means no cost, never a fault.
	if line.Quantity <= 0 {
		return cost
	}

	if override, ok := lookupLaborOverride(line, overrides); ok {
		// A contractor's all-in unit rate bundles labor and material;
		// split it and back out the implied hours.
		blended := line.Quantity * override.Rate
		cost.LaborCost = blended * blendedLaborShare
		cost.MaterialCost = blended * (1 - blendedLaborShare)
		cost.MaterialUnitCost = override.Rate * (1 - blendedLaborShare)
		if rate.LaborRatePerHour > 0 {
			cost.LaborHours = cost.LaborCost / rate.LaborRatePerHour
		}
		cost.PricingSource = SourceUser
		if name := line.Material; name != "" {
			cost.MaterialName = name
		}
	} else {
		resolved := ResolveMaterial(line.Material, overrides)
		unitCost := resolved.UnitCost
		if resolved.Source == SourceDefault {
			unitCost *= rate.MaterialMultiplier
		}
		cost.MaterialUnitCost = unitCost
		cost.MaterialName = resolved.MatchedName
		cost.MaterialCost = line.Quantity * unitCost

		if line.LaborHours != nil && *line.LaborHours > 0 {
			cost.LaborHours = *line.LaborHours
		} else {
			cost.LaborHours = line.Quantity / areaPerLaborHour
		}
		cost.LaborCost = cost.LaborHours * rate.LaborRatePerHour
	}

	cost.Subtotal = cost.LaborCost + cost.MaterialCost
	cost.Markup = cost.Subtotal * markupRate
	cost.Tax = (cost.Subtotal + cost.Markup) * rate.TaxRate
	cost.Total = cost.Subtotal + cost.Markup + cost.Tax
	return cost
}

// lookupLaborOverride finds a unit-compatible labor-rate override for the
// line's inferred pricing key.
func lookupLaborOverride(line ScopeLineItem, overrides *OverrideSet) (OverrideRate, bool) {
	key := InferPricingKey(line.Task, line.Material, line.Unit)
	if key == "" {
		return OverrideRate{}, false
	}
	override, ok := overrides.Get(key)
	if !ok {
		return OverrideRate{}, false
	}
	if !unitsCompatible(line.Unit, override.Unit) {
		return OverrideRate{}, false
	}
	return override, true
}

// ComputeScenarioRange produces low/medium/high what-if totals for a scope
// using only the tiered fallback tables. It is independent of the
// point-estimate path and carries no markup or tax.
func ComputeScenarioRange(lines []ScopeLineItem) ScenarioRange {
	var r ScenarioRange
	for _, line := range lines {
		if line.Quantity <= 0 {
			continue
		}
		r.Low += scenarioLineTotal(line, PointLow)
		r.Medium += scenarioLineTotal(line, PointMedium)
		r.High += scenarioLineTotal(line, PointHigh)
	}
	return r
}

func scenarioLineTotal(line ScopeLineItem, point PricePoint) float64 {
	total := FallbackLaborRate(line.Task+" "+line.Material, point) * line.Quantity
	if unitCost := FallbackMaterialUnitCost(line.Task, line.Material, line.Unit, point); unitCost != nil {
		total += *unitCost * line.Quantity
	}
	return total
}
