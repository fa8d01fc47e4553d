package pricing

import (
	"math"
	"reflect"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestComputeEstimate_BaselinePath(t *testing.T) {
	lines := []ScopeLineItem{{
		ID:       "l1",
		Task:     "Install vinyl plank",
		Material: "vinyl plank",
		Quantity: 500,
		Unit:     "sqft",
	}}

	result := ComputeEstimate("ON", lines, nil)

	if len(result.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(result.Lines))
	}
	line := result.Lines[0]

	if line.PricingSource != SourceDefault {
		t.Fatalf("expected default pricing source, got %q", line.PricingSource)
	}
	if !almostEqual(line.MaterialUnitCost, 4.5*1.05) {
		t.Fatalf("expected material unit cost 4.725, got %v", line.MaterialUnitCost)
	}
	if !almostEqual(line.MaterialCost, 2362.50) {
		t.Fatalf("expected material cost 2362.50, got %v", line.MaterialCost)
	}
	if !almostEqual(line.LaborHours, 10) {
		t.Fatalf("expected 10 labor hours, got %v", line.LaborHours)
	}
	if !almostEqual(line.LaborCost, 550) {
		t.Fatalf("expected labor cost 550, got %v", line.LaborCost)
	}
	if !almostEqual(line.Subtotal, 2912.50) {
		t.Fatalf("expected subtotal 2912.50, got %v", line.Subtotal)
	}
	if !almostEqual(line.Markup, 436.875) {
		t.Fatalf("expected markup 436.875, got %v", line.Markup)
	}
	if !almostEqual(line.Tax, 3349.375*0.13) {
		t.Fatalf("expected tax %v, got %v", 3349.375*0.13, line.Tax)
	}
	if !almostEqual(line.Total, 3784.79375) {
		t.Fatalf("expected total 3784.79375, got %v", line.Total)
	}
	if line.MaterialName != "vinyl plank" {
		t.Fatalf("expected matched name %q, got %q", "vinyl plank", line.MaterialName)
	}
	if !almostEqual(result.GrandTotal, line.Total) {
		t.Fatalf("grand total %v does not match line total %v", result.GrandTotal, line.Total)
	}
}

func TestComputeEstimate_UserOverrideBlendedSplit(t *testing.T) {
	lines := []ScopeLineItem{{
		Task:     "Install vinyl plank",
		Material: "vinyl plank",
		Quantity: 500,
		Unit:     "sqft",
	}}
	overrides := &OverrideSet{}
	overrides.Add(KeyFlooringSqft, OverrideRate{Rate: 8, Unit: "sqft"})

	result := ComputeEstimate("ON", lines, overrides)
	line := result.Lines[0]

	if line.PricingSource != SourceUser {
		t.Fatalf("expected user pricing source, got %q", line.PricingSource)
	}
	if !almostEqual(line.LaborCost+line.MaterialCost, 4000) {
		t.Fatalf("expected blended total 4000, got %v", line.LaborCost+line.MaterialCost)
	}
	if !almostEqual(line.LaborCost, 2400) {
		t.Fatalf("expected labor 2400, got %v", line.LaborCost)
	}
	if !almostEqual(line.MaterialCost, 1600) {
		t.Fatalf("expected material 1600, got %v", line.MaterialCost)
	}
	if !almostEqual(line.LaborHours, 2400.0/55.0) {
		t.Fatalf("expected implied hours %v, got %v", 2400.0/55.0, line.LaborHours)
	}
}

func TestComputeEstimate_OverridePrecedenceRegardlessOfBaseline(t *testing.T) {
	// "hardwood" has a baseline entry; a unit-compatible override must win anyway.
	lines := []ScopeLineItem{{
		Task:     "Install hardwood flooring",
		Material: "oak hardwood",
		Quantity: 100,
		Unit:     "square feet",
	}}
	overrides := &OverrideSet{}
	overrides.Add(KeyFlooringSqft, OverrideRate{Rate: 12, Unit: "sqft"})

	result := ComputeEstimate("BC", lines, overrides)
	if result.Lines[0].PricingSource != SourceUser {
		t.Fatalf("expected user pricing source, got %q", result.Lines[0].PricingSource)
	}
}

func TestComputeEstimate_UnitIncompatibleOverrideFallsThrough(t *testing.T) {
	lines := []ScopeLineItem{{
		Task:     "Install vinyl plank",
		Material: "vinyl plank",
		Quantity: 500,
		Unit:     "sqft",
	}}
	overrides := &OverrideSet{}
	overrides.Add(KeyFlooringSqft, OverrideRate{Rate: 8, Unit: "linear ft"})

	result := ComputeEstimate("ON", lines, overrides)
	if result.Lines[0].PricingSource != SourceDefault {
		t.Fatalf("expected default pricing source for incompatible unit, got %q", result.Lines[0].PricingSource)
	}
}

func TestComputeEstimate_ExplicitLaborHoursWin(t *testing.T) {
	hours := 24.0
	lines := []ScopeLineItem{{
		Task:       "Demolish partition",
		Material:   "debris disposal",
		Quantity:   300,
		Unit:       "sqft",
		LaborHours: &hours,
	}}

	result := ComputeEstimate("AB", lines, nil)
	line := result.Lines[0]
	if !almostEqual(line.LaborHours, 24) {
		t.Fatalf("expected explicit 24 hours, got %v", line.LaborHours)
	}
	if !almostEqual(line.LaborCost, 24*58) {
		t.Fatalf("expected labor cost %v, got %v", 24*58, line.LaborCost)
	}
}

func TestComputeEstimate_GrandTotalIsSumOfLineTotals(t *testing.T) {
	lines := []ScopeLineItem{
		{Task: "Paint walls", Material: "eggshell paint", Quantity: 800, Unit: "sqft"},
		{Task: "Install tile", Material: "porcelain tile", Quantity: 120, Unit: "sqft"},
		{Task: "Replace baseboard", Material: "mdf baseboard", Quantity: 140, Unit: "linear ft"},
	}
	overrides := &OverrideSet{}
	overrides.Add(KeyWallPaintSqft, OverrideRate{Rate: 3.5, Unit: "sqft"})

	result := ComputeEstimate("QC", lines, overrides)

	var sumTotals, sumLabor, sumMaterial float64
	for _, line := range result.Lines {
		if !almostEqual(line.Total, line.Subtotal+line.Markup+line.Tax) {
			t.Fatalf("line total %v != subtotal+markup+tax %v", line.Total, line.Subtotal+line.Markup+line.Tax)
		}
		sumTotals += line.Total
		sumLabor += line.LaborCost
		sumMaterial += line.MaterialCost
	}
	if !almostEqual(result.GrandTotal, sumTotals) {
		t.Fatalf("grand total %v != sum of line totals %v", result.GrandTotal, sumTotals)
	}
	if !almostEqual(result.TotalLabor, sumLabor) || !almostEqual(result.TotalMaterial, sumMaterial) {
		t.Fatalf("aggregate labor/material mismatch")
	}
	if !almostEqual(result.TotalBeforeTax, result.Subtotal+result.Markup) {
		t.Fatalf("total before tax %v != subtotal+markup %v", result.TotalBeforeTax, result.Subtotal+result.Markup)
	}
}

func TestComputeEstimate_Idempotent(t *testing.T) {
	lines := []ScopeLineItem{
		{Task: "Install laminate", Material: "laminate", Quantity: 450, Unit: "sqft"},
		{Task: "Tape and mud", Material: "drywall compound", Quantity: 600, Unit: "sqft"},
	}
	overrides := &OverrideSet{}
	overrides.Add(KeyFlooringSqft, OverrideRate{Rate: 6, Unit: "sqft"})
	overrides.Add("mat:compound", OverrideRate{Rate: 1.4, Unit: "sqft"})

	first := ComputeEstimate("NS", lines, overrides)
	second := ComputeEstimate("NS", lines, overrides)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("estimate is not idempotent:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestComputeEstimate_QuantityMonotonicity(t *testing.T) {
	small := ComputeEstimate("ON", []ScopeLineItem{{Task: "Install carpet", Material: "carpet", Quantity: 100, Unit: "sqft"}}, nil)
	large := ComputeEstimate("ON", []ScopeLineItem{{Task: "Install carpet", Material: "carpet", Quantity: 200, Unit: "sqft"}}, nil)

	if large.Lines[0].MaterialCost <= small.Lines[0].MaterialCost {
		t.Fatalf("material cost did not increase with quantity")
	}
	if large.Lines[0].LaborCost <= small.Lines[0].LaborCost {
		t.Fatalf("labor cost did not increase with quantity")
	}
}

func TestComputeEstimate_DegenerateInputs(t *testing.T) {
	empty := ComputeEstimate("ON", nil, nil)
	if len(empty.Lines) != 0 || empty.GrandTotal != 0 {
		t.Fatalf("expected empty result for empty scope, got %+v", empty)
	}

	negative := ComputeEstimate("ON", []ScopeLineItem{{Task: "Paint", Material: "paint", Quantity: -5, Unit: "sqft"}}, nil)
	line := negative.Lines[0]
	if line.Total != 0 || line.LaborCost != 0 || line.MaterialCost != 0 {
		t.Fatalf("expected zero-cost line for non-positive quantity, got %+v", line)
	}
}

func TestComputeEstimate_UnknownJurisdictionFailsSoft(t *testing.T) {
	result := ComputeEstimate("XX", []ScopeLineItem{{Task: "Paint", Material: "paint", Quantity: 100, Unit: "sqft"}}, nil)
	if result.Assumptions.JurisdictionCode != DefaultJurisdiction {
		t.Fatalf("expected fallback to %s, got %s", DefaultJurisdiction, result.Assumptions.JurisdictionCode)
	}
	if result.Assumptions.MarkupRate != MarkupRate() {
		t.Fatalf("assumptions must echo the markup rate")
	}
}

func TestComputeScenarioRange_OrderedTiers(t *testing.T) {
	lines := []ScopeLineItem{
		{Task: "Install tile", Material: "ceramic tile", Quantity: 150, Unit: "sqft"},
		{Task: "Paint interior", Material: "paint", Quantity: 900, Unit: "sqft"},
		{Task: "Ignore me", Material: "", Quantity: -1, Unit: "sqft"},
	}

	r := ComputeScenarioRange(lines)
	if !(r.Low > 0 && r.Low < r.Medium && r.Medium < r.High) {
		t.Fatalf("expected ordered positive tiers, got %+v", r)
	}
}
