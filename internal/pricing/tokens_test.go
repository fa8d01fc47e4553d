package pricing

import (
	"reflect"
	"sort"
	"testing"
)

func TestNormalizeTokens(t *testing.T) {
	tests := []struct {
		name  string
		texts []string
		want  []string
	}{
		{
			name:  "strips stop words and short tokens",
			texts: []string{"Luxury Vinyl Plank 12mm", "sqft"},
			want:  []string{"luxury", "vinyl", "plank", "12mm"},
		},
		{
			name:  "strips punctuation and dedupes",
			texts: []string{"Tile, tile & TILE!", "ceramic-tile"},
			want:  []string{"tile", "ceramic"},
		},
		{
			name:  "empty input",
			texts: []string{"", "  "},
			want:  []string{},
		},
		{
			name:  "installation vocabulary removed",
			texts: []string{"Install new baseboard trim per linear ft"},
			want:  []string{"baseboard", "trim", "linear"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeTokens(tt.texts...)
			sort.Strings(got)
			want := append([]string(nil), tt.want...)
			sort.Strings(want)
			if len(got) == 0 && len(want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, want) {
				t.Fatalf("tokens mismatch:\nwant %v\ngot  %v", want, got)
			}
		})
	}
}

func TestNormalizeTokens_CapsAtForty(t *testing.T) {
	long := ""
	for i := 0; i < 60; i++ {
		long += " token" + string(rune('a'+i%26)) + string(rune('a'+i/26))
	}
	got := NormalizeTokens(long)
	if len(got) > 40 {
		t.Fatalf("expected at most 40 tokens, got %d", len(got))
	}
}

func TestMatchFlyerItems_RankingAndFloor(t *testing.T) {
	line := ScopeLineItem{Task: "Install vinyl plank", Material: "luxury vinyl plank", Unit: "sqft"}
	candidates := []FlyerItem{
		{Name: "Luxury Vinyl Plank 6mm", UnitLabel: "sqft", Price: 2.99},
		{Name: "Interior latex paint 3.78L", Price: 34.99},
		{Name: "Vinyl plank underlay", Price: 0.49},
		{Name: "Garden hose 50ft", Price: 19.99},
	}

	matches := MatchFlyerItems(candidates, line, 4)
	if len(matches) == 0 {
		t.Fatalf("expected at least one match")
	}
	if matches[0].Item.Name != "Luxury Vinyl Plank 6mm" {
		t.Fatalf("expected best match first, got %q", matches[0].Item.Name)
	}
	for _, m := range matches {
		if m.MatchScore <= matchNoiseFloor {
			t.Fatalf("match %q at score %v is below the noise floor", m.Item.Name, m.MatchScore)
		}
	}
	for i := 1; i < len(matches); i++ {
		if matches[i].MatchScore > matches[i-1].MatchScore {
			t.Fatalf("matches not sorted descending at %d", i)
		}
	}
}

func TestMatchFlyerItems_LimitRespected(t *testing.T) {
	line := ScopeLineItem{Task: "vinyl plank", Material: "vinyl plank", Unit: "sqft"}
	candidates := make([]FlyerItem, 10)
	for i := range candidates {
		candidates[i] = FlyerItem{Name: "vinyl plank special"}
	}

	matches := MatchFlyerItems(candidates, line, 3)
	if len(matches) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(matches))
	}
}

func TestMatchFlyerItems_UnitHintBoost(t *testing.T) {
	line := ScopeLineItem{Task: "Replace flooring", Material: "oak flooring", Unit: "sqft"}
	plain := FlyerItem{Name: "Oak flooring bundle"}
	hinted := FlyerItem{Name: "Oak flooring bundle", PromoNotes: "floor event"}

	scores := MatchFlyerItems([]FlyerItem{plain, hinted}, line, 2)
	if len(scores) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(scores))
	}
	// "floor" is a sqft unit hint token, so the hinted candidate ranks first.
	if scores[0].MatchScore <= scores[1].MatchScore {
		t.Fatalf("expected unit-hint boost to rank hinted candidate first: %+v", scores)
	}
	if diff := scores[0].MatchScore - scores[1].MatchScore; !almostEqual(diff, unitHintBoost) {
		t.Fatalf("expected boost of %v, got %v", unitHintBoost, diff)
	}
}

func TestMatchFlyerItems_StableForEqualScores(t *testing.T) {
	line := ScopeLineItem{Task: "vinyl plank", Material: "vinyl plank", Unit: "each"}
	first := FlyerItem{Name: "vinyl plank A grade"}
	second := FlyerItem{Name: "vinyl plank B grade"}

	matches := MatchFlyerItems([]FlyerItem{first, second}, line, 4)
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].Item.Name != first.Name || matches[1].Item.Name != second.Name {
		t.Fatalf("equal scores must keep input order, got %q then %q", matches[0].Item.Name, matches[1].Item.Name)
	}
}

func TestMatchFlyerItems_EmptyTextNeverMatches(t *testing.T) {
	emptyLine := ScopeLineItem{Task: "", Material: "", Unit: "sqft"}
	if got := MatchFlyerItems([]FlyerItem{{Name: "vinyl plank"}}, emptyLine, 4); got != nil {
		t.Fatalf("empty line must not match, got %+v", got)
	}

	line := ScopeLineItem{Task: "vinyl plank", Material: "vinyl plank", Unit: "sqft"}
	if got := MatchFlyerItems([]FlyerItem{{Name: ""}}, line, 4); len(got) != 0 {
		t.Fatalf("empty candidate must not match, got %+v", got)
	}
}

func TestMatchFlyerItems_PrecomputedTokens(t *testing.T) {
	line := ScopeLineItem{Task: "ceramic tile", Material: "ceramic tile", Unit: "sqft"}
	candidate := FlyerItem{Name: "ignored text", NormalizedTokens: []string{"ceramic", "tile"}}

	matches := MatchFlyerItems([]FlyerItem{candidate}, line, 4)
	if len(matches) != 1 {
		t.Fatalf("expected precomputed tokens to drive the match, got %d results", len(matches))
	}
}

func TestUnitHintTokens(t *testing.T) {
	if hints := UnitHintTokens("sqft"); len(hints) == 0 {
		t.Fatalf("expected hints for area units")
	}
	if hints := UnitHintTokens("linear ft"); len(hints) == 0 {
		t.Fatalf("expected hints for linear units")
	}
	if hints := UnitHintTokens("parsecs"); hints != nil {
		t.Fatalf("expected no hints for unknown units, got %v", hints)
	}
}
