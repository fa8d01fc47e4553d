package pricing

import (
	"sort"
	"strings"
)

const (
	// maxTokens caps the normalized token set per text.
	maxTokens = 40
	// minTokenLength drops noise tokens like "x", "mm", "of".
	minTokenLength = 3
	// matchNoiseFloor discards candidates whose score offers no real signal.
	matchNoiseFloor = 0.05
	// unitHintBoost is the flat bonus for sharing a unit hint token.
	unitHintBoost = 0.2
	// DefaultMatchLimit bounds ranked flyer results when the caller passes 0.
	DefaultMatchLimit = 4
)

// stopWords are articles, units, and generic installation words that carry no
// matching signal in flyer or scope text.
var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "per": {},
	"sqft": {}, "sq": {}, "ft": {}, "foot": {}, "feet": {},
	"each": {}, "set": {}, "room": {}, "unit": {},
	"install": {}, "installation": {}, "installed": {}, "supply": {},
	"new": {}, "incl": {}, "included": {}, "including": {},
	"price": {}, "sale": {}, "off": {},
}

// NormalizeTokens lowercases the given texts, strips non-alphanumerics,
// splits on whitespace, drops short tokens and stop words, de-duplicates
// first-seen, and caps the result at 40 tokens.
func NormalizeTokens(texts ...string) []string {
	seen := make(map[string]struct{})
	tokens := make([]string, 0, maxTokens)

	for _, text := range texts {
		cleaned := strings.Map(func(r rune) rune {
			switch {
			case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
				return r
			case r >= 'A' && r <= 'Z':
				return r + ('a' - 'A')
			default:
				return ' '
			}
		}, text)

		for _, token := range strings.Fields(cleaned) {
			if len(token) < minTokenLength {
				continue
			}
			if _, stop := stopWords[token]; stop {
				continue
			}
			if _, dup := seen[token]; dup {
				continue
			}
			seen[token] = struct{}{}
			tokens = append(tokens, token)
			if len(tokens) >= maxTokens {
				return tokens
			}
		}
	}
	return tokens
}

// UnitHintTokens maps a unit string to domain hint tokens used as a scoring
// boost. Hints never filter candidates; they only nudge relevant ones up.
func UnitHintTokens(unit string) []string {
	switch {
	case isAreaUnit(unit):
		return []string{"sqft", "floor", "tile", "sheet"}
	case isLinearUnit(unit):
		return []string{"linear", "trim", "baseboard", "moulding"}
	case isCountUnit(unit):
		return []string{"piece", "fixture", "door", "panel"}
	case isRoomUnit(unit), isHouseUnit(unit):
		return []string{"interior", "kit", "gallon"}
	}
	return nil
}

// MatchFlyerItems scores flyer candidates against a scope line by token
// overlap and returns at most limit results ranked by descending score.
// Candidates at or below the noise floor are dropped. Ties keep input order,
// so the ranking is stable for equal scores. A line or candidate with no
// normalized tokens never matches.
func MatchFlyerItems(candidates []FlyerItem, line ScopeLineItem, limit int) []FlyerMatch {
	if limit <= 0 {
		limit = DefaultMatchLimit
	}

	lineTokens := NormalizeTokens(line.Task, line.Material)
	if len(lineTokens) == 0 {
		return nil
	}
	lineSet := make(map[string]struct{}, len(lineTokens))
	for _, t := range lineTokens {
		lineSet[t] = struct{}{}
	}

	hints := make(map[string]struct{})
	for _, h := range UnitHintTokens(line.Unit) {
		hints[h] = struct{}{}
	}

	matches := make([]FlyerMatch, 0, len(candidates))
	for _, candidate := range candidates {
		tokens := candidate.NormalizedTokens
		if len(tokens) == 0 {
			tokens = NormalizeTokens(candidate.Name, candidate.PromoNotes)
		}
		if len(tokens) == 0 {
			continue
		}

		shared := 0
		hinted := false
		for _, t := range tokens {
			if _, ok := lineSet[t]; ok {
				shared++
			}
			if _, ok := hints[t]; ok {
				hinted = true
			}
		}

		score := float64(shared) / float64(max(len(lineTokens), 1))
		if hinted {
			score += unitHintBoost
		}
		if score <= matchNoiseFloor {
			continue
		}
		matches = append(matches, FlyerMatch{Item: candidate, MatchScore: score})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].MatchScore > matches[j].MatchScore
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}
