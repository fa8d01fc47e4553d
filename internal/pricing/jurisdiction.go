package pricing

import "strings"

// DefaultJurisdiction is the region used when a code is not recognized.
// Unknown codes fail soft: an estimate is always produced.
const DefaultJurisdiction = "ON"

// jurisdictionRates holds the per-province constants. Initialized once and
// never mutated; RateFor returns copies so callers cannot change them.
var jurisdictionRates = map[string]JurisdictionRate{
	"ON": {Code: "ON", LaborRatePerHour: 55, MaterialMultiplier: 1.05, TaxRate: 0.13, TaxName: "HST"},
	"BC": {Code: "BC", LaborRatePerHour: 60, MaterialMultiplier: 1.10, TaxRate: 0.12, TaxName: "GST+PST"},
	"AB": {Code: "AB", LaborRatePerHour: 58, MaterialMultiplier: 1.00, TaxRate: 0.05, TaxName: "GST"},
	"QC": {Code: "QC", LaborRatePerHour: 52, MaterialMultiplier: 1.02, TaxRate: 0.14975, TaxName: "GST+QST"},
	"MB": {Code: "MB", LaborRatePerHour: 50, MaterialMultiplier: 1.00, TaxRate: 0.12, TaxName: "GST+RST"},
	"SK": {Code: "SK", LaborRatePerHour: 50, MaterialMultiplier: 1.00, TaxRate: 0.11, TaxName: "GST+PST"},
	"NS": {Code: "NS", LaborRatePerHour: 52, MaterialMultiplier: 1.04, TaxRate: 0.15, TaxName: "HST"},
	"NB": {Code: "NB", LaborRatePerHour: 50, MaterialMultiplier: 1.03, TaxRate: 0.15, TaxName: "HST"},
	"NL": {Code: "NL", LaborRatePerHour: 52, MaterialMultiplier: 1.06, TaxRate: 0.15, TaxName: "HST"},
	"PE": {Code: "PE", LaborRatePerHour: 50, MaterialMultiplier: 1.04, TaxRate: 0.15, TaxName: "HST"},
}

// RateFor returns the jurisdiction constants for a region code.
// Unrecognized codes return the default jurisdiction's rates.
func RateFor(code string) JurisdictionRate {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if rate, ok := jurisdictionRates[normalized]; ok {
		return rate
	}
	return jurisdictionRates[DefaultJurisdiction]
}

// SupportedJurisdictions returns the known region codes. Order is not defined.
func SupportedJurisdictions() []string {
	codes := make([]string, 0, len(jurisdictionRates))
	for code := range jurisdictionRates {
		codes = append(codes, code)
	}
	return codes
}
