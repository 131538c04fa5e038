// Package risk classifies an onboarding application. Classification is pure
// domain logic: no I/O and no weights, only a fixed set of indicators.
package risk

import (
	"strings"

	"onboarding/internal/onboarding/models"
)

// IndicatorKey identifies one risk indicator.
type IndicatorKey string

const (
	IndicatorPEP               IndicatorKey = "isPEP"
	IndicatorPEPForeign        IndicatorKey = "pepTypeForeign"
	IndicatorPEPInternational  IndicatorKey = "pepTypeInternational"
	IndicatorPEPRelationship   IndicatorKey = "hasPepRelationship"
	IndicatorSanctionedCountry IndicatorKey = "hasSanctionedCountry"
	IndicatorComplexOwnership  IndicatorKey = "complexOwnership"
)

// Indicator is one evaluated risk signal.
type Indicator struct {
	Key       IndicatorKey `json:"key"`
	Label     string       `json:"label"`
	Triggered bool         `json:"triggered"`
}

// Result is the outcome of Classify. Indicators are always reported in the
// same order, triggered or not.
type Result struct {
	IsHighRisk bool        `json:"isHighRisk"`
	Indicators []Indicator `json:"indicators"`
}

// Triggered returns only the indicators that fired.
func (r Result) Triggered() []Indicator {
	var out []Indicator
	for _, ind := range r.Indicators {
		if ind.Triggered {
			out = append(out, ind)
		}
	}
	return out
}

// Summary joins the labels of the triggered indicators, or returns "" for a
// standard-risk client.
func (r Result) Summary() string {
	labels := make([]string, 0, len(r.Indicators))
	for _, ind := range r.Triggered() {
		labels = append(labels, ind.Label)
	}
	return strings.Join(labels, "; ")
}

// Classify evaluates every indicator and ORs them. Any single indicator makes
// the client high risk.
func Classify(s models.FormState) Result {
	info := s.SanctionsInfo
	indicators := []Indicator{
		{
			Key:       IndicatorPEP,
			Label:     "Client is a Politically Exposed Person (PEP)",
			Triggered: info.IsPep(),
		},
		{
			Key:       IndicatorPEPForeign,
			Label:     "PEP type is Foreign",
			Triggered: info.PepType == models.PepTypeForeign,
		},
		{
			Key:       IndicatorPEPInternational,
			Label:     "PEP type is International Organization",
			Triggered: info.PepType == models.PepTypeInternational,
		},
		{
			Key:       IndicatorPEPRelationship,
			Label:     "Family or business relationship with a PEP",
			Triggered: info.HasPepRelationship,
		},
		{
			Key:       IndicatorSanctionedCountry,
			Label:     "Connection to sanctioned country",
			Triggered: len(info.SanctionedCountries) > 0,
		},
		{
			// Owners() is empty for sole owners, whatever the row slice holds.
			Key:       IndicatorComplexOwnership,
			Label:     "Complex ownership structure (multiple beneficial owners)",
			Triggered: len(s.BeneficialInfo.Owners()) > 1,
		},
	}

	result := Result{Indicators: indicators}
	for _, ind := range indicators {
		if ind.Triggered {
			result.IsHighRisk = true
			break
		}
	}
	return result
}

// Level is the customer profile risk grade.
type Level string

const (
	LevelStandard Level = "Standard Risk"
	LevelMedium   Level = "Medium Risk"
	LevelHigh     Level = "High Risk"
)

// LevelOf grades the client for the customer profile.
// Rule priority:
//  1. Ties to a sanctioned country are always high risk
//  2. A domestic PEP is medium risk
//  3. Any other PEP is high risk
func LevelOf(s models.FormState) Level {
	info := s.SanctionsInfo
	if len(info.SanctionedCountries) > 0 {
		return LevelHigh
	}
	if !info.IsPep() {
		return LevelStandard
	}
	if info.PepType == models.PepTypeDomestic {
		return LevelMedium
	}
	return LevelHigh
}
