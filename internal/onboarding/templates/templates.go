// Package templates knows which regulatory documents exist, which of them an
// application needs, and which fields each one expects.
package templates

import (
	"fmt"
	"strings"

	"onboarding/internal/onboarding/models"
	"onboarding/internal/onboarding/risk"
)

// ID is a VQF document template identifier.
type ID string

const (
	Identification  ID = "902.1e"
	RiskProfile     ID = "902.4e"
	CustomerProfile ID = "902.5e"
	FormA           ID = "902.9e"
	FormK           ID = "902.11e"
)

// All lists every template in generation order.
var All = []ID{Identification, RiskProfile, CustomerProfile, FormA, FormK}

var names = map[ID]string{
	Identification:  "Identification",
	RiskProfile:     "Risk Profile",
	CustomerProfile: "Customer Profile",
	FormA:           "Form-A",
	FormK:           "Form-K",
}

// Parse accepts a known template ID.
func Parse(s string) (ID, error) {
	id := ID(strings.TrimSpace(s))
	if _, ok := names[id]; !ok {
		return "", fmt.Errorf("invalid template ID: %s", s)
	}
	return id, nil
}

func (id ID) String() string { return string(id) }

// Name is the human title of the template.
func (id ID) Name() string {
	return names[id]
}

// DocumentFile is the name of the Word template the renderer fills in.
func (id ID) DocumentFile() string {
	return fmt.Sprintf("%s (%s).docx", id, names[id])
}

// FormKPolicy decides when Form-K is generated.
type FormKPolicy string

const (
	// FormKDisabled never generates Form-K.
	FormKDisabled FormKPolicy = "disabled"
	// FormKControllingPersons generates Form-K whenever controlling persons
	// were declared.
	FormKControllingPersons FormKPolicy = "controlling_persons"
)

// ParseFormKPolicy accepts the two policies; an empty string means disabled.
func ParseFormKPolicy(s string) (FormKPolicy, error) {
	switch p := FormKPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "", FormKDisabled:
		return FormKDisabled, nil
	case FormKControllingPersons:
		return p, nil
	default:
		return "", fmt.Errorf("unknown Form-K policy %q", s)
	}
}

// Selector picks the templates an application needs.
type Selector struct {
	FormK FormKPolicy
}

// Select returns the required templates in generation order, without
// duplicates. Identification is always first.
func (sel Selector) Select(s models.FormState, r risk.Result) []ID {
	ids := []ID{Identification}
	if r.IsHighRisk {
		ids = append(ids, RiskProfile)
	}
	if s.ClientType.IsEntity() {
		ids = append(ids, CustomerProfile, FormA)
	}
	if sel.FormK == FormKControllingPersons && len(s.ControllingInfo.ControllingPersons) > 0 {
		ids = append(ids, FormK)
	}
	return dedupe(ids)
}

func dedupe(ids []ID) []ID {
	seen := make(map[ID]struct{}, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
