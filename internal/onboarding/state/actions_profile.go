package state

import (
	"math"

	"onboarding/internal/onboarding/models"
	"onboarding/pkg/platform/strset"
)

// SetBusinessActivityField sets one free-text business activity field.
type SetBusinessActivityField struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

func (SetBusinessActivityField) Type() string { return "set_business_activity_field" }

func (a SetBusinessActivityField) apply(s *models.FormState, _ env) error {
	b := &s.BusinessActivity
	target := map[string]*string{
		"professionActivity":  &b.ProfessionActivity,
		"businessDescription": &b.BusinessDescription,
		"targetClients":       &b.TargetClients,
	}[a.Field]
	if target == nil {
		return unknownField("business activity", a.Field)
	}
	*target = a.Value
	return nil
}

// AddMainCountry adds a country to the ordered set of main countries.
type AddMainCountry struct {
	Country string `json:"country"`
}

func (AddMainCountry) Type() string { return "add_main_country" }

func (a AddMainCountry) apply(s *models.FormState, _ env) error {
	s.BusinessActivity.MainCountries = strset.Add(s.BusinessActivity.MainCountries, a.Country)
	return nil
}

// RemoveMainCountry removes a country; absent countries are ignored.
type RemoveMainCountry struct {
	Country string `json:"country"`
}

func (RemoveMainCountry) Type() string { return "remove_main_country" }

func (a RemoveMainCountry) apply(s *models.FormState, _ env) error {
	s.BusinessActivity.MainCountries = strset.Remove(s.BusinessActivity.MainCountries, a.Country)
	return nil
}

// SetFinancialField selects one financial range.
type SetFinancialField struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

func (SetFinancialField) Type() string { return "set_financial_field" }

func (a SetFinancialField) apply(s *models.FormState, _ env) error {
	f := &s.FinancialInfo
	target := map[string]*string{
		"annualRevenue": &f.AnnualRevenue,
		"totalAssets":   &f.TotalAssets,
		"liabilities":   &f.Liabilities,
	}[a.Field]
	if target == nil {
		return unknownField("financial", a.Field)
	}
	*target = a.Value
	return nil
}

// SetTransactionField sets asset nature, origin or category. Picking one of
// the listed categories leaves "other" mode.
type SetTransactionField struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

func (SetTransactionField) Type() string { return "set_transaction_field" }

func (a SetTransactionField) apply(s *models.FormState, _ env) error {
	t := &s.TransactionInfo
	switch a.Field {
	case "assetNature":
		t.AssetNature = a.Value
	case "assetOrigin":
		t.AssetOrigin = a.Value
	case "assetCategory":
		t.AssetCategory = a.Value
		if strset.Contains(models.AssetCategories, a.Value) {
			t.IsOtherCategory = false
		}
	default:
		return unknownField("transaction", a.Field)
	}
	return nil
}

// SetMonthlyVolume stores the expected monthly volume in CHF. Range checks
// are left to validation so the user sees the message inline.
type SetMonthlyVolume struct {
	Value float64 `json:"value"`
}

func (SetMonthlyVolume) Type() string { return "set_monthly_volume" }

func (a SetMonthlyVolume) apply(s *models.FormState, _ env) error {
	if math.IsNaN(a.Value) || math.IsInf(a.Value, 0) {
		return invalid("monthly volume must be a number")
	}
	s.TransactionInfo.MonthlyVolume = a.Value
	return nil
}

// ToggleOtherCategory switches between the listed categories and free text.
// Either direction clears a category that belongs to the other mode.
type ToggleOtherCategory struct{}

func (ToggleOtherCategory) Type() string { return "toggle_other_category" }

func (ToggleOtherCategory) apply(s *models.FormState, _ env) error {
	t := &s.TransactionInfo
	t.IsOtherCategory = !t.IsOtherCategory
	listed := strset.Contains(models.AssetCategories, t.AssetCategory)
	if t.IsOtherCategory == listed {
		t.AssetCategory = ""
	}
	return nil
}

// AddBusinessPurpose adds a purpose to the set.
type AddBusinessPurpose struct {
	Purpose string `json:"purpose"`
}

func (AddBusinessPurpose) Type() string { return "add_business_purpose" }

func (a AddBusinessPurpose) apply(s *models.FormState, _ env) error {
	s.TransactionInfo.BusinessPurposes = strset.Add(s.TransactionInfo.BusinessPurposes, a.Purpose)
	return nil
}

// RemoveBusinessPurpose removes a purpose from the set.
type RemoveBusinessPurpose struct {
	Purpose string `json:"purpose"`
}

func (RemoveBusinessPurpose) Type() string { return "remove_business_purpose" }

func (a RemoveBusinessPurpose) apply(s *models.FormState, _ env) error {
	s.TransactionInfo.BusinessPurposes = strset.Remove(s.TransactionInfo.BusinessPurposes, a.Purpose)
	return nil
}

// SetPep answers the PEP question. Yes opens an empty detail record (an
// existing one is kept); no discards it together with the PEP type.
type SetPep struct {
	Value bool `json:"value"`
}

func (SetPep) Type() string { return "set_pep" }

func (a SetPep) apply(s *models.FormState, _ env) error {
	info := &s.SanctionsInfo
	if !a.Value {
		info.Pep = nil
		info.PepType = models.PepTypeNone
		return nil
	}
	if info.Pep == nil {
		info.Pep = &models.PepDetails{}
	}
	return nil
}

// SetPepDetail sets one PEP detail field.
type SetPepDetail struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

func (SetPepDetail) Type() string { return "set_pep_detail" }

func (a SetPepDetail) apply(s *models.FormState, _ env) error {
	pep := s.SanctionsInfo.Pep
	if pep == nil {
		return invalid("PEP details require a PEP declaration")
	}
	target := map[string]*string{
		"pepName":     &pep.Name,
		"pepPosition": &pep.Position,
		"pepCountry":  &pep.Country,
		"pepPeriod":   &pep.Period,
	}[a.Field]
	if target == nil {
		return unknownField("PEP", a.Field)
	}
	*target = a.Value
	return nil
}

// SetPepType narrows the exposure of a declared PEP.
type SetPepType struct {
	PepType models.PepType `json:"pepType"`
}

func (SetPepType) Type() string { return "set_pep_type" }

func (a SetPepType) apply(s *models.FormState, _ env) error {
	if !a.PepType.Valid() {
		return invalid("unknown PEP type %q", a.PepType)
	}
	if s.SanctionsInfo.Pep == nil && a.PepType != models.PepTypeNone {
		return invalid("PEP type requires a PEP declaration")
	}
	s.SanctionsInfo.PepType = a.PepType
	return nil
}

// SetPepRelationship records a close relationship to a PEP.
type SetPepRelationship struct {
	Value bool `json:"value"`
}

func (SetPepRelationship) Type() string { return "set_pep_relationship" }

func (a SetPepRelationship) apply(s *models.FormState, _ env) error {
	s.SanctionsInfo.HasPepRelationship = a.Value
	return nil
}

// SetSanctions answers the sanctioned-country ties question.
type SetSanctions struct {
	Value bool `json:"value"`
}

func (SetSanctions) Type() string { return "set_sanctions" }

func (a SetSanctions) apply(s *models.FormState, _ env) error {
	info := &s.SanctionsInfo
	if !a.Value {
		info.Sanctions = nil
		return nil
	}
	if info.Sanctions == nil {
		info.Sanctions = &models.SanctionsDetails{}
	}
	return nil
}

// SetSanctionsDetail sets one sanctions detail field.
type SetSanctionsDetail struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

func (SetSanctionsDetail) Type() string { return "set_sanctions_detail" }

func (a SetSanctionsDetail) apply(s *models.FormState, _ env) error {
	d := s.SanctionsInfo.Sanctions
	if d == nil {
		return invalid("sanctions details require a sanctions declaration")
	}
	target := map[string]*string{
		"sanctionsName":    &d.Name,
		"sanctionsCountry": &d.Country,
		"sanctionsNature":  &d.Nature,
	}[a.Field]
	if target == nil {
		return unknownField("sanctions", a.Field)
	}
	*target = a.Value
	return nil
}

// AddSanctionedCountry records ties to a country on the sanctions list.
type AddSanctionedCountry struct {
	Country string `json:"country"`
}

func (AddSanctionedCountry) Type() string { return "add_sanctioned_country" }

func (a AddSanctionedCountry) apply(s *models.FormState, _ env) error {
	s.SanctionsInfo.SanctionedCountries = strset.Add(s.SanctionsInfo.SanctionedCountries, a.Country)
	return nil
}

// RemoveSanctionedCountry removes a recorded country.
type RemoveSanctionedCountry struct {
	Country string `json:"country"`
}

func (RemoveSanctionedCountry) Type() string { return "remove_sanctioned_country" }

func (a RemoveSanctionedCountry) apply(s *models.FormState, _ env) error {
	s.SanctionsInfo.SanctionedCountries = strset.Remove(s.SanctionsInfo.SanctionedCountries, a.Country)
	return nil
}
