package models

// PepType narrows the kind of political exposure.
type PepType string

const (
	PepTypeNone          PepType = ""
	PepTypeDomestic      PepType = "domestic"
	PepTypeForeign       PepType = "foreign"
	PepTypeInternational PepType = "international"
)

func (p PepType) Valid() bool {
	switch p {
	case PepTypeNone, PepTypeDomestic, PepTypeForeign, PepTypeInternational:
		return true
	default:
		return false
	}
}

// PepDetails exists only while the client declared political exposure.
type PepDetails struct {
	Name     string `json:"pepName"`
	Position string `json:"pepPosition"`
	Country  string `json:"pepCountry"`
	Period   string `json:"pepPeriod"`
}

// SanctionsDetails exists only while the client declared ties to a
// sanctioned country.
type SanctionsDetails struct {
	Name    string `json:"sanctionsName"`
	Country string `json:"sanctionsCountry"`
	Nature  string `json:"sanctionsNature"`
}

// SanctionsInfo is the PEP and sanctions section.
//
// The yes/no answers are carried by the presence of the detail variants: a
// nil Pep means "not a PEP", so the detail fields cannot exist (or be
// required) without the answer that makes them relevant.
type SanctionsInfo struct {
	Pep                 *PepDetails       `json:"pep,omitempty"`
	Sanctions           *SanctionsDetails `json:"sanctions,omitempty"`
	PepType             PepType           `json:"pepType,omitempty"`
	HasPepRelationship  bool              `json:"hasPepRelationship"`
	SanctionedCountries []string          `json:"sanctionedCountries"`
}

// IsPep reports whether the client declared political exposure.
func (s SanctionsInfo) IsPep() bool {
	return s.Pep != nil
}

// IsSanctioned reports whether the client declared sanctioned-country ties.
func (s SanctionsInfo) IsSanctioned() bool {
	return s.Sanctions != nil
}

// PepName returns the declared PEP name or "".
func (s SanctionsInfo) PepName() string {
	if s.Pep == nil {
		return ""
	}
	return s.Pep.Name
}

// PepPosition returns the declared PEP position or "".
func (s SanctionsInfo) PepPosition() string {
	if s.Pep == nil {
		return ""
	}
	return s.Pep.Position
}
