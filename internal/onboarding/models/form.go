// Package models defines the onboarding form aggregate.
//
// FormState is owned by a single wizard session. It is treated as a value:
// the state package produces new states from old ones and never mutates a
// state another component may be reading.
package models

import "maps"

const (
	TotalSteps            = 14
	ReviewStep            = 14
	MaxControllingPersons = 4
	MaxBeneficialOwners   = 10
)

// Wizard steps, in order.
const (
	StepClientType = iota + 1
	StepGeneralInfo
	StepEntityInfo
	StepEstablishingPersons
	StepControlling
	StepBeneficial
	StepBusinessActivity
	StepFinancial
	StepTransaction
	StepSanctions
	StepTerms
	StepVerification
	StepAdditional
	StepReview
)

// FormState is the whole onboarding application.
type FormState struct {
	ClientType          ClientType         `json:"clientType"`
	CompanyInfo         CompanyInfo        `json:"companyInfo"`
	SoleProprietorInfo  SoleProprietorInfo `json:"soleProprietorInfo"`
	EntityInfo          EntityInfo         `json:"entityInfo"`
	EstablishingPersons []Person           `json:"establishingPersons"`
	ControllingInfo     ControllingInfo    `json:"controllingInfo"`
	BeneficialInfo      BeneficialInfo     `json:"beneficialInfo"`
	BusinessActivity    BusinessActivity   `json:"businessActivity"`
	FinancialInfo       FinancialInfo      `json:"financialInfo"`
	TransactionInfo     TransactionInfo    `json:"transactionInfo"`
	SanctionsInfo       SanctionsInfo      `json:"sanctionsInfo"`
	TermsInfo           TermsInfo          `json:"termsInfo"`
	VerificationInfo    VerificationInfo   `json:"verificationInfo"`
	AdditionalInfo      AdditionalInfo     `json:"additionalInfo"`
	ValidationErrors    map[string]string  `json:"validationErrors"`
	CurrentStep         int                `json:"currentStep"`
}

// New returns the state a session starts with: one blank establishing
// person (the first one is structurally required) on step one.
func New(firstPersonID string) FormState {
	return FormState{
		EstablishingPersons: []Person{{ID: firstPersonID}},
		ControllingInfo: ControllingInfo{
			ControllingPersons: []ControllingPerson{},
		},
		BeneficialInfo: BeneficialInfo{
			BeneficialOwners: []BeneficialOwner{},
		},
		BusinessActivity: BusinessActivity{MainCountries: []string{}},
		TransactionInfo:  TransactionInfo{BusinessPurposes: []string{}},
		SanctionsInfo:    SanctionsInfo{SanctionedCountries: []string{}},
		ValidationErrors: map[string]string{},
		CurrentStep:      StepClientType,
	}
}

// CustomerName is the name of whoever the client is: the owner for sole
// proprietorships, the company otherwise.
func (f FormState) CustomerName() string {
	if f.ClientType.IsSole() {
		return f.SoleProprietorInfo.OwnerName
	}
	return f.CompanyInfo.Name
}

// CustomerAddress follows the same rule as CustomerName.
func (f FormState) CustomerAddress() string {
	if f.ClientType.IsSole() {
		return f.SoleProprietorInfo.OwnerAddress
	}
	return f.CompanyInfo.Address
}

// EstablishmentDate is the founding date of the authoritative identity.
func (f FormState) EstablishmentDate() string {
	if f.ClientType.IsSole() {
		return f.SoleProprietorInfo.EstablishmentDate
	}
	return f.EntityInfo.IncorporationDate
}

// UID returns the registry number of the authoritative identity section.
// A number left in the other section by an earlier client type is ignored.
func (f FormState) UID() string {
	switch {
	case f.ClientType.IsSole():
		return f.SoleProprietorInfo.UID
	case f.ClientType.RequiresEntityInfo():
		return f.EntityInfo.UID
	default:
		return ""
	}
}

// Clone returns a deep copy. Slices, maps and file pointers are not shared.
func (f FormState) Clone() FormState {
	c := f

	c.EntityInfo.RegisterFile = cloneFile(f.EntityInfo.RegisterFile)
	c.EntityInfo.ArticlesFile = cloneFile(f.EntityInfo.ArticlesFile)

	if f.EstablishingPersons != nil {
		c.EstablishingPersons = make([]Person, len(f.EstablishingPersons))
		for i, p := range f.EstablishingPersons {
			p.IDDocument = cloneFile(p.IDDocument)
			p.PowerOfAttorney = cloneFile(p.PowerOfAttorney)
			c.EstablishingPersons[i] = p
		}
	}

	c.ControllingInfo.ControllingPersons = cloneSlice(f.ControllingInfo.ControllingPersons)
	c.BeneficialInfo.BeneficialOwners = cloneSlice(f.BeneficialInfo.BeneficialOwners)
	c.BusinessActivity.MainCountries = cloneSlice(f.BusinessActivity.MainCountries)
	c.TransactionInfo.BusinessPurposes = cloneSlice(f.TransactionInfo.BusinessPurposes)
	c.SanctionsInfo.SanctionedCountries = cloneSlice(f.SanctionsInfo.SanctionedCountries)

	if f.SanctionsInfo.Pep != nil {
		pep := *f.SanctionsInfo.Pep
		c.SanctionsInfo.Pep = &pep
	}
	if f.SanctionsInfo.Sanctions != nil {
		sanctions := *f.SanctionsInfo.Sanctions
		c.SanctionsInfo.Sanctions = &sanctions
	}

	c.AdditionalInfo = AdditionalInfo{
		FinancialStatements: cloneFile(f.AdditionalInfo.FinancialStatements),
		BusinessPlan:        cloneFile(f.AdditionalInfo.BusinessPlan),
		LicensesPermits:     cloneFile(f.AdditionalInfo.LicensesPermits),
		SupportingDocuments: cloneFile(f.AdditionalInfo.SupportingDocuments),
	}

	if f.ValidationErrors != nil {
		c.ValidationErrors = maps.Clone(f.ValidationErrors)
	}
	return c
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}
