package models

// CompanyInfo is the identity and contact section for entities.
type CompanyInfo struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	Postal   string `json:"postal"`
	City     string `json:"city"`
	Canton   string `json:"canton"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Industry string `json:"industry"`
}

// SoleProprietorInfo is the identity section for sole proprietorships.
type SoleProprietorInfo struct {
	OwnerName         string `json:"ownerName"`
	OwnerDob          string `json:"ownerDob"`
	OwnerNationality  string `json:"ownerNationality"`
	OwnerAddress      string `json:"ownerAddress"`
	UID               string `json:"uid"`
	EstablishmentDate string `json:"establishmentDate"`
}

// EntityInfo holds incorporation metadata. The document slots are the only
// source of the "was it uploaded" flags.
type EntityInfo struct {
	UID               string   `json:"uid"`
	IncorporationDate string   `json:"incorporationDate"`
	Purpose           string   `json:"purpose"`
	IsListed          string   `json:"isListed"`
	ExchangeName      string   `json:"exchangeName"`
	RegisterFile      *FileRef `json:"registerFile,omitempty"`
	ArticlesFile      *FileRef `json:"articlesFile,omitempty"`
}

// HasRegisterExtract is derived from the register extract slot.
func (e EntityInfo) HasRegisterExtract() bool {
	return e.RegisterFile != nil
}

// HasArticlesOfAssociation is derived from the articles slot.
func (e EntityInfo) HasArticlesOfAssociation() bool {
	return e.ArticlesFile != nil
}

// Listed reports whether the entity declared a stock exchange listing.
func (e EntityInfo) Listed() bool {
	return e.IsListed == "yes"
}

// ControllingInfo captures Form-K control data. ControllingPersons is only
// meaningful when at least one gating flag is set; otherwise the managing
// director stands in as the controlling person.
type ControllingInfo struct {
	Is25Percent        bool                `json:"is25Percent"`
	InOtherWay         bool                `json:"inOtherWay"`
	ControllingPersons []ControllingPerson `json:"controllingPersons"`
	ManagingDirector   ManagingDirector    `json:"managingDirector"`
}

// Gated reports whether either gating question was answered yes.
func (c ControllingInfo) Gated() bool {
	return c.Is25Percent || c.InOtherWay
}

// BeneficialInfo captures beneficial ownership.
type BeneficialInfo struct {
	IsSoleOwner      bool              `json:"isSoleOwner"`
	BeneficialOwners []BeneficialOwner `json:"beneficialOwners"`
}

// Owners returns the effective beneficial owners: none while the client is
// the sole owner, regardless of what the slice holds.
func (b BeneficialInfo) Owners() []BeneficialOwner {
	if b.IsSoleOwner {
		return nil
	}
	return b.BeneficialOwners
}

// BusinessActivity describes what the client does and where.
type BusinessActivity struct {
	ProfessionActivity  string   `json:"professionActivity"`
	BusinessDescription string   `json:"businessDescription"`
	TargetClients       string   `json:"targetClients"`
	MainCountries       []string `json:"mainCountries"`
}

// FinancialInfo holds range selections, not amounts.
type FinancialInfo struct {
	AnnualRevenue string `json:"annualRevenue"`
	TotalAssets   string `json:"totalAssets"`
	Liabilities   string `json:"liabilities"`
}

// TransactionInfo describes the expected flow of assets.
type TransactionInfo struct {
	AssetNature      string   `json:"assetNature"`
	AssetOrigin      string   `json:"assetOrigin"`
	AssetCategory    string   `json:"assetCategory"`
	IsOtherCategory  bool     `json:"isOtherCategory"`
	MonthlyVolume    float64  `json:"monthlyVolume"`
	BusinessPurposes []string `json:"businessPurposes"`
}

// TermsInfo holds the three declarations that gate submission.
type TermsInfo struct {
	AgreePrivacy bool `json:"agreePrivacy"`
	AgreeTerms   bool `json:"agreeTerms"`
	ConfirmTruth bool `json:"confirmTruth"`
}

// AllAccepted reports whether every declaration was accepted.
func (t TermsInfo) AllAccepted() bool {
	return t.AgreePrivacy && t.AgreeTerms && t.ConfirmTruth
}

// VerificationMethod is how the client's identity is verified in person.
type VerificationMethod string

const (
	VerificationOffice     VerificationMethod = "office"
	VerificationClientSite VerificationMethod = "client_site"
	VerificationVideo      VerificationMethod = "video"
)

func (m VerificationMethod) Valid() bool {
	switch m {
	case VerificationOffice, VerificationClientSite, VerificationVideo:
		return true
	default:
		return false
	}
}

// VerificationInfo holds the chosen method and, for video, the appointment.
type VerificationInfo struct {
	Method    VerificationMethod `json:"verificationMethod"`
	VideoDate string             `json:"videoDate"`
	VideoTime string             `json:"videoTime"`
}

// AdditionalSlot names one of the optional upload slots. The names double as
// the multipart field names expected by the rendering backend.
type AdditionalSlot string

const (
	SlotFinancialStatements AdditionalSlot = "financialStatements"
	SlotBusinessPlan        AdditionalSlot = "businessPlan"
	SlotLicensesPermits     AdditionalSlot = "licensesPermits"
	SlotSupportingDocuments AdditionalSlot = "supportingDocuments"
)

// AdditionalSlots lists the slots in display and upload order.
var AdditionalSlots = []AdditionalSlot{
	SlotFinancialStatements,
	SlotBusinessPlan,
	SlotLicensesPermits,
	SlotSupportingDocuments,
}

func (s AdditionalSlot) Valid() bool {
	for _, slot := range AdditionalSlots {
		if slot == s {
			return true
		}
	}
	return false
}

// AdditionalInfo holds up to four optional uploads.
type AdditionalInfo struct {
	FinancialStatements *FileRef `json:"financialStatements,omitempty"`
	BusinessPlan        *FileRef `json:"businessPlan,omitempty"`
	LicensesPermits     *FileRef `json:"licensesPermits,omitempty"`
	SupportingDocuments *FileRef `json:"supportingDocuments,omitempty"`
}

// Get returns the file in slot, or nil.
func (a AdditionalInfo) Get(slot AdditionalSlot) *FileRef {
	switch slot {
	case SlotFinancialStatements:
		return a.FinancialStatements
	case SlotBusinessPlan:
		return a.BusinessPlan
	case SlotLicensesPermits:
		return a.LicensesPermits
	case SlotSupportingDocuments:
		return a.SupportingDocuments
	default:
		return nil
	}
}

// Set stores f in slot. Unknown slots are ignored.
func (a *AdditionalInfo) Set(slot AdditionalSlot, f *FileRef) {
	switch slot {
	case SlotFinancialStatements:
		a.FinancialStatements = f
	case SlotBusinessPlan:
		a.BusinessPlan = f
	case SlotLicensesPermits:
		a.LicensesPermits = f
	case SlotSupportingDocuments:
		a.SupportingDocuments = f
	}
}
