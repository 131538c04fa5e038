package mapping

import (
	"strings"
	"time"

	"onboarding/internal/onboarding/models"
	"onboarding/internal/onboarding/risk"
)

// Metadata identifies the financial intermediary filing the documents.
type Metadata struct {
	MemberNumber string `json:"vqfMemberNumber"`
	CompletedBy  string `json:"completedBy"`
	Language     string `json:"language"`
}

// DefaultMetadata is the intermediary the documents are filed for unless
// configured otherwise.
var DefaultMetadata = Metadata{
	MemberNumber: "100809",
	CompletedBy:  "Bernhard Frank Müller Hug",
	Language:     "en",
}

// Identification is the 902.1e view of the client.
type Identification struct {
	CustomerName      string `json:"customerName"`
	CustomerType      string `json:"customerType"`
	UID               string `json:"uid"`
	Address           string `json:"address"`
	PostalCode        string `json:"postalCode"`
	City              string `json:"city"`
	Country           string `json:"country"`
	EstablishmentDate string `json:"establishmentDate"`
	Purpose           string `json:"purpose"`
	IsListed          string `json:"isListed"`
	ExchangeName      string `json:"exchangeName"`
	OwnerName         string `json:"ownerName"`
	OwnerDob          string `json:"ownerDob"`
	OwnerNationality  string `json:"ownerNationality"`
	OwnerAddress      string `json:"ownerAddress"`
}

// RiskProfile is the 902.4e view.
type RiskProfile struct {
	ForeignPEP              bool   `json:"foreignPEP"`
	DomesticPEP             bool   `json:"domesticPEP"`
	HighRiskCountry         bool   `json:"highRiskCountry"`
	SeniorExecutiveDecision string `json:"seniorExecutiveDecision"`
	DecisionDate            string `json:"decisionDate"`
}

// CustomerProfile is the 902.5e view.
type CustomerProfile struct {
	BusinessActivity     string     `json:"businessActivity"`
	Industry             string     `json:"industry"`
	ExpectedTransactions string     `json:"expectedTransactions"`
	ExpectedVolume       string     `json:"expectedVolume"`
	SourceOfFunds        string     `json:"sourceOfFunds"`
	RiskLevel            risk.Level `json:"riskLevel"`
}

// PersonRow is one line of a Form-A person table.
type PersonRow struct {
	Name        string `json:"name"`
	Address     string `json:"address"`
	Postal      string `json:"postal"`
	City        string `json:"city"`
	Country     string `json:"country"`
	Dob         string `json:"dob"`
	Nationality string `json:"nationality"`

	// Authorization is set for establishing persons, Ownership for the rest.
	Authorization string `json:"authorization,omitempty"`
	Ownership     string `json:"ownership,omitempty"`
}

func (p PersonRow) row() map[string]string {
	r := map[string]string{
		"name":        Blank(p.Name),
		"address":     Blank(p.Address),
		"postal":      Blank(p.Postal),
		"city":        Blank(p.City),
		"country":     Blank(p.Country),
		"dob":         Blank(p.Dob),
		"nationality": Blank(p.Nationality),
	}
	if p.Authorization != "" {
		r["authorization"] = p.Authorization
	}
	if p.Ownership != "" {
		r["ownership"] = p.Ownership
	}
	return r
}

// FormA is the 902.9e view.
type FormA struct {
	EstablishingPersons []PersonRow `json:"establishingPersons"`
	ControllingPersons  []PersonRow `json:"controllingPersons"`
	BeneficialOwners    []PersonRow `json:"beneficialOwners"`

	// SoleOwnership is "100%" when the client is its own beneficial owner;
	// the owner table is empty in that case.
	SoleOwnership    string `json:"soleOwnership"`
	ManagingDirector string `json:"managingDirector"`
}

// FinancialInformation is the financial half of Form-K.
type FinancialInformation struct {
	AnnualRevenue string `json:"annualRevenue"`
	Assets        string `json:"assets"`
	Liabilities   string `json:"liabilities"`
	NetWorth      string `json:"netWorth"`
}

// TransactionProfile is the transaction half of Form-K.
type TransactionProfile struct {
	TypicalTransactionSize string `json:"typicalTransactionSize"`
	Frequency              string `json:"frequency"`
	Purpose                string `json:"purpose"`
	Counterparties         string `json:"counterparties"`
}

// FormK is the 902.11e view.
type FormK struct {
	FinancialInformation FinancialInformation `json:"financialInformation"`
	TransactionProfile   TransactionProfile   `json:"transactionProfile"`
}

// DocumentMetadata stamps every document.
type DocumentMetadata struct {
	SubmissionDate string `json:"submissionDate"`
	MemberNumber   string `json:"vqfMemberNumber"`
	AMLAFileNumber string `json:"amlaFileNumber"`
	CompletedBy    string `json:"completedBy"`
	Language       string `json:"language"`
}

// VQF is the structured document data shared by every template.
type VQF struct {
	Identification  Identification   `json:"identification"`
	RiskProfile     RiskProfile      `json:"riskProfile"`
	CustomerProfile CustomerProfile  `json:"customerProfile"`
	FormA           FormA            `json:"formA"`
	FormK           FormK            `json:"formK"`
	Metadata        DocumentMetadata `json:"metadata"`
}

// BuildVQF assembles the document data for s as of now.
func BuildVQF(s models.FormState, now time.Time, meta Metadata) VQF {
	sole := s.ClientType.IsSole()
	info := s.SanctionsInfo
	today := gbDay(now)

	seniorDecision := "n.a.- not needed"
	if info.IsPep() {
		seniorDecision = "Approved"
	}

	isListed := s.EntityInfo.IsListed
	if isListed == "" {
		isListed = "no"
	}

	establishing := make([]PersonRow, 0, len(s.EstablishingPersons))
	for _, p := range s.EstablishingPersons {
		establishing = append(establishing, PersonRow{
			Name:          p.Name,
			Address:       p.Address,
			Postal:        p.Postal,
			City:          p.City,
			Country:       p.Country,
			Dob:           GBDate(p.Dob),
			Nationality:   p.Nationality,
			Authorization: p.Authorization.Label(),
		})
	}

	controlOwnership := "Less than 25%"
	if s.ControllingInfo.Is25Percent {
		controlOwnership = "25% or more"
	}
	var controlling []PersonRow
	if s.ControllingInfo.Gated() {
		for _, p := range s.ControllingInfo.ControllingPersons {
			controlling = append(controlling, PersonRow{
				Name:        p.FullName(),
				Address:     p.Address,
				Postal:      p.Postal,
				City:        p.City,
				Country:     p.Country,
				Dob:         GBDate(p.Dob),
				Nationality: p.Nationality,
				Ownership:   controlOwnership,
			})
		}
	}

	var owners []PersonRow
	for _, o := range s.BeneficialInfo.Owners() {
		owners = append(owners, PersonRow{
			Name:        o.FullName(),
			Address:     o.Address,
			Dob:         GBDate(o.Dob),
			Nationality: o.Nationality,
			Ownership:   string(o.Relationship),
		})
	}

	var soleOwnership string
	if s.BeneficialInfo.IsSoleOwner {
		soleOwnership = "100%"
	}
	var managingDirector string
	if !s.ControllingInfo.Gated() {
		managingDirector = s.ControllingInfo.ManagingDirector.FullName()
	}

	v := VQF{
		Identification: Identification{
			CustomerName:      s.CustomerName(),
			CustomerType:      s.ClientType.Label(),
			UID:               s.UID(),
			Address:           s.CustomerAddress(),
			PostalCode:        s.CompanyInfo.Postal,
			City:              s.CompanyInfo.City,
			Country:           s.CompanyInfo.Canton,
			EstablishmentDate: GBDate(s.EstablishmentDate()),
			Purpose:           s.EntityInfo.Purpose,
			IsListed:          isListed,
			ExchangeName:      s.EntityInfo.ExchangeName,
		},
		RiskProfile: RiskProfile{
			ForeignPEP:              info.IsPep() && info.PepType == models.PepTypeForeign,
			DomesticPEP:             info.IsPep() && info.PepType == models.PepTypeDomestic,
			HighRiskCountry:         len(info.SanctionedCountries) > 0,
			SeniorExecutiveDecision: seniorDecision,
			DecisionDate:            today,
		},
		CustomerProfile: CustomerProfile{
			BusinessActivity:     s.BusinessActivity.ProfessionActivity,
			Industry:             industry(s),
			ExpectedTransactions: s.TransactionInfo.AssetNature,
			ExpectedVolume:       CHF(s.TransactionInfo.MonthlyVolume),
			SourceOfFunds:        s.TransactionInfo.AssetOrigin,
			RiskLevel:            risk.LevelOf(s),
		},
		FormA: FormA{
			EstablishingPersons: establishing,
			ControllingPersons:  controlling,
			BeneficialOwners:    owners,
			SoleOwnership:       soleOwnership,
			ManagingDirector:    managingDirector,
		},
		FormK: FormK{
			FinancialInformation: FinancialInformation{
				AnnualRevenue: models.OptionLabel(models.RevenueRanges, s.FinancialInfo.AnnualRevenue),
				Assets:        models.OptionLabel(models.AssetRanges, s.FinancialInfo.TotalAssets),
				Liabilities:   models.OptionLabel(models.LiabilityRanges, s.FinancialInfo.Liabilities),
			},
			TransactionProfile: TransactionProfile{
				TypicalTransactionSize: CHF(s.TransactionInfo.MonthlyVolume),
				Frequency:              s.TransactionInfo.AssetCategory,
				Purpose:                purposes(s.TransactionInfo.BusinessPurposes),
				Counterparties:         s.BusinessActivity.TargetClients,
			},
		},
		Metadata: DocumentMetadata{
			SubmissionDate: today,
			MemberNumber:   meta.MemberNumber,
			CompletedBy:    meta.CompletedBy,
			Language:       meta.Language,
		},
	}
	if sole {
		p := s.SoleProprietorInfo
		v.Identification.OwnerName = p.OwnerName
		v.Identification.OwnerDob = GBDate(p.OwnerDob)
		v.Identification.OwnerNationality = p.OwnerNationality
		v.Identification.OwnerAddress = p.OwnerAddress
	}
	return v
}

func industry(s models.FormState) string {
	if s.CompanyInfo.Industry == "" {
		return s.BusinessActivity.BusinessDescription
	}
	return models.OptionLabel(models.Industries, s.CompanyInfo.Industry)
}

func purposes(values []string) string {
	labels := make([]string, len(values))
	for i, v := range values {
		labels[i] = models.OptionLabel(models.BusinessPurposes, v)
	}
	return strings.Join(labels, ", ")
}

// DocumentData flattens the document data into template placeholders.
// Person tables stay lists of rows.
func (v VQF) DocumentData() map[string]any {
	id, rp, cp := v.Identification, v.RiskProfile, v.CustomerProfile
	fk, md := v.FormK, v.Metadata
	return map[string]any{
		"customerName":      id.CustomerName,
		"customerType":      id.CustomerType,
		"uid":               id.UID,
		"address":           id.Address,
		"postalCode":        id.PostalCode,
		"city":              id.City,
		"country":           id.Country,
		"establishmentDate": id.EstablishmentDate,
		"purpose":           id.Purpose,
		"isListed":          id.IsListed,
		"exchangeName":      id.ExchangeName,
		"ownerName":         id.OwnerName,
		"ownerDob":          id.OwnerDob,
		"ownerNationality":  id.OwnerNationality,
		"ownerAddress":      id.OwnerAddress,

		"foreignPEP":              YesNo(rp.ForeignPEP),
		"domesticPEP":             YesNo(rp.DomesticPEP),
		"highRiskCountry":         YesNo(rp.HighRiskCountry),
		"seniorExecutiveDecision": rp.SeniorExecutiveDecision,
		"decisionDate":            rp.DecisionDate,

		"businessActivity":     cp.BusinessActivity,
		"industry":             cp.Industry,
		"expectedTransactions": cp.ExpectedTransactions,
		"expectedVolume":       cp.ExpectedVolume,
		"sourceOfFunds":        cp.SourceOfFunds,
		"riskLevel":            string(cp.RiskLevel),

		"establishingPersons": rows(v.FormA.EstablishingPersons),
		"controllingPersons":  rows(v.FormA.ControllingPersons),
		"beneficialOwners":    rows(v.FormA.BeneficialOwners),
		"soleOwnership":       v.FormA.SoleOwnership,
		"managingDirector":    v.FormA.ManagingDirector,

		"annualRevenue":          fk.FinancialInformation.AnnualRevenue,
		"assets":                 fk.FinancialInformation.Assets,
		"liabilities":            fk.FinancialInformation.Liabilities,
		"netWorth":               fk.FinancialInformation.NetWorth,
		"typicalTransactionSize": fk.TransactionProfile.TypicalTransactionSize,
		"frequency":              fk.TransactionProfile.Frequency,
		"transactionPurpose":     fk.TransactionProfile.Purpose,
		"counterparties":         fk.TransactionProfile.Counterparties,

		"submissionDate":  md.SubmissionDate,
		"vqfMemberNumber": md.MemberNumber,
		"amlaFileNumber":  md.AMLAFileNumber,
		"completedBy":     md.CompletedBy,
		"language":        md.Language,
	}
}

func rows(people []PersonRow) []map[string]string {
	out := make([]map[string]string, len(people))
	for i, p := range people {
		out[i] = p.row()
	}
	return out
}

// CheckVQF runs the business checks a filing must pass before any document
// is generated. It returns one message per failed check.
func CheckVQF(v VQF) []string {
	var problems []string
	if strings.TrimSpace(v.Identification.CustomerName) == "" {
		problems = append(problems, "Customer name is required")
	}
	if strings.TrimSpace(v.Identification.Address) == "" {
		problems = append(problems, "Customer address is required")
	}
	if strings.TrimSpace(v.Identification.EstablishmentDate) == "" {
		problems = append(problems, "Establishment date is required")
	}
	if len(v.FormA.EstablishingPersons) == 0 {
		problems = append(problems, "At least one establishing person is required")
	}
	if v.RiskProfile.ForeignPEP && v.RiskProfile.SeniorExecutiveDecision == "" {
		problems = append(problems, "Senior executive decision is required for foreign PEP relationships")
	}
	if v.RiskProfile.HighRiskCountry && v.RiskProfile.SeniorExecutiveDecision == "" {
		problems = append(problems, "Senior executive decision is required for high-risk country relationships")
	}
	return problems
}

// Warnings lists recommended but optional information that is missing.
func Warnings(s models.FormState) []string {
	var out []string
	if s.ClientType.IsSwiss() && s.ClientType.IsEntity() && s.EntityInfo.UID == "" {
		out = append(out, "UID is recommended for Swiss entities")
	}
	if s.FinancialInfo.AnnualRevenue == "" {
		out = append(out, "Annual revenue information is recommended")
	}
	return out
}
