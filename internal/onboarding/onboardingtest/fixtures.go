// Package onboardingtest provides complete, valid onboarding forms for tests.
package onboardingtest

import (
	"time"

	"onboarding/internal/onboarding/models"
)

// Now is the clock every fixture is valid against.
var Now = time.Date(2025, time.March, 10, 9, 30, 0, 0, time.UTC)

// Clock returns Now.
func Clock() time.Time {
	return Now
}

// File returns an uploaded PDF reference.
func File(name string) *models.FileRef {
	return &models.FileRef{ID: "file-" + name, Name: name, Size: 2048, ContentType: "application/pdf"}
}

// SwissLLC returns a form that passes every rule for a Swiss limited company
// with one controlling person and one beneficial owner.
func SwissLLC() models.FormState {
	s := models.New("person-1")
	s.ClientType = models.ClientTypeSwissLLC
	s.CompanyInfo = models.CompanyInfo{
		Name:     "Centi Test AG",
		Address:  "Bahnhofstrasse 1",
		Postal:   "8001",
		City:     "Zürich",
		Canton:   "ZH",
		Phone:    "+41 44 123 45 67",
		Email:    "info@centi-test.ch",
		Industry: "payment_service_provider",
	}
	s.EntityInfo = models.EntityInfo{
		UID:               "CHE-123.456.789",
		IncorporationDate: "2015-06-01",
		Purpose:           "Provision of payment services to merchants",
		IsListed:          "no",
		RegisterFile:      File("register.pdf"),
		ArticlesFile:      File("articles.pdf"),
	}
	s.EstablishingPersons = []models.Person{{
		ID:            "person-1",
		Name:          "Anna Muster",
		Address:       "Seestrasse 10",
		Postal:        "8002",
		City:          "Zürich",
		Country:       "Switzerland",
		Dob:           "1980-04-15",
		Nationality:   "Swiss",
		Authorization: models.AuthorizationIndividual,
		IDDocument:    File("passport.pdf"),
	}}
	s.ControllingInfo = models.ControllingInfo{
		Is25Percent: true,
		ControllingPersons: []models.ControllingPerson{{
			ID:          "cp-1",
			FirstName:   "Max",
			LastName:    "Muster",
			Dob:         "1975-01-20",
			Nationality: "Swiss",
			Address:     "Seestrasse 12",
			Postal:      "8002",
			City:        "Zürich",
			Country:     "Switzerland",
		}},
	}
	s.BeneficialInfo = models.BeneficialInfo{
		BeneficialOwners: []models.BeneficialOwner{{
			ID:           "bo-1",
			FirstName:    "Max",
			LastName:     "Muster",
			Dob:          "1975-01-20",
			Nationality:  "Swiss",
			Address:      "Seestrasse 12, 8002 Zürich",
			Relationship: models.RelationshipBusinessPartner,
		}},
	}
	s.BusinessActivity = models.BusinessActivity{
		ProfessionActivity:  "Payment processing",
		BusinessDescription: "Card acquiring for Swiss online merchants",
		TargetClients:       "Small and medium merchants",
		MainCountries:       []string{"Switzerland", "Germany"},
	}
	s.FinancialInfo = models.FinancialInfo{
		AnnualRevenue: "1m-5m",
		TotalAssets:   "500k-2m",
		Liabilities:   "<50k",
	}
	s.TransactionInfo = models.TransactionInfo{
		AssetNature:      "Business revenue",
		AssetOrigin:      "Business operations",
		AssetCategory:    "business",
		MonthlyVolume:    250000,
		BusinessPurposes: []string{"payment_processing"},
	}
	s.TermsInfo = models.TermsInfo{AgreePrivacy: true, AgreeTerms: true, ConfirmTruth: true}
	s.VerificationInfo = models.VerificationInfo{Method: models.VerificationOffice}
	s.CurrentStep = models.ReviewStep
	return s
}

// SwissSole returns a valid form for a Swiss sole proprietorship whose owner
// is the sole beneficial owner.
func SwissSole() models.FormState {
	s := SwissLLC()
	s.ClientType = models.ClientTypeSwissSole
	s.CompanyInfo.Name = ""
	s.EntityInfo = models.EntityInfo{}
	s.SoleProprietorInfo = models.SoleProprietorInfo{
		OwnerName:         "Anna Muster",
		OwnerDob:          "1980-04-15",
		OwnerNationality:  "Swiss",
		OwnerAddress:      "Seestrasse 10, 8002 Zürich",
		EstablishmentDate: "2018-09-01",
	}
	s.ControllingInfo = models.ControllingInfo{ControllingPersons: []models.ControllingPerson{}}
	s.BeneficialInfo = models.BeneficialInfo{IsSoleOwner: true, BeneficialOwners: []models.BeneficialOwner{}}
	return s
}

// ForeignPEP returns a valid foreign limited company whose signatory is a
// foreign politically exposed person.
func ForeignPEP() models.FormState {
	s := SwissLLC()
	s.ClientType = models.ClientTypeForeignLLC
	s.CompanyInfo.Canton = ""
	s.CompanyInfo.Postal = "10115"
	s.CompanyInfo.City = "Berlin"
	s.CompanyInfo.Phone = ""
	s.SanctionsInfo.Pep = &models.PepDetails{
		Name:     "Anna Muster",
		Position: "Member of Parliament",
		Country:  "Germany",
		Period:   "2015-2020",
	}
	s.SanctionsInfo.PepType = models.PepTypeForeign
	return s
}
