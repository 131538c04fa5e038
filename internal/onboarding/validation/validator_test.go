package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"onboarding/internal/onboarding/models"
	"onboarding/internal/onboarding/onboardingtest"
)

type ValidatorSuite struct {
	suite.Suite
	v *Validator
}

func TestValidatorSuite(t *testing.T) {
	suite.Run(t, new(ValidatorSuite))
}

func (s *ValidatorSuite) SetupTest() {
	s.v = New(Config{Now: onboardingtest.Clock})
}

// =============================================================================
// Field dispatch
// =============================================================================

func (s *ValidatorSuite) TestRequiredBeforeFormat() {
	s.Equal("Email is required", s.v.Field("email", "", FieldContext{}))
	s.Equal("Please enter a valid email address", s.v.Field("email", "nope", FieldContext{}))
	s.Equal("Postal code is required", s.v.Field("postal", " ", FieldContext{}))
	s.Equal("Please enter a valid Swiss postal code (4 digits, 1000-9999)", s.v.Field("postal", "0999", FieldContext{}))
	s.Equal("Date is required", s.v.Field("dob", "", FieldContext{}))
	s.Equal("Please enter a valid date", s.v.Field("dob", "2030-01-01", FieldContext{}))
	s.Equal("Name must be at least 2 characters long", s.v.Field("name", "A", FieldContext{}))
}

func (s *ValidatorSuite) TestOptionalFields() {
	s.Empty(s.v.Field("phone", "", FieldContext{}))
	s.NotEmpty(s.v.Field("phone", "123", FieldContext{}))
	s.Empty(s.v.Field("uid", "", FieldContext{}))
	s.NotEmpty(s.v.Field("uid", "CHE-1", FieldContext{}))
	s.Empty(s.v.Field("exchangeName", "", FieldContext{IsListed: "no"}))
	s.Equal("Exchange name is required when company is listed",
		s.v.Field("exchangeName", "", FieldContext{IsListed: "yes"}))
}

func (s *ValidatorSuite) TestUIDPolicy() {
	strict := New(Config{UIDPolicy: UIDRequired, Now: onboardingtest.Clock})
	s.Equal("UID number is required", strict.Field("uid", "", FieldContext{}))
	s.Empty(strict.Field("uid", "CHE-123.456.789", FieldContext{}))

	_, err := ParseUIDPolicy("sometimes")
	s.Error(err)
	p, err := ParseUIDPolicy("")
	s.NoError(err)
	s.Equal(UIDOptional, p)
}

func (s *ValidatorSuite) TestUnknownFieldFallsBackToRequired() {
	s.Empty(s.v.Field("nickname", "", FieldContext{}))
	s.Equal("This field is required", s.v.Field("nickname", "", FieldContext{Required: true}))
}

func (s *ValidatorSuite) TestMonthlyVolume() {
	s.Equal("Monthly volume is required", s.v.Volume(0))
	s.Equal("Please enter a valid positive number", s.v.Volume(-10))
	s.Equal("Monthly volume must be between 0 and 1,000,000,000 CHF", s.v.Volume(1_000_000_001))
	s.Empty(s.v.Volume(1_000_000_000))
	s.Equal("Please enter a valid positive number", s.v.Field("monthlyVolume", "lots", FieldContext{}))
	s.Empty(s.v.Field("monthlyVolume", "1500.50", FieldContext{}))
}

func (s *ValidatorSuite) TestVideoDate() {
	video := FieldContext{VerificationMethod: models.VerificationVideo}
	s.Empty(s.v.Field("videoDate", "", FieldContext{VerificationMethod: models.VerificationOffice}))
	s.Equal("Please select a date for the video call", s.v.Field("videoDate", "", video))
	s.NotEmpty(s.v.Field("videoDate", "2025-03-10", video), "today is too early")
	s.Empty(s.v.Field("videoDate", "2025-03-11", video))
	s.Empty(s.v.Field("videoDate", "2025-04-10", video))
	s.NotEmpty(s.v.Field("videoDate", "2025-04-11", video))
	s.NotEmpty(s.v.Field("videoTime", "12:00", video))
	s.Empty(s.v.Field("videoTime", "13:30", video))
}

// =============================================================================
// Whole form
// =============================================================================

func (s *ValidatorSuite) TestFixturesAreValid() {
	for name, form := range map[string]models.FormState{
		"swiss llc":   onboardingtest.SwissLLC(),
		"swiss sole":  onboardingtest.SwissSole(),
		"foreign pep": onboardingtest.ForeignPEP(),
	} {
		s.Run(name, func() {
			errs := s.v.Form(form)
			s.Empty(errs, errs.Messages())
		})
	}
}

func (s *ValidatorSuite) TestValidationDoesNotMutate() {
	form := onboardingtest.SwissLLC()
	form.CompanyInfo.Email = ""
	before := form.Clone()
	_ = s.v.Form(form)
	s.Equal(before, form)
}

func (s *ValidatorSuite) TestEmptyFormReportsEverySection() {
	errs := s.v.Form(models.New("p1"))
	for _, path := range []string{
		"clientType",
		"companyInfo.email",
		"establishingPersons.0.name",
		"establishingPersons.0.iddoc",
		"beneficialOwners",
		"businessActivity.mainCountries",
		"transactionInfo.monthlyVolume",
		"termsInfo",
		"verificationInfo.verificationMethod",
	} {
		s.Contains(errs, path)
	}
}

func (s *ValidatorSuite) TestSoleOwnerNeedsNoBeneficialOwners() {
	form := onboardingtest.SwissSole()
	errs, err := s.v.Step(form, models.StepBeneficial)
	s.Require().NoError(err)
	s.Empty(errs)

	form.BeneficialInfo.IsSoleOwner = false
	errs, err = s.v.Step(form, models.StepBeneficial)
	s.Require().NoError(err)
	s.Equal("At least one beneficial owner is required", errs["beneficialOwners"])
}

func (s *ValidatorSuite) TestControllingFallsBackToManagingDirector() {
	form := onboardingtest.SwissLLC()
	form.ControllingInfo = models.ControllingInfo{}
	errs, err := s.v.Step(form, models.StepControlling)
	s.Require().NoError(err)
	s.Contains(errs, "managingDirector.firstName")
	s.NotContains(errs, "controllingPersons")

	form.ControllingInfo.InOtherWay = true
	errs, err = s.v.Step(form, models.StepControlling)
	s.Require().NoError(err)
	s.Equal("At least one controlling person is required", errs["controllingPersons"])
}

func (s *ValidatorSuite) TestPepDetailsRequiredOnlyWhenDeclared() {
	form := onboardingtest.SwissLLC()
	errs, _ := s.v.Step(form, models.StepSanctions)
	s.Empty(errs)

	form.SanctionsInfo.Pep = &models.PepDetails{}
	form.SanctionsInfo.Sanctions = &models.SanctionsDetails{Name: "X"}
	errs, _ = s.v.Step(form, models.StepSanctions)
	s.Contains(errs, "sanctionsInfo.pepName")
	s.Contains(errs, "sanctionsInfo.pepType")
	s.Contains(errs, "sanctionsInfo.sanctionsCountry")
	s.NotContains(errs, "sanctionsInfo.sanctionsName")
}

func (s *ValidatorSuite) TestEntityDocuments() {
	form := onboardingtest.SwissLLC()
	form.EntityInfo.RegisterFile = nil
	form.EntityInfo.ArticlesFile = &models.FileRef{Name: "articles.gif", Size: 10, ContentType: "image/gif"}
	errs, _ := s.v.Step(form, models.StepEntityInfo)
	s.Equal("Commercial register extract is required", errs["entityInfo.registerFile"])
	s.Equal("Only PDF, JPG, and PNG files are allowed", errs["entityInfo.articlesFile"])
}

func (s *ValidatorSuite) TestPowerOfAttorneyRequiredForPOASignatories() {
	form := onboardingtest.SwissLLC()
	form.EstablishingPersons[0].Authorization = models.AuthorizationPOA
	errs, _ := s.v.Step(form, models.StepEstablishingPersons)
	s.Equal("Power of attorney document is required", errs["establishingPersons.0.poa"])
}

func (s *ValidatorSuite) TestForeignClientsSkipSwissAddressFormats() {
	form := onboardingtest.ForeignPEP()
	errs, _ := s.v.Step(form, models.StepGeneralInfo)
	s.Empty(errs)

	form.ClientType = models.ClientTypeSwissLLC
	errs, _ = s.v.Step(form, models.StepGeneralInfo)
	s.Contains(errs, "companyInfo.postal")
	s.Contains(errs, "companyInfo.canton")
}

func (s *ValidatorSuite) TestAdditionalDocumentsAcceptWord() {
	form := onboardingtest.SwissLLC()
	form.AdditionalInfo.BusinessPlan = &models.FileRef{Name: "plan.docx", Size: 100}
	form.AdditionalInfo.LicensesPermits = &models.FileRef{Name: "licence.txt", Size: 100, ContentType: "text/plain"}
	errs, _ := s.v.Step(form, models.StepAdditional)
	s.NotContains(errs, "additionalInfo.businessPlan")
	s.Equal("Only PDF, JPG, PNG, DOC, and DOCX files are allowed", errs["additionalInfo.licensesPermits"])
}

func (s *ValidatorSuite) TestUnknownStep() {
	_, err := s.v.Step(models.New("p"), 99)
	s.Error(err)
}

func TestFileSizeLimit(t *testing.T) {
	f := &models.FileRef{Name: "big.pdf", Size: DefaultMaxFileSize + 1, ContentType: "application/pdf"}
	assert.Equal(t, "File size must be less than 10MB", File(f, 0, FileDocument))
	assert.Equal(t, "File size must be less than 2MB", File(f, 2<<20, FileDocument))
	assert.Empty(t, File(nil, 0, FileDocument))
	assert.Equal(t, "ID document is required", RequiredFile("iddoc", nil, 0))
}

func TestContentTypeOf(t *testing.T) {
	assert.Equal(t, "application/pdf", ContentTypeOf(&models.FileRef{ContentType: "Application/PDF; charset=binary"}))
	assert.Equal(t, "image/jpeg", ContentTypeOf(&models.FileRef{Name: "scan.JPEG"}))
	assert.Empty(t, ContentTypeOf(nil))
}

func TestErrorLabels(t *testing.T) {
	errs := Errors{
		"companyInfo.email":           "Email is required",
		"beneficialOwners.1.dob":      "Date is required",
		"additionalInfo.businessPlan": "Only PDF, JPG, PNG, DOC, and DOCX files are allowed",
		"somethingElse":               "x",
	}
	require.Len(t, errs.Messages(), 4)
	assert.Equal(t, "Email: Email is required", errs.Label("companyInfo.email"))
	assert.Equal(t, "Beneficial Owner 2 Date of Birth: Date is required", errs.Label("beneficialOwners.1.dob"))
	assert.Equal(t, "Additional Document (businessPlan)", FieldLabel("additionalInfo.businessPlan"))
	assert.Equal(t, "somethingElse: x", errs.Label("somethingElse"))
	assert.Equal(t, []string{"additionalInfo.businessPlan", "beneficialOwners.1.dob", "companyInfo.email", "somethingElse"}, errs.Paths())
}
