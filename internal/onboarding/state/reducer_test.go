package state

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"onboarding/internal/onboarding/models"
	dErrors "onboarding/pkg/domain-errors"
)

type ReducerSuite struct {
	suite.Suite
	reducer *Reducer
	seq     int
}

func TestReducerSuite(t *testing.T) {
	suite.Run(t, new(ReducerSuite))
}

func (s *ReducerSuite) SetupTest() {
	s.seq = 0
	s.reducer = NewReducer(WithIDGenerator(func() string {
		s.seq++
		return fmt.Sprintf("id-%d", s.seq)
	}))
}

func (s *ReducerSuite) fresh() models.FormState {
	return s.reducer.NewState()
}

func (s *ReducerSuite) reduce(st models.FormState, actions ...Action) models.FormState {
	next, err := s.reducer.Reduce(st, actions...)
	s.Require().NoError(err)
	return next
}

// =============================================================================
// Purity
// =============================================================================

func (s *ReducerSuite) TestInputIsNotMutated() {
	st := s.fresh()
	next := s.reduce(st,
		SetClientType{ClientType: models.ClientTypeSwissLLC},
		SetCompanyField{Field: "name", Value: "Acme AG"},
		AddMainCountry{Country: "CH"},
		SetFieldError{Path: "companyInfo.email", Message: "Email is required"},
	)

	s.Equal(models.ClientType(""), st.ClientType)
	s.Empty(st.CompanyInfo.Name)
	s.Empty(st.BusinessActivity.MainCountries)
	s.Empty(st.ValidationErrors)
	s.Equal("Acme AG", next.CompanyInfo.Name)
	s.Equal([]string{"CH"}, next.BusinessActivity.MainCountries)
}

func (s *ReducerSuite) TestFailingBatchLeavesStateUntouched() {
	st := s.fresh()
	next, err := s.reducer.Reduce(st,
		SetCompanyField{Field: "name", Value: "Acme AG"},
		SetCompanyField{Field: "nickname", Value: "x"},
	)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	s.Empty(next.CompanyInfo.Name)
}

func (s *ReducerSuite) TestNilAction() {
	_, err := s.reducer.Reduce(s.fresh(), nil)
	s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
}

// =============================================================================
// Identity sections
// =============================================================================

func (s *ReducerSuite) TestSetClientType() {
	s.Run("accepts known types", func() {
		next := s.reduce(s.fresh(), SetClientType{ClientType: models.ClientTypeForeignSole})
		s.Equal(models.ClientTypeForeignSole, next.ClientType)
	})
	s.Run("rejects unknown types", func() {
		_, err := s.reducer.Reduce(s.fresh(), SetClientType{ClientType: "trust"})
		s.Error(err)
	})
}

func (s *ReducerSuite) TestUnlistingDropsExchangeName() {
	next := s.reduce(s.fresh(),
		SetEntityField{Field: "isListed", Value: "yes"},
		SetEntityField{Field: "exchangeName", Value: "SIX"},
	)
	s.Equal("SIX", next.EntityInfo.ExchangeName)

	next = s.reduce(next, SetEntityField{Field: "isListed", Value: "no"})
	s.Empty(next.EntityInfo.ExchangeName)
	s.False(next.EntityInfo.Listed())
}

func (s *ReducerSuite) TestEntityFilesDrivePresence() {
	file := &models.FileRef{ID: "f1", Name: "register.pdf", Size: 10, ContentType: "application/pdf"}
	next := s.reduce(s.fresh(), AttachEntityFile{Slot: EntitySlotRegister, File: file})
	s.True(next.EntityInfo.HasRegisterExtract())
	s.False(next.EntityInfo.HasArticlesOfAssociation())

	file.Name = "changed.pdf"
	s.Equal("register.pdf", next.EntityInfo.RegisterFile.Name, "attached file must not alias the caller's")

	next = s.reduce(next, AttachEntityFile{Slot: EntitySlotRegister})
	s.False(next.EntityInfo.HasRegisterExtract())
}

// =============================================================================
// Persons
// =============================================================================

func (s *ReducerSuite) TestEstablishingPersons() {
	st := s.fresh()
	s.Require().Len(st.EstablishingPersons, 1)
	first := st.EstablishingPersons[0].ID

	s.Run("cannot remove the last person", func() {
		_, err := s.reducer.Reduce(st, RemoveEstablishingPerson{ID: first})
		s.Error(err)
	})

	s.Run("add update remove", func() {
		next := s.reduce(st, AddEstablishingPerson{})
		s.Require().Len(next.EstablishingPersons, 2)
		second := next.EstablishingPersons[1].ID

		next = s.reduce(next,
			UpdateEstablishingPerson{ID: second, Field: "name", Value: "Anna Muster"},
			UpdateEstablishingPerson{ID: second, Field: "toa", Value: "collective"},
		)
		s.Equal("Anna Muster", next.EstablishingPersons[1].Name)
		s.Equal(models.AuthorizationCollective, next.EstablishingPersons[1].Authorization)

		next = s.reduce(next, RemoveEstablishingPerson{ID: first})
		s.Require().Len(next.EstablishingPersons, 1)
		s.Equal(second, next.EstablishingPersons[0].ID)
	})

	s.Run("unknown id", func() {
		_, err := s.reducer.Reduce(st, UpdateEstablishingPerson{ID: "missing", Field: "name", Value: "x"})
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("documents", func() {
		next := s.reduce(st, AttachPersonFile{ID: first, Slot: PersonSlotIDDocument, File: &models.FileRef{Name: "id.png"}})
		s.True(next.EstablishingPersons[0].HasIDDocument())
		s.False(next.EstablishingPersons[0].HasPowerOfAttorney())
	})
}

func (s *ReducerSuite) TestControllingPersonsRequireGate() {
	st := s.fresh()
	_, err := s.reducer.Reduce(st, AddControllingPerson{})
	s.Require().Error(err)

	next := s.reduce(st, SetControllingFlag{Flag: FlagIs25Percent, Value: true})
	for range models.MaxControllingPersons {
		next = s.reduce(next, AddControllingPerson{})
	}
	s.Len(next.ControllingInfo.ControllingPersons, models.MaxControllingPersons)

	_, err = s.reducer.Reduce(next, AddControllingPerson{})
	s.Error(err, "fifth controlling person must be rejected")

	next = s.reduce(next, SetControllingFlag{Flag: FlagInOtherWay, Value: true})
	next = s.reduce(next, SetControllingFlag{Flag: FlagIs25Percent, Value: false})
	s.Len(next.ControllingInfo.ControllingPersons, models.MaxControllingPersons, "one gate still open")

	next = s.reduce(next, SetControllingFlag{Flag: FlagInOtherWay, Value: false})
	s.Empty(next.ControllingInfo.ControllingPersons)
}

func (s *ReducerSuite) TestSoleOwnerClearsBeneficialOwners() {
	next := s.reduce(s.fresh(), AddBeneficialOwner{}, AddBeneficialOwner{})
	s.Len(next.BeneficialInfo.BeneficialOwners, 2)

	next = s.reduce(next, SetSoleOwner{Value: true})
	s.Empty(next.BeneficialInfo.BeneficialOwners)
	s.Empty(next.BeneficialInfo.Owners())

	_, err := s.reducer.Reduce(next, AddBeneficialOwner{})
	s.Error(err)
}

func (s *ReducerSuite) TestBeneficialOwnerLimit() {
	next := s.fresh()
	for range models.MaxBeneficialOwners {
		next = s.reduce(next, AddBeneficialOwner{})
	}
	_, err := s.reducer.Reduce(next, AddBeneficialOwner{})
	s.Error(err)

	id := next.BeneficialInfo.BeneficialOwners[3].ID
	next = s.reduce(next,
		UpdateBeneficialOwner{ID: id, Field: "relationship", Value: "spouse"},
		RemoveBeneficialOwner{ID: next.BeneficialInfo.BeneficialOwners[0].ID},
	)
	s.Len(next.BeneficialInfo.BeneficialOwners, models.MaxBeneficialOwners-1)
	s.Equal(models.RelationshipSpouse, next.BeneficialInfo.BeneficialOwners[2].Relationship)
}

// =============================================================================
// Profile sections
// =============================================================================

func (s *ReducerSuite) TestMainCountriesAreAnOrderedSet() {
	next := s.reduce(s.fresh(),
		AddMainCountry{Country: "CH"},
		AddMainCountry{Country: "DE"},
		AddMainCountry{Country: "CH"},
		AddMainCountry{Country: "  "},
	)
	s.Equal([]string{"CH", "DE"}, next.BusinessActivity.MainCountries)

	next = s.reduce(next, RemoveMainCountry{Country: "CH"}, RemoveMainCountry{Country: "FR"})
	s.Equal([]string{"DE"}, next.BusinessActivity.MainCountries)
}

func (s *ReducerSuite) TestOtherCategory() {
	next := s.reduce(s.fresh(), SetTransactionField{Field: "assetCategory", Value: "business"})

	next = s.reduce(next, ToggleOtherCategory{})
	s.True(next.TransactionInfo.IsOtherCategory)
	s.Empty(next.TransactionInfo.AssetCategory)

	next = s.reduce(next, SetTransactionField{Field: "assetCategory", Value: "art collection"})
	s.Equal("art collection", next.TransactionInfo.AssetCategory)

	next = s.reduce(next, ToggleOtherCategory{})
	s.False(next.TransactionInfo.IsOtherCategory)
	s.Empty(next.TransactionInfo.AssetCategory)
}

func (s *ReducerSuite) TestMonthlyVolumeIsStoredForValidation() {
	next := s.reduce(s.fresh(), SetMonthlyVolume{Value: -5})
	s.Equal(-5.0, next.TransactionInfo.MonthlyVolume)
}

func (s *ReducerSuite) TestPepDetailsFollowDeclaration() {
	st := s.fresh()
	_, err := s.reducer.Reduce(st, SetPepDetail{Field: "pepName", Value: "X"})
	s.Require().Error(err)

	next := s.reduce(st,
		SetPep{Value: true},
		SetPepDetail{Field: "pepName", Value: "Jane Doe"},
		SetPepType{PepType: models.PepTypeForeign},
	)
	s.True(next.SanctionsInfo.IsPep())
	s.Equal("Jane Doe", next.SanctionsInfo.PepName())

	again := s.reduce(next, SetPep{Value: true})
	s.Equal("Jane Doe", again.SanctionsInfo.PepName(), "re-answering yes keeps details")

	next = s.reduce(next, SetPep{Value: false})
	s.False(next.SanctionsInfo.IsPep())
	s.Nil(next.SanctionsInfo.Pep)
	s.Equal(models.PepTypeNone, next.SanctionsInfo.PepType)
}

func (s *ReducerSuite) TestSanctionsDetailsFollowDeclaration() {
	next := s.reduce(s.fresh(),
		SetSanctions{Value: true},
		SetSanctionsDetail{Field: "sanctionsCountry", Value: "Iran"},
		AddSanctionedCountry{Country: "Iran"},
	)
	s.Equal("Iran", next.SanctionsInfo.Sanctions.Country)

	next = s.reduce(next, SetSanctions{Value: false})
	s.Nil(next.SanctionsInfo.Sanctions)
	s.Equal([]string{"Iran"}, next.SanctionsInfo.SanctionedCountries)
}

// =============================================================================
// Session
// =============================================================================

func (s *ReducerSuite) TestVerification() {
	next := s.reduce(s.fresh(),
		SetVerificationMethod{Method: models.VerificationVideo},
		SetVideoSlot{Date: "2026-10-20", Time: "10:30"},
	)
	s.Equal("2026-10-20", next.VerificationInfo.VideoDate)

	next = s.reduce(next, SetVerificationMethod{Method: models.VerificationOffice})
	s.Empty(next.VerificationInfo.VideoDate)
	s.Empty(next.VerificationInfo.VideoTime)

	_, err := s.reducer.Reduce(next, SetVideoSlot{Date: "2026-10-20", Time: "10:30"})
	s.Error(err)
}

func (s *ReducerSuite) TestSteps() {
	st := s.fresh()
	s.Equal(models.StepClientType, s.reduce(st, PrevStep{}).CurrentStep)
	s.Equal(models.StepGeneralInfo, s.reduce(st, NextStep{}).CurrentStep)

	last := s.reduce(st, SetCurrentStep{Step: models.ReviewStep}, NextStep{})
	s.Equal(models.ReviewStep, last.CurrentStep)

	for _, step := range []int{0, 15, -1} {
		_, err := s.reducer.Reduce(st, SetCurrentStep{Step: step})
		s.Error(err, "step %d", step)
	}
}

func (s *ReducerSuite) TestValidationErrors() {
	next := s.reduce(s.fresh(),
		SetValidationErrors{Errors: map[string]string{"a": "1", "b": "2"}},
		ClearFieldError{Path: "a"},
		SetFieldError{Path: "c", Message: "3"},
	)
	s.Equal(map[string]string{"b": "2", "c": "3"}, next.ValidationErrors)

	next = s.reduce(next, SetValidationErrors{})
	s.NotNil(next.ValidationErrors)
	s.Empty(next.ValidationErrors)
}

func (s *ReducerSuite) TestReset() {
	next := s.reduce(s.fresh(), SetClientType{ClientType: models.ClientTypeSwissLLC}, NextStep{}, Reset{})
	s.Empty(next.ClientType)
	s.Equal(models.StepClientType, next.CurrentStep)
	s.Len(next.EstablishingPersons, 1)
}

func TestDefaultReducerAssignsIDs(t *testing.T) {
	next, err := Reduce(models.New("first"), AddBeneficialOwner{})
	require.NoError(t, err)
	require.Len(t, next.BeneficialInfo.BeneficialOwners, 1)
	assert.NotEmpty(t, next.BeneficialInfo.BeneficialOwners[0].ID)
}
