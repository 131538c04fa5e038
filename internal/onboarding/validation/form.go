package validation

import (
	"fmt"

	"onboarding/internal/onboarding/models"
)

type stepCheck func(v *Validator, s models.FormState, errs Errors)

var stepChecks = map[int]stepCheck{
	models.StepClientType:          checkClientType,
	models.StepGeneralInfo:         checkGeneralInfo,
	models.StepEntityInfo:          checkEntityInfo,
	models.StepEstablishingPersons: checkEstablishingPersons,
	models.StepControlling:         checkControlling,
	models.StepBeneficial:          checkBeneficial,
	models.StepBusinessActivity:    checkBusinessActivity,
	models.StepFinancial:           checkFinancial,
	models.StepTransaction:         checkTransaction,
	models.StepSanctions:           checkSanctions,
	models.StepTerms:               checkTerms,
	models.StepVerification:        checkVerification,
	models.StepAdditional:          checkAdditional,
}

// Form validates the whole application.
func (v *Validator) Form(s models.FormState) Errors {
	errs := Errors{}
	for step := models.StepClientType; step < models.ReviewStep; step++ {
		stepChecks[step](v, s, errs)
	}
	return errs
}

// Step validates only the fields owned by one wizard step. The review step
// owns nothing itself and validates the whole form.
func (v *Validator) Step(s models.FormState, step int) (Errors, error) {
	if step == models.ReviewStep {
		return v.Form(s), nil
	}
	check, ok := stepChecks[step]
	if !ok {
		return nil, fmt.Errorf("unknown step %d", step)
	}
	errs := Errors{}
	check(v, s, errs)
	return errs, nil
}

func checkClientType(_ *Validator, s models.FormState, errs Errors) {
	if !s.ClientType.Valid() {
		errs.add("clientType", "Please select a client type")
	}
}

func checkGeneralInfo(v *Validator, s models.FormState, errs Errors) {
	c := s.CompanyInfo
	if !s.ClientType.IsSole() {
		errs.add("companyInfo.name", v.Field("name", c.Name, FieldContext{}))
	}
	errs.add("companyInfo.address", v.Field("address", c.Address, FieldContext{}))
	errs.add("companyInfo.city", v.Field("city", c.City, FieldContext{}))
	errs.add("companyInfo.phone", v.Field("phone", c.Phone, FieldContext{}))
	errs.add("companyInfo.email", v.Field("email", c.Email, FieldContext{}))
	errs.add("companyInfo.industry", v.Field("industry", c.Industry, FieldContext{}))
	// Swiss postal code and canton formats only bind Swiss clients.
	if s.ClientType.IsSwiss() {
		errs.add("companyInfo.postal", v.Field("postal", c.Postal, FieldContext{}))
		errs.add("companyInfo.canton", v.Field("canton", c.Canton, FieldContext{}))
	} else if !Required(c.Postal) {
		errs.add("companyInfo.postal", "Postal code is required")
	}
}

func checkEntityInfo(v *Validator, s models.FormState, errs Errors) {
	switch {
	case s.ClientType.RequiresEntityInfo():
		e := s.EntityInfo
		errs.add("entityInfo.uid", v.Field("uid", e.UID, FieldContext{}))
		errs.add("entityInfo.incorporationDate", v.Field("incorporationDate", e.IncorporationDate, FieldContext{}))
		errs.add("entityInfo.purpose", v.Field("purpose", e.Purpose, FieldContext{}))
		errs.add("entityInfo.isListed", v.Field("isListed", e.IsListed, FieldContext{}))
		errs.add("entityInfo.exchangeName", v.Field("exchangeName", e.ExchangeName, FieldContext{IsListed: e.IsListed}))
		errs.add("entityInfo.registerFile", RequiredFile("registerFile", e.RegisterFile, v.maxFileSize))
		errs.add("entityInfo.articlesFile", RequiredFile("articlesFile", e.ArticlesFile, v.maxFileSize))
	case s.ClientType.IsSole():
		p := s.SoleProprietorInfo
		errs.add("soleProprietorInfo.ownerName", v.Field("ownerName", p.OwnerName, FieldContext{}))
		errs.add("soleProprietorInfo.ownerDob", v.Field("ownerDob", p.OwnerDob, FieldContext{}))
		errs.add("soleProprietorInfo.ownerNationality", v.Field("ownerNationality", p.OwnerNationality, FieldContext{}))
		errs.add("soleProprietorInfo.ownerAddress", v.Field("ownerAddress", p.OwnerAddress, FieldContext{}))
		errs.add("soleProprietorInfo.uid", v.Field("uid", p.UID, FieldContext{}))
		errs.add("soleProprietorInfo.establishmentDate", v.Field("establishmentDate", p.EstablishmentDate, FieldContext{}))
	}
}

func checkEstablishingPersons(v *Validator, s models.FormState, errs Errors) {
	if len(s.EstablishingPersons) == 0 {
		errs.add("establishingPersons", "At least one establishing person is required")
		return
	}
	for i, p := range s.EstablishingPersons {
		prefix := fmt.Sprintf("establishingPersons.%d.", i)
		errs.add(prefix+"name", v.Field("name", p.Name, FieldContext{}))
		errs.add(prefix+"address", v.Field("address", p.Address, FieldContext{}))
		errs.add(prefix+"dob", v.Field("dob", p.Dob, FieldContext{}))
		errs.add(prefix+"nationality", v.Field("nationality", p.Nationality, FieldContext{}))
		errs.add(prefix+"toa", v.Field("toa", string(p.Authorization), FieldContext{}))
		errs.add(prefix+"iddoc", RequiredFile("iddoc", p.IDDocument, v.maxFileSize))
		if p.Authorization == models.AuthorizationPOA {
			errs.add(prefix+"poa", RequiredFile("poa", p.PowerOfAttorney, v.maxFileSize))
		} else {
			errs.add(prefix+"poa", File(p.PowerOfAttorney, v.maxFileSize, FileDocument))
		}
	}
}

func checkControlling(v *Validator, s models.FormState, errs Errors) {
	if !s.ClientType.IsEntity() {
		return
	}
	c := s.ControllingInfo
	if !c.Gated() {
		md := c.ManagingDirector
		errs.add("managingDirector.firstName", v.Field("firstName", md.FirstName, FieldContext{}))
		errs.add("managingDirector.lastName", v.Field("lastName", md.LastName, FieldContext{}))
		return
	}
	switch n := len(c.ControllingPersons); {
	case n == 0:
		errs.add("controllingPersons", "At least one controlling person is required")
		return
	case n > models.MaxControllingPersons:
		errs.add("controllingPersons", fmt.Sprintf("At most %d controlling persons can be declared", models.MaxControllingPersons))
	}
	for i, p := range c.ControllingPersons {
		prefix := fmt.Sprintf("controllingPersons.%d.", i)
		errs.add(prefix+"firstName", v.Field("firstName", p.FirstName, FieldContext{}))
		errs.add(prefix+"lastName", v.Field("lastName", p.LastName, FieldContext{}))
		errs.add(prefix+"dob", v.Field("dob", p.Dob, FieldContext{}))
		errs.add(prefix+"nationality", v.Field("nationality", p.Nationality, FieldContext{}))
		errs.add(prefix+"address", v.Field("address", p.Address, FieldContext{}))
	}
}

func checkBeneficial(v *Validator, s models.FormState, errs Errors) {
	b := s.BeneficialInfo
	if b.IsSoleOwner {
		return
	}
	switch n := len(b.BeneficialOwners); {
	case n == 0:
		errs.add("beneficialOwners", "At least one beneficial owner is required")
		return
	case n > models.MaxBeneficialOwners:
		errs.add("beneficialOwners", fmt.Sprintf("At most %d beneficial owners can be declared", models.MaxBeneficialOwners))
	}
	for i, o := range b.BeneficialOwners {
		prefix := fmt.Sprintf("beneficialOwners.%d.", i)
		errs.add(prefix+"firstName", v.Field("firstName", o.FirstName, FieldContext{}))
		errs.add(prefix+"lastName", v.Field("lastName", o.LastName, FieldContext{}))
		errs.add(prefix+"dob", v.Field("dob", o.Dob, FieldContext{}))
		errs.add(prefix+"nationality", v.Field("nationality", o.Nationality, FieldContext{}))
		errs.add(prefix+"address", v.Field("address", o.Address, FieldContext{}))
		errs.add(prefix+"relationship", v.Field("relationship", string(o.Relationship), FieldContext{}))
	}
}

func checkBusinessActivity(_ *Validator, s models.FormState, errs Errors) {
	b := s.BusinessActivity
	if !Required(b.ProfessionActivity) {
		errs.add("businessActivity.professionActivity", "Business activities are required")
	}
	if !Required(b.BusinessDescription) {
		errs.add("businessActivity.businessDescription", "Business description is required")
	}
	if !Required(b.TargetClients) {
		errs.add("businessActivity.targetClients", "Target clients are required")
	}
	if len(b.MainCountries) == 0 {
		errs.add("businessActivity.mainCountries", "Please select at least one country")
	}
}

func checkFinancial(v *Validator, s models.FormState, errs Errors) {
	f := s.FinancialInfo
	errs.add("financialInfo.annualRevenue", v.Field("annualRevenue", f.AnnualRevenue, FieldContext{}))
	errs.add("financialInfo.totalAssets", v.Field("totalAssets", f.TotalAssets, FieldContext{}))
	errs.add("financialInfo.liabilities", v.Field("liabilities", f.Liabilities, FieldContext{}))
}

func checkTransaction(v *Validator, s models.FormState, errs Errors) {
	t := s.TransactionInfo
	if !Required(t.AssetNature) {
		errs.add("transactionInfo.assetNature", "Nature of assets is required")
	}
	if !Required(t.AssetOrigin) {
		errs.add("transactionInfo.assetOrigin", "Origin of assets is required")
	}
	switch {
	case t.IsOtherCategory && !Required(t.AssetCategory):
		errs.add("transactionInfo.assetCategory", "Please specify the asset category")
	case !t.IsOtherCategory && !Required(t.AssetCategory):
		errs.add("transactionInfo.assetCategory", "Asset category is required")
	}
	errs.add("transactionInfo.monthlyVolume", v.Volume(t.MonthlyVolume))
	if len(t.BusinessPurposes) == 0 {
		errs.add("transactionInfo.businessPurposes", "Please select at least one business purpose")
	}
}

func checkSanctions(_ *Validator, s models.FormState, errs Errors) {
	info := s.SanctionsInfo
	if pep := info.Pep; pep != nil {
		requireText(errs, "sanctionsInfo.pepName", pep.Name, "PEP name is required")
		requireText(errs, "sanctionsInfo.pepPosition", pep.Position, "PEP position is required")
		requireText(errs, "sanctionsInfo.pepCountry", pep.Country, "PEP country is required")
		requireText(errs, "sanctionsInfo.pepPeriod", pep.Period, "PEP period is required")
		if info.PepType == models.PepTypeNone {
			errs.add("sanctionsInfo.pepType", "Please select the PEP type")
		}
	}
	if d := info.Sanctions; d != nil {
		requireText(errs, "sanctionsInfo.sanctionsName", d.Name, "Name of the sanctioned party is required")
		requireText(errs, "sanctionsInfo.sanctionsCountry", d.Country, "Sanctioned country is required")
		requireText(errs, "sanctionsInfo.sanctionsNature", d.Nature, "Nature of ties is required")
	}
}

func requireText(errs Errors, path, value, msg string) {
	if !Required(value) {
		errs.add(path, msg)
	}
}

func checkTerms(_ *Validator, s models.FormState, errs Errors) {
	if !s.TermsInfo.AllAccepted() {
		errs.add("termsInfo", "You must accept all terms and confirm the accuracy of your information")
	}
}

func checkVerification(v *Validator, s models.FormState, errs Errors) {
	vi := s.VerificationInfo
	fc := FieldContext{VerificationMethod: vi.Method}
	errs.add("verificationInfo.verificationMethod", v.Field("verificationMethod", string(vi.Method), fc))
	errs.add("verificationInfo.videoDate", v.Field("videoDate", vi.VideoDate, fc))
	errs.add("verificationInfo.videoTime", v.Field("videoTime", vi.VideoTime, fc))
}

func checkAdditional(v *Validator, s models.FormState, errs Errors) {
	for _, slot := range models.AdditionalSlots {
		errs.add("additionalInfo."+string(slot), File(s.AdditionalInfo.Get(slot), v.maxFileSize, FileAttachment))
	}
}
