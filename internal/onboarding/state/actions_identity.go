package state

import (
	"onboarding/internal/onboarding/models"
)

// SetClientType selects the kind of client. Switching between sole and
// entity types keeps both identity sections; which one is authoritative is
// decided by the client type at read time.
type SetClientType struct {
	ClientType models.ClientType `json:"clientType"`
}

func (SetClientType) Type() string { return "set_client_type" }

func (a SetClientType) apply(s *models.FormState, _ env) error {
	if !a.ClientType.Valid() {
		return invalid("unknown client type %q", a.ClientType)
	}
	s.ClientType = a.ClientType
	return nil
}

// SetCompanyField sets one companyInfo field.
type SetCompanyField struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

func (SetCompanyField) Type() string { return "set_company_field" }

func (a SetCompanyField) apply(s *models.FormState, _ env) error {
	c := &s.CompanyInfo
	target := map[string]*string{
		"name":     &c.Name,
		"address":  &c.Address,
		"postal":   &c.Postal,
		"city":     &c.City,
		"canton":   &c.Canton,
		"phone":    &c.Phone,
		"email":    &c.Email,
		"industry": &c.Industry,
	}[a.Field]
	if target == nil {
		return unknownField("company", a.Field)
	}
	*target = a.Value
	return nil
}

// SetSoleProprietorField sets one soleProprietorInfo field.
type SetSoleProprietorField struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

func (SetSoleProprietorField) Type() string { return "set_sole_proprietor_field" }

func (a SetSoleProprietorField) apply(s *models.FormState, _ env) error {
	p := &s.SoleProprietorInfo
	target := map[string]*string{
		"ownerName":         &p.OwnerName,
		"ownerDob":          &p.OwnerDob,
		"ownerNationality":  &p.OwnerNationality,
		"ownerAddress":      &p.OwnerAddress,
		"uid":               &p.UID,
		"establishmentDate": &p.EstablishmentDate,
	}[a.Field]
	if target == nil {
		return unknownField("sole proprietor", a.Field)
	}
	*target = a.Value
	return nil
}

// SetEntityField sets one entityInfo field. Answering "no" to the listing
// question drops the exchange name.
type SetEntityField struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

func (SetEntityField) Type() string { return "set_entity_field" }

func (a SetEntityField) apply(s *models.FormState, _ env) error {
	e := &s.EntityInfo
	switch a.Field {
	case "uid":
		e.UID = a.Value
	case "incorporationDate":
		e.IncorporationDate = a.Value
	case "purpose":
		e.Purpose = a.Value
	case "exchangeName":
		e.ExchangeName = a.Value
	case "isListed":
		if a.Value != "" && a.Value != "yes" && a.Value != "no" {
			return invalid("isListed must be yes or no")
		}
		e.IsListed = a.Value
		if a.Value != "yes" {
			e.ExchangeName = ""
		}
	default:
		return unknownField("entity", a.Field)
	}
	return nil
}

// Entity document slots.
const (
	EntitySlotRegister = "registerFile"
	EntitySlotArticles = "articlesFile"
)

// AttachEntityFile fills or, with a nil File, empties an entity document slot.
type AttachEntityFile struct {
	Slot string          `json:"slot"`
	File *models.FileRef `json:"file"`
}

func (AttachEntityFile) Type() string { return "attach_entity_file" }

func (a AttachEntityFile) apply(s *models.FormState, _ env) error {
	switch a.Slot {
	case EntitySlotRegister:
		s.EntityInfo.RegisterFile = copyFile(a.File)
	case EntitySlotArticles:
		s.EntityInfo.ArticlesFile = copyFile(a.File)
	default:
		return invalid("unknown entity document slot %q", a.Slot)
	}
	return nil
}

func copyFile(f *models.FileRef) *models.FileRef {
	if f == nil {
		return nil
	}
	c := *f
	return &c
}
