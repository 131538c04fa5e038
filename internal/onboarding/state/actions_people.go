package state

import (
	"slices"

	"onboarding/internal/onboarding/models"
)

// AddEstablishingPerson appends a blank person.
type AddEstablishingPerson struct{}

func (AddEstablishingPerson) Type() string { return "add_establishing_person" }

func (AddEstablishingPerson) apply(s *models.FormState, e env) error {
	s.EstablishingPersons = append(s.EstablishingPersons, models.Person{ID: e.newID()})
	return nil
}

// UpdateEstablishingPerson sets one field of the person with ID.
type UpdateEstablishingPerson struct {
	ID    string `json:"id"`
	Field string `json:"field"`
	Value string `json:"value"`
}

func (UpdateEstablishingPerson) Type() string { return "update_establishing_person" }

func (a UpdateEstablishingPerson) apply(s *models.FormState, _ env) error {
	i := slices.IndexFunc(s.EstablishingPersons, func(p models.Person) bool { return p.ID == a.ID })
	if i < 0 {
		return notFound("establishing person", a.ID)
	}
	p := &s.EstablishingPersons[i]
	if a.Field == "toa" {
		p.Authorization = models.AuthorizationType(a.Value)
		return nil
	}
	target := map[string]*string{
		"name":        &p.Name,
		"address":     &p.Address,
		"postal":      &p.Postal,
		"city":        &p.City,
		"country":     &p.Country,
		"dob":         &p.Dob,
		"nationality": &p.Nationality,
	}[a.Field]
	if target == nil {
		return unknownField("establishing person", a.Field)
	}
	*target = a.Value
	return nil
}

// RemoveEstablishingPerson drops a person. The last one cannot be removed.
type RemoveEstablishingPerson struct {
	ID string `json:"id"`
}

func (RemoveEstablishingPerson) Type() string { return "remove_establishing_person" }

func (a RemoveEstablishingPerson) apply(s *models.FormState, _ env) error {
	i := slices.IndexFunc(s.EstablishingPersons, func(p models.Person) bool { return p.ID == a.ID })
	if i < 0 {
		return notFound("establishing person", a.ID)
	}
	if len(s.EstablishingPersons) == 1 {
		return invalid("at least one establishing person is required")
	}
	s.EstablishingPersons = slices.Delete(s.EstablishingPersons, i, i+1)
	return nil
}

// Person document slots, named after their wire keys.
const (
	PersonSlotIDDocument      = "iddoc"
	PersonSlotPowerOfAttorney = "poa"
)

// AttachPersonFile fills or empties a person's document slot.
type AttachPersonFile struct {
	ID   string          `json:"id"`
	Slot string          `json:"slot"`
	File *models.FileRef `json:"file"`
}

func (AttachPersonFile) Type() string { return "attach_person_file" }

func (a AttachPersonFile) apply(s *models.FormState, _ env) error {
	i := slices.IndexFunc(s.EstablishingPersons, func(p models.Person) bool { return p.ID == a.ID })
	if i < 0 {
		return notFound("establishing person", a.ID)
	}
	switch a.Slot {
	case PersonSlotIDDocument:
		s.EstablishingPersons[i].IDDocument = copyFile(a.File)
	case PersonSlotPowerOfAttorney:
		s.EstablishingPersons[i].PowerOfAttorney = copyFile(a.File)
	default:
		return invalid("unknown person document slot %q", a.Slot)
	}
	return nil
}

// Controlling gating flags.
const (
	FlagIs25Percent = "is25Percent"
	FlagInOtherWay  = "inOtherWay"
)

// SetControllingFlag answers one gating question. Once neither applies the
// controlling persons are dropped and the managing director takes over.
type SetControllingFlag struct {
	Flag  string `json:"flag"`
	Value bool   `json:"value"`
}

func (SetControllingFlag) Type() string { return "set_controlling_flag" }

func (a SetControllingFlag) apply(s *models.FormState, _ env) error {
	c := &s.ControllingInfo
	switch a.Flag {
	case FlagIs25Percent:
		c.Is25Percent = a.Value
	case FlagInOtherWay:
		c.InOtherWay = a.Value
	default:
		return invalid("unknown controlling flag %q", a.Flag)
	}
	if !c.Gated() {
		c.ControllingPersons = []models.ControllingPerson{}
	}
	return nil
}

// AddControllingPerson appends a blank controlling person.
type AddControllingPerson struct{}

func (AddControllingPerson) Type() string { return "add_controlling_person" }

func (AddControllingPerson) apply(s *models.FormState, e env) error {
	c := &s.ControllingInfo
	if !c.Gated() {
		return invalid("controlling persons require a control declaration")
	}
	if len(c.ControllingPersons) >= models.MaxControllingPersons {
		return invalid("at most %d controlling persons", models.MaxControllingPersons)
	}
	c.ControllingPersons = append(c.ControllingPersons, models.ControllingPerson{ID: e.newID()})
	return nil
}

// UpdateControllingPerson sets one field of the controlling person with ID.
type UpdateControllingPerson struct {
	ID    string `json:"id"`
	Field string `json:"field"`
	Value string `json:"value"`
}

func (UpdateControllingPerson) Type() string { return "update_controlling_person" }

func (a UpdateControllingPerson) apply(s *models.FormState, _ env) error {
	persons := s.ControllingInfo.ControllingPersons
	i := slices.IndexFunc(persons, func(p models.ControllingPerson) bool { return p.ID == a.ID })
	if i < 0 {
		return notFound("controlling person", a.ID)
	}
	p := &persons[i]
	target := map[string]*string{
		"firstName":   &p.FirstName,
		"lastName":    &p.LastName,
		"dob":         &p.Dob,
		"nationality": &p.Nationality,
		"address":     &p.Address,
		"postal":      &p.Postal,
		"city":        &p.City,
		"country":     &p.Country,
	}[a.Field]
	if target == nil {
		return unknownField("controlling person", a.Field)
	}
	*target = a.Value
	return nil
}

// RemoveControllingPerson drops the controlling person with ID.
type RemoveControllingPerson struct {
	ID string `json:"id"`
}

func (RemoveControllingPerson) Type() string { return "remove_controlling_person" }

func (a RemoveControllingPerson) apply(s *models.FormState, _ env) error {
	persons := s.ControllingInfo.ControllingPersons
	i := slices.IndexFunc(persons, func(p models.ControllingPerson) bool { return p.ID == a.ID })
	if i < 0 {
		return notFound("controlling person", a.ID)
	}
	s.ControllingInfo.ControllingPersons = slices.Delete(persons, i, i+1)
	return nil
}

// SetManagingDirectorField sets one managing director field.
type SetManagingDirectorField struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

func (SetManagingDirectorField) Type() string { return "set_managing_director_field" }

func (a SetManagingDirectorField) apply(s *models.FormState, _ env) error {
	m := &s.ControllingInfo.ManagingDirector
	target := map[string]*string{
		"firstName":   &m.FirstName,
		"lastName":    &m.LastName,
		"dob":         &m.Dob,
		"nationality": &m.Nationality,
		"address":     &m.Address,
	}[a.Field]
	if target == nil {
		return unknownField("managing director", a.Field)
	}
	*target = a.Value
	return nil
}

// SetSoleOwner answers the sole ownership question. Becoming the sole owner
// drops every listed beneficial owner.
type SetSoleOwner struct {
	Value bool `json:"value"`
}

func (SetSoleOwner) Type() string { return "set_sole_owner" }

func (a SetSoleOwner) apply(s *models.FormState, _ env) error {
	s.BeneficialInfo.IsSoleOwner = a.Value
	if a.Value {
		s.BeneficialInfo.BeneficialOwners = []models.BeneficialOwner{}
	}
	return nil
}

// AddBeneficialOwner appends a blank owner.
type AddBeneficialOwner struct{}

func (AddBeneficialOwner) Type() string { return "add_beneficial_owner" }

func (AddBeneficialOwner) apply(s *models.FormState, e env) error {
	b := &s.BeneficialInfo
	if b.IsSoleOwner {
		return invalid("beneficial owners cannot be added for a sole owner")
	}
	if len(b.BeneficialOwners) >= models.MaxBeneficialOwners {
		return invalid("at most %d beneficial owners", models.MaxBeneficialOwners)
	}
	b.BeneficialOwners = append(b.BeneficialOwners, models.BeneficialOwner{ID: e.newID()})
	return nil
}

// UpdateBeneficialOwner sets one field of the owner with ID.
type UpdateBeneficialOwner struct {
	ID    string `json:"id"`
	Field string `json:"field"`
	Value string `json:"value"`
}

func (UpdateBeneficialOwner) Type() string { return "update_beneficial_owner" }

func (a UpdateBeneficialOwner) apply(s *models.FormState, _ env) error {
	owners := s.BeneficialInfo.BeneficialOwners
	i := slices.IndexFunc(owners, func(o models.BeneficialOwner) bool { return o.ID == a.ID })
	if i < 0 {
		return notFound("beneficial owner", a.ID)
	}
	o := &owners[i]
	if a.Field == "relationship" {
		o.Relationship = models.Relationship(a.Value)
		return nil
	}
	target := map[string]*string{
		"firstName":   &o.FirstName,
		"lastName":    &o.LastName,
		"dob":         &o.Dob,
		"nationality": &o.Nationality,
		"address":     &o.Address,
	}[a.Field]
	if target == nil {
		return unknownField("beneficial owner", a.Field)
	}
	*target = a.Value
	return nil
}

// RemoveBeneficialOwner drops the owner with ID.
type RemoveBeneficialOwner struct {
	ID string `json:"id"`
}

func (RemoveBeneficialOwner) Type() string { return "remove_beneficial_owner" }

func (a RemoveBeneficialOwner) apply(s *models.FormState, _ env) error {
	owners := s.BeneficialInfo.BeneficialOwners
	i := slices.IndexFunc(owners, func(o models.BeneficialOwner) bool { return o.ID == a.ID })
	if i < 0 {
		return notFound("beneficial owner", a.ID)
	}
	s.BeneficialInfo.BeneficialOwners = slices.Delete(owners, i, i+1)
	return nil
}
