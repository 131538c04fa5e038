package mapping

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"onboarding/internal/onboarding/models"
	"onboarding/internal/onboarding/risk"
)

// ErrMissingPerson means the state has no first establishing person, which
// New guarantees; seeing it is a defect, not a user error.
var ErrMissingPerson = errors.New("establishing person 0 is missing")

type input struct {
	state models.FormState
	now   time.Time
	risk  risk.Result
	data  map[string]any
}

func (in *input) firstPerson() (models.Person, error) {
	if len(in.state.EstablishingPersons) == 0 {
		return models.Person{}, ErrMissingPerson
	}
	return in.state.EstablishingPersons[0], nil
}

type source func(in *input) (Value, error)

func text(f func(s models.FormState) string) source {
	return func(in *input) (Value, error) {
		return Text(f(in.state)), nil
	}
}

func flag(f func(s models.FormState) bool) source {
	return func(in *input) (Value, error) {
		return Flag(f(in.state)), nil
	}
}

func person(f func(p models.Person) Value) source {
	return func(in *input) (Value, error) {
		p, err := in.firstPerson()
		if err != nil {
			return Value{}, err
		}
		return f(p), nil
	}
}

const vqfPrefix = "vqf."

var sources = map[string]source{
	"date.today_us": func(in *input) (Value, error) { return Text(usDay(in.now)), nil },
	"date.today_gb": func(in *input) (Value, error) { return Text(gbDay(in.now)), nil },

	"customer.name":    text(models.FormState.CustomerName),
	"customer.address": text(models.FormState.CustomerAddress),
	"customer.type":    text(func(s models.FormState) string { return s.ClientType.Label() }),
	"customer.uid":     text(models.FormState.UID),

	"company.phone": text(func(s models.FormState) string { return s.CompanyInfo.Phone }),
	"company.email": text(func(s models.FormState) string { return s.CompanyInfo.Email }),
	"company.location": text(func(s models.FormState) string {
		c := s.CompanyInfo
		return strings.Join([]string{c.Canton, c.City, c.Address, c.Postal}, " ")
	}),

	"entity.register_extract": flag(func(s models.FormState) bool { return s.EntityInfo.HasRegisterExtract() }),
	"entity.articles":         flag(func(s models.FormState) bool { return s.EntityInfo.HasArticlesOfAssociation() }),

	"person.first.name":              person(func(p models.Person) Value { return Text(p.Name) }),
	"person.first.address":           person(func(p models.Person) Value { return Text(p.Address) }),
	"person.first.dob_us":            person(func(p models.Person) Value { return Text(USDate(p.Dob)) }),
	"person.first.nationality":       person(func(p models.Person) Value { return Text(p.Nationality) }),
	"person.first.authorization":     person(func(p models.Person) Value { return Text(p.Authorization.Label()) }),
	"person.first.id_document":       person(func(p models.Person) Value { return Flag(p.HasIDDocument()) }),
	"person.first.power_of_attorney": person(func(p models.Person) Value { return Flag(p.HasPowerOfAttorney()) }),

	"transaction.first_purpose": text(func(s models.FormState) string {
		if len(s.TransactionInfo.BusinessPurposes) == 0 {
			return ""
		}
		return models.OptionLabel(models.BusinessPurposes, s.TransactionInfo.BusinessPurposes[0])
	}),

	"pep.position": text(func(s models.FormState) string { return s.SanctionsInfo.PepPosition() }),
	"pep.foreign": flag(func(s models.FormState) bool {
		return s.SanctionsInfo.IsPep() && s.SanctionsInfo.PepType == models.PepTypeForeign
	}),
	"pep.domestic": flag(func(s models.FormState) bool {
		return s.SanctionsInfo.IsPep() && s.SanctionsInfo.PepType == models.PepTypeDomestic
	}),

	"risk.summary": func(in *input) (Value, error) { return Text(in.risk.Summary()), nil },
	"risk.level":   text(func(s models.FormState) string { return string(risk.LevelOf(s)) }),
}

// SourceNames lists the named sources a schema may refer to. Document data
// keys are addressed as "vqf.<key>".
func SourceNames() []string {
	out := make([]string, 0, len(sources))
	for name := range sources {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func resolve(name string, in *input) (Value, error) {
	if key, ok := strings.CutPrefix(name, vqfPrefix); ok {
		v, ok := in.data[key]
		if !ok {
			return Value{}, fmt.Errorf("unknown document data key %q", key)
		}
		switch v := v.(type) {
		case string:
			return Text(v), nil
		case []map[string]string:
			return Rows(v), nil
		default:
			return Value{}, fmt.Errorf("document data key %q has unsupported type %T", key, v)
		}
	}
	src, ok := sources[name]
	if !ok {
		return Value{}, fmt.Errorf("unknown source %q", name)
	}
	return src(in)
}
