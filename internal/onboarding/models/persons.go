package models

import "strings"

// AuthorizationType is the signing authority of an establishing person.
type AuthorizationType string

const (
	AuthorizationIndividual AuthorizationType = "individual"
	AuthorizationCollective AuthorizationType = "collective"
	AuthorizationPOA        AuthorizationType = "poa"
	AuthorizationOther      AuthorizationType = "other"
)

var authorizationLabels = map[AuthorizationType]string{
	AuthorizationIndividual: "Individual Signatory",
	AuthorizationCollective: "Collective Signatory",
	AuthorizationPOA:        "Power of Attorney",
	AuthorizationOther:      "Other",
}

func (a AuthorizationType) Valid() bool {
	_, ok := authorizationLabels[a]
	return ok
}

// Label returns the document wording; unknown values pass through.
func (a AuthorizationType) Label() string {
	if label, ok := authorizationLabels[a]; ok {
		return label
	}
	return string(a)
}

// Person is an establishing person: someone opening the business
// relationship on the client's behalf.
type Person struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Address         string            `json:"address"`
	Postal          string            `json:"postal"`
	City            string            `json:"city"`
	Country         string            `json:"country"`
	Dob             string            `json:"dob"`
	Nationality     string            `json:"nationality"`
	Authorization   AuthorizationType `json:"toa"`
	IDDocument      *FileRef          `json:"iddoc,omitempty"`
	PowerOfAttorney *FileRef          `json:"poa,omitempty"`
}

// HasIDDocument is derived from the id document slot.
func (p Person) HasIDDocument() bool {
	return p.IDDocument != nil
}

// HasPowerOfAttorney is derived from the power of attorney slot.
func (p Person) HasPowerOfAttorney() bool {
	return p.PowerOfAttorney != nil
}

// ControllingPerson meets the Form-K control threshold.
type ControllingPerson struct {
	ID          string `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Dob         string `json:"dob"`
	Nationality string `json:"nationality"`
	Address     string `json:"address"`
	Postal      string `json:"postal"`
	City        string `json:"city"`
	Country     string `json:"country"`
}

// FullName joins first and last name.
func (c ControllingPerson) FullName() string {
	return JoinName(c.FirstName, c.LastName)
}

// ManagingDirector stands in for controlling persons when neither gating
// question applies.
type ManagingDirector struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Dob         string `json:"dob"`
	Nationality string `json:"nationality"`
	Address     string `json:"address"`
}

// FullName joins first and last name.
func (m ManagingDirector) FullName() string {
	return JoinName(m.FirstName, m.LastName)
}

// Relationship is the tie between a beneficial owner and the client.
type Relationship string

const (
	RelationshipSpouse           Relationship = "spouse"
	RelationshipChild            Relationship = "child"
	RelationshipParent           Relationship = "parent"
	RelationshipSibling          Relationship = "sibling"
	RelationshipBusinessPartner  Relationship = "business_partner"
	RelationshipTrustBeneficiary Relationship = "trust_beneficiary"
	RelationshipOther            Relationship = "other"
)

func (r Relationship) Valid() bool {
	switch r {
	case RelationshipSpouse, RelationshipChild, RelationshipParent, RelationshipSibling,
		RelationshipBusinessPartner, RelationshipTrustBeneficiary, RelationshipOther:
		return true
	default:
		return false
	}
}

// BeneficialOwner is a natural person ultimately owning the client.
type BeneficialOwner struct {
	ID           string       `json:"id"`
	FirstName    string       `json:"firstName"`
	LastName     string       `json:"lastName"`
	Dob          string       `json:"dob"`
	Nationality  string       `json:"nationality"`
	Address      string       `json:"address"`
	Relationship Relationship `json:"relationship"`
}

// FullName joins first and last name.
func (b BeneficialOwner) FullName() string {
	return JoinName(b.FirstName, b.LastName)
}

// JoinName concatenates first and last name with one space and trims the
// result, so a missing part never leaves stray whitespace.
func JoinName(first, last string) string {
	return strings.TrimSpace(first + " " + last)
}
