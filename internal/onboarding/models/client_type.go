package models

import "strings"

// ClientType selects which identity section is authoritative and which
// documents the onboarding produces.
type ClientType string

const (
	ClientTypeSwissLLC    ClientType = "swiss_llc"
	ClientTypeSwissSole   ClientType = "swiss_sole"
	ClientTypeSwissAssoc  ClientType = "swiss_assoc"
	ClientTypeForeignLLC  ClientType = "foreign_llc"
	ClientTypeForeignSole ClientType = "foreign_sole"
)

var clientTypeLabels = map[ClientType]string{
	ClientTypeSwissLLC:    "Swiss Limited Liability Company",
	ClientTypeForeignLLC:  "Foreign Limited Liability Company",
	ClientTypeSwissAssoc:  "Swiss Association",
	ClientTypeSwissSole:   "Swiss Sole Proprietorship",
	ClientTypeForeignSole: "Foreign Sole Proprietorship",
}

// ParseClientType returns the client type for s and whether it is known.
func ParseClientType(s string) (ClientType, bool) {
	ct := ClientType(strings.TrimSpace(s))
	return ct, ct.Valid()
}

func (c ClientType) Valid() bool {
	_, ok := clientTypeLabels[c]
	return ok
}

func (c ClientType) String() string {
	return string(c)
}

// Label is the human-readable legal form used on documents. Unknown values
// are returned unchanged.
func (c ClientType) Label() string {
	if label, ok := clientTypeLabels[c]; ok {
		return label
	}
	return string(c)
}

// IsSole reports whether the sole-proprietor section is authoritative.
func (c ClientType) IsSole() bool {
	return strings.Contains(string(c), "sole")
}

// IsEntity reports whether the client is a legal entity (company or
// association). Entities get the customer profile and Form-A documents.
func (c ClientType) IsEntity() bool {
	s := string(c)
	return strings.Contains(s, "llc") || strings.Contains(s, "assoc")
}

// RequiresEntityInfo reports whether incorporation data must be provided.
func (c ClientType) RequiresEntityInfo() bool {
	switch c {
	case ClientTypeSwissLLC, ClientTypeSwissAssoc, ClientTypeForeignLLC:
		return true
	default:
		return false
	}
}

// IsSwiss reports whether the client is domiciled in Switzerland.
func (c ClientType) IsSwiss() bool {
	return strings.HasPrefix(string(c), "swiss_")
}
