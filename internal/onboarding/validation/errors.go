package validation

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Errors maps a field path such as "companyInfo.email" or
// "establishingPersons.0.dob" to its message.
type Errors map[string]string

func (e Errors) add(path, msg string) {
	if msg != "" {
		e[path] = msg
	}
}

// Empty reports whether no rule failed.
func (e Errors) Empty() bool {
	return len(e) == 0
}

// Paths returns the failing paths in sorted order.
func (e Errors) Paths() []string {
	return slices.Sorted(maps.Keys(e))
}

// Label formats the error at path for display, e.g. "Email: Email is required".
func (e Errors) Label(path string) string {
	return fmt.Sprintf("%s: %s", FieldLabel(path), e[path])
}

// Messages returns every error as a labelled line, ordered by path.
func (e Errors) Messages() []string {
	out := make([]string, 0, len(e))
	for _, p := range e.Paths() {
		out = append(out, e.Label(p))
	}
	return out
}

var fieldLabels = map[string]string{
	"clientType":                           "Client Type",
	"companyInfo.name":                     "Company Name",
	"companyInfo.address":                  "Company Address",
	"companyInfo.postal":                   "Postal Code",
	"companyInfo.city":                     "City",
	"companyInfo.canton":                   "Canton",
	"companyInfo.phone":                    "Phone",
	"companyInfo.email":                    "Email",
	"companyInfo.industry":                 "Industry",
	"entityInfo.uid":                       "UID Number",
	"entityInfo.incorporationDate":         "Incorporation Date",
	"entityInfo.purpose":                   "Company Purpose",
	"entityInfo.isListed":                  "Listed Company",
	"entityInfo.exchangeName":              "Exchange Name",
	"entityInfo.registerFile":              "Commercial Register Extract",
	"entityInfo.articlesFile":              "Articles of Association",
	"soleProprietorInfo.ownerName":         "Owner Name",
	"soleProprietorInfo.ownerDob":          "Owner Date of Birth",
	"soleProprietorInfo.ownerNationality":  "Owner Nationality",
	"soleProprietorInfo.ownerAddress":      "Owner Address",
	"soleProprietorInfo.uid":               "UID Number",
	"soleProprietorInfo.establishmentDate": "Establishment Date",
	"establishingPersons":                  "Establishing Persons",
	"controllingPersons":                   "Controlling Persons",
	"managingDirector.firstName":           "Managing Director First Name",
	"managingDirector.lastName":            "Managing Director Last Name",
	"beneficialOwners":                     "Beneficial Owners",
	"businessActivity.professionActivity":  "Business Activities",
	"businessActivity.businessDescription": "Business Description",
	"businessActivity.targetClients":       "Target Clients",
	"businessActivity.mainCountries":       "Main Countries",
	"financialInfo.annualRevenue":          "Annual Revenue",
	"financialInfo.totalAssets":            "Total Assets",
	"financialInfo.liabilities":            "Liabilities",
	"transactionInfo.assetNature":          "Nature of Assets",
	"transactionInfo.assetOrigin":          "Origin of Assets",
	"transactionInfo.assetCategory":        "Asset Category",
	"transactionInfo.monthlyVolume":        "Monthly Volume",
	"transactionInfo.businessPurposes":     "Business Purposes",
	"sanctionsInfo.pepName":                "PEP Name",
	"sanctionsInfo.pepPosition":            "PEP Position",
	"sanctionsInfo.pepCountry":             "PEP Country",
	"sanctionsInfo.pepPeriod":              "PEP Period",
	"sanctionsInfo.pepType":                "PEP Type",
	"sanctionsInfo.sanctionsName":          "Sanctions Name",
	"sanctionsInfo.sanctionsCountry":       "Sanctions Country",
	"sanctionsInfo.sanctionsNature":        "Nature of Ties",
	"termsInfo":                            "Terms and Conditions",
	"verificationInfo.verificationMethod":  "Verification Method",
	"verificationInfo.videoDate":           "Video Date",
	"verificationInfo.videoTime":           "Video Time",
}

var collectionLabels = map[string]string{
	"establishingPersons": "Establishing Person",
	"controllingPersons":  "Controlling Person",
	"beneficialOwners":    "Beneficial Owner",
	"additionalInfo":      "Additional Document",
}

var memberLabels = map[string]string{
	"name":         "Name",
	"firstName":    "First Name",
	"lastName":     "Last Name",
	"address":      "Address",
	"dob":          "Date of Birth",
	"nationality":  "Nationality",
	"toa":          "Type of Authorization",
	"iddoc":        "ID Document",
	"poa":          "Power of Attorney",
	"relationship": "Relationship",
}

// FieldLabel returns the display name of a path. Row paths are labelled by
// collection and one-based position; unknown paths are returned unchanged.
func FieldLabel(path string) string {
	if label, ok := fieldLabels[path]; ok {
		return label
	}
	parts := strings.SplitN(path, ".", 3)
	if len(parts) == 3 {
		if coll, ok := collectionLabels[parts[0]]; ok {
			if i, err := strconv.Atoi(parts[1]); err == nil {
				member := memberLabels[parts[2]]
				if member == "" {
					member = parts[2]
				}
				return fmt.Sprintf("%s %d %s", coll, i+1, member)
			}
		}
	}
	if len(parts) == 2 {
		if coll, ok := collectionLabels[parts[0]]; ok {
			return fmt.Sprintf("%s (%s)", coll, parts[1])
		}
	}
	return path
}
