// Package validation holds the field-level and cross-field rules of the
// onboarding form. Rules are pure: they read a FormState and report errors
// keyed by field path, and never modify the state.
package validation

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// DateLayout is the wire format of every date field.
const DateLayout = "2006-01-02"

// MaxMonthlyVolume is the upper bound of the expected monthly volume in CHF.
const MaxMonthlyVolume = 1_000_000_000

var (
	emailPattern  = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phonePattern  = regexp.MustCompile(`^(\+41|0)[1-9]\d{8}$`)
	postalPattern = regexp.MustCompile(`^[1-9]\d{3}$`)
	uidPattern    = regexp.MustCompile(`^CHE-\d{3}\.\d{3}\.\d{3}$`)
	whitespace    = regexp.MustCompile(`\s`)
)

var cantons = map[string]struct{}{
	"AG": {}, "AI": {}, "AR": {}, "BE": {}, "BL": {}, "BS": {}, "FR": {}, "GE": {}, "GL": {},
	"GR": {}, "JU": {}, "LU": {}, "NE": {}, "NW": {}, "OW": {}, "SG": {}, "SH": {}, "SO": {},
	"SZ": {}, "TG": {}, "TI": {}, "UR": {}, "VD": {}, "VS": {}, "ZG": {}, "ZH": {},
}

var demonyms = []string{
	"swiss", "german", "french", "italian", "austrian", "american", "british",
	"canadian", "australian", "chinese", "indian", "brazilian", "russian",
	"japanese", "korean", "spanish", "portuguese", "dutch", "belgian",
	"swedish", "norwegian", "danish", "finnish", "polish", "czech",
	"hungarian", "slovak", "slovenian", "croatian", "serbian", "bulgarian",
	"romanian", "greek", "turkish", "ukrainian", "belarusian", "moldovan",
	"georgian", "armenian", "azerbaijani", "kazakh", "uzbek", "kyrgyz",
	"tajik", "turkmen", "mongolian", "vietnamese", "thai", "malaysian",
	"indonesian", "filipino", "pakistani", "bangladeshi", "sri lankan",
	"nepali", "bhutanese", "myanmar", "cambodian", "laotian", "bruneian",
	"timorese", "papua new guinean", "fijian", "vanuatuan", "solomon islander",
	"samoan", "tongan", "kiribati", "tuvaluan", "nauruan", "palauan",
	"marshallese", "micronesian",
}

// Email reports whether s looks like a mailbox address.
func Email(s string) bool {
	return emailPattern.MatchString(s)
}

// SwissPhone accepts +41 or 0 prefixed national numbers; whitespace is
// ignored.
func SwissPhone(s string) bool {
	return phonePattern.MatchString(whitespace.ReplaceAllString(s, ""))
}

// SwissPostalCode accepts four digits from 1000 to 9999.
func SwissPostalCode(s string) bool {
	return postalPattern.MatchString(s)
}

// UID accepts the Swiss enterprise number format CHE-XXX.XXX.XXX.
func UID(s string) bool {
	return uidPattern.MatchString(s)
}

// SwissCanton accepts the 26 canton abbreviations in any case.
func SwissCanton(s string) bool {
	_, ok := cantons[strings.ToUpper(strings.TrimSpace(s))]
	return ok
}

// Nationality accepts a known demonym or anything of at least two
// characters. The list only short-circuits the common cases.
func Nationality(s string) bool {
	lower := strings.ToLower(s)
	for _, d := range demonyms {
		if strings.Contains(lower, d) {
			return true
		}
	}
	return utf8.RuneCountInString(s) >= 2
}

// ParseDate parses a date field.
func ParseDate(s string) (time.Time, bool) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// PastDate reports whether s is a real date that is not after now and not
// more than 120 years before it.
func PastDate(s string, now time.Time) bool {
	d, ok := ParseDate(s)
	if !ok {
		return false
	}
	today := startOfDay(now)
	if d.After(today) {
		return false
	}
	return !d.Before(today.AddDate(-120, 0, 0))
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// VideoDateWindow returns the bookable range for video appointments:
// tomorrow through thirty days after tomorrow, both inclusive.
func VideoDateWindow(now time.Time) (first, last time.Time) {
	first = startOfDay(now).AddDate(0, 0, 1)
	return first, first.AddDate(0, 0, 30)
}

// BusinessVolume reports whether v is within [0, MaxMonthlyVolume].
func BusinessVolume(v float64) bool {
	return v >= 0 && v <= MaxMonthlyVolume
}

// Required reports whether s holds anything but whitespace.
func Required(s string) bool {
	return strings.TrimSpace(s) != ""
}

// MinLength counts runes after trimming.
func MinLength(s string, n int) bool {
	return utf8.RuneCountInString(strings.TrimSpace(s)) >= n
}

// MaxLength counts runes after trimming. Blank values fail, as they do for
// every other length rule.
func MaxLength(s string, n int) bool {
	trimmed := strings.TrimSpace(s)
	return trimmed != "" && utf8.RuneCountInString(trimmed) <= n
}

// PositiveNumber reports whether s parses to a finite number above zero.
func PositiveNumber(s string) bool {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return err == nil && v > 0 && !math.IsInf(v, 0)
}
