package mapping

import (
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"onboarding/internal/onboarding/validation"
)

// blank is what the renderer receives for a missing optional value; an
// empty string would leave the template placeholder unreplaced.
const blank = " "

// Blank substitutes a single space for empty values.
func Blank(s string) string {
	if strings.TrimSpace(s) == "" {
		return blank
	}
	return s
}

// Presence renders a flag the way the PDF checkboxes expect it.
func Presence(ok bool) string {
	if ok {
		return "true"
	}
	return "false"
}

// YesNo renders a flag for the Word templates.
func YesNo(ok bool) string {
	if ok {
		return "Yes"
	}
	return "No"
}

// USDate reformats a YYYY-MM-DD date as MM/DD/YYYY. Unparseable input is
// returned unchanged so a bad value stays visible on the document.
func USDate(s string) string {
	return reformat(s, "01/02/2006")
}

// GBDate reformats a YYYY-MM-DD date as DD/MM/YYYY.
func GBDate(s string) string {
	return reformat(s, "02/01/2006")
}

func reformat(s, layout string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	t, ok := validation.ParseDate(s)
	if !ok {
		return s
	}
	return t.Format(layout)
}

func usDay(t time.Time) string {
	return t.Format("01/02/2006")
}

func gbDay(t time.Time) string {
	return t.Format("02/01/2006")
}

var swissPrinter = message.NewPrinter(language.MustParse("de-CH"))

// CHF formats an amount in Swiss francs with de-CH grouping and no decimals.
func CHF(amount float64) string {
	return swissPrinter.Sprintf("CHF %v", number.Decimal(amount, number.MaxFractionDigits(0)))
}
