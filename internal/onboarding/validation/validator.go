package validation

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"onboarding/internal/onboarding/models"
)

// UIDPolicy decides whether the enterprise number must be present.
type UIDPolicy string

const (
	UIDOptional UIDPolicy = "optional"
	UIDRequired UIDPolicy = "required"
)

// ParseUIDPolicy accepts "optional" and "required"; anything else is an
// error so a typo in configuration does not silently relax the rule.
func ParseUIDPolicy(s string) (UIDPolicy, error) {
	switch p := UIDPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "", UIDOptional:
		return UIDOptional, nil
	case UIDRequired:
		return UIDRequired, nil
	default:
		return "", fmt.Errorf("unknown UID policy %q", s)
	}
}

// Config tunes the validator.
type Config struct {
	MaxFileSize int64
	UIDPolicy   UIDPolicy
	Now         func() time.Time
}

// Validator applies the onboarding rules.
type Validator struct {
	maxFileSize int64
	uidPolicy   UIDPolicy
	now         func() time.Time
}

// New creates a validator, filling unset config with defaults.
func New(cfg Config) *Validator {
	v := &Validator{
		maxFileSize: cfg.MaxFileSize,
		uidPolicy:   cfg.UIDPolicy,
		now:         cfg.Now,
	}
	if v.maxFileSize <= 0 {
		v.maxFileSize = DefaultMaxFileSize
	}
	if v.uidPolicy == "" {
		v.uidPolicy = UIDOptional
	}
	if v.now == nil {
		v.now = time.Now
	}
	return v
}

// MaxFileSize returns the effective upload limit.
func (v *Validator) MaxFileSize() int64 {
	return v.maxFileSize
}

// FieldContext carries the sibling values some rules depend on.
type FieldContext struct {
	// Required forces a presence check for fields without a dedicated rule.
	Required           bool
	IsListed           string
	VerificationMethod models.VerificationMethod
}

// Field validates a single named value and returns the first error, or "".
// Required-ness is checked before format.
func (v *Validator) Field(name, value string, fc FieldContext) string {
	switch name {
	case "email":
		if !Required(value) {
			return "Email is required"
		}
		if !Email(value) {
			return "Please enter a valid email address"
		}
	case "phone":
		if value != "" && !SwissPhone(value) {
			return "Please enter a valid Swiss phone number (e.g., +41 44 123 45 67 or 044 123 45 67)"
		}
	case "postal":
		if !Required(value) {
			return "Postal code is required"
		}
		if !SwissPostalCode(value) {
			return "Please enter a valid Swiss postal code (4 digits, 1000-9999)"
		}
	case "city":
		if !Required(value) {
			return "City is required"
		}
	case "canton":
		if !Required(value) {
			return "Canton is required"
		}
		if !SwissCanton(value) {
			return "Please select a valid Swiss canton"
		}
	case "uid":
		if !Required(value) {
			if v.uidPolicy == UIDRequired {
				return "UID number is required"
			}
			return ""
		}
		if !UID(value) {
			return "Please enter a valid UID number (format: CHE-XXX.XXX.XXX)"
		}
	case "industry":
		if !Required(value) {
			return "Industry/Sector is required"
		}
		if !models.HasOption(models.Industries, value) {
			return "Please select a valid industry from the list"
		}
	case "dob", "ownerDob", "incorporationDate", "establishmentDate":
		if !Required(value) {
			return "Date is required"
		}
		if !PastDate(value, v.now()) {
			return "Please enter a valid date"
		}
	case "monthlyVolume":
		if !Required(value) {
			return "Monthly volume is required"
		}
		n, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return "Please enter a valid positive number"
		}
		return v.Volume(n)
	case "nationality", "ownerNationality":
		if !Required(value) {
			return "Nationality is required"
		}
		if !Nationality(value) {
			return "Please enter a valid nationality"
		}
	case "name", "companyName", "ownerName":
		if !Required(value) {
			return "Name is required"
		}
		if !MinLength(value, 2) {
			return "Name must be at least 2 characters long"
		}
		if !MaxLength(value, 100) {
			return "Name must be less than 100 characters"
		}
	case "firstName":
		if !Required(value) {
			return "First name is required"
		}
	case "lastName":
		if !Required(value) {
			return "Last name is required"
		}
	case "address", "ownerAddress":
		if !Required(value) {
			return "Address is required"
		}
		if !MinLength(value, 5) {
			return "Address must be at least 5 characters long"
		}
	case "purpose":
		if !Required(value) {
			return "Company purpose is required"
		}
		if !MinLength(value, 10) {
			return "Company purpose must be at least 10 characters long"
		}
	case "isListed":
		if !Required(value) {
			return "Please indicate if the company is listed"
		}
		if value != "yes" && value != "no" {
			return "Please select Yes or No"
		}
	case "exchangeName":
		if fc.IsListed == "yes" && !Required(value) {
			return "Exchange name is required when company is listed"
		}
	case "toa":
		if !Required(value) {
			return "Type of authorization is required"
		}
		if !models.AuthorizationType(value).Valid() {
			return "Please select a valid type of authorization"
		}
	case "relationship":
		if !Required(value) {
			return "Relationship is required"
		}
		if !models.Relationship(value).Valid() {
			return "Please select a valid relationship"
		}
	case "annualRevenue":
		return v.option(value, models.RevenueRanges, "Annual revenue is required", "Please select a valid annual revenue range")
	case "totalAssets":
		return v.option(value, models.AssetRanges, "Total assets are required", "Please select a valid total assets range")
	case "liabilities":
		if value != "" && !models.HasOption(models.LiabilityRanges, value) {
			return "Please select a valid liabilities range"
		}
	case "verificationMethod":
		if !Required(value) {
			return "Please select a verification method"
		}
		if !models.VerificationMethod(value).Valid() {
			return "Please select a valid verification method"
		}
	case "videoDate":
		if fc.VerificationMethod != models.VerificationVideo {
			return ""
		}
		if !Required(value) {
			return "Please select a date for the video call"
		}
		d, ok := ParseDate(value)
		if !ok {
			return "Please enter a valid date"
		}
		first, last := VideoDateWindow(v.now())
		if d.Before(first) || d.After(last) {
			return "Video call must be scheduled between tomorrow and 30 days from tomorrow"
		}
	case "videoTime":
		if fc.VerificationMethod != models.VerificationVideo {
			return ""
		}
		if !Required(value) {
			return "Please select a time slot for the video call"
		}
		if !slices.Contains(models.VideoTimeSlots, value) {
			return "Please select a valid time slot"
		}
	default:
		if fc.Required && !Required(value) {
			return "This field is required"
		}
	}
	return ""
}

// Volume validates the expected monthly volume.
func (v *Validator) Volume(n float64) string {
	switch {
	case n == 0:
		return "Monthly volume is required"
	case !(n > 0) || math.IsInf(n, 1):
		return "Please enter a valid positive number"
	case !BusinessVolume(n):
		return "Monthly volume must be between 0 and 1,000,000,000 CHF"
	}
	return ""
}

func (v *Validator) option(value string, opts []models.Option, missing, unknown string) string {
	if !Required(value) {
		return missing
	}
	if !models.HasOption(opts, value) {
		return unknown
	}
	return ""
}
