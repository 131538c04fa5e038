package validation

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSwissPostalCode(t *testing.T) {
	for n := 0; n <= 10000; n += 37 {
		code := fmt.Sprintf("%d", n)
		want := n >= 1000 && n <= 9999
		assert.Equal(t, want, SwissPostalCode(code), code)
	}
	for _, code := range []string{"0999", "08001", "80a1", "", " 8001"} {
		assert.False(t, SwissPostalCode(code), code)
	}
	assert.True(t, SwissPostalCode("9999"))
	assert.True(t, SwissPostalCode("1000"))
}

func TestSwissPhone(t *testing.T) {
	tests := map[string]bool{
		"+41 44 123 45 67": true,
		"044 123 45 67":    true,
		"+41441234567":     true,
		"0041441234567":    false,
		"+41 04 123 45 67": false,
		"044 123 45":       false,
		"":                 false,
	}
	for phone, want := range tests {
		assert.Equal(t, want, SwissPhone(phone), phone)
	}
}

func TestEmail(t *testing.T) {
	assert.True(t, Email("anna.muster+kyc@example.co.uk"))
	assert.False(t, Email("anna@example"))
	assert.False(t, Email("anna example@x.ch"))
	assert.False(t, Email(""))
}

func TestUID(t *testing.T) {
	assert.True(t, UID("CHE-123.456.789"))
	assert.False(t, UID("CHE-123456789"))
	assert.False(t, UID("che-123.456.789"))
	assert.False(t, UID("CHE-123.456.78"))
}

func TestSwissCanton(t *testing.T) {
	assert.True(t, SwissCanton("zh"))
	assert.True(t, SwissCanton("AI"))
	assert.False(t, SwissCanton("XX"))
	assert.Len(t, cantons, 26)
}

func TestNationality(t *testing.T) {
	assert.True(t, Nationality("Swiss"))
	assert.True(t, Nationality("half-Swiss"))
	assert.True(t, Nationality("Peruvian"))
	assert.False(t, Nationality("X"))
}

func TestPastDate(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

	assert.True(t, PastDate("2025-03-10", now), "today")
	assert.True(t, PastDate("1980-01-01", now))
	assert.False(t, PastDate("2025-03-11", now), "future dates are invalid")
	assert.False(t, PastDate("1904-03-09", now), "older than 120 years")
	assert.True(t, PastDate("1905-03-10", now))
	assert.False(t, PastDate("2025-02-30", now))
	assert.False(t, PastDate("10.03.2025", now))
}

func TestVideoDateWindow(t *testing.T) {
	now := time.Date(2025, time.March, 10, 23, 59, 0, 0, time.UTC)
	first, last := VideoDateWindow(now)
	assert.Equal(t, "2025-03-11", first.Format(DateLayout))
	assert.Equal(t, "2025-04-10", last.Format(DateLayout))
}

func TestLengthRules(t *testing.T) {
	assert.False(t, Required("   "))
	assert.True(t, MinLength(" ab ", 2))
	assert.False(t, MinLength("a", 2))
	assert.True(t, MaxLength("abc", 3))
	assert.False(t, MaxLength("abcd", 3))
	assert.False(t, MaxLength("", 3))
	assert.True(t, PositiveNumber("0.5"))
	assert.False(t, PositiveNumber("0"))
	assert.False(t, PositiveNumber("Inf"))
	assert.False(t, PositiveNumber("abc"))
}

func TestBusinessVolume(t *testing.T) {
	assert.True(t, BusinessVolume(0))
	assert.True(t, BusinessVolume(MaxMonthlyVolume))
	assert.False(t, BusinessVolume(MaxMonthlyVolume+1))
	assert.False(t, BusinessVolume(-1))
}
