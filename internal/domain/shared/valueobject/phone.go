package valueobject

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/farmabill/backend/internal/domain/shared"
)

// DefaultCountryCode is the country code assumed for local numbers
const DefaultCountryCode = "+54"

var (
	phonePattern     = regexp.MustCompile(`^\+?[\d\s\-()]+$`)
	phoneSeparators  = regexp.MustCompile(`[\s\-()]`)
	normalizedDigits = regexp.MustCompile(`^\+\d{8,15}$`)
)

// Phone is an immutable phone number. It keeps the raw value as entered and
// an E.164 normalized form used for identity and WhatsApp addressing.
type Phone struct {
	value      string
	normalized string
}

// NewPhone creates a Phone from a raw number, normalizing with the default
// Argentine country code.
func NewPhone(raw string) (Phone, error) {
	return NewPhoneWithCountry(raw, DefaultCountryCode)
}

// NewPhoneWithCountry creates a Phone normalizing local numbers with the
// given country code.
func NewPhoneWithCountry(raw, countryCode string) (Phone, error) {
	if raw == "" {
		return Phone{}, shared.NewValidationError("phone", "phone number cannot be empty")
	}
	if !phonePattern.MatchString(raw) {
		return Phone{}, shared.NewValidationError("phone", fmt.Sprintf("invalid phone number format: %s", raw))
	}

	cleaned := phoneSeparators.ReplaceAllString(raw, "")

	var normalized string
	switch {
	case strings.HasPrefix(cleaned, "+"):
		normalized = cleaned
	case strings.HasPrefix(cleaned, "54") && len(cleaned) > 10:
		// Country code present without the plus
		normalized = "+" + cleaned
	case strings.HasPrefix(cleaned, "9") && len(cleaned) == 10:
		// Mobile number without country code
		normalized = countryCode + "9" + cleaned[1:]
	case strings.HasPrefix(cleaned, "0"):
		normalized = countryCode + cleaned[1:]
	default:
		normalized = countryCode + cleaned
	}

	if !normalizedDigits.MatchString(normalized) {
		return Phone{}, shared.NewValidationError("phone", fmt.Sprintf("phone number does not normalize to E.164: %s", raw))
	}

	return Phone{value: raw, normalized: normalized}, nil
}

// PhoneFromNormalized creates a Phone from an already normalized E.164 number
func PhoneFromNormalized(normalized string) (Phone, error) {
	if !normalizedDigits.MatchString(normalized) {
		return Phone{}, shared.NewValidationError("phone", fmt.Sprintf("not a normalized E.164 number: %s", normalized))
	}
	return Phone{value: normalized, normalized: normalized}, nil
}

// Value returns the raw number as entered
func (p Phone) Value() string {
	return p.value
}

// Normalized returns the E.164 form
func (p Phone) Normalized() string {
	return p.normalized
}

// WhatsAppFormat returns the number without the plus sign, as the WhatsApp
// API expects
func (p Phone) WhatsAppFormat() string {
	return strings.TrimPrefix(p.normalized, "+")
}

// IsZero reports whether the phone is the zero value
func (p Phone) IsZero() bool {
	return p.normalized == ""
}

// Equals compares phones by normalized value
func (p Phone) Equals(other Phone) bool {
	return p.normalized == other.normalized
}

func (p Phone) String() string {
	return p.value
}
