// Package validation holds the input whitelists for traveler, scooter and
// account data. Every rule is an allow-list: input that does not match the
// expected shape is rejected rather than sanitized.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/urbanmobility/umob/internal/common"
)

// Cities is the closed list of serviced cities.
var Cities = []string{
	"Amsterdam", "Rotterdam", "The Hague", "Utrecht", "Eindhoven",
	"Tilburg", "Groningen", "Almere", "Breda", "Nijmegen",
}

// Genders lists the accepted gender values.
var Genders = []string{"male", "female"}

// Rotterdam service region bounds.
const (
	LatitudeMin  = 51.85
	LatitudeMax  = 52.00
	LongitudeMin = 4.40
	LongitudeMax = 4.60
)

var (
	usernameRe    = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_'.]{7,9}$`)
	emailRe       = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneRe       = regexp.MustCompile(`^\d{8}$`)
	zipCodeRe     = regexp.MustCompile(`^\d{4}[A-Z]{2}$`)
	licenseRe     = regexp.MustCompile(`^[A-Z]{1,2}\d{7}$`)
	nameRe        = regexp.MustCompile(`^[a-zA-Z\s'-]{1,30}$`)
	streetRe      = regexp.MustCompile(`^[a-zA-Z0-9\s'.-]{1,50}$`)
	houseNumberRe = regexp.MustCompile(`^\d{1,5}[a-zA-Z]?$`)
	serialRe      = regexp.MustCompile(`^[a-zA-Z0-9]{10,17}$`)
	brandModelRe  = regexp.MustCompile(`^[a-zA-Z0-9\s.-]{1,30}$`)
)

func invalid(field, reason string) error {
	return fmt.Errorf("%w: %s %s", common.ErrInvalidInput, field, reason)
}

// Username checks account names: 8 to 10 characters, starting with a letter
// or underscore, using letters, digits, underscores, apostrophes and dots.
// Case is not significant, so no rule here depends on it.
func Username(s string) error {
	if !usernameRe.MatchString(s) {
		return invalid("username", "must be 8-10 characters, start with a letter or underscore, and use only letters, digits, underscores, apostrophes and periods")
	}
	return nil
}

// Password enforces the account password policy: 12 to 30 characters with
// at least one lowercase letter, one uppercase letter, one digit and one
// special character.
func Password(s string) error {
	if len(s) < 12 || len(s) > 30 {
		return invalid("password", "must be 12-30 characters long")
	}
	var lower, upper, digit, special bool
	for _, r := range s {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune("~!@#$%&_-+=`|\\(){}[]:;'<>,.?/", r):
			special = true
		default:
			return invalid("password", "contains characters outside the allowed set")
		}
	}
	if !lower || !upper || !digit || !special {
		return invalid("password", "must contain a lowercase letter, an uppercase letter, a digit and a special character")
	}
	return nil
}

func Email(s string) error {
	if !emailRe.MatchString(s) {
		return invalid("email", "is not a valid address")
	}
	return nil
}

// MobilePhone accepts the 8 digits following the fixed +31 6 prefix.
func MobilePhone(s string) error {
	if !phoneRe.MatchString(s) {
		return invalid("mobile phone", "must be exactly 8 digits (the part after +31 6)")
	}
	return nil
}

// ZipCode accepts Dutch postal codes: four digits and two uppercase letters.
func ZipCode(s string) error {
	if !zipCodeRe.MatchString(s) {
		return invalid("zip code", "must match DDDDXX, e.g. 3011AB")
	}
	return nil
}

// DrivingLicense accepts one or two uppercase letters followed by seven
// digits.
func DrivingLicense(s string) error {
	if !licenseRe.MatchString(s) {
		return invalid("driving license", "must be 1-2 uppercase letters followed by 7 digits")
	}
	return nil
}

func PersonName(field, s string) error {
	if !nameRe.MatchString(s) {
		return invalid(field, "must be 1-30 letters, spaces, hyphens or apostrophes")
	}
	return nil
}

func StreetName(s string) error {
	if !streetRe.MatchString(s) {
		return invalid("street name", "must be 1-50 letters, digits, spaces or punctuation")
	}
	return nil
}

func HouseNumber(s string) error {
	if !houseNumberRe.MatchString(s) {
		return invalid("house number", "must be digits optionally followed by one letter")
	}
	return nil
}

// Birthday accepts DD-MM-YYYY calendar dates.
func Birthday(s string) error {
	if _, err := time.Parse("02-01-2006", s); err != nil {
		return invalid("birthday", "must be a valid date in DD-MM-YYYY format")
	}
	return nil
}

func Gender(s string) error {
	for _, g := range Genders {
		if s == g {
			return nil
		}
	}
	return invalid("gender", "must be one of: "+strings.Join(Genders, ", "))
}

func City(s string) error {
	for _, c := range Cities {
		if s == c {
			return nil
		}
	}
	return invalid("city", "must be one of: "+strings.Join(Cities, ", "))
}

// SerialNumber accepts 10 to 17 alphanumeric characters.
func SerialNumber(s string) error {
	if !serialRe.MatchString(s) {
		return invalid("serial number", "must be 10-17 alphanumeric characters")
	}
	return nil
}

func BrandOrModel(field, s string) error {
	if !brandModelRe.MatchString(s) {
		return invalid(field, "must be 1-30 letters, digits, spaces or punctuation")
	}
	return nil
}

// Latitude checks the coordinate lies inside the Rotterdam service region.
func Latitude(v float64) error {
	if v < LatitudeMin || v > LatitudeMax {
		return invalid("latitude", fmt.Sprintf("must be between %.2f and %.2f", LatitudeMin, LatitudeMax))
	}
	return nil
}

// Longitude checks the coordinate lies inside the Rotterdam service region.
func Longitude(v float64) error {
	if v < LongitudeMin || v > LongitudeMax {
		return invalid("longitude", fmt.Sprintf("must be between %.2f and %.2f", LongitudeMin, LongitudeMax))
	}
	return nil
}

// StateOfCharge checks a battery percentage.
func StateOfCharge(v int) error {
	if v < 0 || v > 100 {
		return invalid("state of charge", "must be between 0 and 100")
	}
	return nil
}

// SoCRange checks the target charge window.
func SoCRange(minV, maxV int) error {
	if err := StateOfCharge(minV); err != nil {
		return err
	}
	if err := StateOfCharge(maxV); err != nil {
		return err
	}
	if minV >= maxV {
		return invalid("target range", "minimum must be below maximum")
	}
	return nil
}

// PositiveInt checks counters like top speed and battery capacity.
func PositiveInt(field string, v int) error {
	if v <= 0 {
		return invalid(field, "must be a positive number")
	}
	return nil
}

// NonNegativeFloat checks values like mileage.
func NonNegativeFloat(field string, v float64) error {
	if v < 0 {
		return invalid(field, "must not be negative")
	}
	return nil
}

// ISODate accepts YYYY-MM-DD maintenance dates.
func ISODate(field, s string) error {
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return invalid(field, "must be a valid date in YYYY-MM-DD format")
	}
	return nil
}
