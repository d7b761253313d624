package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/urbanmobility/umob/internal/common"
)

func TestUsername(t *testing.T) {
	valid := []string{"john_doe1", "_engineer", "a.b'cdefg", "sysadmin42"}
	for _, s := range valid {
		assert.NoError(t, Username(s), s)
	}

	invalid := []string{"short", "9starts_num", "this_name_is_too_long", "has space1", "bad!chars"}
	for _, s := range invalid {
		assert.ErrorIs(t, Username(s), common.ErrInvalidInput, s)
	}
}

func TestPassword(t *testing.T) {
	valid := []string{"Abcdefg1234!", "Str0ng_Passw0rd?", "xXyYzZ99@@abc"}
	for _, s := range valid {
		assert.NoError(t, Password(s), s)
	}

	invalid := []string{
		"Short1!",                          // too short
		"alllowercase1!x",                  // no uppercase
		"ALLUPPERCASE1!X",                  // no lowercase
		"NoDigitsHere!!ab",                 // no digit
		"NoSpecialChar12ab",                // no special
		"Has Spaces 12!ab",                 // space not allowed
		"WayTooLongPassword1234567890!!abc", // over 30
	}
	for _, s := range invalid {
		assert.ErrorIs(t, Password(s), common.ErrInvalidInput, s)
	}
}

func TestEmail(t *testing.T) {
	assert.NoError(t, Email("alice@example.com"))
	assert.NoError(t, Email("a.b+c@mail.example.org"))

	for _, s := range []string{"", "no-at-sign", "a@b", "a@b.", "@example.com"} {
		assert.ErrorIs(t, Email(s), common.ErrInvalidInput, s)
	}
}

func TestMobilePhone(t *testing.T) {
	assert.NoError(t, MobilePhone("12345678"))

	for _, s := range []string{"1234567", "123456789", "12a45678", "+3161234"} {
		assert.ErrorIs(t, MobilePhone(s), common.ErrInvalidInput, s)
	}
}

func TestZipCode(t *testing.T) {
	assert.NoError(t, ZipCode("3011AB"))

	for _, s := range []string{"3011ab", "301AB", "30111AB", "ABCD12"} {
		assert.ErrorIs(t, ZipCode(s), common.ErrInvalidInput, s)
	}
}

func TestDrivingLicense(t *testing.T) {
	assert.NoError(t, DrivingLicense("A1234567"))
	assert.NoError(t, DrivingLicense("AB1234567"))

	for _, s := range []string{"1234567", "a1234567", "ABC1234567", "A123456", "A12345678"} {
		assert.ErrorIs(t, DrivingLicense(s), common.ErrInvalidInput, s)
	}
}

func TestBirthday(t *testing.T) {
	assert.NoError(t, Birthday("01-02-1990"))
	assert.NoError(t, Birthday("29-02-2000"))

	for _, s := range []string{"1990-02-01", "32-01-1990", "29-02-1999", "01/02/1990", ""} {
		assert.ErrorIs(t, Birthday(s), common.ErrInvalidInput, s)
	}
}

func TestGenderAndCity(t *testing.T) {
	assert.NoError(t, Gender("male"))
	assert.NoError(t, Gender("female"))
	assert.ErrorIs(t, Gender("Male"), common.ErrInvalidInput)
	assert.ErrorIs(t, Gender(""), common.ErrInvalidInput)

	assert.NoError(t, City("Rotterdam"))
	assert.NoError(t, City("The Hague"))
	assert.ErrorIs(t, City("rotterdam"), common.ErrInvalidInput)
	assert.ErrorIs(t, City("Paris"), common.ErrInvalidInput)
}

func TestSerialNumber(t *testing.T) {
	assert.NoError(t, SerialNumber("ABC1234567"))
	assert.NoError(t, SerialNumber("abc12345678901234"))

	for _, s := range []string{"SHORT123", "toolongserial12345678", "has space12", "dash-12345678"} {
		assert.ErrorIs(t, SerialNumber(s), common.ErrInvalidInput, s)
	}
}

func TestCoordinates(t *testing.T) {
	assert.NoError(t, Latitude(51.92))
	assert.NoError(t, Longitude(4.48))

	assert.ErrorIs(t, Latitude(52.5), common.ErrInvalidInput)
	assert.ErrorIs(t, Latitude(51.0), common.ErrInvalidInput)
	assert.ErrorIs(t, Longitude(5.0), common.ErrInvalidInput)
	assert.ErrorIs(t, Longitude(4.0), common.ErrInvalidInput)
}

func TestSoCRange(t *testing.T) {
	assert.NoError(t, SoCRange(20, 90))

	assert.ErrorIs(t, SoCRange(90, 20), common.ErrInvalidInput)
	assert.ErrorIs(t, SoCRange(50, 50), common.ErrInvalidInput)
	assert.ErrorIs(t, SoCRange(-1, 50), common.ErrInvalidInput)
	assert.ErrorIs(t, SoCRange(10, 101), common.ErrInvalidInput)
}

func TestAddressFields(t *testing.T) {
	assert.NoError(t, PersonName("first name", "Anne-Marie"))
	assert.ErrorIs(t, PersonName("first name", "B0b"), common.ErrInvalidInput)

	assert.NoError(t, StreetName("Coolsingel"))
	assert.NoError(t, StreetName("2e Middellandstraat"))
	assert.ErrorIs(t, StreetName(""), common.ErrInvalidInput)

	assert.NoError(t, HouseNumber("12"))
	assert.NoError(t, HouseNumber("12b"))
	assert.ErrorIs(t, HouseNumber("b12"), common.ErrInvalidInput)
	assert.ErrorIs(t, HouseNumber(""), common.ErrInvalidInput)
}

func TestDatesAndNumbers(t *testing.T) {
	assert.NoError(t, ISODate("maintenance date", "2026-01-15"))
	assert.ErrorIs(t, ISODate("maintenance date", "15-01-2026"), common.ErrInvalidInput)

	assert.NoError(t, PositiveInt("top speed", 25))
	assert.ErrorIs(t, PositiveInt("top speed", 0), common.ErrInvalidInput)

	assert.NoError(t, NonNegativeFloat("mileage", 0))
	assert.ErrorIs(t, NonNegativeFloat("mileage", -0.1), common.ErrInvalidInput)
}
