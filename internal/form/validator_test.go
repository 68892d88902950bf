package form

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateReportsEveryBrokenField(t *testing.T) {
	rules := map[string][]Rule{
		"farm_name": {Required("Farm name")},
		"location":  {Required("Location")},
		"size":      {Required("Size"), NumericRange("Size", fptr(0.01), fptr(1000000))},
	}
	errs := Validate(Values{"size": "abc"}, rules)

	assert.False(t, errs.Ok())
	assert.Len(t, errs, 3)
	assert.Equal(t, "Farm name is required", errs["farm_name"])
	assert.Equal(t, "Location is required", errs["location"])
	assert.Equal(t, "Size must be a number", errs["size"])
}

func TestValidateFirstFailingRuleWins(t *testing.T) {
	rules := map[string][]Rule{
		"size": {Required("Size"), NumericRange("Size", fptr(0.01), nil)},
	}
	errs := Validate(Values{"size": "   "}, rules)
	assert.Equal(t, "Size is required", errs["size"])
}

func TestRequiredTrimsWhitespace(t *testing.T) {
	errs := Validate(Values{"name": "  Greenacre  "}, map[string][]Rule{
		"name": {Required("Name")},
	})
	assert.True(t, errs.Ok())
}

func TestNumericRangeBounds(t *testing.T) {
	rule := NumericRange("Size", fptr(0.01), fptr(1000000))

	cases := []struct {
		value string
		want  string
	}{
		{"0.01", ""},
		{"1000000", ""},
		{"0", "Size must be at least 0.01"},
		{"1000000.5", "Size must be at most 1e+06"},
		{"ten", "Size must be a number"},
		{"", ""}, // optional unless Required is also present
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, rule(tc.value), "value %q", tc.value)
	}
}

func TestIntRangeQuantityBounds(t *testing.T) {
	rule := IntRange("Quantity", 1, 1000)

	cases := []struct {
		value string
		want  string
	}{
		{"1", ""},
		{"1000", ""},
		{"0", "Quantity must be between 1 and 1000"},
		{"1001", "Quantity must be between 1 and 1000"},
		{"12.5", "Quantity must be a whole number"},
		{"cow", "Quantity must be a whole number"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, rule(tc.value), "value %q", tc.value)
	}
}

func TestDateRejectsImpossibleCalendarDates(t *testing.T) {
	rule := Date("Registration date", true, false)

	assert.Equal(t, "Registration date must be a valid date (YYYY-MM-DD)", rule("2023-02-30"))
	assert.Equal(t, "Registration date must be a valid date (YYYY-MM-DD)", rule("2023-13-01"))
	assert.Equal(t, "Registration date must be a valid date (YYYY-MM-DD)", rule("30/02/2023"))
	assert.Equal(t, "", rule("2023-02-28"))
}

func TestDateFutureAndPastBounds(t *testing.T) {
	today := time.Now().Format("2006-01-02")
	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")

	notFuture := Date("Hire date", true, false)
	assert.Equal(t, "", notFuture(today))
	assert.Equal(t, "", notFuture(yesterday))
	assert.Equal(t, "Hire date cannot be in the future", notFuture(tomorrow))

	notPast := Date("Visit date", false, true)
	assert.Equal(t, "", notPast(today))
	assert.Equal(t, "", notPast(tomorrow))
	assert.Equal(t, "Visit date cannot be in the past", notPast(yesterday))
}

func TestEmailRule(t *testing.T) {
	rule := Email("Email")

	assert.Equal(t, "", rule("jo.smith+farm@example.co.uk"))
	assert.Equal(t, "Email must be a valid email address", rule("not-an-email"))
	assert.Equal(t, "Email must be a valid email address", rule("missing@tld"))
	assert.Equal(t, "Email must be a valid email address", rule("@example.com"))
}

func TestMatchForPasswordConfirmation(t *testing.T) {
	rule := Match("s3cretpass", "Passwords do not match")
	assert.Equal(t, "", rule("s3cretpass"))
	assert.Equal(t, "Passwords do not match", rule("different"))
}

func TestEnumRule(t *testing.T) {
	rule := Enum("Record type", "vaccination", "treatment", "checkup")
	assert.Equal(t, "", rule("treatment"))
	assert.Equal(t, "Record type must be one of: vaccination, treatment, checkup", rule("surgery"))
}

func TestLengthRulesCountRunes(t *testing.T) {
	min := MinLength("Message", 10)
	assert.Equal(t, "Message must be at least 10 characters", min("too short"))
	assert.Equal(t, "", min("just long enough"))

	max := MaxLength("Username", 5)
	assert.Equal(t, "", max("héllo"))
	assert.Equal(t, "Username must be at most 5 characters", max("toolong"))
}

func TestOwnedRefRejectsForeignAndBrokenIDs(t *testing.T) {
	owned := map[uint64]bool{7: true}
	rule := OwnedRef("Farm", func(id uint64) (bool, error) {
		return owned[id], nil
	})

	assert.Equal(t, "", rule("7"))
	assert.Equal(t, "Farm selection is invalid", rule("8"))
	assert.Equal(t, "Farm selection is invalid", rule("0"))
	assert.Equal(t, "Farm selection is invalid", rule("abc"))

	failing := OwnedRef("Farm", func(id uint64) (bool, error) {
		return false, errors.New("db down")
	})
	assert.Equal(t, "Farm selection is invalid", failing("7"))
}

func fptr(f float64) *float64 { return &f }
