// Package form implements the rule-based field validation shared by every
// entity controller. A submission is a map of raw string values; each field
// has an ordered list of rules and the first failing rule supplies that
// field's message. Fields are evaluated independently so a failed
// submission reports every broken field at once, and nothing is persisted
// until the whole form passes.
package form

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Values holds the raw submitted form fields keyed by field name.
type Values map[string]string

// Errors maps field names to the message of the first rule that failed.
type Errors map[string]string

// Add records a message for a field unless one is already present.
func (e Errors) Add(field, msg string) {
	if _, ok := e[field]; !ok {
		e[field] = msg
	}
}

// Ok reports whether no field failed.
func (e Errors) Ok() bool { return len(e) == 0 }

// Rule checks a single trimmed value and returns an error message, or ""
// when the value is acceptable. Every rule except Required treats the
// empty string as valid so optional fields only validate when filled in.
type Rule func(value string) string

// Validate runs every field's rules against the submitted values. All
// fields are checked; there is no cross-field short-circuit.
func Validate(values Values, rules map[string][]Rule) Errors {
	errs := Errors{}
	for field, fieldRules := range rules {
		v := strings.TrimSpace(values[field])
		for _, r := range fieldRules {
			if msg := r(v); msg != "" {
				errs.Add(field, msg)
				break
			}
		}
	}
	return errs
}

// Required fails on an empty (or whitespace-only) value.
func Required(label string) Rule {
	return func(v string) string {
		if v == "" {
			return label + " is required"
		}
		return ""
	}
}

// NumericRange fails when the value is not a number or falls outside the
// given bounds. Pass nil to leave a bound open.
func NumericRange(label string, min, max *float64) Rule {
	return func(v string) string {
		if v == "" {
			return ""
		}
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return label + " must be a number"
		}
		if min != nil && n < *min {
			return fmt.Sprintf("%s must be at least %g", label, *min)
		}
		if max != nil && n > *max {
			return fmt.Sprintf("%s must be at most %g", label, *max)
		}
		return ""
	}
}

// IntRange is NumericRange for whole numbers.
func IntRange(label string, min, max int64) Rule {
	return func(v string) string {
		if v == "" {
			return ""
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return label + " must be a whole number"
		}
		if n < min || n > max {
			return fmt.Sprintf("%s must be between %d and %d", label, min, max)
		}
		return ""
	}
}

// Regex fails when the value does not match the compiled pattern.
func Regex(re *regexp.Regexp, msg string) Rule {
	return func(v string) string {
		if v == "" {
			return ""
		}
		if !re.MatchString(v) {
			return msg
		}
		return ""
	}
}

// MinLength fails when the value has fewer than n characters.
func MinLength(label string, n int) Rule {
	return func(v string) string {
		if v == "" {
			return ""
		}
		if len([]rune(v)) < n {
			return fmt.Sprintf("%s must be at least %d characters", label, n)
		}
		return ""
	}
}

// MaxLength fails when the value has more than n characters.
func MaxLength(label string, n int) Rule {
	return func(v string) string {
		if len([]rune(v)) > n {
			return fmt.Sprintf("%s must be at most %d characters", label, n)
		}
		return ""
	}
}

// dateLayout is the expected wire format for date fields.
const dateLayout = "2006-01-02"

// ParseDate parses a form date value. time.Parse rejects impossible
// calendar dates like 2023-02-30 because the round trip would not match.
func ParseDate(v string) (time.Time, error) {
	return time.Parse(dateLayout, strings.TrimSpace(v))
}

// Date validates a calendar date. With notFuture, dates after today fail;
// with notPast, dates before today fail. Today always passes either bound.
func Date(label string, notFuture, notPast bool) Rule {
	return func(v string) string {
		if v == "" {
			return ""
		}
		d, err := ParseDate(v)
		if err != nil {
			return label + " must be a valid date (YYYY-MM-DD)"
		}
		today, _ := ParseDate(time.Now().Format(dateLayout))
		if notFuture && d.After(today) {
			return label + " cannot be in the future"
		}
		if notPast && d.Before(today) {
			return label + " cannot be in the past"
		}
		return ""
	}
}

// emailRe is a simplified RFC 5322 check, deliberately permissive.
var emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Email fails when the value is not a syntactically valid address.
func Email(label string) Rule {
	return Regex(emailRe, label+" must be a valid email address")
}

// Match fails when the value differs from other. Used for password
// confirmation fields.
func Match(other, msg string) Rule {
	return func(v string) string {
		if v != other {
			return msg
		}
		return ""
	}
}

// Enum fails when the value is not one of the allowed strings.
func Enum(label string, allowed ...string) Rule {
	return func(v string) string {
		if v == "" {
			return ""
		}
		for _, a := range allowed {
			if v == a {
				return ""
			}
		}
		return fmt.Sprintf("%s must be one of: %s", label, strings.Join(allowed, ", "))
	}
}

// OwnedRef validates a foreign key selection: the value must parse as an
// id and the check closure must confirm the row exists and belongs to the
// current user. Repositories supply the closure so the validator itself
// stays free of database access.
func OwnedRef(label string, check func(id uint64) (bool, error)) Rule {
	return func(v string) string {
		if v == "" {
			return ""
		}
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil || id == 0 {
			return label + " selection is invalid"
		}
		ok, err := check(id)
		if err != nil || !ok {
			return label + " selection is invalid"
		}
		return ""
	}
}
