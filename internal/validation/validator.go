// Package validation holds the structural rules for account fields.
package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/isdelr/salesdash-be/internal/apperr"
)

// Failure reasons, one per field rule.
const (
	ReasonCompanyName = "company name length"
	ReasonUsername    = "username format"
	ReasonEmail       = "email format"
	ReasonPassword    = "password strength"
)

var (
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{3,20}$`)
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// Policy selects how demanding password validation is.
type Policy int

const (
	// PolicyBaseline requires at least 6 characters.
	PolicyBaseline Policy = iota
	// PolicyStrict requires at least 8 characters with a letter and a digit.
	PolicyStrict
	// PolicyStrong adds upper case, lower case and a special character to PolicyStrict.
	PolicyStrong
)

// ParsePolicy maps a config value to a Policy. Unknown names yield PolicyBaseline.
func ParsePolicy(name string) Policy {
	switch strings.ToLower(name) {
	case "strict":
		return PolicyStrict
	case "strong":
		return PolicyStrong
	default:
		return PolicyBaseline
	}
}

// Validator applies the field rules. The zero value uses PolicyBaseline.
type Validator struct {
	policy Policy
}

func New(policy Policy) *Validator {
	return &Validator{policy: policy}
}

// Signup checks the four signup fields in order and returns the first
// failure.
func (v *Validator) Signup(companyName, username, email, password string) error {
	if err := v.CompanyName(companyName); err != nil {
		return err
	}
	if err := v.Username(username); err != nil {
		return err
	}
	if err := v.Email(email); err != nil {
		return err
	}
	return v.Password(password)
}

func (v *Validator) CompanyName(s string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(s))
	if n < 2 || n > 50 {
		return fail("companyName", ReasonCompanyName)
	}
	return nil
}

func (v *Validator) Username(s string) error {
	if s == "" || !usernamePattern.MatchString(s) {
		return fail("username", ReasonUsername)
	}
	return nil
}

func (v *Validator) Email(s string) error {
	if s == "" || !emailPattern.MatchString(s) {
		return fail("email", ReasonEmail)
	}
	return nil
}

// Password checks s against the configured policy.
func (v *Validator) Password(s string) error {
	if !v.passwordOK(s) {
		return fail("password", ReasonPassword)
	}
	return nil
}

func (v *Validator) passwordOK(s string) bool {
	if strings.TrimSpace(s) == "" {
		return false
	}
	n := utf8.RuneCountInString(s)
	c := classify(s)

	switch v.policy {
	case PolicyStrict:
		return n >= 8 && c.letter && c.digit
	case PolicyStrong:
		return n >= 8 && c.letter && c.digit && c.upper && c.lower && c.special
	default:
		return n >= 6
	}
}

func fail(field, reason string) error {
	return apperr.Validation(reason).WithField(field, reason)
}
