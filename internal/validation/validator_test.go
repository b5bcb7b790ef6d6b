package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/isdelr/salesdash-be/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reasonOf(t *testing.T, err error) string {
	t.Helper()
	var e *apperr.Error
	require.True(t, errors.As(err, &e), "expected *apperr.Error, got %v", err)
	require.Equal(t, apperr.KindValidation, e.Kind)
	return e.Message
}

func TestSignup_Valid(t *testing.T) {
	v := New(PolicyBaseline)
	assert.NoError(t, v.Signup("Acme Inc", "alice01", "alice@acme.com", "secret1"))
}

func TestSignup_FirstFailureWins(t *testing.T) {
	v := New(PolicyBaseline)

	// Every field is bad: company name is reported because it is checked first.
	err := v.Signup("A", "a!", "nope", "x")
	assert.Equal(t, ReasonCompanyName, reasonOf(t, err))

	err = v.Signup("Acme", "a!", "nope", "x")
	assert.Equal(t, ReasonUsername, reasonOf(t, err))

	err = v.Signup("Acme", "alice", "nope", "x")
	assert.Equal(t, ReasonEmail, reasonOf(t, err))

	err = v.Signup("Acme", "alice", "a@b.co", "x")
	assert.Equal(t, ReasonPassword, reasonOf(t, err))
}

func TestCompanyName(t *testing.T) {
	v := New(PolicyBaseline)
	assert.NoError(t, v.CompanyName("AB"))
	assert.NoError(t, v.CompanyName(strings.Repeat("가", 50)))
	assert.Error(t, v.CompanyName("  A  "))
	assert.Error(t, v.CompanyName(""))
	assert.Error(t, v.CompanyName(strings.Repeat("x", 51)))
}

func TestUsername(t *testing.T) {
	v := New(PolicyBaseline)
	for _, ok := range []string{"abc", "alice_01", strings.Repeat("z", 20)} {
		assert.NoError(t, v.Username(ok), ok)
	}
	for _, bad := range []string{"", "ab", "has-hyphen", "has space", strings.Repeat("z", 21), "ünï"} {
		assert.Error(t, v.Username(bad), bad)
	}
}

func TestEmail(t *testing.T) {
	v := New(PolicyBaseline)
	for _, ok := range []string{"a@b.co", "first.last+tag@sub.example.org"} {
		assert.NoError(t, v.Email(ok), ok)
	}
	for _, bad := range []string{"", "plain", "a@b", "a@b.c", "@b.com", "a b@c.com"} {
		assert.Error(t, v.Email(bad), bad)
	}
}

func TestPassword_Policies(t *testing.T) {
	cases := []struct {
		policy Policy
		pw     string
		ok     bool
	}{
		{PolicyBaseline, "secret", true},
		{PolicyBaseline, "short", false},
		{PolicyBaseline, "      ", false},
		{PolicyStrict, "secret1", false},
		{PolicyStrict, "secret12", true},
		{PolicyStrict, "onlyletters", false},
		{PolicyStrong, "secret12", false},
		{PolicyStrong, "Secret12!", true},
		{PolicyStrong, "SECRET12!", false},
	}
	for _, tc := range cases {
		err := New(tc.policy).Password(tc.pw)
		if tc.ok {
			assert.NoError(t, err, "%v %q", tc.policy, tc.pw)
		} else {
			assert.Error(t, err, "%v %q", tc.policy, tc.pw)
		}
	}
}

func TestFailureCarriesFieldDetail(t *testing.T) {
	err := New(PolicyBaseline).Username("x")
	var e *apperr.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, []string{ReasonUsername}, e.Details["username"])
}

func TestParsePolicy(t *testing.T) {
	assert.Equal(t, PolicyStrict, ParsePolicy("STRICT"))
	assert.Equal(t, PolicyStrong, ParsePolicy("strong"))
	assert.Equal(t, PolicyBaseline, ParsePolicy("whatever"))
}

func TestCheckStrength(t *testing.T) {
	cases := map[string]Strength{
		"":               Weak,
		"abc":            Weak,
		"abcdefgh":       Weak,   // length + lower
		"abcdefg1":       Medium, // length + lower + digit
		"Abcdefg1":       Medium,
		"Abcdefg1!":      Strong,
		"Abcdefghij1!xy": Strong,
	}
	for pw, want := range cases {
		assert.Equal(t, want, CheckStrength(pw), pw)
	}
	assert.Equal(t, "WEAK", Weak.String())
	assert.NotEmpty(t, Strong.Message())
}
