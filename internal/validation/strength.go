package validation

import "unicode/utf8"

// Strength is a coarse password quality score.
type Strength int

const (
	Weak Strength = iota
	Medium
	Strong
	VeryStrong
)

func (s Strength) String() string {
	switch s {
	case Medium:
		return "MEDIUM"
	case Strong:
		return "STRONG"
	case VeryStrong:
		return "VERY_STRONG"
	default:
		return "WEAK"
	}
}

// Message is the user-facing advice for s.
func (s Strength) Message() string {
	switch s {
	case Medium:
		return "Password strength is medium. A stronger password is recommended."
	case Strong:
		return "Password strength is strong."
	case VeryStrong:
		return "Password strength is very strong."
	default:
		return "Password is too weak. Use at least 8 characters including letters and digits."
	}
}

const specialChars = "@$!%*#?&"

type charClasses struct {
	letter, upper, lower, digit, special bool
}

func classify(s string) charClasses {
	var c charClasses
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			c.lower, c.letter = true, true
		case r >= 'A' && r <= 'Z':
			c.upper, c.letter = true, true
		case r >= '0' && r <= '9':
			c.digit = true
		default:
			for _, sc := range specialChars {
				if r == sc {
					c.special = true
				}
			}
		}
	}
	return c
}

// CheckStrength scores a password: one point each for length >= 8,
// length >= 12, lower case, upper case, digit and special character.
func CheckStrength(password string) Strength {
	if password == "" {
		return Weak
	}

	score := 0
	n := utf8.RuneCountInString(password)
	if n >= 8 {
		score++
	}
	if n >= 12 {
		score++
	}
	c := classify(password)
	for _, ok := range []bool{c.lower, c.upper, c.digit, c.special} {
		if ok {
			score++
		}
	}

	switch {
	case score <= 2:
		return Weak
	case score <= 4:
		return Medium
	case score <= 6:
		return Strong
	default:
		return VeryStrong
	}
}
