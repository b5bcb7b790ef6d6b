// Package sanitize detects and neutralizes injected markup and script in
// untrusted text.
package sanitize

import (
	"regexp"
	"strings"
)

const maxUsernameLen = 20

// defaultPatterns is the ordered attack rule set. Order matters for
// stripping: whole-element patterns run before the fragment patterns that
// would otherwise leave half a tag behind.
var defaultPatterns = []string{
	`(?i)<script[^>]*>.*?</script>`,
	`(?i)javascript:`,
	`(?i)on\w+\s*=`,
	`(?i)<iframe[^>]*>.*?</iframe>`,
	`(?i)<object[^>]*>.*?</object>`,
	`(?i)<embed[^>]*>`,
	`(?i)<form[^>]*>.*?</form>`,
	`(?i)<input[^>]*>`,
	`(?i)<link[^>]*>`,
	`(?i)<meta[^>]*>`,
	`(?i)<style[^>]*>.*?</style>`,
	`(?i)expression\s*\(`,
	`(?i)eval\s*\(`,
	`(?i)alert\s*\(`,
	`(?i)confirm\s*\(`,
	`(?i)prompt\s*\(`,
	`(?i)document\.cookie`,
	`(?i)document\.write`,
	`(?i)window\.location`,
	`(?i)innerHTML`,
	`(?i)outerHTML`,
	`(?i)<img[^>]*onerror[^>]*>`,
	`(?i)<svg[^>]*>.*?</svg>`,
	`(?i)src\s*=\s*["']?javascript:`,
	`(?i)href\s*=\s*["']?javascript:`,
}

var (
	usernameDisallowed = regexp.MustCompile(`[^A-Za-z0-9_-]`)
	emailShape         = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

	htmlEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#x27;",
		"/", "&#x2F;",
	)
)

// Sanitizer holds an immutable rule set. Its methods are pure functions of
// their input and safe for concurrent use.
type Sanitizer struct {
	rules []*regexp.Regexp
}

// New compiles the default rule set.
func New() *Sanitizer {
	s, err := NewWithPatterns(defaultPatterns)
	if err != nil {
		panic(err)
	}
	return s
}

// NewWithPatterns compiles a custom ordered rule set.
func NewWithPatterns(patterns []string) (*Sanitizer, error) {
	rules := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, err
		}
		rules = append(rules, re)
	}
	return &Sanitizer{rules: rules}, nil
}

// DetectsAttack reports whether text matches any rule.
func (s *Sanitizer) DetectsAttack(text string) bool {
	if text == "" {
		return false
	}
	for _, re := range s.rules {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// Sanitize strips every rule match and HTML-escapes the result. Text with no
// match is only escaped.
func (s *Sanitizer) Sanitize(text string) string {
	if text == "" {
		return text
	}
	if !s.DetectsAttack(text) {
		return EscapeHTML(text)
	}
	cleaned := text
	for _, re := range s.rules {
		cleaned = re.ReplaceAllLiteralString(cleaned, "")
	}
	return EscapeHTML(strings.TrimSpace(cleaned))
}

// SanitizeUsername keeps only [A-Za-z0-9_-] and truncates to 20 characters.
func (s *Sanitizer) SanitizeUsername(text string) string {
	cleaned := usernameDisallowed.ReplaceAllLiteralString(text, "")
	if len(cleaned) > maxUsernameLen {
		cleaned = cleaned[:maxUsernameLen]
	}
	return cleaned
}

// SanitizeEmail sanitizes text and returns "" unless the result is still a
// well-formed address.
func (s *Sanitizer) SanitizeEmail(text string) string {
	if text == "" {
		return text
	}
	cleaned := s.Sanitize(strings.TrimSpace(text))
	if !emailShape.MatchString(cleaned) {
		return ""
	}
	return cleaned
}

// EscapeHTML replaces & < > " ' / with their entities in a single pass.
func EscapeHTML(text string) string {
	return htmlEscaper.Replace(text)
}
