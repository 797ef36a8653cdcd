package validation

import (
	"strings"
	"unicode"

	"github.com/Johannes-Berggren/mkgitbranch/internal/models"
)

const maxUsernameLen = 32

// Normalize rewrites raw input for f the way the form filters keystrokes.
// The type field is chosen from a list and is returned unchanged.
func Normalize(f models.Field, s string) string {
	switch f {
	case models.FieldUsername:
		return NormalizeUsername(s)
	case models.FieldJira:
		return NormalizeJira(s)
	case models.FieldDescription:
		return NormalizeDescription(s)
	}
	return s
}

// NormalizeUsername keeps letters, digits, '.', '-' and '_', at most 32 runes.
func NormalizeUsername(s string) string {
	var b strings.Builder
	n := 0
	for _, r := range s {
		if n == maxUsernameLen {
			break
		}
		if isAlnum(r) || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
			n++
		}
	}
	return b.String()
}

// NormalizeJira upper-cases and keeps letters, digits and '-'.
func NormalizeJira(s string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(s) {
		if isAlnum(r) || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeDescription lower-cases, turns spaces into '-' and keeps letters,
// digits and '-'.
func NormalizeDescription(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r == ' ':
			b.WriteRune('-')
		case isAlnum(r) || r == '-':
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isAlnum(r rune) bool {
	return r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r))
}
