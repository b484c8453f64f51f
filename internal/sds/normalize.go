package sds

import (
	"regexp"
	"strings"
	"unicode"
)

// numericRun matches the first number in a value. The first alternative is a
// comma-grouped integer ("2,000", "1,013.25") and must not run into further
// digits; the second allows at most one decimal separator, either dot or
// comma ("12,5", "0.79", "1,5000").
var numericRun = regexp.MustCompile(`(-?[1-9]\d{0,2}(?:,\d{3})+(?:\.\d+)?)(?:\D|$)|(-?\d+(?:[.,]\d+)?)`)

// CleanNumeric reduces a captured value to its first numeric run, normalising
// a decimal comma to a dot. Placeholders and values without any digits yield
// NotAvailable.
func CleanNumeric(raw string) Field {
	v := trimSeparators(raw)
	if IsPlaceholder(v) {
		return NotAvailable
	}
	m := numericRun.FindStringSubmatch(v)
	if m == nil {
		return NotAvailable
	}
	if m[1] != "" {
		return Present(m[1])
	}
	return Present(strings.Replace(m[2], ",", ".", 1))
}

// trimSeparators strips whitespace and label punctuation from both ends. A
// leading '-' survives only when it is a sign glued to a digit.
func trimSeparators(s string) string {
	s = strings.TrimRightFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || strings.ContainsRune(":;,.=", r)
	})
	for s != "" {
		r := rune(s[0])
		switch {
		case unicode.IsSpace(r) || r == ':' || r == '=':
			s = s[1:]
		case r == '-' && (len(s) < 2 || !isDigit(s[1])):
			s = s[1:]
		default:
			return s
		}
	}
	return s
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// collapseSpace folds internal whitespace runs into single spaces.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
