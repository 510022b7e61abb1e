package common

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	ErrMalformedAmount  = errors.New("malformed amount")
	ErrDecode           = errors.New("decode error")
	ErrMissingInput     = errors.New("missing input")
	ErrMinistryNotFound = errors.New("ministry not found")
)

// NormalizeAmount parses a dot-thousands/comma-decimal token ("3.000.000,50")
// into an exact decimal. The written scale is kept.
func NormalizeAmount(token string) (decimal.Decimal, error) {
	cleaned := strings.ReplaceAll(token, ".", "")
	cleaned = strings.Replace(cleaned, ",", ".", 1)

	if !isDecimalLiteral(cleaned) {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrMalformedAmount, token)
	}

	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q: %v", ErrMalformedAmount, token, err)
	}
	return amount, nil
}

// isDecimalLiteral accepts digits with at most one inner decimal point.
func isDecimalLiteral(s string) bool {
	if s == "" {
		return false
	}
	intPart, fracPart, hasPoint := strings.Cut(s, ".")
	if intPart == "" || !allDigits(intPart) {
		return false
	}
	if hasPoint && (fracPart == "" || !allDigits(fracPart)) {
		return false
	}
	return true
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}

// IsAmountToken reports whether a whitespace-delimited token has the shape of
// a trailing amount: digits and dots, optionally followed by a comma and two digits.
func IsAmountToken(tok string) bool {
	if tok == "" || tok[0] < '0' || tok[0] > '9' {
		return false
	}
	body, frac, hasComma := strings.Cut(tok, ",")
	if hasComma && (len(frac) != 2 || !allDigits(frac)) {
		return false
	}
	for i := 0; i < len(body); i++ {
		c := body[i]
		if (c < '0' || c > '9') && c != '.' {
			return false
		}
	}
	return true
}

// IsCode reports whether a token is a leading item code (4 or more ASCII digits).
func IsCode(tok string) bool {
	return len(tok) >= 4 && allDigits(tok)
}

// LeadingDigits returns the run of ASCII digits at the start of s.
// "11 Φόροι" -> "11", "1003-501-0000000 ..." -> "1003".
func LeadingDigits(s string) string {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return s[:i]
}

// ContainsDigit reports whether s has any decimal digit.
func ContainsDigit(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}

// CollapseSpaces trims s and joins its fields with single spaces.
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NFC normalizes text pulled out of a PDF, where Greek accents can arrive decomposed.
func NFC(s string) string {
	return norm.NFC.String(s)
}

// Fold lowercases s and drops combining accents, so "ΣΥΝΟΛΟ", "Σύνολο" and
// "σύνολο" compare equal.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	return cases.Fold().String(stripped)
}

// FoldCompact folds s and removes all whitespace.
func FoldCompact(s string) string {
	return strings.Join(strings.Fields(Fold(s)), "")
}

// FoldEqual compares two strings case and accent insensitively.
func FoldEqual(a, b string) bool {
	return Fold(strings.TrimSpace(a)) == Fold(strings.TrimSpace(b))
}
