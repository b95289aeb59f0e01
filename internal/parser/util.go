package parser

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const isoDate = "2006-01-02"

// Day-first layouts used by Greek and most European exports.
var dateLayouts = []string{
	"2/1/2006",
	"2-1-2006",
	"2.1.2006",
	"2/1/06",
	"2006/1/2",
	isoDate,
}

var leadingDatePattern = regexp.MustCompile(`^(\d{1,2}[/.-]\d{1,2}[/.-]\d{2,4})\b`)

// normalizeDate converts DD/MM/YYYY-like or ISO dates (with or without a time
// part) to YYYY-MM-DD. Impossible calendar dates are rejected.
func normalizeDate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}

	// ISO date with a time suffix: 2024-03-10 12:00:00, 2024-03-10T12:00:00Z
	if len(s) > 10 && s[4] == '-' && (s[10] == ' ' || s[10] == 'T') {
		s = s[:10]
	}
	// Day-first date with a time suffix: 10/03/2024 14:22
	if i := strings.IndexByte(s, ' '); i > 0 {
		s = s[:i]
	}

	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		if t.Year() < 1900 {
			continue
		}
		return t.Format(isoDate), true
	}
	return "", false
}

// parseAmount reads amounts in the many shapes statements use:
// "1.234,56", "1,234.56", "150,00", "-12.5", "(45.00)", "45.00-", "€ 12,00".
// A single separator followed by exactly three digits is read as a
// thousands separator, unless the integer part starts with 0 ("0,125").
func parseAmount(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	var digits strings.Builder
	seenDigit := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits.WriteRune(r)
			seenDigit = true
		case r == '.' || r == ',':
			digits.WriteRune(r)
		case r == '-' || r == '\u2212':
			negative = true
		case r == '+' || r == ' ' || r == '\u00a0' || r == '\'':
		case r == '€' || r == '$' || r == '£':
		case r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z':
			// currency codes such as EUR
		default:
			return decimal.Zero, false
		}
	}
	if !seenDigit {
		return decimal.Zero, false
	}

	num := canonicalNumber(digits.String())
	d, err := decimal.NewFromString(num)
	if err != nil {
		return decimal.Zero, false
	}
	if negative {
		d = d.Abs().Neg()
	}
	return d, true
}

func canonicalNumber(s string) string {
	s = strings.Trim(s, ".,")
	lastDot := strings.LastIndexByte(s, '.')
	lastComma := strings.LastIndexByte(s, ',')

	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			// 1.234,56
			return strings.ReplaceAll(strings.ReplaceAll(s, ".", ""), ",", ".")
		}
		// 1,234.56
		return strings.ReplaceAll(s, ",", "")
	case lastComma >= 0:
		return singleSeparator(s, ",")
	case lastDot >= 0:
		return singleSeparator(s, ".")
	}
	return s
}

func singleSeparator(s, sep string) string {
	if strings.Count(s, sep) > 1 {
		return strings.ReplaceAll(s, sep, "")
	}
	i := strings.Index(s, sep)
	if len(s)-i-1 == 3 && !strings.HasPrefix(s, "0") {
		return strings.ReplaceAll(s, sep, "")
	}
	return strings.Replace(s, sep, ".", 1)
}

// signedAmount collapses separate debit and credit columns into one signed
// value: debit becomes negative, credit positive.
func signedAmount(debit, credit string) (decimal.Decimal, bool) {
	if d, ok := parseAmount(debit); ok && !d.IsZero() {
		return d.Abs().Neg(), true
	}
	if c, ok := parseAmount(credit); ok && !c.IsZero() {
		return c.Abs(), true
	}
	// Explicit zero rows still count.
	if d, ok := parseAmount(debit); ok {
		return d, true
	}
	if c, ok := parseAmount(credit); ok {
		return c, true
	}
	return decimal.Zero, false
}

// syntheticReference builds a stable reference for formats that carry none.
// The same row content at the same position always hashes the same.
func syntheticReference(prefix, date, merchant string, amount decimal.Decimal, index int) string {
	h := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%s|%d", date, merchant, amount.StringFixed(2), index)))
	return prefix + "-" + hex.EncodeToString(h[:])[:16]
}
