package parser

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	// tokenRe matches numeric-looking substrings in cell text: an optional
	// run of sign/paren markers and whitespace, then digits possibly
	// interleaved with separators. A token always starts and ends on a digit.
	tokenRe = regexp.MustCompile(`[-()\s]*[0-9](?:[0-9.,()\s]*[0-9])?`)

	// nonNumericRe strips currency symbols, letters and other decoration,
	// keeping only characters that can carry numeric meaning
	nonNumericRe = regexp.MustCompile(`[^0-9.,\-()\s]`)

	whitespaceRe = regexp.MustCompile(`\s+`)
)

// ExtractTokens finds all numeric-looking tokens in a raw cell text.
// Returns nil when the text contains no digits. Tokens are not yet
// validated; Normalize may still reject them.
func ExtractTokens(text string) []string {
	return tokenRe.FindAllString(text, -1)
}

// Normalize converts a numeric token into its float64 value.
// It handles currency symbols, thousands separators (comma or dot),
// decimal separators (dot or comma) and parenthesized negatives.
// Returns false when the token cannot be parsed as a number.
func Normalize(token string) (float64, bool) {
	s := strings.TrimSpace(token)
	if s == "" {
		return 0, false
	}

	s = nonNumericRe.ReplaceAllString(s, "")

	// Accounting notation: "(300)" means -300. The extractor stops tokens
	// at their last digit, so the closing paren usually doesn't survive
	// extraction ("(300)" arrives as "(300"); a leading paren is enough.
	negativeParen := strings.HasPrefix(strings.TrimSpace(s), "(")

	s = strings.ReplaceAll(s, "(", "")
	s = strings.ReplaceAll(s, ")", "")
	s = whitespaceRe.ReplaceAllString(s, "")

	s = stripThousandsSeparators(s)

	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// Comma-as-decimal locales: "1234,56" -> "1234.56"
		value, err = strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
		if err != nil {
			return 0, false
		}
	}

	if negativeParen {
		value = -math.Abs(value)
	}

	return value, true
}

// stripThousandsSeparators resolves the dot/comma ambiguity:
//   - more than one dot: dots are digit-group separators except the last,
//     which is kept as the decimal point; commas are dropped
//   - exactly one dot: the dot is the decimal point, commas are dropped
//   - no dot: commas are dropped only when they form regular 3-digit
//     grouping ("1,000", "12,345,678"); otherwise they are kept for the
//     comma-as-decimal retry in Normalize
func stripThousandsSeparators(s string) string {
	switch dots := strings.Count(s, "."); {
	case dots > 1:
		s = strings.ReplaceAll(s, ",", "")
		last := strings.LastIndex(s, ".")
		s = strings.ReplaceAll(s[:last], ".", "") + s[last:]
	case dots == 1:
		s = strings.ReplaceAll(s, ",", "")
	default:
		if isCommaGrouped(s) {
			s = strings.ReplaceAll(s, ",", "")
		}
	}
	return s
}

// isCommaGrouped reports whether every comma-delimited group after the
// first is exactly three digits long
func isCommaGrouped(s string) bool {
	parts := strings.Split(s, ",")
	if len(parts) < 2 {
		return false
	}
	for _, part := range parts[1:] {
		if len(part) != 3 {
			return false
		}
	}
	return true
}
