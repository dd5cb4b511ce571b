package edinet

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/width"
)

var htmlTagPattern = regexp.MustCompile(`<[^>]+>`)

// stripTags removes embedded markup from an extracted value. Inline XBRL
// payloads frequently wrap the number or text in <span>/<font> children.
func stripTags(s string) string {
	return strings.TrimSpace(htmlTagPattern.ReplaceAllString(s, ""))
}

// containsPercentSign reports whether the raw text carries an explicit
// percent marker, half-width or full-width.
func containsPercentSign(s string) bool {
	return strings.ContainsAny(s, "%％")
}

// stripNumericNoise prepares raw filing text for numeric parsing: full-width
// digits and punctuation are folded to their narrow forms, then thousands
// separators, CJK enumeration commas, whitespace (including ideographic
// space), share-count unit glyphs and percent signs are removed.
func stripNumericNoise(s string) string {
	s = width.Narrow.String(s)
	return strings.Map(func(r rune) rune {
		switch r {
		case ',', '、', '株', '%':
			return -1
		}
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// isNoValue reports whether a cleansed value is the "no value" placeholder
// filers use: empty, a bare dash, or one of the CJK dash glyphs. These mean
// absent, never zero.
func isNoValue(s string) bool {
	switch s {
	case "", "-", "―", "—", "–":
		return true
	}
	return false
}

// parseNumericText parses a cleansed numeric literal. Returns false for
// placeholders and anything that is not a number.
func parseNumericText(s string) (float64, bool) {
	cleaned := stripNumericNoise(s)
	if isNoValue(cleaned) {
		return 0, false
	}
	val, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return val, true
}

// parseScaledNumber parses a numeric value and applies the inline-XBRL
// scale (power of ten) and sign attributes. Both attributes are empty in
// the traditional and regex paths.
func parseScaledNumber(text, scale, sign string) (float64, bool) {
	val, ok := parseNumericText(text)
	if !ok {
		return 0, false
	}
	if scale != "" {
		if n, err := strconv.Atoi(scale); err == nil {
			val *= math.Pow10(n)
		}
	}
	if sign == "-" {
		val = -val
	}
	return val, true
}

// parseIntegerText parses an integer-valued field. Filings sometimes carry a
// trailing ".0", so the value goes through a float parse and is truncated.
func parseIntegerText(s string) (int64, bool) {
	val, ok := parseNumericText(s)
	if !ok {
		return 0, false
	}
	return int64(val), true
}

// normalizeRatio converts decimal-fraction ratios (0.0523) to percentages
// (5.23), rounded to four decimal places. EDINET stores ratios as
// percentages but some filings use decimal fractions. A value of exactly
// 1.0 is taken as 100%, a valid if rare holding ratio; values above 1.0 are
// already percentages and pass through untouched.
func normalizeRatio(val float64) float64 {
	if val > 0 && val <= 1.0 {
		return decimal.NewFromFloat(val).
			Mul(decimal.NewFromInt(100)).
			Round(4).
			InexactFloat64()
	}
	return val
}
