package util

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	nonPriceChars = regexp.MustCompile(`[^0-9.\-]`)
	floatPrefix   = regexp.MustCompile(`^-?(?:\d+\.?\d*|\.\d+)`)
	intPrefix     = regexp.MustCompile(`^[+-]?\d+`)
)

// ParsePrice keeps only digits, '.' and '-' and parses the longest numeric
// prefix of what remains. Anything unparseable or negative yields 0.
//
//	"$1,200"      -> 1200
//	"$12.500,00"  -> 12.5
//	"N/A"         -> 0
func ParsePrice(input string) float64 {
	cleaned := nonPriceChars.ReplaceAllString(input, "")
	token := floatPrefix.FindString(cleaned)
	if token == "" {
		return 0
	}
	parsed, err := strconv.ParseFloat(token, 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return 0
	}
	if parsed < 0 {
		return 0
	}
	return parsed
}

// ParseStock reads a leading integer ("5 units" -> 5). Unparseable or
// negative input yields 0.
func ParseStock(input string) int {
	token := intPrefix.FindString(strings.TrimSpace(input))
	if token == "" {
		return 0
	}
	parsed, err := strconv.Atoi(token)
	if err != nil || parsed < 0 {
		return 0
	}
	return parsed
}
