package styletree

import (
	"math"
	"strconv"
	"strings"
)

// ParseLength parses a computed pixel length such as "24px", "0" or "16.5px".
// Keywords (auto, normal, inherit), relative units and non-finite numbers
// are rejected.
func ParseLength(val string) (float64, bool) {
	v := strings.ToLower(strings.TrimSpace(val))
	if v == "" {
		return 0, false
	}
	v = strings.TrimSuffix(v, "px")
	num, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || math.IsNaN(num) || math.IsInf(num, 0) {
		return 0, false
	}
	return num, true
}

// ParseFontWeight parses numeric weights and the bold/normal keywords.
func ParseFontWeight(val string) (float64, bool) {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "normal":
		return 400, true
	case "bold":
		return 700, true
	case "lighter":
		return 300, true
	case "bolder":
		return 800, true
	}
	return ParseLength(val)
}

// PrimaryFontFamily returns the first family of a font-family list, without
// quotes and lowercased.
func PrimaryFontFamily(val string) string {
	first, _, _ := strings.Cut(val, ",")
	first = strings.TrimSpace(first)
	first = strings.Trim(first, `"'`)
	return strings.ToLower(strings.TrimSpace(first))
}

// FormatPx formats a pixel value the way computed styles do: "32px", "1.5px".
func FormatPx(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}

// FormatNumber formats a unitless value such as a font weight.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
