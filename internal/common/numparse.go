package common

import (
	"regexp"
	"strconv"
	"strings"
)

var nonNumericRe = regexp.MustCompile(`[^\d\-,.\s]`)

// ParseMoney converts a human-entered monetary string to a float, tolerating
// currency symbols, thousands separators, and stray spacing: "$1,500.00",
// "1 500", "1.500,75". Empty or hopeless input parses to zero.
func ParseMoney(value string) float64 {
	s := strings.TrimSpace(value)
	if s == "" {
		return 0
	}
	s = nonNumericRe.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, " ", "")
	switch {
	case strings.Contains(s, ",") && strings.Contains(s, "."):
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			// European style: 1.500,75
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case strings.Contains(s, ","):
		// A lone comma is a decimal separator.
		s = strings.Replace(s, ",", ".", 1)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
