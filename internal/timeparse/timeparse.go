// Package timeparse converts human-entered departure and return time strings
// into a normalized time of day. Form submissions arrive in whatever shape the
// customer typed: "9:00 am", "3:22:00 p.m.", "14:30", "7 PM". The parser
// accepts all of them.
package timeparse

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrUnparseable is returned when the input does not match any supported time format.
var ErrUnparseable = errors.New("timeparse: unparseable time string")

// TimeOfDay is a clock time with no date component.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

// Hours returns the time of day expressed as fractional hours since midnight.
func (t TimeOfDay) Hours() float64 {
	return float64(t.Hour) + float64(t.Minute)/60 + float64(t.Second)/3600
}

var (
	meridiemRe = regexp.MustCompile(`([ap])\.?\s*m\.?`)
	leadingRe  = regexp.MustCompile(`^(\d{1,2})`)
)

var (
	layouts12 = []string{"3:04:05pm", "3:04pm", "3pm"}
	layouts24 = []string{"15:04:05", "15:04"}
)

// Parse interprets a human-entered time string as a time of day.
//
// Inputs are normalized first: lowercased, "a.m."/"p.m." in any spacing or
// punctuation collapsed to "am"/"pm", remaining periods and whitespace
// stripped. A 12-hour parse is attempted when a meridiem marker is present,
// except when the leading hour exceeds 12: then the marker is treated as a
// user mistake, dropped, and the value reparsed as 24-hour time.
func Parse(text string) (TimeOfDay, error) {
	s := normalize(text)
	if s == "" {
		return TimeOfDay{}, ErrUnparseable
	}

	hasMeridiem := strings.HasSuffix(s, "am") || strings.HasSuffix(s, "pm")
	if hasMeridiem && leadingHour(s) > 12 {
		s = strings.TrimSuffix(strings.TrimSuffix(s, "am"), "pm")
		hasMeridiem = false
	}

	layouts := layouts24
	if hasMeridiem {
		layouts = layouts12
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			h, m, sec := t.Clock()
			return TimeOfDay{Hour: h, Minute: m, Second: sec}, nil
		}
	}
	return TimeOfDay{}, ErrUnparseable
}

func normalize(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = meridiemRe.ReplaceAllString(s, "${1}m")
	s = strings.ReplaceAll(s, ".", "")
	s = strings.Join(strings.Fields(s), "")
	return s
}

func leadingHour(s string) int {
	match := leadingRe.FindString(s)
	if match == "" {
		return -1
	}
	h, err := strconv.Atoi(match)
	if err != nil {
		return -1
	}
	return h
}
