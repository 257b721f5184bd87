// Package pricing computes trip quotes and order balances for the booking
// backend. Quotes assign a vehicle capacity tier, derive the trip duration
// from the departure and return times, and resolve the total against either
// the flat price table or the time-of-day schedule for special destinations.
package pricing

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/mtcolectivo/backend-colectivo/internal/timeparse"
)

// DefaultSpecialKeywords matches destinations eligible for the special
// discount schedule when no keyword list is configured.
var DefaultSpecialKeywords = []string{"cantaritos", "amatitlan", "tequila"}

// Quote is the priced outcome of a trip request.
type Quote struct {
	Tier          Tier
	DurationHours float64
	Total         float64
}

// Engine prices trips against a table and a special-destination keyword list.
type Engine struct {
	Table           Table
	SpecialKeywords []string
	Logger          zerolog.Logger
}

// NewEngine constructs an engine with the given table and keyword list,
// falling back to defaults for whichever is empty.
func NewEngine(table Table, keywords []string, logger zerolog.Logger) *Engine {
	if len(table.Flat) == 0 && len(table.Special) == 0 {
		table = DefaultTable()
	}
	if len(keywords) == 0 {
		keywords = DefaultSpecialKeywords
	}
	return &Engine{Table: table, SpecialKeywords: keywords, Logger: logger}
}

// Quote prices a trip. Time strings that fail to parse leave the duration at
// zero rather than failing the quote; the bad input is logged so staff can
// correct the order later.
func (e *Engine) Quote(passengers int, destination, departureTime, returnTime string) Quote {
	tier := AssignCapacity(passengers)

	departure, depErr := timeparse.Parse(departureTime)
	ret, retErr := timeparse.Parse(returnTime)

	duration := 0.0
	if depErr == nil && retErr == nil {
		duration = ret.Hours() - departure.Hours()
		if duration < 0 {
			// Overnight return, never more than one day out.
			duration += 24
		}
	} else {
		e.Logger.Warn().
			Str("departure", departureTime).
			Str("return", returnTime).
			Msg("unparseable trip times, duration defaulted to zero")
	}

	var total float64
	if e.IsSpecialDestination(destination) {
		period := PeriodMorning
		if depErr == nil {
			period = periodForHour(departure.Hour)
		}
		total = e.Table.SpecialPrice(period, tier)
	} else {
		total = e.Table.FlatPrice(tier)
	}

	return Quote{Tier: tier, DurationHours: duration, Total: total}
}

// IsSpecialDestination reports whether the destination name matches the
// discount-eligible keyword list.
func (e *Engine) IsSpecialDestination(name string) bool {
	lowered := strings.ToLower(name)
	for _, keyword := range e.SpecialKeywords {
		if keyword != "" && strings.Contains(lowered, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}

func periodForHour(hour int) Period {
	switch {
	case hour >= 13 && hour <= 15:
		return PeriodAfternoon
	default:
		return PeriodMorning
	}
}
