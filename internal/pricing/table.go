package pricing

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Period is a time-of-day pricing window used for special destinations.
type Period string

const (
	PeriodMorning   Period = "morning"
	PeriodAfternoon Period = "afternoon"
)

// PricePair holds the normal and discounted price for one tier in one period.
type PricePair struct {
	Normal     float64 `yaml:"normal"`
	Discounted float64 `yaml:"discounted"`
}

// Table holds the flat per-tier prices plus the period-based special schedule
// applied to discount-eligible destinations.
type Table struct {
	Flat    map[Tier]float64              `yaml:"flat"`
	Special map[Period]map[Tier]PricePair `yaml:"special"`
}

// DefaultTable returns the compiled-in price schedule.
func DefaultTable() Table {
	return Table{
		Flat: map[Tier]float64{
			6:  3000,
			14: 4500,
			20: 6000,
			45: 10000,
		},
		Special: map[Period]map[Tier]PricePair{
			PeriodMorning: {
				6:  {Normal: 2500, Discounted: 2250},
				14: {Normal: 4000, Discounted: 3600},
				20: {Normal: 5500, Discounted: 4950},
				45: {Normal: 9000, Discounted: 8100},
			},
			PeriodAfternoon: {
				6:  {Normal: 2700, Discounted: 2430},
				14: {Normal: 4200, Discounted: 3780},
				20: {Normal: 5700, Discounted: 5130},
				45: {Normal: 9200, Discounted: 8280},
			},
		},
	}
}

// LoadTable reads a price schedule from a YAML file. An empty path returns the
// compiled-in defaults.
func LoadTable(path string) (Table, error) {
	if path == "" {
		return DefaultTable(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("read price table: %w", err)
	}
	var t Table
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return Table{}, fmt.Errorf("parse price table: %w", err)
	}
	if len(t.Flat) == 0 {
		t.Flat = DefaultTable().Flat
	}
	if len(t.Special) == 0 {
		t.Special = DefaultTable().Special
	}
	return t, nil
}

// FlatPrice resolves the flat price for a tier. Unknown tiers price at zero;
// lookup misses are a permissive business default, never an error.
func (t Table) FlatPrice(tier Tier) float64 {
	return t.Flat[tier]
}

// SpecialPrice resolves the discounted price for a tier within a period.
// Unknown period or tier prices at zero.
func (t Table) SpecialPrice(period Period, tier Tier) float64 {
	tiers, ok := t.Special[period]
	if !ok {
		return 0
	}
	return tiers[tier].Discounted
}
