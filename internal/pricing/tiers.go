package pricing

// Tier is a vehicle capacity bucket (maximum passengers per vehicle size).
type Tier = int

// Tiers lists the fleet capacity buckets in ascending order.
var Tiers = []Tier{6, 14, 20, 45}

// AssignCapacity maps a passenger count to the smallest tier that fits it.
// Counts beyond the largest vehicle are clamped to the largest tier.
func AssignCapacity(passengers int) Tier {
	for _, tier := range Tiers {
		if passengers <= tier {
			return tier
		}
	}
	return Tiers[len(Tiers)-1]
}
