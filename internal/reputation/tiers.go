package reputation

// Tier is a discrete reputation bracket. Tiers are a pure function of the
// score; nothing is stored.
type Tier struct {
	Name              string  `json:"name"`
	MinScore          float64 `json:"min_score"`
	MaxScore          float64 `json:"max_score"`
	BenefitMultiplier float64 `json:"benefit_multiplier"`
}

// Tiers in ascending order. Brackets are contiguous over [0,1000].
var Tiers = []Tier{
	{Name: "Bronze", MinScore: 0, MaxScore: 250, BenefitMultiplier: 1.00},
	{Name: "Silver", MinScore: 251, MaxScore: 500, BenefitMultiplier: 1.25},
	{Name: "Gold", MinScore: 501, MaxScore: 750, BenefitMultiplier: 1.50},
	{Name: "Platinum", MinScore: 751, MaxScore: 1000, BenefitMultiplier: 2.00},
}

// TierFor returns the tier whose bracket contains score. Scores are clamped
// to [0,1000] before lookup, so the last bracket catches the ceiling.
func TierFor(score float64) Tier {
	for _, t := range Tiers {
		if score <= t.MaxScore {
			return t
		}
	}
	return Tiers[len(Tiers)-1]
}
