package reputation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTierFor_Boundaries(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{0, "Bronze"},
		{100, "Bronze"},
		{250, "Bronze"},
		{250.5, "Silver"},
		{251, "Silver"},
		{500, "Silver"},
		{501, "Gold"},
		{750, "Gold"},
		{751, "Platinum"},
		{1000, "Platinum"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, TierFor(c.score).Name, "score %.1f", c.score)
	}
}

func TestTierFor_Multipliers(t *testing.T) {
	assert.Equal(t, 1.00, TierFor(100).BenefitMultiplier)
	assert.Equal(t, 1.25, TierFor(300).BenefitMultiplier)
	assert.Equal(t, 1.50, TierFor(600).BenefitMultiplier)
	assert.Equal(t, 2.00, TierFor(900).BenefitMultiplier)
}

func TestTiers_Contiguous(t *testing.T) {
	for i := 1; i < len(Tiers); i++ {
		assert.Greater(t, Tiers[i].MinScore, Tiers[i-1].MaxScore)
		assert.LessOrEqual(t, Tiers[i].MinScore-Tiers[i-1].MaxScore, 1.0)
	}
}
