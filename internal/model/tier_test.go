package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTierLabels(t *testing.T) {
	tests := []struct {
		tier  Tier
		label string
		short string
	}{
		{Tier1, "Tier 1: True Allies", "Tier 1"},
		{Tier2, "Tier 2: Battle Tested", "Tier 2"},
		{Tier3, "Tier 3: Folded/Neutral", "Tier 3"},
		{Tier4, "Tier 4: The Enemy", "Tier 4"},
		{TierUnset, "", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.label, tt.tier.Label(), "Label(%d)", tt.tier)
		assert.Equal(t, tt.short, tt.tier.Short(), "Short(%d)", tt.tier)
	}
}

func TestParseTier(t *testing.T) {
	tests := []struct {
		in   string
		want Tier
	}{
		{"Tier 1: True Allies", Tier1},
		{"tier 4: the enemy", Tier4},
		{"Tier 3", Tier3},
		{"2", Tier2},
		{"", TierUnset},
		{"  ", TierUnset},
	}
	for _, tt := range tests {
		got, err := ParseTier(tt.in)
		require.NoError(t, err, "ParseTier(%q)", tt.in)
		assert.Equal(t, tt.want, got, "ParseTier(%q)", tt.in)
	}
}

func TestParseTier_Unknown(t *testing.T) {
	_, err := ParseTier("Tier 5")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown tier")
}

func TestTierValid(t *testing.T) {
	assert.False(t, TierUnset.Valid())
	assert.False(t, Tier(5).Valid())
	for _, tier := range Tiers {
		assert.True(t, tier.Valid())
	}
	assert.Equal(t, "unset", TierUnset.String())
}
