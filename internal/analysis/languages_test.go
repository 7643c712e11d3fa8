package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLanguagePercentagesExcludesConfigAndUnknown(t *testing.T) {
	stats := LanguagePercentages(map[string]int{
		"python":     3,
		"javascript": 1,
		"config":     5,
		"unknown":    2,
	})

	// Base is 4, not 11: config and unknown never enter the share.
	require.Len(t, stats, 2)
	assert.Equal(t, "python", stats[0].Name)
	assert.InDelta(t, 75.0, stats[0].Percentage, 0.001)
	assert.Equal(t, 3, stats[0].FileCount)
	assert.Equal(t, "javascript", stats[1].Name)
	assert.InDelta(t, 25.0, stats[1].Percentage, 0.001)
}

func TestLanguagePercentagesSumNearHundred(t *testing.T) {
	stats := LanguagePercentages(map[string]int{
		"python": 1, "javascript": 1, "typescript": 1,
	})
	require.Len(t, stats, 3)
	sum := 0.0
	for _, s := range stats {
		assert.InDelta(t, 33.33, s.Percentage, 0.001)
		sum += s.Percentage
	}
	assert.InDelta(t, 100.0, sum, 0.1)
}

func TestLanguagePercentagesTieBreaksOnName(t *testing.T) {
	stats := LanguagePercentages(map[string]int{
		"typescript": 2, "javascript": 2, "python": 2,
	})
	require.Len(t, stats, 3)
	assert.Equal(t, "javascript", stats[0].Name)
	assert.Equal(t, "python", stats[1].Name)
	assert.Equal(t, "typescript", stats[2].Name)
}

func TestLanguagePercentagesEmpty(t *testing.T) {
	for name, in := range map[string]map[string]int{
		"nil map":     nil,
		"only config": {"config": 4, "unknown": 1},
	} {
		stats := LanguagePercentages(in)
		assert.NotNil(t, stats, name)
		assert.Empty(t, stats, name)
	}
}
