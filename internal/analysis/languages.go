package analysis

import (
	"math"
	"sort"

	"github.com/reliclabs/relic/internal/scan"
)

// LanguagePercentages derives per-language shares from the scanner's
// by-language counts. The config and unknown buckets are excluded from
// both the list and the percentage base; each remaining language's
// share is computed against the remaining total, rounded to two
// decimals, and sorted descending (ties break on name so the order is
// deterministic). Zero classified files yields an empty list.
func LanguagePercentages(byLanguage map[string]int) []LanguageStat {
	base := 0
	for lang, count := range byLanguage {
		if classified(lang) {
			base += count
		}
	}
	if base == 0 {
		return []LanguageStat{}
	}

	stats := make([]LanguageStat, 0, len(byLanguage))
	for lang, count := range byLanguage {
		if !classified(lang) || count == 0 {
			continue
		}
		stats = append(stats, LanguageStat{
			Name:       lang,
			Percentage: round2(float64(count) / float64(base) * 100),
			FileCount:  count,
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Percentage != stats[j].Percentage {
			return stats[i].Percentage > stats[j].Percentage
		}
		return stats[i].Name < stats[j].Name
	})
	return stats
}

func classified(lang string) bool {
	return lang != string(scan.LanguageConfig) && lang != string(scan.LanguageUnknown)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
