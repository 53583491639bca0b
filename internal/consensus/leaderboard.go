package consensus

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/hill02252024/hk-7day-typhoon/internal/forecast"
)

// Leaderboard ranks providers by how much data they supplied. A naive
// share-of-total weighting until verification metrics exist.
type Leaderboard struct {
	AsOfUTC     string             `json:"as_of_utc"`
	OverallBest string             `json:"overall_best"`
	ByLead      map[string]string  `json:"by_lead"`
	ByMetric    map[string]string  `json:"by_metric"`
	Weights     map[string]float64 `json:"weights"`
}

// BuildLeaderboard counts records per provider and derives weights as
// each provider's share of the total, rounded to 3 decimals.
func BuildLeaderboard(set forecast.NormalizedSet, now time.Time) Leaderboard {
	lb := Leaderboard{
		AsOfUTC:     now.UTC().Format("2006-01-02T15:04:05Z"),
		OverallBest: "—",
		ByLead:      map[string]string{},
		ByMetric:    map[string]string{},
		Weights:     map[string]float64{},
	}

	total := 0
	counts := make(map[string]int, len(set))
	for prov, recs := range set {
		counts[strings.ToUpper(prov)] = len(recs)
		total += len(recs)
	}
	if total == 0 {
		return lb
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	// Highest count wins; names break ties deterministically.
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})

	lb.OverallBest = names[0]
	for name, c := range counts {
		lb.Weights[name] = math.Round(float64(c)/float64(total)*1000) / 1000
	}
	return lb
}
