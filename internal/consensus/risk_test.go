package consensus

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hill02252024/hk-7day-typhoon/internal/forecast"
)

// sevenDaySet builds a normalized set where nProviders providers each
// report the same seven consecutive dates.
func sevenDaySet(t *testing.T, nProviders int) forecast.NormalizedSet {
	t.Helper()
	set := forecast.NormalizedSet{}
	for p := 0; p < nProviders; p++ {
		id := fmt.Sprintf("p%02d", p)
		var recs []forecast.DailyRecord
		for d := 1; d <= 7; d++ {
			recs = append(recs, rec(t, fmt.Sprintf("2025-10-%02d", 20+d), "outlook", nil, nil, id))
		}
		set[id] = recs
	}
	return set
}

func TestBuildRiskWindow(t *testing.T) {
	report := BuildRisk(sevenDaySet(t, 3))
	// Exactly the two dates after the primary window.
	require.Len(t, report.Days, 2)
	assert.Equal(t, "2025-10-26", report.Days[0].Date)
	assert.Equal(t, "2025-10-27", report.Days[1].Date)
	assert.Equal(t, 3, report.Days[0].SourceCount)
	assert.NotEmpty(t, report.Days[0].Note)
}

func TestBuildRiskConfidenceThresholds(t *testing.T) {
	cases := []struct {
		providers int
		want      string
	}{
		{9, "high"},
		{8, "medium-high"},
		{7, "medium"},
		{6, "medium"},
		{5, "low"},
		{1, "low"},
	}
	for _, tc := range cases {
		report := BuildRisk(sevenDaySet(t, tc.providers))
		require.Len(t, report.Days, 2, "providers=%d", tc.providers)
		assert.Equal(t, tc.want, report.Days[0].Confidence, "providers=%d", tc.providers)
	}
}

func TestBuildRiskShortLookahead(t *testing.T) {
	// Providers that only see five days ahead leave the extended
	// window empty.
	set := forecast.NormalizedSet{
		"hko": {
			rec(t, "2025-10-21", "d1", nil, nil, "hko"),
			rec(t, "2025-10-22", "d2", nil, nil, "hko"),
			rec(t, "2025-10-23", "d3", nil, nil, "hko"),
			rec(t, "2025-10-24", "d4", nil, nil, "hko"),
			rec(t, "2025-10-25", "d5", nil, nil, "hko"),
		},
	}
	report := BuildRisk(set)
	assert.Empty(t, report.Days)
	assert.NotNil(t, report.Days)
}

func TestConfidenceLevel(t *testing.T) {
	assert.Equal(t, "low", confidenceLevel(0))
	assert.Equal(t, "low", confidenceLevel(5))
	assert.Equal(t, "medium", confidenceLevel(6))
	assert.Equal(t, "medium", confidenceLevel(7))
	assert.Equal(t, "medium-high", confidenceLevel(8))
	assert.Equal(t, "high", confidenceLevel(9))
	assert.Equal(t, "high", confidenceLevel(12))
}
