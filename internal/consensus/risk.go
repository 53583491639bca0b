package consensus

import (
	"sort"
	"strings"

	"github.com/hill02252024/hk-7day-typhoon/internal/forecast"
)

// Extended-range window: the two dates immediately following the
// primary consensus window.
const (
	riskWindowStart  = PrimaryWindowDays
	riskWindowEnd    = PrimaryWindowDays + 2
	riskPerSourceCap = 7
)

const riskNote = "Extended outlook (6–7d). Confidence depends on how many agencies agree."

// RiskDay reports the agreement level for one extended-range date.
type RiskDay struct {
	Date        string `json:"date"`
	SourceCount int    `json:"source_count"`
	Confidence  string `json:"confidence"`
	Note        string `json:"note"`
}

// RiskReport covers the extended-range window.
type RiskReport struct {
	Days []RiskDay `json:"days"`
}

// BuildRisk counts contributing providers for the dates just past the
// consensus window and maps the counts to confidence levels.
func BuildRisk(set forecast.NormalizedSet) RiskReport {
	srcsByDate := make(map[string]map[string]bool)
	for prov, recs := range set {
		if len(recs) > riskPerSourceCap {
			recs = recs[:riskPerSourceCap]
		}
		for _, r := range recs {
			if r.Date == "" {
				continue
			}
			if srcsByDate[r.Date] == nil {
				srcsByDate[r.Date] = make(map[string]bool)
			}
			srcsByDate[r.Date][strings.ToUpper(prov)] = true
		}
	}

	dates := make([]string, 0, len(srcsByDate))
	for d := range srcsByDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	if len(dates) > riskWindowEnd {
		dates = dates[:riskWindowEnd]
	}
	if len(dates) > riskWindowStart {
		dates = dates[riskWindowStart:]
	} else {
		dates = nil
	}

	report := RiskReport{Days: []RiskDay{}}
	for _, d := range dates {
		n := len(srcsByDate[d])
		report.Days = append(report.Days, RiskDay{
			Date:        d,
			SourceCount: n,
			Confidence:  confidenceLevel(n),
			Note:        riskNote,
		})
	}
	return report
}

// confidenceLevel maps a per-date source count to an ordinal level.
// Thresholds are cumulative; the highest applicable wins.
func confidenceLevel(sources int) string {
	level := "low"
	if sources >= 6 {
		level = "medium"
	}
	if sources >= 8 {
		level = "medium-high"
	}
	if sources >= 9 {
		level = "high"
	}
	return level
}
