// Package consensus merges normalized multi-provider forecasts into a
// bounded consensus window, an extended-range risk outlook, and small
// derived reports.
package consensus

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/hill02252024/hk-7day-typhoon/internal/forecast"
)

// PrimaryWindowDays is the length of the consensus window.
const PrimaryWindowDays = 5

// OrderingPolicy selects how the active provider list is built.
type OrderingPolicy int

const (
	// OrderPreferred uses every provider with data, preference list
	// first, stragglers appended in sorted order.
	OrderPreferred OrderingPolicy = iota
	// OrderAllowList consults a fixed allow-list in list order.
	OrderAllowList
)

// TextPolicy selects how contributing texts are combined.
type TextPolicy int

const (
	// TextConcat joins all distinct non-empty texts in provider order.
	// This is the default policy.
	TextConcat TextPolicy = iota
	// TextMajority joins the two most frequent exact-match texts,
	// first-appearance order breaking ties.
	TextMajority
)

const textSeparator = " | "

// Options configures the aggregation. Today, when set, anchors the
// window: dates strictly before Today are excluded. The clock is
// injected so aggregation stays deterministic under test.
type Options struct {
	Ordering  OrderingPolicy
	Preferred []string
	AllowList []string
	Text      TextPolicy
	Window    int
	Today     func() time.Time
}

// Day is one aggregated consensus date.
type Day struct {
	Date    string   `json:"date"`
	Text    *string  `json:"text"`
	TMin    *float64 `json:"tmin"`
	TMax    *float64 `json:"tmax"`
	Sources []string `json:"sources"`
}

// Meta describes which providers fed the report.
type Meta struct {
	SourcesUsed   []string `json:"sources_used"`
	ProviderCount int      `json:"provider_count"`
	AnchorDate    string   `json:"anchor_date,omitempty"`
}

// Report is the consensus output consumed by the front-end.
type Report struct {
	Meta Meta  `json:"meta"`
	Days []Day `json:"days"`
}

// Build aggregates the normalized set into a consensus report. An empty
// or missing set yields a valid empty report.
func Build(set forecast.NormalizedSet, opts Options) Report {
	window := opts.Window
	if window <= 0 {
		window = PrimaryWindowDays
	}

	ordered := orderProviders(set, opts)

	used := make([]string, len(ordered))
	for i, p := range ordered {
		used[i] = strings.ToUpper(p)
	}
	report := Report{
		Meta: Meta{SourcesUsed: used, ProviderCount: len(ordered)},
		Days: []Day{},
	}

	anchor := ""
	if opts.Today != nil {
		anchor = opts.Today().Format("2006-01-02")
		report.Meta.AnchorDate = anchor
	}

	bySrc, dates := indexByDate(set, ordered, 0)
	if anchor != "" {
		kept := dates[:0]
		for _, d := range dates {
			if d >= anchor {
				kept = append(kept, d)
			}
		}
		dates = kept
	}
	if len(dates) > window {
		dates = dates[:window]
	}

	for _, d := range dates {
		report.Days = append(report.Days, buildDay(d, ordered, bySrc, opts.Text))
	}
	return report
}

func buildDay(date string, ordered []string, bySrc map[string]map[string]forecast.DailyRecord, policy TextPolicy) Day {
	var (
		texts        []string
		tmins, tmaxs []float64
		sources      []string
	)
	for _, src := range ordered {
		rec, ok := bySrc[src][date]
		if !ok {
			continue
		}
		sources = append(sources, strings.ToUpper(src))
		if rec.Text != nil {
			texts = append(texts, *rec.Text)
		}
		if rec.TMin != nil {
			tmins = append(tmins, *rec.TMin)
		}
		if rec.TMax != nil {
			tmaxs = append(tmaxs, *rec.TMax)
		}
	}
	if sources == nil {
		sources = []string{}
	}
	return Day{
		Date:    date,
		Text:    combineTexts(texts, policy),
		TMin:    median(tmins),
		TMax:    median(tmaxs),
		Sources: sources,
	}
}

// orderProviders builds the active provider ordering per policy.
func orderProviders(set forecast.NormalizedSet, opts Options) []string {
	switch opts.Ordering {
	case OrderAllowList:
		var out []string
		for _, p := range opts.AllowList {
			if len(set[p]) > 0 {
				out = append(out, p)
			}
		}
		return out
	default:
		inPreferred := make(map[string]bool, len(opts.Preferred))
		var out []string
		for _, p := range opts.Preferred {
			inPreferred[p] = true
			if len(set[p]) > 0 {
				out = append(out, p)
			}
		}
		var rest []string
		for p := range set {
			if !inPreferred[p] && len(set[p]) > 0 {
				rest = append(rest, p)
			}
		}
		sort.Strings(rest)
		return append(out, rest...)
	}
}

// indexByDate builds per-provider date indexes (first record per date
// wins) and the sorted union of dates. perProviderCap limits how many
// records each provider contributes; 0 means no cap.
func indexByDate(set forecast.NormalizedSet, ordered []string, perProviderCap int) (map[string]map[string]forecast.DailyRecord, []string) {
	bySrc := make(map[string]map[string]forecast.DailyRecord, len(ordered))
	dateSet := make(map[string]bool)
	for _, src := range ordered {
		recs := set[src]
		if perProviderCap > 0 && len(recs) > perProviderCap {
			recs = recs[:perProviderCap]
		}
		m := make(map[string]forecast.DailyRecord, len(recs))
		for _, r := range recs {
			if r.Date == "" {
				continue
			}
			if _, exists := m[r.Date]; !exists {
				m[r.Date] = r
			}
			dateSet[r.Date] = true
		}
		bySrc[src] = m
	}
	dates := make([]string, 0, len(dateSet))
	for d := range dateSet {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return bySrc, dates
}

// combineTexts merges contributing texts per policy; no texts means
// absent, never an empty string.
func combineTexts(texts []string, policy TextPolicy) *string {
	if len(texts) == 0 {
		return nil
	}

	var picked []string
	switch policy {
	case TextMajority:
		counts := make(map[string]int, len(texts))
		var order []string
		for _, t := range texts {
			if counts[t] == 0 {
				order = append(order, t)
			}
			counts[t]++
		}
		sort.SliceStable(order, func(i, j int) bool {
			return counts[order[i]] > counts[order[j]]
		})
		if len(order) > 2 {
			order = order[:2]
		}
		picked = order
	default:
		seen := make(map[string]bool, len(texts))
		for _, t := range texts {
			if !seen[t] {
				seen[t] = true
				picked = append(picked, t)
			}
		}
	}

	joined := strings.Join(picked, textSeparator)
	return &joined
}

// median returns the mathematical median rounded to 1 decimal, or
// absent for an empty input. Never zero by default.
func median(nums []float64) *float64 {
	if len(nums) == 0 {
		return nil
	}
	sorted := append([]float64(nil), nums...)
	sort.Float64s(sorted)

	var m float64
	n := len(sorted)
	if n%2 == 1 {
		m = sorted[n/2]
	} else {
		m = (sorted[n/2-1] + sorted[n/2]) / 2
	}
	m = math.Round(m*10) / 10
	return &m
}
