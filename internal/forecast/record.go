// Package forecast defines the normalized per-day forecast record and
// the pass that turns raw provider snapshots into a normalized set.
package forecast

import (
	"encoding/json"
	"strconv"
	"strings"
)

// MaxLookahead caps how many daily records a single provider may
// contribute.
const MaxLookahead = 10

// DailyRecord is one provider's forecast for one calendar date.
// Immutable after construction.
type DailyRecord struct {
	Date string   `json:"date"`
	Text *string  `json:"text"`
	TMin *float64 `json:"tmin"`
	TMax *float64 `json:"tmax"`
	Src  string   `json:"src"`
}

// NormalizedSet maps a lower-case provider identifier to its ordered
// daily records.
type NormalizedSet map[string][]DailyRecord

// NewDailyRecord builds a record from one upstream field-set. It
// canonicalizes the date, cleans the text, coerces numeric-like
// temperatures, and stamps the source in upper case. Records with
// neither date nor text are rejected.
func NewDailyRecord(date, text string, tmin, tmax any, src string) (DailyRecord, bool) {
	cleaned := CleanText(text)
	if strings.TrimSpace(date) == "" && cleaned == nil {
		return DailyRecord{}, false
	}
	return DailyRecord{
		Date: CanonicalDate(date),
		Text: cleaned,
		TMin: CoerceTemp(tmin),
		TMax: CoerceTemp(tmax),
		Src:  strings.ToUpper(src),
	}, true
}

// CleanText collapses full-width and non-breaking spaces plus any
// whitespace run into single ASCII spaces. Blank input is absent, not
// empty.
func CleanText(s string) *string {
	s = strings.ReplaceAll(s, "　", " ")
	s = strings.ReplaceAll(s, " ", " ")
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return nil
	}
	return &s
}

// CoerceTemp turns a numeric-like value into a temperature, or absent.
// Non-numeric garbage never becomes a number.
func CoerceTemp(v any) *float64 {
	switch t := v.(type) {
	case nil:
		return nil
	case float64:
		return &t
	case float32:
		f := float64(t)
		return &f
	case int:
		f := float64(t)
		return &f
	case int64:
		f := float64(t)
		return &f
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return nil
		}
		return &f
	case *float64:
		return t
	case string:
		s := strings.TrimSpace(t)
		if s == "" || s == "None" {
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}
