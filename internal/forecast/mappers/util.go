package mappers

import (
	"encoding/json"

	"github.com/hill02252024/hk-7day-typhoon/internal/forecast"
	"github.com/hill02252024/hk-7day-typhoon/internal/snapshot"
)

// decodeInto unmarshals a snapshot payload into a typed value.
func decodeInto(raw *snapshot.Raw, v any) error {
	data, err := raw.Payload()
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// dig walks nested generic JSON values by string keys and integer
// indexes, returning nil when any step is missing.
func dig(v any, keys ...any) any {
	cur := v
	for _, k := range keys {
		switch key := k.(type) {
		case string:
			m, ok := cur.(map[string]any)
			if !ok {
				return nil
			}
			cur, ok = m[key]
			if !ok {
				return nil
			}
		case int:
			l, ok := cur.([]any)
			if !ok || key < 0 || key >= len(l) {
				return nil
			}
			cur = l[key]
		default:
			return nil
		}
	}
	return cur
}

// digString is dig for string leaves; non-strings come back empty.
func digString(v any, keys ...any) string {
	s, _ := dig(v, keys...).(string)
	return s
}

// firstString probes map keys in order and returns the first non-empty
// string value.
func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// firstValue probes map keys in order and returns the first present
// non-nil value.
func firstValue(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

// dedupeByDate keeps the first-seen record per date, preserving order.
func dedupeByDate(recs []forecast.DailyRecord) []forecast.DailyRecord {
	seen := make(map[string]bool, len(recs))
	out := recs[:0:0]
	for _, r := range recs {
		if r.Date == "" || seen[r.Date] {
			continue
		}
		seen[r.Date] = true
		out = append(out, r)
	}
	return out
}

// capDays truncates to the lookahead window.
func capDays(recs []forecast.DailyRecord) []forecast.DailyRecord {
	if len(recs) > forecast.MaxLookahead {
		return recs[:forecast.MaxLookahead]
	}
	return recs
}
