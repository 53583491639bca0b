package mappers

import (
	"github.com/hill02252024/hk-7day-typhoon/internal/forecast"
	"github.com/hill02252024/hk-7day-typhoon/internal/snapshot"
)

// containerKeys are probed in order for the first present non-empty
// list of day-like entries.
var containerKeys = []string{"forecasts", "daily", "items", "days", "list", "data", "periods"}

// Field name aliases probed per semantic field, first present wins.
// Data-driven so a new provider can often be supported without code.
var (
	dateAliases = []string{"date", "validDate", "forecastDate", "startTime", "time"}
	textAliases = []string{"text", "summary", "weather", "forecast", "wx"}
	tminAliases = []string{"tmin", "min", "min_temp"}
	tmaxAliases = []string{"tmax", "max", "max_temp"}
)

// Generic maps an unknown or failed provider by probing plausible
// container keys and field name aliases. It never fails: unusable
// payloads yield no records.
func Generic(raw *snapshot.Raw, providerID string) []forecast.DailyRecord {
	root, err := raw.Object()
	if err != nil {
		return nil
	}

	switch v := root.(type) {
	case map[string]any:
		return probeContainers(v, providerID)
	case []any:
		return capDays(probeEntries(v, providerID))
	default:
		return nil
	}
}

func probeContainers(root map[string]any, providerID string) []forecast.DailyRecord {
	for _, key := range containerKeys {
		if arr, ok := root[key].([]any); ok && len(arr) > 0 {
			if recs := probeEntries(arr, providerID); len(recs) > 0 {
				return capDays(recs)
			}
		}
	}
	return nil
}

func probeEntries(arr []any, providerID string) []forecast.DailyRecord {
	var out []forecast.DailyRecord
	for _, e := range arr {
		m, ok := e.(map[string]any)
		if !ok {
			continue
		}
		tmin := firstValue(m, tminAliases...)
		if tmin == nil {
			tmin = dig(m, "temperature", "min")
		}
		tmax := firstValue(m, tmaxAliases...)
		if tmax == nil {
			tmax = dig(m, "temperature", "max")
		}
		rec, ok := forecast.NewDailyRecord(
			firstString(m, dateAliases...),
			firstString(m, textAliases...),
			tmin,
			tmax,
			providerID,
		)
		if ok {
			out = append(out, rec)
		}
	}
	return out
}
