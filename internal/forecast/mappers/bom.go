package mappers

import (
	"github.com/hill02252024/hk-7day-typhoon/internal/forecast"
	"github.com/hill02252024/hk-7day-typhoon/internal/snapshot"
)

// BOM maps Australian Bureau of Meteorology feeds. The bureau exposes
// several shapes depending on product, so this probes them in order:
// product periods, district day lists, then the generic container scan.
type BOM struct{}

func (BOM) Provider() string { return "bom" }

func (BOM) Map(raw *snapshot.Raw) ([]forecast.DailyRecord, error) {
	root, err := raw.Object()
	if err != nil {
		return nil, err
	}
	// Some BOM products nest the document under a data envelope.
	if m, ok := root.(map[string]any); ok {
		if inner, ok := m["data"].(map[string]any); ok {
			root = inner
		}
	}

	out := bomPeriods(root)
	if len(out) == 0 {
		out = bomDistrictDays(root)
	}
	if len(out) == 0 {
		if m, ok := root.(map[string]any); ok {
			out = probeContainers(m, "bom")
		}
	}
	return dedupeByDate(out), nil
}

func bomPeriods(root any) []forecast.DailyRecord {
	periods, ok := dig(root, "product", "periods").([]any)
	if !ok {
		return nil
	}
	var out []forecast.DailyRecord
	for _, p := range periods {
		m, ok := p.(map[string]any)
		if !ok {
			continue
		}
		rec, ok := forecast.NewDailyRecord(
			firstString(m, "startTimeLocal", "startTimeUTC", "start"),
			firstString(m, "text", "detailedForecast", "summary"),
			firstValue(m, "tempMin", "air_temperature_minimum"),
			firstValue(m, "tempMax", "air_temperature_maximum"),
			"bom",
		)
		if ok {
			out = append(out, rec)
		}
	}
	return out
}

func bomDistrictDays(root any) []forecast.DailyRecord {
	days, ok := dig(root, "forecasts", "districts", 0, "forecast", "days").([]any)
	if !ok {
		return nil
	}
	var out []forecast.DailyRecord
	for _, d := range days {
		m, ok := d.(map[string]any)
		if !ok {
			continue
		}
		rec, ok := forecast.NewDailyRecord(
			firstString(m, "date"),
			firstString(m, "text"),
			firstValue(m, "temp_min"),
			firstValue(m, "temp_max"),
			"bom",
		)
		if ok {
			out = append(out, rec)
		}
	}
	return out
}
