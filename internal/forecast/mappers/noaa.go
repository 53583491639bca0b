package mappers

import (
	"math"
	"sort"
	"strings"

	"github.com/hill02252024/hk-7day-typhoon/internal/forecast"
	"github.com/hill02252024/hk-7day-typhoon/internal/snapshot"
)

// NOAA maps the US NWS gridpoint forecast: day/night periods grouped by
// date, the daytime period preferred, Fahrenheit converted to Celsius.
type NOAA struct{}

func (NOAA) Provider() string { return "noaa" }

type noaaPeriod struct {
	StartTime        string   `json:"startTime"`
	IsDaytime        bool     `json:"isDaytime"`
	DetailedForecast string   `json:"detailedForecast"`
	ShortForecast    string   `json:"shortForecast"`
	Temperature      *float64 `json:"temperature"`
	TemperatureUnit  string   `json:"temperatureUnit"`
}

func (NOAA) Map(raw *snapshot.Raw) ([]forecast.DailyRecord, error) {
	var payload struct {
		Properties struct {
			Periods []noaaPeriod `json:"periods"`
		} `json:"properties"`
	}
	if err := decodeInto(raw, &payload); err != nil {
		return nil, err
	}
	if len(payload.Properties.Periods) == 0 {
		return nil, nil
	}

	type dayNight struct {
		day, night *noaaPeriod
	}
	byDate := make(map[string]*dayNight)
	for i := range payload.Properties.Periods {
		p := &payload.Properties.Periods[i]
		date := forecast.CanonicalDate(p.StartTime)
		if date == "" {
			continue
		}
		entry, ok := byDate[date]
		if !ok {
			entry = &dayNight{}
			byDate[date] = entry
		}
		if p.IsDaytime {
			if entry.day == nil {
				entry.day = p
			}
		} else if entry.night == nil {
			entry.night = p
		}
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	var out []forecast.DailyRecord
	for _, d := range dates {
		cand := byDate[d].day
		if cand == nil {
			cand = byDate[d].night
		}
		if cand == nil {
			continue
		}
		text := cand.DetailedForecast
		if text == "" {
			text = cand.ShortForecast
		}
		var tmax *float64
		if cand.Temperature != nil {
			t := *cand.Temperature
			if strings.EqualFold(cand.TemperatureUnit, "F") {
				t = fToC(t)
			}
			tmax = &t
		}
		if rec, ok := forecast.NewDailyRecord(d, text, nil, tmax, "noaa"); ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

func fToC(f float64) float64 {
	return math.Round((f-32)*5.0/9.0*10) / 10
}
