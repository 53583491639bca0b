package mappers

import (
	"sort"
	"strings"

	"github.com/hill02252024/hk-7day-typhoon/internal/forecast"
	"github.com/hill02252024/hk-7day-typhoon/internal/snapshot"
)

// MetNo maps the MET Norway locationforecast time series. Sub-daily
// samples are bucketed by date: running min/max of the instantaneous
// air temperature, and the day's most frequent weather symbol rendered
// as a short phrase.
type MetNo struct{}

func (MetNo) Provider() string { return "metno" }

type metnoDay struct {
	tmin, tmax  *float64
	symbolCount map[string]int
	symbolOrder []string
}

func (MetNo) Map(raw *snapshot.Raw) ([]forecast.DailyRecord, error) {
	var payload struct {
		Properties struct {
			Timeseries []struct {
				Time string `json:"time"`
				Data struct {
					Instant struct {
						Details struct {
							AirTemperature *float64 `json:"air_temperature"`
						} `json:"details"`
					} `json:"instant"`
					Next1Hours struct {
						Summary struct {
							SymbolCode string `json:"symbol_code"`
						} `json:"summary"`
					} `json:"next_1_hours"`
					Next6Hours struct {
						Summary struct {
							SymbolCode string `json:"symbol_code"`
						} `json:"summary"`
					} `json:"next_6_hours"`
				} `json:"data"`
			} `json:"timeseries"`
		} `json:"properties"`
	}
	if err := decodeInto(raw, &payload); err != nil {
		return nil, err
	}
	if len(payload.Properties.Timeseries) == 0 {
		return nil, nil
	}

	byDay := make(map[string]*metnoDay)
	for _, p := range payload.Properties.Timeseries {
		d := forecast.CanonicalDate(p.Time)
		if d == "" {
			continue
		}
		day, ok := byDay[d]
		if !ok {
			day = &metnoDay{symbolCount: make(map[string]int)}
			byDay[d] = day
		}
		if t := p.Data.Instant.Details.AirTemperature; t != nil {
			v := *t
			if day.tmin == nil || v < *day.tmin {
				day.tmin = &v
			}
			if day.tmax == nil || v > *day.tmax {
				vmax := v
				day.tmax = &vmax
			}
		}
		symbol := p.Data.Next1Hours.Summary.SymbolCode
		if symbol == "" {
			symbol = p.Data.Next6Hours.Summary.SymbolCode
		}
		if symbol != "" {
			if day.symbolCount[symbol] == 0 {
				day.symbolOrder = append(day.symbolOrder, symbol)
			}
			day.symbolCount[symbol]++
		}
	}

	dates := make([]string, 0, len(byDay))
	for d := range byDay {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	var out []forecast.DailyRecord
	for _, d := range dates {
		day := byDay[d]
		rec, ok := forecast.NewDailyRecord(d, symbolPhrase(day.topSymbol()), day.tmin, day.tmax, "metno")
		if ok {
			out = append(out, rec)
		}
	}
	return capDays(out), nil
}

// topSymbol returns the day's most frequent symbol code, first-seen
// order breaking ties.
func (d *metnoDay) topSymbol() string {
	best, bestN := "", 0
	for _, s := range d.symbolOrder {
		if d.symbolCount[s] > bestN {
			best, bestN = s, d.symbolCount[s]
		}
	}
	return best
}

// symbolPhrases translates MET Norway symbol codes to short phrases.
// Day/night/twilight variants share one base entry.
var symbolPhrases = map[string]string{
	"clearsky":                    "clear sky",
	"fair":                        "fair",
	"partlycloudy":                "partly cloudy",
	"cloudy":                      "cloudy",
	"fog":                         "fog",
	"lightrain":                   "light rain",
	"rain":                        "rain",
	"heavyrain":                   "heavy rain",
	"lightrainshowers":            "light rain showers",
	"rainshowers":                 "rain showers",
	"heavyrainshowers":            "heavy rain showers",
	"lightrainandthunder":         "light rain and thunder",
	"rainandthunder":              "rain and thunder",
	"heavyrainandthunder":         "heavy rain and thunder",
	"rainshowersandthunder":       "rain showers and thunder",
	"sleet":                       "sleet",
	"sleetshowers":                "sleet showers",
	"lightsnow":                   "light snow",
	"snow":                        "snow",
	"heavysnow":                   "heavy snow",
	"snowshowers":                 "snow showers",
}

func symbolPhrase(code string) string {
	if code == "" {
		return ""
	}
	base := code
	for _, suffix := range []string{"_day", "_night", "_polartwilight"} {
		base = strings.TrimSuffix(base, suffix)
	}
	if phrase, ok := symbolPhrases[base]; ok {
		return phrase
	}
	return strings.ReplaceAll(code, "_", " ")
}
