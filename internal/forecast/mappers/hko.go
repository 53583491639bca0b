package mappers

import (
	"encoding/json"

	"github.com/hill02252024/hk-7day-typhoon/internal/forecast"
	"github.com/hill02252024/hk-7day-typhoon/internal/snapshot"
)

// HKO maps the Hong Kong Observatory 9-day forecast (fnd dataType):
// a flat weatherForecast list, one entry per day.
type HKO struct{}

func (HKO) Provider() string { return "hko" }

func (HKO) Map(raw *snapshot.Raw) ([]forecast.DailyRecord, error) {
	var payload struct {
		WeatherForecast []struct {
			ForecastDate    string `json:"forecastDate"`
			ForecastWeather string `json:"forecastWeather"`
			ForecastMintemp struct {
				Value json.Number `json:"value"`
			} `json:"forecastMintemp"`
			ForecastMaxtemp struct {
				Value json.Number `json:"value"`
			} `json:"forecastMaxtemp"`
		} `json:"weatherForecast"`
	}
	if err := decodeInto(raw, &payload); err != nil {
		return nil, err
	}

	var out []forecast.DailyRecord
	for _, d := range payload.WeatherForecast {
		rec, ok := forecast.NewDailyRecord(
			d.ForecastDate,
			d.ForecastWeather,
			d.ForecastMintemp.Value,
			d.ForecastMaxtemp.Value,
			"hko",
		)
		if ok {
			out = append(out, rec)
		}
	}
	return out, nil
}
