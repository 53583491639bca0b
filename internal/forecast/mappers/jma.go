package mappers

import (
	"bytes"
	"encoding/json"

	"github.com/hill02252024/hk-7day-typhoon/internal/forecast"
	"github.com/hill02252024/hk-7day-typhoon/internal/snapshot"
)

// JMA maps the Japan Meteorological Agency bosai forecast: area-based
// time series. The first series whose leading area carries a non-empty
// weather array is zipped positionally against its time markers, then
// collapsed to one entry per date.
type JMA struct{}

func (JMA) Provider() string { return "jma" }

type jmaRoot struct {
	TimeSeries []struct {
		TimeDefines []string `json:"timeDefines"`
		Areas       []struct {
			Weathers     []string `json:"weathers"`
			WeatherCodes []string `json:"weatherCodes"`
		} `json:"areas"`
	} `json:"timeSeries"`
}

func (JMA) Map(raw *snapshot.Raw) ([]forecast.DailyRecord, error) {
	data, err := raw.Payload()
	if err != nil {
		return nil, err
	}

	// The feed ships either one forecast object or a list of them; the
	// first element is the short-range forecast.
	var root jmaRoot
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("[")) {
		var roots []jmaRoot
		if err := json.Unmarshal(data, &roots); err != nil {
			return nil, err
		}
		if len(roots) == 0 {
			return nil, nil
		}
		root = roots[0]
	} else if err := json.Unmarshal(data, &root); err != nil {
		return nil, err
	}

	var out []forecast.DailyRecord
	for _, ts := range root.TimeSeries {
		if len(ts.TimeDefines) == 0 || len(ts.Areas) == 0 {
			continue
		}
		weathers := ts.Areas[0].Weathers
		if len(weathers) == 0 {
			weathers = ts.Areas[0].WeatherCodes
		}
		if len(weathers) == 0 {
			continue
		}
		for i, t := range ts.TimeDefines {
			text := ""
			if i < len(weathers) {
				text = weathers[i]
			}
			if rec, ok := forecast.NewDailyRecord(t, text, nil, nil, "jma"); ok {
				out = append(out, rec)
			}
		}
		break
	}
	return dedupeByDate(out), nil
}
