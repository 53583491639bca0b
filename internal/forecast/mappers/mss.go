package mappers

import (
	"github.com/hill02252024/hk-7day-typhoon/internal/forecast"
	"github.com/hill02252024/hk-7day-typhoon/internal/snapshot"
)

// MSS maps the Singapore 24-hour outlook (data.gov.sg): at most one
// record, taken from the first item of the summary list.
type MSS struct{}

func (MSS) Provider() string { return "mss" }

func (MSS) Map(raw *snapshot.Raw) ([]forecast.DailyRecord, error) {
	var payload struct {
		Items []struct {
			Timestamp   string `json:"timestamp"`
			ValidPeriod struct {
				Start string `json:"start"`
			} `json:"valid_period"`
			General struct {
				Forecast string `json:"forecast"`
				Summary  string `json:"summary"`
			} `json:"general"`
		} `json:"items"`
	}
	if err := decodeInto(raw, &payload); err != nil {
		return nil, err
	}
	if len(payload.Items) == 0 {
		return nil, nil
	}

	it := payload.Items[0]
	date := it.ValidPeriod.Start
	if date == "" {
		date = it.Timestamp
	}
	text := it.General.Forecast
	if text == "" {
		text = it.General.Summary
	}

	rec, ok := forecast.NewDailyRecord(date, text, nil, nil, "mss")
	if !ok {
		return nil, nil
	}
	return []forecast.DailyRecord{rec}, nil
}
