package mappers

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hill02252024/hk-7day-typhoon/internal/snapshot"
)

func jsonSnapshot(provider, data string) *snapshot.Raw {
	return &snapshot.Raw{Provider: provider, OK: true, Data: json.RawMessage(data)}
}

func textSnapshot(t *testing.T, provider, text string) *snapshot.Raw {
	t.Helper()
	quoted, err := json.Marshal(text)
	require.NoError(t, err)
	return &snapshot.Raw{Provider: provider, OK: true, Data: quoted}
}

func TestHKOMapsNineDayForecast(t *testing.T) {
	raw := jsonSnapshot("hko", `{
		"weatherForecast": [
			{"forecastDate": "20251022", "forecastWeather": "Sunny periods",
			 "forecastMintemp": {"value": 23, "unit": "C"},
			 "forecastMaxtemp": {"value": 30, "unit": "C"}},
			{"forecastDate": "20251023", "forecastWeather": "Showers",
			 "forecastMintemp": {"value": 22, "unit": "C"},
			 "forecastMaxtemp": {"value": 28, "unit": "C"}}
		]
	}`)

	recs, err := HKO{}.Map(raw)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, "2025-10-22", recs[0].Date)
	require.NotNil(t, recs[0].Text)
	assert.Equal(t, "Sunny periods", *recs[0].Text)
	require.NotNil(t, recs[0].TMin)
	assert.Equal(t, 23.0, *recs[0].TMin)
	require.NotNil(t, recs[0].TMax)
	assert.Equal(t, 30.0, *recs[0].TMax)
	assert.Equal(t, "HKO", recs[0].Src)
}

func TestHKOMalformedPayloadErrors(t *testing.T) {
	// The normalization pass turns this error into a generic fallback.
	_, err := HKO{}.Map(textSnapshot(t, "hko", "<html>maintenance</html>"))
	assert.Error(t, err)
}

func TestJMAZipsFirstWeatherSeries(t *testing.T) {
	raw := jsonSnapshot("jma", `[
		{"timeSeries": [
			{"timeDefines": ["2025-10-22T05:00:00+09:00", "2025-10-22T11:00:00+09:00", "2025-10-23T05:00:00+09:00"],
			 "areas": [{"weathers": ["晴れ", "くもり", "雨"]}]},
			{"timeDefines": ["2025-10-22T00:00:00+09:00"],
			 "areas": [{"weathers": ["should not be reached"]}]}
		]}
	]`)

	recs, err := JMA{}.Map(raw)
	require.NoError(t, err)
	// Two entries for the 22nd collapse to the first-seen one.
	require.Len(t, recs, 2)
	assert.Equal(t, "2025-10-22", recs[0].Date)
	assert.Equal(t, "晴れ", *recs[0].Text)
	assert.Equal(t, "2025-10-23", recs[1].Date)
	assert.Equal(t, "雨", *recs[1].Text)
}

func TestJMAFallsBackToWeatherCodes(t *testing.T) {
	raw := jsonSnapshot("jma", `{
		"timeSeries": [
			{"timeDefines": ["2025-10-22T05:00:00+09:00"],
			 "areas": [{"weatherCodes": ["200"]}]}
		]
	}`)

	recs, err := JMA{}.Map(raw)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "200", *recs[0].Text)
}

func TestMSSProducesAtMostOneRecord(t *testing.T) {
	raw := jsonSnapshot("mss", `{
		"items": [
			{"timestamp": "2025-10-22T06:00:00+08:00",
			 "valid_period": {"start": "2025-10-22T06:00:00+08:00", "end": "2025-10-23T06:00:00+08:00"},
			 "general": {"forecast": "Thundery showers in the afternoon"}},
			{"timestamp": "2025-10-21T06:00:00+08:00",
			 "general": {"forecast": "stale entry"}}
		]
	}`)

	recs, err := MSS{}.Map(raw)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "2025-10-22", recs[0].Date)
	assert.Equal(t, "Thundery showers in the afternoon", *recs[0].Text)
	assert.Equal(t, "MSS", recs[0].Src)
}

func TestBOMPrefersProductPeriods(t *testing.T) {
	raw := jsonSnapshot("bom", `{
		"data": {
			"product": {"periods": [
				{"startTimeLocal": "2025-10-22T00:00:00+10:00", "text": "Partly cloudy",
				 "tempMin": 18, "tempMax": 26},
				{"startTimeLocal": "2025-10-23T00:00:00+10:00", "text": "Showers",
				 "tempMin": 17, "tempMax": 22}
			]}
		}
	}`)

	recs, err := BOM{}.Map(raw)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "2025-10-22", recs[0].Date)
	assert.Equal(t, 18.0, *recs[0].TMin)
	assert.Equal(t, 26.0, *recs[0].TMax)
}

func TestBOMDistrictDaysFallback(t *testing.T) {
	raw := jsonSnapshot("bom", `{
		"forecasts": {"districts": [
			{"forecast": {"days": [
				{"date": "2025-10-22", "text": "Windy", "temp_min": 15, "temp_max": 24}
			]}}
		]}
	}`)

	recs, err := BOM{}.Map(raw)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Windy", *recs[0].Text)
}

func TestRegistryCoversDedicatedProviders(t *testing.T) {
	reg := Registry()
	for _, id := range []string{"hko", "jma", "mss", "metno", "smg", "bom", "noaa"} {
		m, ok := reg[id]
		require.True(t, ok, "missing mapper for %s", id)
		assert.Equal(t, id, m.Provider())
	}
}
