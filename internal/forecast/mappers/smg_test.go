package mappers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSMGDayBlocks(t *testing.T) {
	raw := textSnapshot(t, "smg", `<?xml version="1.0" encoding="UTF-8"?>
<forecast>
  <day>
    <date>2025-10-22</date>
    <forecast>Cloudy with showers</forecast>
    <minTemp>23</minTemp>
    <maxTemp>30</maxTemp>
  </day>
  <day>
    <date>2025-10-23</date>
    <forecast>Sunny intervals</forecast>
    <minTemp>22</minTemp>
    <maxTemp>29</maxTemp>
  </day>
</forecast>`)

	recs, err := SMG{}.Map(raw)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "2025-10-22", recs[0].Date)
	assert.Equal(t, "Cloudy with showers", *recs[0].Text)
	assert.Equal(t, 23.0, *recs[0].TMin)
	assert.Equal(t, 30.0, *recs[0].TMax)
	assert.Equal(t, "SMG", recs[0].Src)
}

func TestSMGTypedTemperatureFields(t *testing.T) {
	raw := textSnapshot(t, "smg", `<custom><WeatherForecast>
  <day>
    <date>20251022</date>
    <forecast>Mainly fine</forecast>
    <temperature type="1">31</temperature>
    <temperature type="2">24</temperature>
  </day>
</WeatherForecast></custom>`)

	recs, err := SMG{}.Map(raw)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "2025-10-22", recs[0].Date)
	assert.Equal(t, 24.0, *recs[0].TMin)
	assert.Equal(t, 31.0, *recs[0].TMax)
}

func TestSMGFeedEntries(t *testing.T) {
	raw := textSnapshot(t, "smg", `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel>
  <title>7 Days Forecast</title>
  <item>
    <title>Sunny periods with a few showers</title>
    <description>Moderate east winds.</description>
    <pubDate>Wed, 22 Oct 2025 08:00:00 +0800</pubDate>
  </item>
  <item>
    <title>Mainly cloudy</title>
    <description>Fresh east winds.</description>
    <pubDate>Thu, 23 Oct 2025 08:00:00 +0800</pubDate>
  </item>
</channel></rss>`)

	recs, err := SMG{}.Map(raw)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "2025-10-22", recs[0].Date)
	assert.Contains(t, *recs[0].Text, "Sunny periods with a few showers")
	assert.Contains(t, *recs[0].Text, "Moderate east winds.")
}

func TestSMGItemRegexFallback(t *testing.T) {
	// A non-feed root defeats both the day-block and feed parsers,
	// leaving the regex tier.
	raw := textSnapshot(t, "smg", `<bulletin>
<item><title>Showery</title><description><![CDATA[Heavy at times]]></description><pubDate>Wed, 22 Oct 2025 08:00:00 +0800</pubDate></item>
<item><title>Bright periods</title><pubDate>Thu, 23 Oct 2025 08:00:00 +0800</pubDate></item>`)

	recs, err := SMG{}.Map(raw)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "2025-10-22", recs[0].Date)
	assert.Contains(t, *recs[0].Text, "Showery")
	assert.Contains(t, *recs[0].Text, "Heavy at times")
	assert.Equal(t, "2025-10-23", recs[1].Date)
}

func TestSMGPlainTextFallback(t *testing.T) {
	raw := textSnapshot(t, "smg", `Forecast bulletin
2025-10-22
Cloudy with occasional showers.

2025-10-23
Sunny intervals, dry.
`)

	recs, err := SMG{}.Map(raw)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "2025-10-22", recs[0].Date)
	assert.Equal(t, "Cloudy with occasional showers.", *recs[0].Text)
	assert.Equal(t, "2025-10-23", recs[1].Date)
}

func TestSMGEmptyPayload(t *testing.T) {
	_, err := SMG{}.Map(textSnapshot(t, "smg", "   "))
	assert.Error(t, err)
}
