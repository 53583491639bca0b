package pipeline

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hill02252024/hk-7day-typhoon/internal/artifact"
	"github.com/hill02252024/hk-7day-typhoon/internal/consensus"
	"github.com/hill02252024/hk-7day-typhoon/internal/forecast"
	"github.com/hill02252024/hk-7day-typhoon/internal/forecast/mappers"
	"github.com/hill02252024/hk-7day-typhoon/internal/snapshot"
)

func fixedNow() time.Time {
	return time.Date(2025, 10, 22, 6, 0, 0, 0, time.UTC)
}

func seedSnapshots(t *testing.T, dir string) *snapshot.Store {
	t.Helper()
	store := snapshot.NewStore(dir)

	require.NoError(t, store.Save(&snapshot.Raw{
		Provider: "hko", OK: true, ContentType: "json",
		Data: json.RawMessage(`{"weatherForecast": [
			{"forecastDate": "20251022", "forecastWeather": "Sunny periods",
			 "forecastMintemp": {"value": 23}, "forecastMaxtemp": {"value": 30}},
			{"forecastDate": "20251023", "forecastWeather": "Showers",
			 "forecastMintemp": {"value": 22}, "forecastMaxtemp": {"value": 28}}
		]}`),
	}))

	smgXML, err := json.Marshal(`<forecast>
		<day><date>2025-10-22</date><forecast>Cloudy</forecast><minTemp>24</minTemp><maxTemp>31</maxTemp></day>
	</forecast>`)
	require.NoError(t, err)
	require.NoError(t, store.Save(&snapshot.Raw{
		Provider: "smg", OK: true, ContentType: "xml", Data: smgXML,
	}))

	// Failed fetch: must contribute nothing regardless of payload.
	require.NoError(t, store.Save(&snapshot.Raw{
		Provider: "jma", OK: false, Error: "http 503",
		Data: json.RawMessage(`{"daily": [{"date": "2025-10-22", "text": "ghost"}]}`),
	}))

	return store
}

func newTestPipeline(t *testing.T, base string) *Pipeline {
	t.Helper()
	snapStore := seedSnapshots(t, filepath.Join(base, "raw"))
	artifacts := artifact.NewStore(filepath.Join(base, "processed"))
	normalizer := forecast.NewNormalizer(snapStore, mappers.Registry(), mappers.Generic,
		[]string{"hko", "jma", "smg"})
	opts := consensus.Options{Preferred: []string{"hko", "jma", "metno", "mss", "smg"}}
	return New(nil, normalizer, artifacts, []string{"hko", "jma", "smg"}, opts, fixedNow)
}

func TestPipelineNormalizeAndConsensus(t *testing.T) {
	base := t.TempDir()
	p := newTestPipeline(t, base)

	require.NoError(t, p.Normalize())
	require.NoError(t, p.Consensus())
	require.NoError(t, p.Risk())
	require.NoError(t, p.Leaderboard())
	require.NoError(t, p.Impact())

	artifacts := artifact.NewStore(filepath.Join(base, "processed"))

	var set forecast.NormalizedSet
	require.NoError(t, artifacts.ReadInto(artifact.NormalizedFile, &set))
	assert.Len(t, set["hko"], 2)
	assert.Len(t, set["smg"], 1)
	assert.NotContains(t, set, "jma")

	var report consensus.Report
	require.NoError(t, artifacts.ReadInto(artifact.ConsensusFile, &report))
	require.Len(t, report.Days, 2)
	assert.Equal(t, []string{"HKO", "SMG"}, report.Days[0].Sources)
	require.NotNil(t, report.Days[0].TMax)
	assert.Equal(t, 30.5, *report.Days[0].TMax) // median of 30 and 31
	assert.Equal(t, []string{"HKO", "SMG"}, report.Meta.SourcesUsed)
}

func TestPipelineIdempotent(t *testing.T) {
	base := t.TempDir()
	p := newTestPipeline(t, base)

	run := func() map[string][]byte {
		require.NoError(t, p.Normalize())
		require.NoError(t, p.Consensus())
		require.NoError(t, p.Risk())
		require.NoError(t, p.Leaderboard())
		out := make(map[string][]byte)
		store := artifact.NewStore(filepath.Join(base, "processed"))
		for _, name := range []string{artifact.NormalizedFile, artifact.FlatFile, artifact.ConsensusFile, artifact.RiskFile, artifact.LeaderboardFile} {
			b, err := store.Read(name)
			require.NoError(t, err)
			out[name] = b
		}
		return out
	}

	first := run()
	second := run()
	// Same snapshots in, byte-identical artifacts out (the test clock
	// is fixed, so even the stamped leaderboard matches).
	assert.Equal(t, first, second)
}

func TestPipelineConsensusWithoutNormalizedArtifact(t *testing.T) {
	base := t.TempDir()
	p := newTestPipeline(t, base)

	// Consensus before normalize: degrade to an empty, well-formed
	// report rather than failing.
	require.NoError(t, p.Consensus())

	var report consensus.Report
	artifacts := artifact.NewStore(filepath.Join(base, "processed"))
	require.NoError(t, artifacts.ReadInto(artifact.ConsensusFile, &report))
	assert.Empty(t, report.Days)
	assert.Equal(t, 0, report.Meta.ProviderCount)
}
