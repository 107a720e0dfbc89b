package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/popradar/popradar/pkg/snapshot"
)

func TestNormalizeScalesToUnitRange(t *testing.T) {
	records := []snapshot.ArtistRecord{
		{ArtistID: "a", YouTubeTotalViews: 1_000_000},
		{ArtistID: "b", YouTubeTotalViews: 500_000},
		{ArtistID: "c", YouTubeTotalViews: 0},
	}

	out := Normalize(records, []string{snapshot.MetricYouTubeTotalViews})

	require.Len(t, out, 3)
	assert.Equal(t, 1.0, out[0].Norm[snapshot.MetricYouTubeTotalViews])
	assert.Equal(t, 0.5, out[1].Norm[snapshot.MetricYouTubeTotalViews])
	assert.Equal(t, 0.0, out[2].Norm[snapshot.MetricYouTubeTotalViews])
}

func TestNormalizeBounds(t *testing.T) {
	records := []snapshot.ArtistRecord{
		{ArtistID: "a", YouTubeSubscribers: 3, TikTokViews: 999, AvgEngagementRate: 0.07},
		{ArtistID: "b", YouTubeSubscribers: 88, TikTokViews: 1, AvgEngagementRate: 0.01},
		{ArtistID: "c", YouTubeSubscribers: 41, TikTokViews: 500, AvgEngagementRate: 0.002},
	}

	out := Normalize(records, snapshot.AllMetrics())

	for _, rec := range out {
		for _, m := range snapshot.AllMetrics() {
			v, ok := rec.Norm[m]
			require.True(t, ok, "metric %s missing on %s", m, rec.ArtistID)
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 1.0)
		}
	}
}

func TestNormalizeConstantColumnIsZero(t *testing.T) {
	records := []snapshot.ArtistRecord{
		{ArtistID: "a", TikTokPostCount: 42},
		{ArtistID: "b", TikTokPostCount: 42},
	}

	out := Normalize(records, []string{snapshot.MetricTikTokPostCount})

	for _, rec := range out {
		assert.Equal(t, 0.0, rec.Norm[snapshot.MetricTikTokPostCount])
	}
}

func TestNormalizeUnknownMetricIsZero(t *testing.T) {
	records := []snapshot.ArtistRecord{
		{ArtistID: "a", YouTubeTotalViews: 10},
		{ArtistID: "b", YouTubeTotalViews: 20},
	}

	out := Normalize(records, []string{"spotify_streams"})

	for _, rec := range out {
		assert.Equal(t, 0.0, rec.Norm["spotify_streams"])
	}
}

func TestNormalizeSingleArtistIsZero(t *testing.T) {
	records := []snapshot.ArtistRecord{
		{ArtistID: "solo", YouTubeTotalViews: 12345, TikTokViews: 77},
	}

	out := Normalize(records, snapshot.AllMetrics())

	for _, m := range snapshot.AllMetrics() {
		assert.Equal(t, 0.0, out[0].Norm[m], m)
	}
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	records := []snapshot.ArtistRecord{
		{ArtistID: "a", YouTubeTotalViews: 10},
		{ArtistID: "b", YouTubeTotalViews: 20},
	}

	_ = Normalize(records, []string{snapshot.MetricYouTubeTotalViews})

	assert.Nil(t, records[0].Norm)
	assert.Nil(t, records[1].Norm)
}
