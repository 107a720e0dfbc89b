package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/popradar/popradar/pkg/snapshot"
)

func TestDefaultWeightsValidate(t *testing.T) {
	require.NoError(t, DefaultWeights().Validate(snapshot.AllMetrics()))
}

func TestWeightsValidateUnknownMetric(t *testing.T) {
	w := Weights{
		"spotify_streams":                0.5,
		snapshot.MetricYouTubeTotalViews: 0.5,
	}
	err := w.Validate(snapshot.AllMetrics())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "spotify_streams")
}

func TestWeightsValidateBadSum(t *testing.T) {
	w := Weights{
		snapshot.MetricYouTubeTotalViews: 0.6,
		snapshot.MetricTikTokViews:       0.6,
	}
	err := w.Validate(snapshot.AllMetrics())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "want 1.0")
}

func TestWeightsValidateNegative(t *testing.T) {
	w := Weights{
		snapshot.MetricYouTubeTotalViews: 1.2,
		snapshot.MetricTikTokViews:       -0.2,
	}
	require.Error(t, w.Validate(snapshot.AllMetrics()))
}

func TestWeightsValidateEmpty(t *testing.T) {
	require.Error(t, Weights{}.Validate(snapshot.AllMetrics()))
}

func TestWeightsValidateSubsetAllowed(t *testing.T) {
	w := Weights{
		snapshot.MetricYouTubeTotalViews: 0.55,
		snapshot.MetricTikTokViews:       0.45,
	}
	require.NoError(t, w.Validate(snapshot.AllMetrics()))
}

func TestScoreTwoPlatformSplit(t *testing.T) {
	// Artist a leads YouTube, artist b leads TikTok. With a 0.55/0.45 split
	// the index must land exactly on the weights.
	records := []snapshot.ArtistRecord{
		{ArtistID: "a", Norm: map[string]float64{
			snapshot.MetricYouTubeTotalViews: 1.0,
			snapshot.MetricTikTokViews:       0.0,
		}},
		{ArtistID: "b", Norm: map[string]float64{
			snapshot.MetricYouTubeTotalViews: 0.0,
			snapshot.MetricTikTokViews:       1.0,
		}},
	}
	weights := Weights{
		snapshot.MetricYouTubeTotalViews: 0.55,
		snapshot.MetricTikTokViews:       0.45,
	}

	out, err := Score(records, weights)
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, "a", out[0].ArtistID)
	assert.InDelta(t, 0.55, out[0].PopularityIndex, 1e-12)
	assert.Equal(t, 55.0, out[0].Score100)
	assert.Equal(t, 1, out[0].Rank)

	assert.Equal(t, "b", out[1].ArtistID)
	assert.InDelta(t, 0.45, out[1].PopularityIndex, 1e-12)
	assert.Equal(t, 45.0, out[1].Score100)
	assert.Equal(t, 2, out[1].Rank)
}

func TestScoreTwoPlatformSplitFromRawMetrics(t *testing.T) {
	records := Normalize([]snapshot.ArtistRecord{
		{ArtistID: "a", YouTubeTotalViews: 1_000_000, TikTokPostCount: 500},
		{ArtistID: "b", YouTubeTotalViews: 500_000, TikTokPostCount: 1000},
	}, snapshot.AllMetrics())

	out, err := Score(records, Weights{
		snapshot.MetricYouTubeTotalViews: 0.55,
		snapshot.MetricTikTokPostCount:   0.45,
	})
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, "a", out[0].ArtistID)
	assert.InDelta(t, 0.55, out[0].PopularityIndex, 1e-12)
	assert.Equal(t, 1, out[0].Rank)
	assert.Equal(t, "b", out[1].ArtistID)
	assert.InDelta(t, 0.45, out[1].PopularityIndex, 1e-12)
	assert.Equal(t, 2, out[1].Rank)
}

func TestScoreSingleArtist(t *testing.T) {
	records := Normalize([]snapshot.ArtistRecord{
		{ArtistID: "solo", YouTubeTotalViews: 900, TikTokViews: 12},
	}, snapshot.AllMetrics())

	out, err := Score(records, DefaultWeights())
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 0.0, out[0].PopularityIndex)
	assert.Equal(t, 0.0, out[0].Score100)
	assert.Equal(t, 1, out[0].Rank)
}

func TestScoreTieBreakKeepsInputOrder(t *testing.T) {
	norm := map[string]float64{snapshot.MetricYouTubeTotalViews: 0.5}
	records := []snapshot.ArtistRecord{
		{ArtistID: "first", Norm: norm},
		{ArtistID: "second", Norm: norm},
		{ArtistID: "third", Norm: norm},
	}
	weights := Weights{snapshot.MetricYouTubeTotalViews: 1.0}

	for i := 0; i < 5; i++ {
		out, err := Score(records, weights)
		require.NoError(t, err)
		assert.Equal(t, "first", out[0].ArtistID)
		assert.Equal(t, "second", out[1].ArtistID)
		assert.Equal(t, "third", out[2].ArtistID)
	}
}

func TestScoreRejectsBadSum(t *testing.T) {
	records := []snapshot.ArtistRecord{
		{ArtistID: "a", Norm: map[string]float64{snapshot.MetricTikTokViews: 1.0}},
	}
	_, err := Score(records, Weights{snapshot.MetricTikTokViews: 0.9})
	require.Error(t, err)
}

func TestScoreRejectsMissingNorm(t *testing.T) {
	records := []snapshot.ArtistRecord{
		{ArtistID: "a", Norm: map[string]float64{snapshot.MetricTikTokViews: 1.0}},
	}
	_, err := Score(records, Weights{snapshot.MetricYouTubeSubscribers: 1.0})
	require.Error(t, err)
	assert.Contains(t, err.Error(), snapshot.MetricYouTubeSubscribers)
}

func TestScoreIndexStableAndBounded(t *testing.T) {
	// All five weights contribute a full term, the worst case for float
	// accumulation order. The index must come out bit-identical on every
	// call and never exceed 1.0.
	norm := map[string]float64{
		snapshot.MetricYouTubeSubscribers: 1.0,
		snapshot.MetricYouTubeTotalViews:  1.0,
		snapshot.MetricAvgEngagementRate:  1.0,
		snapshot.MetricTikTokViews:        1.0,
		snapshot.MetricTikTokPostCount:    1.0,
	}
	records := []snapshot.ArtistRecord{{ArtistID: "a", Norm: norm}}

	first, err := Score(records, DefaultWeights())
	require.NoError(t, err)
	assert.LessOrEqual(t, first[0].PopularityIndex, 1.0)
	assert.Equal(t, 100.0, first[0].Score100)

	for i := 0; i < 20; i++ {
		again, err := Score(records, DefaultWeights())
		require.NoError(t, err)
		assert.Equal(t, first[0].PopularityIndex, again[0].PopularityIndex)
		assert.Equal(t, first[0].Score100, again[0].Score100)
	}
}

func TestScore100Rounding(t *testing.T) {
	records := []snapshot.ArtistRecord{
		{ArtistID: "a", Norm: map[string]float64{snapshot.MetricTikTokViews: 0.123456}},
		{ArtistID: "b", Norm: map[string]float64{snapshot.MetricTikTokViews: 0.0}},
	}
	out, err := Score(records, Weights{snapshot.MetricTikTokViews: 1.0})
	require.NoError(t, err)
	assert.Equal(t, 12.35, out[0].Score100)
}
