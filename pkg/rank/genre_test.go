package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/popradar/popradar/pkg/snapshot"
)

func TestGenreRollupMeans(t *testing.T) {
	records := []snapshot.ArtistRecord{
		{ArtistID: "a", PrimaryGenre: "pop", PopularityIndex: 0.8, Norm: map[string]float64{
			snapshot.MetricYouTubeSubscribers: 1.0,
			snapshot.MetricTikTokViews:        0.5,
		}},
		{ArtistID: "b", PrimaryGenre: "hip hop", PopularityIndex: 0.6, Norm: map[string]float64{
			snapshot.MetricYouTubeSubscribers: 0.4,
			snapshot.MetricTikTokViews:        1.0,
		}},
		{ArtistID: "c", PrimaryGenre: "pop", PopularityIndex: 0.2, Norm: map[string]float64{
			snapshot.MetricYouTubeSubscribers: 0.0,
			snapshot.MetricTikTokViews:        0.1,
		}},
	}

	out := GenreRollup(records)
	require.Len(t, out, 2)

	assert.Equal(t, "pop", out[0].PrimaryGenre)
	assert.InDelta(t, 0.5, out[0].AvgPopularityIndex, 1e-12)
	assert.InDelta(t, 0.5, out[0].AvgNormSubscribers, 1e-12)
	assert.InDelta(t, 0.3, out[0].AvgNormTikTokViews, 1e-12)
	assert.Equal(t, 2, out[0].ArtistCount)

	assert.Equal(t, "hip hop", out[1].PrimaryGenre)
	assert.Equal(t, 1, out[1].ArtistCount)
}

func TestGenreRollupMissingGenre(t *testing.T) {
	records := []snapshot.ArtistRecord{
		{ArtistID: "a", PopularityIndex: 0.4},
		{ArtistID: "b", PrimaryGenre: snapshot.GenreUnknown, PopularityIndex: 0.2},
	}

	out := GenreRollup(records)
	require.Len(t, out, 1)
	assert.Equal(t, snapshot.GenreUnknown, out[0].PrimaryGenre)
	assert.Equal(t, 2, out[0].ArtistCount)
	assert.InDelta(t, 0.3, out[0].AvgPopularityIndex, 1e-12)
}
