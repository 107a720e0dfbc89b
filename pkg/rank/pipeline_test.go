package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/popradar/popradar/pkg/schema"
	"github.com/popradar/popradar/pkg/snapshot"
)

func sampleArtistTables() []*snapshot.Table {
	yt := snapshot.NewTable("youtube_artists")
	yt.Append(snapshot.Row{
		"artist_name":      "Taylor Swift",
		"subscriber_count": "60000000",
		"view_count":       "35000000000",
		"video_count":      "250",
		"genres":           "pop, country",
	})
	yt.Append(snapshot.Row{
		"artist_name":      "Drake",
		"subscriber_count": "30000000",
		"view_count":       "20000000000",
		"video_count":      "180",
		"genres":           "hip hop,rap",
	})
	yt.Append(snapshot.Row{
		"artist_name":      "Billie Eilish",
		"subscriber_count": "48000000",
		"view_count":       "12000000000",
		"video_count":      "90",
		"genres":           "pop",
	})

	tt := snapshot.NewTable("tiktok_artists")
	tt.Append(snapshot.Row{
		"artist":             "Taylor Swift",
		"tiktok_views":       "9000000000",
		"tiktok_video_count": "120000",
	})
	tt.Append(snapshot.Row{
		"artist":             "Billie Eilish",
		"tiktok_views":       "6000000000",
		"tiktok_video_count": "90000",
	})

	return []*snapshot.Table{yt, tt}
}

func sampleContentTables() []*snapshot.Table {
	videos := snapshot.NewTable("youtube_content")
	rows := []snapshot.Row{
		{"artist_name": "Taylor Swift", "video_id": "ts1", "data_type": "youtube_video",
			"published_at": "2026-05-20T00:00:00Z", "view_count": "2000000", "like_count": "150000",
			"comment_count": "30000", "collection_timestamp": "2026-06-01T00:00:00Z"},
		{"artist_name": "Taylor Swift", "video_id": "ts2", "data_type": "youtube_video",
			"published_at": "2026-02-10T00:00:00Z", "view_count": "8000000", "like_count": "500000",
			"comment_count": "90000", "collection_timestamp": "2026-06-01T00:00:00Z"},
		{"artist_name": "Drake", "video_id": "dr1", "data_type": "youtube_video",
			"published_at": "2025-11-01T00:00:00Z", "view_count": "5000000", "like_count": "200000",
			"comment_count": "40000", "collection_timestamp": "2026-06-01T00:00:00Z"},
		{"artist_name": "Drake", "video_id": "dr2", "data_type": "youtube_short",
			"published_at": "2026-05-30T00:00:00Z", "view_count": "900000", "like_count": "70000",
			"comment_count": "5000", "collection_timestamp": "2026-06-01T00:00:00Z"},
	}
	for _, row := range rows {
		videos.Append(row)
	}
	return []*snapshot.Table{videos}
}

func TestPipelineRun(t *testing.T) {
	p := NewPipeline(nil, nil)

	result, err := p.Run(sampleArtistTables(), sampleContentTables())
	require.NoError(t, err)

	require.Len(t, result.Artists, 3)
	assert.Empty(t, result.SkippedTables)

	// Ranks are contiguous from 1 and ordered by index.
	for i, rec := range result.Artists {
		assert.Equal(t, i+1, rec.Rank)
		if i > 0 {
			assert.GreaterOrEqual(t, result.Artists[i-1].PopularityIndex, rec.PopularityIndex)
		}
		for _, m := range snapshot.AllMetrics() {
			v := rec.Norm[m]
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 1.0)
		}
	}

	// Taylor Swift leads every raw metric, so she must rank first.
	assert.Equal(t, "Taylor Swift", result.Artists[0].ArtistID)

	// Shorts are excluded by the default content types, so Drake keeps one
	// dated video and gets no cadence.
	byID := make(map[string]snapshot.ArtistRecord)
	for _, rec := range result.Artists {
		byID[rec.ArtistID] = rec
	}
	assert.Equal(t, 0.0, byID["Drake"].ReleaseCadence)
	assert.Greater(t, byID["Taylor Swift"].ReleaseCadence, 0.0)

	// Billie Eilish has no qualifying content: she stays ranked with zero
	// engagement rather than dropping out.
	assert.Equal(t, 0.0, byID["Billie Eilish"].AvgEngagementRate)

	require.NotEmpty(t, result.AgePerformance)
	require.NotEmpty(t, result.Genres)
	assert.Equal(t, "pop", result.Genres[0].PrimaryGenre)
}

func TestPipelineRunDeterministic(t *testing.T) {
	p := NewPipeline(nil, nil)

	first, err := p.Run(sampleArtistTables(), sampleContentTables())
	require.NoError(t, err)
	second, err := p.Run(sampleArtistTables(), sampleContentTables())
	require.NoError(t, err)

	require.Len(t, second.Artists, len(first.Artists))
	for i := range first.Artists {
		assert.Equal(t, first.Artists[i].ArtistID, second.Artists[i].ArtistID)
		assert.Equal(t, first.Artists[i].Rank, second.Artists[i].Rank)
		assert.Equal(t, first.Artists[i].PopularityIndex, second.Artists[i].PopularityIndex)
	}
	assert.Equal(t, first.Genres, second.Genres)
	assert.Equal(t, first.AgePerformance, second.AgePerformance)
}

func TestPipelineRunNoUsableArtistTable(t *testing.T) {
	p := NewPipeline(nil, nil)

	orphan := snapshot.NewTable("orphan")
	orphan.Append(snapshot.Row{"name": "Drake", "views": "10"})

	_, err := p.Run([]*snapshot.Table{orphan}, nil)
	require.ErrorIs(t, err, schema.ErrNoArtistKey)
}

func TestPipelineRunReportsSkippedTables(t *testing.T) {
	p := NewPipeline(nil, nil)

	tables := sampleArtistTables()
	orphan := snapshot.NewTable("orphan")
	orphan.Append(snapshot.Row{"name": "Drake"})
	tables = append(tables, orphan)

	result, err := p.Run(tables, nil)
	require.NoError(t, err)
	assert.Contains(t, result.SkippedTables, "orphan")
	assert.Len(t, result.Artists, 3)
}

func TestPipelineRunRejectsBadWeights(t *testing.T) {
	p := NewPipeline(Weights{"spotify_streams": 1.0}, nil)

	_, err := p.Run(sampleArtistTables(), sampleContentTables())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "spotify_streams")
}

func TestPipelineRunNoContent(t *testing.T) {
	p := NewPipeline(nil, nil)

	result, err := p.Run(sampleArtistTables(), nil)
	require.NoError(t, err)
	require.Len(t, result.Artists, 3)
	for _, rec := range result.Artists {
		assert.Equal(t, 0.0, rec.AvgEngagementRate)
		assert.Equal(t, 0.0, rec.ReleaseCadence)
	}
	assert.Empty(t, result.AgePerformance)
	assert.False(t, result.ReferenceTime.IsZero())
}
