package rank

import "github.com/popradar/popradar/pkg/snapshot"

// GenreRollup aggregates scored artists by primary genre: mean popularity
// index, mean normalized reach metrics and artist count. Read-only summary;
// nothing feeds back into the per-artist records. Genres appear in the order
// their first artist ranks.
func GenreRollup(records []snapshot.ArtistRecord) []snapshot.GenreSummary {
	type agg struct {
		index float64
		subs  float64
		tt    float64
		n     int
	}
	byGenre := make(map[string]*agg)
	var order []string

	for i := range records {
		genre := records[i].PrimaryGenre
		if genre == "" {
			genre = snapshot.GenreUnknown
		}
		a := byGenre[genre]
		if a == nil {
			a = &agg{}
			byGenre[genre] = a
			order = append(order, genre)
		}
		a.index += records[i].PopularityIndex
		a.subs += records[i].Norm[snapshot.MetricYouTubeSubscribers]
		a.tt += records[i].Norm[snapshot.MetricTikTokViews]
		a.n++
	}

	out := make([]snapshot.GenreSummary, 0, len(order))
	for _, genre := range order {
		a := byGenre[genre]
		n := float64(a.n)
		out = append(out, snapshot.GenreSummary{
			PrimaryGenre:       genre,
			AvgPopularityIndex: a.index / n,
			AvgNormSubscribers: a.subs / n,
			AvgNormTikTokViews: a.tt / n,
			ArtistCount:        a.n,
		})
	}
	return out
}
