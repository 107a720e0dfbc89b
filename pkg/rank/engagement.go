package rank

import "github.com/popradar/popradar/pkg/snapshot"

// QualifyContent selects the content subset that feeds per-artist engagement,
// sentiment and cadence aggregates. Items declaring a content type must match
// one of the configured types; items without a type qualify when they carry
// views, which is how untyped legacy snapshots are detected as video rows.
func QualifyContent(items []snapshot.ContentItem, contentTypes []string) []snapshot.ContentItem {
	allowed := make(map[string]bool, len(contentTypes))
	for _, t := range contentTypes {
		allowed[t] = true
	}

	var qualified []snapshot.ContentItem
	for _, item := range items {
		if item.ContentType != "" {
			if allowed[item.ContentType] {
				qualified = append(qualified, item)
			}
			continue
		}
		if item.Views > 0 {
			qualified = append(qualified, item)
		}
	}
	return qualified
}

// AggregateEngagement rolls qualifying content up to per-artist mean
// engagement and mean sentiment ratios. Left-join semantics: every artist
// stays in the output, with 0.0 aggregates when no qualifying content exists.
func AggregateEngagement(records []snapshot.ArtistRecord, qualified []snapshot.ContentItem) []snapshot.ArtistRecord {
	type sums struct {
		engagement float64
		pos        float64
		neg        float64
		neu        float64
		n          int
	}
	byArtist := make(map[string]*sums)
	for _, item := range qualified {
		s := byArtist[item.ArtistID]
		if s == nil {
			s = &sums{}
			byArtist[item.ArtistID] = s
		}
		s.engagement += item.EngagementRate
		s.pos += item.SentimentPos
		s.neg += item.SentimentNeg
		s.neu += item.SentimentNeu
		s.n++
	}

	out := make([]snapshot.ArtistRecord, len(records))
	copy(out, records)
	for i := range out {
		s := byArtist[out[i].ArtistID]
		if s == nil || s.n == 0 {
			out[i].AvgEngagementRate = 0.0
			out[i].AvgSentimentPos = 0.0
			out[i].AvgSentimentNeg = 0.0
			out[i].AvgSentimentNeu = 0.0
			continue
		}
		n := float64(s.n)
		out[i].AvgEngagementRate = s.engagement / n
		out[i].AvgSentimentPos = s.pos / n
		out[i].AvgSentimentNeg = s.neg / n
		out[i].AvgSentimentNeu = s.neu / n
	}
	return out
}
