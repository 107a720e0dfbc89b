package schema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/popradar/popradar/pkg/snapshot"
)

// ErrNoArtistKey is returned when none of the accepted artist identifier
// columns exist in a dataset. The affected dataset cannot be processed.
var ErrNoArtistKey = errors.New("no artist identifier column found")

// ResolveColumn returns the first candidate column present in the table.
func ResolveColumn(t *snapshot.Table, candidates []string) (string, bool) {
	for _, c := range candidates {
		if t.HasColumn(c) {
			return c, true
		}
	}
	return "", false
}

// ArtistKeyColumn determines the artist identifier column for a table,
// trying artist_name, artist_id and artist in order.
func ArtistKeyColumn(t *snapshot.Table) (string, error) {
	if col, ok := ResolveColumn(t, artistKeyCandidates); ok {
		return col, nil
	}
	return "", fmt.Errorf("table %s: %w", t.Name, ErrNoArtistKey)
}

// ReconcileArtists merges heterogeneous per-platform artist tables into one
// canonical record per artist. Merging is an outer join on the artist key:
// rows missing from one platform keep the other platform's metrics at 0 and
// are never dropped. Records come back in first-appearance order, which is
// the deterministic tie-break order for ranking.
//
// Tables lacking an artist key column are skipped and reported in the second
// return value; ErrNoArtistKey is returned only when no table is usable.
func ReconcileArtists(tables ...*snapshot.Table) ([]snapshot.ArtistRecord, []string, error) {
	byID := make(map[string]*snapshot.ArtistRecord)
	var order []string
	var skipped []string
	usable := 0

	for _, t := range tables {
		keyCol, err := ArtistKeyColumn(t)
		if err != nil {
			skipped = append(skipped, t.Name)
			continue
		}
		usable++

		cols := make(map[string]string, len(artistColumns))
		for field, candidates := range artistColumns {
			if col, ok := ResolveColumn(t, candidates); ok {
				cols[field] = col
			}
		}

		for _, row := range t.Rows {
			key := strings.TrimSpace(row[keyCol])
			if key == "" {
				continue
			}

			rec, ok := byID[key]
			if !ok {
				rec = &snapshot.ArtistRecord{
					ArtistID:     key,
					Name:         key,
					PrimaryGenre: snapshot.GenreUnknown,
				}
				byID[key] = rec
				order = append(order, key)
			}
			applyArtistRow(rec, row, cols)
		}
	}

	if usable == 0 {
		return nil, skipped, fmt.Errorf("reconcile artists: %w", ErrNoArtistKey)
	}

	records := make([]snapshot.ArtistRecord, 0, len(order))
	for _, id := range order {
		records = append(records, *byID[id])
	}
	return records, skipped, nil
}

// applyArtistRow copies the resolved columns of one raw row onto a record.
// Only non-empty cells overwrite, so a platform that lacks a field never
// clobbers another platform's value.
func applyArtistRow(rec *snapshot.ArtistRecord, row snapshot.Row, cols map[string]string) {
	setCount := func(field string, dst *int64) {
		col, ok := cols[field]
		if !ok {
			return
		}
		if raw := strings.TrimSpace(row[col]); raw != "" {
			*dst = snapshot.ParseCount(raw)
		}
	}

	setCount(FieldYTSubs, &rec.YouTubeSubscribers)
	setCount(FieldYTViews, &rec.YouTubeTotalViews)
	setCount(FieldYTVideoCount, &rec.YouTubeVideoCount)
	setCount(FieldTikTokViews, &rec.TikTokViews)
	setCount(FieldTikTokPosts, &rec.TikTokPostCount)

	if col, ok := cols[FieldGenres]; ok && rec.Genres == "" {
		if raw := strings.TrimSpace(row[col]); raw != "" {
			rec.Genres = raw
			rec.PrimaryGenre = PrimaryGenre(raw)
		}
	}
	if col, ok := cols[FieldCollectedAt]; ok && rec.CollectedAt.IsZero() {
		if ts := snapshot.ParseTime(row[col]); ts != nil {
			rec.CollectedAt = *ts
		}
	}
}

// ReconcileContent converts raw content tables into canonical items. Each
// table needs its own artist key; tables without one are skipped. Duplicate
// (artist, content id) pairs across tables keep the first occurrence, so a
// video reported by both the API and an RSS feed counts once.
func ReconcileContent(tables ...*snapshot.Table) ([]snapshot.ContentItem, []string) {
	var items []snapshot.ContentItem
	var skipped []string
	seen := make(map[string]bool)

	for _, t := range tables {
		keyCol, err := ArtistKeyColumn(t)
		if err != nil {
			skipped = append(skipped, t.Name)
			continue
		}

		cols := make(map[string]string, len(contentColumns))
		for field, candidates := range contentColumns {
			if col, ok := ResolveColumn(t, candidates); ok {
				cols[field] = col
			}
		}

		for _, row := range t.Rows {
			artist := strings.TrimSpace(row[keyCol])
			if artist == "" {
				continue
			}

			item := snapshot.ContentItem{
				ArtistID:  artist,
				AgeBucket: snapshot.AgeUnknown,
			}
			get := func(field string) string {
				if col, ok := cols[field]; ok {
					return strings.TrimSpace(row[col])
				}
				return ""
			}

			item.ContentID = get(FieldContentID)
			item.Title = get(FieldTitle)
			item.ContentType = get(FieldContentType)
			item.Views = snapshot.ParseCount(get(FieldViews))
			item.Likes = snapshot.ParseCount(get(FieldLikes))
			item.Comments = snapshot.ParseCount(get(FieldComments))
			item.SentimentPos = snapshot.ParseNumber(get(FieldSentimentPos))
			item.SentimentNeg = snapshot.ParseNumber(get(FieldSentimentNeg))
			item.SentimentNeu = snapshot.ParseNumber(get(FieldSentimentNeu))

			if ts := snapshot.ParseTime(get(FieldPublishedAt)); ts != nil {
				item.PublishedAt = ts
			}
			if ts := snapshot.ParseTime(get(FieldCollectedAt)); ts != nil {
				item.CollectedAt = *ts
			}

			// Engagement rate is always defined: 0 when there are no views.
			if item.Views > 0 {
				item.EngagementRate = float64(item.Likes+item.Comments) / float64(item.Views)
			}

			if item.ContentID != "" {
				dedup := artist + "\x00" + item.ContentID
				if seen[dedup] {
					continue
				}
				seen[dedup] = true
			}
			items = append(items, item)
		}
	}
	return items, skipped
}

// PrimaryGenre reduces a possibly multi-valued genre field to its first
// token, or Unknown when empty.
func PrimaryGenre(genres string) string {
	first, _, _ := strings.Cut(genres, ",")
	first = strings.TrimSpace(first)
	if first == "" {
		return snapshot.GenreUnknown
	}
	return first
}
