package rank

import (
	"math"
	"time"

	"github.com/popradar/popradar/pkg/snapshot"
)

// daysPerMonth is the mean Gregorian month length used for cadence spans.
const daysPerMonth = 30.4375

// ReferenceTime returns the earliest parsed collection timestamp in the
// content set, or now when none parsed. Ages are measured against it.
func ReferenceTime(items []snapshot.ContentItem, now func() time.Time) time.Time {
	var ref time.Time
	for _, item := range items {
		if item.CollectedAt.IsZero() {
			continue
		}
		if ref.IsZero() || item.CollectedAt.Before(ref) {
			ref = item.CollectedAt
		}
	}
	if ref.IsZero() {
		return now().UTC()
	}
	return ref
}

// AssignAgeBuckets computes age-in-days at the reference time and classifies
// every item into exactly one bucket. Items without a parsed publish
// timestamp get Unknown; future-dated items get Future, never a coerced age.
func AssignAgeBuckets(items []snapshot.ContentItem, ref time.Time) []snapshot.ContentItem {
	out := make([]snapshot.ContentItem, len(items))
	copy(out, items)
	for i := range out {
		if out[i].PublishedAt == nil {
			out[i].AgeDays = nil
			out[i].AgeBucket = snapshot.AgeUnknown
			continue
		}
		// Floor, not truncate: content published hours after the reference
		// must come out negative and land in Future, not age 0.
		days := int(math.Floor(ref.Sub(*out[i].PublishedAt).Hours() / 24))
		out[i].AgeDays = &days
		out[i].AgeBucket = bucketFor(days)
	}
	return out
}

func bucketFor(days int) snapshot.AgeBucket {
	switch {
	case days < 0:
		return snapshot.AgeFuture
	case days <= 30:
		return snapshot.Age0To1Month
	case days <= 90:
		return snapshot.Age1To3Months
	case days <= 365:
		return snapshot.Age3To12
	case days <= 3*365:
		return snapshot.Age1To3Years
	default:
		return snapshot.Age3Plus
	}
}

// WithCadence estimates the release rate (items per month) per artist from
// the publish timestamps of its qualifying content. Fewer than two dated
// items cannot imply a rate, so cadence stays 0.0; the one-month floor on
// the span keeps tight release clusters from blowing the ratio up.
func WithCadence(records []snapshot.ArtistRecord, qualified []snapshot.ContentItem) []snapshot.ArtistRecord {
	type span struct {
		earliest time.Time
		latest   time.Time
		dated    int
	}
	byArtist := make(map[string]*span)
	for _, item := range qualified {
		if item.PublishedAt == nil {
			continue
		}
		s := byArtist[item.ArtistID]
		if s == nil {
			s = &span{earliest: *item.PublishedAt, latest: *item.PublishedAt}
			byArtist[item.ArtistID] = s
		}
		if item.PublishedAt.Before(s.earliest) {
			s.earliest = *item.PublishedAt
		}
		if item.PublishedAt.After(s.latest) {
			s.latest = *item.PublishedAt
		}
		s.dated++
	}

	out := make([]snapshot.ArtistRecord, len(records))
	copy(out, records)
	for i := range out {
		s := byArtist[out[i].ArtistID]
		if s == nil || s.dated < 2 {
			out[i].ReleaseCadence = 0.0
			continue
		}
		spanMonths := s.latest.Sub(s.earliest).Hours() / 24 / daysPerMonth
		if spanMonths < 1.0 {
			spanMonths = 1.0
		}
		out[i].ReleaseCadence = float64(s.dated) / spanMonths
	}
	return out
}

// AgePerformanceTable aggregates mean views, mean engagement and item count
// per (artist, age bucket). Output order is deterministic: artists in first
// appearance order, buckets in reporting order.
func AgePerformanceTable(items []snapshot.ContentItem) []snapshot.AgePerformance {
	type cell struct {
		views      float64
		engagement float64
		n          int
	}
	cells := make(map[string]map[snapshot.AgeBucket]*cell)
	var artistOrder []string

	for _, item := range items {
		buckets, ok := cells[item.ArtistID]
		if !ok {
			buckets = make(map[snapshot.AgeBucket]*cell)
			cells[item.ArtistID] = buckets
			artistOrder = append(artistOrder, item.ArtistID)
		}
		c := buckets[item.AgeBucket]
		if c == nil {
			c = &cell{}
			buckets[item.AgeBucket] = c
		}
		c.views += float64(item.Views)
		c.engagement += item.EngagementRate
		c.n++
	}

	var out []snapshot.AgePerformance
	for _, artist := range artistOrder {
		for _, bucket := range snapshot.AgeBuckets() {
			c := cells[artist][bucket]
			if c == nil {
				continue
			}
			n := float64(c.n)
			out = append(out, snapshot.AgePerformance{
				ArtistID:      artist,
				AgeBucket:     bucket,
				AvgViews:      c.views / n,
				AvgEngagement: c.engagement / n,
				ItemCount:     c.n,
			})
		}
	}
	return out
}
