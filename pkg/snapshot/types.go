package snapshot

import "time"

// Metric names are the canonical keys shared by the normalizer, the scorer
// weight configuration, and the output tables (as norm_<metric> columns).
const (
	MetricYouTubeSubscribers = "youtube_subscribers"
	MetricYouTubeTotalViews  = "youtube_total_views"
	MetricAvgEngagementRate  = "avg_engagement_rate"
	MetricTikTokViews        = "tiktok_views"
	MetricTikTokPostCount    = "tiktok_post_count"
)

// AllMetrics returns the canonical metric set in its fixed output order.
func AllMetrics() []string {
	return []string{
		MetricYouTubeSubscribers,
		MetricYouTubeTotalViews,
		MetricAvgEngagementRate,
		MetricTikTokViews,
		MetricTikTokPostCount,
	}
}

// GenreUnknown is the primary genre assigned when no genre data exists.
const GenreUnknown = "Unknown"

// ArtistRecord is the reconciled per-artist row for one snapshot.
type ArtistRecord struct {
	ArtistID string `json:"artist_id"`
	Name     string `json:"name"`

	YouTubeSubscribers int64 `json:"youtube_subscribers"`
	YouTubeTotalViews  int64 `json:"youtube_total_views"`
	YouTubeVideoCount  int64 `json:"youtube_video_count"`
	TikTokViews        int64 `json:"tiktok_views"`
	TikTokPostCount    int64 `json:"tiktok_post_count"`

	AvgEngagementRate float64 `json:"avg_engagement_rate"`
	AvgSentimentPos   float64 `json:"avg_sentiment_positive"`
	AvgSentimentNeg   float64 `json:"avg_sentiment_negative"`
	AvgSentimentNeu   float64 `json:"avg_sentiment_neutral"`

	// Norm holds the min-max normalized value for every configured metric.
	// Always populated (0.0 for missing or constant metrics).
	Norm map[string]float64 `json:"norm"`

	PopularityIndex float64 `json:"popularity_index"`
	Score100        float64 `json:"popularity_score_100"`
	Rank            int     `json:"rank"`

	ReleaseCadence float64 `json:"videos_per_month"`

	Genres       string    `json:"genres"`
	PrimaryGenre string    `json:"primary_genre"`
	CollectedAt  time.Time `json:"collected_at"`
}

// MetricValue returns the raw value behind a canonical metric name. The
// second return is false for unrecognized metrics, which the normalizer
// treats the same as an entirely missing column.
func (a *ArtistRecord) MetricValue(metric string) (float64, bool) {
	switch metric {
	case MetricYouTubeSubscribers:
		return float64(a.YouTubeSubscribers), true
	case MetricYouTubeTotalViews:
		return float64(a.YouTubeTotalViews), true
	case MetricAvgEngagementRate:
		return a.AvgEngagementRate, true
	case MetricTikTokViews:
		return float64(a.TikTokViews), true
	case MetricTikTokPostCount:
		return float64(a.TikTokPostCount), true
	}
	return 0, false
}

// AgeBucket classifies how old a content item was at collection time.
type AgeBucket string

const (
	AgeUnknown    AgeBucket = "Unknown"
	AgeFuture     AgeBucket = "Future"
	Age0To1Month  AgeBucket = "0-1 Month"
	Age1To3Months AgeBucket = "1-3 Months"
	Age3To12      AgeBucket = "3-12 Months"
	Age1To3Years  AgeBucket = "1-3 Years"
	Age3Plus      AgeBucket = "3+ Years"
)

// AgeBuckets returns every bucket in reporting order.
func AgeBuckets() []AgeBucket {
	return []AgeBucket{
		Age0To1Month, Age1To3Months, Age3To12,
		Age1To3Years, Age3Plus, AgeFuture, AgeUnknown,
	}
}

// ContentItem is one reconciled piece of content belonging to an artist.
type ContentItem struct {
	ArtistID    string     `json:"artist_id"`
	ContentID   string     `json:"content_id"`
	Title       string     `json:"title"`
	ContentType string     `json:"content_type"`
	PublishedAt *time.Time `json:"published_at,omitempty"`

	Views    int64 `json:"views"`
	Likes    int64 `json:"likes"`
	Comments int64 `json:"comments"`

	// EngagementRate is (likes+comments)/views, 0 when views is 0.
	EngagementRate float64 `json:"engagement_rate"`

	SentimentPos float64 `json:"sentiment_positive"`
	SentimentNeg float64 `json:"sentiment_negative"`
	SentimentNeu float64 `json:"sentiment_neutral"`

	AgeDays   *int      `json:"age_days,omitempty"`
	AgeBucket AgeBucket `json:"age_category"`

	CollectedAt time.Time `json:"collected_at"`
}

// AgePerformance summarizes content performance per (artist, age bucket).
// Descriptive only; it does not feed the popularity index.
type AgePerformance struct {
	ArtistID      string    `json:"artist_id"`
	AgeBucket     AgeBucket `json:"age_category"`
	AvgViews      float64   `json:"avg_views"`
	AvgEngagement float64   `json:"avg_engagement"`
	ItemCount     int       `json:"item_count"`
}

// GenreSummary aggregates scored artists by primary genre.
type GenreSummary struct {
	PrimaryGenre       string  `json:"primary_genre"`
	AvgPopularityIndex float64 `json:"avg_popularity_index"`
	AvgNormSubscribers float64 `json:"avg_norm_youtube_subscribers"`
	AvgNormTikTokViews float64 `json:"avg_norm_tiktok_views"`
	ArtistCount        int     `json:"artist_count"`
}
