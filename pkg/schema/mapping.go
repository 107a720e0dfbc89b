package schema

// Platform snapshots name the same field differently from capture to
// capture. Each canonical field maps to an ordered list of accepted source
// column names; the first one present in a table wins. Resolution happens
// once per dataset so scoring logic never touches raw column names.

// Canonical artist-level fields.
const (
	FieldArtistKey    = "artist_key"
	FieldYTSubs       = "youtube_subscribers"
	FieldYTViews      = "youtube_total_views"
	FieldYTVideoCount = "youtube_video_count"
	FieldTikTokViews  = "tiktok_views"
	FieldTikTokPosts  = "tiktok_post_count"
	FieldGenres       = "genres"
	FieldCollectedAt  = "collection_timestamp"
)

// Canonical content-level fields.
const (
	FieldContentID    = "content_id"
	FieldTitle        = "title"
	FieldContentType  = "content_type"
	FieldPublishedAt  = "published_at"
	FieldViews        = "views"
	FieldLikes        = "likes"
	FieldComments     = "comments"
	FieldSentimentPos = "sentiment_positive"
	FieldSentimentNeg = "sentiment_negative"
	FieldSentimentNeu = "sentiment_neutral"
)

var artistKeyCandidates = []string{"artist_name", "artist_id", "artist"}

var artistColumns = map[string][]string{
	FieldYTSubs:       {"yt_subscribers", "subscriber_count", "channel_subscribers", "subscribers", "youtube_subs"},
	FieldYTViews:      {"yt_total_views", "youtube_total_views", "channel_view_count", "total_views", "view_count"},
	FieldYTVideoCount: {"yt_video_count", "youtube_video_count", "video_count"},
	FieldTikTokViews:  {"tiktok_views", "tiktok_total_views", "tk_views"},
	FieldTikTokPosts:  {"tiktok_post_count", "tiktok_video_count", "tiktok_videos", "tk_video_count"},
	FieldGenres:       {"genres", "genre", "primary_genre"},
	FieldCollectedAt:  {"collection_timestamp", "collected_at", "snapshot_time"},
}

var contentColumns = map[string][]string{
	FieldContentID:    {"video_id", "content_id", "track_id", "id"},
	FieldTitle:        {"title", "video_title", "name"},
	FieldContentType:  {"data_type", "content_type", "type"},
	FieldPublishedAt:  {"published_at", "release_date", "publish_time"},
	FieldViews:        {"view_count", "views", "yt_view_count"},
	FieldLikes:        {"like_count", "likes", "yt_like_count"},
	FieldComments:     {"comment_count", "comments", "yt_comment_count"},
	FieldSentimentPos: {"sentiment_positive_ratio", "sentiment_positive", "pos_sentiment"},
	FieldSentimentNeg: {"sentiment_negative_ratio", "sentiment_negative", "neg_sentiment"},
	FieldSentimentNeu: {"sentiment_neutral_ratio", "sentiment_neutral", "neu_sentiment"},
	FieldCollectedAt:  {"collection_timestamp", "collected_at", "snapshot_time"},
}
