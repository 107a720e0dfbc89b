package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/popradar/popradar/pkg/snapshot"
)

// YouTube collects channel statistics and recent video statistics for each
// tracked artist via the YouTube Data API v3.
type YouTube struct {
	client    *http.Client
	apiKey    string
	artists   []Artist
	maxVideos int
}

// NewYouTube creates a new YouTube collector.
func NewYouTube(apiKey string, artists []Artist, maxVideos int) *YouTube {
	if maxVideos <= 0 {
		maxVideos = 20
	}
	return &YouTube{
		client:    &http.Client{Timeout: 30 * time.Second},
		apiKey:    apiKey,
		artists:   artists,
		maxVideos: maxVideos,
	}
}

func (y *YouTube) Name() SourceType { return SourceYouTube }

// Collect returns an artist-level channel summary table and a content-level
// video statistics table. Artists whose channel cannot be resolved are
// skipped; the rest of the batch still completes.
func (y *YouTube) Collect(ctx context.Context) (*Dataset, error) {
	if y.apiKey == "" {
		return nil, fmt.Errorf("youtube: API key required (set YOUTUBE_API_KEY)")
	}

	now := time.Now().UTC().Format(time.RFC3339)
	artists := snapshot.NewTable("youtube_artists",
		"artist_name", "artist_id", "subscriber_count", "view_count",
		"video_count", "genres", "data_type", "collection_timestamp")
	content := snapshot.NewTable("youtube_content",
		"artist_name", "video_id", "title", "published_at", "view_count",
		"like_count", "comment_count", "data_type", "collection_timestamp")

	for _, artist := range y.artists {
		channelID := artist.ChannelID
		if channelID == "" {
			id, err := y.searchChannel(ctx, artist.Name)
			if err != nil {
				fmt.Fprintf(os.Stderr, "  youtube channel lookup %q: %v\n", artist.Name, err)
				continue
			}
			channelID = id
		}

		stats, err := y.channelStats(ctx, channelID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  youtube channel stats %q: %v\n", artist.Name, err)
			continue
		}
		artists.Append(snapshot.Row{
			"artist_name":          artist.Name,
			"artist_id":            channelID,
			"subscriber_count":     stats.Subscribers,
			"view_count":           stats.Views,
			"video_count":          stats.Videos,
			"genres":               artist.Genres,
			"data_type":            "youtube_channel_stats",
			"collection_timestamp": now,
		})

		videos, err := y.recentVideos(ctx, channelID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  youtube videos %q: %v\n", artist.Name, err)
			continue
		}
		for _, v := range videos {
			content.Append(snapshot.Row{
				"artist_name":          artist.Name,
				"video_id":             v.ID,
				"title":                truncate(v.Title, 200),
				"published_at":         v.PublishedAt,
				"view_count":           v.Views,
				"like_count":           v.Likes,
				"comment_count":        v.Comments,
				"data_type":            "youtube_video",
				"collection_timestamp": now,
			})
		}
	}

	return &Dataset{
		Artists: []*snapshot.Table{artists},
		Content: []*snapshot.Table{content},
	}, nil
}

// searchChannel resolves an artist name to their most relevant channel ID.
func (y *YouTube) searchChannel(ctx context.Context, name string) (string, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("q", name)
	params.Set("type", "channel")
	params.Set("maxResults", "1")
	params.Set("key", y.apiKey)

	var result ytSearchResult
	if err := y.getJSON(ctx, "https://www.googleapis.com/youtube/v3/search", params, &result); err != nil {
		return "", err
	}
	if len(result.Items) == 0 || result.Items[0].ID.ChannelID == "" {
		return "", fmt.Errorf("no channel found for %q", name)
	}
	return result.Items[0].ID.ChannelID, nil
}

type channelStats struct {
	Subscribers string
	Views       string
	Videos      string
}

func (y *YouTube) channelStats(ctx context.Context, channelID string) (*channelStats, error) {
	params := url.Values{}
	params.Set("part", "statistics")
	params.Set("id", channelID)
	params.Set("key", y.apiKey)

	var result ytChannelResult
	if err := y.getJSON(ctx, "https://www.googleapis.com/youtube/v3/channels", params, &result); err != nil {
		return nil, err
	}
	if len(result.Items) == 0 {
		return nil, fmt.Errorf("channel %s not found", channelID)
	}
	s := result.Items[0].Statistics
	return &channelStats{
		Subscribers: s.SubscriberCount,
		Views:       s.ViewCount,
		Videos:      s.VideoCount,
	}, nil
}

type video struct {
	ID          string
	Title       string
	PublishedAt string
	Views       string
	Likes       string
	Comments    string
}

// recentVideos lists the channel's latest uploads and batch-fetches their
// statistics (max 50 IDs per statistics request).
func (y *YouTube) recentVideos(ctx context.Context, channelID string) ([]video, error) {
	params := url.Values{}
	params.Set("part", "id,snippet")
	params.Set("channelId", channelID)
	params.Set("order", "date")
	params.Set("type", "video")
	params.Set("maxResults", fmt.Sprintf("%d", y.maxVideos))
	params.Set("key", y.apiKey)

	var search ytSearchResult
	if err := y.getJSON(ctx, "https://www.googleapis.com/youtube/v3/search", params, &search); err != nil {
		return nil, err
	}

	var videos []video
	index := make(map[string]int)
	for _, item := range search.Items {
		if item.ID.VideoID == "" {
			continue
		}
		index[item.ID.VideoID] = len(videos)
		videos = append(videos, video{
			ID:          item.ID.VideoID,
			Title:       item.Snippet.Title,
			PublishedAt: item.Snippet.PublishedAt,
		})
	}

	ids := make([]string, 0, len(videos))
	for _, v := range videos {
		ids = append(ids, v.ID)
	}
	for start := 0; start < len(ids); start += 50 {
		end := start + 50
		if end > len(ids) {
			end = len(ids)
		}

		params := url.Values{}
		params.Set("part", "statistics")
		params.Set("id", strings.Join(ids[start:end], ","))
		params.Set("key", y.apiKey)

		var stats ytVideoResult
		if err := y.getJSON(ctx, "https://www.googleapis.com/youtube/v3/videos", params, &stats); err != nil {
			return nil, err
		}
		for _, item := range stats.Items {
			if i, ok := index[item.ID]; ok {
				videos[i].Views = item.Statistics.ViewCount
				videos[i].Likes = item.Statistics.LikeCount
				videos[i].Comments = item.Statistics.CommentCount
			}
		}
	}

	return videos, nil
}

func (y *YouTube) getJSON(ctx context.Context, endpoint string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create youtube request: %w", err)
	}

	resp, err := y.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("youtube status %d from %s", resp.StatusCode, endpoint)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode youtube response: %w", err)
	}
	return nil
}

type ytSearchResult struct {
	Items []struct {
		ID struct {
			VideoID   string `json:"videoId"`
			ChannelID string `json:"channelId"`
		} `json:"id"`
		Snippet struct {
			Title       string `json:"title"`
			PublishedAt string `json:"publishedAt"`
		} `json:"snippet"`
	} `json:"items"`
}

type ytChannelResult struct {
	Items []struct {
		ID         string `json:"id"`
		Statistics struct {
			SubscriberCount string `json:"subscriberCount"`
			ViewCount       string `json:"viewCount"`
			VideoCount      string `json:"videoCount"`
		} `json:"statistics"`
	} `json:"items"`
}

type ytVideoResult struct {
	Items []struct {
		ID         string `json:"id"`
		Statistics struct {
			ViewCount    string `json:"viewCount"`
			LikeCount    string `json:"likeCount"`
			CommentCount string `json:"commentCount"`
		} `json:"statistics"`
	} `json:"items"`
}
