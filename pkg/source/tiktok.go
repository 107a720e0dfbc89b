package source

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/popradar/popradar/pkg/snapshot"
)

// TikTok collects hashtag aggregates (total views, total posts) from the
// public tag page for each tracked artist. The numbers sit in a JSON blob
// embedded in a script tag, so this scrapes rather than calls an API.
type TikTok struct {
	client  *http.Client
	artists []Artist
	retries int
	delay   time.Duration
}

// NewTikTok creates a new TikTok hashtag collector.
func NewTikTok(artists []Artist, retries int) *TikTok {
	if retries <= 0 {
		retries = 3
	}
	return &TikTok{
		client:  &http.Client{Timeout: 10 * time.Second},
		artists: artists,
		retries: retries,
		delay:   2 * time.Second,
	}
}

func (t *TikTok) Name() SourceType { return SourceTikTok }

// Collect returns one artist-level table with tiktok_views and
// tiktok_video_count columns. Tags that fail to scrape are skipped; the
// artist then shows up with zeroed TikTok metrics after reconciliation.
func (t *TikTok) Collect(ctx context.Context) (*Dataset, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	table := snapshot.NewTable("tiktok_artists",
		"artist", "hashtag", "tiktok_views", "tiktok_video_count", "collection_timestamp")

	for _, artist := range t.artists {
		tag := artist.Tag()
		views, posts, err := t.scrapeTag(ctx, tag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  tiktok #%s: %v\n", tag, err)
			continue
		}
		table.Append(snapshot.Row{
			"artist":               artist.Name,
			"hashtag":              tag,
			"tiktok_views":         views,
			"tiktok_video_count":   posts,
			"collection_timestamp": now,
		})
	}

	return &Dataset{Artists: []*snapshot.Table{table}}, nil
}

// scrapeTag fetches the tag page and pulls viewCount/videoCount out of the
// embedded state JSON. The page intermittently returns blank HTML, hence the
// retry loop.
func (t *TikTok) scrapeTag(ctx context.Context, tag string) (views, posts string, err error) {
	pageURL := fmt.Sprintf("https://www.tiktok.com/tag/%s", tag)

	for attempt := 0; attempt < t.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", "", ctx.Err()
			case <-time.After(t.delay):
			}
		}

		views, posts, err = t.fetchOnce(ctx, pageURL)
		if err == nil {
			return views, posts, nil
		}
	}
	return "", "", err
}

func (t *TikTok) fetchOnce(ctx context.Context, pageURL string) (string, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", "", fmt.Errorf("create tiktok request: %w", err)
	}
	req.Header.Set("User-Agent",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := t.client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("fetch tag page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("tag page status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", "", fmt.Errorf("parse tag page: %w", err)
	}

	var views, posts string
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		if !strings.Contains(text, `"viewCount"`) || !strings.Contains(text, `"videoCount"`) {
			return true
		}
		views = jsonField(text, `"viewCount":`)
		posts = jsonField(text, `"videoCount":`)
		return views == "" || posts == ""
	})

	if views == "" || posts == "" {
		return "", "", fmt.Errorf("tag stats not present in page")
	}
	return views, posts, nil
}

// jsonField extracts the raw value following a `"key":` marker in an inline
// JSON blob, up to the next comma or closing brace.
func jsonField(text, marker string) string {
	start := strings.Index(text, marker)
	if start < 0 {
		return ""
	}
	start += len(marker)
	end := start
	for end < len(text) && text[end] != ',' && text[end] != '}' {
		end++
	}
	return strings.Trim(strings.TrimSpace(text[start:end]), `"`)
}
