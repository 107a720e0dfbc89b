package source

import (
	"context"
	"strings"

	"github.com/popradar/popradar/pkg/snapshot"
)

// SourceType identifies which platform a snapshot table came from.
type SourceType string

const (
	SourceYouTube    SourceType = "youtube"
	SourceYouTubeRSS SourceType = "youtube_rss"
	SourceTikTok     SourceType = "tiktok"
)

// Artist is one tracked artist as seen by the collectors.
type Artist struct {
	Name      string
	ChannelID string
	Hashtag   string
	Genres    string
}

// Tag returns the TikTok hashtag for the artist, deriving one from the name
// when not configured (lowercased, spaces and punctuation stripped).
func (a Artist) Tag() string {
	if a.Hashtag != "" {
		return a.Hashtag
	}
	var b strings.Builder
	for _, r := range strings.ToLower(a.Name) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Dataset is what one collection pass produces: raw artist-level and
// content-level tables. Column names are whatever the platform uses and are
// reconciled downstream.
type Dataset struct {
	Artists []*snapshot.Table
	Content []*snapshot.Table
}

// Source is the interface every collector must implement.
type Source interface {
	Name() SourceType
	Collect(ctx context.Context) (*Dataset, error)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
