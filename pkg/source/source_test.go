package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArtistTag(t *testing.T) {
	for _, tc := range []struct {
		artist Artist
		want   string
	}{
		{Artist{Name: "Taylor Swift"}, "taylorswift"},
		{Artist{Name: "Doja Cat"}, "dojacat"},
		{Artist{Name: "SZA"}, "sza"},
		{Artist{Name: "blink-182"}, "blink182"},
		{Artist{Name: "The Weeknd", Hashtag: "theweeknd"}, "theweeknd"},
		{Artist{Name: "Olivia Rodrigo", Hashtag: "livies"}, "livies"},
	} {
		assert.Equal(t, tc.want, tc.artist.Tag(), tc.artist.Name)
	}
}

func TestJSONField(t *testing.T) {
	blob := `{"challengeInfo":{"statsV2":{"viewCount":"9000000000","videoCount":"120000"},"stats":{"viewCount":9000000000}}}`

	assert.Equal(t, "9000000000", jsonField(blob, `"viewCount":`))
	assert.Equal(t, "120000", jsonField(blob, `"videoCount":`))
	assert.Equal(t, "", jsonField(blob, `"followerCount":`))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abcdef", 3))
	assert.Equal(t, "ab", truncate("ab", 3))
}
