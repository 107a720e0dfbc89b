package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "./popradar.db", cfg.Database.Path)
	assert.Equal(t, "./results", cfg.Output.Dir)
	assert.Equal(t, 10, cfg.Output.TopN)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.NotEmpty(t, cfg.Artists)
	assert.True(t, cfg.Sources.YouTube.Enabled)
	assert.Equal(t, []string{"youtube_video"}, cfg.Scoring.ContentTypes)
	assert.Empty(t, cfg.Scoring.Weights)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
database:
  path: /tmp/test.db
artists:
  - name: Mitski
    genres: indie
scoring:
  weights:
    youtube_total_views: 0.55
    tiktok_views: 0.45
server:
  port: 9090
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/test.db", cfg.Database.Path)
	assert.Equal(t, 9090, cfg.Server.Port)
	require.Len(t, cfg.Artists, 1)
	assert.Equal(t, "Mitski", cfg.Artists[0].Name)

	assert.Equal(t, 0.55, cfg.Scoring.Weights["youtube_total_views"])
	assert.Equal(t, 0.45, cfg.Scoring.Weights["tiktok_views"])

	// Untouched sections keep their defaults.
	assert.Equal(t, "./results", cfg.Output.Dir)
	assert.Equal(t, 20, cfg.Sources.YouTube.MaxVideos)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("artists: {not: [a, list"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("POPRADAR_DB_PATH", "/tmp/env.db")
	t.Setenv("POPRADAR_OUTPUT_DIR", "/tmp/out")
	t.Setenv("YOUTUBE_API_KEY", "secret")
	t.Setenv("POPRADAR_PORT", "7070")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "/tmp/env.db", cfg.Database.Path)
	assert.Equal(t, "/tmp/out", cfg.Output.Dir)
	assert.Equal(t, "secret", cfg.Sources.YouTube.APIKey)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestEnvOverrideBadPortIgnored(t *testing.T) {
	t.Setenv("POPRADAR_PORT", "not-a-port")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}
