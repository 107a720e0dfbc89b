package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Artists  []ArtistSeed   `yaml:"artists"`
	Sources  SourcesConfig  `yaml:"sources"`
	Scoring  ScoringConfig  `yaml:"scoring"`
	Output   OutputConfig   `yaml:"output"`
	Server   ServerConfig   `yaml:"server"`
}

// DatabaseConfig configures SQLite storage.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// ArtistSeed identifies one tracked artist across platforms.
type ArtistSeed struct {
	Name      string `yaml:"name"`
	ChannelID string `yaml:"channel_id"` // YouTube channel; searched by name when empty
	Hashtag   string `yaml:"hashtag"`    // TikTok tag; derived from name when empty
	Genres    string `yaml:"genres"`     // comma separated, first token is the primary genre
}

// SourcesConfig holds configuration for all collectors.
type SourcesConfig struct {
	YouTube    YouTubeConfig    `yaml:"youtube"`
	YouTubeRSS YouTubeRSSConfig `yaml:"youtube_rss"`
	TikTok     TikTokConfig     `yaml:"tiktok"`
}

// YouTubeConfig for the YouTube Data API collector.
type YouTubeConfig struct {
	Enabled   bool   `yaml:"enabled"`
	APIKey    string `yaml:"api_key"`
	MaxVideos int    `yaml:"max_videos"`
}

// YouTubeRSSConfig for the keyless channel-uploads feed collector.
type YouTubeRSSConfig struct {
	Enabled bool `yaml:"enabled"`
}

// TikTokConfig for the hashtag page collector.
type TikTokConfig struct {
	Enabled bool `yaml:"enabled"`
	Retries int  `yaml:"retries"`
}

// ScoringConfig configures the popularity index.
type ScoringConfig struct {
	// Weights maps canonical metric names to their share of the index.
	// Empty means the default five-metric formula. Validated at startup,
	// before any scoring.
	Weights map[string]float64 `yaml:"weights"`
	// ContentTypes selects which content rows feed engagement and cadence
	// aggregates. Default: youtube_video.
	ContentTypes []string `yaml:"content_types"`
}

// OutputConfig configures where report CSVs are written.
type OutputConfig struct {
	Dir  string `yaml:"dir"`
	TopN int    `yaml:"top_n"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{Path: "./popradar.db"},
		Artists: []ArtistSeed{
			{Name: "Taylor Swift", Genres: "pop"},
			{Name: "Drake", Genres: "hip hop,rap"},
			{Name: "Olivia Rodrigo", Genres: "pop"},
			{Name: "Doja Cat", Genres: "pop,rap"},
			{Name: "Bad Bunny", Genres: "reggaeton,latin"},
			{Name: "The Weeknd", Genres: "r&b,pop"},
			{Name: "SZA", Genres: "r&b"},
			{Name: "Kendrick Lamar", Genres: "hip hop"},
			{Name: "Billie Eilish", Genres: "pop,alternative"},
			{Name: "Post Malone", Genres: "hip hop,pop"},
		},
		Sources: SourcesConfig{
			YouTube:    YouTubeConfig{Enabled: true, MaxVideos: 20},
			YouTubeRSS: YouTubeRSSConfig{Enabled: false},
			TikTok:     TikTokConfig{Enabled: true, Retries: 3},
		},
		Scoring: ScoringConfig{
			ContentTypes: []string{"youtube_video"},
		},
		Output: OutputConfig{Dir: "./results", TopN: 10},
		Server: ServerConfig{Port: 8080},
	}
}

// Load reads configuration from a YAML file and applies env var overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// applyEnvOverrides overrides config values with environment variables.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("POPRADAR_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("POPRADAR_OUTPUT_DIR"); v != "" {
		cfg.Output.Dir = v
	}
	if v := os.Getenv("YOUTUBE_API_KEY"); v != "" {
		cfg.Sources.YouTube.APIKey = v
	}
	if v := os.Getenv("POPRADAR_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
}
