package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/popradar/popradar/internal/config"
	"github.com/popradar/popradar/internal/store"
	"github.com/popradar/popradar/pkg/rank"
	"github.com/popradar/popradar/pkg/report"
	"github.com/popradar/popradar/pkg/server"
	"github.com/popradar/popradar/pkg/snapshot"
	"github.com/popradar/popradar/pkg/source"
)

func loadConfig() (*config.Config, error) {
	_ = godotenv.Load()

	path := cfgFile
	if path == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

func seedArtists(cfg *config.Config) []source.Artist {
	artists := make([]source.Artist, 0, len(cfg.Artists))
	for _, seed := range cfg.Artists {
		artists = append(artists, source.Artist{
			Name:      seed.Name,
			ChannelID: seed.ChannelID,
			Hashtag:   seed.Hashtag,
			Genres:    seed.Genres,
		})
	}
	return artists
}

func buildSources(cfg *config.Config) []source.Source {
	artists := seedArtists(cfg)
	var sources []source.Source

	if cfg.Sources.YouTube.Enabled {
		sources = append(sources, source.NewYouTube(cfg.Sources.YouTube.APIKey, artists, cfg.Sources.YouTube.MaxVideos))
	}
	if cfg.Sources.YouTubeRSS.Enabled {
		sources = append(sources, source.NewYouTubeRSS(artists))
	}
	if cfg.Sources.TikTok.Enabled {
		sources = append(sources, source.NewTikTok(artists, cfg.Sources.TikTok.Retries))
	}

	return sources
}

func buildPipeline(cfg *config.Config) (*rank.Pipeline, error) {
	weights := rank.Weights(cfg.Scoring.Weights)
	if len(weights) == 0 {
		weights = rank.DefaultWeights()
	}
	// A misconfigured weight set must fail before any collection or scoring.
	if err := weights.Validate(snapshot.AllMetrics()); err != nil {
		return nil, err
	}
	return rank.NewPipeline(weights, cfg.Scoring.ContentTypes), nil
}

func runCollect(filterSources []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	allSources := buildSources(cfg)

	var sources []source.Source
	if len(filterSources) > 0 {
		wanted := make(map[string]bool)
		for _, s := range filterSources {
			wanted[strings.ToLower(strings.TrimSpace(s))] = true
		}
		for _, s := range allSources {
			if wanted[string(s.Name())] {
				sources = append(sources, s)
			}
		}
		if len(sources) == 0 {
			return fmt.Errorf("no matching sources for: %s", strings.Join(filterSources, ", "))
		}
	} else {
		sources = allSources
	}
	if len(sources) == 0 {
		return fmt.Errorf("no sources enabled")
	}

	ctx := context.Background()
	run := &store.Run{
		ID:          uuid.NewString(),
		CollectedAt: time.Now().UTC(),
		Note:        "collect",
	}
	if err := db.CreateRun(ctx, run); err != nil {
		return err
	}

	totalRows := 0
	for _, src := range sources {
		fmt.Fprintf(os.Stderr, "collecting from %s...\n", src.Name())
		dataset, err := src.Collect(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  error: %v\n", err)
			continue
		}

		for _, t := range dataset.Artists {
			if err := db.SaveTable(ctx, run.ID, store.KindArtists, t); err != nil {
				fmt.Fprintf(os.Stderr, "  store error: %v\n", err)
				continue
			}
			fmt.Fprintf(os.Stderr, "  %s: %d rows\n", t.Name, len(t.Rows))
			totalRows += len(t.Rows)
		}
		for _, t := range dataset.Content {
			if err := db.SaveTable(ctx, run.ID, store.KindContent, t); err != nil {
				fmt.Fprintf(os.Stderr, "  store error: %v\n", err)
				continue
			}
			fmt.Fprintf(os.Stderr, "  %s: %d rows\n", t.Name, len(t.Rows))
			totalRows += len(t.Rows)
		}
	}

	fmt.Fprintf(os.Stderr, "\nrun %s: %d rows from %d sources\n", run.ID, totalRows, len(sources))
	return nil
}

func runAnalyze(artistCSVs, contentCSVs []string, outDir string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	pipeline, err := buildPipeline(cfg)
	if err != nil {
		return err
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	var runID string
	var artistTables, contentTables []*snapshot.Table

	if len(artistCSVs) > 0 || len(contentCSVs) > 0 {
		for _, path := range artistCSVs {
			t, err := snapshot.LoadCSV(path)
			if err != nil {
				return err
			}
			artistTables = append(artistTables, t)
		}
		for _, path := range contentCSVs {
			t, err := snapshot.LoadCSV(path)
			if err != nil {
				return err
			}
			contentTables = append(contentTables, t)
		}

		// Imported snapshots become a run of their own so top and serve
		// work against them like any collected snapshot.
		run := &store.Run{ID: uuid.NewString(), CollectedAt: time.Now().UTC(), Note: "csv import"}
		if err := db.CreateRun(ctx, run); err != nil {
			return err
		}
		for _, t := range artistTables {
			if err := db.SaveTable(ctx, run.ID, store.KindArtists, t); err != nil {
				return err
			}
		}
		for _, t := range contentTables {
			if err := db.SaveTable(ctx, run.ID, store.KindContent, t); err != nil {
				return err
			}
		}
		runID = run.ID
	} else {
		run, err := db.LatestRun(ctx)
		if errors.Is(err, store.ErrNoRuns) {
			fmt.Fprintln(os.Stderr, "no snapshot available; run 'popradar collect' first")
			return nil
		}
		if err != nil {
			return err
		}
		runID = run.ID

		if artistTables, err = db.LoadTables(ctx, runID, store.KindArtists); err != nil {
			return err
		}
		if contentTables, err = db.LoadTables(ctx, runID, store.KindContent); err != nil {
			return err
		}
	}

	res, err := pipeline.Run(artistTables, contentTables)
	if err != nil {
		return err
	}
	for _, name := range res.SkippedTables {
		fmt.Fprintf(os.Stderr, "warning: skipped %s: no artist identifier column\n", name)
	}

	if err := db.SaveResult(ctx, runID, res); err != nil {
		return err
	}

	if outDir == "" {
		outDir = cfg.Output.Dir
	}
	writer, err := report.NewWriter(outDir)
	if err != nil {
		return err
	}
	if err := writer.WriteAll(res); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "wrote %s, %s, %s in %s\n",
		report.RankedArtistsFile, report.AgePerformanceFile, report.GenreSummaryFile, outDir)

	fmt.Println()
	if err := report.PrintTop(os.Stdout, res.Artists, cfg.Output.TopN); err != nil {
		return err
	}
	fmt.Println()
	return report.PrintGenres(os.Stdout, res.Genres)
}

func runTop(limit int, jsonOutput bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	ctx := context.Background()
	run, err := db.LatestRun(ctx)
	if errors.Is(err, store.ErrNoRuns) {
		fmt.Println("no snapshot collected yet (try: popradar collect)")
		return nil
	}
	if err != nil {
		return err
	}
	if !run.Analyzed {
		fmt.Println("latest snapshot not analyzed yet (try: popradar analyze)")
		return nil
	}

	records, err := db.Rankings(ctx, run.ID)
	if err != nil {
		return err
	}

	if jsonOutput {
		if limit > 0 && limit < len(records) {
			records = records[:limit]
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}
	return report.PrintTop(os.Stdout, records, limit)
}

func runServe(port int) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if port == 0 {
		port = cfg.Server.Port
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	srv := server.New(db, port)
	return srv.ListenAndServe()
}
