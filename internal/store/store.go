package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/popradar/popradar/pkg/rank"
	"github.com/popradar/popradar/pkg/snapshot"
)

// ErrNoRuns is returned when no collection run exists yet.
var ErrNoRuns = errors.New("no collection runs stored")

// Raw table kinds.
const (
	KindArtists = "artists"
	KindContent = "content"
)

// Run is one collection of raw snapshot tables.
type Run struct {
	ID          string    `db:"id" json:"id"`
	CollectedAt time.Time `db:"collected_at" json:"collected_at"`
	Note        string    `db:"note" json:"note"`
	Analyzed    bool      `db:"analyzed" json:"analyzed"`
}

// Store is the persistence interface.
type Store interface {
	CreateRun(ctx context.Context, run *Run) error
	LatestRun(ctx context.Context) (*Run, error)

	SaveTable(ctx context.Context, runID, kind string, t *snapshot.Table) error
	LoadTables(ctx context.Context, runID, kind string) ([]*snapshot.Table, error)

	SaveResult(ctx context.Context, runID string, res *rank.Result) error
	Rankings(ctx context.Context, runID string) ([]snapshot.ArtistRecord, error)
	AgePerformance(ctx context.Context, runID string) ([]snapshot.AgePerformance, error)
	GenreSummaries(ctx context.Context, runID string) ([]snapshot.GenreSummary, error)

	Close() error
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sqlx.DB
}

// New opens a SQLite database and runs migrations.
func New(path string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateRun(ctx context.Context, run *Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, collected_at, note, analyzed)
		VALUES (?, ?, ?, ?)
	`, run.ID, run.CollectedAt, run.Note, run.Analyzed)
	if err != nil {
		return fmt.Errorf("create run %s: %w", run.ID, err)
	}
	return nil
}

func (s *SQLiteStore) LatestRun(ctx context.Context) (*Run, error) {
	var run Run
	err := s.db.GetContext(ctx, &run,
		"SELECT * FROM runs ORDER BY collected_at DESC, id DESC LIMIT 1")
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoRuns
	}
	if err != nil {
		return nil, fmt.Errorf("latest run: %w", err)
	}
	return &run, nil
}

func (s *SQLiteStore) SaveTable(ctx context.Context, runID, kind string, t *snapshot.Table) error {
	columnsJSON, _ := json.Marshal(t.Columns)

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO raw_tables (run_id, name, kind, columns)
		VALUES (?, ?, ?, ?)
	`, runID, t.Name, kind, string(columnsJSON))
	if err != nil {
		return fmt.Errorf("save table %s: %w", t.Name, err)
	}
	tableID, _ := res.LastInsertId()

	for i, row := range t.Rows {
		rowJSON, _ := json.Marshal(row)
		if _, err := s.db.ExecContext(ctx, `
			INSERT INTO raw_rows (table_id, idx, row) VALUES (?, ?, ?)
		`, tableID, i, string(rowJSON)); err != nil {
			return fmt.Errorf("save table %s row %d: %w", t.Name, i, err)
		}
	}
	return nil
}

func (s *SQLiteStore) LoadTables(ctx context.Context, runID, kind string) ([]*snapshot.Table, error) {
	type tableRow struct {
		ID      int64  `db:"id"`
		Name    string `db:"name"`
		Columns string `db:"columns"`
	}
	var metas []tableRow
	err := s.db.SelectContext(ctx, &metas,
		"SELECT id, name, columns FROM raw_tables WHERE run_id = ? AND kind = ? ORDER BY id",
		runID, kind)
	if err != nil {
		return nil, fmt.Errorf("load tables for run %s: %w", runID, err)
	}

	var tables []*snapshot.Table
	for _, meta := range metas {
		t := &snapshot.Table{Name: meta.Name}
		if err := json.Unmarshal([]byte(meta.Columns), &t.Columns); err != nil {
			return nil, fmt.Errorf("decode columns of %s: %w", meta.Name, err)
		}

		var rows []string
		err := s.db.SelectContext(ctx, &rows,
			"SELECT row FROM raw_rows WHERE table_id = ? ORDER BY idx", meta.ID)
		if err != nil {
			return nil, fmt.Errorf("load rows of %s: %w", meta.Name, err)
		}
		for _, raw := range rows {
			row := snapshot.Row{}
			if err := json.Unmarshal([]byte(raw), &row); err != nil {
				return nil, fmt.Errorf("decode row of %s: %w", meta.Name, err)
			}
			t.Rows = append(t.Rows, row)
		}
		tables = append(tables, t)
	}
	return tables, nil
}

// SaveResult replaces any previous derived tables for the run and marks it
// analyzed. Last writer wins; concurrent writers are not coordinated.
func (s *SQLiteStore) SaveResult(ctx context.Context, runID string, res *rank.Result) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save result for run %s: %w", runID, err)
	}
	defer tx.Rollback()

	for _, table := range []string{"rankings", "age_performance", "genre_summaries"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE run_id = ?", runID); err != nil {
			return fmt.Errorf("clear %s for run %s: %w", table, runID, err)
		}
	}

	for i := range res.Artists {
		a := &res.Artists[i]
		normsJSON, _ := json.Marshal(a.Norm)
		_, err := tx.ExecContext(ctx, `
			INSERT INTO rankings (run_id, rank, artist_id, name, popularity_index, score_100,
				primary_genre, genres, avg_engagement_rate, videos_per_month,
				youtube_subscribers, youtube_total_views, youtube_video_count,
				tiktok_views, tiktok_post_count, norms)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, runID, a.Rank, a.ArtistID, a.Name, a.PopularityIndex, a.Score100,
			a.PrimaryGenre, a.Genres, a.AvgEngagementRate, a.ReleaseCadence,
			a.YouTubeSubscribers, a.YouTubeTotalViews, a.YouTubeVideoCount,
			a.TikTokViews, a.TikTokPostCount, string(normsJSON))
		if err != nil {
			return fmt.Errorf("insert ranking %s: %w", a.ArtistID, err)
		}
	}

	for _, p := range res.AgePerformance {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO age_performance (run_id, artist_id, age_category, avg_views, avg_engagement, item_count)
			VALUES (?, ?, ?, ?, ?, ?)
		`, runID, p.ArtistID, string(p.AgeBucket), p.AvgViews, p.AvgEngagement, p.ItemCount)
		if err != nil {
			return fmt.Errorf("insert age performance %s/%s: %w", p.ArtistID, p.AgeBucket, err)
		}
	}

	for _, g := range res.Genres {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO genre_summaries (run_id, primary_genre, avg_popularity_index, avg_norm_subscribers, avg_norm_tiktok_views, artist_count)
			VALUES (?, ?, ?, ?, ?, ?)
		`, runID, g.PrimaryGenre, g.AvgPopularityIndex, g.AvgNormSubscribers, g.AvgNormTikTokViews, g.ArtistCount)
		if err != nil {
			return fmt.Errorf("insert genre summary %s: %w", g.PrimaryGenre, err)
		}
	}

	if _, err := tx.ExecContext(ctx, "UPDATE runs SET analyzed = 1 WHERE id = ?", runID); err != nil {
		return fmt.Errorf("mark run %s analyzed: %w", runID, err)
	}
	return tx.Commit()
}

type rankingRow struct {
	Rank               int     `db:"rank"`
	ArtistID           string  `db:"artist_id"`
	Name               string  `db:"name"`
	PopularityIndex    float64 `db:"popularity_index"`
	Score100           float64 `db:"score_100"`
	PrimaryGenre       string  `db:"primary_genre"`
	Genres             string  `db:"genres"`
	AvgEngagementRate  float64 `db:"avg_engagement_rate"`
	VideosPerMonth     float64 `db:"videos_per_month"`
	YouTubeSubscribers int64   `db:"youtube_subscribers"`
	YouTubeTotalViews  int64   `db:"youtube_total_views"`
	YouTubeVideoCount  int64   `db:"youtube_video_count"`
	TikTokViews        int64   `db:"tiktok_views"`
	TikTokPostCount    int64   `db:"tiktok_post_count"`
	Norms              string  `db:"norms"`
}

func (s *SQLiteStore) Rankings(ctx context.Context, runID string) ([]snapshot.ArtistRecord, error) {
	var rows []rankingRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT rank, artist_id, name, popularity_index, score_100, primary_genre, genres,
			avg_engagement_rate, videos_per_month, youtube_subscribers, youtube_total_views,
			youtube_video_count, tiktok_views, tiktok_post_count, norms
		FROM rankings WHERE run_id = ? ORDER BY rank
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("rankings for run %s: %w", runID, err)
	}

	records := make([]snapshot.ArtistRecord, 0, len(rows))
	for _, r := range rows {
		rec := snapshot.ArtistRecord{
			ArtistID:           r.ArtistID,
			Name:               r.Name,
			Rank:               r.Rank,
			PopularityIndex:    r.PopularityIndex,
			Score100:           r.Score100,
			PrimaryGenre:       r.PrimaryGenre,
			Genres:             r.Genres,
			AvgEngagementRate:  r.AvgEngagementRate,
			ReleaseCadence:     r.VideosPerMonth,
			YouTubeSubscribers: r.YouTubeSubscribers,
			YouTubeTotalViews:  r.YouTubeTotalViews,
			YouTubeVideoCount:  r.YouTubeVideoCount,
			TikTokViews:        r.TikTokViews,
			TikTokPostCount:    r.TikTokPostCount,
			Norm:               map[string]float64{},
		}
		if err := json.Unmarshal([]byte(r.Norms), &rec.Norm); err != nil {
			return nil, fmt.Errorf("decode norms for %s: %w", r.ArtistID, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *SQLiteStore) AgePerformance(ctx context.Context, runID string) ([]snapshot.AgePerformance, error) {
	type row struct {
		ArtistID      string  `db:"artist_id"`
		AgeCategory   string  `db:"age_category"`
		AvgViews      float64 `db:"avg_views"`
		AvgEngagement float64 `db:"avg_engagement"`
		ItemCount     int     `db:"item_count"`
	}
	var rows []row
	err := s.db.SelectContext(ctx, &rows, `
		SELECT artist_id, age_category, avg_views, avg_engagement, item_count
		FROM age_performance WHERE run_id = ? ORDER BY id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("age performance for run %s: %w", runID, err)
	}

	out := make([]snapshot.AgePerformance, 0, len(rows))
	for _, r := range rows {
		out = append(out, snapshot.AgePerformance{
			ArtistID:      r.ArtistID,
			AgeBucket:     snapshot.AgeBucket(r.AgeCategory),
			AvgViews:      r.AvgViews,
			AvgEngagement: r.AvgEngagement,
			ItemCount:     r.ItemCount,
		})
	}
	return out, nil
}

func (s *SQLiteStore) GenreSummaries(ctx context.Context, runID string) ([]snapshot.GenreSummary, error) {
	type row struct {
		PrimaryGenre       string  `db:"primary_genre"`
		AvgPopularityIndex float64 `db:"avg_popularity_index"`
		AvgNormSubscribers float64 `db:"avg_norm_subscribers"`
		AvgNormTikTokViews float64 `db:"avg_norm_tiktok_views"`
		ArtistCount        int     `db:"artist_count"`
	}
	var rows []row
	err := s.db.SelectContext(ctx, &rows, `
		SELECT primary_genre, avg_popularity_index, avg_norm_subscribers, avg_norm_tiktok_views, artist_count
		FROM genre_summaries WHERE run_id = ? ORDER BY id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("genre summaries for run %s: %w", runID, err)
	}

	out := make([]snapshot.GenreSummary, 0, len(rows))
	for _, r := range rows {
		out = append(out, snapshot.GenreSummary{
			PrimaryGenre:       r.PrimaryGenre,
			AvgPopularityIndex: r.AvgPopularityIndex,
			AvgNormSubscribers: r.AvgNormSubscribers,
			AvgNormTikTokViews: r.AvgNormTikTokViews,
			ArtistCount:        r.ArtistCount,
		})
	}
	return out, nil
}
