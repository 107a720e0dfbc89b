package store

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id           TEXT PRIMARY KEY,
    collected_at DATETIME NOT NULL,
    note         TEXT NOT NULL DEFAULT '',
    analyzed     BOOLEAN NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_runs_collected_at ON runs(collected_at);

CREATE TABLE IF NOT EXISTS raw_tables (
    id      INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id  TEXT NOT NULL REFERENCES runs(id),
    name    TEXT NOT NULL,
    kind    TEXT NOT NULL,
    columns TEXT NOT NULL DEFAULT '[]',
    UNIQUE(run_id, name)
);

CREATE INDEX IF NOT EXISTS idx_raw_tables_run ON raw_tables(run_id);

CREATE TABLE IF NOT EXISTS raw_rows (
    id       INTEGER PRIMARY KEY AUTOINCREMENT,
    table_id INTEGER NOT NULL REFERENCES raw_tables(id),
    idx      INTEGER NOT NULL,
    row      TEXT NOT NULL DEFAULT '{}'
);

CREATE INDEX IF NOT EXISTS idx_raw_rows_table ON raw_rows(table_id);

CREATE TABLE IF NOT EXISTS rankings (
    id                  INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id              TEXT NOT NULL REFERENCES runs(id),
    rank                INTEGER NOT NULL,
    artist_id           TEXT NOT NULL,
    name                TEXT NOT NULL,
    popularity_index    REAL NOT NULL DEFAULT 0,
    score_100           REAL NOT NULL DEFAULT 0,
    primary_genre       TEXT NOT NULL DEFAULT 'Unknown',
    genres              TEXT NOT NULL DEFAULT '',
    avg_engagement_rate REAL NOT NULL DEFAULT 0,
    videos_per_month    REAL NOT NULL DEFAULT 0,
    youtube_subscribers INTEGER NOT NULL DEFAULT 0,
    youtube_total_views INTEGER NOT NULL DEFAULT 0,
    youtube_video_count INTEGER NOT NULL DEFAULT 0,
    tiktok_views        INTEGER NOT NULL DEFAULT 0,
    tiktok_post_count   INTEGER NOT NULL DEFAULT 0,
    norms               TEXT NOT NULL DEFAULT '{}',
    UNIQUE(run_id, artist_id)
);

CREATE INDEX IF NOT EXISTS idx_rankings_run ON rankings(run_id);

CREATE TABLE IF NOT EXISTS age_performance (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id         TEXT NOT NULL REFERENCES runs(id),
    artist_id      TEXT NOT NULL,
    age_category   TEXT NOT NULL,
    avg_views      REAL NOT NULL DEFAULT 0,
    avg_engagement REAL NOT NULL DEFAULT 0,
    item_count     INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_age_performance_run ON age_performance(run_id);

CREATE TABLE IF NOT EXISTS genre_summaries (
    id                    INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id                TEXT NOT NULL REFERENCES runs(id),
    primary_genre         TEXT NOT NULL,
    avg_popularity_index  REAL NOT NULL DEFAULT 0,
    avg_norm_subscribers  REAL NOT NULL DEFAULT 0,
    avg_norm_tiktok_views REAL NOT NULL DEFAULT 0,
    artist_count          INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_genre_summaries_run ON genre_summaries(run_id);
`
