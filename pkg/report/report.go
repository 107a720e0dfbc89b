// Package report renders the derived tables for downstream consumers: flat
// CSV files with stable column names, and tabwriter summaries for the
// terminal. No analysis happens here.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	"github.com/popradar/popradar/pkg/rank"
	"github.com/popradar/popradar/pkg/snapshot"
)

// Output file names, stable across runs.
const (
	RankedArtistsFile  = "final_ranked_artists.csv"
	AgePerformanceFile = "age_performance.csv"
	GenreSummaryFile   = "genre_summary.csv"
)

// Writer writes report CSVs into one output directory.
type Writer struct {
	dir string
}

// NewWriter creates the output directory if needed.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir %s: %w", dir, err)
	}
	return &Writer{dir: dir}, nil
}

// WriteAll writes the ranked artist table, the age-performance table and the
// genre summary. Existing files are replaced (last writer wins).
func (w *Writer) WriteAll(res *rank.Result) error {
	if err := w.writeCSV(RankedArtistsFile, rankedHeader(), rankedRows(res.Artists)); err != nil {
		return err
	}
	if err := w.writeCSV(AgePerformanceFile,
		[]string{"artist_name", "age_category", "avg_views", "avg_engagement", "num_items"},
		agePerformanceRows(res.AgePerformance)); err != nil {
		return err
	}
	return w.writeCSV(GenreSummaryFile,
		[]string{"primary_genre", "avg_popularity_index", "avg_norm_youtube_subscribers", "avg_norm_tiktok_views", "num_artists"},
		genreRows(res.Genres))
}

func (w *Writer) writeCSV(name string, header []string, rows [][]string) error {
	path := filepath.Join(w.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write %s header: %w", name, err)
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write %s row: %w", name, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", name, err)
	}
	return nil
}

func rankedHeader() []string {
	header := []string{
		"rank", "artist_name", "popularity_score_100", "popularity_index",
		"primary_genre", "genres", "avg_engagement_rate", "videos_per_month",
		"youtube_subscribers", "youtube_total_views", "youtube_video_count",
		"tiktok_views", "tiktok_post_count",
	}
	for _, m := range snapshot.AllMetrics() {
		header = append(header, "norm_"+m)
	}
	return header
}

func rankedRows(records []snapshot.ArtistRecord) [][]string {
	rows := make([][]string, 0, len(records))
	for i := range records {
		a := &records[i]
		row := []string{
			strconv.Itoa(a.Rank),
			a.Name,
			snapshot.FormatNumber(a.Score100),
			snapshot.FormatNumber(a.PopularityIndex),
			a.PrimaryGenre,
			a.Genres,
			snapshot.FormatNumber(a.AvgEngagementRate),
			snapshot.FormatNumber(a.ReleaseCadence),
			strconv.FormatInt(a.YouTubeSubscribers, 10),
			strconv.FormatInt(a.YouTubeTotalViews, 10),
			strconv.FormatInt(a.YouTubeVideoCount, 10),
			strconv.FormatInt(a.TikTokViews, 10),
			strconv.FormatInt(a.TikTokPostCount, 10),
		}
		for _, m := range snapshot.AllMetrics() {
			row = append(row, snapshot.FormatNumber(a.Norm[m]))
		}
		rows = append(rows, row)
	}
	return rows
}

func agePerformanceRows(perf []snapshot.AgePerformance) [][]string {
	rows := make([][]string, 0, len(perf))
	for _, p := range perf {
		rows = append(rows, []string{
			p.ArtistID,
			string(p.AgeBucket),
			snapshot.FormatNumber(p.AvgViews),
			snapshot.FormatNumber(p.AvgEngagement),
			strconv.Itoa(p.ItemCount),
		})
	}
	return rows
}

func genreRows(genres []snapshot.GenreSummary) [][]string {
	rows := make([][]string, 0, len(genres))
	for _, g := range genres {
		rows = append(rows, []string{
			g.PrimaryGenre,
			snapshot.FormatNumber(g.AvgPopularityIndex),
			snapshot.FormatNumber(g.AvgNormSubscribers),
			snapshot.FormatNumber(g.AvgNormTikTokViews),
			strconv.Itoa(g.ArtistCount),
		})
	}
	return rows
}

// PrintTop writes a ranked top-N table to w.
func PrintTop(w io.Writer, records []snapshot.ArtistRecord, n int) error {
	if n <= 0 || n > len(records) {
		n = len(records)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tARTIST\tSCORE\tGENRE\tENGAGEMENT\tVIDEOS/MONTH")
	for _, a := range records[:n] {
		fmt.Fprintf(tw, "%d\t%s\t%.2f\t%s\t%.4f\t%.2f\n",
			a.Rank, a.Name, a.Score100, a.PrimaryGenre,
			a.AvgEngagementRate, a.ReleaseCadence)
	}
	return tw.Flush()
}

// PrintGenres writes the genre summary table to w.
func PrintGenres(w io.Writer, genres []snapshot.GenreSummary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "GENRE\tAVG INDEX\tARTISTS")
	for _, g := range genres {
		fmt.Fprintf(tw, "%s\t%.4f\t%d\n", g.PrimaryGenre, g.AvgPopularityIndex, g.ArtistCount)
	}
	return tw.Flush()
}
