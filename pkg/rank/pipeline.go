package rank

import (
	"fmt"
	"time"

	"github.com/popradar/popradar/pkg/schema"
	"github.com/popradar/popradar/pkg/snapshot"
)

// Pipeline runs the full analysis over one snapshot: schema reconciliation,
// engagement aggregation, temporal features, normalization, scoring and the
// genre rollup. Each stage consumes its input fully and produces a new
// derived value; nothing is mutated in place and reruns on identical input
// yield identical output.
type Pipeline struct {
	weights      Weights
	contentTypes []string
	now          func() time.Time
}

// NewPipeline creates a pipeline. Empty weights fall back to the default
// five-metric formula; empty content types default to YouTube videos.
func NewPipeline(weights Weights, contentTypes []string) *Pipeline {
	if len(weights) == 0 {
		weights = DefaultWeights()
	}
	if len(contentTypes) == 0 {
		contentTypes = []string{"youtube_video"}
	}
	return &Pipeline{
		weights:      weights,
		contentTypes: contentTypes,
		now:          time.Now,
	}
}

// Result holds every derived table of one analysis run.
type Result struct {
	Artists        []snapshot.ArtistRecord
	Content        []snapshot.ContentItem
	AgePerformance []snapshot.AgePerformance
	Genres         []snapshot.GenreSummary

	// SkippedTables lists input datasets whose artist key could not be
	// resolved and that were therefore left out of the run.
	SkippedTables []string
	ReferenceTime time.Time
}

// Run executes the pipeline over raw artist-level and content-level tables.
// A weight misconfiguration fails here, before any score is computed. A run
// with no resolvable artist table fails with schema.ErrNoArtistKey.
func (p *Pipeline) Run(artistTables, contentTables []*snapshot.Table) (*Result, error) {
	if err := p.weights.Validate(snapshot.AllMetrics()); err != nil {
		return nil, err
	}

	records, skippedArtists, err := schema.ReconcileArtists(artistTables...)
	if err != nil {
		return nil, err
	}
	items, skippedContent := schema.ReconcileContent(contentTables...)

	ref := ReferenceTime(items, p.now)
	items = AssignAgeBuckets(items, ref)

	qualified := QualifyContent(items, p.contentTypes)
	records = AggregateEngagement(records, qualified)
	records = WithCadence(records, qualified)

	records = Normalize(records, snapshot.AllMetrics())
	records, err = Score(records, p.weights)
	if err != nil {
		return nil, fmt.Errorf("score artists: %w", err)
	}

	return &Result{
		Artists:        records,
		Content:        items,
		AgePerformance: AgePerformanceTable(qualified),
		Genres:         GenreRollup(records),
		SkippedTables:  append(skippedArtists, skippedContent...),
		ReferenceTime:  ref,
	}, nil
}
