package rank

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/popradar/popradar/pkg/snapshot"
)

// weightSumTolerance absorbs float accumulation error when checking that
// configured weights sum to 1.0.
const weightSumTolerance = 1e-9

// Weights maps canonical metric names to their share of the popularity
// index. Entries must cover exactly the configured metric set and sum to 1.0.
type Weights map[string]float64

// DefaultWeights is the five-metric formula: engagement is the strongest
// signal, reach (views, subscribers) and viral activity split the rest.
func DefaultWeights() Weights {
	return Weights{
		snapshot.MetricAvgEngagementRate:  0.35,
		snapshot.MetricYouTubeTotalViews:  0.20,
		snapshot.MetricYouTubeSubscribers: 0.15,
		snapshot.MetricTikTokViews:        0.20,
		snapshot.MetricTikTokPostCount:    0.10,
	}
}

// Validate fails when a weight key is not a recognized metric or the weights
// do not sum to 1.0. A misconfigured key must never silently score as zero
// weight, so this surfaces before any score is computed. Weighting only a
// subset of the recognized metrics is allowed (the two-platform variant).
func (w Weights) Validate(metrics []string) error {
	if len(w) == 0 {
		return fmt.Errorf("scoring weights: none configured")
	}

	known := make(map[string]bool, len(metrics))
	for _, m := range metrics {
		known[m] = true
	}

	var unknown []string
	sum := 0.0
	for metric, weight := range w {
		if !known[metric] {
			unknown = append(unknown, metric)
		}
		if weight < 0 {
			return fmt.Errorf("scoring weights: %s is negative (%v)", metric, weight)
		}
		sum += weight
	}

	sort.Strings(unknown)
	if len(unknown) > 0 {
		return fmt.Errorf("scoring weights: unknown metrics %s", strings.Join(unknown, ", "))
	}
	if math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("scoring weights: sum is %v, want 1.0", sum)
	}
	return nil
}

// Metrics returns the weighted metric names in a fixed order.
func (w Weights) Metrics() []string {
	metrics := make([]string, 0, len(w))
	for m := range w {
		metrics = append(metrics, m)
	}
	sort.Strings(metrics)
	return metrics
}

// Score combines normalized metrics into the popularity index, derives the
// 0-100 display score and assigns 1-based ranks. The sort is stable over the
// reconciled input order, so ties keep first-appearance order and reruns on
// identical input produce identical ranks.
func Score(records []snapshot.ArtistRecord, weights Weights) ([]snapshot.ArtistRecord, error) {
	sum := 0.0
	for _, weight := range weights {
		sum += weight
	}
	if len(weights) == 0 || math.Abs(sum-1.0) > weightSumTolerance {
		return nil, fmt.Errorf("scoring weights: sum is %v, want 1.0", sum)
	}

	// Normalization fills every configured metric uniformly, so checking one
	// record catches a weight key with no normalized counterpart.
	if len(records) > 0 {
		var missing []string
		for metric := range weights {
			if _, ok := records[0].Norm[metric]; !ok {
				missing = append(missing, metric)
			}
		}
		if len(missing) > 0 {
			sort.Strings(missing)
			return nil, fmt.Errorf("scoring weights: no normalized values for %s", strings.Join(missing, ", "))
		}
	}

	out := make([]snapshot.ArtistRecord, len(records))
	copy(out, records)

	// Summation order is fixed so the accumulated index is bit-identical
	// across runs; map iteration order is not.
	metrics := weights.Metrics()
	for i := range out {
		index := 0.0
		for _, metric := range metrics {
			index += weights[metric] * out[i].Norm[metric]
		}
		// Weights sum to 1.0 only within float tolerance, so the
		// accumulated index can overshoot by an ulp.
		if index > 1.0 {
			index = 1.0
		}
		out[i].PopularityIndex = index
		out[i].Score100 = math.Round(index*100*100) / 100
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PopularityIndex > out[j].PopularityIndex
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out, nil
}
