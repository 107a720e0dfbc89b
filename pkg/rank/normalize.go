package rank

import "github.com/popradar/popradar/pkg/snapshot"

// Normalize min-max scales each metric to [0,1] within the current snapshot
// and stores the result under Norm[metric] on a copy of the records.
//
// The degenerate-input policy is uniform for every metric the scorer
// consumes: an unrecognized metric, an all-zero column, or a constant column
// (max == min) yields 0.0 for all rows. No NaN or Inf ever appears.
func Normalize(records []snapshot.ArtistRecord, metrics []string) []snapshot.ArtistRecord {
	out := make([]snapshot.ArtistRecord, len(records))
	copy(out, records)
	for i := range out {
		norm := make(map[string]float64, len(metrics))
		for m, v := range out[i].Norm {
			norm[m] = v
		}
		out[i].Norm = norm
	}

	for _, metric := range metrics {
		min, max, ok := metricRange(out, metric)
		for i := range out {
			if !ok || max == min {
				out[i].Norm[metric] = 0.0
				continue
			}
			v, _ := out[i].MetricValue(metric)
			out[i].Norm[metric] = (v - min) / (max - min)
		}
	}
	return out
}

func metricRange(records []snapshot.ArtistRecord, metric string) (min, max float64, ok bool) {
	for i := range records {
		v, known := records[i].MetricValue(metric)
		if !known {
			return 0, 0, false
		}
		if i == 0 || v < min {
			min = v
		}
		if i == 0 || v > max {
			max = v
		}
		ok = true
	}
	return min, max, ok
}
