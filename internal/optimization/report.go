package optimization

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Summary condenses a run's trial distances for distribution analysis: as
// the qubit count grows, the spread of terminal distances across starts is
// often more informative than the best value alone.
type Summary struct {
	// Trials is the total trial count, failures included.
	Trials int
	// Failed is the number of failed trials.
	Failed int
	// Best is the minimum successful distance.
	Best float64
	// Mean and StdDev describe the successful distances.
	Mean   float64
	StdDev float64
	// Median is the empirical 0.5 quantile of successful distances.
	Median float64
}

// Summarize computes distribution statistics over a run's trials. With no
// successful trials only the counts are meaningful; the statistics are zero.
func Summarize(trials []TrialResult) Summary {
	summary := Summary{Trials: len(trials)}

	distances := make([]float64, 0, len(trials))
	for i := range trials {
		if trials[i].Failed() {
			summary.Failed++
			continue
		}
		distances = append(distances, trials[i].Distance)
	}
	if len(distances) == 0 {
		return summary
	}

	sort.Float64s(distances)
	summary.Best = distances[0]
	summary.Mean = stat.Mean(distances, nil)
	if len(distances) > 1 {
		summary.StdDev = stat.StdDev(distances, nil)
	}
	summary.Median = stat.Quantile(0.5, stat.Empirical, distances, nil)
	return summary
}
