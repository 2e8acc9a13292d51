package stats

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WalkSummary describes how far the player must walk to unlock the next
// evolution of species that cannot evolve yet.
type WalkSummary struct {
	Pending int // Rows that are not ignored and cannot evolve
	Mean    float64
	P50     float64
	P90     float64
	Max     int
}

// LogValue implements slog.LogValuer for structured logging.
func (w WalkSummary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("pending", w.Pending),
		slog.Float64("mean", w.Mean),
		slog.Float64("p50", w.P50),
		slog.Float64("p90", w.P90),
		slog.Int("max", w.Max),
	)
}

// SummarizeWalk calculates mean and percentiles of MissingDistance over
// rows still waiting on candies. Rows whose family has no walk distance
// are skipped. Returns the zero value if nothing is pending.
func SummarizeWalk(rows []Row) WalkSummary {
	var distances []float64
	maxDist := 0
	for _, r := range rows {
		if r.Ignored || r.CanEvolve > 0 || r.Species.WalkDistance == 0 {
			continue
		}
		distances = append(distances, float64(r.MissingDistance))
		maxDist = max(maxDist, r.MissingDistance)
	}
	if len(distances) == 0 {
		return WalkSummary{}
	}

	sort.Float64s(distances)

	return WalkSummary{
		Pending: len(distances),
		Mean:    stat.Mean(distances, nil),
		P50:     stat.Quantile(0.5, stat.Empirical, distances, nil),
		P90:     stat.Quantile(0.9, stat.Empirical, distances, nil),
		Max:     maxDist,
	}
}
