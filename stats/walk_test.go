package stats

import (
	"math"
	"testing"

	"github.com/pthm-cable/evolvestats/catalog"
)

func pendingRow(missingDistance, walk int) Row {
	return Row{
		Species:         catalog.Species{EvolutionCost: 50, WalkDistance: walk},
		MissingDistance: missingDistance,
	}
}

func TestSummarizeWalk(t *testing.T) {
	rows := []Row{
		pendingRow(30, 3),
		pendingRow(10, 1),
		pendingRow(50, 5),
		pendingRow(20, 1),
		pendingRow(40, 1),
		// Excluded from the distribution
		{Species: catalog.Species{EvolutionCost: 12, WalkDistance: 1}, MissingDistance: 999, CanEvolve: 2},
		{Species: catalog.Species{EvolutionCost: 12, WalkDistance: 1}, MissingDistance: 999, Ignored: true},
		pendingRow(0, 0),
	}

	w := SummarizeWalk(rows)

	if w.Pending != 5 {
		t.Errorf("Pending = %d, want 5", w.Pending)
	}
	if math.Abs(w.Mean-30) > 0.001 {
		t.Errorf("Mean = %v, want 30", w.Mean)
	}
	if w.P50 != 30 {
		t.Errorf("P50 = %v, want 30", w.P50)
	}
	if w.P90 != 50 {
		t.Errorf("P90 = %v, want 50", w.P90)
	}
	if w.Max != 50 {
		t.Errorf("Max = %d, want 50", w.Max)
	}
}

func TestSummarizeWalkEmpty(t *testing.T) {
	if w := SummarizeWalk(nil); w != (WalkSummary{}) {
		t.Errorf("empty rows should return zero summary, got %+v", w)
	}

	allReady := []Row{{Species: catalog.Species{EvolutionCost: 12, WalkDistance: 1}, CanEvolve: 1}}
	if w := SummarizeWalk(allReady); w.Pending != 0 {
		t.Errorf("Pending = %d, want 0", w.Pending)
	}
}
