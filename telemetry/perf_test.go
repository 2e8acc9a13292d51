package telemetry

import (
	"log/slog"
	"testing"
	"time"
)

// fakeClock advances by step on every reading.
func fakeClock(step time.Duration) func() time.Time {
	t := time.Unix(0, 0)
	return func() time.Time {
		t = t.Add(step)
		return t
	}
}

func TestPerfCollector_Phases(t *testing.T) {
	pc := NewPerfCollector()
	pc.now = fakeClock(time.Millisecond)
	pc.runStart = time.Unix(0, 0)

	pc.StartPhase(PhaseCatalog)   // t=1
	pc.StartPhase(PhaseInventory) // t=2
	pc.StartPhase(PhaseCatalog)   // t=3
	pc.End()                      // t=4

	stats := pc.Stats()

	if stats.Total != 4*time.Millisecond {
		t.Errorf("Total = %v, want 4ms", stats.Total)
	}
	if got := stats.PhaseDur[PhaseCatalog]; got != 2*time.Millisecond {
		t.Errorf("catalog = %v, want 2ms (accumulated)", got)
	}
	if got := stats.PhaseDur[PhaseInventory]; got != time.Millisecond {
		t.Errorf("inventory = %v, want 1ms", got)
	}
	if len(stats.Order) != 2 || stats.Order[0] != PhaseCatalog || stats.Order[1] != PhaseInventory {
		t.Errorf("Order = %v, want first-seen order", stats.Order)
	}
	if pct := stats.PhasePct[PhaseCatalog]; pct != 50 {
		t.Errorf("catalog pct = %v, want 50", pct)
	}
}

func TestPerfCollector_NoPhases(t *testing.T) {
	pc := NewPerfCollector()
	pc.End()

	stats := pc.Stats()
	if len(stats.PhaseDur) != 0 || len(stats.Order) != 0 {
		t.Errorf("expected empty breakdown, got %+v", stats)
	}
}

func TestPerfStats_LogValue(t *testing.T) {
	s := PerfStats{
		Total:    3 * time.Millisecond,
		Order:    []string{PhaseCompute},
		PhaseDur: map[string]time.Duration{PhaseCompute: 2 * time.Millisecond},
		PhasePct: map[string]float64{PhaseCompute: 66.5},
	}

	v := s.LogValue()
	if v.Kind() != slog.KindGroup {
		t.Fatalf("Kind = %v, want group", v.Kind())
	}
	got := map[string]slog.Value{}
	for _, a := range v.Group() {
		got[a.Key] = a.Value
	}
	if got["total_us"].Int64() != 3000 || got["compute_us"].Int64() != 2000 {
		t.Errorf("attrs = %v", got)
	}
	if pct, ok := got["compute_pct"]; !ok || pct.Float64() != 66.5 {
		t.Errorf("compute_pct = %v, want 66.5", pct)
	}
}
