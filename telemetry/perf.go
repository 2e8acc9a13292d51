package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for a single report run.
const (
	PhaseConfig    = "config"
	PhaseCatalog   = "catalog"
	PhaseInventory = "inventory"
	PhaseCompute   = "compute"
	PhaseOutput    = "output"
)

// PerfCollector times the phases of a run. Phases may repeat; their
// durations accumulate.
type PerfCollector struct {
	runStart   time.Time
	phaseStart time.Time
	lastPhase  string
	order      []string
	phases     map[string]time.Duration
	total      time.Duration

	now func() time.Time
}

// NewPerfCollector creates a collector and starts the run clock.
func NewPerfCollector() *PerfCollector {
	p := &PerfCollector{
		phases: make(map[string]time.Duration),
		now:    time.Now,
	}
	p.runStart = p.now()
	return p
}

// StartPhase ends the current phase, if any, and begins timing phase.
func (p *PerfCollector) StartPhase(phase string) {
	now := p.now()
	p.closePhase(now)
	if _, seen := p.phases[phase]; !seen {
		p.order = append(p.order, phase)
		p.phases[phase] = 0
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// End finishes the current phase and stops the run clock.
func (p *PerfCollector) End() {
	now := p.now()
	p.closePhase(now)
	p.total = now.Sub(p.runStart)
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.lastPhase != "" {
		p.phases[p.lastPhase] += now.Sub(p.phaseStart)
		p.lastPhase = ""
	}
}

// PerfStats holds the phase breakdown of a finished run.
type PerfStats struct {
	Total    time.Duration
	Order    []string
	PhaseDur map[string]time.Duration
	PhasePct map[string]float64
}

// Stats returns the breakdown. Call End first.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{
		Total:    p.total,
		Order:    append([]string(nil), p.order...),
		PhaseDur: make(map[string]time.Duration, len(p.phases)),
		PhasePct: make(map[string]float64, len(p.phases)),
	}
	for phase, d := range p.phases {
		s.PhaseDur[phase] = d
		if p.total > 0 {
			s.PhasePct[phase] = float64(d) / float64(p.total) * 100
		}
	}
	return s
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{slog.Int64("total_us", s.Total.Microseconds())}
	for _, phase := range s.Order {
		attrs = append(attrs,
			slog.Int64(phase+"_us", s.PhaseDur[phase].Microseconds()),
			slog.Float64(phase+"_pct", s.PhasePct[phase]),
		)
	}
	return slog.GroupValue(attrs...)
}
