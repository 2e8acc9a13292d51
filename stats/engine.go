// Package stats computes evolution readiness for every species of a
// catalog from an inventory snapshot.
package stats

import (
	"log/slog"

	"github.com/pthm-cable/evolvestats/catalog"
	"github.com/pthm-cable/evolvestats/inventory"
)

// DefaultScorePerEvolution is the experience awarded for one evolution.
const DefaultScorePerEvolution = 500

// Options configures a Compute call.
type Options struct {
	// Exclude holds species ids that are never counted as evolvable.
	Exclude map[int]bool
	// ScorePerEvolution scales Score; zero means DefaultScorePerEvolution.
	ScorePerEvolution int
}

// Row holds the derived metrics of one species.
type Row struct {
	Species catalog.Species

	IsNew       bool // Species was never captured
	EvolveIsNew bool // Evolving would produce a never-captured species
	Ignored     bool // Excluded from evolution bookkeeping

	Candies         int // Family candy balance
	Count           int // Units held
	Missing         int // Candies short of the next full evolution
	MissingDistance int // Missing expressed as buddy walk distance
	CouldEvolve     int // Evolutions the candy balance pays for
	CanEvolve       int // Evolutions possible with held units, 0 when ignored
	Score           int
	Score2x         int // Score under a double experience bonus
}

// Summary aggregates the reported rows.
type Summary struct {
	NewAndEvolvable int // Never-captured species with at least one possible evolution
	TotalEvolvable  int // Sum of CanEvolve
	TotalScore      int
	Walk            WalkSummary
}

// LogValue implements slog.LogValuer for structured logging.
func (s Summary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("new", s.NewAndEvolvable),
		slog.Int("can_evolve", s.TotalEvolvable),
		slog.Int("score", s.TotalScore),
		slog.Any("walk", s.Walk),
	)
}

// Result is the output of Compute.
type Result struct {
	Rows    []Row
	Summary Summary
}

// Compute derives one Row per evolving species, in catalog order, and the
// summary over those rows. It does not modify its inputs; nil catalog or
// inventory behave as empty.
func Compute(cat *catalog.Catalog, inv *inventory.Snapshot, opts Options) Result {
	species := cat.Species()
	if len(species) == 0 {
		return Result{Rows: []Row{}}
	}

	perEvolution := opts.ScorePerEvolution
	if perEvolution <= 0 {
		perEvolution = DefaultScorePerEvolution
	}

	// Pass 1: capture state needs no cross-species data.
	isNew := make(map[int]bool, len(species))
	for _, s := range species {
		isNew[s.ID] = !inv.Captured(s.ID)
	}

	// Pass 2: evolving into a never-captured successor.
	evolveIsNew := make(map[int]bool, len(species))
	for _, s := range species {
		next, ok := cat.Successor(s.ID)
		evolveIsNew[s.ID] = ok && isNew[next.ID]
	}

	// Pass 3: a species is ignored when excluded, when its successor's
	// evolution is the new one, or when it is a later stage whose own
	// evolution is not new.
	ignored := make(map[int]bool, len(species))
	for _, s := range species {
		next, hasNext := cat.Successor(s.ID)
		_, hasPrev := cat.Predecessor(s.ID)
		ignored[s.ID] = opts.Exclude[s.ID] ||
			(hasNext && evolveIsNew[next.ID]) ||
			(hasPrev && !evolveIsNew[s.ID])
	}

	// Pass 4: per-species arithmetic, keeping evolving species only.
	rows := make([]Row, 0, len(species))
	for _, s := range species {
		if !s.Evolves() {
			continue
		}
		row := Row{
			Species:     s,
			IsNew:       isNew[s.ID],
			EvolveIsNew: evolveIsNew[s.ID],
			Ignored:     ignored[s.ID],
			Candies:     inv.Candies(s.Family),
			Count:       inv.Owned(s.ID),
		}
		row.fill(perEvolution)
		rows = append(rows, row)
	}

	return Result{Rows: rows, Summary: Summarize(rows)}
}

// fill computes the arithmetic fields from the row's own inputs.
func (r *Row) fill(perEvolution int) {
	cost := r.Species.EvolutionCost
	if cost <= 0 {
		return
	}

	r.Missing = cost - r.Candies%cost
	r.MissingDistance = r.Missing * r.Species.WalkDistance
	r.CouldEvolve = r.Candies / cost

	if !r.Ignored {
		r.CanEvolve = min(r.CouldEvolve, r.Count)
	}

	bonus := 0
	if r.IsNew && r.CanEvolve > 0 {
		bonus = 1
	}
	r.Score = perEvolution * (r.CanEvolve + bonus)
	r.Score2x = 2 * r.Score
}

// Summarize aggregates rows produced by Compute.
func Summarize(rows []Row) Summary {
	var s Summary
	for _, r := range rows {
		s.TotalEvolvable += r.CanEvolve
		s.TotalScore += r.Score
		if r.IsNew && r.CanEvolve > 0 {
			s.NewAndEvolvable++
		}
	}
	s.Walk = SummarizeWalk(rows)
	return s
}
