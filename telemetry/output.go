// Package telemetry writes the evolution report: a CSV file per run and
// aligned console tables.
package telemetry

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/evolvestats/config"
	"github.com/pthm-cable/evolvestats/inventory"
	"github.com/pthm-cable/evolvestats/stats"
)

// ReportRecord is one CSV line of the evolution report.
type ReportRecord struct {
	Name            string `csv:"name"`
	Evolves         int    `csv:"evolves"`
	Walks           int    `csv:"walks"`
	Ign             int    `csv:"ign"`
	New             int    `csv:"new"`
	Candies         int    `csv:"candies"`
	Count           int    `csv:"count"`
	Missing         int    `csv:"missing"`
	MissingDistance int    `csv:"missing_distance"`
	CanEvolve       int    `csv:"can_evolve"`
	Score           int    `csv:"score"`
	Score2x         int    `csv:"score_2x"`
}

// NewRecord converts an engine row into its report form.
func NewRecord(r stats.Row) ReportRecord {
	return ReportRecord{
		Name:            r.Species.DisplayName(),
		Evolves:         r.Species.EvolutionCost,
		Walks:           r.Species.WalkDistance,
		Ign:             boolInt(r.Ignored),
		New:             boolInt(r.IsNew),
		Candies:         r.Candies,
		Count:           r.Count,
		Missing:         r.Missing,
		MissingDistance: r.MissingDistance,
		CanEvolve:       r.CanEvolve,
		Score:           r.Score,
		Score2x:         r.Score2x,
	}
}

// NewRecords converts rows, keeping their order.
func NewRecords(rows []stats.Row) []ReportRecord {
	records := make([]ReportRecord, len(rows))
	for i, r := range rows {
		records[i] = NewRecord(r)
	}
	return records
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// WriteCSV writes the header and one line per row.
func WriteCSV(w io.Writer, rows []stats.Row) error {
	if err := gocsv.Marshal(NewRecords(rows), w); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

// OutputManager handles report output for one run.
type OutputManager struct {
	dir string
}

// NewOutputManager creates a new output manager and initializes the output directory.
// An empty dir means the working directory.
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		dir = "."
	}

	// Create output directory
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &OutputManager{dir: dir}, nil
}

// Path returns the path of a file in the output directory.
func (om *OutputManager) Path(name string) string {
	return filepath.Join(om.dir, name)
}

// WriteReport writes rows as CSV to name and returns the full path.
func (om *OutputManager) WriteReport(name string, rows []stats.Row) (string, error) {
	path := om.Path(name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", name, err)
	}

	if err := WriteCSV(f, rows); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", name, err)
	}
	return path, nil
}

// WriteInventory saves the snapshot as JSON and returns the full path.
func (om *OutputManager) WriteInventory(name string, inv *inventory.Snapshot) (string, error) {
	path := om.Path(name)
	if err := inventory.SaveFile(inv, path); err != nil {
		return "", err
	}
	return path, nil
}

// WriteConfig saves the effective configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) (string, error) {
	path := om.Path("config.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		return "", err
	}
	return path, nil
}
