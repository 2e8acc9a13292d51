package telemetry

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/pthm-cable/evolvestats/stats"
)

var tableHeader = []string{
	"name", "evolves", "walks", "ign", "new", "candies", "count",
	"missing", "missing_distance", "can_evolve", "score", "score_2x",
}

func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
}

// PrintTable prints the report rows as an aligned table.
func PrintTable(w io.Writer, rows []stats.Row) error {
	tw := newTabWriter(w)
	for _, h := range tableHeader {
		fmt.Fprintf(tw, "%s\t", h)
	}
	fmt.Fprintln(tw)

	for _, rec := range NewRecords(rows) {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t\n",
			rec.Name, rec.Evolves, rec.Walks, rec.Ign, rec.New, rec.Candies, rec.Count,
			rec.Missing, rec.MissingDistance, rec.CanEvolve, rec.Score, rec.Score2x)
	}
	return tw.Flush()
}

// PrintSummary prints the one-row summary table.
func PrintSummary(w io.Writer, s stats.Summary) error {
	tw := newTabWriter(w)
	fmt.Fprintln(tw, "\tnew\tcan_evolve\t")
	fmt.Fprintf(tw, "stats\t%d\t%d\t\n", s.NewAndEvolvable, s.TotalEvolvable)
	return tw.Flush()
}

// PrintWalk prints the pending walk distance summary. Nothing is printed
// when no species is waiting on candies.
func PrintWalk(w io.Writer, ws stats.WalkSummary) error {
	if ws.Pending == 0 {
		return nil
	}
	_, err := fmt.Fprintf(w, "walk to next evolution (%d pending): mean %.1f km, p50 %.0f km, p90 %.0f km, max %d km\n",
		ws.Pending, ws.Mean, ws.P50, ws.P90, ws.Max)
	return err
}
