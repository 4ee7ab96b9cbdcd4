package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/piwi3910/LineCut/internal/engine"
	"github.com/piwi3910/LineCut/internal/model"
)

func fmtLength(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.3f", v), "0"), ".")
}

func printResult(w io.Writer, job model.Job, res model.Result) {
	fmt.Fprintf(w, "Job:     %s\n", job.Name)
	fmt.Fprintf(w, "Status:  %s", res.Status)
	if res.Proven {
		fmt.Fprint(w, " (proven)")
	}
	fmt.Fprintln(w)
	if res.Reason != "" {
		fmt.Fprintf(w, "Reason:  %s\n", res.Reason)
	}
	st := res.Stats
	fmt.Fprintf(w, "Search:  %d nodes, %d expanded, %d pruned, %d LP iterations, root bound %s, %v\n",
		st.Nodes, st.Expanded, st.Pruned, st.LPIterations, fmtLength(st.RootBound), st.Elapsed.Round(time.Millisecond))

	if !res.HasSolution() {
		return
	}
	sol := res.Solution
	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STOCK\tLENGTH\tCUTS\tLEFTOVER")
	for _, p := range sol.Patterns {
		if len(p.Cuts) == 0 {
			continue
		}
		cuts := make([]string, len(p.Cuts))
		for k, c := range p.Cuts {
			cuts[k] = fmtLength(c.Length)
			if c.Label != "" {
				cuts[k] = c.Label + " " + cuts[k]
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.Stock.Label, fmtLength(p.Stock.Length), strings.Join(cuts, ", "), fmtLength(p.Leftover))
	}
	tw.Flush()

	fmt.Fprintf(w, "\nStock used: %s of %s, waste %s, efficiency %.1f%%\n",
		fmtLength(sol.TotalUsed), fmtLength(sol.TotalStock), fmtLength(sol.TotalWaste), sol.Efficiency())
}

func printOffcuts(w io.Writer, offcuts []model.Offcut) {
	if len(offcuts) == 0 {
		return
	}
	fmt.Fprintf(w, "\nReusable offcuts (%s total):\n", fmtLength(model.TotalOffcutLength(offcuts)))
	for _, o := range offcuts {
		fmt.Fprintf(w, "  %s from %s at %s\n", fmtLength(o.Length), o.StockLabel, fmtLength(o.Offset))
	}
}

func printComparison(w io.Writer, results []engine.ComparisonResult) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SCENARIO\tSTATUS\tBARS\tCUTS\tWASTE\tWASTE %\tNODES\tTIME")
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(tw, "%s\terror: %v\t\t\t\t\t\t\n", r.Scenario.Name, r.Err)
			continue
		}
		waste := "-"
		if r.Result.Solution != nil {
			waste = fmtLength(r.Result.Solution.TotalWaste)
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\t%.1f\t%d\t%v\n",
			r.Scenario.Name, r.Result.Status, r.StocksUsed, r.TotalCuts, waste, r.WastePercent,
			r.Result.Stats.Nodes, r.Elapsed.Round(time.Millisecond))
	}
	tw.Flush()
}

func printEstimate(w io.Writer, e model.PurchaseEstimate) {
	fmt.Fprintf(w, "Total piece length: %s\n", fmtLength(e.TotalPieceLength))
	if !e.Feasible() {
		fmt.Fprintf(w, "A bar of %s is shorter than at least one demanded piece.\n", fmtLength(e.BarLength))
		return
	}
	fmt.Fprintf(w, "Bar length:         %s\n", fmtLength(e.BarLength))
	fmt.Fprintf(w, "Bars (exact):       %.2f\n", e.BarsNeededExact)
	fmt.Fprintf(w, "Bars (minimum):     %d\n", e.BarsNeededMin)
	fmt.Fprintf(w, "Bars (+%.0f%% waste): %d\n", e.WastePercent, e.BarsWithWaste)
	if e.PricePerBar > 0 {
		fmt.Fprintf(w, "Estimated cost:     %.2f\n", e.EstimatedCost)
	}
}
