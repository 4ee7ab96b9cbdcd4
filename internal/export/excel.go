package export

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/LineCut/internal/model"
)

const (
	patternSheet = "Patterns"
	summarySheet = "Summary"
)

// ExportExcel writes a workbook with one row per cut on a "Patterns" sheet
// and the totals and per-piece counts on a "Summary" sheet.
func ExportExcel(path string, job model.Job, result model.Result) error {
	sol := result.Solution
	if sol == nil {
		return errors.Errorf("no solution to export (status %s)", result.Status)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), patternSheet); err != nil {
		return errors.Wrap(err, "naming pattern sheet")
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return errors.Wrap(err, "creating summary sheet")
	}

	rows := [][]interface{}{{"Stock #", "Stock", "Stock Length", "Cut #", "Piece", "Length", "Offset", "Leftover"}}
	for _, p := range sol.Patterns {
		if len(p.Cuts) == 0 {
			rows = append(rows, []interface{}{p.StockIndex + 1, p.Stock.Label, p.Stock.Length, "", "unused", "", "", p.Leftover})
			continue
		}
		for seq, c := range p.Cuts {
			leftover := interface{}("")
			if seq == len(p.Cuts)-1 {
				leftover = p.Leftover
			}
			rows = append(rows, []interface{}{p.StockIndex + 1, p.Stock.Label, p.Stock.Length, seq + 1, pieceName(c), c.Length, c.Offset, leftover})
		}
	}
	if err := writeRows(f, patternSheet, rows); err != nil {
		return err
	}

	summary := [][]interface{}{
		{"Job", job.Name},
		{"Status", result.Status.String()},
		{"Proven Optimal", result.Proven},
		{"Total Stock", sol.TotalStock},
		{"Total Used", sol.TotalUsed},
		{"Total Waste", sol.TotalWaste},
		{"Efficiency %", sol.Efficiency()},
		{"Search Nodes", result.Stats.Nodes},
		{},
		{"Piece", "Length", "Required", "Cut"},
	}
	counts := sol.PieceCounts()
	for j, piece := range job.Pieces {
		cut := 0
		if j < len(counts) {
			cut = counts[j]
		}
		summary = append(summary, []interface{}{piece.Label, piece.Length, piece.MinQuantity, cut})
	}
	if err := writeRows(f, summarySheet, summary); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	return nil
}

func pieceName(c model.Cut) string {
	if c.Label != "" {
		return c.Label
	}
	return fmt.Sprintf("Piece %d", c.PieceIndex+1)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return errors.Wrap(err, "addressing cell")
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return errors.Wrapf(err, "writing %s row %d", sheet, i+1)
		}
	}
	return nil
}
