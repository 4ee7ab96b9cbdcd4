// Package export writes solved cutting jobs to PDF reports, label sheets and
// Excel workbooks.
package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"

	"github.com/piwi3910/LineCut/internal/model"
)

// pieceColor represents an RGB color for a cut piece.
type pieceColor struct {
	R, G, B int
}

// pieceColors cycles by piece index so a piece type keeps its color on every bar.
var pieceColors = []pieceColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	drawAreaTop  = marginTop + headerHeight + 5.0
	barLabelW    = 45.0
	barHeight    = 9.0
	barSpacing   = 6.0
)

// barsPerPage is how many cutting patterns fit below the page header.
var barsPerPage = int(math.Floor((pageHeight - drawAreaTop - marginBottom) / (barHeight + barSpacing)))

// ExportPDF generates a cut-list report: the cutting patterns drawn as scaled
// bars, several per page, followed by a summary page.
func ExportPDF(path string, job model.Job, result model.Result) error {
	sol := result.Solution
	if sol == nil {
		return errors.Errorf("no solution to export (status %s)", result.Status)
	}
	patterns := usedPatterns(sol)

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	scale := (pageWidth - marginLeft - marginRight - barLabelW) / longestStock(sol)
	pages := int(math.Ceil(float64(len(patterns)) / float64(barsPerPage)))
	for page := 0; page < pages; page++ {
		pdf.AddPage()
		start := page * barsPerPage
		end := start + barsPerPage
		if end > len(patterns) {
			end = len(patterns)
		}
		renderPatternPage(pdf, job, patterns[start:end], scale, page+1, pages)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, job, result)

	if err := pdf.OutputFileAndClose(path); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	return nil
}

// usedPatterns drops stock units without cuts.
func usedPatterns(sol *model.Solution) []model.CutPattern {
	out := make([]model.CutPattern, 0, len(sol.Patterns))
	for _, p := range sol.Patterns {
		if len(p.Cuts) > 0 {
			out = append(out, p)
		}
	}
	return out
}

func longestStock(sol *model.Solution) float64 {
	longest := 1.0
	for _, p := range sol.Patterns {
		longest = math.Max(longest, p.Stock.Length)
	}
	return longest
}

// renderPatternPage draws a page of cutting patterns.
func renderPatternPage(pdf *fpdf.Fpdf, job model.Job, patterns []model.CutPattern, scale float64, page, pages int) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("%s: Cutting Patterns (page %d of %d)", job.Name, page, pages)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	y := drawAreaTop
	for _, p := range patterns {
		renderBar(pdf, p, scale, y)
		y += barHeight + barSpacing
	}
}

// renderBar draws one stock unit with its cuts laid out from the left.
func renderBar(pdf *fpdf.Fpdf, p model.CutPattern, scale, y float64) {
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(barLabelW-2, 4, fmt.Sprintf("#%d %s", p.StockIndex+1, p.Stock.Label), "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(marginLeft, y+4)
	pdf.CellFormat(barLabelW-2, 4, fmt.Sprintf("%.1f mm, %.1f%% used", p.Stock.Length, p.Efficiency()), "", 0, "L", false, 0, "")

	x0 := marginLeft + barLabelW

	// Stock background, the visible remainder is the leftover
	pdf.SetFillColor(210, 180, 140)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.4)
	pdf.Rect(x0, y, p.Stock.Length*scale, barHeight, "FD")

	for _, c := range p.Cuts {
		col := pieceColors[c.PieceIndex%len(pieceColors)]
		cx := x0 + c.Offset*scale
		cw := c.Length * scale

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.2)
		pdf.Rect(cx, y, cw, barHeight, "FD")

		text := fmt.Sprintf("%.0f", c.Length)
		if c.Label != "" {
			text = fmt.Sprintf("%s %.0f", c.Label, c.Length)
		}
		pdf.SetFont("Helvetica", "", labelFontSize(cw))
		if w := pdf.GetStringWidth(text); w < cw-1 {
			pdf.SetXY(cx+(cw-w)/2, y+(barHeight-4)/2)
			pdf.CellFormat(w, 4, text, "", 0, "C", false, 0, "")
		}
	}

	// Leftover annotation at the right end of the bar
	if p.Leftover > 0 {
		pdf.SetFont("Helvetica", "I", 6)
		pdf.SetTextColor(80, 80, 80)
		text := fmt.Sprintf("leftover %.1f", p.Leftover)
		w := pdf.GetStringWidth(text)
		pdf.SetXY(x0+p.Stock.Length*scale-w-1, y+barHeight)
		pdf.CellFormat(w, 3, text, "", 0, "R", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}
}

// renderSummaryPage draws the final summary page with overall statistics.
func renderSummaryPage(pdf *fpdf.Fpdf, job model.Job, result model.Result) {
	sol := result.Solution

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Cut List Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Overall Statistics", "", 0, "L", false, 0, "")
	y += 9

	proven := "no"
	if result.Proven {
		proven = "yes"
	}
	summaryItems := []struct {
		label string
		value string
	}{
		{"Status", result.Status.String()},
		{"Proven Optimal", proven},
		{"Stock Units Used", fmt.Sprintf("%d of %d", len(usedPatterns(sol)), len(sol.Patterns))},
		{"Total Stock Length", fmt.Sprintf("%.1f mm", sol.TotalStock)},
		{"Total Waste", fmt.Sprintf("%.1f mm", sol.TotalWaste)},
		{"Overall Efficiency", fmt.Sprintf("%.1f%%", sol.Efficiency())},
		{"Search Nodes", fmt.Sprintf("%d", result.Stats.Nodes)},
	}
	if result.Reason != "" {
		summaryItems = append(summaryItems, struct {
			label string
			value string
		}{"Note", result.Reason})
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(120, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5

	// Piece breakdown table
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Piece Breakdown", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{20, 70, 40, 40, 40, 50}
	headers := []string{"#", "Piece", "Length", "Required", "Cut", "Surplus"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	counts := sol.PieceCounts()
	pdf.SetFont("Helvetica", "", 9)
	for j, piece := range job.Pieces {
		if y > pageHeight-marginBottom-10 {
			pdf.AddPage()
			y = marginTop
		}
		cut := 0
		if j < len(counts) {
			cut = counts[j]
		}
		rowData := []string{
			fmt.Sprintf("%d", j+1),
			piece.Label,
			fmt.Sprintf("%.1f mm", piece.Length),
			fmt.Sprintf("%d", piece.MinQuantity),
			fmt.Sprintf("%d", cut),
			fmt.Sprintf("%d", cut-piece.MinQuantity),
		}

		if j%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		xPos = marginLeft
		for k, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[k], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[k]
		}
		y += 6
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by LineCut - Linear Cut List Optimizer", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// labelFontSize returns an appropriate font size for a cut of the given drawn width.
func labelFontSize(w float64) float64 {
	switch {
	case w > 40:
		return 8
	case w > 20:
		return 7
	default:
		return 6
	}
}
