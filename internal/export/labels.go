package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/LineCut/internal/model"
)

// LabelInfo holds the data encoded into each cut piece label's QR code.
type LabelInfo struct {
	PieceLabel string  `json:"label"`
	PieceIndex int     `json:"piece"`
	Length     float64 `json:"length_mm"`
	StockIndex int     `json:"stock"`
	StockLabel string  `json:"stock_label"`
	Offset     float64 `json:"offset_mm"`
	Sequence   int     `json:"seq"` // cut order on the stock unit, from 1
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each label cell is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	labelMarginTop  = 12.7 // mm
	labelMarginLeft = 4.8  // mm
	labelWidth      = 66.7 // mm per label
	labelHeight     = 25.4 // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
)

// ExportLabels generates a PDF of QR-coded labels, one per cut piece, in
// cutting order. Labels are laid out on a standard label sheet format
// (Avery 5160 / 3 columns x 10 rows on US Letter).
func ExportLabels(path string, sol *model.Solution) error {
	labels := CollectLabelInfos(sol)
	if len(labels) == 0 {
		return errors.New("no cut pieces to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, x, y, label); err != nil {
			return errors.Wrapf(err, "rendering label for %q", label.PieceLabel)
		}
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	return nil
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, info LabelInfo) error {
	// Light border as cutting guide
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return errors.Wrap(err, "marshaling label info")
	}

	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return errors.Wrap(err, "generating QR code")
	}

	imgName := fmt.Sprintf("qr_%d_%d", info.StockIndex, info.Sequence)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	// QR code on the right side of the label
	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)

	pieceLabel := info.PieceLabel
	if pieceLabel == "" {
		pieceLabel = fmt.Sprintf("Piece %d", info.PieceIndex+1)
	}
	if pdf.GetStringWidth(pieceLabel) > textW {
		for len(pieceLabel) > 0 && pdf.GetStringWidth(pieceLabel+"...") > textW {
			pieceLabel = pieceLabel[:len(pieceLabel)-1]
		}
		pieceLabel += "..."
	}
	pdf.CellFormat(textW, 4.5, pieceLabel, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	pdf.CellFormat(textW, 3.5, fmt.Sprintf("%.1f mm", info.Length), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	stockInfo := fmt.Sprintf("Stock %d, cut %d @ %.0f mm", info.StockIndex+1, info.Sequence, info.Offset)
	pdf.CellFormat(textW, 3, stockInfo, "", 1, "L", false, 0, "")

	if info.StockLabel != "" {
		pdf.SetXY(textX, y+labelPadding+12.5)
		pdf.CellFormat(textW, 3, info.StockLabel, "", 0, "L", false, 0, "")
	}

	pdf.SetTextColor(0, 0, 0)
	return nil
}

// CollectLabelInfos lists every cut piece of a solution in cutting order.
func CollectLabelInfos(sol *model.Solution) []LabelInfo {
	if sol == nil {
		return nil
	}
	var labels []LabelInfo
	for _, p := range sol.Patterns {
		for seq, c := range p.Cuts {
			labels = append(labels, LabelInfo{
				PieceLabel: c.Label,
				PieceIndex: c.PieceIndex,
				Length:     c.Length,
				StockIndex: p.StockIndex,
				StockLabel: p.Stock.Label,
				Offset:     c.Offset,
				Sequence:   seq + 1,
			})
		}
	}
	return labels
}
