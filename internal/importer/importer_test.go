package importer

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
	"github.com/yofu/dxf/entity"
)

// ─── DetectCSVDelimiter Tests ──────────────────────────────

func TestDetectCSVDelimiter(t *testing.T) {
	tests := []struct {
		name string
		data string
		want rune
	}{
		{"comma", "Label,Length,Qty\nRail,600,2\nPost,400,1\n", ','},
		{"semicolon", "Label;Length;Qty\nRail;600;2\nPost;400;1\n", ';'},
		{"tab", "Label\tLength\tQty\nRail\t600\t2\nPost\t400\t1\n", '\t'},
		{"pipe", "Label|Length|Qty\nRail|600|2\nPost|400|1\n", '|'},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectCSVDelimiter([]byte(tt.data)); got != tt.want {
				t.Errorf("expected %q delimiter, got %q", tt.want, got)
			}
		})
	}
}

// ─── DetectColumns Tests ───────────────────────────────────

func TestDetectColumns_StandardHeaders(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"Label", "Length", "Quantity"})

	if !isHeader {
		t.Error("expected header to be detected")
	}
	if mapping.Label != 0 || mapping.Length != 1 || mapping.Quantity != 2 {
		t.Errorf("unexpected mapping %+v", mapping)
	}
}

func TestDetectColumns_AlternativeNamesReordered(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"QTY", "Size", "Description"})

	if !isHeader {
		t.Error("expected header to be detected")
	}
	if mapping.Quantity != 0 || mapping.Length != 1 || mapping.Label != 2 {
		t.Errorf("unexpected mapping %+v", mapping)
	}
}

func TestDetectColumns_NoHeader(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"Rail", "600", "2"})

	if isHeader {
		t.Error("expected no header")
	}
	if mapping.Label != 0 || mapping.Length != 1 || mapping.Quantity != 2 {
		t.Errorf("expected positional mapping, got %+v", mapping)
	}
}

// ─── CSV Import Tests ──────────────────────────────────────

func TestImportCSVFromReader_Pieces(t *testing.T) {
	input := "Label,Length,Qty\nRail,600,2\nPost,400.5,0\n"
	result := ImportCSVFromReader(strings.NewReader(input), ',', PieceList)

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Pieces) != 2 {
		t.Fatalf("expected 2 pieces, got %d", len(result.Pieces))
	}
	if result.Pieces[0].Label != "Rail" || result.Pieces[0].Length != 600 || result.Pieces[0].MinQuantity != 2 {
		t.Errorf("unexpected first piece %+v", result.Pieces[0])
	}
	if result.Pieces[1].Length != 400.5 || result.Pieces[1].MinQuantity != 0 {
		t.Errorf("zero demand should be accepted, got %+v", result.Pieces[1])
	}
	if len(result.Stocks) != 0 {
		t.Errorf("piece import must not produce stock")
	}
}

func TestImportCSVFromReader_StockExpandsBars(t *testing.T) {
	input := "Bar,6000,3\nOffcut,1250\n"
	result := ImportCSVFromReader(strings.NewReader(input), ',', StockList)

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Stocks) != 4 {
		t.Fatalf("expected 4 stock units, got %d", len(result.Stocks))
	}
	if result.Stocks[0].ID == result.Stocks[1].ID {
		t.Error("expanded bars must have distinct IDs")
	}
	if result.Stocks[3].Label != "Offcut" || result.Stocks[3].Length != 1250 {
		t.Errorf("missing count should mean one bar, got %+v", result.Stocks[3])
	}
}

func TestImportCSVFromReader_StockRejectsZeroCount(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("Bar,6000,0\n"), ',', StockList)
	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 error, got %v", result.Errors)
	}
	if result.Err() == nil {
		t.Error("expected folded error")
	}
}

func TestImportCSVFromReader_RowErrors(t *testing.T) {
	input := strings.Join([]string{
		"Label,Length,Qty",
		"Good,100,1",
		"BadLen,abc,1",
		"BadQty,100,x",
		"Negative,-5,1",
		"NegQty,100,-1",
		"Missing,,1",
		"",
		"Good2,200,2",
	}, "\n")
	result := ImportCSVFromReader(strings.NewReader(input), ',', PieceList)

	if len(result.Pieces) != 2 {
		t.Errorf("expected 2 valid pieces, got %d", len(result.Pieces))
	}
	if len(result.Errors) != 5 {
		t.Errorf("expected 5 errors, got %d: %v", len(result.Errors), result.Errors)
	}
	if !strings.Contains(result.Errors[0], "Line 3") {
		t.Errorf("expected line number in error, got %q", result.Errors[0])
	}
}

func TestImportCSVFromReader_EmptyLabel(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader(",100,1\n,200,1\n"), ',', PieceList)
	if len(result.Pieces) != 2 {
		t.Fatalf("expected 2 pieces, got %d", len(result.Pieces))
	}
	if result.Pieces[1].Label != "Piece 2" {
		t.Errorf("expected generated label 'Piece 2', got %q", result.Pieces[1].Label)
	}
}

func TestImportCSVFromReader_UnknownHeaderSkipped(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("Teil,Mass,Anzahl\nA,100,1\n"), ',', PieceList)
	if len(result.Pieces) != 1 {
		t.Fatalf("expected 1 piece, got %d (errors %v)", len(result.Pieces), result.Errors)
	}
}

func TestImportCSVFromReader_MissingLengthColumn(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("Label,Qty\nA,1\n"), ',', PieceList)
	if len(result.Errors) == 0 || !strings.Contains(result.Errors[0], "Length") {
		t.Errorf("expected missing length column error, got %v", result.Errors)
	}
}

func TestImportCSVFromReader_OnlyHeaders(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("Label,Length,Qty\n"), ',', PieceList)
	if len(result.Errors) == 0 {
		t.Error("expected an error for a list without data rows")
	}
}

func TestImportCSV_SemicolonFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pieces.csv")
	content := "Label;Length;Quantity\nRail;600;2\nPost;400;1\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	result := ImportCSV(path, PieceList)
	if len(result.Pieces) != 2 {
		t.Errorf("expected 2 pieces, got %d (errors: %v)", len(result.Pieces), result.Errors)
	}

	hasSemicolonWarning := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "semicolon") {
			hasSemicolonWarning = true
		}
	}
	if !hasSemicolonWarning {
		t.Error("expected warning about semicolon delimiter detection")
	}
}

func TestImportCSV_FileNotFound(t *testing.T) {
	result := ImportCSV("/nonexistent/path/file.csv", PieceList)
	if len(result.Errors) == 0 {
		t.Error("expected error for nonexistent file")
	}
}

func TestImportCSV_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := os.WriteFile(path, []byte(""), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	if result := ImportCSV(path, StockList); len(result.Errors) == 0 {
		t.Error("expected error for empty file")
	}
}

// ─── Excel Import Tests ────────────────────────────────────

func createTestExcel(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "list.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, row := range rows {
		for j, cell := range row {
			cellRef, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("failed to create cell reference: %v", err)
			}
			if err := f.SetCellValue(sheet, cellRef, cell); err != nil {
				t.Fatalf("failed to set cell value: %v", err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save Excel file: %v", err)
	}
	return path
}

func TestImportExcel_Stock(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Stock", "Bar Length", "Bars"},
		{"Alu 40x40", 6000, 2},
		{"Alu 20x20", 3000, 1},
	})

	result := ImportExcel(path, StockList)
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Stocks) != 3 {
		t.Fatalf("expected 3 stock units, got %d", len(result.Stocks))
	}
	if result.Stocks[2].Label != "Alu 20x20" || result.Stocks[2].Length != 3000 {
		t.Errorf("unexpected stock %+v", result.Stocks[2])
	}
}

func TestImportExcel_FileNotFound(t *testing.T) {
	result := ImportExcel("/nonexistent/list.xlsx", PieceList)
	if len(result.Errors) == 0 {
		t.Error("expected error for nonexistent file")
	}
}

// ─── ImportFile Tests ──────────────────────────────────────

func TestImportFile_Dispatch(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{{"Rail", 600, 2}})
	result, err := ImportFile(path, PieceList)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Pieces) != 1 {
		t.Errorf("expected 1 piece, got %d", len(result.Pieces))
	}

	if _, err := ImportFile("list.pdf", PieceList); err == nil {
		t.Error("expected unsupported extension error")
	}
	if _, err := ImportFile("frame.dxf", StockList); err == nil {
		t.Error("expected error importing stock from a drawing")
	}
}

// ─── DXF Tests ─────────────────────────────────────────────

func TestImportDXF_FileNotFound(t *testing.T) {
	result := ImportDXF("/nonexistent/frame.dxf")
	if len(result.Errors) == 0 {
		t.Error("expected error for nonexistent file")
	}
}

func TestPolylineEdges(t *testing.T) {
	frame := &entity.LwPolyline{
		Vertices: [][]float64{{0, 0}, {600, 0}, {600, 400}, {0, 400}},
		Closed:   true,
	}
	edges := polylineEdges(frame)
	want := []float64{600, 400, 600, 400}
	if len(edges) != len(want) {
		t.Fatalf("expected %d edges, got %d", len(want), len(edges))
	}
	for i := range want {
		if math.Abs(edges[i]-want[i]) > 1e-9 {
			t.Errorf("edge %d: expected %g, got %g", i, want[i], edges[i])
		}
	}

	frame.Closed = false
	if got := len(polylineEdges(frame)); got != 3 {
		t.Errorf("open polyline should have 3 edges, got %d", got)
	}
}

func TestBulgeLength(t *testing.T) {
	if got := bulgeLength(100, 0); got != 100 {
		t.Errorf("straight edge: expected 100, got %g", got)
	}
	// Bulge 1 is a half circle over the chord.
	if got := bulgeLength(100, 1); math.Abs(got-50*math.Pi) > 1e-9 {
		t.Errorf("half circle: expected %g, got %g", 50*math.Pi, got)
	}
	if got := bulgeLength(100, -1); math.Abs(got-50*math.Pi) > 1e-9 {
		t.Errorf("clockwise half circle: expected %g, got %g", 50*math.Pi, got)
	}
}

func TestMergeLengths(t *testing.T) {
	pieces, skipped := mergeLengths([]float64{400, 600, 400.001, 600, 0.001, 250.25})
	if skipped != 1 {
		t.Errorf("expected 1 skipped member, got %d", skipped)
	}
	if len(pieces) != 3 {
		t.Fatalf("expected 3 piece types, got %d", len(pieces))
	}
	if pieces[0].Length != 600 || pieces[0].MinQuantity != 2 {
		t.Errorf("unexpected first piece %+v", pieces[0])
	}
	if pieces[1].Length != 400 || pieces[1].MinQuantity != 2 {
		t.Errorf("unexpected second piece %+v", pieces[1])
	}
	if pieces[2].Length != 250.25 || pieces[2].Label != "DXF Piece 3" {
		t.Errorf("unexpected third piece %+v", pieces[2])
	}
}
