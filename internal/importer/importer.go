// Package importer provides CSV, Excel and DXF import for stock and piece
// lists. It supports automatic delimiter detection, flexible column mapping,
// and case-insensitive header recognition.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/LineCut/internal/model"
)

// ListKind selects what the rows of an import describe.
type ListKind int

const (
	// PieceList rows are label, length and minimum quantity (0 allowed).
	PieceList ListKind = iota
	// StockList rows are label, length and bar count; each bar becomes one stock unit.
	StockList
)

func (k ListKind) String() string {
	if k == StockList {
		return "stock"
	}
	return "pieces"
}

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Stocks   []model.StockUnit
	Pieces   []model.PieceType
	Errors   []string
	Warnings []string
}

// Err folds the collected row errors into one error, nil when there are none.
func (r ImportResult) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	return errors.Errorf("import failed: %s", strings.Join(r.Errors, "; "))
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	Label    int
	Length   int
	Quantity int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"label":    {"label", "name", "part", "part name", "description", "desc", "piece", "item", "stock", "profile"},
	"length":   {"length", "len", "l", "size", "cut length", "bar length", "mm"},
	"quantity": {"quantity", "qty", "count", "num", "amount", "pcs", "pieces", "min", "min qty", "bars"},
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		// Only consider delimiters that produce more than 1 column
		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// Returns the mapping and true if a header was detected, or the positional
// mapping (label, length, quantity) and false if no header was found.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{Label: -1, Length: -1, Quantity: -1}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				switch role {
				case "label":
					if mapping.Label == -1 {
						mapping.Label = i
					}
				case "length":
					if mapping.Length == -1 {
						mapping.Length = i
					}
				case "quantity":
					if mapping.Quantity == -1 {
						mapping.Quantity = i
					}
				}
			}
		}
	}

	if !isHeader {
		return ColumnMapping{Label: 0, Length: 1, Quantity: 2}, false
	}
	return mapping, true
}

// getCell safely retrieves a cell value from a row by column index.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parsedRow is one successfully parsed line of a list.
type parsedRow struct {
	label  string
	length float64
	qty    int
}

// parseRow extracts label, length and quantity from a row.
// Returns the parsed row and an error message.
func parseRow(row []string, mapping ColumnMapping, kind ListKind, rowLabel string, count int) (parsedRow, string) {
	label := getCell(row, mapping.Label)
	if label == "" {
		if kind == StockList {
			label = fmt.Sprintf("Stock %d", count+1)
		} else {
			label = fmt.Sprintf("Piece %d", count+1)
		}
	}

	lengthStr := getCell(row, mapping.Length)
	if lengthStr == "" {
		return parsedRow{}, fmt.Sprintf("%s: Missing length value", rowLabel)
	}
	length, err := strconv.ParseFloat(lengthStr, 64)
	if err != nil {
		return parsedRow{}, fmt.Sprintf("%s: Invalid length '%s'", rowLabel, lengthStr)
	}
	if length <= 0 {
		return parsedRow{}, fmt.Sprintf("%s: Length must be positive", rowLabel)
	}

	// A stock row without a count is a single bar.
	qty := 1
	if kind == PieceList {
		qty = 0
	}
	if qtyStr := getCell(row, mapping.Quantity); qtyStr != "" {
		qty, err = strconv.Atoi(qtyStr)
		if err != nil {
			return parsedRow{}, fmt.Sprintf("%s: Invalid quantity '%s'", rowLabel, qtyStr)
		}
	}
	if qty < 0 || (kind == StockList && qty == 0) {
		return parsedRow{}, fmt.Sprintf("%s: Quantity must be positive", rowLabel)
	}

	return parsedRow{label: label, length: length, qty: qty}, ""
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportFile picks the importer from the file extension.
func ImportFile(path string, kind ListKind) (ImportResult, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt", ".tsv":
		return ImportCSV(path, kind), nil
	case ".xlsx", ".xlsm", ".xls":
		return ImportExcel(path, kind), nil
	case ".dxf":
		if kind == StockList {
			return ImportResult{}, errors.Errorf("%s: DXF drawings describe pieces, not stock", path)
		}
		return ImportDXF(path), nil
	default:
		return ImportResult{}, errors.Errorf("%s: unsupported file type %q", path, filepath.Ext(path))
	}
}

// ImportCSV imports a list from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
func ImportCSV(path string, kind ListKind) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	var warnings []string
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		warnings = append(warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	return importFromRows(records, kind, "Line", warnings)
}

// ImportCSVFromReader imports a list from a CSV reader with a specific delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune, kind ListKind) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	return importFromRows(records, kind, "Line", nil)
}

// ImportExcel imports a list from the first sheet of an Excel workbook.
func ImportExcel(path string, kind ListKind) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	return importFromRows(rows, kind, "Row", nil)
}

// importFromRows is the shared import logic for both CSV and Excel data.
func importFromRows(rows [][]string, kind ListKind, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")
		if mapping.Length == -1 {
			result.Errors = append(result.Errors, "Required column not found in header: Length")
			return result
		}
	} else if len(rows[0]) >= 2 {
		if _, err := strconv.ParseFloat(strings.TrimSpace(rows[0][1]), 64); err != nil {
			// Unrecognized header: skip it but keep positional mapping
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	count := 0
	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		parsed, errMsg := parseRow(row, mapping, kind, rowLabel, count)
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		count++

		if kind == StockList {
			result.Stocks = append(result.Stocks, model.ExpandStock(parsed.label, parsed.length, parsed.qty)...)
		} else {
			result.Pieces = append(result.Pieces, model.NewPieceType(parsed.label, parsed.length, parsed.qty))
		}
	}

	if count == 0 && len(result.Errors) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
	}
	return result
}
