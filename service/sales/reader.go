package sales

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// PreferredSheet is read when present; otherwise the first sheet is used.
const PreferredSheet = "vendas_ml"

// ReadFile stages a .xlsx or .csv export into raw rows.
func ReadFile(path string) ([]RawSaleRow, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, fmt.Errorf("open workbook %s: %w", path, err)
		}
		defer f.Close()
		return ReadWorkbook(f)
	case ".csv":
		fh, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		defer fh.Close()
		return ReadCSV(fh)
	default:
		return nil, fmt.Errorf("unsupported sales file %q: only .xlsx and .csv", path)
	}
}

// ReadXLSX stages the sales sheet of a workbook stream.
func ReadXLSX(r io.Reader) ([]RawSaleRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()
	return ReadWorkbook(f)
}

func ReadWorkbook(f *excelize.File) ([]RawSaleRow, error) {
	sheet := f.GetSheetName(0)
	if idx, err := f.GetSheetIndex(PreferredSheet); err == nil && idx >= 0 {
		sheet = PreferredSheet
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	return tabular(rows)
}

// ReadCSV stages a CSV export. Rows may be ragged.
func ReadCSV(r io.Reader) ([]RawSaleRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read CSV rows: %w", err)
	}
	return tabular(rows)
}

// tabular turns a header row plus data rows into raw rows keyed by header.
// Short rows leave their trailing columns absent.
func tabular(rows [][]string) ([]RawSaleRow, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("sales sheet has no header row")
	}
	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	out := make([]RawSaleRow, 0, len(rows)-1)
	for _, row := range rows[1:] {
		raw := make(RawSaleRow, len(headers))
		for i, h := range headers {
			if h == "" || i >= len(row) {
				continue
			}
			raw[h] = row[i]
		}
		out = append(out, raw)
	}
	return out, nil
}
