// Package export turns extracted tables into downloadable files.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/MalithGihan/docsum-service/pkg/types"
)

// SheetName is the worksheet name used for the i-th table (0-based).
func SheetName(i int, t types.Table) string {
	return fmt.Sprintf("Table %d (p%d)", i+1, t.Page)
}

// TablesXLSX writes one worksheet per table: the column labels on row 1 and
// the data rows below. It returns nil for no tables.
func TablesXLSX(tables []types.Table) ([]byte, error) {
	if len(tables) == 0 {
		return nil, nil
	}
	f := excelize.NewFile()
	defer f.Close()

	const defaultSheet = "Sheet1"
	for i, t := range tables {
		name := SheetName(i, t)
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("new sheet %q: %w", name, err)
		}
		for r, row := range append([][]string{t.Columns}, t.Rows...) {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				return nil, err
			}
			vals := make([]interface{}, len(row))
			for j, v := range row {
				vals[j] = v
			}
			if err := f.SetSheetRow(name, cell, &vals); err != nil {
				return nil, fmt.Errorf("sheet %q row %d: %w", name, r+1, err)
			}
		}
	}
	if err := f.DeleteSheet(defaultSheet); err != nil {
		return nil, err
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// TableCSV renders one table with its column labels as the first record.
func TableCSV(t types.Table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(t.Columns); err != nil {
		return nil, err
	}
	if err := w.WriteAll(t.Rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
