package report

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// OverviewSheet is the name of the worksheet holding the overview
const OverviewSheet = "Overview"

var xlsxHeaders = []string{"Group", "Bucket", "Type", "Balance", "In", "Activity", "Want", "Progress %", "Details"}

var xlsxWidths = map[string]float64{"A": 8, "B": 24, "C": 24, "D": 12, "E": 12, "F": 12, "G": 12, "H": 11, "I": 24}

// WriteOverviewXLSX writes rows as a single-sheet workbook. Amounts are stored as numbers.
func WriteOverviewXLSX(w io.Writer, rows []OverviewRow) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), OverviewSheet); err != nil {
		return fmt.Errorf("error naming sheet: %w", err)
	}

	for i, h := range xlsxHeaders {
		if err := setCell(f, i+1, 1, h); err != nil {
			return err
		}
	}

	for idx, r := range rows {
		values := []any{
			r.GroupID,
			r.Bucket,
			r.Type,
			amountCell(r.Balance),
			amountCell(r.In),
			amountCell(r.Activity),
			amountCell(r.Want),
			r.Progress,
			r.Details,
		}
		for col, v := range values {
			if err := setCell(f, col+1, idx+2, v); err != nil {
				return err
			}
		}
	}

	for col, width := range xlsxWidths {
		if err := f.SetColWidth(OverviewSheet, col, col, width); err != nil {
			return fmt.Errorf("error setting column width: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("error writing workbook: %w", err)
	}
	return nil
}

func setCell(f *excelize.File, col, row int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(OverviewSheet, cell, value); err != nil {
		return fmt.Errorf("error writing cell %s: %w", cell, err)
	}
	return nil
}

// amountCell keeps unparsable amounts as text
func amountCell(s string) any {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return s
	}
	return d.InexactFloat64()
}
