// Package xlsx renders report rows into a single-sheet Excel workbook.
package xlsx

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"pricing-report/internal/core"
)

// Headers are the fixed column labels of the report sheet. A tenth, unlabeled
// column carries the currency-mismatch note.
var Headers = []string{
	"Sale Order",
	"Purchase Order",
	"Cost on Sale Order",
	"Unit Price on Purchase Order",
	"Quantity",
	"Price Difference",
	"Product Code",
	"Product Name",
	"Customer",
}

// noteColumn is the zero-based index of the note column.
const noteColumn = 9

// noteFillColor highlights cells whose row needed a currency conversion.
const noteFillColor = "FFBF00"

// Writer renders rows with excelize. It satisfies core.ReportRenderer.
type Writer struct{}

func NewWriter() *Writer {
	return &Writer{}
}

// Render produces the workbook bytes: bold header row, tuned column widths,
// one data row per report row, amber fill on non-empty note cells.
func (w *Writer) Render(rows []core.ReportRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	noteStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{noteFillColor}},
	})
	if err != nil {
		return nil, fmt.Errorf("create note style: %w", err)
	}

	for col, header := range Headers {
		width := float64(len(header))
		switch col {
		case 6:
			width += 15
		case 7, 8:
			width += 40
		}
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return nil, fmt.Errorf("resolve column %d: %w", col, err)
		}
		if err := f.SetColWidth(sheet, name, name, width); err != nil {
			return nil, fmt.Errorf("set width of column %s: %w", name, err)
		}
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, fmt.Errorf("write header %q: %w", header, err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, bold); err != nil {
			return nil, fmt.Errorf("style header %q: %w", header, err)
		}
	}

	noteWidth := 0
	for i, row := range rows {
		rowNum := i + 2 // data starts under the header row
		values := []interface{}{
			row.SaleOrder,
			row.PurchaseOrder,
			row.SaleCost.InexactFloat64(),
			row.PurchaseUnitPrice.InexactFloat64(),
			row.Quantity.InexactFloat64(),
			row.PriceDifference.InexactFloat64(),
			row.ProductCode,
			row.ProductName,
			row.Customer,
			row.Note,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, rowNum)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, fmt.Errorf("write cell %s: %w", cell, err)
			}
			if col == noteColumn && row.Note != "" {
				if err := f.SetCellStyle(sheet, cell, cell, noteStyle); err != nil {
					return nil, fmt.Errorf("style note cell %s: %w", cell, err)
				}
				if len(row.Note) > noteWidth {
					noteWidth = len(row.Note)
				}
			}
		}
	}

	if noteWidth > 0 {
		name, _ := excelize.ColumnNumberToName(noteColumn + 1)
		if err := f.SetColWidth(sheet, name, name, float64(noteWidth)); err != nil {
			return nil, fmt.Errorf("set note column width: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}
