// Package export writes quotation summaries as spreadsheets.
package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"vasavi/quotation/internal/domain/quote"
)

const sheetName = "Quotations"

var headers = []string{"Quotation No", "Date", "Customer", "GSTIN", "Tax", "Basic", "GST", "Grand Total"}

// Excel returns an xlsx workbook with one row per quotation followed by a
// totals row.
func Excel(quotations []quote.Quotation) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	widths := []float64{18, 12, 32, 18, 8, 14, 14, 16}
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheetName, col, col, w); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	// 4 is the built-in "#,##0.00" format.
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return nil, fmt.Errorf("create money style: %w", err)
	}
	totalStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4, Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create total style: %w", err)
	}

	if err := f.SetSheetRow(sheetName, "A1", &headers); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	if err := f.SetCellStyle(sheetName, "A1", "H1", headerStyle); err != nil {
		return nil, fmt.Errorf("style header: %w", err)
	}

	var sum quote.Totals
	for i, q := range quotations {
		row := []interface{}{
			q.Number,
			q.Date.Format(quote.DateLayout),
			q.Customer.Name,
			q.Customer.GSTIN,
			q.TaxMode.String(),
			q.Totals.Basic,
			q.Totals.GST,
			q.Totals.Grand,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
		sum.Basic += q.Totals.Basic
		sum.GST += q.Totals.GST
		sum.Grand += q.Totals.Grand
	}

	last := len(quotations) + 1
	if len(quotations) > 0 {
		if err := f.SetCellStyle(sheetName, "F2", fmt.Sprintf("H%d", last), moneyStyle); err != nil {
			return nil, fmt.Errorf("style amounts: %w", err)
		}
	}

	sum = sum.Rounded()
	totalRow := last + 1
	row := []interface{}{"Total", "", "", "", "", sum.Basic, sum.GST, sum.Grand}
	if err := f.SetSheetRow(sheetName, fmt.Sprintf("A%d", totalRow), &row); err != nil {
		return nil, fmt.Errorf("write totals: %w", err)
	}
	if err := f.SetCellStyle(sheetName, fmt.Sprintf("A%d", totalRow), fmt.Sprintf("H%d", totalRow), totalStyle); err != nil {
		return nil, fmt.Errorf("style totals: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
