package gofpdf

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"vasavi/quotation/internal/domain/quote"
)

type Generator struct{}

func New() *Generator { return &Generator{} }

type column struct {
	title string
	width float64
	align string
}

var columns = []column{
	{"#", 8, "C"},
	{"Description", 62, "L"},
	{"Qty", 14, "R"},
	{"Unit", 14, "C"},
	{"Rate", 22, "R"},
	{"Basic", 24, "R"},
	{"GST %", 14, "R"},
	{"Total", 32, "R"},
}

func (g *Generator) Generate(q quote.Quotation, company quote.Company) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Quotation "+q.Number, true)
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 8, tr(company.Name), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 5, tr(company.AddressLine1), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 5, tr(fmt.Sprintf("GSTIN: %s    State: %s    Phone: %s", company.GSTIN, company.State, company.Phone)), "", 1, "C", false, 0, "")
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, "QUOTATION", "TB", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(95, 6, "No: "+q.Number, "", 0, "L", false, 0, "")
	pdf.CellFormat(95, 6, "Date: "+q.Date.Format("02-01-2006"), "", 1, "R", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, 6, "To:", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 5, tr(q.Customer.Name), "", 1, "L", false, 0, "")
	if q.Customer.Address != "" {
		pdf.MultiCell(0, 5, tr(q.Customer.Address), "", "L", false)
	}
	pdf.CellFormat(0, 5, tr("GSTIN: "+q.Customer.GSTIN), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, tr("State: "+q.Customer.State), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, tr("Place of supply: "+q.PlaceOfSupply), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for _, c := range columns {
		pdf.CellFormat(c.width, 7, c.title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for i, it := range q.Items {
		cells := []string{
			strconv.Itoa(i + 1),
			tr(trim(it.Description, 40)),
			formatQty(it.Quantity),
			it.Unit,
			quote.GroupINR(it.UnitRate),
			quote.GroupINR(it.Basic),
			formatQty(it.GSTRatePercent),
			quote.GroupINR(it.Total),
		}
		for j, c := range columns {
			pdf.CellFormat(c.width, 6, cells[j], "1", 0, c.align, false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(3)

	total := func(label string, amount float64) {
		pdf.CellFormat(150, 6, label, "", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, "Rs. "+quote.GroupINR(amount), "", 1, "R", false, 0, "")
	}
	total("Total basic", q.Totals.Basic)
	if q.TaxMode == quote.Intra {
		total(fmt.Sprintf("CGST @ %s%%", formatQty(q.CGSTPercent)), q.Totals.CGST)
		total(fmt.Sprintf("SGST @ %s%%", formatQty(q.SGSTPercent)), q.Totals.SGST)
	} else {
		total(fmt.Sprintf("IGST @ %s%%", formatQty(q.IGSTPercent)), q.Totals.IGST)
	}
	if ro := quote.RoundOff(q.Totals.Grand); ro != 0 {
		total("Round off", ro)
	}
	pdf.SetFont("Helvetica", "B", 10)
	total("Grand total", q.Totals.Grand+quote.RoundOff(q.Totals.Grand))
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(0, 5, "Amount in words: Rupees "+quote.AmountInWords(q.Totals.Grand), "", "L", false)
	pdf.Ln(12)
	pdf.CellFormat(0, 5, tr("For "+company.Name), "", 1, "R", false, 0, "")
	pdf.Ln(10)
	pdf.CellFormat(0, 5, "Authorised signatory", "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("quote pdf: output: %w", err)
	}
	return buf.Bytes(), nil
}

func formatQty(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func trim(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "..."
}
