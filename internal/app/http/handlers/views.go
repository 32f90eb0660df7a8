package handlers

import "vasavi/quotation/internal/domain/quote"

type customerView struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	GSTIN   string `json:"gstin"`
	State   string `json:"state"`
}

func newCustomerView(c quote.Customer) customerView {
	return customerView{ID: c.ID, Name: c.Name, Address: c.Address, GSTIN: c.GSTIN, State: c.State}
}

func newCustomerViews(cs []quote.Customer) []customerView {
	out := make([]customerView, 0, len(cs))
	for _, c := range cs {
		out = append(out, newCustomerView(c))
	}
	return out
}

type companyView struct {
	Name         string `json:"name"`
	AddressLine1 string `json:"address_line_1"`
	State        string `json:"state"`
	GSTIN        string `json:"gstin"`
	Phone        string `json:"phone"`
}

func newCompanyView(c quote.Company) companyView {
	return companyView{Name: c.Name, AddressLine1: c.AddressLine1, State: c.State, GSTIN: c.GSTIN, Phone: c.Phone}
}

type lineView struct {
	Basic float64 `json:"basic"`
	GST   float64 `json:"gst"`
	Total float64 `json:"total"`
}

type totalsView struct {
	Basic float64 `json:"basic"`
	GST   float64 `json:"gst"`
	Grand float64 `json:"grand"`
	IGST  float64 `json:"igst"`
	CGST  float64 `json:"cgst"`
	SGST  float64 `json:"sgst"`
}

func newTotalsView(t quote.Totals) totalsView {
	return totalsView{Basic: t.Basic, GST: t.GST, Grand: t.Grand, IGST: t.IGST, CGST: t.CGST, SGST: t.SGST}
}

type itemView struct {
	Description string  `json:"description"`
	Unit        string  `json:"unit"`
	Qty         float64 `json:"qty"`
	Rate        float64 `json:"rate"`
	GSTRate     float64 `json:"gst_rate"`
	lineView
}

// quotationSummary is a dashboard row.
type quotationSummary struct {
	ID       int64         `json:"id"`
	Number   string        `json:"quotation_number"`
	Date     string        `json:"date"`
	Customer string        `json:"customer"`
	TaxMode  quote.TaxMode `json:"tax_mode"`
	Grand    float64       `json:"grand_total"`
}

type quotationView struct {
	ID            int64         `json:"id"`
	Number        string        `json:"quotation_number"`
	Date          string        `json:"date"`
	Customer      customerView  `json:"customer"`
	PlaceOfSupply string        `json:"place_of_supply"`
	TaxMode       quote.TaxMode `json:"tax_mode"`
	Items         []itemView    `json:"items"`
	Totals        totalsView    `json:"totals"`
	CGSTPercent   float64       `json:"percentage_cgst"`
	SGSTPercent   float64       `json:"percentage_sgst"`
	IGSTPercent   float64       `json:"percentage_igst"`
	RoundOff      float64       `json:"round_off"`
	AmountInWords string        `json:"amount_in_words"`
}

func newQuotationView(q quote.Quotation) quotationView {
	v := quotationView{
		ID:            q.ID,
		Number:        q.Number,
		Date:          q.Date.Format(quote.DateLayout),
		Customer:      newCustomerView(q.Customer),
		PlaceOfSupply: q.PlaceOfSupply,
		TaxMode:       q.TaxMode,
		Items:         make([]itemView, 0, len(q.Items)),
		Totals:        newTotalsView(q.Totals),
		CGSTPercent:   q.CGSTPercent,
		SGSTPercent:   q.SGSTPercent,
		IGSTPercent:   q.IGSTPercent,
		RoundOff:      quote.RoundOff(q.Totals.Grand),
		AmountInWords: quote.AmountInWords(q.Totals.Grand),
	}
	for _, it := range q.Items {
		v.Items = append(v.Items, itemView{
			Description: it.Description,
			Unit:        it.Unit,
			Qty:         it.Quantity,
			Rate:        it.UnitRate,
			GSTRate:     it.GSTRatePercent,
			lineView:    lineView{Basic: it.Basic, GST: it.GST, Total: it.Total},
		})
	}
	return v
}
