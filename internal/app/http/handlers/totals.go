package handlers

import (
	"net/http"

	"github.com/go-chi/render"

	"vasavi/quotation/internal/domain/quote"
)

type totalsRequest struct {
	GSTIN string            `json:"gstin"`
	Items []quote.ItemInput `json:"items"`
}

type totalsResponse struct {
	Lines   []lineView    `json:"lines"`
	Totals  totalsView    `json:"totals"`
	TaxMode quote.TaxMode `json:"tax_mode"`
}

// Totals prices a set of rows for a customer GSTIN without saving anything.
// Malformed numbers count as zero.
func (h *Handlers) Totals(w http.ResponseWriter, r *http.Request) {
	var req totalsRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.badRequest(w, r, "Invalid request body")
		return
	}

	c := quote.NewCalculator(h.Cfg.HomeStateCode)
	for _, it := range req.Items {
		c.AddItem(it.LineItem())
	}
	c.SetCustomerGSTIN(req.GSTIN)

	resp := totalsResponse{
		Lines:   make([]lineView, 0, c.Len()),
		Totals:  newTotalsView(c.Totals().Rounded()),
		TaxMode: c.Mode(),
	}
	for _, l := range c.Lines() {
		l = l.Rounded()
		resp.Lines = append(resp.Lines, lineView{Basic: l.Basic, GST: l.GST, Total: l.Total})
	}
	render.JSON(w, r, resp)
}
