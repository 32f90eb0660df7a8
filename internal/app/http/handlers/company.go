package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/render"

	"vasavi/quotation/internal/domain/quote"
)

func (h *Handlers) GetCompany(w http.ResponseWriter, r *http.Request) {
	c, err := h.Store.Company(r.Context())
	if err != nil {
		h.fail(w, r, "company: get", err)
		return
	}
	render.JSON(w, r, newCompanyView(c))
}

func (h *Handlers) SaveCompany(w http.ResponseWriter, r *http.Request) {
	c := quote.Company{
		Name:         strings.TrimSpace(r.PostFormValue("name")),
		AddressLine1: strings.TrimSpace(r.PostFormValue("address_line_1")),
		State:        strings.TrimSpace(r.PostFormValue("state")),
		GSTIN:        strings.ToUpper(strings.TrimSpace(r.PostFormValue("gstin"))),
		Phone:        strings.TrimSpace(r.PostFormValue("phone")),
	}
	if err := c.Validate(); err != nil {
		h.badRequest(w, r, quote.Message(err))
		return
	}
	if err := h.Store.SaveCompany(r.Context(), c); err != nil {
		h.fail(w, r, "company: save", err)
		return
	}
	h.redirect(w, r, "/")
}

func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	company, err := h.Store.Company(r.Context())
	if err != nil {
		h.fail(w, r, "dashboard: company", err)
		return
	}
	qs, err := h.Store.ListQuotations(r.Context())
	if err != nil {
		h.fail(w, r, "dashboard: quotations", err)
		return
	}
	rows := make([]quotationSummary, 0, len(qs))
	for _, q := range qs {
		rows = append(rows, quotationSummary{
			ID:       q.ID,
			Number:   q.Number,
			Date:     q.Date.Format(quote.DateLayout),
			Customer: q.Customer.Name,
			TaxMode:  q.TaxMode,
			Grand:    q.Totals.Grand,
		})
	}
	render.JSON(w, r, struct {
		Company    companyView        `json:"company"`
		Quotations []quotationSummary `json:"quotations"`
	}{newCompanyView(company), rows})
}
