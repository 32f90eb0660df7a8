package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/angelofallars/htmx-go"
	"github.com/go-chi/render"

	"vasavi/quotation/internal/domain/quote"
	"vasavi/quotation/internal/domain/quote/export"
)

// numberAttempts bounds the suffixed numbers tried when quotations created in
// the same second collide.
const numberAttempts = 100

type createQuotationResponse struct {
	Success     bool   `json:"success"`
	RedirectURL string `json:"redirect_url"`
}

func (h *Handlers) CreateQuotation(w http.ResponseWriter, r *http.Request) {
	var d quote.Draft
	if err := render.DecodeJSON(r.Body, &d); err != nil {
		h.badRequest(w, r, "Invalid request body")
		return
	}
	d.Normalize()
	if err := d.Validate(); err != nil {
		h.badRequest(w, r, quote.Message(err))
		return
	}
	date, err := d.ParsedDate()
	if err != nil {
		h.badRequest(w, r, "Quotation date must be in YYYY-MM-DD format")
		return
	}

	cust := d.CustomerValue()
	if cust.ID != 0 {
		if _, err := h.Store.GetCustomer(r.Context(), cust.ID); err != nil {
			if errors.Is(err, quote.ErrNotFound) {
				h.writeError(w, r, http.StatusNotFound, "Customer not found")
				return
			}
			h.fail(w, r, "quotation: customer", err)
			return
		}
	}

	calc := d.Calculator(h.Cfg.HomeStateCode)
	if d.Totals != nil && !d.Totals.Matches(calc.Totals()) {
		h.Log.WarnContext(r.Context(), "quotation: client totals differ",
			"client_grand", d.Totals.Grand.Float(), "server_grand", calc.Totals().Grand)
	}

	now := h.Now()
	q := quote.Build(calc, quote.NewQuotationNumber(now), date, cust, d.PlaceOfSupply)
	if err := q.Validate(); err != nil {
		h.badRequest(w, r, "Quotation total is too large")
		return
	}
	for attempt := 0; ; attempt++ {
		q = quote.Build(calc, quote.QuotationNumber(now, attempt), date, cust, d.PlaceOfSupply)
		err = h.Store.CreateQuotation(r.Context(), &q)
		if !errors.Is(err, quote.ErrDuplicateNumber) || attempt+1 == numberAttempts {
			break
		}
	}
	if err != nil {
		h.fail(w, r, "quotation: create", err)
		return
	}

	url := fmt.Sprintf("/quotation/%d", q.ID)
	h.Log.InfoContext(r.Context(), "quotation: created", "id", q.ID, "number", q.Number,
		"customer", q.Customer.Name, "tax_mode", q.TaxMode.String(), "grand", q.Totals.Grand)
	if htmx.IsHTMX(r) {
		h.redirect(w, r, url)
		return
	}
	render.JSON(w, r, createQuotationResponse{Success: true, RedirectURL: url})
}

func (h *Handlers) loadQuotation(w http.ResponseWriter, r *http.Request) (quote.Quotation, bool) {
	id, ok := idParam(r)
	if !ok {
		h.writeError(w, r, http.StatusNotFound, "Not found")
		return quote.Quotation{}, false
	}
	q, err := h.Store.GetQuotation(r.Context(), id)
	if err != nil {
		h.fail(w, r, "quotation: get", err)
		return quote.Quotation{}, false
	}
	return q, true
}

func (h *Handlers) GetQuotation(w http.ResponseWriter, r *http.Request) {
	q, ok := h.loadQuotation(w, r)
	if !ok {
		return
	}
	render.JSON(w, r, newQuotationView(q))
}

func (h *Handlers) QuotationPDF(w http.ResponseWriter, r *http.Request) {
	q, ok := h.loadQuotation(w, r)
	if !ok {
		return
	}
	company, err := h.Store.Company(r.Context())
	if err != nil {
		h.fail(w, r, "quotation: company", err)
		return
	}
	b, err := h.PDF.Generate(q, company)
	if err != nil {
		h.fail(w, r, "quotation: pdf", err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.pdf"`, q.Number))
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

func (h *Handlers) DeleteQuotation(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		h.writeError(w, r, http.StatusNotFound, "Not found")
		return
	}
	if err := h.Store.DeleteQuotation(r.Context(), id); err != nil {
		h.fail(w, r, "quotation: delete", err)
		return
	}
	h.Log.InfoContext(r.Context(), "quotation: deleted", "id", id)
	h.redirect(w, r, "/")
}

func (h *Handlers) ExportQuotations(w http.ResponseWriter, r *http.Request) {
	qs, err := h.Store.ListQuotations(r.Context())
	if err != nil {
		h.fail(w, r, "export: list", err)
		return
	}
	b, err := export.Excel(qs)
	if err != nil {
		h.fail(w, r, "export: excel", err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="quotations.xlsx"`)
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
