package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/render"

	"vasavi/quotation/internal/domain/quote"
)

// SearchCustomers serves the quotation page's customer lookup.
func (h *Handlers) SearchCustomers(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	limit := quote.SearchLimit
	if q == "" {
		limit = quote.BrowseLimit
	}
	customers, err := h.Store.SearchCustomers(r.Context(), q, limit)
	if err != nil {
		h.fail(w, r, "customers: search", err)
		return
	}
	render.JSON(w, r, newCustomerViews(customers))
}

func (h *Handlers) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.Store.ListCustomers(r.Context())
	if err != nil {
		h.fail(w, r, "customers: list", err)
		return
	}
	company, err := h.Store.Company(r.Context())
	if err != nil {
		h.fail(w, r, "customers: company", err)
		return
	}
	render.JSON(w, r, struct {
		Company   companyView    `json:"company"`
		Customers []customerView `json:"customers"`
	}{newCompanyView(company), newCustomerViews(customers)})
}

func customerFromForm(r *http.Request) quote.Customer {
	return quote.Customer{
		Name:    strings.TrimSpace(r.PostFormValue("name")),
		Address: strings.TrimSpace(r.PostFormValue("address")),
		GSTIN:   strings.ToUpper(strings.TrimSpace(r.PostFormValue("gstin"))),
		State:   strings.TrimSpace(r.PostFormValue("state")),
	}
}

func (h *Handlers) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	c := customerFromForm(r)
	if err := c.Validate(); err != nil {
		h.badRequest(w, r, quote.Message(err))
		return
	}
	if err := h.Store.CreateCustomer(r.Context(), &c); err != nil {
		h.fail(w, r, "customers: create", err)
		return
	}
	h.Log.InfoContext(r.Context(), "customers: created", "id", c.ID, "name", c.Name)
	h.redirect(w, r, "/customers")
}

func (h *Handlers) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		h.writeError(w, r, http.StatusNotFound, "Not found")
		return
	}
	if _, err := h.Store.GetCustomer(r.Context(), id); err != nil {
		h.fail(w, r, "customers: get", err)
		return
	}
	c := customerFromForm(r)
	c.ID = id
	if err := c.Validate(); err != nil {
		h.badRequest(w, r, quote.Message(err))
		return
	}
	if err := h.Store.UpdateCustomer(r.Context(), c); err != nil {
		h.fail(w, r, "customers: update", err)
		return
	}
	h.redirect(w, r, "/customers")
}

func (h *Handlers) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		h.writeError(w, r, http.StatusNotFound, "Not found")
		return
	}
	if err := h.Store.DeleteCustomer(r.Context(), id); err != nil {
		h.fail(w, r, "customers: delete", err)
		return
	}
	h.Log.InfoContext(r.Context(), "customers: deleted", "id", id)
	h.redirect(w, r, "/customers")
}
