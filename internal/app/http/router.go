package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"vasavi/quotation/internal/app/config"
	"vasavi/quotation/internal/app/http/handlers"
	"vasavi/quotation/internal/app/http/middleware"
	"vasavi/quotation/internal/domain/quote"
)

func NewRouter(cfg config.Config, store quote.Store, log *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Logging(log))
	r.Use(middleware.CORS(cfg.CORSAllowOrigin))

	h := handlers.New(store, cfg, log)

	r.Get("/health", h.Health)
	r.Get("/", h.Dashboard)

	r.Route("/api", func(r chi.Router) {
		r.Get("/customers", h.SearchCustomers)
		r.Post("/totals", h.Totals)
	})

	r.Post("/quotation/new", h.CreateQuotation)
	r.Get("/quotation/{id}", h.GetQuotation)
	r.Get("/quotation/{id}/pdf", h.QuotationPDF)
	r.Get("/quotations/export.xlsx", h.ExportQuotations)

	r.Get("/company", h.GetCompany)
	r.Post("/company", h.SaveCompany)

	r.Get("/customers", h.ListCustomers)
	r.Post("/customers", h.CreateCustomer)
	r.Post("/customers/edit/{id}", h.UpdateCustomer)

	r.Group(func(r chi.Router) {
		r.Use(middleware.InternalAuth(cfg.AdminToken))

		r.Post("/quotation/delete/{id}", h.DeleteQuotation)
		r.Post("/customers/delete/{id}", h.DeleteCustomer)
	})

	return r
}
