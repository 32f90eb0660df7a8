package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/angelofallars/htmx-go"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"vasavi/quotation/internal/app/config"
	"vasavi/quotation/internal/domain/quote"
	"vasavi/quotation/internal/domain/quote/pdf"
	pdfgen "vasavi/quotation/internal/domain/quote/pdf/gofpdf"
)

type Handlers struct {
	Store quote.Store
	Cfg   config.Config
	Log   *slog.Logger
	PDF   pdf.Generator
	Now   func() time.Time
}

func New(store quote.Store, cfg config.Config, log *slog.Logger) *Handlers {
	return &Handlers{
		Store: store,
		Cfg:   cfg,
		Log:   log,
		PDF:   pdfgen.New(),
		Now:   time.Now,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// statusFor maps store and domain errors to response codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, quote.ErrNotFound), errors.Is(err, quote.ErrNoSuchItem):
		return http.StatusNotFound
	case errors.Is(err, quote.ErrCustomerInUse), errors.Is(err, quote.ErrDuplicateNumber):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError answers with {error}. htmx requests also get the message as an
// HX-Trigger alert since htmx does not swap error responses.
func (h *Handlers) writeError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	if htmx.IsHTMX(r) {
		headers, err := htmx.NewResponse().AddTrigger(htmx.TriggerDetail(alertEvent, msg)).Headers()
		if err != nil {
			h.Log.ErrorContext(r.Context(), "http: htmx trigger", "err", err)
		}
		for k, v := range headers {
			w.Header().Set(k, v)
		}
	}
	render.Status(r, code)
	render.JSON(w, r, errorResponse{Error: msg})
}

// fail logs err and answers with the status it maps to. Server errors hide
// the cause from the client.
func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, action string, err error) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		h.Log.ErrorContext(r.Context(), action, "err", err)
		h.writeError(w, r, code, "Something went wrong, please try again")
		return
	}
	h.Log.InfoContext(r.Context(), action, "err", err)
	h.writeError(w, r, code, errorMessage(err))
}

func errorMessage(err error) string {
	switch {
	case errors.Is(err, quote.ErrNotFound):
		return "Not found"
	case errors.Is(err, quote.ErrCustomerInUse):
		return "Customer has quotations and cannot be deleted"
	case errors.Is(err, quote.ErrDuplicateNumber):
		return "Could not assign a quotation number, please try again"
	default:
		return err.Error()
	}
}

func idParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}
