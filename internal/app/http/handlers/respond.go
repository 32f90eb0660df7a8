package handlers

import (
	"net/http"

	"github.com/angelofallars/htmx-go"
)

// alertEvent is the client event the quotation page shows as an alert.
const alertEvent = "show-alert"

// redirect sends the browser to url. htmx requests get HX-Redirect since
// htmx does not follow 3xx responses into a full page load.
func (h *Handlers) redirect(w http.ResponseWriter, r *http.Request, url string) {
	if htmx.IsHTMX(r) {
		if err := htmx.NewResponse().Redirect(url).Write(w); err != nil {
			h.Log.ErrorContext(r.Context(), "http: htmx redirect", "err", err)
		}
		return
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// badRequest reports a validation message.
func (h *Handlers) badRequest(w http.ResponseWriter, r *http.Request, msg string) {
	h.writeError(w, r, http.StatusBadRequest, msg)
}
