package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vasavi/quotation/internal/app/config"
	"vasavi/quotation/internal/domain/quote"
	"vasavi/quotation/internal/infra/db/sqlite"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("quotation 7: %w", quote.ErrNotFound), http.StatusNotFound},
		{quote.ErrNoSuchItem, http.StatusNotFound},
		{quote.ErrCustomerInUse, http.StatusConflict},
		{fmt.Errorf("quotation QT-1: %w", quote.ErrDuplicateNumber), http.StatusConflict},
		{errors.New("disk full"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}

func TestErrorMessage_HidesWrappedText(t *testing.T) {
	err := fmt.Errorf("quotation QT-1700000002: %w", quote.ErrDuplicateNumber)
	assert.Equal(t, "Could not assign a quotation number, please try again", errorMessage(err))
	assert.Equal(t, "Not found", errorMessage(fmt.Errorf("customer 9: %w", quote.ErrNotFound)))
}

func newTestHandlers(t *testing.T, now time.Time) (*Handlers, *sqlite.Store) {
	t.Helper()
	store, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	h := New(store, config.Config{HomeStateCode: "34"}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	h.Now = func() time.Time { return now }
	return h, store
}

const draftBody = `{
	"date": "2026-03-14",
	"customer": {"name": "Ravi Traders", "address": "12 Main Road", "gstin": "34ABCDE1234F1Z5", "state": "Puducherry"},
	"items": [{"description": "Cement", "qty": "2", "rate": "100", "unit": "NOS", "gst_rate": "18"}]
}`

func create(h *Handlers, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/quotation/new", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.CreateQuotation(rec, req)
	return rec
}

func TestCreateQuotation_SameSecondGetsSuffixedNumbers(t *testing.T) {
	now := time.Unix(1700000000, 0)
	h, store := newTestHandlers(t, now)

	for i := 0; i < 5; i++ {
		rec := create(h, draftBody)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	qs, err := store.ListQuotations(t.Context())
	require.NoError(t, err)
	numbers := make([]string, 0, len(qs))
	for _, q := range qs {
		numbers = append(numbers, q.Number)
	}
	assert.ElementsMatch(t, []string{
		"QT-1700000000", "QT-1700000000-2", "QT-1700000000-3", "QT-1700000000-4", "QT-1700000000-5",
	}, numbers)
}

func TestCreateQuotation_TotalTooLarge(t *testing.T) {
	h, store := newTestHandlers(t, time.Now())

	body := strings.Replace(draftBody, `"rate": "100"`, `"rate": "1000000000000"`, 1)
	rec := create(h, body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Quotation total is too large", resp.Error)

	qs, err := store.ListQuotations(t.Context())
	require.NoError(t, err)
	assert.Empty(t, qs)
}
