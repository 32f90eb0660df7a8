package cli

import (
	"bytes"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vasavi/quotation/internal/app/config"
	apphttp "vasavi/quotation/internal/app/http"
	"vasavi/quotation/internal/domain/quote"
	"vasavi/quotation/internal/infra/db/sqlite"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

const items = `[
	{"description": "Cement", "qty": "2", "rate": "100", "unit": "NOS", "gst_rate": 18},
	{"description": "Sand", "qty": 1, "rate": 1000, "unit": "KGS", "gst_rate": "5"}
]`

func TestTotalsCmd_Intra(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.json")
	require.NoError(t, os.WriteFile(path, []byte(items), 0o600))

	out, err := run(t, "", "totals", "--gstin", "34ABCDE1234F1Z5", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Tax mode: intra")
	assert.Contains(t, out, "CGST:     ₹43.00")
	assert.Contains(t, out, "Grand:    ₹1,286.00")
	assert.Contains(t, out, "One Thousand Two Hundred and Eighty Six Only")
	assert.NotContains(t, out, "IGST")
}

func TestTotalsCmd_InterFromStdin(t *testing.T) {
	out, err := run(t, items, "totals", "--gstin", "33ABCDE1234F1Z5", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "Tax mode: inter")
	assert.Contains(t, out, "IGST:     ₹86.00")
}

func TestTotalsCmd_BadInput(t *testing.T) {
	_, err := run(t, "not json", "totals", "-")
	assert.ErrorContains(t, err, "reading items")
}

func TestSearchCmd(t *testing.T) {
	store, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	defer store.Close()
	c := quote.Customer{Name: "Ravi Traders", GSTIN: "34ABCDE1234F1Z5", State: "Puducherry"}
	require.NoError(t, store.CreateCustomer(t.Context(), &c))

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := httptest.NewServer(apphttp.NewRouter(config.Config{HomeStateCode: "34"}, store, log))
	defer srv.Close()

	out, err := run(t, "", "search", "--server", srv.URL, "ravi")
	require.NoError(t, err)
	assert.Contains(t, out, "Ravi Traders")
	assert.Contains(t, out, "34ABCDE1234F1Z5")

	out, err = run(t, "", "search", "--server", srv.URL, "zz")
	require.NoError(t, err)
	assert.Contains(t, out, "No customers found.")

	_, err = run(t, "", "search", "--server", srv.URL, "r")
	assert.ErrorContains(t, err, "at least 2 characters")
}
