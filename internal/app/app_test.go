package app

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vasavi/quotation/internal/app/config"
	"vasavi/quotation/internal/domain/quote"
	"vasavi/quotation/internal/infra/db/sqlite"
)

func TestOpenStore_SQLite(t *testing.T) {
	cfg := config.Config{SQLitePath: filepath.Join(t.TempDir(), "data", "q.db")}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	store, closer, err := OpenStore(t.Context(), cfg, log)
	require.NoError(t, err)
	defer closer.Close()

	assert.IsType(t, &sqlite.Store{}, store)
	require.NoError(t, store.EnsureCompany(t.Context(), quote.DefaultCompany))
	c, err := store.Company(t.Context())
	require.NoError(t, err)
	assert.Equal(t, quote.DefaultCompany.Name, c.Name)
}
