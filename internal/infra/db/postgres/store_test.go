package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vasavi/quotation/internal/domain/quote"
)

// newTestDB connects to QUOTATION_TEST_DATABASE_URL; the test is skipped
// when it is not set.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	dsn := os.Getenv("QUOTATION_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("QUOTATION_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	db, err := New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = db.Pool.Exec(ctx, `TRUNCATE quotation_items, quotations, customers, company RESTART IDENTITY`)
		db.Close()
	})
	_, err = db.Pool.Exec(ctx, `TRUNCATE quotation_items, quotations, customers, company RESTART IDENTITY`)
	require.NoError(t, err)
	return db
}

func TestStore_QuotationRoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.EnsureCompany(ctx, quote.DefaultCompany))
	company, err := db.Company(ctx)
	require.NoError(t, err)
	assert.Equal(t, quote.DefaultCompany, company)

	c := quote.NewCalculator(quote.HomeStateCode)
	c.AddItem(quote.LineItem{Description: "Cement", Quantity: 2, UnitRate: 100, GSTRatePercent: 18})
	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	number := fmt.Sprintf("QT-%d", time.Now().UnixNano())
	q := quote.Build(c, number, date, quote.Customer{Name: "Ravi Traders", GSTIN: "34ABCDE1234F1Z5", State: "Puducherry"}, "")
	require.NoError(t, db.CreateQuotation(ctx, &q))

	got, err := db.GetQuotation(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, number, got.Number)
	assert.Equal(t, quote.Intra, got.TaxMode)
	assert.Equal(t, 236.0, got.Totals.Grand)
	assert.Equal(t, 18.0, got.Totals.CGST)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 236.0, got.Items[0].Total)

	dup := q
	dup.Customer = quote.Customer{Name: "Other"}
	assert.ErrorIs(t, db.CreateQuotation(ctx, &dup), quote.ErrDuplicateNumber)

	found, err := db.SearchCustomers(ctx, "RAVI", quote.SearchLimit)
	require.NoError(t, err)
	require.Len(t, found, 1)

	assert.ErrorIs(t, db.DeleteCustomer(ctx, q.Customer.ID), quote.ErrCustomerInUse)
	require.NoError(t, db.DeleteQuotation(ctx, q.ID))
	require.NoError(t, db.DeleteCustomer(ctx, q.Customer.ID))
	_, err = db.GetQuotation(ctx, q.ID)
	assert.ErrorIs(t, err, quote.ErrNotFound)
}
