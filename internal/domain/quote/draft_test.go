package quote

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pagePayload mirrors what the quotation page posts: numbers as strings.
const pagePayload = `{
	"date": "2026-03-14",
	"place_of_supply": "",
	"customer": {"id": "", "name": " Ravi Traders ", "address": "12 Main Road", "gstin": "34abcde1234f1z5", "state": "Puducherry"},
	"items": [
		{"description": "Cement", "qty": "2", "rate": "100", "unit": "nos", "gst_rate": "18", "basic": "200", "gst": "36", "total": "236"},
		{"description": "Sand", "qty": "abc", "rate": 50, "unit": "", "gst_rate": 5}
	],
	"totals": {"basic": 200, "gst": 36, "grand": 236, "igst": 0, "cgst": 18, "sgst": 18}
}`

func decodeDraft(t *testing.T, s string) Draft {
	t.Helper()
	var d Draft
	require.NoError(t, json.Unmarshal([]byte(s), &d))
	d.Normalize()
	return d
}

func TestDraft_DecodeLenientNumbers(t *testing.T) {
	d := decodeDraft(t, pagePayload)

	assert.Equal(t, Number(0), d.Customer.ID)
	assert.Equal(t, "Ravi Traders", d.Customer.Name)
	assert.Equal(t, "34ABCDE1234F1Z5", d.Customer.GSTIN)
	require.Len(t, d.Items, 2)
	assert.Equal(t, 2.0, d.Items[0].Qty.Float())
	assert.Equal(t, "NOS", d.Items[0].Unit)
	assert.Equal(t, 0.0, d.Items[1].Qty.Float())
	assert.Equal(t, 50.0, d.Items[1].Rate.Float())
	assert.Equal(t, DefaultUnit, d.Items[1].Unit)
	require.NoError(t, d.Validate())
}

func TestNumber_Unmarshal(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{`12.5`, 12.5},
		{`"12.5"`, 12.5},
		{`" 7 "`, 7},
		{`""`, 0},
		{`"1e2"`, 100},
		{`"NaN"`, 0},
		{`"Infinity"`, 0},
		{`"12abc"`, 0},
		{`null`, 0},
		{`true`, 0},
	}
	for _, tt := range tests {
		var n Number
		require.NoError(t, json.Unmarshal([]byte(tt.in), &n), tt.in)
		assert.Equal(t, tt.want, n.Float(), tt.in)
	}
}

func TestDraft_Calculator(t *testing.T) {
	d := decodeDraft(t, pagePayload)
	c := d.Calculator(HomeStateCode)

	assert.Equal(t, Intra, c.Mode())
	tot := c.Totals()
	assert.InDelta(t, 200, tot.Basic, eps)
	assert.InDelta(t, 36, tot.GST, eps)
	assert.InDelta(t, 18, tot.CGST, eps)
	assert.True(t, d.Totals.Matches(tot))

	d.Totals.Grand = 999
	assert.False(t, d.Totals.Matches(tot))
}

func TestDraft_ValidateCustomerFields(t *testing.T) {
	d := decodeDraft(t, `{"date": "2026-03-14", "customer": {"name": "  "}, "items": [{"description": "x", "gst_rate": 18}]}`)

	err := d.Validate()
	require.Error(t, err)

	var errs validation.Errors
	require.ErrorAs(t, err, &errs)
	custErrs, ok := errs["customer"].(validation.Errors)
	require.True(t, ok)
	assert.EqualError(t, custErrs["name"], "Customer name is required")
	assert.EqualError(t, custErrs["gstin"], "Customer GSTIN is required")
	assert.EqualError(t, custErrs["address"], "Customer address is required")
	assert.EqualError(t, custErrs["state"], "Customer state is required")
}

func TestDraft_ValidateDateAndItems(t *testing.T) {
	base := `"customer": {"name": "A", "gstin": "33X", "address": "B", "state": "TN"}`

	d := decodeDraft(t, `{"date": "14/03/2026", `+base+`, "items": []}`)
	var errs validation.Errors
	require.ErrorAs(t, d.Validate(), &errs)
	assert.EqualError(t, errs["date"], "Quotation date must be in YYYY-MM-DD format")
	assert.EqualError(t, errs["items"], "Add at least one line item")

	d = decodeDraft(t, `{"date": "2026-03-14", `+base+`, "items": [{"description": "", "unit": "BOX", "gst_rate": 7}]}`)
	require.ErrorAs(t, d.Validate(), &errs)
	itemErrs, ok := errs["items"].(validation.Errors)
	require.True(t, ok)
	first, ok := itemErrs["0"].(validation.Errors)
	require.True(t, ok)
	assert.EqualError(t, first["description"], "Item description is required")
	assert.EqualError(t, first["unit"], "Unit must be one of NOS, KGS, LTS, PKTS")
	assert.EqualError(t, first["gst_rate"], "GST rate must be one of 0, 5, 12, 18, 28")
}

func TestBuild(t *testing.T) {
	d := decodeDraft(t, pagePayload)
	date, err := d.ParsedDate()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), date)

	q := Build(d.Calculator(HomeStateCode), "QT-1", date, d.CustomerValue(), d.PlaceOfSupply)

	assert.Equal(t, "Puducherry", q.PlaceOfSupply)
	assert.Equal(t, Intra, q.TaxMode)
	require.Len(t, q.Items, 2)
	assert.Equal(t, 236.0, q.Items[0].Total)
	assert.Equal(t, 0.0, q.Items[1].Total)
	assert.Equal(t, 236.0, q.Totals.Grand)
	assert.Equal(t, 9.0, q.CGSTPercent)
	assert.Equal(t, 9.0, q.SGSTPercent)
	assert.Zero(t, q.IGSTPercent)
}

func TestMessage_PageOrder(t *testing.T) {
	d := decodeDraft(t, `{"date": "", "customer": {"name": ""}, "items": []}`)
	assert.Equal(t, "Quotation date is required", Message(d.Validate()))

	d = decodeDraft(t, `{"date": "2026-03-14", "customer": {"name": "A", "gstin": "", "address": ""}, "items": []}`)
	assert.Equal(t, "Customer GSTIN is required", Message(d.Validate()))

	d = decodeDraft(t, `{"date": "2026-03-14", "customer": {"name": "A", "gstin": "33X", "address": "B", "state": "TN"},
		"items": [{"description": "ok", "gst_rate": 18}, {"description": "", "unit": "BOX", "gst_rate": 18}]}`)
	assert.Equal(t, "Item description is required", Message(d.Validate()))

	assert.Equal(t, "boom", Message(errors.New("boom")))
}

func TestCustomerAndCompany_Validate(t *testing.T) {
	assert.EqualError(t, Customer{}.Validate(), "name: Customer name is required.")
	assert.NoError(t, Customer{Name: "Ravi Traders"}.Validate())

	assert.Equal(t, "GSTIN must be 15 characters", Message(Company{Name: "X", GSTIN: "34ABC"}.Validate()))
	assert.NoError(t, DefaultCompany.Validate())
}

func TestDraft_ValidateCustomerID(t *testing.T) {
	base := `"date": "2026-03-14", "items": [{"description": "x", "gst_rate": 18}],
		"customer": {"name": "A", "gstin": "33X", "address": "B", "state": "TN", "id": %s}`

	for _, id := range []string{`"3.7"`, `-1`, `1e30`} {
		d := decodeDraft(t, "{"+fmt.Sprintf(base, id)+"}")
		assert.Equal(t, "Customer id must be a whole number", Message(d.Validate()), id)
	}
	for _, id := range []string{`""`, `0`, `"42"`} {
		d := decodeDraft(t, "{"+fmt.Sprintf(base, id)+"}")
		assert.NoError(t, d.Validate(), id)
	}
}

func TestDraft_ValidateLengths(t *testing.T) {
	d := decodeDraft(t, pagePayload)
	d.Normalize()
	require.NoError(t, d.Validate())

	long := d
	long.Customer.Name = strings.Repeat("R", MaxNameLen+1)
	assert.Equal(t, "Customer name is too long", Message(long.Validate()))

	long = d
	long.Items = append([]ItemInput(nil), d.Items...)
	long.Items[1].Description = strings.Repeat("s", MaxDescriptionLen+1)
	assert.Equal(t, "Item description is too long", Message(long.Validate()))

	// Lengths count characters, not bytes.
	long = d
	long.Customer.Name = strings.Repeat("ஸ", MaxNameLen)
	assert.NoError(t, long.Validate())

	assert.Equal(t, "Customer address is too long",
		Message(Customer{Name: "A", Address: strings.Repeat("a", MaxAddressLen+1)}.Validate()))
	assert.Equal(t, "Phone number is too long",
		Message(Company{Name: "A", Phone: strings.Repeat("9", MaxPhoneLen+1)}.Validate()))
}

func TestQuotation_ValidateAmount(t *testing.T) {
	c := NewCalculator(HomeStateCode)
	c.AddItem(LineItem{Description: "Bulk", Quantity: 1e9, UnitRate: 1e4, GSTRatePercent: 18})
	q := Build(c, "QT-1", time.Now(), Customer{Name: "A"}, "")
	assert.ErrorIs(t, q.Validate(), ErrAmountTooLarge)

	c = NewCalculator(HomeStateCode)
	c.AddItem(LineItem{Description: "Cement", Quantity: 2, UnitRate: 100, GSTRatePercent: 18})
	q = Build(c, "QT-1", time.Now(), Customer{Name: "A"}, "")
	assert.NoError(t, q.Validate())
}
