package quote

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrCustomerInUse   = errors.New("customer has quotations")
	ErrDuplicateNumber = errors.New("quotation number already exists")
)

// DateLayout is the wire and storage format of quotation dates.
const DateLayout = "2006-01-02"

type Quotation struct {
	ID            int64
	Number        string
	Date          time.Time
	Customer      Customer
	PlaceOfSupply string
	Items         []Item

	TaxMode     TaxMode
	Totals      Totals
	CGSTPercent float64
	SGSTPercent float64
	IGSTPercent float64
}

// Item is a saved line item together with the amounts computed for it.
type Item struct {
	LineItem
	Line
}

type Customer struct {
	ID      int64
	Name    string
	Address string
	GSTIN   string
	State   string
}

type Company struct {
	Name         string
	AddressLine1 string
	State        string
	GSTIN        string
	Phone        string
}

// DefaultCompany is seeded when the store has no company profile yet.
var DefaultCompany = Company{
	Name:         "SRI VASAVI AGENCIES",
	AddressLine1: "No.54, West Car Street, Villianur, Puducherry-605 110.",
	State:        "Puducherry",
	GSTIN:        "34AGLPV5711E1ZC",
	Phone:        "99436 77409",
}

// NewQuotationNumber returns the number given to a quotation created at t.
func NewQuotationNumber(t time.Time) string {
	return fmt.Sprintf("QT-%d", t.Unix())
}

// QuotationNumber is NewQuotationNumber for the first attempt and adds a
// "-2", "-3", ... suffix for later attempts in the same second.
func QuotationNumber(t time.Time, attempt int) string {
	if attempt == 0 {
		return NewQuotationNumber(t)
	}
	return fmt.Sprintf("%s-%d", NewQuotationNumber(t), attempt+1)
}

var ErrAmountTooLarge = errors.New("quotation total is too large")

// Validate checks the computed amounts fit the stores.
func (q Quotation) Validate() error {
	if q.Totals.Grand > MaxAmount {
		return ErrAmountTooLarge
	}
	return nil
}

// Build computes every derived amount of a quotation from its items and the
// customer's GSTIN. Amounts are rounded to paise.
func Build(c *Calculator, number string, date time.Time, cust Customer, placeOfSupply string) Quotation {
	c.SetCustomerGSTIN(cust.GSTIN)
	if placeOfSupply == "" {
		placeOfSupply = cust.State
	}

	items := c.Items()
	lines := c.Lines()
	q := Quotation{
		Number:        number,
		Date:          date,
		Customer:      cust,
		PlaceOfSupply: placeOfSupply,
		TaxMode:       c.Mode(),
		Items:         make([]Item, len(items)),
	}
	for i := range items {
		q.Items[i] = Item{LineItem: items[i], Line: lines[i].Rounded()}
	}
	q.Totals = c.Totals().Rounded()
	q.CGSTPercent, q.SGSTPercent, q.IGSTPercent = EffectiveRates(q.Totals, q.TaxMode)
	return q
}
