package quote

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Draft is a quotation as submitted by the quotation page.
type Draft struct {
	Date          string        `json:"date"`
	PlaceOfSupply string        `json:"place_of_supply"`
	Customer      CustomerInput `json:"customer"`
	Items         []ItemInput   `json:"items"`
	Totals        *TotalsInput  `json:"totals,omitempty"`
}

type CustomerInput struct {
	ID      Number `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	GSTIN   string `json:"gstin"`
	State   string `json:"state"`
}

type ItemInput struct {
	Description string `json:"description"`
	Qty         Number `json:"qty"`
	Rate        Number `json:"rate"`
	Unit        string `json:"unit"`
	GSTRate     Number `json:"gst_rate"`

	// Amounts computed by the page; informational only.
	Basic Number `json:"basic,omitempty"`
	GST   Number `json:"gst,omitempty"`
	Total Number `json:"total,omitempty"`
}

type TotalsInput struct {
	Basic Number `json:"basic"`
	GST   Number `json:"gst"`
	Grand Number `json:"grand"`
	IGST  Number `json:"igst"`
	CGST  Number `json:"cgst"`
	SGST  Number `json:"sgst"`
}

// Normalize trims the free-text fields and fills in default units.
func (d *Draft) Normalize() {
	d.Date = strings.TrimSpace(d.Date)
	d.PlaceOfSupply = strings.TrimSpace(d.PlaceOfSupply)
	d.Customer.Name = strings.TrimSpace(d.Customer.Name)
	d.Customer.Address = strings.TrimSpace(d.Customer.Address)
	d.Customer.GSTIN = strings.ToUpper(strings.TrimSpace(d.Customer.GSTIN))
	d.Customer.State = strings.TrimSpace(d.Customer.State)
	for i := range d.Items {
		it := &d.Items[i]
		it.Description = strings.TrimSpace(it.Description)
		it.Unit = strings.ToUpper(strings.TrimSpace(it.Unit))
		if it.Unit == "" {
			it.Unit = DefaultUnit
		}
	}
}

func (d Draft) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Date,
			validation.Required.Error("Quotation date is required"),
			validation.Date(DateLayout).Error("Quotation date must be in YYYY-MM-DD format"),
		),
		validation.Field(&d.PlaceOfSupply, validation.RuneLength(0, MaxNameLen).Error("Place of supply is too long")),
		validation.Field(&d.Customer),
		validation.Field(&d.Items, validation.Required.Error("Add at least one line item")),
	)
}

// Column sizes shared by both stores.
const (
	MaxNameLen        = 100
	MaxAddressLen     = 255
	MaxGSTINLen       = 20
	MaxStateLen       = 50
	MaxPhoneLen       = 20
	MaxDescriptionLen = 255
	// MaxAmount is the largest amount a NUMERIC(14,2) column holds.
	MaxAmount = 999_999_999_999.99
)

// maxCustomerID keeps ids within the range a float64 represents exactly.
const maxCustomerID = 1 << 53

func validCustomerID(v interface{}) error {
	n, _ := v.(Number)
	f := float64(n)
	if f < 0 || f != math.Trunc(f) || f > maxCustomerID {
		return errors.New("Customer id must be a whole number")
	}
	return nil
}

func (c CustomerInput) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.ID, validation.By(validCustomerID)),
		validation.Field(&c.Name,
			validation.Required.Error("Customer name is required"),
			validation.RuneLength(0, MaxNameLen).Error("Customer name is too long"),
		),
		validation.Field(&c.GSTIN,
			validation.Required.Error("Customer GSTIN is required"),
			validation.RuneLength(0, MaxGSTINLen).Error("Customer GSTIN is too long"),
		),
		validation.Field(&c.Address,
			validation.Required.Error("Customer address is required"),
			validation.RuneLength(0, MaxAddressLen).Error("Customer address is too long"),
		),
		validation.Field(&c.State,
			validation.Required.Error("Customer state is required"),
			validation.RuneLength(0, MaxStateLen).Error("Customer state is too long"),
		),
	)
}

func (it ItemInput) Validate() error {
	units := make([]interface{}, len(Units))
	for i, u := range Units {
		units[i] = u
	}
	return validation.ValidateStruct(&it,
		validation.Field(&it.Description,
			validation.Required.Error("Item description is required"),
			validation.RuneLength(0, MaxDescriptionLen).Error("Item description is too long"),
		),
		validation.Field(&it.Unit, validation.In(units...).Error("Unit must be one of NOS, KGS, LTS, PKTS")),
		validation.Field(&it.GSTRate, validation.By(func(v interface{}) error {
			if n, ok := v.(Number); ok && IsGSTRate(float64(n)) {
				return nil
			}
			return errors.New("GST rate must be one of 0, 5, 12, 18, 28")
		})),
	)
}

func (d Draft) ParsedDate() (time.Time, error) {
	t, err := time.Parse(DateLayout, d.Date)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", d.Date, err)
	}
	return t, nil
}

func (d Draft) CustomerValue() Customer {
	return Customer{
		ID:      int64(d.Customer.ID),
		Name:    d.Customer.Name,
		Address: d.Customer.Address,
		GSTIN:   d.Customer.GSTIN,
		State:   d.Customer.State,
	}
}

// Calculator loads the draft's rows into a calculator for the customer's GSTIN.
func (d Draft) Calculator(homeStateCode string) *Calculator {
	c := NewCalculator(homeStateCode)
	for _, it := range d.Items {
		c.AddItem(it.LineItem())
	}
	c.SetCustomerGSTIN(d.Customer.GSTIN)
	return c
}

func (it ItemInput) LineItem() LineItem {
	return LineItem{
		Description:    it.Description,
		Unit:           it.Unit,
		Quantity:       it.Qty.Float(),
		UnitRate:       it.Rate.Float(),
		GSTRatePercent: it.GSTRate.Float(),
	}
}

// Matches reports whether the totals sent by the page agree with t to the paisa.
func (in TotalsInput) Matches(t Totals) bool {
	near := func(a Number, b float64) bool {
		d := float64(a) - b
		return d < 0.005 && d > -0.005
	}
	return near(in.Basic, t.Basic) && near(in.GST, t.GST) && near(in.Grand, t.Grand) &&
		near(in.IGST, t.IGST) && near(in.CGST, t.CGST) && near(in.SGST, t.SGST)
}

// fieldOrder is the order in which the quotation page lays out its fields.
var fieldOrder = []string{
	"date", "place_of_supply", "customer", "id", "name", "gstin", "address", "state", "items",
	"description", "unit", "gst_rate",
}

func fieldRank(key string) int {
	if n, err := strconv.Atoi(key); err == nil {
		return n
	}
	for i, f := range fieldOrder {
		if f == key {
			return i
		}
	}
	return len(fieldOrder)
}

// Message returns the first problem reported by a Validate method, taking
// fields in page order and items by row.
func Message(err error) string {
	var errs validation.Errors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return err.Error()
	}
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ri, rj := fieldRank(keys[i]), fieldRank(keys[j])
		if ri != rj {
			return ri < rj
		}
		return keys[i] < keys[j]
	})
	return Message(errs[keys[0]])
}

// Validate checks a customer saved from the customers form.
func (c Customer) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Name,
			validation.Required.Error("Customer name is required"),
			validation.RuneLength(0, MaxNameLen).Error("Customer name is too long"),
		),
		validation.Field(&c.Address, validation.RuneLength(0, MaxAddressLen).Error("Customer address is too long")),
		validation.Field(&c.GSTIN, validation.RuneLength(0, MaxGSTINLen).Error("Customer GSTIN is too long")),
		validation.Field(&c.State, validation.RuneLength(0, MaxStateLen).Error("Customer state is too long")),
	)
}

func (c Company) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Name,
			validation.Required.Error("Company name is required"),
			validation.RuneLength(0, MaxNameLen).Error("Company name is too long"),
		),
		validation.Field(&c.AddressLine1, validation.RuneLength(0, 200).Error("Company address is too long")),
		validation.Field(&c.State, validation.RuneLength(0, MaxStateLen).Error("Company state is too long")),
		validation.Field(&c.GSTIN, validation.Length(15, 15).Error("GSTIN must be 15 characters")),
		validation.Field(&c.Phone, validation.RuneLength(0, MaxPhoneLen).Error("Phone number is too long")),
	)
}
