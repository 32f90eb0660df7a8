package quote

import (
	"errors"
	"math"
	"strings"
)

// HomeStateCode is the GST state code of the company (Puducherry).
const HomeStateCode = "34"

var ErrNoSuchItem = errors.New("no such line item")

// GSTRates are the slab percentages a line item may carry.
var GSTRates = []float64{0, 5, 12, 18, 28}

func IsGSTRate(p float64) bool {
	for _, r := range GSTRates {
		if p == r {
			return true
		}
	}
	return false
}

// Units a line item may be measured in. The first one is the default.
var Units = []string{"NOS", "KGS", "LTS", "PKTS"}

const DefaultUnit = "NOS"

// DefaultGSTRate is preselected for new rows.
const DefaultGSTRate = 18

type LineItem struct {
	Description    string
	Unit           string
	Quantity       float64
	UnitRate       float64
	GSTRatePercent float64
}

type Line struct {
	Basic float64
	GST   float64
	Total float64
}

// TaxMode tells how the GST of a quotation is split. Inter is the zero value.
type TaxMode int

const (
	Inter TaxMode = iota
	Intra
)

func (m TaxMode) String() string {
	if m == Intra {
		return "intra"
	}
	return "inter"
}

func (m TaxMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *TaxMode) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "intra":
		*m = Intra
	case "inter", "":
		*m = Inter
	default:
		return errors.New("unknown tax mode " + string(b))
	}
	return nil
}

type Totals struct {
	Basic float64
	GST   float64
	Grand float64
	IGST  float64
	CGST  float64
	SGST  float64
}

// nonNegative maps negative, NaN and infinite inputs to zero.
func nonNegative(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func ComputeLine(item LineItem) Line {
	basic := nonNegative(item.Quantity) * nonNegative(item.UnitRate)
	gst := basic * nonNegative(item.GSTRatePercent) / 100
	return Line{Basic: basic, GST: gst, Total: basic + gst}
}

func ComputeTotals(items []LineItem, mode TaxMode) Totals {
	var basic, gst float64
	for _, it := range items {
		l := ComputeLine(it)
		basic += l.Basic
		gst += l.GST
	}
	return split(basic, gst, mode)
}

func split(basic, gst float64, mode TaxMode) Totals {
	t := Totals{Basic: basic, GST: gst, Grand: basic + gst}
	if mode == Intra {
		t.CGST = gst / 2
		t.SGST = gst / 2
	} else {
		t.IGST = gst
	}
	return t
}

func DeriveTaxMode(gstin string) TaxMode {
	return DeriveTaxModeFor(HomeStateCode, gstin)
}

// DeriveTaxModeFor treats a customer registered in the home state as intra-state.
func DeriveTaxModeFor(home, gstin string) TaxMode {
	gstin = strings.TrimSpace(gstin)
	if home != "" && strings.HasPrefix(gstin, home) {
		return Intra
	}
	return Inter
}

// Calculator holds the line items of a quotation being edited and the tax
// mode of its customer. It is not safe for concurrent use.
type Calculator struct {
	home  string
	mode  TaxMode
	items []LineItem
}

func NewCalculator(homeStateCode string) *Calculator {
	if homeStateCode == "" {
		homeStateCode = HomeStateCode
	}
	return &Calculator{home: homeStateCode}
}

// AddItem appends a row and returns its index.
func (c *Calculator) AddItem(item LineItem) int {
	if item.Unit == "" {
		item.Unit = DefaultUnit
	}
	c.items = append(c.items, item)
	return len(c.items) - 1
}

func (c *Calculator) UpdateItem(i int, item LineItem) error {
	if i < 0 || i >= len(c.items) {
		return ErrNoSuchItem
	}
	if item.Unit == "" {
		item.Unit = DefaultUnit
	}
	c.items[i] = item
	return nil
}

func (c *Calculator) RemoveItem(i int) error {
	if i < 0 || i >= len(c.items) {
		return ErrNoSuchItem
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	return nil
}

func (c *Calculator) SetCustomerGSTIN(gstin string) {
	c.mode = DeriveTaxModeFor(c.home, gstin)
}

func (c *Calculator) Mode() TaxMode { return c.mode }

func (c *Calculator) Len() int { return len(c.items) }

func (c *Calculator) Items() []LineItem {
	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Calculator) Lines() []Line {
	out := make([]Line, len(c.items))
	for i, it := range c.items {
		out[i] = ComputeLine(it)
	}
	return out
}

func (c *Calculator) Totals() Totals {
	return ComputeTotals(c.items, c.mode)
}
