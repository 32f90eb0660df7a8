package quote

import (
	"strings"

	"github.com/shopspring/decimal"
)

func round2(v float64) decimal.Decimal {
	return decimal.NewFromFloat(nonNegative(v)).Round(2)
}

// Rounded rounds the line to paise. Total stays Basic+GST.
func (l Line) Rounded() Line {
	basic, gst := round2(l.Basic), round2(l.GST)
	return Line{
		Basic: basic.InexactFloat64(),
		GST:   gst.InexactFloat64(),
		Total: basic.Add(gst).InexactFloat64(),
	}
}

// Rounded rounds the totals to paise. Grand stays Basic+GST and the CGST/SGST
// halves always add back up to GST.
func (t Totals) Rounded() Totals {
	basic, gst := round2(t.Basic), round2(t.GST)
	out := Totals{
		Basic: basic.InexactFloat64(),
		GST:   gst.InexactFloat64(),
		Grand: basic.Add(gst).InexactFloat64(),
	}
	if t.CGST != 0 || t.SGST != 0 {
		cgst := gst.Div(decimal.NewFromInt(2)).Round(2)
		out.CGST = cgst.InexactFloat64()
		out.SGST = gst.Sub(cgst).InexactFloat64()
	} else {
		out.IGST = out.GST
	}
	return out
}

// EffectiveRates returns the CGST, SGST and IGST percentages recorded on a
// quotation: the weighted GST rate of its items, halved for intra-state supply.
func EffectiveRates(t Totals, mode TaxMode) (cgst, sgst, igst float64) {
	if t.Basic <= 0 {
		return 0, 0, 0
	}
	rate := decimal.NewFromFloat(t.GST).
		Div(decimal.NewFromFloat(t.Basic)).
		Mul(decimal.NewFromInt(100))
	if mode == Intra {
		half := rate.Div(decimal.NewFromInt(2)).Round(2).InexactFloat64()
		return half, half, 0
	}
	return 0, 0, rate.Round(2).InexactFloat64()
}

// RoundOff is the adjustment that brings amount to the nearest rupee.
func RoundOff(amount float64) float64 {
	d := decimal.NewFromFloat(amount)
	return d.Round(0).Sub(d).Round(2).InexactFloat64()
}

// FormatINR formats an amount as rupees with Indian digit grouping,
// e.g. ₹1,23,45,678.90.
func FormatINR(amount float64) string {
	if amount < 0 {
		return "-₹" + GroupINR(-amount)
	}
	return "₹" + GroupINR(amount)
}

// GroupINR is FormatINR without the currency sign.
func GroupINR(amount float64) string {
	d := decimal.NewFromFloat(amount).Round(2)
	neg := d.IsNegative()
	raw := d.Abs().StringFixed(2)

	intPart, decPart, _ := strings.Cut(raw, ".")
	s := groupIndian(intPart) + "." + decPart
	if neg {
		s = "-" + s
	}
	return s
}

// groupIndian keeps the last three digits together and groups the rest in pairs.
func groupIndian(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	result := s[n-3:]
	rest := s[:n-3]
	for len(rest) > 2 {
		result = rest[len(rest)-2:] + "," + result
		rest = rest[:len(rest)-2]
	}
	if rest != "" {
		result = rest + "," + result
	}
	return result
}

// AmountInWords spells the amount rounded to whole rupees in the Indian
// numbering system, e.g. "One Lakh Twenty Thousand Only".
func AmountInWords(amount float64) string {
	n := decimal.NewFromFloat(amount).Abs().Round(0).IntPart()
	if n == 0 {
		return "Zero Only"
	}
	return indianWords(n) + " Only"
}

func indianWords(n int64) string {
	var parts []string
	if n >= 10000000 {
		parts = append(parts, indianWords(n/10000000)+" Crore")
		n %= 10000000
	}
	if n >= 100000 {
		parts = append(parts, chunkWords(n/100000)+" Lakh")
		n %= 100000
	}
	if n >= 1000 {
		parts = append(parts, chunkWords(n/1000)+" Thousand")
		n %= 1000
	}
	if n > 0 {
		parts = append(parts, chunkWords(n))
	}
	return strings.Join(parts, " ")
}

// chunkWords spells 1..999.
func chunkWords(n int64) string {
	switch {
	case n < 20:
		return ones[n]
	case n < 100:
		if n%10 == 0 {
			return tens[n/10]
		}
		return tens[n/10] + " " + ones[n%10]
	default:
		s := ones[n/100] + " Hundred"
		if n%100 != 0 {
			s += " and " + chunkWords(n%100)
		}
		return s
	}
}

var ones = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
	"Seventeen", "Eighteen", "Nineteen",
}

var tens = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}
