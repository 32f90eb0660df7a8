package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"vasavi/quotation/internal/domain/quote"
)

func newTotalsCmd() *cobra.Command {
	var gstin, home string

	cmd := &cobra.Command{
		Use:   "totals <items.json|->",
		Short: "Price line items for a customer GSTIN",
		Long: "Reads a JSON array of items ({description, qty, rate, unit, gst_rate})\n" +
			"and prints each line with the quotation totals.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}

			var items []quote.ItemInput
			if err := json.NewDecoder(r).Decode(&items); err != nil {
				return fmt.Errorf("reading items: %w", err)
			}

			c := quote.NewCalculator(home)
			for _, it := range items {
				c.AddItem(it.LineItem())
			}
			c.SetCustomerGSTIN(gstin)
			printTotals(cmd.OutOrStdout(), c)
			return nil
		},
	}

	cmd.Flags().StringVar(&gstin, "gstin", "", "Customer GSTIN")
	cmd.Flags().StringVar(&home, "home-state", quote.HomeStateCode, "GST state code of the seller")
	return cmd
}

func printTotals(w io.Writer, c *quote.Calculator) {
	items := c.Items()
	for i, l := range c.Lines() {
		l = l.Rounded()
		it := items[i]
		fmt.Fprintf(w, "%2d  %-30s %8g %-4s x %12s  @%2g%%  %14s\n",
			i+1, it.Description, it.Quantity, it.Unit, quote.GroupINR(it.UnitRate),
			it.GSTRatePercent, quote.FormatINR(l.Total))
	}

	t := c.Totals().Rounded()
	fmt.Fprintf(w, "\nTax mode: %s\n", c.Mode())
	fmt.Fprintf(w, "Basic:    %s\n", quote.FormatINR(t.Basic))
	if c.Mode() == quote.Intra {
		fmt.Fprintf(w, "CGST:     %s\n", quote.FormatINR(t.CGST))
		fmt.Fprintf(w, "SGST:     %s\n", quote.FormatINR(t.SGST))
	} else {
		fmt.Fprintf(w, "IGST:     %s\n", quote.FormatINR(t.IGST))
	}
	fmt.Fprintf(w, "Grand:    %s\n", quote.FormatINR(t.Grand))
	fmt.Fprintf(w, "In words: %s\n", quote.AmountInWords(t.Grand))
}
