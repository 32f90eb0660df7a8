package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"vasavi/quotation/internal/client"
)

func newSearchCmd() *cobra.Command {
	var server string
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "search <name>",
		Short: "Look up customers on a running service",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := strings.Join(args, " ")
			if len([]rune(strings.TrimSpace(q))) < client.MinQueryLength {
				return fmt.Errorf("query must be at least %d characters", client.MinQueryLength)
			}

			c := client.New(server, nil)
			ctx := cmd.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}
			customers, err := c.SearchCustomers(ctx, q)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(customers) == 0 {
				fmt.Fprintln(out, "No customers found.")
				return nil
			}
			for _, cu := range customers {
				fmt.Fprintf(out, "%4d  %-30s %-15s %s\n", cu.ID, cu.Name, cu.GSTIN, cu.State)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&server, "server", "http://localhost:8080", "Base URL of the quotation service")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	return cmd
}
