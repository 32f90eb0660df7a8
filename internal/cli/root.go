package cli

import (
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "quotation",
		Short:         "GST quotation service and tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(
		newServeCmd(),
		newTotalsCmd(),
		newSearchCmd(),
	)
	return cmd
}
