package cli

import (
	"github.com/spf13/cobra"

	"vasavi/quotation/internal/app"
	"vasavi/quotation/internal/app/config"
)

func newServeCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the quotation HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			if envFile == "" {
				return app.Run(config.MustLoad())
			}
			cfg, err := config.Load(envFile)
			if err != nil {
				return err
			}
			return app.Run(cfg)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Env file to load instead of .env")
	return cmd
}
