package main

import (
	"github.com/spf13/cobra"

	"github.com/needmomatcha/stockwatch/internal/config"
)

func newRootCommand() *cobra.Command {
	var baseURLFlag string
	var tokenFlag string

	client := &apiClient{}

	rootCmd := &cobra.Command{
		Use:           "stockwatchctl",
		Short:         "Admin CLI for the stockwatch services",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg := config.Load()

			client.baseURL = cfg.APIBaseURL
			if baseURLFlag != "" {
				client.baseURL = baseURLFlag
			}
			client.token = cfg.CtlToken
			if tokenFlag != "" {
				client.token = tokenFlag
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&baseURLFlag, "api", "", "Base URL of the stockwatch API service")
	rootCmd.PersistentFlags().StringVar(&tokenFlag, "token", "", "Bearer token for the API service")

	rootCmd.AddCommand(newDevModeCommand(client))
	rootCmd.AddCommand(newProductsCommand(client))
	rootCmd.AddCommand(newCyclesCommand(client))

	return rootCmd
}
