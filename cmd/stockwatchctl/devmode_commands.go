package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

type devModeBody struct {
	Enabled bool   `json:"enabled"`
	UserID  string `json:"user_id,omitempty"`
}

type devModeResponse struct {
	DevMode struct {
		Enabled bool   `json:"enabled"`
		UserID  string `json:"user_id"`
	} `json:"dev_mode"`
}

func newDevModeCommand(client *apiClient) *cobra.Command {
	devCmd := &cobra.Command{
		Use:   "devmode",
		Short: "Switch between development and production notification routing",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	enableCmd := &cobra.Command{
		Use:   "enable [user_id]",
		Short: "Route all notifications to a single user",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := devModeBody{Enabled: true}
			if len(args) > 0 {
				body.UserID = args[0]
			}

			var resp devModeResponse
			if err := client.put("/v1/devmode", body, &resp); err != nil {
				return err
			}

			fmt.Println("Development mode enabled")
			fmt.Printf("Only sending messages to user: %s\n", resp.DevMode.UserID)
			fmt.Println("The change takes effect on the monitor's next cycle.")
			return nil
		},
	}

	disableCmd := &cobra.Command{
		Use:   "disable",
		Short: "Restore production notification routing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp devModeResponse
			if err := client.put("/v1/devmode", devModeBody{Enabled: false}, &resp); err != nil {
				return err
			}

			fmt.Println("Development mode disabled")
			fmt.Println("The change takes effect on the monitor's next cycle.")
			return nil
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show the current dev-mode setting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp devModeResponse
			if err := client.get("/v1/devmode", &resp); err != nil {
				return err
			}

			if resp.DevMode.Enabled {
				fmt.Println("Development mode: enabled")
				fmt.Printf("Dev user: %s\n", resp.DevMode.UserID)
			} else {
				fmt.Println("Development mode: disabled")
			}
			return nil
		},
	}

	devCmd.AddCommand(enableCmd)
	devCmd.AddCommand(disableCmd)
	devCmd.AddCommand(statusCmd)

	return devCmd
}
