package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

type cyclesResponse struct {
	Items []struct {
		CycleID       string        `json:"cycle_id"`
		Status        string        `json:"status"`
		Checked       int           `json:"checked"`
		FetchFailures int           `json:"fetch_failures"`
		Transitions   int           `json:"transitions"`
		Notified      int           `json:"notified"`
		SendFailures  int           `json:"send_failures"`
		StartedAt     time.Time     `json:"started_at"`
		Duration      time.Duration `json:"duration"`
	} `json:"items"`
}

func newCyclesCommand(client *apiClient) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "cycles",
		Short: "Show recent polling cycles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp cyclesResponse
			if err := client.get("/v1/cycles?limit="+strconv.Itoa(limit), &resp); err != nil {
				return err
			}

			rows := make([][]string, 0, len(resp.Items))
			for _, item := range resp.Items {
				rows = append(rows, []string{
					item.StartedAt.Format(time.RFC3339),
					item.Status,
					strconv.Itoa(item.Checked),
					strconv.Itoa(item.FetchFailures),
					strconv.Itoa(item.Transitions),
					strconv.Itoa(item.Notified),
					strconv.Itoa(item.SendFailures),
					item.Duration.Round(time.Millisecond).String(),
				})
			}

			fmt.Println(renderTable(
				[]string{"Started", "Status", "Checked", "Fetch Err", "Changes", "Notified", "Send Err", "Duration"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Number of cycles to show")
	return cmd
}
