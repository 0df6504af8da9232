package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

type productsResponse struct {
	Items []struct {
		ID          string `json:"id"`
		ProductName string `json:"product_name"`
		SizeLabel   string `json:"size_label"`
		Strength    string `json:"strength"`
		Stock       string `json:"stock"`
	} `json:"items"`
}

func newProductsCommand(client *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "products",
		Short: "List the monitored catalog with last known stock state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp productsResponse
			if err := client.get("/v1/products", &resp); err != nil {
				return err
			}

			rows := make([][]string, 0, len(resp.Items))
			for _, item := range resp.Items {
				rows = append(rows, []string{
					item.ID,
					item.ProductName,
					item.SizeLabel,
					item.Strength,
					item.Stock,
				})
			}

			fmt.Println(renderTable(
				[]string{"ID", "Product", "Size", "Strength", "Stock"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	}
}
