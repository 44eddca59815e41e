package main

import (
	"github.com/Veraticus/stocksense/internal/cli"

	"github.com/spf13/cobra"
)

func dashboardCmd() *cobra.Command {
	var (
		inputCSV  string
		salesCSV  string
		modelFlag string
	)

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show an inventory risk dashboard",
		Long: `Summarize the inventory's risk posture: bucket counts, the
highest-risk products, per-category averages, and active alerts.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			inventory, history, err := loadInventory(ctx, inputCSV, salesCSV)
			if err != nil {
				return err
			}

			svc, err := predictorService(modelFlag)
			if err != nil {
				return err
			}

			summary, err := svc.DashboardSummary(ctx, inventory, history)
			if err != nil {
				return err
			}

			cmd.Println(cli.RenderDashboard(summary))
			return nil
		},
	}

	cmd.Flags().StringVar(&inputCSV, "input", "", "inventory CSV to read instead of the database")
	cmd.Flags().StringVar(&salesCSV, "sales", "", "sales history CSV to pair with --input")
	cmd.Flags().StringVar(&modelFlag, "model", "", "path to a trained model artifact")

	return cmd
}
