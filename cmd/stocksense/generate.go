package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Veraticus/stocksense/internal/cli"
	"github.com/Veraticus/stocksense/internal/datagen"
	"github.com/Veraticus/stocksense/internal/storage"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func generateCmd() *cobra.Command {
	var (
		products int
		days     int
		seed     int64
		csvPath  string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a synthetic product catalog with sales history",
		Long: `Generate a synthetic catalog, daily sales history, and inventory
snapshots, then persist them to the database. The same seed always produces
the same data. Pass --csv to also export the inventory as a CSV file.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if products < 1 {
				return fmt.Errorf("--products must be at least 1")
			}
			if days < 1 {
				return fmt.Errorf("--days must be at least 1")
			}

			gen := datagen.New(seed)
			catalog := gen.Catalog(products)
			history := gen.SalesHistory(catalog, days, time.Now())
			inventory := gen.Inventory(catalog)

			slog.Info("generated synthetic dataset",
				"products", len(catalog),
				"observations", len(history),
				"days", days,
				"seed", seed,
			)

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.SaveProducts(ctx, catalog); err != nil {
				return fmt.Errorf("failed to save products: %w", err)
			}
			if err := store.SaveSalesObservations(ctx, history); err != nil {
				return fmt.Errorf("failed to save sales history: %w", err)
			}

			bar := progressbar.NewOptions(len(catalog),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(40),
				progressbar.OptionSetDescription("Saving inventory"),
			)
			for _, product := range catalog {
				snapshot, ok := inventory[product.ProductID]
				if !ok {
					continue
				}
				if err := store.SaveInventory(ctx, product.ProductID, snapshot); err != nil {
					return fmt.Errorf("failed to save inventory for %s: %w", product.ProductID, err)
				}
				_ = bar.Add(1)
			}
			_ = bar.Finish()
			cmd.Println()

			if csvPath != "" {
				enriched, err := store.GetInventory(ctx)
				if err != nil {
					return fmt.Errorf("failed to read back inventory: %w", err)
				}
				if err := storage.WriteInventoryCSV(csvPath, enriched); err != nil {
					return fmt.Errorf("failed to export CSV: %w", err)
				}
				cmd.Println(cli.FormatInfo(fmt.Sprintf("Exported inventory to %s", csvPath)))
			}

			cmd.Println(cli.FormatSuccess(fmt.Sprintf(
				"Generated %d products with %d days of sales history", len(catalog), days)))
			return nil
		},
	}

	cmd.Flags().IntVar(&products, "products", 200, "number of products to generate")
	cmd.Flags().IntVar(&days, "days", 365, "days of sales history")
	cmd.Flags().Int64Var(&seed, "seed", 42, "random seed")
	cmd.Flags().StringVar(&csvPath, "csv", "", "optional path to export inventory as CSV")

	return cmd
}
