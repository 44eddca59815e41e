package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/Veraticus/stocksense/internal/classifier"
	"github.com/Veraticus/stocksense/internal/cli"
	"github.com/Veraticus/stocksense/internal/common"
	"github.com/Veraticus/stocksense/internal/datagen"
	"github.com/Veraticus/stocksense/internal/model"
	"github.com/Veraticus/stocksense/internal/risk"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func trainCmd() *cobra.Command {
	var (
		algorithm string
		output    string
		seed      int64
	)

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train the stockout-risk classifier",
		Long: `Train the risk classifier on labeled data built from the stored
catalog, sales history, and inventory. With no --algorithm, every backend is
trained and the one with the best AUC on the holdout set is saved.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			var algorithms []classifier.Algorithm
			if algorithm != "" {
				algorithms = []classifier.Algorithm{classifier.Algorithm(algorithm)}
			} else {
				algorithms = classifier.Algorithms()
			}

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			catalog, err := store.GetProducts(ctx)
			if err != nil {
				return fmt.Errorf("failed to load products: %w", err)
			}
			if len(catalog) == 0 {
				return fmt.Errorf("%w: run 'stocksense generate' first", common.ErrNoProducts)
			}

			history, err := store.GetSalesObservations(ctx, nil)
			if err != nil {
				return fmt.Errorf("failed to load sales history: %w", err)
			}

			inventory, err := store.GetInventory(ctx)
			if err != nil {
				return fmt.Errorf("failed to load inventory: %w", err)
			}
			snapshots := make(map[string]model.InventorySnapshot, len(inventory))
			for _, p := range inventory {
				snapshots[p.ProductID] = p.InventorySnapshot
			}

			labeled := datagen.TrainingSet(catalog, history, snapshots)
			slog.Info("built training set", "rows", len(labeled))

			bar := progressbar.NewOptions(len(algorithms),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(40),
				progressbar.OptionSetDescription("Training"),
			)

			var (
				rows      []cli.TrainingRow
				bestModel *risk.Model
				bestAUC   float64
				best      classifier.Algorithm
			)
			for _, alg := range algorithms {
				m := risk.NewModel()
				report, err := m.Train(ctx, labeled, risk.TrainOptions{Algorithm: alg, Seed: seed})
				if err != nil {
					return fmt.Errorf("training %s failed: %w", alg, err)
				}
				rows = append(rows, cli.TrainingRow{
					Algorithm: string(report.Algorithm),
					AUC:       report.AUCScore,
					Accuracy:  report.Accuracy,
				})
				if bestModel == nil || report.AUCScore > bestAUC {
					bestModel = m
					bestAUC = report.AUCScore
					best = alg
				}
				_ = bar.Add(1)
			}
			_ = bar.Finish()
			cmd.Println()

			outPath := output
			if outPath == "" {
				if outPath, err = modelPath(); err != nil {
					return err
				}
			}
			if err := bestModel.Save(outPath); err != nil {
				return fmt.Errorf("failed to save model: %w", err)
			}

			cmd.Println(cli.RenderTrainingReport(rows, string(best)))
			cmd.Println(cli.FormatSuccess(fmt.Sprintf("Saved %s model to %s", best, outPath)))
			return nil
		},
	}

	cmd.Flags().StringVar(&algorithm, "algorithm", "", "backend to train (random_forest, gradient_boost, logistic); default trains all")
	cmd.Flags().StringVar(&output, "output", "", "path for the saved model artifact")
	cmd.Flags().Int64Var(&seed, "seed", 42, "random seed for the train/test split")

	return cmd
}
