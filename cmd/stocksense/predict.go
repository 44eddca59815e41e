package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/Veraticus/stocksense/internal/cli"
	"github.com/Veraticus/stocksense/internal/model"
	"github.com/Veraticus/stocksense/internal/predictor"

	"github.com/spf13/cobra"
)

func predictCmd() *cobra.Command {
	var (
		inputCSV        string
		salesCSV        string
		modelFlag       string
		threshold       float64
		saveAssessments bool
	)

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Assess stockout risk across the inventory",
		Long: `Score every product and print the results sorted by risk. Products
come from the database, or from a CSV file with --input. When a trained model
artifact exists it is used; otherwise scoring falls back to the coverage
heuristic. Predictions always complete even when the model is unavailable.`,
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
			if svc.Model() == nil {
				cmd.Println(cli.FormatWarning("No trained model found; scoring with the coverage heuristic"))
			}

			var assessments []model.RiskAssessment
			if threshold > 0 {
				assessments, err = svc.HighRiskProducts(ctx, inventory, history, threshold)
			} else {
				assessments, err = svc.PredictBatch(ctx, inventory, history)
			}
			if err != nil {
				return err
			}

			if saveAssessments {
				store, err := openStorage(ctx)
				if err != nil {
					return err
				}
				defer func() { _ = store.Close() }()
				if err := store.SaveAssessments(ctx, assessments); err != nil {
					return fmt.Errorf("failed to save assessments: %w", err)
				}
				cmd.Println(cli.FormatInfo(fmt.Sprintf("Saved %d assessments", len(assessments))))
			}

			cmd.Println(renderAssessments(assessments))
			return nil
		},
	}

	cmd.Flags().StringVar(&inputCSV, "input", "", "inventory CSV to score instead of the database")
	cmd.Flags().StringVar(&salesCSV, "sales", "", "sales history CSV to pair with --input")
	cmd.Flags().StringVar(&modelFlag, "model", "", "path to a trained model artifact")
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "only show products with risk at or above this score")
	cmd.Flags().BoolVar(&saveAssessments, "save-assessments", false, "persist the assessments to the database")

	return cmd
}

// predictorService builds a prediction service from the configured model
// artifact, falling back to the heuristic when no artifact can be loaded.
func predictorService(modelFlag string) (*predictor.Service, error) {
	path := modelFlag
	if path == "" {
		var err error
		if path, err = modelPath(); err != nil {
			return nil, err
		}
		if _, err := os.Stat(path); err != nil {
			slog.Info("no model artifact found, using heuristic scoring", "path", path)
			return predictor.New(nil), nil
		}
	}

	svc, err := predictor.NewFromArtifact(path)
	if err != nil {
		if modelFlag != "" {
			return nil, fmt.Errorf("failed to load model: %w", err)
		}
		slog.Warn("failed to load model artifact, using heuristic scoring", "path", path, "error", err)
		return predictor.New(nil), nil
	}
	return svc, nil
}

func renderAssessments(assessments []model.RiskAssessment) string {
	var b strings.Builder
	b.WriteString(cli.FormatTitle("Stockout Risk Assessment"))
	b.WriteString("\n\n")
	for _, a := range assessments {
		b.WriteString(fmt.Sprintf("  %-12s  %.2f  %-12s (%s)\n",
			a.ProductID, a.RiskScore, a.RiskCategory, a.Source))
	}
	b.WriteString(fmt.Sprintf("\n%d products assessed\n", len(assessments)))
	return b.String()
}
