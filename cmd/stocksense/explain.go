package main

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/stocksense/internal/cli"
	"github.com/Veraticus/stocksense/internal/common"
	"github.com/Veraticus/stocksense/internal/explain"
	"github.com/Veraticus/stocksense/internal/llm"
	"github.com/Veraticus/stocksense/internal/model"
	"github.com/Veraticus/stocksense/internal/service"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func explainCmd() *cobra.Command {
	var (
		inputCSV  string
		salesCSV  string
		modelFlag string
		summary   bool
	)

	cmd := &cobra.Command{
		Use:   "explain [PRODUCT_ID]",
		Short: "Explain the risk assessment for a product",
		Long: `Break a product's risk assessment down into its contributing
factors with actionable suggestions. With --summary, produce an executive
summary across the whole inventory instead. Configure an llm provider to
enrich explanations with generated narratives; without one, template
narratives are used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !summary && len(args) == 0 {
				return fmt.Errorf("%w: a PRODUCT_ID argument or --summary is required", common.ErrInvalidConfig)
			}

			inventory, history, err := loadInventory(ctx, inputCSV, salesCSV)
			if err != nil {
				return err
			}

			svc, err := predictorService(modelFlag)
			if err != nil {
				return err
			}

			if summary {
				prepared := svc.Prepare(inventory, history)
				assessments, err := svc.PredictBatch(ctx, inventory, history)
				if err != nil {
					return err
				}
				cmd.Println(cli.RenderExecutiveSummary(explain.Summarize(prepared, assessments)))
				return nil
			}

			productID := args[0]
			var target *model.Product
			prepared := svc.Prepare(inventory, history)
			for i := range prepared {
				if prepared[i].ProductID == productID {
					target = &prepared[i]
					break
				}
			}
			if target == nil {
				return fmt.Errorf("%w: product %s", common.ErrNotFound, productID)
			}

			assessment, err := svc.PredictOne(ctx, *target)
			if err != nil {
				return err
			}

			narrator, cleanup := buildNarrator()
			defer cleanup()

			engine := explain.New(narrator)
			cmd.Println(cli.RenderExplanation(engine.Explain(ctx, *target, assessment)))
			return nil
		},
	}

	cmd.Flags().StringVar(&inputCSV, "input", "", "inventory CSV to read instead of the database")
	cmd.Flags().StringVar(&salesCSV, "sales", "", "sales history CSV to pair with --input")
	cmd.Flags().StringVar(&modelFlag, "model", "", "path to a trained model artifact")
	cmd.Flags().BoolVar(&summary, "summary", false, "produce an executive summary of the whole inventory")

	return cmd
}

// buildNarrator assembles the optional narrative provider from config. Any
// failure degrades to template narratives rather than aborting the command.
func buildNarrator() (service.NarrativeGenerator, func()) {
	cfg := llm.Config{
		Provider:          viper.GetString("llm.provider"),
		APIKey:            viper.GetString("llm.api_key"),
		Model:             viper.GetString("llm.model"),
		BaseURL:           viper.GetString("llm.base_url"),
		Temperature:       viper.GetFloat64("llm.temperature"),
		MaxTokens:         viper.GetInt("llm.max_tokens"),
		RequestsPerMinute: viper.GetInt("llm.requests_per_minute"),
	}

	client, err := llm.NewClient(cfg)
	if err != nil {
		slog.Warn("narrative provider unavailable, using template narratives", "error", err)
		return nil, func() {}
	}
	if client == nil {
		return nil, func() {}
	}

	narrator, err := llm.NewNarrator(client, cfg)
	if err != nil {
		slog.Warn("narrative provider unavailable, using template narratives", "error", err)
		return nil, func() {}
	}
	return narrator, narrator.Close
}
