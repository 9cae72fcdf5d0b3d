package main

import (
	"github.com/pairspend/pairspend/internal/alias"
	"github.com/pairspend/pairspend/internal/engine"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func predictCmd() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "predict <merchant> <amount>",
		Short: "Predict a category without recording anything",
		Long: `Run the categorization pipeline for a merchant and amount against this
couple's history and print the ranked result.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			couple, err := coupleID()
			if err != nil {
				return err
			}

			amount, err := decimal.NewFromString(args[1])
			if err != nil {
				return err
			}

			store, cfg, err := openStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			ctx := cmd.Context()
			if err := store.Migrate(ctx); err != nil {
				return err
			}

			resolver := alias.NewResolver(store)
			merchant, err := resolver.Resolve(ctx, args[0], couple)
			if err != nil {
				return err
			}

			history, err := store.ListExpenses(ctx, couple, 0)
			if err != nil {
				return err
			}

			result := engine.New(engine.Config{}).PredictCategory(ctx, engine.PredictRequest{
				Merchant:    merchant,
				Amount:      amount,
				Description: description,
				History:     history,
				Categories:  cfg.Categories,
			})

			cmd.Printf("Merchant: %s\n", merchant)
			if result.BelowThreshold {
				cmd.Printf("No confident category (best guess below %.0f%%)\n", 55.0)
			} else {
				cmd.Printf("Category: %s (%.0f%%, via %s)\n", result.Category, result.Confidence*100, result.Source)
			}
			for _, alt := range result.Alternatives {
				cmd.Printf("  alternative: %s (%.0f%%)\n", alt.Category, alt.Confidence*100)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "free-text description")
	return cmd
}
