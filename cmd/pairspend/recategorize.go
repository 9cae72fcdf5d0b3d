package main

import (
	"github.com/pairspend/pairspend/internal/engine"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func recategorizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recategorize",
		Short: "Re-predict categories across the whole ledger",
		Long: `Re-run the categorization pipeline over every recorded expense and
persist confident changes. Entries without a confident prediction are left alone.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			couple, err := coupleID()
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

			total, err := store.CountExpenses(ctx, couple)
			if err != nil {
				return err
			}

			bar := progressbar.NewOptions(total,
				progressbar.OptionSetWriter(cmd.OutOrStdout()),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(40),
				progressbar.OptionSetDescription("Recategorizing..."),
			)

			stats, err := engine.New(engine.Config{}).Recategorize(ctx, store, couple, cfg.Categories, func(_, _ int) {
				_ = bar.Add(1)
			})
			if err != nil {
				return err
			}

			cmd.Println()
			cmd.Printf("Recategorized %d expenses: %d updated, %d unchanged, %d below threshold\n",
				stats.Total, stats.Updated, stats.Unchanged, stats.BelowThreshold)
			return nil
		},
	}
}
