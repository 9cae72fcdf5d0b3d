package main

import (
	"time"

	"github.com/google/uuid"
	"github.com/pairspend/pairspend/internal/alias"
	"github.com/pairspend/pairspend/internal/engine"
	"github.com/pairspend/pairspend/internal/model"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func expensesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expenses",
		Short: "Manage the shared expense ledger",
	}

	cmd.AddCommand(expensesAddCmd())
	cmd.AddCommand(expensesListCmd())

	return cmd
}

func expensesAddCmd() *cobra.Command {
	var (
		description string
		category    string
	)

	cmd := &cobra.Command{
		Use:   "add <merchant> <amount>",
		Short: "Record an expense",
		Long: `Record an expense. The merchant is resolved through the alias table and,
unless a category is given, one is predicted from your history.`,
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

			if category == "" {
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

				if result.BelowThreshold {
					cmd.Println("No confident category; recording uncategorized")
					for _, alt := range result.Alternatives {
						cmd.Printf("  maybe %s (%.0f%%)\n", alt.Category, alt.Confidence*100)
					}
				} else {
					category = result.Category
					cmd.Printf("Predicted category %s (%.0f%%, %s)\n", result.Category, result.Confidence*100, result.Source)
				}
			}

			expense := model.Expense{
				ID:          uuid.NewString(),
				CoupleID:    couple,
				Date:        time.Now(),
				Merchant:    merchant,
				Category:    category,
				Amount:      amount,
				Description: description,
			}
			if err := store.SaveExpenses(ctx, []model.Expense{expense}); err != nil {
				return err
			}

			cmd.Printf("Recorded %s %s at %s\n", expense.ID, amount.StringFixed(2), merchant)
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "free-text description")
	cmd.Flags().StringVarP(&category, "category", "c", "", "category (skips prediction)")
	return cmd
}

func expensesListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent expenses",
		RunE: func(cmd *cobra.Command, _ []string) error {
			couple, err := coupleID()
			if err != nil {
				return err
			}

			store, _, err := openStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			ctx := cmd.Context()
			if err := store.Migrate(ctx); err != nil {
				return err
			}

			expenses, err := store.ListExpenses(ctx, couple, limit)
			if err != nil {
				return err
			}

			if len(expenses) == 0 {
				cmd.Println("No expenses yet")
				return nil
			}

			for _, e := range expenses {
				category := e.Category
				if category == "" {
					category = "(uncategorized)"
				}
				cmd.Printf("%s  %-24s %10s  %s\n", e.Date.Format("2006-01-02"), e.Merchant, e.Amount.StringFixed(2), category)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "maximum entries to show")
	return cmd
}
