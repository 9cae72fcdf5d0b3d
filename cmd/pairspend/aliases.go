package main

import (
	"fmt"

	"github.com/pairspend/pairspend/internal/alias"
	"github.com/spf13/cobra"
)

func aliasesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aliases",
		Short: "Manage merchant display aliases",
		Long:  `View, create, and delete mappings from raw OCR merchant strings to display names.`,
	}

	cmd.AddCommand(aliasesAddCmd())
	cmd.AddCommand(aliasesListCmd())
	cmd.AddCommand(aliasesDeleteCmd())

	return cmd
}

func aliasesAddCmd() *cobra.Command {
	var createdBy string

	cmd := &cobra.Command{
		Use:   "add <ocr-merchant> <alias>",
		Short: "Alias a raw merchant string",
		Long:  `Map a raw OCR merchant string to a display alias for this couple.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			resolver := alias.NewResolver(store)
			id, err := resolver.CreateAlias(ctx, args[0], args[1], couple, createdBy)
			if err != nil {
				return err
			}

			cmd.Printf("Created alias %s: %q -> %q\n", id, args[0], args[1])
			return nil
		},
	}

	cmd.Flags().StringVar(&createdBy, "by", "", "user id creating the alias")
	return cmd
}

func aliasesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List aliases by usage",
		Long:  `List this couple's merchant aliases, most used first.`,
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

			resolver := alias.NewResolver(store)
			aliases, err := resolver.ListAliases(ctx, couple)
			if err != nil {
				return err
			}

			if len(aliases) == 0 {
				cmd.Println("No aliases yet")
				return nil
			}

			for _, a := range aliases {
				cmd.Printf("%-36s  %-24s -> %-24s used %d\n", a.ID, a.OCRMerchant, a.UserAlias, a.UsageCount)
			}
			return nil
		},
	}
}

func aliasesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <alias-id>",
		Short: "Delete an alias",
		Long: `Delete a merchant alias. Already-recorded expenses keep the display
names they were resolved to; future lookups fall back to the raw merchant.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			resolver := alias.NewResolver(store)
			if err := resolver.DeleteAlias(ctx, args[0], couple); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted alias %s\n", args[0])
			return nil
		},
	}
}
