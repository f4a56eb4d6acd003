package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eliseohh/cafebot/internal/seed"
)

func newSeedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file>",
		Short: "Replace the catalog with a YAML or XLSX file",
		Long: `Import a catalog file into the database, replacing every drink and dessert.

YAML files hold "drinks" and "desserts" lists. XLSX workbooks hold sheets of
the same names with a header row (id, category, name, volume, description,
ingredients, preparation, shelf_life, storage_info, image_path).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := seed.LoadFile(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			db, err := a.openCatalog(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			stats, err := seed.Apply(ctx, db, c, a.log)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d drinks and %d desserts in %d categories into %s\n",
				stats.Drinks, stats.Desserts, stats.Categories, a.cfg.Database)
			return nil
		},
	}
}

func newDumpCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dump <file>",
		Short: "Export the catalog to a YAML or XLSX file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, err := a.openCatalog(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			c, err := seed.Dump(ctx, db)
			if err != nil {
				return err
			}
			if err := seed.WriteFile(args[0], c); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d drinks and %d desserts to %s\n", len(c.Drinks), len(c.Desserts), args[0])
			return nil
		},
	}
}
