package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eliseohh/cafebot/internal/seed"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the catalog against the menu tables and images",
		Long: `Report special desserts whose item or photos are missing, dessert photos
that are not on disk and variant pickers with fewer than two drinks.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			db, err := a.openCatalog(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			problems, err := seed.Check(ctx, db, a.cfg.Menu, a.cfg.ImagesDir)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for _, p := range problems {
				_, _ = fmt.Fprintln(w, p)
			}
			if len(problems) > 0 {
				return fmt.Errorf("%d problems found", len(problems))
			}
			_, _ = fmt.Fprintln(w, "catalog OK")
			return nil
		},
	}
}
