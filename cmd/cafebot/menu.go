package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/eliseohh/cafebot/internal/catalog"
	"github.com/eliseohh/cafebot/internal/menu"
)

func newMenuCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "menu [drinks|desserts]",
		Short:     "Print the menu as guests will see it",
		Long:      `Print every category with the buttons it shows and the token each button sends.`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(catalog.Drinks), string(catalog.Desserts)},
		RunE: func(cmd *cobra.Command, args []string) error {
			tables := []catalog.Table{catalog.Drinks, catalog.Desserts}
			if len(args) == 1 {
				t, err := catalog.ParseTable(args[0])
				if err != nil {
					return err
				}
				tables = []catalog.Table{t}
			}

			ctx := cmd.Context()
			db, err := a.openCatalog(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			engine := menu.NewEngine(db, a.cfg.Menu, a.log)
			for _, t := range tables {
				if err := renderMenu(ctx, cmd.OutOrStdout(), db, engine, t); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func renderMenu(ctx context.Context, w io.Writer, db *catalog.DB, engine *menu.Engine, t catalog.Table) error {
	cats, err := db.Categories(ctx, t)
	if err != nil {
		return err
	}
	if len(cats) == 0 {
		_, _ = fmt.Fprintf(w, "(no %s)\n", t)
		return nil
	}

	cfg := engine.Config()

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.SetTitle(strings.ToUpper(string(t)))
	tw.AppendHeader(table.Row{"Category", "Button", "Items", "Token"})

	for _, cat := range cats {
		label := fmt.Sprintf("%s (%s)", cfg.CategoryLabel(cat), cat)

		if t == catalog.Drinks {
			groups, err := engine.DrinkGroups(ctx, cat)
			if err != nil {
				return err
			}
			for _, g := range groups {
				tw.AppendRow(table.Row{label, g.Name, len(g.Items), menu.Encode(g.Target(cat))})
			}
			tw.AppendSeparator()
			continue
		}

		if sd, ok := cfg.SpecialDesserts[cat]; ok && sd.ItemID != "" {
			tw.AppendRow(table.Row{label, "photo card: " + strings.Join(sd.Images, ", "), 1, menu.Encode(menu.DessertCategory{Category: cat})})
			tw.AppendSeparator()
			continue
		}
		items, err := db.Items(ctx, t, cat)
		if err != nil {
			return err
		}
		for _, it := range items {
			tw.AppendRow(table.Row{label, it.Name, 1, menu.Encode(menu.Dessert{ID: it.ID})})
		}
		tw.AppendSeparator()
	}

	tw.Render()
	return nil
}
