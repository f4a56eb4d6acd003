// Package seed moves whole catalogs between files and the database. The
// menu itself never writes; seeding replaces both tables in one transaction.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/eliseohh/cafebot/internal/catalog"
	"github.com/eliseohh/cafebot/internal/menu"
)

var ErrInvalid = errors.New("invalid catalog")

// Catalog is the full content of both tables in display order.
type Catalog struct {
	Drinks   []catalog.Item `yaml:"drinks"`
	Desserts []catalog.Item `yaml:"desserts"`
}

type Stats struct {
	Drinks     int
	Desserts   int
	Categories int
}

func (c Catalog) rows(t catalog.Table) []catalog.Item {
	if t == catalog.Desserts {
		return c.Desserts
	}
	return c.Drinks
}

// Validate rejects rows the menu could not route to: missing keys,
// duplicate ids and values that break or overflow callback tokens.
func (c Catalog) Validate() error {
	var errs []error
	for _, t := range []catalog.Table{catalog.Drinks, catalog.Desserts} {
		seen := make(map[string]bool)
		for i, it := range c.rows(t) {
			at := fmt.Sprintf("%s[%d]", t, i)
			if it.ID != "" {
				at = fmt.Sprintf("%s %q", t, it.ID)
			}

			switch {
			case it.ID == "", it.Category == "", it.Name == "":
				errs = append(errs, fmt.Errorf("%s: id, category and name are required", at))
				continue
			case seen[it.ID]:
				errs = append(errs, fmt.Errorf("%s: duplicate id", at))
				continue
			}
			seen[it.ID] = true

			if strings.Contains(it.ID, "|") || strings.Contains(it.Category, "|") {
				errs = append(errs, fmt.Errorf("%s: id and category must not contain '|'", at))
				continue
			}
			for _, a := range routes(t, it) {
				if tok := menu.Encode(a); len(tok) > menu.MaxTokenLen {
					errs = append(errs, fmt.Errorf("%s: button token %q exceeds %d bytes", at, tok, menu.MaxTokenLen))
					break
				}
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

// routes lists the actions that will carry the item's id or category.
func routes(t catalog.Table, it catalog.Item) []menu.Action {
	if t == catalog.Desserts {
		return []menu.Action{menu.Dessert{ID: it.ID}, menu.DessertCategory{Category: it.Category}}
	}
	return []menu.Action{
		menu.Drink{ID: it.ID},
		menu.DrinkCategory{Category: it.Category},
		menu.DrinkVariants{BaseID: it.ID, Category: it.Category},
	}
}

// Apply replaces the contents of both tables with c. The tables are created
// when missing. Nothing is written unless every row goes in.
func Apply(ctx context.Context, db *catalog.DB, c Catalog, logger *slog.Logger) (Stats, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if err := c.Validate(); err != nil {
		return Stats{}, err
	}
	if err := db.InitSchema(ctx); err != nil {
		return Stats{}, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to begin seed: %w", err)
	}
	defer tx.Rollback()

	var stats Stats
	for _, t := range []catalog.Table{catalog.Drinks, catalog.Desserts} {
		if err := catalog.Truncate(ctx, tx, t); err != nil {
			return Stats{}, err
		}

		cats := make(map[string]bool)
		for _, it := range c.rows(t) {
			if err := catalog.Insert(ctx, tx, t, it); err != nil {
				return Stats{}, err
			}
			cats[it.Category] = true
		}
		stats.Categories += len(cats)
		logger.Debug("seeded table", slog.String("table", string(t)), slog.Int("rows", len(c.rows(t))), slog.Int("categories", len(cats)))
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("failed to commit seed: %w", err)
	}

	stats.Drinks, stats.Desserts = len(c.Drinks), len(c.Desserts)
	logger.Info("catalog seeded", slog.Int("drinks", stats.Drinks), slog.Int("desserts", stats.Desserts))
	return stats, nil
}

// Dump reads both tables back in display order.
func Dump(ctx context.Context, db *catalog.DB) (Catalog, error) {
	var c Catalog
	for _, t := range []catalog.Table{catalog.Drinks, catalog.Desserts} {
		cats, err := db.Categories(ctx, t)
		if err != nil {
			return Catalog{}, err
		}
		var rows []catalog.Item
		for _, cat := range cats {
			items, err := db.Items(ctx, t, cat)
			if err != nil {
				return Catalog{}, err
			}
			rows = append(rows, items...)
		}
		if t == catalog.Desserts {
			c.Desserts = rows
		} else {
			c.Drinks = rows
		}
	}
	return c, nil
}
