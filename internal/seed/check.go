package seed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/eliseohh/cafebot/internal/catalog"
	"github.com/eliseohh/cafebot/internal/menu"
)

// Problem is one inconsistency between the catalog, the menu tables and the
// image directory.
type Problem struct {
	Kind    string
	Subject string
	Detail  string
}

func (p Problem) String() string {
	return fmt.Sprintf("[%s] %s: %s", p.Kind, p.Subject, p.Detail)
}

// Check reports what would make the bot show a "not found" message or a
// photo-less card for rows that exist.
func Check(ctx context.Context, db *catalog.DB, cfg menu.Config, imagesDir string) ([]Problem, error) {
	cfg.ApplyDefaults()
	var problems []Problem

	missingImage := func(subject, name string) {
		p := filepath.Join(imagesDir, name)
		if _, err := os.Stat(p); err != nil {
			problems = append(problems, Problem{Kind: "image", Subject: subject, Detail: fmt.Sprintf("%s is not readable", p)})
		}
	}

	dessertCats, err := db.Categories(ctx, catalog.Desserts)
	if err != nil {
		return nil, err
	}

	for _, cat := range sortedKeys(cfg.SpecialDesserts) {
		sd := cfg.SpecialDesserts[cat]
		subject := "special dessert " + cat

		it, err := db.Item(ctx, catalog.Desserts, sd.ItemID)
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			problems = append(problems, Problem{Kind: "item", Subject: subject, Detail: fmt.Sprintf("dessert %q does not exist", sd.ItemID)})
		case err != nil:
			return nil, err
		case it.Category != cat:
			problems = append(problems, Problem{Kind: "item", Subject: subject, Detail: fmt.Sprintf("dessert %q is filed under %q", sd.ItemID, it.Category)})
		}

		if !slices.Contains(dessertCats, cat) {
			problems = append(problems, Problem{Kind: "category", Subject: subject, Detail: "no dessert row has this category, so no button leads here"})
		}
		for _, img := range sd.Images {
			missingImage(subject, img)
		}
	}

	for _, cat := range dessertCats {
		if _, ok := cfg.SpecialDesserts[cat]; ok {
			continue
		}
		items, err := db.Items(ctx, catalog.Desserts, cat)
		if err != nil {
			return nil, err
		}
		for _, it := range items {
			if it.ImagePath != "" {
				missingImage("dessert "+it.ID, it.ImagePath)
			}
		}
	}

	for _, base := range cfg.VariantPickers {
		items, err := db.Variants(ctx, catalog.Drinks, base)
		if err != nil {
			return nil, err
		}
		if len(items) < 2 {
			problems = append(problems, Problem{Kind: "variants", Subject: "variant picker " + base, Detail: fmt.Sprintf("%d drinks match, the picker needs at least 2", len(items))})
		}
	}

	return problems, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
