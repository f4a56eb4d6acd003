package menu

import (
	"context"
	"errors"
	"fmt"
	"html"

	"github.com/eliseohh/cafebot/internal/catalog"
)

func (e *Engine) dessertCategory(ctx context.Context, category string) (Response, error) {
	if sd, ok := e.cfg.special(category); ok {
		return e.specialDessert(ctx, category, sd)
	}

	items, err := e.store.Items(ctx, catalog.Desserts, category)
	if err != nil {
		return Response{}, err
	}

	buttons := make([]Button, 0, len(items)+1)
	for _, it := range items {
		buttons = append(buttons, Button{Label: it.Name, Action: Dessert{ID: it.ID}})
	}
	buttons = append(buttons, back(btnBackToDessertCats, DessertCategories{}))

	title := fmt.Sprintf(txtDessertsIn, html.EscapeString(e.cfg.CategoryLabel(category)))
	return single(Replace, title, buttons...), nil
}

// specialDessert renders the category's only item straight away, with its photos.
func (e *Engine) specialDessert(ctx context.Context, category string, sd SpecialDessert) (Response, error) {
	toCategories := back(btnBack, DessertCategories{})

	it, err := e.store.Item(ctx, catalog.Desserts, sd.ItemID)
	if errors.Is(err, catalog.ErrNotFound) {
		e.logger.Warn("special dessert item missing", "category", category, "item", sd.ItemID)
		return single(Replace, txtSpecialNotFound, toCategories), nil
	}
	if err != nil {
		return Response{}, err
	}

	text := e.cfg.FormatDetail(catalog.Desserts, it)
	screens := e.photoScreens(text, sd.Images, nil)
	screens = append(screens, Screen{Mode: Append, Text: txtBackToDesserts, Buttons: []Button{toCategories}})
	return Response{Screens: screens, DropOrigin: true}, nil
}

func (e *Engine) dessert(ctx context.Context, id string) (Response, error) {
	it, err := e.store.Item(ctx, catalog.Desserts, id)
	if errors.Is(err, catalog.ErrNotFound) {
		return single(Replace, txtDessertNotFound), nil
	}
	if err != nil {
		return Response{}, err
	}

	to := back(btnBack, DessertCategory{Category: it.Category})
	if _, ok := e.cfg.special(it.Category); ok {
		to = back(btnBack, DessertCategories{})
	}

	text := e.cfg.FormatDetail(catalog.Desserts, it)
	if it.ImagePath == "" {
		return single(Replace, text, to), nil
	}
	return Response{
		Screens:    e.photoScreens(text, []string{it.ImagePath}, []Button{to}),
		DropOrigin: true,
	}, nil
}

// photoScreens attaches text to images. Text over the caption limit goes out
// as its own message right after captionless images.
func (e *Engine) photoScreens(text string, images []string, buttons []Button) []Screen {
	if len(images) == 0 {
		return []Screen{{Mode: Append, Text: text, Buttons: buttons}}
	}
	if e.cfg.fitsCaption(text) {
		return []Screen{{Mode: Append, Text: text, Images: images, Buttons: buttons}}
	}
	return []Screen{
		{Mode: Append, Images: images},
		{Mode: Append, Text: text, Buttons: buttons},
	}
}
