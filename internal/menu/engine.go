// Package menu turns catalog rows into chat screens: category lists, grouped
// item lists, detail cards, variant sequences and search results.
package menu

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"log/slog"
	"slices"
	"sort"
	"strings"

	"github.com/eliseohh/cafebot/internal/catalog"
)

// Store is the read side of the catalog the engine needs.
type Store interface {
	Categories(ctx context.Context, t catalog.Table) ([]string, error)
	Items(ctx context.Context, t catalog.Table, category string) ([]catalog.Item, error)
	Item(ctx context.Context, t catalog.Table, id string) (catalog.Item, error)
	SearchByName(ctx context.Context, t catalog.Table, substr string) ([]catalog.Item, error)
	Variants(ctx context.Context, t catalog.Table, baseID string) ([]catalog.Item, error)
}

// BaseNamer is implemented by stores that can name default id-prefix groups
// themselves. The engine falls back to the first member's name without it.
type BaseNamer interface {
	BaseNames(ctx context.Context, t catalog.Table, category string) (map[string]string, error)
}

// Engine computes screens. It holds no per-request state.
type Engine struct {
	store  Store
	cfg    Config
	logger *slog.Logger
}

func NewEngine(store Store, cfg Config, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	cfg.ApplyDefaults()
	return &Engine{store: store, cfg: cfg, logger: logger}
}

func (e *Engine) Config() Config { return e.cfg }

// Navigate computes the response to a menu tap. Missing rows produce a
// user-facing message; only store failures come back as errors.
func (e *Engine) Navigate(ctx context.Context, a Action) (Response, error) {
	e.logger.Debug("navigate", slog.String("action", Encode(a)))

	switch a := a.(type) {
	case MainMenu:
		return single(Replace, txtWelcome, mainButtons()...), nil
	case DrinkCategories:
		return e.categories(ctx, catalog.Drinks)
	case DessertCategories:
		return e.categories(ctx, catalog.Desserts)
	case DrinkCategory:
		return e.drinkCategory(ctx, a.Category)
	case DessertCategory:
		return e.dessertCategory(ctx, a.Category)
	case Drink:
		return e.drink(ctx, a.ID)
	case Dessert:
		return e.dessert(ctx, a.ID)
	case DrinkVariants:
		return e.drinkVariants(ctx, a)
	case VariantPicker:
		return e.variantPicker(ctx, a.BaseID)
	default:
		return Response{}, fmt.Errorf("%w: unhandled action %T", ErrBadToken, a)
	}
}

// Start is the reply to /start.
func (e *Engine) Start(firstName string) Response {
	return single(Append, fmt.Sprintf(txtGreeting, html.EscapeString(firstName)), mainButtons()...)
}

// Help is the reply to /help and to unregistered commands.
func (e *Engine) Help() Response {
	return single(Append, txtHelp)
}

// Unknown is the reply to callback data that does not decode.
func (e *Engine) Unknown(token string) Response {
	return single(Replace, fmt.Sprintf(txtUnknownCommand, html.EscapeString(token)))
}

func mainButtons() []Button {
	return []Button{
		{Label: btnDrinks, Action: DrinkCategories{}},
		{Label: btnDesserts, Action: DessertCategories{}},
	}
}

func (e *Engine) categories(ctx context.Context, t catalog.Table) (Response, error) {
	cats, err := e.store.Categories(ctx, t)
	if err != nil {
		return Response{}, err
	}

	title := txtDrinkCategories
	if t == catalog.Desserts {
		title = txtDessertCategories
	}

	buttons := make([]Button, 0, len(cats)+1)
	for _, c := range cats {
		var to Action = DrinkCategory{Category: c}
		if t == catalog.Desserts {
			to = DessertCategory{Category: c}
		}
		buttons = append(buttons, Button{Label: e.cfg.CategoryLabel(c), Action: to})
	}
	buttons = append(buttons, back(btnBack, MainMenu{}))
	return single(Replace, title, buttons...), nil
}

// DrinkGroups returns the named base groups of a drink category in display order.
func (e *Engine) DrinkGroups(ctx context.Context, category string) ([]Group, error) {
	items, err := e.store.Items(ctx, catalog.Drinks, category)
	if err != nil {
		return nil, err
	}
	groups := e.cfg.GroupItems(category, items)

	switch {
	case len(e.cfg.GroupLabels[category]) > 0:
		for i := range groups {
			if l, ok := e.cfg.groupLabel(category, groups[i].Key); ok {
				groups[i].Name = l
			}
		}
	case e.ungrouped(category):
	default:
		bn, ok := e.store.(BaseNamer)
		if !ok || len(groups) == 0 {
			break
		}
		names, err := bn.BaseNames(ctx, catalog.Drinks, category)
		if err != nil {
			return nil, err
		}
		for i := range groups {
			if n, ok := names[groups[i].Key]; ok && n != "" {
				groups[i].Name = n
			}
		}
	}
	return groups, nil
}

func (e *Engine) ungrouped(category string) bool {
	return slices.Contains(e.cfg.Ungrouped, category)
}

func (e *Engine) drinkCategory(ctx context.Context, category string) (Response, error) {
	groups, err := e.DrinkGroups(ctx, category)
	if err != nil {
		return Response{}, err
	}

	buttons := make([]Button, 0, len(groups)+1)
	for _, g := range groups {
		buttons = append(buttons, Button{Label: g.Name, Action: g.Target(category)})
	}
	buttons = append(buttons, back(btnBackToCategories, DrinkCategories{}))

	title := fmt.Sprintf(txtDrinksIn, html.EscapeString(e.cfg.CategoryLabel(category)))
	return single(Replace, title, buttons...), nil
}

func (e *Engine) drink(ctx context.Context, id string) (Response, error) {
	it, err := e.store.Item(ctx, catalog.Drinks, id)
	if errors.Is(err, catalog.ErrNotFound) {
		return single(Replace, txtDrinkNotFound), nil
	}
	if err != nil {
		return Response{}, err
	}

	text := e.cfg.FormatDetail(catalog.Drinks, it)
	return single(Replace, text, e.drinkBack(it)), nil
}

// drinkBack leads to the variant picker for groups that have one and to the
// category otherwise.
func (e *Engine) drinkBack(it catalog.Item) Button {
	key := e.cfg.GroupKey(it.Category, it.ID)
	if key != it.ID && e.cfg.hasVariantPicker(key) {
		return back(fmt.Sprintf(btnBackToVariantsOf, baseName(it.Name)), VariantPicker{BaseID: key})
	}
	return back(btnBack, DrinkCategory{Category: it.Category})
}

// members fetches the rows of a base group. Rows the store returns by prefix
// but that the grouping rule assigns elsewhere are dropped, and the rest are
// sorted by volume string.
func (e *Engine) members(ctx context.Context, baseID string, scoped bool, category string) ([]catalog.Item, error) {
	items, err := e.store.Variants(ctx, catalog.Drinks, baseID)
	if err != nil {
		return nil, err
	}

	out := items[:0:0]
	for _, it := range items {
		cat := category
		if !scoped {
			cat = it.Category
		} else if category != "" && it.Category != category {
			continue
		}
		if e.cfg.GroupKey(cat, it.ID) == baseID {
			out = append(out, it)
		}
	}
	// String order: "1000 мл" sorts before "250 мл". Kept as-is; volumes are
	// free text in the catalog.
	sort.SliceStable(out, func(i, j int) bool { return out[i].Volume < out[j].Volume })
	return out, nil
}

func (e *Engine) drinkVariants(ctx context.Context, a DrinkVariants) (Response, error) {
	// search results carry no category and were grouped by the default rule
	items, err := e.members(ctx, a.BaseID, true, a.Category)
	if err != nil {
		return Response{}, err
	}
	if len(items) == 0 {
		return single(Replace, txtVariantsNotFound), nil
	}

	resp := Response{Screens: make([]Screen, 0, len(items)+1)}
	for i, it := range items {
		mode := Append
		if i == 0 {
			mode = Replace
		}
		resp.Screens = append(resp.Screens, Screen{Mode: mode, Text: e.cfg.FormatDetail(catalog.Drinks, it)})
	}
	resp.Screens = append(resp.Screens, Screen{
		Mode:    Append,
		Text:    fmt.Sprintf(txtAllVariantsAbove, html.EscapeString(baseName(items[0].Name))),
		Buttons: []Button{back(btnBack, DrinkCategory{Category: items[0].Category})},
	})
	return resp, nil
}

func (e *Engine) variantPicker(ctx context.Context, baseID string) (Response, error) {
	items, err := e.members(ctx, baseID, false, "")
	if err != nil {
		return Response{}, err
	}
	if len(items) == 0 {
		return single(Replace, txtPickerNotFound), nil
	}

	buttons := make([]Button, 0, len(items)+1)
	for _, it := range items {
		buttons = append(buttons, Button{Label: it.Name, Action: Drink{ID: it.ID}})
	}
	buttons = append(buttons, back(btnBack, DrinkCategory{Category: items[0].Category}))

	title := fmt.Sprintf(txtPickVolume, html.EscapeString(baseName(items[0].Name)))
	return single(Replace, title, buttons...), nil
}

// Search matches drink names only. Results are grouped by the default rule
// since they are not scoped to a category.
func (e *Engine) Search(ctx context.Context, query string) (Response, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return single(Append, txtSearchNotFound), nil
	}

	items, err := e.store.SearchByName(ctx, catalog.Drinks, query)
	if err != nil {
		return Response{}, err
	}
	if len(items) == 0 {
		return single(Append, txtSearchNotFound), nil
	}

	groups := e.cfg.GroupItems("", items)
	buttons := make([]Button, 0, len(groups))
	for _, g := range groups {
		buttons = append(buttons, Button{Label: g.Name, Action: g.Target("")})
	}
	e.logger.Debug("search", slog.String("query", query), slog.Int("items", len(items)), slog.Int("groups", len(groups)))

	return single(Append, fmt.Sprintf(txtSearchResults, html.EscapeString(query)), buttons...), nil
}
