package menu

import (
	"errors"
	"fmt"
	"strings"
)

// ErrBadToken is returned by Decode for callback data it cannot map to an Action.
var ErrBadToken = errors.New("bad routing token")

// MaxTokenLen is Telegram's ceiling for inline button callback data, in bytes.
const MaxTokenLen = 64

const tokenSep = "|"

// Action is a navigation request. The set of implementations is closed.
type Action interface {
	kind() string
	args() []string
}

type (
	MainMenu          struct{}
	DrinkCategories   struct{}
	DessertCategories struct{}

	DrinkCategory   struct{ Category string }
	DessertCategory struct{ Category string }

	Drink   struct{ ID string }
	Dessert struct{ ID string }

	// DrinkVariants shows every member of a base group in sequence. An empty
	// Category means the group came from search and uses the default rule.
	DrinkVariants struct {
		BaseID   string
		Category string
	}

	// VariantPicker lists the members of a base group as separate buttons.
	VariantPicker struct{ BaseID string }
)

func (MainMenu) kind() string          { return "menu" }
func (DrinkCategories) kind() string   { return "drinks" }
func (DessertCategories) kind() string { return "desserts" }
func (DrinkCategory) kind() string     { return "cat" }
func (DessertCategory) kind() string   { return "dcat" }
func (Drink) kind() string             { return "drink" }
func (Dessert) kind() string           { return "dessert" }
func (DrinkVariants) kind() string     { return "all" }
func (VariantPicker) kind() string     { return "pick" }

func (MainMenu) args() []string          { return nil }
func (DrinkCategories) args() []string   { return nil }
func (DessertCategories) args() []string { return nil }
func (a DrinkCategory) args() []string   { return []string{a.Category} }
func (a DessertCategory) args() []string { return []string{a.Category} }
func (a Drink) args() []string           { return []string{a.ID} }
func (a Dessert) args() []string         { return []string{a.ID} }
func (a VariantPicker) args() []string   { return []string{a.BaseID} }

func (a DrinkVariants) args() []string {
	if a.Category == "" {
		return []string{a.BaseID}
	}
	return []string{a.BaseID, a.Category}
}

// Encode renders a as callback data: the kind, then each argument, joined by "|".
func Encode(a Action) string {
	return strings.Join(append([]string{a.kind()}, a.args()...), tokenSep)
}

// Decode parses callback data produced by Encode.
func Decode(token string) (Action, error) {
	if token == "" || len(token) > MaxTokenLen {
		return nil, fmt.Errorf("%w: length %d", ErrBadToken, len(token))
	}

	parts := strings.Split(token, tokenSep)
	kind, args := parts[0], parts[1:]
	for _, a := range args {
		if a == "" {
			return nil, fmt.Errorf("%w: empty argument in %q", ErrBadToken, token)
		}
	}

	arity := func(lo, hi int) error {
		if len(args) < lo || len(args) > hi {
			return fmt.Errorf("%w: %q takes %d..%d arguments, got %d", ErrBadToken, kind, lo, hi, len(args))
		}
		return nil
	}

	var (
		act Action
		err error
	)
	switch kind {
	case "menu":
		act, err = MainMenu{}, arity(0, 0)
	case "drinks":
		act, err = DrinkCategories{}, arity(0, 0)
	case "desserts":
		act, err = DessertCategories{}, arity(0, 0)
	case "cat":
		if err = arity(1, 1); err == nil {
			act = DrinkCategory{Category: args[0]}
		}
	case "dcat":
		if err = arity(1, 1); err == nil {
			act = DessertCategory{Category: args[0]}
		}
	case "drink":
		if err = arity(1, 1); err == nil {
			act = Drink{ID: args[0]}
		}
	case "dessert":
		if err = arity(1, 1); err == nil {
			act = Dessert{ID: args[0]}
		}
	case "all":
		if err = arity(1, 2); err == nil {
			v := DrinkVariants{BaseID: args[0]}
			if len(args) == 2 {
				v.Category = args[1]
			}
			act = v
		}
	case "pick":
		if err = arity(1, 1); err == nil {
			act = VariantPicker{BaseID: args[0]}
		}
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrBadToken, kind)
	}
	if err != nil {
		return nil, err
	}
	return act, nil
}
