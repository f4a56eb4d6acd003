package menu

import (
	"context"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eliseohh/cafebot/internal/catalog"
	"github.com/eliseohh/cafebot/internal/testutil"
)

func newTestEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()
	db := testutil.NewCatalog(t, testutil.Drinks(), testutil.Desserts())
	return NewEngine(db, cfg, testutil.NewTestLogger(t))
}

func navigate(t *testing.T, e *Engine, a Action) Response {
	t.Helper()
	resp, err := e.Navigate(context.Background(), a)
	require.NoError(t, err)
	require.NotEmpty(t, resp.Screens)
	return resp
}

func labels(buttons []Button) []string {
	out := make([]string, 0, len(buttons))
	for _, b := range buttons {
		out = append(out, b.Label)
	}
	return out
}

func actions(buttons []Button) []Action {
	out := make([]Action, 0, len(buttons))
	for _, b := range buttons {
		out = append(out, b.Action)
	}
	return out
}

func TestEngine_StartAndHelp(t *testing.T) {
	e := newTestEngine(t, Config{})

	resp := e.Start("Аня <3")
	require.Len(t, resp.Screens, 1)
	s := resp.Screens[0]
	assert.Equal(t, Append, s.Mode)
	assert.True(t, strings.HasPrefix(s.Text, "Привет, Аня &lt;3!"))
	assert.Equal(t, []Action{DrinkCategories{}, DessertCategories{}}, actions(s.Buttons))

	help := e.Help()
	assert.Contains(t, help.Screens[0].Text, "/start")
	assert.Empty(t, help.Screens[0].Buttons)

	unknown := e.Unknown("bogus")
	assert.Equal(t, Replace, unknown.Screens[0].Mode)
	assert.Equal(t, "Неизвестная команда: bogus", unknown.Screens[0].Text)
}

func TestEngine_MainMenu(t *testing.T) {
	e := newTestEngine(t, Config{})

	s := navigate(t, e, MainMenu{}).Screens[0]
	assert.Equal(t, Replace, s.Mode)
	assert.Equal(t, txtWelcome, s.Text)
	assert.Equal(t, []string{"Напитки", "Десерты"}, labels(s.Buttons))
}

func TestEngine_Categories(t *testing.T) {
	e := newTestEngine(t, Config{})

	s := navigate(t, e, DrinkCategories{}).Screens[0]
	assert.Equal(t, Replace, s.Mode)
	assert.Equal(t, txtDrinkCategories, s.Text)
	assert.Equal(t, []string{"Классический кофе", "Авторский кофе", "Матча", "Назад"}, labels(s.Buttons))
	assert.Equal(t, DrinkCategory{Category: "coffee_classic"}, s.Buttons[0].Action)
	assert.Equal(t, MainMenu{}, s.Buttons[3].Action)

	s = navigate(t, e, DessertCategories{}).Screens[0]
	// cakes has no label and shows as-is
	assert.Equal(t, []string{"Макаруны", "Шу", "cakes", "Назад"}, labels(s.Buttons))
	assert.Equal(t, DessertCategory{Category: "cakes"}, s.Buttons[2].Action)
}

func TestEngine_DrinkCategory(t *testing.T) {
	e := newTestEngine(t, Config{})

	t.Run("default grouping names groups by the smallest member name", func(t *testing.T) {
		s := navigate(t, e, DrinkCategory{Category: "coffee_classic"}).Screens[0]
		assert.Equal(t, Replace, s.Mode)
		assert.Equal(t, `Напитки в категории "Классический кофе":`, s.Text)
		assert.Equal(t, []string{"Американо 250 мл", "Капучино 250 мл", "Эспрессо", "Назад к категориям"}, labels(s.Buttons))
		assert.Equal(t, []Action{
			DrinkVariants{BaseID: "americano", Category: "coffee_classic"},
			DrinkVariants{BaseID: "cappuccino", Category: "coffee_classic"},
			Drink{ID: "espresso"},
			DrinkCategories{},
		}, actions(s.Buttons))
	})

	t.Run("compound grouping with labels", func(t *testing.T) {
		s := navigate(t, e, DrinkCategory{Category: "coffee_signature"}).Screens[0]
		assert.Equal(t, []string{
			"Латте малина-фиалка",
			"Латте груша-карамель",
			"Раф лавандовый",
			"Латте ванильный",
			"Назад к категориям",
		}, labels(s.Buttons))
		assert.Equal(t, DrinkVariants{BaseID: "latte_raspberry_violet", Category: "coffee_signature"}, s.Buttons[0].Action)
		assert.Equal(t, Drink{ID: "latte_pear_caramel_350"}, s.Buttons[1].Action)
		assert.Equal(t, Drink{ID: "raf_lavender"}, s.Buttons[2].Action)
		assert.Equal(t, Drink{ID: "latte_vanilla"}, s.Buttons[3].Action)
	})

	t.Run("ungrouped category lists every item", func(t *testing.T) {
		s := navigate(t, e, DrinkCategory{Category: "matcha"}).Screens[0]
		assert.Equal(t, []Action{
			Drink{ID: "matcha_classic"},
			Drink{ID: "matcha_classic_large"},
			DrinkCategories{},
		}, actions(s.Buttons))
	})

	t.Run("unknown category", func(t *testing.T) {
		s := navigate(t, e, DrinkCategory{Category: "seasonal"}).Screens[0]
		assert.Equal(t, `Напитки в категории "seasonal":`, s.Text)
		assert.Equal(t, []Action{DrinkCategories{}}, actions(s.Buttons))
	})
}

type plainStore struct {
	Store
	items []catalog.Item
}

func (s plainStore) Items(context.Context, catalog.Table, string) ([]catalog.Item, error) {
	return s.items, nil
}

func TestEngine_DrinkGroups_WithoutBaseNamer(t *testing.T) {
	store := plainStore{items: testutil.Drinks()[:6]}
	e := NewEngine(store, Config{}, nil)

	groups, err := e.DrinkGroups(context.Background(), "coffee_classic")
	require.NoError(t, err)
	require.Len(t, groups, 3)
	assert.Equal(t, "Американо 350 мл", groups[0].Name)
	assert.Equal(t, "Капучино 250 мл", groups[1].Name)
}

func TestEngine_Drink(t *testing.T) {
	e := newTestEngine(t, Config{})

	t.Run("variant picker group leads back to the picker", func(t *testing.T) {
		s := navigate(t, e, Drink{ID: "americano_250"}).Screens[0]
		assert.Equal(t, Replace, s.Mode)
		assert.True(t, strings.HasPrefix(s.Text, "<b>Американо 250 мл</b>\n\n<b>Объем:</b> 250 мл"))
		require.Len(t, s.Buttons, 1)
		assert.Equal(t, "Назад к вариантам Американо", s.Buttons[0].Label)
		assert.Equal(t, VariantPicker{BaseID: "americano"}, s.Buttons[0].Action)
	})

	t.Run("other drinks lead back to the category", func(t *testing.T) {
		s := navigate(t, e, Drink{ID: "cappuccino_350"}).Screens[0]
		assert.Equal(t, []Button{{Label: "Назад", Action: DrinkCategory{Category: "coffee_classic"}}}, s.Buttons)
	})

	t.Run("missing", func(t *testing.T) {
		s := navigate(t, e, Drink{ID: "nope"}).Screens[0]
		assert.Equal(t, Replace, s.Mode)
		assert.Equal(t, "Напиток не найден.", s.Text)
		assert.Empty(t, s.Buttons)
	})
}

func TestEngine_DrinkVariants(t *testing.T) {
	e := newTestEngine(t, Config{})

	resp := navigate(t, e, DrinkVariants{BaseID: "cappuccino", Category: "coffee_classic"})
	require.Len(t, resp.Screens, 4)
	assert.False(t, resp.DropOrigin)

	assert.Equal(t, Replace, resp.Screens[0].Mode)
	for i, vol := range []string{"250", "350", "450"} {
		s := resp.Screens[i]
		if i > 0 {
			assert.Equal(t, Append, s.Mode)
		}
		assert.Contains(t, s.Text, "Капучино "+vol+" мл")
		assert.Empty(t, s.Buttons)
	}

	last := resp.Screens[3]
	assert.Equal(t, Append, last.Mode)
	assert.Equal(t, "Выше представлены все варианты Капучино.", last.Text)
	assert.Equal(t, []Button{{Label: "Назад", Action: DrinkCategory{Category: "coffee_classic"}}}, last.Buttons)
}

func TestEngine_DrinkVariants_Scoped(t *testing.T) {
	e := newTestEngine(t, Config{})

	// latte_vanilla shares the latte_ prefix but belongs to another group
	resp := navigate(t, e, DrinkVariants{BaseID: "latte_raspberry_violet", Category: "coffee_signature"})
	require.Len(t, resp.Screens, 3)
	assert.Contains(t, resp.Screens[0].Text, "250 мл")
	assert.Contains(t, resp.Screens[1].Text, "350 мл")

	resp = navigate(t, e, DrinkVariants{BaseID: "latte_vanilla", Category: "coffee_signature"})
	assert.Equal(t, "Варианты напитка не найдены.", resp.Screens[0].Text)
}

func TestEngine_VariantPicker(t *testing.T) {
	e := newTestEngine(t, Config{})

	s := navigate(t, e, VariantPicker{BaseID: "americano"}).Screens[0]
	assert.Equal(t, Replace, s.Mode)
	assert.Equal(t, "Выберите объем Американо:", s.Text)
	assert.Equal(t, []Action{
		Drink{ID: "americano_250"},
		Drink{ID: "americano_350"},
		DrinkCategory{Category: "coffee_classic"},
	}, actions(s.Buttons))

	s = navigate(t, e, VariantPicker{BaseID: "mocha"}).Screens[0]
	assert.Equal(t, "Варианты не найдены.", s.Text)
}

func TestEngine_Search(t *testing.T) {
	e := newTestEngine(t, Config{})
	ctx := context.Background()

	resp, err := e.Search(ctx, "  американо ")
	require.NoError(t, err)
	s := resp.Screens[0]
	assert.Equal(t, Append, s.Mode)
	assert.Equal(t, `Результаты поиска для "американо":`, s.Text)
	require.Len(t, s.Buttons, 1)
	assert.Equal(t, DrinkVariants{BaseID: "americano"}, s.Buttons[0].Action)

	// the unscoped variant list holds both sizes
	vars := navigate(t, e, s.Buttons[0].Action)
	assert.Len(t, vars.Screens, 3)

	for _, q := range []string{"", "   ", "тирамису", "Макарон"} {
		resp, err := e.Search(ctx, q)
		require.NoError(t, err)
		assert.Equal(t, "Напитки не найдены. Попробуйте другой запрос.", resp.Screens[0].Text, q)
		assert.Empty(t, resp.Screens[0].Buttons)
	}
}

func TestEngine_DessertCategory(t *testing.T) {
	e := newTestEngine(t, Config{})

	s := navigate(t, e, DessertCategory{Category: "cakes"}).Screens[0]
	assert.Equal(t, Replace, s.Mode)
	assert.Equal(t, `Десерты в категории "cakes":`, s.Text)
	assert.Equal(t, []Action{
		Dessert{ID: "cheesecake_ny"},
		Dessert{ID: "napoleon"},
		DessertCategories{},
	}, actions(s.Buttons))
	assert.Equal(t, "Назад к категориям десертов", s.Buttons[2].Label)
}

func TestEngine_SpecialDessert(t *testing.T) {
	t.Run("short text becomes the caption", func(t *testing.T) {
		e := newTestEngine(t, Config{})

		resp := navigate(t, e, DessertCategory{Category: "macarons"})
		assert.True(t, resp.DropOrigin)
		require.Len(t, resp.Screens, 2)

		photo := resp.Screens[0]
		assert.Equal(t, []string{"macaron_image.jpg"}, photo.Images)
		assert.True(t, strings.HasPrefix(photo.Text, "<b>Макарон</b>"))
		assert.Contains(t, photo.Text, "<b>Вкусы:</b>\nФисташка, малина")
		assert.Empty(t, photo.Buttons)

		prompt := resp.Screens[1]
		assert.Equal(t, Append, prompt.Mode)
		assert.Equal(t, txtBackToDesserts, prompt.Text)
		assert.Equal(t, []Action{DessertCategories{}}, actions(prompt.Buttons))
	})

	t.Run("long text follows captionless images", func(t *testing.T) {
		e := newTestEngine(t, Config{CaptionLimit: 10})

		resp := navigate(t, e, DessertCategory{Category: "shu"})
		require.Len(t, resp.Screens, 3)
		assert.Equal(t, []string{"shu_1.jpg", "shu_2.jpg"}, resp.Screens[0].Images)
		assert.Empty(t, resp.Screens[0].Text)
		assert.Empty(t, resp.Screens[1].Images)
		assert.Contains(t, resp.Screens[1].Text, "<b>Начинки:</b>\nВаниль, шоколад")
		assert.Equal(t, txtBackToDesserts, resp.Screens[2].Text)
		for _, s := range resp.Screens {
			assert.Equal(t, Append, s.Mode)
		}
	})

	t.Run("missing item", func(t *testing.T) {
		e := newTestEngine(t, Config{})

		resp := navigate(t, e, DessertCategory{Category: "tiramisu"})
		assert.False(t, resp.DropOrigin)
		require.Len(t, resp.Screens, 1)
		assert.Equal(t, Replace, resp.Screens[0].Mode)
		assert.Equal(t, "Информация о десерте не найдена.", resp.Screens[0].Text)
		assert.Equal(t, []Action{DessertCategories{}}, actions(resp.Screens[0].Buttons))
	})
}

func TestEngine_Dessert(t *testing.T) {
	e := newTestEngine(t, Config{})

	t.Run("with image", func(t *testing.T) {
		resp := navigate(t, e, Dessert{ID: "cheesecake_ny"})
		assert.True(t, resp.DropOrigin)
		require.Len(t, resp.Screens, 1)
		s := resp.Screens[0]
		assert.Equal(t, []string{"cheesecake.jpg"}, s.Images)
		assert.Equal(t, "<b>Чизкейк Нью-Йорк</b>\n\n<b>Состав:</b> Сыр, печенье", s.Text)
		assert.Equal(t, []Action{DessertCategory{Category: "cakes"}}, actions(s.Buttons))
	})

	t.Run("without image", func(t *testing.T) {
		resp := navigate(t, e, Dessert{ID: "napoleon"})
		assert.False(t, resp.DropOrigin)
		s := resp.Screens[0]
		assert.Equal(t, Replace, s.Mode)
		assert.Equal(t, "<b>Наполеон</b>", s.Text)
		assert.Empty(t, s.Images)
	})

	t.Run("special category item leads back to the category list", func(t *testing.T) {
		resp := navigate(t, e, Dessert{ID: "shu"})
		assert.Equal(t, []Action{DessertCategories{}}, actions(resp.Screens[0].Buttons))
	})

	t.Run("missing", func(t *testing.T) {
		s := navigate(t, e, Dessert{ID: "pavlova"}).Screens[0]
		assert.Equal(t, "Десерт не найден.", s.Text)
	})
}

func TestEngine_StoreError(t *testing.T) {
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer raw.Close()

	e := NewEngine(catalog.New(raw), Config{}, testutil.NewTestLogger(t))
	ctx := context.Background()

	mock.ExpectQuery("FROM drinks WHERE category").WillReturnError(assert.AnError)
	_, err = e.Navigate(ctx, DrinkCategory{Category: "coffee_classic"})
	assert.ErrorIs(t, err, assert.AnError)

	mock.ExpectQuery("FROM desserts WHERE id").WillReturnError(assert.AnError)
	_, err = e.Navigate(ctx, DessertCategory{Category: "macarons"})
	assert.ErrorIs(t, err, assert.AnError)

	mock.ExpectQuery("FROM drinks").WillReturnError(assert.AnError)
	_, err = e.Search(ctx, "латте")
	assert.ErrorIs(t, err, assert.AnError)

	require.NoError(t, mock.ExpectationsWereMet())
}
