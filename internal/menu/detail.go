package menu

import (
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/eliseohh/cafebot/internal/catalog"
)

const (
	drinkPreparationLabel   = "Приготовление"
	dessertPreparationLabel = "Вкусы"
)

// FormatDetail renders the detail card of it. Fields are emitted in a fixed
// order and separated by a blank line; empty fields are skipped entirely.
func (c Config) FormatDetail(t catalog.Table, it catalog.Item) string {
	var parts []string
	add := func(format string, a ...any) {
		parts = append(parts, fmt.Sprintf(format, a...))
	}
	esc := html.EscapeString

	add("<b>%s</b>", esc(it.Name))
	if t == catalog.Drinks && it.Volume != "" {
		add("<b>Объем:</b> %s", esc(it.Volume))
	}
	if t == catalog.Desserts && it.Description != "" {
		add("%s", esc(it.Description))
	}
	if it.Ingredients != "" {
		add("<b>Состав:</b> %s", esc(it.Ingredients))
	}
	if it.Preparation != "" {
		if t == catalog.Drinks {
			add("<b>%s:</b> %s", drinkPreparationLabel, esc(it.Preparation))
		} else {
			add("<b>%s:</b>\n%s", esc(c.preparationLabel(it.Category)), esc(it.Preparation))
		}
	}
	if it.ShelfLife != "" {
		add("<b>Срок хранения:</b> %s", esc(it.ShelfLife))
	}
	if it.StorageInfo != "" {
		add("<b>Хранение:</b> %s", esc(it.StorageInfo))
	}
	return strings.Join(parts, "\n\n")
}

func (c Config) preparationLabel(category string) string {
	if l := c.PreparationLabels[category]; l != "" {
		return l
	}
	return dessertPreparationLabel
}

// fitsCaption reports whether text can ride as a media caption.
func (c Config) fitsCaption(text string) bool {
	return utf8.RuneCountInString(text) <= c.CaptionLimit
}

// baseName is the part of a variant's name before the first space,
// e.g. "Американо" for "Американо 250 мл".
func baseName(name string) string {
	first, _, _ := strings.Cut(strings.TrimSpace(name), " ")
	return first
}
