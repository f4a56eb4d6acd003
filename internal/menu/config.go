package menu

import (
	"slices"
	"strings"
)

// CompoundRule groups ids starting with Prefix by their first Segments
// underscore-delimited parts instead of the first one.
type CompoundRule struct {
	Prefix   string `koanf:"prefix"`
	Segments int    `koanf:"segments"`
}

// SpecialDessert maps a dessert category straight onto its single item.
type SpecialDessert struct {
	ItemID string   `koanf:"item_id"`
	Images []string `koanf:"images"`
}

// Config holds the static lookup tables of the menu. Every field left empty is
// filled by ApplyDefaults.
type Config struct {
	CategoryLabels    map[string]string            `koanf:"category_labels"`
	Ungrouped         []string                     `koanf:"ungrouped"`
	Compound          map[string][]CompoundRule    `koanf:"compound"`
	GroupLabels       map[string]map[string]string `koanf:"group_labels"`
	VariantPickers    []string                     `koanf:"variant_pickers"`
	PreparationLabels map[string]string            `koanf:"preparation_labels"`
	SpecialDesserts   map[string]SpecialDessert    `koanf:"special_desserts"`
	CaptionLimit      int                          `koanf:"caption_limit"`
}

// DefaultCaptionLimit is Telegram's media caption ceiling.
const DefaultCaptionLimit = 1024

// DefaultConfig returns the café's stock menu tables.
func DefaultConfig() Config {
	var c Config
	c.ApplyDefaults()
	return c
}

// ApplyDefaults fills unset fields. A field set by the caller replaces the
// default as a whole; maps are not merged.
func (c *Config) ApplyDefaults() {
	if c.CategoryLabels == nil {
		c.CategoryLabels = map[string]string{
			"coffee_classic":   "Классический кофе",
			"coffee_signature": "Авторский кофе",
			"tea_regular":      "Чай",
			"tea_fruit":        "Фруктовый чай",
			"smoothie":         "Смузи",
			"lemonade":         "Лимонады",
			"coffee_milkshake": "Кофейные милкшейки",
			"matcha":           "Матча",
			"macarons":         "Макаруны",
			"shu":              "Шу",
			"tiramisu":         "Тирамису",
			"medovik":          "Медовик",
			"brownie":          "Брауни-картошка",
			"tart":             "Тарт цветок",
			"profiteroles":     "Белый с шоколадной стружкой",
		}
	}
	if c.Ungrouped == nil {
		c.Ungrouped = []string{"matcha"}
	}
	if c.Compound == nil {
		c.Compound = map[string][]CompoundRule{
			"coffee_signature": {{Prefix: "latte_", Segments: 3}},
		}
	}
	if c.GroupLabels == nil {
		c.GroupLabels = map[string]map[string]string{
			"coffee_signature": {
				"latte_raspberry_violet": "Латте малина-фиалка",
				"latte_pear_caramel":     "Латте груша-карамель",
			},
		}
	}
	if c.VariantPickers == nil {
		c.VariantPickers = []string{"americano"}
	}
	if c.PreparationLabels == nil {
		c.PreparationLabels = map[string]string{
			"macarons": "Вкусы",
			"shu":      "Начинки",
		}
	}
	if c.SpecialDesserts == nil {
		c.SpecialDesserts = map[string]SpecialDessert{
			"macarons":     {ItemID: "macaron", Images: []string{"macaron_image.jpg"}},
			"shu":          {ItemID: "shu", Images: []string{"shu_1.jpg", "shu_2.jpg"}},
			"tiramisu":     {ItemID: "tiramisu", Images: []string{"tiramisu.jpg"}},
			"medovik":      {ItemID: "medovik", Images: []string{"medovik.jpg"}},
			"brownie":      {ItemID: "brownie", Images: []string{"brauni_potaps.jpg"}},
			"tart":         {ItemID: "tart", Images: []string{"tart.jpg"}},
			"profiteroles": {ItemID: "profiteroles", Images: []string{"whitebro.jpg", "nenatural.jpg"}},
		}
	}
	if c.CaptionLimit <= 0 {
		c.CaptionLimit = DefaultCaptionLimit
	}
}

// CategoryLabel returns the display name of category, or category itself.
func (c Config) CategoryLabel(category string) string {
	if l, ok := c.CategoryLabels[category]; ok && l != "" {
		return l
	}
	return category
}

// GroupKey derives the base group of id within category. Pass an empty
// category for the default rule.
func (c Config) GroupKey(category, id string) string {
	if slices.Contains(c.Ungrouped, category) {
		return id
	}
	for _, r := range c.Compound[category] {
		if r.Segments < 1 || !strings.HasPrefix(id, r.Prefix) {
			continue
		}
		parts := strings.Split(id, "_")
		if len(parts) >= r.Segments {
			return strings.Join(parts[:r.Segments], "_")
		}
	}
	return defaultGroupKey(id)
}

func defaultGroupKey(id string) string {
	base, _, _ := strings.Cut(id, "_")
	return base
}

// groupLabel returns the friendly label of the longest labelled key that
// prefixes key.
func (c Config) groupLabel(category, key string) (string, bool) {
	var best, label string
	for k, l := range c.GroupLabels[category] {
		if strings.HasPrefix(key, k) && len(k) > len(best) {
			best, label = k, l
		}
	}
	return label, best != ""
}

func (c Config) hasVariantPicker(key string) bool {
	return slices.Contains(c.VariantPickers, key)
}

func (c Config) special(category string) (SpecialDessert, bool) {
	sd, ok := c.SpecialDesserts[category]
	return sd, ok && sd.ItemID != ""
}
