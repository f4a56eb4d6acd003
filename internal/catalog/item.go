package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by single-row lookups when the id is absent.
	ErrNotFound = errors.New("catalog item not found")
	// ErrUnknownTable guards every query that interpolates a table name.
	ErrUnknownTable = errors.New("unknown catalog table")
)

// Table selects one of the two catalog relations.
type Table string

const (
	Drinks   Table = "drinks"
	Desserts Table = "desserts"
)

// Item is one row of either table. Empty fields are omitted from rendered details.
type Item struct {
	ID          string `yaml:"id"`
	Category    string `yaml:"category"`
	Name        string `yaml:"name"`
	Volume      string `yaml:"volume,omitempty"`
	Ingredients string `yaml:"ingredients,omitempty"`
	Preparation string `yaml:"preparation,omitempty"`
	ShelfLife   string `yaml:"shelf_life,omitempty"`
	StorageInfo string `yaml:"storage_info,omitempty"`
	ImagePath   string `yaml:"image_path,omitempty"`
	Description string `yaml:"description,omitempty"`
}

// tableDef holds the per-table SQL fragments. Both select lists produce the
// columns in Item field order so a single scanner serves both tables.
type tableDef struct {
	selectCols string
	variantsBy string
	insert     string
	insertArgs func(it Item) []any
}

var tableDefs = map[Table]tableDef{
	Drinks: {
		selectCols: `id, category, name, COALESCE(volume, ''), COALESCE(ingredients, ''), COALESCE(preparation, ''), '', '', '', ''`,
		variantsBy: `COALESCE(volume, ''), rowid`,
		insert:     `INSERT INTO drinks (id, category, name, volume, ingredients, preparation) VALUES (?, ?, ?, ?, ?, ?)`,
		insertArgs: func(it Item) []any {
			return []any{it.ID, it.Category, it.Name, it.Volume, it.Ingredients, it.Preparation}
		},
	},
	Desserts: {
		selectCols: `id, category, name, '', COALESCE(ingredients, ''), COALESCE(preparation, ''), COALESCE(shelf_life, ''), COALESCE(storage_info, ''), COALESCE(image_path, ''), COALESCE(description, '')`,
		variantsBy: `rowid`,
		insert:     `INSERT INTO desserts (id, category, name, description, ingredients, preparation, shelf_life, storage_info, image_path) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		insertArgs: func(it Item) []any {
			return []any{it.ID, it.Category, it.Name, it.Description, it.Ingredients, it.Preparation, it.ShelfLife, it.StorageInfo, it.ImagePath}
		},
	},
}

func (t Table) def() (tableDef, error) {
	s, ok := tableDefs[t]
	if !ok {
		return tableDef{}, fmt.Errorf("%w: %q", ErrUnknownTable, string(t))
	}
	return s, nil
}

// ParseTable maps a user supplied name onto a Table.
func ParseTable(name string) (Table, error) {
	t := Table(name)
	if _, err := t.def(); err != nil {
		return "", err
	}
	return t, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(row scanner) (Item, error) {
	var it Item
	err := row.Scan(&it.ID, &it.Category, &it.Name, &it.Volume, &it.Ingredients,
		&it.Preparation, &it.ShelfLife, &it.StorageInfo, &it.ImagePath, &it.Description)
	return it, err
}
