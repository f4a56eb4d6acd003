package seed

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/eliseohh/cafebot/internal/catalog"
)

var ErrFormat = errors.New("unsupported catalog format")

// columns is the sheet layout shared by both tables. Readers match headers by
// name, so column order and extra columns do not matter.
var columns = []string{
	"id", "category", "name", "volume", "description", "ingredients",
	"preparation", "shelf_life", "storage_info", "image_path",
}

// LoadFile reads a catalog from a .yaml, .yml or .xlsx file.
func LoadFile(path string) (Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ReadYAML(f)
	case ".xlsx":
		return ReadXLSX(f)
	default:
		return Catalog{}, fmt.Errorf("%w: %s", ErrFormat, path)
	}
}

// WriteFile stores c as YAML or XLSX depending on the extension of path.
func WriteFile(path string, c Catalog) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := yaml.Marshal(c)
		if err != nil {
			return fmt.Errorf("failed to encode catalog: %w", err)
		}
		return os.WriteFile(path, data, 0o644)
	case ".xlsx":
		f, err := NewWorkbook(c)
		if err != nil {
			return err
		}
		defer f.Close()
		return f.SaveAs(path)
	default:
		return fmt.Errorf("%w: %s", ErrFormat, path)
	}
}

func ReadYAML(r io.Reader) (Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Catalog{}, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return c, nil
}

// ReadXLSX reads the "drinks" and "desserts" sheets. The first row of each
// sheet is the header; a missing sheet leaves its table empty.
func ReadXLSX(r io.Reader) (Catalog, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Catalog{}, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	var c Catalog
	for _, sheet := range f.GetSheetList() {
		var dst *[]catalog.Item
		switch catalog.Table(strings.ToLower(strings.TrimSpace(sheet))) {
		case catalog.Drinks:
			dst = &c.Drinks
		case catalog.Desserts:
			dst = &c.Desserts
		default:
			continue
		}

		rows, err := f.GetRows(sheet)
		if err != nil {
			return Catalog{}, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
		}
		*dst, err = sheetItems(sheet, rows)
		if err != nil {
			return Catalog{}, err
		}
	}
	return c, nil
}

func sheetItems(sheet string, rows [][]string) ([]catalog.Item, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	index := make(map[string]int)
	for i, h := range rows[0] {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range []string{"id", "category", "name"} {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: sheet %s has no %q column", ErrInvalid, sheet, col)
		}
	}

	var items []catalog.Item
	for _, row := range rows[1:] {
		// GetRows trims trailing empty cells
		cell := func(col string) string {
			i, ok := index[col]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		it := catalog.Item{
			ID:          cell("id"),
			Category:    cell("category"),
			Name:        cell("name"),
			Volume:      cell("volume"),
			Description: cell("description"),
			Ingredients: cell("ingredients"),
			Preparation: cell("preparation"),
			ShelfLife:   cell("shelf_life"),
			StorageInfo: cell("storage_info"),
			ImagePath:   cell("image_path"),
		}
		if it == (catalog.Item{}) {
			continue
		}
		items = append(items, it)
	}
	return items, nil
}

// NewWorkbook lays c out as a workbook with one sheet per table.
func NewWorkbook(c Catalog) (*excelize.File, error) {
	f := excelize.NewFile()

	header := make([]interface{}, len(columns))
	for i, col := range columns {
		header[i] = col
	}

	for _, t := range []catalog.Table{catalog.Drinks, catalog.Desserts} {
		sheet := string(t)
		if _, err := f.NewSheet(sheet); err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
			f.Close()
			return nil, err
		}
		for i, it := range c.rows(t) {
			row := []interface{}{
				it.ID, it.Category, it.Name, it.Volume, it.Description, it.Ingredients,
				it.Preparation, it.ShelfLife, it.StorageInfo, it.ImagePath,
			}
			cellAddr, _ := excelize.CoordinatesToCellName(1, i+2) // A2, A3, ...
			if err := f.SetSheetRow(sheet, cellAddr, &row); err != nil {
				f.Close()
				return nil, err
			}
		}
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}
