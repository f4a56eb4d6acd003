package catalog

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/mattn/go-sqlite3"
	"golang.org/x/text/cases"
)

//go:embed schema.sql
var schemaSQL string

// driverName is go-sqlite3 with a casefold() SQL function registered on every
// connection. SQLite's own LOWER() only folds ASCII, which breaks Cyrillic search.
const driverName = "sqlite3_cafebot"

func init() {
	sql.Register(driverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("casefold", Fold, true)
		},
	})
}

// Fold returns the Unicode case folded form of s.
func Fold(s string) string {
	// A Caser is stateful; one per call keeps Fold safe across connections.
	return cases.Fold().String(s)
}

type DB struct {
	*sql.DB
}

// Open connects to the catalog database at path. ":memory:" is accepted for tests.
func Open(path string) (*DB, error) {
	dsn := path + "?_busy_timeout=5000"
	if path == ":memory:" {
		dsn = path
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	if path == ":memory:" {
		// every pooled connection would otherwise see its own empty database
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	return &DB{db}, nil
}

// New wraps an existing handle.
func New(db *sql.DB) *DB {
	return &DB{db}
}

// InitSchema creates both tables when they are missing. Existing data is untouched.
func (d *DB) InitSchema(ctx context.Context) error {
	if _, err := d.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Categories returns the distinct categories of t in first-appearance order.
func (d *DB) Categories(ctx context.Context, t Table) ([]string, error) {
	if _, err := t.def(); err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT category FROM %s GROUP BY category ORDER BY MIN(rowid)", t)
	rows, err := d.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list %s categories: %w", t, err)
	}
	defer rows.Close()

	var cats []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan %s category: %w", t, err)
		}
		cats = append(cats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %s categories: %w", t, err)
	}
	return cats, nil
}

// Items returns every row of t in category, in insertion order.
func (d *DB) Items(ctx context.Context, t Table, category string) ([]Item, error) {
	s, err := t.def()
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf("SELECT %s FROM %s WHERE category = ? ORDER BY rowid", s.selectCols, t)
	items, err := d.queryItems(ctx, query, category)
	if err != nil {
		return nil, fmt.Errorf("list %s in %q: %w", t, category, err)
	}
	return items, nil
}

// Item looks up a single row by id. A missing row yields ErrNotFound.
func (d *DB) Item(ctx context.Context, t Table, id string) (Item, error) {
	s, err := t.def()
	if err != nil {
		return Item{}, err
	}
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = ?", s.selectCols, t)
	it, err := scanItem(d.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Item{}, fmt.Errorf("%w: %s %q", ErrNotFound, t, id)
	}
	if err != nil {
		return Item{}, fmt.Errorf("get %s %q: %w", t, id, err)
	}
	return it, nil
}

// SearchByName matches substr against names ignoring case.
func (d *DB) SearchByName(ctx context.Context, t Table, substr string) ([]Item, error) {
	s, err := t.def()
	if err != nil {
		return nil, err
	}
	// instr() instead of LIKE: user input must not be read as a pattern.
	query := fmt.Sprintf("SELECT %s FROM %s WHERE instr(casefold(name), casefold(?)) > 0 ORDER BY rowid", s.selectCols, t)
	items, err := d.queryItems(ctx, query, substr)
	if err != nil {
		return nil, fmt.Errorf("search %s for %q: %w", t, substr, err)
	}
	return items, nil
}

// Variants returns the row whose id equals baseID plus every row whose id
// starts with baseID + "_". Drinks come back ordered by the volume string.
func (d *DB) Variants(ctx context.Context, t Table, baseID string) ([]Item, error) {
	s, err := t.def()
	if err != nil {
		return nil, err
	}
	prefix := baseID + "_"
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = ? OR substr(id, 1, ?) = ? ORDER BY %s",
		s.selectCols, t, s.variantsBy)
	items, err := d.queryItems(ctx, query, baseID, utf8.RuneCountInString(prefix), prefix)
	if err != nil {
		return nil, fmt.Errorf("variants of %s %q: %w", t, baseID, err)
	}
	return items, nil
}

// BaseNames maps each default id prefix in category to the smallest name among
// the rows sharing that prefix.
func (d *DB) BaseNames(ctx context.Context, t Table, category string) (map[string]string, error) {
	if _, err := t.def(); err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT SUBSTR(id, 1, INSTR(id || '_', '_') - 1) AS base_id, MIN(name)
		FROM %s WHERE category = ? GROUP BY base_id`, t)
	rows, err := d.QueryContext(ctx, query, category)
	if err != nil {
		return nil, fmt.Errorf("base names of %s in %q: %w", t, category, err)
	}
	defer rows.Close()

	names := make(map[string]string)
	for rows.Next() {
		var base, name string
		if err := rows.Scan(&base, &name); err != nil {
			return nil, fmt.Errorf("scan base name: %w", err)
		}
		names[base] = name
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("base names of %s in %q: %w", t, category, err)
	}
	return names, nil
}

// Insert writes one row inside tx. Used by the seeder only; the bot never writes.
func Insert(ctx context.Context, tx *sql.Tx, t Table, it Item) error {
	s, err := t.def()
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, s.insert, s.insertArgs(it)...); err != nil {
		return fmt.Errorf("insert %s %q: %w", t, it.ID, err)
	}
	return nil
}

// Truncate empties t inside tx.
func Truncate(ctx context.Context, tx *sql.Tx, t Table) error {
	if _, err := t.def(); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", t)); err != nil {
		return fmt.Errorf("truncate %s: %w", t, err)
	}
	return nil
}

func (d *DB) queryItems(ctx context.Context, query string, args ...any) ([]Item, error) {
	rows, err := d.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
