// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/eliseohh/cafebot/internal/catalog"
)

// NewTestLogger returns a logger that writes to t.Log().
// Logs only appear on test failure or when running with -v.
func NewTestLogger(t testing.TB) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

type testWriter struct {
	t testing.TB
}

func (w testWriter) Write(p []byte) (n int, err error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// NewCatalog opens a fresh catalog database in a temp dir and loads the given rows
// in order. The database is closed when the test ends.
func NewCatalog(t testing.TB, drinks, desserts []catalog.Item) *catalog.DB {
	t.Helper()
	ctx := context.Background()

	db, err := catalog.Open(filepath.Join(t.TempDir(), "cafe.db"))
	if err != nil {
		t.Fatalf("open catalog: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.InitSchema(ctx); err != nil {
		t.Fatalf("init schema: %v", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	defer tx.Rollback()

	for _, it := range drinks {
		if err := catalog.Insert(ctx, tx, catalog.Drinks, it); err != nil {
			t.Fatalf("insert drink: %v", err)
		}
	}
	for _, it := range desserts {
		if err := catalog.Insert(ctx, tx, catalog.Desserts, it); err != nil {
			t.Fatalf("insert dessert: %v", err)
		}
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	return db
}

// Drinks is a small menu covering every grouping rule.
func Drinks() []catalog.Item {
	return []catalog.Item{
		{ID: "americano_350", Category: "coffee_classic", Name: "Американо 350 мл", Volume: "350 мл", Ingredients: "Эспрессо, вода"},
		{ID: "americano_250", Category: "coffee_classic", Name: "Американо 250 мл", Volume: "250 мл", Ingredients: "Эспрессо, вода"},
		{ID: "cappuccino_250", Category: "coffee_classic", Name: "Капучино 250 мл", Volume: "250 мл"},
		{ID: "cappuccino_350", Category: "coffee_classic", Name: "Капучино 350 мл", Volume: "350 мл"},
		{ID: "cappuccino_450", Category: "coffee_classic", Name: "Капучино 450 мл", Volume: "450 мл"},
		{ID: "espresso", Category: "coffee_classic", Name: "Эспрессо", Volume: "40 мл"},
		{ID: "latte_raspberry_violet_250", Category: "coffee_signature", Name: "Латте малина-фиалка 250 мл", Volume: "250 мл"},
		{ID: "latte_raspberry_violet_350", Category: "coffee_signature", Name: "Латте малина-фиалка 350 мл", Volume: "350 мл"},
		{ID: "latte_pear_caramel_350", Category: "coffee_signature", Name: "Латте груша-карамель 350 мл", Volume: "350 мл"},
		{ID: "raf_lavender", Category: "coffee_signature", Name: "Раф лавандовый", Volume: "300 мл"},
		{ID: "latte_vanilla", Category: "coffee_signature", Name: "Латте ванильный", Volume: "300 мл"},
		{ID: "matcha_classic", Category: "matcha", Name: "Матча классическая"},
		{ID: "matcha_classic_large", Category: "matcha", Name: "Матча классическая большая"},
	}
}

// Desserts mixes special categories with a plain list category.
func Desserts() []catalog.Item {
	return []catalog.Item{
		{ID: "macaron", Category: "macarons", Name: "Макарон", Description: "Миндальное печенье", Preparation: "Фисташка, малина", ShelfLife: "5 суток", StorageInfo: "+2..+6"},
		{ID: "shu", Category: "shu", Name: "Шу", Preparation: "Ваниль, шоколад"},
		{ID: "cheesecake_ny", Category: "cakes", Name: "Чизкейк Нью-Йорк", Ingredients: "Сыр, печенье", ImagePath: "cheesecake.jpg"},
		{ID: "napoleon", Category: "cakes", Name: "Наполеон"},
	}
}
