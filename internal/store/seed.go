package store

import (
	"context"
	"fmt"
)

type seedProduct struct {
	id          int64
	name        string
	price       float64
	category    string
	description string
	stock       int
}

var demoProducts = []seedProduct{
	{1, "Wireless Mouse", 24.99, "electronics", "Compact 2.4GHz wireless mouse with adjustable DPI.", 40},
	{2, "Mechanical Keyboard", 89.99, "electronics", "Tenkeyless mechanical keyboard with brown switches.", 25},
	{3, "Noise Cancelling Headphones", 199.99, "electronics", "Over-ear headphones with active noise cancellation.", 15},
	{4, "Stainless Water Bottle", 18.50, "kitchen", "Insulated 750ml bottle, keeps drinks cold for 24h.", 60},
	{5, "Pour-Over Coffee Kit", 42.00, "kitchen", "Ceramic dripper, glass carafe and paper filters.", 30},
	{6, "Trail Running Shoes", 129.95, "sports", "Lightweight trail shoes with aggressive grip.", 20},
	{7, "Yoga Mat", 34.00, "sports", "Non-slip 6mm yoga mat with carry strap.", 45},
	{8, "Hardcover Notebook", 12.99, "stationery", "Dotted A5 notebook, 192 pages, lay-flat binding.", 80},
}

// SeedDemoData inserts the demo catalog when the products table is empty.
func (s *Store) SeedDemoData(ctx context.Context) error {
	var count int
	if err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM products"); err != nil {
		return fmt.Errorf("count products: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer tx.Rollback()

	insertProduct := s.db.Rebind("INSERT INTO products (id, name, price) VALUES (?, ?, ?)")
	insertDetail := s.db.Rebind("INSERT INTO details (id, category, description, stock) VALUES (?, ?, ?, ?)")

	for _, p := range demoProducts {
		if _, err := tx.ExecContext(ctx, insertProduct, p.id, p.name, p.price); err != nil {
			return fmt.Errorf("seed product %d: %w", p.id, err)
		}
		if _, err := tx.ExecContext(ctx, insertDetail, p.id, p.category, p.description, p.stock); err != nil {
			return fmt.Errorf("seed detail %d: %w", p.id, err)
		}
	}

	return tx.Commit()
}
