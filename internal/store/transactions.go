package store

import (
	"context"
	"fmt"

	"shop-service/internal/models"
)

// CreatePurchaseTx decrements the product's stock by one and inserts the
// transaction row within a single database transaction. The decrement is
// guarded, so concurrent purchases of the last unit leave at most one winner;
// the loser gets ErrOutOfStock. The generated identifier is captured from the
// insert itself, never from a separate most-recent-row query, so each caller
// receives its own transaction's id.
func (s *Store) CreatePurchaseTx(ctx context.Context, t *models.Transaction) (int64, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin purchase tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		s.db.Rebind("UPDATE details SET stock = stock - 1 WHERE id = ? AND stock > 0"),
		t.ProductID)
	if err != nil {
		return 0, fmt.Errorf("decrement stock: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("decrement stock result: %w", err)
	}
	if affected == 0 {
		return 0, fmt.Errorf("product %d: %w", t.ProductID, ErrOutOfStock)
	}

	err = tx.GetContext(ctx, &t.TransactionID,
		s.db.Rebind(`
			INSERT INTO transactions (username, product_id, product_name, price)
			VALUES (?, ?, ?, ?)
			RETURNING transaction_id`),
		t.Username, t.ProductID, t.ProductName, t.Price)
	if err != nil {
		return 0, fmt.Errorf("insert transaction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit purchase tx: %w", err)
	}
	return t.TransactionID, nil
}

// GetTransactionsByUsername retrieves a user's purchase history ordered by id
func (s *Store) GetTransactionsByUsername(ctx context.Context, username string) ([]models.Transaction, error) {
	query := s.db.Rebind(`
		SELECT transaction_id, username, product_id, product_name, price
		FROM transactions
		WHERE username = ?
		ORDER BY transaction_id`)

	transactions := []models.Transaction{}
	err := s.db.SelectContext(ctx, &transactions, query, username)
	return transactions, err
}

// GetStock returns the current stock for a product's detail row
func (s *Store) GetStock(ctx context.Context, productID int64) (int, error) {
	var stock int
	err := s.db.GetContext(ctx, &stock,
		s.db.Rebind("SELECT stock FROM details WHERE id = ?"), productID)
	if err != nil {
		return 0, err
	}
	return stock, nil
}
