package carts

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/cartkeeper/internal/dbx"
	"github.com/dmitrijs2005/cartkeeper/internal/server/models"
)

// PostgresRepository implements cart storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByUser lists the user's cart lines in insertion order.
func (r *PostgresRepository) GetByUser(ctx context.Context, userID string) ([]models.CartItem, error) {
	query := `SELECT line_key, product_id, quantity, unit_price, stock
		FROM cart_items WHERE user_id = $1 ORDER BY added_at, line_key`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select cart items: %w", err)
	}
	defer rows.Close()

	var result []models.CartItem
	for rows.Next() {
		item := models.CartItem{UserID: userID}
		if err := rows.Scan(&item.LineKey, &item.ProductID, &item.Quantity, &item.UnitPrice, &item.Stock); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Put upserts a line by (user, line key), replacing quantity, price and
// stock with the given absolute values.
func (r *PostgresRepository) Put(ctx context.Context, item *models.CartItem) error {
	query := `
		INSERT INTO cart_items (user_id, line_key, product_id, quantity, unit_price, stock, added_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (user_id, line_key)
		DO UPDATE SET
			quantity = EXCLUDED.quantity,
			unit_price = EXCLUDED.unit_price,
			stock = EXCLUDED.stock;
	`
	_, err := r.db.ExecContext(ctx, query,
		item.UserID, item.LineKey, item.ProductID, item.Quantity, item.UnitPrice, item.Stock)
	if err != nil {
		return fmt.Errorf("failed to upsert cart item: %w", err)
	}
	return nil
}

// Delete removes one line. Deleting an absent line is not an error.
func (r *PostgresRepository) Delete(ctx context.Context, userID, lineKey string) error {
	query := `DELETE FROM cart_items WHERE user_id = $1 AND line_key = $2`
	if _, err := r.db.ExecContext(ctx, query, userID, lineKey); err != nil {
		return fmt.Errorf("failed to delete cart item: %w", err)
	}
	return nil
}

// Clear removes every line of the user's cart.
func (r *PostgresRepository) Clear(ctx context.Context, userID string) error {
	query := `DELETE FROM cart_items WHERE user_id = $1`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
