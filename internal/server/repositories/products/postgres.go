package products

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/cartkeeper/internal/common"
	"github.com/dmitrijs2005/cartkeeper/internal/dbx"
	"github.com/dmitrijs2005/cartkeeper/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByID(ctx context.Context, productID string) (*models.Product, error) {
	query := `SELECT id, price, discount_price, stock FROM products WHERE id = $1`

	var p models.Product
	var discount sql.NullFloat64
	err := r.db.QueryRowContext(ctx, query, productID).Scan(&p.ID, &p.Price, &discount, &p.Stock)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select product: %w", err)
	}
	if discount.Valid {
		p.DiscountPrice = &discount.Float64
	}
	return &p, nil
}
