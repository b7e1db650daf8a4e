// Package carts provides the PostgreSQL-backed repository for server-side
// cart persistence.
package carts

import (
	"context"

	"github.com/dmitrijs2005/cartkeeper/internal/server/models"
)

// Repository stores cart lines per user. Implementations are bound to a
// dbx.DBTX so the same code runs against a database or a transaction.
type Repository interface {
	GetByUser(ctx context.Context, userID string) ([]models.CartItem, error)
	Put(ctx context.Context, item *models.CartItem) error
	Delete(ctx context.Context, userID, lineKey string) error
	Clear(ctx context.Context, userID string) error
}
