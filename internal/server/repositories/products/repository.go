// Package products provides read access to the catalog rows the cart
// service needs for pricing and stock clamping.
package products

import (
	"context"

	"github.com/dmitrijs2005/cartkeeper/internal/server/models"
)

type Repository interface {
	// GetByID returns the product or common.ErrorNotFound.
	GetByID(ctx context.Context, productID string) (*models.Product, error)
}
