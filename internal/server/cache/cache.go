// Package cache holds the read-through cart cache in front of the
// database. A miss is signalled with ErrCacheMiss; any other error should
// be logged and ignored so a broken cache never breaks the cart.
package cache

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/cartkeeper/internal/server/models"
)

var ErrCacheMiss = errors.New("cache miss")

type CartCache interface {
	Get(ctx context.Context, userID string) ([]models.CartItem, error)
	Set(ctx context.Context, userID string, items []models.CartItem) error
	Invalidate(ctx context.Context, userID string) error
}
