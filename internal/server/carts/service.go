// Package carts implements the authoritative cart operations behind the
// API: reads served through the cache, mutations applied transactionally
// against Postgres with stock clamping.
package carts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/cartkeeper/internal/common"
	"github.com/dmitrijs2005/cartkeeper/internal/dbx"
	"github.com/dmitrijs2005/cartkeeper/internal/logging"
	"github.com/dmitrijs2005/cartkeeper/internal/server/cache"
	"github.com/dmitrijs2005/cartkeeper/internal/server/models"
	cartrepo "github.com/dmitrijs2005/cartkeeper/internal/server/repositories/carts"
	productrepo "github.com/dmitrijs2005/cartkeeper/internal/server/repositories/products"
	syncrepo "github.com/dmitrijs2005/cartkeeper/internal/server/repositories/syncs"
	"golang.org/x/sync/singleflight"
)

// SyncPair is one incoming line of an anonymous cart being merged.
type SyncPair struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Repos bundles the repositories an operation needs, bound to either the
// database or a transaction.
type Repos struct {
	Carts    cartrepo.Repository
	Products productrepo.Repository
	Syncs    syncrepo.Repository
}

func defaultRepos(db dbx.DBTX) Repos {
	return Repos{
		Carts:    cartrepo.NewPostgresRepository(db),
		Products: productrepo.NewPostgresRepository(db),
		Syncs:    syncrepo.NewPostgresRepository(db),
	}
}

type Service struct {
	db     *sql.DB
	repos  func(db dbx.DBTX) Repos
	cache  cache.CartCache
	logger logging.Logger
	sfg    singleflight.Group // prevents cache stampede
}

func NewService(db *sql.DB, c cache.CartCache, logger logging.Logger) *Service {
	return &Service{
		db:     db,
		repos:  defaultRepos,
		cache:  c,
		logger: logger.With("component", "carts"),
	}
}

// GetCart returns the user's cart, preferring the cache. Concurrent misses
// for the same user collapse into one database read.
func (s *Service) GetCart(ctx context.Context, userID string) ([]models.CartItem, error) {
	v, err, _ := s.sfg.Do(userID, func() (interface{}, error) {
		items, err := s.cache.Get(ctx, userID)
		if err == nil {
			return items, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn(ctx, "cache get failed", "error", err)
		}

		items, err = s.repos(s.db).Carts.GetByUser(ctx, userID)
		if err != nil {
			return nil, err
		}

		if err := s.cache.Set(ctx, userID, items); err != nil {
			s.logger.Warn(ctx, "cache set failed", "error", err)
		}
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.CartItem), nil
}

// clampQuantity bounds quantity by the product's current stock.
func clampQuantity(quantity, stock int) int {
	if stock < 0 {
		stock = 0
	}
	if quantity > stock {
		return stock
	}
	return quantity
}

// addToCart applies one additive mutation inside a transaction: the new
// quantity is the existing quantity plus the increment, clamped to stock.
// A result of zero removes the line.
func addToCart(ctx context.Context, r Repos, userID, productID string, increment int) error {
	product, err := r.Products.GetByID(ctx, productID)
	if err != nil {
		return err
	}

	existing := 0
	unitPrice := product.EffectivePrice()

	items, err := r.Carts.GetByUser(ctx, userID)
	if err != nil {
		return err
	}
	for _, item := range items {
		if item.LineKey == productID {
			existing = item.Quantity
			unitPrice = item.UnitPrice // price was captured at first add
			break
		}
	}

	quantity := clampQuantity(existing+increment, product.Stock)
	if quantity == 0 {
		return r.Carts.Delete(ctx, userID, productID)
	}
	return r.Carts.Put(ctx, &models.CartItem{
		UserID:    userID,
		LineKey:   productID,
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		Stock:     product.Stock,
	})
}

// mutate runs fn transactionally, invalidates the cache, and returns the
// resulting cart.
func (s *Service) mutate(ctx context.Context, userID string, fn func(ctx context.Context, r Repos) error) ([]models.CartItem, error) {
	var result []models.CartItem
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		r := s.repos(tx)
		if err := fn(ctx, r); err != nil {
			return err
		}
		items, err := r.Carts.GetByUser(ctx, userID)
		if err != nil {
			return err
		}
		result = items
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.cache.Invalidate(ctx, userID); err != nil {
		s.logger.Warn(ctx, "cache invalidate failed", "error", err)
	}
	return result, nil
}

// AddItem adds quantity units of a product. The quantity that ends up in
// the cart is clamped against current stock.
func (s *Service) AddItem(ctx context.Context, userID, productID string, quantity int) ([]models.CartItem, error) {
	if quantity <= 0 {
		return s.RemoveItem(ctx, userID, productID)
	}
	return s.mutate(ctx, userID, func(ctx context.Context, r Repos) error {
		return addToCart(ctx, r, userID, productID, quantity)
	})
}

// SetQuantity sets the absolute quantity of a line, clamped to stock.
// Zero or less removes the line.
func (s *Service) SetQuantity(ctx context.Context, userID, lineKey string, quantity int) ([]models.CartItem, error) {
	if quantity <= 0 {
		return s.RemoveItem(ctx, userID, lineKey)
	}
	return s.mutate(ctx, userID, func(ctx context.Context, r Repos) error {
		items, err := r.Carts.GetByUser(ctx, userID)
		if err != nil {
			return err
		}
		for _, item := range items {
			if item.LineKey != lineKey {
				continue
			}

			stock := item.Stock
			if product, err := r.Products.GetByID(ctx, item.ProductID); err == nil {
				stock = product.Stock
			}

			q := clampQuantity(quantity, stock)
			if q == 0 {
				return r.Carts.Delete(ctx, userID, lineKey)
			}
			item.Quantity = q
			item.Stock = stock
			return r.Carts.Put(ctx, &item)
		}
		return fmt.Errorf("line %q: %w", lineKey, errLineNotFound)
	})
}

var errLineNotFound = errors.New("cart line not found")

// IsLineNotFound reports whether err means the addressed line does not
// exist in the user's cart.
func IsLineNotFound(err error) bool {
	return errors.Is(err, errLineNotFound)
}

// RemoveItem deletes a line. Removing an absent line is a no-op.
func (s *Service) RemoveItem(ctx context.Context, userID, lineKey string) ([]models.CartItem, error) {
	return s.mutate(ctx, userID, func(ctx context.Context, r Repos) error {
		return r.Carts.Delete(ctx, userID, lineKey)
	})
}

// Clear empties the cart.
func (s *Service) Clear(ctx context.Context, userID string) ([]models.CartItem, error) {
	return s.mutate(ctx, userID, func(ctx context.Context, r Repos) error {
		return r.Carts.Clear(ctx, userID)
	})
}

// Sync merges an anonymous cart into the user's cart. The policy is
// sum-then-clamp: incoming quantities add to existing lines, then each
// line is clamped to current stock. The syncID deduplicates retries -
// a repeated sync is a no-op that returns the current cart. Unknown
// products are skipped rather than failing the whole merge, so one stale
// local line cannot lose the rest of the cart.
func (s *Service) Sync(ctx context.Context, userID, syncID string, pairs []SyncPair) ([]models.CartItem, error) {
	return s.mutate(ctx, userID, func(ctx context.Context, r Repos) error {
		applied, err := r.Syncs.TryRecord(ctx, userID, syncID)
		if err != nil {
			return err
		}
		if !applied {
			s.logger.Info(ctx, "duplicate sync ignored", "user", userID, "sync_id", syncID)
			return nil
		}

		for _, pair := range pairs {
			if pair.Quantity <= 0 {
				continue
			}
			if err := addToCart(ctx, r, userID, pair.ProductID, pair.Quantity); err != nil {
				if errors.Is(err, common.ErrorNotFound) {
					s.logger.Warn(ctx, "sync line skipped, unknown product", "product", pair.ProductID)
					continue
				}
				return err
			}
		}
		return nil
	})
}
