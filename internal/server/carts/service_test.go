package carts

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"

	"github.com/dmitrijs2005/cartkeeper/internal/common"
	"github.com/dmitrijs2005/cartkeeper/internal/dbx"
	"github.com/dmitrijs2005/cartkeeper/internal/logging"
	"github.com/dmitrijs2005/cartkeeper/internal/server/cache"
	"github.com/dmitrijs2005/cartkeeper/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

// fakeStore implements the cart, product and sync repositories in memory.
type fakeStore struct {
	items    map[string][]models.CartItem
	products map[string]*models.Product
	syncs    map[string]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		items:    map[string][]models.CartItem{},
		products: map[string]*models.Product{},
		syncs:    map[string]bool{},
	}
}

func (f *fakeStore) GetByUser(ctx context.Context, userID string) ([]models.CartItem, error) {
	out := make([]models.CartItem, len(f.items[userID]))
	copy(out, f.items[userID])
	return out, nil
}

func (f *fakeStore) Put(ctx context.Context, item *models.CartItem) error {
	lines := f.items[item.UserID]
	for i := range lines {
		if lines[i].LineKey == item.LineKey {
			lines[i] = *item
			return nil
		}
	}
	f.items[item.UserID] = append(lines, *item)
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, userID, lineKey string) error {
	lines := f.items[userID]
	for i := range lines {
		if lines[i].LineKey == lineKey {
			f.items[userID] = append(lines[:i], lines[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeStore) Clear(ctx context.Context, userID string) error {
	delete(f.items, userID)
	return nil
}

func (f *fakeStore) GetByID(ctx context.Context, productID string) (*models.Product, error) {
	p, ok := f.products[productID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return p, nil
}

func (f *fakeStore) TryRecord(ctx context.Context, userID, syncID string) (bool, error) {
	key := userID + "|" + syncID
	if f.syncs[key] {
		return false, nil
	}
	f.syncs[key] = true
	return true, nil
}

// fakeCache is an in-memory CartCache counting repository-bypassing hits.
type fakeCache struct {
	data map[string][]models.CartItem
	hits int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string][]models.CartItem{}}
}

func (f *fakeCache) Get(ctx context.Context, userID string) ([]models.CartItem, error) {
	items, ok := f.data[userID]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	f.hits++
	return items, nil
}

func (f *fakeCache) Set(ctx context.Context, userID string, items []models.CartItem) error {
	f.data[userID] = items
	return nil
}

func (f *fakeCache) Invalidate(ctx context.Context, userID string) error {
	delete(f.data, userID)
	return nil
}

func setupService(t *testing.T) (*Service, *fakeStore, *fakeCache) {
	t.Helper()

	// transactions need a real handle; the fakes ignore it
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store := newFakeStore()
	c := newFakeCache()
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	svc := NewService(db, c, logger)
	svc.repos = func(dbx.DBTX) Repos {
		return Repos{Carts: store, Products: store, Syncs: store}
	}
	return svc, store, c
}

func TestAddItem_NewLine(t *testing.T) {
	svc, store, _ := setupService(t)
	discount := 50.0
	store.products["42"] = &models.Product{ID: "42", Price: 100, DiscountPrice: &discount, Stock: 10}

	items, err := svc.AddItem(context.Background(), "u1", "42", 2)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 50.0, items[0].UnitPrice)
	assert.Equal(t, 10, items[0].Stock)
}

func TestAddItem_SumsAndClamps(t *testing.T) {
	svc, store, _ := setupService(t)
	store.products["42"] = &models.Product{ID: "42", Price: 100, Stock: 5}
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "u1", "42", 3)
	require.NoError(t, err)
	items, err := svc.AddItem(ctx, "u1", "42", 4)
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
}

func TestAddItem_UnknownProduct(t *testing.T) {
	svc, _, _ := setupService(t)
	_, err := svc.AddItem(context.Background(), "u1", "nope", 1)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestAddItem_KeepsFirstAddPrice(t *testing.T) {
	svc, store, _ := setupService(t)
	store.products["42"] = &models.Product{ID: "42", Price: 100, Stock: 10}
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "u1", "42", 1)
	require.NoError(t, err)

	// a catalog price change does not reprice the existing line
	store.products["42"].Price = 200
	items, err := svc.AddItem(ctx, "u1", "42", 1)
	require.NoError(t, err)
	assert.Equal(t, 100.0, items[0].UnitPrice)
}

func TestSetQuantity(t *testing.T) {
	svc, store, _ := setupService(t)
	store.products["42"] = &models.Product{ID: "42", Price: 100, Stock: 5}
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "u1", "42", 1)
	require.NoError(t, err)

	items, err := svc.SetQuantity(ctx, "u1", "42", 4)
	require.NoError(t, err)
	assert.Equal(t, 4, items[0].Quantity)

	// clamped against current stock
	items, err = svc.SetQuantity(ctx, "u1", "42", 50)
	require.NoError(t, err)
	assert.Equal(t, 5, items[0].Quantity)

	// zero removes the line
	items, err = svc.SetQuantity(ctx, "u1", "42", 0)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestSetQuantity_UnknownLine(t *testing.T) {
	svc, _, _ := setupService(t)
	_, err := svc.SetQuantity(context.Background(), "u1", "nope", 2)
	assert.True(t, IsLineNotFound(err))
}

func TestRemoveAndClear(t *testing.T) {
	svc, store, _ := setupService(t)
	store.products["1"] = &models.Product{ID: "1", Price: 10, Stock: 9}
	store.products["2"] = &models.Product{ID: "2", Price: 20, Stock: 9}
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "u1", "1", 1)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, "u1", "2", 1)
	require.NoError(t, err)

	items, err := svc.RemoveItem(ctx, "u1", "1")
	require.NoError(t, err)
	require.Len(t, items, 1)

	// removing an absent line is a no-op
	items, err = svc.RemoveItem(ctx, "u1", "1")
	require.NoError(t, err)
	require.Len(t, items, 1)

	items, err = svc.Clear(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestSync_SumThenClamp(t *testing.T) {
	svc, store, _ := setupService(t)
	store.products["1"] = &models.Product{ID: "1", Price: 10, Stock: 4}
	store.products["2"] = &models.Product{ID: "2", Price: 20, Stock: 10}
	ctx := context.Background()

	// existing server cart: 3 units of product 1
	_, err := svc.AddItem(ctx, "u1", "1", 3)
	require.NoError(t, err)

	items, err := svc.Sync(ctx, "u1", "sync-1", []SyncPair{
		{ProductID: "1", Quantity: 2}, // 3+2=5, clamped to 4
		{ProductID: "2", Quantity: 1},
	})
	require.NoError(t, err)

	require.Len(t, items, 2)
	assert.Equal(t, 4, items[0].Quantity)
	assert.Equal(t, 1, items[1].Quantity)
}

func TestSync_IsIdempotentPerSyncID(t *testing.T) {
	svc, store, _ := setupService(t)
	store.products["1"] = &models.Product{ID: "1", Price: 10, Stock: 100}
	ctx := context.Background()

	pairs := []SyncPair{{ProductID: "1", Quantity: 2}}

	once, err := svc.Sync(ctx, "u1", "sync-1", pairs)
	require.NoError(t, err)
	twice, err := svc.Sync(ctx, "u1", "sync-1", pairs)
	require.NoError(t, err)

	// no double-increment on retry with the same sync id
	assert.Equal(t, once, twice)
	assert.Equal(t, 2, twice[0].Quantity)

	// a different sync id is a new merge
	again, err := svc.Sync(ctx, "u1", "sync-2", pairs)
	require.NoError(t, err)
	assert.Equal(t, 4, again[0].Quantity)
}

func TestSync_SkipsUnknownProducts(t *testing.T) {
	svc, store, _ := setupService(t)
	store.products["1"] = &models.Product{ID: "1", Price: 10, Stock: 10}
	ctx := context.Background()

	items, err := svc.Sync(ctx, "u1", "sync-1", []SyncPair{
		{ProductID: "gone", Quantity: 2},
		{ProductID: "1", Quantity: 1},
	})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "1", items[0].LineKey)
}

func TestGetCart_UsesCache(t *testing.T) {
	svc, store, c := setupService(t)
	store.products["1"] = &models.Product{ID: "1", Price: 10, Stock: 10}
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "u1", "1", 1)
	require.NoError(t, err)

	// first read fills the cache, second is served from it
	_, err = svc.GetCart(ctx, "u1")
	require.NoError(t, err)
	_, err = svc.GetCart(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, c.hits)

	// mutations invalidate
	_, err = svc.AddItem(ctx, "u1", "1", 1)
	require.NoError(t, err)
	_, _ = svc.GetCart(ctx, "u1")
	assert.Equal(t, 1, c.hits)
}
