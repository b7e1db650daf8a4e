// Package client talks to the authoritative cart API on behalf of an
// authenticated user. Every successful call returns the full server-side
// cart snapshot; callers replace their own state with it rather than
// trusting an optimistic guess.
package client

import (
	"context"

	"github.com/dmitrijs2005/cartkeeper/internal/client/models"
)

// SyncItem is one line of an anonymous cart being merged into the
// server cart at login.
type SyncItem struct {
	ProductID models.ProductID `json:"productId"`
	Quantity  int              `json:"quantity"`
}

// Client is the remote cart contract. All methods except Ping require a
// bearer token and may fail with ErrUnavailable or ErrUnauthorized.
type Client interface {
	Close() error
	SetToken(token string)
	ClearToken()
	HasToken() bool
	Ping(ctx context.Context) error
	GetCart(ctx context.Context) (*models.CartSession, error)
	AddItem(ctx context.Context, productID models.ProductID, quantity int) (*models.CartSession, error)
	RemoveItem(ctx context.Context, lineKey string) (*models.CartSession, error)
	SetQuantity(ctx context.Context, lineKey string, quantity int) (*models.CartSession, error)
	Clear(ctx context.Context) (*models.CartSession, error)
	SyncCart(ctx context.Context, syncID string, items []SyncItem) (*models.CartSession, error)
}
