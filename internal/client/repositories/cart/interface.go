// Package cart persists the anonymous cart between runs. The stored payload
// carries its own expiry timestamp because the underlying storage has no
// native TTL.
package cart

import (
	"context"

	"github.com/dmitrijs2005/cartkeeper/internal/client/models"
)

// Repository stores at most one anonymous cart.
//
// Load never fails on bad stored data: an expired or unparsable payload is
// discarded and an empty session is returned, so corrupted local state can
// never block cart usage.
type Repository interface {
	Load(ctx context.Context) (*models.CartSession, error)
	Save(ctx context.Context, session *models.CartSession) error
	Clear(ctx context.Context) error
}
