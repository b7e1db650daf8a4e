package cart

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/cartkeeper/internal/client/client"
	"github.com/dmitrijs2005/cartkeeper/internal/client/models"
	cartrepo "github.com/dmitrijs2005/cartkeeper/internal/client/repositories/cart"
	"github.com/dmitrijs2005/cartkeeper/internal/common"
	"github.com/dmitrijs2005/cartkeeper/internal/logging"
	"github.com/google/uuid"
)

// Service is the reconciliation engine. It owns the in-memory CartSession
// and routes every mutation either to the local store (anonymous) or to
// the remote cart API (authenticated).
//
// In authenticated mode a failed remote call leaves the session exactly as
// it was: the server cart is the single source of truth and we never fall
// back to mutating the local store with a token present.
type Service struct {
	remote  client.Client
	local   cartrepo.Repository
	logger  logging.Logger
	session *models.CartSession
}

func NewService(remote client.Client, local cartrepo.Repository, logger logging.Logger) *Service {
	return &Service{
		remote:  remote,
		local:   local,
		logger:  logger.With("component", "cart"),
		session: models.NewAnonymousSession(),
	}
}

// Restore loads any persisted anonymous cart into memory. Called once at
// startup, before the first mutation.
func (s *Service) Restore(ctx context.Context) error {
	session, err := s.local.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to restore cart: %w", err)
	}
	s.session = session
	return nil
}

// Session returns a copy of the current cart state.
func (s *Service) Session() *models.CartSession {
	return s.session.Clone()
}

// Totals derives the current total and item count.
func (s *Service) Totals() Totals {
	return Summarize(s.session)
}

// IsAuthenticated reports whether mutations are routed to the server.
func (s *Service) IsAuthenticated() bool {
	return s.remote.HasToken()
}

// persistAnonymous writes the session to the local store. An empty cart
// clears the store instead, so nothing extends the TTL of nothing.
func (s *Service) persistAnonymous(ctx context.Context, session *models.CartSession) error {
	if session.IsEmpty() {
		return s.local.Clear(ctx)
	}
	return s.local.Save(ctx, session)
}

// AddItem adds quantity units of a product (with optional variation) to
// the cart. The catalog snapshot supplies price and stock captured at
// add-time. In anonymous mode the quantity is clamped against the last
// seen stock; a clamped mutation still succeeds and returns
// common.ErrStockExceeded so the caller can notify the user.
func (s *Service) AddItem(ctx context.Context, product models.ProductSnapshot, variation models.Variation, requested int) error {
	if product.ID == "" {
		return common.ErrInvalidIdentity
	}

	lineKey := models.ResolveLineKey(product.ID, variation)

	if requested <= 0 {
		return s.RemoveItem(ctx, lineKey)
	}

	if s.IsAuthenticated() {
		resp, err := s.remote.AddItem(ctx, product.ID, requested)
		if err != nil {
			return fmt.Errorf("failed to add item: %w", err)
		}
		s.session = resp
		return nil
	}

	next := s.session.Clone()
	stock := StockOrUnlimited(product.Stock)

	i := next.FindLine(lineKey)
	if i >= 0 {
		// an unknown incoming stock keeps the last known snapshot
		if product.Stock == nil {
			stock = next.Lines[i].StockSnapshot
		}
		next.Lines[i].StockSnapshot = stock
		res := Clamp(next.Lines[i].Quantity+requested, stock)
		if res.Quantity == 0 {
			next.RemoveLine(lineKey)
		} else {
			next.Lines[i].Quantity = res.Quantity
		}
		if err := s.persistAnonymous(ctx, next); err != nil {
			return err
		}
		s.session = next
		if res.Clamped {
			return fmt.Errorf("%w: only %d available", common.ErrStockExceeded, stock)
		}
		return nil
	}

	res := Clamp(requested, stock)
	if res.Quantity == 0 {
		// nothing in stock: no line is created
		return fmt.Errorf("%w: only %d available", common.ErrStockExceeded, stock)
	}
	next.Lines = append(next.Lines, models.CartLine{
		LineKey:       lineKey,
		ProductID:     product.ID,
		Variation:     variation,
		Quantity:      res.Quantity,
		UnitPrice:     product.EffectiveUnitPrice(),
		StockSnapshot: stock,
	})
	if err := s.persistAnonymous(ctx, next); err != nil {
		return err
	}
	s.session = next
	if res.Clamped {
		return fmt.Errorf("%w: only %d available", common.ErrStockExceeded, stock)
	}
	return nil
}

// SetQuantity sets the absolute quantity of an existing line. A quantity
// of zero or less removes the line.
func (s *Service) SetQuantity(ctx context.Context, lineKey string, quantity int) error {
	if s.IsAuthenticated() {
		resp, err := s.remote.SetQuantity(ctx, lineKey, quantity)
		if err != nil {
			return fmt.Errorf("failed to update quantity: %w", err)
		}
		s.session = resp
		return nil
	}

	if quantity <= 0 {
		return s.RemoveItem(ctx, lineKey)
	}

	next := s.session.Clone()
	i := next.FindLine(lineKey)
	if i < 0 {
		return common.ErrorNotFound
	}

	stock := next.Lines[i].StockSnapshot
	res := Clamp(quantity, stock)
	if res.Quantity == 0 {
		next.RemoveLine(lineKey)
	} else {
		next.Lines[i].Quantity = res.Quantity
	}
	if err := s.persistAnonymous(ctx, next); err != nil {
		return err
	}
	s.session = next
	if res.Clamped {
		return fmt.Errorf("%w: only %d available", common.ErrStockExceeded, stock)
	}
	return nil
}

// RemoveItem deletes a line. Removing an unknown line is a no-op in
// anonymous mode.
func (s *Service) RemoveItem(ctx context.Context, lineKey string) error {
	if s.IsAuthenticated() {
		resp, err := s.remote.RemoveItem(ctx, lineKey)
		if err != nil {
			return fmt.Errorf("failed to remove item: %w", err)
		}
		s.session = resp
		return nil
	}

	next := s.session.Clone()
	if !next.RemoveLine(lineKey) {
		return nil
	}
	if err := s.persistAnonymous(ctx, next); err != nil {
		return err
	}
	s.session = next
	return nil
}

// ClearCart empties the cart.
func (s *Service) ClearCart(ctx context.Context) error {
	if s.IsAuthenticated() {
		resp, err := s.remote.Clear(ctx)
		if err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}
		s.session = resp
		return nil
	}

	if err := s.local.Clear(ctx); err != nil {
		return err
	}
	s.session = models.NewAnonymousSession()
	return nil
}

// Login runs the merge protocol for the anonymous-to-authenticated
// transition:
//
//  1. an empty local cart means we simply adopt the server's cart;
//  2. otherwise every local line becomes a {productId, quantity} pair and
//     is sent in one sync call - the server decides how overlapping lines
//     combine;
//  3. on success the server snapshot replaces local state and the local
//     store is deleted;
//  4. on failure the local cart is untouched, the token is dropped, and
//     the user keeps shopping anonymously; login may be retried.
func (s *Service) Login(ctx context.Context, token string) error {
	s.remote.SetToken(token)

	local, err := s.local.Load(ctx)
	if err != nil {
		s.remote.ClearToken()
		return fmt.Errorf("%w: %v", common.ErrMergeFailed, err)
	}

	var merged *models.CartSession
	if local.IsEmpty() {
		merged, err = s.remote.GetCart(ctx)
	} else {
		items := make([]client.SyncItem, 0, len(local.Lines))
		for _, line := range local.Lines {
			items = append(items, client.SyncItem{ProductID: line.ProductID, Quantity: line.Quantity})
		}
		merged, err = s.remote.SyncCart(ctx, uuid.NewString(), items)
	}
	if err != nil {
		s.remote.ClearToken()
		s.logger.Warn(ctx, "cart merge failed", "error", err)
		return fmt.Errorf("%w: %v", common.ErrMergeFailed, err)
	}

	if err := s.local.Clear(ctx); err != nil {
		s.logger.Warn(ctx, "failed to clear local cart after merge", "error", err)
	}
	s.session = merged
	s.logger.Info(ctx, "cart merged", "lines", len(merged.Lines))
	return nil
}

// Logout drops the token and reverts to an empty anonymous session. The
// server cart is not fetched speculatively.
func (s *Service) Logout() {
	s.remote.ClearToken()
	s.session = models.NewAnonymousSession()
}

// Refresh re-reads the authoritative state: the server cart when
// authenticated, the local store otherwise.
func (s *Service) Refresh(ctx context.Context) error {
	if s.IsAuthenticated() {
		resp, err := s.remote.GetCart(ctx)
		if err != nil {
			return fmt.Errorf("failed to refresh cart: %w", err)
		}
		s.session = resp
		return nil
	}
	return s.Restore(ctx)
}
