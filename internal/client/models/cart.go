package models

import "time"

// Mode tells who owns the authoritative copy of the cart.
type Mode string

const (
	// ModeAnonymous - the cart lives entirely on this client.
	ModeAnonymous Mode = "anonymous"
	// ModeAuthenticated - the server owns the cart; we hold a mirror.
	ModeAuthenticated Mode = "authenticated"
)

// CartLine is one purchasable unit in a cart.
//
// Quantity is never persisted as zero or negative: a mutation that would
// drive it to zero removes the line instead. UnitPrice is the effective
// price captured at add-time and is not recomputed from catalog changes.
// StockSnapshot is the last seen stock, used only to clamp requests.
type CartLine struct {
	LineKey       string    `json:"lineKey"`
	ProductID     ProductID `json:"productId"`
	Variation     Variation `json:"variation,omitzero"`
	Quantity      int       `json:"quantity"`
	UnitPrice     float64   `json:"unitPrice"`
	StockSnapshot int       `json:"stockSnapshot"`
}

// CartSession is the aggregate the reconciliation engine operates on.
// Lines are keyed by LineKey (unique) but kept in insertion order for
// display. ExpiresAt is meaningful in anonymous mode only.
type CartSession struct {
	Mode      Mode       `json:"mode"`
	Lines     []CartLine `json:"lines"`
	ExpiresAt time.Time  `json:"expiresAt,omitzero"`
}

// NewAnonymousSession returns an empty client-owned session.
func NewAnonymousSession() *CartSession {
	return &CartSession{Mode: ModeAnonymous}
}

// FindLine returns the index of the line with the given key, or -1.
func (s *CartSession) FindLine(lineKey string) int {
	for i := range s.Lines {
		if s.Lines[i].LineKey == lineKey {
			return i
		}
	}
	return -1
}

// RemoveLine deletes the line with the given key, preserving order.
// It reports whether a line was removed.
func (s *CartSession) RemoveLine(lineKey string) bool {
	i := s.FindLine(lineKey)
	if i < 0 {
		return false
	}
	s.Lines = append(s.Lines[:i], s.Lines[i+1:]...)
	return true
}

// IsEmpty reports whether the session has no lines.
func (s *CartSession) IsEmpty() bool {
	return len(s.Lines) == 0
}

// Clone returns a deep copy, so a failed remote call can leave the
// caller's snapshot untouched.
func (s *CartSession) Clone() *CartSession {
	c := *s
	c.Lines = make([]CartLine, len(s.Lines))
	copy(c.Lines, s.Lines)
	return &c
}

// ProductSnapshot carries the catalog values captured at add-time.
// DiscountPrice and Stock may be absent; absence of stock data must not
// block adding to cart.
type ProductSnapshot struct {
	ID            ProductID
	Price         float64
	DiscountPrice *float64
	Stock         *int
}

// EffectiveUnitPrice is the discount price when present, else the price.
func (p ProductSnapshot) EffectiveUnitPrice() float64 {
	if p.DiscountPrice != nil {
		return *p.DiscountPrice
	}
	return p.Price
}
