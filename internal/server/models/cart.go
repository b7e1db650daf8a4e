// Package models defines the server-side rows backing the cart API.
package models

// CartItem is one line of a user's server-side cart. The server does not
// interpret variations; LineKey is the product identifier as sent by the
// client.
type CartItem struct {
	UserID    string  `json:"-"`
	LineKey   string  `json:"lineKey"`
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	Stock     int     `json:"stockSnapshot"`
}

// Product is a catalog row used for pricing and stock clamping at
// mutation time.
type Product struct {
	ID            string
	Price         float64
	DiscountPrice *float64
	Stock         int
}

// EffectivePrice is the discount price when present, else the list price.
func (p Product) EffectivePrice() float64 {
	if p.DiscountPrice != nil {
		return *p.DiscountPrice
	}
	return p.Price
}
