// Package cart implements the client-side cart engine: stock clamping,
// totals, and the reconciliation service that keeps the anonymous local
// cart and the authenticated server cart consistent.
package cart

import "math"

// UnlimitedStock is the ceiling used when no stock data is known. Absence
// of stock data must never block adding to cart.
const UnlimitedStock = math.MaxInt32

// ClampResult is the outcome of clamping a requested quantity.
// When Clamped is set, the caller must tell the user the request could not
// be fully satisfied rather than reducing it silently.
type ClampResult struct {
	Quantity int
	Clamped  bool
}

// Clamp bounds a requested quantity by the last seen stock. A request of
// zero or less always means removal and never produces a clamp warning.
func Clamp(requested, stock int) ClampResult {
	if requested <= 0 {
		return ClampResult{Quantity: 0}
	}
	if stock < 0 {
		stock = 0
	}
	if requested > stock {
		return ClampResult{Quantity: stock, Clamped: true}
	}
	return ClampResult{Quantity: requested}
}

// StockOrUnlimited converts an optional catalog stock value to a clampable
// ceiling.
func StockOrUnlimited(stock *int) int {
	if stock == nil {
		return UnlimitedStock
	}
	return *stock
}
