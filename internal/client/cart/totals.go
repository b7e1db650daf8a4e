package cart

import "github.com/dmitrijs2005/cartkeeper/internal/client/models"

// Totals is the pure derivation of the current item set. Never negative;
// zero for an empty cart.
type Totals struct {
	Total float64
	Count int
}

// Summarize recomputes totals from the session's lines.
func Summarize(s *models.CartSession) Totals {
	var t Totals
	for _, line := range s.Lines {
		t.Total += line.UnitPrice * float64(line.Quantity)
		t.Count += line.Quantity
	}
	return t
}
