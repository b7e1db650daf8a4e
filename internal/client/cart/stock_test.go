package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name      string
		requested int
		stock     int
		want      ClampResult
	}{
		{"within stock", 3, 5, ClampResult{Quantity: 3}},
		{"exactly stock", 5, 5, ClampResult{Quantity: 5}},
		{"over stock", 7, 5, ClampResult{Quantity: 5, Clamped: true}},
		{"zero stock", 1, 0, ClampResult{Quantity: 0, Clamped: true}},
		{"negative stock treated as zero", 1, -3, ClampResult{Quantity: 0, Clamped: true}},
		{"removal is never a clamp", 0, 5, ClampResult{Quantity: 0}},
		{"negative request is removal", -2, 5, ClampResult{Quantity: 0}},
		{"unknown stock is unclamped", 1000, UnlimitedStock, ClampResult{Quantity: 1000}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Clamp(tc.requested, tc.stock))
		})
	}
}

func TestStockOrUnlimited(t *testing.T) {
	five := 5
	assert.Equal(t, 5, StockOrUnlimited(&five))
	assert.Equal(t, UnlimitedStock, StockOrUnlimited(nil))
}
