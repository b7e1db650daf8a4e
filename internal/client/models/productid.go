// Package models defines the client-side cart domain: product identity,
// variations, cart lines and the cart session aggregate.
package models

import (
	"strconv"
	"strings"

	"github.com/dmitrijs2005/cartkeeper/internal/common"
)

// ProductID is a normalized product identifier. Values are produced only by
// ParseProductID so the rest of the codebase never deals with raw input.
type ProductID string

// ParseProductID trims raw and returns it as a ProductID. An empty result
// yields common.ErrInvalidIdentity.
func ParseProductID(raw string) (ProductID, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", common.ErrInvalidIdentity
	}
	return ProductID(s), nil
}

// ProductIDFromInt converts a numeric catalog identifier.
func ProductIDFromInt(id int64) ProductID {
	return ProductID(strconv.FormatInt(id, 10))
}

func (p ProductID) String() string {
	return string(p)
}

// Variation is a set of optional attributes a buyer selected for a product.
// Two lines with the same product but different variations are distinct.
type Variation struct {
	Color   string `json:"color,omitempty"`
	Size    string `json:"size,omitempty"`
	Storage string `json:"storage,omitempty"`
}

// IsZero reports whether no attribute is selected.
func (v Variation) IsZero() bool {
	return v.Color == "" && v.Size == "" && v.Storage == ""
}

// ResolveLineKey derives the composite key identifying a cart line:
// the product id joined with the present variation attributes. Resolving
// the same (product, variation) pair always yields the same key.
func ResolveLineKey(id ProductID, v Variation) string {
	parts := make([]string, 0, 4)
	parts = append(parts, string(id))
	for _, attr := range []string{v.Color, v.Size, v.Storage} {
		if attr != "" {
			parts = append(parts, attr)
		}
	}
	return strings.Join(parts, "-")
}
