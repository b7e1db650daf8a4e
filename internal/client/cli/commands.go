package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dmitrijs2005/cartkeeper/internal/client/client"
	"github.com/dmitrijs2005/cartkeeper/internal/client/models"
	"github.com/dmitrijs2005/cartkeeper/internal/common"
)

// getSimpleText and getToken are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getToken = GetToken

// reportMutation prints the outcome of a cart mutation. A stock clamp is
// reported but is not a failure: the mutation succeeded at the reduced
// quantity.
func reportMutation(err error) {
	switch {
	case err == nil:
		fmt.Println("OK")
	case errors.Is(err, common.ErrStockExceeded):
		fmt.Printf("Note: %v\n", err)
	case errors.Is(err, client.ErrUnavailable):
		fmt.Println("Server unavailable, your cart was not changed. Please try again.")
	case errors.Is(err, client.ErrUnauthorized):
		fmt.Println("Session expired, please log in again.")
	default:
		fmt.Printf("Error: %v\n", err)
	}
}

func (a *App) add(ctx context.Context) {
	rawID, err := getSimpleText(a.reader, "Product id", os.Stdout)
	if err != nil {
		return
	}
	id, err := models.ParseProductID(rawID)
	if err != nil {
		fmt.Println("Invalid product id")
		return
	}

	var variation models.Variation
	variation.Color, _ = getSimpleText(a.reader, "Color (optional)", os.Stdout)
	variation.Size, _ = getSimpleText(a.reader, "Size (optional)", os.Stdout)
	variation.Storage, _ = getSimpleText(a.reader, "Storage (optional)", os.Stdout)

	price, err := GetOptionalFloat(a.reader, "Price", os.Stdout)
	if err != nil || price == nil {
		fmt.Println("Price is required")
		return
	}
	discount, err := GetOptionalFloat(a.reader, "Discount price (optional)", os.Stdout)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	stock, err := GetOptionalInt(a.reader, "Stock (optional)", os.Stdout)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	qty, err := GetOptionalInt(a.reader, "Quantity", os.Stdout)
	if err != nil || qty == nil {
		fmt.Println("Quantity is required")
		return
	}

	product := models.ProductSnapshot{ID: id, Price: *price, DiscountPrice: discount, Stock: stock}
	reportMutation(a.cart.AddItem(ctx, product, variation, *qty))
}

func (a *App) remove(ctx context.Context) {
	lineKey, err := getSimpleText(a.reader, "Line key", os.Stdout)
	if err != nil {
		return
	}
	reportMutation(a.cart.RemoveItem(ctx, lineKey))
}

func (a *App) setQuantity(ctx context.Context) {
	lineKey, err := getSimpleText(a.reader, "Line key", os.Stdout)
	if err != nil {
		return
	}
	qty, err := GetOptionalInt(a.reader, "Quantity", os.Stdout)
	if err != nil || qty == nil {
		fmt.Println("Quantity is required")
		return
	}
	reportMutation(a.cart.SetQuantity(ctx, lineKey, *qty))
}

func (a *App) list() {
	s := a.cart.Session()
	if s.IsEmpty() {
		fmt.Println("Cart is empty")
		return
	}
	for _, line := range s.Lines {
		fmt.Printf("%-20s x%-3d %8.2f\n", line.LineKey, line.Quantity, line.UnitPrice)
	}
	totals := a.cart.Totals()
	fmt.Printf("Items: %d  Total: %.2f\n", totals.Count, totals.Total)
}

func (a *App) clear(ctx context.Context) {
	reportMutation(a.cart.ClearCart(ctx))
}

func (a *App) refresh(ctx context.Context) {
	if err := a.cart.Refresh(ctx); err != nil {
		reportMutation(err)
		return
	}
	a.list()
}

func (a *App) login(ctx context.Context) {
	token, err := getToken(os.Stdout)
	if err != nil || token == "" {
		fmt.Println("No token provided")
		return
	}

	if err := a.cart.Login(ctx, token); err != nil {
		// the anonymous cart is kept; the user may retry
		fmt.Printf("%v\n", err)
		return
	}
	fmt.Println("Logged in, cart synced to your account")
	a.list()
}

func (a *App) logout() {
	a.cart.Logout()
	fmt.Println("Logged out")
}
