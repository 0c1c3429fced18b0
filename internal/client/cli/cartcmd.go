package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/example/storefront/internal/client/cart"
)

// ShowCart prints the current cart with derived totals.
func (a *App) ShowCart(ctx context.Context) error {
	if a.cart.Status() == cart.StatusNotLoaded {
		if err := a.cart.Load(ctx); err != nil {
			printlnFn("Could not load cart:", err.Error())
			return err
		}
	}

	items := a.cart.Items()
	if len(items) == 0 {
		printlnFn("Your cart is empty.")
		return nil
	}
	for _, item := range items {
		printlnFn(fmt.Sprintf("[%d] %s x%d  $%.2f",
			item.ID, item.Product.Name, item.Quantity,
			item.Product.Price*float64(item.Quantity)))
	}
	printlnFn(fmt.Sprintf("%d item(s), total $%.2f", a.cart.TotalItems(), a.cart.TotalPrice()))
	return nil
}

// Add puts a product into the cart: add <product id> [quantity].
func (a *App) Add(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: add <product id> [quantity]")
		return nil
	}
	productID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		printlnFn("Invalid product id:", args[0])
		return nil
	}
	quantity := 1
	if len(args) > 1 {
		quantity, err = strconv.Atoi(args[1])
		if err != nil {
			printlnFn("Invalid quantity:", args[1])
			return nil
		}
	}

	product, err := a.catalog.Get(ctx, productID)
	if err != nil {
		printlnFn("Could not load product:", err.Error())
		return err
	}

	if err := a.cart.AddToCart(ctx, product, quantity); err != nil {
		if errors.Is(err, cart.ErrInsufficientStock) {
			printlnFn("Not enough stock for", product.Name)
			return err
		}
		printlnFn("Could not add to cart:", err.Error())
		return err
	}

	printlnFn(fmt.Sprintf("Added %s x%d.", product.Name, quantity))
	return nil
}

// Update changes a line's quantity: update <item id> <quantity>.
// A quantity of zero removes the line.
func (a *App) Update(ctx context.Context, args []string) error {
	if len(args) < 2 {
		printlnFn("Usage: update <item id> <quantity>")
		return nil
	}
	itemID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		printlnFn("Invalid item id:", args[0])
		return nil
	}
	quantity, err := strconv.Atoi(args[1])
	if err != nil {
		printlnFn("Invalid quantity:", args[1])
		return nil
	}

	if err := a.cart.UpdateQuantity(ctx, itemID, quantity); err != nil {
		if errors.Is(err, cart.ErrItemNotFound) {
			printlnFn("No such item in your cart.")
			return err
		}
		printlnFn("Could not update cart:", err.Error())
		return err
	}
	printlnFn("Cart updated.")
	return nil
}

// Remove deletes a line: remove <item id>.
func (a *App) Remove(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: remove <item id>")
		return nil
	}
	itemID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		printlnFn("Invalid item id:", args[0])
		return nil
	}

	if err := a.cart.RemoveFromCart(ctx, itemID); err != nil {
		printlnFn("Could not remove item:", err.Error())
		return err
	}
	printlnFn("Item removed.")
	return nil
}
