package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/example/storefront/internal/client/checkout"
)

// Checkout runs the order-submission flow. Preconditions mirror the
// web client's redirects: unauthenticated users are sent to login,
// an empty cart back to the cart view.
func (a *App) Checkout(ctx context.Context) error {
	flow := checkout.NewFlow(a.gw, a.session, a.cart, nil)

	if err := flow.CheckPreconditions(); err != nil {
		switch {
		case errors.Is(err, checkout.ErrNotAuthenticated):
			printlnFn("Please log in before checking out.")
		case errors.Is(err, checkout.ErrEmptyCart):
			printlnFn("Your cart is empty; add something first.")
		default:
			printlnFn("Cannot check out:", err.Error())
		}
		return err
	}

	subtotal, tax, total := flow.Totals()
	printlnFn(fmt.Sprintf("Subtotal $%.2f, tax $%.2f, total $%.2f", subtotal, tax, total))

	confirm, err := getSimpleText(a.reader, "Place order? (y/n)", os.Stdout)
	if err != nil {
		return err
	}
	if !strings.EqualFold(confirm, "y") {
		printlnFn("Checkout cancelled.")
		return nil
	}

	order, err := flow.Submit(ctx)
	if err != nil {
		printlnFn("Order failed:", err.Error())
		return err
	}

	printlnFn(fmt.Sprintf("Order #%d placed, total $%.2f. Thank you!", order.ID, order.TotalAmount))
	return nil
}
