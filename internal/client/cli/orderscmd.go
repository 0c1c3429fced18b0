package cli

import (
	"context"
	"fmt"
)

// Orders prints the authenticated user's order history.
func (a *App) Orders(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("Please log in to see your orders.")
		return nil
	}

	list, err := a.orders.List(ctx)
	if err != nil {
		printlnFn("Could not load orders:", err.Error())
		return err
	}
	if len(list) == 0 {
		printlnFn("No orders yet.")
		return nil
	}
	for _, o := range list {
		printlnFn(fmt.Sprintf("Order #%d  $%.2f  %s (%s)",
			o.ID, o.TotalAmount, o.Status, o.CreatedAt.Format("2006-01-02")))
	}
	return nil
}
