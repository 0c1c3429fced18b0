package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/example/storefront/internal/models"
)

func formatProduct(p models.Product) string {
	return fmt.Sprintf("#%d %s  $%.2f  (%d in stock)", p.ID, p.Name, p.Price, p.InventoryCount)
}

// Products lists the catalog.
func (a *App) Products(ctx context.Context) error {
	products, err := a.catalog.Refresh(ctx)
	if err != nil {
		printlnFn("Could not load products:", err.Error())
		return err
	}
	if len(products) == 0 {
		printlnFn("No products available.")
		return nil
	}
	for _, p := range products {
		printlnFn(formatProduct(p))
	}
	return nil
}

// Search lists catalog entries matching a query.
func (a *App) Search(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: search <query>")
		return nil
	}
	products, err := a.catalog.Search(ctx, strings.Join(args, " "))
	if err != nil {
		printlnFn("Search failed:", err.Error())
		return err
	}
	if len(products) == 0 {
		printlnFn("Nothing found.")
		return nil
	}
	for _, p := range products {
		printlnFn(formatProduct(p))
	}
	return nil
}

// Show prints one product's details.
func (a *App) Show(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: show <product id>")
		return nil
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		printlnFn("Invalid product id:", args[0])
		return nil
	}

	p, err := a.catalog.Get(ctx, id)
	if err != nil {
		printlnFn("Could not load product:", err.Error())
		return err
	}

	printlnFn(formatProduct(p))
	if p.Description != "" {
		printlnFn(p.Description)
	}
	return nil
}
