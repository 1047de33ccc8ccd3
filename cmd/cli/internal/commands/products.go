package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/vendora/vendora/internal/catalog"
	"github.com/vendora/vendora/internal/models"
	"github.com/vendora/vendora/internal/util"
)

// ProductsCmd browses the public catalog with client-side filtering.
type ProductsCmd struct {
	clientFlags
	Search   string   `help:"Filter by product name" short:"s"`
	Category []string `help:"Filter by category name"`
	Sort     string   `help:"Sort order: relevant, price-asc, price-desc" default:"relevant" enum:"relevant,price-asc,price-desc"`
}

func (p *ProductsCmd) Run(ctx context.Context, globals *Globals) error {
	client, err := p.newClient(globals)
	if err != nil {
		return err
	}

	cache := catalog.New()
	if err := cache.Load(ctx, client); err != nil {
		return fmt.Errorf("failed to load products: %w", err)
	}

	products := cache.Search(p.Search, p.Category, catalog.SortOrder(p.Sort))
	if len(products) == 0 {
		fmt.Println("No products found.")
		return nil
	}

	printProducts(products)
	return nil
}

func printProducts(products []models.Product) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPRICE\tCATEGORY\tSTORE")

	for _, product := range products {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			product.ID,
			util.Truncate(product.Name, 40),
			money(product.Price),
			util.Truncate(product.Category.Name, 20),
			product.StoreID)
	}

	w.Flush()
	fmt.Printf("\nTotal products: %d\n", len(products))
}

// CategoriesCmd lists the public category tree used for filtering.
type CategoriesCmd struct {
	clientFlags
}

func (c *CategoriesCmd) Run(ctx context.Context, globals *Globals) error {
	client, err := c.newClient(globals)
	if err != nil {
		return err
	}

	categories, err := client.ListCategories(ctx)
	if err != nil {
		return fmt.Errorf("failed to load categories: %w", err)
	}

	if len(categories) == 0 {
		fmt.Println("No categories found.")
		return nil
	}

	for _, category := range categories {
		fmt.Printf("%s\t%s\n", category.ID, category.Name)
	}

	return nil
}

// ProductCmd shows one product's details.
type ProductCmd struct {
	clientFlags
	ID string `arg:"" help:"Product id"`
}

func (p *ProductCmd) Run(ctx context.Context, globals *Globals) error {
	client, err := p.newClient(globals)
	if err != nil {
		return err
	}

	product, err := client.GetProduct(ctx, p.ID)
	if err != nil {
		return err
	}

	fmt.Printf("Name:      %s\n", product.Name)
	fmt.Printf("Price:     %s\n", money(product.Price))
	if product.Category.Name != "" {
		fmt.Printf("Category:  %s\n", product.Category.Name)
	}
	fmt.Printf("Store:     %s\n", product.StoreID)
	if product.Quantity > 0 {
		fmt.Printf("In stock:  %d\n", product.Quantity)
	}
	if product.Description != "" {
		fmt.Println()
		fmt.Println(product.Description)
	}

	return nil
}
