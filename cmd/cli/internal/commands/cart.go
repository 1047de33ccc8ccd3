package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/vendora/vendora/internal/state"
	"github.com/vendora/vendora/internal/util"
)

// CartCmd manages the shopping cart.
type CartCmd struct {
	Show   CartShowCmd   `cmd:"" default:"1" help:"Show the cart contents"`
	Add    CartAddCmd    `cmd:"" help:"Add one unit of a product"`
	Set    CartSetCmd    `cmd:"" help:"Set the quantity of a product"`
	Remove CartRemoveCmd `cmd:"" help:"Remove a product from the cart"`
}

// CartShowCmd renders the cart resolved against the catalog.
type CartShowCmd struct {
	clientFlags
}

func (c *CartShowCmd) Run(ctx context.Context, globals *Globals) error {
	store, err := c.newStore(ctx, globals)
	if err != nil {
		return err
	}

	printCart(os.Stdout, store)
	return nil
}

func printCart(out io.Writer, store *state.Store) {
	snap := store.Snapshot()
	if len(snap.Cart) == 0 {
		fmt.Fprintln(out, "Your cart is empty.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tQTY\tPRICE\tSUBTOTAL")

	unresolved := 0
	for productID, qty := range snap.Cart {
		product, ok := store.Catalog().Lookup(productID)
		if !ok {
			// Entry stays in the cart; the catalog may simply lag behind.
			unresolved++
			continue
		}
		subtotal := product.Price.Mul(decimal.NewFromInt(int64(qty)))
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
			productID,
			util.Truncate(product.Name, 40),
			qty,
			money(product.Price),
			money(subtotal))
	}

	w.Flush()

	if unresolved > 0 {
		fmt.Fprintf(out, "\n%d item(s) could not be resolved against the catalog and are not shown.\n", unresolved)
	}

	subtotal := store.CartAmount()
	fmt.Fprintf(out, "\nItems:    %d\n", store.CartCount())
	fmt.Fprintf(out, "Subtotal: %s\n", money(subtotal))
	fmt.Fprintf(out, "Delivery: %s\n", money(deliveryCharge))
	fmt.Fprintf(out, "Total:    %s\n", money(subtotal.Add(deliveryCharge)))
}

// CartAddCmd adds one unit of a product.
type CartAddCmd struct {
	clientFlags
	ProductID string `arg:"" help:"Product id"`
}

func (c *CartAddCmd) Run(ctx context.Context, globals *Globals) error {
	store, err := c.newStore(ctx, globals)
	if err != nil {
		return err
	}

	if err := store.AddItem(ctx, c.ProductID); err != nil {
		return err
	}

	fmt.Printf("Cart now has %d item(s), %s\n", store.CartCount(), money(store.CartAmount()))
	return nil
}

// CartSetCmd sets a product's quantity; zero removes it.
type CartSetCmd struct {
	clientFlags
	ProductID string `arg:"" help:"Product id"`
	Quantity  int    `arg:"" help:"New quantity (0 removes the item)"`
}

func (c *CartSetCmd) Run(ctx context.Context, globals *Globals) error {
	if c.Quantity < 0 {
		return fmt.Errorf("quantity must be a non-negative integer")
	}

	store, err := c.newStore(ctx, globals)
	if err != nil {
		return err
	}

	if err := store.SetQuantity(ctx, c.ProductID, util.ClampQuantity(c.Quantity)); err != nil {
		return err
	}

	fmt.Printf("Cart now has %d item(s), %s\n", store.CartCount(), money(store.CartAmount()))
	return nil
}

// CartRemoveCmd removes a product. Works for anonymous carts too.
type CartRemoveCmd struct {
	clientFlags
	ProductID string `arg:"" help:"Product id"`
}

func (c *CartRemoveCmd) Run(ctx context.Context, globals *Globals) error {
	store, err := c.newStore(ctx, globals)
	if err != nil {
		return err
	}

	if err := store.RemoveItem(ctx, c.ProductID); err != nil {
		return err
	}

	fmt.Printf("Cart now has %d item(s), %s\n", store.CartCount(), money(store.CartAmount()))
	return nil
}
