package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/vendora/vendora/internal/models"
	"github.com/vendora/vendora/internal/state"
)

// OrdersCmd lists the signed-in user's order history.
type OrdersCmd struct {
	clientFlags
}

func (o *OrdersCmd) Run(ctx context.Context, globals *Globals) error {
	store, err := o.newStore(ctx, globals)
	if err != nil {
		return err
	}

	snap := store.Snapshot()
	if !snap.Authenticated() {
		return state.ErrNotAuthenticated
	}

	client, err := o.newClient(globals)
	if err != nil {
		return err
	}

	orders, err := client.ListOrders(ctx, snap.Token)
	if err != nil {
		return err
	}

	printOrders(orders)
	return nil
}

func printOrders(orders []models.Order) {
	if len(orders) == 0 {
		fmt.Println("No orders found.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ORDER ID\tSTATUS\tPAYMENT\tAMOUNT\tCREATED AT")

	for _, order := range orders {
		created := ""
		if !order.CreatedAt.IsZero() {
			created = order.CreatedAt.Format("2006-01-02 15:04:05")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			order.ID,
			order.Status,
			order.PaymentMethod,
			money(order.Amount),
			created)
	}

	w.Flush()
	fmt.Printf("\nTotal orders: %d\n", len(orders))
}
