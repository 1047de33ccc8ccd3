package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/vendora/vendora/internal/models"
	"github.com/vendora/vendora/internal/state"
	"github.com/vendora/vendora/internal/util"
)

// AdminCmd is the back-office surface for platform operators.
type AdminCmd struct {
	Stats   AdminStatsCmd   `cmd:"" default:"1" help:"Show the platform dashboard summary"`
	Stores  AdminStoresCmd  `cmd:"" help:"List storefronts with their approval status"`
	Approve AdminApproveCmd `cmd:"" help:"Approve a pending storefront"`
	Reject  AdminRejectCmd  `cmd:"" help:"Reject a pending storefront"`
}

// AdminStatsCmd renders the dashboard summary.
type AdminStatsCmd struct {
	clientFlags
}

func (a *AdminStatsCmd) Run(ctx context.Context, globals *Globals) error {
	store, err := a.newStore(ctx, globals)
	if err != nil {
		return err
	}

	snap := store.Snapshot()
	if !snap.Authenticated() {
		return state.ErrNotAuthenticated
	}

	client, err := a.newClient(globals)
	if err != nil {
		return err
	}

	result, err := client.GetAdminStats(ctx, snap.Token)
	if err != nil {
		return err
	}

	fmt.Printf("Users:           %d\n", result.Stats.TotalUsers)
	fmt.Printf("Stores:          %d\n", result.Stats.TotalStores)
	fmt.Printf("Products:        %d\n", result.Stats.TotalProducts)
	fmt.Printf("Orders:          %d\n", result.Stats.TotalOrders)
	fmt.Printf("Pending stores:  %d\n", result.Stats.PendingStores)

	if len(result.PendingStores) > 0 {
		fmt.Println("\nAwaiting approval:")
		for _, st := range result.PendingStores {
			fmt.Printf("  %s  %s\n", st.ID, st.StoreName)
		}
	}

	if len(result.RecentOrders) > 0 {
		fmt.Println("\nRecent orders:")
		printOrders(result.RecentOrders)
	}

	return nil
}

// AdminStoresCmd pages through storefront applications.
type AdminStoresCmd struct {
	clientFlags
	Page   int    `help:"Page number" default:"1"`
	Status string `help:"Filter by status" enum:",pending,approved,rejected" default:""`
}

func (a *AdminStoresCmd) Run(ctx context.Context, globals *Globals) error {
	store, err := a.newStore(ctx, globals)
	if err != nil {
		return err
	}

	snap := store.Snapshot()
	if !snap.Authenticated() {
		return state.ErrNotAuthenticated
	}

	client, err := a.newClient(globals)
	if err != nil {
		return err
	}

	stores, pagination, err := client.ListAdminStores(ctx, snap.Token, a.Page, models.StoreStatus(a.Status))
	if err != nil {
		return err
	}

	if len(stores) == 0 {
		fmt.Println("No stores found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSTATUS\tDESCRIPTION")
	for _, st := range stores {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", st.ID, st.StoreName, st.Status, util.Truncate(st.Description, 40))
	}
	_ = w.Flush()

	fmt.Printf("\nPage %d of %d (%d stores)\n", pagination.CurrentPage, pagination.TotalPages, pagination.TotalStores)
	return nil
}

// AdminApproveCmd approves a pending storefront.
type AdminApproveCmd struct {
	clientFlags
	StoreID string `arg:"" help:"Store id to approve"`
}

func (a *AdminApproveCmd) Run(ctx context.Context, globals *Globals) error {
	return a.clientFlags.runStoreAction(ctx, globals, a.StoreID, "approved")
}

// AdminRejectCmd rejects a pending storefront.
type AdminRejectCmd struct {
	clientFlags
	StoreID string `arg:"" help:"Store id to reject"`
}

func (a *AdminRejectCmd) Run(ctx context.Context, globals *Globals) error {
	return a.clientFlags.runStoreAction(ctx, globals, a.StoreID, "rejected")
}

func (f clientFlags) runStoreAction(ctx context.Context, globals *Globals, storeID, verdict string) error {
	store, err := f.newStore(ctx, globals)
	if err != nil {
		return err
	}

	snap := store.Snapshot()
	if !snap.Authenticated() {
		return state.ErrNotAuthenticated
	}

	client, err := f.newClient(globals)
	if err != nil {
		return err
	}

	if verdict == "approved" {
		err = client.ApproveStore(ctx, snap.Token, storeID)
	} else {
		err = client.RejectStore(ctx, snap.Token, storeID)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Store %s %s.\n", storeID, verdict)
	return nil
}
