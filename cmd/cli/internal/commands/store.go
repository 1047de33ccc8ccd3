package commands

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/vendora/vendora/internal/api"
	"github.com/vendora/vendora/internal/models"
	"github.com/vendora/vendora/internal/state"
)

// StoreCmd is the seller dashboard surface.
type StoreCmd struct {
	Status         StoreStatusCmd         `cmd:"" default:"1" help:"Show your store membership status"`
	Request        StoreRequestCmd        `cmd:"" help:"Apply for a seller storefront"`
	Update         StoreUpdateCmd         `cmd:"" help:"Update your store's name, description or avatar"`
	Products       StoreProductsCmd       `cmd:"" help:"List your store's products"`
	Product        StoreProductCmd        `cmd:"" help:"Manage your store's products"`
	Orders         StoreOrdersCmd         `cmd:"" help:"List orders placed against your store"`
	SetOrderStatus StoreSetOrderStatusCmd `cmd:"" name:"set-order-status" help:"Update an order's fulfilment status"`
}

// StoreStatusCmd shows the approval workflow state.
type StoreStatusCmd struct {
	clientFlags
}

func (s *StoreStatusCmd) Run(ctx context.Context, globals *Globals) error {
	store, err := s.newStore(ctx, globals)
	if err != nil {
		return err
	}

	snap := store.Snapshot()
	if !snap.Authenticated() {
		return state.ErrNotAuthenticated
	}

	if snap.Store == nil {
		fmt.Println("You have no store membership.")
		fmt.Println()
		fmt.Println("To apply for a storefront:")
		fmt.Println("  vendora-cli store request --name=... --description=...")
		return nil
	}

	fmt.Printf("Store:   %s\n", snap.Store.StoreName)
	fmt.Printf("Status:  %s\n", snap.Store.Status)
	if snap.Store.Description != "" {
		fmt.Printf("About:   %s\n", snap.Store.Description)
	}

	switch snap.Store.Status {
	case models.StoreStatusPending:
		fmt.Println("\nYour application is awaiting admin approval.")
	case models.StoreStatusRejected:
		fmt.Println("\nYour application was rejected.")
	}

	return nil
}

// StoreRequestCmd submits a storefront application.
type StoreRequestCmd struct {
	clientFlags
	Name        string `help:"Store name" required:""`
	Description string `help:"Store description" required:""`
	Avatar      string `help:"Path to the store avatar image"`
}

func (s *StoreRequestCmd) Run(ctx context.Context, globals *Globals) error {
	store, err := s.newStore(ctx, globals)
	if err != nil {
		return err
	}

	snap := store.Snapshot()
	if !snap.Authenticated() {
		return state.ErrNotAuthenticated
	}

	if snap.Store != nil {
		return fmt.Errorf("you already have a store membership (%s)", snap.Store.Status)
	}

	client, err := s.newClient(globals)
	if err != nil {
		return err
	}

	err = client.RequestStore(ctx, snap.Token, api.StoreRequest{
		StoreName:   s.Name,
		Description: s.Description,
		AvatarPath:  s.Avatar,
	})
	if err != nil {
		return err
	}

	// Pull the fresh membership so the pending state is cached locally.
	_ = store.FetchProfile(ctx)

	fmt.Println("Store request submitted successfully. Please wait for approval.")
	return nil
}

// StoreUpdateCmd edits the storefront profile.
type StoreUpdateCmd struct {
	clientFlags
	Name        string `help:"New store name"`
	Description string `help:"New store description"`
	Avatar      string `help:"Path to a new store avatar image"`
}

func (s *StoreUpdateCmd) Run(ctx context.Context, globals *Globals) error {
	store, err := s.newStore(ctx, globals)
	if err != nil {
		return err
	}

	snap := store.Snapshot()
	if !snap.Authenticated() {
		return state.ErrNotAuthenticated
	}
	if snap.Store == nil {
		return fmt.Errorf("you have no store membership")
	}

	// Unset flags keep the current values.
	name := s.Name
	if name == "" {
		name = snap.Store.StoreName
	}
	description := s.Description
	if description == "" {
		description = snap.Store.Description
	}

	client, err := s.newClient(globals)
	if err != nil {
		return err
	}

	updated, err := client.UpdateStore(ctx, snap.Token, api.StoreUpdate{
		StoreName:   name,
		Description: description,
		AvatarPath:  s.Avatar,
	})
	if err != nil {
		return err
	}

	// Refresh the cached membership with the server's view.
	_ = store.FetchProfile(ctx)

	if updated != nil {
		fmt.Printf("Store updated: %s (%s)\n", updated.StoreName, updated.Status)
	} else {
		fmt.Println("Store updated.")
	}
	return nil
}

// StoreProductCmd manages the seller's product listings.
type StoreProductCmd struct {
	Create StoreProductCreateCmd `cmd:"" help:"Add a product to your store"`
	Update StoreProductUpdateCmd `cmd:"" help:"Edit one of your products"`
	Delete StoreProductDeleteCmd `cmd:"" help:"Remove one of your products"`
}

// productFlags are the seller product form fields shared by create and
// update.
type productFlags struct {
	Name      string   `help:"Product name" required:""`
	Detail    string   `help:"Product description" required:""`
	Price     string   `help:"Unit price" required:""`
	Category  string   `help:"Category id" required:""`
	Quantity  int      `help:"Stock quantity" required:""`
	Thumbnail string   `help:"Path to the thumbnail image"`
	Images    []string `help:"Paths to detail images"`
}

func (p productFlags) request() (api.ProductRequest, error) {
	price, err := decimal.NewFromString(p.Price)
	if err != nil || price.IsNegative() {
		return api.ProductRequest{}, fmt.Errorf("price must be a non-negative number")
	}
	if p.Quantity < 0 {
		return api.ProductRequest{}, fmt.Errorf("quantity must be a non-negative integer")
	}

	return api.ProductRequest{
		Name:          p.Name,
		Detail:        p.Detail,
		Price:         price,
		CategoryID:    p.Category,
		Quantity:      p.Quantity,
		ThumbnailPath: p.Thumbnail,
		ImagePaths:    p.Images,
	}, nil
}

// StoreProductCreateCmd adds a product to the seller's storefront.
type StoreProductCreateCmd struct {
	clientFlags
	productFlags
}

func (s *StoreProductCreateCmd) Run(ctx context.Context, globals *Globals) error {
	req, err := s.request()
	if err != nil {
		return err
	}

	store, err := s.newStore(ctx, globals)
	if err != nil {
		return err
	}

	snap := store.Snapshot()
	if !snap.Authenticated() {
		return state.ErrNotAuthenticated
	}
	if !snap.Store.IsApproved() {
		return fmt.Errorf("your store is not approved yet")
	}

	client, err := s.newClient(globals)
	if err != nil {
		return err
	}

	req.StoreID = snap.Store.ID
	if err := client.CreateProduct(ctx, snap.Token, req); err != nil {
		return err
	}

	fmt.Printf("Product %q added.\n", req.Name)
	return nil
}

// StoreProductUpdateCmd edits one of the seller's products.
type StoreProductUpdateCmd struct {
	clientFlags
	ID string `arg:"" help:"Product id"`
	productFlags
}

func (s *StoreProductUpdateCmd) Run(ctx context.Context, globals *Globals) error {
	req, err := s.request()
	if err != nil {
		return err
	}

	store, err := s.newStore(ctx, globals)
	if err != nil {
		return err
	}

	snap := store.Snapshot()
	if !snap.Authenticated() {
		return state.ErrNotAuthenticated
	}
	if !snap.Store.IsApproved() {
		return fmt.Errorf("your store is not approved yet")
	}

	client, err := s.newClient(globals)
	if err != nil {
		return err
	}

	if err := client.UpdateProduct(ctx, snap.Token, s.ID, req); err != nil {
		return err
	}

	fmt.Printf("Product %s updated.\n", s.ID)
	return nil
}

// StoreProductDeleteCmd removes one of the seller's products.
type StoreProductDeleteCmd struct {
	clientFlags
	ID string `arg:"" help:"Product id"`
}

func (s *StoreProductDeleteCmd) Run(ctx context.Context, globals *Globals) error {
	store, err := s.newStore(ctx, globals)
	if err != nil {
		return err
	}

	snap := store.Snapshot()
	if !snap.Authenticated() {
		return state.ErrNotAuthenticated
	}
	if !snap.Store.IsApproved() {
		return fmt.Errorf("your store is not approved yet")
	}

	client, err := s.newClient(globals)
	if err != nil {
		return err
	}

	if err := client.DeleteProduct(ctx, snap.Token, s.ID); err != nil {
		return err
	}

	fmt.Printf("Product %s deleted.\n", s.ID)
	return nil
}

// StoreProductsCmd lists the seller's own products.
type StoreProductsCmd struct {
	clientFlags
}

func (s *StoreProductsCmd) Run(ctx context.Context, globals *Globals) error {
	store, err := s.newStore(ctx, globals)
	if err != nil {
		return err
	}

	snap := store.Snapshot()
	if !snap.Authenticated() {
		return state.ErrNotAuthenticated
	}
	if !snap.Store.IsApproved() {
		return fmt.Errorf("your store is not approved yet")
	}

	client, err := s.newClient(globals)
	if err != nil {
		return err
	}

	products, err := client.StoreProducts(ctx, snap.Token)
	if err != nil {
		return err
	}

	if len(products) == 0 {
		fmt.Println("Your store has no products yet.")
		return nil
	}

	printProducts(products)
	return nil
}

// StoreOrdersCmd lists orders placed against the seller's store.
type StoreOrdersCmd struct {
	clientFlags
}

func (s *StoreOrdersCmd) Run(ctx context.Context, globals *Globals) error {
	store, err := s.newStore(ctx, globals)
	if err != nil {
		return err
	}

	snap := store.Snapshot()
	if !snap.Authenticated() {
		return state.ErrNotAuthenticated
	}
	if !snap.Store.IsApproved() {
		return fmt.Errorf("your store is not approved yet")
	}

	client, err := s.newClient(globals)
	if err != nil {
		return err
	}

	orders, err := client.StoreOrders(ctx, snap.Token)
	if err != nil {
		return err
	}

	printOrders(orders)
	return nil
}

// StoreSetOrderStatusCmd moves an order through the fulfilment workflow.
type StoreSetOrderStatusCmd struct {
	clientFlags
	OrderID string `arg:"" help:"Order id"`
	Status  string `arg:"" help:"New status (e.g. processing, shipped, delivered, cancelled)"`
}

func (s *StoreSetOrderStatusCmd) Run(ctx context.Context, globals *Globals) error {
	store, err := s.newStore(ctx, globals)
	if err != nil {
		return err
	}

	snap := store.Snapshot()
	if !snap.Authenticated() {
		return state.ErrNotAuthenticated
	}
	if !snap.Store.IsApproved() {
		return fmt.Errorf("your store is not approved yet")
	}

	client, err := s.newClient(globals)
	if err != nil {
		return err
	}

	if err := client.UpdateOrderStatus(ctx, snap.Token, s.OrderID, s.Status); err != nil {
		return err
	}

	fmt.Printf("Order %s updated to %s.\n", s.OrderID, s.Status)
	return nil
}
