package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/vendora/vendora/internal/api"
	"github.com/vendora/vendora/internal/catalog"
	"github.com/vendora/vendora/internal/models"
	"github.com/vendora/vendora/internal/state"
)

// deliveryCharge is the flat shipping fee added to every order.
var deliveryCharge = decimal.NewFromInt(30000)

var (
	errEmptyCart   = errors.New("cannot place order with an empty cart")
	errMixedStores = errors.New("all products must be from the same store; place separate orders")
)

// shippingConfig is the YAML form of the checkout shipping details.
type shippingConfig struct {
	Address models.ShippingAddress `yaml:",inline"`
	Phone   string                 `yaml:"phone"`
	Note    string                 `yaml:"note"`
}

// CheckoutCmd places an order for the current cart contents.
type CheckoutCmd struct {
	clientFlags
	FirstName string `help:"Shipping first name"`
	LastName  string `help:"Shipping last name"`
	Email     string `help:"Shipping contact email"`
	Street    string `help:"Shipping street"`
	City      string `help:"Shipping city"`
	State     string `help:"Shipping state/province"`
	Country   string `help:"Shipping country"`
	Zipcode   string `help:"Shipping zipcode"`
	Phone     string `help:"Contact phone number"`
	Note      string `help:"Optional order note"`
	Payment   string `help:"Payment method: cod or banking" default:"cod" enum:"cod,banking"`
	Config    string `help:"YAML file with shipping details"`
}

func (c *CheckoutCmd) Run(ctx context.Context, globals *Globals) error {
	if c.Config != "" {
		if err := c.loadConfigFile(); err != nil {
			return fmt.Errorf("failed to load config file: %w", err)
		}
	}

	// Validation failures are caught before any request is sent.
	if missing := c.missingFields(); len(missing) > 0 {
		return fmt.Errorf("please fill in the following field(s): %s", strings.Join(missing, ", "))
	}

	store, err := c.newStore(ctx, globals)
	if err != nil {
		return err
	}

	snap := store.Snapshot()
	if !snap.Authenticated() {
		return state.ErrNotAuthenticated
	}

	if store.CartAmount().IsZero() {
		return errEmptyCart
	}

	items, storeID, err := buildOrderItems(snap.Cart, store.Catalog())
	if err != nil {
		return err
	}

	amount := store.CartAmount().Add(deliveryCharge)

	payment := models.PaymentCOD
	if c.Payment == "banking" {
		payment = models.PaymentBanking
	}

	client, err := c.newClient(globals)
	if err != nil {
		return err
	}

	result, err := client.CreateOrder(ctx, snap.Token, api.OrderRequest{
		ShippingAddress: models.ShippingAddress{
			FirstName: c.FirstName,
			LastName:  c.LastName,
			Email:     c.Email,
			Street:    c.Street,
			City:      c.City,
			State:     c.State,
			Country:   c.Country,
			Zipcode:   c.Zipcode,
		},
		Items:         items,
		Amount:        amount,
		StoreID:       storeID,
		PaymentMethod: payment,
		PhoneNumber:   c.Phone,
		Note:          c.Note,
	})
	if err != nil {
		return err
	}

	// The order owns the items now; the server cart was consumed.
	store.ResetCart()

	fmt.Println("Order placed successfully.")
	if result.OrderID != "" {
		fmt.Printf("Order ID: %s\n", result.OrderID)
	}
	fmt.Printf("Total charged: %s (including %s delivery)\n", money(amount), money(deliveryCharge))
	if result.RedirectURL != "" {
		fmt.Printf("Complete your payment at:\n  %s\n", result.RedirectURL)
	}

	return nil
}

func (c *CheckoutCmd) loadConfigFile() error {
	data, err := os.ReadFile(c.Config)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg shippingConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("failed to parse YAML config: %w", err)
	}

	// Config file values take precedence over flags
	if cfg.Address.FirstName != "" {
		c.FirstName = cfg.Address.FirstName
	}
	if cfg.Address.LastName != "" {
		c.LastName = cfg.Address.LastName
	}
	if cfg.Address.Email != "" {
		c.Email = cfg.Address.Email
	}
	if cfg.Address.Street != "" {
		c.Street = cfg.Address.Street
	}
	if cfg.Address.City != "" {
		c.City = cfg.Address.City
	}
	if cfg.Address.State != "" {
		c.State = cfg.Address.State
	}
	if cfg.Address.Country != "" {
		c.Country = cfg.Address.Country
	}
	if cfg.Address.Zipcode != "" {
		c.Zipcode = cfg.Address.Zipcode
	}
	if cfg.Phone != "" {
		c.Phone = cfg.Phone
	}
	if cfg.Note != "" {
		c.Note = cfg.Note
	}

	return nil
}

func (c *CheckoutCmd) missingFields() []string {
	required := []struct {
		name  string
		value string
	}{
		{"first name", c.FirstName},
		{"last name", c.LastName},
		{"email", c.Email},
		{"street", c.Street},
		{"city", c.City},
		{"state", c.State},
		{"country", c.Country},
		{"zipcode", c.Zipcode},
		{"phone", c.Phone},
	}

	var missing []string
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}
	return missing
}

// buildOrderItems resolves every positive cart entry against the catalog
// and enforces the single-store invariant the cart structure itself does
// not carry.
func buildOrderItems(cart map[string]int, cache *catalog.Cache) ([]models.OrderItem, string, error) {
	var items []models.OrderItem
	storeID := ""

	for productID, qty := range cart {
		if qty <= 0 {
			continue
		}

		product, ok := cache.Lookup(productID)
		if !ok {
			return nil, "", fmt.Errorf("product details not found for id %s; refresh the catalog and try again", productID)
		}
		if product.StoreID == "" {
			return nil, "", fmt.Errorf("store information missing for product %s", product.Name)
		}

		if storeID == "" {
			storeID = product.StoreID
		} else if storeID != product.StoreID {
			return nil, "", errMixedStores
		}

		items = append(items, models.OrderItem{
			ProductID: productID,
			Quantity:  qty,
			StoreID:   product.StoreID,
		})
	}

	if len(items) == 0 || storeID == "" {
		return nil, "", errEmptyCart
	}

	return items, storeID, nil
}
