package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/vendora/vendora/internal/models"
)

// GetCart fetches the server-side cart, grouped by owning store id exactly
// as the backend returns it. Flattening into the client's product→quantity
// mapping is the state store's job.
func (c *Client) GetCart(ctx context.Context, token string) (map[string][]models.CartLine, error) {
	var resp struct {
		Status int                          `json:"status"`
		Cart   map[string][]models.CartLine `json:"cart"`
	}
	if err := c.do(ctx, c.httpc, http.MethodGet, "/api/cart/", token, nil, &resp); err != nil {
		return nil, err
	}

	if resp.Status != http.StatusOK || resp.Cart == nil {
		return nil, &Error{StatusCode: resp.Status, Message: "unexpected cart response"}
	}

	return resp.Cart, nil
}

// AddCartItem adds one unit of a product to the server-side cart.
func (c *Client) AddCartItem(ctx context.Context, token, productID string) error {
	body := map[string]int{"quantity": 1}
	if err := c.do(ctx, c.httpc, http.MethodPost, "/api/cart/add/"+productID, token, body, nil); err != nil {
		return fmt.Errorf("failed to add cart item: %w", err)
	}
	return nil
}

// UpdateCartItem sets the quantity of a product already in the cart.
func (c *Client) UpdateCartItem(ctx context.Context, token, productID string, quantity int) error {
	body := map[string]int{"quantity": quantity}
	if err := c.do(ctx, c.httpc, http.MethodPut, "/api/cart/update/"+productID, token, body, nil); err != nil {
		return fmt.Errorf("failed to update cart item: %w", err)
	}
	return nil
}

// DeleteCartItem removes a product from the server-side cart.
func (c *Client) DeleteCartItem(ctx context.Context, token, productID string) error {
	if err := c.do(ctx, c.httpc, http.MethodDelete, "/api/cart/delete/"+productID, token, nil, nil); err != nil {
		return fmt.Errorf("failed to delete cart item: %w", err)
	}
	return nil
}
