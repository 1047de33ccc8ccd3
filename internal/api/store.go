package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/vendora/vendora/internal/models"
)

// StoreRequest is a seller storefront application. The avatar is uploaded
// as a multipart form alongside the text fields, matching what the store
// creation endpoint expects.
type StoreRequest struct {
	StoreName   string
	Description string
	AvatarPath  string
}

// RequestStore submits a storefront application. The resulting membership
// starts in the pending state until an admin approves or rejects it.
func (c *Client) RequestStore(ctx context.Context, token string, req StoreRequest) error {
	fields := map[string]string{
		"storeName":   req.StoreName,
		"description": req.Description,
	}

	var files []formFile
	if req.AvatarPath != "" {
		files = append(files, formFile{field: "avatar", path: req.AvatarPath})
	}

	if err := c.doMultipart(ctx, "/api/store/create", token, fields, files, nil); err != nil {
		return fmt.Errorf("failed to request store: %w", err)
	}

	return nil
}

// StoreUpdate edits the storefront profile. The avatar is optional; when
// one is given the whole update goes as a multipart form.
type StoreUpdate struct {
	StoreName   string
	Description string
	AvatarPath  string
}

// UpdateStore updates the current user's store profile and returns the
// server's fresh view of the membership.
func (c *Client) UpdateStore(ctx context.Context, token string, req StoreUpdate) (*models.Store, error) {
	var resp struct {
		successEnvelope
		Store *models.Store `json:"store"`
	}

	if req.AvatarPath == "" {
		body := map[string]string{
			"storeName":   req.StoreName,
			"description": req.Description,
		}
		if err := c.do(ctx, c.httpc, http.MethodPost, "/api/store/update", token, body, &resp); err != nil {
			return nil, fmt.Errorf("failed to update store: %w", err)
		}
	} else {
		fields := map[string]string{
			"storeName":   req.StoreName,
			"description": req.Description,
		}
		files := []formFile{{field: "avatar", path: req.AvatarPath}}
		if err := c.doMultipart(ctx, "/api/store/update", token, fields, files, &resp); err != nil {
			return nil, fmt.Errorf("failed to update store: %w", err)
		}
	}

	if err := resp.err(); err != nil {
		return nil, err
	}

	return resp.Store, nil
}

// StoreOrders returns the orders placed against the current user's store.
func (c *Client) StoreOrders(ctx context.Context, token string) ([]models.Order, error) {
	var resp struct {
		Success bool           `json:"success"`
		Message string         `json:"message"`
		Orders  []models.Order `json:"orders"`
	}
	if err := c.do(ctx, c.httpc, http.MethodGet, "/api/store/orders", token, nil, &resp); err != nil {
		return nil, err
	}

	if !resp.Success {
		return nil, &Error{StatusCode: http.StatusOK, Message: resp.Message}
	}

	return resp.Orders, nil
}

// StoreProducts returns the products belonging to the current user's store.
func (c *Client) StoreProducts(ctx context.Context, token string) ([]models.Product, error) {
	var resp struct {
		Status   int           `json:"status"`
		Products []productWire `json:"products"`
	}
	if err := c.do(ctx, c.httpc, http.MethodGet, "/api/store/products", token, nil, &resp); err != nil {
		return nil, err
	}

	products := make([]models.Product, 0, len(resp.Products))
	for _, w := range resp.Products {
		products = append(products, w.toModel())
	}

	return products, nil
}

// UpdateOrderStatus moves a store order through its fulfilment workflow.
func (c *Client) UpdateOrderStatus(ctx context.Context, token, orderID, status string) error {
	body := map[string]string{"status": status}
	if err := c.do(ctx, c.httpc, http.MethodPut, "/api/store/orders/"+orderID+"/status", token, body, nil); err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	return nil
}
