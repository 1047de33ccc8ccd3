package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vendora/vendora/internal/models"
)

// OrderRequest is the checkout payload. All items must belong to StoreID;
// that invariant is enforced by the caller before any request is sent.
type OrderRequest struct {
	ShippingAddress models.ShippingAddress `json:"shipping_address"`
	Items           []models.OrderItem     `json:"selectedItems"`
	Amount          decimal.Decimal        `json:"amount"`
	StoreID         string                 `json:"store_id"`
	PaymentMethod   string                 `json:"paymentMethod"`
	PhoneNumber     string                 `json:"phoneNumber"`
	Note            string                 `json:"note,omitempty"`
	// RequestID is an idempotency token so a retried checkout cannot place
	// the order twice.
	RequestID string `json:"request_id"`
}

// OrderResult is the server's answer to order creation. RedirectURL is set
// for payment methods that hand off to an external gateway.
type OrderResult struct {
	OrderID     string
	RedirectURL string
	Message     string
}

// CreateOrder places an order for the current cart contents.
func (c *Client) CreateOrder(ctx context.Context, token string, order OrderRequest) (*OrderResult, error) {
	if order.RequestID == "" {
		order.RequestID = uuid.New().String()
	}

	var resp struct {
		Success     bool                `json:"success"`
		Message     string              `json:"message"`
		OrderID     flexID              `json:"order_id"`
		RedirectURL string              `json:"redirectUrl"`
		Errors      map[string][]string `json:"errors"`
	}
	if err := c.do(ctx, c.httpc, http.MethodPost, "/api/order/create", token, order, &resp); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if !resp.Success {
		msg := resp.Message
		if len(resp.Errors) > 0 {
			var parts []string
			for _, msgs := range resp.Errors {
				parts = append(parts, msgs...)
			}
			msg = strings.Join(parts, "; ")
		}
		return nil, &Error{StatusCode: http.StatusUnprocessableEntity, Message: msg}
	}

	return &OrderResult{
		OrderID:     resp.OrderID.String(),
		RedirectURL: resp.RedirectURL,
		Message:     resp.Message,
	}, nil
}

// ListOrders returns the current user's order history, newest first as
// sorted by the server.
func (c *Client) ListOrders(ctx context.Context, token string) ([]models.Order, error) {
	var resp struct {
		Success bool           `json:"success"`
		Message string         `json:"message"`
		Orders  []models.Order `json:"orders"`
	}
	if err := c.do(ctx, c.httpc, http.MethodGet, "/api/order/", token, nil, &resp); err != nil {
		return nil, err
	}

	if !resp.Success {
		return nil, &Error{StatusCode: http.StatusOK, Message: resp.Message}
	}

	return resp.Orders, nil
}
