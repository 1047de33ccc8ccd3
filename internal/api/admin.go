package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/vendora/vendora/internal/models"
)

// AdminStats is the back-office dashboard summary.
type AdminStats struct {
	TotalUsers    int `json:"totalUsers"`
	TotalStores   int `json:"totalStores"`
	TotalProducts int `json:"totalProducts"`
	TotalOrders   int `json:"totalOrders"`
	PendingStores int `json:"pendingStores"`
}

// AdminStatsResult bundles the stats with the recent activity lists the
// dashboard renders alongside them.
type AdminStatsResult struct {
	Stats         AdminStats     `json:"stats"`
	RecentOrders  []models.Order `json:"recentOrders"`
	PendingStores []models.Store `json:"recentPendingStores"`
}

// Pagination describes a paged admin listing.
type Pagination struct {
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
	TotalStores int `json:"totalStores"`
}

// GetAdminStats fetches the admin dashboard summary.
func (c *Client) GetAdminStats(ctx context.Context, token string) (*AdminStatsResult, error) {
	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		AdminStatsResult
	}
	if err := c.do(ctx, c.httpc, http.MethodGet, "/api/admin/stats", token, nil, &resp); err != nil {
		return nil, err
	}

	if !resp.Success {
		return nil, &Error{StatusCode: http.StatusOK, Message: resp.Message}
	}

	return &resp.AdminStatsResult, nil
}

// ListAdminStores pages through all storefronts, optionally filtered by
// approval status.
func (c *Client) ListAdminStores(ctx context.Context, token string, page int, status models.StoreStatus) ([]models.Store, *Pagination, error) {
	query := url.Values{}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if status != "" {
		query.Set("status", string(status))
	}

	path := "/api/admin/stores"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var resp struct {
		Success    bool           `json:"success"`
		Message    string         `json:"message"`
		Stores     []models.Store `json:"stores"`
		Pagination *Pagination    `json:"pagination"`
	}
	if err := c.do(ctx, c.httpc, http.MethodGet, path, token, nil, &resp); err != nil {
		return nil, nil, err
	}

	if !resp.Success {
		return nil, nil, &Error{StatusCode: http.StatusOK, Message: resp.Message}
	}

	pagination := resp.Pagination
	if pagination == nil {
		pagination = &Pagination{CurrentPage: 1, TotalPages: 1, TotalStores: len(resp.Stores)}
	}

	return resp.Stores, pagination, nil
}

// ApproveStore approves a pending storefront application.
func (c *Client) ApproveStore(ctx context.Context, token, storeID string) error {
	return c.storeAction(ctx, token, storeID, "approve")
}

// RejectStore rejects a pending storefront application.
func (c *Client) RejectStore(ctx context.Context, token, storeID string) error {
	return c.storeAction(ctx, token, storeID, "reject")
}

func (c *Client) storeAction(ctx context.Context, token, storeID, action string) error {
	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	path := "/api/admin/stores/" + storeID + "/" + action
	if err := c.do(ctx, c.httpc, http.MethodPost, path, token, struct{}{}, &resp); err != nil {
		return fmt.Errorf("failed to %s store: %w", action, err)
	}

	if !resp.Success {
		return &Error{StatusCode: http.StatusOK, Message: resp.Message}
	}

	return nil
}
