package api

import (
	"context"
	"fmt"
	"net/http"
)

// FollowStore follows a seller storefront on behalf of the current user.
func (c *Client) FollowStore(ctx context.Context, token, storeID string) error {
	body := map[string]string{"store_id": storeID}

	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := c.do(ctx, c.httpc, http.MethodPost, "/api/followers/create", token, body, &resp); err != nil {
		return fmt.Errorf("failed to follow store: %w", err)
	}

	return nil
}

// UnfollowStore removes a follow relationship.
func (c *Client) UnfollowStore(ctx context.Context, token, storeID string) error {
	if err := c.do(ctx, c.httpc, http.MethodDelete, "/api/followers/delete/"+storeID, token, nil, nil); err != nil {
		return fmt.Errorf("failed to unfollow store: %w", err)
	}
	return nil
}

// ListFollowing returns the store ids the current user follows.
func (c *Client) ListFollowing(ctx context.Context, token string) ([]string, error) {
	var resp struct {
		Success   bool `json:"success"`
		Following []struct {
			StoreID flexID `json:"store_id"`
		} `json:"following"`
	}
	if err := c.do(ctx, c.httpc, http.MethodGet, "/api/followers/get", token, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to list followed stores: %w", err)
	}

	ids := make([]string, 0, len(resp.Following))
	for _, f := range resp.Following {
		ids = append(ids, f.StoreID.String())
	}

	return ids, nil
}

// IsFollowing reports whether the current user follows the given store.
func (c *Client) IsFollowing(ctx context.Context, token, storeID string) (bool, error) {
	ids, err := c.ListFollowing(ctx, token)
	if err != nil {
		return false, err
	}

	for _, id := range ids {
		if id == storeID {
			return true, nil
		}
	}

	return false, nil
}
