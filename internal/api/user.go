package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/vendora/vendora/internal/models"
)

// Login exchanges credentials for an opaque bearer token. Session issuance
// itself is the server's business; the client only forwards credentials.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}

	var resp struct {
		Status  int    `json:"status"`
		Token   string `json:"token"`
		Message string `json:"message"`
	}
	if err := c.do(ctx, c.httpc, http.MethodPost, "/api/user/login", "", body, &resp); err != nil {
		return "", fmt.Errorf("login failed: %w", err)
	}

	if resp.Token == "" {
		return "", &Error{StatusCode: resp.Status, Message: resp.Message}
	}

	return resp.Token, nil
}

// GetProfile fetches the authenticated user's profile. Any non-success
// status in the envelope is interpreted as an invalid session and mapped to
// ErrUnauthorized, so all call sites share one logged-out path.
func (c *Client) GetProfile(ctx context.Context, token string) (*models.User, error) {
	var resp struct {
		Status  int          `json:"status"`
		User    *models.User `json:"user"`
		Message string       `json:"message"`
	}
	if err := c.do(ctx, c.httpc, http.MethodGet, "/api/user/getProfile", token, nil, &resp); err != nil {
		return nil, err
	}

	if resp.Status != http.StatusOK || resp.User == nil {
		return nil, ErrUnauthorized
	}

	return resp.User, nil
}

// ProfileUpdate edits the account's contact details. Email changes go
// through a separate server-side flow and are not accepted here.
type ProfileUpdate struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
}

// UpdateProfile updates the authenticated user's contact details.
func (c *Client) UpdateProfile(ctx context.Context, token string, req ProfileUpdate) error {
	var resp successEnvelope
	if err := c.do(ctx, c.httpc, http.MethodPost, "/api/user/update-profile", token, req, &resp); err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	return resp.err()
}

// UpdateAvatar uploads a new account avatar.
func (c *Client) UpdateAvatar(ctx context.Context, token, avatarPath string) error {
	files := []formFile{{field: "avatar", path: avatarPath}}

	var resp successEnvelope
	if err := c.doMultipart(ctx, "/api/user/avatar", token, nil, files, &resp); err != nil {
		return fmt.Errorf("failed to update avatar: %w", err)
	}

	return resp.err()
}

// MyStore fetches the current user's store membership. Returns ErrNoStore
// when the user has never requested a store (403/404 from the server).
func (c *Client) MyStore(ctx context.Context, token string) (*models.Store, error) {
	var resp struct {
		Status     int           `json:"status"`
		StatusCode int           `json:"statusCode"`
		Store      *models.Store `json:"store"`
	}
	err := c.do(ctx, c.httpc, http.MethodGet, "/api/store/myStore", token, nil, &resp)
	if err != nil {
		var apiErr *Error
		if errors.As(err, &apiErr) && (apiErr.StatusCode == http.StatusForbidden || apiErr.StatusCode == http.StatusNotFound) {
			return nil, ErrNoStore
		}
		return nil, err
	}

	if resp.Store == nil {
		return nil, ErrNoStore
	}

	return resp.Store, nil
}
