package api

import (
	"context"
	"net/url"

	"github.com/ambutrack/console/internal/models"
)

// CreateRequest files a new transport request in the active tenant.
func (c *Client) CreateRequest(ctx context.Context, req models.RegisterRequestRequest) error {
	return c.post(ctx, "/api/tenants/{tenantKey}/Requests", nil, req, nil)
}

// RequestsByUser returns a page of a user's transport requests.
func (c *Client) RequestsByUser(ctx context.Context, userID string, page, pageSize int) (*models.Paged[models.Request], error) {
	var out models.Paged[models.Request]
	path := "/api/tenants/{tenantKey}/Requests/" + url.PathEscape(userID) + "/user"
	if err := c.get(ctx, path, pageQuery(page, pageSize), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RequestByID fetches a single transport request.
func (c *Client) RequestByID(ctx context.Context, requestID string) (*models.Request, error) {
	var out models.Request
	if err := c.get(ctx, "/api/tenants/{tenantKey}/Requests/"+url.PathEscape(requestID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UserByID fetches a platform user profile.
func (c *Client) UserByID(ctx context.Context, id string) (*models.User, error) {
	var out models.User
	if err := c.get(ctx, "/api/Users/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UserByEmail fetches a platform user profile by email.
func (c *Client) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var out models.User
	if err := c.get(ctx, "/api/Users/"+url.PathEscape(email)+"/by-email", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
