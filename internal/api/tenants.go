package api

import (
	"context"

	"github.com/ambutrack/console/internal/models"
)

// CreateTenant provisions a new tenant. Platform admins only.
func (c *Client) CreateTenant(ctx context.Context, req models.RegisterTenantRequest) error {
	return c.post(ctx, "/api/PlatformTenants", nil, req, nil)
}

// Tenants returns a page of all tenants on the platform. Platform admins only.
func (c *Client) Tenants(ctx context.Context, page, pageSize int) (*models.Paged[models.TenantListItem], error) {
	var out models.Paged[models.TenantListItem]
	if err := c.get(ctx, "/api/PlatformTenants", pageQuery(page, pageSize), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MyTenants returns the authenticated user's tenant memberships.
func (c *Client) MyTenants(ctx context.Context) ([]models.MyTenant, error) {
	var out []models.MyTenant
	if err := c.get(ctx, "/api/PlatformTenants/me", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddTenantUser invites a user into the active tenant.
func (c *Client) AddTenantUser(ctx context.Context, req models.AddTenantUserRequest) error {
	return c.post(ctx, "/api/tenants/{tenantKey}/TenantUsers", nil, req, nil)
}

// TenantUsers returns a page of the active tenant's members.
func (c *Client) TenantUsers(ctx context.Context, page, pageSize int) (*models.Paged[models.TenantUser], error) {
	var out models.Paged[models.TenantUser]
	if err := c.get(ctx, "/api/tenants/{tenantKey}/TenantUsers", pageQuery(page, pageSize), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SendNotification pushes an announcement to the active tenant's members.
func (c *Client) SendNotification(ctx context.Context, req models.SendNotificationRequest) error {
	return c.post(ctx, "/api/tenants/{tenantKey}/TenantUsers/send-notification", nil, req, nil)
}
