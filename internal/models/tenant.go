package models

import "time"

// TenantRole is a user's role inside one tenant.
type TenantRole string

const (
	RoleAdmin      TenantRole = "Admin"
	RoleDispatcher TenantRole = "Dispatcher"
	RoleDriver     TenantRole = "Driver"
)

// TenantStatus is the platform-level state of a tenant.
type TenantStatus string

const (
	TenantActive    TenantStatus = "Active"
	TenantSuspended TenantStatus = "Suspended"
)

type RegisterTenantRequest struct {
	Key        string `json:"key"`
	Name       string `json:"name"`
	AdminEmail string `json:"adminEmail"`
}

// TenantListItem is one row of the platform-wide tenant listing.
type TenantListItem struct {
	ID        string       `json:"id"`
	Key       string       `json:"key"`
	Name      string       `json:"name"`
	Status    TenantStatus `json:"status"`
	CreatedAt time.Time    `json:"createdAt"`
}

// MyTenant is a tenant the authenticated user belongs to.
type MyTenant struct {
	Key  string     `json:"key"`
	Name string     `json:"name"`
	Role TenantRole `json:"role"`
}

type AddTenantUserRequest struct {
	Email string     `json:"email"`
	Role  TenantRole `json:"role"`
}

type TenantUser struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Email string     `json:"email"`
	Role  TenantRole `json:"role"`
}

type SendNotificationRequest struct {
	Title        string `json:"title"`
	Message      string `json:"message"`
	TenantUserID string `json:"tenantUserId,omitempty"`
}
