package api

import (
	"context"
	"net/url"

	"github.com/ambutrack/console/internal/models"
)

// CreateBase registers a dispatch base in the active tenant.
func (c *Client) CreateBase(ctx context.Context, req models.RegisterBaseRequest) error {
	return c.post(ctx, "/api/tenants/{tenantKey}/Bases", nil, req, nil)
}

// Bases returns a page of the active tenant's dispatch bases.
func (c *Client) Bases(ctx context.Context, page, pageSize int) (*models.Paged[models.Base], error) {
	var out models.Paged[models.Base]
	if err := c.get(ctx, "/api/tenants/{tenantKey}/Bases", pageQuery(page, pageSize), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateBase replaces a base's registration data.
func (c *Client) UpdateBase(ctx context.Context, id string, req models.RegisterBaseRequest) (*models.Base, error) {
	var out models.Base
	if err := c.put(ctx, "/api/tenants/{tenantKey}/Bases/"+url.PathEscape(id), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteBase removes a base.
func (c *Client) DeleteBase(ctx context.Context, id string) error {
	return c.delete(ctx, "/api/tenants/{tenantKey}/Bases/"+url.PathEscape(id))
}

// CreateVehicle adds a vehicle to the active tenant's fleet.
func (c *Client) CreateVehicle(ctx context.Context, req models.RegisterVehicleRequest) error {
	return c.post(ctx, "/api/tenants/{tenantKey}/Vehicles", nil, req, nil)
}

// Vehicles returns a page of the active tenant's fleet.
func (c *Client) Vehicles(ctx context.Context, page, pageSize int) (*models.Paged[models.Vehicle], error) {
	var out models.Paged[models.Vehicle]
	if err := c.get(ctx, "/api/tenants/{tenantKey}/Vehicles", pageQuery(page, pageSize), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VehicleByPlate looks up a vehicle by its plate.
func (c *Client) VehicleByPlate(ctx context.Context, plate string) (*models.Vehicle, error) {
	var out models.Vehicle
	query := url.Values{"plate": {plate}}
	if err := c.get(ctx, "/api/tenants/{tenantKey}/Vehicles/by-plate", query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AssignDriver pairs a driver with the vehicle identified by plate.
func (c *Client) AssignDriver(ctx context.Context, plate, driverID string) error {
	path := "/api/tenants/{tenantKey}/Vehicles/" + url.PathEscape(plate) + "/assign-driver"
	return c.post(ctx, path, nil, models.AssignDriverRequest{DriverID: driverID}, nil)
}

// UnassignDriver ends a vehicle assignment.
func (c *Client) UnassignDriver(ctx context.Context, vehicleAssignmentID string) error {
	query := url.Values{"vehicleAssignmentId": {vehicleAssignmentID}}
	return c.post(ctx, "/api/tenants/{tenantKey}/Vehicles/unassign-driver", query, nil, nil)
}

// UpdateVehicleLocation reports the current position for an assignment.
func (c *Client) UpdateVehicleLocation(ctx context.Context, vehicleAssignmentID string, req models.UpdateVehicleLocationRequest) error {
	query := url.Values{"vehicleAssignmentId": {vehicleAssignmentID}}
	return c.put(ctx, "/api/tenants/{tenantKey}/Vehicles/current-location", query, req, nil)
}
