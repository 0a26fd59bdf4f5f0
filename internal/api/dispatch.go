package api

import (
	"context"
	"net/url"

	"github.com/ambutrack/console/internal/models"
)

// StartOccurrence assigns a pending request to a driver shift with a
// priority. The backend is the sole arbiter of whether the request is
// still assignable and the shift still free.
func (c *Client) StartOccurrence(ctx context.Context, requestID string, req models.StartOccurrenceRequest) error {
	path := "/api/tenants/{tenantKey}/dispatch/requests/" + url.PathEscape(requestID) + "/occurrence"
	return c.post(ctx, path, nil, req, nil)
}

// EnRouteToPatient marks the assigned vehicle as en route to the pickup.
func (c *Client) EnRouteToPatient(ctx context.Context, requestID string) error {
	path := "/api/tenants/{tenantKey}/dispatch/requests/" + url.PathEscape(requestID) + "/trip/en-route-to-patient"
	return c.post(ctx, path, nil, nil, nil)
}

// EnRouteToDestination marks the trip as under way to the destination.
func (c *Client) EnRouteToDestination(ctx context.Context, requestID string) error {
	path := "/api/tenants/{tenantKey}/dispatch/requests/" + url.PathEscape(requestID) + "/trip/en-route-to-destination"
	return c.post(ctx, path, nil, nil, nil)
}

// CompleteTrip closes out the trip for a request.
func (c *Client) CompleteTrip(ctx context.Context, requestID string) error {
	path := "/api/tenants/{tenantKey}/dispatch/requests/" + url.PathEscape(requestID) + "/trip/complete"
	return c.post(ctx, path, nil, nil, nil)
}

// AvailableDrivers returns the drivers currently on shift in the active
// tenant. Never cached: availability changes between fetch and use, and
// a stale choice is rejected by the backend at assignment time.
func (c *Client) AvailableDrivers(ctx context.Context) ([]models.DriverStatus, error) {
	var drivers []models.DriverStatus
	if err := c.get(ctx, "/api/tenants/{tenantKey}/drivers/available", nil, &drivers); err != nil {
		return nil, err
	}
	return drivers, nil
}

// Drivers returns a page of the active tenant's drivers.
func (c *Client) Drivers(ctx context.Context, page, pageSize int) (*models.Paged[models.DriverStatus], error) {
	var out models.Paged[models.DriverStatus]
	if err := c.get(ctx, "/api/tenants/{tenantKey}/drivers", pageQuery(page, pageSize), &out); err != nil {
		return nil, err
	}
	return &out, nil
}
