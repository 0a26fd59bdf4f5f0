// Package dispatch orchestrates the occurrence-assignment workflow:
// binding one pending transport request to one available driver shift.
package dispatch

import (
	"context"
	"fmt"
	"log"

	"github.com/ambutrack/console/internal/api"
	"github.com/ambutrack/console/internal/models"
)

// Refresher re-pulls the live feed after an assignment so the next
// authoritative push reconciles state. Implemented by *feed.Client.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Workflow binds pending requests to driver shifts.
type Workflow struct {
	api  *api.Client
	feed Refresher
}

// New creates a Workflow. feed may be nil when no live channel is open
// (one-shot CLI assignment); the reconciliation step is skipped.
func New(client *api.Client, feed Refresher) (*Workflow, error) {
	if client == nil {
		return nil, fmt.Errorf("dispatch: api client is required")
	}
	return &Workflow{api: client, feed: feed}, nil
}

// Assign submits the assignment of requestID to driverShiftID at the
// given priority. Whether the request is still assignable and the shift
// still free is decided entirely by the backend, the only place that
// sees all concurrent dispatchers. On success the cached feed list is
// not touched; a feed refresh is triggered instead and the next push
// carries the authoritative pending set. Backend rejections are returned
// verbatim, with no retry.
func (w *Workflow) Assign(ctx context.Context, requestID, driverShiftID string, priority models.Priority) error {
	if requestID == "" {
		return fmt.Errorf("dispatch: request id is required")
	}
	if driverShiftID == "" {
		return fmt.Errorf("dispatch: driver shift id is required")
	}
	if !priority.Valid() {
		return fmt.Errorf("dispatch: invalid priority %q", priority)
	}

	err := w.api.StartOccurrence(ctx, requestID, models.StartOccurrenceRequest{
		DriverShiftID: driverShiftID,
		Priority:      priority,
	})
	if err != nil {
		return err
	}

	if w.feed != nil {
		// Best-effort: a failed refresh only delays reconciliation
		// until the next server push.
		if err := w.feed.Refresh(ctx); err != nil {
			log.Printf("dispatch: feed refresh after assignment: %v", err)
		}
	}
	return nil
}

// AvailableDrivers fetches the on-shift driver set for the active
// tenant. Re-fetched on every call: availability changes between fetch
// and use, and the backend rejects stale choices at assignment time.
func (w *Workflow) AvailableDrivers(ctx context.Context) ([]models.DriverStatus, error) {
	return w.api.AvailableDrivers(ctx)
}

// EnRouteToPatient advances an assigned request's trip to the pickup leg.
func (w *Workflow) EnRouteToPatient(ctx context.Context, requestID string) error {
	return w.api.EnRouteToPatient(ctx, requestID)
}

// EnRouteToDestination advances the trip to the destination leg.
func (w *Workflow) EnRouteToDestination(ctx context.Context, requestID string) error {
	return w.api.EnRouteToDestination(ctx, requestID)
}

// CompleteTrip closes out the trip for a request.
func (w *Workflow) CompleteTrip(ctx context.Context, requestID string) error {
	return w.api.CompleteTrip(ctx, requestID)
}
