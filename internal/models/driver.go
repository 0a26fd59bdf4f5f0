package models

import "time"

// CurrentLocation is the last reported position of an on-shift vehicle.
type CurrentLocation struct {
	Coordinate GeoCoordinate `json:"coordinate"`
	Speed      float64       `json:"speed"`
	Timestamp  time.Time     `json:"timestamp"`
}

// ActiveShiftSummary describes the shift a driver is currently working.
type ActiveShiftSummary struct {
	DriverShiftID   string           `json:"driverShiftId"`
	Vehicle         *VehicleSummary  `json:"vehicle,omitempty"`
	CurrentLocation *CurrentLocation `json:"currentLocation,omitempty"`
}

// DriverStatus is a driver's availability as reported by the backend.
// ActiveShift is nil when the driver is off shift.
type DriverStatus struct {
	TenantUserID    string              `json:"tenantUserId"`
	DriverProfileID string              `json:"driverProfileId"`
	Name            string              `json:"name"`
	IsOnline        bool                `json:"isOnline"`
	ActiveShift     *ActiveShiftSummary `json:"activeShift,omitempty"`
}
