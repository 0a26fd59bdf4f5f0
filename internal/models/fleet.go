package models

import "time"

// BaseType classifies a dispatch base.
type BaseType string

const (
	BaseHospital BaseType = "Hospital"
	BaseClinic   BaseType = "Clinic"
	BaseStation  BaseType = "Station"
)

// VehicleType classifies a fleet vehicle.
type VehicleType string

const (
	VehicleBasicAmbulance    VehicleType = "BasicAmbulance"
	VehicleAdvancedAmbulance VehicleType = "AdvancedAmbulance"
	VehicleTransport         VehicleType = "Transport"
)

// VehicleSummary is the short form embedded in driver shift data.
type VehicleSummary struct {
	ID    string      `json:"id"`
	Plate string      `json:"plate"`
	Type  VehicleType `json:"type,omitempty"`
}

type RegisterBaseRequest struct {
	Name     string   `json:"name"`
	Type     BaseType `json:"type"`
	Location Location `json:"location"`
}

type Base struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      BaseType  `json:"type"`
	Location  Location  `json:"location"`
	CreatedAt time.Time `json:"createdAt"`
}

// BaseRef is the short form embedded in vehicle data.
type BaseRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type RegisterVehicleRequest struct {
	Plate       string      `json:"plate"`
	Type        VehicleType `json:"type"`
	Description string      `json:"description,omitempty"`
	BaseID      string      `json:"baseId,omitempty"`
}

type Vehicle struct {
	ID          string      `json:"id"`
	Plate       string      `json:"plate"`
	Type        VehicleType `json:"type"`
	Description string      `json:"description,omitempty"`
	Base        *BaseRef    `json:"base,omitempty"`
}

type AssignDriverRequest struct {
	DriverID string `json:"driverId"`
}

type UpdateVehicleLocationRequest struct {
	Coordinate GeoCoordinate `json:"coordinate"`
	Speed      float64       `json:"speed"`
	Timestamp  time.Time     `json:"timestamp"`
}

// User is a platform-level user profile.
type User struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"emailVerified"`
}
