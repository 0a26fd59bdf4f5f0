package models

import "time"

// RequestStatus is the backend-owned lifecycle state of a transport
// request.
type RequestStatus string

const (
	StatusAwaitingReview RequestStatus = "AwaitingReview"
	StatusInProgress     RequestStatus = "InProgress"
	StatusCompleted      RequestStatus = "Completed"
	StatusCancelled      RequestStatus = "Cancelled"
)

// OccurrenceType classifies what kind of transport is being requested.
type OccurrenceType string

const (
	OccurrenceEmergency OccurrenceType = "Emergency"
	OccurrenceUrgent    OccurrenceType = "Urgent"
	OccurrenceElective  OccurrenceType = "Elective"
	OccurrenceSocial    OccurrenceType = "Social"
	OccurrenceOther     OccurrenceType = "Other"
)

// ApplicantType says who is filing the request on the patient's behalf.
type ApplicantType string

const (
	ApplicantPatient    ApplicantType = "Patient"
	ApplicantThirdParty ApplicantType = "ThirdParty"
)

type GeoCoordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Location is a geocoded address.
type Location struct {
	Coordinate GeoCoordinate `json:"coordinate"`
	Address    string        `json:"address"`
	Complement string        `json:"complement,omitempty"`
}

type PhoneNumber struct {
	CountryCode string `json:"countryCode,omitempty"`
	Number      string `json:"number"`
}

// CpfCnpj is a Brazilian taxpayer id, individual or corporate.
type CpfCnpj string

type Patient struct {
	Name          string        `json:"name"`
	Phone         *PhoneNumber  `json:"phone,omitempty"`
	Cpf           CpfCnpj       `json:"cpf,omitempty"`
	ApplicantType ApplicantType `json:"applicantType,omitempty"`
}

type Destination struct {
	Coordinate GeoCoordinate `json:"coordinate"`
	Address    string        `json:"address"`
}

type Scheduling struct {
	DateTime    time.Time    `json:"dateTime"`
	Destination *Destination `json:"destination,omitempty"`
}

type AboutOccurrence struct {
	Type        OccurrenceType `json:"type"`
	Description string         `json:"description"`
}

type Pickup struct {
	Coordinate GeoCoordinate `json:"coordinate"`
	Address    string        `json:"address"`
	Complement string        `json:"complement,omitempty"`
}

// Request is a pending transport occurrence as pushed by the live feed.
// The cached list held client-side is only ever a verbatim replacement
// of the server's pending set, never a merge.
type Request struct {
	ID              string          `json:"id"`
	Patient         *Patient        `json:"patient,omitempty"`
	Pickup          Pickup          `json:"pickup"`
	AboutOccurrence AboutOccurrence `json:"aboutOccurrence"`
	Scheduling      *Scheduling     `json:"scheduling,omitempty"`
	Status          RequestStatus   `json:"status"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

type RegisterRequestRequest struct {
	Patient         *Patient        `json:"patient,omitempty"`
	Pickup          Pickup          `json:"pickup"`
	AboutOccurrence AboutOccurrence `json:"aboutOccurrence"`
	Scheduling      *Scheduling     `json:"scheduling,omitempty"`
}

// Paged is the backend's paging envelope.
type Paged[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalCount int `json:"totalCount"`
}
