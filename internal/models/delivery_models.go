package models

import "time"

// Delivery status values. Transitions only ever move forward along
// Pending -> InTransit -> Delivered.
const (
	StatusPending   = "Pending"
	StatusInTransit = "InTransit"
	StatusDelivered = "Delivered"
)

// DefaultCountry is applied to addresses that omit the country field.
const DefaultCountry = "USA"

// TrackingPrefix is the fixed prefix of every public tracking number.
const TrackingPrefix = "TRK"

// Address is a structured postal address embedded in users and deliveries.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}

// Delivery represents one shipment request.
type Delivery struct {
	ID                    string     `json:"id"`
	TrackingNumber        string     `json:"trackingNumber"`
	CustomerID            string     `json:"customerId"`
	DriverID              *string    `json:"driverId"`
	PickupAddress         Address    `json:"pickupAddress"`
	DeliveryAddress       Address    `json:"deliveryAddress"`
	PackageDescription    string     `json:"packageDescription"`
	WeightKg              float64    `json:"weightKg"`
	LengthCm              *float64   `json:"lengthCm,omitempty"`
	WidthCm               *float64   `json:"widthCm,omitempty"`
	HeightCm              *float64   `json:"heightCm,omitempty"`
	DeclaredValue         float64    `json:"declaredValue"`
	Status                string     `json:"status"`
	EstimatedDeliveryDate *time.Time `json:"estimatedDeliveryDate,omitempty"`
	ActualDeliveryDate    *time.Time `json:"actualDeliveryDate,omitempty"`
	DeliveryNotes         string     `json:"deliveryNotes,omitempty"`
	CreatedAt             time.Time  `json:"createdAt"`
	UpdatedAt             time.Time  `json:"updatedAt"`
}

// TrackingInfo is the public, unauthenticated projection of a delivery.
// It exposes the customer's name but no other party details.
type TrackingInfo struct {
	TrackingNumber        string     `json:"trackingNumber"`
	Status                string     `json:"status"`
	PickupAddress         Address    `json:"pickupAddress"`
	DeliveryAddress       Address    `json:"deliveryAddress"`
	PackageDescription    string     `json:"packageDescription"`
	WeightKg              float64    `json:"weightKg"`
	CustomerName          string     `json:"customerName"`
	CreatedAt             time.Time  `json:"createdAt"`
	EstimatedDeliveryDate *time.Time `json:"estimatedDeliveryDate,omitempty"`
	ActualDeliveryDate    *time.Time `json:"actualDeliveryDate,omitempty"`
	DeliveryNotes         string     `json:"deliveryNotes,omitempty"`
}

// AddressRequest is the validated input form of an address. Country falls
// back to DefaultCountry when omitted.
type AddressRequest struct {
	Street  string `json:"street" validate:"required,max=200"`
	City    string `json:"city" validate:"required,max=100"`
	State   string `json:"state" validate:"required,max=100"`
	Zip     string `json:"zip" validate:"required,max=20"`
	Country string `json:"country,omitempty" validate:"omitempty,max=100"`
}

// ToAddress converts the request form into the domain form, applying the
// country default.
func (a AddressRequest) ToAddress() Address {
	country := a.Country
	if country == "" {
		country = DefaultCountry
	}
	return Address{Street: a.Street, City: a.City, State: a.State, Zip: a.Zip, Country: country}
}

// CreateDeliveryRequest is the payload for creating a shipment request.
type CreateDeliveryRequest struct {
	PickupAddress         AddressRequest `json:"pickupAddress" validate:"required"`
	DeliveryAddress       AddressRequest `json:"deliveryAddress" validate:"required"`
	PackageDescription    string         `json:"packageDescription" validate:"required,max=500"`
	WeightKg              float64        `json:"weightKg" validate:"required,gt=0"`
	LengthCm              *float64       `json:"lengthCm,omitempty" validate:"omitempty,gt=0"`
	WidthCm               *float64       `json:"widthCm,omitempty" validate:"omitempty,gt=0"`
	HeightCm              *float64       `json:"heightCm,omitempty" validate:"omitempty,gt=0"`
	DeclaredValue         float64        `json:"declaredValue,omitempty" validate:"omitempty,gte=0"`
	EstimatedDeliveryDate *time.Time     `json:"estimatedDeliveryDate,omitempty"`
}

// AssignDriverRequest is the admin payload binding a driver to a delivery.
type AssignDriverRequest struct {
	DriverID string `json:"driverId" validate:"required,uuid4"`
}

// UpdateStatusRequest is the payload for advancing a delivery's status.
type UpdateStatusRequest struct {
	Status        string `json:"status" validate:"required,oneof=Pending InTransit Delivered"`
	DeliveryNotes string `json:"deliveryNotes,omitempty" validate:"omitempty,max=1000"`
}
