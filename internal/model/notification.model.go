package model

// EmailKind selects the template rendered by the notifier.
type EmailKind string

const (
	EmailWelcome           EmailKind = "welcome"
	EmailShipmentAssigned  EmailKind = "shipment_assigned"
	EmailShipmentDelivered EmailKind = "shipment_delivered"
)

// EmailJob is the payload published on the notifications stream. The API
// never blocks on mail delivery; the notifier consumes these
// asynchronously.
type EmailJob struct {
	Kind        EmailKind `json:"kind"`
	To          string    `json:"to"`
	Name        string    `json:"name"`
	ShipmentID  string    `json:"shipment_id,omitempty"`
	Destination string    `json:"destination,omitempty"`
}
