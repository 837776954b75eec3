package models

import "time"

// Notification is an ephemeral signal forwarded to a single recipient.
// The realtime layer delivers it best-effort; persistence and downstream
// fan-out happen on the side and never block delivery.
type Notification struct {
	ID         string    `bson:"_id,omitempty" json:"id,omitempty"`
	ReceiverID string    `bson:"receiver_id" json:"receiverId"`
	SenderID   string    `bson:"sender_id" json:"senderId"`
	Type       string    `bson:"type" json:"type"`
	Payload    string    `bson:"payload,omitempty" json:"payload,omitempty"`
	Delivered  bool      `bson:"delivered" json:"delivered"`
	Read       bool      `bson:"read" json:"read"`
	CreatedAt  time.Time `bson:"created_at" json:"createdAt"`
}

// DeliveryResult reports whether the realtime delivery reached the recipient.
type DeliveryResult string

const (
	DeliveryDelivered DeliveryResult = "delivered"
	DeliveryDropped   DeliveryResult = "dropped"
)
