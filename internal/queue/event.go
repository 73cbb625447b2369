// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingCreatedEvent is published when a desk booking is created. It
// carries enough information for downstream consumers to log or notify
// without querying the primary database.
type BookingCreatedEvent struct {
	BookingID      uint64 `json:"booking_id"`
	UserID         uint64 `json:"user_id"`
	DeskID         uint64 `json:"desk_id"`
	Date           string `json:"date"`
	ApprovedStatus bool   `json:"approved_status"`
	CreatedAt      string `json:"created_at"`
}
