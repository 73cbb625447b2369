package model

// Booking reserves one desk for one user on one date, as stored in the
// `bookings` table. A desk can only be booked once per date; the
// (desk_id, date) pair is unique.
//
// Fields:
//  ID             – primary key identifier.
//  UserID         – user the desk is booked for.
//  DeskID         – booked desk.
//  Date           – calendar date of the booking (day granularity).
//  ApprovedStatus – whether an administrator has approved the booking.
type Booking struct {
	ID             uint64 `json:"id"`              // bookings.id
	UserID         uint64 `json:"user_id"`         // bookings.user_id
	DeskID         uint64 `json:"desk_id"`         // bookings.desk_id
	Date           Date   `json:"date"`            // bookings.date
	ApprovedStatus bool   `json:"approved_status"` // bookings.approved_status
}

// BookingSummary is a booking joined with its desk (and that desk's
// room). Returned by the "my bookings" endpoint so the client can show
// where a booking is without extra requests.
type BookingSummary struct {
	Booking
	Desk DeskSummary `json:"desk"`
}
