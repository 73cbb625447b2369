package model

// Desk represents a single desk inside a room as stored in the `desks`
// table. Desk numbers repeat between rooms; the (room_id, number) pair
// is unique.
//
// Fields:
//  ID     – primary key identifier.
//  Number – desk number within its room.
//  RoomID – room containing the desk.
type Desk struct {
	ID     uint64 `json:"id"`      // desks.id
	Number int    `json:"number"`  // desks.number
	RoomID uint64 `json:"room_id"` // desks.room_id
}

// DeskSummary is a desk together with the room that contains it. It is
// used by booking summaries so clients can render a booking without
// additional lookups.
type DeskSummary struct {
	Desk
	Room Room `json:"room"`
}
