package model

// Room represents a bookable room as stored in the `rooms` table.
// Room names are unique across the whole office.
//
// Fields:
//  ID   – primary key identifier.
//  Name – unique room name.
type Room struct {
	ID   uint64 `json:"id"`   // rooms.id
	Name string `json:"name"` // rooms.name
}
