package domain

import "time"

type (
	RoomName string
	RoomID   string
)

// Room is the persisted metadata of a room. Live membership is not part of it.
type Room struct {
	ID        RoomID    `json:"room_id"`
	Name      RoomName  `json:"room_name"`
	OwnerID   UserID    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}
