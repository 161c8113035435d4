package model

import "time"

// RoomLock is an advisory lock held while a booking for a (date, room) pair
// is being conflict-checked and inserted. The _id is derived from the slot
// coordinates, so a duplicate-key error on insert means another request is
// booking the same room right now. ExpiresAt is TTL-indexed so abandoned
// locks disappear on their own.
type RoomLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
