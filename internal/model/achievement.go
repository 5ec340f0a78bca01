package model

import "time"

// Achievement is an append-only badge earned by a user.
// There is no update or delete path — achievements are only created and read.
type Achievement struct {
	ID     string    `json:"id"`
	UserID string    `json:"user_id"`
	Name   string    `json:"name"`
	Date   time.Time `json:"date"`
}
