// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered climber account.
//
// PasswordHash holds the bcrypt hash of the password — never the clear text.
// The json:"-" tag keeps it out of every API response; handlers can return a
// User directly without leaking the hash.
//
// Birthdate is optional at registration, hence the pointer: nil means the
// user never supplied one, which is distinct from a zero time.
type User struct {
	ID              string     `json:"id"`
	Username        string     `json:"username"`
	Email           string     `json:"email"`
	PasswordHash    string     `json:"-"`
	ProfileImageURL string     `json:"profile_image_url"`
	Birthdate       *time.Time `json:"birthdate,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}
