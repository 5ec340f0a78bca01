package model

import "time"

// Goal is a user-defined climbing objective, e.g. "send a 7A by summer".
// TargetDate is optional; Completed starts false and is toggled through the
// goal-status endpoint.
type Goal struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	TargetDate  *time.Time `json:"target_date,omitempty"`
	Completed   bool       `json:"completed"`
}
