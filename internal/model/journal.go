package model

import "time"

// DifficultyLevel is a climbing grade label such as "6A" or "7C+".
// Rows are created lazily the first time a grade string is used; the grade
// column is UNIQUE so find-or-create has a clear key.
type DifficultyLevel struct {
	ID    string `json:"id"`
	Grade string `json:"grade"`
}

// Route is one climbed line: a type (boulder/lead/top-rope) and a grade.
// Routes are per-entry, not a shared catalog — every journal entry owns
// exactly one route row, created alongside it.
type Route struct {
	ID           string `json:"id"`
	DifficultyID string `json:"difficulty_id"`
	Type         string `json:"type"`
}

// JournalEntry is a completed route logged by a user.
//
// RouteType and Difficulty are denormalized from the joined route row so the
// API can return a flat entry object, the shape the original journal
// endpoints expose.
type JournalEntry struct {
	ID       string    `json:"id"`
	UserID   string    `json:"user_id"`
	RouteID  string    `json:"route_id"`
	Date     time.Time `json:"date"`
	Flash    bool      `json:"flash"`
	ImageURL string    `json:"image_url,omitempty"`

	// Joined from the entry's route.
	RouteType  string `json:"route_type"`
	Difficulty string `json:"difficulty"`
}

// LeaderboardRow is one line of the leaderboard: a user and how many routes
// they have completed. Ties carry no defined relative order.
type LeaderboardRow struct {
	Username            string `json:"username"`
	CompletedRouteCount int    `json:"completed_routes_count"`
}
