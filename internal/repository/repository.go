// Package repository defines the storage interfaces the service layer
// programs against. The sqlite subpackage provides the implementation; tests
// substitute in-memory mocks.
package repository

import (
	"context"

	"github.com/myboulders/api/internal/model"
)

type UserRepository interface {
	// CreateUser inserts a new user. Returns apperror.ErrConflict if the
	// username or email is already taken.
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	// UpdateProfileImage sets the user's profile image URL.
	UpdateProfileImage(ctx context.Context, id, imageURL string) error
	// DeleteUser removes the user and cascades to their goals, achievements,
	// and journal entries (including the entries' route rows).
	DeleteUser(ctx context.Context, id string) error
}

type JournalRepository interface {
	// CreateEntry inserts a journal entry together with its own route row,
	// finding or creating the difficulty level by grade string. The entry's
	// RouteType and Difficulty fields drive the route creation; ID, RouteID
	// and Date (if zero) are filled in.
	CreateEntry(ctx context.Context, entry *model.JournalEntry) error
	GetEntryByID(ctx context.Context, id string) (*model.JournalEntry, error)
	ListEntriesByUser(ctx context.Context, userID string) ([]model.JournalEntry, error)
	// UpdateEntry persists the entry's own fields and its route's type/grade.
	UpdateEntry(ctx context.Context, entry *model.JournalEntry) error
	// DeleteEntry removes the entry and its per-entry route row.
	DeleteEntry(ctx context.Context, id string) error
	// SetEntryImageURL attaches a hosted image URL to an entry.
	SetEntryImageURL(ctx context.Context, id, imageURL string) error
}

type GoalRepository interface {
	CreateGoal(ctx context.Context, goal *model.Goal) error
	GetGoalByID(ctx context.Context, id string) (*model.Goal, error)
	ListGoalsByUser(ctx context.Context, userID string) ([]model.Goal, error)
	UpdateGoal(ctx context.Context, goal *model.Goal) error
	DeleteGoal(ctx context.Context, id string) error
}

type AchievementRepository interface {
	CreateAchievement(ctx context.Context, achievement *model.Achievement) error
	ListAchievementsByUser(ctx context.Context, userID string) ([]model.Achievement, error)
}

type LeaderboardRepository interface {
	// Leaderboard returns (username, completed count) rows ordered by count
	// descending. Users without entries are omitted; ties are unordered.
	Leaderboard(ctx context.Context) ([]model.LeaderboardRow, error)
}
