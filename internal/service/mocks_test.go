package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"testing"
	"time"

	"github.com/myboulders/api/internal/apperror"
	"github.com/myboulders/api/internal/model"
)

// Hand-written in-memory mocks for the repository interfaces. Each stores
// copies so a test can't accidentally mutate the mock's state through a
// returned pointer.

func testLogger(t *testing.T) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// -------------------------------------------------------------------------
// users
// -------------------------------------------------------------------------

type mockUserRepo struct {
	users  map[string]*model.User
	nextID int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) CreateUser(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.Username == user.Username {
			return apperror.Conflict("username already exists")
		}
		if u.Email == user.Email {
			return apperror.Conflict("email already exists")
		}
	}
	m.nextID++
	user.ID = fmt.Sprintf("user-%d", m.nextID)
	user.CreatedAt = time.Now()
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *mockUserRepo) GetUserByID(_ context.Context, id string) (*model.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	result := *user
	return &result, nil
}

func (m *mockUserRepo) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			result := *u
			return &result, nil
		}
	}
	return nil, apperror.NotFound("user", username)
}

func (m *mockUserRepo) UpdateProfileImage(_ context.Context, id, imageURL string) error {
	user, ok := m.users[id]
	if !ok {
		return apperror.NotFound("user", id)
	}
	user.ProfileImageURL = imageURL
	return nil
}

func (m *mockUserRepo) DeleteUser(_ context.Context, id string) error {
	if _, ok := m.users[id]; !ok {
		return apperror.NotFound("user", id)
	}
	delete(m.users, id)
	return nil
}

// -------------------------------------------------------------------------
// journal
// -------------------------------------------------------------------------

type mockJournalRepo struct {
	entries map[string]*model.JournalEntry
	nextID  int
}

func newMockJournalRepo() *mockJournalRepo {
	return &mockJournalRepo{entries: make(map[string]*model.JournalEntry)}
}

func (m *mockJournalRepo) CreateEntry(_ context.Context, entry *model.JournalEntry) error {
	m.nextID++
	entry.ID = fmt.Sprintf("entry-%d", m.nextID)
	entry.RouteID = fmt.Sprintf("route-%d", m.nextID)
	if entry.Date.IsZero() {
		entry.Date = time.Now()
	}
	stored := *entry
	m.entries[entry.ID] = &stored
	return nil
}

func (m *mockJournalRepo) GetEntryByID(_ context.Context, id string) (*model.JournalEntry, error) {
	entry, ok := m.entries[id]
	if !ok {
		return nil, apperror.NotFound("journal entry", id)
	}
	result := *entry
	return &result, nil
}

func (m *mockJournalRepo) ListEntriesByUser(_ context.Context, userID string) ([]model.JournalEntry, error) {
	result := []model.JournalEntry{}
	for _, e := range m.entries {
		if e.UserID == userID {
			result = append(result, *e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.After(result[j].Date) })
	return result, nil
}

func (m *mockJournalRepo) UpdateEntry(_ context.Context, entry *model.JournalEntry) error {
	if _, ok := m.entries[entry.ID]; !ok {
		return apperror.NotFound("journal entry", entry.ID)
	}
	stored := *entry
	m.entries[entry.ID] = &stored
	return nil
}

func (m *mockJournalRepo) DeleteEntry(_ context.Context, id string) error {
	if _, ok := m.entries[id]; !ok {
		return apperror.NotFound("journal entry", id)
	}
	delete(m.entries, id)
	return nil
}

func (m *mockJournalRepo) SetEntryImageURL(_ context.Context, id, imageURL string) error {
	entry, ok := m.entries[id]
	if !ok {
		return apperror.NotFound("journal entry", id)
	}
	entry.ImageURL = imageURL
	return nil
}

// -------------------------------------------------------------------------
// goals
// -------------------------------------------------------------------------

type mockGoalRepo struct {
	goals  map[string]*model.Goal
	nextID int
}

func newMockGoalRepo() *mockGoalRepo {
	return &mockGoalRepo{goals: make(map[string]*model.Goal)}
}

func (m *mockGoalRepo) CreateGoal(_ context.Context, goal *model.Goal) error {
	m.nextID++
	goal.ID = fmt.Sprintf("goal-%d", m.nextID)
	stored := *goal
	m.goals[goal.ID] = &stored
	return nil
}

func (m *mockGoalRepo) GetGoalByID(_ context.Context, id string) (*model.Goal, error) {
	goal, ok := m.goals[id]
	if !ok {
		return nil, apperror.NotFound("goal", id)
	}
	result := *goal
	return &result, nil
}

func (m *mockGoalRepo) ListGoalsByUser(_ context.Context, userID string) ([]model.Goal, error) {
	result := []model.Goal{}
	for _, g := range m.goals {
		if g.UserID == userID {
			result = append(result, *g)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockGoalRepo) UpdateGoal(_ context.Context, goal *model.Goal) error {
	if _, ok := m.goals[goal.ID]; !ok {
		return apperror.NotFound("goal", goal.ID)
	}
	stored := *goal
	m.goals[goal.ID] = &stored
	return nil
}

func (m *mockGoalRepo) DeleteGoal(_ context.Context, id string) error {
	if _, ok := m.goals[id]; !ok {
		return apperror.NotFound("goal", id)
	}
	delete(m.goals, id)
	return nil
}

// -------------------------------------------------------------------------
// achievements + leaderboard
// -------------------------------------------------------------------------

type mockAchievementRepo struct {
	achievements map[string]*model.Achievement
	nextID       int
}

func newMockAchievementRepo() *mockAchievementRepo {
	return &mockAchievementRepo{achievements: make(map[string]*model.Achievement)}
}

func (m *mockAchievementRepo) CreateAchievement(_ context.Context, achievement *model.Achievement) error {
	m.nextID++
	achievement.ID = fmt.Sprintf("ach-%d", m.nextID)
	if achievement.Date.IsZero() {
		achievement.Date = time.Now()
	}
	stored := *achievement
	m.achievements[achievement.ID] = &stored
	return nil
}

func (m *mockAchievementRepo) ListAchievementsByUser(_ context.Context, userID string) ([]model.Achievement, error) {
	result := []model.Achievement{}
	for _, a := range m.achievements {
		if a.UserID == userID {
			result = append(result, *a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

type mockLeaderboardRepo struct {
	rows []model.LeaderboardRow
	err  error
}

func (m *mockLeaderboardRepo) Leaderboard(_ context.Context) ([]model.LeaderboardRow, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.rows, nil
}
