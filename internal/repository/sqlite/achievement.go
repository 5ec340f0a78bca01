package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/myboulders/api/internal/model"
	"github.com/myboulders/api/internal/repository"
)

// compile-time checks
var (
	_ repository.AchievementRepository = (*DB)(nil)
	_ repository.LeaderboardRepository = (*DB)(nil)
)

func (db *DB) CreateAchievement(ctx context.Context, achievement *model.Achievement) error {
	achievement.ID = xid.New().String()
	if achievement.Date.IsZero() {
		achievement.Date = time.Now()
	}

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO achievements (id, user_id, name, date) VALUES (?, ?, ?, ?)`,
		achievement.ID, achievement.UserID, achievement.Name, achievement.Date,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting achievement: %w", err)
	}
	return nil
}

func (db *DB) ListAchievementsByUser(ctx context.Context, userID string) ([]model.Achievement, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, user_id, name, date FROM achievements WHERE user_id = ? ORDER BY date`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing achievements for user %s: %w", userID, err)
	}
	defer rows.Close()

	achievements := []model.Achievement{}
	for rows.Next() {
		var a model.Achievement
		if err := rows.Scan(&a.ID, &a.UserID, &a.Name, &a.Date); err != nil {
			return nil, fmt.Errorf("sqlite: scanning achievement: %w", err)
		}
		achievements = append(achievements, a)
	}
	return achievements, rows.Err()
}

// Leaderboard counts completed routes per user, most first. The inner join
// drops users without any entries; SQLite's default ordering decides ties.
func (db *DB) Leaderboard(ctx context.Context) ([]model.LeaderboardRow, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT u.username, COUNT(cr.id) AS completed
		FROM users u
		JOIN completed_routes cr ON cr.user_id = u.id
		GROUP BY u.id
		ORDER BY completed DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: computing leaderboard: %w", err)
	}
	defer rows.Close()

	board := []model.LeaderboardRow{}
	for rows.Next() {
		var row model.LeaderboardRow
		if err := rows.Scan(&row.Username, &row.CompletedRouteCount); err != nil {
			return nil, fmt.Errorf("sqlite: scanning leaderboard row: %w", err)
		}
		board = append(board, row)
	}
	return board, rows.Err()
}
