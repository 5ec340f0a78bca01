package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/xid"

	"github.com/myboulders/api/internal/apperror"
	"github.com/myboulders/api/internal/model"
	"github.com/myboulders/api/internal/repository"
)

// compile-time check that *DB implements repository.GoalRepository
var _ repository.GoalRepository = (*DB)(nil)

func (db *DB) CreateGoal(ctx context.Context, goal *model.Goal) error {
	goal.ID = xid.New().String()

	var targetDate sql.NullTime
	if goal.TargetDate != nil {
		targetDate = sql.NullTime{Time: *goal.TargetDate, Valid: true}
	}

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO goals (id, user_id, title, description, target_date, completed)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		goal.ID, goal.UserID, goal.Title, goal.Description, targetDate, goal.Completed,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting goal: %w", err)
	}
	return nil
}

func (db *DB) GetGoalByID(ctx context.Context, id string) (*model.Goal, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT id, user_id, title, description, target_date, completed
		 FROM goals WHERE id = ?`, id,
	)

	goal, err := scanGoal(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("goal", id)
		}
		return nil, fmt.Errorf("sqlite: getting goal %s: %w", id, err)
	}
	return goal, nil
}

func (db *DB) ListGoalsByUser(ctx context.Context, userID string) ([]model.Goal, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, user_id, title, description, target_date, completed
		 FROM goals WHERE user_id = ?`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing goals for user %s: %w", userID, err)
	}
	defer rows.Close()

	goals := []model.Goal{}
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning goal: %w", err)
		}
		goals = append(goals, *goal)
	}
	return goals, rows.Err()
}

func (db *DB) UpdateGoal(ctx context.Context, goal *model.Goal) error {
	var targetDate sql.NullTime
	if goal.TargetDate != nil {
		targetDate = sql.NullTime{Time: *goal.TargetDate, Valid: true}
	}

	res, err := db.conn.ExecContext(ctx,
		`UPDATE goals SET title = ?, description = ?, target_date = ?, completed = ?
		 WHERE id = ?`,
		goal.Title, goal.Description, targetDate, goal.Completed, goal.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating goal %s: %w", goal.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NotFound("goal", goal.ID)
	}
	return nil
}

func (db *DB) DeleteGoal(ctx context.Context, id string) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM goals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting goal %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NotFound("goal", id)
	}
	return nil
}

func scanGoal(s scanner) (*model.Goal, error) {
	var (
		goal       model.Goal
		targetDate sql.NullTime
	)
	err := s.Scan(
		&goal.ID,
		&goal.UserID,
		&goal.Title,
		&goal.Description,
		&targetDate,
		&goal.Completed,
	)
	if err != nil {
		return nil, err
	}
	if targetDate.Valid {
		goal.TargetDate = &targetDate.Time
	}
	return &goal, nil
}
