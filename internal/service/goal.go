package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/myboulders/api/internal/apperror"
	"github.com/myboulders/api/internal/model"
	"github.com/myboulders/api/internal/repository"
)

const MaxGoalTitleLength = 200

// GoalService handles climbing goals, ownership-checked the same way as the
// journal.
type GoalService struct {
	goals  repository.GoalRepository
	logger *slog.Logger
}

func NewGoalService(goals repository.GoalRepository, logger *slog.Logger) *GoalService {
	return &GoalService{goals: goals, logger: logger}
}

// UpdateGoalInput is a partial update: nil fields are left unchanged.
// TargetDate is a YYYY-MM-DD string; an explicit empty string clears it.
type UpdateGoalInput struct {
	Title       *string
	Description *string
	TargetDate  *string
	Completed   *bool
}

// Create adds a goal for the user. Title is required; the optional target
// date is a YYYY-MM-DD string.
func (s *GoalService) Create(ctx context.Context, userID, title, description, targetDate string) (*model.Goal, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperror.ValidationFailed("title", "goal title is required")
	}
	if len(title) > MaxGoalTitleLength {
		return nil, apperror.ValidationFailed("title",
			fmt.Sprintf("goal title must be %d characters or less", MaxGoalTitleLength))
	}

	goal := &model.Goal{
		UserID:      userID,
		Title:       title,
		Description: strings.TrimSpace(description),
	}

	if targetDate != "" {
		date, err := parseDate("target_date", targetDate)
		if err != nil {
			return nil, err
		}
		goal.TargetDate = &date
	}

	if err := s.goals.CreateGoal(ctx, goal); err != nil {
		s.logger.Error("failed to create goal",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating goal: %w", err)
	}

	s.logger.Info("goal created",
		slog.String("id", goal.ID),
		slog.String("userID", userID),
	)

	return goal, nil
}

// List returns all of the user's goals.
func (s *GoalService) List(ctx context.Context, userID string) ([]model.Goal, error) {
	goals, err := s.goals.ListGoalsByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list goals",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing goals: %w", err)
	}
	return goals, nil
}

// Update applies a partial update to an owned goal.
func (s *GoalService) Update(ctx context.Context, userID, goalID string, in UpdateGoalInput) (*model.Goal, error) {
	goal, err := s.getOwned(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, apperror.ValidationFailed("title", "goal title must not be empty")
		}
		if len(title) > MaxGoalTitleLength {
			return nil, apperror.ValidationFailed("title",
				fmt.Sprintf("goal title must be %d characters or less", MaxGoalTitleLength))
		}
		goal.Title = title
	}
	if in.Description != nil {
		goal.Description = strings.TrimSpace(*in.Description)
	}
	if in.TargetDate != nil {
		if *in.TargetDate == "" {
			goal.TargetDate = nil
		} else {
			date, err := parseDate("target_date", *in.TargetDate)
			if err != nil {
				return nil, err
			}
			goal.TargetDate = &date
		}
	}
	if in.Completed != nil {
		goal.Completed = *in.Completed
	}

	if err := s.goals.UpdateGoal(ctx, goal); err != nil {
		s.logger.Error("failed to update goal",
			slog.String("id", goalID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating goal: %w", err)
	}

	s.logger.Info("goal updated", slog.String("id", goalID))
	return goal, nil
}

// SetCompleted marks an owned goal complete or reopens it.
func (s *GoalService) SetCompleted(ctx context.Context, userID, goalID string, completed bool) (*model.Goal, error) {
	goal, err := s.getOwned(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}

	goal.Completed = completed
	if err := s.goals.UpdateGoal(ctx, goal); err != nil {
		return nil, fmt.Errorf("updating goal %s: %w", goalID, err)
	}

	s.logger.Info("goal completion toggled",
		slog.String("id", goalID),
		slog.Bool("completed", completed),
	)
	return goal, nil
}

// Delete removes an owned goal.
func (s *GoalService) Delete(ctx context.Context, userID, goalID string) error {
	if _, err := s.getOwned(ctx, userID, goalID); err != nil {
		return err
	}

	if err := s.goals.DeleteGoal(ctx, goalID); err != nil {
		return fmt.Errorf("deleting goal %s: %w", goalID, err)
	}

	s.logger.Info("goal deleted", slog.String("id", goalID))
	return nil
}

func (s *GoalService) getOwned(ctx context.Context, userID, goalID string) (*model.Goal, error) {
	goalID = strings.TrimSpace(goalID)
	if goalID == "" {
		return nil, apperror.ValidationFailed("id", "goal ID is required")
	}

	goal, err := s.goals.GetGoalByID(ctx, goalID)
	if err != nil {
		return nil, err
	}
	if goal.UserID != userID {
		return nil, apperror.Forbidden("goal belongs to another user")
	}
	return goal, nil
}
