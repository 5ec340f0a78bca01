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

// AchievementService handles the append-only achievement log. Achievements
// are readable for any user (profile pages show them) but only created for
// the acting user.
type AchievementService struct {
	achievements repository.AchievementRepository
	logger       *slog.Logger
}

func NewAchievementService(achievements repository.AchievementRepository, logger *slog.Logger) *AchievementService {
	return &AchievementService{achievements: achievements, logger: logger}
}

// Add records an achievement for the user. Date is an optional YYYY-MM-DD
// string; empty means "now".
func (s *AchievementService) Add(ctx context.Context, userID, name, date string) (*model.Achievement, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.ValidationFailed("achievement_name", "achievement name is required")
	}

	achievement := &model.Achievement{
		UserID: userID,
		Name:   name,
	}

	if date != "" {
		d, err := parseDate("date", date)
		if err != nil {
			return nil, err
		}
		achievement.Date = d
	}

	if err := s.achievements.CreateAchievement(ctx, achievement); err != nil {
		s.logger.Error("failed to create achievement",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating achievement: %w", err)
	}

	s.logger.Info("achievement added",
		slog.String("id", achievement.ID),
		slog.String("userID", userID),
		slog.String("name", name),
	)

	return achievement, nil
}

// ListByUser returns the achievements of any user, oldest first.
func (s *AchievementService) ListByUser(ctx context.Context, userID string) ([]model.Achievement, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, apperror.ValidationFailed("user_id", "user ID is required")
	}

	achievements, err := s.achievements.ListAchievementsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing achievements for user %s: %w", userID, err)
	}
	return achievements, nil
}
