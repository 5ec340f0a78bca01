package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/myboulders/api/internal/model"
	"github.com/myboulders/api/internal/repository"
)

// LeaderboardService ranks users by how many routes they have completed.
type LeaderboardService struct {
	board  repository.LeaderboardRepository
	logger *slog.Logger
}

func NewLeaderboardService(board repository.LeaderboardRepository, logger *slog.Logger) *LeaderboardService {
	return &LeaderboardService{board: board, logger: logger}
}

// Leaderboard returns (username, count) rows, most completed routes first.
// Users without a single entry do not appear.
func (s *LeaderboardService) Leaderboard(ctx context.Context) ([]model.LeaderboardRow, error) {
	rows, err := s.board.Leaderboard(ctx)
	if err != nil {
		s.logger.Error("failed to compute leaderboard", slog.String("error", err.Error()))
		return nil, fmt.Errorf("computing leaderboard: %w", err)
	}
	return rows, nil
}
