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

// UserService handles user lookup and account deletion.
type UserService struct {
	users  repository.UserRepository
	logger *slog.Logger
}

func NewUserService(users repository.UserRepository, logger *slog.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

// Search finds a user by username or internal ID. When both are supplied the
// username wins. At least one must be present.
func (s *UserService) Search(ctx context.Context, userID, username string) (*model.User, error) {
	username = strings.TrimSpace(username)
	userID = strings.TrimSpace(userID)

	switch {
	case username != "":
		return s.users.GetUserByUsername(ctx, username)
	case userID != "":
		return s.users.GetUserByID(ctx, userID)
	default:
		return nil, apperror.ValidationFailed("query",
			"either user_id or username is required")
	}
}

// Delete removes a user identified by ID or username (username wins when
// both are present) together with everything they own: goals, achievements,
// and journal entries with their route rows.
func (s *UserService) Delete(ctx context.Context, userID, username string) error {
	user, err := s.Search(ctx, userID, username)
	if err != nil {
		return err
	}

	if err := s.users.DeleteUser(ctx, user.ID); err != nil {
		return fmt.Errorf("deleting user %s: %w", user.ID, err)
	}

	s.logger.Info("user deleted",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)
	return nil
}
