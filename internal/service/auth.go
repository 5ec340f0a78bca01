package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/myboulders/api/internal/apperror"
	"github.com/myboulders/api/internal/auth"
	"github.com/myboulders/api/internal/model"
	"github.com/myboulders/api/internal/repository"
)

const (
	MaxUsernameLength = 50
	MaxEmailLength    = 254

	// Assigned to new accounts until the user uploads their own picture.
	defaultProfileImageURL = "https://i.imgur.com/V4RclNb.png"
)

// AuthService handles registration, login, and current-user lookup.
//
// Dependencies (injected via NewAuthService):
//   - users      repository.UserRepository  → read/write user records
//   - tokens     *auth.TokenService         → generate/validate JWTs
//   - passwords  *auth.PasswordService      → bcrypt hashing
//   - logger     *slog.Logger               → structured logging
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// AuthResult bundles the user record and the issued JWT so the handler can
// set the cookie and respond in one step.
type AuthResult struct {
	User  *model.User
	Token string
}

// RegisterInput carries the registration fields. ProfileImageURL and
// Birthdate are optional; Birthdate is a YYYY-MM-DD string.
type RegisterInput struct {
	Username        string
	Password        string
	Email           string
	ProfileImageURL string
	Birthdate       string
}

// Register validates the input, hashes the password, and creates the user.
// Duplicate usernames and emails surface as apperror.ErrConflict from the
// repository. The stored record never leaves with its hash — model.User
// excludes PasswordHash from JSON.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)

	if username == "" {
		return nil, apperror.ValidationFailed("username", "username is required")
	}
	if len(username) > MaxUsernameLength {
		return nil, apperror.ValidationFailed("username",
			fmt.Sprintf("username must be %d characters or less", MaxUsernameLength))
	}
	if in.Password == "" {
		return nil, apperror.ValidationFailed("password", "password is required")
	}
	if email == "" {
		return nil, apperror.ValidationFailed("email", "email is required")
	}
	if len(email) > MaxEmailLength || !strings.Contains(email, "@") {
		return nil, apperror.ValidationFailed("email", "email is not valid")
	}

	user := &model.User{
		Username:        username,
		Email:           email,
		ProfileImageURL: strings.TrimSpace(in.ProfileImageURL),
	}
	if user.ProfileImageURL == "" {
		user.ProfileImageURL = defaultProfileImageURL
	}

	if in.Birthdate != "" {
		birthdate, err := parseDate("birthdate", in.Birthdate)
		if err != nil {
			return nil, err
		}
		user.Birthdate = &birthdate
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = hash

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, err
		}
		s.logger.Error("failed to create user",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("registering user: %w", err)
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil
}

// Login verifies the credentials and issues a JWT. Unknown usernames and
// wrong passwords both come back as apperror.ErrUnauthorized; the messages
// differ ("user not found" vs "incorrect password") but the status does not.
func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apperror.ValidationFailed("credentials",
			"username and password are required")
	}

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized("user not found")
		}
		return nil, fmt.Errorf("looking up user %q: %w", username, err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, err
	}

	token, err := s.tokens.Generate(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("generating token for user %s: %w", user.ID, err)
	}

	s.logger.Info("user logged in",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)

	return &AuthResult{User: user, Token: token}, nil
}

// GetUserByID returns the user for the given internal ID. Used by the
// /api/auth/me handler after the middleware has validated the token.
func (s *AuthService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, apperror.ValidationFailed("id", "user ID is required")
	}
	return s.users.GetUserByID(ctx, id)
}
