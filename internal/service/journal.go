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

// JournalService handles the journal of completed routes. Every read or
// mutation of a single entry goes through getOwned, which enforces that the
// entry belongs to the acting user.
type JournalService struct {
	entries repository.JournalRepository
	logger  *slog.Logger
}

func NewJournalService(entries repository.JournalRepository, logger *slog.Logger) *JournalService {
	return &JournalService{entries: entries, logger: logger}
}

// CreateEntryInput carries the fields for logging a completed route. Date is
// an optional ISO 8601 string; empty means "now".
type CreateEntryInput struct {
	RouteType  string
	Difficulty string
	Date       string
	Flash      bool
	ImageURL   string
}

// UpdateEntryInput is a partial update: nil fields are left unchanged.
// RouteType and Difficulty mutate the entry's own route row.
type UpdateEntryInput struct {
	RouteType  *string
	Difficulty *string
	Date       *string
	Flash      *bool
	ImageURL   *string
}

// Create logs a completed route for the user. The repository creates the
// per-entry route row and finds or creates the difficulty level by grade.
func (s *JournalService) Create(ctx context.Context, userID string, in CreateEntryInput) (*model.JournalEntry, error) {
	routeType := strings.TrimSpace(in.RouteType)
	difficulty := strings.TrimSpace(in.Difficulty)

	if routeType == "" {
		return nil, apperror.ValidationFailed("route_type", "route type is required")
	}
	if difficulty == "" {
		return nil, apperror.ValidationFailed("difficulty", "difficulty is required")
	}

	entry := &model.JournalEntry{
		UserID:     userID,
		RouteType:  routeType,
		Difficulty: difficulty,
		Flash:      in.Flash,
		ImageURL:   strings.TrimSpace(in.ImageURL),
	}

	if in.Date != "" {
		date, err := parseTimestamp("date", in.Date)
		if err != nil {
			return nil, err
		}
		entry.Date = date
	}

	if err := s.entries.CreateEntry(ctx, entry); err != nil {
		s.logger.Error("failed to create journal entry",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating journal entry: %w", err)
	}

	s.logger.Info("journal entry created",
		slog.String("id", entry.ID),
		slog.String("userID", userID),
		slog.String("difficulty", entry.Difficulty),
	)

	return entry, nil
}

// Get returns a single entry after verifying ownership.
func (s *JournalService) Get(ctx context.Context, userID, entryID string) (*model.JournalEntry, error) {
	return s.getOwned(ctx, userID, entryID)
}

// List returns all of the user's entries, newest first.
func (s *JournalService) List(ctx context.Context, userID string) ([]model.JournalEntry, error) {
	entries, err := s.entries.ListEntriesByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list journal entries",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing journal entries: %w", err)
	}
	return entries, nil
}

// Update applies a partial update to an owned entry. Route type and
// difficulty changes land on the entry's own route row; a novel grade string
// creates a new difficulty level.
func (s *JournalService) Update(ctx context.Context, userID, entryID string, in UpdateEntryInput) (*model.JournalEntry, error) {
	entry, err := s.getOwned(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}

	if in.RouteType != nil {
		routeType := strings.TrimSpace(*in.RouteType)
		if routeType == "" {
			return nil, apperror.ValidationFailed("route_type", "route type must not be empty")
		}
		entry.RouteType = routeType
	}
	if in.Difficulty != nil {
		difficulty := strings.TrimSpace(*in.Difficulty)
		if difficulty == "" {
			return nil, apperror.ValidationFailed("difficulty", "difficulty must not be empty")
		}
		entry.Difficulty = difficulty
	}
	if in.Date != nil {
		date, err := parseTimestamp("date", *in.Date)
		if err != nil {
			return nil, err
		}
		entry.Date = date
	}
	if in.Flash != nil {
		entry.Flash = *in.Flash
	}
	if in.ImageURL != nil {
		entry.ImageURL = strings.TrimSpace(*in.ImageURL)
	}

	if err := s.entries.UpdateEntry(ctx, entry); err != nil {
		s.logger.Error("failed to update journal entry",
			slog.String("id", entryID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating journal entry: %w", err)
	}

	s.logger.Info("journal entry updated", slog.String("id", entryID))
	return entry, nil
}

// Delete removes an owned entry and its route row.
func (s *JournalService) Delete(ctx context.Context, userID, entryID string) error {
	if _, err := s.getOwned(ctx, userID, entryID); err != nil {
		return err
	}

	if err := s.entries.DeleteEntry(ctx, entryID); err != nil {
		return fmt.Errorf("deleting journal entry %s: %w", entryID, err)
	}

	s.logger.Info("journal entry deleted", slog.String("id", entryID))
	return nil
}

// getOwned loads an entry and rejects access to other users' entries. Not
// found and forbidden stay distinct: callers learn an entry exists even when
// they may not touch it, matching the per-row ownership rule.
func (s *JournalService) getOwned(ctx context.Context, userID, entryID string) (*model.JournalEntry, error) {
	entryID = strings.TrimSpace(entryID)
	if entryID == "" {
		return nil, apperror.ValidationFailed("id", "entry ID is required")
	}

	entry, err := s.entries.GetEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.UserID != userID {
		return nil, apperror.Forbidden("entry belongs to another user")
	}
	return entry, nil
}
