package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/myboulders/api/internal/apperror"
	"github.com/myboulders/api/internal/imgur"
	"github.com/myboulders/api/internal/repository"
)

// Attachment targets for uploaded images.
const (
	TargetCompletedRoute = "completed_route"
	TargetUserProfile    = "user_profile"
)

// ImageHost is the hosting backend for uploaded images. *imgur.Client
// implements it; tests substitute a fake.
type ImageHost interface {
	Upload(ctx context.Context, filename string, data []byte) (*imgur.Image, error)
	Delete(ctx context.Context, deleteHash string) error
}

// ImageService uploads images to the host and optionally links the hosted
// URL to a journal entry or the user's profile.
type ImageService struct {
	host    ImageHost
	entries repository.JournalRepository
	users   repository.UserRepository
	logger  *slog.Logger
}

func NewImageService(
	host ImageHost,
	entries repository.JournalRepository,
	users repository.UserRepository,
	logger *slog.Logger,
) *ImageService {
	return &ImageService{
		host:    host,
		entries: entries,
		users:   users,
		logger:  logger,
	}
}

// UploadResult reports a hosted image. Warning is set when the upload
// succeeded but the follow-up attach failed; the image stays hosted either
// way.
type UploadResult struct {
	ImageURL   string `json:"image_url"`
	DeleteHash string `json:"delete_hash"`
	Warning    string `json:"warning,omitempty"`
}

// UploadInput carries an upload request. TargetType is empty (just host the
// image), "completed_route" (attach to the journal entry TargetID, which must
// belong to the user), or "user_profile" (set the user's own avatar).
type UploadInput struct {
	Filename   string
	Data       []byte
	TargetType string
	TargetID   string
}

// Upload validates the target, sends the image to the host, then attaches
// the hosted URL. Validation and ownership failures happen before the upload
// so a rejected request never spends bandwidth; an attach failure after a
// successful upload is reported as a warning, never an error — the image is
// already hosted and must not look lost.
func (s *ImageService) Upload(ctx context.Context, userID string, in UploadInput) (*UploadResult, error) {
	targetID := strings.TrimSpace(in.TargetID)

	switch in.TargetType {
	case "":
	case TargetCompletedRoute:
		if targetID == "" {
			return nil, apperror.ValidationFailed("target_id",
				"target ID is required when attaching to a completed route")
		}
		entry, err := s.entries.GetEntryByID(ctx, targetID)
		if err != nil {
			return nil, err
		}
		if entry.UserID != userID {
			return nil, apperror.Forbidden("entry belongs to another user")
		}
	case TargetUserProfile:
	default:
		return nil, apperror.ValidationFailed("target_type",
			"target type must be completed_route or user_profile")
	}

	image, err := s.host.Upload(ctx, in.Filename, in.Data)
	if err != nil {
		return nil, err
	}

	result := &UploadResult{ImageURL: image.Link, DeleteHash: image.DeleteHash}

	var attachErr error
	switch in.TargetType {
	case TargetCompletedRoute:
		attachErr = s.entries.SetEntryImageURL(ctx, targetID, image.Link)
	case TargetUserProfile:
		attachErr = s.users.UpdateProfileImage(ctx, userID, image.Link)
	}
	if attachErr != nil {
		s.logger.Warn("image uploaded but attach failed",
			slog.String("userID", userID),
			slog.String("targetType", in.TargetType),
			slog.String("targetID", targetID),
			slog.String("error", attachErr.Error()),
		)
		result.Warning = "image uploaded but could not be attached to the target"
	}

	return result, nil
}

// Delete removes a hosted image by its delete hash.
func (s *ImageService) Delete(ctx context.Context, deleteHash string) error {
	return s.host.Delete(ctx, deleteHash)
}
