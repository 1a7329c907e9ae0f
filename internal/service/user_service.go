package service

import (
	"context"
	"errors"
	"strings"

	"github.com/BhautikVekariya21/backend/internal/domain"
	"github.com/BhautikVekariya21/backend/internal/logger"
	"github.com/BhautikVekariya21/backend/internal/repository"
	"github.com/BhautikVekariya21/backend/internal/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserService manages profile data and channel pages.
type UserService interface {
	GetCurrentUser(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	UpdateAccountDetails(ctx context.Context, id primitive.ObjectID, fullName, email string) (*domain.User, error)
	UpdateAvatar(ctx context.Context, id primitive.ObjectID, localPath string) (*domain.User, error)
	UpdateCoverImage(ctx context.Context, id primitive.ObjectID, localPath string) (*domain.User, error)
	ChannelProfile(ctx context.Context, username string, viewer primitive.ObjectID) (*domain.ChannelProfile, error)
	WatchHistory(ctx context.Context, id primitive.ObjectID) ([]domain.HistoryVideo, error)
}

type userService struct {
	userRepo repository.UserRepository
	media    storage.MediaGateway
}

func NewUserService(userRepo repository.UserRepository, media storage.MediaGateway) UserService {
	return &userService{userRepo: userRepo, media: media}
}

func (s *userService) GetCurrentUser(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, userLookupError(err)
	}
	return user.Sanitized(), nil
}

func (s *userService) UpdateAccountDetails(ctx context.Context, id primitive.ObjectID, fullName, email string) (*domain.User, error) {
	fullName = strings.TrimSpace(fullName)
	email = strings.ToLower(strings.TrimSpace(email))
	if err := requireFields("fullName", fullName, "email", email); err != nil {
		return nil, err
	}

	switch existing, err := s.userRepo.GetByEmail(ctx, email); {
	case err == nil && existing.ID != id:
		return nil, ErrEmailTaken
	case err != nil && !errors.Is(err, repository.ErrNotFound):
		return nil, unexpected(err)
	}

	// The unique index still catches a concurrent claim of the same email.
	user, err := s.userRepo.UpdateAccount(ctx, id, fullName, email)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, userLookupError(err)
	}
	return user.Sanitized(), nil
}

func (s *userService) UpdateAvatar(ctx context.Context, id primitive.ObjectID, localPath string) (*domain.User, error) {
	if localPath == "" {
		return nil, ErrAvatarRequired
	}
	return s.replaceImage(ctx, id, localPath, ErrAvatarUpload,
		func(u *domain.User) string { return u.Avatar.StorageID },
		func(m domain.Media) (*domain.User, error) { return s.userRepo.UpdateAvatar(ctx, id, m) },
	)
}

func (s *userService) UpdateCoverImage(ctx context.Context, id primitive.ObjectID, localPath string) (*domain.User, error) {
	if localPath == "" {
		return nil, ErrCoverImageRequired
	}
	return s.replaceImage(ctx, id, localPath, ErrCoverImageUpload,
		func(u *domain.User) string {
			if u.CoverImage == nil {
				return ""
			}
			return u.CoverImage.StorageID
		},
		func(m domain.Media) (*domain.User, error) { return s.userRepo.UpdateCoverImage(ctx, id, m) },
	)
}

// replaceImage uploads the new file, stores the reference and then deletes
// the previous remote object.
func (s *userService) replaceImage(
	ctx context.Context,
	id primitive.ObjectID,
	localPath string,
	uploadErr error,
	previous func(*domain.User) string,
	store func(domain.Media) (*domain.User, error),
) (*domain.User, error) {
	current, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, userLookupError(err)
	}
	oldID := previous(current)

	asset, err := s.media.Upload(ctx, localPath, domain.MediaImage)
	if err != nil || asset == nil {
		logger.FromContext(ctx).WithError(err).Warn("image upload failed")
		return nil, uploadErr
	}

	updated, err := store(asset.Media())
	if err != nil {
		s.media.Delete(ctx, asset.StorageID, domain.MediaImage)
		return nil, userLookupError(err)
	}

	s.media.Delete(ctx, oldID, domain.MediaImage)
	return updated.Sanitized(), nil
}

func (s *userService) ChannelProfile(ctx context.Context, username string, viewer primitive.ObjectID) (*domain.ChannelProfile, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, invalid("username is missing")
	}
	profile, err := s.userRepo.ChannelProfile(ctx, username, viewer)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrChannelNotFound
		}
		return nil, unexpected(err)
	}
	return profile, nil
}

func (s *userService) WatchHistory(ctx context.Context, id primitive.ObjectID) ([]domain.HistoryVideo, error) {
	history, err := s.userRepo.WatchHistory(ctx, id)
	if err != nil {
		return nil, userLookupError(err)
	}
	return history, nil
}

func userLookupError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUserNotFound
	}
	return unexpected(err)
}
