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

// PublishVideoInput is a new upload. Duration is used when the store does
// not report one.
type PublishVideoInput struct {
	Title         string
	Description   string
	VideoPath     string
	ThumbnailPath string
	Duration      float64
}

// UpdateVideoInput edits a video. An empty ThumbnailPath keeps the thumbnail.
type UpdateVideoInput struct {
	Title         string
	Description   string
	ThumbnailPath string
}

// VideoService manages videos and their visibility.
type VideoService interface {
	Feed(ctx context.Context, q repository.VideoFeedQuery) (domain.Page[domain.VideoCard], error)
	Publish(ctx context.Context, owner primitive.ObjectID, in PublishVideoInput) (*domain.Video, error)
	// Watch returns the video page, counts the view and records it in history.
	Watch(ctx context.Context, id, viewer primitive.ObjectID) (*domain.VideoDetail, error)
	Update(ctx context.Context, id, caller primitive.ObjectID, in UpdateVideoInput) (*domain.Video, error)
	Delete(ctx context.Context, id, caller primitive.ObjectID) error
	TogglePublish(ctx context.Context, id, caller primitive.ObjectID) (*domain.Video, error)
}

type videoService struct {
	videoRepo repository.VideoRepository
	userRepo  repository.UserRepository
	media     storage.MediaGateway
}

func NewVideoService(videoRepo repository.VideoRepository, userRepo repository.UserRepository, media storage.MediaGateway) VideoService {
	return &videoService{videoRepo: videoRepo, userRepo: userRepo, media: media}
}

func (s *videoService) Feed(ctx context.Context, q repository.VideoFeedQuery) (domain.Page[domain.VideoCard], error) {
	if q.OwnerID != nil {
		if _, err := s.userRepo.GetByID(ctx, *q.OwnerID); err != nil {
			return domain.Page[domain.VideoCard]{}, userLookupError(err)
		}
	}
	q.Search = strings.TrimSpace(q.Search)
	q.Page = domain.NewPageRequest(q.Page.Page, q.Page.Limit)

	page, err := s.videoRepo.Feed(ctx, q)
	if err != nil {
		return domain.Page[domain.VideoCard]{}, unexpected(err)
	}
	return page, nil
}

func (s *videoService) Publish(ctx context.Context, owner primitive.ObjectID, in PublishVideoInput) (*domain.Video, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if err := requireFields("title", in.Title, "description", in.Description); err != nil {
		return nil, err
	}
	if in.VideoPath == "" {
		return nil, ErrVideoFileRequired
	}
	if in.ThumbnailPath == "" {
		return nil, ErrThumbnailRequired
	}
	if in.Duration < 0 {
		return nil, invalid("duration must not be negative")
	}

	videoFile, err := s.media.Upload(ctx, in.VideoPath, domain.MediaVideo)
	if err != nil || videoFile == nil {
		logger.FromContext(ctx).WithError(err).Warn("video upload failed")
		return nil, ErrVideoUpload
	}
	thumbnail, err := s.media.Upload(ctx, in.ThumbnailPath, domain.MediaImage)
	if err != nil || thumbnail == nil {
		logger.FromContext(ctx).WithError(err).Warn("thumbnail upload failed")
		s.media.Delete(ctx, videoFile.StorageID, domain.MediaVideo)
		return nil, ErrThumbnailUpload
	}

	duration := in.Duration
	if videoFile.Duration != nil {
		duration = *videoFile.Duration
	}

	video := &domain.Video{
		VideoFile:   videoFile.Media(),
		Thumbnail:   thumbnail.Media(),
		Title:       in.Title,
		Description: in.Description,
		Duration:    duration,
		Owner:       owner,
	}
	if _, err := s.videoRepo.Create(ctx, video); err != nil {
		s.media.Delete(ctx, videoFile.StorageID, domain.MediaVideo)
		s.media.Delete(ctx, thumbnail.StorageID, domain.MediaImage)
		return nil, unexpected(err)
	}

	logger.FromContext(ctx).WithField("video_id", video.ID.Hex()).Info("video published")
	return video, nil
}

func (s *videoService) Watch(ctx context.Context, id, viewer primitive.ObjectID) (*domain.VideoDetail, error) {
	detail, err := s.videoRepo.Detail(ctx, id, viewer)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, unexpected(err)
	}

	log := logger.FromContext(ctx).WithField("video_id", id.Hex())
	if err := s.videoRepo.IncrementViews(ctx, id); err != nil {
		log.WithError(err).Warn("failed to count view")
	} else {
		detail.Views++
	}
	if err := s.userRepo.AddToWatchHistory(ctx, viewer, id); err != nil {
		log.WithError(err).Warn("failed to record watch history")
	}
	return detail, nil
}

func (s *videoService) Update(ctx context.Context, id, caller primitive.ObjectID, in UpdateVideoInput) (*domain.Video, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if err := requireFields("title", in.Title, "description", in.Description); err != nil {
		return nil, err
	}

	return mutateOwned(ctx, caller, ownedMutation[*domain.Video, *domain.Video]{
		lookup:  func(ctx context.Context) (*domain.Video, error) { return s.videoRepo.GetByID(ctx, id) },
		missing: ErrVideoNotFound,
		action:  "edit this video",
		mutate: func(ctx context.Context, current *domain.Video) (*domain.Video, error) {
			upd := repository.VideoUpdate{Title: in.Title, Description: in.Description}

			var thumbnail *storage.Asset
			if in.ThumbnailPath != "" {
				var err error
				thumbnail, err = s.media.Upload(ctx, in.ThumbnailPath, domain.MediaImage)
				if err != nil || thumbnail == nil {
					logger.FromContext(ctx).WithError(err).Warn("thumbnail upload failed")
					return nil, ErrThumbnailUpload
				}
				m := thumbnail.Media()
				upd.Thumbnail = &m
			}

			updated, err := s.videoRepo.Update(ctx, id, caller, upd)
			if err != nil {
				if thumbnail != nil {
					s.media.Delete(ctx, thumbnail.StorageID, domain.MediaImage)
				}
				return nil, err
			}
			if thumbnail != nil {
				s.media.Delete(ctx, current.Thumbnail.StorageID, domain.MediaImage)
			}
			return updated, nil
		},
	})
}

// Delete removes the video with its comments and likes, then its remote files.
func (s *videoService) Delete(ctx context.Context, id, caller primitive.ObjectID) error {
	_, err := mutateOwned(ctx, caller, ownedMutation[*domain.Video, struct{}]{
		lookup:  func(ctx context.Context) (*domain.Video, error) { return s.videoRepo.GetByID(ctx, id) },
		missing: ErrVideoNotFound,
		action:  "delete this video",
		mutate: func(ctx context.Context, current *domain.Video) (struct{}, error) {
			if err := s.videoRepo.DeleteCascade(ctx, id); err != nil {
				return struct{}{}, err
			}
			s.media.Delete(ctx, current.VideoFile.StorageID, domain.MediaVideo)
			s.media.Delete(ctx, current.Thumbnail.StorageID, domain.MediaImage)
			return struct{}{}, nil
		},
	})
	return err
}

func (s *videoService) TogglePublish(ctx context.Context, id, caller primitive.ObjectID) (*domain.Video, error) {
	return mutateOwned(ctx, caller, ownedMutation[*domain.Video, *domain.Video]{
		lookup:  func(ctx context.Context) (*domain.Video, error) { return s.videoRepo.GetByID(ctx, id) },
		missing: ErrVideoNotFound,
		action:  "change the publish status",
		mutate: func(ctx context.Context, _ *domain.Video) (*domain.Video, error) {
			return s.videoRepo.TogglePublish(ctx, id, caller)
		},
	})
}
