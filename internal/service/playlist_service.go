package service

import (
	"context"
	"errors"
	"strings"

	"github.com/BhautikVekariya21/backend/internal/domain"
	"github.com/BhautikVekariya21/backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlaylistService manages user playlists.
type PlaylistService interface {
	Create(ctx context.Context, owner primitive.ObjectID, name, description string) (*domain.Playlist, error)
	Get(ctx context.Context, id primitive.ObjectID) (*domain.PlaylistDetail, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.PlaylistSummary, error)
	Update(ctx context.Context, id, caller primitive.ObjectID, name, description string) (*domain.Playlist, error)
	Delete(ctx context.Context, id, caller primitive.ObjectID) error
	AddVideo(ctx context.Context, id, videoID, caller primitive.ObjectID) (*domain.Playlist, error)
	RemoveVideo(ctx context.Context, id, videoID, caller primitive.ObjectID) (*domain.Playlist, error)
}

type playlistService struct {
	playlistRepo repository.PlaylistRepository
	videoRepo    repository.VideoRepository
}

func NewPlaylistService(playlistRepo repository.PlaylistRepository, videoRepo repository.VideoRepository) PlaylistService {
	return &playlistService{playlistRepo: playlistRepo, videoRepo: videoRepo}
}

func (s *playlistService) Create(ctx context.Context, owner primitive.ObjectID, name, description string) (*domain.Playlist, error) {
	name, description = strings.TrimSpace(name), strings.TrimSpace(description)
	if err := requireFields("name", name, "description", description); err != nil {
		return nil, err
	}

	playlist := &domain.Playlist{Name: name, Description: description, Owner: owner}
	if _, err := s.playlistRepo.Create(ctx, playlist); err != nil {
		return nil, unexpected(err)
	}
	return playlist, nil
}

func (s *playlistService) Get(ctx context.Context, id primitive.ObjectID) (*domain.PlaylistDetail, error) {
	detail, err := s.playlistRepo.Detail(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlaylistNotFound
		}
		return nil, unexpected(err)
	}
	if detail.Videos == nil {
		detail.Videos = []domain.PlaylistVideo{}
	}
	return detail, nil
}

func (s *playlistService) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.PlaylistSummary, error) {
	playlists, err := s.playlistRepo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, unexpected(err)
	}
	return playlists, nil
}

func (s *playlistService) owned(id primitive.ObjectID, action string, mutate func(ctx context.Context) (*domain.Playlist, error)) ownedMutation[*domain.Playlist, *domain.Playlist] {
	return ownedMutation[*domain.Playlist, *domain.Playlist]{
		lookup:  func(ctx context.Context) (*domain.Playlist, error) { return s.playlistRepo.GetByID(ctx, id) },
		missing: ErrPlaylistNotFound,
		action:  action,
		mutate:  func(ctx context.Context, _ *domain.Playlist) (*domain.Playlist, error) { return mutate(ctx) },
	}
}

func (s *playlistService) Update(ctx context.Context, id, caller primitive.ObjectID, name, description string) (*domain.Playlist, error) {
	name, description = strings.TrimSpace(name), strings.TrimSpace(description)
	if err := requireFields("name", name, "description", description); err != nil {
		return nil, err
	}
	return mutateOwned(ctx, caller, s.owned(id, "edit this playlist", func(ctx context.Context) (*domain.Playlist, error) {
		return s.playlistRepo.Update(ctx, id, name, description)
	}))
}

func (s *playlistService) Delete(ctx context.Context, id, caller primitive.ObjectID) error {
	_, err := mutateOwned(ctx, caller, s.owned(id, "delete this playlist", func(ctx context.Context) (*domain.Playlist, error) {
		return nil, s.playlistRepo.Delete(ctx, id)
	}))
	return err
}

func (s *playlistService) AddVideo(ctx context.Context, id, videoID, caller primitive.ObjectID) (*domain.Playlist, error) {
	if err := s.requireVideo(ctx, videoID); err != nil {
		return nil, err
	}
	return mutateOwned(ctx, caller, s.owned(id, "add videos to this playlist", func(ctx context.Context) (*domain.Playlist, error) {
		return s.playlistRepo.AddVideo(ctx, id, videoID)
	}))
}

func (s *playlistService) RemoveVideo(ctx context.Context, id, videoID, caller primitive.ObjectID) (*domain.Playlist, error) {
	return mutateOwned(ctx, caller, s.owned(id, "remove videos from this playlist", func(ctx context.Context) (*domain.Playlist, error) {
		return s.playlistRepo.RemoveVideo(ctx, id, videoID)
	}))
}

func (s *playlistService) requireVideo(ctx context.Context, id primitive.ObjectID) error {
	if _, err := s.videoRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrVideoNotFound
		}
		return unexpected(err)
	}
	return nil
}
