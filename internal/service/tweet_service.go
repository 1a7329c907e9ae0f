package service

import (
	"context"
	"strings"

	"github.com/BhautikVekariya21/backend/internal/domain"
	"github.com/BhautikVekariya21/backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TweetService manages short channel posts.
type TweetService interface {
	Create(ctx context.Context, owner primitive.ObjectID, content string) (*domain.Tweet, error)
	ListByUser(ctx context.Context, userID, viewer primitive.ObjectID) ([]domain.TweetView, error)
	Update(ctx context.Context, id, caller primitive.ObjectID, content string) (*domain.Tweet, error)
	Delete(ctx context.Context, id, caller primitive.ObjectID) error
}

type tweetService struct {
	tweetRepo repository.TweetRepository
	userRepo  repository.UserRepository
}

func NewTweetService(tweetRepo repository.TweetRepository, userRepo repository.UserRepository) TweetService {
	return &tweetService{tweetRepo: tweetRepo, userRepo: userRepo}
}

func (s *tweetService) Create(ctx context.Context, owner primitive.ObjectID, content string) (*domain.Tweet, error) {
	content = strings.TrimSpace(content)
	if err := requireFields("content", content); err != nil {
		return nil, err
	}

	tweet := &domain.Tweet{Content: content, Owner: owner}
	if _, err := s.tweetRepo.Create(ctx, tweet); err != nil {
		return nil, unexpected(err)
	}
	return tweet, nil
}

func (s *tweetService) ListByUser(ctx context.Context, userID, viewer primitive.ObjectID) ([]domain.TweetView, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, userLookupError(err)
	}
	tweets, err := s.tweetRepo.ListByOwner(ctx, userID, viewer)
	if err != nil {
		return nil, unexpected(err)
	}
	return tweets, nil
}

func (s *tweetService) Update(ctx context.Context, id, caller primitive.ObjectID, content string) (*domain.Tweet, error) {
	content = strings.TrimSpace(content)
	if err := requireFields("content", content); err != nil {
		return nil, err
	}
	return mutateOwned(ctx, caller, ownedMutation[*domain.Tweet, *domain.Tweet]{
		lookup:  func(ctx context.Context) (*domain.Tweet, error) { return s.tweetRepo.GetByID(ctx, id) },
		missing: ErrTweetNotFound,
		action:  "edit this tweet",
		mutate: func(ctx context.Context, _ *domain.Tweet) (*domain.Tweet, error) {
			return s.tweetRepo.UpdateContent(ctx, id, content)
		},
	})
}

func (s *tweetService) Delete(ctx context.Context, id, caller primitive.ObjectID) error {
	_, err := mutateOwned(ctx, caller, ownedMutation[*domain.Tweet, struct{}]{
		lookup:  func(ctx context.Context) (*domain.Tweet, error) { return s.tweetRepo.GetByID(ctx, id) },
		missing: ErrTweetNotFound,
		action:  "delete this tweet",
		mutate: func(ctx context.Context, _ *domain.Tweet) (struct{}, error) {
			return struct{}{}, s.tweetRepo.Delete(ctx, id)
		},
	})
	return err
}
