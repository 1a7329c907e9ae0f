package service

import (
	"context"
	"errors"

	"github.com/BhautikVekariya21/backend/internal/domain"
	"github.com/BhautikVekariya21/backend/internal/logger"
	"github.com/BhautikVekariya21/backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SubscriptionService manages who follows which channel.
type SubscriptionService interface {
	// Toggle reports whether subscriber follows channel after the call.
	Toggle(ctx context.Context, subscriber, channel primitive.ObjectID) (bool, error)
	Subscribers(ctx context.Context, channel primitive.ObjectID) ([]domain.SubscriberView, error)
	SubscribedChannels(ctx context.Context, subscriber primitive.ObjectID) ([]domain.SubscribedChannelView, error)
}

type subscriptionService struct {
	subRepo  repository.SubscriptionRepository
	userRepo repository.UserRepository
	stats    StatsInvalidator
}

// StatsInvalidator drops cached dashboard totals of a channel.
type StatsInvalidator interface {
	InvalidateStats(ctx context.Context, channel primitive.ObjectID)
}

// NewSubscriptionService wires the service. stats may be nil.
func NewSubscriptionService(subRepo repository.SubscriptionRepository, userRepo repository.UserRepository, stats StatsInvalidator) SubscriptionService {
	return &subscriptionService{subRepo: subRepo, userRepo: userRepo, stats: stats}
}

func (s *subscriptionService) Toggle(ctx context.Context, subscriber, channel primitive.ObjectID) (bool, error) {
	if subscriber == channel {
		return false, ErrSelfSubscription
	}
	if err := s.requireChannel(ctx, channel); err != nil {
		return false, err
	}

	subscribed, err := s.subRepo.Toggle(ctx, subscriber, channel)
	if err != nil {
		return false, unexpected(err)
	}
	if s.stats != nil {
		s.stats.InvalidateStats(ctx, channel)
	}

	logger.FromContext(ctx).WithField("channel_id", channel.Hex()).WithField("subscribed", subscribed).Debug("subscription toggled")
	return subscribed, nil
}

func (s *subscriptionService) Subscribers(ctx context.Context, channel primitive.ObjectID) ([]domain.SubscriberView, error) {
	if err := s.requireChannel(ctx, channel); err != nil {
		return nil, err
	}
	subscribers, err := s.subRepo.Subscribers(ctx, channel)
	if err != nil {
		return nil, unexpected(err)
	}
	return subscribers, nil
}

func (s *subscriptionService) SubscribedChannels(ctx context.Context, subscriber primitive.ObjectID) ([]domain.SubscribedChannelView, error) {
	if _, err := s.userRepo.GetByID(ctx, subscriber); err != nil {
		return nil, userLookupError(err)
	}
	channels, err := s.subRepo.SubscribedChannels(ctx, subscriber)
	if err != nil {
		return nil, unexpected(err)
	}
	return channels, nil
}

func (s *subscriptionService) requireChannel(ctx context.Context, channel primitive.ObjectID) error {
	_, err := s.userRepo.GetByID(ctx, channel)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return ErrChannelNotFound
	}
	return unexpected(err)
}
