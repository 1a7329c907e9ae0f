package service

import (
	"context"
	"time"

	"github.com/BhautikVekariya21/backend/internal/domain"
	"github.com/BhautikVekariya21/backend/internal/logger"
	"github.com/BhautikVekariya21/backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// JSONCache is the cache-aside store used for dashboard totals.
type JSONCache interface {
	GetJSON(ctx context.Context, key string, dst any) (bool, error)
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// DashboardService reports on the caller's own channel.
type DashboardService interface {
	StatsInvalidator
	Stats(ctx context.Context, channel primitive.ObjectID) (*domain.ChannelStats, error)
	Videos(ctx context.Context, channel primitive.ObjectID) ([]domain.ChannelVideo, error)
}

type dashboardService struct {
	repo     repository.DashboardRepository
	cache    JSONCache
	statsTTL time.Duration
}

// NewDashboardService wires the service. A nil cache or a zero ttl
// disables caching of stats.
func NewDashboardService(repo repository.DashboardRepository, cache JSONCache, statsTTL time.Duration) DashboardService {
	return &dashboardService{repo: repo, cache: cache, statsTTL: statsTTL}
}

func statsKey(channel primitive.ObjectID) string {
	return "stats:" + channel.Hex()
}

func (s *dashboardService) cacheEnabled() bool {
	return s.cache != nil && s.statsTTL > 0
}

func (s *dashboardService) Stats(ctx context.Context, channel primitive.ObjectID) (*domain.ChannelStats, error) {
	log := logger.FromContext(ctx).WithField("channel_id", channel.Hex())
	key := statsKey(channel)

	if s.cacheEnabled() {
		var cached domain.ChannelStats
		found, err := s.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			log.WithError(err).Warn("stats cache read failed")
		}
		if found {
			return &cached, nil
		}
	}

	stats, err := s.repo.ChannelStats(ctx, channel)
	if err != nil {
		return nil, unexpected(err)
	}

	if s.cacheEnabled() {
		if err := s.cache.SetJSON(ctx, key, stats, s.statsTTL); err != nil {
			log.WithError(err).Warn("stats cache write failed")
		}
	}
	return stats, nil
}

func (s *dashboardService) Videos(ctx context.Context, channel primitive.ObjectID) ([]domain.ChannelVideo, error) {
	videos, err := s.repo.ChannelVideos(ctx, channel)
	if err != nil {
		return nil, unexpected(err)
	}
	return videos, nil
}

// InvalidateStats drops the cached totals so the next read recomputes them.
func (s *dashboardService) InvalidateStats(ctx context.Context, channel primitive.ObjectID) {
	if !s.cacheEnabled() {
		return
	}
	if err := s.cache.Delete(ctx, statsKey(channel)); err != nil {
		logger.FromContext(ctx).WithError(err).WithField("channel_id", channel.Hex()).Warn("stats cache invalidation failed")
	}
}
