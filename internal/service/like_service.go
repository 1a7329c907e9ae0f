package service

import (
	"context"
	"errors"

	"github.com/BhautikVekariya21/backend/internal/domain"
	"github.com/BhautikVekariya21/backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LikeService flips like markers on videos, comments and tweets.
type LikeService interface {
	// Toggle reports whether the target is liked after the call.
	Toggle(ctx context.Context, target domain.LikeTarget, targetID, user primitive.ObjectID) (bool, error)
	LikedVideos(ctx context.Context, user primitive.ObjectID) ([]domain.LikedVideo, error)
}

type likeService struct {
	likeRepo    repository.LikeRepository
	videoRepo   repository.VideoRepository
	commentRepo repository.CommentRepository
	tweetRepo   repository.TweetRepository
	stats       StatsInvalidator
}

func NewLikeService(
	likeRepo repository.LikeRepository,
	videoRepo repository.VideoRepository,
	commentRepo repository.CommentRepository,
	tweetRepo repository.TweetRepository,
	stats StatsInvalidator,
) LikeService {
	return &likeService{likeRepo: likeRepo, videoRepo: videoRepo, commentRepo: commentRepo, tweetRepo: tweetRepo, stats: stats}
}

func (s *likeService) Toggle(ctx context.Context, target domain.LikeTarget, targetID, user primitive.ObjectID) (bool, error) {
	owner, err := s.requireTarget(ctx, target, targetID)
	if err != nil {
		return false, err
	}
	liked, err := s.likeRepo.Toggle(ctx, target, targetID, user)
	if err != nil {
		return false, unexpected(err)
	}
	// Only video likes count towards channel stats.
	if target == domain.LikeTargetVideo && s.stats != nil {
		s.stats.InvalidateStats(ctx, owner)
	}
	return liked, nil
}

// requireTarget checks the liked document exists and returns its owner.
func (s *likeService) requireTarget(ctx context.Context, target domain.LikeTarget, id primitive.ObjectID) (primitive.ObjectID, error) {
	var (
		doc     Owned
		err     error
		missing error
	)
	switch target {
	case domain.LikeTargetVideo:
		doc, err = s.videoRepo.GetByID(ctx, id)
		missing = ErrVideoNotFound
	case domain.LikeTargetComment:
		doc, err = s.commentRepo.GetByID(ctx, id)
		missing = ErrCommentNotFound
	case domain.LikeTargetTweet:
		doc, err = s.tweetRepo.GetByID(ctx, id)
		missing = ErrTweetNotFound
	default:
		return primitive.NilObjectID, invalid("Unknown like target")
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return primitive.NilObjectID, missing
		}
		return primitive.NilObjectID, unexpected(err)
	}
	return doc.OwnerID(), nil
}

func (s *likeService) LikedVideos(ctx context.Context, user primitive.ObjectID) ([]domain.LikedVideo, error) {
	videos, err := s.likeRepo.LikedVideos(ctx, user)
	if err != nil {
		return nil, unexpected(err)
	}
	return videos, nil
}
