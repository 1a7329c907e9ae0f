package service

import (
	"context"
	"errors"
	"strings"

	"github.com/BhautikVekariya21/backend/internal/domain"
	"github.com/BhautikVekariya21/backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CommentService manages comments under videos.
type CommentService interface {
	List(ctx context.Context, videoID, viewer primitive.ObjectID, page domain.PageRequest) (domain.Page[domain.CommentView], error)
	Add(ctx context.Context, videoID, owner primitive.ObjectID, content string) (*domain.Comment, error)
	Update(ctx context.Context, id, caller primitive.ObjectID, content string) (*domain.Comment, error)
	Delete(ctx context.Context, id, caller primitive.ObjectID) error
}

type commentService struct {
	commentRepo repository.CommentRepository
	videoRepo   repository.VideoRepository
}

func NewCommentService(commentRepo repository.CommentRepository, videoRepo repository.VideoRepository) CommentService {
	return &commentService{commentRepo: commentRepo, videoRepo: videoRepo}
}

func (s *commentService) requireVideo(ctx context.Context, id primitive.ObjectID) error {
	if _, err := s.videoRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrVideoNotFound
		}
		return unexpected(err)
	}
	return nil
}

func (s *commentService) List(ctx context.Context, videoID, viewer primitive.ObjectID, page domain.PageRequest) (domain.Page[domain.CommentView], error) {
	if err := s.requireVideo(ctx, videoID); err != nil {
		return domain.Page[domain.CommentView]{}, err
	}
	page = domain.NewPageRequest(page.Page, page.Limit)

	comments, err := s.commentRepo.ListByVideo(ctx, videoID, viewer, page)
	if err != nil {
		return domain.Page[domain.CommentView]{}, unexpected(err)
	}
	return comments, nil
}

func (s *commentService) Add(ctx context.Context, videoID, owner primitive.ObjectID, content string) (*domain.Comment, error) {
	content = strings.TrimSpace(content)
	if err := requireFields("content", content); err != nil {
		return nil, err
	}
	if err := s.requireVideo(ctx, videoID); err != nil {
		return nil, err
	}

	comment := &domain.Comment{Content: content, Video: videoID, Owner: owner}
	if _, err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, unexpected(err)
	}
	return comment, nil
}

func (s *commentService) Update(ctx context.Context, id, caller primitive.ObjectID, content string) (*domain.Comment, error) {
	content = strings.TrimSpace(content)
	if err := requireFields("content", content); err != nil {
		return nil, err
	}
	return mutateOwned(ctx, caller, ownedMutation[*domain.Comment, *domain.Comment]{
		lookup:  func(ctx context.Context) (*domain.Comment, error) { return s.commentRepo.GetByID(ctx, id) },
		missing: ErrCommentNotFound,
		action:  "edit this comment",
		mutate: func(ctx context.Context, _ *domain.Comment) (*domain.Comment, error) {
			return s.commentRepo.UpdateContent(ctx, id, content)
		},
	})
}

func (s *commentService) Delete(ctx context.Context, id, caller primitive.ObjectID) error {
	_, err := mutateOwned(ctx, caller, ownedMutation[*domain.Comment, struct{}]{
		lookup:  func(ctx context.Context) (*domain.Comment, error) { return s.commentRepo.GetByID(ctx, id) },
		missing: ErrCommentNotFound,
		action:  "delete this comment",
		mutate: func(ctx context.Context, _ *domain.Comment) (struct{}, error) {
			return struct{}{}, s.commentRepo.Delete(ctx, id)
		},
	})
	return err
}
