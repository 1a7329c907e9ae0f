package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/BhautikVekariya21/backend/internal/logger"
	"github.com/BhautikVekariya21/backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Owned is implemented by documents that belong to exactly one user.
type Owned interface {
	OwnerID() primitive.ObjectID
}

// ownedMutation describes one owner-gated change.
type ownedMutation[T Owned, R any] struct {
	// lookup loads the current document.
	lookup func(ctx context.Context) (T, error)
	// missing is returned when lookup finds nothing.
	missing error
	// action completes "Only the owner can ..." in the forbidden message.
	action string
	// mutate applies the change to a document the caller owns.
	mutate func(ctx context.Context, current T) (R, error)
}

// mutateOwned runs Lookup, AuthorizeOwnership, Mutate and Respond for caller.
// A document that disappears between lookup and mutate is reported as a
// failed mutation rather than NotFound.
func mutateOwned[T Owned, R any](ctx context.Context, caller primitive.ObjectID, m ownedMutation[T, R]) (R, error) {
	var zero R

	current, err := m.lookup(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return zero, m.missing
		}
		return zero, unexpected(err)
	}

	if current.OwnerID() != caller {
		logger.FromContext(ctx).WithField("action", m.action).Info("rejected mutation by non-owner")
		return zero, notOwner(m.action)
	}

	result, err := m.mutate(ctx, current)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return zero, ErrMutationFailed
		case errors.Is(err, repository.ErrCascadeIncomplete):
			logger.FromContext(ctx).WithError(err).Error("cascade delete incomplete")
			return zero, fmt.Errorf("%w: %w", ErrCascadeIncomplete, err)
		}
		return zero, unexpected(err)
	}
	return result, nil
}
