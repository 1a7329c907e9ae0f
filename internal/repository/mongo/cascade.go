package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/BhautikVekariya21/backend/internal/logger"
	"github.com/BhautikVekariya21/backend/internal/repository"

	"go.mongodb.org/mongo-driver/mongo"
)

// cascadeStep is one idempotent delete in a multi-collection removal.
type cascadeStep struct {
	name string
	run  func(ctx context.Context) error
}

// runCascade executes steps in a single transaction. Deployments without
// transaction support (standalone servers) fall back to runSaga.
// The last step must delete the parent document.
func runCascade(ctx context.Context, client *mongo.Client, steps []cascadeStep) error {
	session, err := client.StartSession()
	if err != nil {
		return runSaga(ctx, steps)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		for _, step := range steps {
			if err := step.run(sc); err != nil {
				return nil, fmt.Errorf("%s: %w", step.name, err)
			}
		}
		return nil, nil
	})
	if err == nil {
		return nil
	}
	if !transactionsUnsupported(err) {
		return err
	}

	logger.FromContext(ctx).WithError(err).Debug("transactions unavailable, deleting step by step")
	return runSaga(ctx, steps)
}

// runSaga runs the dependent steps one by one and collects their failures.
// The parent step runs only when every dependent step succeeded, so a failed
// cascade leaves the parent in place and can be retried.
func runSaga(ctx context.Context, steps []cascadeStep) error {
	if len(steps) == 0 {
		return nil
	}
	dependents, parent := steps[:len(steps)-1], steps[len(steps)-1]

	var errs []error
	for _, step := range dependents {
		if err := step.run(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", step.name, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", repository.ErrCascadeIncomplete, errors.Join(errs...))
	}

	if err := parent.run(ctx); err != nil {
		return fmt.Errorf("%w: %s: %w", repository.ErrCascadeIncomplete, parent.name, err)
	}
	return nil
}

// transactionsUnsupported recognizes the IllegalOperation error returned by
// servers that are not part of a replica set.
func transactionsUnsupported(err error) bool {
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && cmdErr.Code == 20 {
		return true
	}
	return strings.Contains(err.Error(), "Transaction numbers are only allowed")
}

// deleteMany adapts a DeleteMany call to a cascade step.
func deleteMany(name string, collection *mongo.Collection, filter interface{}) cascadeStep {
	return cascadeStep{name: name, run: func(ctx context.Context) error {
		_, err := collection.DeleteMany(ctx, filter)
		return err
	}}
}

// deleteOne adapts a DeleteOne call to a cascade step. Deleting nothing is fine
// because a previous attempt may already have removed the document.
func deleteOne(name string, collection *mongo.Collection, filter interface{}) cascadeStep {
	return cascadeStep{name: name, run: func(ctx context.Context) error {
		_, err := collection.DeleteOne(ctx, filter)
		return err
	}}
}
