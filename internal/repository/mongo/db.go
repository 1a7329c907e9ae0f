package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/BhautikVekariya21/backend/internal/repository"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Default connection timeout
const defaultTimeout = 10 * time.Second

// Collection names.
const (
	userCollectionName         = "users"
	videoCollectionName        = "videos"
	commentCollectionName      = "comments"
	likeCollectionName         = "likes"
	playlistCollectionName     = "playlists"
	subscriptionCollectionName = "subscriptions"
	tweetCollectionName        = "tweets"
)

// ConnectDB establishes a connection to MongoDB using the provided URI and
// verifies it with a ping against the primary.
func ConnectDB(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	// The initial connect can succeed against an unresponsive server.
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()

	if err = client.Ping(pingCtx, readpref.Primary()); err != nil {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
		return nil, err
	}

	return client, nil
}

// DisconnectDB gracefully disconnects the MongoDB client.
func DisconnectDB(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes of every collection. Failures are
// collected so one bad collection does not stop the others.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	return errors.Join(
		EnsureUserIndexes(ctx, db.Collection(userCollectionName)),
		EnsureVideoIndexes(ctx, db.Collection(videoCollectionName)),
		EnsureCommentIndexes(ctx, db.Collection(commentCollectionName)),
		EnsureLikeIndexes(ctx, db.Collection(likeCollectionName)),
		EnsurePlaylistIndexes(ctx, db.Collection(playlistCollectionName)),
		EnsureSubscriptionIndexes(ctx, db.Collection(subscriptionCollectionName)),
		EnsureTweetIndexes(ctx, db.Collection(tweetCollectionName)),
	)
}

type healthChecker struct {
	client *mongo.Client
}

// NewHealthChecker pings the primary of client.
func NewHealthChecker(client *mongo.Client) repository.HealthChecker {
	return &healthChecker{client: client}
}

func (h *healthChecker) Ping(ctx context.Context) error {
	return h.client.Ping(ctx, readpref.Primary())
}

// notFound maps the driver's empty-result error onto the repository sentinel.
func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return repository.ErrNotFound
	}
	return err
}

// decodeAll drains an aggregation cursor into a non-nil slice.
func decodeAll[T any](ctx context.Context, cursor *mongo.Cursor) ([]T, error) {
	defer cursor.Close(ctx)
	out := []T{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
