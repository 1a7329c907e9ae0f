package mongo

import (
	"context"
	"time"

	"github.com/BhautikVekariya21/backend/internal/domain"
	"github.com/BhautikVekariya21/backend/internal/repository"
	"github.com/BhautikVekariya21/backend/internal/repository/mongo/pipeline"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoSubscriptionRepository struct {
	collection *mongo.Collection
}

func NewMongoSubscriptionRepository(db *mongo.Database) repository.SubscriptionRepository {
	return &mongoSubscriptionRepository{collection: db.Collection(subscriptionCollectionName)}
}

// Toggle follows the same delete-then-insert protocol as likes, backed by the
// unique (subscriber, channel) index.
func (r *mongoSubscriptionRepository) Toggle(ctx context.Context, subscriber, channel primitive.ObjectID) (bool, error) {
	filter := bson.M{"subscriber": subscriber, "channel": channel}

	res, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return false, err
	}
	if res.DeletedCount > 0 {
		return false, nil
	}

	now := time.Now().UTC()
	sub := &domain.Subscription{
		ID:         primitive.NewObjectID(),
		Subscriber: subscriber,
		Channel:    channel,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := r.collection.InsertOne(ctx, sub); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return true, nil
		}
		return false, err
	}
	return true, nil
}

// Subscribers lists who follows channel, each with their own follower count
// and whether channel follows them back.
func (r *mongoSubscriptionRepository) Subscribers(ctx context.Context, channel primitive.ObjectID) ([]domain.SubscriberView, error) {
	cursor, err := r.collection.Aggregate(ctx, subscribersPipeline(channel))
	if err != nil {
		return nil, err
	}
	return decodeAll[domain.SubscriberView](ctx, cursor)
}

// SubscribedChannels lists the channels subscriber follows with each one's latest upload.
func (r *mongoSubscriptionRepository) SubscribedChannels(ctx context.Context, subscriber primitive.ObjectID) ([]domain.SubscribedChannelView, error) {
	cursor, err := r.collection.Aggregate(ctx, subscribedChannelsPipeline(subscriber))
	if err != nil {
		return nil, err
	}
	return decodeAll[domain.SubscribedChannelView](ctx, cursor)
}

func subscribersPipeline(channel primitive.ObjectID) mongo.Pipeline {
	subscriber := pipeline.New().
		Lookup(subscriptionCollectionName, "_id", "channel", "followers").
		Count("followers", "subscribersCount").
		Contains("followers.subscriber", channel, "subscribedToSubscriber")

	return pipeline.New().
		Match(bson.D{{Key: "channel", Value: channel}}).
		LookupPipeline(userCollectionName, "subscriber", "_id", "subscriber", subscriber).
		Unwind("subscriber").
		Project(bson.D{
			{Key: "_id", Value: 0},
			{Key: "subscriber._id", Value: 1},
			{Key: "subscriber.username", Value: 1},
			{Key: "subscriber.fullName", Value: 1},
			{Key: "subscriber.avatar.url", Value: 1},
			{Key: "subscriber.subscribedToSubscriber", Value: 1},
			{Key: "subscriber.subscribersCount", Value: 1},
		}).
		Stages()
}

func subscribedChannelsPipeline(subscriber primitive.ObjectID) mongo.Pipeline {
	latest := pipeline.New().
		Match(bson.D{{Key: "isPublished", Value: true}}).
		Sort(bson.D{{Key: "createdAt", Value: -1}}).
		Limit(1).
		Project(playlistVideoProjection())

	channel := pipeline.New().
		LookupPipeline(videoCollectionName, "_id", "owner", "latestVideo", latest).
		First("latestVideo")

	return pipeline.New().
		Match(bson.D{{Key: "subscriber", Value: subscriber}}).
		LookupPipeline(userCollectionName, "channel", "_id", "subscribedChannel", channel).
		Unwind("subscribedChannel").
		Project(bson.D{
			{Key: "_id", Value: 0},
			{Key: "subscribedChannel._id", Value: 1},
			{Key: "subscribedChannel.username", Value: 1},
			{Key: "subscribedChannel.fullName", Value: 1},
			{Key: "subscribedChannel.avatar.url", Value: 1},
			{Key: "subscribedChannel.latestVideo", Value: 1},
		}).
		Stages()
}

// EnsureSubscriptionIndexes creates necessary indexes for the subscriptions collection.
func EnsureSubscriptionIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "subscriber", Value: 1}, {Key: "channel", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "channel", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
