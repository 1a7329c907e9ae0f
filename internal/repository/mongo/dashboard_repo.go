package mongo

import (
	"context"

	"github.com/BhautikVekariya21/backend/internal/domain"
	"github.com/BhautikVekariya21/backend/internal/repository"
	"github.com/BhautikVekariya21/backend/internal/repository/mongo/pipeline"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type mongoDashboardRepository struct {
	videos        *mongo.Collection
	subscriptions *mongo.Collection
}

func NewMongoDashboardRepository(db *mongo.Database) repository.DashboardRepository {
	return &mongoDashboardRepository{
		videos:        db.Collection(videoCollectionName),
		subscriptions: db.Collection(subscriptionCollectionName),
	}
}

// ChannelStats totals subscribers, likes, views and videos of owner.
// A channel without videos reports zeros.
func (r *mongoDashboardRepository) ChannelStats(ctx context.Context, owner primitive.ObjectID) (*domain.ChannelStats, error) {
	subscribers, err := r.subscriptions.CountDocuments(ctx, bson.M{"channel": owner})
	if err != nil {
		return nil, err
	}

	cursor, err := r.videos.Aggregate(ctx, channelStatsPipeline(owner))
	if err != nil {
		return nil, err
	}
	totals, err := decodeAll[domain.ChannelStats](ctx, cursor)
	if err != nil {
		return nil, err
	}

	stats := &domain.ChannelStats{}
	if len(totals) > 0 {
		*stats = totals[0]
	}
	stats.TotalSubscribers = subscribers
	return stats, nil
}

// ChannelVideos lists every video of owner, published or not, newest first.
func (r *mongoDashboardRepository) ChannelVideos(ctx context.Context, owner primitive.ObjectID) ([]domain.ChannelVideo, error) {
	cursor, err := r.videos.Aggregate(ctx, channelVideosPipeline(owner))
	if err != nil {
		return nil, err
	}
	return decodeAll[domain.ChannelVideo](ctx, cursor)
}

func channelStatsPipeline(owner primitive.ObjectID) mongo.Pipeline {
	return pipeline.New().
		Match(bson.D{{Key: "owner", Value: owner}}).
		Lookup(likeCollectionName, "_id", "video", "likes").
		Count("likes", "likesCount").
		Group(bson.D{
			{Key: "_id", Value: nil},
			{Key: "totalLikes", Value: pipeline.Sum("likesCount")},
			{Key: "totalViews", Value: pipeline.Sum("views")},
			{Key: "totalVideos", Value: bson.D{{Key: "$sum", Value: 1}}},
		}).
		Project(bson.D{{Key: "_id", Value: 0}}).
		Stages()
}

func channelVideosPipeline(owner primitive.ObjectID) mongo.Pipeline {
	return pipeline.New().
		Match(bson.D{{Key: "owner", Value: owner}}).
		Sort(bson.D{{Key: "createdAt", Value: -1}}).
		Lookup(likeCollectionName, "_id", "video", "likes").
		Count("likes", "likesCount").
		AddFields(bson.D{{Key: "createdAt", Value: bson.D{
			{Key: "$dateToParts", Value: bson.D{{Key: "date", Value: "$createdAt"}}},
		}}}).
		Project(bson.D{
			{Key: "videoFile.url", Value: 1},
			{Key: "thumbnail.url", Value: 1},
			{Key: "title", Value: 1},
			{Key: "description", Value: 1},
			{Key: "createdAt", Value: bson.D{
				{Key: "year", Value: 1},
				{Key: "month", Value: 1},
				{Key: "day", Value: 1},
			}},
			{Key: "isPublished", Value: 1},
			{Key: "likesCount", Value: 1},
		}).
		Stages()
}
