package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/BhautikVekariya21/backend/internal/domain"
	"github.com/BhautikVekariya21/backend/internal/repository"
	"github.com/BhautikVekariya21/backend/internal/repository/mongo/pipeline"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoLikeRepository struct {
	collection *mongo.Collection
}

func NewMongoLikeRepository(db *mongo.Database) repository.LikeRepository {
	return &mongoLikeRepository{collection: db.Collection(likeCollectionName)}
}

// Toggle deletes the marker and, when there was none, inserts it. The unique
// partial indexes turn a concurrent second insert into a duplicate key error,
// which means the marker is on.
func (r *mongoLikeRepository) Toggle(ctx context.Context, target domain.LikeTarget, targetID, likedBy primitive.ObjectID) (bool, error) {
	if !target.Valid() {
		return false, fmt.Errorf("unknown like target %q", target)
	}
	filter := bson.M{string(target): targetID, "likedBy": likedBy}

	res, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return false, err
	}
	if res.DeletedCount > 0 {
		return false, nil
	}

	like := domain.NewLike(target, targetID, likedBy)
	like.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	like.CreatedAt = now
	like.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, like); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return true, nil
		}
		return false, err
	}
	return true, nil
}

// LikedVideos lists the videos likedBy has liked, most recent like first.
func (r *mongoLikeRepository) LikedVideos(ctx context.Context, likedBy primitive.ObjectID) ([]domain.LikedVideo, error) {
	cursor, err := r.collection.Aggregate(ctx, likedVideosPipeline(likedBy))
	if err != nil {
		return nil, err
	}
	return decodeAll[domain.LikedVideo](ctx, cursor)
}

func likedVideosPipeline(likedBy primitive.ObjectID) mongo.Pipeline {
	video := pipeline.New().
		LookupPipeline(userCollectionName, "owner", "_id", "ownerDetails", ownerSummaryStages()).
		First("ownerDetails")

	return pipeline.New().
		Match(bson.D{
			{Key: "likedBy", Value: likedBy},
			{Key: "video", Value: bson.D{{Key: "$exists", Value: true}}},
		}).
		LookupPipeline(videoCollectionName, "video", "_id", "likedVideo", video).
		Unwind("likedVideo").
		Sort(bson.D{{Key: "createdAt", Value: -1}}).
		Project(bson.D{
			{Key: "_id", Value: 0},
			{Key: "likedVideo._id", Value: 1},
			{Key: "likedVideo.videoFile.url", Value: 1},
			{Key: "likedVideo.thumbnail.url", Value: 1},
			{Key: "likedVideo.owner", Value: 1},
			{Key: "likedVideo.title", Value: 1},
			{Key: "likedVideo.description", Value: 1},
			{Key: "likedVideo.views", Value: 1},
			{Key: "likedVideo.duration", Value: 1},
			{Key: "likedVideo.createdAt", Value: 1},
			{Key: "likedVideo.isPublished", Value: 1},
			{Key: "likedVideo.ownerDetails", Value: 1},
		}).
		Stages()
}

// EnsureLikeIndexes creates one unique partial index per like target so a
// user holds at most one marker per document.
func EnsureLikeIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "likedBy", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
	}
	for _, target := range []domain.LikeTarget{domain.LikeTargetVideo, domain.LikeTargetComment, domain.LikeTargetTweet} {
		field := string(target)
		indexes = append(indexes, mongo.IndexModel{
			Keys: bson.D{{Key: field, Value: 1}, {Key: "likedBy", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName("unique_" + field + "_like").
				SetPartialFilterExpression(bson.M{field: bson.M{"$exists": true}}),
		})
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
