package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/BhautikVekariya21/backend/internal/domain"
	"github.com/BhautikVekariya21/backend/internal/repository"
	"github.com/BhautikVekariya21/backend/internal/repository/mongo/pipeline"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoTweetRepository struct {
	client     *mongo.Client
	collection *mongo.Collection
	likes      *mongo.Collection
}

func NewMongoTweetRepository(db *mongo.Database) repository.TweetRepository {
	return &mongoTweetRepository{
		client:     db.Client(),
		collection: db.Collection(tweetCollectionName),
		likes:      db.Collection(likeCollectionName),
	}
}

func (r *mongoTweetRepository) Create(ctx context.Context, tweet *domain.Tweet) (primitive.ObjectID, error) {
	if tweet.Owner.IsZero() {
		return primitive.NilObjectID, errors.New("tweet owner is required")
	}

	tweet.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	tweet.CreatedAt = now
	tweet.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, tweet); err != nil {
		return primitive.NilObjectID, err
	}
	return tweet.ID, nil
}

func (r *mongoTweetRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Tweet, error) {
	var tweet domain.Tweet
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&tweet); err != nil {
		return nil, notFound(err)
	}
	return &tweet, nil
}

func (r *mongoTweetRepository) UpdateContent(ctx context.Context, id primitive.ObjectID, content string) (*domain.Tweet, error) {
	update := bson.M{"$set": bson.M{"content": content, "updatedAt": time.Now().UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var tweet domain.Tweet
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&tweet); err != nil {
		return nil, notFound(err)
	}
	return &tweet, nil
}

// Delete removes the likes on the tweet, then the tweet.
func (r *mongoTweetRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return runCascade(ctx, r.client, []cascadeStep{
		deleteMany("tweet likes", r.likes, bson.M{"tweet": id}),
		deleteOne("tweet", r.collection, bson.M{"_id": id}),
	})
}

func (r *mongoTweetRepository) ListByOwner(ctx context.Context, owner, viewer primitive.ObjectID) ([]domain.TweetView, error) {
	cursor, err := r.collection.Aggregate(ctx, userTweetsPipeline(owner, viewer))
	if err != nil {
		return nil, err
	}
	return decodeAll[domain.TweetView](ctx, cursor)
}

func userTweetsPipeline(owner, viewer primitive.ObjectID) mongo.Pipeline {
	ownerDetails := pipeline.New().Project(bson.D{
		{Key: "username", Value: 1},
		{Key: "avatar.url", Value: 1},
	})
	likeDetails := pipeline.New().Project(bson.D{{Key: "likedBy", Value: 1}})

	return pipeline.New().
		Match(bson.D{{Key: "owner", Value: owner}}).
		LookupPipeline(userCollectionName, "owner", "_id", "ownerDetails", ownerDetails).
		LookupPipeline(likeCollectionName, "_id", "tweet", "likeDetails", likeDetails).
		Count("likeDetails", "likesCount").
		First("ownerDetails").
		Contains("likeDetails.likedBy", viewer, "isLiked").
		Sort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		Project(bson.D{
			{Key: "content", Value: 1},
			{Key: "ownerDetails", Value: 1},
			{Key: "likesCount", Value: 1},
			{Key: "createdAt", Value: 1},
			{Key: "isLiked", Value: 1},
		}).
		Stages()
}

// EnsureTweetIndexes creates necessary indexes for the tweets collection.
func EnsureTweetIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "owner", Value: 1}, {Key: "createdAt", Value: -1}},
		Options: options.Index(),
	})
	return err
}
