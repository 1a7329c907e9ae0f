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

type mongoCommentRepository struct {
	client     *mongo.Client
	collection *mongo.Collection
	likes      *mongo.Collection
}

func NewMongoCommentRepository(db *mongo.Database) repository.CommentRepository {
	return &mongoCommentRepository{
		client:     db.Client(),
		collection: db.Collection(commentCollectionName),
		likes:      db.Collection(likeCollectionName),
	}
}

func (r *mongoCommentRepository) Create(ctx context.Context, comment *domain.Comment) (primitive.ObjectID, error) {
	if comment.Video.IsZero() || comment.Owner.IsZero() {
		return primitive.NilObjectID, errors.New("comment video and owner are required")
	}

	comment.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	comment.CreatedAt = now
	comment.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, comment); err != nil {
		return primitive.NilObjectID, err
	}
	return comment.ID, nil
}

func (r *mongoCommentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Comment, error) {
	var comment domain.Comment
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&comment); err != nil {
		return nil, notFound(err)
	}
	return &comment, nil
}

func (r *mongoCommentRepository) UpdateContent(ctx context.Context, id primitive.ObjectID, content string) (*domain.Comment, error) {
	update := bson.M{"$set": bson.M{"content": content, "updatedAt": time.Now().UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var comment domain.Comment
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&comment); err != nil {
		return nil, notFound(err)
	}
	return &comment, nil
}

// Delete removes the likes on the comment, then the comment.
func (r *mongoCommentRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return runCascade(ctx, r.client, []cascadeStep{
		deleteMany("comment likes", r.likes, bson.M{"comment": id}),
		deleteOne("comment", r.collection, bson.M{"_id": id}),
	})
}

// ListByVideo pages through a video's comments, newest first.
func (r *mongoCommentRepository) ListByVideo(ctx context.Context, videoID, viewer primitive.ObjectID, page domain.PageRequest) (domain.Page[domain.CommentView], error) {
	cursor, err := r.collection.Aggregate(ctx, videoCommentsPipeline(videoID, viewer, page))
	if err != nil {
		return domain.Page[domain.CommentView]{}, err
	}
	return decodePage[domain.CommentView](ctx, cursor, page)
}

func videoCommentsPipeline(videoID, viewer primitive.ObjectID, page domain.PageRequest) mongo.Pipeline {
	return pipeline.New().
		Match(bson.D{{Key: "video", Value: videoID}}).
		LookupPipeline(userCollectionName, "owner", "_id", "owner", ownerSummaryStages()).
		Lookup(likeCollectionName, "_id", "comment", "likes").
		Count("likes", "likesCount").
		Contains("likes.likedBy", viewer, "isLiked").
		First("owner").
		Sort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		Project(bson.D{
			{Key: "content", Value: 1},
			{Key: "createdAt", Value: 1},
			{Key: "likesCount", Value: 1},
			{Key: "owner", Value: 1},
			{Key: "isLiked", Value: 1},
		}).
		Paginate(page).
		Stages()
}

// EnsureCommentIndexes creates necessary indexes for the comments collection.
func EnsureCommentIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "video", Value: 1}, {Key: "createdAt", Value: -1}},
		Options: options.Index(),
	})
	return err
}
