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

// sortableVideoFields are the fields the feed may be ordered by.
var sortableVideoFields = map[string]bool{
	"createdAt": true,
	"updatedAt": true,
	"views":     true,
	"duration":  true,
	"title":     true,
}

type mongoVideoRepository struct {
	client      *mongo.Client
	collection  *mongo.Collection
	comments    *mongo.Collection
	likes       *mongo.Collection
	searchIndex string
}

// NewMongoVideoRepository creates the video repository. searchIndex names the
// Atlas Search index used for feed queries.
func NewMongoVideoRepository(db *mongo.Database, searchIndex string) repository.VideoRepository {
	return &mongoVideoRepository{
		client:      db.Client(),
		collection:  db.Collection(videoCollectionName),
		comments:    db.Collection(commentCollectionName),
		likes:       db.Collection(likeCollectionName),
		searchIndex: searchIndex,
	}
}

func (r *mongoVideoRepository) Create(ctx context.Context, video *domain.Video) (primitive.ObjectID, error) {
	if video.Owner.IsZero() || video.VideoFile.URL == "" || video.Thumbnail.URL == "" {
		return primitive.NilObjectID, errors.New("video owner, file and thumbnail are required")
	}

	video.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	video.CreatedAt = now
	video.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, video); err != nil {
		return primitive.NilObjectID, err
	}
	return video.ID, nil
}

func (r *mongoVideoRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Video, error) {
	var video domain.Video
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&video); err != nil {
		return nil, notFound(err)
	}
	return &video, nil
}

// Update rewrites the editable fields of a video owned by owner.
func (r *mongoVideoRepository) Update(ctx context.Context, id, owner primitive.ObjectID, upd repository.VideoUpdate) (*domain.Video, error) {
	set := bson.M{
		"title":       upd.Title,
		"description": upd.Description,
		"updatedAt":   time.Now().UTC(),
	}
	if upd.Thumbnail != nil {
		set["thumbnail"] = *upd.Thumbnail
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var video domain.Video
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id, "owner": owner}, bson.M{"$set": set}, opts).Decode(&video)
	if err != nil {
		return nil, notFound(err)
	}
	return &video, nil
}

// TogglePublish negates isPublished server side so concurrent flips never lose an update.
func (r *mongoVideoRepository) TogglePublish(ctx context.Context, id, owner primitive.ObjectID) (*domain.Video, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var video domain.Video
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id, "owner": owner}, togglePublishUpdate(), opts).Decode(&video)
	if err != nil {
		return nil, notFound(err)
	}
	return &video, nil
}

func togglePublishUpdate() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "isPublished", Value: bson.D{{Key: "$not", Value: bson.A{"$isPublished"}}}},
			{Key: "updatedAt", Value: "$$NOW"},
		}}},
	}
}

func (r *mongoVideoRepository) IncrementViews(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"views": 1}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteCascade removes the likes on the video's comments, the likes on the
// video, its comments and finally the video itself.
func (r *mongoVideoRepository) DeleteCascade(ctx context.Context, id primitive.ObjectID) error {
	steps := []cascadeStep{
		{name: "comment likes", run: func(ctx context.Context) error {
			commentIDs, err := r.comments.Distinct(ctx, "_id", bson.M{"video": id})
			if err != nil {
				return err
			}
			if len(commentIDs) == 0 {
				return nil
			}
			_, err = r.likes.DeleteMany(ctx, bson.M{"comment": bson.M{"$in": commentIDs}})
			return err
		}},
		deleteMany("video likes", r.likes, bson.M{"video": id}),
		deleteMany("comments", r.comments, bson.M{"video": id}),
		deleteOne("video", r.collection, bson.M{"_id": id}),
	}
	return runCascade(ctx, r.client, steps)
}

// Feed returns one page of published videos.
func (r *mongoVideoRepository) Feed(ctx context.Context, q repository.VideoFeedQuery) (domain.Page[domain.VideoCard], error) {
	cursor, err := r.collection.Aggregate(ctx, videoFeedPipeline(r.searchIndex, q))
	if err != nil {
		return domain.Page[domain.VideoCard]{}, err
	}
	return decodePage[domain.VideoCard](ctx, cursor, q.Page)
}

// Detail returns the video page visible to viewer: published videos, or any of viewer's own.
func (r *mongoVideoRepository) Detail(ctx context.Context, id, viewer primitive.ObjectID) (*domain.VideoDetail, error) {
	cursor, err := r.collection.Aggregate(ctx, videoDetailPipeline(id, viewer))
	if err != nil {
		return nil, err
	}
	details, err := decodeAll[domain.VideoDetail](ctx, cursor)
	if err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return nil, repository.ErrNotFound
	}
	return &details[0], nil
}

func videoFeedPipeline(searchIndex string, q repository.VideoFeedQuery) mongo.Pipeline {
	match := bson.D{}
	if q.OwnerID != nil {
		match = append(match, bson.E{Key: "owner", Value: *q.OwnerID})
	}
	match = append(match, bson.E{Key: "isPublished", Value: true})

	return pipeline.New().
		Search(searchIndex, q.Search, "title", "description").
		Match(match).
		Sort(feedSort(q.SortBy, q.SortDesc)).
		LookupPipeline(userCollectionName, "owner", "_id", "ownerDetails", ownerSummaryStages()).
		First("ownerDetails").
		Paginate(q.Page).
		Stages()
}

// feedSort falls back to newest first for unknown fields. _id breaks ties so
// pages stay stable.
func feedSort(sortBy string, desc bool) bson.D {
	if !sortableVideoFields[sortBy] {
		return bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}
	}
	dir := 1
	if desc {
		dir = -1
	}
	return bson.D{{Key: sortBy, Value: dir}, {Key: "_id", Value: dir}}
}

func videoDetailPipeline(id, viewer primitive.ObjectID) mongo.Pipeline {
	owner := pipeline.New().
		Lookup(subscriptionCollectionName, "_id", "channel", "subscribers").
		Count("subscribers", "subscribersCount").
		Contains("subscribers.subscriber", viewer, "isSubscribed").
		Project(bson.D{
			{Key: "username", Value: 1},
			{Key: "avatar.url", Value: 1},
			{Key: "subscribersCount", Value: 1},
			{Key: "isSubscribed", Value: 1},
		})

	return pipeline.New().
		Match(bson.D{
			{Key: "_id", Value: id},
			{Key: "$or", Value: bson.A{
				bson.D{{Key: "isPublished", Value: true}},
				bson.D{{Key: "owner", Value: viewer}},
			}},
		}).
		Lookup(likeCollectionName, "_id", "video", "likes").
		LookupPipeline(userCollectionName, "owner", "_id", "owner", owner).
		Count("likes", "likesCount").
		Contains("likes.likedBy", viewer, "isLiked").
		First("owner").
		Project(bson.D{
			{Key: "videoFile.url", Value: 1},
			{Key: "thumbnail.url", Value: 1},
			{Key: "title", Value: 1},
			{Key: "description", Value: 1},
			{Key: "views", Value: 1},
			{Key: "createdAt", Value: 1},
			{Key: "duration", Value: 1},
			{Key: "isPublished", Value: 1},
			{Key: "owner", Value: 1},
			{Key: "likesCount", Value: 1},
			{Key: "isLiked", Value: 1},
		}).
		Stages()
}

// decodePage reads the single $facet document produced by pipeline.Paginate.
func decodePage[T any](ctx context.Context, cursor *mongo.Cursor, req domain.PageRequest) (domain.Page[T], error) {
	rows, err := decodeAll[pipeline.Faceted[T]](ctx, cursor)
	if err != nil {
		return domain.Page[T]{}, err
	}
	if len(rows) == 0 {
		return domain.NewPage[T](nil, 0, req), nil
	}
	return rows[0].Page(req), nil
}

// EnsureVideoIndexes creates necessary indexes for the videos collection.
func EnsureVideoIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "owner", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "isPublished", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
