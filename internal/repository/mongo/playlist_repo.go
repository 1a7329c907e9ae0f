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

type mongoPlaylistRepository struct {
	collection *mongo.Collection
}

func NewMongoPlaylistRepository(db *mongo.Database) repository.PlaylistRepository {
	return &mongoPlaylistRepository{collection: db.Collection(playlistCollectionName)}
}

func (r *mongoPlaylistRepository) Create(ctx context.Context, playlist *domain.Playlist) (primitive.ObjectID, error) {
	if playlist.Owner.IsZero() || playlist.Name == "" {
		return primitive.NilObjectID, errors.New("playlist owner and name are required")
	}

	playlist.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	playlist.CreatedAt = now
	playlist.UpdatedAt = now
	if playlist.Videos == nil {
		playlist.Videos = []primitive.ObjectID{}
	}

	if _, err := r.collection.InsertOne(ctx, playlist); err != nil {
		return primitive.NilObjectID, err
	}
	return playlist.ID, nil
}

func (r *mongoPlaylistRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Playlist, error) {
	var playlist domain.Playlist
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&playlist); err != nil {
		return nil, notFound(err)
	}
	return &playlist, nil
}

func (r *mongoPlaylistRepository) Update(ctx context.Context, id primitive.ObjectID, name, description string) (*domain.Playlist, error) {
	return r.findAndUpdate(ctx, id, bson.M{"$set": bson.M{
		"name":        name,
		"description": description,
		"updatedAt":   time.Now().UTC(),
	}})
}

func (r *mongoPlaylistRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// AddVideo inserts videoID once; adding a video already present is a no-op.
func (r *mongoPlaylistRepository) AddVideo(ctx context.Context, id, videoID primitive.ObjectID) (*domain.Playlist, error) {
	return r.findAndUpdate(ctx, id, bson.M{
		"$addToSet": bson.M{"videos": videoID},
		"$set":      bson.M{"updatedAt": time.Now().UTC()},
	})
}

func (r *mongoPlaylistRepository) RemoveVideo(ctx context.Context, id, videoID primitive.ObjectID) (*domain.Playlist, error) {
	return r.findAndUpdate(ctx, id, bson.M{
		"$pull": bson.M{"videos": videoID},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
}

func (r *mongoPlaylistRepository) findAndUpdate(ctx context.Context, id primitive.ObjectID, update bson.M) (*domain.Playlist, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var playlist domain.Playlist
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&playlist); err != nil {
		return nil, notFound(err)
	}
	return &playlist, nil
}

// Detail returns the playlist with its published videos and totals.
func (r *mongoPlaylistRepository) Detail(ctx context.Context, id primitive.ObjectID) (*domain.PlaylistDetail, error) {
	cursor, err := r.collection.Aggregate(ctx, playlistDetailPipeline(id))
	if err != nil {
		return nil, err
	}
	details, err := decodeAll[domain.PlaylistDetail](ctx, cursor)
	if err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return nil, repository.ErrNotFound
	}
	return &details[0], nil
}

func (r *mongoPlaylistRepository) ListByOwner(ctx context.Context, owner primitive.ObjectID) ([]domain.PlaylistSummary, error) {
	cursor, err := r.collection.Aggregate(ctx, userPlaylistsPipeline(owner))
	if err != nil {
		return nil, err
	}
	return decodeAll[domain.PlaylistSummary](ctx, cursor)
}

func playlistVideoProjection() bson.D {
	return bson.D{
		{Key: "videoFile.url", Value: 1},
		{Key: "thumbnail.url", Value: 1},
		{Key: "title", Value: 1},
		{Key: "description", Value: 1},
		{Key: "duration", Value: 1},
		{Key: "createdAt", Value: 1},
		{Key: "views", Value: 1},
	}
}

func playlistDetailPipeline(id primitive.ObjectID) mongo.Pipeline {
	published := pipeline.New().
		Match(bson.D{{Key: "isPublished", Value: true}}).
		Project(playlistVideoProjection())

	return pipeline.New().
		Match(bson.D{{Key: "_id", Value: id}}).
		LookupPipeline(videoCollectionName, "videos", "_id", "videos", published).
		LookupPipeline(userCollectionName, "owner", "_id", "owner", ownerSummaryStages()).
		Count("videos", "totalVideos").
		AddFields(bson.D{{Key: "totalViews", Value: pipeline.Sum("videos.views")}}).
		First("owner").
		Project(bson.D{
			{Key: "name", Value: 1},
			{Key: "description", Value: 1},
			{Key: "createdAt", Value: 1},
			{Key: "updatedAt", Value: 1},
			{Key: "totalVideos", Value: 1},
			{Key: "totalViews", Value: 1},
			{Key: "videos", Value: 1},
			{Key: "owner", Value: 1},
		}).
		Stages()
}

func userPlaylistsPipeline(owner primitive.ObjectID) mongo.Pipeline {
	return pipeline.New().
		Match(bson.D{{Key: "owner", Value: owner}}).
		Lookup(videoCollectionName, "videos", "_id", "videos").
		Count("videos", "totalVideos").
		AddFields(bson.D{{Key: "totalViews", Value: pipeline.Sum("videos.views")}}).
		Sort(bson.D{{Key: "updatedAt", Value: -1}}).
		Project(bson.D{
			{Key: "name", Value: 1},
			{Key: "description", Value: 1},
			{Key: "totalVideos", Value: 1},
			{Key: "totalViews", Value: 1},
			{Key: "updatedAt", Value: 1},
		}).
		Stages()
}

// EnsurePlaylistIndexes creates necessary indexes for the playlists collection.
func EnsurePlaylistIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "owner", Value: 1}},
		Options: options.Index(),
	})
	return err
}
