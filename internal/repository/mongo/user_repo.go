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

// mongoUserRepository implements the repository.UserRepository interface using MongoDB.
type mongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new instance of mongoUserRepository.
// It expects a connected *mongo.Database instance.
func NewMongoUserRepository(db *mongo.Database) repository.UserRepository {
	return &mongoUserRepository{
		collection: db.Collection(userCollectionName),
	}
}

// Create inserts a new user into the database.
func (r *mongoUserRepository) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	if user.Email == "" || user.Username == "" || user.PasswordHash == "" {
		return primitive.NilObjectID, errors.New("user email, username and password hash are required")
	}

	user.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.WatchHistory == nil {
		user.WatchHistory = []primitive.ObjectID{}
	}

	if _, err := r.collection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}
	return user.ID, nil
}

// GetByID retrieves a user by their MongoDB ObjectID.
func (r *mongoUserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// GetByEmail retrieves a user by their email address.
func (r *mongoUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

// GetByUsernameOrEmail retrieves the first user whose username or email matches.
func (r *mongoUserRepository) GetByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error) {
	var or bson.A
	if username != "" {
		or = append(or, bson.M{"username": username})
	}
	if email != "" {
		or = append(or, bson.M{"email": email})
	}
	if len(or) == 0 {
		return nil, repository.ErrNotFound
	}
	return r.findOne(ctx, bson.M{"$or": or})
}

func (r *mongoUserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var user domain.User
	if err := r.collection.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// SetRefreshToken stores the active refresh token or clears it.
func (r *mongoUserRepository) SetRefreshToken(ctx context.Context, id primitive.ObjectID, token string) error {
	update := bson.M{"$set": bson.M{"updatedAt": time.Now().UTC()}}
	if token == "" {
		update["$unset"] = bson.M{"refreshToken": 1}
	} else {
		update["$set"].(bson.M)["refreshToken"] = token
	}
	return r.updateOne(ctx, id, update)
}

// UpdatePassword replaces the stored hash.
func (r *mongoUserRepository) UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error {
	return r.updateOne(ctx, id, bson.M{"$set": bson.M{
		"password":  passwordHash,
		"updatedAt": time.Now().UTC(),
	}})
}

// AddToWatchHistory records a watched video once.
func (r *mongoUserRepository) AddToWatchHistory(ctx context.Context, id, videoID primitive.ObjectID) error {
	return r.updateOne(ctx, id, bson.M{
		"$addToSet": bson.M{"watchHistory": videoID},
		"$set":      bson.M{"updatedAt": time.Now().UTC()},
	})
}

func (r *mongoUserRepository) updateOne(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// UpdateAccount sets fullName and email and returns the updated user.
func (r *mongoUserRepository) UpdateAccount(ctx context.Context, id primitive.ObjectID, fullName, email string) (*domain.User, error) {
	return r.findAndSet(ctx, id, bson.M{"fullName": fullName, "email": email})
}

// UpdateAvatar replaces the avatar reference and returns the updated user.
func (r *mongoUserRepository) UpdateAvatar(ctx context.Context, id primitive.ObjectID, avatar domain.Media) (*domain.User, error) {
	return r.findAndSet(ctx, id, bson.M{"avatar": avatar})
}

// UpdateCoverImage replaces the cover image reference and returns the updated user.
func (r *mongoUserRepository) UpdateCoverImage(ctx context.Context, id primitive.ObjectID, cover domain.Media) (*domain.User, error) {
	return r.findAndSet(ctx, id, bson.M{"coverImage": cover})
}

func (r *mongoUserRepository) findAndSet(ctx context.Context, id primitive.ObjectID, set bson.M) (*domain.User, error) {
	set["updatedAt"] = time.Now().UTC()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var user domain.User
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, repository.ErrDuplicate
		}
		return nil, notFound(err)
	}
	return &user, nil
}

// ChannelProfile builds the public channel page of username as seen by viewer.
func (r *mongoUserRepository) ChannelProfile(ctx context.Context, username string, viewer primitive.ObjectID) (*domain.ChannelProfile, error) {
	cursor, err := r.collection.Aggregate(ctx, channelProfilePipeline(username, viewer))
	if err != nil {
		return nil, err
	}
	profiles, err := decodeAll[domain.ChannelProfile](ctx, cursor)
	if err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, repository.ErrNotFound
	}
	return &profiles[0], nil
}

// WatchHistory returns the watched videos in the order they were first watched.
func (r *mongoUserRepository) WatchHistory(ctx context.Context, id primitive.ObjectID) ([]domain.HistoryVideo, error) {
	cursor, err := r.collection.Aggregate(ctx, watchHistoryPipeline(id))
	if err != nil {
		return nil, err
	}
	rows, err := decodeAll[historyRow](ctx, cursor)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, repository.ErrNotFound
	}
	return orderByHistory(rows[0].WatchHistory, rows[0].Videos), nil
}

type historyRow struct {
	WatchHistory []primitive.ObjectID `bson:"watchHistory"`
	Videos       []domain.HistoryVideo `bson:"videos"`
}

// ownerSummaryStages trims a joined user down to what other views embed.
func ownerSummaryStages() *pipeline.Builder {
	return pipeline.New().Project(bson.D{
		{Key: "fullName", Value: 1},
		{Key: "username", Value: 1},
		{Key: "avatar.url", Value: 1},
	})
}

func channelProfilePipeline(username string, viewer primitive.ObjectID) mongo.Pipeline {
	return pipeline.New().
		Match(bson.D{{Key: "username", Value: username}}).
		Lookup(subscriptionCollectionName, "_id", "channel", "subscribers").
		Lookup(subscriptionCollectionName, "_id", "subscriber", "subscribedTo").
		Count("subscribers", "subscribersCount").
		Count("subscribedTo", "channelsSubscribedToCount").
		Contains("subscribers.subscriber", viewer, "isSubscribed").
		Project(bson.D{
			{Key: "fullName", Value: 1},
			{Key: "username", Value: 1},
			{Key: "email", Value: 1},
			{Key: "avatar.url", Value: 1},
			{Key: "coverImage.url", Value: 1},
			{Key: "subscribersCount", Value: 1},
			{Key: "channelsSubscribedToCount", Value: 1},
			{Key: "isSubscribed", Value: 1},
		}).
		Stages()
}

func watchHistoryPipeline(id primitive.ObjectID) mongo.Pipeline {
	videos := pipeline.New().
		LookupPipeline(userCollectionName, "owner", "_id", "owner", ownerSummaryStages()).
		First("owner")

	return pipeline.New().
		Match(bson.D{{Key: "_id", Value: id}}).
		LookupPipeline(videoCollectionName, "watchHistory", "_id", "videos", videos).
		Project(bson.D{
			{Key: "watchHistory", Value: 1},
			{Key: "videos", Value: 1},
		}).
		Stages()
}

// orderByHistory lays videos out in the order of ids. $lookup does not keep
// the order of the local array. Videos deleted since are skipped.
func orderByHistory(ids []primitive.ObjectID, videos []domain.HistoryVideo) []domain.HistoryVideo {
	byID := make(map[primitive.ObjectID]domain.HistoryVideo, len(videos))
	for _, v := range videos {
		byID[v.ID] = v
	}
	out := make([]domain.HistoryVideo, 0, len(videos))
	for _, id := range ids {
		if v, ok := byID[id]; ok {
			out = append(out, v)
		}
	}
	return out
}

// EnsureUserIndexes creates necessary indexes for the users collection.
// Call this once during application startup.
func EnsureUserIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "fullName", Value: 1}},
			Options: options.Index(),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
