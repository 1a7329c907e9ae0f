package repository

import (
	"context"

	"github.com/BhautikVekariya21/backend/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer.
var (
	ErrNotFound          = RepositoryError("not found")
	ErrDuplicate         = RepositoryError("duplicate key")
	ErrCascadeIncomplete = RepositoryError("cascade delete incomplete")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// HealthChecker reports whether the backing store answers.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	// GetByUsernameOrEmail matches either field; empty arguments are ignored.
	GetByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// SetRefreshToken stores token, or unsets the field when token is empty.
	SetRefreshToken(ctx context.Context, id primitive.ObjectID, token string) error
	UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error
	UpdateAccount(ctx context.Context, id primitive.ObjectID, fullName, email string) (*domain.User, error)
	UpdateAvatar(ctx context.Context, id primitive.ObjectID, avatar domain.Media) (*domain.User, error)
	UpdateCoverImage(ctx context.Context, id primitive.ObjectID, cover domain.Media) (*domain.User, error)
	AddToWatchHistory(ctx context.Context, id, videoID primitive.ObjectID) error

	ChannelProfile(ctx context.Context, username string, viewer primitive.ObjectID) (*domain.ChannelProfile, error)
	WatchHistory(ctx context.Context, id primitive.ObjectID) ([]domain.HistoryVideo, error)
}

// VideoFeedQuery selects and orders the public video feed.
type VideoFeedQuery struct {
	Search   string
	OwnerID  *primitive.ObjectID
	SortBy   string
	SortDesc bool
	Page     domain.PageRequest
}

// VideoUpdate carries the editable video fields. A nil Thumbnail keeps the old one.
type VideoUpdate struct {
	Title       string
	Description string
	Thumbnail   *domain.Media
}

// VideoRepository defines the interface for interacting with video data.
type VideoRepository interface {
	Create(ctx context.Context, video *domain.Video) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Video, error)
	Update(ctx context.Context, id, owner primitive.ObjectID, upd VideoUpdate) (*domain.Video, error)
	// TogglePublish flips isPublished atomically and returns the new state.
	TogglePublish(ctx context.Context, id, owner primitive.ObjectID) (*domain.Video, error)
	IncrementViews(ctx context.Context, id primitive.ObjectID) error
	// DeleteCascade removes the video, its comments and every like on either.
	DeleteCascade(ctx context.Context, id primitive.ObjectID) error

	Feed(ctx context.Context, q VideoFeedQuery) (domain.Page[domain.VideoCard], error)
	Detail(ctx context.Context, id, viewer primitive.ObjectID) (*domain.VideoDetail, error)
}

// CommentRepository defines the interface for interacting with comment data.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Comment, error)
	UpdateContent(ctx context.Context, id primitive.ObjectID, content string) (*domain.Comment, error)
	// Delete removes the comment and the likes on it.
	Delete(ctx context.Context, id primitive.ObjectID) error

	ListByVideo(ctx context.Context, videoID, viewer primitive.ObjectID, page domain.PageRequest) (domain.Page[domain.CommentView], error)
}

// LikeRepository defines the interface for interacting with like markers.
type LikeRepository interface {
	// Toggle removes the marker if present, otherwise creates it. It reports the final state.
	Toggle(ctx context.Context, target domain.LikeTarget, targetID, likedBy primitive.ObjectID) (bool, error)
	LikedVideos(ctx context.Context, likedBy primitive.ObjectID) ([]domain.LikedVideo, error)
}

// PlaylistRepository defines the interface for interacting with playlist data.
type PlaylistRepository interface {
	Create(ctx context.Context, playlist *domain.Playlist) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Playlist, error)
	Update(ctx context.Context, id primitive.ObjectID, name, description string) (*domain.Playlist, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	AddVideo(ctx context.Context, id, videoID primitive.ObjectID) (*domain.Playlist, error)
	RemoveVideo(ctx context.Context, id, videoID primitive.ObjectID) (*domain.Playlist, error)

	Detail(ctx context.Context, id primitive.ObjectID) (*domain.PlaylistDetail, error)
	ListByOwner(ctx context.Context, owner primitive.ObjectID) ([]domain.PlaylistSummary, error)
}

// SubscriptionRepository defines the interface for interacting with subscriptions.
type SubscriptionRepository interface {
	// Toggle removes the subscription if present, otherwise creates it. It reports the final state.
	Toggle(ctx context.Context, subscriber, channel primitive.ObjectID) (bool, error)
	Subscribers(ctx context.Context, channel primitive.ObjectID) ([]domain.SubscriberView, error)
	SubscribedChannels(ctx context.Context, subscriber primitive.ObjectID) ([]domain.SubscribedChannelView, error)
}

// TweetRepository defines the interface for interacting with tweet data.
type TweetRepository interface {
	Create(ctx context.Context, tweet *domain.Tweet) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Tweet, error)
	UpdateContent(ctx context.Context, id primitive.ObjectID, content string) (*domain.Tweet, error)
	// Delete removes the tweet and the likes on it.
	Delete(ctx context.Context, id primitive.ObjectID) error

	ListByOwner(ctx context.Context, owner, viewer primitive.ObjectID) ([]domain.TweetView, error)
}

// DashboardRepository computes channel-wide aggregates.
type DashboardRepository interface {
	ChannelStats(ctx context.Context, owner primitive.ObjectID) (*domain.ChannelStats, error)
	ChannelVideos(ctx context.Context, owner primitive.ObjectID) ([]domain.ChannelVideo, error)
}
