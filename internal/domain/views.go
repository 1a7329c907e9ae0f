package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// The types below are shapes produced by aggregation pipelines. Fields mirror
// what each pipeline projects; they are read-only views, never persisted.

// OwnerSummary is the public slice of a user embedded in other views.
type OwnerSummary struct {
	ID       primitive.ObjectID `bson:"_id" json:"_id"`
	Username string             `bson:"username" json:"username"`
	FullName string             `bson:"fullName,omitempty" json:"fullName,omitempty"`
	Avatar   Media              `bson:"avatar" json:"avatar"`
}

// VideoCard is a video as listed in feeds.
type VideoCard struct {
	ID           primitive.ObjectID `bson:"_id" json:"_id"`
	VideoFile    Media              `bson:"videoFile" json:"videoFile"`
	Thumbnail    Media              `bson:"thumbnail" json:"thumbnail"`
	Title        string             `bson:"title" json:"title"`
	Description  string             `bson:"description" json:"description"`
	Duration     float64            `bson:"duration" json:"duration"`
	Views        int64              `bson:"views" json:"views"`
	IsPublished  bool               `bson:"isPublished" json:"isPublished"`
	Owner        primitive.ObjectID `bson:"owner" json:"owner"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	OwnerDetails *OwnerSummary      `bson:"ownerDetails,omitempty" json:"ownerDetails"`
}

// ChannelSummary is a video owner together with subscription facts about the caller.
type ChannelSummary struct {
	ID               primitive.ObjectID `bson:"_id" json:"_id"`
	Username         string             `bson:"username" json:"username"`
	Avatar           Media              `bson:"avatar" json:"avatar"`
	SubscribersCount int64              `bson:"subscribersCount" json:"subscribersCount"`
	IsSubscribed     bool               `bson:"isSubscribed" json:"isSubscribed"`
}

// VideoDetail is a single video page.
type VideoDetail struct {
	ID          primitive.ObjectID `bson:"_id" json:"_id"`
	VideoFile   Media              `bson:"videoFile" json:"videoFile"`
	Thumbnail   Media              `bson:"thumbnail" json:"thumbnail"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Views       int64              `bson:"views" json:"views"`
	Duration    float64            `bson:"duration" json:"duration"`
	IsPublished bool               `bson:"isPublished" json:"isPublished"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	Owner       *ChannelSummary    `bson:"owner,omitempty" json:"owner"`
	LikesCount  int64              `bson:"likesCount" json:"likesCount"`
	IsLiked     bool               `bson:"isLiked" json:"isLiked"`
}

// ChannelProfile is a user's public channel page.
type ChannelProfile struct {
	ID                        primitive.ObjectID `bson:"_id" json:"_id"`
	FullName                  string             `bson:"fullName" json:"fullName"`
	Username                  string             `bson:"username" json:"username"`
	Email                     string             `bson:"email" json:"email"`
	Avatar                    Media              `bson:"avatar" json:"avatar"`
	CoverImage                *Media             `bson:"coverImage,omitempty" json:"coverImage,omitempty"`
	SubscribersCount          int64              `bson:"subscribersCount" json:"subscribersCount"`
	ChannelsSubscribedToCount int64              `bson:"channelsSubscribedToCount" json:"channelsSubscribedToCount"`
	IsSubscribed              bool               `bson:"isSubscribed" json:"isSubscribed"`
}

// HistoryVideo is a watched video with its owner inlined.
type HistoryVideo struct {
	ID          primitive.ObjectID `bson:"_id" json:"_id"`
	VideoFile   Media              `bson:"videoFile" json:"videoFile"`
	Thumbnail   Media              `bson:"thumbnail" json:"thumbnail"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Duration    float64            `bson:"duration" json:"duration"`
	Views       int64              `bson:"views" json:"views"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	Owner       *OwnerSummary      `bson:"owner,omitempty" json:"owner"`
}

// CommentView is a comment as listed under a video.
type CommentView struct {
	ID         primitive.ObjectID `bson:"_id" json:"_id"`
	Content    string             `bson:"content" json:"content"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	LikesCount int64              `bson:"likesCount" json:"likesCount"`
	Owner      *OwnerSummary      `bson:"owner,omitempty" json:"owner"`
	IsLiked    bool               `bson:"isLiked" json:"isLiked"`
}

// TweetView is a tweet as listed on a channel.
type TweetView struct {
	ID           primitive.ObjectID `bson:"_id" json:"_id"`
	Content      string             `bson:"content" json:"content"`
	OwnerDetails *OwnerSummary      `bson:"ownerDetails,omitempty" json:"ownerDetails"`
	LikesCount   int64              `bson:"likesCount" json:"likesCount"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	IsLiked      bool               `bson:"isLiked" json:"isLiked"`
}

// LikedVideo wraps a video the caller liked.
type LikedVideo struct {
	LikedVideo VideoCard `bson:"likedVideo" json:"likedVideo"`
}

// PlaylistVideo is a video as shown inside a playlist or as a latest upload.
type PlaylistVideo struct {
	ID          primitive.ObjectID `bson:"_id" json:"_id"`
	VideoFile   Media              `bson:"videoFile" json:"videoFile"`
	Thumbnail   Media              `bson:"thumbnail" json:"thumbnail"`
	Owner       primitive.ObjectID `bson:"owner,omitempty" json:"owner,omitempty"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Duration    float64            `bson:"duration" json:"duration"`
	Views       int64              `bson:"views" json:"views"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

// PlaylistDetail is a playlist with its published videos and totals.
type PlaylistDetail struct {
	ID          primitive.ObjectID `bson:"_id" json:"_id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
	TotalVideos int64              `bson:"totalVideos" json:"totalVideos"`
	TotalViews  int64              `bson:"totalViews" json:"totalViews"`
	Videos      []PlaylistVideo    `bson:"videos" json:"videos"`
	Owner       *OwnerSummary      `bson:"owner,omitempty" json:"owner"`
}

// PlaylistSummary is a playlist as listed on a user's page.
type PlaylistSummary struct {
	ID          primitive.ObjectID `bson:"_id" json:"_id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	TotalVideos int64              `bson:"totalVideos" json:"totalVideos"`
	TotalViews  int64              `bson:"totalViews" json:"totalViews"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// SubscriberView is one subscriber of a channel.
type SubscriberView struct {
	Subscriber struct {
		ID                     primitive.ObjectID `bson:"_id" json:"_id"`
		Username               string             `bson:"username" json:"username"`
		FullName               string             `bson:"fullName" json:"fullName"`
		Avatar                 Media              `bson:"avatar" json:"avatar"`
		SubscribedToSubscriber bool               `bson:"subscribedToSubscriber" json:"subscribedToSubscriber"`
		SubscribersCount       int64              `bson:"subscribersCount" json:"subscribersCount"`
	} `bson:"subscriber" json:"subscriber"`
}

// SubscribedChannelView is one channel a user follows.
type SubscribedChannelView struct {
	SubscribedChannel struct {
		ID          primitive.ObjectID `bson:"_id" json:"_id"`
		Username    string             `bson:"username" json:"username"`
		FullName    string             `bson:"fullName" json:"fullName"`
		Avatar      Media              `bson:"avatar" json:"avatar"`
		LatestVideo *PlaylistVideo     `bson:"latestVideo,omitempty" json:"latestVideo"`
	} `bson:"subscribedChannel" json:"subscribedChannel"`
}

// ChannelStats are the dashboard totals of a channel.
type ChannelStats struct {
	TotalSubscribers int64 `bson:"totalSubscribers" json:"totalSubscribers"`
	TotalLikes       int64 `bson:"totalLikes" json:"totalLikes"`
	TotalViews       int64 `bson:"totalViews" json:"totalViews"`
	TotalVideos      int64 `bson:"totalVideos" json:"totalVideos"`
}

// DateParts is a calendar date split the way $dateToParts returns it.
type DateParts struct {
	Year  int `bson:"year" json:"year"`
	Month int `bson:"month" json:"month"`
	Day   int `bson:"day" json:"day"`
}

// ChannelVideo is a video row on the owner's dashboard.
type ChannelVideo struct {
	ID          primitive.ObjectID `bson:"_id" json:"_id"`
	VideoFile   Media              `bson:"videoFile" json:"videoFile"`
	Thumbnail   Media              `bson:"thumbnail" json:"thumbnail"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	CreatedAt   DateParts          `bson:"createdAt" json:"createdAt"`
	IsPublished bool               `bson:"isPublished" json:"isPublished"`
	LikesCount  int64              `bson:"likesCount" json:"likesCount"`
}
