package api

import (
	"fmt"
	"net/http"

	"github.com/BhautikVekariya21/backend/internal/metrics"
	"github.com/BhautikVekariya21/backend/internal/repository"
	"github.com/BhautikVekariya21/backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Dependencies is everything the router needs. Metrics, Gatherer, Cache and
// AuthLimiter are optional.
type Dependencies struct {
	Log     *logrus.Logger
	Metrics *metrics.Metrics
	// Gatherer backs GET /metrics. Nil falls back to the default registry.
	Gatherer    prometheus.Gatherer
	DB          repository.HealthChecker
	Cache       repository.HealthChecker
	AuthLimiter RateLimiter
	Uploads     *UploadIntake
	Cookies     CookieConfig
	CORSOrigin  string

	Auth          service.AuthService
	Users         service.UserService
	Videos        service.VideoService
	Comments      service.CommentService
	Likes         service.LikeService
	Playlists     service.PlaylistService
	Subscriptions service.SubscriptionService
	Tweets        service.TweetService
	Dashboard     service.DashboardService
}

// NewRouter builds the bare engine. Only trustedProxies may set
// X-Forwarded-For; with none, ClientIP is the socket address.
func NewRouter(trustedProxies []string) (*gin.Engine, error) {
	router := gin.New()
	// Larger multipart bodies spill to disk instead of memory.
	router.MaxMultipartMemory = 32 << 20
	if err := router.SetTrustedProxies(trustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	return router, nil
}

func SetupRoutes(router *gin.Engine, deps Dependencies) {
	router.Use(RequestLogger(deps.Log), CORSMiddleware(deps.CORSOrigin))
	if deps.Metrics != nil {
		router.Use(MetricsMiddleware(deps.Metrics))
	}

	router.NoRoute(func(c *gin.Context) {
		abortWithError(c, http.StatusNotFound, "Route not found")
	})

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	authHandler := NewAuthHandler(deps.Auth, deps.Uploads, deps.Cookies)
	userHandler := NewUserHandler(deps.Users, deps.Uploads)
	videoHandler := NewVideoHandler(deps.Videos, deps.Uploads)
	commentHandler := NewCommentHandler(deps.Comments)
	likeHandler := NewLikeHandler(deps.Likes, deps.Metrics)
	playlistHandler := NewPlaylistHandler(deps.Playlists)
	subscriptionHandler := NewSubscriptionHandler(deps.Subscriptions)
	tweetHandler := NewTweetHandler(deps.Tweets)
	dashboardHandler := NewDashboardHandler(deps.Dashboard)
	healthHandler := NewHealthHandler(deps.DB, deps.Cache)

	authMiddleware := AuthMiddleware(deps.Auth)
	limited := func(h gin.HandlerFunc) []gin.HandlerFunc {
		if deps.AuthLimiter == nil {
			return []gin.HandlerFunc{h}
		}
		return []gin.HandlerFunc{RateLimitMiddleware(deps.AuthLimiter), h}
	}

	imageBody, videoBody := limitBody(0), limitBody(0)
	if deps.Uploads != nil {
		imageBody, videoBody = deps.Uploads.ImageBody(), deps.Uploads.VideoBody()
	}

	apiV1 := router.Group("/api/v1")
	apiV1.GET("/healthcheck", healthHandler.Check)

	users := apiV1.Group("/users")
	{
		users.POST("/register", imageBody, authHandler.Register)
		users.POST("/login", limited(authHandler.Login)...)
		users.POST("/refresh-token", limited(authHandler.RefreshToken)...)

		me := users.Group("", authMiddleware)
		me.POST("/logout", authHandler.Logout)
		me.POST("/change-password", authHandler.ChangePassword)
		me.GET("/current-user", userHandler.GetCurrentUser)
		me.PATCH("/update-account", userHandler.UpdateAccountDetails)
		me.PATCH("/avatar", imageBody, userHandler.UpdateAvatar)
		me.PATCH("/cover-image", imageBody, userHandler.UpdateCoverImage)
		me.GET("/c/:username", userHandler.GetChannelProfile)
		me.GET("/history", userHandler.GetWatchHistory)
	}

	protected := apiV1.Group("", authMiddleware)

	videos := protected.Group("/videos")
	{
		videos.GET("", videoHandler.GetAllVideos)
		videos.POST("", videoBody, videoHandler.PublishVideo)
		videos.GET("/:videoId", videoHandler.GetVideoByID)
		videos.PATCH("/:videoId", imageBody, videoHandler.UpdateVideo)
		videos.DELETE("/:videoId", videoHandler.DeleteVideo)
		videos.PATCH("/toggle/publish/:videoId", videoHandler.TogglePublishStatus)
	}

	comments := protected.Group("/comments")
	{
		comments.GET("/:videoId", commentHandler.GetVideoComments)
		comments.POST("/:videoId", commentHandler.AddComment)
		comments.PATCH("/c/:commentId", commentHandler.UpdateComment)
		comments.DELETE("/c/:commentId", commentHandler.DeleteComment)
	}

	likes := protected.Group("/likes")
	{
		likes.POST("/toggle/v/:videoId", likeHandler.ToggleVideoLike)
		likes.POST("/toggle/c/:commentId", likeHandler.ToggleCommentLike)
		likes.POST("/toggle/t/:tweetId", likeHandler.ToggleTweetLike)
		likes.GET("/videos", likeHandler.GetLikedVideos)
	}

	playlists := protected.Group("/playlist")
	{
		playlists.POST("", playlistHandler.CreatePlaylist)
		playlists.GET("/:playlistId", playlistHandler.GetPlaylistByID)
		playlists.PATCH("/:playlistId", playlistHandler.UpdatePlaylist)
		playlists.DELETE("/:playlistId", playlistHandler.DeletePlaylist)
		playlists.PATCH("/add/:videoId/:playlistId", playlistHandler.AddVideoToPlaylist)
		playlists.PATCH("/remove/:videoId/:playlistId", playlistHandler.RemoveVideoFromPlaylist)
		playlists.GET("/user/:userId", playlistHandler.GetUserPlaylists)
	}

	subscriptions := protected.Group("/subscriptions")
	{
		subscriptions.POST("/c/:channelId", subscriptionHandler.ToggleSubscription)
		subscriptions.GET("/c/:channelId", subscriptionHandler.GetChannelSubscribers)
		subscriptions.GET("/u/:subscriberId", subscriptionHandler.GetSubscribedChannels)
	}

	tweets := protected.Group("/tweets")
	{
		tweets.POST("", tweetHandler.CreateTweet)
		tweets.GET("/user/:userId", tweetHandler.GetUserTweets)
		tweets.PATCH("/:tweetId", tweetHandler.UpdateTweet)
		tweets.DELETE("/:tweetId", tweetHandler.DeleteTweet)
	}

	dashboard := protected.Group("/dashboard")
	{
		dashboard.GET("/stats", dashboardHandler.GetChannelStats)
		dashboard.GET("/videos", dashboardHandler.GetChannelVideos)
	}
}
