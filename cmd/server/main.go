package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BhautikVekariya21/backend/internal/api"
	"github.com/BhautikVekariya21/backend/internal/cache"
	"github.com/BhautikVekariya21/backend/internal/config"
	"github.com/BhautikVekariya21/backend/internal/logger"
	"github.com/BhautikVekariya21/backend/internal/metrics"
	"github.com/BhautikVekariya21/backend/internal/repository/mongo"
	"github.com/BhautikVekariya21/backend/internal/service"
	"github.com/BhautikVekariya21/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logrus.WithError(err).Fatal("could not load config")
	}
	if err := cfg.Validate(); err != nil {
		logrus.WithError(err).Fatal("invalid config")
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		logrus.WithError(err).Fatal("could not set up logging")
	}
	log.Info("Starting VideoTube API server...")

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.WithError(err).Fatal("could not connect to MongoDB")
	}
	defer func() {
		log.Info("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.WithError(err).Error("failed to disconnect MongoDB")
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.WithField("database", cfg.Database.Name).Info("Database connection established.")

	// --- Ensure Indexes ---
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		if err := mongo.EnsureIndexes(ctx, appDB); err != nil {
			log.WithError(err).Error("index creation incomplete")
			return
		}
		log.Info("Index creation process completed.")
	}()

	// --- Storage, cache and metrics ---
	store, err := storage.NewS3Store(context.Background(), cfg.S3)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize S3 storage")
	}
	media := storage.NewGateway(store)

	m := metrics.New(prometheus.DefaultRegisterer)
	statsCache := cache.New(context.Background(), cfg.Redis.URL, log).Instrument(m.CacheHits, m.CacheMisses)
	defer func() {
		if err := statsCache.Close(); err != nil {
			log.WithError(err).Warn("failed to close redis")
		}
	}()

	// --- Initialize Repositories ---
	userRepo := mongo.NewMongoUserRepository(appDB)
	videoRepo := mongo.NewMongoVideoRepository(appDB, cfg.Database.SearchIndex)
	commentRepo := mongo.NewMongoCommentRepository(appDB)
	likeRepo := mongo.NewMongoLikeRepository(appDB)
	playlistRepo := mongo.NewMongoPlaylistRepository(appDB)
	subscriptionRepo := mongo.NewMongoSubscriptionRepository(appDB)
	tweetRepo := mongo.NewMongoTweetRepository(appDB)
	dashboardRepo := mongo.NewMongoDashboardRepository(appDB)

	// --- Initialize Services ---
	dashboardService := service.NewDashboardService(dashboardRepo, statsCache, cfg.Redis.StatsTTL)
	deps := api.Dependencies{
		Log:         log,
		Metrics:     m,
		DB:          mongo.NewHealthChecker(dbClient),
		AuthLimiter: api.NewIPRateLimiter(cfg.RateLimit.AuthRequests, cfg.RateLimit.AuthWindow, cfg.RateLimit.AuthBurst, 10*time.Minute),
		Uploads:     api.NewUploadIntake(cfg.Upload),
		Cookies: api.CookieConfig{
			Secure:        cfg.Server.SecureCookies,
			AccessMaxAge:  cfg.JWT.AccessExpiration,
			RefreshMaxAge: cfg.JWT.RefreshExpiration,
		},
		CORSOrigin: cfg.Server.CORSOrigin,

		Auth: service.NewAuthService(userRepo, media, service.TokenConfig{
			AccessSecret:      cfg.JWT.AccessSecret,
			AccessExpiration:  cfg.JWT.AccessExpiration,
			RefreshSecret:     cfg.JWT.RefreshSecret,
			RefreshExpiration: cfg.JWT.RefreshExpiration,
		}),
		Users:         service.NewUserService(userRepo, media),
		Videos:        service.NewVideoService(videoRepo, userRepo, media),
		Comments:      service.NewCommentService(commentRepo, videoRepo),
		Likes:         service.NewLikeService(likeRepo, videoRepo, commentRepo, tweetRepo, dashboardService),
		Playlists:     service.NewPlaylistService(playlistRepo, videoRepo),
		Subscriptions: service.NewSubscriptionService(subscriptionRepo, userRepo, dashboardService),
		Tweets:        service.NewTweetService(tweetRepo, userRepo),
		Dashboard:     dashboardService,
	}
	if statsCache.Enabled() {
		deps.Cache = statsCache
	}

	// --- Initialize Gin Engine ---
	gin.SetMode(gin.ReleaseMode)
	api.RegisterValidators()
	router, err := api.NewRouter(cfg.Server.TrustedProxies)
	if err != nil {
		log.WithError(err).Fatal("invalid server.trusted_proxies")
	}
	api.SetupRoutes(router, deps)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  5 * time.Minute,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.WithField("addr", cfg.Server.Address).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("ListenAndServe error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.WithError(err).Error("server forced to shutdown")
	}

	log.Info("Server exiting.")
}
