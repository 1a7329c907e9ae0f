package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/BhautikVekariya21/backend/internal/logger"
	"github.com/BhautikVekariya21/backend/internal/repository"
	"github.com/BhautikVekariya21/backend/internal/service"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboardService service.DashboardService
}

func NewDashboardHandler(dashboardService service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

func (h *DashboardHandler) GetChannelStats(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	stats, err := h.dashboardService.Stats(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, stats, "Channel stats fetched successfully")
}

func (h *DashboardHandler) GetChannelVideos(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	videos, err := h.dashboardService.Videos(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, videos, "Channel videos fetched successfully")
}

// HealthHandler reports whether the database answers.
type HealthHandler struct {
	db    repository.HealthChecker
	cache repository.HealthChecker
}

// NewHealthHandler wires the checks. cache may be nil.
func NewHealthHandler(db, cache repository.HealthChecker) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		respondError(c, fmt.Errorf("database ping: %w", err))
		return
	}

	data := gin.H{"message": "Everything is O.K", "dbStatus": "connected"}
	if h.cache != nil {
		data["cacheStatus"] = "connected"
		if err := h.cache.Ping(ctx); err != nil {
			logger.FromContext(ctx).WithError(err).Warn("cache ping failed")
			data["cacheStatus"] = "unavailable"
		}
	}
	respond(c, http.StatusOK, data, "Health check passed")
}
