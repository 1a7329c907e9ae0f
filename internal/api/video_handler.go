package api

import (
	"net/http"
	"strings"

	"github.com/BhautikVekariya21/backend/internal/domain"
	"github.com/BhautikVekariya21/backend/internal/repository"
	"github.com/BhautikVekariya21/backend/internal/service"

	"github.com/gin-gonic/gin"
)

type VideoHandler struct {
	videoService service.VideoService
	uploads      *UploadIntake
}

func NewVideoHandler(videoService service.VideoService, uploads *UploadIntake) *VideoHandler {
	return &VideoHandler{videoService: videoService, uploads: uploads}
}

type PublishVideoRequest struct {
	Title       string  `form:"title"`
	Description string  `form:"description"`
	Duration    float64 `form:"duration"`
}

type UpdateVideoRequest struct {
	Title       string `form:"title" json:"title"`
	Description string `form:"description" json:"description"`
}

// GetAllVideos lists published videos filtered by query and userId.
func (h *VideoHandler) GetAllVideos(c *gin.Context) {
	ownerID, ok := optionalObjectIDQuery(c, "userId")
	if !ok {
		return
	}

	page, err := h.videoService.Feed(c.Request.Context(), repository.VideoFeedQuery{
		Search:   c.Query("query"),
		OwnerID:  ownerID,
		SortBy:   c.Query("sortBy"),
		SortDesc: !strings.EqualFold(c.Query("sortType"), "asc"),
		Page:     pageQuery(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, page, "Videos fetched successfully")
}

func (h *VideoHandler) PublishVideo(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req PublishVideoRequest
	if err := c.ShouldBind(&req); err != nil {
		bindError(c, err)
		return
	}

	var saved tempFiles
	defer saved.cleanup(c)

	videoPath, err := h.uploads.Save(c, fieldVideoFile, domain.MediaVideo, &saved)
	if err != nil {
		respondError(c, err)
		return
	}
	thumbnailPath, err := h.uploads.Save(c, fieldThumbnail, domain.MediaImage, &saved)
	if err != nil {
		respondError(c, err)
		return
	}

	video, err := h.videoService.Publish(c.Request.Context(), userID, service.PublishVideoInput{
		Title:         req.Title,
		Description:   req.Description,
		VideoPath:     videoPath,
		ThumbnailPath: thumbnailPath,
		Duration:      req.Duration,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, video, "Video uploaded successfully")
}

// GetVideoByID returns the video page and counts the view.
func (h *VideoHandler) GetVideoByID(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	videoID, ok := objectIDParam(c, "videoId")
	if !ok {
		return
	}

	video, err := h.videoService.Watch(c.Request.Context(), videoID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, video, "Video details fetched successfully")
}

func (h *VideoHandler) UpdateVideo(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	videoID, ok := objectIDParam(c, "videoId")
	if !ok {
		return
	}
	var req UpdateVideoRequest
	if err := c.ShouldBind(&req); err != nil {
		bindError(c, err)
		return
	}

	var saved tempFiles
	defer saved.cleanup(c)

	thumbnailPath, err := h.uploads.Save(c, fieldThumbnail, domain.MediaImage, &saved)
	if err != nil {
		respondError(c, err)
		return
	}

	video, err := h.videoService.Update(c.Request.Context(), videoID, userID, service.UpdateVideoInput{
		Title:         req.Title,
		Description:   req.Description,
		ThumbnailPath: thumbnailPath,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, video, "Video updated successfully")
}

func (h *VideoHandler) DeleteVideo(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	videoID, ok := objectIDParam(c, "videoId")
	if !ok {
		return
	}

	if err := h.videoService.Delete(c.Request.Context(), videoID, userID); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{}, "Video deleted successfully")
}

func (h *VideoHandler) TogglePublishStatus(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	videoID, ok := objectIDParam(c, "videoId")
	if !ok {
		return
	}

	video, err := h.videoService.TogglePublish(c.Request.Context(), videoID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"isPublished": video.IsPublished}, "Video publish status toggled successfully")
}
