package api

import (
	"net/http"
	"strconv"

	"github.com/BhautikVekariya21/backend/internal/domain"
	"github.com/BhautikVekariya21/backend/internal/metrics"
	"github.com/BhautikVekariya21/backend/internal/service"

	"github.com/gin-gonic/gin"
)

type LikeHandler struct {
	likeService service.LikeService
	metrics     *metrics.Metrics
}

// NewLikeHandler wires the handler. m may be nil.
func NewLikeHandler(likeService service.LikeService, m *metrics.Metrics) *LikeHandler {
	return &LikeHandler{likeService: likeService, metrics: m}
}

func (h *LikeHandler) ToggleVideoLike(c *gin.Context) {
	h.toggle(c, domain.LikeTargetVideo, "videoId")
}

func (h *LikeHandler) ToggleCommentLike(c *gin.Context) {
	h.toggle(c, domain.LikeTargetComment, "commentId")
}

func (h *LikeHandler) ToggleTweetLike(c *gin.Context) {
	h.toggle(c, domain.LikeTargetTweet, "tweetId")
}

func (h *LikeHandler) toggle(c *gin.Context, target domain.LikeTarget, param string) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	targetID, ok := objectIDParam(c, param)
	if !ok {
		return
	}

	liked, err := h.likeService.Toggle(c.Request.Context(), target, targetID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.LikesToggled.WithLabelValues(string(target), strconv.FormatBool(liked)).Inc()
	}

	message := "Like removed successfully"
	if liked {
		message = "Liked successfully"
	}
	respond(c, http.StatusOK, gin.H{"isLiked": liked}, message)
}

func (h *LikeHandler) GetLikedVideos(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	videos, err := h.likeService.LikedVideos(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, videos, "Liked videos fetched successfully")
}
