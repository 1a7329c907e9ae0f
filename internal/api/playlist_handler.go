package api

import (
	"context"
	"net/http"

	"github.com/BhautikVekariya21/backend/internal/domain"
	"github.com/BhautikVekariya21/backend/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PlaylistHandler struct {
	playlistService service.PlaylistService
}

func NewPlaylistHandler(playlistService service.PlaylistService) *PlaylistHandler {
	return &PlaylistHandler{playlistService: playlistService}
}

type PlaylistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *PlaylistHandler) CreatePlaylist(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req PlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	playlist, err := h.playlistService.Create(c.Request.Context(), userID, req.Name, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, playlist, "Playlist created successfully")
}

func (h *PlaylistHandler) GetUserPlaylists(c *gin.Context) {
	userID, ok := objectIDParam(c, "userId")
	if !ok {
		return
	}
	playlists, err := h.playlistService.ListByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, playlists, "User playlists fetched successfully")
}

func (h *PlaylistHandler) GetPlaylistByID(c *gin.Context) {
	playlistID, ok := objectIDParam(c, "playlistId")
	if !ok {
		return
	}
	playlist, err := h.playlistService.Get(c.Request.Context(), playlistID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, playlist, "Playlist fetched successfully")
}

func (h *PlaylistHandler) UpdatePlaylist(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	playlistID, ok := objectIDParam(c, "playlistId")
	if !ok {
		return
	}
	var req PlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	playlist, err := h.playlistService.Update(c.Request.Context(), playlistID, userID, req.Name, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, playlist, "Playlist updated successfully")
}

func (h *PlaylistHandler) DeletePlaylist(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	playlistID, ok := objectIDParam(c, "playlistId")
	if !ok {
		return
	}

	if err := h.playlistService.Delete(c.Request.Context(), playlistID, userID); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{}, "Playlist deleted successfully")
}

func (h *PlaylistHandler) AddVideoToPlaylist(c *gin.Context) {
	h.changeVideos(c, h.playlistService.AddVideo, "Video added to playlist successfully")
}

func (h *PlaylistHandler) RemoveVideoFromPlaylist(c *gin.Context) {
	h.changeVideos(c, h.playlistService.RemoveVideo, "Video removed from playlist successfully")
}

func (h *PlaylistHandler) changeVideos(
	c *gin.Context,
	change func(ctx context.Context, id, videoID, caller primitive.ObjectID) (*domain.Playlist, error),
	message string,
) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	videoID, ok := objectIDParam(c, "videoId")
	if !ok {
		return
	}
	playlistID, ok := objectIDParam(c, "playlistId")
	if !ok {
		return
	}

	playlist, err := change(c.Request.Context(), playlistID, videoID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, playlist, message)
}
