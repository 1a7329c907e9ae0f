package api

import (
	"context"
	"net/http"

	"github.com/BhautikVekariya21/backend/internal/domain"
	"github.com/BhautikVekariya21/backend/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserHandler serves profile and channel endpoints.
type UserHandler struct {
	userService service.UserService
	uploads     *UploadIntake
}

func NewUserHandler(userService service.UserService, uploads *UploadIntake) *UserHandler {
	return &UserHandler{userService: userService, uploads: uploads}
}

type UpdateAccountRequest struct {
	FullName string `json:"fullName" binding:"required,notblank"`
	Email    string `json:"email" binding:"required,notblank,email"`
}

func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	user, err := h.userService.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, user, "Current user fetched successfully")
}

func (h *UserHandler) UpdateAccountDetails(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.userService.UpdateAccountDetails(c.Request.Context(), userID, req.FullName, req.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, user, "Account details updated successfully")
}

func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	h.updateImage(c, fieldAvatar, h.userService.UpdateAvatar, "Avatar updated successfully")
}

func (h *UserHandler) UpdateCoverImage(c *gin.Context) {
	h.updateImage(c, fieldCoverImage, h.userService.UpdateCoverImage, "Cover image updated successfully")
}

func (h *UserHandler) updateImage(
	c *gin.Context,
	field string,
	update func(ctx context.Context, id primitive.ObjectID, localPath string) (*domain.User, error),
	message string,
) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var saved tempFiles
	defer saved.cleanup(c)

	path, err := h.uploads.Save(c, field, domain.MediaImage, &saved)
	if err != nil {
		respondError(c, err)
		return
	}

	user, err := update(c.Request.Context(), userID, path)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, user, message)
}

func (h *UserHandler) GetChannelProfile(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	profile, err := h.userService.ChannelProfile(c.Request.Context(), c.Param("username"), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, profile, "User channel fetched successfully")
}

func (h *UserHandler) GetWatchHistory(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	history, err := h.userService.WatchHistory(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, history, "Watch history fetched successfully")
}
